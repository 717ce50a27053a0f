// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampler

import (
	"math"
	"math/rand"
)

// PowerLaw is a value sampler with density |s - m0^2|^-nu, used for
// propagators away from resonance (the default family for the
// s-hat, timelike, spacelike, and auxiliary exponents of the
// configuration).
//
// The cumulative g(s) = sign(s-m0^2)*|s-m0^2|^(1-nu)/(1-nu) (or the
// log form when nu == 1) is monotonic non-decreasing in s whenever
// the pole m0^2 lies inside [xmin,xmax] only if nu < 1 (otherwise the
// integral diverges at the pole), so SetBounds enforces that and,
// outside that case, accepts any nu as long as the sign of s-m0^2 is
// constant over the range.
type PowerLaw struct {
	M0Sq float64
	Nu   float64

	xmin, xmax float64
	bounded    bool
	z          float64
	gMin       float64
}

// NewPowerLaw creates a power-law sampler with pole m0Sq and exponent
// nu; call SetBounds before use.
func NewPowerLaw(m0Sq, nu float64) *PowerLaw {
	return &PowerLaw{M0Sq: m0Sq, Nu: nu}
}

// Kind returns KindPowerLaw.
func (p *PowerLaw) Kind() Kind { return KindPowerLaw }

func (p *PowerLaw) g(s float64) float64 {
	d := s - p.M0Sq
	ad := math.Abs(d)
	sign := 1.0
	if d < 0 {
		sign = -1
	}
	if p.Nu == 1 {
		if ad == 0 {
			return 0
		}
		return sign * math.Log(ad)
	}
	return sign * math.Pow(ad, 1-p.Nu) / (1 - p.Nu)
}

// SetBounds fails when the range is infinite, or when the pole lies
// strictly inside the range and nu >= 1 (non-normalizable).
func (p *PowerLaw) SetBounds(xmin, xmax float64) bool {
	p.bounded = false
	if xmax <= xmin {
		return false
	}
	if math.IsInf(xmin, 0) || math.IsInf(xmax, 0) {
		return false
	}
	poleInside := xmin < p.M0Sq && p.M0Sq < xmax
	if poleInside && p.Nu >= 1 {
		return false
	}
	if (xmin == p.M0Sq || xmax == p.M0Sq) && p.Nu >= 1 {
		return false
	}
	gMin := p.g(xmin)
	gMax := p.g(xmax)
	z := gMax - gMin
	if !(z > 0) || math.IsInf(z, 0) || math.IsNaN(z) {
		return false
	}
	p.xmin, p.xmax = xmin, xmax
	p.gMin = gMin
	p.z = z
	p.bounded = true
	return true
}

// Bounds returns the current range.
func (p *PowerLaw) Bounds() (float64, float64) { return p.xmin, p.xmax }

// Generate draws s in [xmin, xmax] and reports w = Z/rho(s).
func (p *PowerLaw) Generate(src *rand.Rand) (float64, float64, bool) {
	if !p.bounded {
		return 0, 0, false
	}
	s := p.Map(src.Float64())
	w, ok := p.EvaluateWeight(s)
	return s, w, ok
}

// EvaluateWeight recomputes w for an externally supplied s.
func (p *PowerLaw) EvaluateWeight(s float64) (float64, bool) {
	if !p.bounded || s < p.xmin || s > p.xmax {
		return 0, false
	}
	rho := p.Density(s)
	if rho <= 0 || math.IsInf(rho, 0) {
		return 0, false
	}
	return p.z / rho, true
}

// Map inverts the cumulative g to recover s from a uniform variate.
func (p *PowerLaw) Map(u float64) float64 {
	target := p.gMin + u*p.z
	// For nu < 1, g carries the sign of s-m0^2; for nu >= 1 the pole
	// lies outside the range, so the side is fixed by the bounds.
	above := target >= 0
	if p.Nu >= 1 {
		above = p.xmin >= p.M0Sq
	}
	if p.Nu == 1 {
		if above {
			return p.M0Sq + math.Exp(target)
		}
		return p.M0Sq - math.Exp(-target)
	}
	if above {
		d := math.Pow(target*(1-p.Nu), 1/(1-p.Nu))
		return p.M0Sq + d
	}
	d := math.Pow(-target*(1-p.Nu), 1/(1-p.Nu))
	return p.M0Sq - d
}

// InverseMap is the normalized cumulative of s.
func (p *PowerLaw) InverseMap(s float64) float64 {
	if p.z == 0 {
		return 0
	}
	return (p.g(s) - p.gMin) / p.z
}

// Density returns the unnormalized density |s - m0^2|^-nu.
func (p *PowerLaw) Density(s float64) float64 {
	d := math.Abs(s - p.M0Sq)
	if d == 0 {
		if p.Nu <= 0 {
			return 1
		}
		return math.Inf(1)
	}
	return math.Pow(d, -p.Nu)
}

// Z returns the normalization constant computed in SetBounds.
func (p *PowerLaw) Z() float64 { return p.z }
