// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampler

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// BreitWigner is a value sampler with density
// 1/((s - m0^2)^2 + (m0*Gamma)^2), the relativistic Breit-Wigner
// propagator. That density is a Cauchy (Lorentzian) density in s with
// location m0^2 and scale m0*Gamma up to the constant factor
// pi/(m0*Gamma), so BreitWigner wraps distuv.Cauchy rather than
// reimplementing the arctan inversion by hand. It is always
// normalizable (distuv.Cauchy's CDF is finite everywhere), so
// SetBounds only rejects a degenerate (empty) range or a non-positive
// width.
type BreitWigner struct {
	Mass  float64
	Gamma float64

	dist distuv.Cauchy

	xmin, xmax float64
	bounded    bool
	cdfMin     float64
	cdfRange   float64
}

// NewBreitWigner creates a Breit-Wigner sampler at pole mass and
// width gamma; call SetBounds before use.
func NewBreitWigner(mass, gamma float64) *BreitWigner {
	return &BreitWigner{Mass: mass, Gamma: gamma}
}

// Kind returns KindBreitWigner.
func (b *BreitWigner) Kind() Kind { return KindBreitWigner }

func (b *BreitWigner) m0Sq() float64   { return b.Mass * b.Mass }
func (b *BreitWigner) mGamma() float64 { return b.Mass * b.Gamma }

// SetBounds requires xmax > xmin and a positive width.
func (b *BreitWigner) SetBounds(xmin, xmax float64) bool {
	b.bounded = false
	if xmax <= xmin || b.Gamma <= 0 {
		return false
	}
	b.dist = distuv.Cauchy{Location: b.m0Sq(), Scale: b.mGamma()}
	cdfMin := b.dist.CDF(xmin)
	cdfMax := b.dist.CDF(xmax)
	cdfRange := cdfMax - cdfMin
	if cdfRange <= 0 {
		return false
	}
	b.xmin, b.xmax = xmin, xmax
	b.cdfMin, b.cdfRange = cdfMin, cdfRange
	b.bounded = true
	return true
}

// Bounds returns the current range.
func (b *BreitWigner) Bounds() (float64, float64) { return b.xmin, b.xmax }

// Generate draws s in [xmin, xmax] via distuv.Cauchy's quantile
// function, restricted to the CDF window covered by the bounds.
func (b *BreitWigner) Generate(src *rand.Rand) (float64, float64, bool) {
	if !b.bounded {
		return 0, 0, false
	}
	s := b.Map(src.Float64())
	w, ok := b.EvaluateWeight(s)
	return s, w, ok
}

// EvaluateWeight recomputes w for an externally supplied s.
func (b *BreitWigner) EvaluateWeight(s float64) (float64, bool) {
	if !b.bounded || s < b.xmin || s > b.xmax {
		return 0, false
	}
	mg := b.mGamma()
	y := (s - b.m0Sq()) / mg
	sec2 := 1 + y*y
	w := b.cdfRange * math.Pi * mg * sec2
	return w, true
}

// Map inverts the cumulative via distuv.Cauchy's Quantile, restricted
// to [cdfMin, cdfMin+cdfRange].
func (b *BreitWigner) Map(u float64) float64 {
	return b.dist.Quantile(b.cdfMin + u*b.cdfRange)
}

// InverseMap is the normalized cumulative of s, expressed in terms of
// distuv.Cauchy's own CDF.
func (b *BreitWigner) InverseMap(s float64) float64 {
	return (b.dist.CDF(s) - b.cdfMin) / b.cdfRange
}

// Density returns the unnormalized Breit-Wigner density, recovered
// from distuv.Cauchy's probability density by undoing its 1/(pi*scale)
// normalization.
func (b *BreitWigner) Density(s float64) float64 {
	return b.dist.Prob(s) * math.Pi / b.mGamma()
}

// Z returns the normalization constant over the current bounds.
func (b *BreitWigner) Z() float64 { return b.cdfRange * math.Pi / b.mGamma() }
