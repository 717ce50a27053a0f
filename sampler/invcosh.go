// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampler

import (
	"math"
	"math/rand"
)

// InverseCosh is a value sampler with density 1/cosh^2(y) over the
// rapidity y, used for partonic invariant-mass/rapidity sampling
// (spec section 4.7). Unlike the other kinds, its natural domain
// variable is y itself, not an invariant mass squared; SMass converts
// a generated rapidity into the corresponding s = m0^2*cosh(2y).
type InverseCosh struct {
	M0 float64

	ymin, ymax float64
	bounded    bool
	tMin, tRange float64
}

// NewInverseCosh creates an inverse-cosh-rapidity sampler for scale
// m0; call SetBounds before use.
func NewInverseCosh(m0 float64) *InverseCosh {
	return &InverseCosh{M0: m0}
}

// Kind returns KindInverseCosh.
func (ic *InverseCosh) Kind() Kind { return KindInverseCosh }

// SetBounds takes [ymin, ymax] directly in rapidity units.
func (ic *InverseCosh) SetBounds(ymin, ymax float64) bool {
	ic.bounded = false
	if ymax <= ymin {
		return false
	}
	tMin := math.Tanh(ymin)
	tMax := math.Tanh(ymax)
	if tMax <= tMin {
		return false
	}
	ic.ymin, ic.ymax = ymin, ymax
	ic.tMin = tMin
	ic.tRange = tMax - tMin
	ic.bounded = true
	return true
}

// Bounds returns the current rapidity range.
func (ic *InverseCosh) Bounds() (float64, float64) { return ic.ymin, ic.ymax }

// Generate draws a rapidity y in [ymin, ymax].
func (ic *InverseCosh) Generate(src *rand.Rand) (float64, float64, bool) {
	if !ic.bounded {
		return 0, 0, false
	}
	y := ic.Map(src.Float64())
	w, ok := ic.EvaluateWeight(y)
	return y, w, ok
}

// EvaluateWeight recomputes w for an externally supplied rapidity.
func (ic *InverseCosh) EvaluateWeight(y float64) (float64, bool) {
	if !ic.bounded || y < ic.ymin || y > ic.ymax {
		return 0, false
	}
	c := math.Cosh(y)
	return ic.tRange * c * c, true
}

// Map inverts tanh(y) = tMin + u*tRange.
func (ic *InverseCosh) Map(u float64) float64 {
	t := ic.tMin + u*ic.tRange
	return math.Atanh(t)
}

// InverseMap is the normalized cumulative of y.
func (ic *InverseCosh) InverseMap(y float64) float64 {
	if ic.tRange == 0 {
		return 0
	}
	return (math.Tanh(y) - ic.tMin) / ic.tRange
}

// Density returns the unnormalized density 1/cosh^2(y).
func (ic *InverseCosh) Density(y float64) float64 {
	c := math.Cosh(y)
	return 1 / (c * c)
}

// SMass returns s = m0^2*cosh(2y), the invariant mass squared
// corresponding to rapidity y at scale m0.
func (ic *InverseCosh) SMass(y float64) float64 {
	return ic.M0 * ic.M0 * math.Cosh(2*y)
}

// YFromS returns the (non-negative) rapidity corresponding to s,
// inverting SMass. s must be >= m0^2.
func (ic *InverseCosh) YFromS(s float64) (float64, bool) {
	m0Sq := ic.M0 * ic.M0
	if m0Sq <= 0 || s < m0Sq {
		return 0, false
	}
	return math.Acosh(s/m0Sq) / 2, true
}

// Z returns the normalization constant tanh(ymax) - tanh(ymin).
func (ic *InverseCosh) Z() float64 { return ic.tRange }
