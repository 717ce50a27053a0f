// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampler

import (
	"math"
	"math/rand"
)

// Delta is a Dirac-delta value sampler, delta(s - m0^2), used for a
// stable narrow particle whose invariant mass is fixed at its pole
// mass. Generate always returns m0^2; its weight is treated as
// "exact" by the parent branching, which bypasses this sampler
// entirely when it runs backward s-sampling.
type Delta struct {
	M0Sq float64

	xmin, xmax float64
	bounded    bool
}

// NewDelta creates a Dirac-delta sampler at invariant mass squared
// m0Sq.
func NewDelta(m0Sq float64) *Delta {
	return &Delta{M0Sq: m0Sq}
}

// Kind returns KindDelta.
func (d *Delta) Kind() Kind { return KindDelta }

// SetBounds succeeds only if m0^2 lies within [xmin, xmax].
func (d *Delta) SetBounds(xmin, xmax float64) bool {
	if d.M0Sq < xmin || d.M0Sq > xmax {
		d.bounded = false
		return false
	}
	d.xmin, d.xmax = xmin, xmax
	d.bounded = true
	return true
}

// Bounds returns the current range.
func (d *Delta) Bounds() (float64, float64) { return d.xmin, d.xmax }

// Generate always returns x = m0^2. The weight is formally infinite
// (an exact constraint); by convention this sampler reports weight 1
// so callers that do not special-case KindDelta still get a finite,
// multiplicatively neutral value. Branchings that need the true
// Dirac-delta semantics must check Kind() and bypass Generate.
func (d *Delta) Generate(src *rand.Rand) (x, weight float64, ok bool) {
	if !d.bounded {
		return 0, 0, false
	}
	return d.M0Sq, 1, true
}

// EvaluateWeight returns weight 1 when x equals m0^2 (within the
// caller's tolerance this is normally pre-checked), 0 otherwise.
func (d *Delta) EvaluateWeight(x float64) (float64, bool) {
	if x != d.M0Sq {
		return 0, false
	}
	return 1, true
}

// Map ignores u: every draw lands on m0^2.
func (d *Delta) Map(u float64) float64 { return d.M0Sq }

// InverseMap returns 0.5 for x == m0^2 since the CDF is a step
// function; any other x is outside the support.
func (d *Delta) InverseMap(x float64) float64 {
	if x != d.M0Sq {
		return 0
	}
	return 0.5
}

// Density returns +Inf at m0^2 and 0 elsewhere, matching the formal
// Dirac-delta density.
func (d *Delta) Density(x float64) float64 {
	if x != d.M0Sq {
		return 0
	}
	return math.Inf(1)
}

// Z returns the normalization constant, 1 by the convention
// documented on Generate.
func (d *Delta) Z() float64 { return 1 }
