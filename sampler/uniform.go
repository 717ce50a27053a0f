// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampler

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform is a flat value sampler on [xmin, xmax], wrapping
// distuv.Uniform directly for its quantile, CDF, and density.
type Uniform struct {
	dist distuv.Uniform

	bounded bool
}

// NewUniform creates an unbounded uniform sampler; call SetBounds
// before use.
func NewUniform() *Uniform {
	return &Uniform{}
}

// Kind returns KindUniform.
func (u *Uniform) Kind() Kind { return KindUniform }

// SetBounds requires xmax > xmin.
func (u *Uniform) SetBounds(xmin, xmax float64) bool {
	if xmax <= xmin {
		u.bounded = false
		return false
	}
	u.dist = distuv.Uniform{Min: xmin, Max: xmax}
	u.bounded = true
	return true
}

// Bounds returns the current range.
func (u *Uniform) Bounds() (float64, float64) { return u.dist.Min, u.dist.Max }

// Generate draws x uniformly in [xmin, xmax] via distuv.Uniform's
// quantile function; the weight is the range width, since the
// unnormalized density is 1.
func (u *Uniform) Generate(src *rand.Rand) (float64, float64, bool) {
	if !u.bounded {
		return 0, 0, false
	}
	x := u.Map(src.Float64())
	return x, u.dist.Max - u.dist.Min, true
}

// EvaluateWeight returns the range width when x is in bounds.
func (u *Uniform) EvaluateWeight(x float64) (float64, bool) {
	if !u.bounded || x < u.dist.Min || x > u.dist.Max {
		return 0, false
	}
	return u.dist.Max - u.dist.Min, true
}

// Map is the inverse CDF, delegated to distuv.Uniform's Quantile.
func (u *Uniform) Map(v float64) float64 {
	return u.dist.Quantile(v)
}

// InverseMap is the CDF, delegated to distuv.Uniform.
func (u *Uniform) InverseMap(x float64) float64 {
	if u.dist.Max == u.dist.Min {
		return 0
	}
	return u.dist.CDF(x)
}

// Density is constant over the support: distuv.Uniform's normalized
// density times its own range recovers the unnormalized density 1.
func (u *Uniform) Density(x float64) float64 {
	if x < u.dist.Min || x > u.dist.Max {
		return 0
	}
	return u.dist.Prob(x) * (u.dist.Max - u.dist.Min)
}

// Z returns the normalization constant xmax - xmin.
func (u *Uniform) Z() float64 { return u.dist.Max - u.dist.Min }
