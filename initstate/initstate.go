// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package initstate implements the initial-state sampler families
// named by the initial_state configuration option: a fixed sHat for
// partonic and leptonic beams, and a hadronic sampler that draws
// parton momentum fractions (x1, x2) either directly (forward) or
// through an (sHat, y) parametrization using the inverse-cosh
// rapidity sampler (backward).
package initstate

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/js-arias/camgen/pdf"
	"github.com/js-arias/camgen/sampler"
)

// unitInterval is the auxiliary draw distuv.Uniform{0,1}, used to turn
// a raw RNG call into a quantile-function draw for the forward
// parton momentum fractions, rather than sampling src.Float64()
// directly.
var unitInterval = distuv.Uniform{Min: 0, Max: 1}

// Sampler draws an initial state, returning the partonic invariant
// mass squared (sHat), the partonic rapidity y, and the event weight
// contribution (beam PDF evaluations multiply into this weight).
type Sampler interface {
	Sample(src *rand.Rand) (sHat, y, weight float64, ok bool)
}

// Fixed is the initial-state sampler for partonic and e+e- beams:
// sHat is fixed by construction, both beam momenta are fixed, and
// the weight contribution is always 1.
type Fixed struct {
	SHat float64
}

// Sample implements Sampler.
func (f Fixed) Sample(src *rand.Rand) (float64, float64, float64, bool) {
	if f.SHat <= 0 {
		return 0, 0, 0, false
	}
	return f.SHat, 0, 1, true
}

// Hadronic is the initial-state sampler for pp, ppbar, pbarp and
// pbarpbar beams: it samples the two beam momentum fractions x1, x2
// either directly (Forward) or through the joint (sHat, y)
// parametrization using an inverse-cosh rapidity sampler (Backward),
// and multiplies both beams' PDF evaluations into the event weight.
type Hadronic struct {
	// BeamS is the square of the full hadron-hadron collision
	// energy, S = (p1+p2)^2.
	BeamS float64

	PDF1, PDF2       pdf.Set
	Flavor1, Flavor2 string
	Q2               float64

	// Forward draws x1, x2 directly and derives (sHat, y).
	// Backward instead draws sHat from ShatSampler and y from
	// YSampler, bounded each event to the kinematically allowed
	// rapidity window, then derives (x1, x2).
	Forward     bool
	ShatSampler sampler.Sampler
	YSampler    *sampler.InverseCosh
}

// Sample implements Sampler.
func (h Hadronic) Sample(src *rand.Rand) (float64, float64, float64, bool) {
	if h.BeamS <= 0 {
		return 0, 0, 0, false
	}
	if h.Forward {
		return h.sampleForward(src)
	}
	return h.sampleBackward(src)
}

func (h Hadronic) sampleForward(src *rand.Rand) (float64, float64, float64, bool) {
	x1 := unitInterval.Quantile(src.Float64())
	x2 := unitInterval.Quantile(src.Float64())
	if x1 <= 0 || x2 <= 0 {
		return 0, 0, 0, false
	}
	sHat := x1 * x2 * h.BeamS
	y := 0.5 * math.Log(x1/x2)
	w := h.beamWeight(x1, x2)
	return sHat, y, w, true
}

func (h Hadronic) sampleBackward(src *rand.Rand) (float64, float64, float64, bool) {
	if h.ShatSampler == nil || h.YSampler == nil {
		return 0, 0, 0, false
	}
	sHat, shatWeight, ok := h.ShatSampler.Generate(src)
	if !ok || sHat <= 0 || sHat >= h.BeamS {
		return 0, 0, 0, false
	}
	yMax := 0.5 * math.Log(h.BeamS/sHat)
	if yMax <= 0 {
		return 0, 0, 0, false
	}
	if !h.YSampler.SetBounds(-yMax, yMax) {
		return 0, 0, 0, false
	}
	y, yWeight, ok := h.YSampler.Generate(src)
	if !ok {
		return 0, 0, 0, false
	}
	ratio := math.Sqrt(sHat / h.BeamS)
	x1 := ratio * math.Exp(y)
	x2 := ratio * math.Exp(-y)
	if x1 > 1 || x2 > 1 {
		return 0, 0, 0, false
	}
	w := shatWeight * yWeight * h.beamWeight(x1, x2)
	return sHat, y, w, true
}

func (h Hadronic) beamWeight(x1, x2 float64) float64 {
	w := 1.0
	if h.PDF1 != nil {
		w *= h.PDF1.Value(h.Flavor1, x1, h.Q2)
	}
	if h.PDF2 != nil {
		w *= h.PDF2.Value(h.Flavor2, x2, h.Q2)
	}
	return w
}

// NewHadronic validates and creates a Hadronic sampler.
func NewHadronic(beamS float64, pdf1, pdf2 pdf.Set, flavor1, flavor2 string, q2 float64, forward bool, shatSampler sampler.Sampler, ySampler *sampler.InverseCosh) (Hadronic, error) {
	if beamS <= 0 {
		return Hadronic{}, fmt.Errorf("initstate: beamS must be positive, got %v", beamS)
	}
	if !forward && (shatSampler == nil || ySampler == nil) {
		return Hadronic{}, fmt.Errorf("initstate: backward mode requires both a sHat sampler and a rapidity sampler")
	}
	return Hadronic{
		BeamS:       beamS,
		PDF1:        pdf1,
		PDF2:        pdf2,
		Flavor1:     flavor1,
		Flavor2:     flavor2,
		Q2:          q2,
		Forward:     forward,
		ShatSampler: shatSampler,
		YSampler:    ySampler,
	}, nil
}
