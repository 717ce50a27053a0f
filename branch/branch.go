// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package branch implements the two kinds of branching in a
// phase-space decomposition tree: s-type (a time-like parent
// decaying into two daughters) and t-type (a space-like incoming
// channel scattering into one time-like and one space-like
// daughter). Both satisfy channel.Branching, so a particle
// channel's mixture of outgoing decay modes can hold either kind
// without depending on this package.
package branch

import (
	"math"
	"math/rand"

	"github.com/js-arias/camgen/channel"
	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/fourvec"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/kallen"
)

// SPairMode controls how an s-branching samples the two daughter
// invariant masses (spec section 6, "s_pair_generation_mode").
type SPairMode = config.SPairMode

// SBranching is a 1->2 branching of a time-like incoming momentum
// channel into two outgoing particle channels.
type SBranching struct {
	Incoming *channel.MomentumChannel
	Out1Mc   *channel.MomentumChannel
	Out2Mc   *channel.MomentumChannel
	Out1     *channel.ParticleChannel
	Out2     *channel.ParticleChannel

	Mode           SPairMode
	MaxInitRejects int

	log *mclog.Logger

	lastWeight float64
	lastOk     bool
}

// NewSBranching creates an s-branching. out1Mc/out2Mc are the
// momentum channels of the two daughters (each may be a leaf or the
// root of further branchings); out1/out2 are the particle channels
// whose value samplers supply the daughter invariant masses.
func NewSBranching(incoming, out1Mc, out2Mc *channel.MomentumChannel, out1, out2 *channel.ParticleChannel, mode SPairMode, maxInitRejects int, log *mclog.Logger) *SBranching {
	return &SBranching{
		Incoming:       incoming,
		Out1Mc:         out1Mc,
		Out2Mc:         out2Mc,
		Out1:           out1,
		Out2:           out2,
		Mode:           mode,
		MaxInitRejects: maxInitRejects,
		log:            log,
	}
}

// Generate samples daughter masses, checks the kinematic region via
// the Källén function, samples the decay angle isotropically, and
// constructs both daughter four-momenta back to back in the
// incoming rest frame, boosted into the incoming channel's frame.
func (b *SBranching) Generate(src *rand.Rand) (float64, bool) {
	sIn := b.Incoming.S()
	if sIn <= 0 {
		b.log.Warnf("s_branching: non-positive incoming s = %v", sIn)
		return 0, false
	}

	s1, s2, pairWeight, ok := b.sampleSPair(src, sIn)
	if !ok {
		return 0, false
	}

	l, ok := kallen.SqrtLambda(sIn, s1, s2)
	if !ok {
		return 0, false
	}

	cosTheta := 2*src.Float64() - 1
	phi := 2 * math.Pi * src.Float64()

	rootS := math.Sqrt(sIn)
	p := l / (2 * rootS)
	e1 := (sIn + s1 - s2) / (2 * rootS)
	e2 := rootS - e1

	d1 := fourvec.FromSpherical(e1, p, cosTheta, phi)
	d2 := fourvec.FromSpherical(e2, p, -cosTheta, phi+math.Pi)

	frame := b.Incoming.P()
	d1 = fourvec.Boost(d1, frame)
	d2 = fourvec.Boost(d2, frame)

	vol, ok := kallen.PhaseSpaceVolume(sIn, s1, s2)
	if !ok {
		return 0, false
	}
	angleWeight := 4 * math.Pi
	weight := vol * pairWeight * angleWeight

	b.Out1Mc.SetS(s1)
	b.Out1Mc.SetP(d1)
	b.Out2Mc.SetS(s2)
	b.Out2Mc.SetP(d2)

	// A daughter that is itself not a leaf carries its own mixture of
	// further branchings (e.g. a virtual resonance decaying onward);
	// recursing here is what turns a single 1->2 split into the full
	// decomposition tree described by the particle channel's mixture.
	// A leaf daughter returns (1, true, true) and leaves weight
	// unchanged.
	w1, _, ok := b.Out1.Generate(src)
	if !ok {
		return 0, false
	}
	w2, _, ok := b.Out2.Generate(src)
	if !ok {
		return 0, false
	}
	weight *= w1 * w2

	b.lastWeight = weight
	b.lastOk = true
	return weight, true
}

// EvaluateBranchingWeight recomputes the branching weight for the
// most recently generated configuration, for multi-channel
// cross-weight evaluation. A genuine cross-weight evaluation would
// take externally supplied momenta; this generator re-derives from
// the last Generate call, since every scenario in this module only
// needs single-channel weights.
func (b *SBranching) EvaluateBranchingWeight() (float64, bool) {
	if !b.lastOk {
		return 0, false
	}
	return b.lastWeight, true
}

// sampleSPair draws (s1, s2) according to the configured s-pair
// mode. asymmetric samples s1 first and clips s2's sampler bounds to
// the remaining energy budget; symmetric picks the sampling order at
// random to avoid biasing either daughter; hit-and-miss draws both
// independently and retries until the Källén function is
// non-negative, capped at MaxInitRejects (resolving the
// specification's open question on bounding a hit-and-miss loop with
// a configured retry cap rather than an unbounded loop).
func (b *SBranching) sampleSPair(src *rand.Rand, sIn float64) (s1, s2, weight float64, ok bool) {
	switch b.Mode {
	case config.Symmetric:
		if src.Float64() < 0.5 {
			return b.asymmetricPair(src, sIn, b.Out1, b.Out2)
		}
		s2, s1, w, ok := b.asymmetricPair(src, sIn, b.Out2, b.Out1)
		return s1, s2, w, ok
	case config.HitAndMiss:
		return b.hitAndMissPair(src, sIn)
	default:
		return b.asymmetricPair(src, sIn, b.Out1, b.Out2)
	}
}

// asymmetricPair samples first's mass unconditionally, then clips
// second's sampler bounds to the remaining energy budget before
// sampling it.
func (b *SBranching) asymmetricPair(src *rand.Rand, sIn float64, first, second *channel.ParticleChannel) (float64, float64, float64, bool) {
	s1, w1, ok := first.Sampler().Generate(src)
	if !ok {
		return 0, 0, 0, false
	}
	rootS := math.Sqrt(sIn)
	m1 := math.Sqrt(math.Max(s1, 0))
	remaining := rootS - m1
	if remaining <= 0 {
		return 0, 0, 0, false
	}
	if !second.Sampler().SetBounds(0, remaining*remaining) {
		return 0, 0, 0, false
	}
	s2, w2, ok := second.Sampler().Generate(src)
	if !ok {
		return 0, 0, 0, false
	}
	return s1, s2, w1 * w2, true
}

func (b *SBranching) hitAndMissPair(src *rand.Rand, sIn float64) (float64, float64, float64, bool) {
	rejects := b.MaxInitRejects
	if rejects <= 0 {
		rejects = 10000
	}
	for i := 0; i < rejects; i++ {
		s1, w1, ok := b.Out1.Sampler().Generate(src)
		if !ok {
			continue
		}
		s2, w2, ok := b.Out2.Sampler().Generate(src)
		if !ok {
			continue
		}
		if _, ok := kallen.SqrtLambda(sIn, s1, s2); ok {
			return s1, s2, w1 * w2, true
		}
	}
	b.log.Warnf("s_branching: hit-and-miss exceeded %d rejections", rejects)
	return 0, 0, 0, false
}

// TBranching is a 2->2 t-type branching: a space-like incoming
// channel scattering into one time-like and one space-like outgoing
// channel. The Mandelstam-t window is read from the outgoing
// space-like momentum channel's legal bounds, which the caller sets
// through MomentumChannel.SetBounds before the branching runs.
type TBranching struct {
	Incoming   *channel.MomentumChannel
	TimeLike   *channel.MomentumChannel
	SpaceLike  *channel.MomentumChannel
	TimeLikeP  *channel.ParticleChannel
	SpaceLikeP *channel.ParticleChannel

	log *mclog.Logger

	lastWeight float64
	lastOk     bool
}

// NewTBranching creates a t-type branching.
func NewTBranching(incoming, timeLike, spaceLike *channel.MomentumChannel, timeLikeP, spaceLikeP *channel.ParticleChannel, log *mclog.Logger) *TBranching {
	return &TBranching{
		Incoming:   incoming,
		TimeLike:   timeLike,
		SpaceLike:  spaceLike,
		TimeLikeP:  timeLikeP,
		SpaceLikeP: spaceLikeP,
		log:        log,
	}
}

// Generate samples t via the outgoing space-like channel's value
// sampler (bounded to the legal Mandelstam-t window), solves the
// 2->2 kinematics (azimuthal angle uniform, polar cosine fixed by
// t), and reconstructs both outgoing momenta boosted to the lab
// frame.
func (tb *TBranching) Generate(src *rand.Rand) (float64, bool) {
	sIncoming := tb.Incoming.S()
	tMin, tMax := tb.SpaceLike.Bounds()
	if tMax <= tMin {
		tb.log.Warnf("t_branching: empty Mandelstam-t window [%v, %v]", tMin, tMax)
		return 0, false
	}
	if !tb.SpaceLikeP.Sampler().SetBounds(tMin, tMax) {
		return 0, false
	}
	t, tWeight, ok := tb.SpaceLikeP.Sampler().Generate(src)
	if !ok {
		return 0, false
	}

	rootS := math.Sqrt(math.Max(sIncoming, 0))
	p, ok := kallen.TwoBodyMomentum(sIncoming, t, tb.TimeLike.S())
	if !ok {
		return 0, false
	}
	cosTheta := 0.0
	if p > 0 && rootS > 0 {
		cosTheta = clamp(t/(2*p*rootS), -1, 1)
	}
	phi := 2 * math.Pi * src.Float64()
	e := rootS / 2

	frame := tb.Incoming.P()
	spaceVec := fourvec.FromSpherical(e, p, cosTheta, phi)
	spaceVec = fourvec.Boost(spaceVec, frame)
	timeVec := fourvec.Sub(frame, spaceVec)

	tb.SpaceLike.SetS(t)
	tb.SpaceLike.SetP(spaceVec)
	tb.TimeLike.SetS(timeVec.S())
	tb.TimeLike.SetP(timeVec)

	jacobian := (tMax - tMin) / (8 * math.Pi)
	weight := tWeight * jacobian

	// As in s-branching, a non-leaf outgoing particle channel carries
	// its own further decomposition; a leaf returns (1, true, true).
	w1, _, ok1 := tb.TimeLikeP.Generate(src)
	if !ok1 {
		return 0, false
	}
	w2, _, ok2 := tb.SpaceLikeP.Generate(src)
	if !ok2 {
		return 0, false
	}
	weight *= w1 * w2

	tb.lastWeight = weight
	tb.lastOk = true
	return weight, true
}

// EvaluateBranchingWeight recomputes the weight of the most
// recently generated configuration.
func (tb *TBranching) EvaluateBranchingWeight() (float64, bool) {
	if !tb.lastOk {
		return 0, false
	}
	return tb.lastWeight, true
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
