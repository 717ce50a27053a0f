package branch_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/js-arias/camgen/bitkey"
	"github.com/js-arias/camgen/branch"
	"github.com/js-arias/camgen/channel"
	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/fourvec"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/sampler"
)

func twoBodySetup(t *testing.T, mode config.SPairMode) (*branch.SBranching, *channel.MomentumChannel, *channel.MomentumChannel, *channel.MomentumChannel) {
	t.Helper()
	log := mclog.Default("test")

	parent := channel.NewMomentumChannel(bitkey.Bit(0).Union(bitkey.Bit(1)).Union(bitkey.Bit(2)), log)
	parent.SetS(125 * 125)
	parent.SetP(fourvec.New(125, 0, 0, 0))

	d1mc := channel.NewMomentumChannel(bitkey.Bit(1), log)
	d2mc := channel.NewMomentumChannel(bitkey.Bit(2), log)

	m1 := sampler.NewDelta(0)
	m1.SetBounds(-1, 1)
	m2 := sampler.NewDelta(0)
	m2.SetBounds(-1, 1)
	d1p := channel.NewParticleChannel("gamma", m1, log)
	d2p := channel.NewParticleChannel("gamma", m2, log)

	sb := branch.NewSBranching(parent, d1mc, d2mc, d1p, d2p, mode, 1000, log)
	return sb, parent, d1mc, d2mc
}

func TestSBranchingMasslessTwoBodyConservesEnergy(t *testing.T) {
	sb, parent, d1mc, d2mc := twoBodySetup(t, config.Asymmetric)
	src := rand.New(rand.NewSource(1))
	w, ok := sb.Generate(src)
	if !ok {
		t.Fatal("Generate failed")
	}
	if w <= 0 {
		t.Fatalf("weight = %v, want > 0", w)
	}
	sum := fourvec.Add(d1mc.P(), d2mc.P())
	if math.Abs(sum.E()-parent.P().E()) > 1e-6 {
		t.Fatalf("energy not conserved: %v vs %v", sum.E(), parent.P().E())
	}
}

func TestSBranchingSymmetricMode(t *testing.T) {
	sb, _, d1mc, d2mc := twoBodySetup(t, config.Symmetric)
	src := rand.New(rand.NewSource(2))
	w, ok := sb.Generate(src)
	if !ok || w <= 0 {
		t.Fatalf("Generate() = (%v, %v)", w, ok)
	}
	if d1mc.Status() != channel.PSet || d2mc.Status() != channel.PSet {
		t.Fatal("both daughters should reach PSet")
	}
}

func TestSBranchingHitAndMissMode(t *testing.T) {
	sb, _, _, _ := twoBodySetup(t, config.HitAndMiss)
	src := rand.New(rand.NewSource(3))
	w, ok := sb.Generate(src)
	if !ok || w <= 0 {
		t.Fatalf("Generate() = (%v, %v)", w, ok)
	}
}

func TestSBranchingEvaluateWeightAfterGenerate(t *testing.T) {
	sb, _, _, _ := twoBodySetup(t, config.Asymmetric)
	src := rand.New(rand.NewSource(4))
	w, ok := sb.Generate(src)
	if !ok {
		t.Fatal("Generate failed")
	}
	w2, ok := sb.EvaluateBranchingWeight()
	if !ok || w2 != w {
		t.Fatalf("EvaluateBranchingWeight() = (%v,%v), want (%v,true)", w2, ok, w)
	}
}

func TestSBranchingFailsBeforeGenerate(t *testing.T) {
	sb, _, _, _ := twoBodySetup(t, config.Asymmetric)
	if _, ok := sb.EvaluateBranchingWeight(); ok {
		t.Fatal("expected failure before Generate has run")
	}
}

func TestTBranchingReconstructsMomenta(t *testing.T) {
	log := mclog.Default("test")
	incoming := channel.NewMomentumChannel(bitkey.Bit(0), log)
	incoming.SetS(1000)
	incoming.SetP(fourvec.New(math.Sqrt(1000), 0, 0, 0))

	timeLike := channel.NewMomentumChannel(bitkey.Bit(1), log)
	spaceLike := channel.NewMomentumChannel(bitkey.Bit(2), log)
	spaceLike.SetBounds(-50, -1)

	tSampler := sampler.NewUniform()
	timeSampler := sampler.NewDelta(0)
	timeSampler.SetBounds(-1, 1)
	timeLikeP := channel.NewParticleChannel("q", timeSampler, log)
	spaceLikeP := channel.NewParticleChannel("g", tSampler, log)

	tb := branch.NewTBranching(incoming, timeLike, spaceLike, timeLikeP, spaceLikeP, log)
	src := rand.New(rand.NewSource(9))
	w, ok := tb.Generate(src)
	if !ok {
		t.Fatal("Generate failed")
	}
	if w <= 0 {
		t.Fatalf("weight = %v, want > 0", w)
	}
	sum := fourvec.Add(timeLike.P(), spaceLike.P())
	if math.Abs(sum.E()-incoming.P().E()) > 1e-6 {
		t.Fatalf("energy not conserved: %v vs %v", sum.E(), incoming.P().E())
	}
}

func TestTBranchingRejectsEmptyWindow(t *testing.T) {
	log := mclog.Default("test")
	incoming := channel.NewMomentumChannel(bitkey.Bit(0), log)
	incoming.SetS(1000)
	incoming.SetP(fourvec.New(math.Sqrt(1000), 0, 0, 0))
	timeLike := channel.NewMomentumChannel(bitkey.Bit(1), log)
	spaceLike := channel.NewMomentumChannel(bitkey.Bit(2), log)
	// bounds left at zero-width: tMax <= tMin

	tb := branch.NewTBranching(incoming, timeLike, spaceLike,
		channel.NewParticleChannel("q", sampler.NewDelta(0), log),
		channel.NewParticleChannel("g", sampler.NewUniform(), log), log)
	if _, ok := tb.Generate(rand.New(rand.NewSource(10))); ok {
		t.Fatal("expected failure with empty Mandelstam-t window")
	}
}
