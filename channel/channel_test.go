package channel_test

import (
	"math/rand"
	"testing"

	"github.com/js-arias/camgen/bitkey"
	"github.com/js-arias/camgen/channel"
	"github.com/js-arias/camgen/fourvec"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/sampler"
)

func TestMomentumChannelStatusMachine(t *testing.T) {
	log := mclog.Default("test")
	key := bitkey.Bit(0).Union(bitkey.Bit(1))
	mc := channel.NewMomentumChannel(key, log)
	if mc.Status() != channel.Reset {
		t.Fatalf("initial status = %v, want Reset", mc.Status())
	}
	mc.SetS(100)
	if mc.Status() != channel.SSet {
		t.Fatalf("status after SetS = %v, want SSet", mc.Status())
	}
	mc.SetP(fourvec.New(10, 0, 0, 0))
	if mc.Status() != channel.PSet {
		t.Fatalf("status after SetP = %v, want PSet", mc.Status())
	}
	if mc.S() != 100 {
		t.Fatalf("S() after SetP = %v, want 100 (evaluate_s from p)", mc.S())
	}
	mc.ResetStatus()
	if mc.Status() != channel.Reset {
		t.Fatalf("status after ResetStatus = %v, want Reset", mc.Status())
	}
}

func TestMomentumChannelMisorderedTransitionDoesNotPanic(t *testing.T) {
	log := mclog.Default("test")
	mc := channel.NewMomentumChannel(bitkey.Bit(0), log)
	// SetP before SetS: misordered, should warn but not fail.
	mc.SetP(fourvec.New(5, 0, 0, 0))
	if mc.Status() != channel.PSet {
		t.Fatalf("status = %v, want PSet even though transition was misordered", mc.Status())
	}
}

func TestArenaSharesMomentumChannelByKey(t *testing.T) {
	a := channel.NewArena(mclog.Default("test"))
	k := bitkey.Bit(2).Union(bitkey.Bit(3))
	mc1 := a.GetOrCreate(k)
	mc2 := a.GetOrCreate(k)
	if mc1 != mc2 {
		t.Fatal("GetOrCreate with the same key should return the same node")
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}

func TestArenaResetAll(t *testing.T) {
	a := channel.NewArena(mclog.Default("test"))
	mc := a.GetOrCreate(bitkey.Bit(0))
	mc.SetS(50)
	a.ResetAll()
	if mc.Status() != channel.Reset {
		t.Fatalf("status after ResetAll = %v, want Reset", mc.Status())
	}
}

func TestParticleChannelLeafGenerate(t *testing.T) {
	pc := channel.NewParticleChannel("mu-", nil, mclog.Default("test"))
	if !pc.IsLeaf() {
		t.Fatal("particle channel with no branchings should be a leaf")
	}
	w, leaf, ok := pc.Generate(rand.New(rand.NewSource(1)))
	if !ok || !leaf || w != 1 {
		t.Fatalf("Generate() on leaf = (%v,%v,%v), want (1,true,true)", w, leaf, ok)
	}
}

type stubBranching struct {
	weight float64
}

func (s *stubBranching) Generate(src *rand.Rand) (float64, bool) { return s.weight, true }
func (s *stubBranching) EvaluateBranchingWeight() (float64, bool) { return s.weight, true }

func TestParticleChannelInsertAndGenerate(t *testing.T) {
	pc := channel.NewParticleChannel("h0", sampler.NewDelta(125*125), mclog.Default("test"))
	if err := pc.InsertBranching(&stubBranching{weight: 2.5}); err != nil {
		t.Fatal(err)
	}
	if pc.IsLeaf() {
		t.Fatal("particle channel with a branching should not be a leaf")
	}
	w, leaf, ok := pc.Generate(rand.New(rand.NewSource(2)))
	if !ok || leaf || w != 2.5 {
		t.Fatalf("Generate() = (%v,%v,%v), want (2.5,false,true)", w, leaf, ok)
	}
}

func TestParticleChannelRemoveBranching(t *testing.T) {
	pc := channel.NewParticleChannel("z0", nil, mclog.Default("test"))
	pc.InsertBranching(&stubBranching{weight: 1})
	pc.InsertBranching(&stubBranching{weight: 2})
	if err := pc.RemoveBranching(0); err != nil {
		t.Fatal(err)
	}
	if pc.IsLeaf() {
		t.Fatal("one branching should remain")
	}
	if err := pc.RemoveBranching(5); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}
