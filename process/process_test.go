package process_test

import (
	"math"
	"testing"

	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/cuts"
	"github.com/js-arias/camgen/initstate"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/me"
	"github.com/js-arias/camgen/model"
	"github.com/js-arias/camgen/process"
)

func TestParseSpecValid(t *testing.T) {
	s, err := process.ParseSpec("e+,e- > mu+,mu-")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Initial) != 2 || len(s.Final) != 2 {
		t.Fatalf("ParseSpec() = %+v", s)
	}
	if s.Initial[0] != "e+" || s.Final[1] != "mu-" {
		t.Fatalf("ParseSpec() = %+v", s)
	}
}

func TestParseSpecRejectsMissingSeparator(t *testing.T) {
	if _, err := process.ParseSpec("e+,e- mu+,mu-"); err == nil {
		t.Fatal("expected error for missing '>'")
	}
}

func TestParseSpecRejectsWrongInitialCount(t *testing.T) {
	if _, err := process.ParseSpec("g > t,tbar"); err == nil {
		t.Fatal("expected error for != 2 initial-state particles")
	}
}

func TestGenerateEventEndToEnd(t *testing.T) {
	reg := model.New()
	reg.Add(model.Species{Name: "e+", PDG: -11, Mass: 0})
	reg.Add(model.Species{Name: "e-", PDG: 11, Mass: 0})
	reg.Add(model.Species{Name: "mu+", PDG: -13, Mass: 0.1057})
	reg.Add(model.Species{Name: "mu-", PDG: 13, Mass: 0.1057})

	spec, err := process.ParseSpec("e+,e- > mu+,mu-")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.BeamEnergy = 91.19

	init := initstate.Fixed{SHat: cfg.BeamEnergy * cfg.BeamEnergy}
	matrixElement := me.Constant{Value: 1}

	gen, err := process.NewGenerator(spec, cfg, reg, init, matrixElement, nil, nil, 42, mclog.Default("test"))
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for i := 0; i < 50; i++ {
		ev, ok := gen.GenerateEvent()
		if !ok {
			continue
		}
		n++
		if len(ev.Out) != 2 {
			t.Fatalf("event %d: got %d final-state particles, want 2", i, len(ev.Out))
		}
		if ev.Weight < 0 {
			t.Fatalf("event %d: negative weight %v", i, ev.Weight)
		}
	}
	if n == 0 {
		t.Fatal("no events were successfully generated")
	}
	if gen.Xsec.N() != 50 {
		t.Fatalf("Xsec.N() = %d, want 50", gen.Xsec.N())
	}
}

// TestGenerateEventHiggsToDiphoton exercises the h0 -> gamma,gamma
// golden scenario: a massive resonance decaying to two massless
// photons, so the final state's invariant mass must reproduce the
// resonance mass exactly.
func TestGenerateEventHiggsToDiphoton(t *testing.T) {
	reg := model.New()
	reg.Add(model.Species{Name: "h0", PDG: 25, Mass: 125.0, Width: 0.004})
	reg.Add(model.Species{Name: "gamma", PDG: 22, Mass: 0})

	spec, err := process.ParseSpec("h0,h0 > gamma,gamma")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.BeamEnergy = 125.0

	init := initstate.Fixed{SHat: cfg.BeamEnergy * cfg.BeamEnergy}
	gen, err := process.NewGenerator(spec, cfg, reg, init, me.Constant{Value: 1}, nil, nil, 7, mclog.Default("test"))
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for i := 0; i < 50; i++ {
		ev, ok := gen.GenerateEvent()
		if !ok {
			continue
		}
		n++
		if len(ev.Out) != 2 {
			t.Fatalf("event %d: got %d photons, want 2", i, len(ev.Out))
		}
		total := ev.Out[0]
		for _, p := range ev.Out[1:] {
			for k := range total {
				total[k] += p[k]
			}
		}
		mSq := total.S()
		want := cfg.BeamEnergy * cfg.BeamEnergy
		if diff := mSq - want; diff > 1e-3*want || diff < -1e-3*want {
			t.Fatalf("event %d: reconstructed s = %v, want %v", i, mSq, want)
		}
	}
	if n == 0 {
		t.Fatal("no diphoton events were successfully generated")
	}
}

// TestGenerateEventRespectsInvariantMassCut exercises the cut surface
// end to end: a m_min cut above the available phase space must
// reject every event.
func TestGenerateEventRespectsInvariantMassCut(t *testing.T) {
	reg := model.New()
	reg.Add(model.Species{Name: "e+", PDG: -11, Mass: 0})
	reg.Add(model.Species{Name: "e-", PDG: 11, Mass: 0})
	reg.Add(model.Species{Name: "mu+", PDG: -13, Mass: 0.1057})
	reg.Add(model.Species{Name: "mu-", PDG: 13, Mass: 0.1057})

	spec, err := process.ParseSpec("e+,e- > mu+,mu-")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.BeamEnergy = 91.19

	init := initstate.Fixed{SHat: cfg.BeamEnergy * cfg.BeamEnergy}
	gen, err := process.NewGenerator(spec, cfg, reg, init, me.Constant{Value: 1}, nil, nil, 3, mclog.Default("test"))
	if err != nil {
		t.Fatal(err)
	}
	cutSet := cuts.New()
	cutSet.SetMMin([]int{0, 1}, 1e6)
	gen.Cuts = cutSet

	for i := 0; i < 20; i++ {
		if _, ok := gen.GenerateEvent(); ok {
			t.Fatalf("event %d: expected unreachable m_min cut to reject every event", i)
		}
	}
	if gen.Rejects() != 20 {
		t.Fatalf("Rejects() = %d, want 20", gen.Rejects())
	}
}

// TestGenerateEventTopDecayUsesRecursiveWResonance exercises the
// t -> b, (W+* -> mu+, nu_mu) golden scenario: with a recursive tree
// wired in, the mu+/nu_mu invariant mass must come from the W+
// Breit-Wigner propagator built into the s-branching, not from a flat
// RAMBO phase space that has no notion of a resonance to peak at.
func TestGenerateEventTopDecayUsesRecursiveWResonance(t *testing.T) {
	reg := model.New()
	reg.Add(model.Species{Name: "b", PDG: 5, Mass: 4.8})
	reg.Add(model.Species{Name: "mu+", PDG: -13, Mass: 0.1057, Charge: 1})
	reg.Add(model.Species{Name: "nu_mu", PDG: 14, Mass: 0})
	reg.Add(model.Species{Name: "W+", PDG: 24, Mass: 80.4, Width: 2.1, Charge: 1})

	spec, err := process.ParseSpec("u,d > b,mu+,nu_mu")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.BeamEnergy = 172.5

	init := initstate.Fixed{SHat: cfg.BeamEnergy * cfg.BeamEnergy}
	gen, err := process.NewGenerator(spec, cfg, reg, init, me.Constant{Value: 1}, nil, nil, 11, mclog.Default("test"))
	if err != nil {
		t.Fatal(err)
	}

	n, within := 0, 0
	for i := 0; i < 200; i++ {
		ev, ok := gen.GenerateEvent()
		if !ok {
			continue
		}
		n++
		if len(ev.Out) != 3 {
			t.Fatalf("event %d: got %d final-state particles, want 3", i, len(ev.Out))
		}
		wVec := ev.Out[1]
		for k := range wVec {
			wVec[k] += ev.Out[2][k]
		}
		mW := math.Sqrt(wVec.S())
		if math.Abs(mW-80.4) < 10*2.1 {
			within++
		}
	}
	if n == 0 {
		t.Fatal("no top-decay events were successfully generated")
	}
	if within == 0 {
		t.Fatal("no event had a mu+/nu_mu invariant mass near the W+ pole; expected the Breit-Wigner propagator to dominate")
	}
}

func TestApplyConfigValidatesFirst(t *testing.T) {
	reg := model.New()
	reg.Add(model.Species{Name: "a", PDG: 1})
	reg.Add(model.Species{Name: "b", PDG: 2})
	reg.Add(model.Species{Name: "c", PDG: 3})
	reg.Add(model.Species{Name: "d", PDG: 4})
	spec, _ := process.ParseSpec("a,b > c,d")
	cfg := config.Default()
	cfg.BeamEnergy = 100
	gen, err := process.NewGenerator(spec, cfg, reg, initstate.Fixed{SHat: 10000}, me.Constant{Value: 1}, nil, nil, 1, mclog.Default("test"))
	if err != nil {
		t.Fatal(err)
	}
	bad := cfg
	bad.BeamEnergy = -1
	if err := gen.ApplyConfig(bad); err == nil {
		t.Fatal("expected ApplyConfig to reject an invalid configuration")
	}
}
