package sampler_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/sampler"
)

func roundTrip(t *testing.T, name string, s sampler.Sampler, xmin, xmax float64) {
	t.Helper()
	if !s.SetBounds(xmin, xmax) {
		t.Fatalf("%s: SetBounds(%v, %v) failed", name, xmin, xmax)
	}
	for _, u := range []float64{0.001, 0.25, 0.5, 0.75, 0.999} {
		x := s.Map(u)
		got := s.InverseMap(x)
		if math.Abs(got-u) > 1e-6 {
			t.Errorf("%s: InverseMap(Map(%v)) = %v, want %v", name, u, got, u)
		}
	}
}

func TestUniformRoundTrip(t *testing.T) {
	u := sampler.NewUniform()
	roundTrip(t, "uniform", u, -5, 5)

	src := rand.New(rand.NewSource(1))
	x, w, ok := u.Generate(src)
	if !ok {
		t.Fatal("Generate failed")
	}
	if x < -5 || x > 5 {
		t.Fatalf("x = %v out of bounds", x)
	}
	if w != 10 {
		t.Fatalf("w = %v, want 10", w)
	}
	w2, ok := u.EvaluateWeight(x)
	if !ok || w2 != w {
		t.Fatalf("EvaluateWeight after Generate = (%v,%v), want (%v,true)", w2, ok, w)
	}
}

func TestDeltaBounds(t *testing.T) {
	d := sampler.NewDelta(100)
	if d.SetBounds(200, 300) {
		t.Fatal("expected SetBounds to fail when m0^2 is outside the range")
	}
	if !d.SetBounds(0, 200) {
		t.Fatal("expected SetBounds to succeed when m0^2 is inside the range")
	}
	src := rand.New(rand.NewSource(1))
	x, _, ok := d.Generate(src)
	if !ok || x != 100 {
		t.Fatalf("Generate() = (%v, ok=%v), want (100, true)", x, ok)
	}
}

func TestPowerLawRoundTripPoleOutside(t *testing.T) {
	p := sampler.NewPowerLaw(10, 1.5)
	roundTrip(t, "powerlaw(pole outside)", p, 20, 100)
}

func TestPowerLawRoundTripPoleInside(t *testing.T) {
	p := sampler.NewPowerLaw(50, 0.5)
	roundTrip(t, "powerlaw(pole inside, nu<1)", p, 0, 100)
}

func TestPowerLawRejectsDivergentPole(t *testing.T) {
	p := sampler.NewPowerLaw(50, 1.2)
	if p.SetBounds(0, 100) {
		t.Fatal("expected SetBounds to fail: pole inside range with nu >= 1")
	}
}

func TestBreitWignerRoundTrip(t *testing.T) {
	b := sampler.NewBreitWigner(80.4, 2.1)
	roundTrip(t, "breitwigner", b, 0, 10000)
}

func TestBreitWignerGenerateWeightMatchesEvaluate(t *testing.T) {
	b := sampler.NewBreitWigner(91.19, 2.5)
	if !b.SetBounds(0, 20000) {
		t.Fatal("SetBounds failed")
	}
	src := rand.New(rand.NewSource(7))
	x, w, ok := b.Generate(src)
	if !ok {
		t.Fatal("Generate failed")
	}
	w2, ok := b.EvaluateWeight(x)
	if !ok {
		t.Fatal("EvaluateWeight failed")
	}
	if math.Abs(w-w2) > 1e-9 {
		t.Fatalf("weight mismatch: generate=%v evaluate=%v", w, w2)
	}
}

func TestInverseCoshRoundTrip(t *testing.T) {
	ic := sampler.NewInverseCosh(1)
	roundTrip(t, "invcosh", ic, -2, 2)
}

func TestInverseCoshSMassYFromS(t *testing.T) {
	ic := sampler.NewInverseCosh(50)
	y := 0.3
	s := ic.SMass(y)
	got, ok := ic.YFromS(s)
	if !ok {
		t.Fatal("YFromS failed")
	}
	if math.Abs(got-y) > 1e-9 {
		t.Fatalf("YFromS(SMass(y)) = %v, want %v", got, y)
	}
}

func TestIntegrateWithUnsupportedNil(t *testing.T) {
	log := mclog.Default("test")
	b := sampler.NewBreitWigner(80, 2)
	b.SetBounds(0, 10000)
	got := sampler.IntegrateWith(nil, b, 500, log)
	if got != 0 {
		t.Fatalf("IntegrateWith(nil, ...) = %v, want 0", got)
	}
}

func TestIntegrateWithPositive(t *testing.T) {
	log := mclog.Default("test")
	a := sampler.NewUniform()
	a.SetBounds(0, 100)
	b := sampler.NewUniform()
	b.SetBounds(0, 100)
	got := sampler.IntegrateWith(a, b, 500, log)
	if got <= 0 {
		t.Fatalf("IntegrateWith(uniform, uniform) = %v, want > 0", got)
	}
}

func TestIntegrateWithDeltaOperand(t *testing.T) {
	log := mclog.Default("test")
	d := sampler.NewDelta(25)
	d.SetBounds(0, 100)
	u := sampler.NewUniform()
	u.SetBounds(0, 100)
	got := sampler.IntegrateWith(d, u, 500, log)
	if got <= 0 {
		t.Fatalf("IntegrateWith(delta, uniform) = %v, want > 0", got)
	}
}
