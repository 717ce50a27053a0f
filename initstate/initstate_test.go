package initstate_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/js-arias/camgen/initstate"
	"github.com/js-arias/camgen/pdf"
	"github.com/js-arias/camgen/sampler"
)

func TestFixedSampler(t *testing.T) {
	f := initstate.Fixed{SHat: 1000}
	sHat, y, w, ok := f.Sample(rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("Sample failed")
	}
	if sHat != 1000 || y != 0 || w != 1 {
		t.Fatalf("Sample() = (%v,%v,%v), want (1000,0,1)", sHat, y, w)
	}
}

func TestFixedSamplerRejectsNonPositive(t *testing.T) {
	f := initstate.Fixed{SHat: 0}
	if _, _, _, ok := f.Sample(rand.New(rand.NewSource(1))); ok {
		t.Fatal("expected failure for non-positive sHat")
	}
}

func TestHadronicForward(t *testing.T) {
	h, err := initstate.NewHadronic(13000*13000, pdf.Flat{}, pdf.Flat{}, "g", "g", 1000, true, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := rand.New(rand.NewSource(2))
	sHat, _, w, ok := h.Sample(src)
	if !ok {
		t.Fatal("Sample failed")
	}
	if sHat <= 0 || sHat > 13000*13000 {
		t.Fatalf("sHat = %v, out of range", sHat)
	}
	if w != 1 {
		t.Fatalf("weight with Flat PDFs = %v, want 1", w)
	}
}

func TestHadronicBackwardRoundTrip(t *testing.T) {
	shatSampler := sampler.NewBreitWigner(1000, 50)
	if !shatSampler.SetBounds(0, 13000*13000) {
		t.Fatal("SetBounds for shat sampler failed")
	}
	ySampler := sampler.NewInverseCosh(1000)

	h, err := initstate.NewHadronic(13000*13000, pdf.Flat{}, pdf.Flat{}, "g", "g", 1000, false, shatSampler, ySampler)
	if err != nil {
		t.Fatal(err)
	}
	src := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		sHat, y, w, ok := h.Sample(src)
		if !ok {
			continue
		}
		if sHat <= 0 || w <= 0 {
			t.Fatalf("invalid sample: sHat=%v y=%v w=%v", sHat, y, w)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			t.Fatalf("non-finite weight: %v", w)
		}
	}
}

func TestNewHadronicRejectsMissingBackwardSamplers(t *testing.T) {
	if _, err := initstate.NewHadronic(1000, pdf.Flat{}, pdf.Flat{}, "g", "g", 100, false, nil, nil); err == nil {
		t.Fatal("expected error when backward mode is missing samplers")
	}
}
