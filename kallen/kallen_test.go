package kallen_test

import (
	"math"
	"testing"

	"github.com/js-arias/camgen/kallen"
)

func TestLambdaEqualMasses(t *testing.T) {
	// back-to-back equal mass daughters from a parent at rest:
	// lambda(s, m^2, m^2) with s = (2E)^2 should be positive
	// whenever E > m.
	s := 100.0
	m2 := 4.0
	l := kallen.Lambda(s, m2, m2)
	if l <= 0 {
		t.Fatalf("expected positive lambda, got %v", l)
	}
}

func TestSqrtLambdaNegative(t *testing.T) {
	// daughters heavier than available energy: unphysical.
	_, ok := kallen.SqrtLambda(1, 100, 100)
	if ok {
		t.Fatal("expected kinematically forbidden region")
	}
}

func TestTwoBodyMomentumMassless(t *testing.T) {
	// h -> gamma gamma: both daughters massless,
	// momentum should be m_h/2.
	mh := 125.0
	s := mh * mh
	p, ok := kallen.TwoBodyMomentum(s, 0, 0)
	if !ok {
		t.Fatal("expected valid two-body kinematics")
	}
	if math.Abs(p-mh/2) > 1e-9 {
		t.Fatalf("p = %v, want %v", p, mh/2)
	}
}
