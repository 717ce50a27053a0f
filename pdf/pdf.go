// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pdf implements the parton distribution function
// interface used by the hadronic initial-state sampler, plus two
// toy implementations (flat, and a x^-a(1-x)^b gluon-like shape)
// sufficient to exercise every end-to-end scenario without
// depending on an external grid library.
package pdf

import "math"

// Set evaluates a beam's parton distribution: the probability
// density of finding a parton of the given flavor carrying momentum
// fraction x at factorization scale squared q2.
type Set interface {
	// Value returns f(x, q2) for the named flavor.
	Value(flavor string, x, q2 float64) float64
}

// Flat is a PDF set returning the constant 1 for every flavor, x and
// q2 — used for the partonic and e+e- scenarios, where beam
// substructure is out of scope and the PDF factor in the event
// weight should simply be absent.
type Flat struct{}

// Value always returns 1.
func (Flat) Value(flavor string, x, q2 float64) float64 { return 1 }

// TestToyGluon is a toy gluon PDF shaped like x^-a(1-x)^b, not
// normalized (for A=0.5, B=3 its integral over (0,1) is about 0.914):
// a crude but testable stand-in for a real gluon PDF grid, used by
// the gg-initiated scenarios.
type TestToyGluon struct {
	A, B float64
}

// NewTestToyGluon creates a toy gluon PDF with the given shape
// parameters.
func NewTestToyGluon(a, b float64) TestToyGluon {
	return TestToyGluon{A: a, B: b}
}

// Value returns x^-A * (1-x)^B for any flavor, 0 outside (0,1).
func (g TestToyGluon) Value(flavor string, x, q2 float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return math.Pow(x, -g.A) * math.Pow(1-x, g.B)
}
