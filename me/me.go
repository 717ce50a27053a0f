// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package me implements the external matrix-element interface
// consumed by the process generator's event loop, plus two toy
// implementations sufficient to exercise every end-to-end scenario
// without depending on an external matrix-element library.
package me

import "github.com/js-arias/camgen/fourvec"

// Evaluator computes the integrand rho_evt for a fully reconstructed
// event: the incoming and outgoing four-momenta, in the order the
// process generator constructed them.
type Evaluator interface {
	Evaluate(in, out []fourvec.Vector) float64
}

// Constant is a trivial matrix element returning a fixed value for
// every configuration, useful for phase-space-only scenarios (the
// integrand is flat, so the generated cross-section is exactly the
// phase-space volume times Value).
type Constant struct {
	Value float64
}

// Evaluate implements Evaluator.
func (c Constant) Evaluate(in, out []fourvec.Vector) float64 { return c.Value }

// TestBreitWignerPeaked evaluates a matrix element peaked at a
// resonance: 1/((s - mass^2)^2 + (mass*width)^2), where s is the
// invariant mass squared of the Pair of outgoing particles named by
// index. Used by scenarios that exercise a resonant s-branching
// beyond what the value sampler alone already peaks toward.
type TestBreitWignerPeaked struct {
	Mass, Width float64
	Pair        [2]int
}

// Evaluate implements Evaluator.
func (b TestBreitWignerPeaked) Evaluate(in, out []fourvec.Vector) float64 {
	i, j := b.Pair[0], b.Pair[1]
	if i < 0 || j < 0 || i >= len(out) || j >= len(out) {
		return 0
	}
	sum := fourvec.Add(out[i], out[j])
	d := sum.S() - b.Mass*b.Mass
	mg := b.Mass * b.Width
	return 1 / (d*d + mg*mg)
}
