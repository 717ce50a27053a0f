// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rambo implements the massive RAMBO algorithm: N massless
// four-momenta generated isotropically and conformally mapped onto
// the constraint sum(p_i) = (sqrt(s), 0, 0, 0), then rescaled by a
// single Newton-Raphson-solved factor xi so that each momentum
// carries its assigned mass while the total energy is still
// sqrt(s). Used as the "phase_space_generator = uniform" mode named
// in the configuration option table: a flat-in-phase-space
// cross-check against the recursive multichannel generator.
package rambo

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/js-arias/camgen/fourvec"
)

// DefaultNRIterations is used when a caller passes iterations <= 0.
const DefaultNRIterations = 10

// Rescale generates N four-momenta with total invariant mass
// rootS and individual masses given by masses (len(masses) must
// equal n), flat in (n-body) Lorentz-invariant phase space, and
// returns them together with the phase-space weight. iterations
// bounds the Newton-Raphson loop that solves for the mass-rescaling
// factor xi; DefaultNRIterations is used when iterations <= 0.
func Rescale(src *rand.Rand, rootS float64, masses []float64, iterations int) ([]fourvec.Vector, float64, error) {
	n := len(masses)
	if n < 2 {
		return nil, 0, fmt.Errorf("rambo: need at least 2 final-state particles, got %d", n)
	}
	if rootS <= 0 {
		return nil, 0, fmt.Errorf("rambo: rootS must be positive, got %v", rootS)
	}
	var massSum float64
	for _, m := range masses {
		if m < 0 {
			return nil, 0, fmt.Errorf("rambo: negative mass %v", m)
		}
		massSum += m
	}
	if massSum >= rootS {
		return nil, 0, fmt.Errorf("rambo: sum of masses %v exceeds rootS %v", massSum, rootS)
	}
	if iterations <= 0 {
		iterations = DefaultNRIterations
	}

	q := make([]fourvec.Vector, n)
	var qSum fourvec.Vector
	for i := range q {
		c := 2*src.Float64() - 1
		phi := 2 * math.Pi * src.Float64()
		r1, r2 := src.Float64(), src.Float64()
		e := -math.Log(math.Max(r1*r2, 1e-300))
		q[i] = fourvec.FromSpherical(e, e, c, phi)
		qSum = fourvec.Add(qSum, q[i])
	}

	massQ := math.Sqrt(math.Max(qSum.S(), 0))
	if massQ == 0 {
		return nil, 0, fmt.Errorf("rambo: degenerate massless configuration")
	}
	bx, by, bz := -qSum[1]/massQ, -qSum[2]/massQ, -qSum[3]/massQ
	x := rootS / massQ
	gammaQ := qSum[0] / massQ
	a := 1 / (1 + gammaQ)

	p := make([]fourvec.Vector, n)
	for i, qi := range q {
		bq := bx*qi[1] + by*qi[2] + bz*qi[3]
		e := x * (gammaQ*qi[0] + bq)
		px := x * (qi[1] + bx*qi[0] + a*bq*bx)
		py := x * (qi[2] + by*qi[0] + a*bq*by)
		pz := x * (qi[3] + bz*qi[0] + a*bq*bz)
		p[i] = fourvec.New(e, px, py, pz)
	}

	xi := newtonRaphsonXi(p, masses, rootS, iterations)

	final := make([]fourvec.Vector, n)
	kVec := make([]float64, n)
	for i := range p {
		pMag := p[i].PMag()
		kVec[i] = pMag
		e := math.Sqrt(xi*xi*pMag*pMag + masses[i]*masses[i])
		final[i] = fourvec.New(e, xi*p[i][1], xi*p[i][2], xi*p[i][3])
	}

	weight := phaseSpaceWeight(final, kVec, xi, rootS, n)
	return final, weight, nil
}

// newtonRaphsonXi solves sum_i sqrt(xi^2 |p_i|^2 + m_i^2) = rootS
// for xi by Newton-Raphson iteration starting from xi=1 (the
// massless solution already satisfies energy conservation, so xi=1
// is always a good starting point).
func newtonRaphsonXi(p []fourvec.Vector, masses []float64, rootS float64, iterations int) float64 {
	pMag := make([]float64, len(p))
	for i, v := range p {
		pMag[i] = v.PMag()
	}
	xi := 1.0
	for iter := 0; iter < iterations; iter++ {
		var f, df float64
		for i, k := range pMag {
			e := math.Sqrt(xi*xi*k*k + masses[i]*masses[i])
			f += e
			if e > 0 {
				df += xi * k * k / e
			}
		}
		f -= rootS
		if df == 0 {
			break
		}
		xi -= f / df
		if xi <= 0 {
			xi = 1e-6
		}
	}
	return xi
}

// phaseSpaceWeight returns the RAMBO massive-rescaling Jacobian
// weight, proportional to
//
//	xi^(3n-5)  *  prod_i (|p_i| / E_i)  *  sqrt(s)  /  sum_i (|p_i|^2 / E_i)
//
// (|p_i| the massless momenta before rescaling, E_i the final massive
// energies) times the standard n-body massless RAMBO volume factor.
// floats.Prod expresses the product term.
func phaseSpaceWeight(p []fourvec.Vector, kVec []float64, xi, rootS float64, n int) float64 {
	ratios := make([]float64, n)
	sqK := make([]float64, n)
	var denom float64
	for i, v := range p {
		e := v.E()
		if e <= 0 {
			return 0
		}
		ratios[i] = kVec[i] / e
		sqK[i] = kVec[i] * kVec[i]
		denom += sqK[i] / e
	}
	if denom <= 0 {
		return 0
	}

	volume := math.Pow(math.Pi/2, float64(n-1)) *
		math.Pow(rootS, float64(2*n-4)) /
		(factorial(n-1) * factorial(n-2))

	jacobian := math.Pow(xi, float64(3*n-5)) * rootS / denom * floats.Prod(ratios)
	return volume * jacobian
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
