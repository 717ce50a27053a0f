// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sampler

import (
	"math"

	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/kallen"
)

// normalizer is implemented by every concrete Sampler to expose the
// normalization constant computed by SetBounds.
type normalizer interface {
	Z() float64
}

// quadSteps is the number of subdivisions used by the numeric
// double integral in IntegrateWith, for each of the two invariant
// mass axes. K (the number of sampler kinds) is small, so a shared
// numeric quadrature dispatched by a kind-pair table is simpler, and
// no less accurate in practice, than hand-deriving a closed form for
// each of the 25 possible kind pairings.
const quadSteps = 96

// dispatchTable lists which (Kind, Kind) pairs IntegrateWith
// supports. Every pair of the five kinds in this package is
// supported through the shared numeric integrator below; a pair
// naming a kind outside this package (a caller's own Sampler
// implementation) falls through to the "unsupported" branch.
var dispatchTable = func() map[[2]Kind]bool {
	t := make(map[[2]Kind]bool, int(numKinds)*int(numKinds))
	for i := Kind(0); i < numKinds; i++ {
		for j := Kind(0); j < numKinds; j++ {
			t[[2]Kind{i, j}] = true
		}
	}
	return t
}()

// IntegrateWith returns
//
//	Int Int rho1(s1) rho2(s2) sqrt(Lambda(shat, s1, s2)) ds1 ds2 / (Z1 Z2)
//
// over the kinematically allowed region, for two value samplers that
// both already have bounds set and a total invariant mass rootSHat.
// Unsupported pairs (attempted Kind values this package does not
// recognize, or un-normalizable operands) return 0 and log a
// warning, per the error handling design; they never panic.
func IntegrateWith(a, b Sampler, rootSHat float64, log *mclog.Logger) float64 {
	if a == nil || b == nil {
		log.Warnf("integrate_with: nil operand")
		return 0
	}
	if !dispatchTable[[2]Kind{a.Kind(), b.Kind()}] {
		log.Warnf("integrate_with: unsupported sampler pair (%s, %s)", a.Kind(), b.Kind())
		return 0
	}
	na, aok := a.(normalizer)
	nb, bok := b.(normalizer)
	if !aok || !bok {
		log.Warnf("integrate_with: operand does not expose a normalization constant")
		return 0
	}
	za, zb := na.Z(), nb.Z()
	if za <= 0 || zb <= 0 {
		log.Warnf("integrate_with: non-positive normalization constant")
		return 0
	}

	// Dirac-delta operands collapse one integration axis exactly.
	if da, ok := a.(*Delta); ok {
		return deltaFixed(da.M0Sq, b, rootSHat) / zb
	}
	if db, ok := b.(*Delta); ok {
		return deltaFixed(db.M0Sq, a, rootSHat) / za
	}

	aMin, aMax := a.Bounds()
	bMin, bMax := b.Bounds()
	if aMax <= aMin || bMax <= bMin {
		return 0
	}

	shat := rootSHat * rootSHat
	da := (aMax - aMin) / quadSteps
	db := (bMax - bMin) / quadSteps
	var sum float64
	for i := 0; i < quadSteps; i++ {
		s1 := aMin + (float64(i)+0.5)*da
		rho1 := a.Density(s1)
		if rho1 <= 0 || math.IsInf(rho1, 0) {
			continue
		}
		for j := 0; j < quadSteps; j++ {
			s2 := bMin + (float64(j)+0.5)*db
			l, ok := kallen.SqrtLambda(shat, s1, s2)
			if !ok {
				continue
			}
			rho2 := b.Density(s2)
			if rho2 <= 0 || math.IsInf(rho2, 0) {
				continue
			}
			sum += rho1 * rho2 * l
		}
	}
	integral := sum * da * db
	return integral / (za * zb)
}

// deltaFixed integrates a single sampler against a Dirac-delta fixed
// at s = fixed, i.e. it evaluates sqrt(Lambda) * density at s2 = fixed
// over the other sampler's support.
func deltaFixed(fixed float64, other Sampler, rootSHat float64) float64 {
	oMin, oMax := other.Bounds()
	if oMax <= oMin {
		return 0
	}
	shat := rootSHat * rootSHat
	d := (oMax - oMin) / quadSteps
	var sum float64
	for i := 0; i < quadSteps; i++ {
		s := oMin + (float64(i)+0.5)*d
		l, ok := kallen.SqrtLambda(shat, s, fixed)
		if !ok {
			continue
		}
		rho := other.Density(s)
		if rho <= 0 || math.IsInf(rho, 0) {
			continue
		}
		sum += rho * l
	}
	return sum * d
}
