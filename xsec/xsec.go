// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package xsec implements the running cross-section estimator
// accumulated over a process generator's event loop: a weighted
// mean and its Monte Carlo error, updated one event weight at a
// time (spec section 4.8, step vii).
package xsec

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Estimator accumulates event weights into a running cross-section
// estimate. Every event, even a zero-weight (rejected) one, is
// counted into the denominator n, per the event-loop contract.
type Estimator struct {
	weights []float64
	n       int
}

// New creates an empty estimator.
func New() *Estimator {
	return &Estimator{}
}

// Update records the weight of one generated event.
func (e *Estimator) Update(w float64) {
	e.weights = append(e.weights, w)
	e.n++
}

// N returns the number of events recorded so far.
func (e *Estimator) N() int { return e.n }

// Sigma returns the current cross-section estimate, the mean event
// weight. Returns 0 if no events have been recorded.
func (e *Estimator) Sigma() float64 {
	if e.n == 0 {
		return 0
	}
	return stat.Mean(e.weights, nil)
}

// Error returns the Monte Carlo error on Sigma,
// sqrt(Var(w)/n) = sqrt(<w^2> - <w>^2)/sqrt(n).
func (e *Estimator) Error() float64 {
	if e.n < 2 {
		return 0
	}
	mean, variance := stat.MeanVariance(e.weights, nil)
	_ = mean
	// MeanVariance is the unbiased (n-1) estimate; rescale to <w^2>-<w>^2.
	variance *= float64(e.n-1) / float64(e.n)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance / float64(e.n))
}

// Reset discards every recorded weight.
func (e *Estimator) Reset() {
	e.weights = e.weights[:0]
	e.n = 0
}
