// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mixture implements the multichannel selector: a discrete
// distribution over a fixed set of channels, with weights alpha_k
// that adapt toward the channels contributing the most to an
// integral, and that prune channels whose weight falls below a
// configured threshold.
package mixture

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// stat accumulates the running average contribution of one channel
// between two calls to Adapt.
type stat struct {
	n   int
	sum float64
}

func (s *stat) mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}

func (s *stat) reset() { s.n, s.sum = 0, 0 }

// Selector is a multichannel mixture over n channels, indexed
// 0..n-1.
type Selector struct {
	alpha  []float64
	stats  []stat
	pruned []bool

	lastChannel int
}

// New creates a selector over n channels, each initially weighted
// uniformly.
func New(n int) (*Selector, error) {
	if n < 1 {
		return nil, fmt.Errorf("mixture: channel count must be >= 1, got %d", n)
	}
	s := &Selector{
		alpha:  make([]float64, n),
		stats:  make([]stat, n),
		pruned: make([]bool, n),
	}
	u := 1 / float64(n)
	for i := range s.alpha {
		s.alpha[i] = u
	}
	return s, nil
}

// NumChannels returns the number of channels (pruned or not).
func (s *Selector) NumChannels() int { return len(s.alpha) }

// Alpha returns the current weight of channel k.
func (s *Selector) Alpha(k int) float64 { return s.alpha[k] }

// Pruned reports whether channel k has been permanently excluded.
func (s *Selector) Pruned(k int) bool { return s.pruned[k] }

// ActiveChannels returns the number of channels with nonzero weight.
func (s *Selector) ActiveChannels() int {
	n := 0
	for _, p := range s.pruned {
		if !p {
			n++
		}
	}
	return n
}

// Select draws a channel index according to the current alpha
// weights, and remembers it so the following Update call credits
// the right channel.
func (s *Selector) Select(src *rand.Rand) (int, error) {
	if s.ActiveChannels() == 0 {
		return 0, fmt.Errorf("mixture: no active channels remain")
	}
	cat := distuv.NewCategorical(s.alpha, src)
	idx := int(cat.Rand())
	s.lastChannel = idx
	return idx, nil
}

// Update records the integrand contribution observed for the most
// recently selected channel.
func (s *Selector) Update(contribution float64) {
	st := &s.stats[s.lastChannel]
	st.n++
	st.sum += contribution
}

// Adapt recomputes channel weights from the accumulated
// contributions, interpolating between the current weights (xi=0)
// and weights directly proportional to the observed contribution
// (xi=1):
//
//	alpha_k_new  proportional to  alpha_k^(1-xi) * mean_k^xi
//
// then prunes any channel whose renormalized weight falls below
// threshold, and renormalizes the survivors to sum to 1. Pruning is
// permanent: once a channel is pruned it is never reactivated, even
// if later batches would have favored it.
func (s *Selector) Adapt(xi, threshold float64) {
	raw := make([]float64, len(s.alpha))
	var total float64
	for k := range s.alpha {
		if s.pruned[k] {
			raw[k] = 0
			continue
		}
		mean := s.stats[k].mean()
		if mean <= 0 {
			mean = 0
		}
		v := math.Pow(s.alpha[k], 1-xi) * math.Pow(mean, xi)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		raw[k] = v
		total += v
	}
	if total <= 0 {
		// No information gained this batch: leave weights unchanged.
		for k := range s.stats {
			s.stats[k].reset()
		}
		return
	}
	for k := range s.alpha {
		s.alpha[k] = raw[k] / total
	}

	var survive float64
	for k := range s.alpha {
		if !s.pruned[k] && s.alpha[k] < threshold {
			s.pruned[k] = true
			s.alpha[k] = 0
			continue
		}
		survive += s.alpha[k]
	}
	if survive > 0 {
		for k := range s.alpha {
			if !s.pruned[k] {
				s.alpha[k] /= survive
			}
		}
	}
	for k := range s.stats {
		s.stats[k].reset()
	}
}
