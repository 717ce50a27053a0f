// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cuts implements the invariant-mass, transverse-momentum,
// and pseudorapidity cut surface that bounds the generated final
// state: set_m_min, set_pT_min, and set_eta_max.
package cuts

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/js-arias/camgen/fourvec"
)

// A Set collects the cut surface registered for one process: minimum
// invariant masses over subsets of final-state legs, minimum
// transverse momenta, and maximum pseudorapidities, each keyed by
// final-state index.
type Set struct {
	mMin   map[string]float64
	pTMin  map[int]float64
	etaMax map[int]float64
}

// New returns an empty cut surface (no cuts registered).
func New() *Set {
	return &Set{
		mMin:   make(map[string]float64),
		pTMin:  make(map[int]float64),
		etaMax: make(map[int]float64),
	}
}

// SetMMin registers a minimum invariant mass for the subset of
// final-state legs named by indices (set_m_min(i,j,...,m)). Indices
// are sorted so the subset {1,2} and {2,1} key the same cut.
func (s *Set) SetMMin(indices []int, m float64) {
	s.mMin[subsetKey(indices)] = m
}

// SetPTMin registers a minimum transverse momentum for leg i
// (set_pT_min(i,m)).
func (s *Set) SetPTMin(i int, pt float64) {
	s.pTMin[i] = pt
}

// SetEtaMax registers a maximum |pseudorapidity| for leg i
// (set_eta_max(i,eta)).
func (s *Set) SetEtaMax(i int, eta float64) {
	s.etaMax[i] = eta
}

// MMinCuts returns every registered minimum-invariant-mass cut as the
// subset of leg indices and the cut value, in no particular order.
func (s *Set) MMinCuts() (subsets [][]int, values []float64) {
	for k, v := range s.mMin {
		subsets = append(subsets, parseSubsetKey(k))
		values = append(values, v)
	}
	return subsets, values
}

// Passes reports whether out (the generated final-state momenta,
// indexed as the process's final-state list) satisfies every
// registered cut.
func (s *Set) Passes(out []fourvec.Vector) bool {
	for key, mMin := range s.mMin {
		idx := parseSubsetKey(key)
		sum := fourvec.New(0, 0, 0, 0)
		for _, i := range idx {
			if i < 0 || i >= len(out) {
				continue
			}
			sum = fourvec.Add(sum, out[i])
		}
		if sum.S() < mMin*mMin {
			return false
		}
	}
	for i, ptMin := range s.pTMin {
		if i < 0 || i >= len(out) {
			continue
		}
		if transverseMomentum(out[i]) < ptMin {
			return false
		}
	}
	for i, etaMax := range s.etaMax {
		if i < 0 || i >= len(out) {
			continue
		}
		if math.Abs(pseudorapidity(out[i])) > etaMax {
			return false
		}
	}
	return true
}

func transverseMomentum(v fourvec.Vector) float64 {
	px, py, _ := v.P3()
	return math.Hypot(px, py)
}

func pseudorapidity(v fourvec.Vector) float64 {
	_, _, pz := v.P3()
	p := v.PMag()
	if p <= math.Abs(pz) {
		return math.Inf(int(math.Copysign(1, pz)))
	}
	return 0.5 * math.Log((p+pz)/(p-pz))
}

func subsetKey(indices []int) string {
	idx := append([]int(nil), indices...)
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func parseSubsetKey(key string) []int {
	parts := strings.Split(key, ",")
	idx := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		idx = append(idx, v)
	}
	return idx
}

// String renders a subset of indices in "i,j,...: m" form.
func String(indices []int, m float64) string {
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s: %g", strings.Join(parts, ","), m)
}
