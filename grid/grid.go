// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package grid implements the adaptive binned grid overlaid on a
// value sampler: a partition of the sampler's unit interval into
// variable-width leaves, each holding a running estimate of the
// integrand's contribution, so that sampling probability migrates
// toward regions of large integrand as events accumulate.
package grid

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Mode selects which running statistic a leaf uses as its weight
// estimator.
type Mode int

// The three adaptive-grid leaf-weight estimators named in the
// specification.
const (
	Cumulant Mode = iota
	Variance
	Maximum
)

// A leaf is one bin of the partition of [0,1].
type leaf struct {
	lo, hi float64

	// accumulated statistics since the last Adapt.
	n      int
	sum    float64
	sumSq  float64
	max    float64

	// weight is the normalized probability of drawing from this
	// leaf, set by Adapt (or uniformly at New).
	weight float64
}

func (l *leaf) width() float64 { return l.hi - l.lo }

func (l *leaf) estimate(mode Mode) float64 {
	if l.n == 0 {
		return 0
	}
	switch mode {
	case Cumulant:
		return l.sum
	case Variance:
		mean := l.sum / float64(l.n)
		v := l.sumSq/float64(l.n) - mean*mean
		if v < 0 {
			v = 0
		}
		return v
	case Maximum:
		return l.max
	default:
		return l.sum
	}
}

func (l *leaf) reset() {
	l.n, l.sum, l.sumSq, l.max = 0, 0, 0, 0
}

// Grid is the adaptive binning of the unit interval, held as a flat
// slice of contiguous leaves.
type Grid struct {
	mode    Mode
	maxBins int
	leaves  []*leaf

	lastLeaf int // index selected by the most recent Select
}

// New creates a grid with a single leaf spanning all of [0,1], using
// the given estimator mode and leaf count cap.
func New(mode Mode, maxBins int) *Grid {
	if maxBins < 1 {
		maxBins = 1
	}
	return &Grid{
		mode:    mode,
		maxBins: maxBins,
		leaves:  []*leaf{{lo: 0, hi: 1, weight: 1}},
	}
}

// NumLeaves returns the current number of leaves.
func (g *Grid) NumLeaves() int { return len(g.leaves) }

// Select draws a leaf according to its probability and returns a
// uniform variate u within [0,1] mapped into the leaf, plus the
// Jacobian leafWidth/leafProbability needed to reweight the draw
// back to a uniform-on-[0,1] equivalent. The selected leaf is
// remembered so the following call to Update credits the right bin.
func (g *Grid) Select(src *rand.Rand) (u, jacobian float64) {
	weights := make([]float64, len(g.leaves))
	for i, l := range g.leaves {
		weights[i] = l.weight
	}
	cat := distuv.NewCategorical(weights, src)
	idx := int(cat.Rand())
	g.lastLeaf = idx
	l := g.leaves[idx]
	u = l.lo + src.Float64()*l.width()
	jacobian = l.width() / l.weight
	return u, jacobian
}

// Update records the integrand contribution observed for the most
// recently selected leaf (via Select), accumulating the running
// statistics the configured Mode needs.
func (g *Grid) Update(contribution float64) {
	if len(g.leaves) == 0 {
		return
	}
	l := g.leaves[g.lastLeaf]
	l.n++
	l.sum += contribution
	l.sumSq += contribution * contribution
	if contribution > l.max {
		l.max = contribution
	}
}

// Adapt recomputes leaf probabilities from the accumulated
// estimator, merges the lightest adjacent pair once the leaf count
// has reached maxBins, splits the heaviest leaf, and resets every
// leaf's running statistics for the next batch.
func (g *Grid) Adapt() {
	g.reweight()
	if len(g.leaves) >= g.maxBins {
		g.merge()
	}
	g.split()
	g.reweight()
	for _, l := range g.leaves {
		l.reset()
	}
}

// reweight recomputes each leaf's normalized probability from its
// accumulated estimator.
func (g *Grid) reweight() {
	var total float64
	ests := make([]float64, len(g.leaves))
	for i, l := range g.leaves {
		e := l.estimate(g.mode)
		ests[i] = e
		total += e
	}
	if total <= 0 {
		uniform := 1 / float64(len(g.leaves))
		for _, l := range g.leaves {
			l.weight = uniform
		}
		return
	}
	for i, l := range g.leaves {
		l.weight = ests[i] / total
	}
}

// split divides the heaviest leaf into two equal halves, carrying
// half the accumulated statistics into each half so the following
// reweight still reflects what was learned this batch.
func (g *Grid) split() {
	if len(g.leaves) >= g.maxBins {
		return
	}
	idx := heaviest(g.leaves)
	if idx < 0 {
		return
	}
	l := g.leaves[idx]
	mid := (l.lo + l.hi) / 2
	left := &leaf{lo: l.lo, hi: mid, n: l.n / 2, sum: l.sum / 2, sumSq: l.sumSq / 2, max: l.max}
	right := &leaf{lo: mid, hi: l.hi, n: l.n - l.n/2, sum: l.sum / 2, sumSq: l.sumSq / 2, max: l.max}

	next := make([]*leaf, 0, len(g.leaves)+1)
	next = append(next, g.leaves[:idx]...)
	next = append(next, left, right)
	next = append(next, g.leaves[idx+1:]...)
	g.leaves = next
}

// merge collapses the two adjacent leaves with the smallest combined
// weight into one, keeping the total leaf count from growing
// unbounded as splits accumulate.
func (g *Grid) merge() {
	if len(g.leaves) < 2 {
		return
	}
	bestIdx := -1
	bestW := math.Inf(1)
	for i := 0; i < len(g.leaves)-1; i++ {
		w := g.leaves[i].weight + g.leaves[i+1].weight
		if w < bestW {
			bestW = w
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return
	}
	a, b := g.leaves[bestIdx], g.leaves[bestIdx+1]
	merged := &leaf{
		lo: a.lo, hi: b.hi,
		n: a.n + b.n, sum: a.sum + b.sum, sumSq: a.sumSq + b.sumSq,
		max: math.Max(a.max, b.max),
	}
	next := make([]*leaf, 0, len(g.leaves)-1)
	next = append(next, g.leaves[:bestIdx]...)
	next = append(next, merged)
	next = append(next, g.leaves[bestIdx+2:]...)
	g.leaves = next
}

func heaviest(leaves []*leaf) int {
	if len(leaves) == 0 {
		return -1
	}
	idx := 0
	for i, l := range leaves {
		if l.weight > leaves[idx].weight {
			idx = i
		}
	}
	return idx
}

// LeafView is a read-only snapshot of one leaf, for serialization
// and plotting (the iterator-pair traversal named in the source
// design is expressed in Go as a flat, ordered slice rather than a
// literal iterator pair).
type LeafView struct {
	Lo, Hi float64
	Weight float64
}

// Snapshot returns the grid's leaves in ascending order of Lo.
func (g *Grid) Snapshot() []LeafView {
	views := make([]LeafView, len(g.leaves))
	for i, l := range g.leaves {
		views[i] = LeafView{Lo: l.lo, Hi: l.hi, Weight: l.weight}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Lo < views[j].Lo })
	return views
}

// TotalWidth returns the sum of leaf widths, which must always equal
// 1 (the grid bins the full unit interval).
func (g *Grid) TotalWidth() float64 {
	var w float64
	for _, l := range g.leaves {
		w += l.width()
	}
	return w
}

// TotalProbability returns the sum of leaf probabilities, which must
// always equal 1.
func (g *Grid) TotalProbability() float64 {
	var p float64
	for _, l := range g.leaves {
		p += l.weight
	}
	return p
}
