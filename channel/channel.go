// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package channel implements the momentum channel and particle
// channel nodes of a phase-space decomposition tree, and the shared
// DAG arena that lets alternative branchings reuse a momentum
// channel addressed by the same leg-membership bit-string.
package channel

import (
	"fmt"
	"math/rand"

	"github.com/js-arias/camgen/bitkey"
	"github.com/js-arias/camgen/fourvec"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/mixture"
	"github.com/js-arias/camgen/sampler"
)

// Status is the three-state generation status machine of a momentum
// channel.
type Status int

// The three generation states named in the specification.
const (
	Reset Status = iota
	SSet
	PSet
)

func (s Status) String() string {
	switch s {
	case Reset:
		return "reset"
	case SSet:
		return "s_set"
	case PSet:
		return "p_set"
	default:
		return "unknown"
	}
}

// MomentumChannel owns a four-momentum (or an alias of a parent's
// subtraction result), its invariant mass squared, and the legal
// mass-squared bounds propagated down from the enclosing branching.
// It keeps an ordered list of the particle channels that share this
// momentum channel (alternative propagating species).
type MomentumChannel struct {
	Key bitkey.Key

	p      fourvec.Vector
	s      float64
	sMin   float64
	sMax   float64
	status Status

	particles []*ParticleChannel

	log *mclog.Logger
}

// NewMomentumChannel creates a momentum channel for the given leg
// bit-string, in the Reset state.
func NewMomentumChannel(key bitkey.Key, log *mclog.Logger) *MomentumChannel {
	return &MomentumChannel{Key: key, log: log}
}

// Status returns the current generation status.
func (m *MomentumChannel) Status() Status { return m.status }

// S returns the current invariant mass squared.
func (m *MomentumChannel) S() float64 { return m.s }

// P returns the current four-momentum.
func (m *MomentumChannel) P() fourvec.Vector { return m.p }

// Bounds returns the current legal [s--, s++] window.
func (m *MomentumChannel) Bounds() (float64, float64) { return m.sMin, m.sMax }

// SetBounds sets the legal mass-squared window. It is set by the
// caller; no branching recomputes it.
func (m *MomentumChannel) SetBounds(sMin, sMax float64) {
	m.sMin, m.sMax = sMin, sMax
}

// SetS transitions Reset -> SSet, recording the sampled invariant
// mass squared. A call from any other state is a misordered
// transition: it still takes effect, but logs a warning rather than
// failing, per the error handling design.
func (m *MomentumChannel) SetS(s float64) {
	if m.status != Reset {
		m.log.Warnf("momentum channel %s: set_s called from status %s", m.Key, m.status)
	}
	m.s = s
	m.status = SSet
}

// SetP transitions SSet -> PSet, recording the fully constructed
// four-momentum, and recomputes s from p via the Minkowski dot
// product (evaluate_s).
func (m *MomentumChannel) SetP(p fourvec.Vector) {
	if m.status != SSet {
		m.log.Warnf("momentum channel %s: set_p called from status %s", m.Key, m.status)
	}
	m.p = p
	m.s = p.S()
	m.status = PSet
}

// EvaluateS recomputes s from the current four-momentum without
// changing status, the "evaluate_s" operation of the specification.
func (m *MomentumChannel) EvaluateS() float64 {
	m.s = m.p.S()
	return m.s
}

// ResetStatus returns the channel to the Reset state, so it can be
// reused for the next event.
func (m *MomentumChannel) ResetStatus() {
	m.status = Reset
}

// AddParticleChannel appends a particle channel to this momentum
// channel's ordered list of propagating species.
func (m *MomentumChannel) AddParticleChannel(pc *ParticleChannel) {
	m.particles = append(m.particles, pc)
}

// ParticleChannels returns the ordered list of particle channels
// sharing this momentum channel.
func (m *MomentumChannel) ParticleChannels() []*ParticleChannel {
	return m.particles
}

// Branching is the minimal interface a momentum-channel branching
// (s-type or t-type) exposes to a particle channel's mixture of
// outgoing decay modes. Defined here, rather than in package branch,
// so that channel need not import branch: branch.SBranching and
// branch.TBranching both satisfy it.
type Branching interface {
	Generate(src *rand.Rand) (weight float64, ok bool)
	EvaluateBranchingWeight() (weight float64, ok bool)
}

// ParticleChannel owns one value sampler for the invariant mass
// expected of a given particle species propagating through its
// momentum channel, and a mixture over the branchings that can
// produce it (empty for a stable leaf particle).
type ParticleChannel struct {
	Species string

	gen        sampler.Sampler
	branchings []Branching
	selector   *mixture.Selector

	log *mclog.Logger
}

// NewParticleChannel creates a particle channel for species with
// the given invariant-mass sampler (may be nil for a particle whose
// mass is fixed by its momentum channel's parent branching).
func NewParticleChannel(species string, gen sampler.Sampler, log *mclog.Logger) *ParticleChannel {
	return &ParticleChannel{Species: species, gen: gen, log: log}
}

// Sampler returns the invariant-mass value sampler.
func (pc *ParticleChannel) Sampler() sampler.Sampler { return pc.gen }

// SetSGenerator swaps the invariant-mass value sampler, e.g.
// choosing a Breit-Wigner for a resonant particle or a Dirac-delta
// for a stable narrow one. Legal between events, not during one.
func (pc *ParticleChannel) SetSGenerator(gen sampler.Sampler) {
	pc.gen = gen
}

// IsLeaf reports whether this particle channel terminates the
// recursion (no outgoing branchings).
func (pc *ParticleChannel) IsLeaf() bool {
	return len(pc.branchings) == 0
}

// InsertBranching appends a branching to the mixture of outgoing
// decay modes and rebuilds the selector with uniform weights over
// the new branching count.
func (pc *ParticleChannel) InsertBranching(b Branching) error {
	pc.branchings = append(pc.branchings, b)
	return pc.rebuildSelector()
}

// RemoveBranching removes the branching at index i.
func (pc *ParticleChannel) RemoveBranching(i int) error {
	if i < 0 || i >= len(pc.branchings) {
		return fmt.Errorf("channel: branching index %d out of range", i)
	}
	pc.branchings = append(pc.branchings[:i], pc.branchings[i+1:]...)
	return pc.rebuildSelector()
}

// ReplaceBranching swaps the branching at index i, keeping the
// current mixture weights (a same-count swap needs no selector
// rebuild).
func (pc *ParticleChannel) ReplaceBranching(i int, b Branching) error {
	if i < 0 || i >= len(pc.branchings) {
		return fmt.Errorf("channel: branching index %d out of range", i)
	}
	pc.branchings[i] = b
	return nil
}

func (pc *ParticleChannel) rebuildSelector() error {
	if len(pc.branchings) == 0 {
		pc.selector = nil
		return nil
	}
	sel, err := mixture.New(len(pc.branchings))
	if err != nil {
		return err
	}
	pc.selector = sel
	return nil
}

// Selector returns the mixture selector over outgoing branchings
// (nil for a leaf particle channel).
func (pc *ParticleChannel) Selector() *mixture.Selector { return pc.selector }

// Generate either terminates (a leaf particle channel has nothing
// further to sample) or selects a branching by its mixture weight
// and delegates, returning the product of the local weight along
// the realized path.
func (pc *ParticleChannel) Generate(src *rand.Rand) (weight float64, leaf bool, ok bool) {
	if pc.IsLeaf() {
		return 1, true, true
	}
	idx, err := pc.selector.Select(src)
	if err != nil {
		pc.log.Warnf("particle channel %s: %v", pc.Species, err)
		return 0, false, false
	}
	w, ok := pc.branchings[idx].Generate(src)
	if !ok {
		return 0, false, false
	}
	return w, false, true
}

// Arena is the single-owner flat-storage container for every
// momentum channel in a process's decomposition tree, keyed by its
// leg-membership bit-string. It is constructed once per process
// generator and never mutated structurally during generation; only
// the per-node status and counters mutate.
type Arena struct {
	nodes map[bitkey.Key]*MomentumChannel
	log   *mclog.Logger
}

// NewArena creates an empty arena.
func NewArena(log *mclog.Logger) *Arena {
	return &Arena{nodes: make(map[bitkey.Key]*MomentumChannel), log: log}
}

// GetOrCreate returns the momentum channel for key, creating it
// (shared by any alternative branching that addresses the same leg
// subset) if it does not already exist.
func (a *Arena) GetOrCreate(key bitkey.Key) *MomentumChannel {
	if mc, ok := a.nodes[key]; ok {
		return mc
	}
	mc := NewMomentumChannel(key, a.log)
	a.nodes[key] = mc
	return mc
}

// Get returns the momentum channel for key, if any.
func (a *Arena) Get(key bitkey.Key) (*MomentumChannel, bool) {
	mc, ok := a.nodes[key]
	return mc, ok
}

// Len returns the number of momentum channels in the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// Keys returns every key currently registered in the arena, in no
// particular order.
func (a *Arena) Keys() []bitkey.Key {
	keys := make([]bitkey.Key, 0, len(a.nodes))
	for k := range a.nodes {
		keys = append(keys, k)
	}
	return keys
}

// ResetAll returns every momentum channel in the arena to the Reset
// status, ahead of generating the next event.
func (a *Arena) ResetAll() {
	for _, mc := range a.nodes {
		mc.ResetStatus()
	}
}
