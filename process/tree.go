// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package process

import (
	"fmt"
	"math"

	"github.com/js-arias/camgen/bitkey"
	"github.com/js-arias/camgen/branch"
	"github.com/js-arias/camgen/channel"
	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/fourvec"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/model"
	"github.com/js-arias/camgen/sampler"
)

// decompositionTree is a prebuilt recursive channel/branch/mixture
// decomposition for a process's final state (spec section 4.4): a
// root particle channel holding a mixture over its registered
// s-branchings, each of whose daughters is either a leaf momentum
// channel or, recursively, the root of a further branching.
//
// buildTree covers the 2-body and 3-body final states directly; wider
// final states are left to the caller's uniform (RAMBO) fallback,
// since a general N-body topology enumerator is outside this
// generator's scope.
type decompositionTree struct {
	arena *channel.Arena
	root  *channel.MomentumChannel
	pc    *channel.ParticleChannel

	// legMC maps a final-state index (as ordered in Spec.Final) to
	// the leaf momentum channel that carries its four-momentum once
	// Generate has run.
	legMC []*channel.MomentumChannel

	// branchings holds every s-branching constructed for this tree,
	// so RefreshParams can propagate a changed s-pair mode or retry
	// cap into all of them at once.
	branchings []*branch.SBranching

	// propLaws holds the power-law samplers assigned to a non-resonant
	// intermediate propagator, so RefreshParams can propagate a
	// changed timelike exponent into them.
	propLaws []*sampler.PowerLaw
}

// buildTree constructs a decomposition tree for spec's final state,
// or reports that no builder exists for that multiplicity.
func buildTree(spec Spec, reg *model.Registry, cfg config.MCConfig, log *mclog.Logger) (*decompositionTree, error) {
	n := len(spec.Final)
	if n != 2 && n != 3 {
		return nil, fmt.Errorf("process: no recursive decomposition builder for %d final-state legs", n)
	}

	arena := channel.NewArena(log)
	legMC := make([]*channel.MomentumChannel, n)

	rootKey := bitkey.Zero
	for i := 0; i < n; i++ {
		rootKey.SetBit(i)
	}
	root := arena.GetOrCreate(rootKey)

	leaf := func(i int) (*channel.MomentumChannel, *channel.ParticleChannel, model.Species, error) {
		name := spec.Final[i]
		sp, ok := reg.Species(name)
		if !ok {
			return nil, nil, model.Species{}, fmt.Errorf("process: unknown final-state species %q", name)
		}
		mc := arena.GetOrCreate(bitkey.Bit(i))
		legMC[i] = mc
		gen := sampler.NewDelta(sp.Mass * sp.Mass)
		gen.SetBounds(sp.Mass*sp.Mass, sp.Mass*sp.Mass)
		pc := channel.NewParticleChannel(name, gen, log)
		return mc, pc, sp, nil
	}

	tree := &decompositionTree{arena: arena, root: root, legMC: legMC}
	rootPC := channel.NewParticleChannel("root", nil, log)
	tree.pc = rootPC

	if n == 2 {
		d1mc, d1pc, _, err := leaf(0)
		if err != nil {
			return nil, err
		}
		d2mc, d2pc, _, err := leaf(1)
		if err != nil {
			return nil, err
		}
		sb := branch.NewSBranching(root, d1mc, d2mc, d1pc, d2pc, cfg.SPairMode, cfg.MaxInitRejects, log)
		if err := rootPC.InsertBranching(sb); err != nil {
			return nil, err
		}
		tree.branchings = append(tree.branchings, sb)
		return tree, nil
	}

	// n == 3: peel leg 0 off directly against a propagator carrying
	// legs 1 and 2, resonant if the model registers a species whose
	// charge matches their sum (e.g. t -> b, (W+* -> mu+, nu_mu)),
	// otherwise a power-law tail in the timelike exponent.
	d0mc, d0pc, _, err := leaf(0)
	if err != nil {
		return nil, err
	}
	d1mc, d1pc, sp1, err := leaf(1)
	if err != nil {
		return nil, err
	}
	d2mc, d2pc, sp2, err := leaf(2)
	if err != nil {
		return nil, err
	}

	propMC := arena.GetOrCreate(bitkey.Bit(1).Union(bitkey.Bit(2)))
	propGen := intermediateSampler(reg, sp1, sp2, cfg)
	if pl, ok := propGen.(*sampler.PowerLaw); ok {
		tree.propLaws = append(tree.propLaws, pl)
	}
	propPC := channel.NewParticleChannel("virtual_"+spec.Final[1]+"_"+spec.Final[2], propGen, log)

	inner := branch.NewSBranching(propMC, d1mc, d2mc, d1pc, d2pc, cfg.SPairMode, cfg.MaxInitRejects, log)
	if err := propPC.InsertBranching(inner); err != nil {
		return nil, err
	}

	outer := branch.NewSBranching(root, d0mc, propMC, d0pc, propPC, cfg.SPairMode, cfg.MaxInitRejects, log)
	if err := rootPC.InsertBranching(outer); err != nil {
		return nil, err
	}
	tree.branchings = append(tree.branchings, inner, outer)
	return tree, nil
}

// intermediateSampler picks the invariant-mass value sampler for the
// virtual particle channel carrying a and b's combined momentum: a
// Breit-Wigner when the registry holds a resonance whose charge
// matches a+b's (the W*/Z*/gamma* case, spec section 8 scenario 3),
// otherwise a power-law tail using the configured timelike exponent.
func intermediateSampler(reg *model.Registry, a, b model.Species, cfg config.MCConfig) sampler.Sampler {
	want := a.Charge + b.Charge
	for _, name := range reg.Names() {
		sp, ok := reg.Species(name)
		if !ok || sp.IsStable() {
			continue
		}
		if math.Abs(sp.Charge-want) < 1e-6 {
			bw := sampler.NewBreitWigner(sp.Mass, sp.Width)
			bw.SetBounds(0, math.Max(sp.Mass*sp.Mass*4, 1))
			return bw
		}
	}
	pl := sampler.NewPowerLaw(0, cfg.TimelikeExponent)
	pl.SetBounds((a.Mass+b.Mass)*(a.Mass+b.Mass)+1e-9, math.Max((a.Mass+b.Mass+1)*(a.Mass+b.Mass+1), 1))
	return pl
}

// reset returns every momentum channel in the tree to the Reset
// status, ahead of the next event.
func (t *decompositionTree) reset() {
	t.arena.ResetAll()
}

// refreshParams propagates cfg's s-pair mode, init-retry cap, and
// timelike exponent into every branching and non-resonant propagator
// sampler built into the tree, the recursive-tree half of spec
// section 9's refresh_params contract (Generator.RefreshParams).
func (t *decompositionTree) refreshParams(cfg config.MCConfig) {
	for _, b := range t.branchings {
		b.Mode = cfg.SPairMode
		b.MaxInitRejects = cfg.MaxInitRejects
	}
	for _, pl := range t.propLaws {
		pl.Nu = cfg.TimelikeExponent
	}
}

// momenta reads the final-state four-momenta out of the tree's leaf
// momentum channels, in Spec.Final order, after a successful Generate.
func (t *decompositionTree) momenta() []fourvec.Vector {
	out := make([]fourvec.Vector, len(t.legMC))
	for i, mc := range t.legMC {
		out[i] = mc.P()
	}
	return out
}
