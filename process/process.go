// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package process implements the process specification parser and
// the top-level process generator that orchestrates one event's
// worth of initial-state sampling, phase-space generation, external
// helicity/color/matrix-element evaluation, and cross-section
// bookkeeping (spec section 4.8).
package process

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/js-arias/camgen/color"
	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/cuts"
	"github.com/js-arias/camgen/fourvec"
	"github.com/js-arias/camgen/helicity"
	"github.com/js-arias/camgen/initstate"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/me"
	"github.com/js-arias/camgen/model"
	"github.com/js-arias/camgen/rambo"
	"github.com/js-arias/camgen/xsec"
)

// Spec is a parsed process specification "phi1,phi2 > psi1,...,psiN".
type Spec struct {
	Initial []string
	Final   []string
}

// ParseSpec parses a process string of the form
// "phi1,phi2 > psi1,...,psiN".
func ParseSpec(s string) (Spec, error) {
	parts := strings.SplitN(s, ">", 2)
	if len(parts) != 2 {
		return Spec{}, fmt.Errorf("process: missing '>' separator in %q", s)
	}
	initial := splitNames(parts[0])
	final := splitNames(parts[1])
	if len(initial) != 2 {
		return Spec{}, fmt.Errorf("process: expecting exactly 2 initial-state particles in %q, got %d", s, len(initial))
	}
	if len(final) < 2 {
		return Spec{}, fmt.Errorf("process: expecting at least 2 final-state particles in %q, got %d", s, len(final))
	}
	return Spec{Initial: initial, Final: final}, nil
}

func splitNames(s string) []string {
	fields := strings.Split(s, ",")
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		names = append(names, f)
	}
	return names
}

// String renders the spec back in "a,b > c,d,e" form.
func (s Spec) String() string {
	return strings.Join(s.Initial, ",") + " > " + strings.Join(s.Final, ",")
}

// Event is one fully reconstructed event.
type Event struct {
	InPDG, OutPDG    []int
	In, Out          []fourvec.Vector
	Color, AntiColor []int
	Weight           float64
	Sigma, Error     float64
}

// Generator orchestrates the full per-event loop: initial-state
// sample, phase-space generation, external helicity/color/matrix
// element evaluation, event weight, and the running cross-section
// estimator. It owns a per-instance random stream, per the
// concurrency model (no shared RNG across generators).
type Generator struct {
	Spec     Spec
	Config   config.MCConfig
	Registry *model.Registry

	InitState initstate.Sampler
	ME        me.Evaluator
	Hel       helicity.Sampler
	Col       color.Sampler

	// tree is the prebuilt channel/branch/mixture decomposition for
	// the final state, built once by NewGenerator for the 2- and
	// 3-body topologies buildTree knows how to construct. It is used
	// whenever Config.PhaseSpaceGenerator selects one of the
	// recursive modes; when nil (wider final states, or a species
	// lookup failure at construction time), GenerateEvent falls back
	// to the uniform (RAMBO) phase-space generator, which needs no
	// prebuilt tree and is valid for every final-state multiplicity.
	tree *decompositionTree

	// Cuts is the invariant-mass/pT/eta cut surface applied to every
	// generated final state. A nil Cuts accepts everything.
	Cuts *cuts.Set

	Xsec *xsec.Estimator

	rng *rand.Rand
	log *mclog.Logger

	rejects int
}

// NewGenerator creates a process generator with its own random
// stream seeded from seed.
func NewGenerator(spec Spec, cfg config.MCConfig, reg *model.Registry, init initstate.Sampler, matrixElement me.Evaluator, hel helicity.Sampler, col color.Sampler, seed int64, log *mclog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("process: %v", err)
	}
	if hel == nil {
		hel = helicity.Unpolarized{}
	}
	if col == nil {
		col = color.Uncolored{}
	}
	g := &Generator{
		Spec:      spec,
		Config:    cfg,
		Registry:  reg,
		InitState: init,
		ME:        matrixElement,
		Hel:       hel,
		Col:       col,
		Xsec:      xsec.New(),
		rng:       rand.New(rand.NewSource(seed)),
		log:       log,
	}
	if reg != nil && cfg.PhaseSpaceGenerator != config.Uniform {
		tree, err := buildTree(spec, reg, cfg, log)
		if err != nil {
			log.Infof("process: no recursive decomposition for %q, falling back to uniform phase space: %v", spec, err)
		} else {
			g.tree = tree
		}
	}
	return g, nil
}

// ApplyConfig replaces the generator's configuration and then calls
// RefreshParams to propagate it into the prebuilt tree, if any. Legal
// between events, not during one, per the concurrency model.
func (g *Generator) ApplyConfig(cfg config.MCConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("process: apply_config: %v", err)
	}
	g.Config = cfg
	g.RefreshParams()
	return nil
}

// RefreshParams propagates the current configuration's s-pair mode,
// retry cap, and timelike exponent down into every branching and
// propagator sampler of the prebuilt recursive tree, if any (spec
// section 9's refresh_params contract). With no tree built, this is a
// no-op: the uniform generator needs no per-channel state.
func (g *Generator) RefreshParams() {
	if g.tree == nil {
		return
	}
	g.tree.refreshParams(g.Config)
}

// GenerateEvent runs one full pass of the event loop: (i) initial
// state, (ii) root s-hat, (iii) phase-space generation (recursive
// via the tree built by NewGenerator, otherwise RAMBO), (iv) helicity/color
// sample, (v) matrix element, (vi) event weight, (vii) running
// cross-section update.
func (g *Generator) GenerateEvent() (Event, bool) {
	if g.Registry == nil || g.InitState == nil || g.ME == nil {
		g.log.Warnf("process: generator missing required components")
		return Event{}, false
	}

	sHat, _, wBeam, ok := g.InitState.Sample(g.rng)
	if !ok || wBeam <= 0 {
		g.Xsec.Update(0)
		return Event{}, false
	}
	rootS := sqrtPositive(sHat)

	masses := make([]float64, len(g.Spec.Final))
	pdgs := make([]int, len(g.Spec.Final))
	for i, name := range g.Spec.Final {
		sp, ok := g.Registry.Species(name)
		if !ok {
			g.log.Warnf("process: unknown final-state species %q", name)
			return Event{}, false
		}
		masses[i] = sp.Mass
		pdgs[i] = sp.PDG
	}

	var out []fourvec.Vector
	var wPS float64
	if g.tree != nil && g.Config.PhaseSpaceGenerator != config.Uniform {
		out, wPS, ok = g.generateRecursive(sHat, rootS)
		if !ok {
			g.rejects++
			g.Xsec.Update(0)
			return Event{}, false
		}
	} else {
		var err error
		out, wPS, err = rambo.Rescale(g.rng, rootS, masses, g.Config.NRIterations)
		if err != nil {
			g.rejects++
			g.Xsec.Update(0)
			return Event{}, false
		}
	}
	if g.Cuts != nil && !g.Cuts.Passes(out) {
		g.rejects++
		g.Xsec.Update(0)
		return Event{}, false
	}

	labels, wHel := g.Hel.Sample(g.rng, len(out))
	_ = labels
	colTag, antiTag, wCol := g.Col.Sample(g.rng, len(out))

	in := []fourvec.Vector{
		fourvec.New(rootS/2, 0, 0, rootS/2),
		fourvec.New(rootS/2, 0, 0, -rootS/2),
	}
	rho := g.ME.Evaluate(in, out)

	weight := rho * wPS * wHel * wCol / wBeam
	g.Xsec.Update(weight)

	inPDG := make([]int, 2)
	for i, name := range g.Spec.Initial {
		if sp, ok := g.Registry.Species(name); ok {
			inPDG[i] = sp.PDG
		}
	}

	return Event{
		InPDG:     inPDG,
		OutPDG:    pdgs,
		In:        in,
		Out:       out,
		Color:     colTag,
		AntiColor: antiTag,
		Weight:    weight,
		Sigma:     g.Xsec.Sigma(),
		Error:     g.Xsec.Error(),
	}, true
}

// generateRecursive runs the prebuilt decomposition tree for one
// event: the root momentum channel is seeded with the sampled s-hat
// and put at rest in the partonic center-of-mass frame, the root
// particle channel's mixture selects and recurses through branchings
// (spec section 2's "root particle channel selects a branching via
// its mixture... recursively..."), and the final-state momenta are
// read back out of the tree's leaf momentum channels in Spec.Final
// order.
func (g *Generator) generateRecursive(sHat, rootS float64) ([]fourvec.Vector, float64, bool) {
	g.tree.reset()
	g.tree.root.SetS(sHat)
	g.tree.root.SetP(fourvec.New(rootS, 0, 0, 0))

	w, _, ok := g.tree.pc.Generate(g.rng)
	if !ok {
		return nil, 0, false
	}
	return g.tree.momenta(), w, true
}

// Rejects returns the number of events that failed phase-space
// reconstruction or a registered cut since construction.
func (g *Generator) Rejects() int { return g.rejects }

func sqrtPositive(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}
