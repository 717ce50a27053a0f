// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package config implements the Monte Carlo configuration struct
// enumerated in the external interface specification. Instead of a
// global mutable singleton, every process generator captures one
// MCConfig at construction; mid-run reconfiguration is supported only
// through the generator's ApplyConfig method, which in turn calls
// RefreshParams on the channel tree.
package config

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// InitialState selects the initial-state sampler family.
type InitialState string

// Valid initial-state families.
const (
	Partonic     InitialState = "partonic"
	EPlusEMinus  InitialState = "e+e-"
	PP           InitialState = "pp"
	PPBar        InitialState = "ppbar"
	PBarP        InitialState = "pbarp"
	PBarPBar     InitialState = "pbarpbar"
)

// PhaseSpaceGenerator selects the top-level phase-space generator.
type PhaseSpaceGenerator string

// Valid phase-space generator kinds.
const (
	Uniform               PhaseSpaceGenerator = "uniform"
	Recursive             PhaseSpaceGenerator = "recursive"
	RecursiveBackwardS    PhaseSpaceGenerator = "recursive_backward_s"
	RecursiveBackwardSHat PhaseSpaceGenerator = "recursive_backward_shat"
)

// GridMode selects the adaptive grid's leaf-weight estimator.
type GridMode string

// Valid grid modes.
const (
	Cumulant GridMode = "cumulant"
	Variance GridMode = "variance"
	Maximum  GridMode = "maximum"
)

// SPairMode selects the two-mass sampling strategy in an s-branching.
type SPairMode string

// Valid s-pair generation modes.
const (
	Asymmetric SPairMode = "asymmetric"
	Symmetric  SPairMode = "symmetric"
	HitAndMiss SPairMode = "hit-and-miss"
)

// MCConfig holds every tunable option named in the external
// interface specification. It is a plain, passed-in struct:
// there is no global configuration singleton.
type MCConfig struct {
	InitialState        InitialState
	PhaseSpaceGenerator PhaseSpaceGenerator
	GridMode            GridMode
	SPairMode           SPairMode

	// ChannelInitIters, ChannelInitBatch: burn-in for mixture selectors.
	ChannelInitIters int
	ChannelInitBatch int

	// GridInitIters, GridInitBatch: burn-in for adaptive grids.
	GridInitIters int
	GridInitBatch int

	// SubprocessEvents: events per subprocess cross-section estimate.
	SubprocessEvents int

	// AutoChannelAdapt: mixture adaptation batch (0 = off).
	AutoChannelAdapt int

	// AutoGridAdapt: grid adaptation batch (0 = off).
	AutoGridAdapt int

	// MaxInitRejects: cap on rejected events during init.
	MaxInitRejects int

	// GridBins: max adaptive-grid leaves.
	GridBins int

	// MultichannelThreshold: minimum alpha retained after adaptation.
	MultichannelThreshold float64

	// MultichannelAdaptivity is the exponent xi for mixture adaptation.
	MultichannelAdaptivity float64

	// Default power-law exponents for the respective propagator kinds.
	SHatExponent      float64
	TimelikeExponent  float64
	SpacelikeExponent float64
	AuxiliaryExponent float64

	// NRIterations: Newton-Raphson steps for massive RAMBO rescaling.
	NRIterations int

	// DiscardWeightFraction caps the highest event weights for stability.
	DiscardWeightFraction float64

	// BeamEnergy is sqrt(s) of the full hadronic/leptonic collision,
	// or sqrt(shat) directly for a purely partonic initial state.
	BeamEnergy float64
}

// Default returns the configuration used by the end-to-end scenarios
// unless a caller overrides a field: sane, conservative defaults for
// every adaptive knob.
func Default() MCConfig {
	return MCConfig{
		InitialState:           Partonic,
		PhaseSpaceGenerator:    Recursive,
		GridMode:               Variance,
		SPairMode:              Asymmetric,
		ChannelInitIters:       1000,
		ChannelInitBatch:       100,
		GridInitIters:          1000,
		GridInitBatch:          100,
		SubprocessEvents:       10000,
		AutoChannelAdapt:       1000,
		AutoGridAdapt:          1000,
		MaxInitRejects:         10000,
		GridBins:               50,
		MultichannelThreshold:  1e-3,
		MultichannelAdaptivity: 0.5,
		SHatExponent:           1.0,
		TimelikeExponent:       1.0,
		SpacelikeExponent:      1.0,
		AuxiliaryExponent:      1.0,
		NRIterations:           10,
		DiscardWeightFraction:  0,
	}
}

// Validate checks that the configuration is internally consistent
// (a misconfiguration, per the error handling design, is detected
// at RefreshParams time, but many option ranges can be checked here
// first so the caller finds out immediately).
func (c MCConfig) Validate() error {
	if c.GridBins < 1 {
		return fmt.Errorf("grid_bins must be >= 1, got %d", c.GridBins)
	}
	if c.MultichannelThreshold <= 0 || c.MultichannelThreshold > 1 {
		return fmt.Errorf("multichannel_threshold must be in (0,1], got %v", c.MultichannelThreshold)
	}
	if c.MultichannelAdaptivity < 0 || c.MultichannelAdaptivity > 1 {
		return fmt.Errorf("multichannel_adaptivity must be in [0,1], got %v", c.MultichannelAdaptivity)
	}
	if c.DiscardWeightFraction < 0 || c.DiscardWeightFraction > 1 {
		return fmt.Errorf("discard_weight_fraction must be in [0,1], got %v", c.DiscardWeightFraction)
	}
	if c.BeamEnergy <= 0 {
		return fmt.Errorf("beam_energy must be positive, got %v", c.BeamEnergy)
	}
	return nil
}

var header = []string{"option", "value"}

// Read reads an MCConfig from a TSV file, in the same
// comment-and-header convention used throughout this module's
// configuration files.
func Read(name string) (MCConfig, error) {
	f, err := os.Open(name)
	if err != nil {
		return MCConfig{}, err
	}
	defer f.Close()

	c := Default()
	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return MCConfig{}, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		fields[strings.ToLower(h)] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return MCConfig{}, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return MCConfig{}, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}
		opt := strings.ToLower(strings.TrimSpace(row[fields["option"]]))
		val := strings.TrimSpace(row[fields["value"]])
		if err := c.set(opt, val); err != nil {
			return MCConfig{}, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}
	}
	return c, nil
}

func (c *MCConfig) set(opt, val string) error {
	switch opt {
	case "initial_state":
		c.InitialState = InitialState(val)
	case "phase_space_generator":
		c.PhaseSpaceGenerator = PhaseSpaceGenerator(val)
	case "grid_mode":
		c.GridMode = GridMode(val)
	case "s_pair_generation_mode":
		c.SPairMode = SPairMode(val)
	case "channel_init_iters":
		return setInt(&c.ChannelInitIters, val)
	case "channel_init_batch":
		return setInt(&c.ChannelInitBatch, val)
	case "grid_init_iters":
		return setInt(&c.GridInitIters, val)
	case "grid_init_batch":
		return setInt(&c.GridInitBatch, val)
	case "subprocess_events":
		return setInt(&c.SubprocessEvents, val)
	case "auto_channel_adapt":
		return setInt(&c.AutoChannelAdapt, val)
	case "auto_grid_adapt":
		return setInt(&c.AutoGridAdapt, val)
	case "max_init_rejects":
		return setInt(&c.MaxInitRejects, val)
	case "grid_bins":
		return setInt(&c.GridBins, val)
	case "multichannel_threshold":
		return setFloat(&c.MultichannelThreshold, val)
	case "multichannel_adaptivity":
		return setFloat(&c.MultichannelAdaptivity, val)
	case "shat_exponent":
		return setFloat(&c.SHatExponent, val)
	case "timelike_exponent":
		return setFloat(&c.TimelikeExponent, val)
	case "spacelike_exponent":
		return setFloat(&c.SpacelikeExponent, val)
	case "auxiliary_exponent":
		return setFloat(&c.AuxiliaryExponent, val)
	case "nr_iterations":
		return setInt(&c.NRIterations, val)
	case "discard_weight_fraction":
		return setFloat(&c.DiscardWeightFraction, val)
	case "beam_energy":
		return setFloat(&c.BeamEnergy, val)
	default:
		return fmt.Errorf("unknown option %q", opt)
	}
	return nil
}

func setInt(dst *int, val string) error {
	v, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, val string) error {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Write writes the configuration into a TSV file.
func (c MCConfig) Write(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# camgen configuration\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", name, err)
	}
	rows := [][]string{
		{"initial_state", string(c.InitialState)},
		{"phase_space_generator", string(c.PhaseSpaceGenerator)},
		{"grid_mode", string(c.GridMode)},
		{"s_pair_generation_mode", string(c.SPairMode)},
		{"channel_init_iters", strconv.Itoa(c.ChannelInitIters)},
		{"channel_init_batch", strconv.Itoa(c.ChannelInitBatch)},
		{"grid_init_iters", strconv.Itoa(c.GridInitIters)},
		{"grid_init_batch", strconv.Itoa(c.GridInitBatch)},
		{"subprocess_events", strconv.Itoa(c.SubprocessEvents)},
		{"auto_channel_adapt", strconv.Itoa(c.AutoChannelAdapt)},
		{"auto_grid_adapt", strconv.Itoa(c.AutoGridAdapt)},
		{"max_init_rejects", strconv.Itoa(c.MaxInitRejects)},
		{"grid_bins", strconv.Itoa(c.GridBins)},
		{"multichannel_threshold", strconv.FormatFloat(c.MultichannelThreshold, 'g', -1, 64)},
		{"multichannel_adaptivity", strconv.FormatFloat(c.MultichannelAdaptivity, 'g', -1, 64)},
		{"shat_exponent", strconv.FormatFloat(c.SHatExponent, 'g', -1, 64)},
		{"timelike_exponent", strconv.FormatFloat(c.TimelikeExponent, 'g', -1, 64)},
		{"spacelike_exponent", strconv.FormatFloat(c.SpacelikeExponent, 'g', -1, 64)},
		{"auxiliary_exponent", strconv.FormatFloat(c.AuxiliaryExponent, 'g', -1, 64)},
		{"nr_iterations", strconv.Itoa(c.NRIterations)},
		{"discard_weight_fraction", strconv.FormatFloat(c.DiscardWeightFraction, 'g', -1, 64)},
		{"beam_energy", strconv.FormatFloat(c.BeamEnergy, 'g', -1, 64)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", name, err)
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", name, err)
	}
	return bw.Flush()
}
