// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package replay implements a command to deterministically
// regenerate a fixed number of events from a saved seed and
// configuration, for regression comparison against a golden run.
package replay

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/command"

	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/cuts"
	"github.com/js-arias/camgen/initstate"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/lhe"
	"github.com/js-arias/camgen/me"
	"github.com/js-arias/camgen/model"
	"github.com/js-arias/camgen/process"
)

var Command = &command.Command{
	Usage: `replay [-c|--config <file>] [--cuts <file>]
	[-n|--events <number>] [-o|--output <file>]
	--model <file> --seed <number> <process>`,
	Short: "deterministically replay a seeded run",
	Long: `
Command replay regenerates events for the given process using the exact
seed, configuration, and cut surface of a previous run, so the resulting
event file can be diffed byte-for-byte against a saved golden run.

The flag --model is required; --seed defaults to 0 when omitted. All
other flags follow the same conventions as the run command.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var configFile string
var cutsFile string
var modelFile string
var output string
var numEvents int
var seed int64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&configFile, "config", "", "")
	c.Flags().StringVar(&configFile, "c", "", "")
	c.Flags().StringVar(&cutsFile, "cuts", "", "")
	c.Flags().StringVar(&modelFile, "model", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().IntVar(&numEvents, "events", 1000, "")
	c.Flags().IntVar(&numEvents, "n", 1000, "")
	c.Flags().Int64Var(&seed, "seed", 0, "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting a process specification")
	}
	if modelFile == "" {
		return c.UsageError("flag --model is required")
	}

	spec, err := process.ParseSpec(args[0])
	if err != nil {
		return err
	}

	reg, err := model.Read(modelFile)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if configFile != "" {
		cfg, err = config.Read(configFile)
		if err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var cutSet *cuts.Set
	if cutsFile != "" {
		cutSet, err = cuts.Read(cutsFile)
		if err != nil {
			return err
		}
	}

	log := mclog.Default("camgen")
	init := initstate.Fixed{SHat: cfg.BeamEnergy * cfg.BeamEnergy}
	matrixElement := me.Constant{Value: 1}

	gen, err := process.NewGenerator(spec, cfg, reg, init, matrixElement, nil, nil, seed, log)
	if err != nil {
		return err
	}
	gen.Cuts = cutSet

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			e := f.Close()
			if e != nil && err == nil {
				err = e
			}
		}()
		out = f
	}
	bw := bufio.NewWriter(out)
	w, err := lhe.NewWriter(bw)
	if err != nil {
		return err
	}

	generated := 0
	for i := 0; i < numEvents; i++ {
		ev, ok := gen.GenerateEvent()
		if !ok {
			continue
		}
		generated++
		parts := make([]lhe.Particle, len(ev.Out))
		for j, p := range ev.Out {
			c, ac := 0, 0
			if j < len(ev.Color) {
				c = ev.Color[j]
			}
			if j < len(ev.AntiColor) {
				ac = ev.AntiColor[j]
			}
			parts[j] = lhe.Particle{PDG: ev.OutPDG[j], P: p, Color: c, AntiColor: ac}
		}
		rec := lhe.Event{Particles: parts, Weight: ev.Weight, Sigma: ev.Sigma, Error: ev.Error}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "camgen replay: seed %d, %d/%d events generated, %d rejected\n",
		seed, generated, numEvents, gen.Rejects())
	return nil
}
