// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package run implements a command to generate events for a
// process specification.
package run

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/command"

	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/initstate"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/lhe"
	"github.com/js-arias/camgen/me"
	"github.com/js-arias/camgen/model"
	"github.com/js-arias/camgen/process"
)

var Command = &command.Command{
	Usage: `run [-c|--config <file>] [-n|--events <number>]
	[-o|--output <file>] [-s|--seed <number>]
	--model <file> <process>`,
	Short: "generate events for a process",
	Long: `
Command run generates events for a process specification of the form
"phi1,phi2 > psi1,...,psiN", e.g. "e+,e- > mu+,mu-".

The flag --model is required and gives the path of a species TSV file (as
read by model.Read). The flag -c, or --config, gives the path of an MCConfig
TSV file (as read by config.Read); without it the default configuration is
used.

By default 1000 events are generated; use -n, or --events, to change that.
Events are written, one row per final-state particle, to the file given by
-o, or --output; without it, events are written to standard output.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var configFile string
var modelFile string
var output string
var numEvents int
var seed int64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&configFile, "config", "", "")
	c.Flags().StringVar(&configFile, "c", "", "")
	c.Flags().StringVar(&modelFile, "model", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().IntVar(&numEvents, "events", 1000, "")
	c.Flags().IntVar(&numEvents, "n", 1000, "")
	c.Flags().Int64Var(&seed, "seed", 1, "")
	c.Flags().Int64Var(&seed, "s", 1, "")
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

	log := mclog.Default("camgen")
	init := initstate.Fixed{SHat: cfg.BeamEnergy * cfg.BeamEnergy}
	matrixElement := me.Constant{Value: 1}

	gen, err := process.NewGenerator(spec, cfg, reg, init, matrixElement, nil, nil, seed, log)
	if err != nil {
		return err
	}

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

	for i := 0; i < numEvents; i++ {
		ev, ok := gen.GenerateEvent()
		if !ok {
			continue
		}
		rec := toRecord(ev)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "camgen: %d events generated, %d rejected, sigma = %g +- %g\n",
		gen.Xsec.N()-gen.Rejects(), gen.Rejects(), gen.Xsec.Sigma(), gen.Xsec.Error())
	return nil
}

func toRecord(ev process.Event) lhe.Event {
	parts := make([]lhe.Particle, len(ev.Out))
	for i, p := range ev.Out {
		c, ac := 0, 0
		if i < len(ev.Color) {
			c = ev.Color[i]
		}
		if i < len(ev.AntiColor) {
			ac = ev.AntiColor[i]
		}
		parts[i] = lhe.Particle{PDG: ev.OutPDG[i], P: p, Color: c, AntiColor: ac}
	}
	return lhe.Event{
		Particles: parts,
		Weight:    ev.Weight,
		Sigma:     ev.Sigma,
		Error:     ev.Error,
	}
}
