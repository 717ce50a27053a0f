// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plot implements a command to visualize an adaptive grid's
// leaf weights for a species' invariant-mass sampler, after a short
// burn-in, as a bar chart image.
package plot

import (
	"fmt"
	"math/rand"

	"github.com/js-arias/command"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/js-arias/camgen/config"
	"github.com/js-arias/camgen/grid"
	"github.com/js-arias/camgen/model"
	"github.com/js-arias/camgen/sampler"
)

var Command = &command.Command{
	Usage: `plot [--bins <number>] [--burn-in <number>]
	[-o|--output <file>] --model <file> <species>`,
	Short: "plot an adaptive grid's leaf weights",
	Long: `
Command plot builds a Breit-Wigner invariant-mass sampler for the named
resonant species, overlays an adaptive grid on it, runs a short burn-in
loop feeding the sampler's weight (times the grid's jacobian) back as
the grid's contribution,
and writes a bar chart of the resulting leaf weights to a PNG file.

The flag --model is required and must name a species with a positive
width; a stable species has nothing to adapt toward and is rejected.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var modelFile string
var output string
var bins int
var burnIn int

func setFlags(c *command.Command) {
	c.Flags().StringVar(&modelFile, "model", "", "")
	c.Flags().StringVar(&output, "output", "grid.png", "")
	c.Flags().StringVar(&output, "o", "grid.png", "")
	c.Flags().IntVar(&bins, "bins", 20, "")
	c.Flags().IntVar(&burnIn, "burn-in", 2000, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting a species name")
	}
	if modelFile == "" {
		return c.UsageError("flag --model is required")
	}
	name := args[0]

	reg, err := model.Read(modelFile)
	if err != nil {
		return err
	}
	sp, ok := reg.Species(name)
	if !ok {
		return fmt.Errorf("plot: species %q not found in model %q", name, modelFile)
	}
	if sp.Width <= 0 {
		return fmt.Errorf("plot: species %q is stable, nothing to adapt a grid toward", name)
	}

	sMin := 0.0
	sMax := (sp.Mass + 20*sp.Width) * (sp.Mass + 20*sp.Width)
	bw := sampler.NewBreitWigner(sp.Mass, sp.Width)
	if !bw.SetBounds(sMin, sMax) {
		return fmt.Errorf("plot: species %q: Breit-Wigner sampler rejected bounds [%g, %g]", name, sMin, sMax)
	}

	g := grid.New(grid.Variance, bins)
	src := rand.New(rand.NewSource(1))

	for i := 0; i < burnIn; i++ {
		u, jacobian := g.Select(src)
		x := bw.Map(u)
		w, ok := bw.EvaluateWeight(x)
		if !ok {
			continue
		}
		g.Update(w * jacobian)
		if (i+1)%config.Default().GridInitBatch == 0 {
			g.Adapt()
		}
	}

	leaves := g.Snapshot()
	names := make([]string, len(leaves))
	values := make(plotter.Values, len(leaves))
	for i, lf := range leaves {
		names[i] = fmt.Sprintf("%.3g", (lf.Lo+lf.Hi)/2)
		values[i] = lf.Weight
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("adaptive grid leaf weights: %s", name)
	p.Y.Label.Text = "leaf weight"
	p.X.Label.Text = "leaf midpoint (unit interval)"

	chart, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return fmt.Errorf("plot: %v", err)
	}
	p.Add(chart)
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, output); err != nil {
		return fmt.Errorf("plot: %v", err)
	}
	return nil
}
