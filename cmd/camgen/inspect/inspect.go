// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package inspect implements a command to print the channel tree and
// mixture weights of a particle channel.
package inspect

import (
	"fmt"
	"os"

	"github.com/js-arias/command"

	"github.com/js-arias/camgen/channel"
	"github.com/js-arias/camgen/internal/mclog"
	"github.com/js-arias/camgen/model"
)

var Command = &command.Command{
	Usage: "inspect --model <file> <species>",
	Short: "print a particle channel's mixture weights",
	Long: `
Command inspect builds a leaf particle channel for the named species and
prints, for each registered branching, the mixture weight assigned to it
and whether it has been pruned.

With no branchings registered, the channel is reported as a leaf and no
mixture table is printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var modelFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&modelFile, "model", "", "")
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
		return fmt.Errorf("inspect: species %q not found in model %q", name, modelFile)
	}

	pc := channel.NewParticleChannel(name, nil, mclog.Default("camgen"))
	fmt.Printf("species\t%s\n", sp.Name)
	fmt.Printf("pdg\t%d\n", sp.PDG)
	fmt.Printf("mass\t%g\n", sp.Mass)
	fmt.Printf("width\t%g\n", sp.Width)

	if pc.IsLeaf() {
		fmt.Fprintln(os.Stdout, "leaf channel, no branchings registered")
		return nil
	}

	sel := pc.Selector()
	fmt.Println("branching\talpha\tpruned")
	for i := 0; i < sel.NumChannels(); i++ {
		fmt.Printf("%d\t%g\t%v\n", i, sel.Alpha(i), sel.Pruned(i))
	}
	return nil
}
