// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cut implements a command to register or update the cut
// surface (minimum invariant mass, minimum transverse momentum,
// maximum pseudorapidity) applied to a generated final state.
package cut

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/js-arias/command"

	"github.com/js-arias/camgen/cuts"
)

var Command = &command.Command{
	Usage: `cut [--m-min <legs>=<value>] [--pt-min <leg>=<value>]
	[--eta-max <leg>=<value>] -o|--output <file> [<input-file>]`,
	Short: "register cuts on a final state",
	Long: `
Command cut reads a cut surface (or starts an empty one, with no argument),
applies the cuts given on the command line, and writes the result back as a
TSV file readable by process generators.

Legs are given as comma-separated final-state indices (0-based). The flag
--m-min takes a legs=value pair and registers a minimum invariant mass over
that subset of legs, e.g. --m-min 0,1=10. The flags --pt-min and --eta-max
take a single leg=value pair each.

The flag -o, or --output, is required.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string
var mMinFlags stringList
var ptMinFlags stringList
var etaMaxFlags stringList

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func setFlags(c *command.Command) {
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().Var(&mMinFlags, "m-min", "")
	c.Flags().Var(&ptMinFlags, "pt-min", "")
	c.Flags().Var(&etaMaxFlags, "eta-max", "")
}

func run(c *command.Command, args []string) error {
	if output == "" {
		return c.UsageError("flag --output is required")
	}

	s := cuts.New()
	if len(args) > 0 {
		var err error
		s, err = cuts.Read(args[0])
		if err != nil {
			return err
		}
	}

	for _, f := range mMinFlags {
		legs, val, err := splitPair(f)
		if err != nil {
			return fmt.Errorf("cut: --m-min %q: %v", f, err)
		}
		idx, err := parseLegs(legs)
		if err != nil {
			return fmt.Errorf("cut: --m-min %q: %v", f, err)
		}
		s.SetMMin(idx, val)
	}
	for _, f := range ptMinFlags {
		legs, val, err := splitPair(f)
		if err != nil {
			return fmt.Errorf("cut: --pt-min %q: %v", f, err)
		}
		idx, err := parseLegs(legs)
		if err != nil || len(idx) != 1 {
			return fmt.Errorf("cut: --pt-min %q: expecting a single leg", f)
		}
		s.SetPTMin(idx[0], val)
	}
	for _, f := range etaMaxFlags {
		legs, val, err := splitPair(f)
		if err != nil {
			return fmt.Errorf("cut: --eta-max %q: %v", f, err)
		}
		idx, err := parseLegs(legs)
		if err != nil || len(idx) != 1 {
			return fmt.Errorf("cut: --eta-max %q: expecting a single leg", f)
		}
		s.SetEtaMax(idx[0], val)
	}

	return s.Write(output)
}

func splitPair(s string) (legs string, value float64, err error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("expecting <legs>=<value>")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", 0, err
	}
	return parts[0], v, nil
}

func parseLegs(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	legs := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		legs = append(legs, v)
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("empty leg list")
	}
	return legs, nil
}
