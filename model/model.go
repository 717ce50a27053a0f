// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package model implements the quantum-field-theory model layer:
// a registry of particle species providing the masses, widths,
// charges and spins the phase-space samplers need.
// Matrix elements, PDFs, and helicity/color sampling are not part of
// this package; it only exposes the fixed accessors the core uses to
// build value samplers for a given particle.
package model

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// A Species is one particle entry in a model.
type Species struct {
	Name   string // e.g. "h0", "W-", "mu-"
	PDG    int
	Mass   float64
	Width  float64
	Charge float64
	Spin   float64 // in units of 1/2
	Color  int     // dimension of the color representation (1 = singlet)

	// MMin, MMax bound the invariant mass window the particle channel
	// may use, independent of kinematic bounds (e.g. to forbid sampling
	// arbitrarily far into a Breit-Wigner tail). Zero MMax means
	// unbounded.
	MMin, MMax float64
}

// IsStable reports whether the species has a negligible width,
// in which case a Dirac-delta value sampler is the natural default.
func (s Species) IsStable() bool {
	return s.Width <= 0
}

// Anti returns the name of the antiparticle of name,
// following the teacher's flip convention of a trailing charge sign.
func Anti(name string) string {
	switch {
	case strings.HasSuffix(name, "+"):
		return strings.TrimSuffix(name, "+") + "-"
	case strings.HasSuffix(name, "-"):
		return strings.TrimSuffix(name, "-") + "+"
	default:
		return name + "bar"
	}
}

// Registry is a set of particle species, indexed by name.
type Registry struct {
	name    string
	species map[string]Species
	order   []string
}

// New creates a new, empty registry.
func New() *Registry {
	return &Registry{
		species: make(map[string]Species),
	}
}

// Add registers a species. It replaces any previous entry with the
// same name.
func (r *Registry) Add(s Species) {
	if _, ok := r.species[s.Name]; !ok {
		r.order = append(r.order, s.Name)
	}
	r.species[s.Name] = s
}

// Species returns the species registered under name and whether it
// was found.
func (r *Registry) Species(name string) (Species, bool) {
	s, ok := r.species[name]
	return s, ok
}

// Mass returns the pole mass of the named species.
func (r *Registry) Mass(name string) float64 {
	return r.species[name].Mass
}

// Width returns the width of the named species.
func (r *Registry) Width(name string) float64 {
	return r.species[name].Width
}

// Names returns the registered species names, sorted.
func (r *Registry) Names() []string {
	names := slices.Clone(r.order)
	slices.Sort(names)
	return names
}

var header = []string{
	"name",
	"pdg",
	"mass",
	"width",
	"charge",
	"spin",
	"color",
}

// Read reads a model (particle table) from a TSV file,
// following the same comment-and-header conventions as the rest of
// the configuration files in this module.
//
//	# camgen particle model
//	name	pdg	mass	width	charge	spin	color
//	h0	25	125.00	0.004	0	0	1
//	W-	-24	80.40	2.1	-1	1	1
//	mu-	13	0.1057	0	-1	0.5	1
//	nu_mu	14	0	0	0	0.5	1
func Read(name string) (*Registry, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f, name)
}

func read(r io.Reader, name string) (*Registry, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		fields[strings.ToLower(h)] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	reg := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		s := Species{Name: strings.TrimSpace(row[fields["name"]])}
		if s.Name == "" {
			continue
		}

		if v, err := strconv.Atoi(row[fields["pdg"]]); err == nil {
			s.PDG = v
		}
		if v, err := strconv.ParseFloat(row[fields["mass"]], 64); err == nil {
			s.Mass = v
		}
		if v, err := strconv.ParseFloat(row[fields["width"]], 64); err == nil {
			s.Width = v
		}
		if v, err := strconv.ParseFloat(row[fields["charge"]], 64); err == nil {
			s.Charge = v
		}
		if v, err := strconv.ParseFloat(row[fields["spin"]], 64); err == nil {
			s.Spin = v
		}
		if v, err := strconv.Atoi(row[fields["color"]]); err == nil {
			s.Color = v
		} else {
			s.Color = 1
		}

		reg.Add(s)
	}
	if len(reg.species) == 0 {
		return nil, fmt.Errorf("on file %q: no species defined", name)
	}
	return reg, nil
}

// Write writes the registry into a TSV file.
func (r *Registry) Write(name string) (err error) {
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
	fmt.Fprintf(bw, "# camgen particle model\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", name, err)
	}
	for _, n := range r.Names() {
		s := r.species[n]
		row := []string{
			s.Name,
			strconv.Itoa(s.PDG),
			strconv.FormatFloat(s.Mass, 'f', -1, 64),
			strconv.FormatFloat(s.Width, 'f', -1, 64),
			strconv.FormatFloat(s.Charge, 'f', -1, 64),
			strconv.FormatFloat(s.Spin, 'f', -1, 64),
			strconv.Itoa(s.Color),
		}
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
