// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package lhe implements the event-record sink: a tab-delimited
// table carrying the contractual per-event field list (PDG ids,
// four-momenta, color/anticolor tags, weight, running cross-section
// and its error, channel id). This is not the real Les Houches Event
// XML format, which is explicitly out of scope; it is a concrete,
// testable record format satisfying the same field list.
package lhe

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/js-arias/camgen/fourvec"
)

// Particle is one outgoing leg of an event record.
type Particle struct {
	PDG       int
	P         fourvec.Vector
	Color     int
	AntiColor int
}

// Event is one generated event record.
type Event struct {
	Particles []Particle
	Weight    float64
	Sigma     float64
	Error     float64
	ChannelID string
}

var header = []string{
	"event", "particle", "pdg", "e", "px", "py", "pz",
	"color", "anticolor", "weight", "sigma", "error", "channel",
}

// Writer serializes event records as a tab-delimited table.
type Writer struct {
	w     *csv.Writer
	bw    *bufio.Writer
	event int
}

// NewWriter creates a Writer over w, writing the header row
// immediately.
func NewWriter(out *bufio.Writer) (*Writer, error) {
	tsv := csv.NewWriter(out)
	tsv.Comma = '\t'
	if err := tsv.Write(header); err != nil {
		return nil, fmt.Errorf("lhe: writing header: %v", err)
	}
	return &Writer{w: tsv, bw: out}, nil
}

// Write appends one event's particles as one row per particle.
func (w *Writer) Write(ev Event) error {
	w.event++
	for i, p := range ev.Particles {
		row := []string{
			strconv.Itoa(w.event),
			strconv.Itoa(i),
			strconv.Itoa(p.PDG),
			strconv.FormatFloat(p.P.E(), 'g', -1, 64),
			strconv.FormatFloat(p.P[1], 'g', -1, 64),
			strconv.FormatFloat(p.P[2], 'g', -1, 64),
			strconv.FormatFloat(p.P[3], 'g', -1, 64),
			strconv.Itoa(p.Color),
			strconv.Itoa(p.AntiColor),
			strconv.FormatFloat(ev.Weight, 'g', -1, 64),
			strconv.FormatFloat(ev.Sigma, 'g', -1, 64),
			strconv.FormatFloat(ev.Error, 'g', -1, 64),
			ev.ChannelID,
		}
		if err := w.w.Write(row); err != nil {
			return fmt.Errorf("lhe: writing event %d: %v", w.event, err)
		}
	}
	return nil
}

// Flush flushes any buffered output.
func (w *Writer) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	return w.bw.Flush()
}
