// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package cuts

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

var header = []string{"kind", "legs", "value"}

// Read reads a cut surface from a TSV file, in the comment-and-header
// convention used throughout this module's configuration files.
//
//	# camgen cuts
//	kind	legs	value
//	m_min	0,1	10
//	pt_min	2	20
//	eta_max	2	2.5
func Read(name string) (*Set, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := New()
	tsv := csv.NewReader(f)
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

	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}
		kind := strings.ToLower(strings.TrimSpace(row[fields["kind"]]))
		legs, err := parseLegs(row[fields["legs"]])
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(row[fields["value"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}
		switch kind {
		case "m_min":
			s.SetMMin(legs, val)
		case "pt_min":
			if len(legs) != 1 {
				return nil, fmt.Errorf("on file %q: on row %d: pt_min takes exactly one leg", name, ln)
			}
			s.SetPTMin(legs[0], val)
		case "eta_max":
			if len(legs) != 1 {
				return nil, fmt.Errorf("on file %q: on row %d: eta_max takes exactly one leg", name, ln)
			}
			s.SetEtaMax(legs[0], val)
		default:
			return nil, fmt.Errorf("on file %q: on row %d: unknown cut kind %q", name, ln, kind)
		}
	}
	return s, nil
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

// Write writes the cut surface into a TSV file.
func (s *Set) Write(name string) (err error) {
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
	fmt.Fprintf(bw, "# camgen cuts\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", name, err)
	}
	subsets, values := s.MMinCuts()
	for i, idx := range subsets {
		if err := tsv.Write([]string{"m_min", legsString(idx), strconv.FormatFloat(values[i], 'g', -1, 64)}); err != nil {
			return fmt.Errorf("on file %q: %v", name, err)
		}
	}
	for i, v := range s.pTMin {
		if err := tsv.Write([]string{"pt_min", strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			return fmt.Errorf("on file %q: %v", name, err)
		}
	}
	for i, v := range s.etaMax {
		if err := tsv.Write([]string{"eta_max", strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			return fmt.Errorf("on file %q: %v", name, err)
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", name, err)
	}
	return bw.Flush()
}

func legsString(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
