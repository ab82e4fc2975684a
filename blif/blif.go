// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package blif reads and writes and-inverter graphs in the Berkeley Logic
// Interchange Format.
//
// Only the combinational and latch content of a single model is
// supported: .model, .inputs, .outputs, .latch, .names and .end.  Each
// .names table is a single output sum of products, given either as its
// on-set or its off-set.  The writer produces one two input .names table
// per and node and a buffer or inverter per output and latch input.
package blif

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/go-air/aigo/aig"
)

// Errors related to parsing
var (
	ErrSyntax      = errors.New("blif: syntax error")
	ErrUnsupported = errors.New("blif: unsupported construct")
	ErrUndefined   = errors.New("blif: undefined signal")
	ErrRedefined   = errors.New("blif: signal defined twice")
	ErrCombLoop    = errors.New("blif: combinational logic has a loop")
)

// Model is a named and-inverter graph.
type Model struct {
	Name string
	M    *aig.Manager
}

// Write writes m as a blif model named name.  Inputs, latches and outputs
// keep their names when these are valid and unique, other signals are
// named after their node IDs.
func Write(w io.Writer, m *aig.Manager, name string) error {
	if name == "" {
		name = "top"
	}
	wr := &writer{m: m, sigs: make(map[aig.ID]string), used: make(map[string]bool)}
	return wr.write(w, name)
}

type writer struct {
	m    *aig.Manager
	sigs map[aig.ID]string
	used map[string]bool
	b    strings.Builder
}

// unique returns nm if it can be used as a fresh signal name, otherwise
// dflt.
func (wr *writer) unique(nm, dflt string) string {
	if nm == "" || wr.used[nm] || strings.IndexFunc(nm, unicode.IsSpace) >= 0 ||
		strings.ContainsAny(nm, "#\\") || nm[0] == '.' {
		nm = dflt
	}
	for wr.used[nm] {
		nm += "_"
	}
	wr.used[nm] = true
	return nm
}

func (wr *writer) write(w io.Writer, name string) error {
	m := wr.m
	b := &wr.b
	for i, id := range m.Pis() {
		wr.sigs[id] = wr.unique(m.Name(id), fmt.Sprintf("pi%d", i))
	}
	for i, id := range m.Latches() {
		wr.sigs[id] = wr.unique(m.Name(id), fmt.Sprintf("lo%d", i))
	}
	pos := make([]string, m.NumPos())
	for i := range pos {
		pos[i] = wr.unique(m.PoName(i), fmt.Sprintf("po%d", i))
	}
	lis := make([]string, m.NumLatches())
	for i := range lis {
		lis[i] = wr.unique("", fmt.Sprintf("li%d", i))
	}
	ands := wr.cone()
	for _, id := range ands {
		wr.sigs[id] = wr.unique("", fmt.Sprintf("n%d", id))
	}

	fmt.Fprintf(b, ".model %s\n", name)
	wr.list(".inputs", m.Pis(), nil)
	wr.list(".outputs", nil, pos)
	for i, id := range m.Latches() {
		init := 3
		switch m.Init(id) {
		case aig.False:
			init = 0
		case aig.True:
			init = 1
		}
		fmt.Fprintf(b, ".latch %s %s %d\n", lis[i], wr.sigs[id], init)
	}
	for _, id := range ands {
		x, y := m.Fanins(id)
		fmt.Fprintf(b, ".names %s %s %s\n%c%c 1\n",
			wr.sigs[x.ID()], wr.sigs[y.ID()], wr.sigs[id], bit(x), bit(y))
	}
	for i, nm := range pos {
		wr.buffer(m.Po(i), nm)
	}
	for i, id := range m.Latches() {
		wr.buffer(m.Next(id), lis[i])
	}
	b.WriteString(".end\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func bit(e aig.Edge) byte {
	if e.IsCompl() {
		return '0'
	}
	return '1'
}

// cone returns the and nodes in the cones of the outputs and next states
// in ID order.
func (wr *writer) cone() []aig.ID {
	m := wr.m
	need := make([]bool, m.Len())
	for _, e := range m.Cos() {
		if e != aig.NoEdge {
			need[e.ID()] = true
		}
	}
	for i := m.Len() - 1; i > 0; i-- {
		if need[i] && m.IsAnd(aig.ID(i)) {
			a, b := m.Fanins(aig.ID(i))
			need[a.ID()] = true
			need[b.ID()] = true
		}
	}
	var res []aig.ID
	for i := 1; i < m.Len(); i++ {
		if need[i] && m.IsAnd(aig.ID(i)) {
			res = append(res, aig.ID(i))
		}
	}
	return res
}

// list writes a declaration line, continued every 8 names.
func (wr *writer) list(kw string, ids []aig.ID, nms []string) {
	for _, id := range ids {
		nms = append(nms, wr.sigs[id])
	}
	wr.b.WriteString(kw)
	for i, nm := range nms {
		if i > 0 && i%8 == 0 {
			wr.b.WriteString(" \\\n")
		}
		wr.b.WriteByte(' ')
		wr.b.WriteString(nm)
	}
	wr.b.WriteByte('\n')
}

// buffer defines nm as e.  Unset edges are false.
func (wr *writer) buffer(e aig.Edge, nm string) {
	switch {
	case e == aig.NoEdge || e == aig.False:
		fmt.Fprintf(&wr.b, ".names %s\n", nm)
	case e == aig.True:
		fmt.Fprintf(&wr.b, ".names %s\n1\n", nm)
	default:
		fmt.Fprintf(&wr.b, ".names %s %s\n%c 1\n", wr.sigs[e.ID()], nm, bit(e))
	}
}
