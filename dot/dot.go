// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dot draws and-inverter graphs with Graphviz.
//
// Inputs are drawn as triangles at the bottom, outputs as inverted
// triangles at the top, latches as boxes and and nodes as circles.
// Complemented edges are dashed.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/go-air/aigo/aig"
)

// ToDOT converts the cones of the outputs and next states of m to Graphviz
// DOT format.  The result can be rendered with RenderSVG.
func ToDOT(m *aig.Manager) string {
	var buf bytes.Buffer
	buf.WriteString("digraph aig {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.05,0.05\"];\n")
	buf.WriteString("\n")

	live := cone(m)
	buf.WriteString("  { rank=same;")
	for _, id := range m.Pis() {
		fmt.Fprintf(&buf, " n%d;", id)
	}
	buf.WriteString(" }\n")
	for i, id := range m.Pis() {
		fmt.Fprintf(&buf, "  n%d [shape=triangle, label=%q];\n", id, label(m.Name(id), "i", i))
	}
	for i, id := range m.Latches() {
		fmt.Fprintf(&buf, "  n%d [shape=box, label=%q];\n", id, label(m.Name(id), "l", i))
	}
	for i := 1; i < m.Len(); i++ {
		id := aig.ID(i)
		if live[i] && m.IsAnd(id) {
			fmt.Fprintf(&buf, "  n%d [shape=circle, label=\"%d\"];\n", id, id)
		}
	}
	if live[0] {
		buf.WriteString("  n0 [shape=box, style=filled, fillcolor=lightgrey, label=\"0\"];\n")
	}
	for i := 0; i < m.NumPos(); i++ {
		fmt.Fprintf(&buf, "  o%d [shape=invtriangle, label=%q];\n", i, label(m.PoName(i), "o", i))
	}

	buf.WriteString("\n")
	for i := 1; i < m.Len(); i++ {
		id := aig.ID(i)
		if !live[i] || !m.IsAnd(id) {
			continue
		}
		a, b := m.Fanins(id)
		edge(&buf, a, fmt.Sprintf("n%d", id))
		edge(&buf, b, fmt.Sprintf("n%d", id))
	}
	for i := 0; i < m.NumPos(); i++ {
		edge(&buf, m.Po(i), fmt.Sprintf("o%d", i))
	}
	for _, id := range m.Latches() {
		if e := m.Next(id); e != aig.NoEdge {
			fmt.Fprintf(&buf, "  n%d -> n%d [constraint=false, color=blue%s];\n",
				e.ID(), id, style(e))
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func label(name, kind string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s%d", kind, i)
}

func style(e aig.Edge) string {
	if e.IsCompl() {
		return ", style=dashed"
	}
	return ""
}

func edge(buf *bytes.Buffer, e aig.Edge, to string) {
	fmt.Fprintf(buf, "  n%d -> %s", e.ID(), to)
	if e.IsCompl() {
		buf.WriteString(" [style=dashed]")
	}
	buf.WriteString(";\n")
}

// cone marks the nodes in the transitive fanin of the combinational
// outputs.
func cone(m *aig.Manager) []bool {
	live := make([]bool, m.Len())
	for _, e := range m.Cos() {
		if e != aig.NoEdge {
			live[e.ID()] = true
		}
	}
	for i := m.Len() - 1; i > 0; i-- {
		if live[i] && m.IsAnd(aig.ID(i)) {
			a, b := m.Fanins(aig.ID(i))
			live[a.ID()] = true
			live[b.ID()] = true
		}
	}
	return live
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
