// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cut

import (
	"fmt"
	"sort"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/tt"
)

// ConeTruth returns the truth table of root in terms of leaves, variable
// i being leaves[i].  The cone of root must be bounded by leaves.
func ConeTruth(m *aig.Manager, root aig.Edge, leaves []aig.ID) tt.T {
	n := len(leaves)
	vals := make(map[aig.ID]tt.T, 4*n)
	for i, l := range leaves {
		vals[l] = tt.Var(n, i)
	}
	var rec func(id aig.ID) tt.T
	rec = func(id aig.ID) tt.T {
		if t, ok := vals[id]; ok {
			return t
		}
		if id == 0 {
			t := tt.New(n)
			vals[id] = t
			return t
		}
		if !m.IsAnd(id) {
			panic(fmt.Sprintf("cut: cone of %s not bounded by %v", root, leaves))
		}
		a, b := m.Fanins(id)
		ta, tb := rec(a.ID()), rec(b.ID())
		t := tt.AndCompl(tt.New(n), ta, tb, a.IsCompl(), b.IsCompl())
		vals[id] = t
		return t
	}
	t := rec(root.ID())
	if root.IsCompl() {
		return tt.Not(tt.New(n), t)
	}
	return t.Copy()
}

// Reconv computes a reconvergence-driven cut of root with at most max
// leaves.  Starting from the fanins of root, leaves are repeatedly
// replaced by their fanins, choosing the leaf whose expansion adds the
// fewest new leaves, until no leaf can be expanded without exceeding max.
// The leaves are returned in increasing order.
func Reconv(m *aig.Manager, root aig.ID, max int) []aig.ID {
	if !m.IsAnd(root) {
		return []aig.ID{root}
	}
	a, b := m.Fanins(root)
	m.IncTrav()
	m.Mark(root)
	return expand(m, []aig.ID{a.ID(), b.ID()}, max)
}

// ReconvFrom is like Reconv but starts from the frontier start instead of
// the fanins of a single root.  The result bounds the cones of all nodes
// in start.
func ReconvFrom(m *aig.Manager, start []aig.ID, max int) []aig.ID {
	m.IncTrav()
	return expand(m, append([]aig.ID(nil), start...), max)
}

func expand(m *aig.Manager, front []aig.ID, max int) []aig.ID {
	var leaves []aig.ID
	for _, l := range front {
		if !m.Marked(l) {
			m.Mark(l)
			leaves = append(leaves, l)
		}
	}
	for {
		best, bestCost := -1, 3
		for i, l := range leaves {
			if !m.IsAnd(l) {
				continue
			}
			c := leafCost(m, l)
			if c < bestCost || c == bestCost && m.Level(l) > m.Level(leaves[best]) {
				best, bestCost = i, c
			}
		}
		if best < 0 || len(leaves)+bestCost > max {
			break
		}
		l := leaves[best]
		leaves[best] = leaves[len(leaves)-1]
		leaves = leaves[:len(leaves)-1]
		a, b := m.Fanins(l)
		for _, f := range [2]aig.ID{a.ID(), b.ID()} {
			if !m.Marked(f) {
				m.Mark(f)
				leaves = append(leaves, f)
			}
		}
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i] < leaves[j] })
	return leaves
}

// leafCost returns the change in the number of leaves when l is replaced
// by its fanins.
func leafCost(m *aig.Manager, l aig.ID) int {
	a, b := m.Fanins(l)
	c := -1
	if !m.Marked(a.ID()) {
		c++
	}
	if !m.Marked(b.ID()) {
		c++
	}
	return c
}
