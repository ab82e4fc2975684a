// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cec

import (
	"fmt"

	"github.com/dalzilio/rudd"

	"github.com/go-air/aigo/aig"
)

// CheckBdd checks the combinational equivalence of a and b by building
// the miter outputs as BDDs over the combinational inputs, in the order of
// Cis().  If maxNodes is positive and the BDD grows beyond it, the status
// is Undecided.
func CheckBdd(a, b *aig.Manager, maxNodes int) (*Result, error) {
	m, err := Miter(a, b)
	if err != nil {
		return nil, err
	}
	nCis := len(m.Cis())
	nodes := 1 << 14
	if maxNodes > 0 && maxNodes < nodes {
		nodes = maxNodes
	}
	bdd, err := rudd.New(max(nCis, 1), rudd.Nodesize(nodes), rudd.Cachesize(nodes/4+1), rudd.Maxnodesize(maxNodes))
	if err != nil {
		return nil, fmt.Errorf("cec: %w", err)
	}
	fs := make([]rudd.Node, m.Len())
	fs[0] = bdd.False()
	for i, id := range m.Cis() {
		fs[id] = bdd.Ithvar(i)
	}
	img := func(e aig.Edge) rudd.Node {
		f := fs[e.ID()]
		if e.IsCompl() {
			return bdd.Not(f)
		}
		return f
	}
	undecided := &Result{Status: Undecided, Output: -1}
	for i := 1; i < m.Len(); i++ {
		id := aig.ID(i)
		if !m.IsAnd(id) {
			continue
		}
		x, y := m.Fanins(id)
		fs[id] = bdd.And(img(x), img(y))
		if bdd.Error() != "" {
			return undecided, nil
		}
	}
	for i := 0; i < m.NumPos(); i++ {
		f := img(m.Po(i))
		if bdd.Equal(f, bdd.False()) {
			continue
		}
		// descend to one satisfying assignment
		cex := make([]bool, nCis)
		for v := 0; v < nCis; v++ {
			g := bdd.And(f, bdd.Not(bdd.Ithvar(v)))
			if bdd.Error() != "" {
				return undecided, nil
			}
			if bdd.Equal(g, bdd.False()) {
				g = bdd.And(f, bdd.Ithvar(v))
				cex[v] = true
			}
			f = g
		}
		return &Result{Status: Different, Output: i, Cex: cex}, nil
	}
	return &Result{Status: Equivalent, Output: -1}, nil
}
