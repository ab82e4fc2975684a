// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import "github.com/go-air/aigo/aig"

// dfs visits the and nodes in the cones of a set of roots in post order,
// so that every and node is visited after its fanins.
type dfs struct {
	m     *aig.Manager
	marks []byte
	fn    func(id aig.ID)
}

func newDfs(m *aig.Manager, f func(id aig.ID)) *dfs {
	return &dfs{m: m, marks: make([]byte, m.Len()), fn: f}
}

func (d *dfs) post(es ...aig.Edge) {
	for _, e := range es {
		if e != aig.NoEdge {
			d.vis(e.ID())
		}
	}
}

func (d *dfs) vis(root aig.ID) {
	type frame struct {
		id   aig.ID
		done bool
	}
	stk := []frame{{id: root}}
	for len(stk) > 0 {
		f := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if !d.m.IsAnd(f.id) || d.marks[f.id] == 2 {
			continue
		}
		if f.done {
			d.marks[f.id] = 2
			d.fn(f.id)
			continue
		}
		if d.marks[f.id] == 1 {
			continue
		}
		d.marks[f.id] = 1
		a, b := d.m.Fanins(f.id)
		stk = append(stk, frame{id: f.id, done: true}, frame{id: b.ID()}, frame{id: a.ID()})
	}
}
