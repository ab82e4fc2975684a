// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"github.com/go-air/gini/z"

	"github.com/go-air/aigo/aig"
)

// Cnf incrementally encodes the cones of an and-inverter graph into a
// Solver with the Tseitin transformation.  Nodes are encoded on demand and
// at most once, so Cnf may be used while the graph grows and nodes are
// replaced.
type Cnf struct {
	m    *aig.Manager
	s    Solver
	lits []z.Lit // by node ID, z.LitNull if not encoded
}

// NewCnf creates an encoder of m into s.
func NewCnf(m *aig.Manager, s Solver) *Cnf {
	c := &Cnf{m: m, s: s, lits: make([]z.Lit, m.Len())}
	f := s.NewVar()
	AddClause(s, f.Not())
	c.lits[0] = f
	return c
}

// Solver returns the underlying solver.
func (c *Cnf) Solver() Solver {
	return c.s
}

// Lit returns the literal of e, encoding its cone if needed.
func (c *Cnf) Lit(e aig.Edge) z.Lit {
	id := e.ID()
	c.grow()
	if c.lits[id] == z.LitNull {
		c.encode(id)
	}
	m := c.lits[id]
	if e.IsCompl() {
		return m.Not()
	}
	return m
}

// Encoded tells whether the node id has a literal.
func (c *Cnf) Encoded(id aig.ID) bool {
	return int(id) < len(c.lits) && c.lits[id] != z.LitNull
}

// Value returns the value of e in the last model.  Edges whose node is not
// encoded are false.
func (c *Cnf) Value(e aig.Edge) bool {
	if !c.Encoded(e.ID()) {
		return false
	}
	return c.s.Value(c.Lit(e))
}

// CiValues returns the values of the combinational inputs of the manager in
// the last model, in the order of Cis().
func (c *Cnf) CiValues() []bool {
	cis := c.m.Cis()
	res := make([]bool, len(cis))
	for i, id := range cis {
		res[i] = c.Value(aig.MkEdge(id, false))
	}
	return res
}

func (c *Cnf) grow() {
	for len(c.lits) < c.m.Len() {
		c.lits = append(c.lits, z.LitNull)
	}
}

func (c *Cnf) encode(root aig.ID) {
	stk := []aig.ID{root}
	for len(stk) > 0 {
		id := stk[len(stk)-1]
		if c.lits[id] != z.LitNull {
			stk = stk[:len(stk)-1]
			continue
		}
		if !c.m.IsAnd(id) {
			c.lits[id] = c.s.NewVar()
			stk = stk[:len(stk)-1]
			continue
		}
		a, b := c.m.Fanins(id)
		pa, pb := c.lits[a.ID()] == z.LitNull, c.lits[b.ID()] == z.LitNull
		if pa || pb {
			if pa {
				stk = append(stk, a.ID())
			}
			if pb {
				stk = append(stk, b.ID())
			}
			continue
		}
		stk = stk[:len(stk)-1]
		g := c.s.NewVar()
		la, lb := c.lit(a), c.lit(b)
		AddClause(c.s, g.Not(), la)
		AddClause(c.s, g.Not(), lb)
		AddClause(c.s, g, la.Not(), lb.Not())
		c.lits[id] = g
	}
}

func (c *Cnf) lit(e aig.Edge) z.Lit {
	m := c.lits[e.ID()]
	if e.IsCompl() {
		return m.Not()
	}
	return m
}
