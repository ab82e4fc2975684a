// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package seq

import (
	"fmt"

	"github.com/go-air/aigo/aig"
)

// Unroll creates an unroller of sequential logic into combinational
// logic.
type Unroll struct {
	S *aig.Manager // the sequential circuit
	C *aig.Manager // the resulting combinational circuit

	// Free makes the latches free inputs at time 0 instead of their
	// initial values.
	Free bool

	// Speculate, if not nil, is consulted before unrolling a node.  If it
	// returns true, the node at time t is taken to be the image of the
	// returned edge at time t.  The returned edge must have a smaller ID.
	Speculate func(id aig.ID, t int) (aig.Edge, bool)

	dmap [][]aig.Edge
}

// NewUnroll creates a new unroller for s starting from the initial state.
func NewUnroll(s *aig.Manager) *Unroll {
	return &Unroll{
		S:    s,
		C:    aig.NewCap(s.Len() * 4),
		dmap: make([][]aig.Edge, s.Len())}
}

// NewUnrollFree creates a new unroller for s starting from any state.
func NewUnrollFree(s *aig.Manager) *Unroll {
	u := NewUnroll(s)
	u.Free = true
	return u
}

// At returns the value of edge e of u.S at time t as an edge in u.C.
//
// If t < 0, then At panics.
func (u *Unroll) At(e aig.Edge, t int) aig.Edge {
	if t < 0 {
		panic(fmt.Sprintf("seq: unroll at time %d", t))
	}
	id := e.ID()
	for len(u.dmap[id]) < t {
		u.At(aig.MkEdge(id, false), len(u.dmap[id]))
	}
	if len(u.dmap[id]) > t {
		return u.dmap[id][t].NotCond(e.IsCompl())
	}
	var res aig.Edge
	if r, ok := u.spec(id, t); ok {
		res = u.At(r, t)
	} else {
		res = u.node(id, t)
	}
	u.dmap[id] = append(u.dmap[id], res)
	return res.NotCond(e.IsCompl())
}

func (u *Unroll) spec(id aig.ID, t int) (aig.Edge, bool) {
	if u.Speculate == nil {
		return aig.NoEdge, false
	}
	r, ok := u.Speculate(id, t)
	if ok && r.ID() >= id {
		panic(fmt.Sprintf("seq: speculative substitution of %d by %s", id, r))
	}
	return r, ok
}

func (u *Unroll) node(id aig.ID, t int) aig.Edge {
	s := u.S
	switch s.Kind(id) {
	case aig.KindConst:
		return aig.False
	case aig.KindPi:
		return u.C.Pi()
	case aig.KindLatch:
		if t == 0 {
			init := s.Init(id)
			if u.Free || init == aig.NoEdge {
				return u.C.Pi()
			}
			return init
		}
		next := s.Next(id)
		if next == aig.NoEdge {
			return u.C.Pi()
		}
		return u.At(next, t-1)
	case aig.KindAnd:
		a, b := s.Fanins(id)
		return u.C.Build(u.At(a, t), u.At(b, t))
	}
	panic(fmt.Sprintf("seq: unroll of %s node %d", s.Kind(id), id))
}
