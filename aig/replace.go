// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

import "fmt"

// Subst records that all references to node Old were redirected to New.
type Subst struct {
	Old ID
	New Edge
}

// Replace redirects every reference to node old to the edge by.
//
// Outputs and latch next states referring to old are updated in place.
// Since and nodes never change their fanins, every and node in the fanout
// of old is rebuilt with Build and replaced in turn, so that structural
// hashing is maintained and rebuilt nodes keep a higher ID than their
// fanins.  Nodes which are no longer referenced afterwards are collected.
//
// Replace returns the list of all substitutions performed, starting with
// old.  Node IDs which appear as Old in the result are either dead or
// unreferenced inputs.
//
// by must not be in the transitive fanout of old; Replace panics if it is.
func (m *Manager) Replace(old ID, by Edge) []Subst {
	m.check(by)
	if old == 0 || m.nodes[old].kind == KindDead {
		panic(fmt.Sprintf("aig: cannot replace %s node %d", m.nodes[old].kind, old))
	}
	if by.ID() == old {
		if by.IsCompl() {
			panic("aig: replacing node by its complement")
		}
		return nil
	}
	if m.dependsOn(by, old) {
		panic(fmt.Sprintf("aig: replacing %d by %s creates a cycle", old, by))
	}
	smap := make(map[ID]Edge)
	resolve := func(e Edge) Edge {
		for {
			s, ok := smap[e.ID()]
			if !ok {
				return e
			}
			e = s.NotCond(e.IsCompl())
		}
	}
	var pins []Edge
	pin := func(e Edge) {
		m.Ref(e)
		pins = append(pins, e)
	}
	var subs []Subst
	pin(MkEdge(old, false))
	pin(by)
	stk := []Subst{{Old: old, New: by}}
	for len(stk) > 0 {
		s := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		o := s.Old
		if _, done := smap[o]; done {
			continue
		}
		nb := resolve(s.New)
		if nb.ID() == o {
			panic(fmt.Sprintf("aig: cyclic replacement of %d", o))
		}
		pin(nb)
		smap[o] = nb
		subs = append(subs, Subst{Old: o, New: nb})
		m.redirectCos(o, nb)
		fos := append([]ID(nil), m.nodes[o].fanouts...)
		for _, f := range fos {
			if _, done := smap[f]; done {
				continue
			}
			fn := &m.nodes[f]
			nf := m.Build(resolve(fn.a), resolve(fn.b))
			nf = resolve(nf)
			pin(MkEdge(f, false))
			pin(nf)
			stk = append(stk, Subst{Old: f, New: nf})
		}
	}
	for i := len(pins) - 1; i >= 0; i-- {
		m.Release(pins[i])
	}
	return subs
}

func (m *Manager) redirectCos(o ID, by Edge) {
	if m.nodes[o].cos == 0 {
		return
	}
	for i, e := range m.pos {
		if e.ID() == o {
			ne := by.NotCond(e.IsCompl())
			m.coRef(ne)
			m.pos[i] = ne
			m.coDeref(e)
		}
	}
	for _, l := range m.latches {
		n := &m.nodes[l]
		if n.a != NoEdge && n.a.ID() == o {
			ne := by.NotCond(n.a.IsCompl())
			m.coRef(ne)
			old := n.a
			n.a = ne
			m.coDeref(old)
		}
	}
}

// dependsOn returns whether old is in the transitive fanin of e.  Since
// IDs are topologically ordered, only nodes with IDs above old are
// visited.
func (m *Manager) dependsOn(e Edge, old ID) bool {
	if e.ID() <= old {
		return e.ID() == old
	}
	seen := make(map[ID]bool)
	stk := []ID{e.ID()}
	for len(stk) > 0 {
		id := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if id == old {
			return true
		}
		if id < old || seen[id] {
			continue
		}
		seen[id] = true
		n := &m.nodes[id]
		if n.kind != KindAnd {
			continue
		}
		stk = append(stk, n.a.ID(), n.b.ID())
	}
	return false
}
