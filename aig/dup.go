// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

// Dup returns a compacted copy of m.  The copy has all inputs and latches
// of m, in the same order and with the same names, and exactly the and
// nodes in the transitive fanin of the outputs and next states, numbered
// in topological order.
func (m *Manager) Dup() *Manager {
	d, _ := m.DupMap()
	return d
}

// DupMap is like Dup but also returns a map from the IDs of m to edges in
// the copy.  Nodes which are not copied map to NoEdge.
func (m *Manager) DupMap() (*Manager, []Edge) {
	m.markCone(m.Cos())
	return m.dupMarked(func(id ID) bool { return true })
}

// DupSeq is like Dup but only keeps the latches which are in the
// sequential cone of influence of the primary outputs.
func (m *Manager) DupSeq() *Manager {
	m.IncTrav()
	var stk []ID
	for _, e := range m.pos {
		stk = append(stk, e.ID())
	}
	for len(stk) > 0 {
		id := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if m.Marked(id) {
			continue
		}
		m.Mark(id)
		n := &m.nodes[id]
		switch n.kind {
		case KindAnd:
			stk = append(stk, n.a.ID(), n.b.ID())
		case KindLatch:
			if n.a != NoEdge {
				stk = append(stk, n.a.ID())
			}
		}
	}
	d, _ := m.dupMarked(func(id ID) bool { return m.Marked(id) })
	return d
}

func (m *Manager) markCone(roots []Edge) {
	m.IncTrav()
	var stk []ID
	for _, e := range roots {
		if e != NoEdge {
			stk = append(stk, e.ID())
		}
	}
	for len(stk) > 0 {
		id := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if m.Marked(id) {
			continue
		}
		m.Mark(id)
		n := &m.nodes[id]
		if n.kind == KindAnd {
			stk = append(stk, n.a.ID(), n.b.ID())
		}
	}
}

func (m *Manager) dupMarked(keepLatch func(ID) bool) (*Manager, []Edge) {
	d := NewCap(m.nAnds + len(m.pis) + len(m.latches) + 1)
	mp := make([]Edge, len(m.nodes))
	for i := range mp {
		mp[i] = NoEdge
	}
	mp[0] = False
	tr := func(e Edge) Edge {
		return mp[e.ID()].NotCond(e.IsCompl())
	}
	var lats []ID
	for i := 1; i < len(m.nodes); i++ {
		id := ID(i)
		n := &m.nodes[i]
		switch n.kind {
		case KindPi:
			mp[i] = d.Pi()
		case KindLatch:
			if !keepLatch(id) {
				continue
			}
			mp[i] = d.Latch(n.b)
			lats = append(lats, id)
		case KindAnd:
			if !m.Marked(id) {
				continue
			}
			mp[i] = d.Build(tr(n.a), tr(n.b))
		default:
			continue
		}
		if nm, ok := m.names[id]; ok && m.nodes[i].kind != KindAnd {
			d.names[mp[i].ID()] = nm
		}
	}
	for i, e := range m.pos {
		d.AddPo(tr(e))
		if nm, ok := m.poNames[i]; ok {
			d.poNames[i] = nm
		}
	}
	for _, l := range lats {
		if nx := m.nodes[l].a; nx != NoEdge {
			d.SetNext(mp[l], tr(nx))
		}
	}
	return d, mp
}
