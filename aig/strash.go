// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

// Build returns an edge equivalent to a and b, creating a new and node
// only if no structurally identical node exists and no trivial
// simplification applies.
func (m *Manager) Build(a, b Edge) Edge {
	m.check(a)
	m.check(b)
	if r, ok := simp(a, b); ok {
		return r
	}
	if a > b {
		a, b = b, a
	}
	if id := m.find(a, b); id != 0 {
		return MkEdge(id, false)
	}
	return MkEdge(m.newAnd(a, b), false)
}

// Lookup is like Build but never creates a node.  If the result would need
// a new node, Lookup returns NoEdge, false.
func (m *Manager) Lookup(a, b Edge) (Edge, bool) {
	if r, ok := simp(a, b); ok {
		return r, true
	}
	if a > b {
		a, b = b, a
	}
	if id := m.find(a, b); id != 0 {
		return MkEdge(id, false), true
	}
	return NoEdge, false
}

func simp(a, b Edge) (Edge, bool) {
	if a == b {
		return a, true
	}
	if a == b.Not() {
		return False, true
	}
	if a > b {
		a, b = b, a
	}
	if a == False {
		return False, true
	}
	if a == True {
		return b, true
	}
	return NoEdge, false
}

// Ands constructs a conjunction of es.  If es is empty, Ands returns True.
func (m *Manager) Ands(es ...Edge) Edge {
	a := True
	for _, e := range es {
		a = m.Build(a, e)
	}
	return a
}

// Or returns an edge equivalent to a or b.
func (m *Manager) Or(a, b Edge) Edge {
	return m.Build(a.Not(), b.Not()).Not()
}

// Ors constructs a disjunction of es.  If es is empty, Ors returns False.
func (m *Manager) Ors(es ...Edge) Edge {
	d := False
	for _, e := range es {
		d = m.Or(d, e)
	}
	return d
}

// Implies returns an edge equivalent to a implies b.
func (m *Manager) Implies(a, b Edge) Edge {
	return m.Or(a.Not(), b)
}

// Xor returns an edge equivalent to a xor b.
func (m *Manager) Xor(a, b Edge) Edge {
	return m.Or(m.Build(a, b.Not()), m.Build(a.Not(), b))
}

// Mux returns an edge equivalent to
//
//	if c then t else e
func (m *Manager) Mux(c, t, e Edge) Edge {
	return m.Or(m.Build(c, t), m.Build(c.Not(), e))
}

func (m *Manager) find(a, b Edge) ID {
	id := m.strash[strashCode(a, b)&uint32(len(m.strash)-1)]
	for id != 0 {
		n := &m.nodes[id]
		if n.a == a && n.b == b {
			return id
		}
		id = n.next
	}
	return 0
}

func (m *Manager) newAnd(a, b Edge) ID {
	la, lb := m.nodes[a.ID()].level, m.nodes[b.ID()].level
	if lb > la {
		la = lb
	}
	id := m.newNode(KindAnd)
	n := &m.nodes[id]
	n.a, n.b = a, b
	n.level = la + 1
	m.Ref(a)
	m.Ref(b)
	an := &m.nodes[a.ID()]
	an.fanouts = append(an.fanouts, id)
	bn := &m.nodes[b.ID()]
	bn.fanouts = append(bn.fanouts, id)
	m.nAnds++
	m.insert(id)
	if m.nAnds > len(m.strash) {
		m.grow()
	}
	return id
}

func (m *Manager) insert(id ID) {
	n := &m.nodes[id]
	k := strashCode(n.a, n.b) & uint32(len(m.strash)-1)
	n.next = m.strash[k]
	m.strash[k] = id
}

func (m *Manager) unlink(id ID) {
	n := &m.nodes[id]
	k := strashCode(n.a, n.b) & uint32(len(m.strash)-1)
	p := &m.strash[k]
	for *p != 0 {
		if *p == id {
			*p = n.next
			n.next = 0
			return
		}
		p = &m.nodes[*p].next
	}
	panic("aig: node not in strash")
}

func (m *Manager) grow() {
	strash := make([]ID, len(m.strash)*2)
	mask := uint32(len(strash) - 1)
	for i := range m.nodes {
		n := &m.nodes[i]
		if n.kind != KindAnd {
			continue
		}
		k := strashCode(n.a, n.b) & mask
		n.next = strash[k]
		strash[k] = ID(i)
	}
	m.strash = strash
}

func strashCode(a, b Edge) uint32 {
	h := uint32(a)*0x9e3779b1 ^ uint32(b)*0x85ebca77
	return h ^ (h >> 15)
}
