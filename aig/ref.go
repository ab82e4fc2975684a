// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

// Ref adds an external reference to the node of e.  Nodes with a positive
// reference count are never collected.
func (m *Manager) Ref(e Edge) {
	m.nodes[e.ID()].refs++
}

// Deref removes a reference to the node of e.  The node is not collected
// even if its count drops to 0, see Release and Collect.
func (m *Manager) Deref(e Edge) {
	n := &m.nodes[e.ID()]
	if n.refs == 0 {
		panic("aig: deref of unreferenced node")
	}
	n.refs--
}

// Release is like Deref but collects the node of e and, recursively, its
// fanins if no references remain.  It returns the number of nodes
// collected.
func (m *Manager) Release(e Edge) int {
	m.Deref(e)
	id := e.ID()
	n := &m.nodes[id]
	if n.refs == 0 && n.kind == KindAnd {
		return m.delete(id)
	}
	return 0
}

// Collect deletes all and nodes with no references, cascading into their
// fanins.  It returns the number of deleted nodes.
func (m *Manager) Collect() int {
	cnt := 0
	for i := len(m.nodes) - 1; i > 0; i-- {
		n := &m.nodes[i]
		if n.kind == KindAnd && n.refs == 0 {
			cnt += m.delete(ID(i))
		}
	}
	return cnt
}

func (m *Manager) delete(id ID) int {
	cnt := 0
	stk := []ID{id}
	for len(stk) > 0 {
		id = stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		n := &m.nodes[id]
		m.unlink(id)
		for _, f := range [2]Edge{n.a, n.b} {
			fn := &m.nodes[f.ID()]
			fn.fanouts = removeID(fn.fanouts, id)
			fn.refs--
			if fn.refs == 0 && fn.kind == KindAnd {
				stk = append(stk, f.ID())
			}
		}
		n.kind = KindDead
		n.fanouts = nil
		m.nAnds--
		m.nDead++
		cnt++
	}
	return cnt
}

func removeID(ids []ID, id ID) []ID {
	for i, o := range ids {
		if o == id {
			last := len(ids) - 1
			ids[i] = ids[last]
			return ids[:last]
		}
	}
	panic("aig: missing fanout")
}

// MffcLabel computes the maximum fanout-free cone of root bounded by
// leaves, that is, the and nodes which would be collected if root were
// removed, not counting the leaves and their fanins.  The nodes of the
// cone are marked in a new traversal (see Marked) and their number is
// returned.  Reference counts are unchanged on return.
func (m *Manager) MffcLabel(root ID, leaves []ID) int {
	if m.nodes[root].kind != KindAnd {
		return 0
	}
	for _, l := range leaves {
		m.nodes[l].refs++
	}
	m.IncTrav()
	n := m.derefRec(root)
	m.refRec(root)
	for _, l := range leaves {
		m.nodes[l].refs--
	}
	return n
}

// MffcSize is like MffcLabel without leaves.
func (m *Manager) MffcSize(root ID) int {
	return m.MffcLabel(root, nil)
}

func (m *Manager) derefRec(id ID) int {
	m.nodes[id].trav = m.trav
	cnt := 1
	a, b := m.nodes[id].a, m.nodes[id].b
	for _, f := range [2]Edge{a, b} {
		fn := &m.nodes[f.ID()]
		if fn.kind != KindAnd {
			continue
		}
		fn.refs--
		if fn.refs == 0 {
			cnt += m.derefRec(f.ID())
		}
	}
	return cnt
}

func (m *Manager) refRec(id ID) int {
	cnt := 1
	a, b := m.nodes[id].a, m.nodes[id].b
	for _, f := range [2]Edge{a, b} {
		fn := &m.nodes[f.ID()]
		if fn.kind != KindAnd {
			continue
		}
		if fn.refs == 0 {
			cnt += m.refRec(f.ID())
		}
		fn.refs++
	}
	return cnt
}
