// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

// Simulate64 evaluates all live and nodes of m on 64 patterns in
// parallel.  vs is indexed by ID and must have length at least Len().
// Values of combinational inputs are read from vs, the values of and nodes
// are written to vs and vs[0] is set to 0.
func (m *Manager) Simulate64(vs []uint64) {
	vs[0] = 0
	for i := 1; i < len(m.nodes); i++ {
		n := &m.nodes[i]
		if n.kind != KindAnd {
			continue
		}
		vs[i] = Value64(vs, n.a) & Value64(vs, n.b)
	}
}

// Value64 returns the value of e given node values vs.
func Value64(vs []uint64, e Edge) uint64 {
	v := vs[e.ID()]
	if e.IsCompl() {
		return ^v
	}
	return v
}

// Eval evaluates m under the combinational input values cis, given in the
// order of Cis(), and returns the values of the combinational outputs in
// the order of Cos().  Latch next states which are unset evaluate to
// false.
func (m *Manager) Eval(cis []bool) []bool {
	vs := make([]uint64, len(m.nodes))
	for i, id := range m.Cis() {
		if cis[i] {
			vs[id] = 1
		}
	}
	m.Simulate64(vs)
	cos := m.Cos()
	res := make([]bool, len(cos))
	for i, e := range cos {
		if e == NoEdge {
			continue
		}
		res[i] = Value64(vs, e)&1 == 1
	}
	return res
}
