// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

import "fmt"

// Check verifies the internal consistency of m: structural hashing,
// fanin ordering, levels, fanout lists and reference counts.  Check
// assumes there are no outstanding external references made with Ref.
func (m *Manager) Check() error {
	if m.nodes[0].kind != KindConst {
		return fmt.Errorf("aig: node 0 is %s", m.nodes[0].kind)
	}
	refs := make([]uint32, len(m.nodes))
	fos := make([]int, len(m.nodes))
	nAnds := 0
	for i := 1; i < len(m.nodes); i++ {
		n := &m.nodes[i]
		if n.kind != KindAnd {
			if n.kind != KindDead && n.level != 0 {
				return fmt.Errorf("aig: input %d has level %d", i, n.level)
			}
			continue
		}
		nAnds++
		if n.a >= n.b {
			return fmt.Errorf("aig: node %d fanins unordered %s %s", i, n.a, n.b)
		}
		if _, ok := simp(n.a, n.b); ok {
			return fmt.Errorf("aig: node %d is trivially simplifiable", i)
		}
		var lev uint32
		for _, f := range [2]Edge{n.a, n.b} {
			if int(f.ID()) >= i {
				return fmt.Errorf("aig: node %d fanin %s not topological", i, f)
			}
			fn := &m.nodes[f.ID()]
			if fn.kind == KindDead {
				return fmt.Errorf("aig: node %d has dead fanin %s", i, f)
			}
			if fn.level > lev {
				lev = fn.level
			}
			refs[f.ID()]++
			fos[f.ID()]++
			if !containsID(fn.fanouts, ID(i)) {
				return fmt.Errorf("aig: node %d missing from fanouts of %s", i, f)
			}
		}
		if n.level != lev+1 {
			return fmt.Errorf("aig: node %d level %d expected %d", i, n.level, lev+1)
		}
		if m.find(n.a, n.b) != ID(i) {
			return fmt.Errorf("aig: node %d not found in strash", i)
		}
	}
	if nAnds != m.nAnds {
		return fmt.Errorf("aig: %d ands counted, %d recorded", nAnds, m.nAnds)
	}
	cos := make([]uint32, len(m.nodes))
	for _, e := range m.Cos() {
		if e == NoEdge {
			continue
		}
		if m.nodes[e.ID()].kind == KindDead {
			return fmt.Errorf("aig: output refers to dead node %d", e.ID())
		}
		refs[e.ID()]++
		cos[e.ID()]++
	}
	for i := range m.nodes {
		n := &m.nodes[i]
		if n.kind == KindDead {
			continue
		}
		if refs[i] != n.refs {
			return fmt.Errorf("aig: node %d has %d refs, expected %d", i, n.refs, refs[i])
		}
		if cos[i] != n.cos {
			return fmt.Errorf("aig: node %d has %d output refs, expected %d", i, n.cos, cos[i])
		}
		if fos[i] != len(n.fanouts) {
			return fmt.Errorf("aig: node %d has %d fanouts, expected %d", i, len(n.fanouts), fos[i])
		}
	}
	chained := 0
	for _, id := range m.strash {
		for ; id != 0; id = m.nodes[id].next {
			if m.nodes[id].kind != KindAnd {
				return fmt.Errorf("aig: strash contains %s node %d", m.nodes[id].kind, id)
			}
			chained++
			if chained > nAnds {
				return fmt.Errorf("aig: strash chain loop")
			}
		}
	}
	if chained != nAnds {
		return fmt.Errorf("aig: strash has %d nodes, expected %d", chained, nAnds)
	}
	return nil
}

func containsID(ids []ID, id ID) bool {
	for _, o := range ids {
		if o == id {
			return true
		}
	}
	return false
}
