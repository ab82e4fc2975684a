// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package balance implements and-tree balancing.
//
// Each and node is viewed as the root of a supergate, the largest
// multi-input and reachable through uncomplemented edges to single fanout
// and nodes.  Supergates are rebuilt as balanced trees, combining the two
// shallowest inputs first, in a new manager.
package balance

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/go-air/aigo/aig"
)

// Params control balancing.
type Params struct {
	Duplicate bool        // extend supergates through multi-fanout nodes
	Logger    *log.Logger // nil for no logging
}

// Balance returns a balanced copy of m.
func Balance(m *aig.Manager, p Params) *aig.Manager {
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	b := &balancer{
		m:    m,
		d:    aig.NewCap(m.NumAnds() + m.NumPis() + m.NumLatches() + 1),
		p:    p,
		memo: make(map[aig.ID]aig.Edge)}
	b.memo[0] = aig.False
	for _, id := range m.Pis() {
		e := b.d.Pi()
		b.memo[id] = e
		if nm := m.Name(id); nm != "" {
			b.d.SetName(e.ID(), nm)
		}
	}
	for _, id := range m.Latches() {
		e := b.d.Latch(m.Init(id))
		b.memo[id] = e
		if nm := m.Name(id); nm != "" {
			b.d.SetName(e.ID(), nm)
		}
	}
	for i := 0; i < m.NumPos(); i++ {
		b.d.AddPo(b.edge(m.Po(i)))
		if nm := m.PoName(i); nm != "" {
			b.d.SetPoName(i, nm)
		}
	}
	for _, id := range m.Latches() {
		if nx := m.Next(id); nx != aig.NoEdge {
			b.d.SetNext(b.memo[id], b.edge(nx))
		}
	}
	p.Logger.Debug("balance", "ands", m.NumAnds(), "balanced", b.d.NumAnds(),
		"levels", m.MaxLevel(), "balancedLevels", b.d.MaxLevel())
	return b.d
}

type balancer struct {
	m    *aig.Manager
	d    *aig.Manager
	p    Params
	memo map[aig.ID]aig.Edge
}

func (b *balancer) edge(e aig.Edge) aig.Edge {
	return b.node(e.ID()).NotCond(e.IsCompl())
}

func (b *balancer) node(id aig.ID) aig.Edge {
	if e, ok := b.memo[id]; ok {
		return e
	}
	leaves, isConst := b.supergate(id)
	var es []aig.Edge
	if !isConst {
		es = make([]aig.Edge, 0, len(leaves))
		for _, l := range leaves {
			es = append(es, b.edge(l))
		}
	}
	res := b.tree(es, isConst)
	b.memo[id] = res
	return res
}

// supergate collects the inputs of the supergate rooted at id.  It
// returns true if the supergate contains a literal and its complement.
func (b *balancer) supergate(id aig.ID) ([]aig.Edge, bool) {
	var leaves []aig.Edge
	seen := make(map[aig.Edge]bool)
	contra := false
	var rec func(e aig.Edge, root bool)
	rec = func(e aig.Edge, root bool) {
		if contra {
			return
		}
		n := e.ID()
		if !root && (e.IsCompl() || !b.m.IsAnd(n) || !b.p.Duplicate && b.m.RefCount(n) > 1) {
			if seen[e] {
				return
			}
			if seen[e.Not()] {
				contra = true
				return
			}
			seen[e] = true
			leaves = append(leaves, e)
			return
		}
		x, y := b.m.Fanins(n)
		rec(x, false)
		rec(y, false)
	}
	rec(aig.MkEdge(id, false), true)
	return leaves, contra
}

func (b *balancer) tree(es []aig.Edge, isConst bool) aig.Edge {
	if isConst {
		return aig.False
	}
	for _, e := range es {
		if e == aig.False {
			return aig.False
		}
	}
	lev := func(e aig.Edge) int { return b.d.Level(e.ID()) }
	// keep es sorted by decreasing level, combine the last two
	sort.SliceStable(es, func(i, j int) bool { return lev(es[i]) > lev(es[j]) })
	for len(es) > 1 {
		n := len(es)
		g := b.d.Build(es[n-2], es[n-1])
		es = es[:n-2]
		i := sort.Search(len(es), func(i int) bool { return lev(es[i]) <= lev(g) })
		es = append(es, aig.NoEdge)
		copy(es[i+1:], es[i:])
		es[i] = g
	}
	if len(es) == 0 {
		return aig.True
	}
	return es[0]
}
