// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

import "fmt"

type node struct {
	a, b    Edge   // and: fanins with a < b. latch: a next, b init.
	kind    Kind   //
	level   uint32 //
	refs    uint32 // references from fanouts, outputs, latches and pins
	cos     uint32 // references from outputs and latches
	next    ID     // next in strash chain
	trav    uint32 // traversal id
	fanouts []ID   // and nodes having this node as fanin
}

// Manager owns an and-inverter graph.
type Manager struct {
	nodes   []node
	strash  []ID // buckets, 0 terminates a chain
	nAnds   int
	nDead   int
	pis     []ID
	latches []ID
	pos     []Edge
	names   map[ID]string
	poNames map[int]string
	trav    uint32
}

// New creates a new Manager.
func New() *Manager {
	return NewCap(128)
}

// NewCap creates a new Manager with initial capacity capHint nodes.
func NewCap(capHint int) *Manager {
	if capHint < 16 {
		capHint = 16
	}
	nb := 16
	for nb < capHint {
		nb <<= 1
	}
	m := &Manager{
		nodes:   make([]node, 1, capHint),
		strash:  make([]ID, nb),
		names:   make(map[ID]string),
		poNames: make(map[int]string)}
	m.nodes[0].kind = KindConst
	m.nodes[0].a, m.nodes[0].b = NoEdge, NoEdge
	return m
}

// Const0 returns the constant 0 edge.
func (m *Manager) Const0() Edge {
	return False
}

// Pi creates a new primary input.
func (m *Manager) Pi() Edge {
	id := m.newNode(KindPi)
	m.pis = append(m.pis, id)
	return MkEdge(id, false)
}

// Latch creates a new latch whose output is returned.  The initial value
// init is False, True or NoEdge if it is unknown.  The next state is
// NoEdge until set with SetNext.
func (m *Manager) Latch(init Edge) Edge {
	if init != False && init != True && init != NoEdge {
		panic(fmt.Sprintf("aig: latch init %s", init))
	}
	id := m.newNode(KindLatch)
	m.nodes[id].a = NoEdge
	m.nodes[id].b = init
	m.latches = append(m.latches, id)
	return MkEdge(id, false)
}

// SetNext sets the next state of latch to next.
func (m *Manager) SetNext(latch, next Edge) {
	n := &m.nodes[latch.ID()]
	if n.kind != KindLatch {
		panic(fmt.Sprintf("aig: SetNext on %s node", n.kind))
	}
	m.check(next)
	next = next.NotCond(latch.IsCompl())
	m.coRef(next)
	if n.a != NoEdge {
		m.coDeref(n.a)
	}
	n.a = next
}

// Next returns the next state of latch id, NoEdge if unset.
func (m *Manager) Next(id ID) Edge {
	n := &m.nodes[id]
	if n.kind != KindLatch {
		return NoEdge
	}
	return n.a
}

// Init returns the initial value of latch id.
func (m *Manager) Init(id ID) Edge {
	n := &m.nodes[id]
	if n.kind != KindLatch {
		return NoEdge
	}
	return n.b
}

// SetInit sets the initial value of latch id.
func (m *Manager) SetInit(id ID, init Edge) {
	if m.nodes[id].kind != KindLatch {
		panic("aig: SetInit on non-latch")
	}
	m.nodes[id].b = init
}

// AddPo adds a primary output driven by e and returns its index.
func (m *Manager) AddPo(e Edge) int {
	m.check(e)
	m.coRef(e)
	m.pos = append(m.pos, e)
	return len(m.pos) - 1
}

// Po returns the driver of output i.
func (m *Manager) Po(i int) Edge {
	return m.pos[i]
}

// SetPo sets the driver of output i.
func (m *Manager) SetPo(i int, e Edge) {
	m.check(e)
	m.coRef(e)
	m.coDeref(m.pos[i])
	m.pos[i] = e
}

// NumPos returns the number of primary outputs.
func (m *Manager) NumPos() int {
	return len(m.pos)
}

// NumPis returns the number of primary inputs.
func (m *Manager) NumPis() int {
	return len(m.pis)
}

// NumLatches returns the number of latches.
func (m *Manager) NumLatches() int {
	return len(m.latches)
}

// NumAnds returns the number of live and nodes.
func (m *Manager) NumAnds() int {
	return m.nAnds
}

// Pis returns the primary inputs in creation order.  The result must
// not be modified.
func (m *Manager) Pis() []ID {
	return m.pis
}

// Latches returns the latches in creation order.  The result must not be
// modified.
func (m *Manager) Latches() []ID {
	return m.latches
}

// Cis returns the combinational inputs, primary inputs followed by
// latches.
func (m *Manager) Cis() []ID {
	res := make([]ID, 0, len(m.pis)+len(m.latches))
	res = append(res, m.pis...)
	return append(res, m.latches...)
}

// Cos returns the combinational outputs, primary outputs followed by the
// latch next states.
func (m *Manager) Cos() []Edge {
	res := make([]Edge, 0, len(m.pos)+len(m.latches))
	res = append(res, m.pos...)
	for _, l := range m.latches {
		res = append(res, m.nodes[l].a)
	}
	return res
}

// Len returns one more than the maximal ID ever allocated.  All IDs in
// [0, Len()) are either live or dead.
func (m *Manager) Len() int {
	return len(m.nodes)
}

// Kind returns the kind of node id.
func (m *Manager) Kind(id ID) Kind {
	return m.nodes[id].kind
}

// IsAnd returns whether id is a live and node.
func (m *Manager) IsAnd(id ID) bool {
	return m.nodes[id].kind == KindAnd
}

// IsCi returns whether id is a combinational input.
func (m *Manager) IsCi(id ID) bool {
	k := m.nodes[id].kind
	return k == KindPi || k == KindLatch
}

// IsConst0 returns whether id is the constant node.
func (m *Manager) IsConst0(id ID) bool {
	return id == 0
}

// Fanins returns the fanins of and node id.  For other nodes, it returns
// NoEdge, NoEdge.
func (m *Manager) Fanins(id ID) (Edge, Edge) {
	n := &m.nodes[id]
	if n.kind != KindAnd {
		return NoEdge, NoEdge
	}
	return n.a, n.b
}

// Fanouts returns the and nodes which have id as fanin.  The result must
// not be modified and is invalidated by any operation creating or removing
// nodes.
func (m *Manager) Fanouts(id ID) []ID {
	return m.nodes[id].fanouts
}

// Level returns the level of id.  Inputs and the constant have level 0.
func (m *Manager) Level(id ID) int {
	return int(m.nodes[id].level)
}

// RefCount returns the number of references to id.
func (m *Manager) RefCount(id ID) int {
	return int(m.nodes[id].refs)
}

// MaxLevel returns the maximal level of a combinational output driver.
func (m *Manager) MaxLevel() int {
	max := 0
	for _, e := range m.Cos() {
		if e == NoEdge {
			continue
		}
		if l := m.Level(e.ID()); l > max {
			max = l
		}
	}
	return max
}

// SetName names the input or latch id.
func (m *Manager) SetName(id ID, name string) {
	m.names[id] = name
}

// Name returns the name of id, or "" if it has none.
func (m *Manager) Name(id ID) string {
	return m.names[id]
}

// SetPoName names output i.
func (m *Manager) SetPoName(i int, name string) {
	m.poNames[i] = name
}

// PoName returns the name of output i, or "" if it has none.
func (m *Manager) PoName(i int) string {
	return m.poNames[i]
}

// Stats summarizes the size of a Manager.
type Stats struct {
	Pis     int
	Latches int
	Pos     int
	Ands    int
	Levels  int
}

func (s Stats) String() string {
	return fmt.Sprintf("i/o = %d/%d lat = %d and = %d lev = %d",
		s.Pis, s.Pos, s.Latches, s.Ands, s.Levels)
}

// Stats returns the current statistics of m.
func (m *Manager) Stats() Stats {
	return Stats{
		Pis:     len(m.pis),
		Latches: len(m.latches),
		Pos:     len(m.pos),
		Ands:    m.nAnds,
		Levels:  m.MaxLevel()}
}

// IncTrav starts a new traversal.  Nodes marked during earlier traversals
// are no longer considered marked.
func (m *Manager) IncTrav() uint32 {
	m.trav++
	if m.trav == 0 {
		for i := range m.nodes {
			m.nodes[i].trav = 0
		}
		m.trav = 1
	}
	return m.trav
}

// Mark marks id in the current traversal.
func (m *Manager) Mark(id ID) {
	m.nodes[id].trav = m.trav
}

// Marked returns whether id was marked in the current traversal.
func (m *Manager) Marked(id ID) bool {
	return m.nodes[id].trav == m.trav
}

func (m *Manager) coRef(e Edge) {
	n := &m.nodes[e.ID()]
	n.refs++
	n.cos++
}

func (m *Manager) coDeref(e Edge) {
	m.nodes[e.ID()].cos--
	m.Deref(e)
}

func (m *Manager) newNode(k Kind) ID {
	id := ID(len(m.nodes))
	m.nodes = append(m.nodes, node{kind: k})
	return id
}

func (m *Manager) check(e Edge) {
	if e == NoEdge || int(e.ID()) >= len(m.nodes) {
		panic(fmt.Sprintf("aig: invalid edge %s", e))
	}
	if m.nodes[e.ID()].kind == KindDead {
		panic(fmt.Sprintf("aig: edge %s to dead node", e))
	}
}
