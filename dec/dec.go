// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dec provides decomposition graphs, small and-inverter graphs
// over numbered leaves which describe how to build a function from the
// leaves of a cut.
//
// Graphs are produced by factoring sum of products covers and by Shannon
// decomposition.  A graph can be evaluated to a truth table, costed
// against an aig.Manager without modifying it, and finally built into
// the manager.
package dec

import (
	"fmt"
	"strings"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/tt"
)

// Lit is a possibly complemented reference to a node of a Graph.
type Lit uint32

const (
	// False is the constant 0 literal.
	False Lit = 0
	// True is the constant 1 literal.
	True Lit = 1
)

// Node returns the node index of l.
func (l Lit) Node() int {
	return int(l >> 1)
}

// IsCompl returns whether l is complemented.
func (l Lit) IsCompl() bool {
	return l&1 == 1
}

// Not returns the complement of l.
func (l Lit) Not() Lit {
	return l ^ 1
}

// NotCond returns the complement of l if c.
func (l Lit) NotCond(c bool) Lit {
	if c {
		return l ^ 1
	}
	return l
}

func mkLit(i int, c bool) Lit {
	return Lit(i<<1).NotCond(c)
}

type gnode struct {
	a, b  Lit
	level int
}

// Graph is a decomposition graph.  Node 0 is the constant, nodes
// 1..Leaves() are the leaves and the remaining nodes are and gates in
// topological order.
type Graph struct {
	leaves int
	nodes  []gnode
	hash   map[[2]Lit]Lit
	root   Lit
}

// New creates an empty graph over n leaves whose root is False.
func New(n int) *Graph {
	g := &Graph{
		leaves: n,
		nodes:  make([]gnode, n+1),
		hash:   make(map[[2]Lit]Lit)}
	return g
}

// Leaves returns the number of leaves of g.
func (g *Graph) Leaves() int {
	return g.leaves
}

// Leaf returns the literal of leaf i, counting from 0.
func (g *Graph) Leaf(i int) Lit {
	return mkLit(i+1, false)
}

// IsLeaf returns whether l refers to a leaf.
func (g *Graph) IsLeaf(l Lit) bool {
	n := l.Node()
	return n >= 1 && n <= g.leaves
}

// And returns a literal equivalent to a and b.
func (g *Graph) And(a, b Lit) Lit {
	if a == b {
		return a
	}
	if a == b.Not() {
		return False
	}
	if a > b {
		a, b = b, a
	}
	if a == False {
		return False
	}
	if a == True {
		return b
	}
	k := [2]Lit{a, b}
	if l, ok := g.hash[k]; ok {
		return l
	}
	la, lb := g.nodes[a.Node()].level, g.nodes[b.Node()].level
	if lb > la {
		la = lb
	}
	g.nodes = append(g.nodes, gnode{a: a, b: b, level: la + 1})
	l := mkLit(len(g.nodes)-1, false)
	g.hash[k] = l
	return l
}

// Or returns a literal equivalent to a or b.
func (g *Graph) Or(a, b Lit) Lit {
	return g.And(a.Not(), b.Not()).Not()
}

// Xor returns a literal equivalent to a xor b.
func (g *Graph) Xor(a, b Lit) Lit {
	return g.Or(g.And(a, b.Not()), g.And(a.Not(), b))
}

// Mux returns a literal equivalent to if c then t else e.
func (g *Graph) Mux(c, t, e Lit) Lit {
	switch {
	case t == e:
		return t
	case t == e.Not():
		return g.Xor(c, e)
	case e == False:
		return g.And(c, t)
	case t == False:
		return g.And(c.Not(), e)
	case e == True:
		return g.Or(c.Not(), t)
	case t == True:
		return g.Or(c, e)
	}
	return g.Or(g.And(c, t), g.And(c.Not(), e))
}

// Ands returns a balanced conjunction of ls.
func (g *Graph) Ands(ls []Lit) Lit {
	return g.balance(ls, false)
}

// Ors returns a balanced disjunction of ls.
func (g *Graph) Ors(ls []Lit) Lit {
	return g.balance(ls, true)
}

func (g *Graph) balance(ls []Lit, or bool) Lit {
	if len(ls) == 0 {
		return False.NotCond(!or)
	}
	cur := append([]Lit(nil), ls...)
	for len(cur) > 1 {
		// combine the two shallowest first
		for i := 1; i < len(cur); i++ {
			for j := i; j > 0 && g.level(cur[j]) < g.level(cur[j-1]); j-- {
				cur[j], cur[j-1] = cur[j-1], cur[j]
			}
		}
		var r Lit
		if or {
			r = g.Or(cur[0], cur[1])
		} else {
			r = g.And(cur[0], cur[1])
		}
		cur = append(cur[2:], r)
	}
	return cur[0]
}

func (g *Graph) level(l Lit) int {
	return g.nodes[l.Node()].level
}

// SetRoot sets the root of g.
func (g *Graph) SetRoot(l Lit) {
	g.root = l
}

// Root returns the root of g.
func (g *Graph) Root() Lit {
	return g.root
}

// Depth returns the number of and levels of the root.
func (g *Graph) Depth() int {
	return g.level(g.root)
}

// reach returns the and node indices reachable from the root in
// topological order.
func (g *Graph) reach() []int {
	r := g.root.Node()
	if r <= g.leaves {
		return nil
	}
	seen := make([]bool, len(g.nodes))
	seen[r] = true
	var res []int
	for i := r; i > g.leaves; i-- {
		if !seen[i] {
			continue
		}
		res = append(res, i)
		seen[g.nodes[i].a.Node()] = true
		seen[g.nodes[i].b.Node()] = true
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// NumAnds returns the number of and nodes reachable from the root.
func (g *Graph) NumAnds() int {
	return len(g.reach())
}

// Eval returns the table of the root given tables for the leaves, all
// over n variables.
func (g *Graph) Eval(n int, leaves []tt.T) tt.T {
	vals := make([]tt.T, len(g.nodes))
	vals[0] = tt.New(n)
	for i := 0; i < g.leaves; i++ {
		vals[i+1] = leaves[i]
	}
	for _, i := range g.reach() {
		nd := &g.nodes[i]
		vals[i] = tt.AndCompl(tt.New(n), vals[nd.a.Node()], vals[nd.b.Node()],
			nd.a.IsCompl(), nd.b.IsCompl())
	}
	r := vals[g.root.Node()]
	if g.root.IsCompl() {
		return tt.Not(tt.New(n), r)
	}
	return r.Copy()
}

// Truth returns the table of the root over Leaves() variables, leaf i
// being variable i.
func (g *Graph) Truth() tt.T {
	n := g.leaves
	vs := make([]tt.T, n)
	for i := range vs {
		vs[i] = tt.Var(n, i)
	}
	return g.Eval(n, vs)
}

// Count returns the number of and nodes which building g over leaves in m
// would add, taking into account that the nodes of root's maximum fanout
// free cone are freed once root is replaced.  The cone must be marked in
// m's current traversal, as done by aig.Manager.MffcLabel.  Count stops
// and returns false if the count exceeds max or if g would reproduce
// root itself.  It also returns the level the new root would have.
func (g *Graph) Count(m *aig.Manager, leaves []aig.Edge, root aig.ID, max int) (count, level int, ok bool) {
	if g.root.Node() <= g.leaves {
		return 0, g.edgeLevel(m, leaves, g.root), true
	}
	es := make([]aig.Edge, len(g.nodes))
	lev := make([]int, len(g.nodes))
	es[0] = aig.False
	for i := 0; i < g.leaves; i++ {
		es[i+1] = leaves[i]
		lev[i+1] = m.Level(leaves[i].ID())
	}
	for _, i := range g.reach() {
		nd := &g.nodes[i]
		ea, eb := es[nd.a.Node()], es[nd.b.Node()]
		la, lb := lev[nd.a.Node()], lev[nd.b.Node()]
		if lb > la {
			la = lb
		}
		lev[i] = la + 1
		es[i] = aig.NoEdge
		if ea != aig.NoEdge && eb != aig.NoEdge {
			e, found := m.Lookup(ea.NotCond(nd.a.IsCompl()), eb.NotCond(nd.b.IsCompl()))
			if found {
				if e.ID() == root {
					return 0, 0, false
				}
				es[i] = e
				if e.IsConst() || m.IsCi(e.ID()) {
					lev[i] = 0
				} else {
					lev[i] = m.Level(e.ID())
				}
				if !m.IsAnd(e.ID()) || !m.Marked(e.ID()) {
					continue
				}
			}
		}
		count++
		if count > max {
			return count, 0, false
		}
	}
	return count, lev[g.root.Node()], true
}

func (g *Graph) edgeLevel(m *aig.Manager, leaves []aig.Edge, l Lit) int {
	if l.Node() == 0 {
		return 0
	}
	return m.Level(leaves[l.Node()-1].ID())
}

// Build builds g over leaves in m and returns the edge of the root.
func (g *Graph) Build(m *aig.Manager, leaves []aig.Edge) aig.Edge {
	es := make([]aig.Edge, len(g.nodes))
	es[0] = aig.False
	for i := 0; i < g.leaves; i++ {
		es[i+1] = leaves[i]
	}
	for _, i := range g.reach() {
		nd := &g.nodes[i]
		es[i] = m.Build(es[nd.a.Node()].NotCond(nd.a.IsCompl()),
			es[nd.b.Node()].NotCond(nd.b.IsCompl()))
	}
	return es[g.root.Node()].NotCond(g.root.IsCompl())
}

func (g *Graph) litString(l Lit) string {
	s := ""
	if l.IsCompl() {
		s = "!"
	}
	switch n := l.Node(); {
	case n == 0:
		return s + "0"
	case n <= g.leaves:
		return fmt.Sprintf("%s%c", s, 'a'+n-1)
	default:
		return fmt.Sprintf("%sg%d", s, n)
	}
}

func (g *Graph) String() string {
	var sb strings.Builder
	for _, i := range g.reach() {
		nd := &g.nodes[i]
		fmt.Fprintf(&sb, "g%d = %s & %s; ", i, g.litString(nd.a), g.litString(nd.b))
	}
	fmt.Fprintf(&sb, "root %s", g.litString(g.root))
	return sb.String()
}
