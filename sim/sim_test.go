// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sim

import (
	"math/rand"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/gen"
)

var rnd = rand.New(rand.NewSource(71))

func TestSimulate(t *testing.T) {
	m := gen.Rand(rnd, 10, 200, 4)
	s := New(m, rnd, 3)
	vs := make([]uint64, m.Len())
	for w := 0; w < 3; w++ {
		for _, id := range m.Cis() {
			vs[id] = s.Words(id)[w]
		}
		m.Simulate64(vs)
		for i := 1; i < m.Len(); i++ {
			if m.IsAnd(aig.ID(i)) && vs[i] != s.Words(aig.ID(i))[w] {
				t.Fatalf("node %d word %d differs", i, w)
			}
		}
	}
}

func TestSync(t *testing.T) {
	m := aig.New()
	a, b := m.Pi(), m.Pi()
	s := New(m, rnd, 2)
	s.AddPattern([]bool{true, true})
	x := m.Build(a, b)
	s.Sync()
	for w := 0; w < s.NumWords(); w++ {
		if s.Value(x, w) != s.Value(a, w)&s.Value(b, w) {
			t.Errorf("word %d not synced", w)
		}
	}
	if s.Value(x, s.NumWords()-1)&1 != 1 {
		t.Errorf("pattern not simulated on new node")
	}
}

func TestClasses(t *testing.T) {
	m := aig.New()
	a, b, c := m.Pi(), m.Pi(), m.Pi()
	x1 := m.Xor(a, b)
	x2 := m.Build(m.Or(a, b), m.Build(a, b).Not())
	ab := m.Build(a, b)
	z := m.Build(ab, a.Not())
	m.AddPo(x1)
	m.AddPo(x2)
	m.AddPo(z)
	m.AddPo(m.Build(c, x1))
	s := New(m, rnd, 4)
	cl := NewClasses(s, nil)
	cl.Seed(8)
	r1, ok1 := cl.Repr(x1.ID())
	r2, ok2 := cl.Repr(x2.ID())
	if !ok1 || !ok2 || r1 != r2 {
		t.Fatalf("xors not in the same class")
	}
	if cl.Compl(x1.ID(), x2.ID()) != (x1.IsCompl() != x2.IsCompl()) {
		t.Errorf("wrong relative phase of xors")
	}
	if r, ok := cl.Repr(z.ID()); !ok || r != 0 {
		t.Errorf("constant node %s not with constant", z)
	}
	for _, id := range m.Pis() {
		if _, ok := cl.Repr(id); ok {
			t.Errorf("input %d has a class", id)
		}
	}
	cl.Each(func(ms []aig.ID) {
		for i := 1; i < len(ms); i++ {
			if ms[i-1] >= ms[i] {
				t.Errorf("class not ordered: %v", ms)
			}
			if !s.Equal(aig.MkEdge(ms[0], false), aig.MkEdge(ms[i], cl.Compl(ms[0], ms[i]))) {
				t.Errorf("class members differ: %v", ms)
			}
		}
	})
}

func TestRefineCex(t *testing.T) {
	m := aig.New()
	xs := gen.Inputs(m, 12)
	big := m.Ands(xs...)
	m.AddPo(big)
	s := New(m, rnd, 1)
	cl := NewClasses(s, nil)
	s.AddPattern(make([]bool, 12))
	if cl.RefineCex() {
		t.Errorf("all zero pattern split a class")
	}
	ones := make([]bool, 12)
	for i := range ones {
		ones[i] = true
	}
	s.AddPattern(ones)
	cl.RefineCex()
	if r, ok := cl.Repr(big.ID()); ok && r == 0 {
		t.Errorf("conjunction still with constant")
	}
	if s.NumPatterns() != 2 || s.NumWords() != 2 {
		t.Errorf("patterns %d words %d", s.NumPatterns(), s.NumWords())
	}
}

func TestSubstitute(t *testing.T) {
	m := aig.New()
	a, b, c := m.Pi(), m.Pi(), m.Pi()
	f := m.Build(a, m.Or(b, c))
	g := m.Or(m.Build(a, b), m.Build(a, c))
	m.AddPo(m.Xor(f, c))
	m.AddPo(m.Xor(g, c))
	s := New(m, rnd, 2)
	cl := NewClasses(s, nil)
	cl.Seed(4)
	if r, _ := cl.Repr(g.ID()); r != f.ID() {
		t.Fatalf("f does not represent g")
	}
	subs := m.Replace(g.ID(), f.NotCond(g.IsCompl()))
	cl.Substitute(subs)
	cl.Each(func(ms []aig.ID) {
		for _, id := range ms {
			if m.Kind(id) == aig.KindDead {
				t.Errorf("dead node %d in class", id)
			}
		}
	})
	if _, ok := cl.Repr(g.ID()); ok {
		t.Errorf("replaced node still in a class")
	}
	if m.Po(0) != m.Po(1) {
		t.Errorf("outputs not merged: %s %s", m.Po(0), m.Po(1))
	}
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestSubstituteChain(t *testing.T) {
	m := aig.New()
	a, b, c, d := m.Pi(), m.Pi(), m.Pi(), m.Pi()
	f := m.Build(a, m.Or(b, c))
	g := m.Or(m.Build(a, b), m.Build(a, c))
	p := m.Build(g, d)
	q := m.Build(p, a)
	m.AddPo(f)
	m.AddPo(q)
	s := New(m, rnd, 2)
	cl := NewClasses(s, nil)
	cl.Seed(4)
	if r, ok := cl.Repr(q.ID()); !ok || r != p.ID() {
		t.Fatalf("%s does not represent %s", p, q)
	}
	cl.Substitute(m.Replace(g.ID(), f.NotCond(g.IsCompl())))
	p2, ok := m.Lookup(f, d)
	if !ok {
		t.Fatalf("fanout of %s not rebuilt", g)
	}
	q2, ok := m.Lookup(p2, a)
	if !ok {
		t.Fatalf("fanout of %s not rebuilt", p)
	}
	r1, ok1 := cl.Repr(p2.ID())
	r2, ok2 := cl.Repr(q2.ID())
	if !ok1 || !ok2 || r1 != r2 {
		t.Errorf("rebuilt nodes %s and %s not in one class: %d %t, %d %t",
			p2, q2, r1, ok1, r2, ok2)
	}
	cl.Each(func(ms []aig.ID) {
		for _, id := range ms {
			if m.Kind(id) == aig.KindDead {
				t.Errorf("dead node %d in class", id)
			}
		}
	})
}

func TestSeed(t *testing.T) {
	m := gen.Rand(rnd, 8, 100, 3)
	s := New(m, rnd, 1)
	cl := NewClasses(s, nil)
	n := cl.Seed(20)
	if n < 1 || n > 20 {
		t.Errorf("seed performed %d rounds", n)
	}
	if s.Rounds() != n+1 {
		t.Errorf("%d rounds recorded, expected %d", s.Rounds(), n+1)
	}
}

func TestAddWord(t *testing.T) {
	m := aig.New()
	a, b := m.Pi(), m.Pi()
	x := m.Build(a, b.Not())
	s := New(m, rnd, 0)
	if s.NumWords() != 0 {
		t.Fatalf("%d words without patterns", s.NumWords())
	}
	s.AddPattern([]bool{true, false})
	s.AddWord([]uint64{0xf0, 0x3c})
	if s.NumWords() != 2 || s.NumPatterns() != 128 {
		t.Fatalf("words %d patterns %d", s.NumWords(), s.NumPatterns())
	}
	if s.Value(x, 0)&1 != 1 {
		t.Errorf("pattern not simulated")
	}
	if s.Value(x, 1) != 0xf0&^0x3c {
		t.Errorf("word simulated to %x", s.Value(x, 1))
	}
}
