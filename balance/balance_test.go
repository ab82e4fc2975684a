// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package balance

import (
	"math/rand"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/gen"
	"github.com/go-air/aigo/internal/aigtest"
)

var rnd = rand.New(rand.NewSource(29))

func TestChain(t *testing.T) {
	m := aig.New()
	xs := gen.Inputs(m, 16)
	c := xs[0]
	for _, x := range xs[1:] {
		c = m.Build(c, x)
	}
	m.AddPo(c)
	if m.MaxLevel() != 15 {
		t.Fatalf("chain has %d levels", m.MaxLevel())
	}
	d := Balance(m, Params{})
	if d.MaxLevel() != 4 {
		t.Errorf("balanced chain has %d levels", d.MaxLevel())
	}
	if d.NumAnds() != 15 {
		t.Errorf("balanced chain has %d ands", d.NumAnds())
	}
	pats := aigtest.Patterns(rnd, 16, 8)
	if aigtest.Diff(aigtest.Outputs(m, pats), aigtest.Outputs(d, pats)) >= 0 {
		t.Errorf("balancing changed the function")
	}
}

func TestContradiction(t *testing.T) {
	m := aig.New()
	a, b, c := m.Pi(), m.Pi(), m.Pi()
	x := m.Build(a, b)
	y := m.Build(c, a.Not())
	m.AddPo(m.Build(x, y))
	d := Balance(m, Params{})
	if d.Po(0) != aig.False {
		t.Errorf("a & !a not detected: %s", d.Po(0))
	}
}

func TestRandom(t *testing.T) {
	for trial := 0; trial < 20; trial++ {
		m := gen.RandSeq(rnd, 8, 2, 150, 5)
		d := Balance(m, Params{Duplicate: trial%2 == 1})
		if err := d.Check(); err != nil {
			t.Fatal(err)
		}
		if d.NumLatches() != 2 || d.NumPis() != 8 || d.NumPos() != 5 {
			t.Fatalf("interface changed: %s", d.Stats())
		}
		pats := aigtest.Patterns(rnd, 10, 0)
		if i := aigtest.Diff(aigtest.Outputs(m, pats), aigtest.Outputs(d, pats)); i >= 0 {
			t.Fatalf("trial %d: output %d changed", trial, i)
		}
		if trial%2 == 0 && d.MaxLevel() > m.MaxLevel() {
			t.Errorf("trial %d: levels grew from %d to %d", trial, m.MaxLevel(), d.MaxLevel())
		}
	}
}
