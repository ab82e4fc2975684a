// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"
	"testing"

	"github.com/go-air/aigo/aig"
)

func word(vs []bool) uint64 {
	var w uint64
	for i, v := range vs {
		if v {
			w |= 1 << uint(i)
		}
	}
	return w
}

func TestMult(t *testing.T) {
	m := aig.New()
	a, b := Inputs(m, 4), Inputs(m, 4)
	for _, e := range Mult(m, a, b) {
		m.AddPo(e)
	}
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
	cis := make([]bool, 8)
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			for i := 0; i < 4; i++ {
				cis[i] = x&(1<<uint(i)) != 0
				cis[4+i] = y&(1<<uint(i)) != 0
			}
			if p := word(m.Eval(cis)); p != uint64(x*y) {
				t.Errorf("%d * %d = %d", x, y, p)
			}
		}
	}
}

func TestAdder(t *testing.T) {
	m := aig.New()
	a, b := Inputs(m, 3), Inputs(m, 3)
	s, c := Adder(m, a, b, aig.False)
	for _, e := range s {
		m.AddPo(e)
	}
	m.AddPo(c)
	cis := make([]bool, 6)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			for i := 0; i < 3; i++ {
				cis[i] = x&(1<<uint(i)) != 0
				cis[3+i] = y&(1<<uint(i)) != 0
			}
			if r := word(m.Eval(cis)); r != uint64(x+y) {
				t.Errorf("%d + %d = %d", x, y, r)
			}
		}
	}
}

func TestRand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		m := Rand(rng, 6, 80, 5)
		if m.NumAnds() < 80 {
			t.Errorf("got %d ands", m.NumAnds())
		}
		if m.NumPos() != 5 {
			t.Errorf("got %d outputs", m.NumPos())
		}
		if err := m.Check(); err != nil {
			t.Error(err)
		}
	}
	s := RandSeq(rng, 3, 4, 30, 2)
	if s.NumLatches() != 4 {
		t.Errorf("latches")
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}
