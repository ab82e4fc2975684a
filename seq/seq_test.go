// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package seq

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/fraig"
	"github.com/go-air/aigo/gen"
	"github.com/go-air/aigo/internal/aigtest"
)

var rnd = rand.New(rand.NewSource(37))

func TestUnrollComb(t *testing.T) {
	s := aig.New()
	i0, i1, i2 := s.Pi(), s.Pi(), s.Pi()

	a1 := s.Build(i0, i1)
	a2 := s.Build(a1, i2)
	a3 := s.Build(a1, i1.Not())
	a4 := s.Build(a2, a3)

	u := NewUnroll(s)
	u.At(a4, 3)
	if u.C.NumAnds() != 4*s.NumAnds() {
		t.Errorf("expected %d ands got %d", 4*s.NumAnds(), u.C.NumAnds())
	}
	if u.C.NumPis() != 4*s.NumPis() {
		t.Errorf("expected %d inputs got %d", 4*s.NumPis(), u.C.NumPis())
	}
}

func TestUnrollLatch(t *testing.T) {
	s := aig.New()
	m := s.Latch(aig.False)
	s.SetNext(m, m.Not())
	u := NewUnroll(s)
	for i := 0; i < 5; i++ {
		want := aig.False.NotCond(i%2 == 1)
		if got := u.At(m, i); got != want {
			t.Errorf("time %d: %s", i, got)
		}
	}
	f := NewUnrollFree(s)
	x := f.At(m, 0)
	if f.C.Kind(x.ID()) != aig.KindPi {
		t.Errorf("free latch at time 0 is %s", f.C.Kind(x.ID()))
	}
	if f.At(m, 3) != x.Not() {
		t.Errorf("free latch at time 3 is %s", f.At(m, 3))
	}
}

func TestUnrollSpeculate(t *testing.T) {
	s := aig.New()
	in := s.Pi()
	l1, l2 := s.Latch(aig.False), s.Latch(aig.False)
	s.SetNext(l1, s.Xor(l1, in))
	s.SetNext(l2, s.Xor(l2, in))
	u := NewUnrollFree(s)
	u.Speculate = func(id aig.ID, t int) (aig.Edge, bool) {
		if id == l2.ID() && t == 0 {
			return l1, true
		}
		return aig.NoEdge, false
	}
	if u.At(l2, 1) != u.At(l1, 1) {
		t.Errorf("substitution not applied")
	}
}

// twins returns a network with two latches computing the same running
// parity of one input, the second complemented if compl.
func twins(compl bool) *aig.Manager {
	m := aig.New()
	in := m.Pi()
	l1 := m.Latch(aig.False)
	l2 := m.Latch(aig.False.NotCond(compl))
	m.SetNext(l1, m.Xor(l1, in))
	m.SetNext(l2, m.Xor(l2, in))
	m.AddPo(m.Build(l1, l2.NotCond(!compl)))
	m.AddPo(l2)
	return m
}

func TestScorr(t *testing.T) {
	for _, compl := range []bool{false, true} {
		m := twins(compl)
		out, res, err := Scorr(m, DefaultParams())
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != fraig.Converged {
			t.Errorf("compl %t: %s", compl, res)
		}
		if out.NumLatches() != 1 {
			t.Errorf("compl %t: %d latches left", compl, out.NumLatches())
		}
		if out.Po(0) != aig.False {
			t.Errorf("compl %t: output 0 is %s", compl, out.Po(0))
		}
		if err := out.Check(); err != nil {
			t.Fatal(err)
		}
		if f := aigtest.RunDiff(m, out, aigtest.RandTrace(rnd, m, 40)); f >= 0 {
			t.Errorf("compl %t: outputs differ at frame %d", compl, f)
		}
		if m.NumLatches() != 2 {
			t.Errorf("input network modified")
		}
	}
}

func TestLcorr(t *testing.T) {
	m := twins(false)
	out, res, err := Lcorr(m, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Merged == 0 || out.NumLatches() != 1 {
		t.Errorf("%s, %d latches", res, out.NumLatches())
	}
	if f := aigtest.RunDiff(m, out, aigtest.RandTrace(rnd, m, 40)); f >= 0 {
		t.Errorf("outputs differ at frame %d", f)
	}
}

func TestScorrCanceled(t *testing.T) {
	m := twins(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, res, err := ScorrContext(ctx, m, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != fraig.BudgetExhausted || res.Merged != 0 {
		t.Errorf("canceled: %s", res)
	}
	if out.NumLatches() != 2 {
		t.Errorf("%d latches left after cancel", out.NumLatches())
	}
	if f := aigtest.RunDiff(m, out, aigtest.RandTrace(rnd, m, 40)); f >= 0 {
		t.Errorf("outputs differ at frame %d", f)
	}
}

func TestScorrDistinct(t *testing.T) {
	// a two bit counter, no two signals correspond
	m := aig.New()
	en := m.Pi()
	b0, b1 := m.Latch(aig.False), m.Latch(aig.False)
	m.SetNext(b0, m.Xor(b0, en))
	m.SetNext(b1, m.Xor(b1, m.Build(b0, en)))
	m.AddPo(m.Build(b0, b1))
	out, res, err := Scorr(m, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if out.NumLatches() != 2 {
		t.Errorf("%s: %d latches left", res, out.NumLatches())
	}
	if f := aigtest.RunDiff(m, out, aigtest.RandTrace(rnd, m, 40)); f >= 0 {
		t.Errorf("outputs differ at frame %d", f)
	}
}

func TestScorrRandom(t *testing.T) {
	for trial := 0; trial < 10; trial++ {
		m := gen.RandSeq(rnd, 6, 5, 80, 4)
		p := DefaultParams()
		p.Depth = 1 + trial%2
		p.ConfLimit = 0
		out, res, err := Scorr(m, p)
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != fraig.Converged {
			t.Errorf("trial %d: %s", trial, res)
		}
		if err := out.Check(); err != nil {
			t.Fatal(err)
		}
		for k := 0; k < 5; k++ {
			if f := aigtest.RunDiff(m, out, aigtest.RandTrace(rnd, m, 30)); f >= 0 {
				t.Fatalf("trial %d: outputs differ at frame %d", trial, f)
			}
		}
	}
}

func TestNoLatches(t *testing.T) {
	m := gen.Rand(rnd, 4, 10, 1)
	if _, _, err := Scorr(m, DefaultParams()); !errors.Is(err, ErrNoLatches) {
		t.Errorf("error %v", err)
	}
	p := DefaultParams()
	p.Depth = 0
	if _, _, err := Scorr(twins(false), p); !errors.Is(err, ErrBadParams) {
		t.Errorf("error %v", err)
	}
}
