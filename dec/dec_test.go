// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dec

import (
	"math/rand"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/tt"
)

var rnd = rand.New(rand.NewSource(5))

func randT(n int) tt.T {
	t := tt.New(n)
	for k := 0; k < 1<<uint(n); k++ {
		if rnd.Intn(2) == 1 {
			t.SetBit(k)
		}
	}
	if n < 6 {
		// replicate
		w := t[0] & (1<<(1<<uint(n)) - 1)
		for s := uint(1) << uint(n); s < 64; s <<= 1 {
			w |= w << s
		}
		t[0] = w
	}
	return t
}

func TestSynth4(t *testing.T) {
	for trial := 0; trial < 200; trial++ {
		f := randT(4)
		gs := Synth(f, f, 4, 0)
		if len(gs) < 2 {
			t.Fatalf("%s: %d candidates", f, len(gs))
		}
		for _, g := range gs {
			if !g.Truth().Equal(f) {
				t.Fatalf("%s: candidate %s computes %s", f, g, g.Truth())
			}
		}
	}
}

func TestSynthDC(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		n := 3 + rnd.Intn(6)
		on, dc := randT(n), randT(n)
		tt.Sharp(dc, dc, on)
		upper := tt.Or(tt.New(n), on, dc)
		for _, g := range Synth(on, upper, n, 0) {
			h := g.Truth()
			if !on.Implies(h) || !h.Implies(upper) {
				t.Fatalf("candidate %s out of bounds", g)
			}
		}
	}
}

func TestSynthSimple(t *testing.T) {
	x := tt.Var(4, 2)
	for _, g := range Synth(x, x, 4, 0) {
		if g.NumAnds() != 0 || g.Root() != g.Leaf(2) {
			t.Errorf("variable synthesized as %s", g)
		}
	}
	c := tt.Const(4, true)
	for _, g := range Synth(c, c, 4, 0) {
		if g.Root() != True {
			t.Errorf("constant synthesized as %s", g)
		}
	}
}

func TestXorShannon(t *testing.T) {
	f := tt.Xor(tt.New(4), tt.Var(4, 0), tt.Var(4, 1))
	best := 100
	for _, g := range Synth(f, f, 4, 0) {
		if n := g.NumAnds(); n < best {
			best = n
		}
	}
	if best != 3 {
		t.Errorf("best xor has %d ands", best)
	}
}

func TestFactorShares(t *testing.T) {
	// ab + ac + ad = a(b + c + d)
	cs := []tt.Cube{
		{Mask: 0x3, Pol: 0x3},
		{Mask: 0x5, Pol: 0x5},
		{Mask: 0x9, Pol: 0x9}}
	g := FromCover(cs, 4, false)
	if g.NumAnds() != 3 {
		t.Errorf("factored form %s", g)
	}
	if !g.Truth().Equal(tt.Cover(cs, 4)) {
		t.Errorf("factored form wrong")
	}
}

func TestCountBuild(t *testing.T) {
	m := aig.New()
	leaves := []aig.Edge{m.Pi(), m.Pi(), m.Pi(), m.Pi()}
	for trial := 0; trial < 50; trial++ {
		f := randT(4)
		g := Synth(f, f, 4, 0)[0]
		m.IncTrav()
		before := m.NumAnds()
		n, _, ok := g.Count(m, leaves, aig.NoID, 100)
		if !ok {
			t.Fatalf("count failed")
		}
		e := g.Build(m, leaves)
		if added := m.NumAnds() - before; added != n {
			t.Errorf("counted %d but added %d", n, added)
		}
		m.AddPo(e)
		if n, _, _ = g.Count(m, leaves, aig.NoID, 100); n != 0 {
			t.Errorf("rebuild counted %d", n)
		}
		vs := make([]uint64, m.Len())
		for k := 0; k < 16; k++ {
			for i, l := range leaves {
				if k>>uint(i)&1 == 1 {
					vs[l.ID()] |= 1 << uint(k)
				}
			}
		}
		m.Simulate64(vs)
		if got := aig.Value64(vs, e) & 0xFFFF; got != f[0]&0xFFFF {
			t.Errorf("built %04x expected %04x", got, f[0]&0xFFFF)
		}
	}
}
