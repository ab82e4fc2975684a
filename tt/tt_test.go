// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package tt

import (
	"math/rand"
	"testing"
)

var rnd = rand.New(rand.NewSource(3))

func randT(n int) T {
	t := New(n)
	for k := range t {
		t[k] = rnd.Uint64()
	}
	if n < 6 {
		t[0] = replicate(t[0], n)
	}
	return t
}

func TestVar(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for i := 0; i < n; i++ {
			v := Var(n, i)
			for k := 0; k < 1<<uint(n); k++ {
				if v.Bit(k) != (k>>uint(i)&1 == 1) {
					t.Fatalf("var %d of %d bit %d", i, n, k)
				}
			}
		}
	}
}

func TestCofactor(t *testing.T) {
	for n := 2; n <= 8; n++ {
		f := randT(n)
		for i := 0; i < n; i++ {
			c0, c1 := f.Cofactor0(i), f.Cofactor1(i)
			if c0.HasVar(i) || c1.HasVar(i) {
				t.Errorf("cofactor depends on var %d", i)
			}
			b := 1 << uint(i)
			for k := 0; k < 1<<uint(n); k++ {
				if c0.Bit(k) != f.Bit(k&^b) || c1.Bit(k) != f.Bit(k|b) {
					t.Fatalf("n=%d cofactor %d bit %d", n, i, k)
				}
			}
		}
	}
}

func swapBits(k, i, j int) int {
	bi, bj := k>>uint(i)&1, k>>uint(j)&1
	k &^= 1<<uint(i) | 1<<uint(j)
	return k | bi<<uint(j) | bj<<uint(i)
}

func TestSwap(t *testing.T) {
	for n := 2; n <= 9; n++ {
		for trial := 0; trial < 10; trial++ {
			f := randT(n)
			i, j := rnd.Intn(n), rnd.Intn(n)
			g := f.Copy()
			g.Swap(i, j)
			for k := 0; k < 1<<uint(n); k++ {
				if g.Bit(k) != f.Bit(swapBits(k, i, j)) {
					t.Fatalf("n=%d swap %d %d bit %d", n, i, j, k)
				}
			}
		}
	}
}

func TestStretchShrink(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		n := 2 + rnd.Intn(9)
		m := 1 + rnd.Intn(n)
		pos := rnd.Perm(n)[:m]
		for a := 1; a < len(pos); a++ {
			for b := a; b > 0 && pos[b] < pos[b-1]; b-- {
				pos[b], pos[b-1] = pos[b-1], pos[b]
			}
		}
		f := randT(m)
		g := Stretch(f, n, pos)
		for k := 0; k < 1<<uint(n); k++ {
			j := 0
			for v, p := range pos {
				j |= (k >> uint(p) & 1) << uint(v)
			}
			if g.Bit(k) != f.Bit(j) {
				t.Fatalf("stretch %v bit %d", pos, k)
			}
		}
		if h := Shrink(g, pos); !h.Equal(f) {
			t.Fatalf("shrink %v: %s != %s", pos, h, f)
		}
	}
}

func TestIsop(t *testing.T) {
	for trial := 0; trial < 60; trial++ {
		n := 1 + rnd.Intn(9)
		on := randT(n)
		dc := randT(n)
		if trial%3 == 0 {
			dc = New(n)
		}
		Sharp(dc, dc, on)
		upper := Or(New(n), on, dc)
		cs, ok := Isop(on, upper, n, 0)
		if !ok {
			t.Fatalf("isop failed without limit")
		}
		c := Cover(cs, n)
		if !on.Implies(c) || !c.Implies(upper) {
			t.Fatalf("n=%d cover out of bounds", n)
		}
		for i, x := range cs {
			// irredundant: every cube covers some on minterm no other cube covers
			rest := New(n)
			for j, y := range cs {
				if j != i {
					Or(rest, rest, y.Table(n))
				}
			}
			if Sharp(New(n), And(New(n), x.Table(n), on), rest).IsConst0() {
				t.Errorf("n=%d cube %s redundant", n, x)
			}
		}
	}
}

func TestIsopLimit(t *testing.T) {
	x := Xor(New(6), Var(6, 0), Var(6, 1))
	for i := 2; i < 6; i++ {
		Xor(x, x, Var(6, i))
	}
	if _, ok := Isop(x, x, 6, 10); ok {
		t.Errorf("parity of 6 has 32 cubes")
	}
	cs, ok := Isop(x, x, 6, 0)
	if !ok || len(cs) != 32 {
		t.Errorf("parity cover has %d cubes", len(cs))
	}
}

func TestUint16(t *testing.T) {
	f := uint16(0xCAFE)
	x := FromUint16(6, f)
	if x.Uint16() != f {
		t.Errorf("uint16 round trip")
	}
	if x.HasVar(4) || x.HasVar(5) {
		t.Errorf("spurious support")
	}
}
