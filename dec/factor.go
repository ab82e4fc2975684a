// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dec

import (
	"math/bits"

	"github.com/go-air/aigo/tt"
)

// Factor adds a factored form of the cover cs to g and returns its
// literal.  Literals are divided out greedily, most frequent first, after
// extracting the cube common to all cubes.
func (g *Graph) Factor(cs []tt.Cube) Lit {
	if len(cs) == 0 {
		return False
	}
	for _, c := range cs {
		if c.Mask == 0 {
			return True
		}
	}
	if len(cs) == 1 {
		return g.cube(cs[0])
	}
	if cc := common(cs); cc.Mask != 0 {
		rest := make([]tt.Cube, len(cs))
		for i, c := range cs {
			rest[i] = tt.Cube{Mask: c.Mask &^ cc.Mask, Pol: c.Pol &^ cc.Mask}
		}
		return g.And(g.cube(cc), g.Factor(rest))
	}
	v, pos, n := frequent(cs)
	if n < 2 {
		ls := make([]Lit, len(cs))
		for i, c := range cs {
			ls[i] = g.cube(c)
		}
		return g.Ors(ls)
	}
	b := uint32(1) << uint(v)
	var q, r []tt.Cube
	for _, c := range cs {
		if c.Mask&b != 0 && (c.Pol&b != 0) == pos {
			q = append(q, tt.Cube{Mask: c.Mask &^ b, Pol: c.Pol &^ b})
			continue
		}
		r = append(r, c)
	}
	x := g.Leaf(v).NotCond(!pos)
	return g.Or(g.And(x, g.Factor(q)), g.Factor(r))
}

func (g *Graph) cube(c tt.Cube) Lit {
	var ls []Lit
	for m := c.Mask; m != 0; m &= m - 1 {
		i := bits.TrailingZeros32(m)
		ls = append(ls, g.Leaf(i).NotCond(c.Pol&(1<<uint(i)) == 0))
	}
	return g.Ands(ls)
}

// common returns the largest cube contained in every cube of cs.
func common(cs []tt.Cube) tt.Cube {
	mask, pol := ^uint32(0), cs[0].Pol
	for _, c := range cs {
		mask &= c.Mask
		mask &^= c.Pol ^ pol
	}
	return tt.Cube{Mask: mask, Pol: pol & mask}
}

// frequent returns the literal occurring in most cubes of cs.
func frequent(cs []tt.Cube) (v int, pos bool, n int) {
	var cnt [64]int
	for _, c := range cs {
		for m := c.Mask; m != 0; m &= m - 1 {
			i := bits.TrailingZeros32(m)
			k := 2 * i
			if c.Pol&(1<<uint(i)) != 0 {
				k++
			}
			cnt[k]++
		}
	}
	best := 0
	for k := 1; k < len(cnt); k++ {
		if cnt[k] > cnt[best] {
			best = k
		}
	}
	return best / 2, best%2 == 1, cnt[best]
}

// FromCover returns a graph over n leaves whose root is the factored form
// of cs, complemented if compl.
func FromCover(cs []tt.Cube, n int, compl bool) *Graph {
	g := New(n)
	g.SetRoot(g.Factor(cs).NotCond(compl))
	return g
}

// Synth returns alternative graphs over n leaves for a function f with
// on <= f <= upper.  The candidates are the factored irredundant covers
// of the function and of its complement and, for at most 4 variables
// without don't cares, Shannon decompositions with each support variable
// on top.  Covers with more than maxCubes cubes are skipped.
func Synth(on, upper tt.T, n, maxCubes int) []*Graph {
	var res []*Graph
	if cs, ok := tt.Isop(on, upper, n, maxCubes); ok {
		res = append(res, FromCover(cs, n, false))
	}
	off := tt.Not(tt.New(n), upper)
	offUpper := tt.Not(tt.New(n), on)
	if cs, ok := tt.Isop(off, offUpper, n, maxCubes); ok {
		res = append(res, FromCover(cs, n, true))
	}
	if n <= 4 && on.Equal(upper) {
		for v := 0; v < n; v++ {
			if !on.HasVar(v) {
				continue
			}
			g := New(n)
			g.SetRoot(g.shannon(on, n, v))
			res = append(res, g)
		}
	}
	return res
}

func (g *Graph) shannon(f tt.T, n, v int) Lit {
	if f.IsConst0() {
		return False
	}
	if f.IsConst1() {
		return True
	}
	for i := 0; i < n; i++ {
		x := tt.Var(n, i)
		if f.Equal(x) {
			return g.Leaf(i)
		}
		if f.EqualCompl(x) {
			return g.Leaf(i).Not()
		}
	}
	if v < 0 || !f.HasVar(v) {
		for v = n - 1; !f.HasVar(v); v-- {
		}
	}
	l0 := g.shannon(f.Cofactor0(v), n, -1)
	l1 := g.shannon(f.Cofactor1(v), n, -1)
	return g.Mux(g.Leaf(v), l1, l0)
}
