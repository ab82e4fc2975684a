// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package tt

import (
	"math/bits"
	"strings"
)

// Cube is a product of literals.  Variable i occurs in the cube if bit i
// of Mask is set, positively if bit i of Pol is also set.
type Cube struct {
	Mask uint32
	Pol  uint32
}

// Lits returns the number of literals of c.
func (c Cube) Lits() int {
	return bits.OnesCount32(c.Mask)
}

// Table returns the table of c over n variables.
func (c Cube) Table(n int) T {
	t := Const(n, true)
	for i := 0; i < n; i++ {
		if c.Mask&(1<<uint(i)) == 0 {
			continue
		}
		AndCompl(t, t, Var(n, i), false, c.Pol&(1<<uint(i)) == 0)
	}
	return t
}

func (c Cube) String() string {
	if c.Mask == 0 {
		return "1"
	}
	var sb strings.Builder
	for i := 0; i < 32; i++ {
		if c.Mask&(1<<uint(i)) == 0 {
			continue
		}
		if c.Pol&(1<<uint(i)) == 0 {
			sb.WriteByte('!')
		}
		sb.WriteByte(byte('a' + i%26))
	}
	return sb.String()
}

// Cover returns the table of the disjunction of cs over n variables.
func Cover(cs []Cube, n int) T {
	t := New(n)
	for _, c := range cs {
		Or(t, t, c.Table(n))
	}
	return t
}

// Isop computes an irredundant sum of products cover of some function f
// with on <= f <= upper, tables over n variables, using the recursive
// Minato-Morreale algorithm.  If the cover would have more than maxCubes
// cubes, Isop gives up and returns false.  maxCubes <= 0 means no limit.
func Isop(on, upper T, n, maxCubes int) ([]Cube, bool) {
	if maxCubes <= 0 {
		maxCubes = int(^uint(0) >> 1)
	}
	is := &isopper{n: n, max: maxCubes}
	if _, ok := is.rec(on, upper, n-1); !ok {
		return nil, false
	}
	return is.cubes, true
}

type isopper struct {
	n     int
	max   int
	cubes []Cube
}

func (is *isopper) rec(l, u T, top int) (T, bool) {
	if l.IsConst0() {
		return make(T, len(l)), true
	}
	if u.IsConst1() {
		if len(is.cubes) == is.max {
			return nil, false
		}
		is.cubes = append(is.cubes, Cube{})
		return Const(is.n, true), true
	}
	i := top
	for i >= 0 && !l.HasVar(i) && !u.HasVar(i) {
		i--
	}
	if i < 0 {
		panic("tt: isop lower bound exceeds upper bound")
	}
	l0, l1 := l.Cofactor0(i), l.Cofactor1(i)
	u0, u1 := u.Cofactor0(i), u.Cofactor1(i)
	start := len(is.cubes)
	r0, ok := is.rec(Sharp(make(T, len(l)), l0, u1), u0, i-1)
	if !ok {
		return nil, false
	}
	mid := len(is.cubes)
	r1, ok := is.rec(Sharp(make(T, len(l)), l1, u0), u1, i-1)
	if !ok {
		return nil, false
	}
	end := len(is.cubes)
	ln := make(T, len(l))
	for k := range ln {
		ln[k] = l0[k]&^r0[k] | l1[k]&^r1[k]
	}
	rs, ok := is.rec(ln, And(make(T, len(l)), u0, u1), i-1)
	if !ok {
		return nil, false
	}
	b := uint32(1) << uint(i)
	for k := start; k < mid; k++ {
		is.cubes[k].Mask |= b
	}
	for k := mid; k < end; k++ {
		is.cubes[k].Mask |= b
		is.cubes[k].Pol |= b
	}
	x := Var(is.n, i)
	r := make(T, len(l))
	for k := range r {
		r[k] = r0[k]&^x[k] | r1[k]&x[k] | rs[k]
	}
	return r, true
}
