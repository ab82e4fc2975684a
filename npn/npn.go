// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package npn computes canonical forms of 4 input Boolean functions under
// negation and permutation of the inputs and negation of the output.
//
// Functions are represented as 16 bit truth tables: bit k is the value
// of the function at the assignment whose variable i is bit i of k.
// There are 222 NPN classes of 4 input functions.
package npn

import (
	"fmt"
	"sort"
	"sync"
)

// Transform maps a function c to the function
//
//	g(y) = c(x) ^ Out  where  x[i] = y[Perm[i]] ^ (Neg>>i & 1)
type Transform struct {
	Perm [4]uint8
	Neg  uint8
	Out  bool
}

// Identity is the identity transform.
var Identity = Transform{Perm: [4]uint8{0, 1, 2, 3}}

func (t Transform) String() string {
	o := ""
	if t.Out {
		o = "!"
	}
	return fmt.Sprintf("%sp%v n%04b", o, t.Perm, t.Neg)
}

// Apply returns the function c transformed by t.
func Apply(c uint16, t Transform) uint16 {
	var g uint16
	for y := 0; y < 16; y++ {
		x := 0
		for i := 0; i < 4; i++ {
			b := (y>>t.Perm[i])&1 ^ int(t.Neg>>uint(i))&1
			x |= b << uint(i)
		}
		v := c>>uint(x)&1 == 1
		if v != t.Out {
			g |= 1 << uint(y)
		}
	}
	return g
}

type entry struct {
	canon uint16
	tr    Transform
}

var (
	once    sync.Once
	entries []entry
	classes []uint16
	all     []Transform
)

// Canon returns the canonical representative c of the NPN class of f and
// a transform t with Apply(c, t) == f.  The representative is the
// numerically smallest member of the class.
func Canon(f uint16) (uint16, Transform) {
	once.Do(build)
	e := &entries[f]
	return e.canon, e.tr
}

// Classes returns the canonical representatives of all classes in
// increasing order.
func Classes() []uint16 {
	once.Do(build)
	return append([]uint16(nil), classes...)
}

// Transforms returns all 768 transforms.
func Transforms() []Transform {
	once.Do(build)
	return append([]Transform(nil), all...)
}

func build() {
	all = transforms()
	entries = make([]entry, 1<<16)
	done := make([]bool, 1<<16)
	for f := 0; f < 1<<16; f++ {
		if done[f] {
			continue
		}
		c := uint16(f)
		for _, t := range all {
			if g := Apply(uint16(f), t); g < c {
				c = g
			}
		}
		classes = append(classes, c)
		for _, t := range all {
			h := Apply(c, t)
			if done[h] {
				continue
			}
			done[h] = true
			entries[h] = entry{canon: c, tr: t}
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
}

func transforms() []Transform {
	var perms [][4]uint8
	var rec func(p [4]uint8, used uint8, k int)
	rec = func(p [4]uint8, used uint8, k int) {
		if k == 4 {
			perms = append(perms, p)
			return
		}
		for i := uint8(0); i < 4; i++ {
			if used&(1<<i) != 0 {
				continue
			}
			p[k] = i
			rec(p, used|1<<i, k+1)
		}
	}
	rec([4]uint8{}, 0, 0)
	res := make([]Transform, 0, 768)
	for _, out := range []bool{false, true} {
		for neg := uint8(0); neg < 16; neg++ {
			for _, p := range perms {
				res = append(res, Transform{Perm: p, Neg: neg, Out: out})
			}
		}
	}
	return res
}
