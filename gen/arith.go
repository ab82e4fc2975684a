// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import "github.com/go-air/aigo/aig"

// Inputs creates n primary inputs in m.
func Inputs(m *aig.Manager, n int) []aig.Edge {
	res := make([]aig.Edge, n)
	for i := range res {
		res[i] = m.Pi()
	}
	return res
}

// FullAdder returns the sum and carry of a, b and c.
func FullAdder(m *aig.Manager, a, b, c aig.Edge) (sum, carry aig.Edge) {
	ab := m.Xor(a, b)
	sum = m.Xor(ab, c)
	carry = m.Or(m.Build(a, b), m.Build(ab, c))
	return
}

// Adder builds a ripple carry adder of the little endian words a and b,
// which must have the same length.
func Adder(m *aig.Manager, a, b []aig.Edge, cin aig.Edge) (sum []aig.Edge, cout aig.Edge) {
	sum = make([]aig.Edge, len(a))
	cout = cin
	for i := range a {
		sum[i], cout = FullAdder(m, a[i], b[i], cout)
	}
	return
}

// Mult builds an array multiplier of the little endian words a and b.
// The product has len(a)+len(b) bits.
func Mult(m *aig.Manager, a, b []aig.Edge) []aig.Edge {
	n := len(a) + len(b)
	acc := make([]aig.Edge, n)
	for i := range acc {
		acc[i] = aig.False
	}
	for j, bj := range b {
		carry := aig.False
		for i, ai := range a {
			pp := m.Build(ai, bj)
			acc[i+j], carry = FullAdder(m, acc[i+j], pp, carry)
		}
		for k := j + len(a); k < n; k++ {
			acc[k], carry = FullAdder(m, acc[k], aig.False, carry)
		}
	}
	return acc
}

// Miter returns an edge which is true iff some xs[i] differs from ys[i].
func Miter(m *aig.Manager, xs, ys []aig.Edge) aig.Edge {
	d := aig.False
	for i := range xs {
		d = m.Or(d, m.Xor(xs[i], ys[i]))
	}
	return d
}
