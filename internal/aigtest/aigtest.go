// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package aigtest contains helpers for testing transformations of
// and-inverter graphs by simulation.
package aigtest

import (
	"math/rand"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/tt"
)

// Patterns returns simulation words for n inputs.  For n <= 12 the
// patterns enumerate all assignments, otherwise nRand random words are
// drawn for each input.
func Patterns(rnd *rand.Rand, n, nRand int) [][]uint64 {
	pats := make([][]uint64, n)
	if n <= 12 {
		for i := range pats {
			pats[i] = tt.Var(n, i)
		}
		return pats
	}
	for i := range pats {
		pats[i] = make([]uint64, nRand)
		for j := range pats[i] {
			pats[i][j] = rnd.Uint64()
		}
	}
	return pats
}

// Outputs simulates m under pats, given for the inputs in the order of
// m.Cis(), and returns the words of the combinational outputs in the order
// of m.Cos().
func Outputs(m *aig.Manager, pats [][]uint64) [][]uint64 {
	cis, cos := m.Cis(), m.Cos()
	nw := 1
	if len(pats) > 0 {
		nw = len(pats[0])
	}
	res := make([][]uint64, len(cos))
	for i := range res {
		res[i] = make([]uint64, nw)
	}
	vs := make([]uint64, m.Len())
	for w := 0; w < nw; w++ {
		for i, id := range cis {
			vs[id] = pats[i][w]
		}
		m.Simulate64(vs)
		for i, e := range cos {
			if e != aig.NoEdge {
				res[i][w] = aig.Value64(vs, e)
			}
		}
	}
	return res
}

// Diff returns the index of the first combinational output whose words
// differ, or -1.
func Diff(a, b [][]uint64) int {
	if len(a) != len(b) {
		return 0
	}
	for i := range a {
		for w := range a[i] {
			if a[i][w] != b[i][w] {
				return i
			}
		}
	}
	return -1
}

// RandTrace returns n frames of random primary input values of m.
func RandTrace(rnd *rand.Rand, m *aig.Manager, n int) [][]bool {
	tr := make([][]bool, n)
	for i := range tr {
		tr[i] = make([]bool, m.NumPis())
		for j := range tr[i] {
			tr[i][j] = rnd.Intn(2) == 1
		}
	}
	return tr
}

// Run simulates the sequential network m from its initial state on the
// primary input values of trace and returns the primary output values of
// each frame.  Latches with unknown initial values start at false.
func Run(m *aig.Manager, trace [][]bool) [][]bool {
	lats := m.Latches()
	st := make([]bool, len(lats))
	for i, l := range lats {
		st[i] = m.Init(l) == aig.True
	}
	res := make([][]bool, len(trace))
	for f, ins := range trace {
		cos := m.Eval(append(append([]bool(nil), ins...), st...))
		res[f] = cos[:m.NumPos()]
		copy(st, cos[m.NumPos():])
	}
	return res
}

// RunDiff returns the first frame at which the outputs of a and b differ
// on trace, or -1.
func RunDiff(a, b *aig.Manager, trace [][]bool) int {
	ra, rb := Run(a, trace), Run(b, trace)
	for f := range ra {
		if len(ra[f]) != len(rb[f]) {
			return f
		}
		for i := range ra[f] {
			if ra[f][i] != rb[f][i] {
				return f
			}
		}
	}
	return -1
}
