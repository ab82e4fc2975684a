// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"

	"github.com/go-air/aigo/aig"
)

// Rand creates a random combinational network with nPis inputs, about
// nAnds and nodes and nPos outputs.  Fanins are chosen among previously
// created nodes with a bias towards recent ones, and some nodes are built
// as xors and multiplexers so that the result has reconvergent and
// redundant structure.
func Rand(rng *rand.Rand, nPis, nAnds, nPos int) *aig.Manager {
	m := aig.NewCap(nPis + nAnds + 1)
	pool := Inputs(m, nPis)
	randFill(m, rng, pool, nAnds, nPos)
	return m
}

// RandSeq is like Rand but also creates nLatches latches with random next
// state functions.  Latch initial values are false.
func RandSeq(rng *rand.Rand, nPis, nLatches, nAnds, nPos int) *aig.Manager {
	m := aig.NewCap(nPis + nLatches + nAnds + 1)
	pool := Inputs(m, nPis)
	lats := make([]aig.Edge, nLatches)
	for i := range lats {
		lats[i] = m.Latch(aig.False)
		pool = append(pool, lats[i])
	}
	pool = randFill(m, rng, pool, nAnds, nPos)
	for _, l := range lats {
		m.SetNext(l, pick(rng, pool))
	}
	return m
}

func randFill(m *aig.Manager, rng *rand.Rand, pool []aig.Edge, nAnds, nPos int) []aig.Edge {
	fails := 0
	for m.NumAnds() < nAnds && fails < 64 {
		before := m.NumAnds()
		a, b := pick(rng, pool), pick(rng, pool)
		var g aig.Edge
		switch rng.Intn(8) {
		case 0:
			g = m.Xor(a, b)
		case 1:
			g = m.Mux(pick(rng, pool), a, b)
		default:
			g = m.Build(a, b)
		}
		if m.NumAnds() == before {
			// no progress, widen the pool with a fresh combination
			g = m.Build(pick(rng, pool), pick(rng, pool))
			if m.NumAnds() == before {
				fails++
				continue
			}
		}
		fails = 0
		pool = append(pool, g)
	}
	n := len(pool)
	for i := 0; i < nPos; i++ {
		j := n - 1 - rng.Intn(n/2+1)
		m.AddPo(pool[j].NotCond(rng.Intn(2) == 1))
	}
	return pool
}

// pick chooses a random edge from pool, preferring the second half.
func pick(rng *rand.Rand, pool []aig.Edge) aig.Edge {
	n := len(pool)
	var i int
	if rng.Intn(3) == 0 {
		i = rng.Intn(n)
	} else {
		i = n/2 + rng.Intn(n-n/2)
	}
	return pool[i].NotCond(rng.Intn(2) == 1)
}
