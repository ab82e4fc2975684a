// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sim provides bit parallel simulation of and-inverter graphs and
// classes of candidate equivalent nodes.
//
// Every node carries a signature of 64 bit words.  The first words hold
// random patterns, which are redrawn by each call to Random.  The remaining
// words hold counter-example patterns added one at a time with AddPattern
// and are kept for the lifetime of the simulator.
package sim

import (
	"math/rand"

	"github.com/go-air/aigo/aig"
)

// Sim holds simulation signatures of the nodes of a manager.
type Sim struct {
	m      *aig.Manager
	rnd    *rand.Rand
	nRand  int
	nCex   int        // number of counter-example patterns
	words  [][]uint64 // by node ID
	rounds int
}

// New creates a simulator for m with nWords random words per node and
// performs one random round.  If nWords is 0, signatures only hold the
// patterns added with AddPattern and AddWord.
func New(m *aig.Manager, rnd *rand.Rand, nWords int) *Sim {
	if nWords < 0 {
		nWords = 0
	}
	s := &Sim{m: m, rnd: rnd, nRand: nWords}
	if nWords > 0 {
		s.Random()
	} else {
		s.grow(m.Len())
	}
	return s
}

// Manager returns the simulated manager.
func (s *Sim) Manager() *aig.Manager {
	return s.m
}

// Words returns the signature of id.  The result must not be modified.
func (s *Sim) Words(id aig.ID) []uint64 {
	return s.words[id]
}

// NumWords returns the number of words per signature.
func (s *Sim) NumWords() int {
	return s.nRand + s.cexWords()
}

// NumPatterns returns the number of counter-example patterns added.
func (s *Sim) NumPatterns() int {
	return s.nCex
}

// Rounds returns the number of random rounds performed.
func (s *Sim) Rounds() int {
	return s.rounds
}

// Phase returns the first simulated bit of id.  There must be at least one
// word.  Nodes with equal
// signatures up to complementation are complements of each other iff
// their phases differ.
func (s *Sim) Phase(id aig.ID) bool {
	return s.words[id][0]&1 == 1
}

func (s *Sim) cexWords() int {
	return (s.nCex + 63) / 64
}

// Random draws fresh random words for all combinational inputs and
// simulates the whole network.
func (s *Sim) Random() {
	s.rounds++
	s.Sync()
	for _, id := range s.m.Cis() {
		ws := s.words[id]
		for i := 0; i < s.nRand; i++ {
			ws[i] = s.rnd.Uint64()
		}
	}
	s.simulate(0, s.nRand, 1)
}

// Sync simulates the nodes created since the last call.
func (s *Sim) Sync() {
	n := len(s.words)
	if n >= s.m.Len() {
		return
	}
	s.grow(s.m.Len())
	for _, id := range s.m.Cis() {
		if int(id) >= n {
			// inputs created after the simulator are random on all words
			ws := s.words[id]
			for i := range ws {
				ws[i] = s.rnd.Uint64()
			}
		}
	}
	s.simulate(0, s.NumWords(), aig.ID(n))
}

// AddPattern adds the counter-example pattern given by the values of the
// combinational inputs, in the order of Cis(), and simulates the network
// on it.
func (s *Sim) AddPattern(cis []bool) {
	s.Sync()
	bit := s.nCex % 64
	if bit == 0 {
		for i := range s.words {
			s.words[i] = append(s.words[i], 0)
		}
	}
	s.nCex++
	w := s.NumWords() - 1
	for i, id := range s.m.Cis() {
		if i < len(cis) && cis[i] {
			s.words[id][w] |= 1 << uint(bit)
		} else {
			s.words[id][w] &^= 1 << uint(bit)
		}
	}
	s.simulate(w, w+1, 1)
}

// AddWord adds 64 patterns at once, given as one word for each
// combinational input in the order of Cis(), and simulates the network on
// them.
func (s *Sim) AddWord(cis []uint64) {
	s.Sync()
	s.nCex = s.cexWords()*64 + 64
	for i := range s.words {
		s.words[i] = append(s.words[i], 0)
	}
	w := s.NumWords() - 1
	for i, id := range s.m.Cis() {
		if i < len(cis) {
			s.words[id][w] = cis[i]
		}
	}
	s.simulate(w, w+1, 1)
}

// grow allocates signatures for nodes up to n.
func (s *Sim) grow(n int) {
	nw := s.NumWords()
	for len(s.words) < n {
		s.words = append(s.words, make([]uint64, nw))
	}
}

// simulate computes words [lo, hi) of the and nodes from id from on.
func (s *Sim) simulate(lo, hi int, from aig.ID) {
	for i := int(from); i < len(s.words); i++ {
		id := aig.ID(i)
		if !s.m.IsAnd(id) {
			continue
		}
		a, b := s.m.Fanins(id)
		wa, wb, ws := s.words[a.ID()], s.words[b.ID()], s.words[i]
		var ma, mb uint64
		if a.IsCompl() {
			ma = ^uint64(0)
		}
		if b.IsCompl() {
			mb = ^uint64(0)
		}
		for w := lo; w < hi; w++ {
			ws[w] = (wa[w] ^ ma) & (wb[w] ^ mb)
		}
	}
}

// Value returns word w of the signature of e.
func (s *Sim) Value(e aig.Edge, w int) uint64 {
	v := s.words[e.ID()][w]
	if e.IsCompl() {
		return ^v
	}
	return v
}

// Equal tells whether a and b have equal signatures.
func (s *Sim) Equal(a, b aig.Edge) bool {
	for w := 0; w < s.NumWords(); w++ {
		if s.Value(a, w) != s.Value(b, w) {
			return false
		}
	}
	return true
}
