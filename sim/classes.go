// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sim

import (
	"sort"

	"github.com/go-air/aigo/aig"
)

// Classes partitions candidate nodes by simulation signature up to
// complementation.  Members of a class are kept in increasing ID order and
// the first member is the representative, so the constant node always
// represents its class.  Nodes which are alone in their class are not
// recorded.
type Classes struct {
	s   *Sim
	of  []int // class index by node ID or -1
	cls [][]aig.ID
}

// NewClasses partitions the live nodes of the simulated manager for which
// cand returns true.  If cand is nil, the constant, the combinational
// inputs and all and nodes are candidates.
func NewClasses(s *Sim, cand func(aig.ID) bool) *Classes {
	m := s.m
	s.Sync()
	c := &Classes{s: s}
	c.grow()
	var ids []aig.ID
	for i := 0; i < m.Len(); i++ {
		id := aig.ID(i)
		if m.Kind(id) == aig.KindDead {
			continue
		}
		if cand != nil && !cand(id) {
			continue
		}
		ids = append(ids, id)
	}
	for _, g := range c.split(ids, 0, s.NumWords()) {
		c.add(g)
	}
	return c
}

// Sim returns the simulator of c.
func (c *Classes) Sim() *Sim {
	return c.s
}

func (c *Classes) grow() {
	for len(c.of) < c.s.m.Len() {
		c.of = append(c.of, -1)
	}
}

func (c *Classes) add(g []aig.ID) {
	if len(g) < 2 {
		for _, id := range g {
			c.of[id] = -1
		}
		return
	}
	k := len(c.cls)
	c.cls = append(c.cls, g)
	for _, id := range g {
		c.of[id] = k
	}
}

func (c *Classes) key(id aig.ID, lo, hi int) uint64 {
	ws := c.s.words[id]
	var mask uint64
	if c.s.Phase(id) {
		mask = ^uint64(0)
	}
	h := uint64(14695981039346656037)
	for w := lo; w < hi; w++ {
		h ^= ws[w] ^ mask
		h *= 1099511628211
		h ^= h >> 29
	}
	return h
}

func (c *Classes) same(a, b aig.ID, lo, hi int) bool {
	wa, wb := c.s.words[a], c.s.words[b]
	var mask uint64
	if c.s.Phase(a) != c.s.Phase(b) {
		mask = ^uint64(0)
	}
	for w := lo; w < hi; w++ {
		if wa[w] != wb[w]^mask {
			return false
		}
	}
	return true
}

// split partitions ids by words [lo, hi).  Groups keep the order of ids.
func (c *Classes) split(ids []aig.ID, lo, hi int) [][]aig.ID {
	var groups [][]aig.ID
	buckets := make(map[uint64][]int)
	for _, id := range ids {
		h := c.key(id, lo, hi)
		found := false
		for _, gi := range buckets[h] {
			if c.same(groups[gi][0], id, lo, hi) {
				groups[gi] = append(groups[gi], id)
				found = true
				break
			}
		}
		if !found {
			buckets[h] = append(buckets[h], len(groups))
			groups = append(groups, []aig.ID{id})
		}
	}
	return groups
}

// refine splits all classes by words [lo, hi) and tells whether any class
// changed.
func (c *Classes) refine(lo, hi int) bool {
	c.s.Sync()
	c.grow()
	if lo >= hi {
		return false
	}
	changed := false
	n := len(c.cls)
	for k := 0; k < n; k++ {
		ms := c.live(k)
		if len(ms) == 0 {
			continue
		}
		gs := c.split(ms, lo, hi)
		if len(gs) == 1 {
			continue
		}
		changed = true
		c.cls[k] = nil
		for _, g := range gs {
			c.add(g)
		}
	}
	c.pack()
	return changed
}

// live removes dead members from class k and dissolves it if fewer than
// two members remain.
func (c *Classes) live(k int) []aig.ID {
	ms := c.cls[k]
	j := 0
	for _, id := range ms {
		if c.s.m.Kind(id) == aig.KindDead {
			c.of[id] = -1
			continue
		}
		ms[j] = id
		j++
	}
	ms = ms[:j]
	if len(ms) < 2 {
		for _, id := range ms {
			c.of[id] = -1
		}
		ms = nil
	}
	c.cls[k] = ms
	return ms
}

// pack removes empty classes.
func (c *Classes) pack() {
	j := 0
	for _, ms := range c.cls {
		if len(ms) == 0 {
			continue
		}
		for _, id := range ms {
			c.of[id] = j
		}
		c.cls[j] = ms
		j++
	}
	c.cls = c.cls[:j]
}

// Refine splits the classes by all simulation words and tells whether any
// class changed.
func (c *Classes) Refine() bool {
	return c.refine(0, c.s.NumWords())
}

// RefineCex splits the classes by the counter-example words only.
func (c *Classes) RefineCex() bool {
	return c.refine(c.s.nRand, c.s.NumWords())
}

// Seed performs up to rounds random simulation rounds, refining after each,
// and stops at the first round which changes no class.  It returns the
// number of rounds performed.
func (c *Classes) Seed(rounds int) int {
	for r := 0; r < rounds; r++ {
		c.s.Random()
		if !c.Refine() {
			return r + 1
		}
	}
	return rounds
}

// Repr returns the representative of the class of id and whether id is in
// a class.  A node which is not in a class represents itself.
func (c *Classes) Repr(id aig.ID) (aig.ID, bool) {
	if int(id) >= len(c.of) || c.of[id] < 0 {
		return id, false
	}
	ms := c.live(c.of[id])
	if len(ms) == 0 {
		return id, false
	}
	return ms[0], true
}

// Compl tells whether a and b, which are in the same class, are
// complements of each other.
func (c *Classes) Compl(a, b aig.ID) bool {
	return c.s.Phase(a) != c.s.Phase(b)
}

// Class returns the members of the class of id, or nil.  The result must
// not be modified.
func (c *Classes) Class(id aig.ID) []aig.ID {
	if int(id) >= len(c.of) || c.of[id] < 0 {
		return nil
	}
	return c.live(c.of[id])
}

// Remove takes id out of its class.
func (c *Classes) Remove(id aig.ID) {
	if int(id) >= len(c.of) || c.of[id] < 0 {
		return
	}
	k := c.of[id]
	ms := c.cls[k]
	for i, o := range ms {
		if o == id {
			c.cls[k] = append(ms[:i], ms[i+1:]...)
			break
		}
	}
	c.of[id] = -1
	c.live(k)
}

// Substitute transfers class membership from replaced nodes to their
// replacements.  It must be called with the result of Replace on the
// simulated manager.  Every replaced node is dead or unreferenced by then,
// so all of them leave their classes before any replacement joins one.
func (c *Classes) Substitute(subs []aig.Subst) {
	c.s.Sync()
	c.grow()
	by := make(map[aig.ID]aig.ID, len(subs))
	for _, sb := range subs {
		by[sb.Old] = sb.New.ID()
	}
	final := func(id aig.ID) aig.ID {
		for n := 0; n <= len(subs); n++ {
			nid, ok := by[id]
			if !ok {
				break
			}
			id = nid
		}
		return id
	}
	type move struct {
		k  int
		to aig.ID
	}
	var moves []move
	for _, sb := range subs {
		k := c.of[sb.Old]
		if k < 0 {
			continue
		}
		ms := c.cls[k]
		for i, o := range ms {
			if o == sb.Old {
				c.cls[k] = append(ms[:i], ms[i+1:]...)
				break
			}
		}
		c.of[sb.Old] = -1
		moves = append(moves, move{k: k, to: final(sb.Old)})
	}
	for _, mv := range moves {
		nid := mv.to
		if c.of[nid] >= 0 || c.s.m.Kind(nid) == aig.KindDead {
			continue
		}
		ms := c.cls[mv.k]
		i := sort.Search(len(ms), func(i int) bool { return ms[i] >= nid })
		ms = append(ms, 0)
		copy(ms[i+1:], ms[i:])
		ms[i] = nid
		c.cls[mv.k] = ms
		c.of[nid] = mv.k
	}
	for _, mv := range moves {
		c.live(mv.k)
	}
}

// Len returns the number of classes.
func (c *Classes) Len() int {
	n := 0
	for k := range c.cls {
		if len(c.cls[k]) > 0 {
			n++
		}
	}
	return n
}

// Each calls f for each class with at least two live members.  f must not
// modify the classes.
func (c *Classes) Each(f func(ms []aig.ID)) {
	for k := range c.cls {
		if ms := c.live(k); len(ms) > 0 {
			f(ms)
		}
	}
}

// NumCands returns the number of nodes which are not representatives of
// their class.
func (c *Classes) NumCands() int {
	n := 0
	c.Each(func(ms []aig.ID) { n += len(ms) - 1 })
	return n
}
