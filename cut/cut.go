// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package cut enumerates K-feasible cuts of and-inverter graph nodes.
//
// A cut of a node n is a set of nodes, the leaves, such that every path
// from a combinational input to n passes through a leaf.  A cut is
// K-feasible if it has at most K leaves.  The trivial cut of n is {n}.
package cut

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/tt"
)

// ErrBadParams is returned when enumeration parameters are out of range.
var ErrBadParams = errors.New("cut: bad parameters")

// MaxK is the maximal number of leaves of an enumerated cut.
const MaxK = 16

// Params control cut enumeration.
type Params struct {
	K     int  // maximal number of leaves, 2 <= K <= MaxK
	M     int  // maximal number of non-trivial cuts kept per node, 0 for no limit
	Truth bool // compute truth tables
}

// Cut is a cut of a node.
type Cut struct {
	Leaves []aig.ID // increasing
	Truth  tt.T     // over len(Leaves) variables, if computed
	sign   uint64
}

// Size returns the number of leaves of c.
func (c *Cut) Size() int {
	return len(c.Leaves)
}

// IsTrivial returns whether c is the trivial cut of root.
func (c *Cut) IsTrivial(root aig.ID) bool {
	return len(c.Leaves) == 1 && c.Leaves[0] == root
}

func (c *Cut) String() string {
	return fmt.Sprintf("%v", c.Leaves)
}

// Enum enumerates and memoizes cuts of the nodes of a manager.  Cuts of a
// node remain valid as long as the node is live, since fanins never
// change.  An Enum should not be kept across passes which replace nodes.
type Enum struct {
	m    *aig.Manager
	p    Params
	cuts [][]*Cut
}

// New creates an Enum for m.
func New(m *aig.Manager, p Params) (*Enum, error) {
	if p.K < 2 || p.K > MaxK {
		return nil, fmt.Errorf("%w: K=%d not in [2, %d]", ErrBadParams, p.K, MaxK)
	}
	if p.M < 0 {
		return nil, fmt.Errorf("%w: M=%d", ErrBadParams, p.M)
	}
	return &Enum{m: m, p: p}, nil
}

// Params returns the parameters of e.
func (e *Enum) Params() Params {
	return e.p
}

// Reset drops all memoized cuts.
func (e *Enum) Reset() {
	e.cuts = nil
}

// Drop forgets the memoized cuts of id.
func (e *Enum) Drop(id aig.ID) {
	if int(id) < len(e.cuts) {
		e.cuts[id] = nil
	}
}

// Enumerate returns the cuts of id.  The first cut is the trivial cut,
// the others are ordered by increasing size and then increasing summed
// leaf level.  No returned cut contains the leaves of another.
func (e *Enum) Enumerate(id aig.ID) []*Cut {
	if n := e.m.Len(); len(e.cuts) < n {
		cs := make([][]*Cut, n)
		copy(cs, e.cuts)
		e.cuts = cs
	}
	if cs := e.cuts[id]; cs != nil {
		return cs
	}
	triv := e.trivial(id)
	if !e.m.IsAnd(id) {
		e.cuts[id] = []*Cut{triv}
		return e.cuts[id]
	}
	a, b := e.m.Fanins(id)
	ca, cb := e.Enumerate(a.ID()), e.Enumerate(b.ID())
	var res []*Cut
	for _, x := range ca {
		for _, y := range cb {
			if popcount(x.sign|y.sign) > e.p.K {
				continue
			}
			ls := merge(x.Leaves, y.Leaves, e.p.K)
			if ls == nil {
				continue
			}
			c := &Cut{Leaves: ls, sign: x.sign | y.sign}
			if dominated(res, c) {
				continue
			}
			res = removeDominated(res, c)
			if e.p.Truth {
				c.Truth = andTruth(x, y, a.IsCompl(), b.IsCompl(), ls)
			}
			res = append(res, c)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		ci, cj := res[i], res[j]
		if len(ci.Leaves) != len(cj.Leaves) {
			return len(ci.Leaves) < len(cj.Leaves)
		}
		return e.levelSum(ci) < e.levelSum(cj)
	})
	if e.p.M > 0 && len(res) > e.p.M {
		res = res[:e.p.M]
	}
	e.cuts[id] = append([]*Cut{triv}, res...)
	return e.cuts[id]
}

func (e *Enum) trivial(id aig.ID) *Cut {
	c := &Cut{Leaves: []aig.ID{id}, sign: sign(id)}
	if e.p.Truth {
		c.Truth = tt.Var(1, 0)
	}
	return c
}

func (e *Enum) levelSum(c *Cut) int {
	s := 0
	for _, l := range c.Leaves {
		s += e.m.Level(l)
	}
	return s
}

func sign(id aig.ID) uint64 {
	return 1 << (uint(id) & 63)
}

func popcount(x uint64) int {
	n := 0
	for ; x != 0; x &= x - 1 {
		n++
	}
	return n
}

// merge returns the sorted union of a and b, or nil if it has more than k
// elements.
func merge(a, b []aig.ID, k int) []aig.ID {
	res := make([]aig.ID, 0, k)
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var x aig.ID
		switch {
		case j == len(b) || i < len(a) && a[i] < b[j]:
			x = a[i]
			i++
		case i == len(a) || b[j] < a[i]:
			x = b[j]
			j++
		default:
			x = a[i]
			i++
			j++
		}
		if len(res) == k {
			return nil
		}
		res = append(res, x)
	}
	return res
}

// subset returns whether the leaves of a are contained in those of b.
func subset(a, b *Cut) bool {
	if len(a.Leaves) > len(b.Leaves) || a.sign&^b.sign != 0 {
		return false
	}
	j := 0
	for _, x := range a.Leaves {
		for j < len(b.Leaves) && b.Leaves[j] < x {
			j++
		}
		if j == len(b.Leaves) || b.Leaves[j] != x {
			return false
		}
	}
	return true
}

func dominated(cs []*Cut, c *Cut) bool {
	for _, d := range cs {
		if subset(d, c) {
			return true
		}
	}
	return false
}

func removeDominated(cs []*Cut, c *Cut) []*Cut {
	j := 0
	for _, d := range cs {
		if subset(c, d) {
			continue
		}
		cs[j] = d
		j++
	}
	return cs[:j]
}

func positions(sub, super []aig.ID) []int {
	pos := make([]int, len(sub))
	j := 0
	for i, x := range sub {
		for super[j] != x {
			j++
		}
		pos[i] = j
	}
	return pos
}

func andTruth(x, y *Cut, cx, cy bool, ls []aig.ID) tt.T {
	n := len(ls)
	tx := tt.Stretch(x.Truth, n, positions(x.Leaves, ls))
	ty := tt.Stretch(y.Truth, n, positions(y.Leaves, ls))
	return tt.AndCompl(tx, tx, ty, cx, cy)
}
