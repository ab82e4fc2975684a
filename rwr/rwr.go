// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package rwr implements cut based rewriting of and-inverter graphs.
//
// For every and node, Rewrite enumerates its 4-feasible cuts.  The
// function of each cut is mapped to its NPN class, and each precomputed
// implementation of the class is costed against the graph: the nodes
// saved are the nodes of the maximum fanout-free cone of the node bounded
// by the cut, and the nodes spent are those the implementation would add
// given structural hashing.  The best implementation with positive gain,
// or zero gain if allowed, replaces the node.
package rwr

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/cut"
	"github.com/go-air/aigo/dec"
	"github.com/go-air/aigo/npn"
	"github.com/go-air/aigo/tt"
)

// ErrBadParams is returned for invalid parameters.
var ErrBadParams = errors.New("rwr: bad parameters")

// Params control rewriting.
type Params struct {
	UseZeros    bool        // accept replacements with zero gain
	MaxIter     int         // maximal number of passes, 0 for until no gain
	LevelGrowth int         // allowed level increase of a node, -1 for unlimited
	CutsPerNode int         // cuts kept per node, 0 for the default
	Logger      *log.Logger // nil for no logging
}

// DefaultParams returns the default rewriting parameters, which preserve
// levels.
func DefaultParams() Params {
	return Params{MaxIter: 4, CutsPerNode: 8}
}

// Stats records the effect of Rewrite.
type Stats struct {
	Passes   int
	Tried    int // nodes for which a candidate was evaluated
	Accepted int // replacements made
	Gain     int // and nodes saved
}

func (s Stats) String() string {
	return fmt.Sprintf("passes=%d tried=%d accepted=%d gain=%d",
		s.Passes, s.Tried, s.Accepted, s.Gain)
}

var discard = log.New(io.Discard)

func check(p *Params) error {
	if p.MaxIter < 0 {
		return fmt.Errorf("%w: MaxIter=%d", ErrBadParams, p.MaxIter)
	}
	if p.LevelGrowth < -1 {
		return fmt.Errorf("%w: LevelGrowth=%d", ErrBadParams, p.LevelGrowth)
	}
	if p.CutsPerNode < 0 {
		return fmt.Errorf("%w: CutsPerNode=%d", ErrBadParams, p.CutsPerNode)
	}
	if p.CutsPerNode == 0 {
		p.CutsPerNode = 8
	}
	if p.Logger == nil {
		p.Logger = discard
	}
	return nil
}

// Rewrite rewrites m in place.  On error, m is unchanged.
func Rewrite(m *aig.Manager, p Params) (Stats, error) {
	var st Stats
	if err := check(&p); err != nil {
		return st, err
	}
	for p.MaxIter == 0 || st.Passes < p.MaxIter {
		before := m.NumAnds()
		r := &rewriter{m: m, p: &p}
		if err := r.pass(); err != nil {
			return st, err
		}
		st.Passes++
		st.Tried += r.st.Tried
		st.Accepted += r.st.Accepted
		st.Gain += r.st.Gain
		p.Logger.Debug("rewrite pass", "pass", st.Passes, "ands", m.NumAnds(),
			"accepted", r.st.Accepted, "gain", r.st.Gain)
		if m.NumAnds() >= before {
			break
		}
	}
	return st, nil
}

type rewriter struct {
	m  *aig.Manager
	p  *Params
	st Stats
}

type choice struct {
	g    *dec.Graph
	ins  []aig.Edge
	tr   npn.Transform
	f    uint16
	k    int
	gain int
	lev  int
}

func (r *rewriter) pass() error {
	m := r.m
	enum, err := cut.New(m, cut.Params{K: 4, M: r.p.CutsPerNode, Truth: true})
	if err != nil {
		return err
	}
	n0 := m.Len()
	for i := 1; i < n0; i++ {
		id := aig.ID(i)
		if !m.IsAnd(id) || m.RefCount(id) == 0 {
			continue
		}
		best := r.bestFor(id, enum.Enumerate(id))
		if best == nil {
			continue
		}
		if best.gain < 0 || best.gain == 0 && !r.p.UseZeros {
			continue
		}
		r.commit(id, best)
	}
	return nil
}

func (r *rewriter) bestFor(id aig.ID, cuts []*cut.Cut) *choice {
	m := r.m
	var best *choice
	tried := false
	for _, c := range cuts {
		if c.IsTrivial(id) {
			continue
		}
		f := uint16(c.Truth[0])
		canon, tr := npn.Canon(f)
		ins := make([]aig.Edge, 4)
		for i := range ins {
			j := int(tr.Perm[i])
			e := aig.False
			if j < len(c.Leaves) {
				e = aig.MkEdge(c.Leaves[j], false)
			}
			ins[i] = e.NotCond(tr.Neg>>uint(i)&1 == 1)
		}
		mffc := m.MffcLabel(id, c.Leaves)
		max := mffc - 1
		if r.p.UseZeros {
			max = mffc
		}
		for _, g := range Library(canon) {
			cnt, lev, ok := g.Count(m, ins, id, max)
			if !ok {
				continue
			}
			tried = true
			if r.p.LevelGrowth >= 0 && lev > m.Level(id)+r.p.LevelGrowth {
				continue
			}
			gain := mffc - cnt
			if best == nil || gain > best.gain || gain == best.gain && lev < best.lev {
				best = &choice{g: g, ins: ins, tr: tr, f: f, k: len(c.Leaves), gain: gain, lev: lev}
			}
		}
	}
	if tried {
		r.st.Tried++
	}
	return best
}

func (r *rewriter) commit(id aig.ID, c *choice) {
	// check the implementation against the cut function
	tabs := make([]tt.T, 4)
	for i := range tabs {
		j := int(c.tr.Perm[i])
		if j < c.k {
			tabs[i] = tt.Var(4, j)
		} else {
			tabs[i] = tt.New(4)
		}
		if c.tr.Neg>>uint(i)&1 == 1 {
			tabs[i] = tt.Not(tt.New(4), tabs[i])
		}
	}
	h := c.g.Eval(4, tabs)
	if c.tr.Out {
		h = tt.Not(h, h)
	}
	if uint16(h[0]) != c.f {
		panic(fmt.Sprintf("rwr: node %d: implementation %s computes %04x, cut function %04x",
			id, c.g, uint16(h[0]), c.f))
	}
	e := c.g.Build(r.m, c.ins).NotCond(c.tr.Out)
	r.m.Replace(id, e)
	r.st.Accepted++
	r.st.Gain += c.gain
}

var lib struct {
	once sync.Once
	m    map[uint16][]*dec.Graph
}

// Library returns the implementations of the 4 input NPN class with
// canonical representative c.
func Library(c uint16) []*dec.Graph {
	lib.once.Do(func() {
		lib.m = make(map[uint16][]*dec.Graph, 222)
		for _, c := range npn.Classes() {
			f := tt.FromUint16(4, c)
			lib.m[c] = dec.Synth(f, f, 4, 0)
		}
	})
	return lib.m[c]
}
