// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package rfc implements refactoring of and-inverter graphs.
//
// Refactoring collapses the logic cone of a node over a large
// reconvergence-driven cut into a truth table, computes irredundant
// sum of products covers of the function and its complement, factors
// them and replaces the cone if the factored form needs fewer nodes.
// Optionally, satisfiability don't cares of the cut leaves, computed over
// a wider window, relax the function before covering.
package rfc

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/cut"
	"github.com/go-air/aigo/dec"
	"github.com/go-air/aigo/tt"
)

// ErrBadParams is returned for invalid parameters.
var ErrBadParams = errors.New("rfc: bad parameters")

// Params control refactoring.
type Params struct {
	MaxLeaves   int         // cut size, 2 <= MaxLeaves <= cut.MaxK
	UseZeros    bool        // accept replacements with zero gain
	UseDcs      bool        // use don't cares of the cut leaves
	DcWindow    int         // leaves of the window for don't cares, at most cut.MaxK
	MaxCubes    int         // give up on covers with more cubes, 0 for no limit
	MaxIter     int         // maximal number of passes, 0 for until no gain
	LevelGrowth int         // allowed level increase of a node, -1 for unlimited
	Logger      *log.Logger // nil for no logging
}

// DefaultParams returns the default refactoring parameters.
func DefaultParams() Params {
	return Params{
		MaxLeaves: 10,
		DcWindow:  12,
		MaxCubes:  64,
		MaxIter:   1}
}

// Stats records the effect of Refactor.
type Stats struct {
	Passes   int
	Tried    int
	Accepted int
	Gain     int
	DcNodes  int // nodes whose cut had don't cares
}

func (s Stats) String() string {
	return fmt.Sprintf("passes=%d tried=%d accepted=%d gain=%d dc=%d",
		s.Passes, s.Tried, s.Accepted, s.Gain, s.DcNodes)
}

func check(p *Params) error {
	switch {
	case p.MaxLeaves < 2 || p.MaxLeaves > cut.MaxK:
		return fmt.Errorf("%w: MaxLeaves=%d", ErrBadParams, p.MaxLeaves)
	case p.UseDcs && (p.DcWindow < p.MaxLeaves || p.DcWindow > cut.MaxK):
		return fmt.Errorf("%w: DcWindow=%d", ErrBadParams, p.DcWindow)
	case p.MaxCubes < 0:
		return fmt.Errorf("%w: MaxCubes=%d", ErrBadParams, p.MaxCubes)
	case p.MaxIter < 0:
		return fmt.Errorf("%w: MaxIter=%d", ErrBadParams, p.MaxIter)
	case p.LevelGrowth < -1:
		return fmt.Errorf("%w: LevelGrowth=%d", ErrBadParams, p.LevelGrowth)
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	return nil
}

// Refactor refactors m in place.  On error, m is unchanged.
func Refactor(m *aig.Manager, p Params) (Stats, error) {
	var st Stats
	if err := check(&p); err != nil {
		return st, err
	}
	for p.MaxIter == 0 || st.Passes < p.MaxIter {
		before := m.NumAnds()
		r := &refactorer{m: m, p: &p}
		r.pass()
		st.Passes++
		st.Tried += r.st.Tried
		st.Accepted += r.st.Accepted
		st.Gain += r.st.Gain
		st.DcNodes += r.st.DcNodes
		p.Logger.Debug("refactor pass", "pass", st.Passes, "ands", m.NumAnds(),
			"accepted", r.st.Accepted, "gain", r.st.Gain)
		if m.NumAnds() >= before {
			break
		}
	}
	return st, nil
}

type refactorer struct {
	m  *aig.Manager
	p  *Params
	st Stats
}

func (r *refactorer) pass() {
	m := r.m
	n0 := m.Len()
	for i := 1; i < n0; i++ {
		id := aig.ID(i)
		if !m.IsAnd(id) || m.RefCount(id) == 0 {
			continue
		}
		r.node(id)
	}
}

func (r *refactorer) node(id aig.ID) {
	m := r.m
	leaves := cut.Reconv(m, id, r.p.MaxLeaves)
	if len(leaves) < 2 {
		return
	}
	n := len(leaves)
	root := aig.MkEdge(id, false)
	f := cut.ConeTruth(m, root, leaves)
	on, upper := f, f
	if r.p.UseDcs {
		if care := careSet(m, leaves, r.p.DcWindow); care != nil {
			r.st.DcNodes++
			on = tt.And(tt.New(n), f, care)
			upper = tt.Or(tt.New(n), f, tt.Not(tt.New(n), care))
		}
	}
	ins := make([]aig.Edge, n)
	for i, l := range leaves {
		ins[i] = aig.MkEdge(l, false)
	}
	mffc := m.MffcLabel(id, leaves)
	max := mffc - 1
	if r.p.UseZeros {
		max = mffc
	}
	if max < 0 {
		return
	}
	var best *dec.Graph
	bestGain, bestLev := 0, 0
	tried := false
	for _, g := range dec.Synth(on, upper, n, r.p.MaxCubes) {
		cnt, lev, ok := g.Count(m, ins, id, max)
		if !ok {
			continue
		}
		tried = true
		if r.p.LevelGrowth >= 0 && lev > m.Level(id)+r.p.LevelGrowth {
			continue
		}
		gain := mffc - cnt
		if best == nil || gain > bestGain || gain == bestGain && lev < bestLev {
			best, bestGain, bestLev = g, gain, lev
		}
	}
	if tried {
		r.st.Tried++
	}
	if best == nil || bestGain == 0 && !r.p.UseZeros {
		return
	}
	h := best.Truth()
	if !on.Implies(h) || !h.Implies(upper) {
		panic(fmt.Sprintf("rfc: node %d: factored form %s violates cut function", id, best))
	}
	m.Replace(id, best.Build(m, ins))
	r.st.Accepted++
	r.st.Gain += bestGain
}

// careSet returns the set of assignments to leaves which occur for some
// assignment to a window of at most w leaves bounding them, or nil if the
// window yields no don't cares.
func careSet(m *aig.Manager, leaves []aig.ID, w int) tt.T {
	win := cut.ReconvFrom(m, leaves, w)
	n := len(leaves)
	fs := make([]tt.T, n)
	for i, l := range leaves {
		fs[i] = cut.ConeTruth(m, aig.MkEdge(l, false), win)
	}
	care := tt.New(n)
	for k := 0; k < 1<<uint(len(win)); k++ {
		p := 0
		for i, f := range fs {
			if f.Bit(k) {
				p |= 1 << uint(i)
			}
		}
		care.SetBit(p)
	}
	if n < 6 {
		w := care[0] & (1<<(1<<uint(n)) - 1)
		for s := uint(1) << uint(n); s < 64; s <<= 1 {
			w |= w << s
		}
		care[0] = w
	}
	if care.IsConst1() {
		return nil
	}
	return care
}
