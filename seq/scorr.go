// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package seq implements sequential equivalence reduction of and-inverter
// graphs with latches.
//
// Signal correspondence (Scorr) finds nodes which are equivalent in all
// reachable states by k-induction over candidate classes.  Classes are
// seeded by random simulation from the initial state.  The base case
// checks the candidates in the first k time frames from the initial
// state, and the inductive step checks them in frame k from any state,
// assuming they hold in frames 0 to k-1.  Counter-examples refine the
// classes until both checks succeed, after which every class is merged
// into its representative.  Latch correspondence (Lcorr) is the
// restriction to latches.
package seq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/fraig"
	"github.com/go-air/aigo/sat"
	"github.com/go-air/aigo/sim"
)

var (
	// ErrNoLatches is returned for networks without latches.
	ErrNoLatches = errors.New("seq: network has no latches")
	// ErrBadParams is returned for invalid parameters.
	ErrBadParams = errors.New("seq: bad parameters")
)

// Params control signal correspondence.
type Params struct {
	Depth     int         // induction depth, at least 1
	LatchOnly bool        // only consider latches and the constant
	ConfLimit int64       // conflicts per proof, 0 for unlimited
	SimFrames int         // frames of random simulation seeding classes
	SimWords  int         // words simulated per frame
	Seed      int64       // random seed
	MaxIter   int         // refinement iterations, 0 for unlimited
	Solver    string      // "cdcl" or "gini"
	Logger    *log.Logger // nil for no logging
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{
		Depth:     1,
		ConfLimit: 1000,
		SimFrames: 16,
		SimWords:  2,
		Seed:      1}
}

// Result reports the outcome of Scorr.
type Result struct {
	Status     fraig.Status
	Iters      int
	Merged     int
	Refined    int          // counter-examples found
	Unresolved []fraig.Pair // pairs dropped from their class, in the input IDs
	Latches    int          // latches before reduction
	Ands       int          // and nodes before reduction
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: iters=%d merged=%d refined=%d unresolved=%d",
		r.Status, r.Iters, r.Merged, r.Refined, len(r.Unresolved))
}

func check(m *aig.Manager, p *Params) error {
	if m.NumLatches() == 0 {
		return ErrNoLatches
	}
	switch {
	case p.Depth < 1:
		return fmt.Errorf("%w: Depth=%d", ErrBadParams, p.Depth)
	case p.ConfLimit < 0 || p.SimFrames < 0 || p.SimWords < 0 || p.MaxIter < 0:
		return fmt.Errorf("%w: %+v", ErrBadParams, *p)
	}
	if _, err := sat.New(p.Solver); err != nil {
		return fmt.Errorf("%w: %w", ErrBadParams, err)
	}
	if p.SimFrames == 0 {
		p.SimFrames = 16
	}
	if p.SimWords == 0 {
		p.SimWords = 1
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	return nil
}

// Lcorr is Scorr restricted to latches.
func Lcorr(m *aig.Manager, p Params) (*aig.Manager, *Result, error) {
	return LcorrContext(context.Background(), m, p)
}

// LcorrContext is ScorrContext restricted to latches.
func LcorrContext(ctx context.Context, m *aig.Manager, p Params) (*aig.Manager, *Result, error) {
	p.LatchOnly = true
	return ScorrContext(ctx, m, p)
}

// Scorr returns a reduced copy of m in which nodes proven equivalent in
// all reachable states are merged, and latches no longer needed by the
// outputs are removed.  m itself is not modified.
//
// If the refinement does not reach a fixpoint within MaxIter iterations,
// nothing is merged and the status is BudgetExhausted.  Pairs whose proof
// exceeds ConfLimit are removed from their class and reported as
// unresolved, which also yields BudgetExhausted.
func Scorr(m *aig.Manager, p Params) (*aig.Manager, *Result, error) {
	return ScorrContext(context.Background(), m, p)
}

// ScorrContext is like Scorr but stops refining when ctx is done, in which
// case nothing is merged and the status is BudgetExhausted.
func ScorrContext(ctx context.Context, m *aig.Manager, p Params) (*aig.Manager, *Result, error) {
	if err := check(m, &p); err != nil {
		return nil, nil, err
	}
	d := m.Dup()
	c := &corr{
		ctx:   ctx,
		m:     d,
		p:     &p,
		rnd:   rand.New(rand.NewSource(p.Seed)),
		unres: mapset.NewThreadUnsafeSet[fraig.Pair](),
		res:   &Result{Latches: d.NumLatches(), Ands: d.NumAnds()}}
	c.seed()
	fix := false
	for p.MaxIter == 0 || c.res.Iters < p.MaxIter {
		c.res.Iters++
		changed := c.base()
		if !changed {
			changed = c.step()
		}
		if ctx.Err() != nil {
			break
		}
		p.Logger.Debug("scorr iteration", "iter", c.res.Iters,
			"classes", c.cls.Len(), "cands", c.cls.NumCands(),
			"refined", c.res.Refined)
		if !changed {
			fix = true
			break
		}
	}
	res := c.res
	res.Unresolved = c.unres.ToSlice()
	sort.Slice(res.Unresolved, func(i, j int) bool {
		return res.Unresolved[i].Node < res.Unresolved[j].Node
	})
	if !fix {
		res.Status = fraig.BudgetExhausted
		return d.DupSeq(), res, nil
	}
	if len(res.Unresolved) > 0 {
		res.Status = fraig.BudgetExhausted
	}
	c.merge()
	out := d.DupSeq()
	p.Logger.Debug("scorr", "merged", res.Merged,
		"latches", out.NumLatches(), "ands", out.NumAnds())
	return out, res, nil
}

type corr struct {
	ctx   context.Context
	m     *aig.Manager
	p     *Params
	rnd   *rand.Rand
	sim   *sim.Sim
	cls   *sim.Classes
	unres mapset.Set[fraig.Pair]
	res   *Result
}

// seed builds the candidate classes from random simulation of the
// sequential network from its initial state.
func (c *corr) seed() {
	m := c.m
	c.sim = sim.New(m, c.rnd, 0)
	lats := m.Latches()
	nPis := m.NumPis()
	states := make([][]uint64, c.p.SimWords)
	for w := range states {
		st := make([]uint64, len(lats))
		for i, l := range lats {
			switch m.Init(l) {
			case aig.True:
				st[i] = ^uint64(0)
			case aig.NoEdge:
				st[i] = c.rnd.Uint64()
			}
		}
		states[w] = st
	}
	cis := make([]uint64, nPis+len(lats))
	for f := 0; f < c.p.SimFrames; f++ {
		for w, st := range states {
			for i := 0; i < nPis; i++ {
				cis[i] = c.rnd.Uint64()
			}
			copy(cis[nPis:], st)
			c.sim.AddWord(cis)
			last := c.sim.NumWords() - 1
			for i, l := range lats {
				if nx := m.Next(l); nx != aig.NoEdge {
					st[i] = c.sim.Value(nx, last)
				} else {
					st[i] = c.rnd.Uint64()
				}
			}
			states[w] = st
		}
	}
	c.cls = sim.NewClasses(c.sim, c.cand)
}

func (c *corr) cand(id aig.ID) bool {
	switch c.m.Kind(id) {
	case aig.KindConst, aig.KindLatch:
		return true
	case aig.KindAnd:
		return !c.p.LatchOnly
	}
	return false
}

// pairs returns the current candidate pairs.
func (c *corr) pairs() []fraig.Pair {
	var ps []fraig.Pair
	c.cls.Each(func(ms []aig.ID) {
		r := ms[0]
		for _, id := range ms[1:] {
			ps = append(ps, fraig.Pair{Repr: r, Node: id, Compl: c.cls.Compl(r, id)})
		}
	})
	return ps
}

func (c *corr) current(pr fraig.Pair) bool {
	r, ok := c.cls.Repr(pr.Node)
	return ok && r == pr.Repr
}

func (c *corr) solver() sat.Solver {
	s, _ := sat.New(c.p.Solver)
	return s
}

// base checks the candidates in the first Depth frames from the initial
// state and tells whether a class changed.
func (c *corr) base() bool {
	u := NewUnroll(c.m)
	cnf := sat.NewCnf(u.C, c.solver())
	changed := false
	var frames []int
	for t := 0; t < c.p.Depth; t++ {
		frames = append(frames, t)
		for _, pr := range c.pairs() {
			if c.ctx.Err() != nil {
				return changed
			}
			if !c.current(pr) {
				continue
			}
			if c.check(u, cnf, pr, t, frames) {
				changed = true
			}
		}
	}
	return changed
}

// step checks the candidates in frame Depth from any state assuming they
// hold in the frames before, and tells whether a class changed.
func (c *corr) step() bool {
	u := NewUnrollFree(c.m)
	u.Speculate = func(id aig.ID, t int) (aig.Edge, bool) {
		if t >= c.p.Depth {
			return aig.NoEdge, false
		}
		r, ok := c.cls.Repr(id)
		if !ok || r == id {
			return aig.NoEdge, false
		}
		return aig.MkEdge(r, c.cls.Compl(r, id)), true
	}
	cnf := sat.NewCnf(u.C, c.solver())
	changed := false
	k := c.p.Depth
	for _, pr := range c.pairs() {
		if c.ctx.Err() != nil {
			return changed
		}
		if !c.current(pr) {
			continue
		}
		if c.check(u, cnf, pr, k, []int{k}) {
			changed = true
		}
	}
	return changed
}

// check proves pr at time t of u.  A counter-example is added to the
// simulation patterns as the values of the sequential inputs at the given
// frames, and the classes are refined.  It tells whether the classes
// changed.
func (c *corr) check(u *Unroll, cnf *sat.Cnf, pr fraig.Pair, t int, frames []int) bool {
	a := u.At(aig.MkEdge(pr.Node, false), t)
	b := u.At(aig.MkEdge(pr.Repr, pr.Compl), t)
	v := fraig.ProveCnf(cnf, a, b, sat.Budget{Conflicts: c.p.ConfLimit})
	switch v.Outcome {
	case fraig.Equal:
		return false
	case fraig.Undecided:
		c.unres.Add(pr)
		c.cls.Remove(pr.Node)
		return true
	}
	cis := c.m.Cis()
	for _, f := range frames {
		for _, id := range cis {
			u.At(aig.MkEdge(id, false), f)
		}
	}
	// inputs created after the proof are unconstrained and taken false
	vs := make([]uint64, u.C.Len())
	for i, id := range u.C.Cis() {
		if i < len(v.Cex) && v.Cex[i] {
			vs[id] = 1
		}
	}
	u.C.Simulate64(vs)
	for _, f := range frames {
		pat := make([]bool, len(cis))
		for i, id := range cis {
			pat[i] = aig.Value64(vs, u.At(aig.MkEdge(id, false), f))&1 == 1
		}
		c.sim.AddPattern(pat)
	}
	c.res.Refined++
	c.cls.RefineCex()
	if c.current(pr) {
		panic(fmt.Sprintf("seq: counter-example does not separate %s", pr))
	}
	return true
}

// merge replaces every candidate by its representative.
func (c *corr) merge() {
	m := c.m
	for i := 1; i < m.Len(); i++ {
		id := aig.ID(i)
		if m.Kind(id) == aig.KindDead {
			continue
		}
		r, ok := c.cls.Repr(id)
		if !ok || r == id {
			continue
		}
		subs := m.Replace(id, aig.MkEdge(r, c.cls.Compl(r, id)))
		c.cls.Substitute(subs)
		c.res.Merged++
	}
}
