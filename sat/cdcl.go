// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"sort"
	"time"

	"github.com/go-air/gini/z"
)

const (
	restartBase = 100
	varDecay    = 0.95
	claDecay    = 0.999
	timeTick    = 256
)

type clause struct {
	lits    []z.Lit
	act     float64
	learnt  bool
	removed bool
}

// watch holds a clause watching a literal and a blocking literal of the
// clause.  If the blocker is true the clause need not be visited.
type watch struct {
	c       *clause
	blocker z.Lit
}

// CDCL is an incremental conflict driven clause learning solver with
// watched literals, first UIP learning, activity based branching, phase
// saving, Luby restarts and learnt clause reduction.  Solve honors its
// conflict budget exactly.
type CDCL struct {
	nVars   int
	ok      bool
	clauses []*clause
	learnts []*clause
	watches [][]watch // indexed by literal, clauses watching it
	assigns []int8    // indexed by variable, value of the positive literal
	level   []int
	reason  []*clause
	phase   []bool
	seen    []bool
	act     []float64
	heap    varHeap
	trail   []z.Lit
	lim     []int
	qhead   int
	varInc  float64
	claInc  float64
	maxLrn  float64
	luby    *Luby
	model   []int8
	buf     []z.Lit
	st      Stats
}

// NewCDCL creates a new empty solver.
func NewCDCL() *CDCL {
	s := &CDCL{
		ok:      true,
		watches: make([][]watch, 2),
		assigns: make([]int8, 1),
		level:   make([]int, 1),
		reason:  make([]*clause, 1),
		phase:   make([]bool, 1),
		seen:    make([]bool, 1),
		act:     make([]float64, 1),
		varInc:  1,
		claInc:  1,
		luby:    NewLuby()}
	s.heap.act = &s.act
	s.heap.grow(0)
	return s
}

// NewVar implements Solver.
func (s *CDCL) NewVar() z.Lit {
	v := z.Var(s.nVars + 1)
	s.ensure(v)
	return v.Pos()
}

// MaxVar returns the largest variable in use.
func (s *CDCL) MaxVar() z.Var {
	return z.Var(s.nVars)
}

func (s *CDCL) ensure(v z.Var) {
	for s.nVars < int(v) {
		s.nVars++
		s.watches = append(s.watches, nil, nil)
		s.assigns = append(s.assigns, 0)
		s.level = append(s.level, 0)
		s.reason = append(s.reason, nil)
		s.phase = append(s.phase, false)
		s.seen = append(s.seen, false)
		s.act = append(s.act, 0)
		s.heap.push(z.Var(s.nVars))
	}
}

// Add implements Solver.
func (s *CDCL) Add(m z.Lit) {
	if m != z.LitNull {
		s.ensure(m.Var())
		s.buf = append(s.buf, m)
		return
	}
	s.addClause(s.buf)
	s.buf = s.buf[:0]
}

// Value implements Solver.
func (s *CDCL) Value(m z.Lit) bool {
	v := m.Var()
	if int(v) >= len(s.model) {
		return false
	}
	return s.model[v] == 1 == m.IsPos()
}

// Stats implements Solver.
func (s *CDCL) Stats() Stats {
	st := s.st
	st.Learnts = len(s.learnts)
	return st
}

func (s *CDCL) value(m z.Lit) int8 {
	a := s.assigns[m.Var()]
	if m.IsPos() {
		return a
	}
	return -a
}

func (s *CDCL) decisionLevel() int {
	return len(s.lim)
}

func (s *CDCL) addClause(ms []z.Lit) {
	if !s.ok {
		return
	}
	ms = append([]z.Lit(nil), ms...)
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	j := 0
	for i, m := range ms {
		if i > 0 && m == ms[i-1] {
			continue
		}
		if i > 0 && m == ms[i-1].Not() {
			return
		}
		switch s.value(m) {
		case 1:
			return
		case -1:
			continue
		}
		ms[j] = m
		j++
	}
	ms = ms[:j]
	switch len(ms) {
	case 0:
		s.ok = false
	case 1:
		s.enqueue(ms[0], nil)
		if s.propagate() != nil {
			s.ok = false
		}
	default:
		c := &clause{lits: ms}
		s.attach(c)
		s.clauses = append(s.clauses, c)
	}
}

func (s *CDCL) attach(c *clause) {
	a, b := c.lits[0], c.lits[1]
	s.watches[a] = append(s.watches[a], watch{c: c, blocker: b})
	s.watches[b] = append(s.watches[b], watch{c: c, blocker: a})
}

func (s *CDCL) enqueue(m z.Lit, from *clause) {
	v := m.Var()
	if m.IsPos() {
		s.assigns[v] = 1
	} else {
		s.assigns[v] = -1
	}
	s.level[v] = s.decisionLevel()
	s.reason[v] = from
	s.trail = append(s.trail, m)
}

// propagate performs unit propagation and returns a conflicting clause or
// nil.  Implied literals are placed first in their reason clause.
func (s *CDCL) propagate() *clause {
	for s.qhead < len(s.trail) {
		p := s.trail[s.qhead]
		s.qhead++
		s.st.Propagations++
		f := p.Not()
		ws := s.watches[f]
		i, j := 0, 0
		for i < len(ws) {
			w := ws[i]
			i++
			c := w.c
			if c.removed {
				continue
			}
			if s.value(w.blocker) == 1 {
				ws[j] = w
				j++
				continue
			}
			if c.lits[0] == f {
				c.lits[0], c.lits[1] = c.lits[1], f
			}
			first := c.lits[0]
			if first != w.blocker && s.value(first) == 1 {
				ws[j] = watch{c: c, blocker: first}
				j++
				continue
			}
			moved := false
			for k := 2; k < len(c.lits); k++ {
				if s.value(c.lits[k]) != -1 {
					c.lits[1], c.lits[k] = c.lits[k], c.lits[1]
					o := c.lits[1]
					s.watches[o] = append(s.watches[o], watch{c: c, blocker: first})
					moved = true
					break
				}
			}
			if moved {
				continue
			}
			ws[j] = watch{c: c, blocker: first}
			j++
			if s.value(first) == -1 {
				for i < len(ws) {
					ws[j] = ws[i]
					i++
					j++
				}
				s.watches[f] = ws[:j]
				s.qhead = len(s.trail)
				return c
			}
			s.enqueue(first, c)
		}
		s.watches[f] = ws[:j]
	}
	return nil
}

func (s *CDCL) newDecisionLevel() {
	s.lim = append(s.lim, len(s.trail))
}

func (s *CDCL) cancelUntil(lvl int) {
	if s.decisionLevel() <= lvl {
		return
	}
	start := s.lim[lvl]
	for i := len(s.trail) - 1; i >= start; i-- {
		v := s.trail[i].Var()
		s.phase[v] = s.assigns[v] == 1
		s.assigns[v] = 0
		s.reason[v] = nil
		s.heap.push(v)
	}
	s.trail = s.trail[:start]
	s.lim = s.lim[:lvl]
	s.qhead = start
}

func (s *CDCL) bumpVar(v z.Var) {
	s.act[v] += s.varInc
	if s.act[v] > 1e100 {
		for i := range s.act {
			s.act[i] *= 1e-100
		}
		s.varInc *= 1e-100
	}
	s.heap.bumped(v)
}

func (s *CDCL) bumpClause(c *clause) {
	c.act += s.claInc
	if c.act > 1e20 {
		for _, l := range s.learnts {
			l.act *= 1e-20
		}
		s.claInc *= 1e-20
	}
}

// analyze derives a first UIP clause from the conflict confl.  The
// asserting literal is placed first and a literal of the backjump level
// second.
func (s *CDCL) analyze(confl *clause) ([]z.Lit, int) {
	learnt := []z.Lit{z.LitNull}
	pathC := 0
	p := z.LitNull
	idx := len(s.trail) - 1
	dl := s.decisionLevel()
	for {
		if confl.learnt {
			s.bumpClause(confl)
		}
		start := 0
		if p != z.LitNull {
			start = 1
		}
		for _, q := range confl.lits[start:] {
			v := q.Var()
			if s.seen[v] || s.level[v] == 0 {
				continue
			}
			s.bumpVar(v)
			s.seen[v] = true
			if s.level[v] >= dl {
				pathC++
			} else {
				learnt = append(learnt, q)
			}
		}
		for !s.seen[s.trail[idx].Var()] {
			idx--
		}
		p = s.trail[idx]
		idx--
		confl = s.reason[p.Var()]
		s.seen[p.Var()] = false
		pathC--
		if pathC == 0 {
			break
		}
	}
	learnt[0] = p.Not()

	marked := append([]z.Lit(nil), learnt[1:]...)
	j := 1
	for _, q := range learnt[1:] {
		if !s.redundant(q.Var()) {
			learnt[j] = q
			j++
		}
	}
	learnt = learnt[:j]
	for _, q := range marked {
		s.seen[q.Var()] = false
	}

	bt := 0
	if len(learnt) > 1 {
		mi := 1
		for i := 2; i < len(learnt); i++ {
			if s.level[learnt[i].Var()] > s.level[learnt[mi].Var()] {
				mi = i
			}
		}
		learnt[1], learnt[mi] = learnt[mi], learnt[1]
		bt = s.level[learnt[1].Var()]
	}
	return learnt, bt
}

// redundant tells whether v is implied by literals already in the learnt
// clause.
func (s *CDCL) redundant(v z.Var) bool {
	r := s.reason[v]
	if r == nil {
		return false
	}
	for _, q := range r.lits[1:] {
		u := q.Var()
		if !s.seen[u] && s.level[u] > 0 {
			return false
		}
	}
	return true
}

func (s *CDCL) locked(c *clause) bool {
	v := c.lits[0].Var()
	return s.reason[v] == c && s.value(c.lits[0]) == 1
}

// reduce removes about half of the learnt clauses, least active first.
// Binary and locked clauses are kept.
func (s *CDCL) reduce() {
	sort.Slice(s.learnts, func(i, j int) bool {
		return s.learnts[i].act < s.learnts[j].act
	})
	half := len(s.learnts) / 2
	j := 0
	for i, c := range s.learnts {
		if i < half && len(c.lits) > 2 && !s.locked(c) {
			c.removed = true
			continue
		}
		s.learnts[j] = c
		j++
	}
	s.learnts = s.learnts[:j]
}

func (s *CDCL) pickBranch() z.Lit {
	for !s.heap.empty() {
		v := s.heap.pop()
		if s.assigns[v] != 0 {
			continue
		}
		if s.phase[v] {
			return v.Pos()
		}
		return v.Neg()
	}
	return z.LitNull
}

// Solve implements Solver.
func (s *CDCL) Solve(b Budget, assumps ...z.Lit) Result {
	s.st.Solves++
	if !s.ok {
		return Unsat
	}
	for _, a := range assumps {
		s.ensure(a.Var())
	}
	s.cancelUntil(0)
	if s.propagate() != nil {
		s.ok = false
		return Unsat
	}
	var deadline time.Time
	if b.Timeout > 0 {
		deadline = time.Now().Add(b.Timeout)
	}
	if s.maxLrn == 0 {
		s.maxLrn = float64(len(s.clauses))/3 + 2000
	}
	startConfl := s.st.Conflicts
	restartAt := s.st.Conflicts + int64(restartBase*s.luby.Next())
	ticks := 0
	for {
		ticks++
		if !deadline.IsZero() && ticks%timeTick == 0 && time.Now().After(deadline) {
			s.cancelUntil(0)
			return Unknown
		}
		confl := s.propagate()
		if confl != nil {
			s.st.Conflicts++
			if s.decisionLevel() == 0 {
				s.ok = false
				return Unsat
			}
			learnt, bt := s.analyze(confl)
			s.cancelUntil(bt)
			if len(learnt) == 1 {
				s.enqueue(learnt[0], nil)
			} else {
				c := &clause{lits: learnt, learnt: true}
				s.attach(c)
				s.learnts = append(s.learnts, c)
				s.bumpClause(c)
				s.enqueue(learnt[0], c)
			}
			s.varInc /= varDecay
			s.claInc /= claDecay
			if b.Conflicts > 0 && s.st.Conflicts-startConfl >= b.Conflicts {
				s.cancelUntil(0)
				return Unknown
			}
			continue
		}
		if s.st.Conflicts >= restartAt {
			s.st.Restarts++
			restartAt = s.st.Conflicts + int64(restartBase*s.luby.Next())
			s.cancelUntil(0)
			continue
		}
		if float64(len(s.learnts)-len(s.trail)) >= s.maxLrn {
			s.reduce()
			s.maxLrn *= 1.1
		}
		next := z.LitNull
		for s.decisionLevel() < len(assumps) {
			a := assumps[s.decisionLevel()]
			switch s.value(a) {
			case 1:
				s.newDecisionLevel()
				continue
			case -1:
				s.cancelUntil(0)
				return Unsat
			}
			next = a
			break
		}
		if next == z.LitNull {
			next = s.pickBranch()
			if next == z.LitNull {
				s.model = append(s.model[:0], s.assigns...)
				s.cancelUntil(0)
				return Sat
			}
		}
		s.st.Decisions++
		s.newDecisionLevel()
		s.enqueue(next, nil)
	}
}
