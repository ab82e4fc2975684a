// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package fraig merges functionally equivalent nodes of an and-inverter
// graph by SAT sweeping.
//
// Candidate equivalences are found by random simulation.  Nodes are then
// visited in ID order and each is proven equal to the representative of its
// class, in which case it is replaced by the representative, or refuted, in
// which case the counter-example is added to the simulation patterns and
// all classes are refined.  Proofs whose conflict budget runs out leave the
// pair unresolved.  A global conflict or time budget stops the sweep early,
// and all pairs not yet proven are then reported as unresolved.  No pair is
// ever merged without a proof.
package fraig

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/rwr"
	"github.com/go-air/aigo/sat"
	"github.com/go-air/aigo/sim"
)

// ErrBadParams is returned for invalid parameters.
var ErrBadParams = errors.New("fraig: bad parameters")

// Params control sweeping.
type Params struct {
	ConfLimit      int64         // conflicts per proof, 0 for unlimited
	Sparse         bool          // also sweep nodes simulating to constants
	TotalConflicts int64         // conflicts per sweep, 0 for unlimited
	Timeout        time.Duration // time for all sweeps, 0 for unlimited
	SimWords       int           // random simulation words per node
	SimRounds      int           // maximal random rounds seeding the classes
	Seed           int64         // random seed
	Solver         string        // "cdcl" or "gini"
	Resynth        bool          // rewrite between sweeps
	MaxSweeps      int           // sweeps if Resynth is set
	Logger         *log.Logger   // nil for no logging
}

// DefaultParams returns the default sweeping parameters.
func DefaultParams() Params {
	return Params{
		ConfLimit: 100,
		Sparse:    true,
		SimWords:  4,
		SimRounds: 8,
		Seed:      1,
		MaxSweeps: 1}
}

func check(p *Params) error {
	switch {
	case p.ConfLimit < 0:
		return fmt.Errorf("%w: ConfLimit=%d", ErrBadParams, p.ConfLimit)
	case p.TotalConflicts < 0:
		return fmt.Errorf("%w: TotalConflicts=%d", ErrBadParams, p.TotalConflicts)
	case p.Timeout < 0:
		return fmt.Errorf("%w: Timeout=%s", ErrBadParams, p.Timeout)
	case p.SimWords < 0 || p.SimRounds < 0 || p.MaxSweeps < 0:
		return fmt.Errorf("%w: SimWords=%d SimRounds=%d MaxSweeps=%d",
			ErrBadParams, p.SimWords, p.SimRounds, p.MaxSweeps)
	}
	if _, err := sat.New(p.Solver); err != nil {
		return fmt.Errorf("%w: %w", ErrBadParams, err)
	}
	if p.SimWords == 0 {
		p.SimWords = 4
	}
	if p.MaxSweeps == 0 {
		p.MaxSweeps = 1
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	return nil
}

// Status is the terminal state of a sweep.
type Status int

const (
	// Converged means no swept candidate pair is left unresolved.  Constant
	// candidates excluded by Params.Sparse do not count.
	Converged Status = iota
	// BudgetExhausted means some candidate pairs could not be decided.
	BudgetExhausted
)

func (s Status) String() string {
	if s == Converged {
		return "converged"
	}
	return "budget exhausted"
}

// Pair is a candidate equivalence of Node to Repr, complemented if Compl.
type Pair struct {
	Repr  aig.ID
	Node  aig.ID
	Compl bool
}

func (p Pair) String() string {
	return fmt.Sprintf("%d=%s", p.Node, aig.MkEdge(p.Repr, p.Compl))
}

// Result reports the outcome of Fraig.  Status only accounts for swept
// pairs: with Sparse unset, members of the constant class are listed in
// Skipped and left unproven even when the status is Converged.
type Result struct {
	Status     Status
	Sweeps     int
	Merged     int      // nodes replaced by their representative
	Refuted    int      // candidate pairs disproven
	Undecided  int      // proofs exceeding ConfLimit
	Unresolved []Pair   // pairs left unproven in the last sweep
	Skipped    []aig.ID // constant candidates not swept, see Params.Sparse
	SatCalls   int
	Conflicts  int64
	Rounds     int // random simulation rounds
	Patterns   int // counter-example patterns
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: sweeps=%d merged=%d refuted=%d undecided=%d unresolved=%d skipped=%d sat=%d conflicts=%d",
		r.Status, r.Sweeps, r.Merged, r.Refuted, r.Undecided, len(r.Unresolved),
		len(r.Skipped), r.SatCalls, r.Conflicts)
}

// Fraig sweeps m in place.  Budget exhaustion is reported in the result
// status, the returned error is only for invalid parameters, in which case
// m is unchanged.
func Fraig(m *aig.Manager, p Params) (*Result, error) {
	return FraigContext(context.Background(), m, p)
}

// FraigContext is like Fraig but also stops the sweep when ctx is done,
// reporting the pairs not yet proven as unresolved.  A single proof is
// only interrupted at a deadline of ctx, so an unlimited ConfLimit may
// delay the stop.
func FraigContext(ctx context.Context, m *aig.Manager, p Params) (*Result, error) {
	if err := check(&p); err != nil {
		return nil, err
	}
	var deadline time.Time
	if p.Timeout > 0 {
		deadline = time.Now().Add(p.Timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	rnd := rand.New(rand.NewSource(p.Seed))
	res := &Result{}
	m.Collect()
	for res.Sweeps < p.MaxSweeps {
		s, _ := sat.New(p.Solver)
		sw := &sweeper{
			ctx:      ctx,
			m:        m,
			p:        &p,
			s:        s,
			cnf:      sat.NewCnf(m, s),
			deadline: deadline,
			unres:    mapset.NewThreadUnsafeSet[Pair](),
			skipped:  mapset.NewThreadUnsafeSet[aig.ID](),
			res:      res}
		merged := res.Merged
		sw.sweep(rnd)
		res.Sweeps++
		p.Logger.Debug("fraig sweep", "sweep", res.Sweeps, "ands", m.NumAnds(),
			"merged", res.Merged-merged, "refuted", res.Refuted,
			"unresolved", len(res.Unresolved), "conflicts", res.Conflicts)
		if sw.stopped || !p.Resynth || res.Merged == merged {
			break
		}
		if _, err := rwr.Rewrite(m, rwr.Params{MaxIter: 1, CutsPerNode: 8, Logger: p.Logger}); err != nil {
			return res, err
		}
	}
	return res, nil
}

type sweeper struct {
	ctx      context.Context
	m        *aig.Manager
	p        *Params
	s        sat.Solver
	cnf      *sat.Cnf
	sim      *sim.Sim
	cls      *sim.Classes
	deadline time.Time
	conf0    int64
	stopped  bool
	unres    mapset.Set[Pair]
	skipped  mapset.Set[aig.ID]
	res      *Result
}

func (w *sweeper) sweep(rnd *rand.Rand) {
	m := w.m
	w.conf0 = w.s.Stats().Conflicts
	w.sim = sim.New(m, rnd, w.p.SimWords)
	w.cls = sim.NewClasses(w.sim, nil)
	w.cls.Seed(w.p.SimRounds)
	for i := 1; i < m.Len() && !w.stopped; i++ {
		w.node(aig.ID(i))
	}
	w.finish()
}

// node processes id until it is merged, becomes a representative or its
// pair is left unresolved.
func (w *sweeper) node(id aig.ID) {
	m := w.m
	if !m.IsAnd(id) && !m.IsCi(id) {
		return
	}
	for {
		r, ok := w.cls.Repr(id)
		if !ok || r == id {
			return
		}
		c := w.cls.Compl(r, id)
		if r == 0 && !w.p.Sparse {
			w.skipped.Add(id)
			return
		}
		if w.exhausted() {
			w.stop(id)
			return
		}
		v := w.prove(aig.MkEdge(id, false), aig.MkEdge(r, c))
		switch v.Outcome {
		case Equal:
			subs := m.Replace(id, aig.MkEdge(r, c))
			w.cls.Substitute(subs)
			w.res.Merged++
			return
		case Undecided:
			w.unres.Add(Pair{Repr: r, Node: id, Compl: c})
			w.res.Undecided++
			return
		}
		w.res.Refuted++
		w.sim.AddPattern(v.Cex)
		w.cls.RefineCex()
		if r2, ok := w.cls.Repr(id); ok && r2 == r {
			panic(fmt.Sprintf("fraig: counter-example does not separate %d from %d", id, r))
		}
	}
}

func (w *sweeper) exhausted() bool {
	if w.ctx.Err() != nil {
		return true
	}
	if !w.deadline.IsZero() && time.Now().After(w.deadline) {
		return true
	}
	if w.p.TotalConflicts > 0 && w.s.Stats().Conflicts-w.conf0 >= w.p.TotalConflicts {
		return true
	}
	return false
}

func (w *sweeper) budget() sat.Budget {
	b := sat.Budget{Conflicts: w.p.ConfLimit}
	if w.p.TotalConflicts > 0 {
		rem := w.p.TotalConflicts - (w.s.Stats().Conflicts - w.conf0)
		if b.Conflicts == 0 || rem < b.Conflicts {
			b.Conflicts = rem
		}
		if rem <= 0 {
			b.Conflicts = -1
		}
	}
	if !w.deadline.IsZero() {
		b.Timeout = time.Until(w.deadline)
		if b.Timeout <= 0 {
			b.Timeout = time.Nanosecond
		}
	}
	return b
}

func (w *sweeper) prove(a, b aig.Edge) Verdict {
	st := w.s.Stats()
	v := prove(w.cnf, a, b, w.budget)
	after := w.s.Stats()
	w.res.SatCalls += int(after.Solves - st.Solves)
	w.res.Conflicts += after.Conflicts - st.Conflicts
	return v
}

// stop records every pair not yet decided from id on as unresolved.
func (w *sweeper) stop(from aig.ID) {
	w.stopped = true
	w.cls.Each(func(ms []aig.ID) {
		r := ms[0]
		for _, id := range ms[1:] {
			if id < from {
				continue
			}
			if r == 0 && !w.p.Sparse {
				w.skipped.Add(id)
				continue
			}
			w.unres.Add(Pair{Repr: r, Node: id, Compl: w.cls.Compl(r, id)})
		}
	})
}

func (w *sweeper) finish() {
	res := w.res
	res.Unresolved = res.Unresolved[:0]
	w.unres.Each(func(p Pair) bool {
		if w.m.Kind(p.Node) != aig.KindDead && w.m.Kind(p.Repr) != aig.KindDead {
			res.Unresolved = append(res.Unresolved, p)
		}
		return false
	})
	sort.Slice(res.Unresolved, func(i, j int) bool {
		return res.Unresolved[i].Node < res.Unresolved[j].Node
	})
	res.Skipped = w.skipped.ToSlice()
	sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i] < res.Skipped[j] })
	res.Rounds += w.sim.Rounds()
	res.Patterns += w.sim.NumPatterns()
	res.Status = Converged
	if w.stopped || len(res.Unresolved) > 0 {
		res.Status = BudgetExhausted
	}
}
