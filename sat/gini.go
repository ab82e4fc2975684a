// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import (
	"math"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// ConflictTime is the time a Gini solver is granted per conflict of a
// budget.  Gini can only be interrupted after a timeout, so conflict budgets
// are converted to time budgets and the time spent is charged back as
// conflicts.
const ConflictTime = 100 * time.Microsecond

const maxTimedConflicts = int64(math.MaxInt64 / ConflictTime)

// Gini is a Solver backed by gini.  Conflict budgets are enforced as time
// budgets, see ConflictTime.
type Gini struct {
	g   *gini.Gini
	max z.Var
	st  Stats
}

// NewGini creates a new gini backed solver.
func NewGini() *Gini {
	return &Gini{g: gini.New()}
}

// NewVar implements Solver.
func (s *Gini) NewVar() z.Lit {
	s.max++
	return s.max.Pos()
}

// Add implements Solver.
func (s *Gini) Add(m z.Lit) {
	if m != z.LitNull && m.Var() > s.max {
		s.max = m.Var()
	}
	s.g.Add(m)
}

// Solve implements Solver.
func (s *Gini) Solve(b Budget, assumps ...z.Lit) Result {
	s.st.Solves++
	for _, a := range assumps {
		if a.Var() > s.max {
			s.max = a.Var()
		}
	}
	s.g.Assume(assumps...)
	d := b.Timeout
	if b.Conflicts > 0 && b.Conflicts < maxTimedConflicts {
		if c := time.Duration(b.Conflicts) * ConflictTime; d <= 0 || c < d {
			d = c
		}
	}
	if d <= 0 {
		return Result(s.g.Solve())
	}
	start := time.Now()
	r := Result(s.g.GoSolve().Try(d))
	n := int64(time.Since(start) / ConflictTime)
	if b.Conflicts > 0 && (r == Unknown || n > b.Conflicts) {
		n = b.Conflicts
	}
	s.st.Conflicts += n
	return r
}

// Value implements Solver.
func (s *Gini) Value(m z.Lit) bool {
	return s.g.Value(m)
}

// Stats implements Solver.  Conflicts are estimated from the time spent in
// calls with a budget.
func (s *Gini) Stats() Stats {
	return s.st
}
