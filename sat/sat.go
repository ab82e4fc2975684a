// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sat provides incremental satisfiability solvers for proving
// equivalences in and-inverter graphs.
//
// Literals are gini's z.Lit and clauses are added as z.LitNull terminated
// sequences of literals, so every Solver is an inter.Adder.  Results follow
// gini's convention: 1 for satisfiable, -1 for unsatisfiable and 0 when the
// budget was exhausted.
package sat

import (
	"fmt"
	"time"

	"github.com/go-air/gini/z"
)

// Result is the outcome of a call to Solve.
type Result int

const (
	Unsat   Result = -1
	Unknown Result = 0
	Sat     Result = 1
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Budget bounds a single call to Solve.  Zero values mean unlimited.
type Budget struct {
	Conflicts int64
	Timeout   time.Duration
}

// Stats are cumulative solver statistics.
type Stats struct {
	Solves       int64
	Conflicts    int64
	Decisions    int64
	Propagations int64
	Restarts     int64
	Learnts      int
}

func (s Stats) String() string {
	return fmt.Sprintf("solves %d conflicts %d decisions %d props %d restarts %d learnts %d",
		s.Solves, s.Conflicts, s.Decisions, s.Propagations, s.Restarts, s.Learnts)
}

// Solver is an incremental SAT solver.
type Solver interface {
	// NewVar returns the positive literal of a fresh variable.
	NewVar() z.Lit

	// Add adds a literal to the current clause, z.LitNull ends the
	// clause.
	Add(m z.Lit)

	// Solve decides the clauses under the assumptions assumps.  Assumptions
	// only hold for this call.
	Solve(b Budget, assumps ...z.Lit) Result

	// Value returns the value of m in the model found by the last call to
	// Solve which returned Sat.
	Value(m z.Lit) bool

	Stats() Stats
}

// AddClause adds the clause ms to s.
func AddClause(s Solver, ms ...z.Lit) {
	for _, m := range ms {
		s.Add(m)
	}
	s.Add(z.LitNull)
}

// New returns a solver by name, "cdcl" or "gini".  The empty name selects
// "cdcl".
func New(name string) (Solver, error) {
	switch name {
	case "", "cdcl":
		return NewCDCL(), nil
	case "gini":
		return NewGini(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
}
