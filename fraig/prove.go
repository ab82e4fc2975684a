// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package fraig

import (
	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/sat"
)

// Outcome is the outcome of an equivalence proof.
type Outcome int

const (
	Undecided Outcome = iota
	Equal
	Differ
)

func (o Outcome) String() string {
	switch o {
	case Equal:
		return "equal"
	case Differ:
		return "differ"
	default:
		return "undecided"
	}
}

// Verdict is the result of Prove.  If the outcome is Differ, Cex holds
// values of the combinational inputs, in the order of Cis(), under which
// the edges differ.
type Verdict struct {
	Outcome Outcome
	Cex     []bool
}

// Prove decides whether a and b are equivalent using solver s within
// budget b for each of the two implications.  If s is nil, a new CDCL
// solver is used.
func Prove(m *aig.Manager, a, b aig.Edge, budget sat.Budget, s sat.Solver) Verdict {
	if s == nil {
		s = sat.NewCDCL()
	}
	return prove(sat.NewCnf(m, s), a, b, func() sat.Budget { return budget })
}

// ProveCnf is like Prove but uses an existing encoding, so that clauses
// learnt by earlier proofs are kept.
func ProveCnf(cnf *sat.Cnf, a, b aig.Edge, budget sat.Budget) Verdict {
	return prove(cnf, a, b, func() sat.Budget { return budget })
}

// prove checks both implications between a and b, asking budget for the
// budget of each call.  A negative conflict budget means none is left.
func prove(cnf *sat.Cnf, a, b aig.Edge, budget func() sat.Budget) Verdict {
	if a == b {
		return Verdict{Outcome: Equal}
	}
	s := cnf.Solver()
	la, lb := cnf.Lit(a), cnf.Lit(b)
	for _, as := range [2][2]bool{{true, false}, {false, true}} {
		ma, mb := la, lb
		if !as[0] {
			ma = ma.Not()
		}
		if !as[1] {
			mb = mb.Not()
		}
		bud := budget()
		if bud.Conflicts < 0 {
			return Verdict{Outcome: Undecided}
		}
		switch s.Solve(bud, ma, mb) {
		case sat.Sat:
			return Verdict{Outcome: Differ, Cex: cnf.CiValues()}
		case sat.Unknown:
			return Verdict{Outcome: Undecided}
		}
	}
	// a == b holds, record it for later proofs
	sat.AddClause(s, la.Not(), lb)
	sat.AddClause(s, la, lb.Not())
	return Verdict{Outcome: Equal}
}
