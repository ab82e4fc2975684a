// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package cec checks the combinational equivalence of and-inverter graphs.
//
// Two networks are compared through their miter, whose outputs are the
// exclusive ors of corresponding combinational outputs over shared
// combinational inputs.  The networks are equivalent if every miter output
// is constant false.  Check sweeps the miter and then proves each output
// with SAT, CheckBdd builds the output functions as BDDs.
package cec

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/fraig"
	"github.com/go-air/aigo/sat"
)

// ErrMismatch is returned when the interfaces of the compared networks
// differ.
var ErrMismatch = errors.New("cec: interfaces differ")

// Status is the outcome of an equivalence check.
type Status int

const (
	Undecided Status = iota
	Equivalent
	Different
)

func (s Status) String() string {
	switch s {
	case Equivalent:
		return "equivalent"
	case Different:
		return "different"
	default:
		return "undecided"
	}
}

// Result is the result of a check.  If the status is Different, Output is
// the index of a differing combinational output and Cex the values of the
// combinational inputs, in the order of Cis(), under which it differs.
// Otherwise Output is -1.
type Result struct {
	Status Status
	Output int
	Cex    []bool
}

func (r *Result) String() string {
	if r.Status == Different {
		return fmt.Sprintf("%s at output %d", r.Status, r.Output)
	}
	return r.Status.String()
}

// Miter returns the miter of a and b.  The combinational inputs of a and b
// are identified by position, and the i-th output of the result is the
// exclusive or of the i-th combinational outputs of a and b.  Latches are
// treated as inputs and their next state functions as outputs.
func Miter(a, b *aig.Manager) (*aig.Manager, error) {
	if a.NumPis() != b.NumPis() || a.NumLatches() != b.NumLatches() || a.NumPos() != b.NumPos() {
		return nil, fmt.Errorf("%w: %s vs %s", ErrMismatch, a.Stats(), b.Stats())
	}
	m := aig.NewCap(a.Len() + b.Len())
	nCis := a.NumPis() + a.NumLatches()
	cis := make([]aig.Edge, nCis)
	for i := range cis {
		cis[i] = m.Pi()
	}
	ca := copyInto(m, a, cis)
	cb := copyInto(m, b, cis)
	for i := range ca {
		m.AddPo(m.Xor(ca[i], cb[i]))
	}
	return m, nil
}

// copyInto builds the combinational logic of s in m with the inputs cis
// and returns the images of its combinational outputs.
func copyInto(m, s *aig.Manager, cis []aig.Edge) []aig.Edge {
	dmap := make([]aig.Edge, s.Len())
	dmap[0] = aig.False
	for i, id := range s.Cis() {
		dmap[id] = cis[i]
	}
	img := func(e aig.Edge) aig.Edge {
		if e == aig.NoEdge {
			return aig.False
		}
		return dmap[e.ID()].NotCond(e.IsCompl())
	}
	for i := 1; i < s.Len(); i++ {
		id := aig.ID(i)
		if !s.IsAnd(id) {
			continue
		}
		a, b := s.Fanins(id)
		dmap[id] = m.Build(img(a), img(b))
	}
	cos := s.Cos()
	res := make([]aig.Edge, len(cos))
	for i, e := range cos {
		res[i] = img(e)
	}
	return res
}

// Params control Check.
type Params struct {
	Sweep     bool        // sweep the miter before proving the outputs
	ConfLimit int64       // conflicts per output, 0 for unlimited
	Solver    string      // "cdcl" or "gini"
	Logger    *log.Logger // nil for no logging
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{Sweep: true}
}

// Check checks the combinational equivalence of a and b.  Neither network
// is modified.
func Check(a, b *aig.Manager, p Params) (*Result, error) {
	return CheckContext(context.Background(), a, b, p)
}

// CheckContext is like Check but gives up with status Undecided when ctx
// is done.
func CheckContext(ctx context.Context, a, b *aig.Manager, p Params) (*Result, error) {
	if p.ConfLimit < 0 {
		return nil, fmt.Errorf("cec: bad conflict limit %d", p.ConfLimit)
	}
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	s, err := sat.New(p.Solver)
	if err != nil {
		return nil, fmt.Errorf("cec: %w", err)
	}
	m, err := Miter(a, b)
	if err != nil {
		return nil, err
	}
	if p.Sweep {
		fp := fraig.DefaultParams()
		fp.ConfLimit = p.ConfLimit
		fp.Solver = p.Solver
		fp.Logger = p.Logger
		fr, err := fraig.FraigContext(ctx, m, fp)
		if err != nil {
			return nil, fmt.Errorf("cec: %w", err)
		}
		p.Logger.Debug("cec sweep", "ands", m.NumAnds(), "merged", fr.Merged)
	}
	return prove(ctx, m, s, p.ConfLimit), nil
}

// prove decides each output of the miter m.
func prove(ctx context.Context, m *aig.Manager, s sat.Solver, confLimit int64) *Result {
	cnf := sat.NewCnf(m, s)
	res := &Result{Status: Equivalent, Output: -1}
	for i := 0; i < m.NumPos(); i++ {
		e := m.Po(i)
		switch e {
		case aig.False:
			continue
		case aig.True:
			return &Result{Status: Different, Output: i, Cex: make([]bool, len(m.Cis()))}
		}
		if ctx.Err() != nil {
			res.Status = Undecided
			return res
		}
		v := fraig.ProveCnf(cnf, e, aig.False, sat.Budget{Conflicts: confLimit})
		switch v.Outcome {
		case fraig.Differ:
			return &Result{Status: Different, Output: i, Cex: v.Cex}
		case fraig.Undecided:
			res.Status = Undecided
		}
	}
	return res
}
