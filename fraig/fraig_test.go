// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package fraig

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/gen"
	"github.com/go-air/aigo/internal/aigtest"
	"github.com/go-air/aigo/rfc"
	"github.com/go-air/aigo/rwr"
	"github.com/go-air/aigo/sat"
)

var rnd = rand.New(rand.NewSource(13))

// distributive builds two outputs computing a(b+c) and ab+ac.
func distributive() *aig.Manager {
	m := aig.New()
	a, b, c := m.Pi(), m.Pi(), m.Pi()
	m.AddPo(m.Build(a, m.Or(b, c)))
	m.AddPo(m.Or(m.Build(a, b), m.Build(a, c)))
	return m
}

func TestMiterOutputs(t *testing.T) {
	for _, solver := range []string{"cdcl", "gini"} {
		m := distributive()
		if m.Po(0) == m.Po(1) {
			t.Fatalf("outputs structurally equal")
		}
		p := DefaultParams()
		p.ConfLimit = 10000
		p.Solver = solver
		res, err := Fraig(m, p)
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != Converged {
			t.Errorf("%s: %s", solver, res)
		}
		if res.Merged == 0 {
			t.Errorf("%s: nothing merged", solver)
		}
		if m.Po(0) != m.Po(1) {
			t.Errorf("%s: outputs not merged: %s %s", solver, m.Po(0), m.Po(1))
		}
		if err := m.Check(); err != nil {
			t.Error(err)
		}
		if m.NumAnds() != 2 {
			t.Errorf("%s: %d ands left", solver, m.NumAnds())
		}
	}
}

func TestMultiplierBudget(t *testing.T) {
	m := aig.New()
	a := gen.Inputs(m, 8)
	b := gen.Inputs(m, 8)
	for _, e := range gen.Mult(m, a, b) {
		m.AddPo(e)
	}
	for _, e := range gen.Mult(m, b, a) {
		m.AddPo(e)
	}
	pats := aigtest.Patterns(rnd, 16, 16)
	before := aigtest.Outputs(m, pats)
	p := DefaultParams()
	p.ConfLimit = 2
	p.TotalConflicts = 500
	res, err := Fraig(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != BudgetExhausted {
		t.Errorf("status %s", res)
	}
	if len(res.Unresolved) == 0 {
		t.Errorf("no unresolved pairs: %s", res)
	}
	if res.Conflicts > p.TotalConflicts {
		t.Errorf("used %d conflicts of %d", res.Conflicts, p.TotalConflicts)
	}
	for _, pr := range res.Unresolved {
		if m.Kind(pr.Node) == aig.KindDead || m.Kind(pr.Repr) == aig.KindDead {
			t.Errorf("unresolved pair %s refers to a dead node", pr)
		}
	}
	if i := aigtest.Diff(before, aigtest.Outputs(m, pats)); i >= 0 {
		t.Errorf("output %d changed", i)
	}
	if err := m.Check(); err != nil {
		t.Error(err)
	}
}

func TestGiniBudget(t *testing.T) {
	m := aig.New()
	a := gen.Inputs(m, 8)
	b := gen.Inputs(m, 8)
	for _, e := range gen.Mult(m, a, b) {
		m.AddPo(e)
	}
	for _, e := range gen.Mult(m, b, a) {
		m.AddPo(e)
	}
	p := DefaultParams()
	p.ConfLimit = 2
	p.TotalConflicts = 500
	p.Solver = "gini"
	res, err := Fraig(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != BudgetExhausted || len(res.Unresolved) == 0 {
		t.Errorf("status %s", res)
	}
	if res.Conflicts > p.TotalConflicts {
		t.Errorf("charged %d conflicts of %d", res.Conflicts, p.TotalConflicts)
	}
	if err := m.Check(); err != nil {
		t.Error(err)
	}
}

// signatures returns the exhaustive simulation words of all live nodes of
// a combinational manager with 10 inputs.
func signatures(m *aig.Manager) map[aig.ID][]uint64 {
	pats := aigtest.Patterns(rnd, 10, 0)
	res := make(map[aig.ID][]uint64)
	vs := make([]uint64, m.Len())
	for w := range pats[0] {
		for i, id := range m.Cis() {
			vs[id] = pats[i][w]
		}
		m.Simulate64(vs)
		for i := 0; i < m.Len(); i++ {
			id := aig.ID(i)
			if m.Kind(id) == aig.KindDead {
				continue
			}
			res[id] = append(res[id], vs[i])
		}
	}
	return res
}

func TestSoundness(t *testing.T) {
	for trial := 0; trial < 10; trial++ {
		m := gen.Rand(rnd, 10, 300, 6)
		pats := aigtest.Patterns(rnd, 10, 0)
		before := aigtest.Outputs(m, pats)
		p := DefaultParams()
		p.ConfLimit = 0
		p.Seed = int64(trial)
		res, err := Fraig(m, p)
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != Converged {
			t.Fatalf("trial %d: %s", trial, res)
		}
		if i := aigtest.Diff(before, aigtest.Outputs(m, pats)); i >= 0 {
			t.Fatalf("trial %d: output %d changed", trial, i)
		}
		if err := m.Check(); err != nil {
			t.Fatal(err)
		}
		if a, b, ok := equivalentLive(m); ok {
			t.Errorf("trial %d: nodes %d and %d are equivalent after sweeping", trial, a, b)
		}
	}
}

func TestCanceled(t *testing.T) {
	m := distributive()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := FraigContext(ctx, m, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != BudgetExhausted || res.Merged != 0 || len(res.Unresolved) == 0 {
		t.Errorf("canceled sweep: %s", res)
	}
	if m.Po(0) == m.Po(1) {
		t.Errorf("outputs merged after cancel")
	}
}

// equivalentLive returns two live nodes of m which are equivalent up to
// complementation, or ok false.
func equivalentLive(m *aig.Manager) (a, b aig.ID, ok bool) {
	seen := make(map[string]aig.ID)
	for id, ws := range signatures(m) {
		key := make([]byte, 0, 8*len(ws))
		compl := ws[0]&1 == 1
		for _, w := range ws {
			if compl {
				w = ^w
			}
			for k := 0; k < 8; k++ {
				key = append(key, byte(w>>(8*k)))
			}
		}
		if o, dup := seen[string(key)]; dup {
			return o, id, true
		}
		seen[string(key)] = id
	}
	return 0, 0, false
}

func TestSoundnessAfterResynthesis(t *testing.T) {
	rp := rfc.DefaultParams()
	for trial := 0; trial < 60; trial++ {
		m := gen.Rand(rnd, 10, 300, 6)
		if _, err := rwr.Rewrite(m, rwr.DefaultParams()); err != nil {
			t.Fatal(err)
		}
		if _, err := rfc.Refactor(m, rp); err != nil {
			t.Fatal(err)
		}
		pats := aigtest.Patterns(rnd, 10, 0)
		before := aigtest.Outputs(m, pats)
		p := DefaultParams()
		p.ConfLimit = 0
		p.Seed = int64(trial)
		res, err := Fraig(m, p)
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != Converged {
			t.Fatalf("trial %d: %s", trial, res)
		}
		if i := aigtest.Diff(before, aigtest.Outputs(m, pats)); i >= 0 {
			t.Fatalf("trial %d: output %d changed", trial, i)
		}
		if a, b, ok := equivalentLive(m); ok {
			t.Errorf("trial %d: nodes %d and %d equivalent after %s", trial, a, b, res)
		}
	}
}

func TestSparse(t *testing.T) {
	build := func() (*aig.Manager, aig.Edge) {
		m := aig.New()
		a, b, c := m.Pi(), m.Pi(), m.Pi()
		z := m.Build(m.Build(a, b), a.Not())
		m.AddPo(m.Or(z, c))
		return m, z
	}
	m, z := build()
	p := DefaultParams()
	p.Sparse = false
	res, err := Fraig(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != z.ID() {
		t.Errorf("skipped %v, expected [%d]", res.Skipped, z.ID())
	}
	if res.Status != Converged {
		t.Errorf("skipped constants must not count as unresolved: %s", res)
	}
	m, _ = build()
	p.Sparse = true
	if _, err := Fraig(m, p); err != nil {
		t.Fatal(err)
	}
	if m.Po(0) != aig.MkEdge(m.Pis()[2], false) {
		t.Errorf("constant not swept: output %s", m.Po(0))
	}
}

func TestResynth(t *testing.T) {
	m := gen.Rand(rnd, 10, 200, 4)
	pats := aigtest.Patterns(rnd, 10, 0)
	before := aigtest.Outputs(m, pats)
	p := DefaultParams()
	p.Resynth = true
	p.MaxSweeps = 3
	res, err := Fraig(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Sweeps < 1 || res.Sweeps > 3 {
		t.Errorf("%d sweeps", res.Sweeps)
	}
	if i := aigtest.Diff(before, aigtest.Outputs(m, pats)); i >= 0 {
		t.Errorf("output %d changed", i)
	}
}

func TestProve(t *testing.T) {
	m := distributive()
	v := Prove(m, m.Po(0), m.Po(1), sat.Budget{}, nil)
	if v.Outcome != Equal {
		t.Errorf("distributivity: %s", v.Outcome)
	}
	a, b := aig.MkEdge(m.Pis()[0], false), aig.MkEdge(m.Pis()[1], false)
	v = Prove(m, m.Po(0), m.Build(a, b), sat.Budget{}, sat.NewGini())
	if v.Outcome != Differ {
		t.Fatalf("a(b+c) = ab: %s", v.Outcome)
	}
	m.AddPo(m.Build(a, b))
	out := m.Eval(v.Cex)
	if out[0] == out[2] {
		t.Errorf("counter-example %v does not distinguish", v.Cex)
	}
}

func TestBadParams(t *testing.T) {
	m := distributive()
	st := m.Stats()
	for _, p := range []Params{{ConfLimit: -1}, {SimWords: -2}, {Solver: "picosat"}} {
		if _, err := Fraig(m, p); !errors.Is(err, ErrBadParams) {
			t.Errorf("%+v: error %v", p, err)
		}
	}
	if m.Stats() != st {
		t.Errorf("network changed")
	}
}
