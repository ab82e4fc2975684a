// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	s := New(&out, &logs)
	root := s.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.aag")
	b := filepath.Join(dir, "b.aig.gz")
	c := filepath.Join(dir, "c.blif")
	if _, err := execute(t, "gen", "rand", "--pis", "8", "--latches", "2", "--ands", "120", "-o", a); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "run", "-s", "rewrite; refactor; balance; fraig; dup", "-o", b, a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "result") {
		t.Errorf("no statistics printed:\n%s", out)
	}
	if _, err := execute(t, "rewrite", "-z", "-o", c, b); err != nil {
		t.Fatal(err)
	}
	for _, other := range []string{b, c} {
		out, err = execute(t, "cec", a, other)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "equivalent") {
			t.Errorf("%s: %s", other, out)
		}
	}
	out, err = execute(t, "cec", "--bdd", "100000", a, c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "equivalent") {
		t.Errorf("bdd: %s", out)
	}
}

func TestCecDifferent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.aag")
	b := filepath.Join(dir, "b.aag")
	m := aig.New()
	x, y := m.Pi(), m.Pi()
	m.AddPo(m.Build(x, y))
	if err := writeNetwork(a, m); err != nil {
		t.Fatal(err)
	}
	m.SetPo(0, m.Or(x, y))
	if err := writeNetwork(b, m); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "cec", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "different at output 0") || !strings.Contains(out, "counter-example") {
		t.Errorf("%s", out)
	}
}

func TestScorr(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.blif")
	m := aig.New()
	x := m.Pi()
	l1, l2 := m.Latch(aig.False), m.Latch(aig.False)
	m.SetNext(l1, m.Xor(l1, x))
	m.SetNext(l2, m.Xor(l2, x))
	m.AddPo(m.Xor(l1, l2))
	if err := writeNetwork(a, m); err != nil {
		t.Fatal(err)
	}
	b := filepath.Join(dir, "b.aag")
	if _, err := execute(t, "scorr", "-o", b, a); err != nil {
		t.Fatal(err)
	}
	d, err := readNetwork(b)
	if err != nil {
		t.Fatal(err)
	}
	if d.NumLatches() != 0 || d.Po(0) != aig.False {
		t.Errorf("scorr kept %s", d.Stats())
	}
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.aig")
	if _, err := execute(t, "gen", "adder", "-n", "4", "-o", a); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "run", "-s", "rewrite; nope", a); !errors.Is(err, ErrUnknownPass) {
		t.Errorf("unknown pass: %v", err)
	}
	if _, err := execute(t, "stats", filepath.Join(dir, "a.txt")); !errors.Is(err, ErrFormat) {
		t.Errorf("unknown format: %v", err)
	}
	if _, err := execute(t, "gen", "sudoku"); err == nil {
		t.Errorf("expected error for unknown generator")
	}
	cfg := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(cfg, []byte("[fraig]\nconflicts = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfg, "fraig", a); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("bad config: %v", err)
	}
}

func TestConfigFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "aigo.toml")
	if err := os.WriteFile(cfg, []byte("[rewrite]\nmax_iter = 7\nuse_zeros = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := filepath.Join(dir, "a.aag")
	if _, err := execute(t, "gen", "mult", "-n", "3", "-o", a); err != nil {
		t.Fatal(err)
	}
	s := New(&bytes.Buffer{}, &bytes.Buffer{})
	root := s.RootCommand()
	root.SetArgs([]string{"--config", cfg, "rewrite", "--iter", "2", a})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if s.cfg.Rewrite.MaxIter != 2 || !s.cfg.Rewrite.UseZeros {
		t.Errorf("rewrite parameters %+v", s.cfg.Rewrite)
	}
}

func TestDot(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.aag")
	if _, err := execute(t, "gen", "adder", "-n", "2", "-o", a); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "dot", a)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("dot output %q", out)
	}
	svg := filepath.Join(dir, "a.svg")
	if _, err := execute(t, "dot", "-o", svg, a); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("no svg written")
	}
}

func TestRunCanceled(t *testing.T) {
	var out, logs bytes.Buffer
	s := New(&out, &logs)
	m := aig.New()
	x, y, z := m.Pi(), m.Pi(), m.Pi()
	m.AddPo(m.Build(x, m.Or(y, z)))
	m.AddPo(m.Or(m.Build(x, y), m.Build(x, z)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.runScript(ctx, m, "dup; fraig; scorr"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want %v", err, context.Canceled)
	}
}

func TestParseScript(t *testing.T) {
	names, err := parseScript(" rewrite;balance ;; fraig ")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "rewrite,balance,fraig" {
		t.Errorf("parsed %v", names)
	}
}
