// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-air/aigo/fraig"
	"github.com/go-air/aigo/rwr"
	"github.com/go-air/aigo/seq"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Rewrite.Params(nil) != rwr.DefaultParams() {
		t.Errorf("rewrite defaults %+v", c.Rewrite)
	}
	if c.Fraig.Params(nil) != fraig.DefaultParams() {
		t.Errorf("fraig defaults %+v", c.Fraig)
	}
	if c.Scorr.Params(nil) != seq.DefaultParams() {
		t.Errorf("scorr defaults %+v", c.Scorr)
	}
	if !c.Cec.Params(nil).Sweep {
		t.Errorf("cec does not sweep by default")
	}
}

const text = `
[rewrite]
use_zeros = true
max_iter = 2

[fraig]
conf_limit = 50
timeout = "1m30s"
solver = "gini"

[scorr]
depth = 2
latch_only = true
`

func TestParse(t *testing.T) {
	c, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Rewrite.UseZeros || c.Rewrite.MaxIter != 2 {
		t.Errorf("rewrite %+v", c.Rewrite)
	}
	if c.Rewrite.CutsPerNode != rwr.DefaultParams().CutsPerNode {
		t.Errorf("unset key lost its default: %+v", c.Rewrite)
	}
	p := c.Fraig.Params(nil)
	if p.ConfLimit != 50 || p.Timeout != 90*time.Second || p.Solver != "gini" || !p.Sparse {
		t.Errorf("fraig %+v", p)
	}
	if c.Scorr.Depth != 2 || !c.Scorr.LatchOnly || c.Scorr.ConfLimit != seq.DefaultParams().ConfLimit {
		t.Errorf("scorr %+v", c.Scorr)
	}
}

func TestUnknownKey(t *testing.T) {
	_, err := Parse("[rewrite]\nmax_iters = 3\n")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("got %v", err)
	}
	if _, err := Parse("[rewrite\n"); err == nil {
		t.Errorf("expected syntax error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aigo.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Scorr.Depth != 2 {
		t.Errorf("scorr depth %d", c.Scorr.Depth)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
