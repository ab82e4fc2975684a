// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/balance"
	"github.com/go-air/aigo/fraig"
	"github.com/go-air/aigo/rfc"
	"github.com/go-air/aigo/rwr"
	"github.com/go-air/aigo/seq"
)

// ErrUnknownPass is returned for scripts naming a pass which does not
// exist.
var ErrUnknownPass = errors.New("unknown pass")

// pass transforms a network, possibly in place, and returns the result.
// Long running passes stop early when ctx is done.
type pass func(s *Shell, ctx context.Context, m *aig.Manager) (*aig.Manager, error)

var passes = map[string]pass{
	"balance":  (*Shell).balance,
	"coi":      (*Shell).coi,
	"dup":      (*Shell).dup,
	"fraig":    (*Shell).fraig,
	"lcorr":    (*Shell).lcorr,
	"refactor": (*Shell).refactor,
	"rewrite":  (*Shell).rewrite,
	"scorr":    (*Shell).scorr,
	"stats":    (*Shell).stats}

func passNames() string {
	names := make([]string, 0, len(passes))
	for nm := range passes {
		names = append(names, nm)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// parseScript splits a script such as "rewrite; balance; fraig" into its
// passes.
func parseScript(script string) ([]string, error) {
	var res []string
	for _, cmd := range strings.Split(script, ";") {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		if _, ok := passes[cmd]; !ok {
			return nil, fmt.Errorf("%w %q, expected one of %s", ErrUnknownPass, cmd, passNames())
		}
		res = append(res, cmd)
	}
	return res, nil
}

// runScript applies the passes of script to m in order.  It fails with the
// error of ctx once ctx is done.
func (s *Shell) runScript(ctx context.Context, m *aig.Manager, script string) (*aig.Manager, error) {
	names, err := parseScript(script)
	if err != nil {
		return nil, err
	}
	for _, nm := range names {
		start := time.Now()
		m, err = passes[nm](s, ctx, m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", nm, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", nm, err)
		}
		s.Logger.Debug("pass done", "pass", nm, "stats", m.Stats().String(),
			"time", time.Since(start).Round(time.Millisecond))
	}
	return m, nil
}

func (s *Shell) rewrite(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	st, err := rwr.Rewrite(m, s.cfg.Rewrite.Params(s.Logger))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("rewrite", "passes", st.Passes, "accepted", st.Accepted, "gain", st.Gain)
	return m, nil
}

func (s *Shell) refactor(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	st, err := rfc.Refactor(m, s.cfg.Refactor.Params(s.Logger))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("refactor", "passes", st.Passes, "accepted", st.Accepted, "gain", st.Gain)
	return m, nil
}

func (s *Shell) balance(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	before := m.MaxLevel()
	b := balance.Balance(m, s.cfg.Balance.Params(s.Logger))
	s.Logger.Info("balance", "levels", before, "balanced", b.MaxLevel())
	return b, nil
}

func (s *Shell) fraig(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	res, err := fraig.FraigContext(ctx, m, s.cfg.Fraig.Params(s.Logger))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("fraig", "status", res.Status, "merged", res.Merged,
		"refuted", res.Refuted, "undecided", res.Undecided)
	return m, nil
}

func (s *Shell) scorr(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	d, res, err := seq.ScorrContext(ctx, m, s.cfg.Scorr.Params(s.Logger))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("scorr", "result", res.String())
	return d, nil
}

func (s *Shell) lcorr(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	d, res, err := seq.LcorrContext(ctx, m, s.cfg.Scorr.Params(s.Logger))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("lcorr", "result", res.String())
	return d, nil
}

// dup removes the nodes outside the cones of the outputs.
func (s *Shell) dup(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	return m.Dup(), nil
}

// coi removes the latches outside the sequential cone of influence of the
// outputs.
func (s *Shell) coi(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	d := m.DupSeq()
	s.Logger.Info("coi", "latches", m.NumLatches(), "kept", d.NumLatches())
	return d, nil
}

func (s *Shell) stats(ctx context.Context, m *aig.Manager) (*aig.Manager, error) {
	printStats(s.Out, statsRow{"network", m.Stats()})
	return m, nil
}
