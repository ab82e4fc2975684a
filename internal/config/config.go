// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config reads pass parameters from TOML files.
//
// A file has one table per pass:
//
//	[rewrite]
//	max_iter = 4
//	use_zeros = false
//
//	[fraig]
//	conf_limit = 100
//	timeout = "30s"
//
// Missing tables and keys keep their defaults.  Unknown keys are errors.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/go-air/aigo/balance"
	"github.com/go-air/aigo/cec"
	"github.com/go-air/aigo/fraig"
	"github.com/go-air/aigo/rfc"
	"github.com/go-air/aigo/rwr"
	"github.com/go-air/aigo/seq"
)

// ErrUnknownKey is returned by Load for keys no pass understands.
var ErrUnknownKey = errors.New("config: unknown key")

// Config holds the parameters of all passes.
type Config struct {
	Rewrite  Rewrite  `toml:"rewrite"`
	Refactor Refactor `toml:"refactor"`
	Balance  Balance  `toml:"balance"`
	Fraig    Fraig    `toml:"fraig"`
	Scorr    Scorr    `toml:"scorr"`
	Cec      Cec      `toml:"cec"`
}

type Rewrite struct {
	UseZeros    bool `toml:"use_zeros"`
	MaxIter     int  `toml:"max_iter"`
	LevelGrowth int  `toml:"level_growth"`
	CutsPerNode int  `toml:"cuts_per_node"`
}

type Refactor struct {
	MaxLeaves   int  `toml:"max_leaves"`
	UseZeros    bool `toml:"use_zeros"`
	UseDcs      bool `toml:"use_dcs"`
	DcWindow    int  `toml:"dc_window"`
	MaxCubes    int  `toml:"max_cubes"`
	MaxIter     int  `toml:"max_iter"`
	LevelGrowth int  `toml:"level_growth"`
}

type Balance struct {
	Duplicate bool `toml:"duplicate"`
}

type Fraig struct {
	ConfLimit      int64         `toml:"conf_limit"`
	Sparse         bool          `toml:"sparse"`
	TotalConflicts int64         `toml:"total_conflicts"`
	Timeout        time.Duration `toml:"timeout"`
	SimWords       int           `toml:"sim_words"`
	SimRounds      int           `toml:"sim_rounds"`
	Seed           int64         `toml:"seed"`
	Solver         string        `toml:"solver"`
	Resynth        bool          `toml:"resynth"`
	MaxSweeps      int           `toml:"max_sweeps"`
}

type Scorr struct {
	Depth     int    `toml:"depth"`
	LatchOnly bool   `toml:"latch_only"`
	ConfLimit int64  `toml:"conf_limit"`
	SimFrames int    `toml:"sim_frames"`
	SimWords  int    `toml:"sim_words"`
	Seed      int64  `toml:"seed"`
	MaxIter   int    `toml:"max_iter"`
	Solver    string `toml:"solver"`
}

type Cec struct {
	Sweep     bool   `toml:"sweep"`
	ConfLimit int64  `toml:"conf_limit"`
	Solver    string `toml:"solver"`
}

// Default returns the default parameters of every pass.
func Default() *Config {
	rw := rwr.DefaultParams()
	rf := rfc.DefaultParams()
	fr := fraig.DefaultParams()
	sc := seq.DefaultParams()
	ce := cec.DefaultParams()
	return &Config{
		Rewrite: Rewrite{
			UseZeros:    rw.UseZeros,
			MaxIter:     rw.MaxIter,
			LevelGrowth: rw.LevelGrowth,
			CutsPerNode: rw.CutsPerNode},
		Refactor: Refactor{
			MaxLeaves:   rf.MaxLeaves,
			UseZeros:    rf.UseZeros,
			UseDcs:      rf.UseDcs,
			DcWindow:    rf.DcWindow,
			MaxCubes:    rf.MaxCubes,
			MaxIter:     rf.MaxIter,
			LevelGrowth: rf.LevelGrowth},
		Fraig: Fraig{
			ConfLimit:      fr.ConfLimit,
			Sparse:         fr.Sparse,
			TotalConflicts: fr.TotalConflicts,
			Timeout:        fr.Timeout,
			SimWords:       fr.SimWords,
			SimRounds:      fr.SimRounds,
			Seed:           fr.Seed,
			Solver:         fr.Solver,
			Resynth:        fr.Resynth,
			MaxSweeps:      fr.MaxSweeps},
		Scorr: Scorr{
			Depth:     sc.Depth,
			LatchOnly: sc.LatchOnly,
			ConfLimit: sc.ConfLimit,
			SimFrames: sc.SimFrames,
			SimWords:  sc.SimWords,
			Seed:      sc.Seed,
			MaxIter:   sc.MaxIter,
			Solver:    sc.Solver},
		Cec: Cec{
			Sweep:     ce.Sweep,
			ConfLimit: ce.ConfLimit,
			Solver:    ce.Solver}}
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads TOML text over the defaults.
func Parse(text string) (*Config, error) {
	c := Default()
	md, err := toml.Decode(text, c)
	if err != nil {
		return nil, err
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return c, nil
}

func (r Rewrite) Params(l *log.Logger) rwr.Params {
	return rwr.Params{
		UseZeros:    r.UseZeros,
		MaxIter:     r.MaxIter,
		LevelGrowth: r.LevelGrowth,
		CutsPerNode: r.CutsPerNode,
		Logger:      l}
}

func (r Refactor) Params(l *log.Logger) rfc.Params {
	return rfc.Params{
		MaxLeaves:   r.MaxLeaves,
		UseZeros:    r.UseZeros,
		UseDcs:      r.UseDcs,
		DcWindow:    r.DcWindow,
		MaxCubes:    r.MaxCubes,
		MaxIter:     r.MaxIter,
		LevelGrowth: r.LevelGrowth,
		Logger:      l}
}

func (b Balance) Params(l *log.Logger) balance.Params {
	return balance.Params{Duplicate: b.Duplicate, Logger: l}
}

func (f Fraig) Params(l *log.Logger) fraig.Params {
	return fraig.Params{
		ConfLimit:      f.ConfLimit,
		Sparse:         f.Sparse,
		TotalConflicts: f.TotalConflicts,
		Timeout:        f.Timeout,
		SimWords:       f.SimWords,
		SimRounds:      f.SimRounds,
		Seed:           f.Seed,
		Solver:         f.Solver,
		Resynth:        f.Resynth,
		MaxSweeps:      f.MaxSweeps,
		Logger:         l}
}

func (s Scorr) Params(l *log.Logger) seq.Params {
	return seq.Params{
		Depth:     s.Depth,
		LatchOnly: s.LatchOnly,
		ConfLimit: s.ConfLimit,
		SimFrames: s.SimFrames,
		SimWords:  s.SimWords,
		Seed:      s.Seed,
		MaxIter:   s.MaxIter,
		Solver:    s.Solver,
		Logger:    l}
}

func (c Cec) Params(l *log.Logger) cec.Params {
	return cec.Params{
		Sweep:     c.Sweep,
		ConfLimit: c.ConfLimit,
		Solver:    c.Solver,
		Logger:    l}
}
