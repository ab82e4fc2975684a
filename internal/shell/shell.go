// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package shell implements the aigo command line interface.
//
// Each synthesis pass has a command reading a network, applying the pass
// and optionally writing the result:
//
//	aigo rewrite -o out.aig in.aig
//
// The run command applies a script of passes separated by semicolons:
//
//	aigo run -s "rewrite; balance; fraig; stats" -o out.aig in.blif
//
// Networks are read and written in the format given by the file
// extension: .aig, .aag or .blif, each optionally followed by .gz.
// Pass parameters come from a TOML file given with --config, and flags
// of the pass commands override them.
package shell

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/internal/config"
)

// Shell holds the state shared by all commands.
type Shell struct {
	Logger *log.Logger
	Out    io.Writer

	cfg     *config.Config
	cfgPath string
	verbose bool
}

// New creates a shell printing results to out and logging to errw.
func New(out, errw io.Writer) *Shell {
	return &Shell{
		Out: out,
		Logger: log.NewWithOptions(errw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.InfoLevel,
		}),
		cfg: config.Default()}
}

// RootCommand creates the root command with all subcommands registered.
func (s *Shell) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "aigo",
		Short:         "aigo optimizes and-inverter graphs",
		Long:          `aigo rewrites, refactors, balances and SAT sweeps combinational and sequential and-inverter graphs, and checks their equivalence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.verbose {
				s.Logger.SetLevel(log.DebugLevel)
			}
			return s.loadConfig(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&s.cfgPath, "config", "", "TOML file with pass parameters")

	root.AddCommand(s.newStatsCmd())
	root.AddCommand(s.newRewriteCmd())
	root.AddCommand(s.newRefactorCmd())
	root.AddCommand(s.newBalanceCmd())
	root.AddCommand(s.newFraigCmd())
	root.AddCommand(s.newScorrCmd())
	root.AddCommand(s.newCecCmd())
	root.AddCommand(s.newDotCmd())
	root.AddCommand(s.newGenCmd())
	root.AddCommand(s.newRunCmd())
	return root
}

// loadConfig reads the parameter file, if any, and applies the flags set
// on the command line over it.
func (s *Shell) loadConfig(cmd *cobra.Command) error {
	if s.cfgPath == "" {
		return nil
	}
	set := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		set[f.Name] = f.Value.String()
	})
	c, err := config.Load(s.cfgPath)
	if err != nil {
		return err
	}
	*s.cfg = *c
	for name, v := range set {
		if err := cmd.Flags().Set(name, v); err != nil {
			return err
		}
	}
	s.Logger.Debug("loaded config", "path", s.cfgPath)
	return nil
}

// transform runs p on the network read from in and writes the result to
// out if out is not empty.
func (s *Shell) transform(in, out string, p func(*aig.Manager) (*aig.Manager, error)) error {
	m, err := readNetwork(in)
	if err != nil {
		return err
	}
	before := m.Stats()
	res, err := p(m)
	if err != nil {
		return err
	}
	printStats(s.Out, statsRow{in, before}, statsRow{"result", res.Stats()})
	if out == "" {
		return nil
	}
	if err := writeNetwork(out, res); err != nil {
		return err
	}
	s.Logger.Info("wrote", "path", out)
	return nil
}
