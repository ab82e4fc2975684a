// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package shell

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/cec"
	"github.com/go-air/aigo/dot"
	"github.com/go-air/aigo/gen"
)

func (s *Shell) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file...]",
		Short: "Print the size of networks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]statsRow, len(args))
			for i, path := range args {
				m, err := readNetwork(path)
				if err != nil {
					return err
				}
				rows[i] = statsRow{path, m.Stats()}
			}
			printStats(s.Out, rows...)
			return nil
		},
	}
}

// newPassCmd creates the command running the pass named name.
func (s *Shell) newPassCmd(name, short string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   name + " [file]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.transform(args[0], out, func(m *aig.Manager) (*aig.Manager, error) {
				return passes[name](s, cmd.Context(), m)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the result to this file")
	return cmd
}

func (s *Shell) newRewriteCmd() *cobra.Command {
	cmd := s.newPassCmd("rewrite", "Rewrite 4-input cuts with precomputed structures")
	p := &s.cfg.Rewrite
	cmd.Flags().BoolVarP(&p.UseZeros, "zeros", "z", p.UseZeros, "accept zero gain replacements")
	cmd.Flags().IntVar(&p.MaxIter, "iter", p.MaxIter, "maximal passes, 0 until no gain")
	cmd.Flags().IntVar(&p.LevelGrowth, "level-growth", p.LevelGrowth, "allowed level increase, -1 for unlimited")
	return cmd
}

func (s *Shell) newRefactorCmd() *cobra.Command {
	cmd := s.newPassCmd("refactor", "Resynthesize large cuts from factored covers")
	p := &s.cfg.Refactor
	cmd.Flags().IntVarP(&p.MaxLeaves, "leaves", "k", p.MaxLeaves, "cut size")
	cmd.Flags().BoolVarP(&p.UseZeros, "zeros", "z", p.UseZeros, "accept zero gain replacements")
	cmd.Flags().BoolVarP(&p.UseDcs, "dcs", "d", p.UseDcs, "use don't cares of the cut leaves")
	cmd.Flags().IntVar(&p.MaxIter, "iter", p.MaxIter, "maximal passes, 0 until no gain")
	return cmd
}

func (s *Shell) newBalanceCmd() *cobra.Command {
	cmd := s.newPassCmd("balance", "Reduce the number of levels")
	cmd.Flags().BoolVar(&s.cfg.Balance.Duplicate, "dup", s.cfg.Balance.Duplicate, "duplicate logic through shared nodes")
	return cmd
}

func (s *Shell) newFraigCmd() *cobra.Command {
	cmd := s.newPassCmd("fraig", "Merge functionally equivalent nodes with SAT sweeping")
	p := &s.cfg.Fraig
	cmd.Flags().Int64VarP(&p.ConfLimit, "conf", "C", p.ConfLimit, "conflicts per proof, 0 for unlimited")
	cmd.Flags().StringVar(&p.Solver, "solver", p.Solver, "SAT solver, cdcl or gini")
	cmd.Flags().DurationVar(&p.Timeout, "timeout", p.Timeout, "time limit, 0 for unlimited")
	cmd.Flags().BoolVar(&p.Resynth, "resynth", p.Resynth, "rewrite between sweeps")
	cmd.Flags().IntVar(&p.MaxSweeps, "sweeps", p.MaxSweeps, "sweeps when resynthesizing")
	return cmd
}

func (s *Shell) newScorrCmd() *cobra.Command {
	cmd := s.newPassCmd("scorr", "Merge sequentially equivalent nodes and latches")
	p := &s.cfg.Scorr
	cmd.Flags().IntVarP(&p.Depth, "depth", "F", p.Depth, "induction depth")
	cmd.Flags().BoolVar(&p.LatchOnly, "latch-only", p.LatchOnly, "only merge latches")
	cmd.Flags().Int64VarP(&p.ConfLimit, "conf", "C", p.ConfLimit, "conflicts per proof, 0 for unlimited")
	cmd.Flags().StringVar(&p.Solver, "solver", p.Solver, "SAT solver, cdcl or gini")
	return cmd
}

func (s *Shell) newCecCmd() *cobra.Command {
	var bddNodes int
	cmd := &cobra.Command{
		Use:   "cec [file] [file]",
		Short: "Check the combinational equivalence of two networks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			b, err := readNetwork(args[1])
			if err != nil {
				return err
			}
			var res *cec.Result
			if bddNodes > 0 {
				res, err = cec.CheckBdd(a, b, bddNodes)
			} else {
				res, err = cec.CheckContext(cmd.Context(), a, b, s.cfg.Cec.Params(s.Logger))
			}
			if err != nil {
				return err
			}
			printVerdict(s.Out, res.Status == cec.Equivalent, res.String())
			if res.Status == cec.Different {
				fmt.Fprintf(s.Out, "  counter-example %s\n", bits(res.Cex))
			}
			return nil
		},
	}
	p := &s.cfg.Cec
	cmd.Flags().BoolVar(&p.Sweep, "sweep", p.Sweep, "sweep the miter before proving outputs")
	cmd.Flags().Int64VarP(&p.ConfLimit, "conf", "C", p.ConfLimit, "conflicts per output, 0 for unlimited")
	cmd.Flags().StringVar(&p.Solver, "solver", p.Solver, "SAT solver, cdcl or gini")
	cmd.Flags().IntVar(&bddNodes, "bdd", 0, "check with BDDs of at most this many nodes")
	return cmd
}

func bits(vs []bool) string {
	var b strings.Builder
	for _, v := range vs {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (s *Shell) newDotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Draw a network as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readNetwork(args[0])
			if err != nil {
				return err
			}
			text := dot.ToDOT(m)
			switch strings.ToLower(filepath.Ext(out)) {
			case "":
				_, err := fmt.Fprint(s.Out, text)
				return err
			case ".svg":
				svg, err := dot.RenderSVG(cmd.Context(), text)
				if err != nil {
					return err
				}
				return os.WriteFile(out, svg, 0o644)
			default:
				return os.WriteFile(out, []byte(text), 0o644)
			}
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write DOT, or SVG for .svg, to this file")
	return cmd
}

func (s *Shell) newGenCmd() *cobra.Command {
	var (
		out                          string
		seed                         int64
		pis, latches, ands, pos, bit int
	)
	cmd := &cobra.Command{
		Use:       "gen [rand|adder|mult]",
		Short:     "Generate a network",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"rand", "adder", "mult"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var m *aig.Manager
			switch args[0] {
			case "rand":
				if pis < 0 || latches < 0 || ands < 0 || pos < 0 || pis+latches < 2 {
					return fmt.Errorf("gen rand: need at least 2 inputs and latches, got %d and %d", pis, latches)
				}
				rng := rand.New(rand.NewSource(seed))
				m = gen.RandSeq(rng, pis, latches, ands, pos)
			case "adder":
				m = aig.New()
				a, b := gen.Inputs(m, bit), gen.Inputs(m, bit)
				sum, cout := gen.Adder(m, a, b, aig.False)
				for _, e := range append(sum, cout) {
					m.AddPo(e)
				}
			case "mult":
				m = aig.New()
				for _, e := range gen.Mult(m, gen.Inputs(m, bit), gen.Inputs(m, bit)) {
					m.AddPo(e)
				}
			}
			printStats(s.Out, statsRow{args[0], m.Stats()})
			if out == "" {
				return nil
			}
			return writeNetwork(out, m)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "", "write the network to this file")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.IntVar(&pis, "pis", 16, "inputs of random networks")
	f.IntVar(&latches, "latches", 0, "latches of random networks")
	f.IntVar(&ands, "ands", 200, "and nodes of random networks")
	f.IntVar(&pos, "pos", 8, "outputs of random networks")
	f.IntVarP(&bit, "bits", "n", 8, "word size of adders and multipliers")
	return cmd
}

func (s *Shell) newRunCmd() *cobra.Command {
	var out, script string
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Apply a script of passes such as \"rewrite; balance; fraig\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseScript(script); err != nil {
				return err
			}
			return s.transform(args[0], out, func(m *aig.Manager) (*aig.Manager, error) {
				return s.runScript(cmd.Context(), m, script)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the result to this file")
	cmd.Flags().StringVarP(&script, "script", "s", "rewrite; refactor; balance; fraig", "passes separated by semicolons, one of "+passNames())
	return cmd
}
