/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command ratlp solves small linear programs given on the command line
// exactly, over the rationals.
//
//	ratlp solve --max --col x=3:0:inf --col y=2:0:inf --row -inf:1,1:4 --row -inf:1,3:6
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/costela/ratlp"
	"github.com/costela/ratlp/rational"
)

type solveFlags struct {
	cols, rows []string
	maximize   bool

	refinementLimit int
	stallLimit      int
	feasTol         string
	optTol          string
	timeLimit       time.Duration
	noReconstruct   bool

	verbose bool
	stats   bool
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func (f *solveFlags) options() (ratlp.RefineOptions, error) {
	opts := ratlp.DefaultRefineOptions()
	opts.RefinementLimit = f.refinementLimit
	opts.StallLimit = f.stallLimit
	opts.TimeLimit = f.timeLimit
	opts.RationalReconstruction = !f.noReconstruct

	var err error
	if opts.FeasTol, err = rational.Parse(f.feasTol); err != nil {
		return opts, fmt.Errorf("feastol: %w", err)
	}
	if opts.OptTol, err = rational.Parse(f.optTol); err != nil {
		return opts, fmt.Errorf("opttol: %w", err)
	}
	return opts, nil
}

func runSolve(ctx context.Context, out io.Writer, f *solveFlags) (err error) {
	opts, err := f.options()
	if err != nil {
		return err
	}

	dir := ratlp.Minimize
	if f.maximize {
		dir = ratlp.Maximize
	}

	logger := newLogger(f.verbose)
	model, vars, err := buildModel(dir, f.cols, f.rows, ratlp.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := model.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing model: %w", cerr)
		}
	}()

	res, err := model.Refine(ctx, opts)
	if err != nil {
		return err
	}

	printResult(out, res, vars)

	if f.stats {
		fmt.Fprintln(out)
		return model.Statistics().Print(out)
	}
	return nil
}

func printResult(out io.Writer, res *ratlp.Result, vars []*ratlp.Variable) {
	fmt.Fprintf(out, "status: %s\n", res.Status)
	if res.Status == ratlp.StatusCertified {
		fmt.Fprintf(out, "outcome: %s\n", res.Outcome)
	}
	fmt.Fprintf(out, "refinements: %d\n", res.Refinements)

	if res.Outcome != ratlp.OutcomeOptimal && res.Status == ratlp.StatusCertified {
		fmt.Fprintf(out, "objective: %s\n", res.ObjectiveValue())
		return
	}
	if !res.Solution.HasPrimal() {
		return
	}

	fmt.Fprintf(out, "objective: %s\n", res.ObjectiveValue())
	for _, v := range vars {
		fmt.Fprintf(out, "%s = %s\n", v.Name(), res.Value(v))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ratlp",
		Short:         "Exact linear programming by iterative refinement",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := &solveFlags{}
	solve := &cobra.Command{
		Use:   "solve",
		Short: "Solve a linear program given by --col and --row flags",
		Long: `Solve a linear program exactly.

Columns are given as [name=]obj:lower:upper, rows as lhs:c1,c2,...:rhs with
one coefficient per column. Numbers may be integers, decimals, fractions
(p/q) or ±inf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runSolve(ctx, cmd.OutOrStdout(), f)
		},
	}

	defaults := ratlp.DefaultRefineOptions()
	flags := solve.Flags()
	flags.StringArrayVar(&f.cols, "col", nil, "column as [name=]obj:lower:upper (repeatable)")
	flags.StringArrayVar(&f.rows, "row", nil, "row as lhs:c1,c2,...:rhs (repeatable)")
	flags.BoolVar(&f.maximize, "max", false, "maximize instead of minimize")
	flags.IntVar(&f.refinementLimit, "refinement-limit", defaults.RefinementLimit, "maximum refinement rounds, negative for none")
	flags.IntVar(&f.stallLimit, "stall-limit", defaults.StallLimit, "rounds without progress before giving up")
	flags.StringVar(&f.feasTol, "feastol", defaults.FeasTol.String(), "primal feasibility tolerance")
	flags.StringVar(&f.optTol, "opttol", defaults.OptTol.String(), "dual feasibility tolerance")
	flags.DurationVar(&f.timeLimit, "time-limit", 0, "wall clock limit, 0 for none")
	flags.BoolVar(&f.noReconstruct, "no-reconstruct", false, "disable rational reconstruction")
	flags.BoolVar(&f.stats, "stats", false, "print solving statistics")

	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log refinement progress")
	root.AddCommand(solve)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ratlp: %v\n", err)
		os.Exit(1)
	}
}
