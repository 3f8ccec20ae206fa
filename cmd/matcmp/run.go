// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/config"
	"github.com/katalvlaran/matcmp/harness"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/spf13/cobra"
)

type runFlags struct {
	iterations int
	seed       uint64
	ops        []string
	dims       []string
	backends   []string
	reference  string
	strategy   string
}

// apply copies every flag the user set onto cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("iterations") {
		cfg.Iterations = f.iterations
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("ops") {
		cfg.Ops = f.ops
	}
	if fl.Changed("dims") {
		cfg.Dims = cfg.Dims[:0]
		for _, s := range f.dims {
			d, err := interchange.ParseDim(s)
			if err != nil {
				return err
			}
			cfg.Dims = append(cfg.Dims, int(d))
		}
	}
	if fl.Changed("backends") {
		cfg.Backends = f.backends
	}
	if fl.Changed("reference") {
		cfg.Reference = f.reference
	}
	if fl.Changed("strategy") {
		cfg.Generator.Strategy = f.strategy
	}

	return cfg.Validate()
}

// result is one {op, dim} outcome for the summary.
type result struct {
	report harness.Report
	err    error
}

func newRunCmd(g *globals) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the comparison suite",
		Long: `Run every selected operation at every selected dimension, each for the
configured number of fresh-seed iterations. A pair stops at its first
failure; the remaining pairs still run. Failures go to the corpus when one
is configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			return runSuite(cmd.Context(), cmd, cfg)
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&f.iterations, "iterations", "n", harness.DefaultIterations, "iterations per operation and dimension")
	fl.Uint64Var(&f.seed, "seed", 0, "base seed for a reproducible run (0 draws from entropy)")
	fl.StringSliceVar(&f.ops, "ops", nil, "operations: multiply, determinant, inverse, identity")
	fl.StringSliceVar(&f.dims, "dims", nil, "dimensions: 2, 3, 4")
	fl.StringSliceVar(&f.backends, "backends", nil, "backends to compare (default all)")
	fl.StringVar(&f.reference, "reference", compare.DefaultReference, "reference backend")
	fl.StringVar(&f.strategy, "strategy", "", "invertible generator: rejection, diagonal, rotation")

	return cmd
}

func runSuite(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	suite, err := buildSuite(cfg)
	if err != nil {
		return err
	}
	store, err := openCorpus(cfg)
	if err != nil {
		return err
	}
	var sink harness.FailureSink
	if store != nil {
		defer store.Close()
		sink = store
	}
	ops, _ := cfg.ParsedOps()
	dims, _ := cfg.ParsedDims()

	runID := uuid.NewString()
	logger.Info("run started",
		"run", runID,
		"iterations", cfg.Iterations,
		"backends", suite.Backends(),
		"reference", cfg.Reference,
	)
	start := time.Now()

	var (
		results []result
		failed  bool
	)
loop:
	for _, op := range ops {
		for _, d := range dims {
			rep, err := harness.Run(ctx, suite, op, d, harness.Config{
				Iterations: cfg.Iterations,
				Seed:       cfg.Seed,
				RunID:      runID,
				Sink:       sink,
			})
			results = append(results, result{report: rep, err: err})
			switch {
			case err == nil:
				logger.Debug("pair passed", "op", op, "dim", d, "iterations", rep.Iterations, "elapsed", rep.Elapsed)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				logger.Warn("run interrupted", "op", op, "dim", d, "after", rep.Iterations)
				failed = true
				break loop
			default:
				failed = true
				logger.Error("pair failed", "op", op, "dim", d, "seed", rep.FailedSeed, "err", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(results))
	for _, r := range results {
		var mm *compare.MismatchError
		if errors.As(r.err, &mm) {
			fmt.Fprintln(out, renderDetail(mm))
		}
	}
	logger.Info("run finished", "run", runID, "pairs", len(results), "failed", failed, "elapsed", time.Since(start))
	if failed {
		return errFailed
	}

	return nil
}
