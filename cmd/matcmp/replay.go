// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/harness"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/spf13/cobra"
)

type replayFlags struct {
	op   string
	dim  string
	seed uint64
	id   string
}

func newReplayCmd(g *globals) *cobra.Command {
	f := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run one iteration by seed or corpus id",
		Long: `Re-run one iteration. With --id the stored inputs of the corpus entry
are compared again, so the generator options of the current config do not
matter; entries without stored inputs are regenerated from their seed.`,
		Example: `  matcmp replay --op inverse --dim 4 --seed 1234567
  matcmp replay --corpus failures.db --id 0b6c...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			var (
				op     compare.Op
				d      interchange.Dim
				seed   = f.seed
				inputs []interchange.Matrix
			)
			if f.id != "" {
				store, err := requireCorpus(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				e, err := store.Get(cmd.Context(), f.id)
				if err != nil {
					return err
				}
				op, d, seed, inputs = e.Op, e.Dim, e.Seed, e.Inputs
				logger.Debug("corpus entry", "id", e.ID, "library", e.Library, "kind", e.Kind, "stored_inputs", len(inputs))
			} else {
				if f.op == "" || f.dim == "" || seed == 0 {
					return errors.New("replay: need --op, --dim and --seed, or --id")
				}
				if op, err = compare.ParseOp(f.op); err != nil {
					return err
				}
				if d, err = interchange.ParseDim(f.dim); err != nil {
					return err
				}
			}

			suite, err := buildSuite(cfg)
			if err != nil {
				return err
			}
			logger.Info("replaying", "op", op, "dim", d, "seed", seed)
			out := cmd.OutOrStdout()
			if len(inputs) > 0 {
				err = harness.ReplayInputs(suite, op, seed, inputs)
			} else {
				err = harness.Replay(suite, op, d, seed)
			}
			if err == nil {
				fmt.Fprintf(out, "%s %s seed=%d: %s\n", op, d, seed, stylePass.Render("PASS"))
				return nil
			}
			var mm *compare.MismatchError
			if errors.As(err, &mm) {
				fmt.Fprintln(out, renderDetail(mm))
				return errFailed
			}

			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.op, "op", "", "operation: multiply, determinant, inverse, identity")
	fl.StringVar(&f.dim, "dim", "", "dimension: 2, 3, 4")
	fl.Uint64Var(&f.seed, "seed", 0, "iteration seed as logged by run")
	fl.StringVar(&f.id, "id", "", "corpus entry id (needs --corpus)")
	cmd.MarkFlagsMutuallyExclusive("id", "seed")

	return cmd
}
