// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/corpus"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/spf13/cobra"
)

type failuresFlags struct {
	op    string
	dim   string
	run   string
	limit int
}

// filter converts the flags into a corpus.Filter.
func (f *failuresFlags) filter() (corpus.Filter, error) {
	flt := corpus.Filter{RunID: f.run, Limit: f.limit}
	if f.op != "" {
		op, err := compare.ParseOp(f.op)
		if err != nil {
			return flt, err
		}
		flt.Op = &op
	}
	if f.dim != "" {
		d, err := interchange.ParseDim(f.dim)
		if err != nil {
			return flt, err
		}
		flt.Dim = d
	}

	return flt, nil
}

func newFailuresCmd(g *globals) *cobra.Command {
	f := &failuresFlags{}
	cmd := &cobra.Command{
		Use:     "failures",
		Aliases: []string{"ls"},
		Short:   "List recorded failures, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			flt, err := f.filter()
			if err != nil {
				return err
			}
			store, err := requireCorpus(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), flt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no failures recorded")
				return nil
			}
			fmt.Fprintln(out, renderFailures(entries))

			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.op, "op", "", "only this operation")
	fl.StringVar(&f.dim, "dim", "", "only this dimension")
	fl.StringVar(&f.run, "run", "", "only this run id")
	fl.IntVar(&f.limit, "limit", 50, "maximum entries (0 for all)")

	cmd.AddCommand(newFailuresRmCmd(g))

	return cmd
}

func newFailuresRmCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete recorded failures",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := requireCorpus(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}

			return nil
		},
	}
}
