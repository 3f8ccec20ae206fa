// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/katalvlaran/matcmp/config"
	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	cfgFile  string
	logLevel string
	corpus   string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "matcmp",
		Short: "Cross-library 2x2/3x3/4x4 matrix correctness suite",
		Long: `matcmp multiplies, inverts and takes determinants of random float32
matrices with several Go linear-algebra libraries and checks that every
library agrees with the reference within tolerance.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.corpus, "corpus", "", "SQLite failure corpus path")

	root.AddCommand(
		newRunCmd(g),
		newReplayCmd(g),
		newFailuresCmd(g),
		newLibsCmd(g),
		newVersionCmd(),
	)

	return root
}

// load reads the config file and applies the persistent flag overrides.
func (g *globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.cfgFile)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.corpus != "" {
		cfg.Corpus = g.corpus
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger writes structured logs to w at the configured level.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "matcmp",
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "matcmp %s\n", Version)
			if GitCommit != "unknown" {
				fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			}
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())

			return nil
		},
	}
}
