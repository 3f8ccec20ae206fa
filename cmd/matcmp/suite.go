// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/config"
	"github.com/katalvlaran/matcmp/corpus"
)

// errFailed makes the process exit non-zero after the report was printed.
var errFailed = errors.New("matcmp: comparison failed")

// errNoCorpus is returned by corpus commands when no path is configured.
var errNoCorpus = errors.New("matcmp: no corpus configured (use --corpus or the corpus key)")

func buildSuite(cfg *config.Config) (*compare.Suite, error) {
	backends, err := backend.Select(cfg.Backends...)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SuiteOptions()
	if err != nil {
		return nil, err
	}
	s, err := compare.NewSuite(backends, opts...)
	if err != nil {
		return nil, fmt.Errorf("build suite: %w", err)
	}

	return s, nil
}

// openCorpus returns nil without error when no corpus is configured.
func openCorpus(cfg *config.Config) (*corpus.Store, error) {
	if cfg.Corpus == "" {
		return nil, nil
	}

	return corpus.Open(cfg.Corpus)
}

func requireCorpus(cfg *config.Config) (*corpus.Store, error) {
	if cfg.Corpus == "" {
		return nil, errNoCorpus
	}

	return corpus.Open(cfg.Corpus)
}
