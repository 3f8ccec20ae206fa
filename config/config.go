// SPDX-License-Identifier: MIT

// Package config loads the matcmp command configuration from YAML.
//
// Every field has a default; a file only needs the keys it changes.
// Command-line flags are applied on top by the command.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/harness"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/katalvlaran/matcmp/randmat"
	"gopkg.in/yaml.v3"
)

// ErrInvalid matches every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the command configuration.
type Config struct {
	Iterations int      `yaml:"iterations"`
	Seed       uint64   `yaml:"seed,omitempty"`
	Ops        []string `yaml:"ops"`
	Dims       []int    `yaml:"dims"`
	Backends   []string `yaml:"backends,omitempty"`
	Reference  string   `yaml:"reference"`

	Generator  Generator           `yaml:"generator"`
	Tolerances []ToleranceOverride `yaml:"tolerances,omitempty"`

	Corpus   string `yaml:"corpus,omitempty"`
	LogLevel string `yaml:"log_level"`
}

// Generator mirrors the randmat options.
type Generator struct {
	Low          float64 `yaml:"low"`
	High         float64 `yaml:"high"`
	Strategy     string  `yaml:"strategy"`
	MinAbsDet    float64 `yaml:"min_abs_det"`
	MaxCondition float64 `yaml:"max_condition"`
	MaxAttempts  int     `yaml:"max_attempts"`
}

// ToleranceOverride replaces the non-zero fields of one {op, dim} band.
// Dim 0 applies the override to every dimension.
type ToleranceOverride struct {
	Op                string `yaml:"op"`
	Dim               int    `yaml:"dim,omitempty"`
	compare.Tolerance `yaml:",inline"`
}

// Default returns the built-in configuration.
func Default() *Config {
	ops := make([]string, 0, len(compare.Ops))
	for _, op := range compare.Ops {
		ops = append(ops, op.String())
	}
	dims := make([]int, 0, len(interchange.Dims))
	for _, d := range interchange.Dims {
		dims = append(dims, int(d))
	}

	return &Config{
		Iterations: harness.DefaultIterations,
		Ops:        ops,
		Dims:       dims,
		Reference:  compare.DefaultReference,
		Generator: Generator{
			Low:          randmat.DefaultLow,
			High:         randmat.DefaultHigh,
			Strategy:     randmat.DefaultStrategy.String(),
			MinAbsDet:    randmat.DefaultMinAbsDet,
			MaxCondition: randmat.DefaultMaxCondition,
			MaxAttempts:  randmat.DefaultMaxAttempts,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and validates the result. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := cfg.Decode(data); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Decode applies YAML data over c and validates the result.
func (c *Config) Decode(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	c.Corpus = os.ExpandEnv(c.Corpus)

	return c.Validate()
}

// Save writes c as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}

	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks every field without building anything.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return invalidf("iterations must be > 0, got %d", c.Iterations)
	}
	if _, err := c.ParsedOps(); err != nil {
		return err
	}
	if _, err := c.ParsedDims(); err != nil {
		return err
	}
	names := c.Backends
	if len(names) == 0 {
		names = backend.Names()
	}
	found := false
	for _, n := range names {
		if _, err := backend.Lookup(n); err != nil {
			return invalidf("backend %q unknown", n)
		}
		found = found || n == c.Reference
	}
	if !found {
		return invalidf("reference %q is not among the backends", c.Reference)
	}
	g := c.Generator
	if math.IsInf(g.Low, 0) || math.IsInf(g.High, 0) || !(g.Low < g.High) {
		return invalidf("generator range [%g, %g) is empty", g.Low, g.High)
	}
	if _, err := randmat.ParseStrategy(g.Strategy); err != nil {
		return invalidf("generator strategy %q unknown", g.Strategy)
	}
	if !finiteNonNegative(g.MinAbsDet) || math.IsNaN(g.MaxCondition) || g.MaxCondition < 1 || g.MaxAttempts <= 0 {
		return invalidf("generator bounds: min_abs_det=%g max_condition=%g max_attempts=%d",
			g.MinAbsDet, g.MaxCondition, g.MaxAttempts)
	}
	if _, err := c.ToleranceTable(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// finiteNonNegative matches the floor randmat.WithMinAbsDet accepts.
func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ParsedOps returns Ops as compare.Op values.
func (c *Config) ParsedOps() ([]compare.Op, error) {
	if len(c.Ops) == 0 {
		return nil, invalidf("no operations selected")
	}
	out := make([]compare.Op, 0, len(c.Ops))
	for _, name := range c.Ops {
		op, err := compare.ParseOp(name)
		if err != nil {
			return nil, invalidf("operation %q unknown", name)
		}
		out = append(out, op)
	}

	return out, nil
}

// ParsedDims returns Dims as interchange.Dim values.
func (c *Config) ParsedDims() ([]interchange.Dim, error) {
	if len(c.Dims) == 0 {
		return nil, invalidf("no dimensions selected")
	}
	out := make([]interchange.Dim, 0, len(c.Dims))
	for _, n := range c.Dims {
		d := interchange.Dim(n)
		if !d.Valid() {
			return nil, invalidf("dimension %d unsupported", n)
		}
		out = append(out, d)
	}

	return out, nil
}

// GeneratorOptions converts Generator into randmat options.
// Call only on a validated config.
func (c *Config) GeneratorOptions() []randmat.Option {
	g := c.Generator
	s, _ := randmat.ParseStrategy(g.Strategy)

	return []randmat.Option{
		randmat.WithRange(g.Low, g.High),
		randmat.WithStrategy(s),
		randmat.WithMinAbsDet(g.MinAbsDet),
		randmat.WithMaxCondition(g.MaxCondition),
		randmat.WithMaxAttempts(g.MaxAttempts),
	}
}

// ToleranceTable folds Tolerances into a compare.Table of overrides.
func (c *Config) ToleranceTable() (compare.Table, error) {
	t := compare.Table{}
	for _, o := range c.Tolerances {
		op, err := compare.ParseOp(o.Op)
		if err != nil {
			return nil, invalidf("tolerance op %q unknown", o.Op)
		}
		if math.IsNaN(o.Abs) || math.IsNaN(o.Rel) || o.Abs < 0 || o.Rel < 0 {
			return nil, invalidf("tolerance %s: band must be a non-negative number", o.Op)
		}
		dims := interchange.Dims
		if o.Dim != 0 {
			d := interchange.Dim(o.Dim)
			if !d.Valid() {
				return nil, invalidf("tolerance %s: dimension %d unsupported", o.Op, o.Dim)
			}
			dims = []interchange.Dim{d}
		}
		for _, d := range dims {
			k := compare.Key{Op: op, Dim: d}
			t[k] = compare.Merge(t[k], o.Tolerance)
		}
	}

	return t, nil
}

// SuiteOptions returns the compare options this config implies.
func (c *Config) SuiteOptions() ([]compare.Option, error) {
	tab, err := c.ToleranceTable()
	if err != nil {
		return nil, err
	}

	return []compare.Option{
		compare.WithReferenceAll(c.Reference),
		compare.WithTolerances(tab),
		compare.WithGenerator(c.GeneratorOptions()...),
	}, nil
}

// Levels accepted by ParseLevel.
var levels = []string{"debug", "info", "warn", "error"}

// ParseLevel normalises a log level name.
func ParseLevel(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range levels {
		if s == l {
			return s, nil
		}
	}

	return "", invalidf("log level %q unknown", s)
}
