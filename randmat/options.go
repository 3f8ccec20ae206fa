// SPDX-License-Identifier: MIT

// Package randmat: functional configuration for the generators.
//
// Design goals:
//   - Defaults live in constants and are the single source of truth.
//   - WithX setters panic only on nonsensical values (programmer error).
//   - Options are resolved once per call by gatherOptions.
package randmat

import (
	"fmt"
	"math"
	"strings"
)

// Strategy selects how Invertible builds its candidates.
type Strategy int

// Supported strategies.
const (
	StrategyRejection Strategy = iota
	StrategyDiagonal
	StrategyRotation
)

var strategyNames = [...]string{
	StrategyRejection: "rejection",
	StrategyDiagonal:  "diagonal",
	StrategyRotation:  "rotation",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}

	return strategyNames[s]
}

func (s Strategy) valid() bool { return s >= StrategyRejection && s <= StrategyRotation }

// ParseStrategy maps a strategy name back to its value.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}

	return 0, fmt.Errorf("randmat: unknown strategy %q", name)
}

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultLow and DefaultHigh bound uniform entries to [-1, 1), which keeps
	// magnitudes stable for inversion.
	DefaultLow  = -1.0
	DefaultHigh = 1.0

	// DefaultStrategy mirrors plain random draws filtered for invertibility.
	DefaultStrategy = StrategyRejection

	// DefaultMinAbsDet is the determinant floor a candidate must clear.
	DefaultMinAbsDet = 1e-3

	// DefaultMaxCondition caps κ∞ so float32 inverses stay meaningful.
	DefaultMaxCondition = 100.0

	// DefaultMaxAttempts bounds the acceptance loop.
	DefaultMaxAttempts = 64
)

// ---------- Internal panic messages ----------

const (
	panicRangeInvalid     = "randmat: WithRange: bounds must be finite with low < high"
	panicStrategyInvalid  = "randmat: WithStrategy: unknown strategy"
	panicMinAbsDetInvalid = "randmat: WithMinAbsDet: floor must be finite and non-negative"
	panicMaxCondInvalid   = "randmat: WithMaxCondition: cap must be >= 1 (use +Inf to disable)"
	panicAttemptsInvalid  = "randmat: WithMaxAttempts: attempts must be > 0"
)

// Option mutates generator options.
type Option func(*Options)

// Options is the resolved configuration. Fields are unexported; read them
// through the accessors.
type Options struct {
	low, high    float64
	strategy     Strategy
	minAbsDet    float64
	maxCondition float64
	maxAttempts  int
}

func defaultOptions() Options {
	return Options{
		low:          DefaultLow,
		high:         DefaultHigh,
		strategy:     DefaultStrategy,
		minAbsDet:    DefaultMinAbsDet,
		maxCondition: DefaultMaxCondition,
		maxAttempts:  DefaultMaxAttempts,
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options { return gatherOptions(opts...) }

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// WithRange sets the uniform entry range [low, high).
func WithRange(low, high float64) Option {
	if math.IsNaN(low) || math.IsInf(low, 0) || math.IsNaN(high) || math.IsInf(high, 0) || !(low < high) {
		panic(panicRangeInvalid)
	}

	return func(o *Options) { o.low, o.high = low, high }
}

// WithStrategy selects the invertible-matrix strategy.
func WithStrategy(s Strategy) Option {
	if !s.valid() {
		panic(panicStrategyInvalid)
	}

	return func(o *Options) { o.strategy = s }
}

// WithMinAbsDet sets the determinant floor.
func WithMinAbsDet(floor float64) Option {
	if math.IsNaN(floor) || math.IsInf(floor, 0) || floor < 0 {
		panic(panicMinAbsDetInvalid)
	}

	return func(o *Options) { o.minAbsDet = floor }
}

// WithMaxCondition sets the κ∞ cap; math.Inf(1) disables it.
func WithMaxCondition(limit float64) Option {
	if math.IsNaN(limit) || limit < 1 {
		panic(panicMaxCondInvalid)
	}

	return func(o *Options) { o.maxCondition = limit }
}

// WithMaxAttempts bounds the acceptance loop.
func WithMaxAttempts(n int) Option {
	if n <= 0 {
		panic(panicAttemptsInvalid)
	}

	return func(o *Options) { o.maxAttempts = n }
}

// Low returns the lower bound of uniform entries.
func (o Options) Low() float64 { return o.low }

// High returns the exclusive upper bound of uniform entries.
func (o Options) High() float64 { return o.high }

// Strategy returns the invertible-matrix strategy.
func (o Options) Strategy() Strategy { return o.strategy }

// MinAbsDet returns the determinant floor.
func (o Options) MinAbsDet() float64 { return o.minAbsDet }

// MaxCondition returns the κ∞ cap.
func (o Options) MaxCondition() float64 { return o.maxCondition }

// MaxAttempts returns the attempt budget.
func (o Options) MaxAttempts() int { return o.maxAttempts }

// Apply returns options that reproduce o, for passing resolved settings on.
func (o Options) Apply() []Option {
	return []Option{func(dst *Options) { *dst = o }}
}
