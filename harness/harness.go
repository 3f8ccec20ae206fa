// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/katalvlaran/matcmp/randmat"
)

// DefaultIterations is the number of fresh-seed repetitions per run.
const DefaultIterations = 1024

// ErrInvalidConfig reports a negative iteration count.
var ErrInvalidConfig = errors.New("harness: invalid config")

// Failure is one failing iteration as handed to a FailureSink.
type Failure struct {
	RunID     string
	Op        compare.Op
	Dim       interchange.Dim
	Seed      uint64
	Iteration int
	Err       error
	At        time.Time
}

// FailureSink receives every failure Run returns.
type FailureSink interface {
	Record(ctx context.Context, f Failure) error
}

// Config controls a Run. The zero value runs DefaultIterations iterations
// with entropy seeds and no sink.
type Config struct {
	// Iterations; 0 means DefaultIterations.
	Iterations int
	// Seed, when non-zero, derives every iteration seed from one base seed
	// so a whole run is reproducible.
	Seed uint64
	// RunID tags failures handed to Sink.
	RunID string
	Sink  FailureSink
}

func (c Config) iterations() int {
	if c.Iterations == 0 {
		return DefaultIterations
	}

	return c.Iterations
}

// Report summarises a Run.
type Report struct {
	Op         compare.Op
	Dim        interchange.Dim
	Iterations int // iterations completed, the failing one included
	Elapsed    time.Duration
	FailedSeed uint64 // 0 when the run passed
}

// Passed reports whether no iteration failed.
func (r Report) Passed() bool { return r.FailedSeed == 0 }

// SeedSequence returns the per-iteration seed source. With base 0 each call
// draws from system entropy; otherwise the sequence is fixed by base.
// Seeds are never 0.
func SeedSequence(base uint64) func() uint64 {
	if base == 0 {
		return randmat.EntropySeed
	}
	src := randmat.NewSource(base)

	return func() uint64 {
		for {
			if s := src.Uint64(); s != 0 {
				return s
			}
		}
	}
}

// Run executes cfg.Iterations seeded comparisons of {op, d}.
//
// Implementation:
//   - Stage 1: validate op, d and cfg.
//   - Stage 2: per iteration check ctx, draw a seed and compare.
//   - Stage 3: on the first failure record it with cfg.Sink (if any) and
//     return it; the report carries the failing seed.
//
// Errors:
//   - compare.ErrUnknownOp, interchange.ErrBadDim, ErrInvalidConfig.
//   - ctx.Err() wrapped, when cancelled between iterations.
//   - The comparison error (*compare.MismatchError, *compare.BackendError,
//     or a randmat generation failure), joined with any sink error.
func Run(ctx context.Context, s *compare.Suite, op compare.Op, d interchange.Dim, cfg Config) (Report, error) {
	rep := Report{Op: op, Dim: d}
	if !op.Valid() {
		return rep, fmt.Errorf("Run: %w", compare.ErrUnknownOp)
	}
	if !d.Valid() {
		return rep, fmt.Errorf("Run: %w", interchange.ErrBadDim)
	}
	if cfg.Iterations < 0 {
		return rep, fmt.Errorf("Run: %d iterations: %w", cfg.Iterations, ErrInvalidConfig)
	}

	next := SeedSequence(cfg.Seed)
	n := cfg.iterations()
	start := time.Now()

	var (
		i    int
		seed uint64
		err  error
	)
	for i = 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			rep.Elapsed = time.Since(start)
			return rep, fmt.Errorf("Run: %s %s after %d iterations: %w", op, d, i, err)
		}
		seed = next()
		rep.Iterations = i + 1
		if err = s.Compare(op, d, seed); err == nil {
			continue
		}
		rep.FailedSeed = seed
		if cfg.Sink != nil {
			f := Failure{RunID: cfg.RunID, Op: op, Dim: d, Seed: seed, Iteration: i, Err: err, At: time.Now().UTC()}
			if serr := cfg.Sink.Record(ctx, f); serr != nil {
				err = errors.Join(err, fmt.Errorf("Run: record failure: %w", serr))
			}
		}
		rep.Elapsed = time.Since(start)

		return rep, err
	}
	rep.Elapsed = time.Since(start)

	return rep, nil
}

// Replay re-runs the single iteration identified by seed.
func Replay(s *compare.Suite, op compare.Op, d interchange.Dim, seed uint64) error {
	if seed == 0 {
		return fmt.Errorf("Replay: zero seed: %w", ErrInvalidConfig)
	}

	return s.Compare(op, d, seed)
}

// ReplayInputs re-runs a recorded iteration on its stored inputs, so the
// result does not depend on the current generator options. seed is only
// attached to the returned error for reporting.
func ReplayInputs(s *compare.Suite, op compare.Op, seed uint64, in []interchange.Matrix) error {
	err := s.CompareInputs(op, in)
	var (
		mm *compare.MismatchError
		be *compare.BackendError
	)
	switch {
	case errors.As(err, &mm):
		mm.Seed = seed
	case errors.As(err, &be):
		be.Seed = seed
	}

	return err
}
