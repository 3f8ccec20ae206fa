// SPDX-License-Identifier: MIT

package randmat

import (
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/matcmp/interchange"
)

// diagMarginSpan widens the dominance margin to [1, 1+diagMarginSpan).
const diagMarginSpan = 1.0

// Uniform returns an N×N matrix with i.i.d. entries from [low, high).
// It panics on an unsupported dimension.
func Uniform(r *rand.Rand, d interchange.Dim, opts ...Option) interchange.Matrix {
	o := gatherOptions(opts...)

	return uniform(r, d, o)
}

func uniform(r *rand.Rand, d interchange.Dim, o Options) interchange.Matrix {
	m := interchange.Zero(d)
	n := int(d)
	var row, col int
	// Fill in storage order so a seed maps to the same layout everywhere.
	for col = 0; col < n; col++ {
		for row = 0; row < n; row++ {
			m.Set(row, col, draw(r, o.low, o.high))
		}
	}

	return m
}

// draw returns a float32 in [low, high). Rounding up to high is folded back.
func draw(r *rand.Rand, low, high float64) float32 {
	v := float32(low + (high-low)*r.Float64())
	if float64(v) >= high {
		v = math.Nextafter32(float32(high), float32(math.Inf(-1)))
	}

	return v
}

// Invertible returns a matrix with |det| >= MinAbsDet and κ∞ <= MaxCondition.
//
// Implementation:
//   - Stage 1: build a candidate with the selected strategy.
//   - Stage 2: accept it when the float64 determinant and condition number
//     clear the configured bounds; otherwise try again.
//   - Stage 3: after MaxAttempts rejections return *GenerationError.
//
// Complexity: O(MaxAttempts · N!) worst case; N <= 4.
func Invertible(r *rand.Rand, d interchange.Dim, opts ...Option) (interchange.Matrix, error) {
	o := gatherOptions(opts...)

	var (
		candidate interchange.Matrix
		det, cond float64
		attempt   int
	)
	for attempt = 1; attempt <= o.maxAttempts; attempt++ {
		switch o.strategy {
		case StrategyDiagonal:
			candidate = diagonallyDominant(r, d, o)
		case StrategyRotation:
			candidate = rigid(r, d, o)
		default:
			candidate = uniform(r, d, o)
		}
		det = math.Abs(interchange.Determinant64(candidate))
		if det < o.minAbsDet || det == 0 {
			cond = math.Inf(1)
			continue
		}
		cond = interchange.Condition(candidate)
		if cond > o.maxCondition {
			continue
		}

		return candidate, nil
	}

	return interchange.Matrix{}, &GenerationError{
		Dim:      d,
		Strategy: o.strategy,
		Attempts: o.maxAttempts,
		LastDet:  det,
		LastCond: cond,
	}
}

// diagonallyDominant draws off-diagonal entries uniformly and sets each
// diagonal entry to ±(Σ|off-diagonal row| + margin), margin ∈ [1, 2).
// Strict row dominance gives |det| >= Π margin >= 1.
func diagonallyDominant(r *rand.Rand, d interchange.Dim, o Options) interchange.Matrix {
	m := uniform(r, d, o)
	n := int(d)
	var (
		row, col int
		sum      float64
		diag     float32
	)
	for row = 0; row < n; row++ {
		sum = 0
		for col = 0; col < n; col++ {
			if col != row {
				sum += math.Abs(float64(m.At(row, col)))
			}
		}
		diag = float32(sum + 1 + diagMarginSpan*r.Float64())
		if r.IntN(2) == 0 {
			diag = -diag
		}
		m.Set(row, row, diag)
	}

	return m
}
