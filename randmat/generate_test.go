// SPDX-License-Identifier: MIT

package randmat_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/matcmp/interchange"
	"github.com/katalvlaran/matcmp/randmat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const draws = 256

func TestNewSource_Reproducible(t *testing.T) {
	t.Parallel()

	for _, d := range interchange.Dims {
		a := randmat.Uniform(randmat.NewSource(42), d)
		b := randmat.Uniform(randmat.NewSource(42), d)
		c := randmat.Uniform(randmat.NewSource(43), d)
		assert.Equal(t, a, b, d.String())
		assert.NotEqual(t, a, c, d.String())
	}
}

func TestEntropySeed_NonZeroAndVaries(t *testing.T) {
	t.Parallel()

	seen := make(map[uint64]struct{})
	for i := 0; i < 16; i++ {
		s := randmat.EntropySeed()
		require.NotZero(t, s)
		seen[s] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestUniform_Bounds(t *testing.T) {
	t.Parallel()

	r := randmat.NewSource(7)
	for _, tc := range []struct{ lo, hi float64 }{
		{randmat.DefaultLow, randmat.DefaultHigh},
		{0, 1},
		{-10, -5},
	} {
		for i := 0; i < draws; i++ {
			m := randmat.Uniform(r, interchange.Dim4, randmat.WithRange(tc.lo, tc.hi))
			for _, v := range m.ColumnMajor() {
				require.GreaterOrEqual(t, float64(v), tc.lo)
				require.Less(t, float64(v), tc.hi)
			}
		}
	}
}

func TestUniform_UsesWholeRange(t *testing.T) {
	t.Parallel()

	r := randmat.NewSource(99)
	var neg, pos int
	for i := 0; i < draws; i++ {
		for _, v := range randmat.Uniform(r, interchange.Dim3).ColumnMajor() {
			if v < 0 {
				neg++
			} else {
				pos++
			}
		}
	}
	assert.Greater(t, neg, draws)
	assert.Greater(t, pos, draws)
}

func TestInvertible_Strategies(t *testing.T) {
	t.Parallel()

	for _, s := range []randmat.Strategy{randmat.StrategyRejection, randmat.StrategyDiagonal, randmat.StrategyRotation} {
		for _, d := range interchange.Dims {
			s, d := s, d
			t.Run(s.String()+"/"+d.String(), func(t *testing.T) {
				t.Parallel()
				r := randmat.NewSource(uint64(int(d)*100 + int(s)))
				for i := 0; i < draws; i++ {
					m, err := randmat.Invertible(r, d, randmat.WithStrategy(s))
					require.NoError(t, err)
					require.Equal(t, d, m.Dim())
					require.GreaterOrEqual(t, math.Abs(interchange.Determinant64(m)), randmat.DefaultMinAbsDet)
					require.LessOrEqual(t, interchange.Condition(m), randmat.DefaultMaxCondition)
				}
			})
		}
	}
}

func TestInvertible_DiagonalDeterminantFloor(t *testing.T) {
	t.Parallel()

	r := randmat.NewSource(5)
	for i := 0; i < draws; i++ {
		m, err := randmat.Invertible(r, interchange.Dim4,
			randmat.WithStrategy(randmat.StrategyDiagonal),
			randmat.WithMinAbsDet(1),
			randmat.WithMaxCondition(math.Inf(1)),
			randmat.WithMaxAttempts(1),
		)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, math.Abs(interchange.Determinant64(m)), 1.0)
	}
}

func TestInvertible_GenerationFailure(t *testing.T) {
	t.Parallel()

	r := randmat.NewSource(1)
	_, err := randmat.Invertible(r, interchange.Dim3,
		randmat.WithMinAbsDet(1e6),
		randmat.WithMaxAttempts(5),
	)
	require.ErrorIs(t, err, randmat.ErrGenerationFailed)

	var gerr *randmat.GenerationError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, 5, gerr.Attempts)
	assert.Equal(t, interchange.Dim3, gerr.Dim)
	assert.Equal(t, randmat.StrategyRejection, gerr.Strategy)
	assert.Contains(t, err.Error(), "rejection 3x3")
}

func TestRotation_IsRigid(t *testing.T) {
	t.Parallel()

	r := randmat.NewSource(2024)
	for _, d := range interchange.Dims {
		for i := 0; i < draws; i++ {
			m, err := randmat.Invertible(r, d, randmat.WithStrategy(randmat.StrategyRotation))
			require.NoError(t, err)
			assert.InDelta(t, 1.0, interchange.Determinant64(m), 1e-5)

			inv, err := randmat.RigidInverse(m)
			require.NoError(t, err)
			want, ok := interchange.Inverse64(m)
			require.True(t, ok)
			got := inv.RowMajor64()
			for k := range want {
				require.InDelta(t, want[k], got[k], 1e-5)
			}
		}
	}
}

func TestRigidInverse_Rejects(t *testing.T) {
	t.Parallel()

	scaled := interchange.MustFromRows([]float32{2, 0}, []float32{0, 1})
	_, err := randmat.RigidInverse(scaled)
	assert.ErrorIs(t, err, randmat.ErrNotRigid)

	projective := interchange.Identity(interchange.Dim4)
	projective.Set(3, 0, 0.5)
	_, err = randmat.RigidInverse(projective)
	assert.ErrorIs(t, err, randmat.ErrNotRigid)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	for _, s := range []randmat.Strategy{randmat.StrategyRejection, randmat.StrategyDiagonal, randmat.StrategyRotation} {
		got, err := randmat.ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := randmat.ParseStrategy("lucky")
	assert.Error(t, err)
	assert.Equal(t, "Strategy(9)", randmat.Strategy(9).String())
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { randmat.WithRange(1, 1) })
	assert.Panics(t, func() { randmat.WithRange(math.NaN(), 1) })
	assert.Panics(t, func() { randmat.WithStrategy(randmat.Strategy(-1)) })
	assert.Panics(t, func() { randmat.WithMinAbsDet(-1) })
	assert.Panics(t, func() { randmat.WithMaxCondition(0.5) })
	assert.Panics(t, func() { randmat.WithMaxAttempts(0) })
	assert.NotPanics(t, func() { randmat.WithMaxCondition(math.Inf(1)) })
}

func TestOptions_Resolved(t *testing.T) {
	t.Parallel()

	o := randmat.NewOptions(randmat.WithStrategy(randmat.StrategyDiagonal), randmat.WithMaxAttempts(3))
	assert.Equal(t, randmat.StrategyDiagonal, o.Strategy())
	assert.Equal(t, 3, o.MaxAttempts())
	assert.Equal(t, randmat.DefaultLow, o.Low())
	assert.Equal(t, randmat.DefaultHigh, o.High())
	assert.Equal(t, randmat.DefaultMinAbsDet, o.MinAbsDet())
	assert.Equal(t, randmat.DefaultMaxCondition, o.MaxCondition())

	again := randmat.NewOptions(o.Apply()...)
	assert.Equal(t, o, again)
}
