// SPDX-License-Identifier: MIT

package corpus_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/corpus"
	"github.com/katalvlaran/matcmp/harness"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *corpus.Store {
	t.Helper()
	s, err := corpus.Open(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func mismatch() *compare.MismatchError {
	a := interchange.MustFromRows([]float32{1, 2}, []float32{3, 4})
	b := interchange.MustFromRows([]float32{0.5, -1}, []float32{0.25, 1e-7})
	return &compare.MismatchError{
		Kind: compare.KindValue, Op: compare.OpMultiply, Dim: interchange.Dim2,
		Seed: 1<<63 + 5, Reference: "gonum", Library: "mathgl",
		Inputs: []interchange.Matrix{a, b},
		Want:   a, Got: b, Index: 1,
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	mm := mismatch()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, harness.Failure{
		RunID: "r1", Op: compare.OpMultiply, Dim: interchange.Dim2,
		Seed: mm.Seed, Iteration: 41, Err: mm, At: at,
	}))

	list, err := s.List(ctx, corpus.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	e := list[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "r1", e.RunID)
	assert.Equal(t, compare.OpMultiply, e.Op)
	assert.Equal(t, interchange.Dim2, e.Dim)
	assert.Equal(t, uint64(1<<63+5), e.Seed, "seeds above MaxInt64 survive")
	assert.Equal(t, 41, e.Iteration)
	assert.Equal(t, "value", e.Kind)
	assert.Equal(t, "mathgl", e.Library)
	assert.Equal(t, "gonum", e.Reference)
	assert.Equal(t, mm.Inputs, e.Inputs)
	assert.Equal(t, mm.Error(), e.Message)
	assert.True(t, at.Equal(e.CreatedAt))

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestStore_BackendAndOtherKinds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Record(ctx, harness.Failure{
		Op: compare.OpInverse, Dim: interchange.Dim4, Seed: 3,
		Err: &compare.BackendError{Library: "gomatrix", Op: compare.OpInverse, Err: errors.New("boom")},
	}))
	require.NoError(t, s.Record(ctx, harness.Failure{
		Op: compare.OpInverse, Dim: interchange.Dim3, Seed: 4, Err: errors.New("generation"),
	}))

	list, err := s.List(ctx, corpus.Filter{Dim: interchange.Dim4})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "backend", list[0].Kind)
	assert.Equal(t, "gomatrix", list[0].Library)
	assert.Empty(t, list[0].Inputs)

	list, err = s.List(ctx, corpus.Filter{Dim: interchange.Dim3})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "other", list[0].Kind)
}

func TestStore_ListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, op := range []compare.Op{compare.OpMultiply, compare.OpMultiply, compare.OpDeterminant} {
		_, err := s.Add(ctx, corpus.Entry{
			RunID: "run", Op: op, Dim: interchange.Dim3, Seed: uint64(i + 1),
			Kind: "value", Message: "m", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := s.Add(ctx, corpus.Entry{RunID: "other", Op: compare.OpMultiply, Dim: interchange.Dim2, Seed: 9, Kind: "value", Message: "m"})
	require.NoError(t, err)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	mul := compare.OpMultiply
	list, err := s.List(ctx, corpus.Filter{Op: &mul, RunID: "run"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(2), list[0].Seed, "newest first")

	list, err = s.List(ctx, corpus.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "other", list[0].RunID)
}

func TestStore_DeleteAndNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	id, err := s.Add(ctx, corpus.Entry{Op: compare.OpDeterminant, Dim: interchange.Dim2, Seed: 1, Kind: "value", Message: "x"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), corpus.ErrNotFound)
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, corpus.ErrNotFound)
}

func TestStore_Persistence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "corpus.db")
	s1, err := corpus.Open(path)
	require.NoError(t, err)
	id, err := s1.Add(ctx, corpus.Entry{Op: compare.OpInverse, Dim: interchange.Dim4, Seed: 77, Kind: "invertibility", Message: "x"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := corpus.Open(path)
	require.NoError(t, err)
	defer s2.Close()
	e, err := s2.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), e.Seed)
	assert.Equal(t, path, s2.Path())
}

// A real failing run lands in the corpus and replays from the stored seed.
func TestStore_AsHarnessSink(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openStore(t)
	suite, err := compare.NewSuite(append(backend.Default(), broken{backend.Dense()}))
	require.NoError(t, err)

	_, runErr := harness.Run(ctx, suite, compare.OpDeterminant, interchange.Dim3, harness.Config{Seed: 8, RunID: "sink", Sink: s})
	require.ErrorIs(t, runErr, compare.ErrMismatch)

	list, err := s.List(ctx, corpus.Filter{RunID: "sink"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Inputs, 1)

	replayed := harness.Replay(suite, list[0].Op, list[0].Dim, list[0].Seed)
	var mm *compare.MismatchError
	require.True(t, errors.As(replayed, &mm))
	assert.Equal(t, list[0].Inputs, mm.Inputs)
}

type broken struct{ backend.Backend }

func (broken) Name() string { return "broken" }

func (b broken) Determinant(a interchange.Matrix) (float32, error) {
	d, err := b.Backend.Determinant(a)

	return d + 1, err
}
