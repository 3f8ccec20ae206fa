// SPDX-License-Identifier: MIT

package backend_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/katalvlaran/matcmp/randmat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trials = 64

func TestDefault_NamesAndLookup(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"dense", "gomatrix", "gonum", "mathgl"}, backend.Names())
	for _, b := range backend.Default() {
		got, err := backend.Lookup(b.Name())
		require.NoError(t, err)
		assert.Equal(t, b.Name(), got.Name())
	}
	_, err := backend.Lookup("numpy")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)

	sel, err := backend.Select("mathgl", "gonum")
	require.NoError(t, err)
	require.Len(t, sel, 2)
	assert.Equal(t, "mathgl", sel[0].Name())
	all, err := backend.Select()
	require.NoError(t, err)
	assert.Len(t, all, 4)
	_, err = backend.Select("gonum", "nope")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)
}

// Multiplying by the identity only adds exact zeros, so a conversion that
// preserves layout must give the input back bit for bit.
func TestConversion_RoundTripThroughIdentity(t *testing.T) {
	t.Parallel()

	for _, b := range backend.Default() {
		b := b
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()
			r := randmat.NewSource(11)
			for _, d := range interchange.Dims {
				I := interchange.Identity(d)
				for i := 0; i < trials; i++ {
					m := randmat.Uniform(r, d)
					left, err := b.Multiply(I, m)
					require.NoError(t, err)
					right, err := b.Multiply(m, I)
					require.NoError(t, err)
					require.Equal(t, m, left, "%s I·m", d)
					require.Equal(t, m, right, "%s m·I", d)
				}
			}
		})
	}
}

// An asymmetric product exposes any transpose hidden in a conversion.
func TestMultiply_Orientation(t *testing.T) {
	t.Parallel()

	a := interchange.MustFromRows([]float32{1, 2}, []float32{3, 4})
	b := interchange.MustFromRows([]float32{5, 6}, []float32{7, 8})
	want := interchange.MustFromRows([]float32{19, 22}, []float32{43, 50})

	a3 := interchange.MustFromRows([]float32{1, 2, 0}, []float32{0, 1, 3}, []float32{4, 0, 1})
	b3 := interchange.MustFromRows([]float32{1, 0, 0}, []float32{2, 1, 0}, []float32{0, 0, 2})
	want3 := interchange.MustFromRows([]float32{5, 2, 0}, []float32{2, 1, 6}, []float32{4, 0, 2})

	for _, be := range backend.Default() {
		got, err := be.Multiply(a, b)
		require.NoError(t, err, be.Name())
		assert.Equal(t, want, got, be.Name())

		got3, err := be.Multiply(a3, b3)
		require.NoError(t, err, be.Name())
		assert.Equal(t, want3, got3, be.Name())
	}
}

func TestIdentity2_DetAndInverse(t *testing.T) {
	t.Parallel()

	I := interchange.Identity(interchange.Dim2)
	for _, be := range backend.Default() {
		det, err := be.Determinant(I)
		require.NoError(t, err, be.Name())
		assert.Equal(t, float32(1), det, be.Name())

		inv, ok, err := be.Inverse(I)
		require.NoError(t, err, be.Name())
		require.True(t, ok, be.Name())
		assert.Equal(t, I, inv, be.Name())
	}
}

func TestSingular3_ZeroRow(t *testing.T) {
	t.Parallel()

	m := interchange.MustFromRows(
		[]float32{1, 2, 3},
		[]float32{0, 0, 0},
		[]float32{4, 5, 6},
	)
	for _, be := range backend.Default() {
		_, ok, err := be.Inverse(m)
		require.NoError(t, err, be.Name())
		assert.False(t, ok, be.Name())

		det, err := be.Determinant(m)
		require.NoError(t, err, be.Name())
		assert.Zero(t, det, be.Name())
	}
}

func TestDeterminant_Known(t *testing.T) {
	t.Parallel()

	cases := []struct {
		m    interchange.Matrix
		want float32
	}{
		{interchange.MustFromRows([]float32{1, 2}, []float32{3, 4}), -2},
		{interchange.MustFromRows([]float32{2, -1, 0}, []float32{-1, 2, -1}, []float32{0, -1, 2}), 4},
		{interchange.MustFromRows(
			[]float32{2, 0, 0, 0},
			[]float32{1, 3, 0, 0},
			[]float32{0, 1, 4, 0},
			[]float32{0, 0, 1, 0.5},
		), 12},
	}
	for _, be := range backend.Default() {
		for _, tc := range cases {
			got, err := be.Determinant(tc.m)
			require.NoError(t, err, be.Name())
			assert.InDelta(t, tc.want, got, 1e-5, "%s %s", be.Name(), tc.m.Dim())
		}
	}
}

func TestInverse_MatchesAnalytic(t *testing.T) {
	t.Parallel()

	r := randmat.NewSource(77)
	for _, be := range backend.Default() {
		for _, d := range interchange.Dims {
			for i := 0; i < trials; i++ {
				m, err := randmat.Invertible(r, d, randmat.WithStrategy(randmat.StrategyDiagonal))
				require.NoError(t, err)
				got, ok, err := be.Inverse(m)
				require.NoError(t, err)
				require.True(t, ok, "%s %s", be.Name(), d)
				want, ok := interchange.Inverse64(m)
				require.True(t, ok)
				vals := got.RowMajor64()
				for k := range want {
					require.InDelta(t, want[k], vals[k], 1e-5, "%s %s", be.Name(), d)
				}
			}
		}
	}
}

func TestZeroMatrix_Rejected(t *testing.T) {
	t.Parallel()

	for _, be := range backend.Default() {
		_, err := be.Determinant(interchange.Matrix{})
		assert.ErrorIs(t, err, backend.ErrUnsupportedDim, be.Name())
	}
}

// fakeLib lets the adapter's error paths be exercised without a real library.
type fakeLib struct {
	fromErr, mulErr, invErr error
	singular                bool
}

func (f fakeLib) FromInterchange(m interchange.Matrix) (interchange.Matrix, error) {
	return m, f.fromErr
}
func (fakeLib) ToInterchange(v interchange.Matrix) (interchange.Matrix, error) { return v, nil }
func (f fakeLib) Mul(a, _ interchange.Matrix) (interchange.Matrix, error) { return a, f.mulErr }
func (fakeLib) Det(interchange.Matrix) (float32, error) { return 1, nil }
func (f fakeLib) Inverse(a interchange.Matrix) (interchange.Matrix, bool, error) {
	return a, !f.singular, f.invErr
}

func TestAdapt_ErrorsCarryNameAndOp(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	m := interchange.Identity(interchange.Dim3)

	_, err := backend.Adapt[interchange.Matrix]("fake", fakeLib{mulErr: boom}).Multiply(m, m)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fake.Multiply")

	_, err = backend.Adapt[interchange.Matrix]("fake", fakeLib{fromErr: boom}).Determinant(m)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fake.Determinant")

	_, ok, err := backend.Adapt[interchange.Matrix]("fake", fakeLib{invErr: boom}).Inverse(m)
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)

	inv, ok, err := backend.Adapt[interchange.Matrix]("fake", fakeLib{singular: true}).Inverse(m)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, interchange.Matrix{}, inv)
}

func TestPerDim_Unsupported(t *testing.T) {
	t.Parallel()

	be := backend.PerDim("only3", map[interchange.Dim]backend.Backend{
		interchange.Dim3: backend.Adapt[interchange.Matrix]("only3", fakeLib{}),
	})
	_, err := be.Determinant(interchange.Identity(interchange.Dim2))
	assert.ErrorIs(t, err, backend.ErrUnsupportedDim)
	_, err = be.Determinant(interchange.Identity(interchange.Dim3))
	assert.NoError(t, err)
}
