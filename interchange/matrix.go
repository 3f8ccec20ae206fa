// SPDX-License-Identifier: MIT

package interchange

import (
	"fmt"
	"strings"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// Matrix is a column-major N×N float32 matrix with N ∈ {2,3,4}.
//   - dim holds N.
//   - data holds N*N values at offsets c*N + r; the tail beyond N*N stays zero,
//     so two matrices of the same dimension compare equal with == exactly when
//     their elements are bit-identical (NaN aside).
//
// Matrix is a value type: copies are independent.
type Matrix struct {
	dim  Dim
	data [MaxLen]float32
}

// Zero returns the N×N zero matrix. It panics on an unsupported dimension.
func Zero(d Dim) Matrix {
	if err := validateDim("Zero", d); err != nil {
		panic(err)
	}

	return Matrix{dim: d}
}

// Identity returns I_N. It panics on an unsupported dimension.
func Identity(d Dim) Matrix {
	m := Zero(d)
	for i := 0; i < int(d); i++ {
		m.data[i*int(d)+i] = 1
	}

	return m
}

// FromColumnMajor builds a Matrix from N*N values in column-major order.
//
// Errors:
//   - ErrBadDim if d is unsupported.
//   - ErrBadLength if len(vals) != N*N.
func FromColumnMajor(d Dim, vals []float32) (Matrix, error) {
	if err := validateDim("FromColumnMajor", d); err != nil {
		return Matrix{}, err
	}
	if len(vals) != d.Len() {
		return Matrix{}, fmt.Errorf("FromColumnMajor: got %d values for %s: %w", len(vals), d, ErrBadLength)
	}
	m := Matrix{dim: d}
	copy(m.data[:], vals)

	return m, nil
}

// FromRowMajor builds a Matrix from N*N values in row-major order.
// Values are transposed into the column-major layout; no value is changed.
func FromRowMajor(d Dim, vals []float32) (Matrix, error) {
	if err := validateDim("FromRowMajor", d); err != nil {
		return Matrix{}, err
	}
	if len(vals) != d.Len() {
		return Matrix{}, fmt.Errorf("FromRowMajor: got %d values for %s: %w", len(vals), d, ErrBadLength)
	}
	n := int(d)
	m := Matrix{dim: d}
	var r, c int
	for r = 0; r < n; r++ {
		for c = 0; c < n; c++ {
			m.data[c*n+r] = vals[r*n+c]
		}
	}

	return m, nil
}

// FromRowMajor64 rounds N*N row-major float64 values to float32.
// Rounding happens exactly once per element, here.
func FromRowMajor64(d Dim, vals []float64) (Matrix, error) {
	if err := validateDim("FromRowMajor64", d); err != nil {
		return Matrix{}, err
	}
	if len(vals) != d.Len() {
		return Matrix{}, fmt.Errorf("FromRowMajor64: got %d values for %s: %w", len(vals), d, ErrBadLength)
	}
	n := int(d)
	m := Matrix{dim: d}
	var r, c int
	for r = 0; r < n; r++ {
		for c = 0; c < n; c++ {
			m.data[c*n+r] = float32(vals[r*n+c])
		}
	}

	return m, nil
}

// FromRows builds a Matrix from rows written the way matrices are printed
// on paper. The dimension is the number of rows.
func FromRows(rows ...[]float32) (Matrix, error) {
	d := Dim(len(rows))
	if err := validateDim("FromRows", d); err != nil {
		return Matrix{}, err
	}
	flat := make([]float32, 0, d.Len())
	for i, row := range rows {
		if len(row) != int(d) {
			return Matrix{}, fmt.Errorf("FromRows: row %d has %d values, want %d: %w", i, len(row), int(d), ErrRagged)
		}
		flat = append(flat, row...)
	}

	return FromRowMajor(d, flat)
}

// MustFromRows is FromRows that panics on error. Intended for fixtures.
func MustFromRows(rows ...[]float32) Matrix {
	m, err := FromRows(rows...)
	if err != nil {
		panic(err)
	}

	return m
}

// Dim returns N.
func (m Matrix) Dim() Dim { return m.dim }

// At returns the element at (row, col). It panics if the index is outside
// the matrix, like a slice index would.
func (m Matrix) At(row, col int) float32 {
	m.check(row, col)

	return m.data[col*int(m.dim)+row]
}

// Set assigns v at (row, col). It panics if the index is outside the matrix.
func (m *Matrix) Set(row, col int, v float32) {
	m.check(row, col)
	m.data[col*int(m.dim)+row] = v
}

func (m Matrix) check(row, col int) {
	n := int(m.dim)
	if row < 0 || row >= n || col < 0 || col >= n {
		panic(fmt.Sprintf("interchange: index (%d,%d) out of range for %s", row, col, m.dim))
	}
}

// Index returns the element at flat column-major offset i.
func (m Matrix) Index(i int) float32 {
	if i < 0 || i >= m.dim.Len() {
		panic(fmt.Sprintf("interchange: offset %d out of range for %s", i, m.dim))
	}

	return m.data[i]
}

// ColumnMajor returns a fresh slice of the N*N values in storage order.
func (m Matrix) ColumnMajor() []float32 {
	out := make([]float32, m.dim.Len())
	copy(out, m.data[:m.dim.Len()])

	return out
}

// RowMajor64 returns the values widened to float64 in row-major order,
// the layout expected by the float64 row-major libraries.
func (m Matrix) RowMajor64() []float64 {
	n := int(m.dim)
	out := make([]float64, n*n)
	var r, c int
	for r = 0; r < n; r++ {
		for c = 0; c < n; c++ {
			out[r*n+c] = float64(m.data[c*n+r])
		}
	}

	return out
}

// Transpose returns mᵀ.
func (m Matrix) Transpose() Matrix {
	n := int(m.dim)
	t := Matrix{dim: m.dim}
	var r, c int
	for r = 0; r < n; r++ {
		for c = 0; c < n; c++ {
			t.data[r*n+c] = m.data[c*n+r]
		}
	}

	return t
}

// String renders one bracketed row per line, rows top to bottom.
func (m Matrix) String() string {
	n := int(m.dim)
	var sb strings.Builder
	var r, c int
	for r = 0; r < n; r++ {
		sb.WriteString(_fmtRowOpen)
		for c = 0; c < n; c++ {
			if c > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%g", m.data[c*n+r])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
