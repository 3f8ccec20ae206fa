// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels under comparison:
// multiplication, transpose, pivoted LU, determinant and inverse.
//
// Purpose:
//   - Accept any Matrix implementation; take a flat-slice fast path for *Dense.
//   - Keep loop orders fixed so identical inputs give bit-identical outputs.
//   - Validate through validators.go and wrap sentinels with an operation tag.

package matrix

import (
	"errors"
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for substitution loops.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for detecting an all-zero pivot column.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul         = "Mul"
	opTranspose   = "Transpose"
	opLU          = "LU"
	opDeterminant = "Determinant"
	opInverse     = "Inverse"
	opAllClose    = "AllClose"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// flatten returns a row-major copy of m. *Dense is copied directly; other
// implementations are read through At in fixed i→j order.
func flatten(tag string, m Matrix) ([]float64, error) {
	if d, ok := m.(*Dense); ok {
		return d.RowMajor(), nil
	}
	r, c := m.Rows(), m.Cols()
	out := make([]float64, r*c)
	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(tag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			out[i*c+j] = v
		}
	}

	return out, nil
}

// Mul performs standard matrix multiplication C = A × B.
//
// Implementation:
//   - Stage 1: validate (non-nil, A.Cols == B.Rows); flatten both operands.
//   - Stage 2: accumulate each C[i,j] as Σ_k A[i,k]·B[k,j] in increasing k.
//
// Each output element is one left-to-right dot product, which is the
// summation order the other backends use as well.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	av, err := flatten(opMul, a)
	if err != nil {
		return nil, err
	}
	bv, err := flatten(opMul, b)
	if err != nil {
		return nil, err
	}

	rows, inner, cols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k int
		sum     float64
	)
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			sum = ZeroSum
			for k = 0; k < inner; k++ {
				sum += av[i*inner+k] * bv[k*cols+j]
			}
			res.data[i*cols+j] = sum
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	vals, err := flatten(opTranspose, m)
	if err != nil {
		return nil, err
	}
	r, c := m.Rows(), m.Cols()
	res, err := NewDense(c, r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			res.data[j*r+i] = vals[i*c+j]
		}
	}

	return res, nil
}

// LUFactors is a pivoted factorization P·A = L·U.
//   - L is unit lower triangular, U upper triangular.
//   - Perm[i] is the row of A that ended up in row i of P·A.
//   - Sign is det(P): +1 for an even number of swaps, -1 otherwise.
type LUFactors struct {
	L, U *Dense
	Perm []int
	Sign float64
}

// LU computes the Doolittle factorization with partial (row) pivoting.
//
// Implementation:
//   - Stage 1: validate square input; copy it into a work buffer.
//   - Stage 2: for each column k pick the row with the largest |a[i,k]|
//     (first one on ties), swap it up, then eliminate below the pivot.
//   - Stage 3: split the work buffer into L (unit diagonal) and U.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//   - ErrSingular if a pivot column is entirely zero.
//
// Complexity: Time O(n^3), Space O(n^2).
func LU(m Matrix) (*LUFactors, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	a, err := flatten(opLU, m)
	if err != nil {
		return nil, err
	}
	n := m.Rows()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1.0

	var (
		i, j, k, p int
		pivot      float64
		factor     float64
	)
	for k = 0; k < n; k++ {
		// Stage 2a: choose the pivot row.
		p = k
		for i = k + 1; i < n; i++ {
			if math.Abs(a[i*n+k]) > math.Abs(a[p*n+k]) {
				p = i
			}
		}
		pivot = a[p*n+k]
		if pivot == ZeroPivot {
			return nil, matrixErrorf(opLU, fmt.Errorf("zero pivot column %d: %w", k, ErrSingular))
		}
		if p != k {
			for j = 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
			sign = -sign
		}
		// Stage 2b: eliminate below the pivot, storing multipliers in place.
		for i = k + 1; i < n; i++ {
			factor = a[i*n+k] / pivot
			a[i*n+k] = factor
			if factor == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				a[i*n+j] -= factor * a[k*n+j]
			}
		}
	}

	// Stage 3: split.
	L, _ := NewDense(n, n)
	U, _ := NewDense(n, n)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			switch {
			case j < i:
				L.data[i*n+j] = a[i*n+j]
			case j == i:
				L.data[i*n+j] = 1
				U.data[i*n+j] = a[i*n+j]
			default:
				U.data[i*n+j] = a[i*n+j]
			}
		}
	}

	return &LUFactors{L: L, U: U, Perm: perm, Sign: sign}, nil
}

// Determinant returns det(m) = Sign·Π U[i,i] from the pivoted LU.
// A singular matrix has determinant exactly 0 and no error.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(n^3).
func Determinant(m Matrix) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opDeterminant, err)
	}
	f, err := LU(m)
	if err != nil {
		if errors.Is(err, ErrSingular) {
			return 0, nil
		}
		return 0, matrixErrorf(opDeterminant, err)
	}
	n := m.Rows()
	det := f.Sign
	for i := 0; i < n; i++ {
		det *= f.U.data[i*n+i]
	}

	return det, nil
}

// Inverse computes A⁻¹ column by column from the pivoted LU.
//
// Implementation:
//   - Stage 1: factorize P·A = L·U.
//   - Stage 2: for each basis column e_col, solve L·y = P·e_col forward,
//     then U·x = y backward, and write x into column col.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//   - ErrSingular when the matrix has no inverse.
//
// Complexity: Time O(n^3), Space O(n^2).
func Inverse(m Matrix) (Matrix, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	f, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	n := m.Rows()
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	var (
		col, i, k int
		sum       float64
		pivot     float64
		y         = make([]float64, n) // forward substitution workspace
		x         = make([]float64, n) // backward substitution workspace
		Ld, Ud    = f.L.data, f.U.data
	)
	for col = 0; col < n; col++ {
		// Forward substitution: L·y = P·e_col.
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += Ld[i*n+k] * y[k]
			}
			if f.Perm[i] == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = -sum
			}
		}
		// Backward substitution: U·x = y.
		for i = n - 1; i >= 0; i-- {
			sum = ZeroSum
			for k = i + 1; k < n; k++ {
				sum += Ud[i*n+k] * x[k]
			}
			pivot = Ud[i*n+i]
			if pivot == ZeroPivot {
				return nil, matrixErrorf(opInverse, ErrSingular)
			}
			x[i] = (y[i] - sum) / pivot
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// AllClose reports whether |a-b| ≤ atol + rtol*|b| holds element-wise.
// NaN is never close to anything. Negative tolerances are treated as |tol|.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	av, err := flatten(opAllClose, a)
	if err != nil {
		return false, err
	}
	bv, err := flatten(opAllClose, b)
	if err != nil {
		return false, err
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	for idx := range av {
		if !(math.Abs(av[idx]-bv[idx]) <= atol+rtol*math.Abs(bv[idx])) {
			return false, nil
		}
	}

	return true, nil
}
