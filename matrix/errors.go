// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Kernels return these sentinels wrapped with an operation tag
// ("Inverse: matrix: singular matrix"); callers match them with errors.Is.
// No kernel panics on user-triggered conditions.

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// At/Set return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, e.g. Mul with
	// a.Cols != b.Rows, or a square matrix was required but not given.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil Matrix argument was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrSingular is returned when elimination finds an all-zero pivot column.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrDataLength indicates that a backing slice does not hold rows*cols values.
	ErrDataLength = errors.New("matrix: data length does not match shape")
)
