// SPDX-License-Identifier: MIT

// Package interchange defines the library-neutral matrix representation that
// every backend converts to and from.
//
// A Matrix is a dimension-tagged (2x2, 3x3, 4x4) square of float32 values in
// column-major order: element (row r, column c) lives at offset c*N + r. The
// layout matches the column-vector convention used by all backends, so a
// product A*B means "apply B, then A" everywhere.
//
// The package also carries a few float64 helpers (cofactor determinant,
// adjugate inverse, norms, condition number). They are not a library under
// test; the random generator and the tolerance model use them to analyse
// inputs independently of any backend.
package interchange
