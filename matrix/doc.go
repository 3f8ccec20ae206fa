// SPDX-License-Identifier: MIT

// Package matrix is the in-house dense float64 kernel set of the comparison
// suite: one of the libraries whose results are checked against the others.
//
// The package provides:
//
//   - Dense, a row-major matrix with bounds-checked At/Set that return errors
//     instead of panicking.
//   - Mul, Transpose, LU (Doolittle with partial pivoting), Determinant and
//     Inverse, all with fixed loop orders so a given input always yields
//     bit-identical output.
//   - AllClose for tolerance checks in tests.
//
// Kernels never mutate their inputs and always allocate fresh results.
package matrix
