// SPDX-License-Identifier: MIT

// Package backend wraps each linear-algebra library under comparison behind
// one capability set: convert from and to the interchange representation,
// multiply, determinant and inverse.
//
// A library is first described natively as a Library[T], where T is its own
// matrix type, and then erased with Adapt into a Backend that speaks only
// interchange.Matrix. Libraries whose native type depends on the dimension
// (mathgl's Mat2/Mat3/Mat4) are adapted once per dimension and joined with
// PerDim.
//
// Registered backends, in Default order:
//
//   - gonum    gonum.org/v1/gonum/mat, float64, LAPACK LU.
//   - gomatrix github.com/skelterjohn/go.matrix, float64, Gauss-Jordan.
//   - mathgl   github.com/go-gl/mathgl/mgl32, float32, closed form.
//   - dense    the in-house matrix package, float64, pivoted Doolittle LU.
//
// Conversions never transpose. Float64 libraries round back to float32
// exactly once, in ToInterchange.
package backend
