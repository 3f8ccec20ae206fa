// SPDX-License-Identifier: MIT

// Package compare runs one matrix operation through every backend and checks
// that each result agrees with the designated reference backend.
//
// A Suite is built once from a set of backends and reused for many
// comparisons. Each comparison either succeeds or returns the first
// disagreement as a *MismatchError, which names the operation, dimension,
// seed, both libraries, the inputs, both values and the first differing
// component. Nothing is retried.
//
// Agreement is judged by Tolerance: two float32 values agree when they are
// within an absolute-plus-relative band or within a number of ULPs. The
// band for matrix inverses widens with the condition number of the input.
package compare
