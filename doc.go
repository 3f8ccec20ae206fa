// Package matcmp checks that several Go linear-algebra libraries agree on
// small float32 matrix arithmetic: 2x2, 3x3 and 4x4 multiply, determinant
// and inverse, plus the A·A⁻¹ = I identity law.
//
// Each iteration draws fresh random inputs from a logged seed, converts
// them into every library's native type, and compares every result with
// the reference library within a per-operation, per-dimension tolerance.
// A failure names the operation, dimension, seed, inputs and offending
// element, so it can be replayed exactly.
//
// The work is organized under these subpackages:
//
//	interchange/   the column-major float32 Matrix every backend converts to and from
//	randmat/       seeded xoshiro256+ sources and uniform/invertible generators
//	matrix/        the in-house float64 kernels (pivoted LU, determinant, inverse)
//	backend/       adapters for gonum, go.matrix, mathgl and matrix
//	compare/       tolerances, reference policy and the per-operation checks
//	harness/       the N-iteration runner, replay and the testing.TB helper
//	corpus/        a SQLite store of failing seeds and their inputs
//	config/        YAML configuration for the command
//	cmd/matcmp/    the command line: run, replay, failures, libs
//
// Quick example:
//
//	s, _ := compare.NewSuite(backend.Default())
//	rep, err := harness.Run(ctx, s, compare.OpInverse, interchange.Dim4, harness.Config{})
//
// A non-nil err carries the seed in rep.FailedSeed; harness.Replay re-runs it.
//
//	go install github.com/katalvlaran/matcmp/cmd/matcmp@latest
package matcmp
