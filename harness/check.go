// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/interchange"
)

// Check runs {op, d} under tb and fails it on the first failing iteration.
// The failing seed is logged before the failure so it can be replayed.
func Check(tb testing.TB, s *compare.Suite, op compare.Op, d interchange.Dim, cfg Config) Report {
	tb.Helper()

	ctx := context.Background()
	if t, ok := tb.(interface{ Context() context.Context }); ok {
		ctx = t.Context()
	}
	rep, err := Run(ctx, s, op, d, cfg)
	if err == nil {
		tb.Logf("%s %s: %d iterations in %s", op, d, rep.Iterations, rep.Elapsed)
		return rep
	}
	if rep.FailedSeed != 0 {
		tb.Logf("%s %s: failing seed %d (iteration %d)", op, d, rep.FailedSeed, rep.Iterations)
	}
	var mm *compare.MismatchError
	if errors.As(err, &mm) {
		tb.Fatalf("%s", mm.Detail())
		return rep
	}
	tb.Fatalf("%v", err)

	return rep
}
