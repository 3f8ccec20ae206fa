// SPDX-License-Identifier: MIT

package harness_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/harness"
	"github.com/katalvlaran/matcmp/interchange"
)

// ExampleRun runs a short, reproducible determinant comparison.
func ExampleRun() {
	s, err := compare.NewSuite(backend.Default())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	rep, err := harness.Run(context.Background(), s, compare.OpDeterminant, interchange.Dim2,
		harness.Config{Iterations: 64, Seed: 1})
	fmt.Println(rep.Op, rep.Dim, rep.Iterations, rep.Passed(), err)

	// Output:
	// determinant 2x2 64 true <nil>
}
