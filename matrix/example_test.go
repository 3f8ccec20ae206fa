// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/matcmp/matrix"
)

// ExampleDeterminant factors a 2x2 with partial pivoting.
func ExampleDeterminant() {
	m, _ := matrix.NewDenseFrom(2, 2, []float64{
		4, 7,
		2, 6,
	})
	det, err := matrix.Determinant(m)
	fmt.Println(det, err)

	f, _ := matrix.LU(m)
	fmt.Println("perm:", f.Perm, "sign:", f.Sign)

	// Output:
	// 10 <nil>
	// perm: [0 1] sign: 1
}
