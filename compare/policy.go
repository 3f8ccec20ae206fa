// SPDX-License-Identifier: MIT

package compare

import "github.com/katalvlaran/matcmp/backend"

// DefaultReference is the backend every other backend is checked against,
// for every operation.
//
// gonum computes determinant and inverse from a float64 LAPACK LU with
// partial pivoting. The choice is a fixed policy; WithReference overrides
// it per operation.
const DefaultReference = backend.NameGonum

// defaultPolicy maps each operation to its reference backend name.
func defaultPolicy() map[Op]string {
	p := make(map[Op]string, len(Ops))
	for _, op := range Ops {
		p[op] = DefaultReference
	}

	return p
}
