// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/katalvlaran/matcmp/interchange"
	"github.com/katalvlaran/matcmp/matrix"
)

// denseLib drives the in-house matrix kernels.
type denseLib struct{}

// Dense returns the backend over the in-house matrix package.
func Dense() Backend { return Adapt[matrix.Matrix](NameDense, denseLib{}) }

func (denseLib) FromInterchange(m interchange.Matrix) (matrix.Matrix, error) {
	if err := validDim(m); err != nil {
		return nil, err
	}
	n := int(m.Dim())

	return matrix.NewDenseFrom(n, n, m.RowMajor64())
}

func (denseLib) ToInterchange(v matrix.Matrix) (interchange.Matrix, error) {
	d, err := squareDim(v.Rows(), v.Cols())
	if err != nil {
		return interchange.Matrix{}, err
	}
	if dm, ok := v.(*matrix.Dense); ok {
		return interchange.FromRowMajor64(d, dm.RowMajor())
	}
	n := int(d)
	vals := make([]float64, 0, d.Len())
	var (
		i, j int
		x    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if x, err = v.At(i, j); err != nil {
				return interchange.Matrix{}, err
			}
			vals = append(vals, x)
		}
	}

	return interchange.FromRowMajor64(d, vals)
}

func (denseLib) Mul(a, b matrix.Matrix) (matrix.Matrix, error) {
	return matrix.Mul(a, b)
}

func (denseLib) Det(a matrix.Matrix) (float32, error) {
	d, err := matrix.Determinant(a)

	return float32(d), err
}

func (denseLib) Inverse(a matrix.Matrix) (matrix.Matrix, bool, error) {
	inv, err := matrix.Inverse(a)
	if errors.Is(err, matrix.ErrSingular) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return inv, true, nil
}
