// SPDX-License-Identifier: MIT

package backend

import (
	"math"

	"github.com/katalvlaran/matcmp/interchange"
	gomatrix "github.com/skelterjohn/go.matrix"
)

// goMatrixLib drives skelterjohn/go.matrix's *DenseMatrix (row-major float64).
type goMatrixLib struct{}

// GoMatrix returns the go.matrix backend.
func GoMatrix() Backend { return Adapt[*gomatrix.DenseMatrix](NameGoMatrix, goMatrixLib{}) }

func (goMatrixLib) FromInterchange(m interchange.Matrix) (*gomatrix.DenseMatrix, error) {
	if err := validDim(m); err != nil {
		return nil, err
	}
	n := int(m.Dim())

	return gomatrix.MakeDenseMatrix(m.RowMajor64(), n, n), nil
}

func (goMatrixLib) ToInterchange(v *gomatrix.DenseMatrix) (interchange.Matrix, error) {
	d, err := squareDim(v.Rows(), v.Cols())
	if err != nil {
		return interchange.Matrix{}, err
	}
	n := int(d)
	vals := make([]float64, 0, d.Len())
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			vals = append(vals, v.Get(i, j))
		}
	}

	return interchange.FromRowMajor64(d, vals)
}

func (goMatrixLib) Mul(a, b *gomatrix.DenseMatrix) (*gomatrix.DenseMatrix, error) {
	return gomatrix.Product(a, b), nil
}

func (goMatrixLib) Det(a *gomatrix.DenseMatrix) (float32, error) {
	return float32(a.Det()), nil
}

// Inverse runs go.matrix's Gauss-Jordan elimination. Inputs are always
// square here, so the only error it can report is a zero pivot. A result
// with non-finite entries is treated as singular too.
func (goMatrixLib) Inverse(a *gomatrix.DenseMatrix) (*gomatrix.DenseMatrix, bool, error) {
	inv, err := a.Inverse()
	if err != nil {
		return nil, false, nil
	}
	var i, j int
	for i = 0; i < inv.Rows(); i++ {
		for j = 0; j < inv.Cols(); j++ {
			if v := inv.Get(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false, nil
			}
		}
	}

	return inv, true, nil
}
