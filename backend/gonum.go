// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"math"

	"github.com/katalvlaran/matcmp/interchange"
	"gonum.org/v1/gonum/mat"
)

// gonumLib drives gonum's *mat.Dense (row-major float64, LAPACK kernels).
type gonumLib struct{}

// Gonum returns the gonum backend.
func Gonum() Backend { return Adapt[*mat.Dense](NameGonum, gonumLib{}) }

func (gonumLib) FromInterchange(m interchange.Matrix) (*mat.Dense, error) {
	if err := validDim(m); err != nil {
		return nil, err
	}
	n := int(m.Dim())

	return mat.NewDense(n, n, m.RowMajor64()), nil
}

func (gonumLib) ToInterchange(v *mat.Dense) (interchange.Matrix, error) {
	r, c := v.Dims()
	d, err := squareDim(r, c)
	if err != nil {
		return interchange.Matrix{}, err
	}
	vals := make([]float64, 0, d.Len())
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			vals = append(vals, v.At(i, j))
		}
	}

	return interchange.FromRowMajor64(d, vals)
}

func (gonumLib) Mul(a, b *mat.Dense) (*mat.Dense, error) {
	var c mat.Dense
	c.Mul(a, b)

	return &c, nil
}

func (gonumLib) Det(a *mat.Dense) (float32, error) {
	return float32(mat.Det(a)), nil
}

// Inverse treats an infinite mat.Condition as singular. A finite condition
// error only warns about accuracy; the computed inverse is still returned.
func (gonumLib) Inverse(a *mat.Dense) (*mat.Dense, bool, error) {
	var inv mat.Dense
	err := inv.Inverse(a)
	if err == nil {
		return &inv, true, nil
	}
	var cond mat.Condition
	if errors.As(err, &cond) {
		if math.IsInf(float64(cond), 1) {
			return nil, false, nil
		}

		return &inv, true, nil
	}

	return nil, false, err
}
