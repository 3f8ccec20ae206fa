// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/katalvlaran/matcmp/interchange"
)

// mgl32 matrices are column-major [N*N]float32 arrays, the same layout as
// interchange.Matrix, so conversions are plain copies.

// MathGL returns the mathgl backend, one native type per dimension.
func MathGL() Backend {
	return PerDim(NameMathGL, map[interchange.Dim]Backend{
		interchange.Dim2: Adapt[mgl32.Mat2](NameMathGL, mgl2{}),
		interchange.Dim3: Adapt[mgl32.Mat3](NameMathGL, mgl3{}),
		interchange.Dim4: Adapt[mgl32.Mat4](NameMathGL, mgl4{}),
	})
}

func expectDim(m interchange.Matrix, d interchange.Dim) error {
	if m.Dim() != d {
		return fmt.Errorf("got %s, want %s: %w", m.Dim(), d, ErrUnsupportedDim)
	}

	return nil
}

// isZero reports whether every element is zero. mgl32 signals a singular
// input by returning the zero matrix from Inv; no real inverse is all zero.
func isZero(vals []float32) bool {
	for _, v := range vals {
		if v != 0 {
			return false
		}
	}

	return true
}

type mgl2 struct{}

func (mgl2) FromInterchange(m interchange.Matrix) (mgl32.Mat2, error) {
	var out mgl32.Mat2
	if err := expectDim(m, interchange.Dim2); err != nil {
		return out, err
	}
	copy(out[:], m.ColumnMajor())

	return out, nil
}

func (mgl2) ToInterchange(v mgl32.Mat2) (interchange.Matrix, error) {
	return interchange.FromColumnMajor(interchange.Dim2, v[:])
}

func (mgl2) Mul(a, b mgl32.Mat2) (mgl32.Mat2, error) { return a.Mul2(b), nil }

func (mgl2) Det(a mgl32.Mat2) (float32, error) { return a.Det(), nil }

func (mgl2) Inverse(a mgl32.Mat2) (mgl32.Mat2, bool, error) {
	inv := a.Inv()

	return inv, !isZero(inv[:]), nil
}

type mgl3 struct{}

func (mgl3) FromInterchange(m interchange.Matrix) (mgl32.Mat3, error) {
	var out mgl32.Mat3
	if err := expectDim(m, interchange.Dim3); err != nil {
		return out, err
	}
	copy(out[:], m.ColumnMajor())

	return out, nil
}

func (mgl3) ToInterchange(v mgl32.Mat3) (interchange.Matrix, error) {
	return interchange.FromColumnMajor(interchange.Dim3, v[:])
}

func (mgl3) Mul(a, b mgl32.Mat3) (mgl32.Mat3, error) { return a.Mul3(b), nil }

func (mgl3) Det(a mgl32.Mat3) (float32, error) { return a.Det(), nil }

func (mgl3) Inverse(a mgl32.Mat3) (mgl32.Mat3, bool, error) {
	inv := a.Inv()

	return inv, !isZero(inv[:]), nil
}

type mgl4 struct{}

func (mgl4) FromInterchange(m interchange.Matrix) (mgl32.Mat4, error) {
	var out mgl32.Mat4
	if err := expectDim(m, interchange.Dim4); err != nil {
		return out, err
	}
	copy(out[:], m.ColumnMajor())

	return out, nil
}

func (mgl4) ToInterchange(v mgl32.Mat4) (interchange.Matrix, error) {
	return interchange.FromColumnMajor(interchange.Dim4, v[:])
}

func (mgl4) Mul(a, b mgl32.Mat4) (mgl32.Mat4, error) { return a.Mul4(b), nil }

func (mgl4) Det(a mgl32.Mat4) (float32, error) { return a.Det(), nil }

func (mgl4) Inverse(a mgl32.Mat4) (mgl32.Mat4, bool, error) {
	inv := a.Inv()

	return inv, !isZero(inv[:]), nil
}
