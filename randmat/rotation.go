// SPDX-License-Identifier: MIT

package randmat

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/matcmp/interchange"
	"github.com/westphae/quaternion"
)

// rigidTol bounds how far a RigidInverse input may drift from orthonormal.
const rigidTol = 1e-4

// unitQuaternion draws a uniformly distributed rotation.
func unitQuaternion(r *rand.Rand) quaternion.Quaternion {
	for {
		q := quaternion.Quaternion{
			W: r.NormFloat64(),
			X: r.NormFloat64(),
			Y: r.NormFloat64(),
			Z: r.NormFloat64(),
		}
		if q.W*q.W+q.X*q.X+q.Y*q.Y+q.Z*q.Z > 1e-12 {
			return quaternion.Unit(q)
		}
	}
}

// rotate returns q·v·q*, the image of the pure quaternion v.
func rotate(q, v quaternion.Quaternion) quaternion.Quaternion {
	return quaternion.Prod(q, v, quaternion.Conj(q))
}

// rigid builds a rotation (2x2, 3x3) or rotation+translation (4x4).
// Columns are the rotated basis vectors, so the matrix acts on column vectors.
func rigid(r *rand.Rand, d interchange.Dim, o Options) interchange.Matrix {
	m := interchange.Zero(d)
	var q quaternion.Quaternion
	if d == interchange.Dim2 {
		// planar rotation: a quaternion about the z axis
		half := math.Pi * r.Float64()
		q = quaternion.Quaternion{W: math.Cos(half), Z: math.Sin(half)}
	} else {
		q = unitQuaternion(r)
	}

	basis := [3]quaternion.Quaternion{{X: 1}, {Y: 1}, {Z: 1}}
	k := int(d)
	if k > 3 {
		k = 3
	}
	var row, col int
	for col = 0; col < k; col++ {
		img := rotate(q, basis[col])
		coords := [3]float64{img.X, img.Y, img.Z}
		for row = 0; row < k; row++ {
			m.Set(row, col, float32(coords[row]))
		}
	}

	if d == interchange.Dim4 {
		for row = 0; row < 3; row++ {
			m.Set(row, 3, draw(r, o.low, o.high))
		}
		m.Set(3, 3, 1)
	}

	return m
}

// RigidInverse returns the exact inverse of a rigid transform: Rᵀ for a
// rotation and [Rᵀ, -Rᵀt; 0, 1] for a 4x4 rotation+translation.
//
// Errors:
//   - ErrNotRigid if the linear part is not orthonormal within rigidTol, or a
//     4x4 input does not have (0, 0, 0, 1) as its last row.
func RigidInverse(m interchange.Matrix) (interchange.Matrix, error) {
	d := m.Dim()
	k := int(d)
	if d == interchange.Dim4 {
		k = 3
		if m.At(3, 0) != 0 || m.At(3, 1) != 0 || m.At(3, 2) != 0 || m.At(3, 3) != 1 {
			return interchange.Matrix{}, fmt.Errorf("RigidInverse: bottom row: %w", ErrNotRigid)
		}
	}

	// RᵀR ≈ I
	var (
		i, j, l int
		dot     float64
		want    float64
	)
	for i = 0; i < k; i++ {
		for j = 0; j < k; j++ {
			dot = 0
			for l = 0; l < k; l++ {
				dot += float64(m.At(l, i)) * float64(m.At(l, j))
			}
			want = 0
			if i == j {
				want = 1
			}
			if math.Abs(dot-want) > rigidTol {
				return interchange.Matrix{}, fmt.Errorf("RigidInverse: column %d·%d = %g: %w", i, j, dot, ErrNotRigid)
			}
		}
	}

	inv := interchange.Zero(d)
	for i = 0; i < k; i++ {
		for j = 0; j < k; j++ {
			inv.Set(i, j, m.At(j, i))
		}
	}
	if d == interchange.Dim4 {
		var t float64
		for i = 0; i < 3; i++ {
			t = 0
			for l = 0; l < 3; l++ {
				t -= float64(m.At(l, i)) * float64(m.At(l, 3))
			}
			inv.Set(i, 3, float32(t))
		}
		inv.Set(3, 3, 1)
	}

	return inv, nil
}
