// SPDX-License-Identifier: MIT

package interchange

import "math"

// The helpers below work in float64 on the exact float32 inputs. They use
// closed-form cofactor expansion, which is cheap and accurate enough for
// N <= 4 and shares no code path with any backend.

// grid returns the matrix as row-major float64 rows.
func grid(m Matrix) [][]float64 {
	n := int(m.dim)
	g := make([][]float64, n)
	var r, c int
	for r = 0; r < n; r++ {
		g[r] = make([]float64, n)
		for c = 0; c < n; c++ {
			g[r][c] = float64(m.data[c*n+r])
		}
	}

	return g
}

// minor drops row `skipR` and column `skipC`.
func minor(g [][]float64, skipR, skipC int) [][]float64 {
	n := len(g)
	out := make([][]float64, 0, n-1)
	var r, c int
	for r = 0; r < n; r++ {
		if r == skipR {
			continue
		}
		row := make([]float64, 0, n-1)
		for c = 0; c < n; c++ {
			if c == skipC {
				continue
			}
			row = append(row, g[r][c])
		}
		out = append(out, row)
	}

	return out
}

// cofactorDet expands along the first row.
func cofactorDet(g [][]float64) float64 {
	switch len(g) {
	case 1:
		return g[0][0]
	case 2:
		return g[0][0]*g[1][1] - g[0][1]*g[1][0]
	}
	var (
		sum  float64
		sign = 1.0
	)
	for c := range g[0] {
		if g[0][c] != 0 {
			sum += sign * g[0][c] * cofactorDet(minor(g, 0, c))
		}
		sign = -sign
	}

	return sum
}

// Determinant64 returns det(m) computed in float64.
func Determinant64(m Matrix) float64 {
	return cofactorDet(grid(m))
}

// Inverse64 returns m⁻¹ = adj(m)/det(m) in row-major float64.
// ok is false when the determinant is exactly zero.
func Inverse64(m Matrix) (inv []float64, ok bool) {
	g := grid(m)
	det := cofactorDet(g)
	if det == 0 {
		return nil, false
	}
	n := len(g)
	inv = make([]float64, n*n)
	var (
		r, c int
		sign float64
	)
	for r = 0; r < n; r++ {
		for c = 0; c < n; c++ {
			sign = 1
			if (r+c)%2 == 1 {
				sign = -1
			}
			// adj(m)[c][r] = cofactor(r, c)
			inv[c*n+r] = sign * cofactorDet(minor(g, r, c)) / det
		}
	}

	return inv, true
}

// NormInf returns the maximum absolute row sum ‖m‖∞.
func NormInf(m Matrix) float64 {
	return normInfRowMajor(m.RowMajor64(), int(m.dim))
}

func normInfRowMajor(vals []float64, n int) float64 {
	var (
		best, sum float64
		r, c      int
	)
	for r = 0; r < n; r++ {
		sum = 0
		for c = 0; c < n; c++ {
			sum += math.Abs(vals[r*n+c])
		}
		if sum > best {
			best = sum
		}
	}

	return best
}

// Condition returns κ∞(m) = ‖m‖∞·‖m⁻¹‖∞, or +Inf for a singular matrix.
func Condition(m Matrix) float64 {
	inv, ok := Inverse64(m)
	if !ok {
		return math.Inf(1)
	}

	return NormInf(m) * normInfRowMajor(inv, int(m.dim))
}

// MaxAbs returns the largest absolute element of m.
func MaxAbs(m Matrix) float64 {
	var best float64
	for _, v := range m.data[:m.dim.Len()] {
		if a := math.Abs(float64(v)); a > best {
			best = a
		}
	}

	return best
}
