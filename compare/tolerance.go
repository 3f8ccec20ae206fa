// SPDX-License-Identifier: MIT

package compare

import (
	"fmt"
	"math"

	"github.com/katalvlaran/matcmp/interchange"
)

// Tolerance decides approximate equality of two float32 values.
//
// a and b agree when either
//   - |a-b| <= Abs + Rel*max(|a|, |b|), or
//   - they have the same sign and lie at most ULPs representable
//     float32 values apart.
//
// NaN agrees with nothing, itself included. Equal infinities agree.
type Tolerance struct {
	Abs  float64 `yaml:"abs,omitempty"`
	Rel  float64 `yaml:"rel,omitempty"`
	ULPs uint32  `yaml:"ulps,omitempty"`
}

func (t Tolerance) String() string {
	return fmt.Sprintf("abs=%.3g rel=%.3g ulps=%d", t.Abs, t.Rel, t.ULPs)
}

// Equal reports whether a and b agree under t.
func (t Tolerance) Equal(a, b float32) bool {
	if a == b {
		return true
	}
	x, y := float64(a), float64(b)
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	if math.Abs(x-y) <= t.Abs+t.Rel*math.Max(math.Abs(x), math.Abs(y)) {
		return true
	}

	return math.Signbit(x) == math.Signbit(y) && ULPDistance(a, b) <= t.ULPs
}

// FirstDifference returns the first column-major offset where got and want
// disagree, or -1 when every component agrees.
func (t Tolerance) FirstDifference(got, want interchange.Matrix) int {
	n := want.Dim().Len()
	for i := 0; i < n; i++ {
		if !t.Equal(got.Index(i), want.Index(i)) {
			return i
		}
	}

	return -1
}

// ScaleAbs returns t with Abs multiplied by f (f < 1 is treated as 1).
func (t Tolerance) ScaleAbs(f float64) Tolerance {
	if !(f > 1) {
		return t
	}
	t.Abs *= f

	return t
}

// Merge returns base with every non-zero field of override applied.
func Merge(base, override Tolerance) Tolerance {
	if override.Abs != 0 {
		base.Abs = override.Abs
	}
	if override.Rel != 0 {
		base.Rel = override.Rel
	}
	if override.ULPs != 0 {
		base.ULPs = override.ULPs
	}

	return base
}

// ULPDistance counts representable float32 values between a and b of the
// same sign. Values of opposite sign return math.MaxUint32.
func ULPDistance(a, b float32) uint32 {
	if math.Signbit(float64(a)) != math.Signbit(float64(b)) {
		return math.MaxUint32
	}
	ia := math.Float32bits(a) &^ (1 << 31)
	ib := math.Float32bits(b) &^ (1 << 31)
	if ia > ib {
		return ia - ib
	}

	return ib - ia
}

// Key selects one row of a Table.
type Key struct {
	Op  Op
	Dim interchange.Dim
}

// Table holds one tolerance per {op, dim}.
type Table map[Key]Tolerance

// Base tolerances. The inverse and identity-law bands are scaled per input
// by its conditioning; see Suite.
const (
	MulAbs = 1e-5
	MulRel = 1e-5
	// MulULPs also applies to determinants.
	MulULPs = 4

	DetRel = 1e-5

	InverseRel = 1e-5
)

// DetAbs, InverseAbs and IdentityAbs grow with the dimension; the 4x4
// inverse band of 1e-4 is the loosest.
var (
	DetAbs      = map[interchange.Dim]float64{interchange.Dim2: 1e-6, interchange.Dim3: 5e-6, interchange.Dim4: 5e-5}
	InverseAbs  = map[interchange.Dim]float64{interchange.Dim2: 1e-5, interchange.Dim3: 2e-5, interchange.Dim4: 1e-4}
	IdentityAbs = map[interchange.Dim]float64{interchange.Dim2: 1e-5, interchange.Dim3: 2e-5, interchange.Dim4: 5e-5}
)

// DefaultTable returns a fresh copy of the built-in tolerances.
func DefaultTable() Table {
	t := make(Table, len(Ops)*len(interchange.Dims))
	for _, d := range interchange.Dims {
		t[Key{OpMultiply, d}] = Tolerance{Abs: MulAbs, Rel: MulRel, ULPs: MulULPs}
		t[Key{OpDeterminant, d}] = Tolerance{Abs: DetAbs[d], Rel: DetRel, ULPs: MulULPs}
		t[Key{OpInverse, d}] = Tolerance{Abs: InverseAbs[d], Rel: InverseRel, ULPs: MulULPs}
		t[Key{OpIdentityLaw, d}] = Tolerance{Abs: IdentityAbs[d], ULPs: MulULPs}
	}

	return t
}

// For returns the tolerance for {op, d}, falling back to the built-in value.
func (t Table) For(op Op, d interchange.Dim) Tolerance {
	if tol, ok := t[Key{op, d}]; ok {
		return tol
	}

	return DefaultTable()[Key{op, d}]
}

// Merge returns a new table: t with each entry of over merged field-wise.
func (t Table) Merge(over Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range over {
		out[k] = Merge(out[k], v)
	}

	return out
}
