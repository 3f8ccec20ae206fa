// SPDX-License-Identifier: MIT

package compare

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/interchange"
	"github.com/katalvlaran/matcmp/randmat"
)

// Suite compares a fixed set of backends. It holds no per-comparison state
// and is safe for concurrent use.
type Suite struct {
	backends   []backend.Backend
	reference  map[Op]string
	tolerances Table
	gen        []randmat.Option
}

// NewSuite builds a suite over backends.
//
// Errors:
//   - ErrNoBackends for an empty list.
//   - ErrNoReference if an operation's reference is not in the list.
func NewSuite(backends []backend.Backend, opts ...Option) (*Suite, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	s := &Suite{
		backends:   append([]backend.Backend(nil), backends...),
		reference:  defaultPolicy(),
		tolerances: DefaultTable(),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(s)
		}
	}
	for _, op := range Ops {
		if s.lookup(s.reference[op]) == nil {
			return nil, fmt.Errorf("NewSuite: %s reference %q: %w", op, s.reference[op], ErrNoReference)
		}
	}

	return s, nil
}

// Backends returns the backend names in suite order.
func (s *Suite) Backends() []string {
	out := make([]string, len(s.backends))
	for i, b := range s.backends {
		out[i] = b.Name()
	}

	return out
}

// Reference returns the reference backend name for op.
func (s *Suite) Reference(op Op) string { return s.reference[op] }

// Tolerance returns the base tolerance for {op, d}.
func (s *Suite) Tolerance(op Op, d interchange.Dim) Tolerance { return s.tolerances.For(op, d) }

func (s *Suite) lookup(name string) backend.Backend {
	for _, b := range s.backends {
		if b.Name() == name {
			return b
		}
	}

	return nil
}

// others returns every backend except the reference, in suite order.
func (s *Suite) others(ref string) []backend.Backend {
	out := make([]backend.Backend, 0, len(s.backends))
	for _, b := range s.backends {
		if b.Name() != ref {
			out = append(out, b)
		}
	}

	return out
}

// Inputs draws the inputs Compare would use for {op, d, seed}.
//
// Multiply draws two uniform matrices, Determinant one; Inverse and
// IdentityLaw draw one invertible matrix.
func (s *Suite) Inputs(op Op, d interchange.Dim, seed uint64) ([]interchange.Matrix, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("Inputs: %w", ErrUnknownOp)
	}
	if !d.Valid() {
		return nil, fmt.Errorf("Inputs: %w", interchange.ErrBadDim)
	}
	r := randmat.NewSource(seed)
	switch op {
	case OpMultiply:
		a := randmat.Uniform(r, d, s.gen...)
		b := randmat.Uniform(r, d, s.gen...)

		return []interchange.Matrix{a, b}, nil
	case OpDeterminant:
		return []interchange.Matrix{randmat.Uniform(r, d, s.gen...)}, nil
	default:
		a, err := randmat.Invertible(r, d, s.gen...)
		if err != nil {
			return nil, fmt.Errorf("Inputs: %s %s [seed %d]: %w", op, d, seed, err)
		}

		return []interchange.Matrix{a}, nil
	}
}

// Compare draws inputs for {op, d} from seed and runs the comparison.
// Any *MismatchError or *BackendError returned carries the seed.
func (s *Suite) Compare(op Op, d interchange.Dim, seed uint64) error {
	in, err := s.Inputs(op, d, seed)
	if err != nil {
		return err
	}

	return withSeed(s.CompareInputs(op, in), seed)
}

// CompareInputs runs op on inputs shaped as Inputs returns them: two
// matrices for Multiply, one otherwise.
//
// Inverse and IdentityLaw inputs are treated as generated invertible, so a
// common "singular" verdict is a KindInvertibility mismatch against
// GeneratorReference. Use CompareInverse for inputs that may be singular.
//
// Errors: ErrUnknownOp, ErrInputs, plus those of the per-op comparisons.
func (s *Suite) CompareInputs(op Op, in []interchange.Matrix) error {
	if !op.Valid() {
		return fmt.Errorf("CompareInputs: %w", ErrUnknownOp)
	}
	want := 1
	if op == OpMultiply {
		want = 2
	}
	if len(in) != want {
		return fmt.Errorf("CompareInputs: %s takes %d inputs, got %d: %w", op, want, len(in), ErrInputs)
	}

	switch op {
	case OpMultiply:
		return s.CompareMultiply(in[0], in[1])
	case OpDeterminant:
		return s.CompareDeterminant(in[0])
	case OpInverse:
		ok, err := s.CompareInverse(in[0])
		if err == nil && !ok {
			err = s.notInvertible(OpInverse, in[0])
		}

		return err
	default:
		return s.compareIdentityLaw(in[0], true)
	}
}

// GeneratorReference is the Reference of a mismatch whose expected verdict comes
// from the input generator rather than from a backend.
const GeneratorReference = "generator"

// notInvertible reports a generated, guaranteed-invertible input that the
// reference for op found singular.
func (s *Suite) notInvertible(op Op, a interchange.Matrix) error {
	return &MismatchError{
		Kind: KindInvertibility, Op: op, Dim: a.Dim(),
		Reference: GeneratorReference, Library: s.reference[op],
		Inputs:         []interchange.Matrix{a},
		WantInvertible: true, GotInvertible: false,
		Index:          -1,
		Tolerance:      s.tolerances.For(op, a.Dim()),
	}
}

func withSeed(err error, seed uint64) error {
	var mm *MismatchError
	if errors.As(err, &mm) {
		mm.Seed = seed
	}
	var be *BackendError
	if errors.As(err, &be) {
		be.Seed = seed
	}

	return err
}

// CompareMultiply checks a·b across backends.
func (s *Suite) CompareMultiply(a, b interchange.Matrix) error {
	d := a.Dim()
	if b.Dim() != d {
		return fmt.Errorf("CompareMultiply: %s·%s: %w", a.Dim(), b.Dim(), interchange.ErrBadDim)
	}
	ref := s.lookup(s.reference[OpMultiply])
	want, err := ref.Multiply(a, b)
	if err != nil {
		return &BackendError{Library: ref.Name(), Op: OpMultiply, Dim: d, Err: err}
	}
	tol := s.tolerances.For(OpMultiply, d)
	for _, be := range s.others(ref.Name()) {
		got, err := be.Multiply(a, b)
		if err != nil {
			return &BackendError{Library: be.Name(), Op: OpMultiply, Dim: d, Err: err}
		}
		if idx := tol.FirstDifference(got, want); idx >= 0 {
			return &MismatchError{
				Kind: KindValue, Op: OpMultiply, Dim: d,
				Reference: ref.Name(), Library: be.Name(),
				Inputs: []interchange.Matrix{a, b},
				Want:   want, Got: got, Index: idx,
				Tolerance: tol,
			}
		}
	}

	return nil
}

// CompareDeterminant checks det(a) across backends.
func (s *Suite) CompareDeterminant(a interchange.Matrix) error {
	d := a.Dim()
	ref := s.lookup(s.reference[OpDeterminant])
	want, err := ref.Determinant(a)
	if err != nil {
		return &BackendError{Library: ref.Name(), Op: OpDeterminant, Dim: d, Err: err}
	}
	tol := s.tolerances.For(OpDeterminant, d)
	for _, be := range s.others(ref.Name()) {
		got, err := be.Determinant(a)
		if err != nil {
			return &BackendError{Library: be.Name(), Op: OpDeterminant, Dim: d, Err: err}
		}
		if !tol.Equal(got, want) {
			return &MismatchError{
				Kind: KindValue, Op: OpDeterminant, Dim: d,
				Reference: ref.Name(), Library: be.Name(),
				Inputs:     []interchange.Matrix{a},
				WantScalar: want, GotScalar: got, Scalar: true,
				Tolerance: tol,
			}
		}
	}

	return nil
}

// inverseScale is κ∞(a)·max(1, ‖a⁻¹‖max), with a⁻¹ taken from the reference.
func inverseScale(a, inv interchange.Matrix) float64 {
	return interchange.NormInf(a) * interchange.NormInf(inv) * max(1, interchange.MaxAbs(inv))
}

// CompareInverse checks a⁻¹ across backends. invertible is the common
// verdict; when every backend finds a singular, the result is (false, nil).
// A split verdict is a KindInvertibility mismatch.
func (s *Suite) CompareInverse(a interchange.Matrix) (invertible bool, err error) {
	d := a.Dim()
	ref := s.lookup(s.reference[OpInverse])
	want, wantOK, err := ref.Inverse(a)
	if err != nil {
		return false, &BackendError{Library: ref.Name(), Op: OpInverse, Dim: d, Err: err}
	}
	tol := s.tolerances.For(OpInverse, d)
	if wantOK {
		tol = tol.ScaleAbs(inverseScale(a, want))
	}
	for _, be := range s.others(ref.Name()) {
		got, gotOK, err := be.Inverse(a)
		if err != nil {
			return false, &BackendError{Library: be.Name(), Op: OpInverse, Dim: d, Err: err}
		}
		if gotOK != wantOK {
			return false, &MismatchError{
				Kind: KindInvertibility, Op: OpInverse, Dim: d,
				Reference: ref.Name(), Library: be.Name(),
				Inputs:         []interchange.Matrix{a},
				WantInvertible: wantOK, GotInvertible: gotOK,
				Want: want, Got: got, Index: -1,
				Tolerance: tol,
			}
		}
		if !wantOK {
			continue
		}
		if idx := tol.FirstDifference(got, want); idx >= 0 {
			return false, &MismatchError{
				Kind: KindValue, Op: OpInverse, Dim: d,
				Reference: ref.Name(), Library: be.Name(),
				Inputs: []interchange.Matrix{a},
				Want:   want, Got: got, Index: idx,
				WantInvertible: true, GotInvertible: true,
				Tolerance: tol,
			}
		}
	}

	return wantOK, nil
}

// CompareIdentityLaw checks a·inv(a) ≈ I within every backend, each using
// its own inverse and its own multiply. The band scales with κ∞(a).
//
// A backend that finds no inverse for a is a KindInvertibility mismatch
// against the reference's verdict.
func (s *Suite) CompareIdentityLaw(a interchange.Matrix) error {
	return s.compareIdentityLaw(a, false)
}

// compareIdentityLaw with mustInvert set fails when the reference finds a
// singular.
func (s *Suite) compareIdentityLaw(a interchange.Matrix, mustInvert bool) error {
	d := a.Dim()
	I := interchange.Identity(d)
	refName := s.reference[OpIdentityLaw]
	ref := s.lookup(refName)
	refInv, refOK, err := ref.Inverse(a)
	if err != nil {
		return &BackendError{Library: refName, Op: OpIdentityLaw, Dim: d, Err: err}
	}
	if mustInvert && !refOK {
		return s.notInvertible(OpIdentityLaw, a)
	}
	tol := s.tolerances.For(OpIdentityLaw, d)
	if refOK {
		tol = tol.ScaleAbs(interchange.NormInf(a) * interchange.NormInf(refInv))
	}

	for _, be := range s.backends {
		inv, ok, err := be.Inverse(a)
		if err != nil {
			return &BackendError{Library: be.Name(), Op: OpIdentityLaw, Dim: d, Err: err}
		}
		if ok != refOK {
			return &MismatchError{
				Kind: KindInvertibility, Op: OpIdentityLaw, Dim: d,
				Reference: refName, Library: be.Name(),
				Inputs:         []interchange.Matrix{a},
				WantInvertible: refOK, GotInvertible: ok,
				Index:          -1,
				Tolerance:      tol,
			}
		}
		if !ok {
			continue
		}
		prod, err := be.Multiply(a, inv)
		if err != nil {
			return &BackendError{Library: be.Name(), Op: OpIdentityLaw, Dim: d, Err: err}
		}
		if idx := tol.FirstDifference(prod, I); idx >= 0 {
			return &MismatchError{
				Kind: KindValue, Op: OpIdentityLaw, Dim: d,
				Reference: refName, Library: be.Name(),
				Inputs: []interchange.Matrix{a},
				Want:   I, Got: prod, Index: idx,
				WantInvertible: true, GotInvertible: true,
				Tolerance: tol,
			}
		}
	}

	return nil
}
