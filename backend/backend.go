// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/matcmp/interchange"
)

// Backend names.
const (
	NameGonum    = "gonum"
	NameGoMatrix = "gomatrix"
	NameMathGL   = "mathgl"
	NameDense    = "dense"
)

// Library is a linear-algebra library described in its own matrix type T.
type Library[T any] interface {
	// FromInterchange converts into the native type without changing layout.
	FromInterchange(m interchange.Matrix) (T, error)

	// ToInterchange converts back; float64 values are rounded to float32 here.
	ToInterchange(v T) (interchange.Matrix, error)

	// Mul returns a·b under the column-vector convention: (a·b)·v = a·(b·v).
	Mul(a, b T) (T, error)

	// Det returns det(a).
	Det(a T) (float32, error)

	// Inverse returns a⁻¹. ok is false when the library deems a singular;
	// err is reserved for failures that are not about invertibility.
	Inverse(a T) (inv T, ok bool, err error)
}

// Backend is a Library erased to the interchange representation.
type Backend interface {
	Name() string
	Multiply(a, b interchange.Matrix) (interchange.Matrix, error)
	Determinant(a interchange.Matrix) (float32, error)
	Inverse(a interchange.Matrix) (inv interchange.Matrix, ok bool, err error)
}

// backendErrorf wraps err with the backend name and operation.
func backendErrorf(name, op string, err error) error {
	return fmt.Errorf("%s.%s: %w", name, op, err)
}

// adapter erases a Library[T].
type adapter[T any] struct {
	name string
	lib  Library[T]
}

// Adapt erases lib into a Backend named name.
func Adapt[T any](name string, lib Library[T]) Backend {
	return &adapter[T]{name: name, lib: lib}
}

func (a *adapter[T]) Name() string { return a.name }

func (a *adapter[T]) Multiply(x, y interchange.Matrix) (interchange.Matrix, error) {
	nx, err := a.lib.FromInterchange(x)
	if err != nil {
		return interchange.Matrix{}, backendErrorf(a.name, "Multiply", err)
	}
	ny, err := a.lib.FromInterchange(y)
	if err != nil {
		return interchange.Matrix{}, backendErrorf(a.name, "Multiply", err)
	}
	p, err := a.lib.Mul(nx, ny)
	if err != nil {
		return interchange.Matrix{}, backendErrorf(a.name, "Multiply", err)
	}
	out, err := a.lib.ToInterchange(p)
	if err != nil {
		return interchange.Matrix{}, backendErrorf(a.name, "Multiply", err)
	}

	return out, nil
}

func (a *adapter[T]) Determinant(x interchange.Matrix) (float32, error) {
	nx, err := a.lib.FromInterchange(x)
	if err != nil {
		return 0, backendErrorf(a.name, "Determinant", err)
	}
	d, err := a.lib.Det(nx)
	if err != nil {
		return 0, backendErrorf(a.name, "Determinant", err)
	}

	return d, nil
}

func (a *adapter[T]) Inverse(x interchange.Matrix) (interchange.Matrix, bool, error) {
	nx, err := a.lib.FromInterchange(x)
	if err != nil {
		return interchange.Matrix{}, false, backendErrorf(a.name, "Inverse", err)
	}
	inv, ok, err := a.lib.Inverse(nx)
	if err != nil {
		return interchange.Matrix{}, false, backendErrorf(a.name, "Inverse", err)
	}
	if !ok {
		return interchange.Matrix{}, false, nil
	}
	out, err := a.lib.ToInterchange(inv)
	if err != nil {
		return interchange.Matrix{}, false, backendErrorf(a.name, "Inverse", err)
	}

	return out, true, nil
}

// perDim routes each call to the backend registered for the input's Dim.
type perDim struct {
	name  string
	byDim map[interchange.Dim]Backend
}

// PerDim joins dimension-specific backends under one name. Inputs of a
// dimension with no entry fail with ErrUnsupportedDim.
func PerDim(name string, byDim map[interchange.Dim]Backend) Backend {
	cp := make(map[interchange.Dim]Backend, len(byDim))
	for d, b := range byDim {
		cp[d] = b
	}

	return &perDim{name: name, byDim: cp}
}

func (p *perDim) Name() string { return p.name }

func (p *perDim) pick(op string, d interchange.Dim) (Backend, error) {
	b, ok := p.byDim[d]
	if !ok {
		return nil, backendErrorf(p.name, op, fmt.Errorf("%s: %w", d, ErrUnsupportedDim))
	}

	return b, nil
}

func (p *perDim) Multiply(a, b interchange.Matrix) (interchange.Matrix, error) {
	be, err := p.pick("Multiply", a.Dim())
	if err != nil {
		return interchange.Matrix{}, err
	}

	return be.Multiply(a, b)
}

func (p *perDim) Determinant(a interchange.Matrix) (float32, error) {
	be, err := p.pick("Determinant", a.Dim())
	if err != nil {
		return 0, err
	}

	return be.Determinant(a)
}

func (p *perDim) Inverse(a interchange.Matrix) (interchange.Matrix, bool, error) {
	be, err := p.pick("Inverse", a.Dim())
	if err != nil {
		return interchange.Matrix{}, false, err
	}

	return be.Inverse(a)
}

// Default returns every built-in backend in a fixed order.
func Default() []Backend {
	return []Backend{Gonum(), GoMatrix(), MathGL(), Dense()}
}

// Names lists the built-in backend names, sorted.
func Names() []string {
	out := make([]string, 0, 4)
	for _, b := range Default() {
		out = append(out, b.Name())
	}
	sort.Strings(out)

	return out
}

// Lookup returns the built-in backend with the given name.
func Lookup(name string) (Backend, error) {
	for _, b := range Default() {
		if b.Name() == name {
			return b, nil
		}
	}

	return nil, fmt.Errorf("Lookup(%q): %w", name, ErrUnknownBackend)
}

// Select resolves names in order; an empty list means Default().
func Select(names ...string) ([]Backend, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	out := make([]Backend, 0, len(names))
	for _, n := range names {
		b, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, nil
}

// squareDim validates a native r×c shape and returns the interchange Dim.
func squareDim(r, c int) (interchange.Dim, error) {
	d := interchange.Dim(r)
	if r != c || !d.Valid() {
		return 0, fmt.Errorf("%dx%d: %w", r, c, ErrShape)
	}

	return d, nil
}

// validDim rejects the zero Matrix and any unsupported dimension.
func validDim(m interchange.Matrix) error {
	if !m.Dim().Valid() {
		return fmt.Errorf("%d: %w", int(m.Dim()), ErrUnsupportedDim)
	}

	return nil
}
