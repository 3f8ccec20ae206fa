// SPDX-License-Identifier: MIT

package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/matcmp/interchange"
)

var (
	// ErrMismatch matches every *MismatchError.
	ErrMismatch = errors.New("compare: results disagree")

	// ErrInvertibility additionally matches mismatches where backends
	// disagree on whether the input has an inverse.
	ErrInvertibility = errors.New("compare: invertibility disagreement")

	// ErrBackend matches every *BackendError.
	ErrBackend = errors.New("compare: backend failure")

	// ErrUnknownOp is returned for an undeclared operation.
	ErrUnknownOp = errors.New("compare: unknown operation")

	// ErrInputs is returned when CompareInputs gets the wrong input count.
	ErrInputs = errors.New("compare: wrong number of inputs")

	// ErrNoBackends is returned by NewSuite without any backend.
	ErrNoBackends = errors.New("compare: no backends")

	// ErrNoReference is returned when the reference for an operation is not
	// among the suite's backends.
	ErrNoReference = errors.New("compare: reference backend missing")
)

// Kind classifies a mismatch.
type Kind int

const (
	// KindValue: both sides produced a value and the values disagree.
	KindValue Kind = iota
	// KindInvertibility: one side found an inverse and the other did not.
	KindInvertibility
)

func (k Kind) String() string {
	if k == KindInvertibility {
		return "invertibility"
	}

	return "value"
}

// MismatchError describes the first disagreement of one comparison.
type MismatchError struct {
	Kind      Kind
	Op        Op
	Dim       interchange.Dim
	Seed      uint64 // 0 when the inputs were given explicitly
	Reference string
	Library   string
	Inputs    []interchange.Matrix

	// Matrix results; Index is the first differing column-major offset.
	Want, Got interchange.Matrix
	Index     int

	// Scalar results (determinant).
	WantScalar, GotScalar float32
	Scalar                bool

	// Invertibility verdicts.
	WantInvertible, GotInvertible bool

	Tolerance Tolerance
}

// Error renders a one-line summary; Detail adds the matrices.
func (e *MismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "compare: %s %s %s mismatch: %s vs reference %s", e.Op, e.Dim, e.Kind, e.Library, e.Reference)
	switch {
	case e.Kind == KindInvertibility:
		fmt.Fprintf(&sb, ": invertible=%t, reference invertible=%t", e.GotInvertible, e.WantInvertible)
	case e.Scalar:
		fmt.Fprintf(&sb, ": got %g want %g (%s)", e.GotScalar, e.WantScalar, e.Tolerance)
	default:
		r, c := e.Position()
		fmt.Fprintf(&sb, " at (%d,%d): got %g want %g (%s)", r, c, e.Got.Index(e.Index), e.Want.Index(e.Index), e.Tolerance)
	}
	if e.Seed != 0 {
		fmt.Fprintf(&sb, " [seed %d]", e.Seed)
	}

	return sb.String()
}

// Position returns the (row, col) of Index.
func (e *MismatchError) Position() (row, col int) {
	n := int(e.Dim)
	if n == 0 {
		return 0, 0
	}

	return e.Index % n, e.Index / n
}

// Detail renders the summary followed by every input and both results.
func (e *MismatchError) Detail() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteByte('\n')
	for i, in := range e.Inputs {
		fmt.Fprintf(&sb, "input %d:\n%s", i, in)
	}
	if e.Kind == KindValue && !e.Scalar {
		fmt.Fprintf(&sb, "%s (reference):\n%s", e.Reference, e.Want)
		fmt.Fprintf(&sb, "%s:\n%s", e.Library, e.Got)
	}

	return sb.String()
}

// Unwrap exposes ErrMismatch, plus ErrInvertibility for that kind.
func (e *MismatchError) Unwrap() []error {
	if e.Kind == KindInvertibility {
		return []error{ErrMismatch, ErrInvertibility}
	}

	return []error{ErrMismatch}
}

// BackendError is a library failure unrelated to invertibility. It is fatal
// to the comparison.
type BackendError struct {
	Library string
	Op      Op
	Dim     interchange.Dim
	Seed    uint64
	Err     error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s: %s %s on %s: %v", ErrBackend, e.Op, e.Dim, e.Library, e.Err)
	if e.Seed != 0 {
		msg += fmt.Sprintf(" [seed %d]", e.Seed)
	}

	return msg
}

// Unwrap exposes ErrBackend and the library's own error.
func (e *BackendError) Unwrap() []error { return []error{ErrBackend, e.Err} }
