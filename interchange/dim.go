// SPDX-License-Identifier: MIT

package interchange

import (
	"fmt"
	"strconv"
	"strings"
)

// Dim is the side length of a square interchange matrix.
type Dim int

// Supported dimensions.
const (
	Dim2 Dim = 2
	Dim3 Dim = 3
	Dim4 Dim = 4
)

// MaxLen is the number of elements in the largest supported matrix.
const MaxLen = int(Dim4) * int(Dim4)

// Dims lists every supported dimension in ascending order.
var Dims = []Dim{Dim2, Dim3, Dim4}

// Valid reports whether d is one of Dim2, Dim3, Dim4.
func (d Dim) Valid() bool {
	return d == Dim2 || d == Dim3 || d == Dim4
}

// Len returns N*N.
func (d Dim) Len() int { return int(d) * int(d) }

// String renders the dimension as "NxN".
func (d Dim) String() string {
	return fmt.Sprintf("%dx%d", int(d), int(d))
}

// ParseDim accepts "2", "3", "4" or the "NxN" forms.
func ParseDim(s string) (Dim, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if before, after, ok := strings.Cut(s, "x"); ok {
		if before != after {
			return 0, fmt.Errorf("ParseDim(%q): %w", s, ErrBadDim)
		}
		s = before
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("ParseDim(%q): %w", s, ErrBadDim)
	}
	d := Dim(n)
	if !d.Valid() {
		return 0, fmt.Errorf("ParseDim(%q): %w", s, ErrBadDim)
	}

	return d, nil
}

// validateDim returns ErrBadDim wrapped with the call-site tag.
func validateDim(tag string, d Dim) error {
	if !d.Valid() {
		return fmt.Errorf("%s(%d): %w", tag, int(d), ErrBadDim)
	}

	return nil
}
