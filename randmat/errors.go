// SPDX-License-Identifier: MIT

package randmat

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/matcmp/interchange"
)

// ErrGenerationFailed reports that no acceptable invertible matrix was found
// within the attempt budget.
var ErrGenerationFailed = errors.New("randmat: invertible matrix generation failed")

// ErrNotRigid is returned by RigidInverse for matrices that are not a
// rotation (2x2, 3x3) or rotation+translation (4x4).
var ErrNotRigid = errors.New("randmat: matrix is not a rigid transform")

// GenerationError carries the last rejected candidate's statistics.
type GenerationError struct {
	Dim      interchange.Dim
	Strategy Strategy
	Attempts int
	LastDet  float64 // determinant of the last rejected candidate
	LastCond float64 // κ∞ of the last rejected candidate
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s %s after %d attempts (last |det|=%.3g, cond=%.3g)",
		ErrGenerationFailed, e.Strategy, e.Dim, e.Attempts, e.LastDet, e.LastCond)
}

// Unwrap exposes ErrGenerationFailed to errors.Is.
func (e *GenerationError) Unwrap() error { return ErrGenerationFailed }
