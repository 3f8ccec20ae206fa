// SPDX-License-Identifier: MIT

package interchange

import "errors"

var (
	// ErrBadDim is returned when a dimension other than 2, 3 or 4 is requested.
	ErrBadDim = errors.New("interchange: dimension must be 2, 3 or 4")

	// ErrBadLength is returned when a flat slice does not hold exactly N*N values.
	ErrBadLength = errors.New("interchange: value count does not match dimension")

	// ErrRagged is returned by FromRows when rows have different lengths.
	ErrRagged = errors.New("interchange: rows have different lengths")
)
