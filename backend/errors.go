// SPDX-License-Identifier: MIT

package backend

import "errors"

var (
	// ErrUnsupportedDim is returned when a backend has no native type for
	// the requested dimension.
	ErrUnsupportedDim = errors.New("backend: unsupported dimension")

	// ErrUnknownBackend is returned by Lookup for an unregistered name.
	ErrUnknownBackend = errors.New("backend: unknown backend")

	// ErrShape is returned when a native result is not a supported square
	// matrix and cannot be brought back into the interchange form.
	ErrShape = errors.New("backend: native result has unsupported shape")
)
