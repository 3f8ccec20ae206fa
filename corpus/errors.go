// SPDX-License-Identifier: MIT

package corpus

import "errors"

var (
	// ErrNotFound is returned by Get and Delete for an unknown id.
	ErrNotFound = errors.New("corpus: failure not found")

	// ErrCorrupt reports a stored row that cannot be decoded.
	ErrCorrupt = errors.New("corpus: corrupt record")
)
