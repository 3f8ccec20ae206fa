// SPDX-License-Identifier: MIT

package compare

import (
	"fmt"
	"strings"
)

// Op is a compared operation.
type Op int

// Supported operations.
const (
	OpMultiply Op = iota
	OpDeterminant
	OpInverse
	// OpIdentityLaw checks A·inv(A) ≈ I inside each backend.
	OpIdentityLaw
)

// Ops lists every operation in declaration order.
var Ops = []Op{OpMultiply, OpDeterminant, OpInverse, OpIdentityLaw}

var opNames = [...]string{
	OpMultiply:    "multiply",
	OpDeterminant: "determinant",
	OpInverse:     "inverse",
	OpIdentityLaw: "identity",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}

	return opNames[o]
}

// Valid reports whether o is a declared operation.
func (o Op) Valid() bool { return o >= OpMultiply && o <= OpIdentityLaw }

// ParseOp maps an operation name ("mul" and "det" are accepted too).
func ParseOp(name string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "multiply", "mul":
		return OpMultiply, nil
	case "determinant", "det":
		return OpDeterminant, nil
	case "inverse", "inv":
		return OpInverse, nil
	case "identity", "identity-law":
		return OpIdentityLaw, nil
	}

	return 0, fmt.Errorf("ParseOp(%q): %w", name, ErrUnknownOp)
}
