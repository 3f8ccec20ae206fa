// SPDX-License-Identifier: MIT

package compare

import (
	"github.com/katalvlaran/matcmp/randmat"
)

const (
	panicReferenceOp    = "compare: WithReference: unknown operation"
	panicReferenceEmpty = "compare: WithReference: empty backend name"
)

// Option configures a Suite.
type Option func(*Suite)

// WithReference makes name the reference backend for op.
func WithReference(op Op, name string) Option {
	if !op.Valid() {
		panic(panicReferenceOp)
	}
	if name == "" {
		panic(panicReferenceEmpty)
	}

	return func(s *Suite) { s.reference[op] = name }
}

// WithReferenceAll makes name the reference backend for every operation.
func WithReferenceAll(name string) Option {
	if name == "" {
		panic(panicReferenceEmpty)
	}

	return func(s *Suite) {
		for _, op := range Ops {
			s.reference[op] = name
		}
	}
}

// WithTolerances merges over into the built-in tolerance table.
func WithTolerances(over Table) Option {
	return func(s *Suite) { s.tolerances = s.tolerances.Merge(over) }
}

// WithGenerator passes generator options to every seeded comparison.
func WithGenerator(opts ...randmat.Option) Option {
	return func(s *Suite) { s.gen = append(s.gen, opts...) }
}
