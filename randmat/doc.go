// SPDX-License-Identifier: MIT

// Package randmat draws random interchange matrices for the comparison suite.
//
// All draws come from a caller-owned *rand.Rand, normally built by NewSource
// over a seeded xoshiro256+ generator, so a seed fully determines every
// matrix drawn from it.
//
//   - Uniform draws i.i.d. entries from [Low, High), default [-1, 1).
//   - Invertible guarantees a non-singular, reasonably conditioned result.
//     Every strategy runs through the same acceptance test
//     (|det| >= MinAbsDet and κ∞ <= MaxCondition) bounded by MaxAttempts;
//     exhausting the attempts yields a *GenerationError.
//
// Strategies:
//   - StrategyRejection: plain uniform draws, rejected until accepted.
//   - StrategyDiagonal: strictly diagonally dominant rows (margin ≥ 1), which
//     bounds |det| ≥ 1 by construction.
//   - StrategyRotation: rigid transforms from a random unit quaternion; the
//     exact inverse is available through RigidInverse.
package randmat
