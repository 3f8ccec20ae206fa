// SPDX-License-Identifier: MIT

// Package harness repeats one {operation, dimension} comparison many times
// with fresh seeds and stops at the first failure.
//
// Run is the programmatic entry point; Check adapts it to testing.TB so
// each {operation, dimension} pair becomes one (parallel) test. Every
// failure carries the seed of the failing iteration, and Replay re-runs
// exactly that iteration.
package harness
