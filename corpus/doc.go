// SPDX-License-Identifier: MIT

// Package corpus persists comparison failures in a SQLite database
// (modernc.org/sqlite, no cgo) so that any failure can be listed and
// replayed later from its seed.
//
// *Store implements harness.FailureSink.
package corpus
