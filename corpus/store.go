// SPDX-License-Identifier: MIT

package corpus

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/harness"
	"github.com/katalvlaran/matcmp/interchange"

	_ "modernc.org/sqlite"
)

// timeLayout keeps a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one stored failure.
type Entry struct {
	ID        string
	RunID     string
	Op        compare.Op
	Dim       interchange.Dim
	Seed      uint64
	Iteration int
	Kind      string // "value", "invertibility", "backend" or "other"
	Library   string
	Reference string
	Message   string
	Inputs    []interchange.Matrix
	CreatedAt time.Time
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Op    *compare.Op
	Dim   interchange.Dim
	RunID string
	Limit int
}

// Store is a SQLite-backed failure corpus.
type Store struct {
	db   *sql.DB
	path string
}

var _ harness.FailureSink = (*Store)(nil)

// Open opens (creating if needed) the corpus at path. ":memory:" works for
// throwaway stores.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	if path == ":memory:" {
		// each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("corpus: pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS failures (
			id         TEXT PRIMARY KEY,
			run_id     TEXT NOT NULL DEFAULT '',
			op         TEXT NOT NULL,
			dim        INTEGER NOT NULL,
			seed       TEXT NOT NULL,
			iteration  INTEGER NOT NULL,
			kind       TEXT NOT NULL,
			library    TEXT NOT NULL DEFAULT '',
			reference  TEXT NOT NULL DEFAULT '',
			message    TEXT NOT NULL,
			inputs     BLOB,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS failures_op_dim ON failures (op, dim);
		CREATE INDEX IF NOT EXISTS failures_run ON failures (run_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("corpus: schema creation failed: %w", err)
	}

	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record stores f under a fresh id.
func (s *Store) Record(ctx context.Context, f harness.Failure) error {
	_, err := s.Add(ctx, entryFromFailure(f))

	return err
}

// Add stores e, assigning ID and CreatedAt when empty, and returns the id.
func (s *Store) Add(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO failures
		(id, run_id, op, dim, seed, iteration, kind, library, reference, message, inputs, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx,
		e.ID, e.RunID, e.Op.String(), int(e.Dim), strconv.FormatUint(e.Seed, 10), e.Iteration,
		e.Kind, e.Library, e.Reference, e.Message, encodeMatrices(e.Inputs),
		e.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return "", fmt.Errorf("corpus: insert %s: %w", e.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return e.ID, nil
}

const selectColumns = `SELECT id, run_id, op, dim, seed, iteration, kind, library, reference, message, inputs, created_at FROM failures`

// List returns matching entries, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Op != nil {
		where = append(where, "op = ?")
		args = append(args, f.Op.String())
	}
	if f.Dim != 0 {
		where = append(where, "dim = ?")
		args = append(args, int(f.Dim))
	}
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}
	q := selectColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("corpus: %s: %w", id, ErrNotFound)
	}

	return e, err
}

// Delete removes the entry with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM failures WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("corpus: %s: %w", id, ErrNotFound)
	}

	return nil
}

// Count returns the number of stored failures.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM failures").Scan(&n)

	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e       Entry
		op      string
		dim     int
		seed    string
		inputs  []byte
		created string
	)
	if err := sc.Scan(&e.ID, &e.RunID, &op, &dim, &seed, &e.Iteration,
		&e.Kind, &e.Library, &e.Reference, &e.Message, &inputs, &created); err != nil {
		return Entry{}, err
	}
	var err error
	if e.Op, err = compare.ParseOp(op); err != nil {
		return Entry{}, fmt.Errorf("corpus: %s: op %q: %w", e.ID, op, ErrCorrupt)
	}
	e.Dim = interchange.Dim(dim)
	if e.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Entry{}, fmt.Errorf("corpus: %s: seed %q: %w", e.ID, seed, ErrCorrupt)
	}
	if e.Inputs, err = decodeMatrices(e.Dim, inputs); err != nil {
		return Entry{}, fmt.Errorf("corpus: %s: %w", e.ID, err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Entry{}, fmt.Errorf("corpus: %s: created_at %q: %w", e.ID, created, ErrCorrupt)
	}

	return e, nil
}

func entryFromFailure(f harness.Failure) Entry {
	e := Entry{
		RunID:     f.RunID,
		Op:        f.Op,
		Dim:       f.Dim,
		Seed:      f.Seed,
		Iteration: f.Iteration,
		Kind:      "other",
		CreatedAt: f.At,
	}
	if f.Err != nil {
		e.Message = f.Err.Error()
	}
	var (
		mm *compare.MismatchError
		be *compare.BackendError
	)
	switch {
	case errors.As(f.Err, &mm):
		e.Kind = mm.Kind.String()
		e.Library = mm.Library
		e.Reference = mm.Reference
		e.Inputs = mm.Inputs
	case errors.As(f.Err, &be):
		e.Kind = "backend"
		e.Library = be.Library
	}

	return e
}

// encodeMatrices concatenates the column-major float32 values little-endian.
func encodeMatrices(ms []interchange.Matrix) []byte {
	var buf []byte
	for _, m := range ms {
		for _, v := range m.ColumnMajor() {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}

	return buf
}

func decodeMatrices(d interchange.Dim, b []byte) ([]interchange.Matrix, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if !d.Valid() {
		return nil, fmt.Errorf("dim %d: %w", int(d), ErrCorrupt)
	}
	size := d.Len() * 4
	if len(b)%size != 0 {
		return nil, fmt.Errorf("inputs: %d bytes: %w", len(b), ErrCorrupt)
	}
	out := make([]interchange.Matrix, 0, len(b)/size)
	vals := make([]float32, d.Len())
	for off := 0; off < len(b); off += size {
		for i := range vals {
			vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off+i*4:]))
		}
		m, err := interchange.FromColumnMajor(d, vals)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}
