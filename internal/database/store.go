package database

import (
	"database/sql"
	"time"

	"wcdb-go/internal/wc"
)

// Store implements the metadata operations over an open DB. Every method
// is atomic: multi-statement operations run inside one transaction of
// their own, opened with WithTx; a method does not join a transaction
// the caller already holds.
type Store struct {
	db *DB
}

// NewStore wraps an open database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Compile-time check that Store implements the session-facing interface.
var _ wc.Store = (*Store)(nil)

// DB exposes the underlying engine for callers that compose transactions.
func (s *Store) DB() *DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// nullStr maps "" to NULL for optional text columns.
func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// nullInt maps negative values to NULL for optional integer columns.
func nullInt(v int64) any {
	if v < 0 {
		return nil
	}
	return v
}

// nullID maps 0 to NULL for optional foreign keys.
func nullID(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

// nullBlob maps empty to NULL for optional blob columns.
func nullBlob(v []byte) any {
	if len(v) == 0 {
		return nil
	}
	return v
}

// nullTime maps the zero time to NULL; times persist as Unix microseconds.
func nullTime(v time.Time) any {
	if v.IsZero() {
		return nil
	}
	return v.UnixMicro()
}

// nullBool persists booleans as 0/1, mapping false to NULL the way the
// nodes table leaves flag columns unset.
func nullBool(v bool) any {
	if !v {
		return nil
	}
	return 1
}

// parentBinding returns the parent_relpath column value for relpath:
// NULL for the workcopy root, the textual parent otherwise.
func parentBinding(relpath string) any {
	if relpath == "" {
		return nil
	}
	return wc.ParentRelpath(relpath)
}

func timeFrom(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMicro(v.Int64)
}

func revisionFrom(v sql.NullInt64) int64 {
	if !v.Valid {
		return wc.InvalidRevision
	}
	return v.Int64
}
