package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"wcdb-go/internal/wc"
)

// Options configures a metadata database connection.
type Options struct {
	// BusyTimeout is handed to SQLite's busy handler; it bounds how long a
	// single statement blocks on a contended database before returning
	// SQLITE_BUSY to us.
	BusyTimeout time.Duration

	// RetryDeadline bounds the engine-level retry loop around busy errors.
	// Once exceeded, ErrBusy surfaces to the caller.
	RetryDeadline time.Duration

	Logger wc.Logger
}

// DefaultOptions are used wherever the caller passes the zero Options.
func DefaultOptions() Options {
	return Options{
		BusyTimeout:   5 * time.Second,
		RetryDeadline: 10 * time.Second,
		Logger:        wc.NewNopLogger(),
	}
}

// DB is one open metadata database. Statements from the catalog are
// prepared lazily and cached for the lifetime of the connection.
//
// A DB is safe for concurrent readers; writers serialize through WithTx,
// which opens a write transaction. Readers running outside a transaction
// observe a WAL snapshot and never see partial writes.
type DB struct {
	db   *sql.DB
	path string
	opts Options

	mu    sync.Mutex
	stmts map[StmtID]*sql.Stmt
}

// Open opens or creates the metadata file at path and configures the
// connection. path can be ":memory:" for tests. Schema verification and
// upgrades are the migrations package's job; Open only sets PRAGMAs.
func Open(path string, opts Options) (*DB, error) {
	if opts.Logger == nil {
		opts.Logger = wc.NewNopLogger()
	}
	if opts.BusyTimeout == 0 {
		opts.BusyTimeout = DefaultOptions().BusyTimeout
	}
	if opts.RetryDeadline == 0 {
		opts.RetryDeadline = DefaultOptions().RetryDeadline
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", mapError(err))
	}

	// Savepoint nesting and transaction scoping assume a single
	// underlying connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("configuring database: %w", mapError(err))
		}
	}

	return &DB{
		db:    db,
		path:  path,
		opts:  opts,
		stmts: make(map[StmtID]*sql.Stmt),
	}, nil
}

// Path returns the database file path (or ":memory:").
func (d *DB) Path() string { return d.path }

// Handle exposes the underlying connection for the migrations package and
// for tools that operate below the catalog.
func (d *DB) Handle() *sql.DB { return d.db }

// stmt returns the cached prepared handle for id, preparing it on first use.
func (d *DB) stmt(ctx context.Context, id StmtID) (*sql.Stmt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.stmts[id]; ok {
		return s, nil
	}
	text, err := Text(id)
	if err != nil {
		return nil, err
	}
	s, err := d.db.PrepareContext(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("preparing statement %d: %w", id, mapError(err))
	}
	d.stmts[id] = s
	return s, nil
}

// retry runs fn, retrying busy errors with exponential backoff until the
// configured deadline.
func (d *DB) retry(ctx context.Context, fn func() error) error {
	deadline := time.Now().Add(d.opts.RetryDeadline)
	backoff := time.Millisecond

	for {
		err := fn()
		if err == nil || !isBusy(err) {
			return err
		}
		if time.Now().After(deadline) {
			return err
		}
		d.opts.Logger.Debug("database busy, retrying", "backoff", backoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", wc.ErrInterrupted, ctx.Err())
		case <-time.After(backoff):
		}
		if backoff < 100*time.Millisecond {
			backoff *= 2
		}
	}
}

// Exec runs a catalog write statement outside any explicit transaction.
func (d *DB) Exec(ctx context.Context, id StmtID, args ...any) (int64, error) {
	s, err := d.stmt(ctx, id)
	if err != nil {
		return 0, err
	}
	var affected int64
	err = d.retry(ctx, func() error {
		res, err := s.ExecContext(ctx, args...)
		if err != nil {
			return mapError(err)
		}
		affected, err = res.RowsAffected()
		return mapError(err)
	})
	return affected, err
}

// Query runs a catalog read statement. The caller must close the rows.
func (d *DB) Query(ctx context.Context, id StmtID, args ...any) (*sql.Rows, error) {
	s, err := d.stmt(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.QueryContext(ctx, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return rows, nil
}

// QueryRow runs a catalog read statement expected to yield at most one row.
func (d *DB) QueryRow(ctx context.Context, id StmtID, args ...any) (*sql.Row, error) {
	s, err := d.stmt(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.QueryRowContext(ctx, args...), nil
}

// Txn is one open write transaction. Nested transactions are reduced to
// savepoints: WithSavepoint may recurse to any depth, and rolling back a
// savepoint leaves outer work intact.
type Txn struct {
	d     *DB
	tx    *sql.Tx
	ctx   context.Context
	depth int
}

// WithTx runs fn inside a write transaction. A nil error from fn commits;
// any error rolls back and propagates. The call does not return success
// before the commit is durable.
func (d *DB) WithTx(ctx context.Context, fn func(*Txn) error) error {
	var tx *sql.Tx
	err := d.retry(ctx, func() error {
		var err error
		tx, err = d.db.BeginTx(ctx, nil)
		return mapError(err)
	})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	t := &Txn{d: d, tx: tx, ctx: ctx}
	if err := fn(t); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			d.opts.Logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := ctx.Err(); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", wc.ErrInterrupted, err)
	}

	err = d.retry(ctx, func() error {
		return mapError(tx.Commit())
	})
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// WithSavepoint runs fn inside a savepoint on t. An error from fn rolls
// back to the savepoint and propagates; outer statements are untouched.
func (t *Txn) WithSavepoint(fn func(*Txn) error) error {
	name := fmt.Sprintf("sp_%d", t.depth+1)
	if _, err := t.tx.ExecContext(t.ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("creating savepoint: %w", mapError(err))
	}

	inner := &Txn{d: t.d, tx: t.tx, ctx: t.ctx, depth: t.depth + 1}
	if err := fn(inner); err != nil {
		if _, rbErr := t.tx.ExecContext(t.ctx, "ROLLBACK TO "+name); rbErr != nil {
			return fmt.Errorf("rolling back savepoint: %w", mapError(rbErr))
		}
		t.tx.ExecContext(t.ctx, "RELEASE "+name)
		return err
	}

	if _, err := t.tx.ExecContext(t.ctx, "RELEASE "+name); err != nil {
		return fmt.Errorf("releasing savepoint: %w", mapError(err))
	}
	return nil
}

// Exec runs a catalog write statement inside the transaction.
func (t *Txn) Exec(id StmtID, args ...any) (int64, error) {
	if err := t.ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", wc.ErrInterrupted, err)
	}
	s, err := t.d.stmt(t.ctx, id)
	if err != nil {
		return 0, err
	}
	res, err := t.tx.StmtContext(t.ctx, s).ExecContext(t.ctx, args...)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	return n, mapError(err)
}

// Query runs a catalog read statement inside the transaction.
func (t *Txn) Query(id StmtID, args ...any) (*sql.Rows, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", wc.ErrInterrupted, err)
	}
	s, err := t.d.stmt(t.ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := t.tx.StmtContext(t.ctx, s).QueryContext(t.ctx, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return rows, nil
}

// QueryRow runs a catalog read statement expected to yield at most one row.
func (t *Txn) QueryRow(id StmtID, args ...any) (*sql.Row, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", wc.ErrInterrupted, err)
	}
	s, err := t.d.stmt(t.ctx, id)
	if err != nil {
		return nil, err
	}
	return t.tx.StmtContext(t.ctx, s).QueryRowContext(t.ctx, args...), nil
}

// ApplySchema creates the full current schema on an empty database. Tests
// use this; working copies, fresh or existing, go through the migrations
// package.
func (d *DB) ApplySchema() error {
	if _, err := d.db.Exec(Schema); err != nil {
		return fmt.Errorf("applying schema: %w", mapError(err))
	}
	if _, err := d.db.Exec(
		fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", mapError(err))
	}
	return nil
}

// BackupTo creates a complete copy of the database at destPath using
// VACUUM INTO.
func (d *DB) BackupTo(destPath string) error {
	if _, err := d.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", mapError(err))
	}
	return nil
}

// Close closes the cached statements and the underlying connection.
func (d *DB) Close() error {
	d.mu.Lock()
	for _, s := range d.stmts {
		s.Close()
	}
	d.stmts = nil
	d.mu.Unlock()

	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
