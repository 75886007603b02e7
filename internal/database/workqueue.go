package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wcdb-go/internal/wc"
)

// The work queue is a durable FIFO of opaque items replayed after the
// owning transaction commits, before the workcopy is considered
// consistent again. Ordering is strict by id.

// EnqueueWork appends one work item and returns its id.
func (s *Store) EnqueueWork(ctx context.Context, work []byte) (int64, error) {
	if len(work) == 0 {
		return 0, fmt.Errorf("%w: empty work item", wc.ErrInvalidArgument)
	}
	var id int64
	err := s.db.WithTx(ctx, func(t *Txn) error {
		res, err := t.tx.ExecContext(t.ctx, stmtText[InsertWorkItem], work)
		if err != nil {
			return mapError(err)
		}
		id, err = res.LastInsertId()
		return mapError(err)
	})
	if err != nil {
		return 0, fmt.Errorf("enqueueing work: %w", err)
	}
	return id, nil
}

// PeekWork returns the oldest pending work item without removing it, or
// (nil, nil) when the queue is empty.
func (s *Store) PeekWork(ctx context.Context) (*wc.WorkItem, error) {
	row, err := s.db.QueryRow(ctx, SelectWorkItem)
	if err != nil {
		return nil, err
	}
	item := &wc.WorkItem{}
	switch err := row.Scan(&item.ID, &item.Work); {
	case err == nil:
		return item, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	default:
		return nil, fmt.Errorf("peeking work queue: %w", mapError(err))
	}
}

// CompleteWork removes the executed item.
func (s *Store) CompleteWork(ctx context.Context, id int64) error {
	n, err := s.db.Exec(ctx, DeleteWorkItem, id)
	if err != nil {
		return fmt.Errorf("completing work item %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("completing work item %d: %w", id, wc.ErrNotFound)
	}
	return nil
}

// AnyWorkPending is the fast probe used before draining.
func (s *Store) AnyWorkPending(ctx context.Context) (bool, error) {
	row, err := s.db.QueryRow(ctx, LookForWork)
	if err != nil {
		return false, err
	}
	var id int64
	switch err := row.Scan(&id); {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, fmt.Errorf("probing work queue: %w", mapError(err))
	}
}
