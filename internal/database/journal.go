package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wcdb-go/internal/wc"
)

// BeginJournalEntry records the start of a mutating operation and returns
// its row id.
func (s *Store) BeginJournalEntry(ctx context.Context, opUUID, operation, parameters string, startedAt time.Time) (int64, error) {
	var id int64
	err := s.db.WithTx(ctx, func(t *Txn) error {
		res, err := t.tx.ExecContext(t.ctx, stmtText[InsertOpJournal],
			opUUID, startedAt.UnixMicro(), operation, nullStr(parameters))
		if err != nil {
			return mapError(err)
		}
		id, err = res.LastInsertId()
		return mapError(err)
	})
	if err != nil {
		return 0, fmt.Errorf("recording operation start: %w", err)
	}
	return id, nil
}

// FinishJournalEntry closes a journal entry with a terminal status.
func (s *Store) FinishJournalEntry(ctx context.Context, id int64, finishedAt time.Time, status string) error {
	n, err := s.db.Exec(ctx, UpdateOpJournalFinished, id, finishedAt.UnixMicro(), status)
	if err != nil {
		return fmt.Errorf("recording operation end: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recording operation end: %w", wc.ErrNotFound)
	}
	return nil
}

// RecentJournalEntries returns the newest limit entries, newest first.
func (s *Store) RecentJournalEntries(ctx context.Context, limit int) ([]*wc.JournalEntry, error) {
	rows, err := s.db.Query(ctx, SelectOpJournal, int64(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*wc.JournalEntry
	for rows.Next() {
		var (
			e        wc.JournalEntry
			started  int64
			finished sql.NullInt64
			params   sql.NullString
			status   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OpUUID, &started, &finished,
			&e.Operation, &params, &status); err != nil {
			return nil, mapError(err)
		}
		e.StartedAt = time.UnixMicro(started)
		e.FinishedAt = timeFrom(finished)
		e.Parameters = params.String
		e.Status = status.String
		entries = append(entries, &e)
	}
	return entries, mapError(rows.Err())
}
