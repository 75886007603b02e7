package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wcdb-go/internal/wc"
)

// InternRepository returns the repository row for root, creating it on
// first reference. Repository rows are never mutated afterwards.
func (s *Store) InternRepository(ctx context.Context, root, uuid string) (*wc.Repository, error) {
	repo, err := s.FindRepositoryByRoot(ctx, root)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, wc.ErrNotFound) {
		return nil, err
	}

	var id int64
	err = s.db.WithTx(ctx, func(t *Txn) error {
		// Re-check inside the transaction; another writer may have
		// interned the same root between our read and this write.
		row, err := t.QueryRow(SelectRepositoryByRoot, root)
		if err != nil {
			return err
		}
		var existingUUID string
		switch err := row.Scan(&id, &existingUUID); {
		case err == nil:
			return nil
		case errors.Is(err, sql.ErrNoRows):
		default:
			return mapError(err)
		}

		res, err := t.tx.ExecContext(t.ctx, stmtText[InsertRepository], root, uuid)
		if err != nil {
			return mapError(err)
		}
		id, err = res.LastInsertId()
		return mapError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("interning repository %s: %w", root, err)
	}
	return &wc.Repository{ID: id, Root: root, UUID: uuid}, nil
}

// FindRepositoryByRoot looks up an interned repository by its root URL.
func (s *Store) FindRepositoryByRoot(ctx context.Context, root string) (*wc.Repository, error) {
	row, err := s.db.QueryRow(ctx, SelectRepositoryByRoot, root)
	if err != nil {
		return nil, err
	}
	repo := &wc.Repository{Root: root}
	if err := row.Scan(&repo.ID, &repo.UUID); err != nil {
		return nil, mapError(err)
	}
	return repo, nil
}

// FindRepositoryByID looks up an interned repository by row id.
func (s *Store) FindRepositoryByID(ctx context.Context, id int64) (*wc.Repository, error) {
	row, err := s.db.QueryRow(ctx, SelectRepositoryByID, id)
	if err != nil {
		return nil, err
	}
	repo := &wc.Repository{ID: id}
	if err := row.Scan(&repo.Root, &repo.UUID); err != nil {
		return nil, mapError(err)
	}
	return repo, nil
}

// CreateWCRoot registers a workcopy root. localAbspath is empty for a
// detached store (one not pinned to a checkout directory).
func (s *Store) CreateWCRoot(ctx context.Context, localAbspath string) (int64, error) {
	var id int64
	err := s.db.WithTx(ctx, func(t *Txn) error {
		res, err := t.tx.ExecContext(t.ctx, stmtText[InsertWCRoot], nullStr(localAbspath))
		if err != nil {
			return mapError(err)
		}
		id, err = res.LastInsertId()
		return mapError(err)
	})
	if err != nil {
		return 0, fmt.Errorf("creating wcroot: %w", err)
	}
	return id, nil
}

// FindWCRoot resolves the wc_id for localAbspath.
func (s *Store) FindWCRoot(ctx context.Context, localAbspath string) (int64, error) {
	row, err := s.db.QueryRow(ctx, SelectWCRootByPath, localAbspath)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// AnyWCRoot returns the first registered workcopy root, for single-root
// metadata files (the common layout).
func (s *Store) AnyWCRoot(ctx context.Context) (int64, string, error) {
	row, err := s.db.QueryRow(ctx, SelectAnyWCRoot)
	if err != nil {
		return 0, "", err
	}
	var id int64
	var abspath sql.NullString
	if err := row.Scan(&id, &abspath); err != nil {
		return 0, "", mapError(err)
	}
	return id, abspath.String, nil
}
