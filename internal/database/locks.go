package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wcdb-go/internal/wc"
)

// Repository locks: server-issued tokens recorded per remote path. They
// reference paths that need not exist as nodes; locks survive node churn.

// InsertRepoLock records (or replaces) a repository lock token.
func (s *Store) InsertRepoLock(ctx context.Context, l *wc.RepoLock) error {
	if l.Token == "" {
		return fmt.Errorf("%w: repository lock needs a token", wc.ErrInvalidArgument)
	}
	_, err := s.db.Exec(ctx, InsertLock,
		l.ReposID, l.ReposRelpath, l.Token,
		nullStr(l.Owner), nullStr(l.Comment), nullTime(l.Date))
	if err != nil {
		return fmt.Errorf("recording lock on %q: %w", l.ReposRelpath, err)
	}
	return nil
}

// ReadRepoLock returns the recorded lock on (reposID, reposRelpath).
func (s *Store) ReadRepoLock(ctx context.Context, reposID int64, reposRelpath string) (*wc.RepoLock, error) {
	row, err := s.db.QueryRow(ctx, SelectLock, reposID, reposRelpath)
	if err != nil {
		return nil, err
	}
	l := &wc.RepoLock{ReposID: reposID, ReposRelpath: reposRelpath}
	var (
		owner   sql.NullString
		comment sql.NullString
		date    sql.NullInt64
	)
	if err := row.Scan(&l.Token, &owner, &comment, &date); err != nil {
		return nil, fmt.Errorf("reading lock on %q: %w", reposRelpath, mapError(err))
	}
	l.Owner = owner.String
	l.Comment = comment.String
	l.Date = timeFrom(date)
	return l, nil
}

// DeleteRepoLock drops the recorded lock on (reposID, reposRelpath).
func (s *Store) DeleteRepoLock(ctx context.Context, reposID int64, reposRelpath string) error {
	if _, err := s.db.Exec(ctx, DeleteLock, reposID, reposRelpath); err != nil {
		return fmt.Errorf("deleting lock on %q: %w", reposRelpath, err)
	}
	return nil
}

// RetargetRepoLocks moves every lock row from one repository id to
// another, for relocated working copies.
func (s *Store) RetargetRepoLocks(ctx context.Context, fromReposID, toReposID int64) error {
	if _, err := s.db.Exec(ctx, UpdateLockReposID, fromReposID, toReposID); err != nil {
		return fmt.Errorf("retargeting locks: %w", err)
	}
	return nil
}

// Workcopy directory locks: the advisory locks the process must hold
// before writing. locked_levels 0 covers just the directory, -1 the whole
// subtree below it.

// AcquireWCLock takes the directory lock at dirRelpath. Fails with
// ErrAlreadyLocked when this or an enclosing lock already covers the
// directory.
func (s *Store) AcquireWCLock(ctx context.Context, wcID int64, dirRelpath string, lockedLevels int64) error {
	held, holder, err := s.IsWCLocked(ctx, wcID, dirRelpath)
	if err != nil {
		return err
	}
	if held {
		return fmt.Errorf("%q is locked by %q: %w", dirRelpath, holder, wc.ErrAlreadyLocked)
	}
	if _, err := s.db.Exec(ctx, InsertWCLock, wcID, dirRelpath, lockedLevels); err != nil {
		return fmt.Errorf("locking %q: %w", dirRelpath, err)
	}
	return nil
}

// ReleaseWCLock drops the directory lock at dirRelpath.
func (s *Store) ReleaseWCLock(ctx context.Context, wcID int64, dirRelpath string) error {
	n, err := s.db.Exec(ctx, DeleteWCLock, wcID, dirRelpath)
	if err != nil {
		return fmt.Errorf("unlocking %q: %w", dirRelpath, err)
	}
	if n == 0 {
		return fmt.Errorf("unlocking %q: %w", dirRelpath, wc.ErrNotLocked)
	}
	return nil
}

// IsWCLocked walks dirRelpath and its ancestors and reports whether any
// held lock covers the directory, and which row holds it.
func (s *Store) IsWCLocked(ctx context.Context, wcID int64, dirRelpath string) (bool, string, error) {
	distance := int64(0)
	p := dirRelpath
	for {
		row, err := s.db.QueryRow(ctx, SelectWCLock, wcID, p)
		if err != nil {
			return false, "", err
		}
		var levels int64
		switch err := row.Scan(&levels); {
		case err == nil:
			if levels == wc.InfiniteLevels || levels >= distance {
				return true, p, nil
			}
		case errors.Is(err, sql.ErrNoRows):
		default:
			return false, "", mapError(err)
		}
		if p == "" {
			return false, "", nil
		}
		p = wc.ParentRelpath(p)
		distance++
	}
}

// FindWCLocksUnder lists every directory lock at or under dirRelpath.
func (s *Store) FindWCLocksUnder(ctx context.Context, wcID int64, dirRelpath string) ([]*wc.WCLock, error) {
	rows, err := s.db.Query(ctx, FindWCLock,
		wcID, dirRelpath, wc.LikeSubtreePattern(dirRelpath))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locks []*wc.WCLock
	for rows.Next() {
		l := &wc.WCLock{WCID: wcID}
		if err := rows.Scan(&l.LocalDirRelpath, &l.LockedLevels); err != nil {
			return nil, mapError(err)
		}
		locks = append(locks, l)
	}
	return locks, mapError(rows.Err())
}
