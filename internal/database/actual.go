package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"wcdb-go/internal/wc"
)

// ReadActualNode returns the actual-overlay row at relpath, joined with
// any typed tree conflict, or ErrNotFound.
func (s *Store) ReadActualNode(ctx context.Context, wcID int64, relpath string) (*wc.ActualInfo, error) {
	row, err := s.db.QueryRow(ctx, SelectActualNode, wcID, relpath)
	if err != nil {
		return nil, err
	}
	a, err := scanActual(row, wcID, relpath)
	if err != nil {
		return nil, err
	}

	tc, err := s.ReadTreeConflict(ctx, wcID, relpath)
	if err != nil && !errors.Is(err, wc.ErrNotFound) {
		return nil, err
	}
	a.TreeConflict = tc
	return a, nil
}

func scanActual(sc scanner, wcID int64, relpath string) (*wc.ActualInfo, error) {
	var (
		parent     sql.NullString
		changelist sql.NullString
		old        sql.NullString
		new_       sql.NullString
		working    sql.NullString
		propReject sql.NullString
		older      sql.NullString
		legacy     sql.NullString
		props      []byte
	)
	err := sc.Scan(&parent, &props, &changelist, &old, &new_, &working,
		&propReject, &older, &legacy)
	if err != nil {
		return nil, fmt.Errorf("reading actual node %q: %w", relpath, mapError(err))
	}
	return &wc.ActualInfo{
		WCID:            wcID,
		LocalRelpath:    relpath,
		ParentRelpath:   parent.String,
		Properties:      props,
		Changelist:      changelist.String,
		ConflictOld:     old.String,
		ConflictNew:     new_.String,
		ConflictWorking: working.String,
		PropReject:      propReject.String,
		OlderChecksum:   older.String,
	}, nil
}

// upsertActual applies stmt to the existing actual row at relpath, first
// inserting an empty row when none exists. Always followed by the
// all-null sweep so a row never survives with every override cleared.
func (s *Store) upsertActual(ctx context.Context, wcID int64, relpath string, stmt StmtID, args ...any) error {
	return s.db.WithTx(ctx, func(t *Txn) error {
		n, err := t.Exec(stmt, append([]any{wcID, relpath}, args...)...)
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := t.Exec(InsertActualNode,
				wcID, relpath, parentBinding(relpath),
				nil, nil, nil, nil, nil, nil, nil, nil); err != nil {
				return err
			}
			if _, err := t.Exec(stmt, append([]any{wcID, relpath}, args...)...); err != nil {
				return err
			}
		}
		_, err = t.Exec(DeleteActualEmpty, wcID, relpath)
		return err
	})
}

// SetTextConflict records the three text-conflict marker files (and the
// common-ancestor pristine, when known) at relpath.
func (s *Store) SetTextConflict(ctx context.Context, wcID int64, relpath, old, new_, working, olderChecksum string) error {
	err := s.upsertActual(ctx, wcID, relpath, UpdateActualTextConflict,
		nullStr(old), nullStr(new_), nullStr(working), nullStr(olderChecksum))
	if err != nil {
		return fmt.Errorf("recording text conflict at %q: %w", relpath, err)
	}
	return nil
}

// ClearTextConflict removes the text-conflict markers at relpath. The row
// disappears when no other override remains.
func (s *Store) ClearTextConflict(ctx context.Context, wcID int64, relpath string) error {
	err := s.upsertActual(ctx, wcID, relpath, ClearTextConflict)
	if err != nil {
		return fmt.Errorf("clearing text conflict at %q: %w", relpath, err)
	}
	return nil
}

// SetPropConflict records the property-reject file at relpath.
func (s *Store) SetPropConflict(ctx context.Context, wcID int64, relpath, rejectFile string) error {
	err := s.upsertActual(ctx, wcID, relpath, UpdateActualPropConflict, nullStr(rejectFile))
	if err != nil {
		return fmt.Errorf("recording prop conflict at %q: %w", relpath, err)
	}
	return nil
}

// ClearPropConflict removes the property-reject marker at relpath.
func (s *Store) ClearPropConflict(ctx context.Context, wcID int64, relpath string) error {
	err := s.upsertActual(ctx, wcID, relpath, ClearPropsConflict)
	if err != nil {
		return fmt.Errorf("clearing prop conflict at %q: %w", relpath, err)
	}
	return nil
}

// SetChangelist assigns relpath to a changelist; empty removes the
// membership.
func (s *Store) SetChangelist(ctx context.Context, wcID int64, relpath, changelist string) error {
	err := s.upsertActual(ctx, wcID, relpath, UpdateActualChangelist, nullStr(changelist))
	if err != nil {
		return fmt.Errorf("setting changelist of %q: %w", relpath, err)
	}
	return nil
}

// SetChangelistRecursive retargets the changelist of every actual row at
// or under relpath, then sweeps emptied rows.
func (s *Store) SetChangelistRecursive(ctx context.Context, wcID int64, relpath, changelist string) error {
	pattern := wc.LikeSubtreePattern(relpath)
	return s.db.WithTx(ctx, func(t *Txn) error {
		if _, err := t.Exec(UpdateActualChangelistRecursive,
			wcID, relpath, pattern, nullStr(changelist)); err != nil {
			return fmt.Errorf("retargeting changelist under %q: %w", relpath, err)
		}
		if changelist != "" {
			return nil
		}
		paths, err := s.subtreeIn(t, SelectActualSubtree, wcID, relpath, 0)
		if err != nil {
			return err
		}
		for _, p := range paths {
			if _, err := t.Exec(DeleteActualEmpty, wcID, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// ChangelistMembers lists the relpaths assigned to changelist.
func (s *Store) ChangelistMembers(ctx context.Context, wcID int64, changelist string) ([]string, error) {
	return s.relpathList(ctx, SelectActualChangelist, wcID, changelist)
}

// SetActualProps replaces the user-edited property override at relpath;
// nil clears it.
func (s *Store) SetActualProps(ctx context.Context, wcID int64, relpath string, props []byte) error {
	err := s.upsertActual(ctx, wcID, relpath, UpdateActualProps, nullBlob(props))
	if err != nil {
		return fmt.Errorf("setting actual props of %q: %w", relpath, err)
	}
	return nil
}

// ReadActualProps returns the user-edited property override at relpath,
// or ErrNotFound when the resolved node props are authoritative.
func (s *Store) ReadActualProps(ctx context.Context, wcID int64, relpath string) ([]byte, error) {
	row, err := s.db.QueryRow(ctx, SelectActualProps, wcID, relpath)
	if err != nil {
		return nil, err
	}
	var props []byte
	if err := row.Scan(&props); err != nil {
		return nil, fmt.Errorf("reading actual props of %q: %w", relpath, mapError(err))
	}
	if props == nil {
		return nil, fmt.Errorf("no actual props at %q: %w", relpath, wc.ErrNotFound)
	}
	return props, nil
}

// SetTreeConflict records the typed tree-conflict descriptor at relpath.
func (s *Store) SetTreeConflict(ctx context.Context, wcID int64, relpath string, tc *wc.TreeConflict) error {
	if tc.Operation == "" {
		return fmt.Errorf("%w: tree conflict needs an operation", wc.ErrInvalidArgument)
	}
	_, err := s.db.Exec(ctx, InsertConflictVictim,
		wcID, relpath, tc.Operation, nullStr(tc.Action), nullStr(tc.Reason),
		nullID(tc.LeftReposID), nullStr(tc.LeftPath), nullInt(tc.LeftRevision),
		nullStr(string(tc.LeftKind)), nullStr(tc.LeftChecksum),
		nullID(tc.RightReposID), nullStr(tc.RightPath), nullInt(tc.RightRevision),
		nullStr(string(tc.RightKind)), nullStr(tc.RightChecksum))
	if err != nil {
		return fmt.Errorf("recording tree conflict at %q: %w", relpath, err)
	}
	return nil
}

// ClearTreeConflict removes the typed descriptor at relpath.
func (s *Store) ClearTreeConflict(ctx context.Context, wcID int64, relpath string) error {
	if _, err := s.db.Exec(ctx, DeleteConflictVictim, wcID, relpath); err != nil {
		return fmt.Errorf("clearing tree conflict at %q: %w", relpath, err)
	}
	return nil
}

// ReadTreeConflict returns the typed descriptor at relpath, or ErrNotFound.
func (s *Store) ReadTreeConflict(ctx context.Context, wcID int64, relpath string) (*wc.TreeConflict, error) {
	row, err := s.db.QueryRow(ctx, SelectConflictDetails, wcID, relpath)
	if err != nil {
		return nil, err
	}
	var (
		tc         wc.TreeConflict
		action     sql.NullString
		reason     sql.NullString
		lReposID   sql.NullInt64
		lPath      sql.NullString
		lRev       sql.NullInt64
		lKind      sql.NullString
		lChecksum  sql.NullString
		rReposID   sql.NullInt64
		rPath      sql.NullString
		rRev       sql.NullInt64
		rKind      sql.NullString
		rChecksum  sql.NullString
	)
	err = row.Scan(&tc.Operation, &action, &reason,
		&lReposID, &lPath, &lRev, &lKind, &lChecksum,
		&rReposID, &rPath, &rRev, &rKind, &rChecksum)
	if err != nil {
		return nil, fmt.Errorf("reading tree conflict at %q: %w", relpath, mapError(err))
	}
	tc.Action = action.String
	tc.Reason = reason.String
	tc.LeftReposID = lReposID.Int64
	tc.LeftPath = lPath.String
	tc.LeftRevision = revisionFrom(lRev)
	tc.LeftKind = wc.Kind(lKind.String)
	tc.LeftChecksum = lChecksum.String
	tc.RightReposID = rReposID.Int64
	tc.RightPath = rPath.String
	tc.RightRevision = revisionFrom(rRev)
	tc.RightKind = wc.Kind(rKind.String)
	tc.RightChecksum = rChecksum.String
	return &tc, nil
}

// ListConflictVictims enumerates the relpaths at or under parent with any
// conflict recorded: text, prop, or tree.
func (s *Store) ListConflictVictims(ctx context.Context, wcID int64, parent string) ([]string, error) {
	pattern := wc.LikeSubtreePattern(parent)

	actual, err := s.relpathList(ctx, SelectActualConflictVictims, wcID, parent, pattern)
	if err != nil {
		return nil, err
	}
	typed, err := s.relpathList(ctx, SelectConflictVictimsUnder, wcID, parent, pattern)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(actual)+len(typed))
	var victims []string
	for _, p := range append(actual, typed...) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		victims = append(victims, p)
	}
	sort.Strings(victims)
	return victims, nil
}
