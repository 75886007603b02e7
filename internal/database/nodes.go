package database

import (
	"context"
	"database/sql"
	"fmt"

	"wcdb-go/internal/wc"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanNode reads one row of the shared node projection. withLock appends
// the repository-lock overlay columns; withRelpath appends local_relpath
// (children listings).
func scanNode(sc scanner, withLock, withRelpath bool) (*wc.NodeInfo, error) {
	var (
		n             wc.NodeInfo
		parentRelpath sql.NullString
		reposID       sql.NullInt64
		reposPath     sql.NullString
		revision      sql.NullInt64
		presence      string
		kind          string
		checksum      sql.NullString
		depth         sql.NullString
		symlink       sql.NullString
		changedRev    sql.NullInt64
		changedDate   sql.NullInt64
		changedAuthor sql.NullString
		size          sql.NullInt64
		lastMod       sql.NullInt64
		movedHere     sql.NullInt64
		movedTo       sql.NullString
		fileExternal  sql.NullInt64

		lockToken   sql.NullString
		lockOwner   sql.NullString
		lockComment sql.NullString
		lockDate    sql.NullInt64
		relpath     string
	)

	dest := []any{
		&n.OpDepth, &parentRelpath, &reposID, &reposPath, &revision,
		&presence, &kind, &checksum, &n.Properties, &depth, &symlink,
		&changedRev, &changedDate, &changedAuthor, &size, &lastMod,
		&n.DavCache, &movedHere, &movedTo, &fileExternal,
	}
	if withLock {
		dest = append(dest, &lockToken, &lockOwner, &lockComment, &lockDate)
	}
	if withRelpath {
		dest = append(dest, &relpath)
	}

	if err := sc.Scan(dest...); err != nil {
		return nil, mapError(err)
	}

	n.ParentRelpath = parentRelpath.String
	n.ReposID = reposID.Int64
	n.ReposPath = reposPath.String
	n.Revision = revisionFrom(revision)
	n.Presence = wc.Presence(presence)
	n.Kind = wc.Kind(kind)
	n.Checksum = checksum.String
	n.Depth = wc.Depth(depth.String)
	n.SymlinkTarget = symlink.String
	n.ChangedRevision = revisionFrom(changedRev)
	n.ChangedDate = timeFrom(changedDate)
	n.ChangedAuthor = changedAuthor.String
	if size.Valid {
		n.TranslatedSize = size.Int64
	} else {
		n.TranslatedSize = -1
	}
	n.LastModTime = timeFrom(lastMod)
	n.MovedHere = movedHere.Valid && movedHere.Int64 != 0
	n.MovedTo = movedTo.String
	n.FileExternal = fileExternal.Valid && fileExternal.Int64 != 0
	n.LocalRelpath = relpath

	if withLock && lockToken.Valid {
		n.Lock = &wc.RepoLock{
			ReposID:      n.ReposID,
			ReposRelpath: n.ReposPath,
			Token:        lockToken.String,
			Owner:        lockOwner.String,
			Comment:      lockComment.String,
			Date:         timeFrom(lockDate),
		}
	}
	return &n, nil
}

// readOneNode runs a node read expected to return the effective row first
// and returns that row, or ErrNotFound.
func (s *Store) readOneNode(ctx context.Context, id StmtID, withLock bool, args ...any) (*wc.NodeInfo, error) {
	rows, err := s.db.Query(ctx, id, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapError(err)
		}
		return nil, fmt.Errorf("%w", wc.ErrNotFound)
	}
	n, err := scanNode(rows, withLock, false)
	if err != nil {
		return nil, err
	}
	return n, rows.Close()
}

// ReadNodeInfo returns the effective node at relpath: the row with the
// greatest op_depth. Inheritance inside unmaterialized copied subtrees is
// layered on top by the session resolver.
func (s *Store) ReadNodeInfo(ctx context.Context, wcID int64, relpath string) (*wc.NodeInfo, error) {
	n, err := s.readOneNode(ctx, SelectNodeInfo, false, wcID, relpath)
	if err != nil {
		return nil, fmt.Errorf("reading node %q: %w", relpath, err)
	}
	n.WCID, n.LocalRelpath = wcID, relpath
	return n, nil
}

// ReadNodeInfoWithLock is ReadNodeInfo joined with the repository-lock
// overlay.
func (s *Store) ReadNodeInfoWithLock(ctx context.Context, wcID int64, relpath string) (*wc.NodeInfo, error) {
	n, err := s.readOneNode(ctx, SelectNodeInfoWithLock, true, wcID, relpath)
	if err != nil {
		return nil, fmt.Errorf("reading node %q: %w", relpath, err)
	}
	n.WCID, n.LocalRelpath = wcID, relpath
	return n, nil
}

// ReadBaseNode returns the BASE (op_depth 0) row at relpath.
func (s *Store) ReadBaseNode(ctx context.Context, wcID int64, relpath string) (*wc.NodeInfo, error) {
	row, err := s.db.QueryRow(ctx, SelectBaseNode, wcID, relpath)
	if err != nil {
		return nil, err
	}
	n, err := scanNode(row, false, false)
	if err != nil {
		return nil, fmt.Errorf("reading base node %q: %w", relpath, err)
	}
	n.WCID, n.LocalRelpath = wcID, relpath
	return n, nil
}

// ReadWorkingNode returns the row of greatest op_depth > 0 at relpath,
// or ErrNotFound when relpath has only BASE.
func (s *Store) ReadWorkingNode(ctx context.Context, wcID int64, relpath string) (*wc.NodeInfo, error) {
	row, err := s.db.QueryRow(ctx, SelectWorkingNode, wcID, relpath)
	if err != nil {
		return nil, err
	}
	n, err := scanNode(row, false, false)
	if err != nil {
		return nil, fmt.Errorf("reading working node %q: %w", relpath, err)
	}
	n.WCID, n.LocalRelpath = wcID, relpath
	return n, nil
}

// ReadBaseNodeByReposPath finds the BASE row pinned to (reposID,
// reposPath), used to resolve reads inside unmaterialized copies.
func (s *Store) ReadBaseNodeByReposPath(ctx context.Context, wcID, reposID int64, reposPath string) (*wc.NodeInfo, error) {
	rows, err := s.db.Query(ctx, SelectBaseNodeByReposPath, wcID, reposID, reposPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapError(err)
		}
		return nil, fmt.Errorf("no base node for %s: %w", reposPath, wc.ErrNotFound)
	}
	n, err := scanNode(rows, false, true)
	if err != nil {
		return nil, err
	}
	n.WCID = wcID
	return n, rows.Close()
}

// BaseChildren lists the BASE rows whose parent is relpath.
func (s *Store) BaseChildren(ctx context.Context, wcID int64, relpath string) ([]*wc.NodeInfo, error) {
	rows, err := s.db.Query(ctx, SelectBaseNodeChildren, wcID, relpath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []*wc.NodeInfo
	for rows.Next() {
		n, err := scanNode(rows, false, true)
		if err != nil {
			return nil, err
		}
		n.WCID = wcID
		children = append(children, n)
	}
	return children, mapError(rows.Err())
}

// WorkingChildren lists the distinct relpaths with any working row whose
// parent is relpath.
func (s *Store) WorkingChildren(ctx context.Context, wcID int64, relpath string) ([]string, error) {
	return s.relpathList(ctx, SelectWorkingNodeChildren, wcID, relpath)
}

// Children lists the distinct relpaths present at any layer whose parent
// is relpath (the effective children name set).
func (s *Store) Children(ctx context.Context, wcID int64, relpath string) ([]string, error) {
	return s.relpathList(ctx, SelectNodeChildren, wcID, relpath)
}

func (s *Store) relpathList(ctx context.Context, id StmtID, args ...any) ([]string, error) {
	rows, err := s.db.Query(ctx, id, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, mapError(err)
		}
		paths = append(paths, p)
	}
	return paths, mapError(rows.Err())
}

// nodeBindings flattens n into the InsertNode parameter order.
func nodeBindings(n *wc.NodeInfo) []any {
	return []any{
		n.WCID, n.LocalRelpath, n.OpDepth, parentBinding(n.LocalRelpath),
		nullID(n.ReposID), nullStr(n.ReposPath), nullInt(n.Revision),
		string(n.Presence), string(n.Kind), nullStr(n.Checksum),
		nullBlob(n.Properties), nullStr(string(n.Depth)),
		nullStr(n.SymlinkTarget), nullInt(n.ChangedRevision),
		nullTime(n.ChangedDate), nullStr(n.ChangedAuthor),
		nullInt(n.TranslatedSize), nullTime(n.LastModTime),
		nullBlob(n.DavCache), nullBool(n.MovedHere), nullStr(n.MovedTo),
		nullBool(n.FileExternal),
	}
}

// InsertNodeRow writes one node row verbatim (INSERT OR REPLACE). Callers
// are responsible for op_depth discipline; this is the materialization
// primitive under copies and test fixtures.
func (s *Store) InsertNodeRow(ctx context.Context, n *wc.NodeInfo) error {
	if !n.Presence.Valid() {
		return fmt.Errorf("%w: presence %q", wc.ErrInvalidArgument, n.Presence)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", wc.ErrInvalidArgument, n.Kind)
	}
	if n.OpDepth > wc.PathDepth(n.LocalRelpath) {
		return fmt.Errorf("%w: op_depth %d exceeds path depth of %q",
			wc.ErrConstraintViolation, n.OpDepth, n.LocalRelpath)
	}
	_, err := s.db.Exec(ctx, InsertNode, nodeBindings(n)...)
	if err != nil {
		return fmt.Errorf("inserting node %q: %w", n.LocalRelpath, err)
	}
	return nil
}

// ApplyBaseNode records server-supplied state at op_depth 0 (checkout and
// update both land here) and invalidates any stale dav_cache below the
// path.
func (s *Store) ApplyBaseNode(ctx context.Context, n *wc.NodeInfo) error {
	if !n.Presence.Valid() {
		return fmt.Errorf("%w: presence %q", wc.ErrInvalidArgument, n.Presence)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", wc.ErrInvalidArgument, n.Kind)
	}
	return s.db.WithTx(ctx, func(t *Txn) error {
		// Stale cached DAV state anywhere under the path goes first; the
		// fresh row keeps whatever the server just supplied.
		_, err := t.Exec(ClearNodeBaseDavCacheRecursive,
			n.WCID, n.LocalRelpath, wc.LikeSubtreePattern(n.LocalRelpath))
		if err != nil {
			return fmt.Errorf("invalidating dav cache under %q: %w", n.LocalRelpath, err)
		}
		_, err = t.Exec(ApplyChangesToBaseNode,
			n.WCID, n.LocalRelpath, parentBinding(n.LocalRelpath),
			nullID(n.ReposID), nullStr(n.ReposPath), nullInt(n.Revision),
			string(n.Presence), string(n.Kind), nullStr(n.Checksum),
			nullBlob(n.Properties), nullStr(string(n.Depth)),
			nullStr(n.SymlinkTarget), nullInt(n.ChangedRevision),
			nullTime(n.ChangedDate), nullStr(n.ChangedAuthor),
			nullInt(n.TranslatedSize), nullTime(n.LastModTime),
			nullBlob(n.DavCache), nullBool(n.FileExternal))
		if err != nil {
			return fmt.Errorf("applying base node %q: %w", n.LocalRelpath, err)
		}
		return nil
	})
}

// ScheduleDelete shadows relpath (and, when recurse is set, every BASE
// descendant) with base-deleted rows at opDepth. BASE is untouched.
func (s *Store) ScheduleDelete(ctx context.Context, wcID int64, relpath string, opDepth int64, recurse bool) error {
	if opDepth <= 0 || opDepth > wc.PathDepth(relpath) {
		return fmt.Errorf("%w: op_depth %d for delete of %q",
			wc.ErrConstraintViolation, opDepth, relpath)
	}
	pattern := wc.LikeSubtreePattern(relpath)
	if !recurse {
		// No relpath contains a bare slash, so this pattern matches
		// nothing and the statement shape stays identical for both modes.
		pattern = "/"
	}
	n, err := s.db.Exec(ctx, InsertWorkingNodeFromBase,
		wcID, relpath, opDepth, string(wc.PresenceBaseDeleted), pattern)
	if err != nil {
		return fmt.Errorf("scheduling delete of %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("scheduling delete of %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// CopyFromBase schedules a copy of the BASE subtree at src to dst, at the
// layer rooted at dst (op_depth = path depth of dst). With eager set,
// every BASE descendant of src is materialized under dst; otherwise
// descendants resolve through layer inheritance until touched.
func (s *Store) CopyFromBase(ctx context.Context, wcID int64, src, dst string, eager bool) error {
	opDepth := wc.PathDepth(dst)
	return s.db.WithTx(ctx, func(t *Txn) error {
		n, err := t.Exec(InsertWorkingNodeCopyFromBase,
			wcID, src, dst, opDepth, parentBinding(dst),
			string(wc.PresenceNormal), 0)
		if err != nil {
			return fmt.Errorf("copying %q to %q: %w", src, dst, err)
		}
		if n == 0 {
			return fmt.Errorf("copying %q: %w", src, wc.ErrNotFound)
		}
		if !eager {
			return nil
		}

		descendants, err := s.subtreeIn(t, SelectBaseSubtree, wcID, src, 0)
		if err != nil {
			return err
		}
		for _, from := range descendants {
			if from == src {
				continue
			}
			suffix, ok := wc.RelpathSuffix(src, from)
			if !ok {
				continue
			}
			to := wc.JoinRelpath(dst, suffix)
			if _, err := t.Exec(InsertWorkingNodeCopyFromBase,
				wcID, from, to, opDepth, parentBinding(to),
				string(wc.PresenceNormal), 0); err != nil {
				return fmt.Errorf("materializing %q: %w", to, err)
			}
		}
		return nil
	})
}

// CopyFromWorking schedules a copy of the effective working subtree at
// src to dst. The source rows come from src's topmost layer.
func (s *Store) CopyFromWorking(ctx context.Context, wcID int64, src, dst string, eager bool) error {
	opDepth := wc.PathDepth(dst)
	return s.db.WithTx(ctx, func(t *Txn) error {
		n, err := t.Exec(InsertWorkingNodeCopyFromWorking,
			wcID, src, dst, opDepth, parentBinding(dst),
			string(wc.PresenceNormal), 0)
		if err != nil {
			return fmt.Errorf("copying %q to %q: %w", src, dst, err)
		}
		if n == 0 {
			return fmt.Errorf("copying %q: %w", src, wc.ErrNotFound)
		}
		if !eager {
			return nil
		}

		srcDepth, err := s.topOpDepth(t, wcID, src)
		if err != nil {
			return err
		}
		descendants, err := s.subtreeIn(t, SelectOpDepthSubtree, wcID, src, srcDepth)
		if err != nil {
			return err
		}
		for _, from := range descendants {
			if from == src {
				continue
			}
			suffix, ok := wc.RelpathSuffix(src, from)
			if !ok {
				continue
			}
			to := wc.JoinRelpath(dst, suffix)
			if _, err := t.Exec(InsertWorkingNodeCopyFromWorking,
				wcID, from, to, opDepth, parentBinding(to),
				string(wc.PresenceNormal), 0); err != nil {
				return fmt.Errorf("materializing %q: %w", to, err)
			}
		}
		return nil
	})
}

// topOpDepth returns the greatest op_depth > 0 at relpath within t.
func (s *Store) topOpDepth(t *Txn, wcID int64, relpath string) (int64, error) {
	row, err := t.QueryRow(SelectWorkingNode, wcID, relpath)
	if err != nil {
		return 0, err
	}
	n, err := scanNode(row, false, false)
	if err != nil {
		return 0, fmt.Errorf("finding working layer of %q: %w", relpath, err)
	}
	return n.OpDepth, nil
}

// subtreeIn lists relpaths matching a subtree statement inside t. The
// optional opDepth binding feeds SelectOpDepthSubtree.
func (s *Store) subtreeIn(t *Txn, id StmtID, wcID int64, relpath string, opDepth int64) ([]string, error) {
	args := []any{wcID, relpath, wc.LikeSubtreePattern(relpath)}
	if id == SelectOpDepthSubtree {
		args = append(args, opDepth)
	}
	rows, err := t.Query(id, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, mapError(err)
		}
		paths = append(paths, p)
	}
	return paths, mapError(rows.Err())
}

// Revert removes the topmost working layer at relpath and its
// descendants, restoring the next-deeper layer as effective.
func (s *Store) Revert(ctx context.Context, wcID int64, relpath string) error {
	return s.db.WithTx(ctx, func(t *Txn) error {
		top, err := s.topOpDepth(t, wcID, relpath)
		if err != nil {
			return err
		}
		_, err = t.Exec(DeleteWorkingLayerRecursive,
			wcID, relpath, wc.LikeSubtreePattern(relpath), top)
		if err != nil {
			return fmt.Errorf("reverting %q: %w", relpath, err)
		}
		return nil
	})
}

// RevertAll removes every working layer at relpath and below and clears
// the actual overlay, restoring the pristine BASE view.
func (s *Store) RevertAll(ctx context.Context, wcID int64, relpath string) error {
	pattern := wc.LikeSubtreePattern(relpath)
	return s.db.WithTx(ctx, func(t *Txn) error {
		if _, err := t.Exec(DeleteWorkingNodesRecursive, wcID, relpath, pattern); err != nil {
			return fmt.Errorf("reverting %q: %w", relpath, err)
		}
		if _, err := t.Exec(DeleteActualSubtree, wcID, relpath, pattern); err != nil {
			return fmt.Errorf("clearing actual overlay under %q: %w", relpath, err)
		}
		if _, err := t.Exec(DeleteConflictVictimsRecursive, wcID, relpath, pattern); err != nil {
			return fmt.Errorf("clearing conflicts under %q: %w", relpath, err)
		}
		return nil
	})
}

// RemoveAllLayers deletes every row at relpath (and below when recurse is
// set), all op_depths included. Used when a path leaves the working copy
// entirely.
func (s *Store) RemoveAllLayers(ctx context.Context, wcID int64, relpath string, recurse bool) error {
	if recurse {
		_, err := s.db.Exec(ctx, DeleteAllNodesRecursive,
			wcID, relpath, wc.LikeSubtreePattern(relpath))
		if err != nil {
			return fmt.Errorf("removing %q: %w", relpath, err)
		}
		return nil
	}
	if _, err := s.db.Exec(ctx, DeleteAllNodes, wcID, relpath); err != nil {
		return fmt.Errorf("removing %q: %w", relpath, err)
	}
	return nil
}

// SetBaseRepository retargets every BASE row under relpath to reposID and
// drops their cached DAV state.
func (s *Store) SetBaseRepository(ctx context.Context, wcID int64, relpath string, reposID int64) error {
	_, err := s.db.Exec(ctx, UpdateNodeBaseReposID,
		wcID, relpath, wc.LikeSubtreePattern(relpath), reposID)
	if err != nil {
		return fmt.Errorf("retargeting %q: %w", relpath, err)
	}
	return nil
}

// ExcludeBase marks the BASE row at relpath excluded and clears its depth.
func (s *Store) ExcludeBase(ctx context.Context, wcID int64, relpath string) error {
	n, err := s.db.Exec(ctx, UpdateNodeBaseExcluded, wcID, relpath)
	if err != nil {
		return fmt.Errorf("excluding %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("excluding %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// ExcludeWorking marks the topmost working row at relpath excluded. The
// statement filters to op_depth > 0; excluding BASE goes through
// ExcludeBase explicitly.
func (s *Store) ExcludeWorking(ctx context.Context, wcID int64, relpath string) error {
	n, err := s.db.Exec(ctx, UpdateNodeWorkingExcluded, wcID, relpath)
	if err != nil {
		return fmt.Errorf("excluding %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("excluding %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// SetBaseRevision bumps the recorded revision of the BASE row at relpath.
func (s *Store) SetBaseRevision(ctx context.Context, wcID int64, relpath string, revision int64) error {
	n, err := s.db.Exec(ctx, UpdateNodeBaseRevision, wcID, relpath, revision)
	if err != nil {
		return fmt.Errorf("updating revision of %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("updating revision of %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// SetBaseProps replaces the pristine property map on the BASE row.
func (s *Store) SetBaseProps(ctx context.Context, wcID int64, relpath string, props []byte) error {
	n, err := s.db.Exec(ctx, UpdateNodeBaseProps, wcID, relpath, nullBlob(props))
	if err != nil {
		return fmt.Errorf("updating base props of %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("updating base props of %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// SetWorkingProps replaces the property map on the topmost working row.
func (s *Store) SetWorkingProps(ctx context.Context, wcID int64, relpath string, props []byte) error {
	n, err := s.db.Exec(ctx, UpdateNodeWorkingProps, wcID, relpath, nullBlob(props))
	if err != nil {
		return fmt.Errorf("updating working props of %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("updating working props of %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// UpdateCopyfrom repoints the copy source of the topmost working layer at
// relpath. Only the top layer is touched.
func (s *Store) UpdateCopyfrom(ctx context.Context, wcID int64, relpath string, reposID int64, reposPath string, revision int64) error {
	n, err := s.db.Exec(ctx, UpdateCopyfrom,
		wcID, relpath, reposID, reposPath, revision)
	if err != nil {
		return fmt.Errorf("updating copyfrom of %q: %w", relpath, err)
	}
	if n == 0 {
		return fmt.Errorf("updating copyfrom of %q: %w", relpath, wc.ErrNotFound)
	}
	return nil
}

// ShiftOpDepth moves the layer rooted at relpath from oldDepth to
// newDepth, descendants included. Used when a tree operation is folded
// into its parent operation.
func (s *Store) ShiftOpDepth(ctx context.Context, wcID int64, relpath string, oldDepth, newDepth int64) error {
	if newDepth < 0 || newDepth > wc.PathDepth(relpath) {
		return fmt.Errorf("%w: op_depth %d for %q",
			wc.ErrConstraintViolation, newDepth, relpath)
	}
	_, err := s.db.Exec(ctx, UpdateOpDepthRecursive,
		wcID, relpath, wc.LikeSubtreePattern(relpath), oldDepth, newDepth)
	if err != nil {
		return fmt.Errorf("shifting layer at %q: %w", relpath, err)
	}
	return nil
}

// SetMovedTo records the move destination on the working row at opDepth.
func (s *Store) SetMovedTo(ctx context.Context, wcID int64, relpath string, opDepth int64, dest string) error {
	_, err := s.db.Exec(ctx, UpdateMovedTo, wcID, relpath, opDepth, nullStr(dest))
	if err != nil {
		return fmt.Errorf("recording move of %q: %w", relpath, err)
	}
	return nil
}

// ClearMovedTo drops any recorded move destination at relpath.
func (s *Store) ClearMovedTo(ctx context.Context, wcID int64, relpath string) error {
	if _, err := s.db.Exec(ctx, ClearMovedTo, wcID, relpath); err != nil {
		return fmt.Errorf("clearing move of %q: %w", relpath, err)
	}
	return nil
}

// ReadDeletionInfo reports the deletion state of relpath, or ErrNotFound
// when no working row shadows it.
func (s *Store) ReadDeletionInfo(ctx context.Context, wcID int64, relpath string) (*wc.DeletionInfo, error) {
	row, err := s.db.QueryRow(ctx, SelectDeletionInfo, wcID, relpath)
	if err != nil {
		return nil, err
	}
	var (
		basePresence    sql.NullString
		workingPresence string
		opDepth         int64
		movedTo         sql.NullString
	)
	if err := row.Scan(&basePresence, &workingPresence, &opDepth, &movedTo); err != nil {
		return nil, fmt.Errorf("reading deletion info of %q: %w", relpath, mapError(err))
	}
	return &wc.DeletionInfo{
		BasePresence:    wc.Presence(basePresence.String),
		WorkingPresence: wc.Presence(workingPresence),
		OpDepth:         opDepth,
		MovedTo:         movedTo.String,
	}, nil
}
