package wc

import (
	"context"
	"fmt"
)

// Tree-mutating session operations. Every mutation validates the path
// grammar and requires the session to hold a workcopy lock covering the
// target; reads never take locks.

// Lock acquires the workcopy directory lock at dirRelpath. Levels 0 locks
// only the directory, InfiniteLevels the whole subtree.
func (s *Session) Lock(ctx context.Context, dirRelpath string, levels int64) error {
	if err := CheckRelpath(dirRelpath); err != nil {
		return err
	}
	if err := s.store.AcquireWCLock(ctx, s.wcID, dirRelpath, levels); err != nil {
		return err
	}
	s.logger.Debug("workcopy locked", "dir", dirRelpath, "levels", levels)
	return nil
}

// Unlock releases the workcopy directory lock at dirRelpath.
func (s *Session) Unlock(ctx context.Context, dirRelpath string) error {
	if err := CheckRelpath(dirRelpath); err != nil {
		return err
	}
	if err := s.store.ReleaseWCLock(ctx, s.wcID, dirRelpath); err != nil {
		return err
	}
	s.logger.Debug("workcopy unlocked", "dir", dirRelpath)
	return nil
}

// guardWrite validates relpath and the lock discipline for a mutation.
func (s *Session) guardWrite(ctx context.Context, relpath string) error {
	if err := CheckRelpath(relpath); err != nil {
		return err
	}
	return s.EnsureWritable(ctx, relpath)
}

// ApplyBase records server-supplied state for relpath at the BASE layer;
// checkout and update both land here. n.LocalRelpath is authoritative.
func (s *Session) ApplyBase(ctx context.Context, n *NodeInfo) error {
	if err := s.guardWrite(ctx, n.LocalRelpath); err != nil {
		return err
	}
	n.WCID = s.wcID
	if err := s.store.ApplyBaseNode(ctx, n); err != nil {
		return err
	}
	s.logger.Debug("base node applied",
		"path", n.LocalRelpath, "revision", n.Revision, "kind", n.Kind)
	return nil
}

// ScheduleDelete shadows relpath with a base-deleted working row at the
// layer rooted at opRoot (the path whose delete operation this is). BASE
// stays readable underneath.
func (s *Session) ScheduleDelete(ctx context.Context, relpath, opRoot string, recurse bool) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if !IsAncestor(opRoot, relpath) {
		return fmt.Errorf("%w: %q is not inside operation root %q",
			ErrInvalidArgument, relpath, opRoot)
	}
	opDepth := PathDepth(opRoot)
	if err := s.store.ScheduleDelete(ctx, s.wcID, relpath, opDepth, recurse); err != nil {
		return err
	}
	s.logger.Info("delete scheduled", "path", relpath, "op_depth", opDepth)
	return nil
}

// CopyFromBase schedules a copy of the BASE subtree at src to dst. With
// eager set every descendant row is materialized now; otherwise reads
// inside dst resolve through layer inheritance until a descendant is
// touched.
func (s *Session) CopyFromBase(ctx context.Context, src, dst string, eager bool) error {
	if err := CheckRelpath(src); err != nil {
		return err
	}
	if err := s.guardWrite(ctx, dst); err != nil {
		return err
	}
	if err := s.store.CopyFromBase(ctx, s.wcID, src, dst, eager); err != nil {
		return err
	}
	s.logger.Info("copy scheduled", "from", src, "to", dst, "eager", eager)
	return nil
}

// CopyFromWorking schedules a copy of the effective working subtree at
// src to dst.
func (s *Session) CopyFromWorking(ctx context.Context, src, dst string, eager bool) error {
	if err := CheckRelpath(src); err != nil {
		return err
	}
	if err := s.guardWrite(ctx, dst); err != nil {
		return err
	}
	if err := s.store.CopyFromWorking(ctx, s.wcID, src, dst, eager); err != nil {
		return err
	}
	s.logger.Info("copy scheduled", "from", src, "to", dst, "eager", eager)
	return nil
}

// Move schedules src's effective subtree at dst and a delete of src,
// recording dst as moved_to on src's delete layer. The copied rows at dst
// are not marked moved_here.
func (s *Session) Move(ctx context.Context, src, dst string) error {
	if err := s.guardWrite(ctx, src); err != nil {
		return err
	}
	if err := s.guardWrite(ctx, dst); err != nil {
		return err
	}
	n, err := s.ResolveNode(ctx, src)
	if err != nil {
		return err
	}

	if n.OpDepth > 0 {
		err = s.store.CopyFromWorking(ctx, s.wcID, src, dst, true)
	} else {
		err = s.store.CopyFromBase(ctx, s.wcID, src, dst, true)
	}
	if err != nil {
		return err
	}
	if err := s.store.ScheduleDelete(ctx, s.wcID, src, PathDepth(src), true); err != nil {
		return err
	}
	if err := s.store.SetMovedTo(ctx, s.wcID, src, PathDepth(src), dst); err != nil {
		return err
	}
	s.logger.Info("move scheduled", "from", src, "to", dst)
	return nil
}

// Revert removes the topmost working layer at relpath, restoring the next
// deeper layer as effective.
func (s *Session) Revert(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if err := s.store.Revert(ctx, s.wcID, relpath); err != nil {
		return err
	}
	s.logger.Info("reverted top layer", "path", relpath)
	return nil
}

// RevertAll removes every working layer at or under relpath and clears
// the actual overlay, restoring the pristine BASE view bitwise.
func (s *Session) RevertAll(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if err := s.store.RevertAll(ctx, s.wcID, relpath); err != nil {
		return err
	}
	s.logger.Info("reverted", "path", relpath)
	return nil
}

// SetRepository recursively retargets the repository of every BASE row
// under relpath. Recorded repository locks move along only when the whole
// workcopy (relpath "") is retargeted from a different repository.
func (s *Session) SetRepository(ctx context.Context, relpath string, from, to *Repository) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if err := s.store.SetBaseRepository(ctx, s.wcID, relpath, to.ID); err != nil {
		return err
	}
	if relpath == "" && from != nil && from.ID != to.ID {
		if err := s.store.RetargetRepoLocks(ctx, from.ID, to.ID); err != nil {
			return err
		}
	}
	s.logger.Info("subtree retargeted", "path", relpath, "repository", to.Root)
	return nil
}

// Exclude marks relpath excluded at its effective layer: present on the
// server but deliberately not materialized here.
func (s *Session) Exclude(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	n, err := s.ResolveNode(ctx, relpath)
	if err != nil {
		return err
	}
	if n.OpDepth > 0 {
		err = s.store.ExcludeWorking(ctx, s.wcID, relpath)
	} else {
		err = s.store.ExcludeBase(ctx, s.wcID, relpath)
	}
	if err != nil {
		return err
	}
	s.logger.Info("excluded", "path", relpath)
	return nil
}

// Include undoes an exclusion by marking the BASE row incomplete so the
// next update refetches the subtree.
func (s *Session) Include(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	n, err := s.BaseNode(ctx, relpath)
	if err != nil {
		return err
	}
	if n.Presence != PresenceExcluded {
		return fmt.Errorf("%w: %q is not excluded", ErrInvalidArgument, relpath)
	}
	base := *n
	base.Presence = PresenceIncomplete
	base.Depth = DepthInfinity
	return s.store.ApplyBaseNode(ctx, &base)
}
