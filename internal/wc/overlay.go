package wc

import (
	"context"
	"fmt"
)

// Actual-overlay and pristine-index session operations.

// SetTextConflict records the text-conflict marker files at relpath.
// olderChecksum may name the common-ancestor pristine; it keeps that blob
// alive against GC while the conflict stands.
func (s *Session) SetTextConflict(ctx context.Context, relpath, old, new_, working, olderChecksum string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if old == "" && new_ == "" && working == "" {
		return fmt.Errorf("%w: text conflict needs at least one marker", ErrInvalidArgument)
	}
	if err := s.store.SetTextConflict(ctx, s.wcID, relpath, old, new_, working, olderChecksum); err != nil {
		return err
	}
	s.logger.Info("text conflict recorded", "path", relpath)
	return nil
}

// ClearTextConflict removes the text-conflict markers at relpath; the
// actual row disappears when nothing else overrides.
func (s *Session) ClearTextConflict(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	return s.store.ClearTextConflict(ctx, s.wcID, relpath)
}

// SetPropConflict records the property-reject file at relpath.
func (s *Session) SetPropConflict(ctx context.Context, relpath, rejectFile string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if rejectFile == "" {
		return fmt.Errorf("%w: prop conflict needs a reject file", ErrInvalidArgument)
	}
	return s.store.SetPropConflict(ctx, s.wcID, relpath, rejectFile)
}

// ClearPropConflict removes the property-reject marker at relpath.
func (s *Session) ClearPropConflict(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	return s.store.ClearPropConflict(ctx, s.wcID, relpath)
}

// SetTreeConflict records the typed tree-conflict descriptor at relpath.
func (s *Session) SetTreeConflict(ctx context.Context, relpath string, tc *TreeConflict) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	if err := s.store.SetTreeConflict(ctx, s.wcID, relpath, tc); err != nil {
		return err
	}
	s.logger.Info("tree conflict recorded", "path", relpath, "operation", tc.Operation)
	return nil
}

// ClearTreeConflict removes the typed descriptor at relpath.
func (s *Session) ClearTreeConflict(ctx context.Context, relpath string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	return s.store.ClearTreeConflict(ctx, s.wcID, relpath)
}

// ConflictVictims enumerates paths at or under parent with any conflict
// recorded.
func (s *Session) ConflictVictims(ctx context.Context, parent string) ([]string, error) {
	if err := CheckRelpath(parent); err != nil {
		return nil, err
	}
	return s.store.ListConflictVictims(ctx, s.wcID, parent)
}

// SetChangelist assigns relpath to a changelist; empty clears the
// membership.
func (s *Session) SetChangelist(ctx context.Context, relpath, changelist string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	return s.store.SetChangelist(ctx, s.wcID, relpath, changelist)
}

// SetChangelistRecursive retargets every overlay row at or under relpath.
func (s *Session) SetChangelistRecursive(ctx context.Context, relpath, changelist string) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	return s.store.SetChangelistRecursive(ctx, s.wcID, relpath, changelist)
}

// SetActualProps replaces the user-edited property override at relpath;
// nil restores the resolved node properties.
func (s *Session) SetActualProps(ctx context.Context, relpath string, props []byte) error {
	if err := s.guardWrite(ctx, relpath); err != nil {
		return err
	}
	return s.store.SetActualProps(ctx, s.wcID, relpath, props)
}

// AddPristine registers a reference to a pristine blob. Callers write the
// blob file to the store layout only after this returns; the registry row
// must exist before the blob does.
func (s *Session) AddPristine(ctx context.Context, checksum, md5 string, size int64) error {
	return s.store.AddPristineRef(ctx, checksum, md5, size)
}

// ReleasePristine drops one reference; the row lingers until GC.
func (s *Session) ReleasePristine(ctx context.Context, checksum string) error {
	return s.store.ReleasePristine(ctx, checksum)
}

// PristineGC removes unreferenced zero-refcount pristine rows and returns
// the checksums whose blob files the caller should now unlink.
func (s *Session) PristineGC(ctx context.Context) ([]string, error) {
	removed, err := s.store.PristineGC(ctx)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		s.logger.Info("pristine gc", "removed", len(removed))
	}
	return removed, nil
}
