package database

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"wcdb-go/internal/wc"
)

// applyBase records a BASE node the way checkout does: repos_path mirrors
// the local relpath.
func applyBase(t *testing.T, store *Store, wcID, reposID int64, relpath string, revision int64, kind wc.Kind, checksum string) {
	t.Helper()

	err := store.ApplyBaseNode(context.Background(), &wc.NodeInfo{
		WCID:         wcID,
		LocalRelpath: relpath,
		ReposID:      reposID,
		ReposPath:    relpath,
		Revision:     revision,
		Presence:     wc.PresenceNormal,
		Kind:         kind,
		Checksum:     checksum,
	})
	if err != nil {
		t.Fatalf("ApplyBaseNode(%q) error = %v", relpath, err)
	}
}

func TestCheckoutThenRead(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindFile, "h1")

	n, err := store.ReadNodeInfo(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadNodeInfo() error = %v", err)
	}
	if n.OpDepth != 0 {
		t.Errorf("OpDepth = %d, want 0", n.OpDepth)
	}
	if n.Revision != 5 {
		t.Errorf("Revision = %d, want 5", n.Revision)
	}
	if n.Checksum != "h1" {
		t.Errorf("Checksum = %q, want h1", n.Checksum)
	}
	if n.Presence != wc.PresenceNormal || n.Kind != wc.KindFile {
		t.Errorf("Presence/Kind = %v/%v", n.Presence, n.Kind)
	}
}

func TestReadNodeInfoNotFound(t *testing.T) {
	store, wcID := newTestStore(t)

	_, err := store.ReadNodeInfo(context.Background(), wcID, "missing")
	if !errors.Is(err, wc.ErrNotFound) {
		t.Errorf("ReadNodeInfo() error = %v, want ErrNotFound", err)
	}
}

func TestScheduleDeleteShadowsBase(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindFile, "h1")

	if err := store.ScheduleDelete(ctx, wcID, "a", 1, false); err != nil {
		t.Fatalf("ScheduleDelete() error = %v", err)
	}

	working, err := store.ReadWorkingNode(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadWorkingNode() error = %v", err)
	}
	if working.Presence != wc.PresenceBaseDeleted {
		t.Errorf("working presence = %v, want base-deleted", working.Presence)
	}
	if working.OpDepth != 1 {
		t.Errorf("working op_depth = %d, want 1", working.OpDepth)
	}

	// BASE stays readable explicitly.
	base, err := store.ReadBaseNode(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadBaseNode() error = %v", err)
	}
	if base.Revision != 5 || base.Presence != wc.PresenceNormal {
		t.Errorf("base = rev %d presence %v, want rev 5 normal", base.Revision, base.Presence)
	}

	// The effective view selects the deleted layer.
	eff, err := store.ReadNodeInfo(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadNodeInfo() error = %v", err)
	}
	if eff.OpDepth != 1 || eff.Presence != wc.PresenceBaseDeleted {
		t.Errorf("effective = depth %d presence %v", eff.OpDepth, eff.Presence)
	}
}

func TestScheduleDeleteRecursive(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "d", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "d/f", 5, wc.KindFile, "h2")
	applyBase(t, store, wcID, repo.ID, "other", 5, wc.KindFile, "h3")

	if err := store.ScheduleDelete(ctx, wcID, "d", 1, true); err != nil {
		t.Fatalf("ScheduleDelete() error = %v", err)
	}

	for _, p := range []string{"d", "d/f"} {
		w, err := store.ReadWorkingNode(ctx, wcID, p)
		if err != nil {
			t.Fatalf("ReadWorkingNode(%q) error = %v", p, err)
		}
		if w.Presence != wc.PresenceBaseDeleted || w.OpDepth != 1 {
			t.Errorf("%q = presence %v depth %d", p, w.Presence, w.OpDepth)
		}
	}

	if _, err := store.ReadWorkingNode(ctx, wcID, "other"); !errors.Is(err, wc.ErrNotFound) {
		t.Errorf("sibling gained a working row: %v", err)
	}
}

func TestScheduleDeleteRejectsBadOpDepth(t *testing.T) {
	store, wcID := newTestStore(t)

	err := store.ScheduleDelete(context.Background(), wcID, "a", 4, false)
	if !errors.Is(err, wc.ErrConstraintViolation) {
		t.Errorf("ScheduleDelete() error = %v, want ErrConstraintViolation", err)
	}
}

func TestCopyFromBaseLazy(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src/f", 5, wc.KindFile, "h2")

	if err := store.CopyFromBase(ctx, wcID, "src", "dst", false); err != nil {
		t.Fatalf("CopyFromBase() error = %v", err)
	}

	dst, err := store.ReadWorkingNode(ctx, wcID, "dst")
	if err != nil {
		t.Fatalf("ReadWorkingNode(dst) error = %v", err)
	}
	if dst.OpDepth != 1 || dst.Presence != wc.PresenceNormal || dst.Kind != wc.KindDir {
		t.Errorf("dst = depth %d presence %v kind %v", dst.OpDepth, dst.Presence, dst.Kind)
	}
	if dst.ReposPath != "src" || dst.Revision != 5 {
		t.Errorf("dst copyfrom = %q@%d, want src@5", dst.ReposPath, dst.Revision)
	}

	// Lazy: the descendant has no row of its own yet.
	if _, err := store.ReadNodeInfo(ctx, wcID, "dst/f"); !errors.Is(err, wc.ErrNotFound) {
		t.Errorf("dst/f unexpectedly materialized: %v", err)
	}

	// The copy source of the child is reachable for inheritance.
	src, err := store.ReadBaseNodeByReposPath(ctx, wcID, repo.ID, "src/f")
	if err != nil {
		t.Fatalf("ReadBaseNodeByReposPath() error = %v", err)
	}
	if src.Checksum != "h2" {
		t.Errorf("inherited checksum = %q, want h2", src.Checksum)
	}
}

func TestCopyFromBaseEager(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src/f", 5, wc.KindFile, "h2")
	applyBase(t, store, wcID, repo.ID, "src/sub", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src/sub/g", 5, wc.KindFile, "h3")

	if err := store.CopyFromBase(ctx, wcID, "src", "dst", true); err != nil {
		t.Fatalf("CopyFromBase() error = %v", err)
	}

	cases := map[string]string{
		"dst/f":     "h2",
		"dst/sub/g": "h3",
	}
	for p, sum := range cases {
		n, err := store.ReadWorkingNode(ctx, wcID, p)
		if err != nil {
			t.Fatalf("ReadWorkingNode(%q) error = %v", p, err)
		}
		if n.Checksum != sum {
			t.Errorf("%q checksum = %q, want %q", p, n.Checksum, sum)
		}
		if n.OpDepth != 1 {
			t.Errorf("%q op_depth = %d, want 1 (layer root rule)", p, n.OpDepth)
		}
	}
}

func TestCopyFromWorking(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src/f", 5, wc.KindFile, "h2")

	if err := store.CopyFromBase(ctx, wcID, "src", "mid", true); err != nil {
		t.Fatalf("CopyFromBase() error = %v", err)
	}
	if err := store.CopyFromWorking(ctx, wcID, "mid", "dst", true); err != nil {
		t.Fatalf("CopyFromWorking() error = %v", err)
	}

	n, err := store.ReadWorkingNode(ctx, wcID, "dst/f")
	if err != nil {
		t.Fatalf("ReadWorkingNode(dst/f) error = %v", err)
	}
	if n.Checksum != "h2" {
		t.Errorf("checksum = %q, want h2", n.Checksum)
	}
}

func TestRevertTopLayer(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindFile, "h1")

	if err := store.ScheduleDelete(ctx, wcID, "a", 1, false); err != nil {
		t.Fatalf("ScheduleDelete() error = %v", err)
	}
	if err := store.Revert(ctx, wcID, "a"); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}

	eff, err := store.ReadNodeInfo(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadNodeInfo() error = %v", err)
	}
	if eff.OpDepth != 0 || eff.Revision != 5 {
		t.Errorf("effective after revert = depth %d rev %d, want BASE@5", eff.OpDepth, eff.Revision)
	}
}

func TestCopyThenRevertRestoresEffectiveView(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src/f", 5, wc.KindFile, "h2")
	applyBase(t, store, wcID, repo.ID, "dst", 5, wc.KindDir, "")

	before, err := store.ReadNodeInfo(ctx, wcID, "dst")
	if err != nil {
		t.Fatalf("ReadNodeInfo() error = %v", err)
	}

	if err := store.CopyFromBase(ctx, wcID, "src", "dst", true); err != nil {
		t.Fatalf("CopyFromBase() error = %v", err)
	}
	if err := store.RevertAll(ctx, wcID, "dst"); err != nil {
		t.Fatalf("RevertAll() error = %v", err)
	}

	after, err := store.ReadNodeInfo(ctx, wcID, "dst")
	if err != nil {
		t.Fatalf("ReadNodeInfo() after revert error = %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("effective view not restored:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestChildrenListings(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindFile, "h1")
	applyBase(t, store, wcID, repo.ID, "b", 5, wc.KindFile, "h2")
	applyBase(t, store, wcID, repo.ID, "src", 5, wc.KindDir, "")
	if err := store.CopyFromBase(ctx, wcID, "src", "c", false); err != nil {
		t.Fatalf("CopyFromBase() error = %v", err)
	}

	base, err := store.BaseChildren(ctx, wcID, "")
	if err != nil {
		t.Fatalf("BaseChildren() error = %v", err)
	}
	var baseNames []string
	for _, n := range base {
		baseNames = append(baseNames, n.LocalRelpath)
	}
	if !reflect.DeepEqual(baseNames, []string{"a", "b", "src"}) {
		t.Errorf("base children = %v", baseNames)
	}

	working, err := store.WorkingChildren(ctx, wcID, "")
	if err != nil {
		t.Fatalf("WorkingChildren() error = %v", err)
	}
	if !reflect.DeepEqual(working, []string{"c"}) {
		t.Errorf("working children = %v", working)
	}

	all, err := store.Children(ctx, wcID, "")
	if err != nil {
		t.Fatalf("Children() error = %v", err)
	}
	if !reflect.DeepEqual(all, []string{"a", "b", "c", "src"}) {
		t.Errorf("effective children = %v", all)
	}
}

func TestSetBaseRepositoryInvalidatesDavCache(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	err := store.InsertNodeRow(ctx, &wc.NodeInfo{
		WCID: wcID, LocalRelpath: "", OpDepth: 0,
		ReposID: repo.ID, ReposPath: "", Revision: 5,
		Presence: wc.PresenceNormal, Kind: wc.KindDir,
		DavCache: []byte("stale"),
	})
	if err != nil {
		t.Fatalf("InsertNodeRow() error = %v", err)
	}

	repo2, err := store.InternRepository(ctx,
		"https://svn.example.com/moved", "9f2be7e0-5243-4816-b03d-1a3bb1a06ea2")
	if err != nil {
		t.Fatalf("InternRepository() error = %v", err)
	}
	if err := store.SetBaseRepository(ctx, wcID, "", repo2.ID); err != nil {
		t.Fatalf("SetBaseRepository() error = %v", err)
	}

	n, err := store.ReadBaseNode(ctx, wcID, "")
	if err != nil {
		t.Fatalf("ReadBaseNode() error = %v", err)
	}
	if n.ReposID != repo2.ID {
		t.Errorf("ReposID = %d, want %d", n.ReposID, repo2.ID)
	}
	if n.DavCache != nil {
		t.Errorf("DavCache survived retargeting: %q", n.DavCache)
	}
}

func TestExclude(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	err := store.ApplyBaseNode(ctx, &wc.NodeInfo{
		WCID: wcID, LocalRelpath: "d", ReposID: repo.ID, ReposPath: "d",
		Revision: 5, Presence: wc.PresenceNormal, Kind: wc.KindDir,
		Depth: wc.DepthInfinity,
	})
	if err != nil {
		t.Fatalf("ApplyBaseNode() error = %v", err)
	}

	if err := store.ExcludeBase(ctx, wcID, "d"); err != nil {
		t.Fatalf("ExcludeBase() error = %v", err)
	}

	n, err := store.ReadBaseNode(ctx, wcID, "d")
	if err != nil {
		t.Fatalf("ReadBaseNode() error = %v", err)
	}
	if n.Presence != wc.PresenceExcluded {
		t.Errorf("presence = %v, want excluded", n.Presence)
	}
	if n.Depth != "" {
		t.Errorf("depth = %q, want cleared", n.Depth)
	}
}

func TestUpdateCopyfromTouchesOnlyTopLayer(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "src", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindDir, "")

	// Layer at depth 1 (copy to a), then a deeper layer at a/b.
	if err := store.CopyFromBase(ctx, wcID, "src", "a", false); err != nil {
		t.Fatalf("CopyFromBase() error = %v", err)
	}
	if err := store.CopyFromBase(ctx, wcID, "src", "a/b", false); err != nil {
		t.Fatalf("CopyFromBase(a/b) error = %v", err)
	}

	if err := store.UpdateCopyfrom(ctx, wcID, "a/b", repo.ID, "elsewhere", 7); err != nil {
		t.Fatalf("UpdateCopyfrom() error = %v", err)
	}

	top, err := store.ReadWorkingNode(ctx, wcID, "a/b")
	if err != nil {
		t.Fatalf("ReadWorkingNode(a/b) error = %v", err)
	}
	if top.ReposPath != "elsewhere" || top.Revision != 7 {
		t.Errorf("top layer copyfrom = %q@%d, want elsewhere@7", top.ReposPath, top.Revision)
	}

	outer, err := store.ReadWorkingNode(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadWorkingNode(a) error = %v", err)
	}
	if outer.ReposPath != "src" || outer.Revision != 5 {
		t.Errorf("outer layer copyfrom = %q@%d, want src@5 untouched", outer.ReposPath, outer.Revision)
	}
}

func TestDeletionInfo(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindFile, "h1")
	if err := store.ScheduleDelete(ctx, wcID, "a", 1, false); err != nil {
		t.Fatalf("ScheduleDelete() error = %v", err)
	}

	di, err := store.ReadDeletionInfo(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadDeletionInfo() error = %v", err)
	}
	if di.BasePresence != wc.PresenceNormal {
		t.Errorf("base presence = %v", di.BasePresence)
	}
	if di.WorkingPresence != wc.PresenceBaseDeleted || di.OpDepth != 1 {
		t.Errorf("working = %v at %d", di.WorkingPresence, di.OpDepth)
	}
}
