package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"wcdb-go/internal/wc"
)

func TestWCLockLevels(t *testing.T) {
	store, wcID := newTestStore(t)
	ctx := context.Background()

	t.Run("zero levels cover only the directory", func(t *testing.T) {
		if err := store.AcquireWCLock(ctx, wcID, "d", 0); err != nil {
			t.Fatalf("AcquireWCLock() error = %v", err)
		}
		t.Cleanup(func() { store.ReleaseWCLock(ctx, wcID, "d") })

		held, holder, err := store.IsWCLocked(ctx, wcID, "d")
		if err != nil || !held || holder != "d" {
			t.Errorf("IsWCLocked(d) = %v %q %v", held, holder, err)
		}
		held, _, err = store.IsWCLocked(ctx, wcID, "d/sub")
		if err != nil {
			t.Fatalf("IsWCLocked(d/sub) error = %v", err)
		}
		if held {
			t.Error("level-0 lock leaked onto the child")
		}
	})

	t.Run("infinite levels cover the subtree", func(t *testing.T) {
		if err := store.AcquireWCLock(ctx, wcID, "e", wc.InfiniteLevels); err != nil {
			t.Fatalf("AcquireWCLock() error = %v", err)
		}
		held, holder, err := store.IsWCLocked(ctx, wcID, "e/deep/below")
		if err != nil || !held || holder != "e" {
			t.Errorf("IsWCLocked(e/deep/below) = %v %q %v", held, holder, err)
		}
	})

	t.Run("bounded levels measure distance", func(t *testing.T) {
		if err := store.AcquireWCLock(ctx, wcID, "f", 1); err != nil {
			t.Fatalf("AcquireWCLock() error = %v", err)
		}
		held, _, err := store.IsWCLocked(ctx, wcID, "f/one")
		if err != nil || !held {
			t.Errorf("one level below not covered: %v %v", held, err)
		}
		held, _, err = store.IsWCLocked(ctx, wcID, "f/one/two")
		if err != nil {
			t.Fatalf("IsWCLocked(f/one/two) error = %v", err)
		}
		if held {
			t.Error("two levels below covered by a 1-level lock")
		}
	})
}

func TestAcquireWCLockTwiceFails(t *testing.T) {
	store, wcID := newTestStore(t)
	ctx := context.Background()

	if err := store.AcquireWCLock(ctx, wcID, "", wc.InfiniteLevels); err != nil {
		t.Fatalf("AcquireWCLock() error = %v", err)
	}
	err := store.AcquireWCLock(ctx, wcID, "sub", 0)
	if !errors.Is(err, wc.ErrAlreadyLocked) {
		t.Errorf("nested acquire error = %v, want ErrAlreadyLocked", err)
	}
}

func TestReleaseWCLockNotHeld(t *testing.T) {
	store, wcID := newTestStore(t)

	err := store.ReleaseWCLock(context.Background(), wcID, "nope")
	if !errors.Is(err, wc.ErrNotLocked) {
		t.Errorf("ReleaseWCLock() error = %v, want ErrNotLocked", err)
	}
}

func TestRepoLockRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	in := &wc.RepoLock{
		ReposID:      repo.ID,
		ReposRelpath: "trunk/a",
		Token:        "opaquelocktoken:1234",
		Owner:        "alice",
		Comment:      "editing",
		Date:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.InsertRepoLock(ctx, in); err != nil {
		t.Fatalf("InsertRepoLock() error = %v", err)
	}

	out, err := store.ReadRepoLock(ctx, repo.ID, "trunk/a")
	if err != nil {
		t.Fatalf("ReadRepoLock() error = %v", err)
	}
	if out.Token != in.Token || out.Owner != "alice" || !out.Date.Equal(in.Date) {
		t.Errorf("lock = %+v", out)
	}

	if err := store.DeleteRepoLock(ctx, repo.ID, "trunk/a"); err != nil {
		t.Fatalf("DeleteRepoLock() error = %v", err)
	}
	if _, err := store.ReadRepoLock(ctx, repo.ID, "trunk/a"); !errors.Is(err, wc.ErrNotFound) {
		t.Errorf("lock survived deletion: %v", err)
	}
}

// Repository locks survive node churn: the locked path needs no node row,
// and deleting a node leaves the lock in place.
func TestRepoLockSurvivesNodeChurn(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	err := store.InsertRepoLock(ctx, &wc.RepoLock{
		ReposID: repo.ID, ReposRelpath: "ghost", Token: "tok",
	})
	if err != nil {
		t.Fatalf("InsertRepoLock() error = %v", err)
	}

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "ghost", 5, wc.KindFile, "h1")
	if err := store.RemoveAllLayers(ctx, wcID, "ghost", false); err != nil {
		t.Fatalf("RemoveAllLayers() error = %v", err)
	}

	if _, err := store.ReadRepoLock(ctx, repo.ID, "ghost"); err != nil {
		t.Errorf("lock lost to node churn: %v", err)
	}
}

func TestReadNodeInfoWithLockJoin(t *testing.T) {
	store, wcID := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	applyBase(t, store, wcID, repo.ID, "", 5, wc.KindDir, "")
	applyBase(t, store, wcID, repo.ID, "a", 5, wc.KindFile, "h1")
	err := store.InsertRepoLock(ctx, &wc.RepoLock{
		ReposID: repo.ID, ReposRelpath: "a", Token: "tok", Owner: "bob",
	})
	if err != nil {
		t.Fatalf("InsertRepoLock() error = %v", err)
	}

	n, err := store.ReadNodeInfoWithLock(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadNodeInfoWithLock() error = %v", err)
	}
	if n.Lock == nil {
		t.Fatal("lock overlay missing")
	}
	if n.Lock.Token != "tok" || n.Lock.Owner != "bob" {
		t.Errorf("lock = %+v", n.Lock)
	}

	// The plain read carries no overlay.
	n, err = store.ReadNodeInfo(ctx, wcID, "a")
	if err != nil {
		t.Fatalf("ReadNodeInfo() error = %v", err)
	}
	if n.Lock != nil {
		t.Error("plain read joined the lock overlay")
	}
}

func TestRetargetRepoLocks(t *testing.T) {
	store, _ := newTestStore(t)
	repo := testRepo(t, store)
	ctx := context.Background()

	repo2, err := store.InternRepository(ctx,
		"https://svn.example.com/relocated", "9f2be7e0-5243-4816-b03d-1a3bb1a06ea2")
	if err != nil {
		t.Fatalf("InternRepository() error = %v", err)
	}

	err = store.InsertRepoLock(ctx, &wc.RepoLock{
		ReposID: repo.ID, ReposRelpath: "a", Token: "tok",
	})
	if err != nil {
		t.Fatalf("InsertRepoLock() error = %v", err)
	}
	if err := store.RetargetRepoLocks(ctx, repo.ID, repo2.ID); err != nil {
		t.Fatalf("RetargetRepoLocks() error = %v", err)
	}

	if _, err := store.ReadRepoLock(ctx, repo2.ID, "a"); err != nil {
		t.Errorf("lock not moved: %v", err)
	}
	if _, err := store.ReadRepoLock(ctx, repo.ID, "a"); !errors.Is(err, wc.ErrNotFound) {
		t.Errorf("lock still on old repository: %v", err)
	}
}
