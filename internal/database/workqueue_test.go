package database

import (
	"context"
	"testing"
)

func TestWorkQueueFIFO(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.EnqueueWork(ctx, []byte("file-install a"))
	if err != nil {
		t.Fatalf("EnqueueWork() error = %v", err)
	}
	second, err := store.EnqueueWork(ctx, []byte("file-remove b"))
	if err != nil {
		t.Fatalf("EnqueueWork() error = %v", err)
	}
	if second <= first {
		t.Errorf("ids not monotonic: %d then %d", first, second)
	}

	item, err := store.PeekWork(ctx)
	if err != nil {
		t.Fatalf("PeekWork() error = %v", err)
	}
	if item == nil || item.ID != first || string(item.Work) != "file-install a" {
		t.Fatalf("peek = %+v, want first item", item)
	}

	// Peek does not consume.
	again, err := store.PeekWork(ctx)
	if err != nil {
		t.Fatalf("second PeekWork() error = %v", err)
	}
	if again == nil || again.ID != first {
		t.Errorf("peek consumed the item: %+v", again)
	}

	if err := store.CompleteWork(ctx, first); err != nil {
		t.Fatalf("CompleteWork() error = %v", err)
	}
	item, err = store.PeekWork(ctx)
	if err != nil {
		t.Fatalf("PeekWork() error = %v", err)
	}
	if item == nil || item.ID != second {
		t.Errorf("peek after complete = %+v, want second item", item)
	}

	if err := store.CompleteWork(ctx, second); err != nil {
		t.Fatalf("CompleteWork() error = %v", err)
	}
	item, err = store.PeekWork(ctx)
	if err != nil {
		t.Fatalf("PeekWork() error = %v", err)
	}
	if item != nil {
		t.Errorf("queue not empty: %+v", item)
	}
}

func TestAnyWorkPending(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	pending, err := store.AnyWorkPending(ctx)
	if err != nil {
		t.Fatalf("AnyWorkPending() error = %v", err)
	}
	if pending {
		t.Error("empty queue reported pending work")
	}

	id, err := store.EnqueueWork(ctx, []byte("sync-props c"))
	if err != nil {
		t.Fatalf("EnqueueWork() error = %v", err)
	}
	pending, err = store.AnyWorkPending(ctx)
	if err != nil {
		t.Fatalf("AnyWorkPending() error = %v", err)
	}
	if !pending {
		t.Error("queued work not reported")
	}

	if err := store.CompleteWork(ctx, id); err != nil {
		t.Fatalf("CompleteWork() error = %v", err)
	}
	pending, err = store.AnyWorkPending(ctx)
	if err != nil {
		t.Fatalf("AnyWorkPending() error = %v", err)
	}
	if pending {
		t.Error("drained queue reported pending work")
	}
}
