package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"wcdb-go/internal/database"
)

// VerifyResult reports one pristine entry whose refcount disagrees with
// the authoritative union reference query.
type VerifyResult struct {
	Checksum string
	Refcount int64
	Live     bool
}

// VerifyPristines cross-checks the optimistic refcounts against the union
// reference query, fanning the lookups out over a small worker pool.
// Entries with refcount > 0 but no live reference (or the reverse) come
// back as findings; an empty slice means the registry is consistent.
func (a *WCApp) VerifyPristines(ctx context.Context) ([]VerifyResult, error) {
	store := a.session.Store()

	rows, err := a.db.Query(ctx, database.SelectAllPristines)
	if err != nil {
		return nil, err
	}
	type entry struct {
		checksum string
		refcount int64
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.checksum, &e.refcount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning pristine entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var (
		mu       sync.Mutex
		findings []VerifyResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, e := range entries {
		g.Go(func() error {
			live, err := store.HasPristineReference(ctx, e.checksum)
			if err != nil {
				return err
			}
			if (e.refcount > 0) == live {
				return nil
			}
			mu.Lock()
			findings = append(findings, VerifyResult{
				Checksum: e.checksum,
				Refcount: e.refcount,
				Live:     live,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return findings, nil
}
