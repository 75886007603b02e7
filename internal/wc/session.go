package wc

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Session is the query/mutation surface over one workcopy. It owns the
// layer-selection resolver and enforces the path grammar and the
// workcopy-lock discipline on top of the raw store.
//
// A Session is bound to a single wc_id. Distinct sessions are independent;
// a single session is not required to be safe for concurrent use.
type Session struct {
	store  Store
	wcID   int64
	logger Logger
	clock  Clock
	cache  CacheConfig
	repos  *repoCache
}

// SessionConfig carries the collaborators a session is built from.
type SessionConfig struct {
	Logger Logger
	Clock  Clock
	Cache  CacheConfig
}

// NewSession binds a session to wcID on the given store.
func NewSession(store Store, wcID int64, cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = NewNopLogger()
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	return &Session{
		store:  store,
		wcID:   wcID,
		logger: cfg.Logger,
		clock:  cfg.Clock,
		cache:  cfg.Cache,
		repos:  newRepoCache(),
	}
}

// Store exposes the underlying store for callers composing lower-level
// operations (the CLI's maintenance verbs).
func (s *Session) Store() Store { return s.store }

// Cache returns the cache configuration the session was built with.
func (s *Session) Cache() CacheConfig { return s.cache }

// WCID returns the workcopy id the session is bound to.
func (s *Session) WCID() int64 { return s.wcID }

// Repository interns root, memoizing the row for the session lifetime.
func (s *Session) Repository(ctx context.Context, root, uuid string) (*Repository, error) {
	if r, ok := s.repos.byRoot[root]; ok {
		return r, nil
	}
	r, err := s.store.InternRepository(ctx, root, uuid)
	if err != nil {
		return nil, err
	}
	s.repos.add(r)
	return r, nil
}

// RepositoryByID resolves an interned repository id, memoized.
func (s *Session) RepositoryByID(ctx context.Context, id int64) (*Repository, error) {
	if r, ok := s.repos.byID[id]; ok {
		return r, nil
	}
	r, err := s.store.FindRepositoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.repos.add(r)
	return r, nil
}

// ResolveNode runs layer selection at relpath: the op_depth-maximal row
// when one exists, otherwise attributes inherited from the nearest
// ancestor copy layer that covers relpath. Fails with ErrNotFound when no
// layer covers the path.
func (s *Session) ResolveNode(ctx context.Context, relpath string) (*NodeInfo, error) {
	return s.resolve(ctx, relpath, false)
}

// ResolveNodeWithLock is ResolveNode joined with the repository-lock
// overlay.
func (s *Session) ResolveNodeWithLock(ctx context.Context, relpath string) (*NodeInfo, error) {
	return s.resolve(ctx, relpath, true)
}

func (s *Session) resolve(ctx context.Context, relpath string, withLock bool) (*NodeInfo, error) {
	if err := CheckRelpath(relpath); err != nil {
		return nil, err
	}

	read := s.store.ReadNodeInfo
	if withLock {
		read = s.store.ReadNodeInfoWithLock
	}
	n, err := read(ctx, s.wcID, relpath)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if relpath == "" {
		return nil, err
	}

	// No row at any depth. Walk ancestors looking for a copy layer that
	// covers relpath; an unmaterialized descendant inherits the copy
	// source's BASE attributes.
	for anc := ParentRelpath(relpath); ; anc = ParentRelpath(anc) {
		ancNode, ancErr := s.store.ReadWorkingNode(ctx, s.wcID, anc)
		switch {
		case errors.Is(ancErr, ErrNotFound):
		case ancErr != nil:
			return nil, ancErr
		case ancNode.Presence == PresenceNormal && ancNode.Kind == KindDir &&
			ancNode.ReposID != 0 && ancNode.ReposPath != "":
			suffix, _ := RelpathSuffix(anc, relpath)
			return s.inheritFromCopy(ctx, ancNode, relpath, suffix)
		}
		if anc == "" {
			break
		}
	}
	return nil, fmt.Errorf("resolving %q: %w", relpath, ErrNotFound)
}

// inheritFromCopy synthesizes the effective view of an unmaterialized
// descendant inside the copied subtree rooted at layer.
func (s *Session) inheritFromCopy(ctx context.Context, layer *NodeInfo, relpath, suffix string) (*NodeInfo, error) {
	srcPath := JoinRelpath(layer.ReposPath, suffix)
	src, err := s.store.ReadBaseNodeByReposPath(ctx, s.wcID, layer.ReposID, srcPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %q inside copy at %q: %w",
			relpath, layer.LocalRelpath, err)
	}

	inherited := *src
	inherited.LocalRelpath = relpath
	inherited.ParentRelpath = ParentRelpath(relpath)
	inherited.OpDepth = layer.OpDepth
	inherited.Revision = layer.Revision
	inherited.Inherited = true
	inherited.Lock = nil
	inherited.DavCache = nil
	return &inherited, nil
}

// BaseNode reads the pristine server row at relpath, shadowed or not.
func (s *Session) BaseNode(ctx context.Context, relpath string) (*NodeInfo, error) {
	if err := CheckRelpath(relpath); err != nil {
		return nil, err
	}
	return s.store.ReadBaseNode(ctx, s.wcID, relpath)
}

// WorkingNode reads the topmost working row at relpath.
func (s *Session) WorkingNode(ctx context.Context, relpath string) (*NodeInfo, error) {
	if err := CheckRelpath(relpath); err != nil {
		return nil, err
	}
	return s.store.ReadWorkingNode(ctx, s.wcID, relpath)
}

// IsVisible reports whether relpath exists in the effective view: covered
// by some layer and not shadowed by a delete or exclusion.
func (s *Session) IsVisible(ctx context.Context, relpath string) (bool, error) {
	n, err := s.ResolveNode(ctx, relpath)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch n.Presence {
	case PresenceNormal, PresenceIncomplete:
		return true, nil
	default:
		return false, nil
	}
}

// EffectiveChildren lists the child names of relpath in the effective
// view: every name present at any layer, plus unmaterialized names
// inherited when relpath is a copied directory.
func (s *Session) EffectiveChildren(ctx context.Context, relpath string) ([]string, error) {
	if err := CheckRelpath(relpath); err != nil {
		return nil, err
	}
	names, err := s.store.Children(ctx, s.wcID, relpath)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}

	n, err := s.ResolveNode(ctx, relpath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return names, nil
		}
		return nil, err
	}
	if n.OpDepth > 0 && n.Presence == PresenceNormal && n.Kind == KindDir &&
		n.ReposID != 0 && n.ReposPath != "" {
		src, err := s.store.ReadBaseNodeByReposPath(ctx, s.wcID, n.ReposID, n.ReposPath)
		if err == nil {
			srcChildren, err := s.store.BaseChildren(ctx, s.wcID, src.LocalRelpath)
			if err != nil {
				return nil, err
			}
			for _, c := range srcChildren {
				child := JoinRelpath(relpath, lastComponent(c.LocalRelpath))
				if _, ok := seen[child]; !ok {
					seen[child] = struct{}{}
					names = append(names, child)
				}
			}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	sort.Strings(names)
	return names, nil
}

// lastComponent returns the final path component of relpath.
func lastComponent(relpath string) string {
	if relpath == "" {
		return ""
	}
	if p := ParentRelpath(relpath); p != "" {
		return relpath[len(p)+1:]
	}
	return relpath
}

// Props returns the effective property map at relpath: the actual-overlay
// override when present, otherwise the resolved node properties.
func (s *Session) Props(ctx context.Context, relpath string) ([]byte, error) {
	props, err := s.store.ReadActualProps(ctx, s.wcID, relpath)
	if err == nil {
		return props, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	n, err := s.ResolveNode(ctx, relpath)
	if err != nil {
		return nil, err
	}
	return n.Properties, nil
}

// EnsureWritable verifies that the process holds a workcopy lock covering
// relpath before a mutation. The lock walk covers ancestors and their
// locked_levels reach.
func (s *Session) EnsureWritable(ctx context.Context, relpath string) error {
	held, _, err := s.store.IsWCLocked(ctx, s.wcID, relpath)
	if err != nil {
		return err
	}
	if !held {
		return fmt.Errorf("%q: %w", relpath, ErrNotLocked)
	}
	return nil
}

// DrainWorkQueue executes every pending work item in FIFO order under the
// caller-held workcopy lock. run is invoked outside the store transaction;
// an item is removed only after run returns nil. A failing item stops the
// drain so a later pass can resume from it.
func (s *Session) DrainWorkQueue(ctx context.Context, run func(item *WorkItem) error) (int, error) {
	start := s.clock.Now()
	done := 0
	for {
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		item, err := s.store.PeekWork(ctx)
		if err != nil {
			return done, err
		}
		if item == nil {
			if done > 0 {
				s.logger.Info("work queue drained",
					"items", done, "elapsed", s.clock.Now().Sub(start))
			}
			return done, nil
		}
		if err := run(item); err != nil {
			return done, fmt.Errorf("running work item %d: %w", item.ID, err)
		}
		if err := s.store.CompleteWork(ctx, item.ID); err != nil {
			return done, err
		}
		done++
		s.logger.Debug("work item completed", "id", item.ID)
	}
}

// Close releases the session's store.
func (s *Session) Close() error {
	return s.store.Close()
}
