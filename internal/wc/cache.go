package wc

// CacheConfig is the per-session cache configuration record. Each session
// keeps its own copy, exposed through Session.Cache; nothing is shared
// process-wide. No cache tier in this package reads the record, so its
// fields, FailStop included, do not change how the store behaves.
type CacheConfig struct {
	CacheFulltexts   bool
	CacheTxdeltas    bool
	FailStop         bool
	MemcacheEndpoint string // host:port; empty disables the remote tier
}

// DefaultCacheConfig mirrors the defaults of the stock client: fulltexts
// cached, deltas not.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{CacheFulltexts: true}
}

// repoCache memoizes interned repository rows for one session.
type repoCache struct {
	byID   map[int64]*Repository
	byRoot map[string]*Repository
}

func newRepoCache() *repoCache {
	return &repoCache{
		byID:   make(map[int64]*Repository),
		byRoot: make(map[string]*Repository),
	}
}

func (c *repoCache) add(r *Repository) {
	c.byID[r.ID] = r
	c.byRoot[r.Root] = r
}
