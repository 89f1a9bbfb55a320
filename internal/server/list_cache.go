package server

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"skinvault/internal/domain/entity"
)

// listCache keeps owner skin lists between mutations. Every invalidation bumps
// the owner generation, and a list read under an older generation is not
// stored.
type listCache struct {
	mu          sync.Mutex
	entries     *gocache.Cache
	generations map[string]uint64
}

func newListCache(ttl, cleanup time.Duration) *listCache {
	return &listCache{
		entries:     gocache.New(ttl, cleanup),
		generations: make(map[string]uint64),
	}
}

func (c *listCache) get(ownerID string) ([]entity.Skin, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	generation := c.generations[ownerID]

	cached, ok := c.entries.Get(ownerID)
	if !ok {
		return nil, generation, false
	}

	return cached.([]entity.Skin), generation, true //nolint:forcetypeassert
}

func (c *listCache) store(ownerID string, generation uint64, skins []entity.Skin) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[ownerID] != generation {
		return
	}

	c.entries.SetDefault(ownerID, skins)
}

func (c *listCache) invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[ownerID]++
	c.entries.Delete(ownerID)
}
