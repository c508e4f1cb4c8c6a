package shorturls

import (
	"sync"
	"time"
)

type cachedTarget struct {
	id          string
	originalURL string
	cachedAt    time.Time
}

// resolveCache keeps recently resolved redirect targets in memory so hot
// short links skip the lookup query. Click counting always hits the
// database. Entries are invalidated on update and delete; a namespace
// rename flushes everything since it changes the key of every URL under it.
type resolveCache struct {
	store sync.Map // map[namespace/code]*cachedTarget
	ttl   time.Duration
}

func newResolveCache(ttl time.Duration) *resolveCache {
	return &resolveCache{ttl: ttl}
}

func (c *resolveCache) get(key string) (*cachedTarget, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}

	target := val.(*cachedTarget)
	if time.Since(target.cachedAt) > c.ttl {
		c.store.Delete(key)
		return nil, false
	}

	return target, true
}

func (c *resolveCache) set(key, id, originalURL string) {
	c.store.Store(key, &cachedTarget{
		id:          id,
		originalURL: originalURL,
		cachedAt:    time.Now(),
	})
}

func (c *resolveCache) invalidate(key string) {
	c.store.Delete(key)
}

func (c *resolveCache) flush() {
	c.store.Range(func(key, _ interface{}) bool {
		c.store.Delete(key)
		return true
	})
}
