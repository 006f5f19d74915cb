package pager

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// DefaultCachePages bounds the clean-page cache when the caller does not
// pick a size.
const DefaultCachePages = 256

// pageCache holds clean pages only. The pager's dirty map is always
// authoritative; ristretto may drop or evict entries at any time, and a
// miss simply falls back to the file.
type pageCache struct {
	cache *ristretto.Cache[uint32, []byte]
}

func newPageCache(capacity int) (*pageCache, error) {
	if capacity <= 0 {
		capacity = DefaultCachePages
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint32, []byte]{
		NumCounters: int64(capacity) * 10,
		MaxCost:     int64(capacity) * PageSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("page cache: %w", err)
	}
	return &pageCache{cache: c}, nil
}

func (c *pageCache) get(n uint32) ([]byte, bool) {
	return c.cache.Get(n)
}

// put stores a copy of page so later mutation of the source buffer
// cannot reach the cache.
func (c *pageCache) put(n uint32, page []byte) {
	buf := make([]byte, len(page))
	copy(buf, page)
	c.cache.Set(n, buf, PageSize)
}

func (c *pageCache) del(n uint32) {
	c.cache.Del(n)
}

// wait drains ristretto's buffered writes; tests use it to make hits
// deterministic.
func (c *pageCache) wait() {
	c.cache.Wait()
}

func (c *pageCache) close() {
	c.cache.Close()
}
