package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCachePutGet(t *testing.T) {
	c, err := newPageCache(8)
	require.NoError(t, err)
	defer c.close()

	page := make([]byte, PageSize)
	copy(page, []byte("page three"))
	c.put(3, page)
	c.wait()

	got, ok := c.get(3)
	require.True(t, ok)
	assert.Equal(t, []byte("page three"), got[:10])
}

func TestPageCacheStoresCopy(t *testing.T) {
	c, err := newPageCache(8)
	require.NoError(t, err)
	defer c.close()

	page := make([]byte, PageSize)
	page[0] = 1
	c.put(0, page)
	c.wait()

	page[0] = 2
	got, ok := c.get(0)
	require.True(t, ok)
	assert.Equal(t, byte(1), got[0])
}

func TestPageCacheDel(t *testing.T) {
	c, err := newPageCache(8)
	require.NoError(t, err)
	defer c.close()

	c.put(1, make([]byte, PageSize))
	c.wait()
	c.del(1)

	_, ok := c.get(1)
	assert.False(t, ok)
}

func TestPageCacheDefaultCapacity(t *testing.T) {
	c, err := newPageCache(0)
	require.NoError(t, err)
	c.close()
}
