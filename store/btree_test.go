package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMemBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheSuite(t *testing.T) {
	suite := NewTestSuite(makeMemBase)
	t.Run("savepoints", suite.Savepoints)
	t.Run("shadowed iteration", suite.ShadowedIteration)
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	cache.Discard()

	// A discarded cache has nothing to write.
	require.NoError(t, cache.Write())

	v, err := base.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	has, err := base.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBTreeCacheNested(t *testing.T) {
	base := MemStore()
	outer := base.CacheWrap()
	inner := outer.CacheWrap()

	require.NoError(t, inner.Set([]byte("escrow"), []byte("active")))
	has, err := outer.Has([]byte("escrow"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, inner.Write())
	v, err := outer.Get([]byte("escrow"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), v)

	has, err = base.Has([]byte("escrow"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, outer.Write())
	v, err = base.Get([]byte("escrow"))
	require.NoError(t, err)
	assert.Equal(t, []byte("active"), v)
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]Model{Pair([]byte("a"), []byte("1")), Pair([]byte("b"), []byte("2"))})
	var keys []string
	for ; it.Valid(); assert.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Panics(t, func() { it.Key() })
	it.Close()
}
