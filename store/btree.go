package store

import (
	"bytes"

	"github.com/google/btree"
)

const (
	// DefaultFreeListSize is the size we hold for free nodes in a btree.
	DefaultFreeListSize = btree.DefaultFreeListSize

	// Degree of every btree created by this package.
	btreeDegree = 2
)

// BTreeCacheable adds a btree based CacheWrap to a KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache that can be later written to this store, or
// rolled back.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store without persistence. Writing it is a
// no-operation, so it is only useful as the root store in tests and tools.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap places a btree cache over a read only store. All writes are
// recorded in the btree and in a batch that is applied to the parent on
// Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a btree to cache around given store. Use
// ReadOnlyKVStore to emphasize that all writes must go through the batch.
//
// free may be nil, or an existing list can be given to reuse its memory.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another btree on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch that writes to this cache.
func (b *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all recorded operations to the parent store and clears this
// cache.
func (b *BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached data. The nodes are returned to the free list.
func (b *BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if r, ok := b.batch.(resetter); ok {
		r.Reset()
	}
}

type resetter interface {
	Reset()
}

// Set writes to the btree and to the batch.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete records a deletion in the btree and in the batch.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, deleted: true})
	return b.batch.Delete(key)
}

// Get reads from the btree if there, else from the backing store.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if res := b.bt.Get(cacheItem{key: key}); res != nil {
		it := res.(cacheItem)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.back.Get(key)
}

// Has reads from the btree if there, else from the backing store.
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if res := b.bt.Get(cacheItem{key: key}); res != nil {
		return !res.(cacheItem).deleted, nil
	}
	return b.back.Has(key)
}

// Iterator combines results from the btree and the backing store in
// ascending order.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(collectRange(b.bt, start, end), parent, false)
}

// ReverseIterator combines results from the btree and the backing store in
// descending order.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := collectRange(b.bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newMergeIterator(items, parent, true)
}

// cacheItem is a single cached write. A deleted item hides the value of the
// backing store.
type cacheItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheItem{}

func (c cacheItem) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cacheItem).key) < 0
}

// collectRange returns a copy of all items within [start, end) in ascending
// order. Nil start or end means unbounded.
func collectRange(bt *btree.BTree, start, end []byte) []cacheItem {
	var res []cacheItem
	add := func(i btree.Item) bool {
		res = append(res, i.(cacheItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(cacheItem{key: end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(cacheItem{key: start}, add)
	default:
		bt.AscendRange(cacheItem{key: start}, cacheItem{key: end}, add)
	}
	return res
}
