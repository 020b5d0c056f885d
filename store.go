package timelock

// ReadOnlyKVStore is the read side of a key value store.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive
	// and nil start or end means unbounded.
	// No writes may happen within a domain while an iterator exists over
	// it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive and nil start or end means unbounded.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side of a key value store.
type SetDeleter interface {
	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// KVStore is the store every handler works with.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that can write multiple ops atomically.
	NewBatch() Batch
}

// Batch collects writes to be applied later in one step.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator allows to access a set of items within a range of keys.
//
//   itr, err := db.Iterator(start, end)
//   if err != nil { ... }
//   defer itr.Close()
//   for ; itr.Valid(); err = itr.Next() {
//       if err != nil { ... }
//       k, v := itr.Key(), itr.Value()
//   }
type Iterator interface {
	// Valid returns whether the current position is valid. Once invalid,
	// an Iterator is forever invalid.
	Valid() bool

	// Next moves the iterator to the next key. It panics if the iterator
	// is not valid.
	Next() error

	// Key returns the key of the cursor. It must not be modified.
	Key() []byte

	// Value returns the value of the cursor. It must not be modified.
	Value() []byte

	// Close releases the Iterator.
	Close()
}

// CacheableKVStore is a KVStore that supports cache wrapping.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch-pad of uncommitted data visible to all queries.
// It works like SAVEPOINT in SQL: call Write to apply the cached data to the
// parent store, or Discard to drop it.
type KVCacheWrap interface {
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that can persist its state and maintain some
// history.
type CommitKVStore interface {
	// Get returns the value at the last committed state.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a cache to perform actions on.
	CacheWrap() KVCacheWrap

	// Commit the next version to disk, and returns info.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
