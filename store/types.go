package store

import "github.com/iov-one/timelock"

// Aliases of the storage interfaces for shorter names in this package and
// its users.
type (
	ReadOnlyKVStore  = timelock.ReadOnlyKVStore
	SetDeleter       = timelock.SetDeleter
	KVStore          = timelock.KVStore
	Batch            = timelock.Batch
	Iterator         = timelock.Iterator
	CacheableKVStore = timelock.CacheableKVStore
	KVCacheWrap      = timelock.KVCacheWrap
	CommitKVStore    = timelock.CommitKVStore
	CommitID         = timelock.CommitID
	Model            = timelock.Model
)

// Pair constructs a model from a key-value pair.
var Pair = timelock.Pair
