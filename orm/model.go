package orm

import (
	"github.com/iov-one/timelock"
)

// Model is implemented by any entity that can be stored using a
// ModelBucket.
type Model interface {
	timelock.Persistent
	Validate() error
}

// Indexer computes the index keys of a model. Returning no keys means the
// model is not indexed.
type Indexer func(Model) ([][]byte, error)
