package timelock

import (
	"encoding/json"

	"github.com/iov-one/timelock/errors"
)

// Handler processes the messages registered for its paths.
type Handler interface {
	Checker
	Deliverer
}

// Checker verifies the validity of a transaction without executing it.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication or logging to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is the setup side of a router.
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the application genesis options. Each extension can look up
// its key and parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key and parses the json
// into the given obj. A missing key is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "options %q: %s", key, err)
	}
	return nil
}

// Initializer implementations initialize an extension from the genesis file
// contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers groups initializers so that they are called in order.
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer(inits)
}

type chainInitializer []Initializer

func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
