/*
Package app links together all the components of the timelock chain: the
ledger, the escrow extension and signature authentication.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store/iavl"
	"github.com/iov-one/timelock/x"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/ledger"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/utils"
)

// Authenticator returns the typical authentication, just using public key
// signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication, logging,
// and recovery.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce even if the message
		// fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the ledger and escrow handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	tokens := ledger.NewController(ledger.NewBucket())
	ledger.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, tokens)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/accounts", "/escrows" and "/auth" along with their indexes.
func QueryRouter() timelock.QueryRouter {
	r := timelock.NewQueryRouter()
	escrow.RegisterQuery(r)
	ledger.RegisterQuery(r)
	sigs.RegisterQuery(r)
	return r
}

// Stack wires up a standard router with a standard decorator chain. This
// can be passed into BaseApp.
func Stack() timelock.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() timelock.Initializer {
	return timelock.ChainInitializers(
		ledger.Initializer{},
		escrow.Initializer{},
	)
}

// Application constructs a basic ABCI application with the given arguments.
// If you are not sure what to use for the Handler, just use Stack().
func Application(name string, h timelock.Handler, tx timelock.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists the data to
// the named path. An empty path gives an in memory store.
func CommitKVStore(dbPath string) (timelock.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
