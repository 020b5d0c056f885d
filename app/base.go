package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder timelock.TxDecoder
	handler timelock.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application.
func NewBaseApp(
	store *StoreApp,
	decoder timelock.TxDecoder,
	handler timelock.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler. Transactions are applied one
// at a time.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return timelock.DeliverTxError(err, b.debug)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx := timelock.WithLogInfo(b.blockContext,
		"call", "deliver_tx",
		"path", timelock.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.store.DeliverStore(), tx)
	return timelock.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return timelock.CheckTxError(err, b.debug)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx := timelock.WithLogInfo(b.blockContext,
		"call", "check_tx",
		"path", timelock.GetPath(tx))
	res, err := b.handler.Check(ctx, b.store.CheckStore(), tx)
	return timelock.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and captures any panics.
func (b BaseApp) loadTx(txBytes []byte) (tx timelock.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
