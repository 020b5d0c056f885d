package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery stops a panicking escrow or ledger handler from taking the node
// down. The panic is turned into an ErrPanic result and logged, so a
// corrupted vault or escrow record shows up in the node log.
type Recovery struct{}

var _ timelock.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into ErrPanic. Check runs on every mempool insert, so
// the panic is logged at debug level only.
func (r Recovery) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (_ *timelock.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err, true)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into ErrPanic and logs them as errors.
func (r Recovery) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (_ *timelock.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err, false)
	return next.Deliver(ctx, store, tx)
}

func recoverTx(ctx timelock.Context, tx timelock.Tx, err *error, lowPrio bool) {
	p := recover()
	if p == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", p)

	logger := timelock.GetLogger(ctx).With("panic", p)
	if tx != nil {
		logger = logger.With("path", timelock.GetPath(tx))
	}
	if lowPrio {
		logger.Debug("recovered from handler panic")
	} else {
		logger.Error("recovered from handler panic")
	}
}
