package utils

import (
	"time"

	"github.com/iov-one/timelock"
)

// Logging is a decorator to log messages as they pass through. The message
// path is added to the context logger so that handlers log it as well.
type Logging struct{}

var _ timelock.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	ctx = timelock.WithLogInfo(ctx, "path", timelock.GetPath(tx))
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	ctx = timelock.WithLogInfo(ctx, "path", timelock.GetPath(tx))
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx timelock.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := timelock.GetLogger(ctx).With("duration", delta/time.Microsecond)

	// An entry is emitted even for an empty message, because of the
	// attached key values.
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
