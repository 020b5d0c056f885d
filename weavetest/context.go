package weavetest

import (
	"context"
	"time"

	"github.com/iov-one/timelock"
)

// Ctx returns a context with the block time, height and chain ID set, as the
// application sets them for every transaction.
func Ctx(now time.Time) timelock.Context {
	ctx := context.Background()
	ctx = timelock.WithHeight(ctx, 1)
	ctx = timelock.WithChainID(ctx, "timelock-test")
	return timelock.WithBlockTime(ctx, now)
}
