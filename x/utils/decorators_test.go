package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestActionTagger(t *testing.T) {
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/release"}}
	db := store.MemStore()

	res, err := NewActionTagger().Deliver(context.Background(), db, tx, &weavetest.Handler{})
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, "escrow/release", string(res.Tags[0].Value))

	h := &weavetest.Handler{DeliverErr: errors.ErrUnauthorized}
	_, err = NewActionTagger().Deliver(context.Background(), db, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	broken := &weavetest.Tx{Err: errors.ErrInvalidMsg}
	_, err = NewActionTagger().Deliver(context.Background(), db, broken, &weavetest.Handler{})
	assert.True(t, errors.ErrInvalidMsg.Is(err))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := timelock.WithLogger(context.Background(), log.NewTMLogger(&buf))
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/reclaim"}}
	db := store.MemStore()

	h := &weavetest.Handler{DeliverResult: timelock.DeliverResult{Log: "reclaimed"}}
	_, err := NewLogging().Deliver(ctx, db, tx, h)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "reclaimed"), out)
	assert.True(t, strings.Contains(out, "path=escrow/reclaim"), out)

	buf.Reset()
	h = &weavetest.Handler{DeliverErr: errors.ErrInvalidTiming}
	_, err = NewLogging().Deliver(ctx, db, tx, h)
	assert.True(t, errors.ErrInvalidTiming.Is(err))
	assert.True(t, strings.HasPrefix(buf.String(), "E["), buf.String())
}
