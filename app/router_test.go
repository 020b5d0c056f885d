package app_test

import (
	"context"
	"testing"

	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	r := app.NewRouter()

	counter := &weavetest.Handler{}
	r.Handle("good", counter)
	r.Handle("bad", &weavetest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	})

	assert.Panics(t, func() { r.Handle("good", counter) })
	assert.Panics(t, func() { r.Handle("l:7", counter) })

	ctx := context.Background()
	txFor := func(path string) *weavetest.Tx {
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, nil, txFor("good"))
	assert.NoError(t, err)
	_, err = r.Deliver(ctx, nil, txFor("good"))
	assert.NoError(t, err)
	assert.Equal(t, 2, counter.CallCount())

	_, err = r.Deliver(ctx, nil, txFor("bad"))
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = r.Deliver(ctx, nil, txFor("missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, nil, txFor("missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, counter.CallCount())

	_, err = r.Deliver(ctx, nil, &weavetest.Tx{Err: errors.ErrInvalidMsg})
	assert.True(t, errors.ErrInvalidMsg.Is(err))
}
