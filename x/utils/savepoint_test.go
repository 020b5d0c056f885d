package utils

import (
	"context"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    Savepoint
		handler timelock.Handler
		check   bool
		wantErr *errors.Error
		written bool
	}{
		"inactive savepoint keeps writes of a failed deliver": {
			save:    NewSavepoint(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: true,
		},
		"active savepoint drops writes of a failed deliver": {
			save:    NewSavepoint().OnDeliver(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: false,
		},
		"active savepoint keeps writes of a successful deliver": {
			save:    NewSavepoint().OnDeliver(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv},
			written: true,
		},
		"check savepoint does not trigger on deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &weavetest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: true,
		},
		"double activation triggers on check": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: &weavetest.Handler{CheckErr: errors.ErrNotFound},
			check:   true,
			wantErr: errors.ErrNotFound,
			written: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx := context.Background()
			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, db, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, db, nil, tc.handler)
			}
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, tc.wantErr.Is(err), "got %v", err)
			}
			has, err := db.Has(nk)
			require.NoError(t, err)
			assert.Equal(t, tc.written, has)
		})
	}
}

func TestSavepointWithoutCache(t *testing.T) {
	// EmptyKVStore cannot be cache wrapped, so the handler is called
	// directly.
	db := store.EmptyKVStore{}
	h := &weavetest.Handler{}
	_, err := NewSavepoint().OnDeliver().Deliver(context.Background(), db, nil, h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
