package escrow

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/weavetest/assert"
	"github.com/iov-one/timelock/x/ledger"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type router map[string]timelock.Handler

func (r router) Handle(path string, h timelock.Handler) {
	r[path] = h
}

func routes(auth *weavetest.CtxAuth, tokens ledger.Controller) router {
	r := make(router)
	RegisterRoutes(r, auth, tokens)
	return r
}

func TestHandlers(t *testing.T) {
	depositor := weavetest.NewCondition()
	receiver := weavetest.NewCondition()
	other := weavetest.NewCondition()
	stranger := weavetest.NewCondition()
	id := EscrowID(depositor.Address(), "XYZ", 0)
	create := &CreateMsg{
		Amount:    coin.NewCoinp(100, "XYZ"),
		Receivers: []timelock.Address{other.Address(), receiver.Address()},
	}

	type step struct {
		signer  timelock.Condition
		msg     timelock.Msg
		after   time.Duration
		wantErr *errors.Error
	}

	cases := map[string]struct {
		steps         []step
		wantDepositor uint64
		wantReceiver  uint64
		wantEscrow    bool
	}{
		"create only": {
			steps: []step{
				{signer: depositor, msg: create},
			},
			wantDepositor: 900,
			wantEscrow:    true,
		},
		"create for someone else": {
			steps: []step{
				{signer: stranger, msg: &CreateMsg{Initializer: depositor.Address(), Amount: coin.NewCoinp(1, "XYZ"), Receivers: create.Receivers}, wantErr: errors.ErrUnauthorized},
			},
			wantDepositor: 1000,
		},
		"zero amount": {
			steps: []step{
				{signer: depositor, msg: &CreateMsg{Amount: coin.NewCoinp(0, "XYZ"), Receivers: create.Receivers}, wantErr: errors.ErrInvalidAmount},
			},
			wantDepositor: 1000,
		},
		"release too early": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: receiver, msg: &ReleaseMsg{EscrowID: id, ReceiverIndex: 1}, after: 10 * time.Second, wantErr: errors.ErrInvalidTiming},
			},
			wantDepositor: 900,
			wantEscrow:    true,
		},
		"release after the deadline": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: receiver, msg: &ReleaseMsg{EscrowID: id, ReceiverIndex: 1}, after: 86401 * time.Second},
				{signer: receiver, msg: &ReleaseMsg{EscrowID: id, ReceiverIndex: 1}, after: 86402 * time.Second, wantErr: errors.ErrNotFound},
			},
			wantDepositor: 900,
			wantReceiver:  100,
		},
		"release to a slot of another receiver": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: receiver, msg: &ReleaseMsg{EscrowID: id, ReceiverIndex: 0}, after: 86401 * time.Second, wantErr: errors.ErrUnauthorized},
			},
			wantDepositor: 900,
			wantEscrow:    true,
		},
		"release with a wrong asset": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: receiver, msg: &ReleaseMsg{EscrowID: id, ReceiverIndex: 1, Asset: "ETH"}, after: 86401 * time.Second, wantErr: errors.ErrAssetMismatch},
			},
			wantDepositor: 900,
			wantEscrow:    true,
		},
		"reclaim": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: depositor, msg: &ReclaimMsg{EscrowID: id}, after: 86401 * time.Second},
				{signer: receiver, msg: &ReleaseMsg{EscrowID: id, ReceiverIndex: 1}, after: 86402 * time.Second, wantErr: errors.ErrNotFound},
			},
			wantDepositor: 1000,
		},
		"reclaim by a receiver": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: receiver, msg: &ReclaimMsg{EscrowID: id}, after: 86401 * time.Second, wantErr: errors.ErrUnauthorized},
			},
			wantDepositor: 900,
			wantEscrow:    true,
		},
		"reclaim too early": {
			steps: []step{
				{signer: depositor, msg: create},
				{signer: depositor, msg: &ReclaimMsg{EscrowID: id}, after: time.Hour, wantErr: errors.ErrInvalidTiming},
			},
			wantDepositor: 900,
			wantEscrow:    true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			tokens := ledger.NewController(ledger.NewBucket())
			require.NoError(t, tokens.Mint(db, depositor.Address(), coin.NewCoin(1000, "XYZ")))
			auth := &weavetest.CtxAuth{Key: "auth"}
			r := routes(auth, tokens)

			for i, s := range tc.steps {
				h, ok := r[s.msg.Path()]
				require.True(t, ok, "no handler for %s", s.msg.Path())
				tx := &weavetest.Tx{Msg: s.msg}

				ctx := auth.SetConditions(weavetest.Ctx(now.Add(s.after)), s.signer)
				if _, err := h.Check(ctx, db, tx); !s.wantErr.Is(err) {
					t.Fatalf("step %d: check: want %v error, got %+v", i, s.wantErr, err)
				}

				ctx = auth.SetConditions(weavetest.Ctx(now.Add(s.after)), s.signer)
				cache := db.CacheWrap()
				if _, err := h.Deliver(ctx, cache, tx); !s.wantErr.Is(err) {
					t.Fatalf("step %d: deliver: want %v error, got %+v", i, s.wantErr, err)
				}
				require.NoError(t, cache.Write())
			}

			acc := tokens.UserAccount(depositor.Address(), "XYZ")
			b, err := tokens.Balance(db, acc)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDepositor, b.Amount)

			b, err = tokens.Balance(db, tokens.UserAccount(receiver.Address(), "XYZ"))
			if tc.wantReceiver == 0 {
				assert.IsErr(t, errors.ErrNotFound, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantReceiver, b.Amount)
			}

			err = NewBucket().Has(db, id)
			if tc.wantEscrow {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, errors.ErrNotFound, err)
			}
		})
	}
}

func TestCheckDoesNotWrite(t *testing.T) {
	depositor := weavetest.NewCondition()
	receiver := weavetest.NewCondition()
	db := store.MemStore()
	tokens := ledger.NewController(ledger.NewBucket())
	require.NoError(t, tokens.Mint(db, depositor.Address(), coin.NewCoin(10, "XYZ")))
	auth := &weavetest.CtxAuth{Key: "auth"}
	r := routes(auth, tokens)

	tx := &weavetest.Tx{Msg: &CreateMsg{Amount: coin.NewCoinp(10, "XYZ"), Receivers: []timelock.Address{receiver.Address()}}}
	ctx := auth.SetConditions(weavetest.Ctx(now), depositor)
	_, err := r[pathCreateMsg].Check(ctx, db, tx)
	require.NoError(t, err)

	err = NewBucket().Has(db, EscrowID(depositor.Address(), "XYZ", 0))
	assert.IsErr(t, errors.ErrNotFound, err)
	b, err := tokens.Balance(db, tokens.UserAccount(depositor.Address(), "XYZ"))
	require.NoError(t, err)
	assert.Equal(t, uint64(10), b.Amount)
}

func TestTransitionsAreLoggedOnDeliverOnly(t *testing.T) {
	depositor := weavetest.NewCondition()
	receiver := weavetest.NewCondition()
	id := EscrowID(depositor.Address(), "XYZ", 0)
	db := store.MemStore()
	tokens := ledger.NewController(ledger.NewBucket())
	require.NoError(t, tokens.Mint(db, depositor.Address(), coin.NewCoin(10, "XYZ")))
	auth := &weavetest.CtxAuth{Key: "auth"}
	r := routes(auth, tokens)

	cases := []struct {
		signer  timelock.Condition
		msg     timelock.Msg
		after   time.Duration
		wantLog string
	}{
		{
			signer:  depositor,
			msg:     &CreateMsg{Amount: coin.NewCoinp(10, "XYZ"), Receivers: []timelock.Address{receiver.Address()}},
			wantLog: "escrow created",
		},
		{
			signer:  receiver,
			msg:     &ReleaseMsg{EscrowID: id},
			after:   86401 * time.Second,
			wantLog: "escrow released",
		},
	}

	for i, tc := range cases {
		var buf bytes.Buffer
		logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(&buf)), log.AllowInfo())
		ctx := timelock.WithLogger(weavetest.Ctx(now.Add(tc.after)), logger)
		ctx = auth.SetConditions(ctx, tc.signer)
		h := r[tc.msg.Path()]
		tx := &weavetest.Tx{Msg: tc.msg}

		_, err := h.Check(ctx, db, tx)
		require.NoError(t, err)
		if bytes.Contains(buf.Bytes(), []byte(tc.wantLog)) {
			t.Fatalf("case %d: check logged %q: %s", i, tc.wantLog, buf.String())
		}

		_, err = h.Deliver(ctx, db, tx)
		require.NoError(t, err)
		if n := bytes.Count(buf.Bytes(), []byte(tc.wantLog)); n != 1 {
			t.Fatalf("case %d: want %q logged once, got %d: %s", i, tc.wantLog, n, buf.String())
		}
	}
}

func TestUpdateConfiguration(t *testing.T) {
	owner := weavetest.NewCondition()
	admin := weavetest.NewCondition()

	genesis := `{"conf": {"escrow": {"owner": "` + owner.Address().String() + `", "release_policy": "BEFORE_DEADLINE"}}}`
	var opts timelock.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	var conf Configuration
	require.NoError(t, gconf.Load(db, pkgName, &conf))
	assert.Equal(t, ReleaseBeforeDeadline, conf.ReleasePolicy)
	assert.Equal(t, int64(86400), conf.DeadlineSeconds)
	assert.Equal(t, uint32(MaxReceiversLimit), conf.MaxReceivers)

	auth := &weavetest.CtxAuth{Key: "auth"}
	h := routes(auth, ledger.NewController(ledger.NewBucket()))[pathUpdateConfigurationMsg]
	tx := &weavetest.Tx{Msg: &UpdateConfigurationMsg{Patch: &Configuration{Admin: admin.Address(), DeadlineSeconds: 60}}}

	_, err := h.Deliver(auth.SetConditions(context.Background(), admin), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = h.Deliver(auth.SetConditions(context.Background(), owner), db, tx)
	require.NoError(t, err)

	ctrl := NewController(ledger.NewController(ledger.NewBucket()), NewBucket(), NewAuthority())
	got, err := ctrl.Configuration(db)
	require.NoError(t, err)
	assert.Equal(t, &Configuration{
		Owner:           owner.Address(),
		Admin:           admin.Address(),
		DeadlineSeconds: 60,
		ReleasePolicy:   ReleaseBeforeDeadline,
		MaxReceivers:    MaxReceiversLimit,
	}, got)
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(timelock.Options{}, db))

	ctrl := NewController(ledger.NewController(ledger.NewBucket()), NewBucket(), NewAuthority())
	conf, err := ctrl.Configuration(db)
	require.NoError(t, err)
	want := DefaultConfiguration()
	assert.Equal(t, &want, conf)
}

func TestQueryEscrows(t *testing.T) {
	depositor := weavetest.NewCondition().Address()
	receiver := weavetest.NewCondition().Address()
	db, _, ctrl := setup(t, depositor, coin.NewCoin(100, "XYZ"))

	id, escrow, err := ctrl.Create(weavetest.Ctx(now), db, depositor, coin.NewCoin(60, "XYZ"), []timelock.Address{receiver, receiver}, 4)
	require.NoError(t, err)

	qr := timelock.NewQueryRouter()
	RegisterQuery(qr)

	for _, path := range []string{"/escrows/initializer", "/escrows/receiver"} {
		key := depositor
		if path == "/escrows/receiver" {
			key = receiver
		}
		h := qr.Handler(path)
		require.NotNil(t, h, path)
		res, err := h.Query(db, timelock.KeyQueryMod, key)
		require.NoError(t, err)
		require.Len(t, res, 1, path)
		assert.Equal(t, append([]byte("escrow:"), id...), res[0].Key)

		var got Escrow
		require.NoError(t, got.Unmarshal(res[0].Value))
		assert.Equal(t, escrow, &got)
	}
}
