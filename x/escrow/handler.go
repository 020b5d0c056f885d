package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/x"
)

// RegisterQuery registers the escrows bucket under "/escrows".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// RegisterRoutes registers the handlers of this extension. The vault
// authority is derived here, once, and shared by all handlers.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, ledger TokenLedger) {
	ctrl := NewController(ledger, NewBucket(), NewAuthority())
	r.Handle(pathCreateMsg, CreateEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathReleaseMsg, ReleaseEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathReclaimMsg, ReclaimEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(pkgName, &Configuration{}, auth))
}

// dryRun runs fn on a cache of the store that is always discarded.
func dryRun(db timelock.KVStore, fn func(timelock.KVStore) error) error {
	cstore, ok := db.(timelock.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "%T cannot be cache wrapped", db)
	}
	cache := cstore.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// CreateEscrowHandler locks funds in a new escrow.
type CreateEscrowHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = CreateEscrowHandler{}

// Check runs the creation on a discarded cache.
func (h CreateEscrowHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	err := dryRun(db, func(db timelock.KVStore) error {
		_, _, err := h.create(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

// Deliver moves the funds from the initializer to a new vault. The escrow ID
// is returned as the result data.
func (h CreateEscrowHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	id, escrow, err := h.create(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Info("escrow created",
		"escrow", id, "initializer", escrow.Initializer, "amount", escrow.Coin().String(), "deadline", escrow.Deadline)
	return &timelock.DeliverResult{Data: id}, nil
}

func (h CreateEscrowHandler) create(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Address, *Escrow, error) {
	var msg CreateMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	initializer := msg.Initializer
	if initializer == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		initializer = signer.Address()
	}
	if !h.auth.HasAddress(ctx, initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "initializer did not sign")
	}
	return h.ctrl.Create(ctx, db, initializer, *msg.Amount, msg.Receivers, msg.Slot)
}

// ReleaseEscrowHandler pays an escrow to one of its receivers.
type ReleaseEscrowHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = ReleaseEscrowHandler{}

// Check runs the release on a discarded cache.
func (h ReleaseEscrowHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	err := dryRun(db, func(db timelock.KVStore) error {
		_, _, err := h.release(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

// Deliver pays the receiver and removes the escrow.
func (h ReleaseEscrowHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, escrow, err := h.release(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Info("escrow released",
		"escrow", msg.EscrowID, "receiver", escrow.Receivers[msg.ReceiverIndex], "index", msg.ReceiverIndex)
	return &timelock.DeliverResult{Data: msg.EscrowID}, nil
}

func (h ReleaseEscrowHandler) release(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.ctrl.Escrow(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	conf, err := h.ctrl.Configuration(db)
	if err != nil {
		return nil, nil, err
	}

	var candidates []timelock.Address
	if int(msg.ReceiverIndex) < len(escrow.Receivers) {
		candidates = append(candidates, escrow.Receivers[msg.ReceiverIndex])
	}
	candidates = append(candidates, conf.Admin)
	caller := x.AnySigner(ctx, h.auth, candidates...)

	released, err := h.ctrl.Release(ctx, db, msg.EscrowID, msg.ReceiverIndex, caller, msg.Asset)
	if err != nil {
		return nil, nil, err
	}
	return &msg, released, nil
}

// ReclaimEscrowHandler returns an escrow to its initializer.
type ReclaimEscrowHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = ReclaimEscrowHandler{}

// Check runs the reclaim on a discarded cache.
func (h ReclaimEscrowHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	err := dryRun(db, func(db timelock.KVStore) error {
		_, _, err := h.reclaim(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

// Deliver pays the initializer back and removes the escrow.
func (h ReclaimEscrowHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	id, escrow, err := h.reclaim(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Info("escrow reclaimed", "escrow", id, "initializer", escrow.Initializer)
	return &timelock.DeliverResult{Data: id}, nil
}

func (h ReclaimEscrowHandler) reclaim(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Address, *Escrow, error) {
	var msg ReclaimMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.ctrl.Escrow(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	caller := x.AnySigner(ctx, h.auth, escrow.Initializer)
	reclaimed, err := h.ctrl.Reclaim(ctx, db, msg.EscrowID, caller, msg.Asset)
	if err != nil {
		return nil, nil, err
	}
	return msg.EscrowID, reclaimed, nil
}
