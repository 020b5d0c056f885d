package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// RegisterQuery registers the accounts bucket under "/accounts".
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("accounts", qr)
}

// RegisterRoutes registers the handlers of this extension.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(pathSendMsg, sendHandler{auth: auth, ctrl: ctrl})
}

type sendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ timelock.Handler = sendHandler{}

// Check verifies the sender signed the message and can afford it.
func (h sendHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ctrl.Balance(db, AccountAddress(msg.Source, msg.Amount.Ticker))
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrInsufficientAmount, "no source account")
	case err != nil:
		return nil, err
	}
	if !balance.IsGTE(*msg.Amount) {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "balance %s", balance)
	}
	return &timelock.CheckResult{}, nil
}

// Deliver moves the funds.
func (h sendHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	asset := msg.Amount.Ticker
	dst, err := h.ctrl.OpenUser(db, msg.Destination, asset)
	if err != nil {
		return nil, errors.Wrap(err, "destination account")
	}
	src := AccountAddress(msg.Source, asset)
	if err := h.ctrl.Transfer(db, src, dst, msg.Source, *msg.Amount); err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Debug("ledger transfer",
		"source", msg.Source, "destination", msg.Destination, "amount", msg.Amount.String())
	return &timelock.DeliverResult{}, nil
}

func (h sendHandler) validate(ctx timelock.Context, tx timelock.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source did not sign")
	}
	return &msg, nil
}
