package sigs

import (
	"context"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/x"
)

type contextKey int

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, as only this module can add a signer.
func withSigners(ctx timelock.Context, signers []timelock.Condition) timelock.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate provides the conditions of all verified signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context. May be empty.
func (a Authenticate) GetConditions(ctx timelock.Context) []timelock.Condition {
	val, _ := ctx.Value(contextKeySigners).([]timelock.Condition)
	return val
}

// HasAddress returns true if the address signed the current Context.
func (a Authenticate) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
