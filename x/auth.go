package x

import (
	"github.com/iov-one/timelock"
)

// Authenticator extracts authentication information from the context. It is
// passed to the handler constructors, so that extensions do not depend on a
// single signature scheme.
type Authenticator interface {
	// GetConditions reveals all conditions fulfilled by the transaction.
	GetConditions(timelock.Context) []timelock.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(timelock.Context, timelock.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator. Conditions keep the
// order of the authenticators, so the main signer comes from the first one
// that reports any.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

func (m MultiAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	var res []timelock.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first condition if any, otherwise nil. Messages that
// omit the acting address, like an escrow creation without an initializer,
// act on behalf of the main signer.
func MainSigner(ctx timelock.Context, auth Authenticator) timelock.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// AnySigner returns the first of candidates that signed the transaction, or
// nil if none did. Empty candidates, like an unset admin, never match.
func AnySigner(ctx timelock.Context, auth Authenticator, candidates ...timelock.Address) timelock.Address {
	for _, c := range candidates {
		if len(c) != 0 && auth.HasAddress(ctx, c) {
			return c
		}
	}
	return nil
}
