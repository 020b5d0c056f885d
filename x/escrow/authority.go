package escrow

import "github.com/iov-one/timelock"

// Authority is the derived identity that controls every vault. It has no
// private key and can only be used by this package.
type Authority struct {
	cond timelock.Condition
	addr timelock.Address
}

// NewAuthority computes the vault authority. The result never changes, so it
// is built once and passed to the controller.
func NewAuthority() Authority {
	cond := timelock.NewCondition("escrow", "authority", []byte("vault_authority"))
	return Authority{cond: cond, addr: cond.Address()}
}

// Condition returns the condition that the authority address is derived from.
func (a Authority) Condition() timelock.Condition {
	return a.cond
}

// Address returns the address registered as the controller of every vault.
func (a Authority) Address() timelock.Address {
	return a.addr
}
