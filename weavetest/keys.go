package weavetest

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
)

// NewKey returns a new random ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() timelock.Condition {
	return NewKey().PublicKey().Condition()
}
