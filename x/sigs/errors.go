package sigs

import "github.com/iov-one/timelock/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that
// does not match the signer's nonce.
var ErrInvalidSequence = errors.Register(1001, "invalid sequence number")
