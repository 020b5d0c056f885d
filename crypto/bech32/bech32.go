/*
Package bech32 encodes addresses for humans. Every address carries the
human readable part of the chain, so that an address of another network is
rejected instead of silently decoded.
*/
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/timelock/errors"
)

// Encode returns the bech32 representation of payload under given human
// readable part.
func Encode(hrp string, payload []byte) (string, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "convert bits: %s", err)
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "encode: %s", err)
	}
	return enc, nil
}

// Decode returns the payload of a bech32 string. ErrInvalidInput is returned
// when the string is malformed or its human readable part is not hrp.
func Decode(hrp, enc string) ([]byte, error) {
	got, data, err := bech32.Decode(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "decode: %s", err)
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "human readable part %q, want %q", got, hrp)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "convert bits: %s", err)
	}
	return payload, nil
}
