package weavetest

import (
	"testing"

	"github.com/iov-one/timelock"
)

// ParseAddress decodes an address in any format accepted by
// timelock.ParseAddress and fails the test on error.
func ParseAddress(t testing.TB, encodedAddress string) timelock.Address {
	t.Helper()

	addr, err := timelock.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
