package bech32

import (
	"encoding/hex"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestDecode(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`
	payload, _ := hex.DecodeString("746573742d7061796c6f6164")

	cases := map[string]struct {
		hrp     string
		enc     string
		want    []byte
		wantErr *errors.Error
	}{
		"valid": {
			hrp:  "tiov",
			enc:  enc,
			want: payload,
		},
		"another network": {
			hrp:     "tlk",
			enc:     enc,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid checksum": {
			hrp:     "tiov",
			enc:     `tiov1w3jhxapdwpshjmr0v9jqymqq4q`,
			wantErr: errors.ErrInvalidInput,
		},
		"not bech32": {
			hrp:     "tiov",
			enc:     "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := Decode(tc.hrp, tc.enc)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEncodeDecodeAddress(t *testing.T) {
	addr, _ := hex.DecodeString("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")

	enc, err := Encode("tlk", addr)
	assert.Nil(t, err)
	if enc[:4] != "tlk1" {
		t.Fatalf("unexpected prefix: %s", enc)
	}

	got, err := Decode("tlk", enc)
	assert.Nil(t, err)
	assert.Equal(t, addr, got)
}
