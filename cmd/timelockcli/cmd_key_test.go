package main

import (
	"bytes"
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest/assert"
)

func tempDir(t testing.TB) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "timelockcli")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

func TestGenerateKey(t *testing.T) {
	// SLIP-0010 ed25519 test vector 1.
	const seed = "000102030405060708090a0b0c0d0e0f"

	cases := map[string]struct {
		seed    string
		path    string
		wantPub string
		wantErr *errors.Error
	}{
		"derived hardened key": {
			seed:    seed,
			path:    "m/0'",
			wantPub: "8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c",
		},
		"derived nested hardened key": {
			seed:    seed,
			path:    "m/0'/1'",
			wantPub: "1932a5270f335bed617d5b935c80aedb1a35bd9fc1e31acafd5372c30f5c1187",
		},
		"seed without a path": {
			seed:    seed,
			wantErr: errors.ErrInvalidInput,
		},
		"seed not hex encoded": {
			seed:    "not-hex",
			path:    "m/0'",
			wantErr: errors.ErrInvalidInput,
		},
		"non hardened path": {
			seed:    seed,
			path:    "m/0",
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := generateKey(tc.seed, tc.path)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantPub, hex.EncodeToString(key.PublicKey().Ed25519))
		})
	}
}

func TestKeygenAndKeyaddr(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	keyPath := filepath.Join(dir, "key")

	var out bytes.Buffer
	args := []string{"-key", keyPath}
	if err := cmdKeygen(nil, &out, args); err != nil {
		t.Fatalf("cannot generate a key: %s", err)
	}
	addr := strings.TrimSpace(out.String())

	// An existing key must never be overwritten.
	if err := cmdKeygen(nil, &out, args); err == nil {
		t.Fatal("existing key file was overwritten")
	}

	out.Reset()
	if err := cmdKeyaddr(nil, &out, args); err != nil {
		t.Fatalf("cannot print the address: %s", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, addr, lines[0])
	if !strings.HasPrefix(lines[1], "tlk1") {
		t.Fatalf("unexpected bech32 address: %q", lines[1])
	}

	key, err := decodePrivateKey(keyPath)
	assert.Nil(t, err)
	assert.Equal(t, addr, key.PublicKey().Address().String())
}

func TestDecodeInvalidPrivateKey(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	keyPath := filepath.Join(dir, "key")

	if err := ioutil.WriteFile(keyPath, []byte("too short"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := decodePrivateKey(keyPath); err == nil {
		t.Fatal("a malformed key was accepted")
	}
	if _, err := decodePrivateKey(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("a missing key was accepted")
	}
}
