package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/timelock/client"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/weavetest/assert"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/ledger"
)

// useConnection makes all commands talk to given connection until the
// returned function is called.
func useConnection(conn client.Connection) func() {
	prev := newClient
	newClient = func(string) *client.Client { return client.NewClient(conn) }
	return func() { newClient = prev }
}

// pipe runs commands the way a shell pipeline would, passing the output of
// each command to the next one.
func pipe(t testing.TB, steps ...[]string) *bytes.Buffer {
	t.Helper()
	in := &bytes.Buffer{}
	for _, step := range steps {
		out := &bytes.Buffer{}
		if err := commands[step[0]](in, out, step[1:]); err != nil {
			t.Fatalf("%s: %s", step[0], err)
		}
		in = out
	}
	return in
}

func TestEscrowLifecycle(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	keyPath := filepath.Join(dir, "key")
	pipe(t, []string{"keygen", "-key", keyPath})
	key, err := decodePrivateKey(keyPath)
	assert.Nil(t, err)
	owner := key.PublicKey().Address()
	receiver := crypto.GenPrivKeyEd25519().PublicKey().Address()

	conn := client.NewAppConnection(t, "timelockcli-test", map[string]interface{}{
		"ledger": []ledger.GenesisAccount{
			{Address: owner, Coins: []coin.Coin{coin.NewCoin(100, "TLK")}},
		},
	})
	defer useConnection(conn)()

	out := pipe(t,
		[]string{"create-escrow", "-amount", "40 TLK", "-receiver", receiver.String()},
		[]string{"sign", "-key", keyPath},
		[]string{"submit"},
	)
	escrowID := escrow.EscrowID(owner, "TLK", 0)
	wantMsg := fmt.Sprintf("Escrow %X created", []byte(escrowID))
	if !strings.HasPrefix(out.String(), wantMsg) {
		t.Fatalf("unexpected submit output: %q", out.String())
	}

	assert.Equal(t, []coin.Coin{coin.NewCoin(60, "TLK")}, queryBalance(t, owner.String()))

	out = pipe(t, []string{"query-escrow", "-receiver", receiver.String()})
	if !strings.Contains(out.String(), escrowID.String()) {
		t.Fatalf("escrow not listed for the receiver: %s", out)
	}

	// Reclaim is allowed only once the deadline is reached.
	conn.Advance(25 * time.Hour)
	pipe(t,
		[]string{"reclaim-escrow", "-escrow", escrowID.String()},
		[]string{"sign", "-key", keyPath},
		[]string{"submit"},
	)
	assert.Equal(t, []coin.Coin{coin.NewCoin(100, "TLK")}, queryBalance(t, owner.String()))

	var errOut bytes.Buffer
	err = cmdQueryEscrow(nil, &errOut, []string{"-escrow", escrowID.String()})
	if err == nil {
		t.Fatal("reclaimed escrow must not be found")
	}
}

func TestSubmitRejectedTransaction(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	keyPath := filepath.Join(dir, "key")
	pipe(t, []string{"keygen", "-key", keyPath})

	// The signer holds no funds.
	conn := client.NewAppConnection(t, "timelockcli-test", map[string]interface{}{})
	defer useConnection(conn)()

	signed := pipe(t,
		[]string{"create-escrow", "-amount", "40 TLK", "-receiver", "F9990AB5A7F7E5B8E6EA4AD50DDC62DBB6FAB6F1"},
		[]string{"sign", "-key", keyPath},
	)
	var out bytes.Buffer
	if err := cmdSubmitTransaction(signed, &out, nil); err == nil {
		t.Fatal("transaction without funds must fail")
	}
}

func queryBalance(t testing.TB, owner string) []coin.Coin {
	t.Helper()
	out := pipe(t, []string{"query-balance", "-owner", owner})
	var coins []coin.Coin
	if err := json.Unmarshal(out.Bytes(), &coins); err != nil {
		t.Fatalf("cannot decode balance: %s", err)
	}
	return coins
}
