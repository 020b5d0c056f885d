package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions produces the genesis options with one rich account, to use
// in dev mode. Arguments are the ticker and the address of the account, in
// that order and both optional. When no address is given, a new key is
// generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "TLK"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "ticker %q", ticker)
		}
	}

	var addr timelock.Address
	if len(args) > 1 {
		a, err := timelock.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		key := crypto.GenPrivKeyEd25519()
		raw, err := key.Marshal()
		if err != nil {
			return nil, errors.Wrap(err, "serialize key")
		}
		addr = key.PublicKey().Address()
		fmt.Printf("generated key %X for address %s\n", raw, addr)
	}

	opts := map[string]interface{}{
		"ledger": []map[string]interface{}{
			{
				"address": addr,
				"coins":   []coin.Coin{coin.NewCoin(123456789, ticker)},
			},
		},
		"conf": map[string]interface{}{
			"escrow": map[string]interface{}{
				"owner": addr,
				"admin": addr,
			},
		},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "timelock.db")
	}

	application, err := Application("timelock", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application, nil
}
