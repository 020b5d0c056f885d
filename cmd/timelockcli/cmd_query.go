package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/ledger"
)

func cmdQueryEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print escrows stored on the chain. Select a single escrow by its ID or all
escrows of an initializer or a receiver.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("TIMELOCKCLI_TM_ADDR", "https://localhost:26657"),
			"Tendermint node address. Use proper NETWORK name. You can use TIMELOCKCLI_TM_ADDR environment variable to set it.")
		idFl          = flAddress(fl, "escrow", "", "ID of the escrow.")
		initializerFl = flAddress(fl, "initializer", "", "Address of the initializer.")
		receiverFl    = flAddress(fl, "receiver", "", "Address of a receiver.")
	)
	fl.Parse(args)

	var path string
	var key timelock.Address
	switch {
	case len(*idFl) != 0:
		path, key = "/escrows", *idFl
	case len(*initializerFl) != 0:
		path, key = "/escrows/initializer", *initializerFl
	case len(*receiverFl) != 0:
		path, key = "/escrows/receiver", *receiverFl
	default:
		return fmt.Errorf("one of escrow, initializer or receiver must be given")
	}

	models, err := newClient(*tmAddrFl).Query(path, key)
	if err != nil {
		return fmt.Errorf("cannot query escrows: %s", err)
	}
	if len(models) == 0 {
		return fmt.Errorf("no escrow found")
	}

	type escrowView struct {
		ID timelock.Address `json:"id"`
		*escrow.Escrow
	}
	views := make([]escrowView, 0, len(models))
	for _, m := range models {
		var e escrow.Escrow
		if err := e.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("cannot decode escrow: %s", err)
		}
		views = append(views, escrowView{ID: trimBucket(m.Key), Escrow: &e})
	}
	return printJSON(output, views)
}

func cmdQueryBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of all accounts owned by given address.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("TIMELOCKCLI_TM_ADDR", "https://localhost:26657"),
			"Tendermint node address. Use proper NETWORK name. You can use TIMELOCKCLI_TM_ADDR environment variable to set it.")
		ownerFl = flAddress(fl, "owner", "", "Address of the account owner.")
	)
	fl.Parse(args)

	if len(*ownerFl) == 0 {
		return fmt.Errorf("owner address is required")
	}

	models, err := newClient(*tmAddrFl).Query("/accounts/controller", *ownerFl)
	if err != nil {
		return fmt.Errorf("cannot query accounts: %s", err)
	}
	balance := make([]coin.Coin, 0, len(models))
	for _, m := range models {
		var a ledger.Account
		if err := a.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("cannot decode account: %s", err)
		}
		balance = append(balance, a.Coin())
	}
	return printJSON(output, balance)
}

// trimBucket removes the bucket name prefix from a key returned by a query.
func trimBucket(key []byte) timelock.Address {
	for i, c := range key {
		if c == ':' {
			return key[i+1:]
		}
	}
	return key
}

func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
