package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and sign it.

This command requires a running node to learn the chain ID and the nonce of
the signer.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("TIMELOCKCLI_TM_ADDR", "https://localhost:26657"),
			"Tendermint node address. Use proper NETWORK name. You can use TIMELOCKCLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use TIMELOCKCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	c := newClient(*tmAddrFl)
	chainID, err := c.ChainID()
	if err != nil {
		return fmt.Errorf("cannot fetch chain ID: %s", err)
	}
	nonce, err := c.NextNonce(key.PublicKey().Address())
	if err != nil {
		return fmt.Errorf("cannot get the nonce: %s", err)
	}

	sig, err := sigs.SignTx(key, tx, chainID, nonce)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}
