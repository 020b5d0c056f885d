package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock/client"
)

// newClient returns a client connected to the node at given address. Tests
// replace it with an in-process connection.
var newClient = func(addr string) *client.Client {
	return client.NewClient(client.NewHTTPConnection(addr))
}

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it.

Make sure to collect enough signatures before submitting the transaction.
When an escrow is created, its ID is printed.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", env("TIMELOCKCLI_TM_ADDR", "https://localhost:26657"),
			"Tendermint node address. Use proper NETWORK name. You can use TIMELOCKCLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	res, err := newClient(*tmAddrFl).CommitTx(tx)
	if err != nil {
		return fmt.Errorf("cannot submit transaction: %s", err)
	}

	if tx.CreateEscrowMsg != nil {
		fmt.Fprintf(output, "Escrow %X created in block %d.\n", res.Data, res.Height)
		return nil
	}
	fmt.Fprintf(output, "Transaction %s included in block %d.\n", res.ID, res.Height)
	return nil
}
