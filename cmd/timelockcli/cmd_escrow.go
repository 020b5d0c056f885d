package main

import (
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/iov-one/timelock/cmd/timelockd/app"
	"github.com/iov-one/timelock/x/escrow"
)

func cmdCreateEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that locks funds in a new escrow. The funds can be
released to one of the receivers or reclaimed by the depositor after the
deadline.
`)
		fl.PrintDefaults()
	}
	var receivers addressList
	fl.Var(&receivers, "receiver", "Address of a receiver. Can be given many times.")
	var (
		amountFl = flCoin(fl, "amount", "", "Amount locked in the escrow.")
		srcFl    = flAddress(fl, "src", "", "Optional address of the depositor. The main signer is used if not provided.")
		slotFl   = fl.Uint64("slot", 0, "Slot number, so that the same depositor can keep many escrows of the same asset.")
	)
	fl.Parse(args)

	if *slotFl > math.MaxUint32 {
		return fmt.Errorf("slot %d out of range, max %d", *slotFl, uint32(math.MaxUint32))
	}

	msg := &escrow.CreateMsg{
		Initializer: *srcFl,
		Amount:      amountFl,
		Receivers:   receivers,
		Slot:        uint32(*slotFl),
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	tx := &app.Tx{CreateEscrowMsg: msg}
	_, err := writeTx(output, tx)
	return err
}

func cmdReleaseEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for releasing funds from given escrow to the receiver at
given index.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "ID of the escrow that is to be released.")
		indexFl  = fl.Uint64("index", 0, "Index of the receiver that is paid.")
		assetFl  = fl.String("asset", "", "Optional asset that the escrow is expected to hold.")
	)
	fl.Parse(args)

	if *indexFl >= escrow.MaxReceiversLimit {
		return fmt.Errorf("receiver index %d out of range, max %d", *indexFl, escrow.MaxReceiversLimit-1)
	}

	msg := &escrow.ReleaseMsg{
		EscrowID:      *escrowFl,
		ReceiverIndex: uint32(*indexFl),
		Asset:         *assetFl,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	_, err := writeTx(output, &app.Tx{ReleaseEscrowMsg: msg})
	return err
}

func cmdReclaimEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that returns the funds of an expired escrow to the
depositor.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "ID of the escrow that is to be reclaimed.")
		assetFl  = fl.String("asset", "", "Asset that the escrow holds.")
	)
	fl.Parse(args)

	msg := &escrow.ReclaimMsg{
		EscrowID: *escrowFl,
		Asset:    *assetFl,
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	_, err := writeTx(output, &app.Tx{ReclaimEscrowMsg: msg})
	return err
}
