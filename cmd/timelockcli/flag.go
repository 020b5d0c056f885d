package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
)

// flAddress returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// This function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *timelock.Address {
	var a timelock.Address
	if defaultVal != "" {
		var err error
		a, err = timelock.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

// addressList is a flag that can be given many times. Each value is
// appended.
type addressList []timelock.Address

func (l addressList) String() string {
	return fmt.Sprint([]timelock.Address(l))
}

func (l *addressList) Set(raw string) error {
	a, err := timelock.ParseAddress(raw)
	if err != nil {
		return err
	}
	*l = append(*l, a)
	return nil
}
