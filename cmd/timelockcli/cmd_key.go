package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

func defaultKeyPath() string {
	return env("TIMELOCKCLI_PRIV_KEY", os.Getenv("HOME")+"/.timelock.priv.key")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

When a derivation path is given, the key is derived from the seed using
SLIP-0010. A random seed is used if none is provided.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use TIMELOCKCLI_PRIV_KEY environment variable to set it.")
		seedFl = fl.String("seed", "", "Hex encoded seed used together with the derivation path.")
		pathFl = fl.String("path", "", `SLIP-0010 derivation path, for example "m/44'/234'/0'".`)
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key, err := generateKey(*seedFl, *pathFl)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.Ed25519); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

// generateKey returns a random key unless a derivation path is given.
func generateKey(hexSeed, path string) (*crypto.PrivateKey, error) {
	if path == "" {
		if hexSeed != "" {
			return nil, errors.Wrap(errors.ErrInvalidInput, "seed requires a derivation path")
		}
		return crypto.GenPrivKeyEd25519(), nil
	}

	var seed []byte
	if hexSeed == "" {
		seed = make([]byte, 64)
		if _, err := rand.Read(seed); err != nil {
			return nil, errors.Wrap(err, "cannot generate seed")
		}
	} else {
		s, err := hex.DecodeString(hexSeed)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidInput, "seed is not hex encoded")
		}
		seed = s
	}

	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot derive key using path %q: %s", path, err)
	}
	return crypto.PrivKeyEd25519FromSeed(k.Key), nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex and bech32 address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use TIMELOCKCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	b32, err := addr.Bech32()
	if err != nil {
		return fmt.Errorf("cannot encode bech32 address: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", addr, b32)
	return err
}

// decodePrivateKey reads the private key written by keygen.
func decodePrivateKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}
