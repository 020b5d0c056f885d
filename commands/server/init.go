package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/timelock/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	dirConfig = "config"
	genesis   = "genesis.json"
	appState  = "app_state"
)

// GenOptions can parse command-line and flag to generate default app_state
// for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd injects the app_state produced by given generator into an
// existing genesis file of the tendermint home directory.
//
// Run "tendermint init" first to create the genesis file. Unless -f is
// given, an already set app_state is not overwritten.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.BoolVar(&force, "f", false, "overwrite the existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}

	genFile := filepath.Join(home, dirConfig, genesis)
	if err := addGenesisOptions(genFile, options, force); err != nil {
		return err
	}
	logger.Info("App initialized", "genesis", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't want to
// parse, so we just grab it into a raw object format, so we can add one
// line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "genesis file %q, run tendermint init first", filename)
		}
		return errors.Wrap(err, "cannot read genesis file")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	if v, ok := doc[appState]; ok && len(v) > 0 && string(v) != "null" && !force {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set, use -f to overwrite")
	}
	doc[appState] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
