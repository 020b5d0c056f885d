package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

// Initializer stores the escrow configuration declared in the genesis under
// "conf.escrow". Without it the default configuration is used.
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

func (Initializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	conf := DefaultConfiguration()
	err := gconf.InitConfig(db, opts, pkgName, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
