package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

// Initializer mints the balances declared in the genesis file:
//
//   "ledger": [
//     {"address": "<hex or bech32>", "coins": ["1000 TLK", "5 ETH"]}
//   ]
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// GenesisAccount is a single entry of the "ledger" genesis section.
type GenesisAccount struct {
	Address timelock.Address `json:"address"`
	Coins   []coin.Coin      `json:"coins"`
}

// FromGenesis mints all declared coins.
func (Initializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("ledger", &accounts); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acc.Coins {
			if err := ctrl.Mint(db, acc.Address, c); err != nil {
				return errors.Wrapf(err, "account %d: mint %s", i, c)
			}
		}
	}
	return nil
}
