package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where the accounts are stored.
const BucketName = "ledger"

// Account holds the balance of a single asset.
type Account struct {
	// Controller must authorize every debit and closing of the account.
	Controller timelock.Address
	Asset      string
	Balance    uint64
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Controller", a.Controller.Validate())
	if !coin.IsCC(a.Asset) {
		errs = errors.AppendField(errs, "Asset", errors.ErrInvalidInput)
	}
	return errs
}

// Coin returns the balance as a coin of the account asset.
func (a *Account) Coin() coin.Coin {
	return coin.NewCoin(a.Balance, a.Asset)
}

func (a *Account) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, a.Controller)
	e.String(2, a.Asset)
	e.Uint64(3, a.Balance)
	return e.Result()
}

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			a.Controller = d.Bytes()
		case 2:
			a.Asset = d.String()
		case 3:
			a.Balance = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// AccountAddress returns the address of the account that owner keeps the
// given asset in.
func AccountAddress(owner timelock.Address, asset string) timelock.Address {
	return timelock.Derive("ledger_account", owner, []byte(asset))
}

// NewBucket returns a bucket of accounts indexed by their controller.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Account{},
		orm.WithIndex("controller", controllerIndexer, false),
	)
}

func controllerIndexer(m orm.Model) ([][]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return [][]byte{a.Controller}, nil
}
