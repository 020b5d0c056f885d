package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Controller moves funds between accounts. Every debit must be authorized by
// the controller of the debited account.
type Controller interface {
	// Open creates an empty account. It fails with ErrDuplicate if the
	// account exists.
	Open(db timelock.KVStore, addr, controller timelock.Address, asset string) error

	// Transfer moves the amount between two existing accounts of the
	// same asset.
	Transfer(db timelock.KVStore, from, to, authority timelock.Address, amount coin.Coin) error

	// Close removes an empty account.
	Close(db timelock.KVStore, addr, authority timelock.Address) error

	// Balance returns the funds held by an account.
	Balance(db timelock.ReadOnlyKVStore, addr timelock.Address) (coin.Coin, error)

	// Account returns the account stored under given address.
	Account(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Account, error)

	// UserAccount returns the address of the owner's account of given
	// asset. The account may not exist.
	UserAccount(owner timelock.Address, asset string) timelock.Address

	// OpenUser returns the address of the owner's account of given asset,
	// opening it if it does not exist yet.
	OpenUser(db timelock.KVStore, owner timelock.Address, asset string) (timelock.Address, error)

	// Mint creates new funds in the owner's account.
	Mint(db timelock.KVStore, owner timelock.Address, amount coin.Coin) error
}

// NewController returns a controller that stores accounts in given bucket.
func NewController(bucket orm.ModelBucket) Controller {
	return &controller{bucket: bucket}
}

type controller struct {
	bucket orm.ModelBucket
}

func (c *controller) Open(db timelock.KVStore, addr, ctrl timelock.Address, asset string) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "account address")
	}
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return c.bucket.Put(db, addr, &Account{Controller: ctrl, Asset: asset})
}

func (c *controller) Account(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Account, error) {
	var a Account
	if err := c.bucket.One(db, addr, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *controller) Balance(db timelock.ReadOnlyKVStore, addr timelock.Address) (coin.Coin, error) {
	a, err := c.Account(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return a.Coin(), nil
}

func (c *controller) Transfer(db timelock.KVStore, from, to, authority timelock.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "transfer must be positive")
	}
	if from.Equals(to) {
		return errors.Wrap(errors.ErrInvalidInput, "source and destination are the same account")
	}

	src, err := c.Account(db, from)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "no account %s", from)
	case err != nil:
		return err
	}
	if !src.Controller.Equals(authority) {
		return errors.Wrap(errors.ErrUnauthorized, "source account controller")
	}
	if src.Asset != amount.Ticker {
		return errors.Wrapf(errors.ErrAssetMismatch, "source holds %s, not %s", src.Asset, amount.Ticker)
	}

	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination account")
	}
	if dst.Asset != amount.Ticker {
		return errors.Wrapf(errors.ErrAssetMismatch, "destination holds %s, not %s", dst.Asset, amount.Ticker)
	}

	left, err := src.Coin().Subtract(amount)
	if err != nil {
		return err
	}
	total, err := dst.Coin().Add(amount)
	if err != nil {
		return err
	}

	src.Balance = left.Amount
	dst.Balance = total.Amount
	if err := c.bucket.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.bucket.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c *controller) Close(db timelock.KVStore, addr, authority timelock.Address) error {
	a, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if !a.Controller.Equals(authority) {
		return errors.Wrap(errors.ErrUnauthorized, "account controller")
	}
	if a.Balance != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "account holds %s", a.Coin())
	}
	return c.bucket.Delete(db, addr)
}

func (c *controller) UserAccount(owner timelock.Address, asset string) timelock.Address {
	return AccountAddress(owner, asset)
}

func (c *controller) OpenUser(db timelock.KVStore, owner timelock.Address, asset string) (timelock.Address, error) {
	addr := AccountAddress(owner, asset)
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return addr, nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if err := c.Open(db, addr, owner, asset); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c *controller) Mint(db timelock.KVStore, owner timelock.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "mint must be positive")
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	addr, err := c.OpenUser(db, owner, amount.Ticker)
	if err != nil {
		return err
	}
	a, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	total, err := a.Coin().Add(amount)
	if err != nil {
		return err
	}
	a.Balance = total.Amount
	return c.bucket.Put(db, addr, a)
}
