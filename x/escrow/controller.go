package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// TokenLedger moves funds between accounts. Every debit must be authorized
// by the controller of the debited account.
type TokenLedger interface {
	Open(db timelock.KVStore, addr, controller timelock.Address, asset string) error
	Transfer(db timelock.KVStore, from, to, authority timelock.Address, amount coin.Coin) error
	Close(db timelock.KVStore, addr, authority timelock.Address) error
	Balance(db timelock.ReadOnlyKVStore, addr timelock.Address) (coin.Coin, error)
	UserAccount(owner timelock.Address, asset string) timelock.Address
	OpenUser(db timelock.KVStore, owner timelock.Address, asset string) (timelock.Address, error)
}

// Controller runs the escrow transitions. All checks are done before the
// first write.
type Controller interface {
	// Create locks the amount taken from the initializer account in a new
	// escrow and returns its ID.
	Create(ctx timelock.Context, db timelock.KVStore, initializer timelock.Address, amount coin.Coin, receivers []timelock.Address, slot uint32) (timelock.Address, *Escrow, error)

	// Release pays the escrow to the receiver at given index. The caller
	// must be that receiver or the administrator.
	Release(ctx timelock.Context, db timelock.KVStore, id timelock.Address, receiverIndex uint32, caller timelock.Address, asset string) (*Escrow, error)

	// Reclaim returns the escrow to the initializer once the deadline has
	// passed.
	Reclaim(ctx timelock.Context, db timelock.KVStore, id timelock.Address, caller timelock.Address, asset string) (*Escrow, error)

	// Escrow returns the escrow stored under given ID.
	Escrow(db timelock.ReadOnlyKVStore, id timelock.Address) (*Escrow, error)

	// Configuration returns the configuration in use.
	Configuration(db timelock.ReadOnlyKVStore) (*Configuration, error)
}

// NewController returns a controller that keeps vaults in the ledger. The
// authority must be the one that every vault was opened with.
func NewController(ledger TokenLedger, bucket orm.ModelBucket, authority Authority) Controller {
	return &controller{
		ledger:    ledger,
		bucket:    bucket,
		authority: authority,
	}
}

type controller struct {
	ledger    TokenLedger
	bucket    orm.ModelBucket
	authority Authority
}

func (c *controller) Escrow(db timelock.ReadOnlyKVStore, id timelock.Address) (*Escrow, error) {
	var e Escrow
	if err := c.bucket.One(db, id, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", id)
	}
	return &e, nil
}

func (c *controller) Configuration(db timelock.ReadOnlyKVStore) (*Configuration, error) {
	return loadConfiguration(db)
}

func (c *controller) Create(
	ctx timelock.Context,
	db timelock.KVStore,
	initializer timelock.Address,
	amount coin.Coin,
	receivers []timelock.Address,
	slot uint32,
) (timelock.Address, *Escrow, error) {
	if !amount.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "escrow amount must be positive")
	}
	if err := amount.Validate(); err != nil {
		return nil, nil, err
	}
	if err := initializer.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "initializer")
	}
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if err := validateReceivers(receivers, int(conf.MaxReceivers)); err != nil {
		return nil, nil, errors.Wrap(err, "receivers")
	}
	now, err := timelock.BlockTime(ctx)
	if err != nil {
		return nil, nil, err
	}
	start := timelock.AsUnixTime(now)
	deadline, err := start.AddSeconds(conf.DeadlineSeconds)
	if err != nil {
		return nil, nil, errors.Wrap(err, "deadline")
	}

	id := EscrowID(initializer, amount.Ticker, slot)
	switch err := c.bucket.Has(db, id); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", id)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	vault := VaultAddress(initializer, amount.Ticker, slot)
	switch _, err := c.ledger.Balance(db, vault); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "vault %s", vault)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}

	src := c.ledger.UserAccount(initializer, amount.Ticker)
	balance, err := c.ledger.Balance(db, src)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil, errors.Wrap(errors.ErrInsufficientAmount, "initializer has no account")
	case err != nil:
		return nil, nil, err
	}
	if !balance.SameType(amount) {
		return nil, nil, errors.Wrapf(errors.ErrAssetMismatch, "initializer account holds %s", balance.Ticker)
	}
	if !balance.IsGTE(amount) {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientAmount, "balance %s", balance)
	}

	escrow := &Escrow{
		Initializer: initializer,
		Receivers:   receivers,
		Asset:       amount.Ticker,
		Amount:      amount.Amount,
		StartTime:   start,
		Deadline:    deadline,
		Slot:        slot,
		Vault:       vault,
	}
	if err := escrow.Validate(); err != nil {
		return nil, nil, err
	}

	if err := c.ledger.Open(db, vault, c.authority.Address(), amount.Ticker); err != nil {
		return nil, nil, errors.Wrap(err, "open vault")
	}
	if err := c.ledger.Transfer(db, src, vault, initializer, amount); err != nil {
		return nil, nil, errors.Wrap(err, "deposit")
	}
	if err := c.bucket.Put(db, id, escrow); err != nil {
		return nil, nil, errors.Wrap(err, "save escrow")
	}

	timelock.GetLogger(ctx).Debug("vault funded",
		"escrow", id, "initializer", initializer, "amount", amount.String(), "deadline", deadline)
	return id, escrow, nil
}

func (c *controller) Release(
	ctx timelock.Context,
	db timelock.KVStore,
	id timelock.Address,
	receiverIndex uint32,
	caller timelock.Address,
	asset string,
) (*Escrow, error) {
	escrow, err := c.load(db, id, asset)
	if err != nil {
		return nil, err
	}
	if int(receiverIndex) >= len(escrow.Receivers) {
		return nil, errors.Wrapf(errors.ErrInvalidInput,
			"receiver index %d, escrow has %d receivers", receiverIndex, len(escrow.Receivers))
	}
	receiver := escrow.Receivers[receiverIndex]
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(receiver) && (conf.Admin == nil || !caller.Equals(conf.Admin)) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the receiver or the admin can release")
	}

	expired, err := timelock.IsExpired(ctx, escrow.Deadline)
	if err != nil {
		return nil, err
	}
	switch conf.ReleasePolicy {
	case ReleaseAfterDeadline:
		if !expired {
			return nil, errors.Wrapf(errors.ErrInvalidTiming, "release allowed from %s", escrow.Deadline)
		}
	case ReleaseBeforeDeadline:
		if expired {
			return nil, errors.Wrapf(errors.ErrInvalidTiming, "release allowed until %s", escrow.Deadline)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidState, "release policy %s", conf.ReleasePolicy)
	}

	if err := c.payout(db, id, escrow, receiver); err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Debug("vault paid out",
		"escrow", id, "receiver", receiver, "index", receiverIndex, "caller", caller)
	return escrow, nil
}

func (c *controller) Reclaim(
	ctx timelock.Context,
	db timelock.KVStore,
	id timelock.Address,
	caller timelock.Address,
	asset string,
) (*Escrow, error) {
	escrow, err := c.load(db, id, asset)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(escrow.Initializer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the initializer can reclaim")
	}
	expired, err := timelock.IsExpired(ctx, escrow.Deadline)
	if err != nil {
		return nil, err
	}
	if !expired {
		return nil, errors.Wrapf(errors.ErrInvalidTiming, "reclaim allowed from %s", escrow.Deadline)
	}

	if err := c.payout(db, id, escrow, escrow.Initializer); err != nil {
		return nil, err
	}
	timelock.GetLogger(ctx).Debug("vault returned", "escrow", id, "initializer", escrow.Initializer)
	return escrow, nil
}

// load returns the escrow and checks that it holds the expected asset if
// one was given.
func (c *controller) load(db timelock.ReadOnlyKVStore, id timelock.Address, asset string) (*Escrow, error) {
	escrow, err := c.Escrow(db, id)
	if err != nil {
		return nil, err
	}
	if asset != "" && asset != escrow.Asset {
		return nil, errors.Wrapf(errors.ErrAssetMismatch, "escrow holds %s, not %s", escrow.Asset, asset)
	}
	return escrow, nil
}

// payout drains the vault to the owner's account, closes the vault and
// removes the escrow.
func (c *controller) payout(db timelock.KVStore, id timelock.Address, escrow *Escrow, owner timelock.Address) error {
	balance, err := c.ledger.Balance(db, escrow.Vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if !balance.Equals(escrow.Coin()) {
		return errors.Wrapf(errors.ErrInvalidState, "vault holds %s, escrow %s", balance, escrow.Coin())
	}

	dst, err := c.ledger.OpenUser(db, owner, escrow.Asset)
	if err != nil {
		return errors.Wrap(err, "destination account")
	}
	authority := c.authority.Address()
	if err := c.ledger.Transfer(db, escrow.Vault, dst, authority, escrow.Coin()); err != nil {
		return errors.Wrap(err, "withdraw")
	}
	if err := c.ledger.Close(db, escrow.Vault, authority); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := c.bucket.Delete(db, id); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	return nil
}
