package escrow

import (
	"encoding/binary"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where the escrows are stored.
const BucketName = "escrow"

// MaxReceiversLimit is the upper bound of the receiver table. The
// configuration may only lower it.
const MaxReceiversLimit = 20

// Escrow is a single locked deposit. All fields are set at creation and never
// change.
type Escrow struct {
	Initializer timelock.Address
	// Receivers is the table of addresses that can be paid, addressed by
	// their index.
	Receivers []timelock.Address
	Asset     string
	// Amount is always equal to the vault balance.
	Amount    uint64
	StartTime timelock.UnixTime
	Deadline  timelock.UnixTime
	Slot      uint32
	Vault     timelock.Address
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Initializer", e.Initializer.Validate())
	errs = errors.AppendField(errs, "Receivers", validateReceivers(e.Receivers, MaxReceiversLimit))
	if !coin.IsCC(e.Asset) {
		errs = errors.AppendField(errs, "Asset", errors.ErrInvalidInput)
	}
	if e.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	}
	if e.StartTime.IsZero() {
		errs = errors.AppendField(errs, "StartTime", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "StartTime", e.StartTime.Validate())
	}
	if e.Deadline <= e.StartTime {
		errs = errors.AppendField(errs, "Deadline", errors.Wrap(errors.ErrInvalidState, "must be after start time"))
	}
	errs = errors.AppendField(errs, "Vault", e.Vault.Validate())
	return errs
}

// Coin returns the locked amount.
func (e *Escrow) Coin() coin.Coin {
	return coin.NewCoin(e.Amount, e.Asset)
}

func validateReceivers(receivers []timelock.Address, max int) error {
	switch n := len(receivers); {
	case n == 0:
		return errors.ErrEmpty
	case n > max:
		return errors.Wrapf(errors.ErrInvalidInput, "%d receivers, at most %d allowed", n, max)
	}
	for i, r := range receivers {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "receiver %d", i)
		}
	}
	return nil
}

func (e *Escrow) Marshal() ([]byte, error) {
	receivers := make([][]byte, len(e.Receivers))
	for i, r := range e.Receivers {
		receivers[i] = r
	}
	enc := codec.NewEncoder()
	enc.Bytes(1, e.Initializer)
	enc.RepeatedBytes(2, receivers)
	enc.String(3, e.Asset)
	enc.Uint64(4, e.Amount)
	enc.Int64(5, int64(e.StartTime))
	enc.Int64(6, int64(e.Deadline))
	enc.Uint64(7, uint64(e.Slot))
	enc.Bytes(8, e.Vault)
	return enc.Result()
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			e.Initializer = d.Bytes()
		case 2:
			e.Receivers = append(e.Receivers, d.Bytes())
		case 3:
			e.Asset = d.String()
		case 4:
			e.Amount = d.Uint64()
		case 5:
			e.StartTime = timelock.UnixTime(d.Int64())
		case 6:
			e.Deadline = timelock.UnixTime(d.Int64())
		case 7:
			e.Slot = uint32(d.Uint64())
		case 8:
			e.Vault = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// EscrowID returns the key of the escrow that the initializer keeps in given
// slot for given asset.
func EscrowID(initializer timelock.Address, asset string, slot uint32) timelock.Address {
	return timelock.Derive("escrow_account", initializer, []byte(asset), slotBytes(slot))
}

// VaultAddress returns the address of the vault bound to the escrow with the
// same initializer, asset and slot.
func VaultAddress(initializer timelock.Address, asset string, slot uint32) timelock.Address {
	return timelock.Derive("token-seed", initializer, []byte(asset), slotBytes(slot))
}

func slotBytes(slot uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, slot)
	return b
}

// NewBucket returns a bucket of escrows indexed by the initializer and by
// every receiver.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex("initializer", initializerIndexer, false),
		orm.WithIndex("receiver", receiverIndexer, false),
	)
}

func asEscrow(m orm.Model) (*Escrow, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return e, nil
}

func initializerIndexer(m orm.Model) ([][]byte, error) {
	e, err := asEscrow(m)
	if err != nil {
		return nil, err
	}
	return [][]byte{e.Initializer}, nil
}

// receiverIndexer returns every distinct receiver once.
func receiverIndexer(m orm.Model) ([][]byte, error) {
	e, err := asEscrow(m)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(e.Receivers))
next:
	for _, r := range e.Receivers {
		for _, k := range keys {
			if r.Equals(k) {
				continue next
			}
		}
		keys = append(keys, r)
	}
	return keys, nil
}
