package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/ledger"
	"github.com/iov-one/timelock/x/sigs"
)

// Tx is the transaction format of the timelock chain. It carries the
// signatures and exactly one message.
type Tx struct {
	Signatures []*sigs.StdSignature

	SendMsg                      *ledger.SendMsg
	CreateEscrowMsg              *escrow.CreateMsg
	ReleaseEscrowMsg             *escrow.ReleaseMsg
	ReclaimEscrowMsg             *escrow.ReclaimMsg
	UpdateEscrowConfigurationMsg *escrow.UpdateConfigurationMsg
}

var _ timelock.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (timelock.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (timelock.Msg, error) {
	var msgs []timelock.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateEscrowMsg != nil {
		msgs = append(msgs, tx.CreateEscrowMsg)
	}
	if tx.ReleaseEscrowMsg != nil {
		msgs = append(msgs, tx.ReleaseEscrowMsg)
	}
	if tx.ReclaimEscrowMsg != nil {
		msgs = append(msgs, tx.ReclaimEscrowMsg)
	}
	if tx.UpdateEscrowConfigurationMsg != nil {
		msgs = append(msgs, tx.UpdateEscrowConfigurationMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%d messages in one transaction", len(msgs))
	}
}

// SetMsg sets the message of the transaction. Any previously set message is
// removed.
func (tx *Tx) SetMsg(msg timelock.Msg) error {
	sigs := tx.Signatures
	*tx = Tx{Signatures: sigs}

	switch m := msg.(type) {
	case *ledger.SendMsg:
		tx.SendMsg = m
	case *escrow.CreateMsg:
		tx.CreateEscrowMsg = m
	case *escrow.ReleaseMsg:
		tx.ReleaseEscrowMsg = m
	case *escrow.ReclaimMsg:
		tx.ReclaimEscrowMsg = m
	case *escrow.UpdateConfigurationMsg:
		tx.UpdateEscrowConfigurationMsg = m
	default:
		return errors.Wrapf(errors.ErrInvalidMsg, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns the signatures of all signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// The sign bytes come from the data only, not previous signatures.
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, s := range tx.Signatures {
		e.Message(1, s)
	}
	e.Message(2, tx.SendMsg)
	e.Message(3, tx.CreateEscrowMsg)
	e.Message(4, tx.ReleaseEscrowMsg)
	e.Message(5, tx.ReclaimEscrowMsg)
	e.Message(6, tx.UpdateEscrowConfigurationMsg)
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			var s sigs.StdSignature
			d.Message(&s)
			tx.Signatures = append(tx.Signatures, &s)
		case 2:
			tx.SendMsg = &ledger.SendMsg{}
			d.Message(tx.SendMsg)
		case 3:
			tx.CreateEscrowMsg = &escrow.CreateMsg{}
			d.Message(tx.CreateEscrowMsg)
		case 4:
			tx.ReleaseEscrowMsg = &escrow.ReleaseMsg{}
			d.Message(tx.ReleaseEscrowMsg)
		case 5:
			tx.ReclaimEscrowMsg = &escrow.ReclaimMsg{}
			d.Message(tx.ReclaimEscrowMsg)
		case 6:
			tx.UpdateEscrowConfigurationMsg = &escrow.UpdateConfigurationMsg{}
			d.Message(tx.UpdateEscrowConfigurationMsg)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
