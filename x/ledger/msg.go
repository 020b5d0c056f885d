package ledger

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

const pathSendMsg = "ledger/send"

// maxMemoSize is the longest memo a transfer can carry.
const maxMemoSize = 128

// SendMsg moves funds between the accounts of two owners. The destination
// account is opened if it does not exist.
type SendMsg struct {
	Source      timelock.Address
	Destination timelock.Address
	Amount      *coin.Coin
	Memo        string
}

var _ timelock.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Source.Equals(m.Destination) {
		errs = errors.AppendField(errs, "Destination", errors.Wrap(errors.ErrInvalidInput, "same as source"))
	}
	switch {
	case m.Amount == nil:
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	case !m.Amount.IsPositive():
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	default:
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.ErrInvalidInput)
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, m.Source)
	e.Bytes(2, m.Destination)
	e.Message(3, m.Amount)
	e.String(4, m.Memo)
	return e.Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Source = d.Bytes()
		case 2:
			m.Destination = d.Bytes()
		case 3:
			m.Amount = &coin.Coin{}
			d.Message(m.Amount)
		case 4:
			m.Memo = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
