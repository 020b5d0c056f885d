package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

const (
	pathCreateMsg              = "escrow/create"
	pathReleaseMsg             = "escrow/release"
	pathReclaimMsg             = "escrow/reclaim"
	pathUpdateConfigurationMsg = "escrow/update_configuration"
)

var (
	_ timelock.Msg   = (*CreateMsg)(nil)
	_ timelock.Msg   = (*ReleaseMsg)(nil)
	_ timelock.Msg   = (*ReclaimMsg)(nil)
	_ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)
)

// CreateMsg locks the amount in a new escrow. Initializer defaults to the
// main signer of the transaction.
type CreateMsg struct {
	Initializer timelock.Address
	Amount      *coin.Coin
	Receivers   []timelock.Address
	Slot        uint32
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	var errs error
	if m.Initializer != nil {
		errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	}
	switch {
	case m.Amount == nil:
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	case !m.Amount.IsPositive():
		errs = errors.AppendField(errs, "Amount", errors.ErrInvalidAmount)
	default:
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Receivers", validateReceivers(m.Receivers, MaxReceiversLimit))
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	receivers := make([][]byte, len(m.Receivers))
	for i, r := range m.Receivers {
		receivers[i] = r
	}
	e := codec.NewEncoder()
	e.Bytes(1, m.Initializer)
	e.Message(2, m.Amount)
	e.RepeatedBytes(3, receivers)
	e.Uint64(4, uint64(m.Slot))
	return e.Result()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Initializer = d.Bytes()
		case 2:
			m.Amount = &coin.Coin{}
			d.Message(m.Amount)
		case 3:
			m.Receivers = append(m.Receivers, d.Bytes())
		case 4:
			m.Slot = uint32(d.Uint64())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// ReleaseMsg pays the escrow to the receiver at given index. Asset is
// optional. When set it must match the escrow asset.
type ReleaseMsg struct {
	EscrowID      timelock.Address
	ReceiverIndex uint32
	Asset         string
}

func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

func (m *ReleaseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	errs = errors.AppendField(errs, "Asset", validateAsset(m.Asset))
	if m.ReceiverIndex >= MaxReceiversLimit {
		errs = errors.AppendField(errs, "ReceiverIndex", errors.ErrInvalidInput)
	}
	return errs
}

func (m *ReleaseMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, m.EscrowID)
	e.Uint64(2, uint64(m.ReceiverIndex))
	e.String(3, m.Asset)
	return e.Result()
}

func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	*m = ReleaseMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.EscrowID = d.Bytes()
		case 2:
			m.ReceiverIndex = uint32(d.Uint64())
		case 3:
			m.Asset = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// ReclaimMsg returns the escrow to its initializer.
type ReclaimMsg struct {
	EscrowID timelock.Address
	Asset    string
}

func (ReclaimMsg) Path() string {
	return pathReclaimMsg
}

func (m *ReclaimMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	errs = errors.AppendField(errs, "Asset", validateAsset(m.Asset))
	return errs
}

func (m *ReclaimMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, m.EscrowID)
	e.String(2, m.Asset)
	return e.Result()
}

func (m *ReclaimMsg) Unmarshal(raw []byte) error {
	*m = ReclaimMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.EscrowID = d.Bytes()
		case 2:
			m.Asset = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func validateAsset(asset string) error {
	if asset != "" && !coin.IsCC(asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "asset %q", asset)
	}
	return nil
}

// UpdateConfigurationMsg changes the fields of the configuration that are
// set in the patch.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "")
	}
	return m.Patch.validatePatch()
}

func (m *UpdateConfigurationMsg) GetPatch() gconf.OwnedConfig {
	return m.Patch
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Patch)
	return e.Result()
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Patch = &Configuration{}
			d.Message(m.Patch)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
