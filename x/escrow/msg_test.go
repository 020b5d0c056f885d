package escrow

import (
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestCreateMsgValidate(t *testing.T) {
	receiver := weavetest.RandomAddr(t)

	cases := map[string]struct {
		msg        *CreateMsg
		wantErrors map[string]*errors.Error
	}{
		"valid": {
			msg: &CreateMsg{Amount: coin.NewCoinp(1, "XYZ"), Receivers: []timelock.Address{receiver}},
			wantErrors: map[string]*errors.Error{
				"Initializer": nil,
				"Amount":      nil,
				"Receivers":   nil,
			},
		},
		"zero amount": {
			msg: &CreateMsg{Amount: coin.NewCoinp(0, "XYZ"), Receivers: []timelock.Address{receiver}},
			wantErrors: map[string]*errors.Error{
				"Amount": errors.ErrInvalidAmount,
			},
		},
		"missing everything": {
			msg: &CreateMsg{Initializer: timelock.Address("bad")},
			wantErrors: map[string]*errors.Error{
				"Initializer": errors.ErrInvalidInput,
				"Amount":      errors.ErrEmpty,
				"Receivers":   errors.ErrEmpty,
			},
		},
		"invalid ticker": {
			msg: &CreateMsg{Amount: coin.NewCoinp(3, "x"), Receivers: []timelock.Address{receiver}},
			wantErrors: map[string]*errors.Error{
				"Amount": errors.ErrInvalidInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrors {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestReleaseAndReclaimMsgValidate(t *testing.T) {
	id := weavetest.RandomAddr(t)

	assert.Nil(t, (&ReleaseMsg{EscrowID: id, ReceiverIndex: 19}).Validate())
	assert.Nil(t, (&ReleaseMsg{EscrowID: id, Asset: "XYZ"}).Validate())
	assert.FieldError(t, (&ReleaseMsg{EscrowID: id, ReceiverIndex: 20}).Validate(), "ReceiverIndex", errors.ErrInvalidInput)
	assert.FieldError(t, (&ReleaseMsg{EscrowID: id, Asset: "xyz"}).Validate(), "Asset", errors.ErrInvalidInput)
	assert.FieldError(t, (&ReleaseMsg{}).Validate(), "EscrowID", errors.ErrInvalidInput)

	assert.Nil(t, (&ReclaimMsg{EscrowID: id}).Validate())
	assert.FieldError(t, (&ReclaimMsg{}).Validate(), "EscrowID", errors.ErrInvalidInput)
	assert.FieldError(t, (&ReclaimMsg{EscrowID: id, Asset: "?"}).Validate(), "Asset", errors.ErrInvalidInput)
}

func TestMsgSerialization(t *testing.T) {
	msgs := map[string]struct {
		msg  timelock.Msg
		dest timelock.Msg
	}{
		"create": {
			msg: &CreateMsg{
				Initializer: weavetest.RandomAddr(t),
				Amount:      coin.NewCoinp(7, "XYZ"),
				Receivers:   []timelock.Address{weavetest.RandomAddr(t), weavetest.RandomAddr(t)},
				Slot:        3,
			},
			dest: &CreateMsg{},
		},
		"release": {
			msg:  &ReleaseMsg{EscrowID: weavetest.RandomAddr(t), ReceiverIndex: 5, Asset: "XYZ"},
			dest: &ReleaseMsg{},
		},
		"reclaim": {
			msg:  &ReclaimMsg{EscrowID: weavetest.RandomAddr(t)},
			dest: &ReclaimMsg{},
		},
		"update configuration": {
			msg: &UpdateConfigurationMsg{Patch: &Configuration{
				Admin:         weavetest.RandomAddr(t),
				ReleasePolicy: ReleaseBeforeDeadline,
			}},
			dest: &UpdateConfigurationMsg{},
		},
	}

	for name, tc := range msgs {
		t.Run(name, func(t *testing.T) {
			raw, err := tc.msg.Marshal()
			assert.Nil(t, err)
			assert.Nil(t, tc.dest.Unmarshal(raw))
			assert.Equal(t, tc.msg, tc.dest)
		})
	}
}

func TestUpdateConfigurationMsgValidate(t *testing.T) {
	assert.FieldError(t, (&UpdateConfigurationMsg{}).Validate(), "Patch", errors.ErrEmpty)
	assert.Nil(t, (&UpdateConfigurationMsg{Patch: &Configuration{DeadlineSeconds: 10}}).Validate())
	assert.FieldError(t, (&UpdateConfigurationMsg{Patch: &Configuration{ReleasePolicy: 7}}).Validate(), "ReleasePolicy", errors.ErrInvalidInput)
	assert.FieldError(t, (&UpdateConfigurationMsg{Patch: &Configuration{MaxReceivers: 21}}).Validate(), "MaxReceivers", errors.ErrInvalidInput)
}
