package main

import (
	"bytes"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/weavetest/assert"
	"github.com/iov-one/timelock/x/escrow"
)

func TestCmdCreateEscrowHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-src", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"-amount", "50 TLK",
		"-receiver", "F9990AB5A7F7E5B8E6EA4AD50DDC62DBB6FAB6F1",
		"-receiver", "71A8CDD99E3DBC7D39CA2D1A1BCCE48DE1D1EE8F",
		"-slot", "3",
	}
	if err := cmdCreateEscrow(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new escrow transaction: %s", err)
	}

	tx := unmarshalTx(t, &output)
	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*escrow.CreateMsg)

	assert.Equal(t, fromHex(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), []byte(msg.Initializer))
	assert.Equal(t, coin.NewCoinp(50, "TLK"), msg.Amount)
	assert.Equal(t, []timelock.Address{
		fromHex(t, "F9990AB5A7F7E5B8E6EA4AD50DDC62DBB6FAB6F1"),
		fromHex(t, "71A8CDD99E3DBC7D39CA2D1A1BCCE48DE1D1EE8F"),
	}, msg.Receivers)
	assert.Equal(t, uint32(3), msg.Slot)
}

func TestCmdCreateEscrowWithoutReceivers(t *testing.T) {
	var output bytes.Buffer
	args := []string{"-amount", "50 TLK"}
	if err := cmdCreateEscrow(nil, &output, args); err == nil {
		t.Fatal("an escrow without receivers must not be created")
	}
	assert.Equal(t, 0, output.Len())
}

func TestCmdCreateEscrowSlotOutOfRange(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-amount", "50 TLK",
		"-receiver", "F9990AB5A7F7E5B8E6EA4AD50DDC62DBB6FAB6F1",
		"-slot", "4294967296",
	}
	if err := cmdCreateEscrow(nil, &output, args); err == nil {
		t.Fatal("slot that does not fit uint32 accepted")
	}
	assert.Equal(t, 0, output.Len())
}

func TestCmdReleaseEscrowHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-escrow", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"-index", "4",
		"-asset", "TLK",
	}
	if err := cmdReleaseEscrow(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new release escrow transaction: %s", err)
	}

	tx := unmarshalTx(t, &output)
	msg := tx.ReleaseEscrowMsg
	if msg == nil {
		t.Fatal("release message not set")
	}
	assert.Equal(t, fromHex(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), []byte(msg.EscrowID))
	assert.Equal(t, uint32(4), msg.ReceiverIndex)
	assert.Equal(t, "TLK", msg.Asset)
}

func TestCmdReleaseEscrowIndexOutOfRange(t *testing.T) {
	cases := map[string]string{
		"one past the receiver limit": "20",
		"does not fit uint32":         "4294967296",
		"wraps to index one":          "4294967297",
	}
	for testName, index := range cases {
		t.Run(testName, func(t *testing.T) {
			var output bytes.Buffer
			args := []string{
				"-escrow", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
				"-index", index,
			}
			if err := cmdReleaseEscrow(nil, &output, args); err == nil {
				t.Fatalf("receiver index %s accepted", index)
			}
			assert.Equal(t, 0, output.Len())
		})
	}
}

func TestCmdReclaimEscrowHappyPath(t *testing.T) {
	var output bytes.Buffer
	args := []string{
		"-escrow", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
	}
	if err := cmdReclaimEscrow(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new reclaim escrow transaction: %s", err)
	}

	tx := unmarshalTx(t, &output)
	msg := tx.ReclaimEscrowMsg
	if msg == nil {
		t.Fatal("reclaim message not set")
	}
	assert.Equal(t, fromHex(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), []byte(msg.EscrowID))
	assert.Equal(t, "", msg.Asset)
}
