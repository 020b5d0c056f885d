/*
Package coin implements an amount of a single fungible asset.

Amounts are whole units of the asset, so all arithmetic is done on uint64
values and every operation checks for overflow.
*/
package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
)

// IsCC is the RegExp to ensure valid asset identifiers.
var IsCC = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,7}$`).MatchString

// Coin is an amount of the asset identified by the ticker.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// Add combines two coins of the same asset.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrAssetMismatch, "adding %s to %s", o.Ticker, c.Ticker)
	}
	if o.Amount > math.MaxUint64-c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d + %d", c.Amount, o.Amount)
	}
	c.Amount += o.Amount
	return c, nil
}

// Subtract given amount. The result cannot be negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrAssetMismatch, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	if o.Amount > c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%d < %d", c.Amount, o.Amount)
	}
	c.Amount -= o.Amount
	return c, nil
}

// IsZero returns true if the amount is 0.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the amount is greater than 0.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same asset.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c == o
}

// Validate ensures the asset identifier is valid. Zero amount is allowed,
// use IsPositive when a value is required.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid asset %q", c.Ticker)
	}
	return nil
}

func (c *Coin) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.String(1, c.Ticker)
	e.Uint64(2, c.Amount)
	return e.Result()
}

func (c *Coin) Unmarshal(raw []byte) error {
	*c = Coin{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Ticker = d.String()
		case 2:
			c.Amount = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// UnmarshalJSON accepts both the human readable format and an object.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Coin implements UnmarshalJSON so a different type must be used.
	var obj struct {
		Ticker string
		Amount uint64
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	*c = Coin{Ticker: obj.Ticker, Amount: obj.Amount}
	return nil
}

// String returns the human readable format that ParseHumanFormat accepts.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatUint(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}

var humanCoinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([A-Z][A-Z0-9]{2,7})\s*$`)

// ParseHumanFormat parses a human readable coin representation of the
// format "<amount> <ticker>".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", m[1])
	}
	return Coin{Ticker: m[2], Amount: amount}, nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
