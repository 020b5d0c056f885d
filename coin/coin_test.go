package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestCoinArithmetic(t *testing.T) {
	cases := map[string]struct {
		a, b    Coin
		add     Coin
		addErr  *errors.Error
		sub     Coin
		subErr  *errors.Error
		aGTEofB bool
	}{
		"same asset": {
			a:       NewCoin(100, "TLK"),
			b:       NewCoin(40, "TLK"),
			add:     NewCoin(140, "TLK"),
			sub:     NewCoin(60, "TLK"),
			aGTEofB: true,
		},
		"equal amounts": {
			a:       NewCoin(7, "TLK"),
			b:       NewCoin(7, "TLK"),
			add:     NewCoin(14, "TLK"),
			sub:     NewCoin(0, "TLK"),
			aGTEofB: true,
		},
		"insufficient": {
			a:      NewCoin(1, "TLK"),
			b:      NewCoin(2, "TLK"),
			add:    NewCoin(3, "TLK"),
			subErr: errors.ErrInsufficientAmount,
		},
		"different assets": {
			a:      NewCoin(10, "TLK"),
			b:      NewCoin(1, "ETH"),
			addErr: errors.ErrAssetMismatch,
			subErr: errors.ErrAssetMismatch,
		},
		"overflow": {
			a:       NewCoin(math.MaxUint64, "TLK"),
			b:       NewCoin(1, "TLK"),
			addErr:  errors.ErrOverflow,
			sub:     NewCoin(math.MaxUint64-1, "TLK"),
			aGTEofB: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if tc.addErr != nil {
				assert.IsErr(t, tc.addErr, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tc.add, got)
			}

			got, err = tc.a.Subtract(tc.b)
			if tc.subErr != nil {
				assert.IsErr(t, tc.subErr, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tc.sub, got)
			}

			assert.Equal(t, tc.aGTEofB, tc.a.IsGTE(tc.b))
		})
	}
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin Coin
		ok   bool
	}{
		"valid":            {coin: NewCoin(1, "TLK"), ok: true},
		"zero is valid":    {coin: NewCoin(0, "USDC"), ok: true},
		"digits in ticker": {coin: NewCoin(1, "B2B"), ok: true},
		"lower case":       {coin: NewCoin(1, "tlk"), ok: false},
		"too short":        {coin: NewCoin(1, "TL"), ok: false},
		"too long":         {coin: NewCoin(1, "ABCDEFGHI"), ok: false},
		"empty":            {coin: Coin{}, ok: false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.coin.Validate()
			if tc.ok {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, errors.ErrInvalidInput, err)
			}
		})
	}
}

func TestCoinDeserialization(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"human format": {
			raw:  `"123 TLK"`,
			want: NewCoin(123, "TLK"),
		},
		"object": {
			raw:  `{"ticker": "TLK", "amount": 5}`,
			want: NewCoin(5, "TLK"),
		},
		"negative amount": {
			raw:     `"-1 TLK"`,
			wantErr: errors.ErrInvalidInput,
		},
		"fractions are not supported": {
			raw:     `"1.5 TLK"`,
			wantErr: errors.ErrInvalidInput,
		},
		"amount too big": {
			raw:     `"18446744073709551616 TLK"`,
			wantErr: errors.ErrOverflow,
		},
		"not a coin": {
			raw:     `[1, 2]`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Coin
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoinSerialization(t *testing.T) {
	c := NewCoin(1<<40, "TLK")
	raw, err := c.Marshal()
	assert.Nil(t, err)

	var got Coin
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, c, got)
	assert.Equal(t, "1099511627776 TLK", got.String())

	var parsed Coin
	assert.Nil(t, parsed.Set(got.String()))
	assert.Equal(t, c, parsed)
}
