package timelock

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantLog  string
		wantCode uint32
	}{
		"stdlib error is redacted": {
			err:      fmt.Errorf("base"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib error is shown in debug mode": {
			err:      fmt.Errorf("base"),
			debug:    true,
			wantLog:  "base",
			wantCode: 1,
		},
		"registered error": {
			err:      errors.ErrInvalidTiming.New("too early"),
			wantLog:  "too early: invalid timing",
			wantCode: 15,
		},
		"asset mismatch": {
			err:      errors.Wrap(errors.ErrAssetMismatch, "vault"),
			wantLog:  "vault: asset mismatch",
			wantCode: 17,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.wantLog), dres.Log)
			assert.Equal(t, tc.wantCode, dres.Code)

			cres := CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx: "+tc.wantLog), cres.Log)
			assert.Equal(t, tc.wantCode, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	tags := []common.KVPair{{Key: []byte("escrow"), Value: []byte("create")}}

	dres := DeliverOrError(&DeliverResult{Data: d, Log: msg, Tags: tags}, nil, false)
	assert.False(t, dres.IsErr())
	assert.EqualValues(t, d, dres.Data)
	assert.Equal(t, msg, dres.Log)
	assert.Equal(t, tags, dres.Tags)

	cres := CheckOrError(&CheckResult{Data: d, Log: msg}, nil, false)
	assert.False(t, cres.IsErr())
	assert.EqualValues(t, d, cres.Data)
	assert.Equal(t, msg, cres.Log)

	cres = CheckOrError(nil, errors.ErrUnauthorized, false)
	assert.Equal(t, uint32(2), cres.Code)
}
