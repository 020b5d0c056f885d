package timelock

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantTime UnixTime
		wantErr  *errors.Error
	}{
		"zero time as number": {
			raw:      "0",
			wantTime: 0,
		},
		"a time as string": {
			raw:      `"2019-04-04T11:35:40.89181085+02:00"`,
			wantTime: 1554370540,
		},
		"a time as number": {
			raw:      "1554370540",
			wantTime: 1554370540,
		},
		"negative number": {
			raw:     "-1",
			wantErr: errors.ErrInvalidInput,
		},
		"negative time as string": {
			raw:     `"1950-01-01T01:00:00+01:00"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid string": {
			raw:     `"not a time string"`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %v", tc.wantErr, err)
			}
			assert.Equal(t, tc.wantTime, got)
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	base := AsUnixTime(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, base+86400, base.Add(24*time.Hour))

	deadline, err := base.AddSeconds(86400)
	require.NoError(t, err)
	assert.Equal(t, base.Time().Add(24*time.Hour), deadline.Time())

	_, err = UnixTime(math.MaxInt64 - 10).AddSeconds(11)
	assert.True(t, errors.ErrOverflow.Is(err))

	_, err = UnixTime(math.MinInt64 + 10).AddSeconds(-11)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestUnixTimeValidate(t *testing.T) {
	assert.NoError(t, UnixTime(0).Validate())
	assert.NoError(t, UnixTime(1554370540).Validate())
	assert.True(t, errors.ErrInvalidState.Is(UnixTime(-1).Validate()))
}
