package timelock

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/timelock/errors"
)

// UnixTime represents a point in time as POSIX time with seconds precision.
// Persisted models use it instead of time.Time so that the binary
// representation is a plain int64.
type UnixTime int64

// AsUnixTime converts given time into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns a time.Time that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// AddSeconds returns the time moved by given number of seconds. An error is
// returned if the result does not fit int64.
func (t UnixTime) AddSeconds(seconds int64) (UnixTime, error) {
	if seconds > 0 && int64(t) > math.MaxInt64-seconds {
		return 0, errors.Wrap(errors.ErrOverflow, "time")
	}
	if seconds < 0 && int64(t) < math.MinInt64-seconds {
		return 0, errors.Wrap(errors.ErrOverflow, "time")
	}
	return t + UnixTime(seconds), nil
}

// UnmarshalJSON accepts both a number and an RFC3339 string. A string is
// handy in configuration files such as the genesis.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		if unix < 0 {
			return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
		}
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		unix := AsUnixTime(stdtime)
		if unix < 0 {
			return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
		}
		*t = unix
		return nil
	}

	return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
}

// Validate returns an error if this time value is invalid.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().String()
}
