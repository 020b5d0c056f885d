package timelock

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{
		"escrow": {"deadline_seconds": 86400},
		"broken": {"deadline_seconds": "soon"}
	}`), &opts))

	type conf struct {
		DeadlineSeconds int64 `json:"deadline_seconds"`
	}

	var c conf
	require.NoError(t, opts.ReadOptions("escrow", &c))
	assert.Equal(t, int64(86400), c.DeadlineSeconds)

	var missing conf
	require.NoError(t, opts.ReadOptions("missing", &missing))
	assert.Equal(t, conf{}, missing)

	err := opts.ReadOptions("broken", &c)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

type initFunc func(Options, KVStore) error

func (f initFunc) FromGenesis(o Options, kv KVStore) error { return f(o, kv) }

func TestChainInitializers(t *testing.T) {
	var calls []string
	record := func(name string, err error) Initializer {
		return initFunc(func(Options, KVStore) error {
			calls = append(calls, name)
			return err
		})
	}

	init := ChainInitializers(record("a", nil), record("b", errors.ErrEmpty), record("c", nil))
	err := init.FromGenesis(nil, nil)
	assert.True(t, errors.ErrEmpty.Is(err))
	assert.Equal(t, []string{"a", "b"}, calls)
}
