package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the same set of checks against any CacheableKVStore
// implementation. It is shared by the btree and the iavl tests.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// Savepoints checks that a cache wrap is invisible to its parent until
// written, and that a discarded one leaves no trace. Every transaction and
// every escrow check runs in such a wrap.
func (s *TestSuite) Savepoints(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	vault, escrow := []byte("ledger:vault"), []byte("escrow:1")
	require.NoError(t, base.Set(vault, []byte("100")))

	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set(escrow, []byte("locked")))
	require.NoError(t, discarded.Delete(vault))
	assertGetHas(t, discarded, escrow, []byte("locked"))
	assertGetHas(t, discarded, vault, nil)
	assertGetHas(t, base, escrow, nil)
	discarded.Discard()
	assertGetHas(t, base, vault, []byte("100"))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set(escrow, []byte("locked")))
	inner := outer.CacheWrap()
	require.NoError(t, inner.Set(vault, []byte("0")))
	assertGetHas(t, outer, vault, []byte("100"))
	require.NoError(t, inner.Write())
	assertGetHas(t, outer, vault, []byte("0"))
	assertGetHas(t, base, vault, []byte("100"))
	require.NoError(t, outer.Write())

	assertGetHas(t, base, vault, []byte("0"))
	assertGetHas(t, base, escrow, []byte("locked"))
}

// ShadowedIteration checks that iterating a cache wrap merges its writes
// and deletes over the parent, in both directions and over bucket prefixes.
func (s *TestSuite) ShadowedIteration(t *testing.T) {
	cases := map[string]struct {
		parent  []Op
		child   []Op
		start   string
		end     string
		reverse bool
		want    []Model
	}{
		"parent only": {
			parent: []Op{SetOp([]byte("escrow:b"), []byte("2")), SetOp([]byte("escrow:a"), []byte("1"))},
			want:   []Model{pair("escrow:a", "1"), pair("escrow:b", "2")},
		},
		"child only, reverse": {
			child:   []Op{SetOp([]byte("escrow:a"), []byte("1")), SetOp([]byte("escrow:b"), []byte("2"))},
			reverse: true,
			want:    []Model{pair("escrow:b", "2"), pair("escrow:a", "1")},
		},
		"child overwrites and deletes": {
			parent: []Op{
				SetOp([]byte("escrow:a"), []byte("1")),
				SetOp([]byte("escrow:b"), []byte("2")),
				SetOp([]byte("escrow:c"), []byte("3")),
			},
			child: []Op{
				SetOp([]byte("escrow:a"), []byte("10")),
				DelOp([]byte("escrow:b")),
				SetOp([]byte("escrow:d"), []byte("4")),
			},
			want: []Model{pair("escrow:a", "10"), pair("escrow:c", "3"), pair("escrow:d", "4")},
		},
		"deleted range is empty": {
			parent: []Op{SetOp([]byte("escrow:a"), []byte("1"))},
			child:  []Op{DelOp([]byte("escrow:a")), DelOp([]byte("escrow:z"))},
			want:   nil,
		},
		"prefix range skips other buckets": {
			parent: []Op{
				SetOp([]byte("escrow:a"), []byte("1")),
				SetOp([]byte("ledger:a"), []byte("7")),
			},
			child: []Op{
				SetOp([]byte("escrow_receiver:a"), []byte("x")),
				SetOp([]byte("escrow:b"), []byte("2")),
			},
			start: "escrow:",
			end:   "escrow;",
			want:  []Model{pair("escrow:a", "1"), pair("escrow:b", "2")},
		},
		"prefix range in reverse": {
			parent:  []Op{SetOp([]byte("ledger:a"), []byte("7")), SetOp([]byte("ledger:b"), []byte("8"))},
			child:   []Op{SetOp([]byte("ledger:c"), []byte("9")), SetOp([]byte("escrow:a"), []byte("1"))},
			start:   "ledger:",
			end:     "ledger;",
			reverse: true,
			want:    []Model{pair("ledger:c", "9"), pair("ledger:b", "8"), pair("ledger:a", "7")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parent {
				require.NoError(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				require.NoError(t, op.Apply(child))
			}

			var start, end []byte
			if tc.start != "" {
				start, end = []byte(tc.start), []byte(tc.end)
			}
			var (
				iter Iterator
				err  error
			)
			if tc.reverse {
				iter, err = child.ReverseIterator(start, end)
			} else {
				iter, err = child.Iterator(start, end)
			}
			require.NoError(t, err)
			defer iter.Close()

			var got []Model
			for iter.Valid() {
				got = append(got, Pair(iter.Key(), iter.Value()))
				require.NoError(t, iter.Next())
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func pair(key, value string) Model {
	return Pair([]byte(key), []byte(value))
}

func assertGetHas(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has)
}
