package orm

import (
	"github.com/iov-one/timelock"
)

// ConsumeIterator reads all remaining data into an array and closes the
// iterator.
func ConsumeIterator(itr timelock.Iterator) ([]timelock.Model, error) {
	defer itr.Close()

	var res []timelock.Model
	var err error
	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return nil, err
		}
		res = append(res, timelock.Pair(itr.Key(), itr.Value()))
	}
	return res, err
}

// prefixEnd returns the first key that does not start with given prefix,
// or nil if there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
