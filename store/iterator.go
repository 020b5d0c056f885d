package store

import (
	"bytes"
)

// mergeIterator combines a snapshot of cached writes with the iterator of
// the backing store. On equal keys the cached write wins and deleted items
// are skipped.
type mergeIterator struct {
	cache   []cacheItem
	parent  Iterator
	reverse bool

	valid bool
	key   []byte
	value []byte
}

var _ Iterator = (*mergeIterator)(nil)

// newMergeIterator expects the cache items to be sorted in the iteration
// order.
func newMergeIterator(cache []cacheItem, parent Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		cache:   cache,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.advance(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// before returns true if a comes before b in the iteration order.
func (m *mergeIterator) before(a, b []byte) bool {
	cmp := bytes.Compare(a, b)
	if m.reverse {
		return cmp > 0
	}
	return cmp < 0
}

// advance moves the cursor to the next visible item.
func (m *mergeIterator) advance() error {
	for {
		hasCache := len(m.cache) > 0
		hasParent := m.parent != nil && m.parent.Valid()

		switch {
		case !hasCache && !hasParent:
			m.valid, m.key, m.value = false, nil, nil
			return nil
		case hasCache && (!hasParent || !m.before(m.parent.Key(), m.cache[0].key)):
			it := m.cache[0]
			m.cache = m.cache[1:]
			if hasParent && bytes.Equal(it.key, m.parent.Key()) {
				if err := m.parent.Next(); err != nil {
					return err
				}
			}
			if it.deleted {
				continue
			}
			m.valid, m.key, m.value = true, it.key, it.value
			return nil
		default:
			m.valid, m.key, m.value = true, m.parent.Key(), m.parent.Value()
			return m.parent.Next()
		}
	}
}

func (m *mergeIterator) Valid() bool {
	return m.valid
}

func (m *mergeIterator) Next() error {
	if !m.valid {
		panic("advanced past the end")
	}
	return m.advance()
}

func (m *mergeIterator) Key() []byte {
	if !m.valid {
		panic("read after the end")
	}
	return m.key
}

func (m *mergeIterator) Value() []byte {
	if !m.valid {
		panic("read after the end")
	}
	return m.value
}

func (m *mergeIterator) Close() {
	if m.parent != nil {
		m.parent.Close()
	}
}
