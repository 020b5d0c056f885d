package orm

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"regexp"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One loads the model stored under given primary key into dest. It
	// returns ErrNotFound if the entity does not exist.
	One(db timelock.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db timelock.ReadOnlyKVStore, key []byte) error

	// Put saves given model under the primary key and updates all
	// indexes.
	Put(db timelock.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key together with its
	// index entries. It returns ErrNotFound if the entity does not exist.
	Delete(db timelock.KVStore, key []byte) error

	// ByIndex loads all models that the named index maps given key to.
	// Destination must be a pointer to a slice of the model type or of
	// pointers to the model type. Primary keys are returned in the same
	// order.
	ByIndex(db timelock.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// Register registers this bucket and all its indexes as query
	// handlers under the given path.
	Register(path string, r timelock.QueryRouter)
}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds a secondary index. Index names must be unique within a
// bucket.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("duplicated index name: " + name)
		}
		mb.indexes[name] = index{
			bucket:  mb.name,
			name:    name,
			indexer: indexer,
			unique:  unique,
		}
	}
}

// NewModelBucket returns a bucket that stores models of the same type as
// the given one. Name must be 3 to 10 lower case letters.
func NewModelBucket(name string, model Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	t := reflect.TypeOf(model)
	if t.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   t.Elem(),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) One(db timelock.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s with key %X", mb.name, key)
	}
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be loaded from %s bucket", dest, mb.name)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot unmarshal %s: %s", mb.name, err)
	}
	return nil
}

func (mb *modelBucket) Has(db timelock.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot check the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s with key %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db timelock.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}

	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}

	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db timelock.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s with key %X", mb.name, key)
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// load returns the stored model or nil if it does not exist.
func (mb *modelBucket) load(db timelock.ReadOnlyKVStore, key []byte) (Model, error) {
	m := mb.newModel()
	switch err := mb.One(db, key, m); {
	case err == nil:
		return m, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model).Interface().(Model)
}

func (mb *modelBucket) ByIndex(db timelock.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "%s bucket has no index %q", mb.name, indexName)
	}

	dst := reflect.ValueOf(dest)
	if dst.Kind() != reflect.Ptr || dst.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrInvalidType, "destination must be a pointer to a slice, got %T", dest)
	}
	slice := dst.Elem()
	byPtr := slice.Type().Elem() == reflect.PtrTo(mb.model)
	if !byPtr && slice.Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T cannot hold %s models", dest, mb.name)
	}

	keys, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}
	slice = reflect.MakeSlice(slice.Type(), 0, len(keys))
	for _, pk := range keys {
		m := mb.newModel()
		if err := mb.One(db, pk, m); err != nil {
			return nil, errors.Wrapf(err, "index %s points to a missing entity", indexName)
		}
		v := reflect.ValueOf(m)
		if !byPtr {
			v = v.Elem()
		}
		slice = reflect.Append(slice, v)
	}
	dst.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Register(path string, r timelock.QueryRouter) {
	root := "/" + path
	r.Register(root, mb)
	for name, idx := range mb.indexes {
		r.Register(root+"/"+name, indexQuery{idx: idx, bucket: mb})
	}
}

// Query returns the raw models by primary key or primary key prefix.
func (mb *modelBucket) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	switch mod {
	case timelock.KeyQueryMod:
		key := mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []timelock.Model{timelock.Pair(key, value)}, nil
	case timelock.PrefixQueryMod:
		prefix := mb.dbKey(data)
		itr, err := db.Iterator(prefix, prefixEnd(prefix))
		if err != nil {
			return nil, err
		}
		return ConsumeIterator(itr)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown query mod %q", mod)
	}
}

// index keeps for every index key the list of primary keys as separate
// entries:
//
//   _i.<bucket>_<name>:<uvarint len><index key><primary key>
//
// A lookup is a prefix scan.
type index struct {
	bucket  string
	name    string
	indexer Indexer
	unique  bool
}

func (i index) prefix(indexKey []byte) []byte {
	var size [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(size[:], uint64(len(indexKey)))
	p := []byte("_i." + i.bucket + "_" + i.name + ":")
	p = append(p, size[:n]...)
	return append(p, indexKey...)
}

func (i index) keys(db timelock.ReadOnlyKVStore, indexKey []byte) ([][]byte, error) {
	prefix := i.prefix(indexKey)
	itr, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer itr.Close()

	var res [][]byte
	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return nil, err
		}
		pk := itr.Key()[len(prefix):]
		res = append(res, append([]byte{}, pk...))
	}
	return res, err
}

// update moves the index entries of a primary key from the previous to the
// next model state. Either can be nil.
func (i index) update(db timelock.KVStore, pk []byte, prev, next Model) error {
	var before, after [][]byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if after, err = i.indexer(next); err != nil {
			return err
		}
	}

	for _, k := range subtract(before, after) {
		if err := db.Delete(append(i.prefix(k), pk...)); err != nil {
			return err
		}
	}
	for _, k := range subtract(after, before) {
		if i.unique {
			taken, err := i.keys(db, k)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				return errors.Wrapf(errors.ErrDuplicate, "unique index key %X", k)
			}
		}
		if err := db.Set(append(i.prefix(k), pk...), []byte{}); err != nil {
			return err
		}
	}
	return nil
}

// subtract returns all keys of a that are not present in b.
func subtract(a, b [][]byte) [][]byte {
	var res [][]byte
outer:
	for _, x := range a {
		for _, y := range b {
			if bytes.Equal(x, y) {
				continue outer
			}
		}
		for _, y := range res {
			if bytes.Equal(x, y) {
				continue outer
			}
		}
		res = append(res, x)
	}
	return res
}

// indexQuery returns all models that an index maps given key to.
type indexQuery struct {
	idx    index
	bucket *modelBucket
}

func (q indexQuery) Query(db timelock.ReadOnlyKVStore, mod string, data []byte) ([]timelock.Model, error) {
	if mod != timelock.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "index query supports only key mod, got %q", mod)
	}
	keys, err := q.idx.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]timelock.Model, 0, len(keys))
	for _, pk := range keys {
		key := q.bucket.dbKey(pk)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, timelock.Pair(key, value))
	}
	return res, nil
}
