package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data. Use it instead of store.MemStore when the test
// needs the storage implementation used in production.
func CommitKVStore(t testing.TB) (db timelock.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "timelock")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	db = iavl.NewCommitStore(dbpath, "db")
	return db, func() { os.RemoveAll(dbpath) }
}
