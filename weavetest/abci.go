package weavetest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Runner provides a translation layer between an ABCI interface and a
// timelock application. It takes care of serializing transactions and
// creating blocks with a controlled block time.
type Runner struct {
	chainID string
	height  int64
	now     time.Time
	t       Tester
	app     abci.Application
}

// NewRunner creates a Runner instance that processes deliver and check
// transaction requests. Blocks are created with given time until it is
// changed using Advance.
func NewRunner(t Tester, app abci.Application, chainID string, now time.Time) *Runner {
	return &Runner{
		chainID: chainID,
		now:     now,
		t:       t,
		app:     app,
	}
}

// Executor is what the runner exposes to the code running in a block.
type Executor interface {
	DeliverTx(timelock.Tx) error
	CheckTx(timelock.Tx) error
}

var _ Executor = (*Runner)(nil)

// Advance moves the time of all following blocks.
func (r *Runner) Advance(d time.Duration) {
	r.now = r.now.Add(d)
}

// Now returns the time of the next block.
func (r *Runner) Now() time.Time {
	return r.now
}

// InitChain serializes given genesis to JSON and loads it. Loading a genesis
// creates a block.
func (r *Runner) InitChain(genesis interface{}) {
	r.t.Helper()

	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}
	r.app.InitChain(abci.RequestInitChain{
		Time:          r.now,
		ChainId:       r.chainID,
		AppStateBytes: raw,
	})
	r.InBlock(func(Executor) error { return nil })
}

// CheckTx translates given transaction into ABCI interface and executes.
func (r *Runner) CheckTx(tx timelock.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	if resp := r.app.CheckTx(raw); resp.Code != 0 {
		return fmt.Errorf("%d: %s", resp.Code, resp.Log)
	}
	return nil
}

// DeliverTx translates given transaction into ABCI interface and executes.
func (r *Runner) DeliverTx(tx timelock.Tx) error {
	resp, err := r.Deliver(tx)
	if err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("%d: %s", resp.Code, resp.Log)
	}
	return nil
}

// Deliver is DeliverTx that returns the raw ABCI response.
func (r *Runner) Deliver(tx timelock.Tx) (abci.ResponseDeliverTx, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return abci.ResponseDeliverTx{}, errors.Wrap(err, "cannot marshal transaction")
	}
	return r.app.DeliverTx(raw), nil
}

// InBlock begins a block and runs given function. All transactions executed
// within given function are part of the newly created block. The block is
// committed afterwards and the new application hash is returned.
//
// Any failure is ending the test instantly.
func (r *Runner) InBlock(executeTx func(Executor) error) []byte {
	r.t.Helper()

	r.height++

	// BeginBlock will panic on error.
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    r.now,
		},
	})

	if err := executeTx(r); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})
	return r.app.Commit().Data
}

// Query sends a query request and returns the models found.
func (r *Runner) Query(path string, data []byte) ([]timelock.Model, error) {
	resp := r.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if resp.Code != 0 {
		return nil, fmt.Errorf("%d: %s", resp.Code, resp.Log)
	}
	var k, v app.ResultSet
	if err := k.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "cannot parse keys")
	}
	if err := v.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "cannot parse values")
	}
	return app.JoinResults(&k, &v)
}
