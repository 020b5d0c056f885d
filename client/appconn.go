package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/timelock/cmd/timelockd/app"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// AppConnection is an in-process Connection backed by an in-memory timelock
// application. Each submitted transaction is included in its own block. Use
// it in tests instead of a running node.
type AppConnection struct {
	app     abci.Application
	chainID string
	height  int64
	now     time.Time
}

var _ Connection = (*AppConnection)(nil)

// NewAppConnection returns a connection to a new application initialized
// with given genesis state. Block time starts at 2020-03-01 12:00 UTC and
// advances five seconds per block.
func NewAppConnection(t testing.TB, chainID string, genesis interface{}) *AppConnection {
	t.Helper()
	a, err := app.GenerateApp("", log.NewNopLogger(), false)
	require.NoError(t, err)

	raw, err := json.Marshal(genesis)
	require.NoError(t, err)

	c := &AppConnection{
		app:     a,
		chainID: chainID,
		now:     time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	a.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: raw})
	c.block(nil)
	return c
}

// Advance moves the clock of the next block forward.
func (c *AppConnection) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *AppConnection) block(tx []byte) abci.ResponseDeliverTx {
	c.height++
	c.now = c.now.Add(5 * time.Second)
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: c.chainID, Height: c.height, Time: c.now},
	})
	var res abci.ResponseDeliverTx
	if tx != nil {
		res = c.app.DeliverTx(tx)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

func (c *AppConnection) Status() (*ctypes.ResultStatus, error) {
	return &ctypes.ResultStatus{
		SyncInfo: ctypes.SyncInfo{LatestBlockHeight: c.height},
	}, nil
}

func (c *AppConnection) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{
		Genesis: &tmtypes.GenesisDoc{ChainID: c.chainID},
	}, nil
}

func (c *AppConnection) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	return &ctypes.ResultABCIQuery{
		Response: c.app.Query(abci.RequestQuery{Path: path, Data: data}),
	}, nil
}

func (c *AppConnection) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	res := &ctypes.ResultBroadcastTxCommit{
		CheckTx: c.app.CheckTx(tx),
		Hash:    tx.Hash(),
	}
	if res.CheckTx.Code != 0 {
		return res, nil
	}
	res.DeliverTx = c.block(tx)
	res.Height = c.height
	return res, nil
}
