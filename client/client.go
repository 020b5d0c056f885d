/*
Package client provides access to a running timelock node through the
tendermint RPC.
*/
package client

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/sigs"
)

// Client is a tendermint client wrapped to provide simple access to the
// data structures used by the timelock application.
type Client struct {
	conn Connection
}

// NewClient wraps a Client around an existing tendermint connection.
func NewClient(conn Connection) *Client {
	return &Client{conn: conn}
}

// Status returns current height and other (subjective) status info from this
// node.
func (c *Client) Status() (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// ChainID returns the chain ID declared in the genesis of the node.
func (c *Client) ChainID() (string, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	if res.Genesis == nil {
		return "", errors.Wrap(errors.ErrEmpty, "no genesis")
	}
	return res.Genesis.ChainID, nil
}

// CommitTx submits the transaction and waits until it is included in a
// block. A failure of either CheckTx or DeliverTx is returned as an error of
// the registered kind.
func (c *Client) CommitTx(tx timelock.Tx) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal transaction")
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if res.CheckTx.Code != 0 {
		return nil, errors.Wrap(errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log), "check")
	}
	if res.DeliverTx.Code != 0 {
		return nil, errors.Wrap(errors.ABCIError(res.DeliverTx.Code, res.DeliverTx.Log), "deliver")
	}
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Data:   res.DeliverTx.Data,
		Log:    res.DeliverTx.Log,
	}, nil
}

// Query returns all models found under given path. Path and data are the
// same as for an ABCI query, for example "/escrows" and an escrow ID.
func (c *Client) Query(path string, data []byte) ([]timelock.Model, error) {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query: %s", err)
	}
	resp := res.Response
	if resp.Code != 0 {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "cannot parse keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "cannot parse values")
	}
	return app.JoinResults(&keys, &values)
}

// QueryOne loads the single model stored under given key into dst.
// ErrNotFound is returned if there is no such model.
func (c *Client) QueryOne(path string, key []byte, dst timelock.Persistent) error {
	models, err := c.Query(path, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	return dst.Unmarshal(models[0].Value)
}

// NextNonce returns the sequence that the next signature of given signer
// must use.
func (c *Client) NextNonce(signer timelock.Address) (int64, error) {
	var user sigs.UserData
	switch err := c.QueryOne("/auth", signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
