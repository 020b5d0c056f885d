package client

import (
	cmn "github.com/tendermint/tendermint/libs/common"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// CommitResult is the outcome of a transaction included in a block.
type CommitResult struct {
	ID     TransactionID
	Height int64
	// Data is the result data returned by the handler, for example the ID
	// of a created escrow.
	Data []byte
	Log  string
}

// Status is the current status of the node we connect to.
type Status struct {
	Height     int64
	CatchingUp bool
}
