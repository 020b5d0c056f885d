package weavetest

import "github.com/iov-one/timelock"

// Handler is a mock implementation of the timelock.Handler interface. It
// returns the configured results and counts each call.
type Handler struct {
	checkCall   int
	CheckResult timelock.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult timelock.DeliverResult
	DeliverErr    error
}

var _ timelock.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a single key value pair to the store on delivery and
// returns given error afterwards.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ timelock.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return &timelock.CheckResult{}, h.Err
}

func (h *WriteHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{}, h.Err
}

// PanicHandler panics with given value on every call.
type PanicHandler struct {
	Reason interface{}
}

var _ timelock.Handler = PanicHandler{}

func (h PanicHandler) Check(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.CheckResult, error) {
	panic(h.Reason)
}

func (h PanicHandler) Deliver(timelock.Context, timelock.KVStore, timelock.Tx) (*timelock.DeliverResult, error) {
	panic(h.Reason)
}
