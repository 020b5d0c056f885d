package weavetest

import "github.com/iov-one/timelock"

// Decorator is a mock implementation of the timelock.Decorator interface.
//
// CheckErr and DeliverErr force an error response of the corresponding
// method before the wrapped handler is called. Context, if set, is applied
// to the context passed down the stack. Every call is counted, including the
// failing ones.
type Decorator struct {
	CheckErr   error
	DeliverErr error
	Context    func(timelock.Context) timelock.Context

	checkCall   int
	deliverCall int
}

var _ timelock.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(d.ctx(ctx), db, tx)
}

func (d *Decorator) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(d.ctx(ctx), db, tx)
}

func (d *Decorator) ctx(ctx timelock.Context) timelock.Context {
	if d.Context == nil {
		return ctx
	}
	return d.Context(ctx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls given decorator with the handler as
// the next step.
func Decorate(h timelock.Handler, d timelock.Decorator) timelock.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn timelock.Handler
	dc timelock.Decorator
}

var _ timelock.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
