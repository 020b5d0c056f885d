/*
Package timelock defines the interfaces that tie together the packages of a
time-locked escrow application, along with the simple value types shared by
all of them: addresses, conditions and block time.

The application is assembled from extensions (see the x directory). Each
extension provides handlers for its messages, an initializer reading its
genesis section and query handlers for its buckets. The app package routes
transactions to those handlers and exposes them over ABCI.

Request scoped information such as the block height, the block time, the
chain ID and the logger travels through context.Context. For every value of
type T there are two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that a lower level module
can never overwrite what the application declared.
*/
package timelock
