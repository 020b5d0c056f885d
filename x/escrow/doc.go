/*
Package escrow implements a time-locked escrow with many receivers.

A depositor (the initializer) locks an amount of a single asset in a vault.
The vault is a ledger account controlled by the escrow authority, an address
derived from a fixed condition that has no private key. Only this package can
move funds out of a vault.

An escrow ends with exactly one of two transitions:

  release  one of the receivers, or the configured administrator, pays the
           whole amount to the receiver at the given index
  reclaim  the initializer takes the whole amount back once the deadline
           has passed

The deadline is the creation time plus the configured number of seconds. The
release policy decides on which side of the deadline a release is allowed.
Either transition removes the escrow and closes its vault, so any later
attempt fails with a not found error.
*/
package escrow
