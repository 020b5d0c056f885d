/*
Package errors provides the error kinds shared by every timelock extension.

Each root error is created with Register and carries an ABCI code, so that a
client can tell the failure kinds apart without parsing messages. Runtime
errors are built on top of a root error:

	errors.ErrNotFound.New("escrow")
	errors.Wrapf(errors.ErrInvalidTiming, "deadline %s", deadline)

Use the Is method of a root error to test for a kind. Wrapping preserves the
kind and the stack trace of the innermost wrap:

	%s  prints the message chain
	%+v prints the message chain followed by the stack trace

Field errors describe a single invalid attribute and can be clubbed together
using Append. Validation code uses both to report every problem at once.
*/
package errors
