package errors

import (
	"fmt"
	"reflect"
)

// Root errors. Extensions may register their own kinds using codes above
// 1000.
var (
	// ErrUnauthorized is returned when the caller is not allowed to
	// perform an operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg is returned when a message cannot be handled.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel is returned when an entity is invalid and cannot be
	// persisted.
	ErrInvalidModel = Register(5, "invalid model")

	// ErrDuplicate is returned when an entity with the same key already
	// exists.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when a code path that should never be reached
	// was reached.
	ErrHuman = Register(7, "coding error")

	// ErrCannotBeModified is returned when an immutable value is changed.
	ErrCannotBeModified = Register(8, "cannot be modified")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState is returned when an entity is in invalid state.
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType is returned when the type is not what was expected.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when an account does not hold
	// enough funds.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrInvalidAmount is returned for zero, negative or malformed amounts.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidInput is returned for malformed input of any kind.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrInvalidTiming is returned when an operation is attempted on the
	// wrong side of a deadline.
	ErrInvalidTiming = Register(15, "invalid timing")

	// ErrOverflow is returned when a computation result does not fit the
	// type.
	ErrOverflow = Register(16, "value overflow")

	// ErrAssetMismatch is returned when an account or a record holds a
	// different asset than the one declared.
	ErrAssetMismatch = Register(17, "asset mismatch")

	// ErrDatabase is returned when the storage fails or holds data that
	// cannot be decoded.
	ErrDatabase = Register(18, "database")

	// ErrNetwork is returned when a remote node cannot be reached.
	ErrNetwork = Register(19, "network")

	// ErrPanic is only set when a panic was recovered. Its message is
	// always redacted.
	ErrPanic = Register(111222, "panic")
)

// Register returns a root error with given ABCI code. Each code can be
// registered only once and an attempt to reuse it panics.
//
// Call this function only when the program is initialized.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// Code 1 is reserved for errors that were not registered.
var usedCodes = map[uint32]*Error{
	1: {code: 1, desc: "internal"},
}

// Error is a root error. Every error returned at runtime should wrap one of
// them.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code used in ABCI responses.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns an error of this kind with given description. It is the same
// as Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is returns true if given error is of this kind. The error is unwrapped
// using the Cause method and clubbed errors match if any of them does.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for {
		if err == e {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, er := range u.Unpack() {
				if e.Is(er) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// isNilErr returns true for nil and for a typed nil pointer.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Wrap extends given error with a description. A stack trace is attached on
// the innermost wrap. Wrap returns nil if err is nil.
//
// An error that does not wrap a registered root error is internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = withStack(err)
	}
	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and assigns it as an ErrPanic instance to given
// error. It must be deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps an error with the name of the type of given value.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

type causer interface {
	Cause() error
}

type unpacker interface {
	Unpack() []error
}
