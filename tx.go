package timelock

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
)

// Msg is a request to make a state transition. All authentication
// information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Path is used by the router to locate the Handler for this message.
	// It must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity check that does not depend on the state.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is the data sent from a client to the chain. It includes the message
// along with all information required to authenticate the sender.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message of a transaction into destination and
// validates it. Destination must be a pointer to the message type.
//
//   var msg CreateMsg
//   if err := timelock.LoadMsg(tx, &msg); err != nil {
//       return err
//   }
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "transaction without a message")
	}

	src := reflect.ValueOf(msg)
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrInvalidType, "want %T, got %T", destination, msg)
	}
	dst.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
