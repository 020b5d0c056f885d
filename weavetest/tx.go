package weavetest

import "github.com/iov-one/timelock"

// Tx is a transaction carrying a single message. It cannot be serialized.
type Tx struct {
	Msg timelock.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ timelock.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (timelock.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a message routed by its path that carries raw bytes.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err if set is returned by Validate and by the serialization methods.
	Err error
}

var _ timelock.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
