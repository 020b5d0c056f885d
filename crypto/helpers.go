package crypto

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() timelock.Condition
}

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is the serialized form of a public key. Only ed25519 is
// supported.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// PrivateKey is the serialized form of a private key.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

// Signature is the serialized form of a signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519,omitempty"`
}

func (m *PublicKey) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, m.Ed25519)
	return e.Result()
}

func (m *PublicKey) Unmarshal(raw []byte) error {
	*m = PublicKey{}
	return unmarshalEd25519(raw, &m.Ed25519)
}

func (m *PublicKey) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

func (m *PrivateKey) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, m.Ed25519)
	return e.Result()
}

func (m *PrivateKey) Unmarshal(raw []byte) error {
	*m = PrivateKey{}
	return unmarshalEd25519(raw, &m.Ed25519)
}

func (m *PrivateKey) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

func (m *Signature) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Bytes(1, m.Ed25519)
	return e.Result()
}

func (m *Signature) Unmarshal(raw []byte) error {
	*m = Signature{}
	return unmarshalEd25519(raw, &m.Ed25519)
}

func (m *Signature) GetEd25519() []byte {
	if m == nil {
		return nil
	}
	return m.Ed25519
}

// All three key types share the same layout.
func unmarshalEd25519(raw []byte, dest *[]byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			*dest = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
