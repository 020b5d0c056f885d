/*
Package codec implements the protobuf wire format used to persist models and
to transmit messages and transactions.

Types declare their fields by number and write them in ascending order:

	func (m *Account) Marshal() ([]byte, error) {
		e := codec.NewEncoder()
		e.Bytes(1, m.Controller)
		e.String(2, m.Asset)
		e.Uint64(3, m.Balance)
		return e.Result()
	}

Zero values are not written, following proto3 rules, so that an empty
message has an empty representation. Decoding skips unknown fields.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/timelock/errors"
)

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Encoder writes fields of a single message.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field int, wire int) {
	if e.err == nil {
		e.err = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
	}
}

// Bytes writes a length delimited field. Empty values are skipped.
func (e *Encoder) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.key(field, proto.WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
}

// RepeatedBytes writes each element as a separate field, including empty
// ones, so that the number of elements is preserved.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) {
	for _, b := range list {
		e.key(field, proto.WireBytes)
		if e.err == nil {
			e.err = e.buf.EncodeRawBytes(b)
		}
	}
}

// String writes a string field. Empty values are skipped.
func (e *Encoder) String(field int, s string) {
	e.Bytes(field, []byte(s))
}

// Uint64 writes a varint field. Zero is skipped.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	e.key(field, proto.WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
}

// Int64 writes a varint field using the two's complement representation of
// a negative value, as protobuf int64 does. Zero is skipped.
func (e *Encoder) Int64(field int, v int64) {
	e.Uint64(field, uint64(v))
}

// Bool writes a varint field. False is skipped.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint64(field, 1)
	}
}

// Message writes an embedded message. A nil message is skipped, but an
// empty one is written so that it can be told apart from a missing one.
func (e *Encoder) Message(field int, m Marshaller) {
	if e.err != nil || isNil(m) {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return
	}
	e.key(field, proto.WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
}

// Result returns the serialized message or the first error that happened.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(e.err, "encode")
	}
	return e.buf.Bytes(), nil
}

// Decoder reads fields of a single message in the order they were written.
//
//	d := codec.NewDecoder(raw)
//	for d.Next() {
//		switch d.Field() {
//		case 1:
//			m.Controller = d.Bytes()
//		default:
//			d.Skip()
//		}
//	}
//	return d.Err()
type Decoder struct {
	raw   []byte
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading given data.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{raw: raw}
}

// Next reads the next field key. It returns false when all data was read or
// an error happened.
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.raw) == 0 {
		return false
	}
	key, ok := d.varint()
	if !ok {
		return false
	}
	d.field = int(key >> 3)
	d.wire = int(key & 7)
	if d.field <= 0 {
		d.fail("illegal field number %d", d.field)
		return false
	}
	return true
}

// Field returns the number of the current field.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first decoding error.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(errors.ErrInvalidInput, "decode field %d: "+format, append([]interface{}{d.field}, args...)...)
	}
}

func (d *Decoder) varint() (uint64, bool) {
	x, n := proto.DecodeVarint(d.raw)
	if n == 0 {
		d.fail("malformed varint")
		return 0, false
	}
	d.raw = d.raw[n:]
	return x, true
}

func (d *Decoder) expect(wire int) bool {
	if d.wire != wire {
		d.fail("wire type %d, expected %d", d.wire, wire)
		return false
	}
	return true
}

// Bytes reads a length delimited field. The result is a copy.
func (d *Decoder) Bytes() []byte {
	if !d.expect(proto.WireBytes) {
		return nil
	}
	size, ok := d.varint()
	if !ok {
		return nil
	}
	if size > uint64(len(d.raw)) {
		d.fail("length %d exceeds data", size)
		return nil
	}
	b := append([]byte{}, d.raw[:size]...)
	d.raw = d.raw[size:]
	return b
}

// String reads a string field.
func (d *Decoder) String() string {
	return string(d.Bytes())
}

// Uint64 reads a varint field.
func (d *Decoder) Uint64() uint64 {
	if !d.expect(proto.WireVarint) {
		return 0
	}
	v, _ := d.varint()
	return v
}

// Int64 reads a varint field written by Int64.
func (d *Decoder) Int64() int64 {
	return int64(d.Uint64())
}

// Bool reads a varint field written by Bool.
func (d *Decoder) Bool() bool {
	return d.Uint64() != 0
}

// Message reads an embedded message into given destination.
func (d *Decoder) Message(dest interface{ Unmarshal([]byte) error }) {
	raw := d.Bytes()
	if d.err != nil {
		return
	}
	if err := dest.Unmarshal(raw); err != nil && d.err == nil {
		d.err = errors.Wrapf(err, "decode field %d", d.field)
	}
}

// Skip ignores the value of the current field.
func (d *Decoder) Skip() {
	switch d.wire {
	case proto.WireVarint:
		d.varint()
	case proto.WireBytes:
		d.Bytes()
	case proto.WireFixed64:
		d.skipFixed(8)
	case proto.WireFixed32:
		d.skipFixed(4)
	default:
		d.fail("unsupported wire type %d", d.wire)
	}
}

func (d *Decoder) skipFixed(n int) {
	if len(d.raw) < n {
		d.fail("truncated fixed value")
		return
	}
	d.raw = d.raw[n:]
}
