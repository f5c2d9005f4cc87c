package grib

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their binary size.
type Sizer interface {
	// Size returns the size of the type in bytes when binary encoded.
	Size() int
}

// Marshaler defines the methods for encoding a message into a byte stream.
type Marshaler interface {
	encoding.BinaryMarshaler // Method: MarshalBinary() ([]byte, error)
	io.WriterTo              // Method: WriteTo(writer io.Writer) (int64, error)

	// MarshalTo encodes into a pre-allocated buffer, returning io.ErrShortWrite if the
	// buffer is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler defines the methods for decoding a byte stream into a message.
type Unmarshaler interface {
	encoding.BinaryUnmarshaler // Method: UnmarshalBinary(data []byte) error
	io.ReaderFrom              // Method: ReadFrom(r io.Reader) (int64, error)
}

// Codec aggregates all binary serialization and deserialization interfaces.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}

var _ Codec = (*Message)(nil)

// UnmarshalBinary replaces the content of m with data, decoded against the same
// definition, registry, capacity and logger. On error m is left as it was.
func (m *Message) UnmarshalBinary(data []byte) error {
	if m.closed {
		return ErrClosed
	}
	fresh, err := Open(m.fields, data, WithRegistry(m.reg), WithCapacity(m.buf.Limit()), WithLogger(m.log))
	if err != nil {
		return err
	}
	*m = *fresh
	m.nodes[m.root].spec = &m.top
	return nil
}

// ReadFrom implements io.ReaderFrom by reading r to the end and decoding it.
func (m *Message) ReadFrom(r io.Reader) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	return ReadFromGeneric(m, r)
}
