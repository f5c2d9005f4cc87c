package grib

import "io"

// BytesReader reads big-endian values from a fixed region of a message buffer.
type BytesReader struct {
	B []byte // source region
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// ReadUint reads an unsigned integer stored in nbytes bytes.
func (r *BytesReader) ReadUint(nbytes int) (uint64, error) {
	if r.Available() < nbytes {
		return 0, io.ErrUnexpectedEOF
	}
	var v uint64
	for _, b := range r.B[r.N : r.N+nbytes] {
		v = v<<8 | uint64(b)
	}
	r.N += nbytes
	return v, nil
}

// WriteTo implements the [io.WriterTo] interface for efficiency.
func (r *BytesReader) WriteTo(w io.Writer) (int64, error) {
	if r.N >= len(r.B) {
		return 0, nil
	}
	n, err := w.Write(r.B[r.N:])
	r.N += n
	return int64(n), err
}

// Reset allows the underlying byte slice to be reused.
func (r *BytesReader) Reset() { r.N = 0 }

// Len returns the number of bytes read.
func (r *BytesReader) Len() int { return r.N }

// Size returns the size of the underlying byte slice.
func (r *BytesReader) Size() int { return len(r.B) }

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	length := len(r.B) - r.N
	if length <= 0 {
		return 0
	}
	return length
}
