package grib

import (
	"fmt"
	"slices"
)

// Buffer is the mutable byte sequence owned by a message. Accessors hold offsets into it,
// never the slice itself, so growing or shrinking the buffer never leaves a dangling view.
type Buffer struct {
	data  []byte
	limit int // maximum length in bytes; 0 means unbounded
}

// NewBuffer copies data into a new buffer. A positive limit caps the length the buffer may
// grow to.
func NewBuffer(data []byte, limit int) *Buffer {
	return &Buffer{data: slices.Clone(data), limit: limit}
}

// Len returns the current length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Limit returns the capacity limit, 0 when unbounded.
func (b *Buffer) Limit() int { return b.limit }

// Bytes returns the live contents. The slice is invalidated by Insert and Remove.
func (b *Buffer) Bytes() []byte { return b.data }

// Slice returns the live region [off, off+n).
func (b *Buffer) Slice(off, n int64) []byte {
	return b.data[off : off+n : off+n]
}

// Insert opens n zero bytes at offset at, shifting the tail right.
func (b *Buffer) Insert(at int64, n int) error {
	if n <= 0 {
		return nil
	}
	if at < 0 || at > int64(len(b.data)) {
		return fmt.Errorf("%w: insert at %d beyond length %d", ErrTruncatedData, at, len(b.data))
	}
	if b.limit > 0 && len(b.data)+n > b.limit {
		return fmt.Errorf("%w: need %d bytes, limit is %d", ErrBufferCapacityExceeded, len(b.data)+n, b.limit)
	}
	old := len(b.data)
	b.data = slices.Grow(b.data, n)[:old+n]
	copy(b.data[at+int64(n):], b.data[at:old])
	clear(b.data[at : at+int64(n)])
	return nil
}

// Remove deletes n bytes starting at offset at, shifting the tail left.
func (b *Buffer) Remove(at int64, n int) error {
	if n <= 0 {
		return nil
	}
	if at < 0 || at+int64(n) > int64(len(b.data)) {
		return fmt.Errorf("%w: remove [%d,%d) beyond length %d", ErrTruncatedData, at, at+int64(n), len(b.data))
	}
	b.data = slices.Delete(b.data, int(at), int(at)+n)
	return nil
}

// reset replaces the contents with a copy of data, keeping the allocation when possible.
func (b *Buffer) reset(data []byte) {
	b.data = append(b.data[:0], data...)
}
