package grib

import (
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"
)

// Order is the byte order of every multi-byte field.
var Order = binary.BigEndian

// Roundup rounds n up to the nearest multiple of align. align must be a power of two.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// BitsToBytes returns the number of whole bytes needed to hold n bits.
func BitsToBytes[T constraints.Integer](n T) T { return Roundup(n, 8) / 8 }

// maxUnsigned returns the largest value an unsigned field of nbits can hold.
func maxUnsigned(nbits int) uint64 {
	if nbits >= 64 {
		return math.MaxUint64
	}
	return 1<<nbits - 1
}

// getBits reads n bits starting at bit position pos (MSB first).
func getBits(p []byte, pos, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		bit := pos + i
		v = v<<1 | uint64(p[bit>>3]>>(7-bit&7)&1)
	}
	return v
}

// putBits writes the low n bits of v starting at bit position pos (MSB first).
func putBits(p []byte, pos, n int, v uint64) {
	for i := 0; i < n; i++ {
		bit := pos + i
		mask := byte(1) << (7 - bit&7)
		if v>>(n-1-i)&1 == 1 {
			p[bit>>3] |= mask
		} else {
			p[bit>>3] &^= mask
		}
	}
}

// isIntegral reports whether f holds an integer value representable as int64.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}
