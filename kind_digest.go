package grib

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// digest is a read-only BLAKE3-256 checksum over the bytes from the start of one field to
// the end of another. It occupies no bytes itself.
var digestBehavior = Behavior{
	Type:     TypeText,
	Computed: true,
	Init:     zeroLength,
	UnpackBytes: func(a Accessor) ([]byte, error) {
		sum, err := digestSum(a)
		if err != nil {
			return nil, err
		}
		return sum[:], nil
	},
	UnpackText: func(a Accessor) (string, error) {
		sum, err := digestSum(a)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(sum[:]), nil
	},
	PackText: func(a Accessor, _ string) error {
		return fmt.Errorf("%w: %q is a digest", ErrReadOnly, a.Name())
	},
	PackBytes: func(a Accessor, _ []byte) error {
		return fmt.Errorf("%w: %q is a digest", ErrReadOnly, a.Name())
	},
}

func digestSum(a Accessor) ([32]byte, error) {
	from, err := a.ArgRef(0)
	if err != nil {
		return [32]byte{}, err
	}
	to, err := a.ArgRef(1)
	if err != nil {
		return [32]byte{}, err
	}
	start, end := from.Offset(), to.End()
	if end < start {
		return [32]byte{}, fmt.Errorf("%w: digest %q spans %d..%d", ErrValueOutOfRange, a.Name(), start, end)
	}
	return blake3.Sum256(a.m.buf.Slice(start, end-start)), nil
}
