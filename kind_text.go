package grib

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ascii is fixed-width text, zero padded on the right.
var asciiBehavior = Behavior{
	Type: TypeText,
	Init: widthInit(0, 1<<20),
	UnpackText: func(a Accessor) (string, error) {
		return string(bytes.TrimRight(a.Raw(), "\x00")), nil
	},
	PackText: func(a Accessor, s string) error {
		raw := a.Raw()
		if len(s) > len(raw) {
			return fmt.Errorf("%w: %q holds %d characters, got %d", ErrValueOutOfRange, a.Name(), len(raw), len(s))
		}
		clear(raw[copy(raw, s):])
		return nil
	},
	UnpackInteger: func(a Accessor) ([]int64, error) {
		s, err := a.UnpackText()
		if err != nil {
			return nil, err
		}
		return parseInts(a.Name(), s)
	},
	PackInteger: func(a Accessor, v []int64) error {
		return a.PackText(formatInts(v))
	},
	UnpackFloat: func(a Accessor) ([]float64, error) {
		s, err := a.UnpackText()
		if err != nil {
			return nil, err
		}
		return parseFloats(a.Name(), s)
	},
	PackFloat: func(a Accessor, v []float64) error {
		return a.PackText(formatFloats(v))
	},
}

// bytes is a fixed run of raw bytes. Its text form is hexadecimal.
var bytesBehavior = Behavior{
	Type: TypeBytes,
	Init: widthInit(0, 1<<30),
	UnpackText: func(a Accessor) (string, error) {
		p, err := a.UnpackBytes()
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(p), nil
	},
	PackText: func(a Accessor, s string) error {
		p, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("%w: %s for %q", ErrTypeCoercion, strconv.Quote(s), a.Name())
		}
		return a.PackBytes(p)
	},
}
