package grib

import (
	"bytes"
	"fmt"
	"math"
)

// widthInit returns an Init that takes the encoded width in bytes from parameter 0 and
// rejects widths outside [lo, hi].
func widthInit(lo, hi int64) func(Accessor) error {
	return func(a Accessor) error {
		n, err := a.ArgInt(0)
		if err != nil {
			return err
		}
		if n < lo || n > hi {
			return fmt.Errorf("%w: %s %q has width %d, want %d..%d", ErrInvalidDefinition, a.Kind(), a.Name(), n, lo, hi)
		}
		a.SetLength(n)
		return nil
	}
}

func zeroLength(a Accessor) error {
	a.SetLength(0)
	return nil
}

func expectOne(a Accessor, n int) error {
	if n != 1 {
		return fmt.Errorf("%w: %q holds one value, got %d", ErrArraySizeMismatch, a.Name(), n)
	}
	return nil
}

func readUint(a Accessor) uint64 {
	raw := a.Raw()
	v, _ := NewBytesReader(raw).ReadUint(len(raw))
	return v
}

func writeUint(a Accessor, v uint64) error {
	raw := a.Raw()
	return NewBytesWriter(raw).WriteUint(v, len(raw))
}

var unsignedBehavior = Behavior{
	Init: widthInit(1, 8),
	UnpackInteger: func(a Accessor) ([]int64, error) {
		return []int64{int64(readUint(a))}, nil
	},
	PackInteger: func(a Accessor, v []int64) error {
		if err := expectOne(a, len(v)); err != nil {
			return err
		}
		if v[0] < 0 || uint64(v[0]) > maxUnsigned(int(a.Length())*8) {
			return fmt.Errorf("%w: %d does not fit %d unsigned bytes of %q", ErrValueOutOfRange, v[0], a.Length(), a.Name())
		}
		return writeUint(a, uint64(v[0]))
	},
	IsMissing: func(a Accessor) (bool, error) {
		if !a.Flags().Has(FlagCanBeMissing) {
			return false, nil
		}
		return len(a.Raw()) > 0 && len(bytes.Trim(a.Raw(), "\xff")) == 0, nil
	},
	PackMissing: func(a Accessor) error {
		if !a.Flags().Has(FlagCanBeMissing) {
			return fmt.Errorf("%w: %q cannot be missing", ErrValueOutOfRange, a.Name())
		}
		raw := a.Raw()
		for i := range raw {
			raw[i] = 0xff
		}
		return nil
	},
}

// signed stores sign and magnitude: the top bit is the sign, the rest the absolute value.
var signedBehavior = Behavior{
	Init: widthInit(1, 8),
	UnpackInteger: func(a Accessor) ([]int64, error) {
		nbits := int(a.Length()) * 8
		u := readUint(a)
		sign := uint64(1) << (nbits - 1)
		mag := int64(u &^ sign)
		if u&sign != 0 {
			mag = -mag
		}
		return []int64{mag}, nil
	},
	PackInteger: func(a Accessor, v []int64) error {
		if err := expectOne(a, len(v)); err != nil {
			return err
		}
		nbits := int(a.Length()) * 8
		x, neg := v[0], v[0] < 0
		if neg {
			x = -x
		}
		if x < 0 || uint64(x) > maxUnsigned(nbits-1) {
			return fmt.Errorf("%w: %d does not fit %d signed bytes of %q", ErrValueOutOfRange, v[0], a.Length(), a.Name())
		}
		u := uint64(x)
		if neg {
			u |= 1 << (nbits - 1)
		}
		return writeUint(a, u)
	},
}

var ieeeFloatBehavior = Behavior{
	Init: func(a Accessor) error {
		if err := widthInit(4, 8)(a); err != nil {
			return err
		}
		if n := a.Length(); n != 4 && n != 8 {
			return fmt.Errorf("%w: ieeefloat %q has width %d, want 4 or 8", ErrInvalidDefinition, a.Name(), n)
		}
		return nil
	},
	UnpackFloat: func(a Accessor) ([]float64, error) {
		raw := a.Raw()
		if len(raw) == 4 {
			return []float64{float64(math.Float32frombits(Order.Uint32(raw)))}, nil
		}
		return []float64{math.Float64frombits(Order.Uint64(raw))}, nil
	},
	PackFloat: func(a Accessor, v []float64) error {
		if err := expectOne(a, len(v)); err != nil {
			return err
		}
		raw := a.Raw()
		if len(raw) == 8 {
			Order.PutUint64(raw, math.Float64bits(v[0]))
			return nil
		}
		if !math.IsInf(v[0], 0) && !math.IsNaN(v[0]) && math.Abs(v[0]) > math.MaxFloat32 {
			return fmt.Errorf("%w: %v overflows float32 %q", ErrValueOutOfRange, v[0], a.Name())
		}
		Order.PutUint32(raw, math.Float32bits(float32(v[0])))
		return nil
	},
}

// constant occupies no bytes and always reads as its literal parameter.
var constantBehavior = Behavior{
	Computed: true,
	Init:     zeroLength,
	UnpackInteger: func(a Accessor) ([]int64, error) {
		v, err := a.ArgInt(0)
		if err != nil {
			return nil, err
		}
		return []int64{v}, nil
	},
	PackInteger: func(a Accessor, v []int64) error {
		want, err := a.ArgInt(0)
		if err != nil {
			return err
		}
		if len(v) == 1 && v[0] == want {
			return nil
		}
		return fmt.Errorf("%w: %q is the constant %d", ErrReadOnly, a.Name(), want)
	},
}

// bit is a view of one bit of an integer field, counted from the most significant bit.
var bitBehavior = Behavior{
	Init: zeroLength,
	UnpackInteger: func(a Accessor) ([]int64, error) {
		owner, shift, err := bitTarget(a)
		if err != nil {
			return nil, err
		}
		v, err := owner.UnpackInteger()
		if err != nil {
			return nil, err
		}
		if err := expectOne(owner, len(v)); err != nil {
			return nil, err
		}
		return []int64{v[0] >> shift & 1}, nil
	},
	PackInteger: func(a Accessor, v []int64) error {
		if err := expectOne(a, len(v)); err != nil {
			return err
		}
		if v[0] != 0 && v[0] != 1 {
			return fmt.Errorf("%w: bit %q takes 0 or 1, got %d", ErrValueOutOfRange, a.Name(), v[0])
		}
		owner, shift, err := bitTarget(a)
		if err != nil {
			return err
		}
		cur, err := owner.UnpackInteger()
		if err != nil {
			return err
		}
		if err := expectOne(owner, len(cur)); err != nil {
			return err
		}
		next := cur[0]&^(1<<shift) | v[0]<<shift
		if next == cur[0] {
			return nil
		}
		return owner.PackInteger([]int64{next})
	},
}

func bitTarget(a Accessor) (Accessor, uint, error) {
	owner, err := a.ArgRef(0)
	if err != nil {
		return Accessor{}, 0, err
	}
	idx, err := a.ArgInt(1)
	if err != nil {
		return Accessor{}, 0, err
	}
	nbits := owner.LengthInBits()
	if idx < 0 || idx >= nbits || idx >= 64 {
		return Accessor{}, 0, fmt.Errorf("%w: bit %d of %d-bit %q", ErrValueOutOfRange, idx, nbits, owner.Name())
	}
	return owner, uint(nbits - 1 - idx), nil
}

// maxScaleFactor bounds the decimal scale factor searched when packing a scaled value.
const maxScaleFactor = 9

// scaled-value reads value * 10^-factor from two integer fields.
var scaledValueBehavior = Behavior{
	Init: zeroLength,
	UnpackFloat: func(a Accessor) ([]float64, error) {
		factor, err := a.ArgInt(0)
		if err != nil {
			return nil, err
		}
		value, err := a.ArgInt(1)
		if err != nil {
			return nil, err
		}
		return []float64{float64(value) / math.Pow10(int(factor))}, nil
	},
	PackFloat: func(a Accessor, v []float64) error {
		if err := expectOne(a, len(v)); err != nil {
			return err
		}
		x := v[0]
		for f := 0; f <= maxScaleFactor; f++ {
			scaled := math.Round(x * math.Pow10(f))
			if math.Abs(scaled) >= math.MaxInt64 || scaled/math.Pow10(f) != x {
				continue
			}
			factor, err := a.ArgRef(0)
			if err != nil {
				return err
			}
			value, err := a.ArgRef(1)
			if err != nil {
				return err
			}
			if err := factor.PackInteger([]int64{int64(f)}); err != nil {
				return err
			}
			return value.PackInteger([]int64{int64(scaled)})
		}
		return fmt.Errorf("%w: %v needs more than %d decimals for %q", ErrTypeCoercion, x, maxScaleFactor, a.Name())
	},
}
