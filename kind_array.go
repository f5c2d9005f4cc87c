package grib

import "fmt"

// packCount stores n into the count parameter of an array kind: the referenced field when
// the count is a reference, otherwise n must equal the literal.
func packCount(a Accessor, n int) error {
	if !a.ArgIsRef(0) {
		want, err := a.ArgInt(0)
		if err != nil {
			return err
		}
		if want != int64(n) {
			return fmt.Errorf("%w: %q has a fixed count of %d, got %d values", ErrArraySizeMismatch, a.Name(), want, n)
		}
		return nil
	}
	ref, err := a.ArgRef(0)
	if err != nil {
		return err
	}
	return ref.PackInteger([]int64{int64(n)})
}

func checkCount(a Accessor, n int) error {
	if !a.ArgIsRef(0) {
		return packCount(a, n)
	}
	return nil
}

// unsigned-array holds count values of nbytes each, count taken from parameter 0. An
// optional third parameter caps the count a write may grow the array to.
var unsignedArrayBehavior = Behavior{
	Init: func(a Accessor) error {
		count, err := a.ArgInt(0)
		if err != nil {
			return err
		}
		width, err := a.ArgInt(1)
		if err != nil {
			return err
		}
		if width < 1 || width > 8 {
			return fmt.Errorf("%w: unsigned-array %q has width %d, want 1..8", ErrInvalidDefinition, a.Name(), width)
		}
		if count < 0 {
			return fmt.Errorf("%w: unsigned-array %q has count %d", ErrValueOutOfRange, a.Name(), count)
		}
		a.SetState(int(width))
		a.SetLength(count * width)
		return nil
	},
	UnpackInteger: func(a Accessor) ([]int64, error) {
		width := a.State().(int)
		r := NewBytesReader(a.Raw())
		out := make([]int64, 0, r.Size()/width)
		for r.Available() >= width {
			v, err := r.ReadUint(width)
			if err != nil {
				return nil, err
			}
			out = append(out, int64(v))
		}
		return out, nil
	},
	PackInteger: func(a Accessor, v []int64) error {
		width := a.State().(int)
		maxCount, err := a.ArgIntOr(2, -1)
		if err != nil {
			return err
		}
		if maxCount >= 0 && int64(len(v)) > maxCount {
			return fmt.Errorf("%w: %q holds at most %d values, got %d", ErrBufferCapacityExceeded, a.Name(), maxCount, len(v))
		}
		limit := maxUnsigned(width * 8)
		for _, x := range v {
			if x < 0 || uint64(x) > limit {
				return fmt.Errorf("%w: %d does not fit %d unsigned bytes of %q", ErrValueOutOfRange, x, width, a.Name())
			}
		}
		if err := checkCount(a, len(v)); err != nil {
			return err
		}
		if err := a.Resize(int64(len(v) * width)); err != nil {
			return err
		}
		w := NewBytesWriter(a.Raw())
		for _, x := range v {
			if err := w.WriteUint(uint64(x), width); err != nil {
				return err
			}
		}
		return packCount(a, len(v))
	},
	ValueCount: func(a Accessor) (int, error) {
		return int(a.Length()) / a.State().(int), nil
	},
}

type bitsState struct {
	count int
	width int
}

// bits packs count unsigned values of bitsPerValue bits each, MSB first, padded to a
// whole byte.
var bitsBehavior = Behavior{
	Init: func(a Accessor) error {
		count, err := a.ArgInt(0)
		if err != nil {
			return err
		}
		width, err := a.ArgInt(1)
		if err != nil {
			return err
		}
		if width < 1 || width > 64 {
			return fmt.Errorf("%w: bits %q has %d bits per value, want 1..64", ErrInvalidDefinition, a.Name(), width)
		}
		if count < 0 {
			return fmt.Errorf("%w: bits %q has count %d", ErrValueOutOfRange, a.Name(), count)
		}
		a.SetState(bitsState{count: int(count), width: int(width)})
		a.SetLength(BitsToBytes(count * width))
		return nil
	},
	UnpackInteger: func(a Accessor) ([]int64, error) {
		st := a.State().(bitsState)
		raw := a.Raw()
		out := make([]int64, st.count)
		for i := range out {
			out[i] = int64(getBits(raw, i*st.width, st.width))
		}
		return out, nil
	},
	PackInteger: func(a Accessor, v []int64) error {
		st := a.State().(bitsState)
		limit := maxUnsigned(st.width)
		for _, x := range v {
			if x < 0 || uint64(x) > limit {
				return fmt.Errorf("%w: %d does not fit %d bits of %q", ErrValueOutOfRange, x, st.width, a.Name())
			}
		}
		if err := checkCount(a, len(v)); err != nil {
			return err
		}
		if err := a.Resize(BitsToBytes(int64(len(v) * st.width))); err != nil {
			return err
		}
		raw := a.Raw()
		clear(raw)
		for i, x := range v {
			putBits(raw, i*st.width, st.width, uint64(x))
		}
		a.SetState(bitsState{count: len(v), width: st.width})
		return packCount(a, len(v))
	},
	ValueCount: func(a Accessor) (int, error) {
		return a.State().(bitsState).count, nil
	},
	LengthInBits: func(a Accessor) int64 {
		st := a.State().(bitsState)
		return int64(st.count * st.width)
	},
}
