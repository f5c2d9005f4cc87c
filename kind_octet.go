package grib

import "fmt"

// octet-number occupies no bytes. Its value is its own 1-based octet position, its offset
// plus the delta parameter, and reading it stores that value into the target field so
// the message records where the following data starts.
var octetNumberBehavior = Behavior{
	Computed: true,
	Init:     zeroLength,
	UnpackInteger: func(a Accessor) ([]int64, error) {
		delta, err := a.ArgIntOr(1, 0)
		if err != nil {
			return nil, err
		}
		v := a.Offset() + delta
		target, err := octetTarget(a)
		if err != nil {
			return nil, err
		}
		if err := storeDerived(target, v); err != nil {
			return nil, err
		}
		return []int64{v}, nil
	},
	PackInteger: func(Accessor, []int64) error { return nil },
	Rederive: func(a Accessor) error {
		_, err := a.UnpackInteger()
		return err
	},
	Rebuild: func(Accessor) error { return nil },
}

// octetTarget finds the field an octet-number writes to: a bound reference, or the first
// live field with the given name.
func octetTarget(a Accessor) (Accessor, error) {
	if a.ArgIsRef(0) {
		return a.ArgRef(0)
	}
	name, err := a.ArgText(0)
	if err != nil {
		return Accessor{}, err
	}
	if ids := a.m.byName(name); len(ids) > 0 {
		return Accessor{a.m, ids[0]}, nil
	}
	return Accessor{}, fmt.Errorf("%w: %q targeted by %q", ErrUnresolvedReference, name, a.Name())
}
