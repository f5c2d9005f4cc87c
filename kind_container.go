package grib

import "fmt"

// section holds its children back to back; its length is theirs summed.
var sectionBehavior = Behavior{
	Type: TypeSection,
	Init: func(a Accessor) error {
		end, err := a.m.instantiate(a.id, a.Spec().Children, a.Offset())
		if err != nil {
			return err
		}
		a.SetLength(end - a.Offset())
		return nil
	},
	PackBytes: func(a Accessor, _ []byte) error {
		return a.unsupported("pack_bytes")
	},
	Rebuild: func(Accessor) error { return nil },
}

// repeat instantiates its children once per count as unnamed iteration sections. When the
// count changes, trailing iterations are removed or zero-filled ones appended.
var repeatBehavior = Behavior{
	Init: func(a Accessor) error {
		count, err := repeatCount(a)
		if err != nil {
			return err
		}
		iter := &FieldSpec{Kind: KindSection, Children: a.Spec().Children}
		a.SetState(iter)
		off := a.Offset()
		for range count {
			id, err := a.m.instantiateOne(a.id, iter, off)
			if err != nil {
				return err
			}
			off = a.m.nodes[id].offset + a.m.nodes[id].length
		}
		a.SetLength(off - a.Offset())
		return nil
	},
	ValueCount: func(a Accessor) (int, error) {
		return len(a.m.children(a.id)), nil
	},
	Rebuild: func(a Accessor) error {
		want, err := repeatCount(a)
		if err != nil {
			return err
		}
		kids := a.m.children(a.id)
		have := int64(len(kids))
		if want < have {
			for i := have - 1; i >= want; i-- {
				if err := a.m.splice(kids[i], 0); err != nil {
					return err
				}
				a.m.release(kids[i])
			}
			return nil
		}
		iter := a.State().(*FieldSpec)
		a.m.growing++
		defer func() { a.m.growing-- }()
		for ; have < want; have++ {
			if _, err := a.m.instantiateOne(a.id, iter, a.End()); err != nil {
				return err
			}
		}
		return nil
	},
}

func repeatCount(a Accessor) (int64, error) {
	n, err := a.ArgInt(0)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: repeat %q has count %d", ErrValueOutOfRange, a.Name(), n)
	}
	return n, nil
}

// storeDerived writes v into a only when it differs, so rederiving an unchanged value
// leaves dependents alone.
func storeDerived(a Accessor, v int64) error {
	cur, err := a.UnpackInteger()
	if err == nil && len(cur) == 1 && cur[0] == v {
		return nil
	}
	return a.PackInteger([]int64{v})
}

// section-length mirrors the length of the section that encloses it.
var sectionLengthBehavior = Behavior{
	Computed: true,
	Rederive: func(a Accessor) error {
		p, ok := a.Parent()
		if !ok {
			return nil
		}
		return storeDerived(a, p.Length())
	},
}

// total-length mirrors the length of the whole message.
var totalLengthBehavior = Behavior{
	Computed: true,
	Rederive: func(a Accessor) error {
		return storeDerived(a, int64(a.m.buf.Len()))
	},
}
