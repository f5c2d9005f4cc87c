package grib

import "fmt"

// instantiate builds one accessor per spec as children of parent, laid out from offset,
// and returns the offset just past the last one.
//
// Outside of growth, the bytes already exist and every field must fit inside the buffer.
// While m.growing is set the fields are new: each leaf opens its own zero-filled bytes at
// its offset as it is built.
func (m *Message) instantiate(parent NodeID, specs []FieldSpec, offset int64) (int64, error) {
	for i := range specs {
		id, err := m.instantiateOne(parent, &specs[i], offset)
		if err != nil {
			return offset, err
		}
		offset = m.nodes[id].offset + m.nodes[id].length
	}
	return offset, nil
}

func (m *Message) instantiateOne(parent NodeID, spec *FieldSpec, offset int64) (NodeID, error) {
	b, err := m.reg.Resolve(spec.Kind)
	if err != nil {
		return NoNode, fmt.Errorf("field %q: %w", spec.Name, err)
	}
	id := m.alloc(spec, b, parent)
	m.nodes[id].offset = offset

	args := make([]arg, len(spec.Params))
	for i, p := range spec.Params {
		args[i] = arg{Param: p, node: NoNode}
		if p.Kind != ParamRef {
			continue
		}
		ref := m.lastBefore(id, p.Text)
		if ref == NoNode {
			return id, fmt.Errorf("%w: %q referenced by %q", ErrUnresolvedReference, p.Text, spec.Name)
		}
		args[i].node = ref
		m.depend(ref, id)
	}
	m.nodes[id].args = args

	a := Accessor{m, id}
	if b.Init != nil {
		if err := b.Init(a); err != nil {
			return id, fmt.Errorf("init %s %q: %w", spec.Kind, spec.Name, err)
		}
	}

	if b.Type == TypeSection {
		return id, nil
	}
	if m.growing > 0 {
		want := m.nodes[id].length
		m.nodes[id].length = 0
		if err := m.splice(id, want); err != nil {
			return id, err
		}
		return id, nil
	}
	if end := a.End(); end > int64(m.buf.Len()) {
		return id, fmt.Errorf("%w: %q ends at byte %d, message has %d", ErrTruncatedData, spec.Name, end, m.buf.Len())
	}
	return id, nil
}
