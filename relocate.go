package grib

import "fmt"

// splice changes the encoded length of id to newLen. Bytes are opened (zero-filled) or
// removed at the current end of the field, every accessor after id's subtree in traversal
// order moves by the difference, and every enclosing section grows or shrinks with it.
//
// splice does not re-derive dependent values; callers finish with rederive once the
// whole change is in place.
func (m *Message) splice(id NodeID, newLen int64) error {
	if newLen < 0 {
		return fmt.Errorf("%w: negative length %d for %q", ErrValueOutOfRange, newLen, m.nodes[id].name())
	}
	delta := newLen - m.nodes[id].length
	if delta == 0 {
		return nil
	}
	end := m.nodes[id].offset + m.nodes[id].length
	var err error
	if delta > 0 {
		err = m.buf.Insert(end, int(delta))
	} else {
		err = m.buf.Remove(end+delta, int(-delta))
	}
	if err != nil {
		return fmt.Errorf("resize %q: %w", m.nodes[id].name(), err)
	}

	m.nodes[id].length = newLen
	for p := m.nodes[id].parent; p != NoNode; p = m.nodes[p].parent {
		m.nodes[p].length += delta
	}
	moved := 0
	for n := m.skipSubtree(id); n != NoNode; n = m.nextInOrder(n) {
		m.nodes[n].offset += delta
		moved++
	}
	m.relocated = true

	m.log.Debug().
		Str("field", m.nodes[id].name()).
		Int64("end", end).
		Int64("delta", delta).
		Int("moved", moved).
		Int("size", m.buf.Len()).
		Msg("relocated")
	return nil
}

// rederive runs every Rederive operation once after a relocation, in traversal order.
func (m *Message) rederive() error {
	if !m.relocated {
		return nil
	}
	m.relocated = false
	for id := m.root; id != NoNode; id = m.nextInOrder(id) {
		b := m.nodes[id].behavior
		if b.Rederive == nil {
			continue
		}
		if err := b.Rederive(Accessor{m, id}); err != nil {
			return fmt.Errorf("rederive %q: %w", m.nodes[id].name(), err)
		}
	}
	return nil
}

// refresh rebuilds every stale accessor. A rebuild may write fields that make other
// accessors stale, so it runs until nothing is left, bounded by the arena size.
func (m *Message) refresh() error {
	for pass := 0; m.dirty; pass++ {
		if pass > len(m.nodes) {
			return ErrRebuildLoop
		}
		m.dirty = false
		for id := m.root; id != NoNode; id = m.nextInOrder(id) {
			if !m.nodes[id].stale {
				continue
			}
			m.nodes[id].stale = false
			m.rebind(id)
			b := m.nodes[id].behavior
			if b.Rebuild == nil {
				continue
			}
			if err := b.Rebuild(Accessor{m, id}); err != nil {
				return fmt.Errorf("rebuild %q: %w", m.nodes[id].name(), err)
			}
			m.log.Debug().Str("field", m.nodes[id].name()).Int("pass", pass).Msg("rebuilt")
		}
		if err := m.rederive(); err != nil {
			return err
		}
	}
	return nil
}

// rebuildLeaf runs Init again and resizes the field to the length it now asks for.
func rebuildLeaf(a Accessor) error {
	old := a.Length()
	if err := a.Behavior().Init(a); err != nil {
		return err
	}
	want := a.Length()
	a.SetLength(old)
	return a.m.splice(a.id, want)
}
