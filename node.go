package grib

import "slices"

// NodeID indexes an accessor node in its message's arena.
type NodeID int32

// NoNode is the nil link.
const NoNode NodeID = -1

// arg is a parameter after binding: references carry the node they resolved to.
type arg struct {
	Param
	node NodeID
}

// node is one arena slot. Links are arena indices, so the tree has no pointer cycles and
// copying the arena copies the tree.
type node struct {
	spec     *FieldSpec
	behavior *Behavior

	parent, first, last, next, prev NodeID

	offset int64 // bytes from the start of the message
	length int64 // encoded length in bytes

	args  []arg
	state any // captured by Init

	live  bool
	stale bool
}

func (n *node) name() string { return n.spec.Name }

func (n *node) isContainer() bool { return n.behavior.Type == TypeSection }

// alloc appends a new node as the last child of parent.
func (m *Message) alloc(spec *FieldSpec, b *Behavior, parent NodeID) NodeID {
	id := NodeID(len(m.nodes))
	m.nodes = append(m.nodes, node{
		spec:     spec,
		behavior: b,
		parent:   parent,
		first:    NoNode,
		last:     NoNode,
		next:     NoNode,
		prev:     NoNode,
		live:     true,
	})
	if parent != NoNode {
		p := &m.nodes[parent]
		if p.last == NoNode {
			p.first = id
		} else {
			m.nodes[p.last].next = id
			m.nodes[id].prev = p.last
		}
		p.last = id
	}
	m.index = nil
	return id
}

// release unlinks id from its parent and retires its whole subtree. Slots are not reused:
// dependency edges may still name retired nodes and are filtered on the live flag.
func (m *Message) release(id NodeID) {
	n := &m.nodes[id]
	if n.prev != NoNode {
		m.nodes[n.prev].next = n.next
	} else if n.parent != NoNode {
		m.nodes[n.parent].first = n.next
	}
	if n.next != NoNode {
		m.nodes[n.next].prev = n.prev
	} else if n.parent != NoNode {
		m.nodes[n.parent].last = n.prev
	}
	var retired []NodeID
	var retire func(NodeID)
	retire = func(id NodeID) {
		for c := m.nodes[id].first; c != NoNode; c = m.nodes[c].next {
			retire(c)
		}
		m.nodes[id].live = false
		retired = append(retired, id)
	}
	retire(id)
	// Fields outside the subtree that were bound to a retired node must bind again.
	for _, r := range retired {
		m.touch(r)
		delete(m.deps, r)
	}
	m.index = nil
}

// nextInOrder returns the node after id in depth-first pre-order.
func (m *Message) nextInOrder(id NodeID) NodeID {
	if f := m.nodes[id].first; f != NoNode {
		return f
	}
	return m.skipSubtree(id)
}

// skipSubtree returns the first node after id's subtree in pre-order.
func (m *Message) skipSubtree(id NodeID) NodeID {
	for n := id; n != NoNode; n = m.nodes[n].parent {
		if next := m.nodes[n].next; next != NoNode {
			return next
		}
	}
	return NoNode
}

// children returns the direct children of id in order.
func (m *Message) children(id NodeID) []NodeID {
	var out []NodeID
	for c := m.nodes[id].first; c != NoNode; c = m.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// lastBefore returns the most recently built node called name that precedes id in
// pre-order, which is how parameter references bind.
func (m *Message) lastBefore(id NodeID, name string) NodeID {
	found := NoNode
	for n := m.root; n != NoNode && n != id; n = m.nextInOrder(n) {
		if m.nodes[n].name() == name {
			found = n
		}
	}
	return found
}

// rebind points references whose target has been retired at the node the name now
// resolves to, and records the new dependency edge. The args slice is shared with
// snapshots, so it is replaced rather than written in place.
func (m *Message) rebind(id NodeID) {
	args := m.nodes[id].args
	var out []arg
	for i, a := range args {
		if a.Kind != ParamRef || (a.node != NoNode && m.nodes[a.node].live) {
			continue
		}
		ref := m.lastBefore(id, a.Text)
		if ref == NoNode {
			continue
		}
		if out == nil {
			out = slices.Clone(args)
		}
		out[i].node = ref
		m.depend(ref, id)
	}
	if out != nil {
		m.nodes[id].args = out
	}
}

// depend records that dependent must be rebuilt when ref is written.
func (m *Message) depend(ref, dependent NodeID) {
	m.deps[ref] = append(m.deps[ref], dependent)
}

// touch marks every live dependent of id stale after a write to id.
func (m *Message) touch(id NodeID) {
	for _, d := range m.deps[id] {
		if d != id && m.nodes[d].live {
			m.nodes[d].stale = true
			m.dirty = true
		}
	}
}
