package grib

import (
	"maps"
	"slices"
)

// snapshot is everything a write can change: buffer bytes, arena, dependency edges.
type snapshot struct {
	data  *[]byte
	nodes []node
	deps  map[NodeID][]NodeID
	root  NodeID

	dirty, relocated bool
}

func (m *Message) snapshot() *snapshot {
	return &snapshot{
		data:  getSnapshotBuf(m.buf.Bytes()),
		nodes: slices.Clone(m.nodes),
		deps:  maps.Clone(m.deps),
		root:  m.root,

		dirty:     m.dirty,
		relocated: m.relocated,
	}
}

// restore puts the message back exactly as it was when s was taken.
func (m *Message) restore(s *snapshot) {
	m.buf.reset(*s.data)
	m.nodes = s.nodes
	m.deps = s.deps
	m.root = s.root
	m.index = nil
	m.dirty = s.dirty
	m.relocated = s.relocated
	m.growing = 0
}

func (s *snapshot) release() {
	putSnapshotBuf(s.data)
	s.data = nil
}

// update runs fn against the accessors key resolves to, as one transaction: stale
// subtrees are rebuilt and dependent values re-derived before it commits, and any error
// along the way restores the message byte for byte.
//
// The snapshot is taken before the key is resolved, because resolving finishes rebuilds
// left pending by writes made directly through an Accessor.
func (m *Message) update(key string, fn func(ids []NodeID) error) error {
	if m.closed {
		return ErrClosed
	}
	snap := m.snapshot()
	defer snap.release()

	ids, err := m.resolve(key)
	if err == nil {
		err = fn(ids)
	}
	if err == nil {
		err = m.rederive()
	}
	if err == nil {
		err = m.refresh()
	}
	if err != nil {
		m.restore(snap)
		m.log.Debug().Str("key", key).Err(err).Msg("write rolled back")
		return err
	}
	return nil
}
