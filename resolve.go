package grib

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is a parsed lookup key: a field name, optionally with a 1-based repetition index
// written "#n#name".
type Key struct {
	Name  string
	Index int // 0 selects every match
}

// ParseKey parses "name" or "#n#name".
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if !strings.HasPrefix(s, "#") {
		return Key{Name: s}, nil
	}
	num, name, ok := strings.Cut(s[1:], "#")
	if !ok || name == "" {
		return Key{}, fmt.Errorf("%w: %q, want #n#name", ErrInvalidKey, s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return Key{}, fmt.Errorf("%w: %q has a bad repetition index", ErrInvalidKey, s)
	}
	return Key{Name: name, Index: n}, nil
}

func (k Key) String() string {
	if k.Index == 0 {
		return k.Name
	}
	return "#" + strconv.Itoa(k.Index) + "#" + k.Name
}

// byName returns every live accessor called name, in traversal order. The index is built
// on first use and dropped whenever the tree's shape changes.
func (m *Message) byName(name string) []NodeID {
	if m.index == nil {
		m.index = make(map[string][]NodeID)
		for id := m.root; id != NoNode; id = m.nextInOrder(id) {
			if n := m.nodes[id].name(); n != "" {
				m.index[n] = append(m.index[n], id)
			}
		}
	}
	return m.index[name]
}

// resolve maps a key to its accessors. Stale subtrees are rebuilt first so a lookup never
// sees accessor counts that no longer match the values that drive them.
func (m *Message) resolve(key string) ([]NodeID, error) {
	if m.closed {
		return nil, ErrClosed
	}
	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	if err := m.refresh(); err != nil {
		return nil, err
	}
	ids := m.byName(k.Name)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	if k.Index > 0 {
		if k.Index > len(ids) {
			return nil, fmt.Errorf("%w: %q, only %d occurrences", ErrKeyNotFound, key, len(ids))
		}
		return ids[k.Index-1 : k.Index], nil
	}
	return ids, nil
}

// first resolves key to a single accessor. When several fields share the name, the first
// one in traversal order wins.
func (m *Message) first(key string) (Accessor, error) {
	ids, err := m.resolve(key)
	if err != nil {
		return Accessor{}, err
	}
	return Accessor{m, ids[0]}, nil
}

// Resolve returns every accessor matching key, in traversal order.
func (m *Message) Resolve(key string) ([]Accessor, error) {
	ids, err := m.resolve(key)
	if err != nil {
		return nil, err
	}
	out := make([]Accessor, len(ids))
	for i, id := range ids {
		out[i] = Accessor{m, id}
	}
	return out, nil
}

// Has reports whether key matches at least one accessor.
func (m *Message) Has(key string) bool {
	ids, err := m.resolve(key)
	return err == nil && len(ids) > 0
}
