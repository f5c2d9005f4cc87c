package grib

import (
	"fmt"
	"io"
	"strconv"
)

// KeyFilter selects which fields Keys skips.
type KeyFilter uint8

const (
	// SkipReadOnly skips fields flagged read-only.
	SkipReadOnly KeyFilter = 1 << iota
	// SkipComputed skips fields whose value is derived from the rest of the message.
	SkipComputed
	// SkipDuplicates lists a repeated name once, under its plain name.
	SkipDuplicates
)

// Keys lists the keys of the message in traversal order. Sections and hidden fields are
// never listed. A non-empty namespace keeps only fields in it. Names that occur more than
// once are listed as "#n#name" unless SkipDuplicates is set.
func (m *Message) Keys(namespace string, filter KeyFilter) ([]string, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if err := m.refresh(); err != nil {
		return nil, err
	}
	var keys []string
	seen := make(map[string]int)
	for id := m.root; id != NoNode; id = m.nextInOrder(id) {
		n := &m.nodes[id]
		name := n.name()
		if name == "" || n.isContainer() {
			continue
		}
		seen[name]++
		spec := n.spec
		switch {
		case spec.Flags.Has(FlagHidden):
			continue
		case namespace != "" && spec.Namespace != namespace:
			continue
		case filter&SkipReadOnly != 0 && spec.Flags.Has(FlagReadOnly):
			continue
		case filter&SkipComputed != 0 && n.behavior.Computed:
			continue
		}
		if filter&SkipDuplicates != 0 {
			if seen[name] == 1 {
				keys = append(keys, name)
			}
			continue
		}
		if len(m.byName(name)) > 1 {
			keys = append(keys, "#"+strconv.Itoa(seen[name])+"#"+name)
		} else {
			keys = append(keys, name)
		}
	}
	return keys, nil
}

// Dump writes "key = value" for every listed key to w.
func (m *Message) Dump(w io.Writer) error {
	keys, err := m.Keys("", 0)
	if err != nil {
		return err
	}
	for _, k := range keys {
		a, err := m.first(k)
		if err != nil {
			return err
		}
		v, err := a.Dump()
		if err != nil {
			return fmt.Errorf("dump %q: %w", k, err)
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", k, v); err != nil {
			return err
		}
	}
	return nil
}

// Diff returns the keys whose values differ between a and b, including keys present in
// only one of them: first those of a in a's order, then those only b has.
func Diff(a, b *Message) ([]string, error) {
	ka, err := a.Keys("", 0)
	if err != nil {
		return nil, err
	}
	kb, err := b.Keys("", 0)
	if err != nil {
		return nil, err
	}
	inA := make(map[string]bool, len(ka))
	var out []string
	for _, k := range ka {
		inA[k] = true
		x, err := a.first(k)
		if err != nil {
			return nil, err
		}
		y, err := b.first(k)
		if err != nil {
			out = append(out, k)
			continue
		}
		same, err := x.Compare(y)
		if err != nil {
			return nil, fmt.Errorf("compare %q: %w", k, err)
		}
		if !same {
			out = append(out, k)
		}
	}
	for _, k := range kb {
		if !inA[k] {
			out = append(out, k)
		}
	}
	return out, nil
}
