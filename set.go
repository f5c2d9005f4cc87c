package grib

import "fmt"

// Every setter runs as one transaction: the write, the relocation it causes, and the
// rebuild of everything that depends on it either all land or none do.

func (m *Message) writable(id NodeID) (Accessor, error) {
	a := Accessor{m, id}
	if a.Flags().Has(FlagReadOnly) {
		return a, fmt.Errorf("%w: %q", ErrReadOnly, a.Name())
	}
	return a, nil
}

// set runs pack against the first field matching key.
func (m *Message) set(key string, pack func(a Accessor) error) error {
	return m.update(key, func(ids []NodeID) error {
		a, err := m.writable(ids[0])
		if err != nil {
			return err
		}
		return pack(a)
	})
}

// SetInt stores v into the first field matching key.
func (m *Message) SetInt(key string, v int64) error {
	return m.set(key, func(a Accessor) error { return a.PackInteger([]int64{v}) })
}

// SetFloat stores v into the first field matching key.
func (m *Message) SetFloat(key string, v float64) error {
	return m.set(key, func(a Accessor) error { return a.PackFloat([]float64{v}) })
}

// SetText stores s into the first field matching key.
func (m *Message) SetText(key, s string) error {
	return m.set(key, func(a Accessor) error { return a.PackText(s) })
}

// SetBytes stores p into the first field matching key.
func (m *Message) SetBytes(key string, p []byte) error {
	return m.set(key, func(a Accessor) error { return a.PackBytes(p) })
}

// SetMissing stores the missing-value encoding into the first field matching key.
func (m *Message) SetMissing(key string) error {
	return m.set(key, func(a Accessor) error { return a.PackMissing() })
}

// SetIntArray stores vals. A key matching one field hands it every value, resizing arrays
// as needed. A key matching several fields spreads the values over them by their current
// value counts, which must add up to len(vals).
func (m *Message) SetIntArray(key string, vals []int64) error {
	return m.update(key, func(ids []NodeID) error {
		return spread(m, key, ids, len(vals), func(a Accessor, lo, hi int) error {
			return a.PackInteger(vals[lo:hi])
		})
	})
}

// SetFloatArray is SetIntArray for floats.
func (m *Message) SetFloatArray(key string, vals []float64) error {
	return m.update(key, func(ids []NodeID) error {
		return spread(m, key, ids, len(vals), func(a Accessor, lo, hi int) error {
			return a.PackFloat(vals[lo:hi])
		})
	})
}

func spread(m *Message, key string, ids []NodeID, n int, pack func(a Accessor, lo, hi int) error) error {
	if len(ids) == 1 {
		a, err := m.writable(ids[0])
		if err != nil {
			return err
		}
		return pack(a, 0, n)
	}
	counts := make([]int, len(ids))
	total := 0
	for i, id := range ids {
		c, err := Accessor{m, id}.ValueCount()
		if err != nil {
			return err
		}
		counts[i] = c
		total += c
	}
	if total != n {
		return fmt.Errorf("%w: %q matches %d values, got %d", ErrArraySizeMismatch, key, total, n)
	}
	lo := 0
	for i, id := range ids {
		a, err := m.writable(id)
		if err != nil {
			return err
		}
		if err := pack(a, lo, lo+counts[i]); err != nil {
			return err
		}
		lo += counts[i]
	}
	return nil
}
