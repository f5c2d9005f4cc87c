package grib

import "fmt"

// GetInt returns the value of the first field matching key as an integer. The field must
// hold exactly one value.
func (m *Message) GetInt(key string) (int64, error) {
	a, err := m.first(key)
	if err != nil {
		return 0, err
	}
	v, err := a.UnpackInteger()
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, fmt.Errorf("%w: %q holds %d values", ErrArraySizeMismatch, key, len(v))
	}
	return v[0], nil
}

// GetFloat returns the value of the first field matching key as a float.
func (m *Message) GetFloat(key string) (float64, error) {
	a, err := m.first(key)
	if err != nil {
		return 0, err
	}
	v, err := a.UnpackFloat()
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, fmt.Errorf("%w: %q holds %d values", ErrArraySizeMismatch, key, len(v))
	}
	return v[0], nil
}

// GetText returns the value of the first field matching key as text.
func (m *Message) GetText(key string) (string, error) {
	a, err := m.first(key)
	if err != nil {
		return "", err
	}
	return a.UnpackText()
}

// GetBytes returns the value of the first field matching key as raw bytes.
func (m *Message) GetBytes(key string) ([]byte, error) {
	a, err := m.first(key)
	if err != nil {
		return nil, err
	}
	return a.UnpackBytes()
}

// GetIntArray returns the values of every field matching key, concatenated in traversal order.
func (m *Message) GetIntArray(key string) ([]int64, error) {
	ids, err := m.resolve(key)
	if err != nil {
		return nil, err
	}
	var out []int64
	for _, id := range ids {
		v, err := Accessor{m, id}.UnpackInteger()
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}

// GetFloatArray is GetIntArray for floats.
func (m *Message) GetFloatArray(key string) ([]float64, error) {
	ids, err := m.resolve(key)
	if err != nil {
		return nil, err
	}
	var out []float64
	for _, id := range ids {
		v, err := Accessor{m, id}.UnpackFloat()
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}

// Count returns the number of values held by every field matching key.
func (m *Message) Count(key string) (int, error) {
	ids, err := m.resolve(key)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		n, err := Accessor{m, id}.ValueCount()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// IsMissing reports whether the first field matching key holds the missing-value encoding.
func (m *Message) IsMissing(key string) (bool, error) {
	a, err := m.first(key)
	if err != nil {
		return false, err
	}
	return a.IsMissing()
}
