package grib

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks and Helpers ---

// mockPayload writes its bytes, or fewer when short is set.
type mockPayload struct {
	data  []byte
	short bool
	got   []byte
}

func (p *mockPayload) Size() int { return len(p.data) }

func (p *mockPayload) WriteTo(w io.Writer) (int64, error) {
	data := p.data
	if p.short {
		data = data[:len(data)-1]
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (p *mockPayload) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty")
	}
	p.got = bytes.Clone(data)
	return nil
}

func TestMarshalBinaryGeneric(t *testing.T) {
	t.Run("Exact", func(t *testing.T) {
		out, err := MarshalBinaryGeneric(&mockPayload{data: []byte{1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, out)
	})
	t.Run("ShortWrite", func(t *testing.T) {
		_, err := MarshalBinaryGeneric(&mockPayload{data: []byte{1, 2, 3}, short: true})
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}

func TestMarshalToGeneric(t *testing.T) {
	p := &mockPayload{data: []byte{4, 5}}
	buf := make([]byte, 4)
	n, err := MarshalToGeneric(p, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{4, 5, 0, 0}, buf)

	_, err = MarshalToGeneric(p, make([]byte, 1))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestReadFromGeneric(t *testing.T) {
	p := &mockPayload{}
	n, err := ReadFromGeneric(p, bytes.NewReader([]byte{7, 8, 9}))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, []byte{7, 8, 9}, p.got)

	_, err = ReadFromGeneric(p, bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestMessageIsCodec(t *testing.T) {
	var c Codec = openSpectral(t)
	assert.Equal(t, 58, c.Size())

	data, err := c.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, c.UnmarshalBinary(data))
	assert.Equal(t, 58, c.Size())
}
