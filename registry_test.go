package grib

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RegistrySuite struct {
	suite.Suite
	r *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.r = DefaultRegistry().Clone()
}

func (s *RegistrySuite) TestBuiltins() {
	s.Equal(20, DefaultRegistry().Kinds())
	for _, b := range builtins {
		got, err := DefaultRegistry().Resolve(b.kind)
		s.Require().NoError(err, b.kind)
		s.Equal(b.kind, got.Kind())
		s.Equal(b.parent, got.Parent())
	}
}

func (s *RegistrySuite) TestInheritance() {
	b, err := s.r.Resolve(KindSectionLength)
	s.Require().NoError(err)
	s.Equal(TypeInteger, b.Type)
	s.NotNil(b.PackInteger, "inherited from unsigned")
	s.NotNil(b.UnpackText, "inherited from long")
	s.NotNil(b.UnpackBytes, "inherited from gen")
	s.True(b.Computed)

	u, err := s.r.Resolve(KindUnsigned)
	s.Require().NoError(err)
	s.False(u.Computed)
	s.Nil(u.Rederive)
}

func (s *RegistrySuite) TestRegisterErrors() {
	s.ErrorIs(s.r.Register("x", Behavior{}, "nope"), ErrUnknownKind)
	s.ErrorIs(s.r.Register(KindUnsigned, Behavior{}, KindLong), ErrKindExists)
	s.ErrorIs(s.r.Register("", Behavior{}, ""), ErrInvalidDefinition)
	_, err := s.r.Resolve("nope")
	s.ErrorIs(err, ErrUnknownKind)
}

func (s *RegistrySuite) TestCustomKind() {
	// A one-byte percentage that refuses values above 100.
	err := s.r.Register("percent", Behavior{
		Init: func(a Accessor) error {
			a.SetLength(1)
			return nil
		},
		PackInteger: func(a Accessor, v []int64) error {
			if len(v) != 1 || v[0] > 100 {
				return ErrValueOutOfRange
			}
			a.Raw()[0] = byte(v[0])
			return nil
		},
	}, KindUnsigned)
	s.Require().NoError(err)

	fields := []FieldSpec{Field("percent", "humidity")}
	m, err := Open(fields, []byte{40}, WithRegistry(s.r))
	s.Require().NoError(err)

	v, err := m.GetInt("humidity")
	s.Require().NoError(err)
	s.EqualValues(40, v)
	s.ErrorIs(m.SetInt("humidity", 101), ErrValueOutOfRange)
	s.Require().NoError(m.SetText("humidity", "55"))
	f, err := m.GetFloat("humidity")
	s.Require().NoError(err)
	s.Equal(55.0, f)

	// The default registry is untouched.
	_, err = Open(fields, []byte{40})
	s.ErrorIs(err, ErrUnknownKind)
}

func (s *RegistrySuite) TestUnsupportedOperation() {
	s.Require().NoError(s.r.Register("blob", Behavior{}, KindGen))
	m, err := Open([]FieldSpec{Field("blob", "b", IntParam(2))}, []byte{1, 2}, WithRegistry(s.r))
	s.Require().NoError(err)

	_, err = m.GetInt("b")
	s.ErrorIs(err, ErrUnsupportedOperation)
	s.ErrorIs(m.SetFloat("b", 1), ErrUnsupportedOperation)
	p, err := m.GetBytes("b")
	s.Require().NoError(err)
	s.Equal([]byte{1, 2}, p)
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func TestRegistryConcurrentResolve(t *testing.T) {
	r := DefaultRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, b := range builtins {
				_, err := r.Resolve(b.kind)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestIndependentMessagesConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			m, err := Open(spectralFields(), spectralBytes())
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, m.SetInt("numberOfContributingSpectralBands", n))
			got, err := m.Count("satelliteSeries")
			assert.NoError(t, err)
			assert.EqualValues(t, n, got)
		}(int64(i + 1))
	}
	wg.Wait()
	require.Equal(t, 20, DefaultRegistry().Kinds())
}
