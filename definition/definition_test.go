package definition

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/oy3o/grib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const bandsYAML = `
- kind: section
  name: header
  children:
    - kind: ascii
      name: identifier
      params: [{int: 4}]
    - kind: unsigned
      name: numberOfBands
      namespace: ls
      params: [{int: 1}]
      flags: [read_only]
- kind: repeat
  name: bands
  params: [{ref: numberOfBands}]
  children:
    - kind: unsigned
      name: wave
      params: [{int: 2}]
- kind: compressed
  name: payload
  params: [{int: 0}, {text: zstd}]
`

const bandsJSONC = `[
  // header
  {"kind": "section", "name": "header", "children": [
    {"kind": "ascii", "name": "identifier", "params": [{"int": 4}]},
    {"kind": "unsigned", "name": "numberOfBands", "namespace": "ls", "params": [{"int": 1}], "flags": ["read_only"]},
  ]},
  /* one wave per band */
  {"kind": "repeat", "name": "bands", "params": [{"ref": "numberOfBands"}], "children": [
    {"kind": "unsigned", "name": "wave", "params": [{"int": 2}]},
  ]},
  {"kind": "compressed", "name": "payload", "params": [{"int": 0}, {"text": "zstd"}]},
]`

func bandsSpecs() []grib.FieldSpec {
	return []grib.FieldSpec{
		grib.Section("header",
			grib.Field(grib.KindASCII, "identifier", grib.IntParam(4)),
			grib.Field(grib.KindUnsigned, "numberOfBands", grib.IntParam(1)).
				InNamespace("ls").WithFlags(grib.FlagReadOnly),
		),
		grib.Repeat("bands", grib.RefParam("numberOfBands"),
			grib.Field(grib.KindUnsigned, "wave", grib.IntParam(2)),
		),
		grib.Field(grib.KindCompressed, "payload", grib.IntParam(0), grib.TextParam("zstd")),
	}
}

type DefinitionSuite struct {
	suite.Suite
	dir string
}

func (s *DefinitionSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *DefinitionSuite) TestDecodeYAML() {
	got, err := Decode(FormatYAML, []byte(bandsYAML))
	s.Require().NoError(err)
	s.Equal(bandsSpecs(), got)
}

func (s *DefinitionSuite) TestDecodeJSONC() {
	got, err := Decode(FormatJSONC, []byte(bandsJSONC))
	s.Require().NoError(err)
	s.Equal(bandsSpecs(), got)
}

func (s *DefinitionSuite) TestEncodeDecode() {
	for _, f := range []Format{FormatYAML, FormatJSONC, FormatCBOR} {
		s.T().Run(string(f), func(t *testing.T) {
			data, err := Encode(f, bandsSpecs())
			require.NoError(t, err)
			got, err := Decode(f, data)
			require.NoError(t, err)
			assert.Equal(t, bandsSpecs(), got)
		})
	}
}

func (s *DefinitionSuite) TestCBORIsDeterministic() {
	a, err := Encode(FormatCBOR, bandsSpecs())
	s.Require().NoError(err)
	b, err := Encode(FormatCBOR, bandsSpecs())
	s.Require().NoError(err)
	s.Equal(a, b)
}

func (s *DefinitionSuite) TestInvalid() {
	cases := map[string]string{
		"NoKind":       "- name: x\n",
		"UnknownFlag":  "- kind: unsigned\n  flags: [loud]\n",
		"TwoParamKind": "- kind: unsigned\n  params: [{int: 1, ref: y}]\n",
		"EmptyParam":   "- kind: unsigned\n  params: [{}]\n",
		"NotYAML":      "- kind: [\n",
	}
	for name, doc := range cases {
		s.T().Run(name, func(t *testing.T) {
			_, err := Decode(FormatYAML, []byte(doc))
			assert.ErrorIs(t, err, grib.ErrInvalidDefinition)
		})
	}
	_, err := Decode("toml", nil)
	s.ErrorIs(err, grib.ErrInvalidDefinition)
}

func (s *DefinitionSuite) TestFormatOf() {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML, "a.YML": FormatYAML, "a.json": FormatJSONC, "a.jsonc": FormatJSONC, "a.cbor": FormatCBOR,
	} {
		got, err := FormatOf(path)
		s.Require().NoError(err)
		s.Equal(want, got, path)
	}
	_, err := FormatOf("a.txt")
	s.ErrorIs(err, grib.ErrInvalidDefinition)
}

func (s *DefinitionSuite) TestLoadOpensMessages() {
	path := filepath.Join(s.dir, "bands.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(bandsYAML), 0o644))

	fields, err := Load(path)
	s.Require().NoError(err)
	m, err := grib.Open(fields, []byte{'G', 'R', 'I', 'B', 2, 0, 1, 0, 2})
	s.Require().NoError(err)
	waves, err := m.GetIntArray("wave")
	s.Require().NoError(err)
	s.Equal([]int64{1, 2}, waves)

	_, err = Load(filepath.Join(s.dir, "missing.yaml"))
	s.ErrorIs(err, os.ErrNotExist)
}

func (s *DefinitionSuite) TestCache() {
	path := filepath.Join(s.dir, "bands.jsonc")
	s.Require().NoError(os.WriteFile(path, []byte(bandsJSONC), 0o644))

	c := NewCache()
	var wg sync.WaitGroup
	results := make([][]grib.FieldSpec, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fields, err := c.Load(path)
			assert.NoError(s.T(), err)
			results[i] = fields
		}(i)
	}
	wg.Wait()
	s.Equal(1, c.Len())
	for _, r := range results {
		s.Same(&results[0][0], &r[0], "every caller shares one definition")
	}

	// A cached definition survives the file going away until it is forgotten.
	s.Require().NoError(os.Remove(path))
	_, err := c.Load(path)
	s.Require().NoError(err)
	c.Forget(path)
	_, err = c.Load(path)
	s.Error(err)
}

func TestDefinition(t *testing.T) {
	suite.Run(t, new(DefinitionSuite))
}
