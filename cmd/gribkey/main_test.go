package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definitionYAML = `
- kind: ascii
  name: identifier
  params: [{int: 4}]
- kind: unsigned
  name: count
  namespace: ls
  params: [{int: 1}]
- kind: unsigned-array
  name: values
  params: [{ref: count}, {int: 1}]
- kind: total-length
  name: totalLength
  params: [{int: 1}]
`

func setup(t *testing.T) (dir, def, msg string) {
	t.Helper()
	dir = t.TempDir()
	def = filepath.Join(dir, "def.yaml")
	msg = filepath.Join(dir, "msg.bin")
	require.NoError(t, os.WriteFile(def, []byte(definitionYAML), 0o644))
	require.NoError(t, os.WriteFile(msg, []byte{'G', 'R', 'I', 'B', 2, 5, 6, 8}, 0o644))
	return dir, def, msg
}

func TestGet(t *testing.T) {
	_, def, msg := setup(t)
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-d", def, msg, "get", "identifier", "values"}, &out, &errOut))
	assert.Equal(t, "identifier = GRIB\nvalues = 5,6\n", out.String())
}

func TestSetWritesOutput(t *testing.T) {
	dir, def, msg := setup(t)
	dst := filepath.Join(dir, "out.bin")
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-d", def, "-o", dst, msg, "set", "values=1,2,3", "identifier=ABCD"}, &out, &errOut))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 'B', 'C', 'D', 3, 1, 2, 3, 9}, data)

	orig, err := os.ReadFile(msg)
	require.NoError(t, err)
	assert.Len(t, orig, 8, "source left alone when -o is given")
}

func TestKeysAndDump(t *testing.T) {
	_, def, msg := setup(t)
	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"-d", def, msg, "keys", "--namespace", "ls"}, &out, &errOut))
	assert.Equal(t, "count\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-d", def, "--skip-computed", msg, "keys"}, &out, &errOut))
	assert.Equal(t, "identifier\ncount\nvalues\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-d", def, msg, "dump"}, &out, &errOut))
	assert.Contains(t, out.String(), "totalLength = 8\n")
}

func TestConfigFile(t *testing.T) {
	dir, def, msg := setup(t)
	cfg := filepath.Join(dir, "grib.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("definition = \""+filepath.ToSlash(def)+"\"\ncapacity = 9\n"), 0o644))

	var out, errOut bytes.Buffer
	require.NoError(t, run([]string{"--config", cfg, msg, "get", "count"}, &out, &errOut))
	assert.Equal(t, "count = 2\n", out.String())

	err := run([]string{"--config", cfg, msg, "set", "values=1,2,3,4"}, &out, &errOut)
	assert.Error(t, err, "capacity from the config applies")
}

func TestUsageErrors(t *testing.T) {
	_, def, msg := setup(t)
	var out, errOut bytes.Buffer
	assert.Error(t, run([]string{"-d", def, msg}, &out, &errOut))
	assert.Error(t, run([]string{msg, "get", "count"}, &out, &errOut))
	assert.Error(t, run([]string{"-d", def, msg, "frobnicate"}, &out, &errOut))
	assert.Error(t, run([]string{"-d", def, msg, "set", "count"}, &out, &errOut))
	assert.Error(t, run([]string{"-d", def, msg, "get", "nope"}, &out, &errOut))
	assert.NoError(t, run([]string{"--help"}, &out, &errOut))
}
