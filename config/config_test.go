package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/oy3o/grib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grib.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
definition = "defs/spectral.yaml"
capacity = 4096

[log]
level = "debug"
console = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		DefinitionPath: "defs/spectral.yaml",
		Capacity:       4096,
		Log:            Log{Level: "debug", Console: false},
	}, cfg)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `definition = "a.cbor"`))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.Zero(t, cfg.Capacity)
}

func TestLoadErrors(t *testing.T) {
	t.Run("UnknownKey", func(t *testing.T) {
		_, err := Load(writeConfig(t, "defintion = \"typo.yaml\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defintion")
	})
	t.Run("NegativeCapacity", func(t *testing.T) {
		_, err := Load(writeConfig(t, "capacity = -1\n"))
		assert.Error(t, err)
	})
	t.Run("BadLevel", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[log]\nlevel = \"loud\"\n"))
		assert.Error(t, err)
	})
	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	cfg, err := Load(writeConfig(t, "[log]\nlevel = \"debug\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log = Log{Level: "warn", Console: false}
	var buf bytes.Buffer
	l := cfg.Logger(&buf)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	l.Info().Msg("dropped")
	l.Warn().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"message":"kept"`)
}

func TestOptionsApplyCapacity(t *testing.T) {
	cfg := Default()
	cfg.Capacity = 3
	var logs bytes.Buffer
	m, err := grib.Open([]grib.FieldSpec{
		grib.Field(grib.KindUnsigned, "n", grib.IntParam(1)),
		grib.Field(grib.KindUnsignedArray, "v", grib.RefParam("n"), grib.IntParam(1)),
	}, []byte{1, 9}, cfg.Options(&logs)...)
	require.NoError(t, err)
	assert.ErrorIs(t, m.SetIntArray("v", []int64{1, 2, 3}), grib.ErrBufferCapacityExceeded)
	require.NoError(t, m.SetIntArray("v", []int64{1, 2}))
	assert.Equal(t, 3, m.Size())
}
