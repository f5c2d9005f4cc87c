// Package config loads the settings shared by tools built on the engine: where definitions
// live, how large a message may grow, and how to log.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/oy3o/grib"
	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "GRIB_LOG_LEVEL"

type Config struct {
	// DefinitionPath is the definition file messages are opened against.
	DefinitionPath string `toml:"definition"`
	// Capacity caps the message size in bytes; 0 is unbounded.
	Capacity int `toml:"capacity"`
	Log      Log `toml:"log"`
}

type Log struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Console: true},
	}
}

// Load reads a TOML file over Default. Unknown keys are rejected so typos do not pass
// silently.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("capacity %d is negative", c.Capacity)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Logger builds the logger described by c, writing to w.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Log.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Options returns the message options c implies, logging to w.
func (c Config) Options(w io.Writer) []grib.Option {
	opts := []grib.Option{grib.WithLogger(c.Logger(w))}
	if c.Capacity > 0 {
		opts = append(opts, grib.WithCapacity(c.Capacity))
	}
	return opts
}
