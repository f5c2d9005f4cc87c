// Package definition reads and writes message definitions, the field lists a message is
// opened against, in the serialized forms a definition compiler emits: YAML, JSON with
// comments, and CBOR.
package definition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/oy3o/grib"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a serialization of a definition.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
	FormatCBOR  Format = "cbor"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("%w: no definition format for %q", grib.ErrInvalidDefinition, path)
	}
}

// encMode writes Core Deterministic CBOR, so one definition always encodes to the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("definition: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("definition: CBOR decoder initialization failed: " + err.Error())
	}
}

// Decode parses a definition.
func Decode(format Format, data []byte) ([]grib.FieldSpec, error) {
	var doc []field
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSONC:
		err = json.Unmarshal(jsonc.ToJSON(data), &doc)
	case FormatCBOR:
		err = decMode.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", grib.ErrInvalidDefinition, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", grib.ErrInvalidDefinition, format, err)
	}
	return toSpecs(doc, "")
}

// Encode serializes a definition. JSONC is written as plain indented JSON.
func Encode(format Format, fields []grib.FieldSpec) ([]byte, error) {
	doc := fromSpecs(fields)
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSONC:
		return json.MarshalIndent(doc, "", "  ")
	case FormatCBOR:
		return encMode.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", grib.ErrInvalidDefinition, format)
	}
}

// Load reads a definition file, choosing the format from its extension.
func Load(path string) ([]grib.FieldSpec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	fields, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fields, nil
}

// Cache shares loaded definitions. Definitions are immutable once loaded, so every message
// opened from the same path shares one copy. Safe for concurrent use.
type Cache struct {
	defs *xsync.Map[string, []grib.FieldSpec]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{defs: xsync.NewMap[string, []grib.FieldSpec]()}
}

// Load returns the definition at path, reading it on first use.
func (c *Cache) Load(path string) ([]grib.FieldSpec, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if fields, ok := c.defs.Load(key); ok {
		return fields, nil
	}
	fields, err := Load(path)
	if err != nil {
		return nil, err
	}
	// Two goroutines may both miss; the first store wins and both get the same slice.
	fields, _ = c.defs.LoadOrStore(key, fields)
	return fields, nil
}

// Forget drops path from the cache so the next Load reads it again.
func (c *Cache) Forget(path string) {
	if key, err := filepath.Abs(path); err == nil {
		path = key
	}
	c.defs.Delete(path)
}

// Len returns the number of cached definitions.
func (c *Cache) Len() int { return c.defs.Size() }
