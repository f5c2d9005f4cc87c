package grib

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// gen is the root kind: an opaque run of bytes whose length is its optional first parameter.
var genBehavior = Behavior{
	Type: TypeBytes,
	Init: func(a Accessor) error {
		n, err := a.ArgIntOr(0, 0)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: %q has negative length %d", ErrInvalidDefinition, a.Name(), n)
		}
		a.SetLength(n)
		return nil
	},
	UnpackBytes: func(a Accessor) ([]byte, error) {
		return slices.Clone(a.Raw()), nil
	},
	PackBytes: func(a Accessor, p []byte) error {
		if int64(len(p)) != a.Length() {
			return fmt.Errorf("%w: %q holds %d bytes, got %d", ErrValueOutOfRange, a.Name(), a.Length(), len(p))
		}
		copy(a.Raw(), p)
		return nil
	},
	ValueCount:   func(Accessor) (int, error) { return 1, nil },
	LengthInBits: func(a Accessor) int64 { return a.Length() * 8 },
	IsMissing:    func(Accessor) (bool, error) { return false, nil },
	Compare:      compareValues,
	Dump:         dumpValue,
	Rebuild:      rebuildLeaf,
}

// compareValues compares two accessors by the native type of the first.
func compareValues(a, b Accessor) (bool, error) {
	switch a.Type() {
	case TypeInteger:
		x, err := a.UnpackInteger()
		if err != nil {
			return false, err
		}
		y, err := b.UnpackInteger()
		if err != nil {
			return false, err
		}
		return slices.Equal(x, y), nil
	case TypeFloat:
		x, err := a.UnpackFloat()
		if err != nil {
			return false, err
		}
		y, err := b.UnpackFloat()
		if err != nil {
			return false, err
		}
		return slices.Equal(x, y), nil
	case TypeText:
		x, err := a.UnpackText()
		if err != nil {
			return false, err
		}
		y, err := b.UnpackText()
		if err != nil {
			return false, err
		}
		return x == y, nil
	case TypeSection:
		return bytes.Equal(a.Raw(), b.Raw()), nil
	default:
		x, err := a.UnpackBytes()
		if err != nil {
			return false, err
		}
		y, err := b.UnpackBytes()
		if err != nil {
			return false, err
		}
		return bytes.Equal(x, y), nil
	}
}

func dumpValue(a Accessor) (string, error) {
	if missing, err := a.IsMissing(); err == nil && missing {
		return "MISSING", nil
	}
	switch a.Type() {
	case TypeInteger:
		v, err := a.UnpackInteger()
		if err != nil {
			return "", err
		}
		return formatInts(v), nil
	case TypeFloat:
		v, err := a.UnpackFloat()
		if err != nil {
			return "", err
		}
		return formatFloats(v), nil
	case TypeText:
		s, err := a.UnpackText()
		if err != nil {
			return "", err
		}
		return strconv.Quote(s), nil
	case TypeSection:
		return "", nil
	default:
		p, err := a.UnpackBytes()
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(p), nil
	}
}

// formatInts renders a single value plainly and several as a comma separated list.
func formatInts(v []int64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatInt(x, 10)
	}
	return strings.Join(parts, ",")
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func parseInts(name, s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(p, 64)
			if ferr != nil || !isIntegral(f) {
				return nil, fmt.Errorf("%w: %q is not an integer for %q", ErrTypeCoercion, p, name)
			}
			v = int64(f)
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(name, s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number for %q", ErrTypeCoercion, p, name)
		}
		out[i] = v
	}
	return out, nil
}

func intsToFloats(v []int64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func floatsToInts(name string, v []float64) ([]int64, error) {
	out := make([]int64, len(v))
	for i, x := range v {
		if !isIntegral(x) {
			return nil, fmt.Errorf("%w: %v is not integral for %q", ErrTypeCoercion, x, name)
		}
		out[i] = int64(x)
	}
	return out, nil
}

// long is the integer-native base kind. It adds the float and text views every integer
// kind shares; concrete kinds supply UnpackInteger and PackInteger.
var longBehavior = Behavior{
	Type: TypeInteger,
	UnpackFloat: func(a Accessor) ([]float64, error) {
		v, err := a.UnpackInteger()
		if err != nil {
			return nil, err
		}
		return intsToFloats(v), nil
	},
	PackFloat: func(a Accessor, v []float64) error {
		iv, err := floatsToInts(a.Name(), v)
		if err != nil {
			return err
		}
		return a.PackInteger(iv)
	},
	UnpackText: func(a Accessor) (string, error) {
		v, err := a.UnpackInteger()
		if err != nil {
			return "", err
		}
		return formatInts(v), nil
	},
	PackText: func(a Accessor, s string) error {
		v, err := parseInts(a.Name(), s)
		if err != nil {
			return err
		}
		return a.PackInteger(v)
	},
}

// double is the float-native base kind.
var doubleBehavior = Behavior{
	Type: TypeFloat,
	UnpackInteger: func(a Accessor) ([]int64, error) {
		v, err := a.UnpackFloat()
		if err != nil {
			return nil, err
		}
		return floatsToInts(a.Name(), v)
	},
	PackInteger: func(a Accessor, v []int64) error {
		return a.PackFloat(intsToFloats(v))
	},
	UnpackText: func(a Accessor) (string, error) {
		v, err := a.UnpackFloat()
		if err != nil {
			return "", err
		}
		return formatFloats(v), nil
	},
	PackText: func(a Accessor, s string) error {
		v, err := parseFloats(a.Name(), s)
		if err != nil {
			return err
		}
		return a.PackFloat(v)
	},
}
