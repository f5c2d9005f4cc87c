package grib

import "fmt"

// Kind is the tag selecting the codec behavior of a field.
type Kind string

// Built-in kinds. See builtin.go for their parents and parameters.
const (
	KindGen           Kind = "gen"
	KindLong          Kind = "long"
	KindDouble        Kind = "double"
	KindUnsigned      Kind = "unsigned"
	KindSigned        Kind = "signed"
	KindIEEEFloat     Kind = "ieeefloat"
	KindASCII         Kind = "ascii"
	KindBytes         Kind = "bytes"
	KindConstant      Kind = "constant"
	KindOctetNumber   Kind = "octet-number"
	KindBit           Kind = "bit"
	KindScaledValue   Kind = "scaled-value"
	KindUnsignedArray Kind = "unsigned-array"
	KindBits          Kind = "bits"
	KindSection       Kind = "section"
	KindRepeat        Kind = "repeat"
	KindSectionLength Kind = "section-length"
	KindTotalLength   Kind = "total-length"
	KindCompressed    Kind = "compressed"
	KindDigest        Kind = "digest"
)

// ValueType is the intrinsic value type of a kind.
type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeInteger
	TypeFloat
	TypeText
	TypeBytes
	TypeSection
)

func (t ValueType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	case TypeBytes:
		return "bytes"
	case TypeSection:
		return "section"
	default:
		return "undefined"
	}
}

// Flags carry per-field attributes from the definition.
type Flags uint16

const (
	// FlagReadOnly rejects writes through the Message setters.
	FlagReadOnly Flags = 1 << iota
	// FlagCanBeMissing lets an all-ones encoding stand for "missing".
	FlagCanBeMissing
	// FlagHidden excludes the field from key iteration.
	FlagHidden
)

// Has reports whether all bits of x are set in f.
func (f Flags) Has(x Flags) bool { return f&x == x }

// ParamKind distinguishes literal parameters from references to other fields.
type ParamKind uint8

const (
	ParamInt ParamKind = iota
	ParamText
	ParamRef
)

// Param is one kind-specific parameter of a field: a literal integer, a literal text,
// or the name of another field whose value is looked up when the accessor is built.
type Param struct {
	Kind ParamKind
	Int  int64
	Text string // literal text, or the referenced field name for ParamRef
}

func IntParam(v int64) Param     { return Param{Kind: ParamInt, Int: v} }
func TextParam(s string) Param   { return Param{Kind: ParamText, Text: s} }
func RefParam(name string) Param { return Param{Kind: ParamRef, Text: name} }

func (p Param) String() string {
	switch p.Kind {
	case ParamInt:
		return fmt.Sprint(p.Int)
	case ParamText:
		return fmt.Sprintf("%q", p.Text)
	default:
		return p.Text
	}
}

// FieldSpec is the immutable blueprint of one field, as produced by the definition compiler.
// A FieldSpec and its children are shared read-only by every message opened from it.
type FieldSpec struct {
	Kind      Kind
	Name      string
	Namespace string
	Params    []Param
	Children  []FieldSpec
	Flags     Flags
}

// Field is a shorthand constructor for a leaf FieldSpec.
func Field(kind Kind, name string, params ...Param) FieldSpec {
	return FieldSpec{Kind: kind, Name: name, Params: params}
}

// Section builds a named section holding children in order.
func Section(name string, children ...FieldSpec) FieldSpec {
	return FieldSpec{Kind: KindSection, Name: name, Children: children}
}

// Repeat builds a group whose children are instantiated once per count, where count is
// the value of the referenced field.
func Repeat(name string, count Param, children ...FieldSpec) FieldSpec {
	return FieldSpec{Kind: KindRepeat, Name: name, Params: []Param{count}, Children: children}
}

// WithFlags returns a copy of s carrying flags.
func (s FieldSpec) WithFlags(flags Flags) FieldSpec {
	s.Flags |= flags
	return s
}

// InNamespace returns a copy of s in namespace ns.
func (s FieldSpec) InNamespace(ns string) FieldSpec {
	s.Namespace = ns
	return s
}
