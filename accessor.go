package grib

import "fmt"

// Accessor is a handle on one live field of a message. It is cheap to copy. Kinds receive
// it in every operation; callers get it from Message.Resolve.
//
// Pack methods and Resize on Accessor write through: they ignore FlagReadOnly and run
// outside the rollback protection of the Message setters. Kinds use them to update the
// fields they derive. Callers outside a kind should go through the Message setters.
//
// Once the accessor is no longer Valid, the geometry getters report zero and the
// operations fail with ErrKeyNotFound.
type Accessor struct {
	m  *Message
	id NodeID
}

func (a Accessor) node() *node { return &a.m.nodes[a.id] }

// Valid reports whether the accessor is still part of its message's tree. Rebuilding a
// subtree retires the accessors it held.
func (a Accessor) Valid() bool {
	return a.m != nil && !a.m.closed && int(a.id) < len(a.m.nodes) && a.id >= 0 && a.node().live
}

func (a Accessor) ID() NodeID          { return a.id }
func (a Accessor) Message() *Message   { return a.m }
func (a Accessor) Spec() *FieldSpec    { return a.node().spec }
func (a Accessor) Name() string        { return a.node().spec.Name }
func (a Accessor) Kind() Kind          { return a.node().spec.Kind }
func (a Accessor) Flags() Flags        { return a.node().spec.Flags }
func (a Accessor) Type() ValueType     { return a.node().behavior.Type }
func (a Accessor) Behavior() *Behavior { return a.node().behavior }

// Offset is the byte offset of the field from the start of the message.
func (a Accessor) Offset() int64 {
	if !a.Valid() {
		return 0
	}
	return a.node().offset
}

// Length is the encoded length in bytes.
func (a Accessor) Length() int64 {
	if !a.Valid() {
		return 0
	}
	return a.node().length
}

// End is Offset + Length.
func (a Accessor) End() int64 { return a.Offset() + a.Length() }

// Parent returns the enclosing section, if any.
func (a Accessor) Parent() (Accessor, bool) {
	if !a.Valid() {
		return Accessor{}, false
	}
	p := a.node().parent
	return Accessor{a.m, p}, p != NoNode
}

// Children returns the accessors directly inside a section.
func (a Accessor) Children() []Accessor {
	if !a.Valid() {
		return nil
	}
	ids := a.m.children(a.id)
	out := make([]Accessor, len(ids))
	for i, id := range ids {
		out[i] = Accessor{a.m, id}
	}
	return out
}

// Raw returns the live bytes of the field. The slice is invalidated by any resize.
func (a Accessor) Raw() []byte {
	if !a.Valid() {
		return nil
	}
	n := a.node()
	return a.m.buf.Slice(n.offset, n.length)
}

// State returns what Init stored.
func (a Accessor) State() any { return a.node().state }

// SetState stores kind-specific data captured by Init.
func (a Accessor) SetState(v any) { a.node().state = v }

// SetLength sets the encoded length. Only Init may call it; later changes go through Resize.
func (a Accessor) SetLength(n int64) { a.node().length = n }

// Resize changes the encoded length, relocating every field after this one, and then
// re-derives dependent values.
func (a Accessor) Resize(n int64) error {
	if !a.Valid() {
		return fmt.Errorf("%w: accessor is no longer part of the message", ErrKeyNotFound)
	}
	if err := a.m.splice(a.id, n); err != nil {
		return err
	}
	return a.m.rederive()
}

// NumArgs returns the number of parameters of the field.
func (a Accessor) NumArgs() int { return len(a.node().args) }

func (a Accessor) arg(i int) (arg, error) {
	args := a.node().args
	if i < 0 || i >= len(args) {
		return arg{}, fmt.Errorf("%w: %s %q needs parameter %d", ErrInvalidDefinition, a.Kind(), a.Name(), i)
	}
	return args[i], nil
}

// ArgIsRef reports whether parameter i references another field.
func (a Accessor) ArgIsRef(i int) bool {
	p, err := a.arg(i)
	return err == nil && p.Kind == ParamRef
}

// ArgInt returns parameter i as an integer: the literal, or the current value of the
// referenced field.
func (a Accessor) ArgInt(i int) (int64, error) {
	p, err := a.arg(i)
	if err != nil {
		return 0, err
	}
	switch p.Kind {
	case ParamInt:
		return p.Int, nil
	case ParamRef:
		ref, err := a.ArgRef(i)
		if err != nil {
			return 0, err
		}
		v, err := ref.UnpackInteger()
		if err != nil {
			return 0, err
		}
		if len(v) != 1 {
			return 0, fmt.Errorf("%w: parameter %q of %q holds %d values", ErrArraySizeMismatch, p.Text, a.Name(), len(v))
		}
		return v[0], nil
	default:
		return 0, fmt.Errorf("%w: parameter %d of %q is text, want integer", ErrInvalidDefinition, i, a.Name())
	}
}

// ArgIntOr returns ArgInt(i), or def when the parameter is absent.
func (a Accessor) ArgIntOr(i int, def int64) (int64, error) {
	if i >= a.NumArgs() {
		return def, nil
	}
	return a.ArgInt(i)
}

// ArgText returns parameter i as text: the literal, or the referenced field's name.
func (a Accessor) ArgText(i int) (string, error) {
	p, err := a.arg(i)
	if err != nil {
		return "", err
	}
	if p.Kind == ParamInt {
		return "", fmt.Errorf("%w: parameter %d of %q is an integer, want text", ErrInvalidDefinition, i, a.Name())
	}
	return p.Text, nil
}

// ArgRef returns the field that parameter i references. The binding made at build time is
// used while that field is alive; otherwise the name is resolved again.
func (a Accessor) ArgRef(i int) (Accessor, error) {
	p, err := a.arg(i)
	if err != nil {
		return Accessor{}, err
	}
	if p.Kind != ParamRef {
		return Accessor{}, fmt.Errorf("%w: parameter %d of %q is not a reference", ErrInvalidDefinition, i, a.Name())
	}
	if p.node != NoNode && a.m.nodes[p.node].live {
		return Accessor{a.m, p.node}, nil
	}
	if id := a.m.lastBefore(a.id, p.Text); id != NoNode {
		return Accessor{a.m, id}, nil
	}
	return Accessor{}, fmt.Errorf("%w: %q referenced by %q", ErrUnresolvedReference, p.Text, a.Name())
}

func (a Accessor) behavior() (*Behavior, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: accessor is no longer part of the message", ErrKeyNotFound)
	}
	return a.node().behavior, nil
}

func (a Accessor) unsupported(op string) error {
	return fmt.Errorf("%w: kind %q does not implement %s (field %q)", ErrUnsupportedOperation, a.Kind(), op, a.Name())
}

// UnpackInteger decodes the field as integers.
func (a Accessor) UnpackInteger() ([]int64, error) {
	b, err := a.behavior()
	if err != nil {
		return nil, err
	}
	if b.UnpackInteger == nil {
		return nil, a.unsupported("unpack_integer")
	}
	return b.UnpackInteger(a)
}

// UnpackFloat decodes the field as floats.
func (a Accessor) UnpackFloat() ([]float64, error) {
	b, err := a.behavior()
	if err != nil {
		return nil, err
	}
	if b.UnpackFloat == nil {
		return nil, a.unsupported("unpack_float")
	}
	return b.UnpackFloat(a)
}

// UnpackText decodes the field as text.
func (a Accessor) UnpackText() (string, error) {
	b, err := a.behavior()
	if err != nil {
		return "", err
	}
	if b.UnpackText == nil {
		return "", a.unsupported("unpack_text")
	}
	return b.UnpackText(a)
}

// UnpackBytes decodes the field as raw bytes.
func (a Accessor) UnpackBytes() ([]byte, error) {
	b, err := a.behavior()
	if err != nil {
		return nil, err
	}
	if b.UnpackBytes == nil {
		return nil, a.unsupported("unpack_bytes")
	}
	return b.UnpackBytes(a)
}

// PackInteger encodes integers into the field.
func (a Accessor) PackInteger(v []int64) error {
	b, err := a.behavior()
	if err != nil {
		return err
	}
	if b.PackInteger == nil {
		return a.unsupported("pack_integer")
	}
	if err := b.PackInteger(a, v); err != nil {
		return err
	}
	a.m.touch(a.id)
	return nil
}

// PackFloat encodes floats into the field.
func (a Accessor) PackFloat(v []float64) error {
	b, err := a.behavior()
	if err != nil {
		return err
	}
	if b.PackFloat == nil {
		return a.unsupported("pack_float")
	}
	if err := b.PackFloat(a, v); err != nil {
		return err
	}
	a.m.touch(a.id)
	return nil
}

// PackText encodes text into the field.
func (a Accessor) PackText(s string) error {
	b, err := a.behavior()
	if err != nil {
		return err
	}
	if b.PackText == nil {
		return a.unsupported("pack_text")
	}
	if err := b.PackText(a, s); err != nil {
		return err
	}
	a.m.touch(a.id)
	return nil
}

// PackBytes encodes raw bytes into the field.
func (a Accessor) PackBytes(p []byte) error {
	b, err := a.behavior()
	if err != nil {
		return err
	}
	if b.PackBytes == nil {
		return a.unsupported("pack_bytes")
	}
	if err := b.PackBytes(a, p); err != nil {
		return err
	}
	a.m.touch(a.id)
	return nil
}

// PackMissing stores the missing-value encoding.
func (a Accessor) PackMissing() error {
	b, err := a.behavior()
	if err != nil {
		return err
	}
	if b.PackMissing == nil {
		return a.unsupported("pack_missing")
	}
	if err := b.PackMissing(a); err != nil {
		return err
	}
	a.m.touch(a.id)
	return nil
}

// IsMissing reports whether the field holds the missing-value encoding.
func (a Accessor) IsMissing() (bool, error) {
	b, err := a.behavior()
	if err != nil {
		return false, err
	}
	if b.IsMissing == nil {
		return false, a.unsupported("is_missing")
	}
	return b.IsMissing(a)
}

// ValueCount returns how many values the field holds.
func (a Accessor) ValueCount() (int, error) {
	b, err := a.behavior()
	if err != nil {
		return 0, err
	}
	if b.ValueCount == nil {
		return 0, a.unsupported("value_count")
	}
	return b.ValueCount(a)
}

// LengthInBits returns the encoded length in bits.
func (a Accessor) LengthInBits() int64 {
	if !a.Valid() {
		return 0
	}
	b := a.node().behavior
	if b.LengthInBits == nil {
		return a.Length() * 8
	}
	return b.LengthInBits(a)
}

// Compare reports whether a and other hold the same value.
func (a Accessor) Compare(other Accessor) (bool, error) {
	b, err := a.behavior()
	if err != nil {
		return false, err
	}
	if b.Compare == nil {
		return false, a.unsupported("compare")
	}
	return b.Compare(a, other)
}

// Dump renders the value for listings.
func (a Accessor) Dump() (string, error) {
	b, err := a.behavior()
	if err != nil {
		return "", err
	}
	if b.Dump == nil {
		return "", a.unsupported("dump")
	}
	return b.Dump(a)
}
