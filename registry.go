package grib

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Behavior is the operation table of a kind. Every slot is optional: a slot left nil is
// copied from the parent kind when the kind is registered, and a slot that is still nil
// after that fails with ErrUnsupportedOperation when invoked.
//
// Operations receive the Accessor they act on. Unpack operations must not change the
// message, with the single exception of the octet-number kind, which mirrors its own
// offset into another field.
type Behavior struct {
	// Type is the intrinsic value type. TypeUndefined inherits the parent's.
	Type ValueType
	// Computed marks kinds whose value is derived from the rest of the message rather
	// than stored. It is not inherited.
	Computed bool

	// Init captures resolved parameters and sets the encoded length. It runs when the
	// accessor is built and again whenever the accessor is rebuilt after a field it
	// references changed.
	Init func(a Accessor) error

	UnpackInteger func(a Accessor) ([]int64, error)
	PackInteger   func(a Accessor, v []int64) error
	UnpackFloat   func(a Accessor) ([]float64, error)
	PackFloat     func(a Accessor, v []float64) error
	UnpackText    func(a Accessor) (string, error)
	PackText      func(a Accessor, s string) error
	UnpackBytes   func(a Accessor) ([]byte, error)
	PackBytes     func(a Accessor, p []byte) error

	// ValueCount is the number of values the accessor holds.
	ValueCount func(a Accessor) (int, error)
	// LengthInBits is the encoded length in bits.
	LengthInBits func(a Accessor) int64

	IsMissing   func(a Accessor) (bool, error)
	PackMissing func(a Accessor) error

	// Compare reports whether a and b hold the same value.
	Compare func(a, b Accessor) (bool, error)
	// Dump renders the value for listings.
	Dump func(a Accessor) (string, error)

	// Rederive recomputes a derived value after a relocation moved bytes around.
	Rederive func(a Accessor) error
	// Rebuild brings a stale accessor back in line with the fields it references.
	Rebuild func(a Accessor) error

	kind   Kind
	parent Kind
}

// Kind returns the tag the behavior was registered under.
func (b *Behavior) Kind() Kind { return b.kind }

// Parent returns the kind the behavior inherits from, empty for a root kind.
func (b *Behavior) Parent() Kind { return b.parent }

// inherit copies every unset slot from p.
func (b *Behavior) inherit(p *Behavior) {
	if b.Type == TypeUndefined {
		b.Type = p.Type
	}
	if b.Init == nil {
		b.Init = p.Init
	}
	if b.UnpackInteger == nil {
		b.UnpackInteger = p.UnpackInteger
	}
	if b.PackInteger == nil {
		b.PackInteger = p.PackInteger
	}
	if b.UnpackFloat == nil {
		b.UnpackFloat = p.UnpackFloat
	}
	if b.PackFloat == nil {
		b.PackFloat = p.PackFloat
	}
	if b.UnpackText == nil {
		b.UnpackText = p.UnpackText
	}
	if b.PackText == nil {
		b.PackText = p.PackText
	}
	if b.UnpackBytes == nil {
		b.UnpackBytes = p.UnpackBytes
	}
	if b.PackBytes == nil {
		b.PackBytes = p.PackBytes
	}
	if b.ValueCount == nil {
		b.ValueCount = p.ValueCount
	}
	if b.LengthInBits == nil {
		b.LengthInBits = p.LengthInBits
	}
	if b.IsMissing == nil {
		b.IsMissing = p.IsMissing
	}
	if b.PackMissing == nil {
		b.PackMissing = p.PackMissing
	}
	if b.Compare == nil {
		b.Compare = p.Compare
	}
	if b.Dump == nil {
		b.Dump = p.Dump
	}
	if b.Rederive == nil {
		b.Rederive = p.Rederive
	}
	if b.Rebuild == nil {
		b.Rebuild = p.Rebuild
	}
}

// Registry maps kind tags to behaviors. Lookups are safe for concurrent use; registration
// is expected to finish before messages are opened against the registry.
type Registry struct {
	kinds *xsync.Map[Kind, *Behavior]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: xsync.NewMap[Kind, *Behavior]()}
}

// Register installs behavior b under kind. A non-empty parent must already be registered;
// its slots fill every slot b leaves unset, once, here.
func (r *Registry) Register(kind Kind, b Behavior, parent Kind) error {
	if kind == "" {
		return fmt.Errorf("%w: empty kind tag", ErrInvalidDefinition)
	}
	if parent != "" {
		p, ok := r.kinds.Load(parent)
		if !ok {
			return fmt.Errorf("%w: parent %q of %q", ErrUnknownKind, parent, kind)
		}
		b.inherit(p)
	}
	b.kind, b.parent = kind, parent
	if _, loaded := r.kinds.LoadOrStore(kind, &b); loaded {
		return fmt.Errorf("%w: %q", ErrKindExists, kind)
	}
	return nil
}

// Resolve returns the behavior registered for kind.
func (r *Registry) Resolve(kind Kind) (*Behavior, error) {
	b, ok := r.kinds.Load(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return b, nil
}

// Kinds returns the number of registered kinds.
func (r *Registry) Kinds() int { return r.kinds.Size() }

// Clone returns an independent registry holding the same kinds, so callers can add kinds
// without touching the process-wide default.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	r.kinds.Range(func(k Kind, b *Behavior) bool {
		c.kinds.Store(k, b)
		return true
	})
	return c
}

// DefaultRegistry returns the process-wide registry holding the built-in kinds.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	if err := registerBuiltins(r); err != nil {
		panic("grib: built-in kind registration failed: " + err.Error())
	}
	return r
})
