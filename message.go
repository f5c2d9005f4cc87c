package grib

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// Message is one decoded message: the buffer it owns and the accessor tree laid over it.
//
// A Message is not safe for concurrent use. Callers sharing one across goroutines must hold
// a single lock around each resolve-then-mutate sequence, since a resize touches the whole
// tree. Independent messages share nothing but their read-only definition and registry.
type Message struct {
	fields []FieldSpec
	top    FieldSpec // synthetic section holding fields
	reg    *Registry
	buf    *Buffer
	log    zerolog.Logger

	nodes []node
	root  NodeID
	deps  map[NodeID][]NodeID // referenced field -> fields built from its value
	index map[string][]NodeID // name -> accessors in traversal order; nil when stale

	dirty     bool // some node is stale
	relocated bool // offsets moved since the last rederive
	growing   int  // > 0 while new zero-filled fields are being built
	closed    bool
}

type options struct {
	registry *Registry
	capacity int
	logger   zerolog.Logger
}

// Option configures Open.
type Option func(*options)

// WithRegistry opens the message against r instead of DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithCapacity caps the message size in bytes. Writes that would grow the message past it
// fail with ErrBufferCapacityExceeded and leave the message unchanged.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithLogger sets the logger used for debug events (relocations, rebuilds, rollbacks).
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open builds the accessor tree for data as described by fields. data is copied; the
// message owns its buffer from here on.
func Open(fields []FieldSpec, data []byte, opts ...Option) (*Message, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	if o.capacity > 0 && len(data) > o.capacity {
		return nil, fmt.Errorf("%w: message is %d bytes, capacity %d", ErrBufferCapacityExceeded, len(data), o.capacity)
	}

	m := &Message{
		fields: fields,
		reg:    o.registry,
		buf:    NewBuffer(data, o.capacity),
		log:    o.logger,
		deps:   make(map[NodeID][]NodeID),
		root:   NoNode,
	}
	m.top = FieldSpec{Kind: KindSection, Children: fields}

	// References bind by walking the tree while it is still being built, so the root slot
	// has to be known before its Init runs. It is always the first one allocated.
	m.root = NodeID(len(m.nodes))
	if _, err := m.instantiateOne(NoNode, &m.top, 0); err != nil {
		return nil, err
	}
	if got := m.nodes[m.root].length; got != int64(m.buf.Len()) {
		return nil, fmt.Errorf("%w: definition covers %d of %d bytes", ErrTrailingData, got, m.buf.Len())
	}
	m.log.Debug().Int("size", m.buf.Len()).Int("accessors", len(m.nodes)).Msg("message opened")
	return m, nil
}

// Close releases the buffer and the accessor tree. Every later call fails with ErrClosed.
func (m *Message) Close() error {
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	m.buf = nil
	m.nodes = nil
	m.deps = nil
	m.index = nil
	return nil
}

// Fields returns the definition the message was opened with.
func (m *Message) Fields() []FieldSpec { return m.fields }

// Root returns the accessor of the synthetic section that holds the whole message.
func (m *Message) Root() Accessor { return Accessor{m, m.root} }

// Size returns the encoded message length in bytes.
func (m *Message) Size() int {
	if m.closed {
		return 0
	}
	return m.buf.Len()
}

// Bytes returns a copy of the encoded message.
func (m *Message) Bytes() ([]byte, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if err := m.refresh(); err != nil {
		return nil, err
	}
	return slices.Clone(m.buf.Bytes()), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	if m.closed {
		return nil, ErrClosed
	}
	// Pending rebuilds can change Size, which the generic path reads first.
	if err := m.refresh(); err != nil {
		return nil, err
	}
	return MarshalBinaryGeneric(m)
}

// MarshalTo copies the encoded message into p.
func (m *Message) MarshalTo(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if err := m.refresh(); err != nil {
		return 0, err
	}
	return MarshalToGeneric(m, p)
}

// WriteTo implements io.WriterTo.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if err := m.refresh(); err != nil {
		return 0, err
	}
	return NewBytesReader(m.buf.Bytes()).WriteTo(w)
}

// Clone returns an independent deep copy of the message.
func (m *Message) Clone() (*Message, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if err := m.refresh(); err != nil {
		return nil, err
	}
	c := &Message{
		fields: m.fields,
		reg:    m.reg,
		buf:    NewBuffer(m.buf.Bytes(), m.buf.Limit()),
		log:    m.log,
		nodes:  slices.Clone(m.nodes),
		root:   m.root,
		deps:   make(map[NodeID][]NodeID, len(m.deps)),
	}
	c.top = m.top
	for ref, ds := range maps.All(m.deps) {
		c.deps[ref] = slices.Clone(ds)
	}
	// The root points at the original's synthetic section; repoint it at the clone's own.
	c.nodes[c.root].spec = &c.top
	return c, nil
}

// SectionInfo is one top-level region of the message.
type SectionInfo struct {
	Name   string
	Offset int64
	Length int64
}

// Sections returns the top-level sections in order. Their lengths sum to Size.
func (m *Message) Sections() []SectionInfo {
	if m.closed {
		return nil
	}
	var out []SectionInfo
	for _, id := range m.children(m.root) {
		n := &m.nodes[id]
		out = append(out, SectionInfo{Name: n.name(), Offset: n.offset, Length: n.length})
	}
	return out
}
