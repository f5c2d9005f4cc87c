package grib

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// msgBuilder concatenates big-endian test payloads.
type msgBuilder struct{ bytes.Buffer }

func (b *msgBuilder) u8(v uint8) *msgBuilder   { b.WriteByte(v); return b }
func (b *msgBuilder) u16(v uint16) *msgBuilder { b.Write(binary.BigEndian.AppendUint16(nil, v)); return b }
func (b *msgBuilder) u32(v uint32) *msgBuilder { b.Write(binary.BigEndian.AppendUint32(nil, v)); return b }
func (b *msgBuilder) str(s string) *msgBuilder { b.WriteString(s); return b }
func (b *msgBuilder) raw(p ...byte) *msgBuilder {
	b.Write(p)
	return b
}

// spectralFields describes a four-section message with a repeated group of spectral
// bands, a computed data offset, and a resizable value array.
func spectralFields() []FieldSpec {
	ref := RefParam
	n := IntParam
	return []FieldSpec{
		Section("indicator",
			Field(KindASCII, "identifier", n(4)),
			Field(KindUnsigned, "discipline", n(1)).InNamespace("ls"),
			Field(KindUnsigned, "editionNumber", n(1)).InNamespace("ls"),
			Field(KindTotalLength, "totalLength", n(4)),
		),
		Section("product",
			Field(KindSectionLength, "section4Length", n(4)),
			Field(KindUnsigned, "numberOfSection", n(1)),
			Field(KindUnsigned, "offsetBeforeData", n(2)),
			Field(KindUnsigned, "numberOfContributingSpectralBands", n(1)),
			Repeat("bands", ref("numberOfContributingSpectralBands"),
				Field(KindUnsigned, "satelliteSeries", n(2)),
				Field(KindUnsigned, "scaleFactorOfCentralWaveNumber", n(1)),
				Field(KindUnsigned, "scaledValueOfCentralWaveNumber", n(4)),
			),
			Field(KindOctetNumber, "dataOffset", ref("offsetBeforeData"), n(1)),
		),
		Section("data",
			Field(KindSectionLength, "section5Length", n(4)),
			Field(KindUnsigned, "numberOfValues", n(2)),
			Field(KindUnsignedArray, "values", ref("numberOfValues"), n(2), n(16)),
			Field(KindUnsigned, "flags", n(1)),
		),
		Section("end",
			Field(KindASCII, "endMarker", n(4)),
		),
	}
}

func spectralBytes() []byte {
	var b msgBuilder
	b.str("GRIB").u8(0).u8(2).u32(58)
	b.u32(29).u8(4).u16(40).u8(3)
	b.u16(333).u8(0).u32(26870)
	b.u16(334).u8(0).u32(9272)
	b.u16(335).u8(0).u32(555)
	b.u32(15).u16(4).u16(10).u16(20).u16(30).u16(40).u8(0)
	b.str("7777")
	return b.Bytes()
}

// miscFields exercises the scalar kinds.
func miscFields(alg string) []FieldSpec {
	ref := RefParam
	n := IntParam
	return []FieldSpec{
		Field(KindSigned, "neg", n(2)),
		Field(KindIEEEFloat, "ratio", n(4)),
		Field(KindUnsigned, "scaleFactor", n(1)),
		Field(KindUnsigned, "scaledValue", n(4)),
		Field(KindScaledValue, "wavelength", ref("scaleFactor"), ref("scaledValue")),
		Field(KindUnsigned, "mask", n(1)),
		Field(KindBit, "flagBit", ref("mask"), n(2)),
		Field(KindUnsigned, "nPacked", n(1)),
		Field(KindBits, "packed", ref("nPacked"), n(3)),
		Field(KindUnsigned, "level", n(2)).WithFlags(FlagCanBeMissing),
		Field(KindConstant, "version", n(7)),
		Field(KindBytes, "reserved", n(2)),
		Field(KindDigest, "checksum", ref("neg"), ref("reserved")),
		Field(KindUnsigned, "payloadLength", n(4)),
		Field(KindCompressed, "payload", ref("payloadLength"), TextParam(alg)),
		Field(KindASCII, "tail", n(4)),
	}
}

func miscBytes() []byte {
	var b msgBuilder
	b.raw(0x80, 0x05)
	b.raw(0x3f, 0xc0, 0x00, 0x00)
	b.u8(2).u32(12345)
	b.u8(0x20)
	b.u8(3).raw(0xab, 0x80)
	b.raw(0xff, 0xff)
	b.raw(0xde, 0xad)
	b.u32(0)
	b.str("7777")
	return b.Bytes()
}

func openSpectral(t *testing.T, opts ...Option) *Message {
	t.Helper()
	m, err := Open(spectralFields(), spectralBytes(), opts...)
	require.NoError(t, err)
	return m
}

// checkLayout verifies that every section spans exactly its children, siblings are
// contiguous, and the root spans the whole buffer.
func checkLayout(t *testing.T, m *Message) {
	t.Helper()
	require.EqualValues(t, m.buf.Len(), m.nodes[m.root].length, "root length")
	for id := m.root; id != NoNode; id = m.nextInOrder(id) {
		n := &m.nodes[id]
		require.True(t, n.live, "retired node %d reachable", id)
		if !n.isContainer() {
			continue
		}
		off := n.offset
		for _, c := range m.children(id) {
			require.Equal(t, off, m.nodes[c].offset, "offset of %q", m.nodes[c].name())
			off += m.nodes[c].length
		}
		require.Equal(t, n.offset+n.length, off, "length of section %q", n.name())
	}
}
