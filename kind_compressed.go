package grib

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression algorithms of the compressed kind.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// The zstd encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls, so one
// of each serves every message.
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	})
)

func compress(alg string, p []byte) ([]byte, error) {
	switch alg {
	case CompressionNone:
		return bytes.Clone(p), nil
	case CompressionZstd:
		enc, err := zstdEncoder()
		if err != nil {
			return nil, err
		}
		return enc.EncodeAll(p, nil), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(p); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrInvalidDefinition, alg)
	}
}

func decompress(alg string, p []byte) ([]byte, error) {
	if len(p) == 0 {
		return []byte{}, nil
	}
	switch alg {
	case CompressionNone:
		return bytes.Clone(p), nil
	case CompressionZstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		return dec.DecodeAll(p, nil)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(p)))
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrInvalidDefinition, alg)
	}
}

// compressed stores its payload compressed. Parameter 0 is the stored length, parameter 1
// the algorithm. The byte and text views see the decompressed content.
var compressedBehavior = Behavior{
	Init: func(a Accessor) error {
		n, err := a.ArgInt(0)
		if err != nil {
			return err
		}
		alg, err := a.ArgText(1)
		if err != nil {
			return err
		}
		switch alg {
		case CompressionNone, CompressionZstd, CompressionLZ4:
		default:
			return fmt.Errorf("%w: %q uses unknown compression %q", ErrInvalidDefinition, a.Name(), alg)
		}
		if n < 0 {
			return fmt.Errorf("%w: %q has stored length %d", ErrValueOutOfRange, a.Name(), n)
		}
		a.SetState(alg)
		a.SetLength(n)
		return nil
	},
	UnpackBytes: func(a Accessor) ([]byte, error) {
		p, err := decompress(a.State().(string), a.Raw())
		if err != nil {
			return nil, fmt.Errorf("decompress %q: %w", a.Name(), err)
		}
		return p, nil
	},
	PackBytes: func(a Accessor, p []byte) error {
		c, err := compress(a.State().(string), p)
		if err != nil {
			return err
		}
		if !a.ArgIsRef(0) {
			if want, _ := a.ArgInt(0); want != int64(len(c)) {
				return fmt.Errorf("%w: %q stores exactly %d bytes, payload compresses to %d", ErrValueOutOfRange, a.Name(), want, len(c))
			}
		}
		if err := a.Resize(int64(len(c))); err != nil {
			return err
		}
		copy(a.Raw(), c)
		if !a.ArgIsRef(0) {
			return nil
		}
		ref, err := a.ArgRef(0)
		if err != nil {
			return err
		}
		return ref.PackInteger([]int64{int64(len(c))})
	},
}
