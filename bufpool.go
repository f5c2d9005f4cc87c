package grib

import (
	"bytes"
	"sync"
)

// bytesBufPool backs ReadFrom, which has to collect a whole message before decoding it.
var bytesBufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// snapshotPool reuses the byte copies taken before every write. This reduces GC pressure
// on the common path where the write succeeds and the copy is thrown away.
var snapshotPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096)
		return &b
	},
}

func getSnapshotBuf(data []byte) *[]byte {
	b := snapshotPool.Get().(*[]byte)
	*b = append((*b)[:0], data...)
	return b
}

func putSnapshotBuf(b *[]byte) {
	snapshotPool.Put(b)
}
