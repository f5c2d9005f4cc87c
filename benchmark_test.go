package grib

import "testing"

func BenchmarkOpen(b *testing.B) {
	fields, data := spectralFields(), spectralBytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Open(fields, data)
	}
}

func BenchmarkGetInt(b *testing.B) {
	m, err := Open(spectralFields(), spectralBytes())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.GetInt("#3#scaledValueOfCentralWaveNumber")
	}
}

func BenchmarkSetIntInPlace(b *testing.B) {
	m, err := Open(spectralFields(), spectralBytes())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.SetInt("flags", int64(i&0x7f))
	}
}

// Every iteration grows the band group and shrinks it back, relocating the tail twice.
func BenchmarkResizeRepeat(b *testing.B) {
	m, err := Open(spectralFields(), spectralBytes())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.SetInt("numberOfContributingSpectralBands", 9)
		_ = m.SetInt("numberOfContributingSpectralBands", 3)
	}
}

func BenchmarkMarshalTo(b *testing.B) {
	m, err := Open(spectralFields(), spectralBytes())
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, m.Size())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.MarshalTo(buf)
	}
}
