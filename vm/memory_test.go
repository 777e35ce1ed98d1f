package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory(4096)

	cases := []struct {
		name  string
		store func(addr uint64) error
		load  func(addr uint64) (uint64, error)
	}{
		{"byte", func(a uint64) error { return m.StoreByte(a, 0xAB) }, func(a uint64) (uint64, error) { v, err := m.LoadByte(a); return uint64(v), err }},
		{"half", func(a uint64) error { return m.StoreHalf(a, 0xBEEF) }, func(a uint64) (uint64, error) { v, err := m.LoadHalf(a); return uint64(v), err }},
		{"word", func(a uint64) error { return m.StoreWord(a, 0xDEADBEEF) }, func(a uint64) (uint64, error) { v, err := m.LoadWord(a); return uint64(v), err }},
		{"double", func(a uint64) error { return m.StoreDouble(a, 0x0123456789ABCDEF) }, func(a uint64) (uint64, error) { return m.LoadDouble(a) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			const addr = 100
			require.NoError(t, c.store(addr))
			got, err := c.load(addr)
			require.NoError(t, err)
			want, _ := c.load(addr)
			assert.Equal(t, want, got)
		})
	}
}

func TestMemoryBoundary(t *testing.T) {
	m := NewMemory(4096)
	size := m.Len()

	// The boundary check is addr+width >= len(buf), not addr+width >
	// len(buf): an access ending exactly on the last byte still faults,
	// so the last byte actually reachable by a 1-byte access is size-2.
	assert.NoError(t, m.StoreByte(size-2, 0x42), "store ending one below len should succeed")
	_, err := m.LoadByte(size - 2)
	assert.NoError(t, err, "load ending one below len should succeed")

	_, err = m.LoadByte(size - 1)
	assert.Error(t, err, "access ending exactly at len should fail")

	assert.NoError(t, m.StoreWord(size-5, 0x1), "word store ending one below len should succeed")
	assert.Error(t, m.StoreWord(size-4, 0x1), "word store ending exactly at len should fail")
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory(4096)
	_ = m.StoreWord(10, 0xCAFEBABE)

	m.Reset()
	v, err := m.LoadWord(10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v, "expected zeroed memory after reset")
}

func TestLoadRegionsZeroExtends(t *testing.T) {
	m := NewMemory(4096)
	err := m.LoadRegions([]LoadRegion{
		{Addr: 0, MemLen: 16, Source: []byte{1, 2, 3, 4}},
	})
	require.NoError(t, err)

	for i, want := range []byte{1, 2, 3, 4, 0, 0, 0, 0} {
		b, err := m.LoadByte(uint64(i))
		require.NoError(t, err)
		assert.Equal(t, want, b, "byte %d", i)
	}
}

func TestDumpHex(t *testing.T) {
	m := NewMemory(4096)
	_ = m.StoreWord(0, 0x00000001)
	_ = m.StoreWord(4, 0xdeadbeef)

	var buf []byte
	w := &sliceWriter{buf: &buf}
	require.NoError(t, m.DumpHex(w, 0, 8))

	assert.Equal(t, "00000001\ndeadbeef\n", string(buf))
}

type sliceWriter struct{ buf *[]byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
