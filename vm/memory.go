package vm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TrapKind identifies one of the architectural exception kinds raised
// during fetch/decode/execute.
type TrapKind int

const (
	FetchOutOfBounds TrapKind = iota
	LoadOutOfBounds
	StoreOutOfBounds
	UnimplementedInstruction
	IllegalInstruction
	UnknownCSR
	Breakpoint
	EnvironmentCall
)

func (k TrapKind) String() string {
	switch k {
	case FetchOutOfBounds:
		return "fetch out of bounds"
	case LoadOutOfBounds:
		return "load out of bounds"
	case StoreOutOfBounds:
		return "store out of bounds"
	case UnimplementedInstruction:
		return "unimplemented instruction"
	case IllegalInstruction:
		return "illegal instruction"
	case UnknownCSR:
		return "unknown csr"
	case Breakpoint:
		return "breakpoint"
	case EnvironmentCall:
		return "environment call"
	default:
		return "unknown trap"
	}
}

// Trap is the error type returned for every architectural fault. Value
// holds the faulting address for memory/fetch traps, or the raw
// instruction/CSR encoding for decode traps.
type Trap struct {
	Kind  TrapKind
	Value uint64
}

func (t *Trap) Error() string {
	return fmt.Sprintf("%s (0x%x)", t.Kind, t.Value)
}

func trap(kind TrapKind, value uint64) error {
	return &Trap{Kind: kind, Value: value}
}

// pageSize is the host page granularity memory allocations round up to.
const pageSize = 4096

// Memory is the flat, page-aligned physical memory backing a Machine: one
// contiguous byte array with no segmentation or permission model, unlike
// the ARM core this package started from, which partitioned memory into
// named Code/Data/Heap/Stack MemorySegments. An ELF's PT_LOAD regions are
// instead copied directly into this single buffer at their link addresses.
type Memory struct {
	buf []byte
}

// NewMemory allocates a zero-initialized buffer of at least minSize
// bytes, rounded up to the page size.
func NewMemory(minSize uint64) *Memory {
	return &Memory{buf: make([]byte, roundUpPage(minSize))}
}

func roundUpPage(size uint64) uint64 {
	if size == 0 {
		return pageSize
	}
	return (size + pageSize - 1) &^ (pageSize - 1)
}

// Len returns the buffer's total capacity in bytes.
func (m *Memory) Len() uint64 { return uint64(len(m.buf)) }

// Reset zeroes the buffer in place, preserving capacity.
func (m *Memory) Reset() {
	for i := range m.buf {
		m.buf[i] = 0
	}
}

// inBounds reports whether an access of the given width starting at addr
// stays within the buffer. The boundary check is addr+width >= len(buf),
// not addr+width > len(buf): a width-W access ending exactly on the last
// byte still faults. This preserves the behavior of the reference core
// this module targets rather than the more permissive `>` form.
func (m *Memory) inBounds(addr, width uint64) bool {
	end := addr + width
	if end < addr {
		return false
	}
	return end < uint64(len(m.buf))
}

func (m *Memory) LoadByte(addr uint64) (uint8, error) {
	if !m.inBounds(addr, 1) {
		return 0, trap(LoadOutOfBounds, addr)
	}
	return m.buf[addr], nil
}

func (m *Memory) LoadHalf(addr uint64) (uint16, error) {
	if !m.inBounds(addr, 2) {
		return 0, trap(LoadOutOfBounds, addr)
	}
	return binary.LittleEndian.Uint16(m.buf[addr:]), nil
}

// FetchHalf reads a halfword for the compressed-instruction-detection
// probe in the fetch path. Unlike LoadHalf, it allows an access ending
// exactly on the last byte of the buffer: the compressed decoder only
// ever consumes these two bytes, never a trailing full word, so the
// true last halfword of memory must still be fetchable even though a
// generic 2-byte load ending there is rejected by inBounds.
func (m *Memory) FetchHalf(addr uint64) (uint16, error) {
	end := addr + 2
	if end < addr || end > uint64(len(m.buf)) {
		return 0, trap(FetchOutOfBounds, addr)
	}
	return binary.LittleEndian.Uint16(m.buf[addr:]), nil
}

func (m *Memory) LoadWord(addr uint64) (uint32, error) {
	if !m.inBounds(addr, 4) {
		return 0, trap(LoadOutOfBounds, addr)
	}
	return binary.LittleEndian.Uint32(m.buf[addr:]), nil
}

func (m *Memory) LoadDouble(addr uint64) (uint64, error) {
	if !m.inBounds(addr, 8) {
		return 0, trap(LoadOutOfBounds, addr)
	}
	return binary.LittleEndian.Uint64(m.buf[addr:]), nil
}

func (m *Memory) StoreByte(addr uint64, v uint8) error {
	if !m.inBounds(addr, 1) {
		return trap(StoreOutOfBounds, addr)
	}
	m.buf[addr] = v
	return nil
}

func (m *Memory) StoreHalf(addr uint64, v uint16) error {
	if !m.inBounds(addr, 2) {
		return trap(StoreOutOfBounds, addr)
	}
	binary.LittleEndian.PutUint16(m.buf[addr:], v)
	return nil
}

func (m *Memory) StoreWord(addr uint64, v uint32) error {
	if !m.inBounds(addr, 4) {
		return trap(StoreOutOfBounds, addr)
	}
	binary.LittleEndian.PutUint32(m.buf[addr:], v)
	return nil
}

func (m *Memory) StoreDouble(addr uint64, v uint64) error {
	if !m.inBounds(addr, 8) {
		return trap(StoreOutOfBounds, addr)
	}
	binary.LittleEndian.PutUint64(m.buf[addr:], v)
	return nil
}

// LoadRegion describes one loadable section of an executable image: a
// contiguous file-backed prefix followed by zero-filled padding out to
// MemLen, placed at Addr.
type LoadRegion struct {
	Addr       uint64
	MemLen     uint64
	Source     []byte // length <= MemLen; the rest is zero-filled
	Readable   bool
	Writable   bool
	Executable bool
}

// LoadRegions copies each region's source bytes into the buffer at its
// load address, zero-extending to MemLen.
func (m *Memory) LoadRegions(regions []LoadRegion) error {
	for _, r := range regions {
		if r.Addr+r.MemLen > uint64(len(m.buf)) {
			return trap(StoreOutOfBounds, r.Addr)
		}
		n := copy(m.buf[r.Addr:r.Addr+r.MemLen], r.Source)
		for i := r.Addr + uint64(n); i < r.Addr+r.MemLen; i++ {
			m.buf[i] = 0
		}
	}
	return nil
}

// DumpHex writes [start, end) as one 8-hex-digit little-endian 32-bit
// word per line, the riscof compliance-mode signature format. end-start
// must be a non-negative multiple of 4.
func (m *Memory) DumpHex(w io.Writer, start, end uint64) error {
	if end < start || (end-start)%4 != 0 {
		return fmt.Errorf("signature range [0x%x, 0x%x) is not word-aligned in length", start, end)
	}
	for addr := start; addr < end; addr += 4 {
		word, err := m.LoadWord(addr)
		if err != nil {
			return fmt.Errorf("reading signature word at 0x%x: %w", addr, err)
		}
		if _, err := fmt.Fprintf(w, "%08x\n", word); err != nil {
			return err
		}
	}
	return nil
}
