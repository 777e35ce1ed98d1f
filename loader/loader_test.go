package loader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	elfHeaderSize = 64
	phdrSize      = 56

	etExec   = 2
	emRISCV  = 243
	ptLoad   = 1
	pfR      = 4
	pfW      = 2
	pfX      = 1
)

// buildMinimalELF assembles a 64-bit little-endian RISC-V ET_EXEC image
// with a single PT_LOAD segment carrying code, and writes it to a
// temporary file. It deliberately omits section headers and a symbol
// table: debug/elf tolerates shnum == 0.
func buildMinimalELF(t *testing.T, entry uint64, loadAddr uint64, code []byte) string {
	t.Helper()

	phoff := uint64(elfHeaderSize)
	dataOff := phoff + phdrSize

	hdr := make([]byte, elfHeaderSize)
	copy(hdr[0:4], []byte{0x7f, 'E', 'L', 'F'})
	hdr[4] = 2 // ELFCLASS64
	hdr[5] = 1 // ELFDATA2LSB
	hdr[6] = 1 // EV_CURRENT
	binary.LittleEndian.PutUint16(hdr[16:], etExec)
	binary.LittleEndian.PutUint16(hdr[18:], emRISCV)
	binary.LittleEndian.PutUint32(hdr[20:], 1) // e_version
	binary.LittleEndian.PutUint64(hdr[24:], entry)
	binary.LittleEndian.PutUint64(hdr[32:], phoff)
	binary.LittleEndian.PutUint64(hdr[40:], 0) // e_shoff
	binary.LittleEndian.PutUint32(hdr[48:], 0) // e_flags
	binary.LittleEndian.PutUint16(hdr[52:], elfHeaderSize) // e_ehsize
	binary.LittleEndian.PutUint16(hdr[54:], phdrSize)      // e_phentsize
	binary.LittleEndian.PutUint16(hdr[56:], 1)             // e_phnum
	binary.LittleEndian.PutUint16(hdr[58:], 0)             // e_shentsize
	binary.LittleEndian.PutUint16(hdr[60:], 0)             // e_shnum
	binary.LittleEndian.PutUint16(hdr[62:], 0)             // e_shstrndx

	phdr := make([]byte, phdrSize)
	binary.LittleEndian.PutUint32(phdr[0:], ptLoad)
	binary.LittleEndian.PutUint32(phdr[4:], pfR|pfX) // p_flags
	binary.LittleEndian.PutUint64(phdr[8:], dataOff) // p_offset
	binary.LittleEndian.PutUint64(phdr[16:], loadAddr) // p_vaddr
	binary.LittleEndian.PutUint64(phdr[24:], loadAddr) // p_paddr
	binary.LittleEndian.PutUint64(phdr[32:], uint64(len(code))) // p_filesz
	binary.LittleEndian.PutUint64(phdr[40:], uint64(len(code))) // p_memsz
	binary.LittleEndian.PutUint64(phdr[48:], 0x1000)            // p_align

	buf := append(hdr, phdr...)
	buf = append(buf, code...)

	path := filepath.Join(t.TempDir(), "image.elf")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("writing test ELF: %v", err)
	}
	return path
}

func TestLoadBasicImage(t *testing.T) {
	code := []byte{0x13, 0x00, 0x00, 0x00} // addi x0, x0, 0 (nop)
	path := buildMinimalELF(t, 0x1000, 0x1000, code)

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000), img.Entry)
	require.Len(t, img.Regions, 1)

	r := img.Regions[0]
	assert.Equal(t, uint64(0x1000), r.Addr)
	assert.Equal(t, uint64(len(code)), r.MemLen)
	assert.True(t, r.Readable)
	assert.True(t, r.Executable)
	assert.False(t, r.Writable)
	assert.False(t, img.HasSignatureSymbols, "expected no signature symbols in a plain image")
}

func TestLoadRejectsWrongMachine(t *testing.T) {
	path := buildMinimalELF(t, 0x1000, 0x1000, []byte{0, 0, 0, 0})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	binary.LittleEndian.PutUint16(raw[18:], 0x3e) // EM_X86_64
	require.NoError(t, os.WriteFile(path, raw, 0644))

	_, err = Load(path)
	assert.Error(t, err, "expected Load to reject a non-RISC-V ELF")
}
