// Package loader reads a RISC-V ELF executable and produces the loadable
// regions and symbol addresses a vm.Machine needs to run it.
package loader

import (
	"debug/elf"
	"fmt"

	"github.com/lookbusy1344/riscv-emulator/vm"
)

// Image describes one fully parsed executable: its loadable regions, the
// address execution should start at, and (when present) the symbols a
// riscof-style compliance run needs to locate its signature region.
type Image struct {
	Regions []vm.LoadRegion
	Entry   uint64

	HasSignatureSymbols bool
	BeginSignature      uint64
	EndSignature        uint64
	Tohost              uint64
}

// Load parses path as a 64-bit little-endian RISC-V ELF executable and
// extracts its PT_LOAD segments as loadable regions.
func Load(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ELF %s: %w", path, err)
	}
	defer f.Close()

	if err := validate(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	img := &Image{Entry: f.Entry}

	for _, prog := range f.Progs {
		switch prog.Type {
		case elf.PT_LOAD:
			region, err := regionFromProg(prog)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			img.Regions = append(img.Regions, region)
		case elf.PT_NULL, elf.PT_NOTE, elf.PT_PHDR, elf.PT_GNU_STACK:
			// Not loadable, and carries nothing this core models.
		case 0x70000003: // PT_RISCV_ATTRIBUTES
			// Build-attribute metadata, irrelevant to execution.
		default:
			if prog.Type >= elf.PT_LOOS {
				continue // OS/processor-specific segment this core doesn't need
			}
			return nil, fmt.Errorf("%s: unsupported program header type %s", path, prog.Type)
		}
	}

	resolveSignatureSymbols(f, img)

	return img, nil
}

func validate(f *elf.File) error {
	if f.Class != elf.ELFCLASS64 {
		return fmt.Errorf("unsupported ELF class %s, want ELFCLASS64", f.Class)
	}
	if f.ByteOrder != nil && f.Data != elf.ELFDATA2LSB {
		return fmt.Errorf("unsupported ELF byte order %s, want ELFDATA2LSB", f.Data)
	}
	if f.Machine != elf.EM_RISCV {
		return fmt.Errorf("unsupported ELF machine %s, want EM_RISCV", f.Machine)
	}
	if f.Type != elf.ET_EXEC {
		return fmt.Errorf("unsupported ELF type %s, want ET_EXEC", f.Type)
	}
	return nil
}

func regionFromProg(prog *elf.Prog) (vm.LoadRegion, error) {
	data := make([]byte, prog.Filesz)
	if prog.Filesz > 0 {
		n, err := prog.ReadAt(data, 0)
		if err != nil && uint64(n) != prog.Filesz {
			return vm.LoadRegion{}, fmt.Errorf("reading PT_LOAD segment at 0x%x: %w", prog.Vaddr, err)
		}
	}
	return vm.LoadRegion{
		Addr:       prog.Vaddr,
		MemLen:     prog.Memsz,
		Source:     data,
		Readable:   prog.Flags&elf.PF_R != 0,
		Writable:   prog.Flags&elf.PF_W != 0,
		Executable: prog.Flags&elf.PF_X != 0,
	}, nil
}

// resolveSignatureSymbols looks up begin_signature, end_signature, and
// tohost in the symbol table. Their absence is not an error: only riscof
// compliance-mode images are expected to carry them.
func resolveSignatureSymbols(f *elf.File, img *Image) {
	syms, err := f.Symbols()
	if err != nil {
		return
	}
	var begin, end, tohost uint64
	var haveBegin, haveEnd bool
	for _, s := range syms {
		switch s.Name {
		case "begin_signature":
			begin, haveBegin = s.Value, true
		case "end_signature":
			end, haveEnd = s.Value, true
		case "tohost":
			tohost = s.Value
		}
	}
	if haveBegin && haveEnd {
		img.HasSignatureSymbols = true
		img.BeginSignature = begin
		img.EndSignature = end
		img.Tohost = tohost
	}
}
