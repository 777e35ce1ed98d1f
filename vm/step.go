package vm

import (
	"fmt"

	"github.com/lookbusy1344/riscv-emulator/isa"
)

// fetch reads the instruction at the virtual address va, first as a
// halfword to detect a compressed (16-bit) encoding per the low two bits,
// falling back to a full word fetch otherwise. Quadrant 3 (low bits == 11)
// always means a 32-bit instruction. va is translated to a physical
// address before either memory access.
func (m *Machine) fetch(h *Hart, va uint64) (word isa.Word, compressed bool, err error) {
	pc, err := h.Translate(va)
	if err != nil {
		return 0, false, err
	}
	half, err := m.Memory.FetchHalf(pc)
	if err != nil {
		return 0, false, trap(FetchOutOfBounds, va)
	}
	if half&0x3 != 0x3 {
		return isa.Word(half), true, nil
	}
	full, err := m.Memory.LoadWord(pc)
	if err != nil {
		return 0, false, trap(FetchOutOfBounds, va)
	}
	return isa.Word(full), false, nil
}

// step fetches, decodes, and executes exactly one instruction on h. When
// dryRun is true, tracing is suppressed (WhatIf callers restore state
// themselves and don't want a phantom trace line).
func (m *Machine) step(h *Hart, dryRun bool) error {
	pc := h.PC
	word, compressed, err := m.fetch(h, pc)
	if err != nil {
		return err
	}

	var kind isa.Kind
	width := uint64(4)
	if compressed {
		kind = isa.DecodeCompressed(uint16(word))
		width = 2
	} else {
		kind = isa.Decode(word)
	}

	if m.Trace != nil && !dryRun {
		fmt.Fprintf(m.Trace, "%08x: %-12s %08x\n", pc, kind, uint32(word))
	}

	if kind == isa.Illegal {
		return trap(IllegalInstruction, uint64(word))
	}
	if kind == isa.Unimplemented {
		return trap(UnimplementedInstruction, uint64(word))
	}

	branched, err := m.execute(h, kind, word, pc)
	if err != nil {
		return err
	}
	if !branched {
		h.IncrementPC(width)
	}
	h.Cycles++
	return nil
}

// execute dispatches one decoded instruction, returning true if it set
// the program counter itself (a taken branch/jump), in which case step
// must not also advance PC by the instruction width.
func (m *Machine) execute(h *Hart, kind isa.Kind, w isa.Word, pc uint64) (branched bool, err error) {
	switch {
	case kind.IsCompressed():
		return m.executeCompressed(h, kind, w, pc)
	case isIntKind(kind):
		return m.executeInt(h, kind, w, pc)
	case isMKind(kind):
		return false, m.executeM(h, kind, w)
	case isAKind(kind):
		return false, m.executeA(h, kind, w)
	case isFKind(kind):
		return false, m.executeF(h, kind, w)
	default:
		return false, trap(UnimplementedInstruction, uint64(w))
	}
}
