package isa

import "testing"

func TestDecodeCompressedQuadrant1(t *testing.T) {
	// C.LI x10, 5: funct3=010, imm[5]=0, rd=10, imm[4:0]=5, quadrant=01.
	w := Word(0b010<<13 | 10<<7 | 5<<2 | 0b01)
	if k := DecodeCompressed(uint16(w)); k != CLI {
		t.Errorf("Decode(%#x) = %v, want CLI", uint16(w), k)
	}
	if got := w.CIAddiImm(); got != 5 {
		t.Errorf("CIAddiImm() = %d, want 5", got)
	}
	if got := w.CIRd(); got != 10 {
		t.Errorf("CIRd() = %d, want 10", got)
	}
}

func TestDecodeCompressedAllZeroIsIllegal(t *testing.T) {
	// An all-zero 16-bit word is the canonical illegal C.ADDI4SPN encoding.
	if k := DecodeCompressed(0); k != Illegal {
		t.Errorf("Decode(0) = %v, want Illegal", k)
	}
}

func TestDecodeCompressedCNopVsCAddi(t *testing.T) {
	// quadrant 1, funct3 0b000: rd==0 is C.NOP, rd!=0 is C.ADDI.
	nop := Word(0b000<<13 | 0<<7 | 0b01)
	if k := DecodeCompressed(uint16(nop)); k != CNOP {
		t.Errorf("Decode(nop) = %v, want CNOP", k)
	}
	addi := Word(0b000<<13 | 1<<7 | 0b01)
	if k := DecodeCompressed(uint16(addi)); k != CADDI {
		t.Errorf("Decode(addi) = %v, want CADDI", k)
	}
}

func TestQuadrant3NeverCompressed(t *testing.T) {
	// Quadrant 3 (low bits == 0b11) marks a 32-bit instruction; the
	// compressed decoder never classifies it as anything but Illegal.
	if k := DecodeCompressed(0b11); k != Illegal {
		t.Errorf("Decode(quadrant 3) = %v, want Illegal", k)
	}
}
