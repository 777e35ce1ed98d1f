package isa

// Word is a 32-bit RISC-V instruction word. A compressed (16-bit) RVC
// instruction is represented by placing the halfword in the low 16 bits
// and zeroing the high 16 bits; the fetch width is reported separately by
// the fetcher (vm's fetch returns a compressed flag alongside the word).
type Word uint32

// Instruction field bit positions shared across the R/I/S/B/U/J formats.
// These mirror the RISC-V unprivileged ISA manual's instruction encoding
// chapter.
const (
	opcodeMask = 0x7f
	rdShift    = 7
	rdMask     = 0x1f
	funct3Shift = 12
	funct3Mask  = 0x7
	rs1Shift    = 15
	rs1Mask     = 0x1f
	rs2Shift    = 20
	rs2Mask     = 0x1f
	rs3Shift    = 27
	rs3Mask     = 0x1f
	funct7Shift = 25
	funct7Mask  = 0x7f
	funct2Shift = 25
	funct2Mask  = 0x3
	csrShift    = 20
	csrMask     = 0xfff
)

// Opcode returns bits 6:0.
func (w Word) Opcode() uint32 { return uint32(w) & opcodeMask }

// Funct3 returns bits 14:12.
func (w Word) Funct3() uint32 { return (uint32(w) >> funct3Shift) & funct3Mask }

// Funct7 returns bits 31:25.
func (w Word) Funct7() uint32 { return (uint32(w) >> funct7Shift) & funct7Mask }

// Funct2 returns bits 26:25, used by the R4-type FP fused multiply-add forms.
func (w Word) Funct2() uint32 { return (uint32(w) >> funct2Shift) & funct2Mask }

// Rd returns the destination register field, bits 11:7.
func (w Word) Rd() Register { return Register((uint32(w) >> rdShift) & rdMask) }

// Rs1 returns the first source register field, bits 19:15.
func (w Word) Rs1() Register { return Register((uint32(w) >> rs1Shift) & rs1Mask) }

// Rs2 returns the second source register field, bits 24:20.
func (w Word) Rs2() Register { return Register((uint32(w) >> rs2Shift) & rs2Mask) }

// Rs3 returns the third source register field (R4-type FMA), bits 31:27.
func (w Word) Rs3() Register { return Register((uint32(w) >> rs3Shift) & rs3Mask) }

// FRd, FRs1, FRs2, FRs3 reinterpret the same bit positions as FP register
// numbers; RISC-V shares the encoding between integer and FP register
// fields and distinguishes them only by opcode.
func (w Word) FRd() FRegister  { return FRegister(w.Rd()) }
func (w Word) FRs1() FRegister { return FRegister(w.Rs1()) }
func (w Word) FRs2() FRegister { return FRegister(w.Rs2()) }
func (w Word) FRs3() FRegister { return FRegister(w.Rs3()) }

// CSR returns the 12-bit CSR number field, bits 31:20.
func (w Word) CSR() uint32 { return (uint32(w) >> csrShift) & csrMask }

// RM returns the rounding-mode field, bits 14:12 (same bits as Funct3 on
// FP instructions).
func (w Word) RM() uint32 { return w.Funct3() }

// sext sign-extends the low `bits` bits of v to a full 64-bit signed value.
func sext(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

// ImmI assembles and sign-extends the I-type immediate: imm[11:0] = word[31:20].
func (w Word) ImmI() int64 {
	return sext(uint64(w)>>20, 12)
}

// ImmS assembles and sign-extends the S-type immediate:
// imm[11:5] = word[31:25], imm[4:0] = word[11:7].
func (w Word) ImmS() int64 {
	hi := (uint64(w) >> 25) & 0x7f
	lo := (uint64(w) >> 7) & 0x1f
	return sext(hi<<5|lo, 12)
}

// ImmB assembles and sign-extends the B-type immediate:
// imm[12]=word[31], imm[11]=word[7], imm[10:5]=word[30:25], imm[4:1]=word[11:8], imm[0]=0.
func (w Word) ImmB() int64 {
	u := uint64(w)
	bit12 := (u >> 31) & 0x1
	bit11 := (u >> 7) & 0x1
	bits10_5 := (u >> 25) & 0x3f
	bits4_1 := (u >> 8) & 0xf
	v := bit12<<12 | bit11<<11 | bits10_5<<5 | bits4_1<<1
	return sext(v, 13)
}

// ImmU assembles the U-type immediate: imm[31:12] = word[31:12], imm[11:0] = 0.
// Sign-extension only matters for the 64-bit widening, so it is folded in here.
func (w Word) ImmU() int64 {
	return sext(uint64(w)&0xfffff000, 32)
}

// ImmJ assembles and sign-extends the J-type immediate:
// imm[20]=word[31], imm[19:12]=word[19:12], imm[11]=word[20], imm[10:1]=word[30:21], imm[0]=0.
func (w Word) ImmJ() int64 {
	u := uint64(w)
	bit20 := (u >> 31) & 0x1
	bits19_12 := (u >> 12) & 0xff
	bit11 := (u >> 20) & 0x1
	bits10_1 := (u >> 21) & 0x3ff
	v := bit20<<20 | bits19_12<<12 | bit11<<11 | bits10_1<<1
	return sext(v, 21)
}

// Shamt returns the 6-bit RV64 shift amount (bits 25:20) used by
// SLLI/SRLI/SRAI and the register-register shifts derived from it.
func (w Word) Shamt() uint32 { return (uint32(w) >> 20) & 0x3f }

// Shamt32 returns the 5-bit shift amount (bits 24:20) used by the
// word-width (…IW) shift-immediate instructions.
func (w Word) Shamt32() uint32 { return (uint32(w) >> 20) & 0x1f }
