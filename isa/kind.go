package isa

// Kind is the closed enumeration of decoded instruction shapes for the
// RV64GC profile (base integer, M, A, F, D, C) plus the Zicsr slice. It is
// the discriminant `decode` returns and `execute` switches on: a total
// function maps every 32-bit (and every 16-bit compressed) word to exactly
// one Kind.
type Kind int

const (
	// Illegal is the canonical illegal encoding (e.g. an all-ones word).
	Illegal Kind = iota
	// Unimplemented is a shape recognized as a valid RISC-V instruction
	// but not modeled by this core (e.g. an OS/PROC-specific extension).
	Unimplemented

	// RV64I: upper-immediate and control transfer
	LUI
	AUIPC
	JAL
	JALR
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU

	// RV64I: loads and stores
	LB
	LH
	LW
	LBU
	LHU
	LWU
	LD
	SB
	SH
	SW
	SD

	// RV64I: immediate and register ALU ops
	ADDI
	SLTI
	SLTIU
	XORI
	ORI
	ANDI
	SLLI
	SRLI
	SRAI
	ADD
	SUB
	SLL
	SLT
	SLTU
	XOR
	SRL
	SRA
	OR
	AND

	// RV64I: word-width (32-bit result) variants
	ADDIW
	SLLIW
	SRLIW
	SRAIW
	ADDW
	SUBW
	SLLW
	SRLW
	SRAW

	// RV64I: fences and environment
	FENCE
	FENCEI
	ECALL
	EBREAK

	// Zicsr
	CSRRW
	CSRRS
	CSRRC
	CSRRWI
	CSRRSI
	CSRRCI

	// RV64M
	MUL
	MULH
	MULHSU
	MULHU
	DIV
	DIVU
	REM
	REMU
	MULW
	DIVW
	DIVUW
	REMW
	REMUW

	// RV64A
	LRW
	SCW
	AMOSWAPW
	AMOADDW
	AMOXORW
	AMOANDW
	AMOORW
	AMOMINW
	AMOMAXW
	AMOMINUW
	AMOMAXUW
	LRD
	SCD
	AMOSWAPD
	AMOADDD
	AMOXORD
	AMOANDD
	AMOORD
	AMOMIND
	AMOMAXD
	AMOMINUD
	AMOMAXUD

	// RV64F (single precision)
	FLW
	FSW
	FMADDS
	FMSUBS
	FNMSUBS
	FNMADDS
	FADDS
	FSUBS
	FMULS
	FDIVS
	FSQRTS
	FSGNJS
	FSGNJNS
	FSGNJXS
	FMINS
	FMAXS
	FCVTWS
	FCVTWUS
	FMVXW
	FEQS
	FLTS
	FLES
	FCLASSS
	FCVTSW
	FCVTSWU
	FMVWX
	FCVTLS
	FCVTLUS
	FCVTSL
	FCVTSLU

	// RV64D (double precision)
	FLD
	FSD
	FMADDD
	FMSUBD
	FNMSUBD
	FNMADDD
	FADDD
	FSUBD
	FMULD
	FDIVD
	FSQRTD
	FSGNJD
	FSGNJND
	FSGNJXD
	FMIND
	FMAXD
	FCVTSD
	FCVTDS
	FEQD
	FLTD
	FLED
	FCLASSD
	FCVTWD
	FCVTWUD
	FCVTDW
	FCVTDWU
	FCVTLD
	FCVTLUD
	FMVXD
	FCVTDL
	FCVTDLU
	FMVDX

	// RVC (compressed), quadrant 0
	CADDI4SPN
	CFLD
	CLW
	CLD
	CFSD
	CSW
	CSD

	// RVC quadrant 1
	CNOP
	CADDI
	CADDIW
	CLI
	CADDI16SP
	CLUI
	CSRLI
	CSRAI
	CANDI
	CSUB
	CXOR
	COR
	CAND
	CSUBW
	CADDW
	CJ
	CBEQZ
	CBNEZ

	// RVC quadrant 2
	CSLLI
	CFLDSP
	CLWSP
	CLDSP
	CJR
	CMV
	CEBREAK
	CJALR
	CADD
	CFSDSP
	CSWSP
	CSDSP

	numKinds
)

var kindNames = [numKinds]string{
	Illegal: "illegal", Unimplemented: "unimplemented",
	LUI: "lui", AUIPC: "auipc", JAL: "jal", JALR: "jalr",
	BEQ: "beq", BNE: "bne", BLT: "blt", BGE: "bge", BLTU: "bltu", BGEU: "bgeu",
	LB: "lb", LH: "lh", LW: "lw", LBU: "lbu", LHU: "lhu", LWU: "lwu", LD: "ld",
	SB: "sb", SH: "sh", SW: "sw", SD: "sd",
	ADDI: "addi", SLTI: "slti", SLTIU: "sltiu", XORI: "xori", ORI: "ori", ANDI: "andi",
	SLLI: "slli", SRLI: "srli", SRAI: "srai",
	ADD: "add", SUB: "sub", SLL: "sll", SLT: "slt", SLTU: "sltu", XOR: "xor",
	SRL: "srl", SRA: "sra", OR: "or", AND: "and",
	ADDIW: "addiw", SLLIW: "slliw", SRLIW: "srliw", SRAIW: "sraiw",
	ADDW: "addw", SUBW: "subw", SLLW: "sllw", SRLW: "srlw", SRAW: "sraw",
	FENCE: "fence", FENCEI: "fence.i", ECALL: "ecall", EBREAK: "ebreak",
	CSRRW: "csrrw", CSRRS: "csrrs", CSRRC: "csrrc",
	CSRRWI: "csrrwi", CSRRSI: "csrrsi", CSRRCI: "csrrci",
	MUL: "mul", MULH: "mulh", MULHSU: "mulhsu", MULHU: "mulhu",
	DIV: "div", DIVU: "divu", REM: "rem", REMU: "remu",
	MULW: "mulw", DIVW: "divw", DIVUW: "divuw", REMW: "remw", REMUW: "remuw",
	LRW: "lr.w", SCW: "sc.w",
	AMOSWAPW: "amoswap.w", AMOADDW: "amoadd.w", AMOXORW: "amoxor.w", AMOANDW: "amoand.w",
	AMOORW: "amoor.w", AMOMINW: "amomin.w", AMOMAXW: "amomax.w",
	AMOMINUW: "amominu.w", AMOMAXUW: "amomaxu.w",
	LRD: "lr.d", SCD: "sc.d",
	AMOSWAPD: "amoswap.d", AMOADDD: "amoadd.d", AMOXORD: "amoxor.d", AMOANDD: "amoand.d",
	AMOORD: "amoor.d", AMOMIND: "amomin.d", AMOMAXD: "amomax.d",
	AMOMINUD: "amominu.d", AMOMAXUD: "amomaxu.d",
	FLW: "flw", FSW: "fsw",
	FMADDS: "fmadd.s", FMSUBS: "fmsub.s", FNMSUBS: "fnmsub.s", FNMADDS: "fnmadd.s",
	FADDS: "fadd.s", FSUBS: "fsub.s", FMULS: "fmul.s", FDIVS: "fdiv.s", FSQRTS: "fsqrt.s",
	FSGNJS: "fsgnj.s", FSGNJNS: "fsgnjn.s", FSGNJXS: "fsgnjx.s",
	FMINS: "fmin.s", FMAXS: "fmax.s",
	FCVTWS: "fcvt.w.s", FCVTWUS: "fcvt.wu.s", FMVXW: "fmv.x.w",
	FEQS: "feq.s", FLTS: "flt.s", FLES: "fle.s", FCLASSS: "fclass.s",
	FCVTSW: "fcvt.s.w", FCVTSWU: "fcvt.s.wu", FMVWX: "fmv.w.x",
	FCVTLS: "fcvt.l.s", FCVTLUS: "fcvt.lu.s", FCVTSL: "fcvt.s.l", FCVTSLU: "fcvt.s.lu",
	FLD: "fld", FSD: "fsd",
	FMADDD: "fmadd.d", FMSUBD: "fmsub.d", FNMSUBD: "fnmsub.d", FNMADDD: "fnmadd.d",
	FADDD: "fadd.d", FSUBD: "fsub.d", FMULD: "fmul.d", FDIVD: "fdiv.d", FSQRTD: "fsqrt.d",
	FSGNJD: "fsgnj.d", FSGNJND: "fsgnjn.d", FSGNJXD: "fsgnjx.d",
	FMIND: "fmin.d", FMAXD: "fmax.d",
	FCVTSD: "fcvt.s.d", FCVTDS: "fcvt.d.s",
	FEQD: "feq.d", FLTD: "flt.d", FLED: "fle.d", FCLASSD: "fclass.d",
	FCVTWD: "fcvt.w.d", FCVTWUD: "fcvt.wu.d", FCVTDW: "fcvt.d.w", FCVTDWU: "fcvt.d.wu",
	FCVTLD: "fcvt.l.d", FCVTLUD: "fcvt.lu.d", FMVXD: "fmv.x.d",
	FCVTDL: "fcvt.d.l", FCVTDLU: "fcvt.d.lu", FMVDX: "fmv.d.x",
	CADDI4SPN: "c.addi4spn", CFLD: "c.fld", CLW: "c.lw", CLD: "c.ld",
	CFSD: "c.fsd", CSW: "c.sw", CSD: "c.sd",
	CNOP: "c.nop", CADDI: "c.addi", CADDIW: "c.addiw", CLI: "c.li",
	CADDI16SP: "c.addi16sp", CLUI: "c.lui",
	CSRLI: "c.srli", CSRAI: "c.srai", CANDI: "c.andi",
	CSUB: "c.sub", CXOR: "c.xor", COR: "c.or", CAND: "c.and",
	CSUBW: "c.subw", CADDW: "c.addw",
	CJ: "c.j", CBEQZ: "c.beqz", CBNEZ: "c.bnez",
	CSLLI: "c.slli", CFLDSP: "c.fldsp", CLWSP: "c.lwsp", CLDSP: "c.ldsp",
	CJR: "c.jr", CMV: "c.mv", CEBREAK: "c.ebreak", CJALR: "c.jalr", CADD: "c.add",
	CFSDSP: "c.fsdsp", CSWSP: "c.swsp", CSDSP: "c.sdsp",
}

// String returns the canonical RISC-V mnemonic for the kind.
func (k Kind) String() string {
	if k >= 0 && k < numKinds && kindNames[k] != "" {
		return kindNames[k]
	}
	return "illegal"
}

// IsCompressed reports whether the kind is decoded from a 16-bit word.
func (k Kind) IsCompressed() bool {
	return k >= CADDI4SPN && k < numKinds
}
