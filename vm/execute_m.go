package vm

import (
	"math/bits"

	"github.com/lookbusy1344/riscv-emulator/isa"
)

func isMKind(k isa.Kind) bool { return k >= isa.MUL && k <= isa.REMUW }

// executeM implements the M extension: integer multiply and divide, full
// width and the W (32-bit result) variants. Division and remainder by
// zero, and signed overflow division, follow the RISC-V spec's defined
// non-trapping results rather than a host panic.
func (m *Machine) executeM(h *Hart, kind isa.Kind, w isa.Word) error {
	rs1, rs2 := h.GetX(w.Rs1()), h.GetX(w.Rs2())
	var result uint64
	switch kind {
	case isa.MUL:
		result = rs1 * rs2
	case isa.MULH:
		result = mulhSigned(int64(rs1), int64(rs2))
	case isa.MULHU:
		hi, _ := bits.Mul64(rs1, rs2)
		result = hi
	case isa.MULHSU:
		result = mulhSignedUnsigned(int64(rs1), rs2)
	case isa.DIV:
		result = uint64(divSigned(int64(rs1), int64(rs2)))
	case isa.DIVU:
		if rs2 == 0 {
			result = ^uint64(0)
		} else {
			result = rs1 / rs2
		}
	case isa.REM:
		result = uint64(remSigned(int64(rs1), int64(rs2)))
	case isa.REMU:
		if rs2 == 0 {
			result = rs1
		} else {
			result = rs1 % rs2
		}
	case isa.MULW:
		result = uint64(int64(int32(int32(rs1) * int32(rs2))))
	case isa.DIVW:
		result = uint64(int64(divSigned32(int32(rs1), int32(rs2))))
	case isa.DIVUW:
		a, b := uint32(rs1), uint32(rs2)
		if b == 0 {
			result = ^uint64(0)
		} else {
			result = uint64(int64(int32(a / b)))
		}
	case isa.REMW:
		result = uint64(int64(remSigned32(int32(rs1), int32(rs2))))
	case isa.REMUW:
		a, b := uint32(rs1), uint32(rs2)
		if b == 0 {
			result = uint64(int64(int32(a)))
		} else {
			result = uint64(int64(int32(a % b)))
		}
	}
	h.SetX(w.Rd(), result)
	return nil
}

func mulhSigned(a, b int64) uint64 {
	hi, _ := bits.Mul64(uint64(absInt64(a)), uint64(absInt64(b)))
	neg := (a < 0) != (b < 0)
	if !neg {
		return hi
	}
	lo := uint64(a) * uint64(b)
	if lo != 0 {
		hi = ^hi
	} else {
		hi = ^hi + 1
	}
	return hi
}

func mulhSignedUnsigned(a int64, b uint64) uint64 {
	neg := a < 0
	hi, _ := bits.Mul64(uint64(absInt64(a)), b)
	if !neg {
		return hi
	}
	lo := uint64(a) * b
	if lo != 0 {
		hi = ^hi
	} else {
		hi = ^hi + 1
	}
	return hi
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func divSigned(a, b int64) int64 {
	if b == 0 {
		return -1
	}
	if a == math_MinInt64 && b == -1 {
		return a
	}
	return a / b
}

func remSigned(a, b int64) int64 {
	if b == 0 {
		return a
	}
	if a == math_MinInt64 && b == -1 {
		return 0
	}
	return a % b
}

func divSigned32(a, b int32) int32 {
	if b == 0 {
		return -1
	}
	if a == math_MinInt32 && b == -1 {
		return a
	}
	return a / b
}

func remSigned32(a, b int32) int32 {
	if b == 0 {
		return a
	}
	if a == math_MinInt32 && b == -1 {
		return 0
	}
	return a % b
}

const (
	math_MinInt64 = -1 << 63
	math_MinInt32 = -1 << 31
)
