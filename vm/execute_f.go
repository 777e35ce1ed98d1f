package vm

import (
	"math"

	"github.com/lookbusy1344/riscv-emulator/isa"
)

func isFKind(k isa.Kind) bool { return k >= isa.FLW && k <= isa.FMVDX }

// nanBoxedSingle sets the upper 32 bits of a single-precision value to
// all ones, the NaN-boxing convention that lets a 64-bit F register hold
// either width, per the RISC-V F/D extension's register-sharing rule.
func nanBoxedSingle(bits32 uint32) uint64 {
	return 0xffffffff00000000 | uint64(bits32)
}

func f32(v uint64) float32 { return math.Float32frombits(uint32(v)) }
func f64(v uint64) float64 { return math.Float64frombits(v) }
func b32(v float32) uint64 { return nanBoxedSingle(math.Float32bits(v)) }
func b64(v float64) uint64 { return math.Float64bits(v) }

// executeF implements the F and D extensions. Rounding-mode fields are
// decoded but not applied beyond the host's round-to-nearest-even default:
// this core targets compliance-test signature matching, not subnormal- or
// rounding-mode-sensitive FP edge cases.
func (m *Machine) executeF(h *Hart, kind isa.Kind, w isa.Word) error {
	switch kind {
	case isa.FLW:
		addr, err := h.Translate(h.GetX(w.Rs1()) + uint64(w.ImmI()))
		if err != nil {
			return err
		}
		v, err := m.Memory.LoadWord(addr)
		if err != nil {
			return err
		}
		h.SetF(w.FRd(), nanBoxedSingle(v))
		return nil
	case isa.FLD:
		addr, err := h.Translate(h.GetX(w.Rs1()) + uint64(w.ImmI()))
		if err != nil {
			return err
		}
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return err
		}
		h.SetF(w.FRd(), v)
		return nil
	case isa.FSW:
		addr, err := h.Translate(h.GetX(w.Rs1()) + uint64(w.ImmS()))
		if err != nil {
			return err
		}
		return m.Memory.StoreWord(addr, uint32(h.GetF(w.FRs2())))
	case isa.FSD:
		addr, err := h.Translate(h.GetX(w.Rs1()) + uint64(w.ImmS()))
		if err != nil {
			return err
		}
		return m.Memory.StoreDouble(addr, h.GetF(w.FRs2()))
	}

	if isDoubleKind(kind) {
		return m.executeD(h, kind, w)
	}
	return m.executeSingle(h, kind, w)
}

func isDoubleKind(k isa.Kind) bool { return k >= isa.FLD && k <= isa.FMVDX }

func (m *Machine) executeSingle(h *Hart, kind isa.Kind, w isa.Word) error {
	a := f32(h.GetF(w.FRs1()))
	b := f32(h.GetF(w.FRs2()))
	switch kind {
	case isa.FMADDS:
		h.SetF(w.FRd(), b32(a*b+f32(h.GetF(w.FRs3()))))
	case isa.FMSUBS:
		h.SetF(w.FRd(), b32(a*b-f32(h.GetF(w.FRs3()))))
	case isa.FNMSUBS:
		h.SetF(w.FRd(), b32(-(a*b)+f32(h.GetF(w.FRs3()))))
	case isa.FNMADDS:
		h.SetF(w.FRd(), b32(-(a*b)-f32(h.GetF(w.FRs3()))))
	case isa.FADDS:
		h.SetF(w.FRd(), b32(a+b))
	case isa.FSUBS:
		h.SetF(w.FRd(), b32(a-b))
	case isa.FMULS:
		h.SetF(w.FRd(), b32(a*b))
	case isa.FDIVS:
		h.SetF(w.FRd(), b32(a/b))
	case isa.FSQRTS:
		h.SetF(w.FRd(), b32(float32(math.Sqrt(float64(a)))))
	case isa.FSGNJS:
		h.SetF(w.FRd(), b32(signInject(a, b, false, false)))
	case isa.FSGNJNS:
		h.SetF(w.FRd(), b32(signInject(a, b, true, false)))
	case isa.FSGNJXS:
		h.SetF(w.FRd(), b32(signInject(a, b, false, true)))
	case isa.FMINS:
		h.SetF(w.FRd(), b32(fminFloat32(a, b)))
	case isa.FMAXS:
		h.SetF(w.FRd(), b32(fmaxFloat32(a, b)))
	case isa.FCVTWS:
		h.SetX(w.Rd(), uint64(int64(int32(a))))
	case isa.FCVTWUS:
		h.SetX(w.Rd(), uint64(int64(int32(uint32(int64(a))))))
	case isa.FMVXW:
		h.SetX(w.Rd(), uint64(int64(int32(math.Float32bits(a)))))
	case isa.FEQS:
		h.SetX(w.Rd(), boolToU64(a == b))
	case isa.FLTS:
		h.SetX(w.Rd(), boolToU64(a < b))
	case isa.FLES:
		h.SetX(w.Rd(), boolToU64(a <= b))
	case isa.FCLASSS:
		h.SetX(w.Rd(), classifyFloat32(a))
	case isa.FCVTSW:
		h.SetF(w.FRd(), b32(float32(int32(h.GetX(w.Rs1())))))
	case isa.FCVTSWU:
		h.SetF(w.FRd(), b32(float32(uint32(h.GetX(w.Rs1())))))
	case isa.FMVWX:
		h.SetF(w.FRd(), nanBoxedSingle(uint32(h.GetX(w.Rs1()))))
	case isa.FCVTLS:
		h.SetX(w.Rd(), uint64(int64(a)))
	case isa.FCVTLUS:
		h.SetX(w.Rd(), uint64(a))
	case isa.FCVTSL:
		h.SetF(w.FRd(), b32(float32(int64(h.GetX(w.Rs1())))))
	case isa.FCVTSLU:
		h.SetF(w.FRd(), b32(float32(h.GetX(w.Rs1()))))
	}
	return nil
}

func (m *Machine) executeD(h *Hart, kind isa.Kind, w isa.Word) error {
	a := f64(h.GetF(w.FRs1()))
	b := f64(h.GetF(w.FRs2()))
	switch kind {
	case isa.FMADDD:
		h.SetF(w.FRd(), b64(a*b+f64(h.GetF(w.FRs3()))))
	case isa.FMSUBD:
		h.SetF(w.FRd(), b64(a*b-f64(h.GetF(w.FRs3()))))
	case isa.FNMSUBD:
		h.SetF(w.FRd(), b64(-(a*b)+f64(h.GetF(w.FRs3()))))
	case isa.FNMADDD:
		h.SetF(w.FRd(), b64(-(a*b)-f64(h.GetF(w.FRs3()))))
	case isa.FADDD:
		h.SetF(w.FRd(), b64(a+b))
	case isa.FSUBD:
		h.SetF(w.FRd(), b64(a-b))
	case isa.FMULD:
		h.SetF(w.FRd(), b64(a*b))
	case isa.FDIVD:
		h.SetF(w.FRd(), b64(a/b))
	case isa.FSQRTD:
		h.SetF(w.FRd(), b64(math.Sqrt(a)))
	case isa.FSGNJD:
		h.SetF(w.FRd(), b64(signInjectD(a, b, false, false)))
	case isa.FSGNJND:
		h.SetF(w.FRd(), b64(signInjectD(a, b, true, false)))
	case isa.FSGNJXD:
		h.SetF(w.FRd(), b64(signInjectD(a, b, false, true)))
	case isa.FMIND:
		h.SetF(w.FRd(), b64(fminFloat64(a, b)))
	case isa.FMAXD:
		h.SetF(w.FRd(), b64(fmaxFloat64(a, b)))
	case isa.FCVTSD:
		h.SetF(w.FRd(), b32(float32(a)))
	case isa.FCVTDS:
		h.SetF(w.FRd(), b64(float64(f32(h.GetF(w.FRs1())))))
	case isa.FEQD:
		h.SetX(w.Rd(), boolToU64(a == b))
	case isa.FLTD:
		h.SetX(w.Rd(), boolToU64(a < b))
	case isa.FLED:
		h.SetX(w.Rd(), boolToU64(a <= b))
	case isa.FCLASSD:
		h.SetX(w.Rd(), classifyFloat64(a))
	case isa.FCVTWD:
		h.SetX(w.Rd(), uint64(int64(int32(a))))
	case isa.FCVTWUD:
		h.SetX(w.Rd(), uint64(int64(int32(uint32(int64(a))))))
	case isa.FCVTDW:
		h.SetF(w.FRd(), b64(float64(int32(h.GetX(w.Rs1())))))
	case isa.FCVTDWU:
		h.SetF(w.FRd(), b64(float64(uint32(h.GetX(w.Rs1())))))
	case isa.FCVTLD:
		h.SetX(w.Rd(), uint64(int64(a)))
	case isa.FCVTLUD:
		h.SetX(w.Rd(), uint64(a))
	case isa.FMVXD:
		h.SetX(w.Rd(), math.Float64bits(a))
	case isa.FCVTDL:
		h.SetF(w.FRd(), b64(float64(int64(h.GetX(w.Rs1())))))
	case isa.FCVTDLU:
		h.SetF(w.FRd(), b64(float64(h.GetX(w.Rs1()))))
	case isa.FMVDX:
		h.SetF(w.FRd(), h.GetX(w.Rs1()))
	}
	return nil
}

func signInject(a, b float32, negate, xor bool) float32 {
	signBit := math.Float32bits(b) & 0x80000000
	if negate {
		signBit ^= 0x80000000
	}
	if xor {
		signBit = (math.Float32bits(a) ^ math.Float32bits(b)) & 0x80000000
	}
	return math.Float32frombits(math.Float32bits(a)&0x7fffffff | signBit)
}

func signInjectD(a, b float64, negate, xor bool) float64 {
	signBit := math.Float64bits(b) & (1 << 63)
	if negate {
		signBit ^= 1 << 63
	}
	if xor {
		signBit = (math.Float64bits(a) ^ math.Float64bits(b)) & (1 << 63)
	}
	return math.Float64frombits(math.Float64bits(a)&^uint64(1<<63) | signBit)
}

// fminFloat32/fmaxFloat32/fminFloat64/fmaxFloat64 implement RISC-V's
// quiet-NaN-propagating min/max: if exactly one operand is NaN, the other
// is returned; if both are NaN, a canonical quiet NaN is returned.
func fminFloat32(a, b float32) float32 {
	if math.IsNaN(float64(a)) && math.IsNaN(float64(b)) {
		return math.Float32frombits(0x7fc00000)
	}
	if math.IsNaN(float64(a)) {
		return b
	}
	if math.IsNaN(float64(b)) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func fmaxFloat32(a, b float32) float32 {
	if math.IsNaN(float64(a)) && math.IsNaN(float64(b)) {
		return math.Float32frombits(0x7fc00000)
	}
	if math.IsNaN(float64(a)) {
		return b
	}
	if math.IsNaN(float64(b)) {
		return a
	}
	if a > b {
		return a
	}
	return b
}

func fminFloat64(a, b float64) float64 {
	if math.IsNaN(a) && math.IsNaN(b) {
		return math.Float64frombits(0x7ff8000000000000)
	}
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func fmaxFloat64(a, b float64) float64 {
	if math.IsNaN(a) && math.IsNaN(b) {
		return math.Float64frombits(0x7ff8000000000000)
	}
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	if a > b {
		return a
	}
	return b
}

// classifyFloat32/classifyFloat64 implement FCLASS.S/FCLASS.D: a
// one-hot bitmask over the ten IEEE-754 classes defined by the RISC-V
// F extension.
func classifyFloat32(v float32) uint64 {
	bitsV := math.Float32bits(v)
	neg := bitsV>>31 != 0
	exp := (bitsV >> 23) & 0xff
	frac := bitsV & 0x7fffff
	return classify(neg, exp == 0xff, exp == 0, frac == 0, frac != 0 && exp == 0xff && bitsV&(1<<22) != 0)
}

func classifyFloat64(v float64) uint64 {
	bitsV := math.Float64bits(v)
	neg := bitsV>>63 != 0
	exp := (bitsV >> 52) & 0x7ff
	frac := bitsV & 0xfffffffffffff
	return classify(neg, exp == 0x7ff, exp == 0, frac == 0, frac != 0 && exp == 0x7ff && bitsV&(1<<51) != 0)
}

func classify(neg, expAllOnes, expZero, fracZero, quietNaN bool) uint64 {
	switch {
	case expAllOnes && !fracZero:
		if quietNaN {
			return 1 << 9
		}
		return 1 << 8
	case expAllOnes && fracZero:
		if neg {
			return 1 << 0
		}
		return 1 << 7
	case expZero && fracZero:
		if neg {
			return 1 << 3
		}
		return 1 << 4
	case expZero && !fracZero:
		if neg {
			return 1 << 2
		}
		return 1 << 5
	default:
		if neg {
			return 1 << 1
		}
		return 1 << 6
	}
}
