package vm

import (
	"github.com/lookbusy1344/riscv-emulator/isa"
)

// executeCompressed implements the C extension by translating each RVC
// form into the same register/memory operations its 32-bit equivalent
// would perform. Compressed instructions never trap on illegal/reserved
// encodings here: isa.DecodeCompressed already turned those into
// isa.Illegal before execute() is reached.
func (m *Machine) executeCompressed(h *Hart, kind isa.Kind, w isa.Word, pc uint64) (bool, error) {
	switch kind {
	case isa.CADDI4SPN:
		rd := w.CIWReg()
		h.SetX(rd, h.GetX(isa.Sp)+w.CAddi4spnImm())
		return false, nil

	case isa.CFLD:
		base, rd := w.CLReg()
		addr, err := h.Translate(h.GetX(base) + w.CLdImm())
		if err != nil {
			return false, err
		}
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return false, err
		}
		h.SetF(isa.FRegister(rd), v)
		return false, nil

	case isa.CLW:
		base, rd := w.CLReg()
		addr, err := h.Translate(h.GetX(base) + w.CLwImm())
		if err != nil {
			return false, err
		}
		v, err := m.Memory.LoadWord(addr)
		if err != nil {
			return false, err
		}
		h.SetX(rd, uint64(int64(int32(v))))
		return false, nil

	case isa.CLD:
		base, rd := w.CLReg()
		addr, err := h.Translate(h.GetX(base) + w.CLdImm())
		if err != nil {
			return false, err
		}
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return false, err
		}
		h.SetX(rd, v)
		return false, nil

	case isa.CFSD:
		base, rs2 := w.CSReg()
		addr, err := h.Translate(h.GetX(base) + w.CLdImm())
		if err != nil {
			return false, err
		}
		return false, m.Memory.StoreDouble(addr, h.GetF(isa.FRegister(rs2)))

	case isa.CSW:
		base, rs2 := w.CSReg()
		addr, err := h.Translate(h.GetX(base) + w.CLwImm())
		if err != nil {
			return false, err
		}
		return false, m.Memory.StoreWord(addr, uint32(h.GetX(rs2)))

	case isa.CSD:
		base, rs2 := w.CSReg()
		addr, err := h.Translate(h.GetX(base) + w.CLdImm())
		if err != nil {
			return false, err
		}
		return false, m.Memory.StoreDouble(addr, h.GetX(rs2))

	case isa.CNOP:
		return false, nil

	case isa.CADDI:
		rd := w.CIRd()
		h.SetX(rd, h.GetX(rd)+uint64(w.CIAddiImm()))
		return false, nil

	case isa.CADDIW:
		rd := w.CIRd()
		result := int32(h.GetX(rd)) + int32(w.CIAddiImm())
		h.SetX(rd, uint64(int64(result)))
		return false, nil

	case isa.CLI:
		h.SetX(w.CIRd(), uint64(w.CIAddiImm()))
		return false, nil

	case isa.CADDI16SP:
		h.SetX(isa.Sp, h.GetX(isa.Sp)+uint64(w.CAddi16spImm()))
		return false, nil

	case isa.CLUI:
		h.SetX(w.CIRd(), uint64(w.CLuiImm()))
		return false, nil

	case isa.CSRLI:
		rd := w.CBReg()
		h.SetX(rd, h.GetX(rd)>>w.CShamt())
		return false, nil

	case isa.CSRAI:
		rd := w.CBReg()
		h.SetX(rd, uint64(int64(h.GetX(rd))>>w.CShamt()))
		return false, nil

	case isa.CANDI:
		rd := w.CBReg()
		h.SetX(rd, h.GetX(rd)&uint64(w.CAndiImm()))
		return false, nil

	case isa.CSUB:
		rd, rs2 := w.CAReg()
		h.SetX(rd, h.GetX(rd)-h.GetX(rs2))
		return false, nil

	case isa.CXOR:
		rd, rs2 := w.CAReg()
		h.SetX(rd, h.GetX(rd)^h.GetX(rs2))
		return false, nil

	case isa.COR:
		rd, rs2 := w.CAReg()
		h.SetX(rd, h.GetX(rd)|h.GetX(rs2))
		return false, nil

	case isa.CAND:
		rd, rs2 := w.CAReg()
		h.SetX(rd, h.GetX(rd)&h.GetX(rs2))
		return false, nil

	case isa.CSUBW:
		rd, rs2 := w.CAReg()
		result := int32(h.GetX(rd)) - int32(h.GetX(rs2))
		h.SetX(rd, uint64(int64(result)))
		return false, nil

	case isa.CADDW:
		rd, rs2 := w.CAReg()
		result := int32(h.GetX(rd)) + int32(h.GetX(rs2))
		h.SetX(rd, uint64(int64(result)))
		return false, nil

	case isa.CJ:
		h.Branch(pc + uint64(w.CJImm()))
		return true, nil

	case isa.CBEQZ:
		rs1 := w.CBReg()
		if h.GetX(rs1) == 0 {
			h.Branch(pc + uint64(w.CBImm()))
			return true, nil
		}
		return false, nil

	case isa.CBNEZ:
		rs1 := w.CBReg()
		if h.GetX(rs1) != 0 {
			h.Branch(pc + uint64(w.CBImm()))
			return true, nil
		}
		return false, nil

	case isa.CSLLI:
		rd := w.CIRd()
		h.SetX(rd, h.GetX(rd)<<w.CShamt())
		return false, nil

	case isa.CFLDSP:
		rd := w.CIRd()
		addr, err := h.Translate(h.GetX(isa.Sp) + w.CLdspImm())
		if err != nil {
			return false, err
		}
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return false, err
		}
		h.SetF(isa.FRegister(rd), v)
		return false, nil

	case isa.CLWSP:
		rd := w.CIRd()
		addr, err := h.Translate(h.GetX(isa.Sp) + w.CLwspImm())
		if err != nil {
			return false, err
		}
		v, err := m.Memory.LoadWord(addr)
		if err != nil {
			return false, err
		}
		h.SetX(rd, uint64(int64(int32(v))))
		return false, nil

	case isa.CLDSP:
		rd := w.CIRd()
		addr, err := h.Translate(h.GetX(isa.Sp) + w.CLdspImm())
		if err != nil {
			return false, err
		}
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return false, err
		}
		h.SetX(rd, v)
		return false, nil

	case isa.CJR:
		rs1, _ := w.CR()
		h.Branch(h.GetX(rs1))
		return true, nil

	case isa.CMV:
		rd, rs2 := w.CR()
		h.SetX(rd, h.GetX(rs2))
		return false, nil

	case isa.CEBREAK:
		return false, trap(Breakpoint, pc)

	case isa.CJALR:
		rs1, _ := w.CR()
		target := h.GetX(rs1)
		h.SetX(isa.Ra, pc+2)
		h.Branch(target)
		return true, nil

	case isa.CADD:
		rd, rs2 := w.CR()
		h.SetX(rd, h.GetX(rd)+h.GetX(rs2))
		return false, nil

	case isa.CFSDSP:
		_, rs2 := w.CR()
		addr, err := h.Translate(h.GetX(isa.Sp) + w.CSdspImm())
		if err != nil {
			return false, err
		}
		return false, m.Memory.StoreDouble(addr, h.GetF(isa.FRegister(rs2)))

	case isa.CSWSP:
		_, rs2 := w.CR()
		addr, err := h.Translate(h.GetX(isa.Sp) + w.CSwspImm())
		if err != nil {
			return false, err
		}
		return false, m.Memory.StoreWord(addr, uint32(h.GetX(rs2)))

	case isa.CSDSP:
		_, rs2 := w.CR()
		addr, err := h.Translate(h.GetX(isa.Sp) + w.CSdspImm())
		if err != nil {
			return false, err
		}
		return false, m.Memory.StoreDouble(addr, h.GetX(rs2))

	default:
		return false, trap(UnimplementedInstruction, uint64(w))
	}
}
