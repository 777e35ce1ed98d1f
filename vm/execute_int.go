package vm

import (
	"github.com/lookbusy1344/riscv-emulator/isa"
)

func isIntKind(k isa.Kind) bool { return k >= isa.LUI && k <= isa.CSRRCI }

// executeInt implements the RV64I base integer instruction set, the
// fence/environment instructions, and the Zicsr extension. Returns
// branched=true for any instruction that sets h.PC itself.
func (m *Machine) executeInt(h *Hart, kind isa.Kind, w isa.Word, pc uint64) (bool, error) {
	switch kind {
	case isa.LUI:
		h.SetX(w.Rd(), uint64(w.ImmU()))
		return false, nil

	case isa.AUIPC:
		h.SetX(w.Rd(), pc+uint64(w.ImmU()))
		return false, nil

	case isa.JAL:
		h.SetX(w.Rd(), pc+4)
		h.Branch(pc + uint64(w.ImmJ()))
		return true, nil

	case isa.JALR:
		target := (h.GetX(w.Rs1()) + uint64(w.ImmI())) &^ 1
		h.SetX(w.Rd(), pc+4)
		h.Branch(target)
		return true, nil

	case isa.BEQ, isa.BNE, isa.BLT, isa.BGE, isa.BLTU, isa.BGEU:
		if evalBranch(kind, h.GetX(w.Rs1()), h.GetX(w.Rs2())) {
			h.Branch(pc + uint64(w.ImmB()))
			return true, nil
		}
		return false, nil

	case isa.LB, isa.LH, isa.LW, isa.LBU, isa.LHU, isa.LWU, isa.LD:
		return false, m.executeLoad(h, kind, w)

	case isa.SB, isa.SH, isa.SW, isa.SD:
		return false, m.executeStore(h, kind, w)

	case isa.ADDI, isa.SLTI, isa.SLTIU, isa.XORI, isa.ORI, isa.ANDI, isa.SLLI, isa.SRLI, isa.SRAI:
		executeOpImm(h, kind, w)
		return false, nil

	case isa.ADD, isa.SUB, isa.SLL, isa.SLT, isa.SLTU, isa.XOR, isa.SRL, isa.SRA, isa.OR, isa.AND:
		executeOp(h, kind, w)
		return false, nil

	case isa.ADDIW, isa.SLLIW, isa.SRLIW, isa.SRAIW:
		executeOpImm32(h, kind, w)
		return false, nil

	case isa.ADDW, isa.SUBW, isa.SLLW, isa.SRLW, isa.SRAW:
		executeOp32(h, kind, w)
		return false, nil

	case isa.FENCE, isa.FENCEI:
		return false, nil // single-hart interpreter: all orderings are already sequential

	case isa.ECALL:
		return false, trap(EnvironmentCall, pc)

	case isa.EBREAK:
		return false, trap(Breakpoint, pc)

	case isa.CSRRW, isa.CSRRS, isa.CSRRC, isa.CSRRWI, isa.CSRRSI, isa.CSRRCI:
		return false, m.executeCSR(h, kind, w)

	default:
		return false, trap(UnimplementedInstruction, uint64(w))
	}
}

func evalBranch(kind isa.Kind, rs1, rs2 uint64) bool {
	switch kind {
	case isa.BEQ:
		return rs1 == rs2
	case isa.BNE:
		return rs1 != rs2
	case isa.BLT:
		return int64(rs1) < int64(rs2)
	case isa.BGE:
		return int64(rs1) >= int64(rs2)
	case isa.BLTU:
		return rs1 < rs2
	case isa.BGEU:
		return rs1 >= rs2
	}
	return false
}

func (m *Machine) executeLoad(h *Hart, kind isa.Kind, w isa.Word) error {
	va := h.GetX(w.Rs1()) + uint64(w.ImmI())
	addr, err := h.Translate(va)
	if err != nil {
		return err
	}
	switch kind {
	case isa.LB:
		v, err := m.Memory.LoadByte(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), uint64(int64(int8(v))))
	case isa.LBU:
		v, err := m.Memory.LoadByte(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), uint64(v))
	case isa.LH:
		v, err := m.Memory.LoadHalf(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), uint64(int64(int16(v))))
	case isa.LHU:
		v, err := m.Memory.LoadHalf(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), uint64(v))
	case isa.LW:
		v, err := m.Memory.LoadWord(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), uint64(int64(int32(v))))
	case isa.LWU:
		v, err := m.Memory.LoadWord(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), uint64(v))
	case isa.LD:
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return err
		}
		h.SetX(w.Rd(), v)
	}
	return nil
}

func (m *Machine) executeStore(h *Hart, kind isa.Kind, w isa.Word) error {
	va := h.GetX(w.Rs1()) + uint64(w.ImmS())
	val := h.GetX(w.Rs2())

	addr, err := h.Translate(va)
	if err != nil {
		return err
	}

	if m.complianceEnabled && addr == m.TohostAddr {
		h.Halted = true
		return nil
	}

	switch kind {
	case isa.SB:
		err = m.Memory.StoreByte(addr, uint8(val))
	case isa.SH:
		err = m.Memory.StoreHalf(addr, uint16(val))
	case isa.SW:
		err = m.Memory.StoreWord(addr, uint32(val))
	case isa.SD:
		err = m.Memory.StoreDouble(addr, val)
	}
	return err
}

func executeOpImm(h *Hart, kind isa.Kind, w isa.Word) {
	rs1 := h.GetX(w.Rs1())
	imm := w.ImmI()
	var result uint64
	switch kind {
	case isa.ADDI:
		result = rs1 + uint64(imm)
	case isa.SLTI:
		result = boolToU64(int64(rs1) < imm)
	case isa.SLTIU:
		result = boolToU64(rs1 < uint64(imm))
	case isa.XORI:
		result = rs1 ^ uint64(imm)
	case isa.ORI:
		result = rs1 | uint64(imm)
	case isa.ANDI:
		result = rs1 & uint64(imm)
	case isa.SLLI:
		result = rs1 << w.Shamt()
	case isa.SRLI:
		result = rs1 >> w.Shamt()
	case isa.SRAI:
		result = uint64(int64(rs1) >> w.Shamt())
	}
	h.SetX(w.Rd(), result)
}

func executeOp(h *Hart, kind isa.Kind, w isa.Word) {
	rs1, rs2 := h.GetX(w.Rs1()), h.GetX(w.Rs2())
	var result uint64
	switch kind {
	case isa.ADD:
		result = rs1 + rs2
	case isa.SUB:
		result = rs1 - rs2
	case isa.SLL:
		result = rs1 << (rs2 & 0x3f)
	case isa.SLT:
		result = boolToU64(int64(rs1) < int64(rs2))
	case isa.SLTU:
		result = boolToU64(rs1 < rs2)
	case isa.XOR:
		result = rs1 ^ rs2
	case isa.SRL:
		result = rs1 >> (rs2 & 0x3f)
	case isa.SRA:
		result = uint64(int64(rs1) >> (rs2 & 0x3f))
	case isa.OR:
		result = rs1 | rs2
	case isa.AND:
		result = rs1 & rs2
	}
	h.SetX(w.Rd(), result)
}

func executeOpImm32(h *Hart, kind isa.Kind, w isa.Word) {
	rs1 := int32(h.GetX(w.Rs1()))
	var result int32
	switch kind {
	case isa.ADDIW:
		result = rs1 + int32(w.ImmI())
	case isa.SLLIW:
		result = rs1 << w.Shamt32()
	case isa.SRLIW:
		result = int32(uint32(rs1) >> w.Shamt32())
	case isa.SRAIW:
		result = rs1 >> w.Shamt32()
	}
	h.SetX(w.Rd(), uint64(int64(result)))
}

func executeOp32(h *Hart, kind isa.Kind, w isa.Word) {
	rs1, rs2 := int32(h.GetX(w.Rs1())), int32(h.GetX(w.Rs2()))
	var result int32
	switch kind {
	case isa.ADDW:
		result = rs1 + rs2
	case isa.SUBW:
		result = rs1 - rs2
	case isa.SLLW:
		result = rs1 << (uint32(rs2) & 0x1f)
	case isa.SRLW:
		result = int32(uint32(rs1) >> (uint32(rs2) & 0x1f))
	case isa.SRAW:
		result = rs1 >> (uint32(rs2) & 0x1f)
	}
	h.SetX(w.Rd(), uint64(int64(result)))
}

func (m *Machine) executeCSR(h *Hart, kind isa.Kind, w isa.Word) error {
	csr := w.CSR()
	var writeVal uint64
	immForm := kind == isa.CSRRWI || kind == isa.CSRRSI || kind == isa.CSRRCI
	if immForm {
		writeVal = uint64(w.Rs1()) // zimm is encoded in the rs1 field
	} else {
		writeVal = h.GetX(w.Rs1())
	}

	old, err := h.CSRs.Read(csr, h.Privilege, h.Cycles)
	if err != nil {
		return err
	}

	// CSRRS/CSRRC (and their immediate forms) skip the write entirely when
	// the source field is x0/zimm-zero, so a bare "read CSR" idiom (e.g.
	// csrrs rd, csr, x0) never traps on a read-only CSR.
	var newVal uint64
	writes := true
	switch kind {
	case isa.CSRRW, isa.CSRRWI:
		newVal = writeVal
	case isa.CSRRS, isa.CSRRSI:
		newVal = old | writeVal
		writes = w.Rs1() != 0
	case isa.CSRRC, isa.CSRRCI:
		newVal = old &^ writeVal
		writes = w.Rs1() != 0
	}
	if writes {
		if err := h.CSRs.Write(csr, newVal, h.Privilege); err != nil {
			return err
		}
	}
	h.SetX(w.Rd(), old)
	return nil
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
