package vm

import (
	"github.com/lookbusy1344/riscv-emulator/isa"
)

func isAKind(k isa.Kind) bool { return k >= isa.LRW && k <= isa.AMOMAXUD }

// executeA implements the A extension: load-reserved/store-conditional
// and the atomic read-modify-write (AMO) family, for both the .W and .D
// widths. This single-hart interpreter has no concurrent writers, so
// LR/SC reservation tracking exists only to make the standard
// reserve-then-check idiom behave correctly, not to arbitrate real races.
func (m *Machine) executeA(h *Hart, kind isa.Kind, w isa.Word) error {
	va := h.GetX(w.Rs1())
	addr, err := h.Translate(va)
	if err != nil {
		return err
	}

	switch kind {
	case isa.LRW:
		v, err := m.Memory.LoadWord(addr)
		if err != nil {
			return err
		}
		h.SetReservation(addr)
		h.SetX(w.Rd(), uint64(int64(int32(v))))
		return nil
	case isa.LRD:
		v, err := m.Memory.LoadDouble(addr)
		if err != nil {
			return err
		}
		h.SetReservation(addr)
		h.SetX(w.Rd(), v)
		return nil
	case isa.SCW:
		if h.CheckAndClearReservation(addr) {
			if err := m.Memory.StoreWord(addr, uint32(h.GetX(w.Rs2()))); err != nil {
				return err
			}
			h.SetX(w.Rd(), 0)
		} else {
			h.SetX(w.Rd(), 1)
		}
		return nil
	case isa.SCD:
		if h.CheckAndClearReservation(addr) {
			if err := m.Memory.StoreDouble(addr, h.GetX(w.Rs2())); err != nil {
				return err
			}
			h.SetX(w.Rd(), 0)
		} else {
			h.SetX(w.Rd(), 1)
		}
		return nil
	}

	if kind >= isa.AMOSWAPW && kind <= isa.AMOMAXUW {
		return m.executeAMOWord(h, kind, w, addr)
	}
	return m.executeAMODouble(h, kind, w, addr)
}

func (m *Machine) executeAMOWord(h *Hart, kind isa.Kind, w isa.Word, addr uint64) error {
	old, err := m.Memory.LoadWord(addr)
	if err != nil {
		return err
	}
	rs2 := uint32(h.GetX(w.Rs2()))
	var newVal uint32
	switch kind {
	case isa.AMOSWAPW:
		newVal = rs2
	case isa.AMOADDW:
		newVal = old + rs2
	case isa.AMOXORW:
		newVal = old ^ rs2
	case isa.AMOANDW:
		newVal = old & rs2
	case isa.AMOORW:
		newVal = old | rs2
	case isa.AMOMINW:
		newVal = uint32(minInt32(int32(old), int32(rs2)))
	case isa.AMOMAXW:
		newVal = uint32(maxInt32(int32(old), int32(rs2)))
	case isa.AMOMINUW:
		newVal = minUint32(old, rs2)
	case isa.AMOMAXUW:
		newVal = maxUint32(old, rs2)
	}
	if err := m.Memory.StoreWord(addr, newVal); err != nil {
		return err
	}
	h.SetX(w.Rd(), uint64(int64(int32(old))))
	return nil
}

func (m *Machine) executeAMODouble(h *Hart, kind isa.Kind, w isa.Word, addr uint64) error {
	old, err := m.Memory.LoadDouble(addr)
	if err != nil {
		return err
	}
	rs2 := h.GetX(w.Rs2())
	var newVal uint64
	switch kind {
	case isa.AMOSWAPD:
		newVal = rs2
	case isa.AMOADDD:
		newVal = old + rs2
	case isa.AMOXORD:
		newVal = old ^ rs2
	case isa.AMOANDD:
		newVal = old & rs2
	case isa.AMOORD:
		newVal = old | rs2
	case isa.AMOMIND:
		newVal = uint64(minInt64(int64(old), int64(rs2)))
	case isa.AMOMAXD:
		newVal = uint64(maxInt64(int64(old), int64(rs2)))
	case isa.AMOMINUD:
		newVal = minUint64(old, rs2)
	case isa.AMOMAXUD:
		newVal = maxUint64(old, rs2)
	}
	if err := m.Memory.StoreDouble(addr, newVal); err != nil {
		return err
	}
	h.SetX(w.Rd(), old)
	return nil
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
func maxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
