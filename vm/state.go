package vm

import "github.com/lookbusy1344/riscv-emulator/isa"

// Snapshot captures a hart's architectural state for before/after
// comparison, the way the ARM core's RegisterSnapshot supported register
// tracing. Here it backs the debugger's "whatif" dry-run command instead.
type Snapshot struct {
	X  [32]uint64
	PC uint64
}

// CaptureSnapshot records the current state of a hart.
func CaptureSnapshot(h *Hart) *Snapshot {
	s := &Snapshot{PC: h.PC}
	copy(s.X[:], h.X[:])
	return s
}

// ChangedRegisters returns the indices of integer registers that differ
// between s and other.
func (s *Snapshot) ChangedRegisters(other *Snapshot) []isa.Register {
	var changed []isa.Register
	for i := 0; i < 32; i++ {
		if s.X[i] != other.X[i] {
			changed = append(changed, isa.Register(i))
		}
	}
	return changed
}

// PCChanged reports whether the program counter differs between s and other.
func (s *Snapshot) PCChanged(other *Snapshot) bool {
	return s.PC != other.PC
}
