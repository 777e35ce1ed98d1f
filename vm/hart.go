package vm

import "github.com/lookbusy1344/riscv-emulator/isa"

// PrivilegeLevel is one of the three privilege modes this core models.
type PrivilegeLevel uint8

const (
	User       PrivilegeLevel = 0
	Supervisor PrivilegeLevel = 1
	Machine    PrivilegeLevel = 3
)

func (p PrivilegeLevel) String() string {
	switch p {
	case User:
		return "U"
	case Supervisor:
		return "S"
	case Machine:
		return "M"
	default:
		return "?"
	}
}

// TranslationMode is the address-translation scheme a hart's memory
// accesses go through before reaching physical memory.
type TranslationMode uint8

const (
	Bare TranslationMode = iota
	Sv39
	Sv48
)

func (t TranslationMode) String() string {
	switch t {
	case Bare:
		return "Bare"
	case Sv39:
		return "Sv39"
	case Sv48:
		return "Sv48"
	default:
		return "?"
	}
}

// Hart is the architectural state of one hardware thread: its 32
// general-purpose registers (x0 hard-wired to zero), 32 floating-point
// registers, program counter, privilege level, and the CSR file visible
// to it. Unlike the ARM core's single global CPU struct, a Machine here
// owns a slice of Harts so that multi-hart images can at least be loaded
// and addressed, even though spec scope stops at single-hart execution.
type Hart struct {
	ID int

	X [32]uint64 // integer registers, x0 always reads as zero
	F [32]uint64 // floating-point registers, raw bit patterns (NaN-boxed for single precision)
	PC uint64

	Privilege PrivilegeLevel

	// AddressTranslationMode selects how Translate maps the virtual
	// addresses used by fetch/load/store/AMO to physical memory offsets.
	AddressTranslationMode TranslationMode

	CSRs CSRFile

	Cycles uint64

	// reservation tracks the address set by LR.W/LR.D for the next SC to
	// validate; reservationValid == false marks no outstanding reservation.
	reservation      uint64
	reservationValid bool

	// Halted is set when execution reaches a compliance-mode halt
	// (a store to the configured tohost address). A trap does not set it;
	// Machine.State records a trap as StateError instead.
	Halted bool
}

// NewHart returns a Hart with id, pc, and privilege at their reset values.
func NewHart(id int, resetPC uint64) *Hart {
	h := &Hart{ID: id}
	h.Reset(resetPC)
	return h
}

// Reset clears registers, cycle count, and reservation state, and sets
// the program counter to resetPC in machine mode.
func (h *Hart) Reset(resetPC uint64) {
	for i := range h.X {
		h.X[i] = 0
	}
	for i := range h.F {
		h.F[i] = 0
	}
	h.PC = resetPC
	h.Privilege = Machine
	h.AddressTranslationMode = Bare
	h.Cycles = 0
	h.reservationValid = false
	h.Halted = false
	h.CSRs.reset(h.ID)
}

// GetX returns the value of integer register r; x0 always reads zero.
func (h *Hart) GetX(r isa.Register) uint64 {
	if r == 0 {
		return 0
	}
	return h.X[r]
}

// SetX writes integer register r, silently discarding writes to x0.
func (h *Hart) SetX(r isa.Register, v uint64) {
	if r == 0 {
		return
	}
	h.X[r] = v
}

// GetF returns the raw bit pattern of floating-point register r.
func (h *Hart) GetF(r isa.FRegister) uint64 { return h.F[r] }

// SetF writes the raw bit pattern of floating-point register r.
func (h *Hart) SetF(r isa.FRegister, v uint64) { h.F[r] = v }

// SetReservation records an outstanding load-reserved address for a
// subsequent store-conditional.
func (h *Hart) SetReservation(addr uint64) {
	h.reservation = addr
	h.reservationValid = true
}

// CheckAndClearReservation reports whether addr matches the outstanding
// reservation, clearing it either way (a single SC always consumes it).
func (h *Hart) CheckAndClearReservation(addr uint64) bool {
	ok := h.reservationValid && h.reservation == addr
	h.reservationValid = false
	return ok
}

// ClearReservation drops any outstanding reservation without checking it,
// used when another hart's store could have invalidated it.
func (h *Hart) ClearReservation() {
	h.reservationValid = false
}

// IncrementPC advances the program counter by the width of the
// instruction just executed (2 for compressed, 4 otherwise).
func (h *Hart) IncrementPC(width uint64) {
	h.PC += width
}

// Branch sets the program counter directly.
func (h *Hart) Branch(addr uint64) {
	h.PC = addr
}

// Translate converts a virtual address to a physical address under the
// hart's current AddressTranslationMode. Bare mode is the identity; every
// fetch, load, store, and AMO in this package goes through Translate
// before touching memory, even though Bare, which needs no page-table
// walk, is the only mode this core supports. Sv39 and Sv48 raise an unimplemented
// trap rather than silently falling back to identity mapping.
func (h *Hart) Translate(va uint64) (uint64, error) {
	switch h.AddressTranslationMode {
	case Bare:
		return va, nil
	default:
		return 0, trap(UnimplementedInstruction, va)
	}
}
