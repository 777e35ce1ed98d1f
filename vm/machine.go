package vm

import (
	"fmt"
	"io"
)

// ExecutionState mirrors the coarse run states of the reference executor
// this package is modeled on, trimmed to what a single-hart interpreter
// actually needs.
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateBreakpoint
	StateError
)

// DefaultMaxCycles bounds a run() call absent an explicit cycle limit, so
// a runaway program (e.g. an infinite loop with no tohost store) cannot
// hang the host process indefinitely.
const DefaultMaxCycles = 100_000_000

// Machine owns the memory and hart set of one emulated system. Complex
// multi-hart SMP execution is out of scope; Harts is sized by
// configuration but only Harts[0] is ever stepped.
type Machine struct {
	Memory *Memory
	Harts  []*Hart

	State      ExecutionState
	CycleLimit uint64
	LastError  error

	EntryPoint uint64

	// OutputWriter receives program output distinct from debugger/tracing
	// output (e.g. a character device mapped by a future syscall model).
	OutputWriter io.Writer

	// Trace, if non-nil, receives one line per fetched and decoded
	// instruction, written before it executes (so an instruction that
	// then traps is traced too).
	Trace io.Writer

	// Compliance-mode (riscof) signature region and halt address; zero
	// values mean compliance mode is disabled.
	TohostAddr        uint64
	BeginSignature    uint64
	EndSignature      uint64
	complianceEnabled bool

	breakpoints map[uint64]bool
}

// NewMachine allocates memory of at least memSize bytes and hartCount
// harts, all reset to pc 0.
func NewMachine(memSize uint64, hartCount int) *Machine {
	m := &Machine{
		Memory:      NewMemory(memSize),
		Harts:       make([]*Hart, hartCount),
		State:       StateHalted,
		breakpoints: make(map[uint64]bool),
	}
	for i := range m.Harts {
		m.Harts[i] = NewHart(i, 0)
	}
	return m
}

// Hart0 returns the first (and, for this core, only steppable) hart.
func (m *Machine) Hart0() *Hart { return m.Harts[0] }

// EnableCompliance arms riscof signature-dump mode: a store to tohostAddr
// halts execution instead of faulting, and Signature() becomes valid.
func (m *Machine) EnableCompliance(tohostAddr, beginSig, endSig uint64) {
	m.TohostAddr = tohostAddr
	m.BeginSignature = beginSig
	m.EndSignature = endSig
	m.complianceEnabled = true
}

// Reset reinitializes memory and every hart, and restores the entry point.
func (m *Machine) Reset() {
	m.Memory.Reset()
	for _, h := range m.Harts {
		h.Reset(m.EntryPoint)
	}
	m.State = StateHalted
	m.LastError = nil
}

// ResetHarts restarts every hart's architectural state at the entry point
// without touching loaded memory contents, mirroring a debugger "reset"
// command that re-runs a program without reloading it.
func (m *Machine) ResetHarts() {
	for _, h := range m.Harts {
		h.Reset(m.EntryPoint)
	}
	m.State = StateHalted
	m.LastError = nil
}

// SetBreakpoint and ClearBreakpoint manage the address set that causes
// Run to stop before executing the instruction at that PC.
func (m *Machine) SetBreakpoint(addr uint64)   { m.breakpoints[addr] = true }
func (m *Machine) ClearBreakpoint(addr uint64) { delete(m.breakpoints, addr) }
func (m *Machine) HasBreakpoint(addr uint64) bool {
	return m.breakpoints[addr]
}

// Signature writes the compliance-mode signature region to w. Returns an
// error if compliance mode was never enabled.
func (m *Machine) Signature(w io.Writer) error {
	if !m.complianceEnabled {
		return fmt.Errorf("signature dump requested but compliance mode is not enabled")
	}
	return m.Memory.DumpHex(w, m.BeginSignature, m.EndSignature)
}

// Run steps Hart0 until halt, a trap, the cycle limit (CycleLimit, or
// DefaultMaxCycles when CycleLimit is 0), or a
// breakpoint (other than at the current PC, which Step always executes
// through so that resuming from a breakpoint makes progress).
func (m *Machine) Run() error {
	m.State = StateRunning
	h := m.Hart0()
	limit := m.CycleLimit
	if limit == 0 {
		limit = DefaultMaxCycles
	}
	for {
		if h.Cycles >= limit {
			m.State = StateError
			m.LastError = fmt.Errorf("cycle limit exceeded (%d cycles)", limit)
			return m.LastError
		}
		if err := m.Step(); err != nil {
			return err
		}
		if m.State != StateRunning {
			return nil
		}
		if m.HasBreakpoint(h.PC) {
			m.State = StateBreakpoint
			return nil
		}
	}
}

// Step executes exactly one instruction on Hart0.
func (m *Machine) Step() error {
	h := m.Hart0()
	if h.Halted {
		m.State = StateHalted
		return nil
	}
	if m.State == StateError {
		return fmt.Errorf("machine is in error state: %w", m.LastError)
	}

	if err := m.step(h, false); err != nil {
		m.State = StateError
		m.LastError = err
		return err
	}
	if h.Halted {
		m.State = StateHalted
	}
	return nil
}

// WhatIf executes one instruction against a scratch copy of the hart and
// memory, reporting the would-be register deltas without mutating real
// machine state. Used by the debugger's "whatif" command.
//
// A load/store/AMO's effective address is x[rs1]+imm, unrelated to pc, so
// the only window guaranteed to cover whatever byte the instruction
// touches is the whole buffer: this snapshots and restores it wholesale
// rather than guessing at a range around pc.
func (m *Machine) WhatIf() (*Snapshot, *Snapshot, error) {
	h := m.Hart0()
	before := CaptureSnapshot(h)

	savedHart := *h
	savedMemory := m.snapshotMemory()

	err := m.step(h, true)
	after := CaptureSnapshot(h)

	*h = savedHart
	copy(m.Memory.buf, savedMemory)
	return before, after, err
}

// snapshotMemory copies the entire physical memory buffer so WhatIf can
// undo any side effect of a dry-run step without tracking exactly which
// bytes execute() touched.
func (m *Machine) snapshotMemory() []byte {
	buf := make([]byte, len(m.Memory.buf))
	copy(buf, m.Memory.buf)
	return buf
}
