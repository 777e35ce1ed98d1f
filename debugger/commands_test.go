package debugger

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/riscv-emulator/vm"
)

func newTestDebugger() *Debugger {
	m := vm.NewMachine(64*1024, 1)
	m.ResetHarts()
	return NewDebugger(m)
}

func TestCmdBreakSetsBreakpoint(t *testing.T) {
	d := newTestDebugger()

	if err := d.cmdBreak([]string{"0x100"}); err != nil {
		t.Fatalf("cmdBreak: %v", err)
	}
	if !d.Machine.HasBreakpoint(0x100) {
		t.Error("expected breakpoint at 0x100 on the machine")
	}
	if !d.Breakpoints.HasBreakpoint(0x100) {
		t.Error("expected breakpoint at 0x100 in the manager")
	}
}

func TestCmdBreakWithNoArgumentClearsBreakpoints(t *testing.T) {
	d := newTestDebugger()

	if err := d.cmdBreak([]string{"0x100"}); err != nil {
		t.Fatalf("cmdBreak set: %v", err)
	}
	if err := d.cmdBreak([]string{"0x200"}); err != nil {
		t.Fatalf("cmdBreak set: %v", err)
	}

	if err := d.cmdBreak(nil); err != nil {
		t.Fatalf("cmdBreak clear: %v", err)
	}

	if d.Machine.HasBreakpoint(0x100) || d.Machine.HasBreakpoint(0x200) {
		t.Error("expected no breakpoints left on the machine")
	}
	if d.Breakpoints.Count() != 0 {
		t.Errorf("expected no breakpoints left in the manager, got %d", d.Breakpoints.Count())
	}
	if !strings.Contains(d.GetOutput(), "cleared") {
		t.Error("expected output to confirm breakpoints were cleared")
	}
}
