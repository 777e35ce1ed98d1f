package debugger

import (
	"fmt"

	"github.com/lookbusy1344/riscv-emulator/vm"
)

// cmdRun runs the machine until halt, trap, or breakpoint. If output is
// true ("orun"), each retired instruction's pc is also echoed, mirroring
// the step/ostep output-vs-silent pairing.
func (d *Debugger) cmdRun(args []string, output bool) error {
	h := d.Machine.Hart0()
	for {
		if h.Halted || d.Machine.State == vm.StateError {
			break
		}
		pc := h.PC
		if err := d.Machine.Step(); err != nil {
			if t, ok := err.(*vm.Trap); ok {
				d.Printf("trapped: %s\n", t)
				return nil
			}
			return err
		}
		if output {
			d.Printf("%016x\n", pc)
		}
		if d.OnStep != nil {
			d.OnStep(h.Cycles)
		}
		if stop, reason := d.ShouldBreak(); stop {
			d.Printf("stopped: %s\n", reason)
			return nil
		}
		if h.Halted {
			d.Printf("halted at 0x%016x\n", h.PC)
			break
		}
	}
	return nil
}

// cmdStep executes exactly one instruction. If output is true ("ostep"),
// the resulting register deltas are printed.
func (d *Debugger) cmdStep(args []string, output bool) error {
	h := d.Machine.Hart0()
	before := vm.CaptureSnapshot(h)

	if err := d.Machine.Step(); err != nil {
		if t, ok := err.(*vm.Trap); ok {
			d.Printf("trapped: %s\n", t)
			return nil
		}
		return err
	}

	if output {
		after := vm.CaptureSnapshot(h)
		d.Printf("pc: 0x%016x -> 0x%016x\n", before.PC, after.PC)
		for _, r := range before.ChangedRegisters(after) {
			d.Printf("  %s: 0x%016x -> 0x%016x\n", r, before.X[r], after.X[r])
		}
	}
	return nil
}

// cmdWhatIf executes the next instruction against scratch state and
// reports the register deltas without mutating the real machine.
func (d *Debugger) cmdWhatIf(args []string) error {
	before, after, err := d.Machine.WhatIf()
	if err != nil {
		if t, ok := err.(*vm.Trap); ok {
			d.Printf("would trap: %s\n", t)
			return nil
		}
		return err
	}
	d.Printf("pc: 0x%016x -> 0x%016x\n", before.PC, after.PC)
	changed := before.ChangedRegisters(after)
	if len(changed) == 0 {
		d.Println("no register changes")
	}
	for _, r := range changed {
		d.Printf("  %s: 0x%016x -> 0x%016x\n", r, before.X[r], after.X[r])
	}
	return nil
}

// cmdBreak sets a breakpoint at the given hex address, or clears every
// breakpoint when called with no arguments.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		for _, bp := range d.Breakpoints.GetAllBreakpoints() {
			d.Machine.ClearBreakpoint(bp.Address)
		}
		d.Breakpoints.Clear()
		d.Println("breakpoints cleared")
		return nil
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(addr, false, "")
	d.Machine.SetBreakpoint(addr)
	d.Printf("breakpoint %d set at 0x%016x\n", bp.ID, addr)
	return nil
}

// cmdDump writes the current register file to the output buffer.
func (d *Debugger) cmdDump(args []string) error {
	h := d.Machine.Hart0()
	d.Printf("pc:  0x%016x\n", h.PC)
	for i := 0; i < 32; i++ {
		d.Printf("x%-2d %-4s 0x%016x\n", i, isaRegName(i), h.X[i])
	}
	return nil
}

// cmdReset restarts every hart's architectural state at the entry point
// without reloading the program image.
func (d *Debugger) cmdReset(args []string) error {
	d.Machine.ResetHarts()
	d.Println("reset")
	return nil
}

// cmdHelp prints the fixed set of REPL commands.
func (d *Debugger) cmdHelp(args []string) error {
	d.Println("commands:")
	d.Println("  help, h, ?        show this message")
	d.Println("  run, r            run until halt, trap, or breakpoint")
	d.Println("  orun              run, echoing each retired instruction's pc")
	d.Println("  step, n           execute one instruction")
	d.Println("  ostep, s          execute one instruction, printing register deltas")
	d.Println("  whatif            preview the next instruction's effect without executing it")
	d.Println("  break <hex-addr>  set a breakpoint; no argument clears every breakpoint")
	d.Println("  dump              print the register file")
	d.Println("  reset             restart at the entry point, keeping loaded memory")
	d.Println("  q, quit           exit")
	return nil
}

var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func isaRegName(i int) string {
	if i < 0 || i >= len(regNames) {
		return fmt.Sprintf("x%d", i)
	}
	return regNames[i]
}
