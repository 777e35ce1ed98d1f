package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/riscv-emulator/vm"
)

// Debugger represents the debugger state and functionality.
type Debugger struct {
	Machine *vm.Machine

	Breakpoints *BreakpointManager
	History     *CommandHistory

	// LastCommand supports repeating the previous command on blank input.
	LastCommand string

	Output strings.Builder

	// OnStep, if set, is invoked after every instruction retired by
	// cmdRun. The TUI uses it to repaint every DisplayUpdateFrequency
	// cycles instead of only once the run completes.
	OnStep func(cycles uint64)
}

// NewDebugger creates a new debugger instance wrapping machine.
func NewDebugger(machine *vm.Machine) *Debugger {
	return &Debugger{
		Machine:     machine,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
	}
}

// ResolveAddress parses a hex ("0x...") or decimal address string.
func (d *Debugger) ResolveAddress(addrStr string) (uint64, error) {
	base := 10
	s := addrStr
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	addr, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return addr, nil
}

// ExecuteCommand processes and executes a debugger command line.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	return d.handleCommand(cmd, args)
}

// handleCommand dispatches a command to its handler. The command set is
// exactly the one the interactive REPL documents via "help": run/orun,
// step/ostep, whatif, break, dump, reset, help, quit.
func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args, false)
	case "orun":
		return d.cmdRun(args, true)
	case "step", "n":
		return d.cmdStep(args, false)
	case "ostep", "s":
		return d.cmdStep(args, true)
	case "whatif":
		return d.cmdWhatIf(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "dump":
		return d.cmdDump(args)
	case "reset":
		return d.cmdReset(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// errQuit is a sentinel returned by the quit command; the REPL loop in
// interface.go recognizes it and exits cleanly rather than reporting it
// as a command error.
var errQuit = fmt.Errorf("quit")

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// ShouldBreak reports whether execution should pause at the hart's
// current PC, and a reason string for display.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Machine.Hart0().PC
	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil && bp.Enabled {
		bp = d.Breakpoints.ProcessHit(pc)
		return true, fmt.Sprintf("breakpoint %d at 0x%016x", bp.ID, bp.Address)
	}
	return false, ""
}
