package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the optional text user interface for the debugger, an
// alternative front end to the same Debugger the line-oriented REPL
// drives.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	RightPanel *tview.Flex

	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress uint64
}

// NewTUI creates a new text user interface.
func NewTUI(debugger *Debugger) *TUI {
	t := &TUI{
		Debugger: debugger,
		App:      tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	t.setupStepHook()

	return t
}

// NewTUIWithScreen creates a TUI bound to an explicit tcell screen,
// letting tests drive it against a tcell.SimulationScreen instead of a
// real terminal.
func NewTUIWithScreen(debugger *Debugger, screen tcell.Screen) *TUI {
	t := &TUI{
		Debugger: debugger,
		App:      tview.NewApplication(),
	}

	t.App.SetScreen(screen)
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	t.setupStepHook()

	return t
}

// setupStepHook repaints the display every DisplayUpdateFrequency
// retired instructions during a "run"/"orun", instead of leaving the
// terminal frozen until the machine halts.
func (t *TUI) setupStepHook() {
	t.Debugger.OnStep = func(cycles uint64) {
		if cycles%DisplayUpdateFrequency == 0 {
			t.RefreshAll()
		}
	}
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, RegisterViewRows, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.MemoryView, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("run")
			return nil
		case tcell.KeyF10:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if output != "" {
		t.WriteOutput(output)
	}
	if err == errQuit {
		t.App.Stop()
		return
	}
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}

	t.RefreshAll()
}

func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

func (t *TUI) RefreshAll() {
	t.UpdateRegisterView()
	t.UpdateMemoryView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) UpdateRegisterView() {
	t.RegisterView.Clear()
	h := t.Debugger.Machine.Hart0()

	var lines []string
	for i := 0; i < 32/RegisterGroupSize+1; i++ {
		var cols []string
		for j := 0; j < RegisterGroupSize; j++ {
			reg := i*RegisterGroupSize + j
			if reg >= 32 {
				break
			}
			cols = append(cols, fmt.Sprintf("%-4s 0x%016x", isaRegName(reg), h.X[reg]))
		}
		if len(cols) > 0 {
			lines = append(lines, strings.Join(cols, "  "))
		}
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("pc:     0x%016x", h.PC))
	lines = append(lines, fmt.Sprintf("cycles: %d", h.Cycles))

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateMemoryView() {
	t.MemoryView.Clear()

	addr := t.MemoryAddress
	if addr == 0 {
		addr = t.Debugger.Machine.Hart0().PC
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]address: 0x%016x[white]", addr))

	mem := t.Debugger.Machine.Memory
	for row := 0; row < MemoryDisplayRows; row++ {
		rowAddr := addr + uint64(row*MemoryDisplayBytesPerRow)
		line := fmt.Sprintf("0x%016x: ", rowAddr)

		var hexBytes []string
		var asciiBytes []byte
		for col := 0; col < MemoryDisplayColumns; col++ {
			b, err := mem.LoadByte(rowAddr + uint64(col))
			if err != nil {
				hexBytes = append(hexBytes, "??")
				asciiBytes = append(asciiBytes, '.')
				continue
			}
			hexBytes = append(hexBytes, fmt.Sprintf("%02x", b))
			if b >= 32 && b < 127 {
				asciiBytes = append(asciiBytes, b)
			} else {
				asciiBytes = append(asciiBytes, '.')
			}
		}
		line += strings.Join(hexBytes, " ") + "  " + string(asciiBytes)
		lines = append(lines, line)
	}

	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()

	var lines []string
	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		lines = append(lines, "[yellow]no breakpoints set[white]")
	}
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("  %d: [%s]%s[white] 0x%016x (hits: %d)",
			bp.ID, color, status, bp.Address, bp.HitCount))
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI application.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]riscv-emulator debugger[white]\n")
	t.WriteOutput("F1 help, F5 run, F10 step, Ctrl+C quit\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
