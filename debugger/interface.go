package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs the command-line debugger REPL. If historyPath is
// non-empty, prior commands are loaded from it on entry and the updated
// history is saved back to it on exit.
func RunCLI(dbg *Debugger, historyPath string) error {
	if historyPath != "" {
		if err := dbg.History.LoadFromFile(historyPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load history: %v\n", err)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(riscv-dbg) ")

		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		err := dbg.ExecuteCommand(cmdLine)

		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}

		if err == errQuit {
			break
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	if historyPath != "" {
		if err := dbg.History.SaveToFile(historyPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save history: %v\n", err)
		}
	}

	return nil
}

// RunTUI runs the optional tcell/tview-based text user interface.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
