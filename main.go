package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/riscv-emulator/config"
	"github.com/lookbusy1344/riscv-emulator/debugger"
	"github.com/lookbusy1344/riscv-emulator/loader"
	"github.com/lookbusy1344/riscv-emulator/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("riscv", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder)) // suppress flag's own usage spam; we print our own

	var (
		showVersion = fs.Bool("version", false, "")
		showHelp    = fs.Bool("help", false, "")
	)
	fs.BoolVar(showVersion, "v", false, "")
	fs.BoolVar(showHelp, "h", false, "")

	if err := fs.Parse(args); err != nil {
		printHelp()
		return 1
	}

	if *showVersion {
		fmt.Printf("riscv-emulator %s (commit %s, built %s)\n", Version, Commit, Date)
		return 0
	}
	if *showHelp {
		printHelp()
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printHelp()
		return 1
	}

	mode := rest[0]
	switch mode {
	case "user":
		fmt.Fprintln(os.Stderr, "ERROR: user mode (host-syscall translation) is not implemented")
		return 1
	case "system":
		return runSystem(rest[1:])
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown mode %q (want user or system)\n", mode)
		return 1
	}
}

func runSystem(args []string) int {
	fs := flag.NewFlagSet("system", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	var (
		memMiB      = fs.Uint64("memory", 4096, "")
		interactive = fs.Bool("interactive", false, "")
		riscof      = fs.String("riscof", "", "")
		harts       = fs.Int("harts", 1, "")
	)
	fs.Uint64Var(memMiB, "m", 4096, "")
	fs.BoolVar(interactive, "i", false, "")

	if err := fs.Parse(args); err != nil {
		printHelp()
		return 1
	}

	if *harts != 1 {
		fmt.Fprintln(os.Stderr, "ERROR: multi-hart execution is not yet implemented")
		return 1
	}
	if *interactive && *riscof != "" {
		fmt.Fprintln(os.Stderr, "ERROR: -interactive and -riscof are mutually exclusive")
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: missing FILE argument")
		return 1
	}
	path := rest[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading config: %v\n", err)
		return 1
	}

	img, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	memSize := memMiB2Bytes(*memMiB)
	for _, r := range img.Regions {
		if need := r.Addr + r.MemLen; need > memSize {
			memSize = need
		}
	}

	machine := vm.NewMachine(memSize, *harts)
	machine.EntryPoint = img.Entry
	machine.CycleLimit = cfg.Machine.MaxCycles

	if err := machine.Memory.LoadRegions(img.Regions); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading image into memory: %v\n", err)
		return 1
	}
	machine.ResetHarts()

	if *riscof != "" {
		if !img.HasSignatureSymbols {
			fmt.Fprintln(os.Stderr, "ERROR: riscof mode requires begin_signature and end_signature symbols")
			return 1
		}
		machine.EnableCompliance(img.Tohost, img.BeginSignature, img.EndSignature)

		if err := machine.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}

		out, err := os.Create(*riscof) // #nosec G304 -- user-specified signature output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: creating signature file: %v\n", err)
			return 1
		}
		defer out.Close()

		if err := machine.Signature(out); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: writing signature: %v\n", err)
			return 1
		}
		return 0
	}

	if *interactive {
		dbg := debugger.NewDebugger(machine)
		historyPath := ""
		if cfg.Debugger.PersistHistory {
			historyPath = config.GetHistoryPath(path)
		}
		fmt.Println("riscv-dbg - type 'help' for commands")
		fmt.Printf("loaded: %s\n\n", path)
		if err := debugger.RunCLI(dbg, historyPath); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return 1
		}
		return 0
	}

	if err := machine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func memMiB2Bytes(mib uint64) uint64 { return mib * 1024 * 1024 }

func printHelp() {
	fmt.Printf(`riscv-emulator %s

Usage: riscv [--help|-h] [--version|-v] MODE [mode options] FILE

MODE:
  user                  host-syscall translation (not implemented)
  system                run a bare-metal image against flat physical memory

system options:
  -m, --memory MiB      size of the flat memory in MiB (default 4096)
  --harts N             number of harts (default 1; only 1 is supported)
  -i, --interactive      drop into the REPL after loading
  --riscof PATH          compliance mode: write the signature to PATH

Examples:
  riscv system firmware.elf
  riscv system -i firmware.elf
  riscv system --riscof=signature.txt rv64ui-p-addi.elf
`, Version)
}
