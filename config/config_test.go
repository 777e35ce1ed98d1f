package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Machine.MemorySize != 64*1024*1024 {
		t.Errorf("expected MemorySize=64MiB, got %d", cfg.Machine.MemorySize)
	}
	if cfg.Machine.HartCount != 1 {
		t.Errorf("expected HartCount=1, got %d", cfg.Machine.HartCount)
	}
	if cfg.Machine.MaxCycles != 100_000_000 {
		t.Errorf("expected MaxCycles=100000000, got %d", cfg.Machine.MaxCycles)
	}
	if cfg.Machine.EnableTrace {
		t.Error("expected EnableTrace=false")
	}
	if !cfg.Debugger.PersistHistory {
		t.Error("expected PersistHistory=true")
	}
	if cfg.Riscof.SignatureOutputFile != "" {
		t.Error("expected empty SignatureOutputFile")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "riscv-emu" && path != "config.toml" {
			t.Errorf("expected path in riscv-emu directory or fallback, got %s", path)
		}
	}
}

func TestGetHistoryPath(t *testing.T) {
	path := GetHistoryPath("/tmp/foo/rv64ui-p-addi.elf")
	if path == "" {
		t.Fatal("GetHistoryPath returned empty string")
	}
	if filepath.Base(path) != "rv64ui-p-addi.elf.history" {
		t.Errorf("expected history file keyed by binary name, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Machine.MemorySize = 8 * 1024 * 1024
	cfg.Machine.MaxCycles = 5_000_000
	cfg.Machine.EnableTrace = true
	cfg.Debugger.HistorySize = 500
	cfg.Riscof.SignatureOutputFile = "sig.txt"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Machine.MemorySize != 8*1024*1024 {
		t.Errorf("expected MemorySize=8MiB, got %d", loaded.Machine.MemorySize)
	}
	if loaded.Machine.MaxCycles != 5_000_000 {
		t.Errorf("expected MaxCycles=5000000, got %d", loaded.Machine.MaxCycles)
	}
	if !loaded.Machine.EnableTrace {
		t.Error("expected EnableTrace=true")
	}
	if loaded.Debugger.HistorySize != 500 {
		t.Errorf("expected HistorySize=500, got %d", loaded.Debugger.HistorySize)
	}
	if loaded.Riscof.SignatureOutputFile != "sig.txt" {
		t.Errorf("expected SignatureOutputFile=sig.txt, got %s", loaded.Riscof.SignatureOutputFile)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}
	if cfg.Machine.MaxCycles != 100_000_000 {
		t.Error("expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[machine]
max_cycles = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}
