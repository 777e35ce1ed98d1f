// Package config loads and saves emulator defaults from a TOML file, the
// way riscv-emu's reference architecture keeps runtime defaults out of
// main.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator configuration.
type Config struct {
	// Machine settings
	Machine struct {
		MemorySize uint64 `toml:"memory_size"`
		HartCount  int    `toml:"hart_count"`
		MaxCycles  uint64 `toml:"max_cycles"`
		EnableTrace bool  `toml:"enable_trace"`
	} `toml:"machine"`

	// Debugger settings
	Debugger struct {
		HistorySize  int  `toml:"history_size"`
		PersistHistory bool `toml:"persist_history"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`

	// Riscof compliance-mode settings
	Riscof struct {
		SignatureOutputFile string `toml:"signature_output_file"`
	} `toml:"riscof"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Machine.MemorySize = 64 * 1024 * 1024 // 64MB
	cfg.Machine.HartCount = 1
	cfg.Machine.MaxCycles = 100_000_000
	cfg.Machine.EnableTrace = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.PersistHistory = true
	cfg.Debugger.ShowRegisters = true

	cfg.Riscof.SignatureOutputFile = ""

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "riscv-emu")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "riscv-emu")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetHistoryPath returns the platform-specific path for the debugger's
// persisted REPL history file, keyed per binary name so that separate
// emulated programs keep separate histories.
func GetHistoryPath(binaryName string) string {
	var dataDir string

	switch runtime.GOOS {
	case "windows":
		dataDir = os.Getenv("APPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dataDir = filepath.Join(dataDir, "riscv-emu", "history")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return binaryName + ".history"
		}
		dataDir = filepath.Join(homeDir, ".local", "share", "riscv-emu", "history")

	default:
		return binaryName + ".history"
	}

	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return binaryName + ".history"
	}

	return filepath.Join(dataDir, filepath.Base(binaryName)+".history")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file
// is not an error: the defaults are returned instead.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
