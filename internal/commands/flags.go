package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/approvals/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// ProfilerPort enables the pprof endpoint for the TUI when non-zero.
	ProfilerPort int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "approvals", "config.yaml")
}

// DefaultLogFile returns the log file used while the TUI owns the terminal.
// On macOS: ~/Library/Logs/approvals/approvals.log
// On Linux: $XDG_STATE_HOME/approvals/approvals.log (defaults to ~/.local/state/approvals/approvals.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "approvals", "approvals.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "approvals", "approvals.log")
	}

	return filepath.Join(home, ".local", "state", "approvals", "approvals.log")
}
