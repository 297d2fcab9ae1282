package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hay-kot/approvals/internal/core/config"
)

const backupTimeFormat = "20060102-150405"

// Backup describes a copy of an existing config made before it is replaced.
type Backup struct {
	Path string
	// Invalid holds the load error of the replaced file, nil when it loaded
	// cleanly.
	Invalid error
}

// BackupConfig copies the config at configPath to a timestamped sibling,
// config.yaml.20261017-150405.bak, so earlier backups are kept. The copy
// keeps the 0600 mode because the file may hold an API token. A missing
// file returns a zero Backup and no error.
func BackupConfig(configPath string, now time.Time) (Backup, error) {
	content, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Backup{}, nil
	}
	if err != nil {
		return Backup{}, fmt.Errorf("read existing config: %w", err)
	}

	backupPath := fmt.Sprintf("%s.%s.bak", configPath, now.Format(backupTimeFormat))
	if err := os.WriteFile(backupPath, content, 0o600); err != nil {
		return Backup{}, fmt.Errorf("write backup: %w", err)
	}

	b := Backup{Path: backupPath}
	if _, err := config.Load(configPath); err != nil {
		b.Invalid = err
	}
	return b, nil
}

// ConfigExists checks if a config file exists at the given path.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return err == nil
}
