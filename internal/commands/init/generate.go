package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/approvals/internal/core/config"
)

// Answers are the values collected by the wizard.
type Answers struct {
	BaseURL   string
	Token     string
	UserID    int
	Email     string
	FirstName string
	LastName  string
}

// GenerateConfig builds a config from defaults and answers.
func GenerateConfig(a Answers) (config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	cfg.API.Token = strings.TrimSpace(a.Token)
	cfg.User = config.UserConfig{
		ID:        a.UserID,
		Email:     strings.TrimSpace(a.Email),
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid answers: %w", err)
	}
	return cfg, nil
}

// WriteConfig writes cfg as YAML, creating parent directories.
func WriteConfig(cfg config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}
