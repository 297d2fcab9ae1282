package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/approvals/internal/core/styles"
	"github.com/hay-kot/approvals/internal/core/validate"
	"github.com/hay-kot/approvals/pkg/tmpl"
)

// OpenCommandData defines the fields available to web.open_command.
type OpenCommandData struct {
	URL string
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("api.base_url", c.API.BaseURL, httpURL),
		criterio.Run("api.pending_path", c.API.PendingPath, absolutePath),
		criterio.Run("api.bump_path", c.API.BumpPath, absolutePath),
		criterio.Run("web.base_url", c.Web.BaseURL, validate.HTTPURL),
		criterio.Run("web.open_command", c.Web.OpenCommand, openCommand),
		criterio.Run("user.email", c.User.Email, validate.Email),
		criterio.Run("ui.theme", c.UI.Theme, theme),
		c.validateLimits(),
	)
}

// ValidateDeep runs Validate and also checks the config file itself.
func (c *Config) ValidateDeep(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.Validate(),
	)
}

func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder
	if c.API.Timeout <= 0 {
		errs = errs.Append("api.timeout", errors.New("must be positive"))
	}
	if c.Search.Debounce < 0 {
		errs = errs.Append("search.debounce", errors.New("cannot be negative"))
	}
	if c.Search.BatchSize < 1 {
		errs = errs.Append("search.batch_size", errors.New("must be at least 1"))
	}
	if c.Search.BatchThreshold < 1 {
		errs = errs.Append("search.batch_threshold", errors.New("must be at least 1"))
	}
	if c.Selection.BulkThreshold < 1 {
		errs = errs.Append("selection.bulk_threshold", errors.New("must be at least 1"))
	}
	if c.Cache.TitleEntries < 1 {
		errs = errs.Append("cache.title_entries", errors.New("must be at least 1"))
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func httpURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required (or set %s)", EnvAPIURL)
	}
	return validate.HTTPURL(raw)
}

func absolutePath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("must start with /, got %q", p)
	}
	return nil
}

func openCommand(cmd string) error {
	if cmd == "" {
		return nil
	}
	if _, err := tmpl.Render(cmd, OpenCommandData{URL: "https://example.org"}); err != nil {
		return fmt.Errorf("template error: %w", err)
	}
	return nil
}

func theme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}
