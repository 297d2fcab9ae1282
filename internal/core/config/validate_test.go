package config

import (
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.org"
	cfg.applyDefaults()
	return &cfg
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.True(t, errors.As(err, &fieldErrs), "expected field errors, got %v", err)
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field)
	}
	return names
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Web.OpenCommand = "open {{ .URL | shq }}"
	cfg.User.Email = "jo@dbca.wa.gov.au"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, field: "api.base_url"},
		{name: "base url without host", mutate: func(c *Config) { c.API.BaseURL = "https://" }, field: "api.base_url"},
		{name: "relative pending path", mutate: func(c *Config) { c.API.PendingPath = "api/pending" }, field: "api.pending_path"},
		{name: "relative bump path", mutate: func(c *Config) { c.API.BumpPath = "bump" }, field: "api.bump_path"},
		{name: "bad web url", mutate: func(c *Config) { c.Web.BaseURL = "mailto:x" }, field: "web.base_url"},
		{name: "bad open command", mutate: func(c *Config) { c.Web.OpenCommand = "open {{ .Path }}" }, field: "web.open_command"},
		{name: "bad email", mutate: func(c *Config) { c.User.Email = "nobody" }, field: "user.email"},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, field: "api.timeout"},
		{name: "negative debounce", mutate: func(c *Config) { c.Search.Debounce = -1 }, field: "search.debounce"},
		{name: "zero batch size", mutate: func(c *Config) { c.Search.BatchSize = 0 }, field: "search.batch_size"},
		{name: "zero cache", mutate: func(c *Config) { c.Cache.TitleEntries = 0 }, field: "cache.title_entries"},
		{name: "unknown theme", mutate: func(c *Config) { c.UI.Theme = "solarized" }, field: "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, fieldNames(t, err), tt.field)
		})
	}
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)
	err := cfg.ValidateDeep(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, fieldNames(t, err), "config_file")
}

func TestValidateDeep_MissingFileIsFine(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep("/nonexistent/approvals/config.yaml"))
}
