// Package config handles configuration loading and validation for approvals.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/approvals/internal/core/styles"
)

// Environment variables that override file values.
const (
	EnvAPIURL   = "APPROVALS_API_URL"
	EnvAPIToken = "APPROVALS_API_TOKEN"
)

// Config holds the application configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	User      UserConfig      `yaml:"user"`
	Web       WebConfig       `yaml:"web"`
	Search    SearchConfig    `yaml:"search"`
	Selection SelectionConfig `yaml:"selection"`
	Cache     CacheConfig     `yaml:"cache"`
	UI        UIConfig        `yaml:"ui"`
}

// APIConfig locates the platform REST API.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Token       string        `yaml:"token"`
	Timeout     time.Duration `yaml:"timeout"`
	PendingPath string        `yaml:"pending_path"`
	BumpPath    string        `yaml:"bump_path"`
}

// UserConfig is the requesting user sent with bump emails when a document
// does not carry one.
type UserConfig struct {
	ID        int    `yaml:"id"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// WebConfig controls opening project pages.
type WebConfig struct {
	BaseURL     string `yaml:"base_url"`     // defaults to api.base_url
	OpenCommand string `yaml:"open_command"` // template, .URL is the page
}

// SearchConfig tunes the search debounce and batching.
type SearchConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	BatchSize      int           `yaml:"batch_size"`
	BatchThreshold int           `yaml:"batch_threshold"`
}

// SelectionConfig tunes select-all.
type SelectionConfig struct {
	BulkThreshold int `yaml:"bulk_threshold"`
}

// CacheConfig sizes in-memory caches.
type CacheConfig struct {
	TitleEntries int `yaml:"title_entries"`
}

// UIConfig controls terminal presentation.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:     30 * time.Second,
			PendingPath: "/api/v1/documents/pendingmyaction/stage",
			BumpPath:    "/api/v1/documents/batchapproverequest/email",
		},
		Search: SearchConfig{
			Debounce:       150 * time.Millisecond,
			BatchSize:      50,
			BatchThreshold: 1000,
		},
		Selection: SelectionConfig{
			BulkThreshold: 500,
		},
		Cache: CacheConfig{
			TitleEntries: 1000,
		},
		UI: UIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path, applies environment
// overrides and validates the result. A missing file yields defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := getenv(EnvAPIToken); v != "" {
		c.API.Token = v
	}
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.PendingPath == "" {
		c.API.PendingPath = defaults.API.PendingPath
	}
	if c.API.BumpPath == "" {
		c.API.BumpPath = defaults.API.BumpPath
	}
	if c.Web.BaseURL == "" {
		c.Web.BaseURL = c.API.BaseURL
	}
	if c.Search.BatchSize == 0 {
		c.Search.BatchSize = defaults.Search.BatchSize
	}
	if c.Search.BatchThreshold == 0 {
		c.Search.BatchThreshold = defaults.Search.BatchThreshold
	}
	if c.Selection.BulkThreshold == 0 {
		c.Selection.BulkThreshold = defaults.Selection.BulkThreshold
	}
	if c.Cache.TitleEntries == 0 {
		c.Cache.TitleEntries = defaults.Cache.TitleEntries
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}
