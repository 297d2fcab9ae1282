package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.org
  token: secret
  timeout: 5s
user:
  id: 4
  email: jo@dbca.wa.gov.au
  first_name: Jo
  last_name: Bloggs
web:
  base_url: https://app.example.org
  open_command: firefox {{ .URL | shq }}
search:
  debounce: 300ms
  batch_size: 25
cache:
  title_entries: 64
ui:
  theme: gruvbox
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/api/v1/documents/pendingmyaction/stage", cfg.API.PendingPath)
	assert.Equal(t, "/api/v1/documents/batchapproverequest/email", cfg.API.BumpPath)
	assert.Equal(t, UserConfig{ID: 4, Email: "jo@dbca.wa.gov.au", FirstName: "Jo", LastName: "Bloggs"}, cfg.User)
	assert.Equal(t, "https://app.example.org", cfg.Web.BaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 25, cfg.Search.BatchSize)
	assert.Equal(t, 1000, cfg.Search.BatchThreshold)
	assert.Equal(t, 500, cfg.Selection.BulkThreshold)
	assert.Equal(t, 64, cfg.Cache.TitleEntries)
	assert.Equal(t, "gruvbox", cfg.UI.Theme)
}

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://env.example.org")
	t.Setenv(EnvAPIToken, "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, "https://env.example.org", cfg.API.BaseURL)
	assert.Equal(t, "from-env", cfg.API.Token)
	assert.Equal(t, "https://env.example.org", cfg.Web.BaseURL, "web base url falls back to api")
	assert.Equal(t, defaults.API.Timeout, cfg.API.Timeout)
	assert.Equal(t, defaults.Search, cfg.Search)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://override.example.org")
	path := writeConfig(t, "api:\n  base_url: https://file.example.org\n  token: file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.org", cfg.API.BaseURL)
	assert.Equal(t, "file", cfg.API.Token)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "invalid yaml", body: "api: [", wantErr: "parse config file"},
		{name: "missing base url", body: "api:\n  token: x\n", wantErr: "api.base_url"},
		{name: "bad scheme", body: "api:\n  base_url: ftp://example.org\n", wantErr: "http or https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		API:    APIConfig{BaseURL: "https://a.example.org", Timeout: time.Minute, PendingPath: "/p", BumpPath: "/b"},
		Web:    WebConfig{BaseURL: "https://w.example.org"},
		Search: SearchConfig{BatchSize: 10, BatchThreshold: 20},
	}
	cfg.applyDefaults()

	assert.Equal(t, time.Minute, cfg.API.Timeout)
	assert.Equal(t, "/p", cfg.API.PendingPath)
	assert.Equal(t, "/b", cfg.API.BumpPath)
	assert.Equal(t, "https://w.example.org", cfg.Web.BaseURL)
	assert.Equal(t, 10, cfg.Search.BatchSize)
	assert.Equal(t, 20, cfg.Search.BatchThreshold)
	assert.Equal(t, 500, cfg.Selection.BulkThreshold)
}
