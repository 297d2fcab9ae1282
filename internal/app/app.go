// Package app wires configuration into the services commands and the TUI
// consume.
package app

import (
	"fmt"
	"net/http"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/config"
	"github.com/hay-kot/approvals/internal/navigate"
	"github.com/hay-kot/approvals/internal/platform"
	"github.com/hay-kot/approvals/internal/queue"
	"github.com/hay-kot/approvals/pkg/executil"
)

// App is the central entry point for all approvals operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config   *config.Config
	Platform *platform.Client
	Browser  *navigate.Browser
}

// New constructs an App from configuration. A nil httpClient uses one
// honouring api.timeout.
func New(cfg *config.Config, exec executil.Executor, httpClient *http.Client) (*App, error) {
	client, err := platform.New(platform.Config{
		BaseURL:     cfg.API.BaseURL,
		Token:       cfg.API.Token,
		Timeout:     cfg.API.Timeout,
		PendingPath: cfg.API.PendingPath,
		BumpPath:    cfg.API.BumpPath,
	}, httpClient)
	if err != nil {
		return nil, fmt.Errorf("create platform client: %w", err)
	}

	browser, err := navigate.New(cfg.Web.BaseURL, cfg.Web.OpenCommand, exec)
	if err != nil {
		return nil, fmt.Errorf("create browser: %w", err)
	}

	return &App{
		Config:   cfg,
		Platform: client,
		Browser:  browser,
	}, nil
}

// Requester is the configured user sent with bump requests.
func (a *App) Requester() approval.Contact {
	u := a.Config.User
	return approval.Contact{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Settings derives engine settings from configuration.
func (a *App) Settings() queue.Settings {
	return queue.Settings{
		Requester:      a.Requester(),
		Debounce:       a.Config.Search.Debounce,
		BatchSize:      a.Config.Search.BatchSize,
		BatchThreshold: a.Config.Search.BatchThreshold,
		TitleEntries:   a.Config.Cache.TitleEntries,
		BulkThreshold:  a.Config.Selection.BulkThreshold,
	}
}

// NewEngine creates a view engine fetching from fetcher, or from the
// platform when fetcher is nil. Bumps always go to the platform.
func (a *App) NewEngine(fetcher queue.Fetcher, opts ...queue.Option) *queue.Engine {
	if fetcher == nil {
		fetcher = a.Platform
	}
	return queue.New(fetcher, a.Platform, a.Settings(), opts...)
}
