// Package navigate opens a document's project page in the user's browser.
package navigate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/logging"
	"github.com/hay-kot/approvals/pkg/executil"
	"github.com/hay-kot/approvals/pkg/tmpl"
)

// DefaultOpenCommand returns the platform's URL opener as a command template.
func DefaultOpenCommand() string {
	if runtime.GOOS == "darwin" {
		return "open {{ .URL | shq }}"
	}
	return "xdg-open {{ .URL | shq }}"
}

// Browser resolves project pages against the web base URL and launches them.
type Browser struct {
	base    *url.URL
	command string
	exec    executil.Executor
	log     zerolog.Logger
}

// New creates a Browser. An empty command uses DefaultOpenCommand; a command
// without template actions gets the quoted URL appended.
func New(baseURL, command string, exec executil.Executor) (*Browser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse web base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("web base url must be http or https, got %q", baseURL)
	}

	command = strings.TrimSpace(command)
	switch {
	case command == "":
		command = DefaultOpenCommand()
	case !strings.Contains(command, "{{"):
		command += " {{ .URL | shq }}"
	}

	return &Browser{
		base:    base,
		command: command,
		exec:    exec,
		log:     logging.Component("navigate"),
	}, nil
}

// Command returns the resolved open command template.
func (b *Browser) Command() string {
	return b.command
}

// URL returns the absolute project page for doc.
func (b *Browser) URL(doc approval.Document) (string, error) {
	path, err := approval.ProjectPath(doc)
	if err != nil {
		return "", err
	}
	return b.base.JoinPath(path).String(), nil
}

// Open launches the project page for doc. Documents without a project are
// skipped and reported with an empty URL and no error.
func (b *Browser) Open(ctx context.Context, doc approval.Document) (string, error) {
	ctx = logging.WithDocumentID(ctx, strconv.Itoa(doc.ID))

	target, err := b.URL(doc)
	if err != nil {
		if errors.Is(err, approval.ErrNoProject) {
			b.log.Warn().Ctx(ctx).Msg("document has no project, nothing to open")
			return "", nil
		}
		return "", err
	}

	line, err := tmpl.Render(b.command, map[string]string{"URL": target})
	if err != nil {
		return "", fmt.Errorf("render open command: %w", err)
	}

	b.log.Debug().Ctx(ctx).Str("url", target).Msg("opening project page")
	if err := b.exec.RunSh(ctx, line); err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	return target, nil
}
