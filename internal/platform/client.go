// Package platform is the REST client for the project management platform
// that owns pending documents and sends bump emails.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/logging"
)

const maxErrorBody = 64 << 10

// Config holds connection settings.
type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	PendingPath string
	BumpPath    string
}

// Client talks to the platform API.
type Client struct {
	base        *url.URL
	token       string
	http        *http.Client
	pendingPath string
	bumpPath    string
	log         zerolog.Logger
}

// New creates a client. A nil httpClient uses one with cfg.Timeout.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", cfg.BaseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		base:        base,
		token:       cfg.Token,
		http:        httpClient,
		pendingPath: cfg.PendingPath,
		bumpPath:    cfg.BumpPath,
		log:         logging.Component("platform"),
	}, nil
}

// PendingDocuments fetches the snapshot of documents awaiting the current
// user's action for the current year. An empty response body yields an
// empty snapshot.
func (c *Client) PendingDocuments(ctx context.Context) (approval.Snapshot, error) {
	var snap approval.Snapshot
	err := c.do(ctx, http.MethodGet, c.pendingPath, nil, func(body []byte) error {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || string(trimmed) == "null" {
			return nil
		}
		if err := json.Unmarshal(trimmed, &snap); err != nil {
			return fmt.Errorf("decode pending documents: %w", err)
		}
		return nil
	})
	if err != nil {
		return approval.Snapshot{}, err
	}
	return snap, nil
}

type bumpPayload struct {
	DocumentsRequiringAction []approval.BumpRequest `json:"documentsRequiringAction"`
}

// SendBumpEmails submits the whole batch in one call. Any 2xx is success.
func (c *Client) SendBumpEmails(ctx context.Context, reqs []approval.BumpRequest) error {
	body, err := json.Marshal(bumpPayload{DocumentsRequiringAction: reqs})
	if err != nil {
		return fmt.Errorf("encode bump requests: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.bumpPath, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, decode func([]byte) error) error {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	endpoint := c.base.JoinPath(strings.TrimPrefix(path, "/"))

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", logging.RequestID(ctx))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Ctx(ctx).Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().Ctx(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, readBody(resp.Body, maxErrorBody))
	}

	if decode == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return decode(data)
}
