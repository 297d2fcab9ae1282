package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/approvals/internal/core/approval"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		BaseURL:     srv.URL,
		Token:       "secret",
		Timeout:     5 * time.Second,
		PendingPath: "/api/v1/documents/pending",
		BumpPath:    "/api/v1/documents/bump",
	}, nil)
	require.NoError(t, err)
	return c
}

func TestClient_PendingDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/documents/pending", r.URL.Path)
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		_, _ = io.WriteString(w, `{
			"all": [{"document_id": 1, "project_id": 3, "kind": "concept", "title": "<p>A</p>", "is_bumpable": true}],
			"concept": [{"document_id": 1, "project_id": 3, "kind": "concept", "title": "<p>A</p>", "is_bumpable": true}],
			"latest_year": 2025
		}`)
	})

	snap, err := c.PendingDocuments(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2025, snap.LatestYear)
	require.Len(t, snap.All, 1)
	assert.True(t, snap.All[0].IsBumpable)
	assert.Len(t, snap.Buckets[approval.KindConcept], 1)
}

func TestClient_PendingDocuments_EmptyBody(t *testing.T) {
	for _, body := range []string{"", "null", "  \n"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		snap, err := c.PendingDocuments(context.Background())
		require.NoError(t, err, "body %q", body)
		assert.Equal(t, 0, snap.Len())
	}
}

func TestClient_SendBumpEmails(t *testing.T) {
	var got bumpPayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	reqs := []approval.BumpRequest{
		{DocumentID: 1, DocumentKind: approval.KindConcept, ProjectID: 3},
		{DocumentID: 2, DocumentKind: approval.KindProjectPlan, ProjectID: 4},
	}
	require.NoError(t, c.SendBumpEmails(context.Background(), reqs))
	assert.Equal(t, reqs, got.DocumentsRequiringAction)
}

func TestClient_SendBumpEmails_ValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"email": ["invalid"], "other": ["ignored"]}`)
	})

	err := c.SendBumpEmails(context.Background(), []approval.BumpRequest{{DocumentID: 1}})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "400: invalid", err.Error())
}

func TestFirstMessage(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{name: "first key wins in document order", body: `{"zeta": ["z"], "alpha": ["a"]}`, want: "z", wantOK: true},
		{name: "string value", body: `{"detail": "Not found."}`, want: "Not found.", wantOK: true},
		{name: "nested object", body: `{"errors": {"email": ["bad"]}}`, want: "bad", wantOK: true},
		{name: "number", body: `{"code": 42}`, want: "42", wantOK: true},
		{name: "empty object", body: `{}`},
		{name: "empty array", body: `{"errors": []}`},
		{name: "not json", body: `<html>Bad Gateway</html>`},
		{name: "empty", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstMessage([]byte(tt.body))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_GenericErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.SendBumpEmails(context.Background(), nil)
	assert.EqualError(t, err, "502: "+GenericErrorMessage)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.com"}, nil)
	assert.Error(t, err)
}
