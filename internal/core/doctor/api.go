package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/approvals/internal/core/approval"
)

// Fetcher loads the pending snapshot.
type Fetcher interface {
	PendingDocuments(ctx context.Context) (approval.Snapshot, error)
}

// APICheck fetches the pending snapshot once to confirm the platform is
// reachable and the token is accepted.
type APICheck struct {
	fetcher Fetcher
	baseURL string
}

// NewAPICheck creates an API reachability check.
func NewAPICheck(fetcher Fetcher, baseURL string) *APICheck {
	return &APICheck{fetcher: fetcher, baseURL: baseURL}
}

func (c *APICheck) Name() string {
	return "Platform API"
}

func (c *APICheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	start := time.Now()
	snap, err := c.fetcher.PendingDocuments(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		result.Items = append(result.Items, fail(c.baseURL, err.Error()))
		return result
	}

	result.Items = append(result.Items,
		pass(c.baseURL, fmt.Sprintf("reachable in %s", elapsed)),
		pass("pending documents", fmt.Sprintf("%d (reporting year %d)", snap.Len(), snap.LatestYear)),
	)
	return result
}
