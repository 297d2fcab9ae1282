// Package bump turns selected documents into reminder email requests and
// walks them through confirmation and submission.
package bump

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/logging"
)

var (
	// ErrNothingToSend is returned when no selected document can be bumped.
	ErrNothingToSend = errors.New("no bumpable documents selected")
	// ErrInvalidState is returned for transitions the current state forbids.
	ErrInvalidState = errors.New("invalid bump workflow state")
)

// State is a step of the workflow.
type State int

const (
	StateIdle State = iota
	StateConfirming
	StateSending
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sender delivers a batch of bump requests in a single call.
type Sender interface {
	SendBumpEmails(ctx context.Context, reqs []approval.BumpRequest) error
}

// Lookup resolves a document id against the current view.
type Lookup func(id int) (approval.Classified, bool)

// Workflow runs one Idle -> Confirming -> Sending -> Succeeded cycle at a
// time. A failed submission returns to Confirming with its message kept in
// Failure so the user can retry or cancel.
type Workflow struct {
	sender    Sender
	requester approval.Contact
	onSuccess func(ctx context.Context, sent []approval.BumpRequest)
	log       zerolog.Logger

	mu      sync.Mutex
	state   State
	batch   []approval.BumpRequest
	failure string
}

// Option configures a Workflow.
type Option func(*Workflow)

// OnSuccess registers the callback run after a batch is accepted, typically
// refreshing the snapshot and discarding the selection.
func OnSuccess(fn func(ctx context.Context, sent []approval.BumpRequest)) Option {
	return func(w *Workflow) { w.onSuccess = fn }
}

// New creates a workflow. requester is used for documents that do not
// carry their own requesting user.
func New(sender Sender, requester approval.Contact, opts ...Option) *Workflow {
	w := &Workflow{
		sender:    sender,
		requester: requester,
		log:       logging.Component("bump"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BeginSingle prepares a confirmation for one document. If no request can
// be built the workflow stays idle.
func (w *Workflow) BeginSingle(doc approval.Classified) error {
	req, err := approval.NewBumpRequest(doc, w.requester)
	if err != nil {
		w.log.Info().Int("document_id", doc.ID).Err(err).Msg("document cannot be bumped")
		return fmt.Errorf("%w: %w", ErrNothingToSend, err)
	}
	return w.begin([]approval.BumpRequest{req})
}

// BeginBulk prepares one confirmation covering every selected id that
// produces a request. Ids that do not are dropped. Returns the batch size.
func (w *Workflow) BeginBulk(ids []int, lookup Lookup) (int, error) {
	batch := make([]approval.BumpRequest, 0, len(ids))
	for _, id := range ids {
		doc, ok := lookup(id)
		if !ok {
			w.log.Debug().Int("document_id", id).Msg("selected document not in view")
			continue
		}
		req, err := approval.NewBumpRequest(doc, w.requester)
		if err != nil {
			w.log.Debug().Int("document_id", id).Err(err).Msg("dropping document from bump batch")
			continue
		}
		batch = append(batch, req)
	}

	if len(batch) == 0 {
		return 0, ErrNothingToSend
	}
	if err := w.begin(batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (w *Workflow) begin(batch []approval.BumpRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateIdle, StateSucceeded:
	default:
		return fmt.Errorf("%w: cannot start while %s", ErrInvalidState, w.state)
	}

	w.state = StateConfirming
	w.batch = batch
	w.failure = ""
	return nil
}

// Confirm submits the pending batch in one call. It is only valid while
// confirming, so a second Confirm during Sending is rejected.
func (w *Workflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateConfirming {
		state := w.state
		w.mu.Unlock()
		return fmt.Errorf("%w: cannot confirm while %s", ErrInvalidState, state)
	}
	w.state = StateSending
	batch := slices.Clone(w.batch)
	w.mu.Unlock()

	err := w.sender.SendBumpEmails(ctx, batch)

	w.mu.Lock()
	if err != nil {
		w.state = StateConfirming
		w.failure = err.Error()
		w.mu.Unlock()

		w.log.Error().Ctx(ctx).Err(err).Int("documents", len(batch)).Msg("bump submission failed")
		return err
	}
	w.state = StateSucceeded
	w.batch = nil
	w.failure = ""
	cb := w.onSuccess
	w.mu.Unlock()

	w.log.Info().Ctx(ctx).Int("documents", len(batch)).Msg("bump emails sent")
	if cb != nil {
		cb(ctx, batch)
	}
	return nil
}

// Cancel abandons a pending confirmation.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateConfirming {
		return fmt.Errorf("%w: cannot cancel while %s", ErrInvalidState, w.state)
	}
	w.state = StateIdle
	w.batch = nil
	w.failure = ""
	return nil
}

// Acknowledge returns a succeeded workflow to Idle.
func (w *Workflow) Acknowledge() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSucceeded {
		w.state = StateIdle
		w.failure = ""
	}
}

// State returns the current step.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Batch returns a copy of the requests awaiting confirmation.
func (w *Workflow) Batch() []approval.BumpRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.batch)
}

// Failure returns the last submission error message, empty if none.
func (w *Workflow) Failure() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failure
}
