// Package queue composes classification, filtering, search, selection and
// bumping into one view over the pending-approval snapshot.
package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/core/bump"
	"github.com/hay-kot/approvals/internal/core/logging"
	"github.com/hay-kot/approvals/internal/core/sched"
	"github.com/hay-kot/approvals/internal/core/search"
	"github.com/hay-kot/approvals/internal/core/selection"
	"github.com/hay-kot/approvals/internal/core/textnorm"
)

// Fetcher loads the current snapshot.
type Fetcher interface {
	PendingDocuments(ctx context.Context) (approval.Snapshot, error)
}

// Settings tunes the engine's components. Zero values use package defaults.
type Settings struct {
	Requester      approval.Contact
	Debounce       time.Duration
	BatchSize      int
	BatchThreshold int
	TitleEntries   int
	BulkThreshold  int
}

// Summary counts the current view.
type Summary struct {
	Total         int
	Visible       int
	Bumpable      int
	MissingInfo   int
	ExternalEmail int
	Selected      int
	LatestYear    int
}

// Engine holds one view instance. All methods are safe for concurrent use;
// the filter recomputes synchronously whenever an input changes.
type Engine struct {
	fetcher    Fetcher
	classifier *approval.Classifier
	pipeline   approval.Pipeline
	search     *search.Controller
	ledger     *selection.Ledger
	workflow   *bump.Workflow
	onChange   func()
	log        zerolog.Logger

	// recomputing serializes pipeline runs with their ledger resets.
	recomputing sync.Mutex

	mu      sync.Mutex
	snap    approval.ClassifiedSnapshot
	query   approval.Query
	sortKey approval.SortKey
	result  approval.Result
	view    []approval.Classified
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	idle      sched.Scheduler
	afterFunc search.AfterFunc
	onChange  func()
	sortKey   approval.SortKey
	kinds     approval.KindSet
	level     approval.Level
}

// WithScheduler sets the idle scheduler used for search commits and large
// selections.
func WithScheduler(s sched.Scheduler) Option {
	return func(o *engineOptions) { o.idle = s }
}

// WithAfterFunc replaces the debounce timer factory.
func WithAfterFunc(f search.AfterFunc) Option {
	return func(o *engineOptions) { o.afterFunc = f }
}

// OnChange registers a callback fired after the view or selection changes.
func OnChange(fn func()) Option {
	return func(o *engineOptions) { o.onChange = fn }
}

// WithSort sets the initial sort key.
func WithSort(k approval.SortKey) Option {
	return func(o *engineOptions) { o.sortKey = k }
}

// WithKinds sets the initial kind selection.
func WithKinds(kinds approval.KindSet) Option {
	return func(o *engineOptions) { o.kinds = kinds }
}

// WithLevel sets the initial approval level filter.
func WithLevel(l approval.Level) Option {
	return func(o *engineOptions) { o.level = l }
}

// New creates an engine with an empty snapshot.
func New(fetcher Fetcher, sender bump.Sender, settings Settings, opts ...Option) *Engine {
	o := engineOptions{
		idle:    sched.Immediate{},
		sortKey: approval.SortNone,
		kinds:   approval.NewKindSet(approval.KindAll),
		level:   approval.LevelUnset,
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		fetcher:    fetcher,
		classifier: approval.NewClassifier(textnorm.NewCache(settings.TitleEntries)),
		pipeline: approval.Pipeline{
			BatchSize:      settings.BatchSize,
			BatchThreshold: settings.BatchThreshold,
		},
		onChange: o.onChange,
		log:      logging.Component("queue"),
		query: approval.Query{
			Kinds: o.kinds,
			Level: o.level,
		},
		sortKey: o.sortKey,
	}

	searchOpts := []search.Option{
		search.WithScheduler(o.idle),
		search.OnCommit(e.applySearch),
	}
	if settings.Debounce > 0 {
		searchOpts = append(searchOpts, search.WithDelay(settings.Debounce))
	}
	if o.afterFunc != nil {
		searchOpts = append(searchOpts, search.WithAfterFunc(o.afterFunc))
	}
	e.search = search.New(searchOpts...)

	ledgerOpts := []selection.Option{
		selection.WithScheduler(o.idle),
		selection.OnChange(func(int) { e.notify() }),
	}
	if settings.BulkThreshold > 0 {
		ledgerOpts = append(ledgerOpts, selection.WithBulkThreshold(settings.BulkThreshold))
	}
	e.ledger = selection.New(ledgerOpts...)

	e.workflow = bump.New(sender, settings.Requester, bump.OnSuccess(e.afterBump))

	e.recompute()
	return e
}

// Load classifies snap and replaces the current snapshot.
func (e *Engine) Load(snap approval.Snapshot) {
	classified := e.classifier.ClassifySnapshot(snap)

	e.mu.Lock()
	e.snap = classified
	e.mu.Unlock()

	e.recompute()
}

// Refresh fetches a new snapshot and loads it.
func (e *Engine) Refresh(ctx context.Context) error {
	start := time.Now()
	snap, err := e.fetcher.PendingDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetch pending documents: %w", err)
	}
	e.log.Debug().Ctx(ctx).Int("documents", snap.Len()).Dur("elapsed", time.Since(start)).Msg("snapshot fetched")

	e.Load(snap)
	return nil
}

// SetKinds replaces the kind selection.
func (e *Engine) SetKinds(kinds approval.KindSet) {
	e.mu.Lock()
	e.query.Kinds = kinds
	e.mu.Unlock()
	e.recompute()
}

// ToggleKind flips one kind in the selection.
func (e *Engine) ToggleKind(k approval.Kind) {
	e.mu.Lock()
	e.query.Kinds = e.query.Kinds.Toggle(k)
	e.mu.Unlock()
	e.recompute()
}

// SetLevel replaces the approval level filter.
func (e *Engine) SetLevel(l approval.Level) {
	e.mu.Lock()
	e.query.Level = l
	e.mu.Unlock()
	e.recompute()
}

// SetSort changes the sort key. The selection is kept.
func (e *Engine) SetSort(k approval.SortKey) {
	e.mu.Lock()
	e.sortKey = k
	e.view = approval.Sorted(e.result.Visible, k)
	e.mu.Unlock()
	e.notify()
}

// SetSearch commits text immediately without the debounce. Used by
// one-shot commands.
func (e *Engine) SetSearch(text string) {
	e.applySearch(text)
}

// Search returns the search controller. Keystrokes go to SetQuery; the
// filter only changes when a query commits.
func (e *Engine) Search() *search.Controller {
	return e.search
}

// Selection returns the selection ledger.
func (e *Engine) Selection() *selection.Ledger {
	return e.ledger
}

// Workflow returns the bump workflow.
func (e *Engine) Workflow() *bump.Workflow {
	return e.workflow
}

// Query returns the active filter inputs.
func (e *Engine) Query() approval.Query {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.query
	q.Kinds = approval.NewKindSet(q.Kinds.Sorted()...)
	return q
}

// SortKey returns the active sort key.
func (e *Engine) SortKey() approval.SortKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortKey
}

// View returns the visible documents in display order.
func (e *Engine) View() []approval.Classified {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.view)
}

// Result returns the unsorted pipeline output.
func (e *Engine) Result() approval.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Lookup finds a document in the loaded snapshot.
func (e *Engine) Lookup(id int) (approval.Classified, bool) {
	e.mu.Lock()
	snap := e.snap
	e.mu.Unlock()
	return snap.Lookup(id)
}

// Summary counts the current view and selection.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	s := Summary{
		Total:         e.snap.Len(),
		Visible:       len(e.result.Visible),
		Bumpable:      len(e.result.Bumpable),
		MissingInfo:   len(e.result.MissingInfo),
		ExternalEmail: len(e.result.ExternalEmail),
		LatestYear:    e.snap.LatestYear,
	}
	e.mu.Unlock()

	s.Selected = e.ledger.Count()
	return s
}

// SelectAllBumpable checks every bumpable visible document, or clears the
// selection when checked is false.
func (e *Engine) SelectAllBumpable(checked bool) {
	e.mu.Lock()
	universe := e.result.Bumpable
	e.mu.Unlock()
	e.ledger.SelectAll(checked, universe)
}

// BumpDocument starts a single-document confirmation.
func (e *Engine) BumpDocument(id int) error {
	doc, ok := e.Lookup(id)
	if !ok {
		return fmt.Errorf("document %d: %w", id, bump.ErrNothingToSend)
	}
	return e.workflow.BeginSingle(doc)
}

// BumpSelected starts a confirmation covering the selection.
func (e *Engine) BumpSelected() (int, error) {
	return e.workflow.BeginBulk(e.ledger.IDs(), e.Lookup)
}

func (e *Engine) applySearch(committed string) {
	e.mu.Lock()
	e.query.Search = committed
	e.mu.Unlock()
	e.recompute()
}

func (e *Engine) recompute() {
	e.recomputing.Lock()
	defer e.recomputing.Unlock()

	e.mu.Lock()
	res := e.pipeline.Run(e.snap, e.query)
	e.result = res
	e.view = approval.Sorted(res.Visible, e.sortKey)
	e.mu.Unlock()

	e.ledger.Reset(res.Bumpable)
}

func (e *Engine) afterBump(ctx context.Context, sent []approval.BumpRequest) {
	e.ledger.SelectAll(false, nil)
	if err := e.Refresh(ctx); err != nil {
		e.log.Error().Ctx(ctx).Err(err).Int("sent", len(sent)).Msg("refresh after bump failed")
	}
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}
