package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/approvals/internal/app"
	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/queue"
	"github.com/hay-kot/approvals/pkg/iojson"
)

// filterFlags are the view inputs shared by ls and bump.
type filterFlags struct {
	kinds  []string
	level  string
	search string
	area   string
	sort   string
	file   iojson.FileReader[approval.Snapshot]
}

func (f *filterFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "kind",
			Aliases:     []string{"k"},
			Usage:       "document kind to include, repeatable (concept, projectplan, progressreport, studentreport, projectclosure, all)",
			Destination: &f.kinds,
		},
		&cli.StringFlag{
			Name:        "level",
			Aliases:     []string{"l"},
			Usage:       "approval level the document waits on (project_lead, business_area_lead, directorate)",
			Destination: &f.level,
		},
		&cli.StringFlag{
			Name:        "search",
			Aliases:     []string{"s"},
			Usage:       "case-insensitive title search",
			Destination: &f.search,
		},
		&cli.StringFlag{
			Name:        "area",
			Usage:       "glob matched against the business area name (e.g. 'biodiversity*')",
			Destination: &f.area,
		},
		&cli.StringFlag{
			Name:        "sort",
			Usage:       "sort by kind, status, waiting or title",
			Destination: &f.sort,
		},
		f.file.Flag(),
	}
}

// engineOptions validates the flags into engine options.
func (f *filterFlags) engineOptions() ([]queue.Option, error) {
	kinds := approval.NewKindSet(approval.KindAll)
	if len(f.kinds) > 0 {
		kinds = approval.NewKindSet()
		for _, raw := range f.kinds {
			k, err := approval.ParseKind(raw)
			if err != nil {
				return nil, err
			}
			if !kinds.Has(k) {
				kinds = kinds.Toggle(k)
			}
		}
	}

	level, ok := approval.ParseLevel(f.level)
	if !ok {
		return nil, fmt.Errorf("unknown approval level %q", f.level)
	}

	sortKey, err := approval.ParseSortKey(f.sort)
	if err != nil {
		return nil, err
	}

	return []queue.Option{
		queue.WithKinds(kinds),
		queue.WithLevel(level),
		queue.WithSort(sortKey),
	}, nil
}

// load builds an engine over the current snapshot with the flags applied.
func (f *filterFlags) load(ctx context.Context, a *app.App) (*queue.Engine, error) {
	opts, err := f.engineOptions()
	if err != nil {
		return nil, err
	}

	var fetcher queue.Fetcher
	if f.file.Provided() {
		snap, err := f.file.Read()
		if err != nil {
			return nil, err
		}
		fetcher = staticFetcher{snap: snap}
	}

	e := a.NewEngine(fetcher, opts...)
	if err := e.Refresh(ctx); err != nil {
		return nil, err
	}
	e.SetSearch(f.search)
	return e, nil
}

// visible returns the engine view narrowed by --area.
func (f *filterFlags) visible(e *queue.Engine) ([]approval.Classified, error) {
	view := e.View()
	if f.area == "" {
		return view, nil
	}
	m, err := approval.NewAreaMatcher(f.area)
	if err != nil {
		return nil, err
	}
	return m.Apply(view), nil
}

type staticFetcher struct {
	snap approval.Snapshot
}

func (s staticFetcher) PendingDocuments(context.Context) (approval.Snapshot, error) {
	return s.snap, nil
}
