package approval

import (
	"fmt"

	"github.com/hay-kot/approvals/internal/core/textnorm"
)

type docOpt func(*Document)

func pendingAt(l Level) docOpt {
	return func(d *Document) {
		d.ProjectLeadApproved = l != LevelProjectLead
		d.BusinessAreaLeadApproved = l != LevelProjectLead && l != LevelBusinessAreaLead
		d.DirectorateApproved = l == LevelNone
	}
}

func withEmail(email string) docOpt {
	return func(d *Document) { d.ActionTakerEmail = email }
}

func withTitle(title string) docOpt {
	return func(d *Document) { d.Title = title }
}

func bumpable() docOpt {
	return func(d *Document) { d.IsBumpable = true }
}

func missingInfo() docOpt {
	return func(d *Document) {
		d.HasMissingLeaderInfo = true
		d.IsBumpable = false
		d.ActionTakerEmail = ""
	}
}

func external() docOpt {
	return func(d *Document) { d.HasExternalEmail = true }
}

func newDoc(id int, kind Kind, opts ...docOpt) Document {
	d := Document{
		ID:               id,
		ProjectID:        id * 10,
		Kind:             kind,
		Title:            fmt.Sprintf("<p>Document %d</p>", id),
		Status:           StatusInApproval,
		ActionTakerID:    id + 100,
		ActionTakerEmail: fmt.Sprintf("lead%d@dbca.wa.gov.au", id),
		ActionCapacity:   "Project Lead",
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func buildSnapshot(docs ...Document) Snapshot {
	s := Snapshot{Buckets: map[Kind][]Document{}}
	for _, d := range docs {
		s.All = append(s.All, d)
		s.Buckets[d.Kind] = append(s.Buckets[d.Kind], d)
	}
	return s
}

func classify(docs ...Document) ClassifiedSnapshot {
	return NewClassifier(textnorm.NewCache(textnorm.DefaultSize)).ClassifySnapshot(buildSnapshot(docs...))
}

func ids(docs []Classified) []int {
	out := make([]int, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
