package approval

import (
	"slices"
	"strings"
)

const (
	// DefaultBatchSize is the number of candidates searched per batch.
	DefaultBatchSize = 50
	// DefaultBatchThreshold is the candidate count above which search is
	// batched and duplicates are collapsed through an id index.
	DefaultBatchThreshold = 1000
)

// Query holds the filter inputs.
type Query struct {
	Kinds KindSet
	// Level keeps documents pending at this level. LevelUnset disables it.
	Level Level
	// Search is the committed search text.
	Search string
}

// IDSet is a set of document ids.
type IDSet map[int]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Result is the visible subset plus the id sets derived from it.
type Result struct {
	Visible       []Classified
	Bumpable      IDSet
	MissingInfo   IDSet
	ExternalEmail IDSet
}

// Pipeline filters a classified snapshot. The zero value uses the default
// batch settings.
type Pipeline struct {
	BatchSize      int
	BatchThreshold int

	// Yield, when set, is called between search batches so a host loop can
	// interleave other work. It must not mutate the snapshot.
	Yield func()
}

// Filter runs the default pipeline.
func Filter(snap ClassifiedSnapshot, q Query) Result {
	return Pipeline{}.Run(snap, q)
}

// Run produces the visible documents for q in source order. The result
// depends only on snap and q.
func (p Pipeline) Run(snap ClassifiedSnapshot, q Query) Result {
	batchSize, threshold := p.BatchSize, p.BatchThreshold
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if threshold <= 0 {
		threshold = DefaultBatchThreshold
	}

	candidates := selectKinds(snap, q.Kinds)
	if len(candidates) == 0 {
		return emptyResult()
	}

	if q.Level != "" && q.Level != LevelUnset {
		candidates = slices.DeleteFunc(candidates, func(d Classified) bool {
			return d.Pending != q.Level
		})
	}

	if needle := strings.ToLower(q.Search); needle != "" {
		if len(candidates) > threshold {
			candidates = p.searchBatched(candidates, needle, batchSize)
		} else {
			candidates = slices.DeleteFunc(candidates, func(d Classified) bool {
				return !strings.Contains(d.NormalizedTitle, needle)
			})
		}
	}

	if len(candidates) > threshold {
		candidates = dedupIndexed(candidates)
	} else {
		candidates = dedupStable(candidates)
	}

	res := Result{
		Visible:       candidates,
		Bumpable:      make(IDSet),
		MissingInfo:   make(IDSet),
		ExternalEmail: make(IDSet),
	}
	for _, d := range candidates {
		if d.Bumpable {
			res.Bumpable[d.ID] = struct{}{}
		}
		if d.MissingInfo {
			res.MissingInfo[d.ID] = struct{}{}
		}
		if d.ExternalEmail {
			res.ExternalEmail[d.ID] = struct{}{}
		}
	}

	return res
}

func emptyResult() Result {
	return Result{
		Visible:       []Classified{},
		Bumpable:      make(IDSet),
		MissingInfo:   make(IDSet),
		ExternalEmail: make(IDSet),
	}
}

// selectKinds returns a fresh slice so later stages can filter in place
// without touching the shared snapshot.
func selectKinds(snap ClassifiedSnapshot, kinds KindSet) []Classified {
	if kinds.Has(KindAll) {
		return slices.Clone(snap.All)
	}

	var out []Classified
	for _, k := range Kinds {
		if kinds.Has(k) {
			out = append(out, snap.Buckets[k]...)
		}
	}
	return out
}

// searchBatched scans every candidate, batchSize at a time. Batching only
// bounds the work done between Yield calls; no candidate is skipped.
func (p Pipeline) searchBatched(candidates []Classified, needle string, batchSize int) []Classified {
	out := make([]Classified, 0, len(candidates)/4)
	first := true
	for batch := range slices.Chunk(candidates, batchSize) {
		if !first && p.Yield != nil {
			p.Yield()
		}
		first = false

		for _, d := range batch {
			if strings.Contains(d.NormalizedTitle, needle) {
				out = append(out, d)
			}
		}
	}
	return out
}

func dedupStable(docs []Classified) []Classified {
	out := make([]Classified, 0, len(docs))
	for _, d := range docs {
		if !slices.ContainsFunc(out, func(existing Classified) bool { return existing.ID == d.ID }) {
			out = append(out, d)
		}
	}
	return out
}

func dedupIndexed(docs []Classified) []Classified {
	seen := make(map[int]struct{}, len(docs))
	out := make([]Classified, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}
