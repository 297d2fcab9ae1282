package approval

import (
	"strings"

	"github.com/hay-kot/approvals/internal/core/textnorm"
)

// Classified is a Document plus facts derived once per snapshot load.
// Values are never mutated after classification.
type Classified struct {
	Document

	// PlainTitle is the title with markup removed.
	PlainTitle string
	// NormalizedTitle is PlainTitle lowercased, used for search.
	NormalizedTitle string

	Bumpable      bool
	MissingInfo   bool
	ExternalEmail bool
	Pending       Level
	Contact       ContactClass
}

// Classifier attaches search text to documents. Bumpability and contact
// flags are copied from the upstream snapshot, not recomputed.
type Classifier struct {
	titles *textnorm.Cache
}

// NewClassifier creates a classifier backed by the given title cache.
func NewClassifier(titles *textnorm.Cache) *Classifier {
	if titles == nil {
		titles = textnorm.NewCache(textnorm.DefaultSize)
	}
	return &Classifier{titles: titles}
}

// Classify derives the cached block for a single document.
func (c *Classifier) Classify(d Document) Classified {
	plain := c.titles.Normalize(d.Title)
	return Classified{
		Document:        d,
		PlainTitle:      plain,
		NormalizedTitle: strings.ToLower(plain),
		Bumpable:        d.IsBumpable,
		MissingInfo:     d.HasMissingLeaderInfo,
		ExternalEmail:   d.HasExternalEmail,
		Pending:         d.PendingLevel(),
		Contact:         d.ContactClass(),
	}
}

// ClassifiedSnapshot is a Snapshot after classification. It is read-only
// and may be shared between the filter pipeline and sorters.
type ClassifiedSnapshot struct {
	All        []Classified
	Buckets    map[Kind][]Classified
	LatestYear int
}

// Len returns the number of documents in the union bucket.
func (s ClassifiedSnapshot) Len() int {
	return len(s.All)
}

// Lookup finds a document by id in the union bucket.
func (s ClassifiedSnapshot) Lookup(id int) (Classified, bool) {
	for _, d := range s.All {
		if d.ID == id {
			return d, true
		}
	}
	for _, k := range Kinds {
		for _, d := range s.Buckets[k] {
			if d.ID == id {
				return d, true
			}
		}
	}
	return Classified{}, false
}

// ClassifySnapshot classifies every document once. A document appearing in
// both a kind bucket and the union bucket is classified a single time.
func (c *Classifier) ClassifySnapshot(s Snapshot) ClassifiedSnapshot {
	memo := make(map[int]Classified, len(s.All))
	classify := func(d Document) Classified {
		if cd, ok := memo[d.ID]; ok && cd.Document == d {
			return cd
		}
		cd := c.Classify(d)
		memo[d.ID] = cd
		return cd
	}

	out := ClassifiedSnapshot{
		All:        make([]Classified, 0, len(s.All)),
		Buckets:    make(map[Kind][]Classified, len(s.Buckets)),
		LatestYear: s.LatestYear,
	}

	for _, d := range s.All {
		out.All = append(out.All, classify(d))
	}

	for kind, docs := range s.Buckets {
		bucket := make([]Classified, 0, len(docs))
		for _, d := range docs {
			bucket = append(bucket, classify(d))
		}
		out.Buckets[kind] = bucket
	}

	return out
}
