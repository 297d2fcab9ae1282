package approval

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the full set of pending documents fetched at one point in time.
type Snapshot struct {
	All        []Document
	Buckets    map[Kind][]Document
	LatestYear int
}

// Len returns the number of documents in the union bucket.
func (s Snapshot) Len() int {
	return len(s.All)
}

// UnmarshalJSON decodes the platform payload: one array per snapshot key
// plus "all" and "latest_year". Unknown keys are ignored and documents
// missing a kind inherit it from their bucket.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Snapshot{Buckets: make(map[Kind][]Document, len(Kinds))}

	for key, value := range raw {
		if key == "latest_year" {
			if string(value) == "null" {
				continue
			}
			if err := json.Unmarshal(value, &out.LatestYear); err != nil {
				return fmt.Errorf("decode latest_year: %w", err)
			}
			continue
		}

		kind := Kind(key)
		if kind != KindAll && !kind.Valid() {
			continue
		}

		var docs []Document
		if err := json.Unmarshal(value, &docs); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}

		if kind == KindAll {
			out.All = docs
			continue
		}

		for i := range docs {
			if docs[i].Kind == "" {
				docs[i].Kind = kind
			}
		}
		out.Buckets[kind] = docs
	}

	if out.All == nil {
		for _, k := range Kinds {
			out.All = append(out.All, out.Buckets[k]...)
		}
	}

	*s = out
	return nil
}
