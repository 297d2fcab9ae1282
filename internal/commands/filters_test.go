package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/approvals/internal/core/approval"
	"github.com/hay-kot/approvals/internal/queue"
)

func TestFilterFlags_EngineOptions(t *testing.T) {
	tests := []struct {
		name      string
		flags     filterFlags
		wantKinds []approval.Kind
		wantLevel approval.Level
		wantSort  approval.SortKey
		wantErr   string
	}{
		{
			name:      "defaults",
			wantKinds: []approval.Kind{approval.KindAll},
			wantLevel: approval.LevelUnset,
			wantSort:  approval.SortNone,
		},
		{
			name:      "tags and keys",
			flags:     filterFlags{kinds: []string{"concept", "project_plan", "concept"}, level: "ba", sort: "Title"},
			wantKinds: []approval.Kind{approval.KindConcept, approval.KindProjectPlan},
			wantLevel: approval.LevelBusinessAreaLead,
			wantSort:  approval.SortTitle,
		},
		{
			name:    "unknown kind",
			flags:   filterFlags{kinds: []string{"memo"}},
			wantErr: `unknown document kind "memo"`,
		},
		{
			name:    "unknown level",
			flags:   filterFlags{level: "ceo"},
			wantErr: `unknown approval level "ceo"`,
		},
		{
			name:    "unknown sort",
			flags:   filterFlags{sort: "age"},
			wantErr: `unknown sort key "age"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.flags.engineOptions()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			e := queue.New(staticFetcher{}, nil, queue.Settings{}, opts...)
			assert.Equal(t, tt.wantKinds, e.Query().Kinds.Sorted())
			assert.Equal(t, tt.wantLevel, e.Query().Level)
			assert.Equal(t, tt.wantSort, e.SortKey())
		})
	}
}

func TestFilterFlags_VisibleByArea(t *testing.T) {
	marine := approval.Document{ID: 1, Kind: approval.KindConcept, Title: "Kelp", BusinessAreaName: "Marine Science"}
	fire := approval.Document{ID: 2, Kind: approval.KindConcept, Title: "Burns", BusinessAreaName: "Fire Ecology"}
	snap := approval.Snapshot{
		All:     []approval.Document{marine, fire},
		Buckets: map[approval.Kind][]approval.Document{approval.KindConcept: {marine, fire}},
	}

	e := queue.New(staticFetcher{snap: snap}, nil, queue.Settings{})
	require.NoError(t, e.Refresh(context.Background()))

	tests := []struct {
		area    string
		want    []int
		wantErr bool
	}{
		{area: "", want: []int{1, 2}},
		{area: "marine*", want: []int{1}},
		{area: "*ecology", want: []int{2}},
		{area: "[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.area, func(t *testing.T) {
			f := filterFlags{area: tt.area}
			docs, err := f.visible(e)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var ids []int
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"12", "7"})
	require.NoError(t, err)
	assert.Equal(t, []int{12, 7}, ids)

	_, err = parseIDs([]string{"12", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid document id "x"`)
}

func TestDescribeBatch(t *testing.T) {
	var batch []approval.BumpRequest
	for i := range 10 {
		batch = append(batch, approval.BumpRequest{
			DocumentID:   i,
			ProjectTitle: "Project",
			ActionTaker:  approval.Contact{Email: "lead@example.org"},
		})
	}

	desc := describeBatch(batch)
	assert.Contains(t, desc, "Project -> lead@example.org\n")
	assert.Contains(t, desc, "... and 2 more")
}
