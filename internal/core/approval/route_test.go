package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPath(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{kind: KindProgressReport, want: "/projects/42/progress"},
		{kind: KindProjectClosure, want: "/projects/42/closure"},
		{kind: KindStudentReport, want: "/projects/42/student"},
		{kind: KindConcept, want: "/projects/42/concept"},
		{kind: KindProjectPlan, want: "/projects/42/project"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := ProjectPath(Document{Kind: tt.kind, ProjectID: 42})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectPath_Errors(t *testing.T) {
	_, err := ProjectPath(Document{Kind: KindConcept})
	assert.ErrorIs(t, err, ErrNoProject)

	_, err = ProjectPath(Document{Kind: "memo", ProjectID: 1})
	assert.Error(t, err)
}
