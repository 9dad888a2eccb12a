package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProjectFilesQuery(t *testing.T) {
	tests := []struct {
		name       string
		projectID  int64
		version    int
		pathPrefix string
		wantSQL    string
		wantArgs   []any
	}{
		{
			name:      "explicit version",
			projectID: 3,
			version:   2,
			wantSQL:   "SELECT path, checksum, size, mtime FROM project_files WHERE project_id = $1 AND version = $2 ORDER BY path",
			wantArgs:  []any{int64(3), 2},
		},
		{
			name:      "current version via subquery",
			projectID: 3,
			version:   0,
			wantSQL:   "SELECT path, checksum, size, mtime FROM project_files WHERE project_id = $1 AND version = (SELECT version FROM projects WHERE id = $2) ORDER BY path",
			wantArgs:  []any{int64(3), int64(3)},
		},
		{
			name:       "path prefix filter",
			projectID:  3,
			version:    2,
			pathPrefix: "data/",
			wantSQL:    "SELECT path, checksum, size, mtime FROM project_files WHERE project_id = $1 AND version = $2 AND path LIKE $3 ORDER BY path",
			wantArgs:   []any{int64(3), 2, "data/%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs, err := buildProjectFilesQuery(tt.projectID, tt.version, tt.pathPrefix)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}
