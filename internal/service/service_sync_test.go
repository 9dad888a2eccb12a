package service

import (
	"context"
	"testing"

	"github.com/geosync/geosync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(path, checksum string) models.FileEntry {
	return models.FileEntry{Path: path, Checksum: checksum}
}

func paths(entries []models.FileEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestBuildFileSyncPlan(t *testing.T) {
	tests := []struct {
		name   string
		base   []models.FileEntry
		local  []models.FileEntry
		remote []models.FileEntry

		wantDownload     []string
		wantUpload       []string
		wantDeleteLocal  []string
		wantDeleteRemote []string
		wantConflict     []string
	}{
		{
			name:   "identical inventories produce empty plan",
			base:   []models.FileEntry{entry("a.qgs", "1")},
			local:  []models.FileEntry{entry("a.qgs", "1")},
			remote: []models.FileEntry{entry("a.qgs", "1")},
		},
		{
			name:         "remote change downloads",
			base:         []models.FileEntry{entry("a.qgs", "1")},
			local:        []models.FileEntry{entry("a.qgs", "1")},
			remote:       []models.FileEntry{entry("a.qgs", "2")},
			wantDownload: []string{"a.qgs"},
		},
		{
			name:       "local change uploads",
			base:       []models.FileEntry{entry("a.qgs", "1")},
			local:      []models.FileEntry{entry("a.qgs", "2")},
			remote:     []models.FileEntry{entry("a.qgs", "1")},
			wantUpload: []string{"a.qgs"},
		},
		{
			name:         "both sides changed is a conflict",
			base:         []models.FileEntry{entry("a.qgs", "1")},
			local:        []models.FileEntry{entry("a.qgs", "2")},
			remote:       []models.FileEntry{entry("a.qgs", "3")},
			wantConflict: []string{"a.qgs"},
		},
		{
			name:         "same path appeared independently with different content",
			local:        []models.FileEntry{entry("a.qgs", "2")},
			remote:       []models.FileEntry{entry("a.qgs", "3")},
			wantConflict: []string{"a.qgs"},
		},
		{
			name:   "same path appeared independently with equal content",
			local:  []models.FileEntry{entry("a.qgs", "2")},
			remote: []models.FileEntry{entry("a.qgs", "2")},
		},
		{
			name:       "new local file uploads",
			local:      []models.FileEntry{entry("notes.txt", "9")},
			wantUpload: []string{"notes.txt"},
		},
		{
			name:            "remote deletion of untouched file deletes locally",
			base:            []models.FileEntry{entry("old.gpkg", "1")},
			local:           []models.FileEntry{entry("old.gpkg", "1")},
			wantDeleteLocal: []string{"old.gpkg"},
		},
		{
			name:         "remote deletion of locally edited file is a conflict",
			base:         []models.FileEntry{entry("old.gpkg", "1")},
			local:        []models.FileEntry{entry("old.gpkg", "2")},
			wantConflict: []string{"old.gpkg"},
		},
		{
			name:         "new remote file downloads",
			remote:       []models.FileEntry{entry("layers.qml", "5")},
			wantDownload: []string{"layers.qml"},
		},
		{
			name:             "local deletion of untouched file deletes remotely",
			base:             []models.FileEntry{entry("scrap.txt", "1")},
			remote:           []models.FileEntry{entry("scrap.txt", "1")},
			wantDeleteRemote: []string{"scrap.txt"},
		},
		{
			name:         "local deletion of remotely edited file is a conflict",
			base:         []models.FileEntry{entry("scrap.txt", "1")},
			remote:       []models.FileEntry{entry("scrap.txt", "2")},
			wantConflict: []string{"scrap.txt"},
		},
		{
			name: "file deleted on both sides needs no action",
			base: []models.FileEntry{entry("gone.txt", "1")},
		},
		{
			name: "mixed project sorts actions by path",
			base: []models.FileEntry{
				entry("a.qgs", "1"),
				entry("b.gpkg", "1"),
				entry("c.qml", "1"),
			},
			local: []models.FileEntry{
				entry("a.qgs", "2"),
				entry("b.gpkg", "1"),
				entry("d.txt", "1"),
			},
			remote: []models.FileEntry{
				entry("a.qgs", "1"),
				entry("b.gpkg", "3"),
				entry("c.qml", "1"),
				entry("e.png", "1"),
			},
			wantUpload:       []string{"a.qgs", "d.txt"},
			wantDownload:     []string{"b.gpkg", "e.png"},
			wantDeleteRemote: []string{"c.qml"},
		},
	}

	planner := NewFileSyncPlanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planner.BuildFileSyncPlan(context.Background(), tt.base, tt.local, tt.remote)

			require.NoError(t, err)
			assert.Equal(t, tt.wantDownload, paths(plan.Download), "download")
			assert.Equal(t, tt.wantUpload, paths(plan.Upload), "upload")
			assert.Equal(t, tt.wantDeleteLocal, paths(plan.DeleteLocal), "delete local")
			assert.Equal(t, tt.wantDeleteRemote, paths(plan.DeleteRemote), "delete remote")
			assert.Equal(t, tt.wantConflict, paths(plan.Conflict), "conflict")
		})
	}
}

func TestBuildFileSyncPlan_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	planner := NewFileSyncPlanner()
	_, err := planner.BuildFileSyncPlan(ctx, nil, []models.FileEntry{entry("a", "1")}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildFileSyncPlan_DownloadCarriesRemoteEntry(t *testing.T) {
	planner := NewFileSyncPlanner()

	remote := models.FileEntry{Path: "a.qgs", Checksum: "2", Size: 42}
	plan, err := planner.BuildFileSyncPlan(
		context.Background(),
		[]models.FileEntry{entry("a.qgs", "1")},
		[]models.FileEntry{entry("a.qgs", "1")},
		[]models.FileEntry{remote},
	)

	require.NoError(t, err)
	require.Len(t, plan.Download, 1)
	assert.Equal(t, remote, plan.Download[0])
}
