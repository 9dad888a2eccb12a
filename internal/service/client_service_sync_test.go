package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/mock"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/internal/workers"
	"github.com/geosync/geosync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestClientSyncService(t *testing.T) (ClientSyncService, *mock.MockServerAdapter, *mock.MockLocalProjectRepository) {
	ctrl := gomock.NewController(t)
	serverAdapter := mock.NewMockServerAdapter(ctrl)
	projects := mock.NewMockLocalProjectRepository(ctrl)
	svc := NewClientSyncService(serverAdapter, NewFileSyncPlanner(), projects, workers.NewPool(2), logger.Nop())
	return svc, serverAdapter, projects
}

func contentChecksum(t *testing.T, content string) string {
	sum, err := utils.Checksum(strings.NewReader(content))
	require.NoError(t, err)
	return sum
}

func encodeMetadata(t *testing.T, meta models.ProjectMetadata) []byte {
	doc, err := meta.EncodeDocument()
	require.NoError(t, err)
	return doc
}

func writeMetadataCacheFile(t *testing.T, dir string, meta models.ProjectMetadata) {
	cachePath := store.CachedMetadataPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0o755))
	require.NoError(t, os.WriteFile(cachePath, encodeMetadata(t, meta), 0o644))
}

func TestSyncProject_InitialCloneDownloadsEverything(t *testing.T) {
	svc, serverAdapter, projects := newTestClientSyncService(t)
	ctx := context.Background()

	dir := t.TempDir()
	project := models.LocalProject{ID: 1, Namespace: "field", Name: "survey", Dir: dir}

	remote := models.ProjectMetadata{
		Name:      "survey",
		Namespace: "field",
		Version:   3,
		Files: []models.FileEntry{
			{Path: "data/points.gpkg", Checksum: contentChecksum(t, "points"), Size: 6},
			{Path: "project.qgs", Checksum: contentChecksum(t, "<qgis/>"), Size: 7},
		},
	}

	serverAdapter.EXPECT().
		GetProjectMetadata(ctx, "field", "survey").
		Return(encodeMetadata(t, remote), nil)
	serverAdapter.EXPECT().
		DownloadFile(gomock.Any(), "field", "survey", "data/points.gpkg", 3).
		Return([]byte("points"), nil)
	serverAdapter.EXPECT().
		DownloadFile(gomock.Any(), "field", "survey", "project.qgs", 3).
		Return([]byte("<qgis/>"), nil)
	projects.EXPECT().SetVersion(ctx, int64(1), 3).Return(nil)

	plan, err := svc.SyncProject(ctx, project)

	require.NoError(t, err)
	assert.Len(t, plan.Download, 2)
	assert.Empty(t, plan.Upload)
	assert.Empty(t, plan.Conflict)

	downloaded, err := os.ReadFile(filepath.Join(dir, "data", "points.gpkg"))
	require.NoError(t, err)
	assert.Equal(t, "points", string(downloaded))

	cached := models.LoadCachedProjectMetadata(store.CachedMetadataPath(dir))
	assert.Equal(t, 3, cached.Version)
	assert.Len(t, cached.Files, 2)
}

func TestSyncProject_UploadsLocalChange(t *testing.T) {
	svc, serverAdapter, projects := newTestClientSyncService(t)
	ctx := context.Background()

	dir := t.TempDir()
	project := models.LocalProject{ID: 1, Namespace: "field", Name: "survey", Dir: dir}

	oldSum := contentChecksum(t, "field notes v1")
	newSum := contentChecksum(t, "field notes v2")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("field notes v2"), 0o644))

	agreed := models.ProjectMetadata{
		Name:      "survey",
		Namespace: "field",
		Version:   3,
		Files:     []models.FileEntry{{Path: "notes.txt", Checksum: oldSum, Size: 14}},
	}
	writeMetadataCacheFile(t, dir, agreed)

	gomock.InOrder(
		serverAdapter.EXPECT().
			GetProjectMetadata(ctx, "field", "survey").
			Return(encodeMetadata(t, agreed), nil),
		serverAdapter.EXPECT().
			UploadFile(ctx, "field", "survey", "notes.txt", []byte("field notes v2")).
			Return(nil),
		serverAdapter.EXPECT().
			Push(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
				assert.Equal(t, 3, req.BaseVersion)
				require.Len(t, req.Files, 1)
				assert.Equal(t, "notes.txt", req.Files[0].Path)
				assert.Equal(t, newSum, req.Files[0].Checksum)
				return models.PushResponse{Version: 4}, nil
			}),
		projects.EXPECT().SetVersion(ctx, int64(1), 4).Return(nil),
	)

	plan, err := svc.SyncProject(ctx, project)

	require.NoError(t, err)
	require.Len(t, plan.Upload, 1)

	cached := models.LoadCachedProjectMetadata(store.CachedMetadataPath(dir))
	assert.Equal(t, 4, cached.Version)
	assert.Equal(t, newSum, cached.FileInfo("notes.txt").Checksum)
}

func TestSyncProject_ConflictKeepsLocalCopy(t *testing.T) {
	svc, serverAdapter, projects := newTestClientSyncService(t)
	ctx := context.Background()

	dir := t.TempDir()
	project := models.LocalProject{ID: 1, Namespace: "field", Name: "survey", Dir: dir}

	baseSum := contentChecksum(t, "base")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("local edit"), 0o644))

	writeMetadataCacheFile(t, dir, models.ProjectMetadata{
		Name: "survey", Namespace: "field", Version: 3,
		Files: []models.FileEntry{{Path: "notes.txt", Checksum: baseSum, Size: 4}},
	})

	remote := models.ProjectMetadata{
		Name: "survey", Namespace: "field", Version: 3,
		Files: []models.FileEntry{{Path: "notes.txt", Checksum: contentChecksum(t, "remote edit"), Size: 11}},
	}
	serverAdapter.EXPECT().
		GetProjectMetadata(ctx, "field", "survey").
		Return(encodeMetadata(t, remote), nil)
	projects.EXPECT().SetVersion(ctx, int64(1), 3).Return(nil)

	plan, err := svc.SyncProject(ctx, project)

	require.NoError(t, err)
	require.Len(t, plan.Conflict, 1)
	assert.Empty(t, plan.Download)
	assert.Empty(t, plan.Upload)

	onDisk, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "local edit", string(onDisk))

	// The cache keeps the old base entry for the conflicted path, so the
	// conflict re-surfaces on the next sync instead of becoming an upload.
	cached := models.LoadCachedProjectMetadata(store.CachedMetadataPath(dir))
	assert.Equal(t, baseSum, cached.FileInfo("notes.txt").Checksum)
}

func TestSyncProject_RemoteDeletionRemovesLocalFile(t *testing.T) {
	svc, serverAdapter, projects := newTestClientSyncService(t)
	ctx := context.Background()

	dir := t.TempDir()
	project := models.LocalProject{ID: 1, Namespace: "field", Name: "survey", Dir: dir}

	keepSum := contentChecksum(t, "keep")
	goneSum := contentChecksum(t, "gone")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gone.txt"), []byte("gone"), 0o644))

	writeMetadataCacheFile(t, dir, models.ProjectMetadata{
		Name: "survey", Namespace: "field", Version: 3,
		Files: []models.FileEntry{
			{Path: "keep.txt", Checksum: keepSum, Size: 4},
			{Path: "gone.txt", Checksum: goneSum, Size: 4},
		},
	})

	remote := models.ProjectMetadata{
		Name: "survey", Namespace: "field", Version: 4,
		Files: []models.FileEntry{{Path: "keep.txt", Checksum: keepSum, Size: 4}},
	}
	serverAdapter.EXPECT().
		GetProjectMetadata(ctx, "field", "survey").
		Return(encodeMetadata(t, remote), nil)
	projects.EXPECT().SetVersion(ctx, int64(1), 4).Return(nil)

	plan, err := svc.SyncProject(ctx, project)

	require.NoError(t, err)
	require.Len(t, plan.DeleteLocal, 1)

	_, err = os.Stat(filepath.Join(dir, "gone.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)
}

func TestSyncAll_ContinuesAfterFailure(t *testing.T) {
	svc, serverAdapter, projects := newTestClientSyncService(t)
	ctx := context.Background()

	broken := models.LocalProject{ID: 1, Namespace: "field", Name: "broken", Dir: t.TempDir()}
	healthy := models.LocalProject{ID: 2, Namespace: "field", Name: "healthy", Dir: t.TempDir()}

	projects.EXPECT().ListProjects(ctx).Return([]models.LocalProject{broken, healthy}, nil)
	serverAdapter.EXPECT().
		GetProjectMetadata(ctx, "field", "broken").
		Return(nil, assert.AnError)
	serverAdapter.EXPECT().
		GetProjectMetadata(ctx, "field", "healthy").
		Return(encodeMetadata(t, models.ProjectMetadata{Name: "healthy", Namespace: "field", Version: 1}), nil)
	projects.EXPECT().SetVersion(ctx, int64(2), 1).Return(nil)

	err := svc.SyncAll(ctx)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestCloneProject_RegistersAndSyncs(t *testing.T) {
	svc, serverAdapter, projects := newTestClientSyncService(t)
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "survey")
	registered := models.LocalProject{ID: 5, Namespace: "field", Name: "survey", Dir: dir}

	gomock.InOrder(
		projects.EXPECT().
			SaveProject(ctx, models.LocalProject{Namespace: "field", Name: "survey", Dir: dir}).
			Return(registered, nil),
		serverAdapter.EXPECT().
			GetProjectMetadata(ctx, "field", "survey").
			Return(encodeMetadata(t, models.ProjectMetadata{Name: "survey", Namespace: "field", Version: 2}), nil),
		projects.EXPECT().SetVersion(ctx, int64(5), 2).Return(nil),
		projects.EXPECT().
			GetProject(ctx, "field", "survey").
			Return(models.LocalProject{ID: 5, Namespace: "field", Name: "survey", Version: 2, Dir: dir}, nil),
	)

	cloned, err := svc.CloneProject(ctx, "field", "survey", dir)

	require.NoError(t, err)
	assert.Equal(t, 2, cloned.Version)

	// The project directory was created even though the server project is
	// still empty.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestScanProjectDir_SkipsBookkeepingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, store.MetadataCacheDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.MetadataCacheDir, "project.json"), []byte("{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "points.gpkg"), []byte("points"), 0o644))

	files, err := scanProjectDir(dir)

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "data/points.gpkg", files[0].Path)
	assert.Equal(t, contentChecksum(t, "points"), files[0].Checksum)
	assert.Equal(t, int64(6), files[0].Size)
	assert.False(t, files[0].MTime.IsZero())
}
