// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/geosync/geosync/internal/adapter"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/internal/workers"
	"github.com/geosync/geosync/models"
)

// clientSyncService is the concrete implementation of ClientSyncService.
// One SyncProject call is one reconciliation round: fetch the server's
// metadata, build a three-way plan against the cached inventory and the
// files on disk, execute it, and refresh the cache so the next round starts
// from the agreed state.
type clientSyncService struct {
	adapter  adapter.ServerAdapter
	planner  FileSyncPlanner
	projects store.LocalProjectRepository
	pool     *workers.Pool
	logger   *logger.Logger
}

// NewClientSyncService constructs a ClientSyncService. pool bounds the
// concurrency of file downloads during plan execution.
func NewClientSyncService(
	serverAdapter adapter.ServerAdapter,
	planner FileSyncPlanner,
	projects store.LocalProjectRepository,
	pool *workers.Pool,
	logger *logger.Logger,
) ClientSyncService {
	return &clientSyncService{
		adapter:  serverAdapter,
		planner:  planner,
		projects: projects,
		pool:     pool,
		logger:   logger,
	}
}

// CloneProject registers a server project in the local registry under dir
// and runs the initial sync. With no cache and an empty directory the plan
// degenerates to downloading every file.
func (s *clientSyncService) CloneProject(ctx context.Context, namespace, name, dir string) (models.LocalProject, error) {
	if namespace == "" || name == "" || dir == "" {
		return models.LocalProject{}, ErrInvalidDataProvided
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.LocalProject{}, fmt.Errorf("create project directory: %w", err)
	}

	saved, err := s.projects.SaveProject(ctx, models.LocalProject{
		Namespace: namespace,
		Name:      name,
		Dir:       dir,
	})
	if err != nil {
		return models.LocalProject{}, fmt.Errorf("project registration failed: %w", err)
	}

	if _, err = s.SyncProject(ctx, saved); err != nil {
		return models.LocalProject{}, err
	}

	cloned, err := s.projects.GetProject(ctx, namespace, name)
	if err != nil {
		return models.LocalProject{}, fmt.Errorf("project lookup after clone failed: %w", err)
	}
	return cloned, nil
}

// SyncProject implements ClientSyncService.
func (s *clientSyncService) SyncProject(ctx context.Context, project models.LocalProject) (models.FileSyncPlan, error) {
	log := logger.FromContext(ctx)

	raw, err := s.adapter.GetProjectMetadata(ctx, project.Namespace, project.Name)
	if err != nil {
		return models.FileSyncPlan{}, fmt.Errorf("metadata fetch failed: %w", err)
	}
	remote := models.DecodeProjectMetadata(raw)

	base := models.LoadCachedProjectMetadata(store.CachedMetadataPath(project.Dir))

	local, err := scanProjectDir(project.Dir)
	if err != nil {
		return models.FileSyncPlan{}, fmt.Errorf("local file scan failed: %w", err)
	}

	plan, err := s.planner.BuildFileSyncPlan(ctx, base.Files, local, remote.Files)
	if err != nil {
		return models.FileSyncPlan{}, fmt.Errorf("sync planning failed: %w", err)
	}

	for _, conflict := range plan.Conflict {
		log.Warn().
			Str("project", project.FullName()).
			Str("path", conflict.Path).
			Msg("sync conflict, left for manual resolution")
	}

	if err = s.executeDownloads(ctx, project, remote.Version, plan.Download); err != nil {
		return models.FileSyncPlan{}, err
	}

	for _, entry := range plan.DeleteLocal {
		if err = os.Remove(filepath.Join(project.Dir, filepath.FromSlash(entry.Path))); err != nil {
			return models.FileSyncPlan{}, fmt.Errorf("delete local file %s: %w", entry.Path, err)
		}
	}

	version := remote.Version
	synced := remote.Files
	if len(plan.Upload) > 0 || len(plan.DeleteRemote) > 0 {
		version, synced, err = s.pushLocalChanges(ctx, project, remote, plan)
		if err != nil {
			return models.FileSyncPlan{}, err
		}
	}

	if err = s.writeMetadataCache(project, version, synced, base.Files, plan.Conflict); err != nil {
		return models.FileSyncPlan{}, err
	}

	if err = s.projects.SetVersion(ctx, project.ID, version); err != nil {
		return models.FileSyncPlan{}, fmt.Errorf("version bookkeeping failed: %w", err)
	}

	log.Info().
		Str("project", project.FullName()).
		Int("version", version).
		Int("downloaded", len(plan.Download)).
		Int("uploaded", len(plan.Upload)).
		Int("conflicts", len(plan.Conflict)).
		Msg("project synced")

	return plan, nil
}

// ListProjects implements ClientSyncService.
func (s *clientSyncService) ListProjects(ctx context.Context) ([]models.LocalProject, error) {
	return s.projects.ListProjects(ctx)
}

// SyncAll implements ClientSyncService. Every registered project is
// attempted; the first failure is returned after the loop so one broken
// project does not starve the rest.
func (s *clientSyncService) SyncAll(ctx context.Context) error {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("project listing failed: %w", err)
	}

	var firstErr error
	for _, project := range projects {
		if err = ctx.Err(); err != nil {
			return err
		}

		if _, err = s.SyncProject(ctx, project); err != nil {
			s.logger.Err(err).Str("project", project.FullName()).Msg("project sync failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// executeDownloads fetches every planned file through the bounded worker
// pool and writes it under the project directory, restoring the server's
// modification time when one is known.
func (s *clientSyncService) executeDownloads(ctx context.Context, project models.LocalProject, version int, downloads []models.FileEntry) error {
	if len(downloads) == 0 {
		return nil
	}

	tasks := make([]workers.Task, 0, len(downloads))
	for _, entry := range downloads {
		tasks = append(tasks, func(ctx context.Context) error {
			content, err := s.adapter.DownloadFile(ctx, project.Namespace, project.Name, entry.Path, version)
			if err != nil {
				return fmt.Errorf("download %s: %w", entry.Path, err)
			}

			dst := filepath.Join(project.Dir, filepath.FromSlash(entry.Path))
			if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return fmt.Errorf("create directory for %s: %w", entry.Path, err)
			}
			if err = os.WriteFile(dst, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", entry.Path, err)
			}

			if !entry.MTime.IsZero() {
				if err = os.Chtimes(dst, entry.MTime, entry.MTime); err != nil {
					s.logger.Debug().Err(err).Str("path", entry.Path).Msg("failed to restore mtime")
				}
			}
			return nil
		})
	}

	if err := s.pool.RunAll(ctx, tasks); err != nil {
		return fmt.Errorf("download execution failed: %w", err)
	}
	return nil
}

// pushLocalChanges uploads every planned file and publishes a new version
// whose inventory is the server's current one with the uploads upserted and
// the remote deletions removed. Conflicted paths keep the server's entry,
// so a push never overwrites a remote edit this device has not seen.
func (s *clientSyncService) pushLocalChanges(
	ctx context.Context,
	project models.LocalProject,
	remote models.ProjectMetadata,
	plan models.FileSyncPlan,
) (int, []models.FileEntry, error) {
	for _, entry := range plan.Upload {
		content, err := os.ReadFile(filepath.Join(project.Dir, filepath.FromSlash(entry.Path)))
		if err != nil {
			return 0, nil, fmt.Errorf("read %s for upload: %w", entry.Path, err)
		}
		if err = s.adapter.UploadFile(ctx, project.Namespace, project.Name, entry.Path, content); err != nil {
			return 0, nil, fmt.Errorf("upload %s: %w", entry.Path, err)
		}
	}

	inventory := nextInventory(remote.Files, plan)
	resp, err := s.adapter.Push(ctx, models.PushRequest{
		Namespace:   project.Namespace,
		Name:        project.Name,
		BaseVersion: remote.Version,
		Files:       inventory,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("push failed: %w", err)
	}

	return resp.Version, inventory, nil
}

// writeMetadataCache records the post-sync inventory as the new base for the
// next three-way comparison. Conflicted paths are written with their old
// base entry (or omitted when the base had none), so an unresolved conflict
// keeps re-surfacing instead of silently becoming an upload.
func (s *clientSyncService) writeMetadataCache(
	project models.LocalProject,
	version int,
	synced, base, conflicts []models.FileEntry,
) error {
	files := synced
	if len(conflicts) > 0 {
		baseIndex := indexByPath(base)
		conflicted := indexByPath(conflicts)

		files = make([]models.FileEntry, 0, len(synced))
		for _, entry := range synced {
			if _, ok := conflicted[entry.Path]; !ok {
				files = append(files, entry)
				continue
			}
			if baseEntry, ok := baseIndex[entry.Path]; ok {
				files = append(files, baseEntry)
			}
		}
	}

	doc, err := models.ProjectMetadata{
		Name:      project.Name,
		Namespace: project.Namespace,
		Version:   version,
		Files:     files,
	}.EncodeDocument()
	if err != nil {
		return fmt.Errorf("encode metadata cache: %w", err)
	}

	cachePath := store.CachedMetadataPath(project.Dir)
	if err = os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("create metadata cache dir: %w", err)
	}
	if err = os.WriteFile(cachePath, doc, 0o644); err != nil {
		return fmt.Errorf("write metadata cache: %w", err)
	}
	return nil
}

// nextInventory derives the pushed version's inventory from the server's
// current one: remote deletions are dropped and uploads are upserted.
// The result is ordered by path.
func nextInventory(remoteFiles []models.FileEntry, plan models.FileSyncPlan) []models.FileEntry {
	index := indexByPath(remoteFiles)
	for _, entry := range plan.DeleteRemote {
		delete(index, entry.Path)
	}
	for _, entry := range plan.Upload {
		index[entry.Path] = entry
	}

	files := make([]models.FileEntry, 0, len(index))
	for _, path := range sortedPathUnion(index) {
		files = append(files, index[path])
	}
	return files
}

// scanProjectDir builds the on-disk file inventory of a project directory.
// Paths are project-relative with forward slashes; the sync bookkeeping
// directory is skipped. Checksums are SHA-256 over file content, matching
// the scheme of server metadata documents.
func scanProjectDir(dir string) ([]models.FileEntry, error) {
	var files []models.FileEntry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == store.MetadataCacheDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		checksum, err := utils.FileChecksum(path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, models.FileEntry{
			Path:     filepath.ToSlash(rel),
			Checksum: checksum,
			Size:     info.Size(),
			MTime:    info.ModTime().UTC().Truncate(time.Millisecond),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
