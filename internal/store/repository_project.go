// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/models"
	"github.com/jackc/pgerrcode"
)

// projectRepository is the PostgreSQL-backed implementation of
// [ProjectRepository]. It manages the "projects" table and the versioned
// file inventories in "project_files".
type projectRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewProjectRepository constructs a [ProjectRepository] backed by the
// provided database connection and logger.
func NewProjectRepository(db *DB, logger *logger.Logger) ProjectRepository {
	logger.Debug().Msg("creating project repository")
	return &projectRepository{
		db:     db,
		logger: logger,
	}
}

// CreateProject inserts an empty project record at version 0 and returns it
// with server-assigned fields.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrProjectAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *projectRepository) CreateProject(ctx context.Context, project models.ProjectInfo) (models.ProjectInfo, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createProject, project.OwnerID, project.Namespace, project.Name)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*projectRepository.CreateProject").Msg("error: insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.ProjectInfo{}, ErrProjectAlreadyExists
		default:
			return models.ProjectInfo{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	if err := scanProject(row, &project); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.ProjectInfo{}, ErrProjectAlreadyExists
		}
		log.Err(err).Str("func", "*projectRepository.CreateProject").Msg("error: scanning error")
		return models.ProjectInfo{}, err
	}

	return project, nil
}

// GetProject looks a project up by its namespace/name pair. A missing row
// yields [ErrProjectNotFound].
func (r *projectRepository) GetProject(ctx context.Context, namespace, name string) (models.ProjectInfo, error) {
	log := logger.FromContext(ctx)

	var project models.ProjectInfo
	row := r.db.QueryRowContext(ctx, getProjectByFullName, namespace, name)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*projectRepository.GetProject").Msg("error: query failed")
		return models.ProjectInfo{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := scanProject(row, &project); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ProjectInfo{}, ErrProjectNotFound
		}
		log.Err(err).Str("func", "*projectRepository.GetProject").Msg("error: scanning error")
		return models.ProjectInfo{}, err
	}

	return project, nil
}

// ListProjectsByOwner returns every project owned by ownerID, ordered by
// namespace and name. An owner without projects yields an empty slice.
func (r *projectRepository) ListProjectsByOwner(ctx context.Context, ownerID int64) ([]models.ProjectInfo, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listProjectsByOwner, ownerID)
	if err != nil {
		log.Err(err).Str("func", "*projectRepository.ListProjectsByOwner").Int64("owner_id", ownerID).Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	projects := make([]models.ProjectInfo, 0)
	for rows.Next() {
		var project models.ProjectInfo
		if err = rows.Scan(&project.ID, &project.OwnerID, &project.Namespace, &project.Name, &project.Version, &project.CreatedAt, &project.UpdatedAt); err != nil {
			log.Err(err).Str("func", "*projectRepository.ListProjectsByOwner").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		projects = append(projects, project)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return projects, nil
}

// GetProjectFiles returns the file inventory of the given project version,
// ordered by path. The query is built dynamically: version <= 0 resolves the
// project's current version, and a non-empty pathPrefix narrows the result.
func (r *projectRepository) GetProjectFiles(ctx context.Context, projectID int64, version int, pathPrefix string) ([]models.FileEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildProjectFilesQuery(projectID, version, pathPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*projectRepository.GetProjectFiles").Int64("project_id", projectID).Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	files := make([]models.FileEntry, 0)
	for rows.Next() {
		var file models.FileEntry
		if err = rows.Scan(&file.Path, &file.Checksum, &file.Size, &file.MTime); err != nil {
			log.Err(err).Str("func", "*projectRepository.GetProjectFiles").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		files = append(files, file)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return files, nil
}

// PublishVersion atomically advances the project from baseVersion to the
// next version and stores files as that version's inventory. The version
// bump carries the optimistic-locking check: when the stored version no
// longer equals baseVersion the UPDATE matches nothing and the push is
// rejected with [ErrVersionConflict].
func (r *projectRepository) PublishVersion(ctx context.Context, projectID int64, baseVersion int, files []models.FileEntry) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*projectRepository.PublishVersion").Msg("error: begin transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	var newVersion int
	row := tx.QueryRowContext(ctx, bumpProjectVersion, projectID, baseVersion)
	if err = row.Scan(&newVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrVersionConflict
		}
		log.Err(err).Str("func", "*projectRepository.PublishVersion").Msg("error: version bump failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	for _, file := range files {
		if _, err = tx.ExecContext(ctx, insertProjectFile, projectID, newVersion, file.Path, file.Checksum, file.Size, file.MTime); err != nil {
			log.Err(err).
				Str("func", "*projectRepository.PublishVersion").
				Int64("project_id", projectID).
				Str("path", file.Path).
				Msg("error: insert file row failed")
			return 0, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*projectRepository.PublishVersion").Msg("error: commit failed")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return newVersion, nil
}

func scanProject(row *sql.Row, project *models.ProjectInfo) error {
	return row.Scan(&project.ID, &project.OwnerID, &project.Namespace, &project.Name, &project.Version, &project.CreatedAt, &project.UpdatedAt)
}
