// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/models"
)

var (
	// ErrLocalProjectNotFound is returned when the local registry has no
	// entry for the requested namespace/name pair.
	ErrLocalProjectNotFound = errors.New("local project not found")

	// ErrLocalSessionNotFound is returned when no login session is stored
	// on the device.
	ErrLocalSessionNotFound = errors.New("local session not found")
)

type localProjectRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalProjectRepository constructs a [LocalProjectRepository] over the
// client's SQLite connection.
func NewLocalProjectRepository(db *DB, logger *logger.Logger) LocalProjectRepository {
	return &localProjectRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *localProjectRepository) SaveProject(ctx context.Context, project models.LocalProject) (models.LocalProject, error) {
	log := logger.FromContext(ctx)

	if _, err := l.DB.ExecContext(ctx, upsertLocalProject, project.Namespace, project.Name, project.Version, project.Dir); err != nil {
		log.Err(err).
			Str("func", "localProjectRepository.SaveProject").
			Str("project", project.FullName()).
			Msg("failed to upsert local project")
		return models.LocalProject{}, fmt.Errorf("failed to save local project %s: %w", project.FullName(), err)
	}

	// Re-read so the caller gets the row ID even on the upsert path.
	return l.GetProject(ctx, project.Namespace, project.Name)
}

func (l *localProjectRepository) GetProject(ctx context.Context, namespace, name string) (models.LocalProject, error) {
	log := logger.FromContext(ctx)

	var project models.LocalProject
	row := l.DB.QueryRowContext(ctx, getLocalProject, namespace, name)
	if err := row.Scan(&project.ID, &project.Namespace, &project.Name, &project.Version, &project.Dir); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocalProject{}, ErrLocalProjectNotFound
		}
		log.Err(err).
			Str("func", "localProjectRepository.GetProject").
			Str("namespace", namespace).
			Str("name", name).
			Msg("failed to scan local project row")
		return models.LocalProject{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return project, nil
}

func (l *localProjectRepository) ListProjects(ctx context.Context) ([]models.LocalProject, error) {
	log := logger.FromContext(ctx)

	rows, err := l.DB.QueryContext(ctx, listLocalProjects)
	if err != nil {
		log.Err(err).Str("func", "localProjectRepository.ListProjects").Msg("failed to query local projects")
		return nil, fmt.Errorf("failed to query local projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.LocalProject, 0)
	for rows.Next() {
		var project models.LocalProject
		if err = rows.Scan(&project.ID, &project.Namespace, &project.Name, &project.Version, &project.Dir); err != nil {
			log.Err(err).Str("func", "localProjectRepository.ListProjects").Msg("failed to scan local project row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		projects = append(projects, project)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate local projects: %w", err)
	}

	return projects, nil
}

func (l *localProjectRepository) SetVersion(ctx context.Context, id int64, version int) error {
	log := logger.FromContext(ctx)

	res, err := l.DB.ExecContext(ctx, setLocalProjectVersion, version, id)
	if err != nil {
		log.Err(err).
			Str("func", "localProjectRepository.SetVersion").
			Int64("id", id).
			Msg("failed to update local project version")
		return fmt.Errorf("failed to update local project version: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrLocalProjectNotFound
	}
	return nil
}

func (l *localProjectRepository) DeleteProject(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if _, err := l.DB.ExecContext(ctx, deleteLocalProject, id); err != nil {
		log.Err(err).
			Str("func", "localProjectRepository.DeleteProject").
			Int64("id", id).
			Msg("failed to delete local project")
		return fmt.Errorf("failed to delete local project: %w", err)
	}

	return nil
}
