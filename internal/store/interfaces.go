package store

import (
	"context"

	"github.com/geosync/geosync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/repositories_mock.go -package=mock

// UserRepository persists and looks up user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// ProjectRepository persists projects and their versioned file inventories.
type ProjectRepository interface {
	// CreateProject inserts an empty project (version 0, no files) and
	// returns the record with server-assigned fields.
	CreateProject(ctx context.Context, project models.ProjectInfo) (models.ProjectInfo, error)

	// GetProject looks a project up by its namespace/name pair.
	GetProject(ctx context.Context, namespace, name string) (models.ProjectInfo, error)

	// ListProjectsByOwner returns every project owned by ownerID, ordered
	// by namespace and name.
	ListProjectsByOwner(ctx context.Context, ownerID int64) ([]models.ProjectInfo, error)

	// GetProjectFiles returns the file inventory of the given project
	// version, optionally narrowed to paths under pathPrefix. version <= 0
	// selects the project's current version.
	GetProjectFiles(ctx context.Context, projectID int64, version int, pathPrefix string) ([]models.FileEntry, error)

	// PublishVersion atomically bumps the project version from baseVersion
	// and stores files as the new version's inventory. Returns the new
	// version number, or [ErrVersionConflict] when the stored version no
	// longer equals baseVersion.
	PublishVersion(ctx context.Context, projectID int64, baseVersion int, files []models.FileEntry) (int, error)
}
