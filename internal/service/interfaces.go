package service

import (
	"context"

	"github.com/geosync/geosync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

// AuthService handles account registration, credential verification, and the
// JWT token lifecycle on the server side.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ProjectService implements the server-side project operations: creation,
// listing, metadata assembly, file content access, and publishing pushed
// versions.
type ProjectService interface {
	// CreateProject inserts an empty project owned by ownerID.
	CreateProject(ctx context.Context, ownerID int64, req models.CreateProjectRequest) (models.ProjectInfo, error)

	// ListProjects returns every project owned by ownerID.
	ListProjects(ctx context.Context, ownerID int64) ([]models.ProjectInfo, error)

	// GetProjectMetadata assembles the metadata of the project's current
	// version from the stored file inventory.
	GetProjectMetadata(ctx context.Context, namespace, name string) (models.ProjectMetadata, error)

	// GetFileContent returns the content of one project file at the given
	// version. version <= 0 selects the current version.
	GetFileContent(ctx context.Context, namespace, name, filePath string, version int) ([]byte, error)

	// StageFile stores uploaded file content for the project's next push.
	// Only the project owner may stage files.
	StageFile(ctx context.Context, ownerID int64, namespace, name, filePath string, content []byte) error

	// Push publishes a new project version from the request's inventory.
	// The transport integrity hash is re-verified when one is attached.
	Push(ctx context.Context, ownerID int64, req models.PushRequest) (models.PushResponse, error)
}
