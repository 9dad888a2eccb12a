package store

import (
	"context"
	"time"

	"github.com/geosync/geosync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Session is the client's persisted login state: the bearer token issued by
// the server and the user it belongs to.
type Session struct {
	UserID  int64
	Token   string
	SavedAt time.Time
}

// LocalProjectRepository is the client-side registry of downloaded projects.
type LocalProjectRepository interface {
	// SaveProject upserts the registry entry for project, keyed on
	// namespace/name, and returns it with its local row ID.
	SaveProject(ctx context.Context, project models.LocalProject) (models.LocalProject, error)

	// GetProject looks a registry entry up by namespace/name. A missing
	// entry yields [ErrLocalProjectNotFound].
	GetProject(ctx context.Context, namespace, name string) (models.LocalProject, error)

	// ListProjects returns every registered project ordered by namespace
	// and name.
	ListProjects(ctx context.Context) ([]models.LocalProject, error)

	// SetVersion records the locally synced version of the project with the
	// given row ID.
	SetVersion(ctx context.Context, id int64, version int) error

	// DeleteProject removes the registry entry with the given row ID. The
	// project directory on disk is left untouched.
	DeleteProject(ctx context.Context, id int64) error
}

// SessionRepository persists the single login session of the device.
type SessionRepository interface {
	// SaveSession stores session, replacing any previous one.
	SaveSession(ctx context.Context, session Session) error

	// GetSession returns the stored session, or [ErrLocalSessionNotFound]
	// when the device has never logged in (or the session was cleared).
	GetSession(ctx context.Context) (Session, error)

	// ClearSession removes the stored session.
	ClearSession(ctx context.Context) error
}
