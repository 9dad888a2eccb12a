package service

import (
	"context"
	"time"

	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_services_mock.go -package=mock

// FileSyncPlanner defines the contract for the three-way file comparison at
// the heart of project synchronisation.
type FileSyncPlanner interface {
	// BuildFileSyncPlan compares three file inventories of one project and
	// classifies every differing path into exactly one action list:
	//
	//   - base:   the inventory cached at the last successful sync
	//   - local:  the files currently on disk
	//   - remote: the server's latest metadata
	//
	// The returned plan is deterministic: paths are visited in sorted order.
	BuildFileSyncPlan(ctx context.Context, base, local, remote []models.FileEntry) (models.FileSyncPlan, error)
}

// ClientAuthService defines the client-side contract for account access and
// session persistence. A successful Register or Login stores the issued
// bearer token in the local session store so later runs can skip the login
// screen.
type ClientAuthService interface {
	// Register creates a new account on the server and persists the issued
	// session. Returns the user populated with the server-assigned ID.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates against the server and persists the issued
	// session.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// RestoreSession loads the persisted session, if any, and installs its
	// token into the server adapter. Returns store.ErrLocalSessionNotFound
	// when the device has never logged in.
	RestoreSession(ctx context.Context) (store.Session, error)

	// Logout clears the persisted session and drops the adapter token.
	Logout(ctx context.Context) error
}

// ClientSyncService defines the client-side contract for reconciling local
// project directories with the sync server.
type ClientSyncService interface {
	// CloneProject registers a server project in the local registry under
	// dir and performs the initial sync, downloading every file.
	CloneProject(ctx context.Context, namespace, name, dir string) (models.LocalProject, error)

	// ListProjects returns every project in the local registry.
	ListProjects(ctx context.Context) ([]models.LocalProject, error)

	// SyncProject reconciles one registered project: it fetches the
	// server's metadata, builds a three-way plan against the cached
	// inventory and the files on disk, executes the plan, and refreshes
	// the cache. The executed plan is returned for reporting.
	SyncProject(ctx context.Context, project models.LocalProject) (models.FileSyncPlan, error)

	// SyncAll syncs every project in the local registry. Individual
	// project failures are logged and skipped; the first error is
	// returned after all projects were attempted.
	SyncAll(ctx context.Context) error
}

// ClientSyncJob defines the contract for a background worker that
// periodically calls SyncAll.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every
	// interval, defaulting to 5 minutes if interval is zero or negative.
	// Any previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}
