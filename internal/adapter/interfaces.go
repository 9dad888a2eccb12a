// SPDX-License-Identifier: Apache-2.0

// Package adapter provides transport-layer abstractions for communicating
// with the project sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// service layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]); a gRPC implementation is reserved
// for future use.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrVersionConflict] for 409, [ErrUnauthorized] for
// 401).
package adapter

import (
	"context"

	"github.com/geosync/geosync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Register or Login, or when restoring a session.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register sends a registration request with the provided credentials.
	// On success it stores the returned bearer token via SetToken and
	// returns the user populated with the server-assigned user ID.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates the user. On success it stores the returned
	// bearer token via SetToken and returns the issued token.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// ListProjects fetches every project visible to the authenticated user.
	ListProjects(ctx context.Context) ([]models.ProjectInfo, error)

	// CreateProject creates an empty project (version 0, no files) in the
	// given namespace and returns the server-side project record.
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (models.ProjectInfo, error)

	// GetProjectMetadata fetches the current project metadata document for
	// namespace/name and returns the raw JSON bytes. Decoding is left to the
	// caller so the document can also be written verbatim to the local cache.
	GetProjectMetadata(ctx context.Context, namespace, name string) ([]byte, error)

	// DownloadFile fetches the content of a single project file at the
	// given version. version <= 0 means the latest version.
	DownloadFile(ctx context.Context, namespace, name, filePath string, version int) ([]byte, error)

	// UploadFile stages the content of a single project file for the next
	// push of namespace/name.
	UploadFile(ctx context.Context, namespace, name, filePath string, content []byte) error

	// Push publishes a new project version described by req. A transport
	// integrity hash covering req.Files is computed and attached
	// automatically. Returns [ErrVersionConflict] (wrapped) when the project
	// has moved past req.BaseVersion on the server.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)
}
