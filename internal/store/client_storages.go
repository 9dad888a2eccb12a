package store

import (
	"path/filepath"

	"github.com/geosync/geosync/internal/logger"
)

// MetadataCacheDir is the hidden directory inside each project directory
// that holds sync bookkeeping files. It is excluded from file inventories.
const MetadataCacheDir = ".geosync"

// ClientStorages bundles the client-side repositories behind one
// constructor.
type ClientStorages struct {
	Projects LocalProjectRepository
	Sessions SessionRepository
}

// NewClientStorages wires the client repositories to the shared SQLite
// connection.
func NewClientStorages(db *DB, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		Projects: NewLocalProjectRepository(db, logger),
		Sessions: NewSessionRepository(db, logger),
	}
}

// CachedMetadataPath returns the location of the cached project metadata
// document inside projectDir. The document is the server's metadata response
// stored verbatim at the last successful sync.
func CachedMetadataPath(projectDir string) string {
	return filepath.Join(projectDir, MetadataCacheDir, "project.json")
}
