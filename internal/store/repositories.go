package store

import "github.com/geosync/geosync/internal/logger"

// Repositories bundles the server-side repositories behind one constructor
// so the service layer receives a single dependency.
type Repositories struct {
	UserRepository    UserRepository
	ProjectRepository ProjectRepository
}

// NewRepositories wires every repository to the shared database connection.
func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db, logger),
		ProjectRepository: NewProjectRepository(db, logger),
	}
}
