package service

import (
	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/crypto"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/store"
)

type Services struct {
	AuthService    AuthService
	ProjectService ProjectService
}

func NewServices(repos *store.Repositories, files store.FileStore, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:    NewAuthService(repos.UserRepository, crypto.NewPasswordHasher(), cfg.App, logger),
		ProjectService: NewProjectService(repos.ProjectRepository, files, cfg.App, logger),
	}
}
