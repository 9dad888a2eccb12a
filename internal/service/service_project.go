// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"fmt"

	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/models"
)

// projectService is the concrete implementation of ProjectService. It joins
// the relational project records with the content-addressed file store and
// enforces ownership on every mutating operation.
type projectService struct {
	projectRepository store.ProjectRepository
	fileStore         store.FileStore

	// hashKey is the shared HMAC key for push payload integrity. Empty
	// disables hash verification.
	hashKey string

	logger *logger.Logger
}

// NewProjectService constructs a ProjectService backed by the given
// repository and file store.
func NewProjectService(projectRepository store.ProjectRepository, fileStore store.FileStore, cfg config.App, logger *logger.Logger) ProjectService {
	return &projectService{
		projectRepository: projectRepository,
		fileStore:         fileStore,
		hashKey:           cfg.HashKey,
		logger:            logger,
	}
}

// CreateProject inserts an empty project (version 0) owned by ownerID.
//
// Returns ErrInvalidDataProvided when the namespace or name is empty, or a
// wrapped storage error (see store.ErrProjectAlreadyExists).
func (p *projectService) CreateProject(ctx context.Context, ownerID int64, req models.CreateProjectRequest) (models.ProjectInfo, error) {
	log := logger.FromContext(ctx)

	if req.Namespace == "" || req.Name == "" {
		log.Error().Any("request", req).Msg("invalid project data provided")
		return models.ProjectInfo{}, ErrInvalidDataProvided
	}

	created, err := p.projectRepository.CreateProject(ctx, models.ProjectInfo{
		OwnerID:   ownerID,
		Namespace: req.Namespace,
		Name:      req.Name,
	})
	if err != nil {
		log.Err(err).Str("project", req.Namespace+"/"+req.Name).Msg("project creation ended with error")
		return models.ProjectInfo{}, fmt.Errorf("project creation ended with error: %w", err)
	}

	return created, nil
}

// ListProjects returns every project owned by ownerID.
func (p *projectService) ListProjects(ctx context.Context, ownerID int64) ([]models.ProjectInfo, error) {
	projects, err := p.projectRepository.ListProjectsByOwner(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("owner", ownerID).Msg("project listing failed")
		return nil, fmt.Errorf("project listing failed: %w", err)
	}

	return projects, nil
}

// GetProjectMetadata assembles the metadata document of the project's current
// version: identity and version from the project record, file inventory from
// the stored version rows.
func (p *projectService) GetProjectMetadata(ctx context.Context, namespace, name string) (models.ProjectMetadata, error) {
	project, err := p.projectRepository.GetProject(ctx, namespace, name)
	if err != nil {
		return models.ProjectMetadata{}, fmt.Errorf("project lookup failed: %w", err)
	}

	files, err := p.projectRepository.GetProjectFiles(ctx, project.ID, project.Version, "")
	if err != nil {
		return models.ProjectMetadata{}, fmt.Errorf("file inventory lookup failed: %w", err)
	}

	return models.ProjectMetadata{
		Name:      project.Name,
		Namespace: project.Namespace,
		Version:   project.Version,
		Files:     files,
	}, nil
}

// GetFileContent returns the stored content of one file of the given project
// version. The file's checksum is resolved from the version's inventory and
// the content read from the content-addressed store.
func (p *projectService) GetFileContent(ctx context.Context, namespace, name, filePath string, version int) ([]byte, error) {
	if filePath == "" {
		return nil, ErrInvalidDataProvided
	}

	project, err := p.projectRepository.GetProject(ctx, namespace, name)
	if err != nil {
		return nil, fmt.Errorf("project lookup failed: %w", err)
	}

	files, err := p.projectRepository.GetProjectFiles(ctx, project.ID, version, filePath)
	if err != nil {
		return nil, fmt.Errorf("file inventory lookup failed: %w", err)
	}

	// The prefix filter may also match longer paths; require exact equality.
	for _, file := range files {
		if file.Path == filePath {
			return p.fileStore.ReadObject(namespace, name, file.Checksum)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
}

// StageFile stores uploaded content for the next push of namespace/name.
// Only the project owner may stage files.
func (p *projectService) StageFile(ctx context.Context, ownerID int64, namespace, name, filePath string, content []byte) error {
	if filePath == "" {
		return ErrInvalidDataProvided
	}

	project, err := p.projectRepository.GetProject(ctx, namespace, name)
	if err != nil {
		return fmt.Errorf("project lookup failed: %w", err)
	}
	if project.OwnerID != ownerID {
		logger.FromContext(ctx).Error().
			Int64("owner", project.OwnerID).
			Int64("user", ownerID).
			Str("project", project.FullName()).
			Msg("upload rejected: not the project owner")
		return ErrNotProjectOwner
	}

	return p.fileStore.SaveStaged(namespace, name, filePath, content)
}

// Push publishes a new project version from the request's inventory.
//
// Staged file content is promoted into the content store before the version
// bump, so a version row never references content the store does not hold.
// Returns store.ErrVersionConflict (wrapped) when the project has moved past
// req.BaseVersion.
func (p *projectService) Push(ctx context.Context, ownerID int64, req models.PushRequest) (models.PushResponse, error) {
	log := logger.FromContext(ctx)

	if req.Namespace == "" || req.Name == "" {
		log.Error().Any("request", req).Msg("invalid push data provided")
		return models.PushResponse{}, ErrInvalidDataProvided
	}

	if err := p.verifyTransportHash(req); err != nil {
		log.Err(err).Str("project", req.Namespace+"/"+req.Name).Msg("push rejected")
		return models.PushResponse{}, err
	}

	project, err := p.projectRepository.GetProject(ctx, req.Namespace, req.Name)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("project lookup failed: %w", err)
	}
	if project.OwnerID != ownerID {
		log.Error().
			Int64("owner", project.OwnerID).
			Int64("user", ownerID).
			Str("project", project.FullName()).
			Msg("push rejected: not the project owner")
		return models.PushResponse{}, ErrNotProjectOwner
	}

	if err = p.fileStore.PromoteStaged(req.Namespace, req.Name, req.Files); err != nil {
		return models.PushResponse{}, fmt.Errorf("staged content promotion failed: %w", err)
	}

	version, err := p.projectRepository.PublishVersion(ctx, project.ID, req.BaseVersion, req.Files)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("version publication failed: %w", err)
	}

	log.Info().
		Str("project", project.FullName()).
		Int("version", version).
		Int("files", len(req.Files)).
		Msg("project version published")

	return models.PushResponse{Version: version}, nil
}

// verifyTransportHash recomputes the HMAC over the request's file inventory
// and compares it to the attached hash. Verification is skipped when no hash
// key is configured or the client sent no hash.
func (p *projectService) verifyTransportHash(req models.PushRequest) error {
	if p.hashKey == "" || req.Hash == "" {
		return nil
	}

	payload, err := json.Marshal(req.Files)
	if err != nil {
		return fmt.Errorf("marshal file inventory for hashing: %w", err)
	}

	expected := utils.HashString(string(payload), p.hashKey)
	if !hmac.Equal([]byte(expected), []byte(req.Hash)) {
		return ErrTransportHashMismatch
	}
	return nil
}
