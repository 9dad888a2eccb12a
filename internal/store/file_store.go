// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/models"
)

//go:generate mockgen -source=file_store.go -destination=../mock/file_store_mock.go -package=mock

// ErrMissingFileContent is returned by PromoteStaged when a pushed inventory
// references a checksum that was neither uploaded for this push nor stored by
// a previous version.
var ErrMissingFileContent = errors.New("file content missing from store")

// ErrFileContentNotFound is returned by ReadObject when no content is stored
// under the requested checksum.
var ErrFileContentNotFound = errors.New("file content not found")

// ErrChecksumMismatch is returned by PromoteStaged when a staged file's
// content does not hash to the checksum its inventory entry declares.
var ErrChecksumMismatch = errors.New("staged file content does not match declared checksum")

// FileStore holds the raw content of project files on the server.
//
// Content is stored per project and addressed by checksum, so a file that is
// unchanged between versions is kept once and never re-uploaded. Uploads are
// staged under their relative path first; a push promotes the staged files
// into the content store under the checksums its inventory declares.
type FileStore interface {
	// SaveStaged stores content under the project's staging area, keyed by
	// the file's project-relative path. A second upload for the same path
	// overwrites the first.
	SaveStaged(namespace, name, filePath string, content []byte) error

	// PromoteStaged moves staged files into the project's content store.
	// For every entry in files whose checksum is not stored yet, the staged
	// file at the entry's path is hashed, verified against the entry's
	// declared checksum, and promoted; entries whose checksum is already
	// stored need no staged file. Returns [ErrMissingFileContent] when an
	// entry has neither, [ErrChecksumMismatch] when staged content hashes
	// to a different value. The staging area is cleared afterwards.
	PromoteStaged(namespace, name string, files []models.FileEntry) error

	// ReadObject returns the stored content with the given checksum, or
	// [ErrFileContentNotFound].
	ReadObject(namespace, name, checksum string) ([]byte, error)
}

// diskFileStore is the filesystem implementation of FileStore. Layout under
// the root directory:
//
//	<root>/<namespace>/<name>/staging/<path>    uploads awaiting a push
//	<root>/<namespace>/<name>/objects/<sum>     promoted content by checksum
type diskFileStore struct {
	root   string
	logger *logger.Logger
}

func NewDiskFileStore(root string, logger *logger.Logger) FileStore {
	return &diskFileStore{root: root, logger: logger}
}

func (s *diskFileStore) SaveStaged(namespace, name, filePath string, content []byte) error {
	dst := filepath.Join(s.stagingDir(namespace, name), filepath.FromSlash(filePath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return fmt.Errorf("write staged file: %w", err)
	}

	s.logger.Debug().
		Str("project", namespace+"/"+name).
		Str("path", filePath).
		Int("size", len(content)).
		Msg("file staged")
	return nil
}

func (s *diskFileStore) PromoteStaged(namespace, name string, files []models.FileEntry) error {
	objectsDir := s.objectsDir(namespace, name)
	if err := os.MkdirAll(objectsDir, 0o755); err != nil {
		return fmt.Errorf("create objects dir: %w", err)
	}

	stagingDir := s.stagingDir(namespace, name)
	for _, file := range files {
		object := filepath.Join(objectsDir, file.Checksum)
		if _, err := os.Stat(object); err == nil {
			continue
		}

		staged := filepath.Join(stagingDir, filepath.FromSlash(file.Path))
		if _, err := os.Stat(staged); err != nil {
			return fmt.Errorf("%w: %s (%s)", ErrMissingFileContent, file.Path, file.Checksum)
		}

		// The object store is shared with every other device syncing this
		// project; content must actually hash to the checksum it will be
		// served under.
		sum, err := utils.FileChecksum(staged)
		if err != nil {
			return fmt.Errorf("hash staged file %s: %w", file.Path, err)
		}
		if sum != file.Checksum {
			s.logger.Error().
				Str("project", namespace+"/"+name).
				Str("path", file.Path).
				Str("declared", file.Checksum).
				Str("actual", sum).
				Msg("staged content rejected")
			return fmt.Errorf("%w: %s", ErrChecksumMismatch, file.Path)
		}

		if err := os.Rename(staged, object); err != nil {
			return fmt.Errorf("promote staged file %s: %w", file.Path, err)
		}
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		s.logger.Warn().Err(err).
			Str("project", namespace+"/"+name).
			Msg("failed to clear staging area")
	}
	return nil
}

func (s *diskFileStore) ReadObject(namespace, name, checksum string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(s.objectsDir(namespace, name), checksum))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileContentNotFound, checksum)
		}
		return nil, fmt.Errorf("read object %s: %w", checksum, err)
	}
	return content, nil
}

func (s *diskFileStore) stagingDir(namespace, name string) string {
	return filepath.Join(s.root, namespace, name, "staging")
}

func (s *diskFileStore) objectsDir(namespace, name string) string {
	return filepath.Join(s.root, namespace, name, "objects")
}
