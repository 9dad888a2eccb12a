package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/models"
	"github.com/jackc/pgerrcode"
)

func newTestProjectRepo(t *testing.T) (*projectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &projectRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func projectRows(project models.ProjectInfo) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "owner_id", "namespace", "name", "version", "created_at", "updated_at"}).
		AddRow(project.ID, project.OwnerID, project.Namespace, project.Name, project.Version, project.CreatedAt, project.UpdatedAt)
}

func TestCreateProject_Success(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	now := time.Now()
	want := models.ProjectInfo{ID: 3, OwnerID: 1, Namespace: "field", Name: "survey", Version: 0, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("INSERT INTO projects").
		WithArgs(want.OwnerID, want.Namespace, want.Name).
		WillReturnRows(projectRows(want))

	created, err := repo.CreateProject(context.Background(), models.ProjectInfo{OwnerID: 1, Namespace: "field", Name: "survey"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != want.ID || created.Version != 0 {
		t.Errorf("unexpected project record: %+v", created)
	}
}

func TestCreateProject_AlreadyExists(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO projects").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateProject(context.Background(), models.ProjectInfo{OwnerID: 1, Namespace: "field", Name: "survey"})
	if !errors.Is(err, ErrProjectAlreadyExists) {
		t.Fatalf("expected ErrProjectAlreadyExists, got %v", err)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, owner_id").
		WithArgs("field", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "namespace", "name", "version", "created_at", "updated_at"}))

	_, err := repo.GetProject(context.Background(), "field", "missing")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestListProjectsByOwner_Success(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.
		NewRows([]string{"id", "owner_id", "namespace", "name", "version", "created_at", "updated_at"}).
		AddRow(1, 7, "field", "parcels", 2, now, now).
		AddRow(2, 7, "field", "survey", 5, now, now)

	mock.ExpectQuery("SELECT id, owner_id").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	projects, err := repo.ListProjectsByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "parcels" || projects[1].Version != 5 {
		t.Errorf("unexpected project list: %+v", projects)
	}
}

func TestGetProjectFiles_ExplicitVersion(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	mtime := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.
		NewRows([]string{"path", "checksum", "size", "mtime"}).
		AddRow("data/points.gpkg", "abc", int64(10), mtime)

	mock.ExpectQuery("SELECT path, checksum, size, mtime FROM project_files").
		WithArgs(int64(3), 2).
		WillReturnRows(rows)

	files, err := repo.GetProjectFiles(context.Background(), 3, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Path != "data/points.gpkg" {
		t.Fatalf("unexpected files: %+v", files)
	}
	if !files[0].MTime.Equal(mtime) {
		t.Errorf("expected mtime %v, got %v", mtime, files[0].MTime)
	}
}

func TestPublishVersion_Success(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	files := []models.FileEntry{
		{Path: "data/points.gpkg", Checksum: "abc", Size: 10},
		{Path: "project.qgs", Checksum: "def", Size: 4},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE projects").
		WithArgs(int64(3), 2).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
	for _, file := range files {
		mock.ExpectExec("INSERT INTO project_files").
			WithArgs(int64(3), 3, file.Path, file.Checksum, file.Size, file.MTime).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	version, err := repo.PublishVersion(context.Background(), 3, 2, files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 3 {
		t.Errorf("expected version 3, got %d", version)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPublishVersion_Conflict(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE projects").
		WithArgs(int64(3), 2).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectRollback()

	_, err := repo.PublishVersion(context.Background(), 3, 2, nil)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestPublishVersion_InsertFailure(t *testing.T) {
	repo, mock, db := newTestProjectRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE projects").
		WithArgs(int64(3), 2).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
	mock.ExpectExec("INSERT INTO project_files").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.PublishVersion(context.Background(), 3, 2, []models.FileEntry{{Path: "a"}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
