// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}
	appCfg := config.ClientApp{HashKey: "testhashkey"}

	a, err := NewHTTPServerAdapter(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func signedTestToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("geosync-test", userID, time.Hour, "test-sign-key")
	require.NoError(t, err)
	return token.SignedString
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain host and port", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "full url", raw: "https://sync.example.com/", want: "https://sync.example.com"},
		{name: "surrounding whitespace", raw: "  http://sync.example.com  ", want: "http://sync.example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "scheme only", raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── Register / Login ────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	user := models.User{Login: "alice", Name: "Alice"}
	token := signedTestToken(t, 7)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/register", r.URL.Path)

		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Register(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, user.Login, got.Login)
	assert.Equal(t, token, a.Token())
}

func TestRegister_InternalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
}

func TestLogin_Success(t *testing.T) {
	token := signedTestToken(t, 12)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Login(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(12), got.UserID)
	assert.Equal(t, token, got.SignedString)
	assert.Equal(t, token, a.Token())
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid login/password"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.User{Login: "alice", Password: "wrong"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, a.Token())
}

// ── Projects ────────────────────────────────────────────────────────────────

func TestListProjects_Success(t *testing.T) {
	want := models.ProjectListResponse{
		Projects: []models.ProjectInfo{
			{Name: "survey", Namespace: "field", Version: 3},
			{Name: "parcels", Namespace: "field", Version: 1},
		},
		Length: 2,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/projects/", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	got, err := a.ListProjects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want.Projects, got)
}

func TestGetProjectMetadata_Success(t *testing.T) {
	doc := `{"name":"survey","namespace":"field","version":"v3","files":[]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/field/survey/metadata", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	got, err := a.GetProjectMetadata(context.Background(), "field", "survey")

	require.NoError(t, err)
	assert.JSONEq(t, doc, string(got))
}

func TestGetProjectMetadata_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("project not found"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	_, err := a.GetProjectMetadata(context.Background(), "field", "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadFile_Success(t *testing.T) {
	content := []byte("GPKG binary payload")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/field/survey/raw", r.URL.Path)
		assert.Equal(t, "data/points.gpkg", r.URL.Query().Get("path"))
		assert.Equal(t, "3", r.URL.Query().Get("version"))
		_, _ = w.Write(content)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	got, err := a.DownloadFile(context.Background(), "field", "survey", "data/points.gpkg", 3)

	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestUploadFile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/projects/field/survey/raw", r.URL.Path)
		assert.Equal(t, "notes.txt", r.URL.Query().Get("path"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	err := a.UploadFile(context.Background(), "field", "survey", "notes.txt", []byte("field notes"))

	assert.NoError(t, err)
}

// ── Push ────────────────────────────────────────────────────────────────────

func TestPush_Success(t *testing.T) {
	files := []models.FileEntry{{Path: "data/points.gpkg", Checksum: "abc", Size: 10}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/push", r.URL.Path)

		var req models.PushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, len(files), req.Length)
		assert.NotEmpty(t, req.Hash, "transport hash must be attached when a hash key is set")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.PushResponse{Version: 4})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	got, err := a.Push(context.Background(), models.PushRequest{
		Namespace:   "field",
		Name:        "survey",
		BaseVersion: 3,
		Files:       files,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, got.Version)
}

func TestPush_VersionConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("project moved to version 5"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("session-token")
	_, err := a.Push(context.Background(), models.PushRequest{Namespace: "field", Name: "survey", BaseVersion: 3})

	assert.ErrorIs(t, err, ErrVersionConflict)
}
