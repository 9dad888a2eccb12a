package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/service"
	"github.com/geosync/geosync/models"
	"github.com/stretchr/testify/assert"
)

// ---- Mock: AuthService ----

type mockAuthSvc struct{}

func (m *mockAuthSvc) RegisterUser(_ context.Context, u models.User) (models.User, error) {
	return u, nil
}
func (m *mockAuthSvc) Login(_ context.Context, u models.User) (models.User, error) {
	return u, nil
}
func (m *mockAuthSvc) CreateToken(_ context.Context, _ models.User) (models.Token, error) {
	return models.Token{}, nil
}
func (m *mockAuthSvc) ParseToken(_ context.Context, _ string) (models.Token, error) {
	return models.Token{UserID: 1}, nil
}

// ---- Mock: ProjectService ----

type mockProjectSvc struct{}

func (m *mockProjectSvc) CreateProject(_ context.Context, _ int64, _ models.CreateProjectRequest) (models.ProjectInfo, error) {
	return models.ProjectInfo{}, nil
}
func (m *mockProjectSvc) ListProjects(_ context.Context, _ int64) ([]models.ProjectInfo, error) {
	return nil, nil
}
func (m *mockProjectSvc) GetProjectMetadata(_ context.Context, _, _ string) (models.ProjectMetadata, error) {
	return models.ProjectMetadata{}, nil
}
func (m *mockProjectSvc) GetFileContent(_ context.Context, _, _, _ string, _ int) ([]byte, error) {
	return nil, nil
}
func (m *mockProjectSvc) StageFile(_ context.Context, _ int64, _, _, _ string, _ []byte) error {
	return nil
}
func (m *mockProjectSvc) Push(_ context.Context, _ int64, _ models.PushRequest) (models.PushResponse, error) {
	return models.PushResponse{}, nil
}

// ---- Helper ----

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			AuthService:    &mockAuthSvc{},
			ProjectService: &mockProjectSvc{},
		},
	}
	return h.Init()
}

func validAuthHeader() string { return "Bearer stub-token" }

// ---- Public routes: reachable without auth ----

func TestInit_PublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/register"},
		{http.MethodPost, "/api/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.NotEqual(t, http.StatusNotFound, rr.Code,
				"route should be registered: %s %s", tt.method, tt.path)
			assert.NotEqual(t, http.StatusUnauthorized, rr.Code,
				"public route should not require auth: %s %s", tt.method, tt.path)
		})
	}
}

// ---- Protected routes: 401 without token ----

func TestInit_ProtectedRoutes_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/projects/"},
		{http.MethodPost, "/api/projects/"},
		{http.MethodGet, "/api/projects/acme/survey/metadata"},
		{http.MethodGet, "/api/projects/acme/survey/raw"},
		{http.MethodPost, "/api/projects/acme/survey/raw"},
		{http.MethodPost, "/api/projects/push"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" without token", func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code,
				"missing token should result in 401")
		})
	}
}

// ---- Protected routes: pass with valid token ----

func TestInit_ProtectedRoutes_PassWithValidToken(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/projects/"},
		{http.MethodGet, "/api/projects/acme/survey/metadata"},
		{http.MethodGet, "/api/projects/acme/survey/raw?path=readme.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" with token", func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", validAuthHeader())
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.NotEqual(t, http.StatusUnauthorized, rr.Code,
				"valid token should not result in 401")
		})
	}
}

// ---- Unknown routes return 404 ----

func TestInit_UnknownRoutes_Return404(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/nonexistent"},
		{http.MethodGet, "/totally/wrong"},
		{http.MethodPatch, "/api/auth/register"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.True(t, rr.Code == http.StatusNotFound || rr.Code == http.StatusMethodNotAllowed,
				"unexpected status %d", rr.Code)
		})
	}
}

// ---- X-Trace-ID is always present in the response ----

func TestInit_TraceIDHeader_AlwaysSet(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

// ---- Incoming X-Trace-ID is echoed back ----

func TestInit_TraceIDHeader_EchoedFromRequest(t *testing.T) {
	router := newTestRouter(t)
	const customTraceID = "my-custom-trace-id-12345"

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	req.Header.Set("X-Trace-ID", customTraceID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, customTraceID, rr.Header().Get("X-Trace-ID"))
}
