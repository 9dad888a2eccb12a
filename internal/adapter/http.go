// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *resty.Client

	hashKey string
	token   string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/auth/register. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns an error if
// the request fails, the server returns a non-2xx status, or the token
// cannot be parsed.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.User{}, fmt.Errorf("register parse user id: %w", err)
	}

	h.SetToken(token)
	return models.User{UserID: userID, Login: user.Login, Name: user.Name}, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns the issued
// token with the user ID parsed from its subject claim.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return models.Token{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse user id: %w", err)
	}

	h.SetToken(token)
	return models.Token{SignedString: token, UserID: userID}, nil
}

// ListProjects implements [ServerAdapter]. It GETs GET /api/projects/ and
// decodes the project list. Requires a valid bearer token.
func (h *httpServerAdapter) ListProjects(ctx context.Context) ([]models.ProjectInfo, error) {
	resp, err := h.authedRequest(ctx).Get("/api/projects/")
	if err != nil {
		return nil, fmt.Errorf("list projects request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var list models.ProjectListResponse
	if err = json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("decode project list response: %w", err)
	}

	return list.Projects, nil
}

// CreateProject implements [ServerAdapter]. It POSTs the creation request to
// POST /api/projects/ and decodes the created project record. Requires a
// valid bearer token.
func (h *httpServerAdapter) CreateProject(ctx context.Context, req models.CreateProjectRequest) (models.ProjectInfo, error) {
	var created models.ProjectInfo

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&created).
		Post("/api/projects/")
	if err != nil {
		return models.ProjectInfo{}, fmt.Errorf("create project request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ProjectInfo{}, err
	}

	return created, nil
}

// GetProjectMetadata implements [ServerAdapter]. It GETs
// GET /api/projects/{namespace}/{name}/metadata and returns the response
// body verbatim. Requires a valid bearer token.
func (h *httpServerAdapter) GetProjectMetadata(ctx context.Context, namespace, name string) ([]byte, error) {
	resp, err := h.authedRequest(ctx).
		Get(fmt.Sprintf("/api/projects/%s/%s/metadata", url.PathEscape(namespace), url.PathEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("get project metadata request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// DownloadFile implements [ServerAdapter]. It GETs
// GET /api/projects/{namespace}/{name}/raw?path=...&version=... and returns
// the file content. Requires a valid bearer token.
func (h *httpServerAdapter) DownloadFile(ctx context.Context, namespace, name, filePath string, version int) ([]byte, error) {
	req := h.authedRequest(ctx).SetQueryParam("path", filePath)
	if version > 0 {
		req.SetQueryParam("version", strconv.Itoa(version))
	}

	resp, err := req.Get(fmt.Sprintf("/api/projects/%s/%s/raw", url.PathEscape(namespace), url.PathEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("download file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// UploadFile implements [ServerAdapter]. It POSTs the raw file content to
// POST /api/projects/{namespace}/{name}/raw?path=... where it is staged for
// the next push. Requires a valid bearer token.
func (h *httpServerAdapter) UploadFile(ctx context.Context, namespace, name, filePath string, content []byte) error {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("path", filePath).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(content).
		Post(fmt.Sprintf("/api/projects/%s/%s/raw", url.PathEscape(namespace), url.PathEscape(name)))
	if err != nil {
		return fmt.Errorf("upload file request: %w", err)
	}

	return mapHTTPError(resp)
}

// Push implements [ServerAdapter]. It computes a transport integrity hash
// over req.Files, sets req.Length, and POSTs the request to
// POST /api/projects/push. Returns [ErrVersionConflict] (wrapped) on
// HTTP 409. Requires a valid bearer token.
func (h *httpServerAdapter) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	req.Hash = computeTransportHash(req.Files, h.hashKey)
	req.Length = len(req.Files)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/projects/push")
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	var pushed models.PushResponse
	if err = json.Unmarshal(resp.Body(), &pushed); err != nil {
		return models.PushResponse{}, fmt.Errorf("decode push response: %w", err)
	}

	return pushed, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func computeTransportHash(v any, key string) string {
	if key == "" {
		return ""
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return utils.HashString(string(payload), key)
}
