// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/utils"
	"github.com/geosync/geosync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listProjects").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	projects, err := h.services.ProjectService.ListProjects(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listProjects").Msg("error listing projects")
		http.Error(w, "error listing projects", statusFromError(err))
		return
	}

	response := models.ProjectListResponse{
		Projects: projects,
		Length:   len(projects),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.createProject").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var request models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.createProject").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.ProjectService.CreateProject(ctx, userID, request)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createProject").Msg("error creating project")
		http.Error(w, "error creating project", statusFromError(err))
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getProjectMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")

	meta, err := h.services.ProjectService.GetProjectMetadata(ctx, namespace, name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getProjectMetadata").Msg("error getting project metadata")
		http.Error(w, "error getting project metadata", statusFromError(err))
		return
	}

	doc, err := meta.EncodeDocument()
	if err != nil {
		log.Err(err).Str("func", "*Handler.getProjectMetadata").Msg("error encoding project metadata")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	filePath := r.URL.Query().Get("path")

	version := 0
	if v := r.URL.Query().Get("version"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Error().Str("version", v).Msg("non-numeric version parameter")
			http.Error(w, "non-numeric version parameter", http.StatusBadRequest)
			return
		}
		version = parsed
	}

	content, err := h.services.ProjectService.GetFileContent(ctx, namespace, name, filePath, version)
	if err != nil {
		log.Err(err).Str("func", "*Handler.downloadFile").Str("path", filePath).Msg("error reading project file")
		http.Error(w, "error reading project file", statusFromError(err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.uploadFile").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "name")
	filePath := r.URL.Query().Get("path")

	content, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadFile").Msg("error reading request body")
		http.Error(w, "error reading request body", http.StatusBadRequest)
		return
	}

	if err = h.services.ProjectService.StageFile(ctx, userID, namespace, name, filePath, content); err != nil {
		log.Err(err).Str("func", "*Handler.uploadFile").Str("path", filePath).Msg("error staging project file")
		http.Error(w, "error staging project file", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.push").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusBadRequest)
		return
	}

	var request models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.push").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	response, err := h.services.ProjectService.Push(ctx, userID, request)
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Str("project", request.Namespace+"/"+request.Name).Msg("error publishing project version")
		http.Error(w, "error publishing project version", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
