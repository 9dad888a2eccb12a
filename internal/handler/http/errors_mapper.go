package http

import (
	"errors"
	"net/http"

	"github.com/geosync/geosync/internal/service"
	"github.com/geosync/geosync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrNotProjectOwner:         http.StatusForbidden,
	service.ErrTransportHashMismatch:   http.StatusBadRequest,
	service.ErrFileNotFound:            http.StatusNotFound,

	store.ErrLoginAlreadyExists:   http.StatusConflict,
	store.ErrNoUserWasFound:       http.StatusNotFound,
	store.ErrProjectAlreadyExists: http.StatusConflict,
	store.ErrProjectNotFound:      http.StatusNotFound,
	store.ErrVersionConflict:      http.StatusConflict,
	store.ErrMissingFileContent:   http.StatusBadRequest,
	store.ErrChecksumMismatch:     http.StatusBadRequest,
	store.ErrFileContentNotFound:  http.StatusNotFound,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
