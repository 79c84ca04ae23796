package handler

import (
	"errors"
	"net/http"

	"assetgallery/internal/domain"
	"assetgallery/internal/httputil"
)

// handleError converts domain errors to HTTP responses and returns the
// status it wrote
func handleError(w http.ResponseWriter, err error) int {
	var conflictErr *domain.ConflictError
	var pathErr *domain.InvalidPathError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
		return http.StatusForbidden
	case errors.As(err, &pathErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, pathErr.Error(), map[string]any{
			"path": pathErr.Path,
		})
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]any{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
		return http.StatusConflict
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return http.StatusInternalServerError
	}
}
