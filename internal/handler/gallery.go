package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	gallerySvc "assetgallery/internal/domain/services/gallery"
	"assetgallery/internal/httputil"
)

// Status strings the gallery widget matches on
const (
	statusOK       = "ok"
	statusError    = "error"
	statusDeleted  = "file was deleted"
	statusNotFound = "could not find the file"
)

// GallerySettings is the configuration the gallery widget boots with
type GallerySettings struct {
	Name          string `json:"name"`
	Limit         int    `json:"limit"`
	BulkActions   bool   `json:"bulkActions"`
	InitialFolder string `json:"initialFolder"`
	FetchURL      string `json:"fetchUrl"`
	SearchURL     string `json:"searchUrl"`
	UpdateURL     string `json:"updateUrl"`
	DeleteURL     string `json:"deleteUrl"`
}

// NewGallerySettings builds widget settings for a gallery mounted at basePath
func NewGallerySettings(name, basePath string, limit int, bulkActions bool, initialFolder string) GallerySettings {
	base := strings.TrimRight(basePath, "/")
	return GallerySettings{
		Name:          name,
		Limit:         limit,
		BulkActions:   bulkActions,
		InitialFolder: initialFolder,
		FetchURL:      base + "/fetch",
		SearchURL:     base + "/search",
		UpdateURL:     base + "/update",
		DeleteURL:     base + "/delete",
	}
}

// GalleryHandler serves the asset gallery endpoints
type GalleryHandler struct {
	listing   gallerySvc.ListingService
	mutations gallerySvc.MutationService
	settings  GallerySettings
	logger    *slog.Logger
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(
	listing gallerySvc.ListingService,
	mutations gallerySvc.MutationService,
	settings GallerySettings,
	logger *slog.Logger,
) *GalleryHandler {
	return &GalleryHandler{
		listing:   listing,
		mutations: mutations,
		settings:  settings,
		logger:    logger,
	}
}

// Fetch lists the direct children of a folder
// GET /api/gallery/fetch?id={parentID}
func (h *GalleryHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.QueryInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if id == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "id is required")
		return
	}

	listing, err := h.listing.FetchByParent(r.Context(), httputil.GetCaller(r), id)
	if err != nil {
		if handleError(w, err) >= http.StatusInternalServerError {
			h.logger.Error("fetch failed", "parent_id", id, "error", err)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// Search runs a filtered, paginated listing
// GET /api/gallery/search?name=&folder=&type=&createdFrom=&createdTo=&onlySearchInFolder=&page=&limit=
func (h *GalleryHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters, err := parseSearchFilters(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := h.listing.List(r.Context(), httputil.GetCaller(r), filters)
	if err != nil {
		if handleError(w, err) >= http.StatusInternalServerError {
			h.logger.Error("search failed", "error", err)
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// Update renames a record's title and/or basename
// PUT /api/gallery/update
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenameRequest(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An id that cannot be read is reported like an unknown record
	if req.ID <= 0 {
		httputil.RespondStatus(w, http.StatusInternalServerError, statusError)
		return
	}

	if err := h.mutations.Rename(r.Context(), httputil.GetCaller(r), req); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			httputil.RespondStatus(w, http.StatusInternalServerError, statusError)
		case errors.Is(err, domain.ErrForbidden):
			httputil.RespondStatus(w, http.StatusUnauthorized, statusError)
		default:
			if handleError(w, err) >= http.StatusInternalServerError {
				h.logger.Error("rename failed", "id", req.ID, "error", err)
			}
		}
		return
	}

	httputil.RespondStatus(w, http.StatusOK, statusOK)
}

// Delete removes a batch of records, all or nothing
// DELETE /api/gallery/delete
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req, err := parseBulkDeleteRequest(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.IDs) == 0 {
		httputil.RespondStatus(w, http.StatusInternalServerError, statusNotFound)
		return
	}

	if err := h.mutations.BulkDelete(r.Context(), httputil.GetCaller(r), req); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			httputil.RespondStatus(w, http.StatusInternalServerError, statusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			httputil.RespondStatus(w, http.StatusUnauthorized, statusError)
		default:
			if handleError(w, err) >= http.StatusInternalServerError {
				h.logger.Error("bulk delete failed", "ids", len(req.IDs), "error", err)
			}
		}
		return
	}

	httputil.RespondStatus(w, http.StatusOK, statusDeleted)
}

// Settings returns the widget configuration
// GET /api/gallery/settings
func (h *GalleryHandler) Settings(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.settings)
}

func parseSearchFilters(r *http.Request) (*gallery.SearchFilters, error) {
	q := r.URL.Query()
	filters := &gallery.SearchFilters{
		Name:               q.Get("name"),
		Folder:             q.Get("folder"),
		Type:               q.Get("type"),
		CreatedFrom:        q.Get("createdFrom"),
		CreatedTo:          q.Get("createdTo"),
		OnlySearchInFolder: httputil.Truthy(q.Get("onlySearchInFolder")),
	}

	var err error
	if filters.Page, err = httputil.QueryInt(r, "page"); err != nil {
		return nil, err
	}
	if filters.Limit, err = httputil.QueryInt(r, "limit"); err != nil {
		return nil, err
	}
	return filters, nil
}

// parseRenameRequest accepts the widget's urlencoded body or JSON
func parseRenameRequest(w http.ResponseWriter, r *http.Request) (*gallerySvc.RenameRequest, error) {
	if httputil.IsJSON(r) {
		var req gallerySvc.RenameRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := httputil.ParseForm(w, r); err != nil {
		return nil, err
	}
	return &gallerySvc.RenameRequest{
		ID:       formID(r.PostForm.Get("id")),
		Title:    r.PostForm.Get("title"),
		Basename: r.PostForm.Get("basename"),
	}, nil
}

// parseBulkDeleteRequest reads ids from JSON or from ids[] / ids form values.
// Unreadable ids are dropped; they could never match a record.
func parseBulkDeleteRequest(w http.ResponseWriter, r *http.Request) (*gallerySvc.BulkDeleteRequest, error) {
	if httputil.IsJSON(r) {
		var req gallerySvc.BulkDeleteRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := httputil.ParseForm(w, r); err != nil {
		return nil, err
	}

	raw := slices.Concat(r.PostForm["ids[]"], r.PostForm["ids"])
	req := &gallerySvc.BulkDeleteRequest{IDs: make([]int64, 0, len(raw))}
	for _, value := range raw {
		if id := formID(value); id > 0 {
			req.IDs = append(req.IDs, id)
		}
	}
	return req, nil
}

// formID parses a form id, 0 when absent or malformed
func formID(value string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
