package gallery

import (
	"context"
	"time"

	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
)

// FolderResolver maps a folder path or id to a folder record
type FolderResolver interface {
	// Resolve finds or creates the folder named by pathOrID (falling back to
	// the default path when empty). Returns nil for the top level.
	Resolve(ctx context.Context, pathOrID string) (*gallery.FileRecord, error)

	// HasChildren reports whether the folder contains any record
	HasChildren(ctx context.Context, folderID int64) (bool, error)

	// ValidateFolderPath validates a folder path format
	ValidateFolderPath(path string) error
}

// FilterEngine translates search filters into a store query
type FilterEngine interface {
	BuildQuery(ctx context.Context, filters *gallery.SearchFilters) (*gallery.QuerySpec, error)
}

// ListingService answers browse and search requests
type ListingService interface {
	// List runs a filtered, paginated search
	List(ctx context.Context, caller *models.Caller, filters *gallery.SearchFilters) (*gallery.Listing, error)

	// FetchByParent lists the direct children of a folder without filters
	FetchByParent(ctx context.Context, caller *models.Caller, parentID int64) (*gallery.Listing, error)
}

// MutationService renames and deletes records
type MutationService interface {
	// Rename applies the supplied title and/or basename
	Rename(ctx context.Context, caller *models.Caller, req *RenameRequest) error

	// BulkDelete deletes every resolvable id, all or nothing
	BulkDelete(ctx context.Context, caller *models.Caller, req *BulkDeleteRequest) error
}

// Projector maps records to their external representation
type Projector interface {
	Project(ctx context.Context, caller *models.Caller, record *gallery.FileRecord) (*gallery.Projection, error)

	// ProjectPage projects records in order, sharing parent lookups across the page
	ProjectPage(ctx context.Context, caller *models.Caller, records []gallery.FileRecord) ([]gallery.Projection, error)
}

// CategoryRegistry maps logical file categories to extensions
type CategoryRegistry interface {
	// ExtensionsFor returns the extensions of a category; ok is false for unknown keys
	ExtensionsFor(category string) (extensions []string, ok bool)

	// CategoryFor returns the category of an extension, "" when unmapped
	CategoryFor(extension string) string

	// FileTypeFor returns a human-readable type label for an extension
	FileTypeFor(extension string) string

	// SupportsDimensions reports whether records of the category carry width/height
	SupportsDimensions(category string) bool
}

// DateParser turns request date strings into times
type DateParser interface {
	Parse(value string) (time.Time, error)
}

// RenameRequest carries an update; empty fields are left untouched
type RenameRequest struct {
	ID       int64  `json:"id"`
	Title    string `json:"title,omitempty"`
	Basename string `json:"basename,omitempty"`
}

// BulkDeleteRequest carries the ids of a batch delete
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}
