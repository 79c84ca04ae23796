package gallery

import (
	"context"

	"assetgallery/internal/domain/models/gallery"
)

// RecordStore defines data access operations for file and folder records.
// Query and CountMatching evaluate the same Criteria; Query additionally
// applies the folders-first-then-name order and the page window.
type RecordStore interface {
	// Query returns the records matching criteria, sorted and paginated
	Query(ctx context.Context, criteria *gallery.Criteria) ([]gallery.FileRecord, error)

	// CountMatching counts matches ignoring Limit/Offset
	CountMatching(ctx context.Context, criteria *gallery.Criteria) (int, error)

	// FindByID retrieves a record, wrapping domain.ErrNotFound when absent
	FindByID(ctx context.Context, id int64) (*gallery.FileRecord, error)

	// Write persists the mutable fields (name, title, last_updated_at) of an existing record
	Write(ctx context.Context, record *gallery.FileRecord) error

	// Delete removes a record; folders take their subtree with them
	Delete(ctx context.Context, id int64) error

	// HasChildren reports whether any record lists folderID as its parent
	HasChildren(ctx context.Context, folderID int64) (bool, error)

	// FindOrCreateFolder atomically returns the record called name under parentID,
	// inserting a folder if none exists. The caller checks IsFolder on the result.
	FindOrCreateFolder(ctx context.Context, parentID *int64, name string) (*gallery.FileRecord, error)

	// GetPath computes the slash-joined path of a record from the top level
	GetPath(ctx context.Context, id int64) (string, error)
}

// MemberRepository looks up record owners
type MemberRepository interface {
	// GetByID retrieves a member, wrapping domain.ErrNotFound when absent
	GetByID(ctx context.Context, id int64) (*gallery.Member, error)
}
