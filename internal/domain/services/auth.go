package services

import (
	"context"

	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
)

// Authorizer answers per-record permission questions for a caller.
// Services call it before reading or mutating a record instead of asking
// the record itself; a nil caller is anonymous.
type Authorizer interface {
	// CanView checks if caller may see the record in listings
	CanView(ctx context.Context, record *gallery.FileRecord, caller *models.Caller) bool

	// CanEdit checks if caller may rename or retitle the record
	CanEdit(ctx context.Context, record *gallery.FileRecord, caller *models.Caller) bool

	// CanDelete checks if caller may delete the record
	CanDelete(ctx context.Context, record *gallery.FileRecord, caller *models.Caller) bool
}
