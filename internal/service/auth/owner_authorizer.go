package auth

import (
	"context"

	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
)

// OwnerBasedAuthorizer implements services.Authorizer using ownership and roles.
//
//   - any authenticated caller can view every record
//   - admins can edit and delete everything
//   - a member can edit and delete the records they own
//   - records without an owner are editable by members with the editor role
type OwnerBasedAuthorizer struct{}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer() *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{}
}

// CanView reports whether the caller may see the record in listings
func (a *OwnerBasedAuthorizer) CanView(_ context.Context, record *gallery.FileRecord, caller *models.Caller) bool {
	return record != nil && authenticated(caller)
}

// CanEdit reports whether the caller may rename or retitle the record
func (a *OwnerBasedAuthorizer) CanEdit(_ context.Context, record *gallery.FileRecord, caller *models.Caller) bool {
	return a.manages(record, caller)
}

// CanDelete reports whether the caller may delete the record
func (a *OwnerBasedAuthorizer) CanDelete(_ context.Context, record *gallery.FileRecord, caller *models.Caller) bool {
	return a.manages(record, caller)
}

func (a *OwnerBasedAuthorizer) manages(record *gallery.FileRecord, caller *models.Caller) bool {
	if record == nil || !authenticated(caller) {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	if record.OwnerID == nil {
		return caller.HasRole(models.RoleEditor)
	}
	return *record.OwnerID == caller.MemberID
}

func authenticated(caller *models.Caller) bool {
	return caller != nil && caller.MemberID > 0
}
