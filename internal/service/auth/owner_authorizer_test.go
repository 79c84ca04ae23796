package auth

import (
	"context"
	"testing"

	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
)

func ownedBy(id int64) *int64 { return &id }

func TestOwnerBasedAuthorizer(t *testing.T) {
	ctx := context.Background()
	authz := NewOwnerBasedAuthorizer()

	owned := &gallery.FileRecord{ID: 1, Name: "a.jpg", OwnerID: ownedBy(7)}
	ownerless := &gallery.FileRecord{ID: 2, Name: "b.jpg"}

	member := &models.Caller{MemberID: 7}
	stranger := &models.Caller{MemberID: 8}
	editor := &models.Caller{MemberID: 9, Roles: []string{models.RoleEditor}}
	admin := &models.Caller{MemberID: 10, Roles: []string{models.RoleAdmin}}
	anonymous := &models.Caller{}

	tests := []struct {
		name     string
		record   *gallery.FileRecord
		caller   *models.Caller
		wantView bool
		wantEdit bool
	}{
		{"owner manages own record", owned, member, true, true},
		{"other member only views", owned, stranger, true, false},
		{"editor cannot touch owned record", owned, editor, true, false},
		{"editor manages ownerless record", ownerless, editor, true, true},
		{"plain member cannot touch ownerless record", ownerless, member, true, false},
		{"admin manages everything", owned, admin, true, true},
		{"admin manages ownerless", ownerless, admin, true, true},
		{"anonymous caller sees nothing", owned, anonymous, false, false},
		{"nil caller sees nothing", owned, nil, false, false},
		{"nil record", nil, admin, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authz.CanView(ctx, tt.record, tt.caller); got != tt.wantView {
				t.Errorf("CanView() = %v, want %v", got, tt.wantView)
			}
			if got := authz.CanEdit(ctx, tt.record, tt.caller); got != tt.wantEdit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.wantEdit)
			}
			if got := authz.CanDelete(ctx, tt.record, tt.caller); got != tt.wantEdit {
				t.Errorf("CanDelete() = %v, want %v", got, tt.wantEdit)
			}
		})
	}
}
