package gallery

import (
	"path"
	"strings"
	"time"
)

// CategoryFolder is the category (and type) every folder reports.
const CategoryFolder = "folder"

// FileRecord is a single entry of the asset hierarchy. Files and folders share
// one shape and are told apart by IsFolder.
type FileRecord struct {
	ID            int64     `json:"id" db:"id"`
	ParentID      *int64    `json:"parent_id" db:"parent_id"` // NULL = top level
	IsFolder      bool      `json:"is_folder" db:"is_folder"`
	Name          string    `json:"name" db:"name"`   // Basename, unique within its parent
	Title         string    `json:"title" db:"title"` // Display title
	SizeBytes     int64     `json:"size_bytes" db:"size_bytes"`
	OwnerID       *int64    `json:"owner_id" db:"owner_id"`
	Width         *int      `json:"width,omitempty" db:"width"`
	Height        *int      `json:"height,omitempty" db:"height"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at" db:"last_updated_at"`
}

// IsTopLevel reports whether the record has no containing folder.
func (r *FileRecord) IsTopLevel() bool {
	return r.ParentID == nil || *r.ParentID == 0
}

// Extension returns the lower-cased extension without the dot.
// Folders never have an extension.
func (r *FileRecord) Extension() string {
	if r.IsFolder {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(r.Name), "."))
}

// Member is the principal that created a record.
type Member struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	Surname   string `json:"surname" db:"surname"`
	Email     string `json:"email" db:"email"`
}

// DisplayName joins first name and surname.
func (m *Member) DisplayName() string {
	return strings.TrimSpace(m.FirstName + " " + m.Surname)
}
