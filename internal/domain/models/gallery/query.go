package gallery

import "time"

// Scope selects which part of the hierarchy a query runs against.
type Scope int

const (
	// ScopeAll searches the whole hierarchy, recursively
	ScopeAll Scope = iota
	// ScopeTopLevel lists records without a parent
	ScopeTopLevel
	// ScopeParent lists the direct children of Criteria.ParentID
	ScopeParent
)

// String implements fmt.Stringer for logging
func (s Scope) String() string {
	switch s {
	case ScopeTopLevel:
		return "top_level"
	case ScopeParent:
		return "parent"
	default:
		return "all"
	}
}

// Criteria is the store-level query. Stores always order results with
// folders first, then by name ascending.
type Criteria struct {
	Scope    Scope
	ParentID int64 // Used when Scope == ScopeParent

	// NameContains matches name OR title, case-insensitively
	NameContains string

	// CreatedFrom and CreatedTo are inclusive bounds
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// Extensions restricts results to names containing any of ".<ext>".
	// nil means no category filter.
	Extensions []string

	// Pagination; Limit 0 means unlimited
	Limit  int
	Offset int
}

// Paginated reports whether the criteria carries a page window.
func (c *Criteria) Paginated() bool {
	return c.Limit > 0
}

// QuerySpec is the outcome of translating search filters.
type QuerySpec struct {
	Criteria Criteria

	// Empty marks a result set known to be empty without asking the store
	// (a scoped folder that has no children).
	Empty bool

	// Folder is the resolved scoping folder, nil at top level or when unscoped
	Folder *FileRecord
}

// SearchFilters are the request-level listing options.
type SearchFilters struct {
	Name               string `json:"name"`
	Folder             string `json:"folder"`
	Type               string `json:"type"`
	CreatedFrom        string `json:"createdFrom"`
	CreatedTo          string `json:"createdTo"`
	OnlySearchInFolder bool   `json:"onlySearchInFolder"`
	Page               int    `json:"page"`
	Limit              int    `json:"limit"`
}

// HasContentFilters reports whether any of name, type or date bounds is set.
func (f *SearchFilters) HasContentFilters() bool {
	return f.Name != "" || f.Type != "" || f.CreatedFrom != "" || f.CreatedTo != ""
}

// ScopedToFolder reports whether the caller explicitly restricted the
// search to the direct children of Folder.
func (f *SearchFilters) ScopedToFolder() bool {
	return f.Folder != "" && f.OnlySearchInFolder
}
