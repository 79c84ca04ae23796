package gallery

import "time"

// Projection is the caller-facing representation of a FileRecord.
type Projection struct {
	ID          int64      `json:"id"`
	Created     time.Time  `json:"created"`
	LastUpdated time.Time  `json:"lastUpdated"`
	Owner       *OwnerRef  `json:"owner"`
	Parent      *ParentRef `json:"parent"`
	Attributes  Attributes `json:"attributes"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Basename    string     `json:"basename"`
	Filename    string     `json:"filename"`
	Extension   string     `json:"extension"`
	Size        int64      `json:"size"`
	URL         string     `json:"url"`
	CanEdit     bool       `json:"canEdit"`
	CanDelete   bool       `json:"canDelete"`
}

// OwnerRef identifies the member that owns a record
type OwnerRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ParentRef identifies the folder containing a record
type ParentRef struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// Attributes holds category-dependent extras
type Attributes struct {
	Dimensions Dimensions `json:"dimensions"`
}

// Dimensions is only filled for categories that support width/height
type Dimensions struct {
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

// Listing is a page of projected records plus the pre-pagination match count.
type Listing struct {
	Items []Projection `json:"files"`
	Count int          `json:"count"`
}
