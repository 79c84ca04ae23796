package config

const (
	// DefaultFolderPath is the folder browsed when a request names none.
	DefaultFolderPath = "uploads"

	// DefaultPageSize is the search page size when the request omits limit.
	DefaultPageSize = 10

	// DefaultMaxPageSize caps the limit a caller may request.
	DefaultMaxPageSize = 100

	// MaxRecordNameLength is the maximum length for file and folder basenames.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxRecordNameLength = 255

	// MaxTitleLength is the maximum length for display titles.
	MaxTitleLength = 255

	// MaxFolderPathLength is the maximum length for a folder path like
	// "uploads/2024/holidays". Longer paths indicate overly deep hierarchies.
	MaxFolderPathLength = 500

	// MaxBulkDeleteIDs bounds a single delete batch.
	MaxBulkDeleteIDs = 500
)
