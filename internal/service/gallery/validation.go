package gallery

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"assetgallery/internal/config"
	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	gallerySvc "assetgallery/internal/domain/services/gallery"
)

var noSlashes = regexp.MustCompile(`^[^/\\]*$`)

// validateFilters checks the paging window and field lengths of a search.
// Zero page/limit are filled with defaults before this runs.
func validateFilters(f *gallery.SearchFilters, maxLimit int) error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.Page, validation.Required.Error("page must be a positive number"), validation.Min(1)),
		validation.Field(&f.Limit, validation.Required.Error("limit must be a positive number"), validation.Min(1), validation.Max(maxLimit)),
		validation.Field(&f.Name, validation.Length(0, config.MaxRecordNameLength)),
		validation.Field(&f.Folder, validation.Length(0, config.MaxFolderPathLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateRenameRequest checks a rename before any lookup happens
func validateRenameRequest(req *gallerySvc.RenameRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ID, validation.Required.Error("id is required"), validation.Min(int64(1))),
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.Basename,
			validation.Length(0, config.MaxRecordNameLength),
			validation.Match(noSlashes).Error("basename cannot contain slashes"),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateBulkDeleteRequest bounds the batch size
func validateBulkDeleteRequest(req *gallerySvc.BulkDeleteRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.IDs,
			validation.Required.Error("at least one id is required"),
			validation.Length(1, config.MaxBulkDeleteIDs),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateFolderPath checks a slash-separated folder path without leading or
// trailing slashes. Empty means top level.
func validateFolderPath(path string) error {
	if path == "" {
		return nil
	}

	if len(path) > config.MaxFolderPathLength {
		return fmt.Errorf("folder path exceeds maximum length of %d", config.MaxFolderPathLength)
	}

	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("folder path cannot start or end with '/'")
	}

	if strings.Contains(path, "//") {
		return fmt.Errorf("folder path cannot contain consecutive slashes")
	}

	for _, char := range path {
		if unicode.IsControl(char) || char == '\\' {
			return fmt.Errorf("folder path contains invalid character: %q", char)
		}
	}

	for _, segment := range strings.Split(path, "/") {
		name := strings.TrimSpace(segment)
		if name == "" {
			return fmt.Errorf("folder path contains an empty folder name")
		}
		// Path traversal
		if name == "." || name == ".." {
			return fmt.Errorf("folder path cannot contain '.' or '..' as folder names")
		}
		if len(name) > config.MaxRecordNameLength {
			return fmt.Errorf("folder name '%s' exceeds maximum length of %d", name, config.MaxRecordNameLength)
		}
	}

	return nil
}
