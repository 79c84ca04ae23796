package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	"assetgallery/internal/domain/repositories"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
	gallerySvc "assetgallery/internal/domain/services/gallery"
)

type folderResolver struct {
	store       galleryRepo.RecordStore
	txManager   repositories.TransactionManager
	defaultPath string
	logger      *slog.Logger
}

// NewFolderResolver creates a folder resolver. defaultPath is used when a
// request names no folder; an empty defaultPath means the top level.
func NewFolderResolver(
	store galleryRepo.RecordStore,
	txManager repositories.TransactionManager,
	defaultPath string,
	logger *slog.Logger,
) gallerySvc.FolderResolver {
	return &folderResolver{
		store:       store,
		txManager:   txManager,
		defaultPath: strings.Trim(defaultPath, "/"),
		logger:      logger,
	}
}

// Resolve maps pathOrID to a folder, creating missing folders along the way.
// A numeric value naming an existing folder is taken as its id; anything
// else is a path.
func (r *folderResolver) Resolve(ctx context.Context, pathOrID string) (*gallery.FileRecord, error) {
	value := strings.TrimSpace(pathOrID)
	if value == "" {
		value = r.defaultPath
	}

	if id, err := strconv.ParseInt(value, 10, 64); err == nil && id > 0 {
		record, err := r.store.FindByID(ctx, id)
		switch {
		case err == nil && record.IsFolder:
			return record, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("failed to look up folder %d: %w", id, err)
		}
		// Not a folder id, fall through and treat the digits as a folder name
	}

	return r.resolvePath(ctx, value)
}

func (r *folderResolver) resolvePath(ctx context.Context, folderPath string) (*gallery.FileRecord, error) {
	folderPath = strings.Trim(folderPath, "/")

	// Empty path means top level
	if folderPath == "" {
		return nil, nil
	}

	if err := r.ValidateFolderPath(folderPath); err != nil {
		return nil, &domain.InvalidPathError{Path: folderPath, Message: err.Error()}
	}

	segments := strings.Split(folderPath, "/")

	// Folder creation must not be torn by a client disconnect
	writeCtx := context.WithoutCancel(ctx)

	var result *gallery.FileRecord
	err := r.txManager.ExecTx(writeCtx, func(txCtx context.Context) error {
		var parentID *int64

		for _, segment := range segments {
			segment = strings.TrimSpace(segment)

			record, err := r.store.FindOrCreateFolder(txCtx, parentID, segment)
			if err != nil {
				return fmt.Errorf("failed to create/get folder '%s': %w", segment, err)
			}
			if !record.IsFolder {
				return &domain.InvalidPathError{
					Path:    folderPath,
					Message: fmt.Sprintf("'%s' in %s is a file, not a folder", segment, folderPath),
				}
			}

			parentID = &record.ID
			result = record
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("folder resolved",
		"path", folderPath,
		"folder_id", result.ID,
	)

	return result, nil
}

// HasChildren reports whether a folder contains any record
func (r *folderResolver) HasChildren(ctx context.Context, folderID int64) (bool, error) {
	return r.store.HasChildren(ctx, folderID)
}

// ValidateFolderPath validates a folder path
func (r *folderResolver) ValidateFolderPath(path string) error {
	return validateFolderPath(path)
}
