package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
	"assetgallery/internal/domain/services"
	gallerySvc "assetgallery/internal/domain/services/gallery"
)

// categoryOther is reported for files whose extension maps to no category
const categoryOther = "other"

type projector struct {
	store         galleryRepo.RecordStore
	members       galleryRepo.MemberRepository
	categories    gallerySvc.CategoryRegistry
	authorizer    services.Authorizer
	assetsBaseURL string
	logger        *slog.Logger
}

// NewProjector creates the record projector. assetsBaseURL prefixes the
// path of every file to form its absolute URL.
func NewProjector(
	store galleryRepo.RecordStore,
	members galleryRepo.MemberRepository,
	categories gallerySvc.CategoryRegistry,
	authorizer services.Authorizer,
	assetsBaseURL string,
	logger *slog.Logger,
) gallerySvc.Projector {
	return &projector{
		store:         store,
		members:       members,
		categories:    categories,
		authorizer:    authorizer,
		assetsBaseURL: strings.TrimRight(assetsBaseURL, "/"),
		logger:        logger,
	}
}

// parentInfo is the resolved containing folder of a record
type parentInfo struct {
	ref  *gallery.ParentRef
	path string
}

// parentMemo caches parent lookups for the duration of one page
type parentMemo map[int64]*parentInfo

// Project maps one record
func (p *projector) Project(ctx context.Context, caller *models.Caller, record *gallery.FileRecord) (*gallery.Projection, error) {
	return p.project(ctx, caller, record, parentMemo{})
}

// ProjectPage maps records in order
func (p *projector) ProjectPage(ctx context.Context, caller *models.Caller, records []gallery.FileRecord) ([]gallery.Projection, error) {
	memo := parentMemo{}
	out := make([]gallery.Projection, 0, len(records))
	for i := range records {
		proj, err := p.project(ctx, caller, &records[i], memo)
		if err != nil {
			return nil, err
		}
		out = append(out, *proj)
	}
	return out, nil
}

func (p *projector) project(ctx context.Context, caller *models.Caller, record *gallery.FileRecord, memo parentMemo) (*gallery.Projection, error) {
	proj := &gallery.Projection{
		ID:          record.ID,
		Created:     record.CreatedAt,
		LastUpdated: record.LastUpdatedAt,
		Title:       displayTitle(record),
		Basename:    record.Name,
		Extension:   record.Extension(),
		Size:        record.SizeBytes,
		CanEdit:     p.authorizer.CanEdit(ctx, record, caller),
		CanDelete:   p.authorizer.CanDelete(ctx, record, caller),
	}

	if record.IsFolder {
		proj.Type = gallery.CategoryFolder
		proj.Category = gallery.CategoryFolder
	} else {
		proj.Type = p.categories.FileTypeFor(proj.Extension)
		proj.Category = p.categories.CategoryFor(proj.Extension)
		if proj.Category == "" {
			proj.Category = categoryOther
		}
		if p.categories.SupportsDimensions(proj.Category) {
			proj.Attributes.Dimensions = gallery.Dimensions{Width: record.Width, Height: record.Height}
		}
	}

	proj.Filename = record.Name
	if !record.IsTopLevel() {
		parent, err := p.parent(ctx, *record.ParentID, memo)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			proj.Parent = parent.ref
			proj.Filename = parent.path + "/" + record.Name
		}
	}

	if !record.IsFolder {
		proj.URL = p.assetURL(proj.Filename)
	}

	if record.OwnerID != nil {
		proj.Owner = p.owner(ctx, *record.OwnerID)
	}

	return proj, nil
}

// parent resolves a containing folder. A parent deleted between the listing
// query and projection yields nil.
func (p *projector) parent(ctx context.Context, parentID int64, memo parentMemo) (*parentInfo, error) {
	if info, ok := memo[parentID]; ok {
		return info, nil
	}

	folder, err := p.store.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			memo[parentID] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load parent %d: %w", parentID, err)
	}

	folderPath, err := p.store.GetPath(ctx, parentID)
	if err != nil {
		p.logger.Warn("failed to compute path", "folder_id", parentID, "error", err)
		folderPath = folder.Name
	}

	info := &parentInfo{
		ref: &gallery.ParentRef{
			ID:       folder.ID,
			Title:    displayTitle(folder),
			Filename: folderPath,
		},
		path: folderPath,
	}
	memo[parentID] = info
	return info, nil
}

// owner returns the owner reference; an unknown owner projects as null
func (p *projector) owner(ctx context.Context, ownerID int64) *gallery.OwnerRef {
	member, err := p.members.GetByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.Warn("failed to load owner", "owner_id", ownerID, "error", err)
		}
		return nil
	}
	return &gallery.OwnerRef{ID: member.ID, Title: member.DisplayName()}
}

func (p *projector) assetURL(filename string) string {
	segments := strings.Split(filename, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return p.assetsBaseURL + "/" + strings.Join(segments, "/")
}

// displayTitle falls back to the name for untitled records
func displayTitle(record *gallery.FileRecord) string {
	if record.Title != "" {
		return record.Title
	}
	return record.Name
}
