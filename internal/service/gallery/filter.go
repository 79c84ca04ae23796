package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	gallerySvc "assetgallery/internal/domain/services/gallery"
)

// PageDefaults bounds the page window of a search
type PageDefaults struct {
	Limit    int // used when a request leaves limit unset
	MaxLimit int
}

type filterEngine struct {
	resolver   gallerySvc.FolderResolver
	categories gallerySvc.CategoryRegistry
	dates      gallerySvc.DateParser
	paging     PageDefaults
	logger     *slog.Logger
}

// NewFilterEngine creates the engine translating search filters to store queries
func NewFilterEngine(
	resolver gallerySvc.FolderResolver,
	categories gallerySvc.CategoryRegistry,
	dates gallerySvc.DateParser,
	paging PageDefaults,
	logger *slog.Logger,
) gallerySvc.FilterEngine {
	return &filterEngine{
		resolver:   resolver,
		categories: categories,
		dates:      dates,
		paging:     paging,
		logger:     logger,
	}
}

// BuildQuery decides the scope of a search and layers the content filters on top.
//
// Without content filters, or when the caller pinned the search to a folder,
// only the direct children of the (given or default) folder are listed. Any
// other search runs over the whole hierarchy.
func (e *filterEngine) BuildQuery(ctx context.Context, filters *gallery.SearchFilters) (*gallery.QuerySpec, error) {
	f := normalizeFilters(filters, e.paging.Limit)
	if err := validateFilters(&f, e.paging.MaxLimit); err != nil {
		return nil, err
	}

	spec := &gallery.QuerySpec{}
	criteria := &spec.Criteria

	if !f.HasContentFilters() || f.ScopedToFolder() {
		folder, err := e.resolver.Resolve(ctx, f.Folder)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve folder: %w", err)
		}

		if folder == nil {
			criteria.Scope = gallery.ScopeTopLevel
		} else {
			spec.Folder = folder
			criteria.Scope = gallery.ScopeParent
			criteria.ParentID = folder.ID

			hasChildren, err := e.resolver.HasChildren(ctx, folder.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check folder contents: %w", err)
			}
			spec.Empty = !hasChildren
		}
	} else {
		criteria.Scope = gallery.ScopeAll
	}

	criteria.NameContains = f.Name

	if f.CreatedFrom != "" {
		from, err := e.dates.Parse(f.CreatedFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: createdFrom: %v", domain.ErrValidation, err)
		}
		from = StartOfDay(from)
		criteria.CreatedFrom = &from
	}

	if f.CreatedTo != "" {
		to, err := e.dates.Parse(f.CreatedTo)
		if err != nil {
			return nil, fmt.Errorf("%w: createdTo: %v", domain.ErrValidation, err)
		}
		to = EndOfDay(to)
		criteria.CreatedTo = &to
	}

	if f.Type != "" {
		if exts, ok := e.categories.ExtensionsFor(f.Type); ok {
			criteria.Extensions = exts
		} else {
			e.logger.Debug("ignoring unknown category", "type", f.Type)
		}
	}

	criteria.Limit = f.Limit
	criteria.Offset = pageOffset(f.Page, f.Limit)

	return spec, nil
}

// pageOffset is the row offset of page. Pages beyond the addressable range
// clamp to math.MaxInt and read as empty.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// normalizeFilters trims the request and fills an unset page window
func normalizeFilters(in *gallery.SearchFilters, defaultLimit int) gallery.SearchFilters {
	var f gallery.SearchFilters
	if in != nil {
		f = *in
	}

	f.Name = strings.TrimSpace(f.Name)
	f.Folder = strings.TrimSpace(f.Folder)
	f.Type = strings.TrimSpace(f.Type)
	f.CreatedFrom = strings.TrimSpace(f.CreatedFrom)
	f.CreatedTo = strings.TrimSpace(f.CreatedTo)

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = defaultLimit
	}
	return f
}
