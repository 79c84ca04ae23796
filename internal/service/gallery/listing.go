package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
	"assetgallery/internal/domain/services"
	gallerySvc "assetgallery/internal/domain/services/gallery"
)

var (
	listingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_listing_requests_total",
		Help: "Listing requests by scope.",
	}, []string{"scope"})
	listingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gallery_listing_duration_seconds",
		Help:    "Duration of listing requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
	listingHiddenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_listing_hidden_records_total",
		Help: "Records dropped from listing pages by the visibility check.",
	})
)

type listingService struct {
	store      galleryRepo.RecordStore
	filters    gallerySvc.FilterEngine
	projector  gallerySvc.Projector
	authorizer services.Authorizer
	logger     *slog.Logger
}

// NewListingService creates the listing service
func NewListingService(
	store galleryRepo.RecordStore,
	filters gallerySvc.FilterEngine,
	projector gallerySvc.Projector,
	authorizer services.Authorizer,
	logger *slog.Logger,
) gallerySvc.ListingService {
	return &listingService{
		store:      store,
		filters:    filters,
		projector:  projector,
		authorizer: authorizer,
		logger:     logger,
	}
}

// List runs a search. Count is taken over every match before paging and
// before visibility; the visibility check runs on the page, so a page may
// hold fewer items than the limit.
func (s *listingService) List(ctx context.Context, caller *models.Caller, filters *gallery.SearchFilters) (*gallery.Listing, error) {
	start := time.Now()

	spec, err := s.filters.BuildQuery(ctx, filters)
	if err != nil {
		return nil, err
	}

	scope := spec.Criteria.Scope.String()
	listingRequestsTotal.WithLabelValues(scope).Inc()
	defer func() {
		listingDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	}()

	if spec.Empty {
		return &gallery.Listing{Items: []gallery.Projection{}, Count: 0}, nil
	}

	count, err := s.store.CountMatching(ctx, &spec.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	records, err := s.store.Query(ctx, &spec.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	items, err := s.projectVisible(ctx, caller, records)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listing served",
		"scope", scope,
		"count", count,
		"page_items", len(items),
		"offset", spec.Criteria.Offset,
		"limit", spec.Criteria.Limit,
	)

	return &gallery.Listing{Items: items, Count: count}, nil
}

// FetchByParent lists every visible direct child of a folder. The count is
// the number of visible children.
func (s *listingService) FetchByParent(ctx context.Context, caller *models.Caller, parentID int64) (*gallery.Listing, error) {
	if parentID <= 0 {
		return nil, &domain.ValidationError{Message: "parent id is required"}
	}

	start := time.Now()
	scope := gallery.ScopeParent.String()
	listingRequestsTotal.WithLabelValues(scope).Inc()
	defer func() {
		listingDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	}()

	records, err := s.store.Query(ctx, &gallery.Criteria{
		Scope:    gallery.ScopeParent,
		ParentID: parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query children of %d: %w", parentID, err)
	}

	items, err := s.projectVisible(ctx, caller, records)
	if err != nil {
		return nil, err
	}

	return &gallery.Listing{Items: items, Count: len(items)}, nil
}

func (s *listingService) projectVisible(ctx context.Context, caller *models.Caller, records []gallery.FileRecord) ([]gallery.Projection, error) {
	visible := make([]gallery.FileRecord, 0, len(records))
	for i := range records {
		if s.authorizer.CanView(ctx, &records[i], caller) {
			visible = append(visible, records[i])
		}
	}
	if hidden := len(records) - len(visible); hidden > 0 {
		listingHiddenTotal.Add(float64(hidden))
	}

	items, err := s.projector.ProjectPage(ctx, caller, visible)
	if err != nil {
		return nil, fmt.Errorf("failed to project records: %w", err)
	}
	return items, nil
}
