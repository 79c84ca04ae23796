package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
	"assetgallery/internal/domain/repositories"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
	"assetgallery/internal/domain/services"
	gallerySvc "assetgallery/internal/domain/services/gallery"
)

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gallery_mutations_total",
	Help: "Rename and delete requests by outcome.",
}, []string{"operation", "outcome"})

type mutationService struct {
	store      galleryRepo.RecordStore
	txManager  repositories.TransactionManager
	authorizer services.Authorizer
	now        func() time.Time
	logger     *slog.Logger
}

// NewMutationService creates the rename/delete service
func NewMutationService(
	store galleryRepo.RecordStore,
	txManager repositories.TransactionManager,
	authorizer services.Authorizer,
	logger *slog.Logger,
) gallerySvc.MutationService {
	return &mutationService{
		store:      store,
		txManager:  txManager,
		authorizer: authorizer,
		now:        time.Now,
		logger:     logger,
	}
}

// Rename applies the non-empty title and basename of req. A request that
// changes nothing succeeds without writing.
func (s *mutationService) Rename(ctx context.Context, caller *models.Caller, req *gallerySvc.RenameRequest) (err error) {
	defer func() { mutationsTotal.WithLabelValues("rename", outcome(err)).Inc() }()

	req.Title = sanitizeTitle(req.Title)
	req.Basename = strings.TrimSpace(req.Basename)
	if err := validateRenameRequest(req); err != nil {
		return err
	}

	record, err := s.store.FindByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if !s.authorizer.CanEdit(ctx, record, caller) {
		return &domain.ForbiddenError{Message: fmt.Sprintf("cannot edit record %d", record.ID)}
	}

	changed := false
	if req.Title != "" && req.Title != record.Title {
		record.Title = req.Title
		changed = true
	}
	if req.Basename != "" && req.Basename != record.Name {
		record.Name = req.Basename
		changed = true
	}
	if !changed {
		return nil
	}

	record.LastUpdatedAt = s.now()

	// A started write must not be torn by a client disconnect
	if err := s.store.Write(context.WithoutCancel(ctx), record); err != nil {
		return fmt.Errorf("failed to update record %d: %w", record.ID, err)
	}

	s.logger.Info("record renamed",
		"id", record.ID,
		"name", record.Name,
		"title", record.Title,
		"member_id", callerID(caller),
	)
	return nil
}

// BulkDelete deletes every id that resolves to a record. Nothing is deleted
// unless the caller may delete all of them.
func (s *mutationService) BulkDelete(ctx context.Context, caller *models.Caller, req *gallerySvc.BulkDeleteRequest) (err error) {
	defer func() { mutationsTotal.WithLabelValues("delete", outcome(err)).Inc() }()

	if err := validateBulkDeleteRequest(req); err != nil {
		return err
	}

	records := make([]*gallery.FileRecord, 0, len(req.IDs))
	seen := make(map[int64]bool, len(req.IDs))
	for _, id := range req.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		record, err := s.store.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load record %d: %w", id, err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return &domain.NotFoundError{Message: "could not find the file"}
	}

	for _, record := range records {
		if !s.authorizer.CanDelete(ctx, record, caller) {
			return &domain.ForbiddenError{Message: fmt.Sprintf("cannot delete record %d", record.ID)}
		}
	}

	err = s.txManager.ExecTx(context.WithoutCancel(ctx), func(txCtx context.Context) error {
		for _, record := range records {
			err := s.store.Delete(txCtx, record.ID)
			// Already removed with a folder deleted earlier in this batch
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to delete record %d: %w", record.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("records deleted",
		"count", len(records),
		"member_id", callerID(caller),
	)
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func callerID(caller *models.Caller) int64 {
	if caller == nil {
		return 0
	}
	return caller.MemberID
}
