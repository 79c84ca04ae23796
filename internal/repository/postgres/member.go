package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
)

// PostgresMemberRepository implements MemberRepository using PostgreSQL
type PostgresMemberRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(config *RepositoryConfig) galleryRepo.MemberRepository {
	return &PostgresMemberRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a member
func (r *PostgresMemberRepository) GetByID(ctx context.Context, id int64) (*gallery.Member, error) {
	query := fmt.Sprintf(`
		SELECT id, first_name, surname, email
		FROM %s
		WHERE id = $1
	`, r.tables.Members)

	var member gallery.Member
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.FirstName,
		&member.Surname,
		&member.Email,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("member %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	return &member, nil
}

// Create inserts a member and fills in its id. Used by seeding.
func (r *PostgresMemberRepository) Create(ctx context.Context, member *gallery.Member) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (first_name, surname, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, r.tables.Members)

	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, member.FirstName, member.Surname, member.Email).Scan(&member.ID); err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("member %q already exists", member.Email),
				ResourceType: "member",
			}
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}
