package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
)

const recordColumns = `id, parent_id, is_folder, name, title, size_bytes, owner_id,
	width, height, created_at, last_updated_at`

// Listing order. COLLATE "C" keeps name order byte-wise and independent of
// the database locale.
const recordOrder = `ORDER BY is_folder DESC, name COLLATE "C" ASC, id ASC`

// PostgresRecordStore implements RecordStore using PostgreSQL
type PostgresRecordStore struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRecordStore creates a new record store
func NewRecordStore(config *RepositoryConfig) galleryRepo.RecordStore {
	return &PostgresRecordStore{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Query returns the matching records, sorted and paginated
func (r *PostgresRecordStore) Query(ctx context.Context, criteria *gallery.Criteria) ([]gallery.FileRecord, error) {
	where, args := buildRecordWhere(criteria)

	query := fmt.Sprintf(`SELECT %s FROM %s %s %s`, recordColumns, r.tables.Files, where, recordOrder)
	if criteria.Paginated() {
		args = append(args, criteria.Limit, criteria.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	} else if criteria.Offset > 0 {
		args = append(args, criteria.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]gallery.FileRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// CountMatching counts every match of criteria ignoring the page window
func (r *PostgresRecordStore) CountMatching(ctx context.Context, criteria *gallery.Criteria) (int, error) {
	where, args := buildRecordWhere(criteria)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Files, where)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// FindByID retrieves a record
func (r *PostgresRecordStore) FindByID(ctx context.Context, id int64) (*gallery.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, recordColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	record, err := scanRecord(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// Write persists name, title and last_updated_at
func (r *PostgresRecordStore) Write(ctx context.Context, record *gallery.FileRecord) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, title = $2, last_updated_at = $3
		WHERE id = $4
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, record.Name, record.Title, record.LastUpdatedAt, record.ID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%q already exists in this folder", record.Name),
				ResourceType: "file",
				ResourceID:   record.ID,
			}
		}
		return fmt.Errorf("update record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("record %d: %w", record.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a record; the parent_id foreign key cascades to descendants
func (r *PostgresRecordStore) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// HasChildren reports whether any record lives in the folder
func (r *PostgresRecordStore) HasChildren(ctx context.Context, folderID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE parent_id = $1)`, r.tables.Files)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, folderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check children: %w", err)
	}
	return exists, nil
}

// FindOrCreateFolder returns the record called name under parentID, inserting
// a folder when none exists. The unique (parent_key, name) index turns a
// concurrent insert into a no-op, after which the select sees the winner.
func (r *PostgresRecordStore) FindOrCreateFolder(ctx context.Context, parentID *int64, name string) (*gallery.FileRecord, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (parent_id, is_folder, name, title)
		VALUES ($1, TRUE, $2, $2)
		ON CONFLICT (parent_key, name) DO NOTHING
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, insert, parentID, name); err != nil {
		if IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("parent folder %v: %w", parentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("create folder: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE parent_key = COALESCE($1::bigint, 0) AND name = $2
	`, recordColumns, r.tables.Files)

	record, err := scanRecord(executor.QueryRow(ctx, query, parentID, name))
	if err != nil {
		return nil, fmt.Errorf("get folder '%s': %w", name, err)
	}
	return record, nil
}

// GetPath walks up the parent chain with a recursive CTE
func (r *PostgresRecordStore) GetPath(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE record_path AS (
			SELECT id, name, parent_id, name::text AS path
			FROM %s
			WHERE id = $1
			UNION ALL
			SELECT f.id, f.name, f.parent_id, f.name || '/' || rp.path
			FROM %s f
			JOIN record_path rp ON f.id = rp.parent_id
		)
		SELECT path FROM record_path WHERE parent_id IS NULL
	`, r.tables.Files, r.tables.Files)

	var path string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&path); err != nil {
		if IsPgNoRowsError(err) {
			return "", fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get record path: %w", err)
	}
	return path, nil
}

// Insert adds a record and fills in its id and timestamps. Used by seeding.
func (r *PostgresRecordStore) Insert(ctx context.Context, record *gallery.FileRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (parent_id, is_folder, name, title, size_bytes, owner_id, width, height, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($9, now()))
		RETURNING id, created_at, last_updated_at
	`, r.tables.Files)

	var createdAt any
	if !record.CreatedAt.IsZero() {
		createdAt = record.CreatedAt
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		record.ParentID,
		record.IsFolder,
		record.Name,
		record.Title,
		record.SizeBytes,
		record.OwnerID,
		record.Width,
		record.Height,
		createdAt,
	).Scan(&record.ID, &record.CreatedAt, &record.LastUpdatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%q already exists in this folder", record.Name),
				ResourceType: "file",
			}
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// buildRecordWhere renders the criteria filters as a WHERE clause with
// numbered placeholders. Query and CountMatching share it so both see the
// same set.
func buildRecordWhere(c *gallery.Criteria) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch c.Scope {
	case gallery.ScopeTopLevel:
		conditions = append(conditions, "parent_id IS NULL")
	case gallery.ScopeParent:
		conditions = append(conditions, "parent_id = "+next(c.ParentID))
	}

	if c.NameContains != "" {
		p := next("%" + escapeLike(c.NameContains) + "%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE %s OR title ILIKE %s)", p, p))
	}

	if c.CreatedFrom != nil {
		conditions = append(conditions, "created_at >= "+next(*c.CreatedFrom))
	}
	if c.CreatedTo != nil {
		conditions = append(conditions, "created_at <= "+next(*c.CreatedTo))
	}

	if c.Extensions != nil {
		patterns := make([]string, len(c.Extensions))
		for i, ext := range c.Extensions {
			patterns[i] = "%." + escapeLike(strings.ToLower(ext)) + "%"
		}
		conditions = append(conditions, fmt.Sprintf("lower(name) LIKE ANY (%s::text[])", next(patterns)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanRecord(row pgx.Row) (*gallery.FileRecord, error) {
	var record gallery.FileRecord
	err := row.Scan(
		&record.ID,
		&record.ParentID,
		&record.IsFolder,
		&record.Name,
		&record.Title,
		&record.SizeBytes,
		&record.OwnerID,
		&record.Width,
		&record.Height,
		&record.CreatedAt,
		&record.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
