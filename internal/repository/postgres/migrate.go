package postgres

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// prefixPlaceholder is replaced with the table prefix in every migration
const prefixPlaceholder = "${prefix}"

// Migrate applies every pending migration for the given table prefix
func Migrate(databaseURL, prefix string, logger *slog.Logger) error {
	m, err := newMigrator(databaseURL, prefix)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied",
		"prefix", prefix,
		"version", version,
		"dirty", dirty,
	)
	return nil
}

// MigrateDown reverts every migration, dropping the gallery tables
func MigrateDown(databaseURL, prefix string, logger *slog.Logger) error {
	m, err := newMigrator(databaseURL, prefix)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("revert migrations: %w", err)
	}

	logger.Info("migrations reverted", "prefix", prefix)
	return nil
}

func newMigrator(databaseURL, prefix string) (*migrate.Migrate, error) {
	files, err := renderMigrations(prefix)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	dbURL, err := migrationURL(databaseURL, prefix)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return m, nil
}

// renderMigrations substitutes the table prefix into the embedded SQL
func renderMigrations(prefix string) (fs.FS, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	rendered := fstest.MapFS{}
	for _, entry := range entries {
		name := path.Join("migrations", entry.Name())
		data, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		sql := strings.ReplaceAll(string(data), prefixPlaceholder, prefix)
		rendered[name] = &fstest.MapFile{Data: []byte(sql), Mode: 0444}
	}
	return rendered, nil
}

// migrationURL rewrites a postgres DSN for the pgx5 migrate driver and keeps
// a separate version table per prefix
func migrationURL(databaseURL, prefix string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set("x-migrations-table", prefix+"schema_migrations")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
