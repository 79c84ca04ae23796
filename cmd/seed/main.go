package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path"
	"time"

	"assetgallery/internal/config"
	"assetgallery/internal/domain/models/gallery"
	gallerySvc "assetgallery/internal/domain/services/gallery"
	"assetgallery/internal/repository/postgres"
	galleryService "assetgallery/internal/service/gallery"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed records")
	clearData := flag.Bool("clear-data", false, "Clear all files, folders and members (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required for seeding")
	}

	logger, closeLog, err := config.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	switch {
	case *clearData:
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.MigrateDown(cfg.DatabaseURL, cfg.TablePrefix, logger); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.Migrate(cfg.DatabaseURL, cfg.TablePrefix, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *clearData {
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	store := postgres.NewRecordStore(repoConfig).(*postgres.PostgresRecordStore)
	members := postgres.NewMemberRepository(repoConfig).(*postgres.PostgresMemberRepository)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Folders are created the same way the gallery creates them on demand
	resolver := galleryService.NewFolderResolver(store, txManager, "", logger)

	log.Println("⚠️  Clearing existing records...")
	if err := clearAllData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("👤 Seeding members...")
	seeded := make(map[string]int64)
	for _, m := range seedMembers() {
		member := m
		if err := members.Create(ctx, &member); err != nil {
			log.Fatalf("Failed to create member %s: %v", member.Email, err)
		}
		seeded[member.Email] = member.ID
		log.Printf("✅ Created member %s (ID: %d)", member.DisplayName(), member.ID)
	}

	log.Println("📁 Seeding files with folder structure...")
	files := seedFiles()
	for i, f := range files {
		record, err := seedFile(ctx, store, resolver, f, seeded)
		if err != nil {
			log.Printf("❌ Failed to create file '%s': %v", f.path, err)
			continue
		}
		log.Printf("✅ Created file %d/%d: %s (ID: %d)", i+1, len(files), f.path, record.ID)
	}

	log.Println("🎉 Seeding complete!")
}

type seedEntry struct {
	path   string
	title  string
	size   int64
	owner  string // member email, empty for ownerless
	width  int
	height int
	age    time.Duration
}

func seedMembers() []gallery.Member {
	return []gallery.Member{
		{FirstName: "Ada", Surname: "Lovelace", Email: "ada@example.com"},
		{FirstName: "Grace", Surname: "Hopper", Email: "grace@example.com"},
	}
}

func seedFiles() []seedEntry {
	day := 24 * time.Hour
	return []seedEntry{
		{path: "uploads/photos/beach.jpg", title: "Beach at dawn", size: 482_113, owner: "ada@example.com", width: 1920, height: 1080, age: 30 * day},
		{path: "uploads/photos/mountains.png", title: "Mountains", size: 1_204_551, owner: "ada@example.com", width: 2560, height: 1440, age: 21 * day},
		{path: "uploads/photos/2024/team.webp", title: "Team photo", size: 301_022, owner: "grace@example.com", width: 1600, height: 900, age: 14 * day},
		{path: "uploads/documents/annual-report.pdf", title: "Annual report", size: 2_488_005, owner: "grace@example.com", age: 10 * day},
		{path: "uploads/documents/notes.txt", title: "Meeting notes", size: 4_096, owner: "ada@example.com", age: 7 * day},
		{path: "uploads/media/intro.mp4", title: "Intro video", size: 18_022_311, age: 5 * day},
		{path: "uploads/media/theme.mp3", title: "Theme", size: 3_120_400, owner: "grace@example.com", age: 3 * day},
		{path: "uploads/logo.svg", title: "Logo", size: 8_812, width: 512, height: 512, age: 2 * day},
		{path: "uploads/backup.zip", title: "Backup", size: 52_331_008, owner: "ada@example.com", age: day},
		{path: "readme.md", title: "Read me", size: 1_024, age: 0},
	}
}

// seedFile creates the parent folders of entry and then the file itself
func seedFile(
	ctx context.Context,
	store *postgres.PostgresRecordStore,
	resolver gallerySvc.FolderResolver,
	entry seedEntry,
	owners map[string]int64,
) (*gallery.FileRecord, error) {
	dir, name := path.Split(entry.path)

	record := &gallery.FileRecord{
		Name:      name,
		Title:     entry.title,
		SizeBytes: entry.size,
		CreatedAt: time.Now().Add(-entry.age),
	}

	if dir != "" {
		parent, err := resolver.Resolve(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("resolve folder %s: %w", dir, err)
		}
		if parent != nil {
			record.ParentID = &parent.ID
		}
	}

	if id, ok := owners[entry.owner]; ok {
		record.OwnerID = &id
	}
	if entry.width > 0 {
		record.Width = &entry.width
		record.Height = &entry.height
	}

	if err := store.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// clearAllData removes every record and member, keeping the schema
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	query := fmt.Sprintf("TRUNCATE %s, %s RESTART IDENTITY CASCADE", tables.Files, tables.Members)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
