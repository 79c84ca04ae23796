package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"assetgallery/internal/auth"
	"assetgallery/internal/config"
	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
	"assetgallery/internal/domain/repositories"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
	"assetgallery/internal/handler"
	"assetgallery/internal/middleware"
	"assetgallery/internal/repository/memory"
	"assetgallery/internal/repository/postgres"
	"assetgallery/internal/server"
	authService "assetgallery/internal/service/auth"
	galleryService "assetgallery/internal/service/gallery"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// galleryBasePath is where the gallery endpoints are mounted
const galleryBasePath = "/api/gallery"

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := config.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"default_path", cfg.DefaultPath,
	)

	// Storage: Postgres when configured, in-memory otherwise
	var (
		store     galleryRepo.RecordStore
		members   galleryRepo.MemberRepository
		txManager repositories.TransactionManager
		checker   handler.ReadinessChecker
	)

	if cfg.DatabaseURL != "" {
		if err := postgres.Migrate(cfg.DatabaseURL, cfg.TablePrefix, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		pool, err := postgres.CreateConnectionPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		store = postgres.NewRecordStore(repoConfig)
		members = postgres.NewMemberRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)
		checker = postgres.NewReadinessChecker(pool)

		logger.Info("database connected", "max_conns", pool.Config().MaxConns)
	} else {
		if !cfg.IsDev() {
			log.Fatalf("DATABASE_URL is required outside dev")
		}
		memStore := memory.NewStore()
		if cfg.DevMemberID > 0 {
			memStore.AddMember(gallery.Member{ID: cfg.DevMemberID, FirstName: "Dev", Surname: "Member"})
		}
		store, members, txManager = memStore, memStore, memStore
		logger.Warn("DATABASE_URL not set: using in-memory store (data is lost on restart)")
	}

	// Authentication: JWKS in prod, fixed caller in dev without JWKS
	var (
		verifier  auth.JWTVerifier
		devCaller *models.Caller
	)
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
	} else if cfg.IsDev() && cfg.DevMemberID > 0 {
		devCaller = &models.Caller{MemberID: cfg.DevMemberID, Roles: []string{models.RoleAdmin}}
		logger.Warn("DEBUG MODE: JWKS_URL not set, every request runs as the dev member",
			"member_id", cfg.DevMemberID)
	}

	// Gallery services
	categories, err := galleryService.NewCategoryRegistry(cfg.CategoriesFile)
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}
	logger.Info("category registry loaded", "categories", categories.Categories())

	svcLogger := logger.With("component", "gallery")
	authorizer := authService.NewOwnerBasedAuthorizer()
	owners := galleryService.NewOwnerCache(members, cfg.OwnerCacheSize, cfg.OwnerCacheTTL)

	resolver := galleryService.NewFolderResolver(store, txManager, cfg.DefaultPath, svcLogger)
	filters := galleryService.NewFilterEngine(
		resolver,
		categories,
		galleryService.NewDayParser(cfg.Timezone),
		galleryService.PageDefaults{Limit: cfg.PageSize, MaxLimit: cfg.MaxPageSize},
		svcLogger,
	)
	projector := galleryService.NewProjector(store, owners, categories, authorizer, cfg.AssetsBaseURL, svcLogger)
	listingService := galleryService.NewListingService(store, filters, projector, authorizer, svcLogger)
	mutationService := galleryService.NewMutationService(store, txManager, authorizer, svcLogger)

	// Handlers
	settings := handler.NewGallerySettings("gallery", galleryBasePath, cfg.PageSize, cfg.BulkActions, cfg.DefaultPath)
	httpLogger := logger.With("component", "http")
	galleryHandler := handler.NewGalleryHandler(listingService, mutationService, settings, httpLogger)
	healthHandler := handler.NewHealthHandler(checker, httpLogger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET "+galleryBasePath+"/fetch", galleryHandler.Fetch)
	mux.HandleFunc("GET "+galleryBasePath+"/search", galleryHandler.Search)
	mux.HandleFunc("PUT "+galleryBasePath+"/update", galleryHandler.Update)
	mux.HandleFunc("DELETE "+galleryBasePath+"/delete", galleryHandler.Delete)
	mux.HandleFunc("GET "+galleryBasePath+"/settings", galleryHandler.Settings)

	// CORS must be outermost so OPTIONS pre-flight requests skip auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	// Order: CORS → RequestID → Logger → Metrics → Recovery → Auth → Routes
	h := middleware.Chain(mux,
		corsHandler.Handler,
		middleware.RequestID(),
		middleware.RequestLogger(httpLogger),
		middleware.Metrics(),
		middleware.Recovery(logger),
		server.ExceptPaths(middleware.Authenticate(verifier, devCaller, logger), "/health", "/metrics"),
	)

	srv := server.New(cfg, logger, h)
	if err := srv.Run(); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
	}
}
