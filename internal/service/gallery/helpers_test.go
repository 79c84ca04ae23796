package gallery

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"assetgallery/internal/domain/models"
	"assetgallery/internal/domain/models/gallery"
	"assetgallery/internal/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAuthorizer decides permissions with optional hooks; unset hooks allow
type mockAuthorizer struct {
	canViewFn   func(record *gallery.FileRecord) bool
	canEditFn   func(record *gallery.FileRecord) bool
	canDeleteFn func(record *gallery.FileRecord) bool
}

func (m *mockAuthorizer) CanView(_ context.Context, record *gallery.FileRecord, _ *models.Caller) bool {
	return m.canViewFn == nil || m.canViewFn(record)
}

func (m *mockAuthorizer) CanEdit(_ context.Context, record *gallery.FileRecord, _ *models.Caller) bool {
	return m.canEditFn == nil || m.canEditFn(record)
}

func (m *mockAuthorizer) CanDelete(_ context.Context, record *gallery.FileRecord, _ *models.Caller) bool {
	return m.canDeleteFn == nil || m.canDeleteFn(record)
}

// testEnv wires the gallery services over an in-memory store
type testEnv struct {
	store      *memory.Store
	authorizer *mockAuthorizer
	categories *CategoryRegistry
	resolver   *folderResolver
	filters    *filterEngine
	projector  *projector
	listing    *listingService
	mutations  *mutationService
	caller     *models.Caller
}

func newTestEnv(t *testing.T, defaultPath string) *testEnv {
	t.Helper()

	categories, err := NewCategoryRegistry("")
	if err != nil {
		t.Fatalf("NewCategoryRegistry() error = %v", err)
	}

	logger := discardLogger()
	store := memory.NewStore()
	authz := &mockAuthorizer{}

	resolver := NewFolderResolver(store, store, defaultPath, logger).(*folderResolver)
	filters := NewFilterEngine(resolver, categories, NewDayParser(time.UTC),
		PageDefaults{Limit: 10, MaxLimit: 100}, logger).(*filterEngine)
	proj := NewProjector(store, store, categories, authz, "https://cdn.example.com/assets/", logger).(*projector)
	listing := NewListingService(store, filters, proj, authz, logger).(*listingService)
	mutations := NewMutationService(store, store, authz, logger).(*mutationService)

	return &testEnv{
		store:      store,
		authorizer: authz,
		categories: categories,
		resolver:   resolver,
		filters:    filters,
		projector:  proj,
		listing:    listing,
		mutations:  mutations,
		caller:     &models.Caller{MemberID: 1},
	}
}

func (e *testEnv) insert(t *testing.T, r gallery.FileRecord) *gallery.FileRecord {
	t.Helper()
	out, err := e.store.Insert(r)
	if err != nil {
		t.Fatalf("Insert(%s) error = %v", r.Name, err)
	}
	return out
}

func (e *testEnv) folder(t *testing.T, parent *gallery.FileRecord, name string) *gallery.FileRecord {
	t.Helper()
	r := gallery.FileRecord{Name: name, Title: name, IsFolder: true}
	if parent != nil {
		r.ParentID = &parent.ID
	}
	return e.insert(t, r)
}

func (e *testEnv) file(t *testing.T, parent *gallery.FileRecord, name string, created time.Time) *gallery.FileRecord {
	t.Helper()
	r := gallery.FileRecord{Name: name, Title: name, CreatedAt: created, SizeBytes: 1024}
	if parent != nil {
		r.ParentID = &parent.ID
	}
	return e.insert(t, r)
}

func basenames(items []gallery.Projection) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Basename
	}
	return out
}

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 10, 0, 0, 0, time.UTC)
}
