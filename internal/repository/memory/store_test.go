package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
)

func ptr(id int64) *int64 { return &id }

func mustInsert(t *testing.T, s *Store, r gallery.FileRecord) *gallery.FileRecord {
	t.Helper()
	out, err := s.Insert(r)
	if err != nil {
		t.Fatalf("Insert(%s) error = %v", r.Name, err)
	}
	return out
}

func names(records []gallery.FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func equalNames(got []gallery.FileRecord, want ...string) bool {
	g := names(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestStore_QueryOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	mustInsert(t, s, gallery.FileRecord{Name: "b.jpg"})
	mustInsert(t, s, gallery.FileRecord{Name: "zeta", IsFolder: true})
	mustInsert(t, s, gallery.FileRecord{Name: "a.png"})
	mustInsert(t, s, gallery.FileRecord{Name: "alpha", IsFolder: true})

	all, err := s.Query(ctx, &gallery.Criteria{Scope: gallery.ScopeTopLevel})
	if err != nil {
		t.Fatal(err)
	}
	if !equalNames(all, "alpha", "zeta", "a.png", "b.jpg") {
		t.Errorf("order = %v, want folders first then by name", names(all))
	}

	page, _ := s.Query(ctx, &gallery.Criteria{Scope: gallery.ScopeTopLevel, Limit: 2, Offset: 2})
	if !equalNames(page, "a.png", "b.jpg") {
		t.Errorf("page 2 = %v", names(page))
	}

	beyond, _ := s.Query(ctx, &gallery.Criteria{Scope: gallery.ScopeTopLevel, Limit: 2, Offset: 10})
	if len(beyond) != 0 {
		t.Errorf("out of range page = %v, want empty", names(beyond))
	}

	count, _ := s.CountMatching(ctx, &gallery.Criteria{Scope: gallery.ScopeTopLevel, Limit: 1})
	if count != 4 {
		t.Errorf("CountMatching() = %d, want 4 regardless of limit", count)
	}
}

func TestStore_QueryFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	day := func(d int) time.Time { return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC) }

	docs := mustInsert(t, s, gallery.FileRecord{Name: "docs", IsFolder: true, CreatedAt: day(1)})
	mustInsert(t, s, gallery.FileRecord{Name: "Report.PDF", Title: "Quarterly", ParentID: &docs.ID, CreatedAt: day(2)})
	mustInsert(t, s, gallery.FileRecord{Name: "photo.jpg", Title: "Report cover", CreatedAt: day(3)})
	mustInsert(t, s, gallery.FileRecord{Name: "notes.txt", CreatedAt: day(4)})
	mustInsert(t, s, gallery.FileRecord{Name: "jpg-notes", CreatedAt: day(5)})

	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name     string
		criteria gallery.Criteria
		want     []string
	}{
		{"name or title, case-insensitive", gallery.Criteria{NameContains: "report"}, []string{"Report.PDF", "photo.jpg"}},
		{"extension set", gallery.Criteria{Extensions: []string{"pdf", "txt"}}, []string{"Report.PDF", "notes.txt"}},
		{"extension must follow a dot", gallery.Criteria{Extensions: []string{"jpg"}}, []string{"photo.jpg"}},
		{"empty extension set matches nothing", gallery.Criteria{Extensions: []string{}}, []string{}},
		{"date window", gallery.Criteria{CreatedFrom: &from, CreatedTo: &to}, []string{"photo.jpg"}},
		{"direct children only", gallery.Criteria{Scope: gallery.ScopeParent, ParentID: docs.ID}, []string{"Report.PDF"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(ctx, &tt.criteria)
			if err != nil {
				t.Fatal(err)
			}
			if !equalNames(got, tt.want...) {
				t.Errorf("Query() = %v, want %v", names(got), tt.want)
			}
		})
	}
}

func TestStore_FindOrCreateFolderIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	ids := make([]int64, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			folder, err := s.FindOrCreateFolder(ctx, nil, "uploads")
			if err != nil {
				t.Errorf("FindOrCreateFolder() error = %v", err)
				return
			}
			ids[i] = folder.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent creates returned different ids: %v", ids)
		}
	}
	if n, _ := s.CountMatching(ctx, &gallery.Criteria{}); n != 1 {
		t.Errorf("records = %d, want 1", n)
	}
}

func TestStore_DeleteCascadesAndNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	root := mustInsert(t, s, gallery.FileRecord{Name: "root", IsFolder: true})
	sub := mustInsert(t, s, gallery.FileRecord{Name: "sub", IsFolder: true, ParentID: &root.ID})
	leaf := mustInsert(t, s, gallery.FileRecord{Name: "leaf.txt", ParentID: &sub.ID})

	if err := s.Delete(ctx, root.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	for _, id := range []int64{root.ID, sub.ID, leaf.ID} {
		if _, err := s.FindByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("FindByID(%d) error = %v, want ErrNotFound", id, err)
		}
	}

	next := mustInsert(t, s, gallery.FileRecord{Name: "root", IsFolder: true})
	if next.ID <= leaf.ID {
		t.Errorf("new id %d reuses a deleted id (max was %d)", next.ID, leaf.ID)
	}

	if err := s.Delete(ctx, root.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStore_WriteRejectsSiblingNameClash(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	mustInsert(t, s, gallery.FileRecord{Name: "a.jpg"})
	b := mustInsert(t, s, gallery.FileRecord{Name: "b.jpg"})

	b.Name = "a.jpg"
	if err := s.Write(ctx, b); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Write() error = %v, want ErrConflict", err)
	}

	b.Name = "c.jpg"
	b.Title = "C"
	if err := s.Write(ctx, b); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, _ := s.FindByID(ctx, b.ID)
	if got.Name != "c.jpg" || got.Title != "C" {
		t.Errorf("after Write got %+v", got)
	}
}

func TestStore_ExecTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := mustInsert(t, s, gallery.FileRecord{Name: "a.jpg"})

	boom := errors.New("boom")
	err := s.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.Delete(txCtx, a.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx() error = %v, want boom", err)
	}
	if _, err := s.FindByID(ctx, a.ID); err != nil {
		t.Errorf("record should survive a rolled back transaction: %v", err)
	}
}

func TestStore_GetPath(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := mustInsert(t, s, gallery.FileRecord{Name: "a", IsFolder: true})
	b := mustInsert(t, s, gallery.FileRecord{Name: "b", IsFolder: true, ParentID: ptr(a.ID)})
	c := mustInsert(t, s, gallery.FileRecord{Name: "c.png", ParentID: ptr(b.ID)})

	got, err := s.GetPath(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a/b/c.png" {
		t.Errorf("GetPath() = %q, want a/b/c.png", got)
	}
}

func TestStore_InsertRequiresFolderParent(t *testing.T) {
	s := NewStore()
	file := mustInsert(t, s, gallery.FileRecord{Name: "a.jpg"})

	if _, err := s.Insert(gallery.FileRecord{Name: "x", ParentID: ptr(file.ID)}); err == nil {
		t.Error("insert under a file should fail")
	}
	if _, err := s.Insert(gallery.FileRecord{Name: "x", ParentID: ptr(999)}); err == nil {
		t.Error("insert under a missing parent should fail")
	}
}
