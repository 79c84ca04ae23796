package gallery

import (
	"context"
	"testing"

	"assetgallery/internal/domain/models/gallery"
)

func intPtr(v int) *int { return &v }

func TestProjector_Project(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "uploads")
	env.store.AddMember(gallery.Member{ID: 5, FirstName: "Grace", Surname: "Hopper"})

	up := env.folder(t, nil, "uploads")
	sub := env.insert(t, gallery.FileRecord{Name: "2024", IsFolder: true, ParentID: &up.ID})
	owner := int64(5)
	photo := env.insert(t, gallery.FileRecord{
		Name: "My Photo.JPG", Title: "Holiday", ParentID: &sub.ID, OwnerID: &owner,
		SizeBytes: 2048, Width: intPtr(640), Height: intPtr(480), CreatedAt: day(1),
	})
	doc := env.insert(t, gallery.FileRecord{
		Name: "report.pdf", ParentID: &up.ID, Width: intPtr(1), Height: intPtr(1), CreatedAt: day(2),
	})
	blob := env.insert(t, gallery.FileRecord{Name: "data.xyz", CreatedAt: day(3)})
	ghost := int64(77)
	orphanOwner := env.insert(t, gallery.FileRecord{Name: "o.png", OwnerID: &ghost, CreatedAt: day(3)})

	t.Run("image with owner and parent", func(t *testing.T) {
		p, err := env.projector.Project(ctx, env.caller, photo)
		if err != nil {
			t.Fatal(err)
		}
		if p.Type != "JPEG image - good for photos" || p.Category != "image" || p.Extension != "jpg" {
			t.Errorf("type/category/extension = %q/%q/%q", p.Type, p.Category, p.Extension)
		}
		if p.Filename != "uploads/2024/My Photo.JPG" {
			t.Errorf("filename = %q", p.Filename)
		}
		if p.URL != "https://cdn.example.com/assets/uploads/2024/My%20Photo.JPG" {
			t.Errorf("url = %q", p.URL)
		}
		if p.Owner == nil || p.Owner.ID != 5 || p.Owner.Title != "Grace Hopper" {
			t.Errorf("owner = %+v", p.Owner)
		}
		if p.Parent == nil || p.Parent.ID != sub.ID || p.Parent.Title != "2024" || p.Parent.Filename != "uploads/2024" {
			t.Errorf("parent = %+v", p.Parent)
		}
		if d := p.Attributes.Dimensions; d.Width == nil || *d.Width != 640 || *d.Height != 480 {
			t.Errorf("dimensions = %+v", d)
		}
		if p.Title != "Holiday" || p.Basename != "My Photo.JPG" || p.Size != 2048 {
			t.Errorf("title/basename/size = %q/%q/%d", p.Title, p.Basename, p.Size)
		}
		if !p.CanEdit || !p.CanDelete {
			t.Error("permissions should come from the authorizer")
		}
	})

	t.Run("non-image has no dimensions", func(t *testing.T) {
		p, _ := env.projector.Project(ctx, env.caller, doc)
		if p.Attributes.Dimensions.Width != nil || p.Attributes.Dimensions.Height != nil {
			t.Errorf("dimensions = %+v, want none for documents", p.Attributes.Dimensions)
		}
		if p.Title != "report.pdf" {
			t.Errorf("untitled record title = %q, want the name", p.Title)
		}
	})

	t.Run("folder", func(t *testing.T) {
		p, _ := env.projector.Project(ctx, env.caller, sub)
		if p.Type != "folder" || p.Category != "folder" || p.URL != "" || p.Extension != "" {
			t.Errorf("folder projection = %+v", p)
		}
		if p.Owner != nil {
			t.Errorf("owner = %+v, want nil", p.Owner)
		}
	})

	t.Run("unmapped extension", func(t *testing.T) {
		p, _ := env.projector.Project(ctx, env.caller, blob)
		if p.Type != "unknown" || p.Category != "other" {
			t.Errorf("type/category = %q/%q", p.Type, p.Category)
		}
		if p.Parent != nil || p.Filename != "data.xyz" {
			t.Errorf("top-level parent/filename = %+v/%q", p.Parent, p.Filename)
		}
	})

	t.Run("missing owner projects as null", func(t *testing.T) {
		p, err := env.projector.Project(ctx, env.caller, orphanOwner)
		if err != nil {
			t.Fatal(err)
		}
		if p.Owner != nil {
			t.Errorf("owner = %+v, want nil", p.Owner)
		}
	})

	t.Run("permissions denied", func(t *testing.T) {
		env.authorizer.canEditFn = func(*gallery.FileRecord) bool { return false }
		defer func() { env.authorizer.canEditFn = nil }()

		p, _ := env.projector.Project(ctx, env.caller, photo)
		if p.CanEdit || !p.CanDelete {
			t.Errorf("canEdit/canDelete = %v/%v, want false/true", p.CanEdit, p.CanDelete)
		}
	})
}

func TestProjector_ProjectPageKeepsOrder(t *testing.T) {
	env := newTestEnv(t, "uploads")
	up := env.folder(t, nil, "uploads")
	a := env.file(t, up, "a.jpg", day(1))
	b := env.file(t, up, "b.jpg", day(1))

	page, err := env.projector.ProjectPage(context.Background(), env.caller, []gallery.FileRecord{*b, *a})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != b.ID || page[1].ID != a.ID {
		t.Fatalf("page = %v", basenames(page))
	}
	if page[0].Parent != page[1].Parent {
		t.Error("siblings should share the memoized parent reference")
	}
}
