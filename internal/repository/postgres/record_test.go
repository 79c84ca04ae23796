package postgres

import (
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"time"

	"assetgallery/internal/domain/models/gallery"
)

func TestBuildRecordWhere(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		criteria  gallery.Criteria
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "whole tree without filters",
			criteria:  gallery.Criteria{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "top level",
			criteria:  gallery.Criteria{Scope: gallery.ScopeTopLevel},
			wantWhere: "WHERE parent_id IS NULL",
			wantArgs:  nil,
		},
		{
			name:      "children of a folder",
			criteria:  gallery.Criteria{Scope: gallery.ScopeParent, ParentID: 42},
			wantWhere: "WHERE parent_id = $1",
			wantArgs:  []any{int64(42)},
		},
		{
			name:      "name reuses one placeholder for name and title",
			criteria:  gallery.Criteria{NameContains: "50%_off"},
			wantWhere: "WHERE (name ILIKE $1 OR title ILIKE $1)",
			wantArgs:  []any{`%50\%\_off%`},
		},
		{
			name: "all filters in order",
			criteria: gallery.Criteria{
				Scope:        gallery.ScopeParent,
				ParentID:     7,
				NameContains: "cat",
				CreatedFrom:  &from,
				CreatedTo:    &to,
				Extensions:   []string{"JPG", "png"},
			},
			wantWhere: "WHERE parent_id = $1 AND (name ILIKE $2 OR title ILIKE $2) AND created_at >= $3 AND created_at <= $4 AND lower(name) LIKE ANY ($5::text[])",
			wantArgs:  []any{int64(7), "%cat%", from, to, []string{"%.jpg%", "%.png%"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildRecordWhere(&tt.criteria)
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestRenderMigrations(t *testing.T) {
	files, err := renderMigrations("test_")
	if err != nil {
		t.Fatalf("renderMigrations() error = %v", err)
	}

	data, err := fs.ReadFile(files, "migrations/000001_create_gallery.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	sql := string(data)
	if strings.Contains(sql, prefixPlaceholder) {
		t.Error("placeholder left in rendered migration")
	}
	for _, want := range []string{"test_files", "test_members", "ON test_files (parent_key, name)"} {
		if !strings.Contains(sql, want) {
			t.Errorf("rendered migration missing %q", want)
		}
	}
}

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{
			in:   "postgres://u:p@localhost:5432/gallery?sslmode=disable",
			want: "pgx5://u:p@localhost:5432/gallery?sslmode=disable&x-migrations-table=dev_schema_migrations",
		},
		{
			in:   "postgresql://u@db/gallery",
			want: "pgx5://u@db/gallery?x-migrations-table=dev_schema_migrations",
		},
		{in: "mysql://u@db/gallery", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := migrationURL(tt.in, "dev_")
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("migrationURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`a\b%c_d`); got != `a\\b\%c\_d` {
		t.Errorf("escapeLike() = %q", got)
	}
}
