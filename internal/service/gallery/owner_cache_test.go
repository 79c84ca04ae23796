package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
)

type countingMembers struct {
	calls   int
	members map[int64]gallery.Member
}

func (c *countingMembers) GetByID(_ context.Context, id int64) (*gallery.Member, error) {
	c.calls++
	m, ok := c.members[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "member not found"}
	}
	return &m, nil
}

func TestOwnerCache(t *testing.T) {
	ctx := context.Background()
	backing := &countingMembers{members: map[int64]gallery.Member{1: {ID: 1, FirstName: "Ada"}}}
	cache := NewOwnerCache(backing, 8, time.Minute)

	for i := 0; i < 3; i++ {
		m, err := cache.GetByID(ctx, 1)
		if err != nil || m.FirstName != "Ada" {
			t.Fatalf("GetByID() = %v, %v", m, err)
		}
	}
	if backing.calls != 1 {
		t.Errorf("backing calls = %d, want 1", backing.calls)
	}

	for i := 0; i < 2; i++ {
		if _, err := cache.GetByID(ctx, 2); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetByID(2) error = %v", err)
		}
	}
	if backing.calls != 3 {
		t.Errorf("backing calls = %d, want misses to go through", backing.calls)
	}

	if n := cache.cache.Len(); n != 1 {
		t.Errorf("cached members = %d, want only the found one", n)
	}
}
