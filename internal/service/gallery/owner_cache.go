package gallery

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"assetgallery/internal/domain/models/gallery"
	galleryRepo "assetgallery/internal/domain/repositories/gallery"
)

var (
	ownerCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_owner_cache_hits_total",
		Help: "Owner lookups served from the LRU cache.",
	})
	ownerCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_owner_cache_misses_total",
		Help: "Owner lookups that went to the member repository.",
	})
)

// OwnerCache is a MemberRepository that keeps recently projected owners in
// an expiring LRU. A listing page usually repeats the same few owners.
type OwnerCache struct {
	members galleryRepo.MemberRepository
	cache   *expirable.LRU[int64, *gallery.Member]
}

// NewOwnerCache wraps members with a cache of at most size entries kept for ttl
func NewOwnerCache(members galleryRepo.MemberRepository, size int, ttl time.Duration) *OwnerCache {
	return &OwnerCache{
		members: members,
		cache:   expirable.NewLRU[int64, *gallery.Member](size, nil, ttl),
	}
}

// GetByID returns the member, consulting the cache first. Lookup errors,
// including not-found, are never cached.
func (c *OwnerCache) GetByID(ctx context.Context, id int64) (*gallery.Member, error) {
	if member, ok := c.cache.Get(id); ok {
		ownerCacheHitsTotal.Inc()
		return member, nil
	}
	ownerCacheMissesTotal.Inc()

	member, err := c.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, member)
	return member, nil
}
