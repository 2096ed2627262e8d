package shift

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"gate-access-backend/internal/model"
	"gate-access-backend/internal/store"
)

const activeShiftsKey = "active_shifts"

// Cache is an owned, TTL-bound view of the active shift set. Shift mutations
// must call Invalidate so matchers never run against a stale configuration
// longer than the TTL.
type Cache struct {
	store store.Store
	c     *gocache.Cache
}

// NewCache creates a shift cache backed by the given store.
func NewCache(s store.Store, ttl time.Duration) *Cache {
	return &Cache{
		store: s,
		c:     gocache.New(ttl, 2*ttl),
	}
}

// Active returns the active shifts in configured order, loading from the
// store on a cache miss.
func (c *Cache) Active(ctx context.Context) ([]model.Shift, error) {
	if v, ok := c.c.Get(activeShiftsKey); ok {
		return v.([]model.Shift), nil
	}
	shifts, err := c.store.ListActiveShifts(ctx)
	if err != nil {
		return nil, err
	}
	c.c.Set(activeShiftsKey, shifts, gocache.DefaultExpiration)
	return shifts, nil
}

// Invalidate drops the cached shift set.
func (c *Cache) Invalidate() {
	c.c.Delete(activeShiftsKey)
}
