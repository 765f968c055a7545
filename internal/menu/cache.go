package menu

import (
	"context"
	"log"
	"sync"
	"time"

	"salchimonster-backend/internal/models"
)

// Fetcher fetches a site menu from its upstream source.
type Fetcher interface {
	FetchMenu(ctx context.Context, siteID int) (*models.Menu, error)
}

type cacheEntry struct {
	menu      *models.Menu
	fetchedAt time.Time
}

// Cache serves site menus with a TTL, refreshing from the upstream service
// when an entry goes stale. A stale entry is served as a fallback when the
// refresh fails, so a flaky menu service never empties the storefront.
type Cache struct {
	mu      sync.Mutex
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	entries map[int]cacheEntry
}

// NewCache creates a menu cache backed by fetcher. now is usually time.Now;
// tests inject a fake clock.
func NewCache(fetcher Fetcher, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     now,
		entries: make(map[int]cacheEntry),
	}
}

// GetMenu returns the menu for siteID, fetching or refreshing as needed.
func (c *Cache) GetMenu(ctx context.Context, siteID int) (*models.Menu, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[siteID]
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.menu, nil
	}

	menu, err := c.fetcher.FetchMenu(ctx, siteID)
	if err != nil {
		if ok {
			// Serve the stale copy rather than failing the storefront.
			log.Printf("menu: refresh failed for site %d, serving stale copy: %v", siteID, err)
			return entry.menu, nil
		}
		return nil, err
	}

	c.entries[siteID] = cacheEntry{menu: menu, fetchedAt: c.now()}
	return menu, nil
}

// Invalidate drops the cached menu for siteID, forcing a refetch.
func (c *Cache) Invalidate(siteID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, siteID)
}
