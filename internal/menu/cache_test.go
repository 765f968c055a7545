package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"salchimonster-backend/internal/models"
)

// fakeFetcher returns canned menus and can be flipped into failure mode.
type fakeFetcher struct {
	calls int
	fail  bool
}

func (f *fakeFetcher) FetchMenu(ctx context.Context, siteID int) (*models.Menu, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("upstream down")
	}
	return &models.Menu{SiteID: siteID, Categories: []models.MenuCategory{{CategoryID: "c1"}}}, nil
}

func TestCacheServesWithinTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	fetcher := &fakeFetcher{}
	cache := NewCache(fetcher, 5*time.Minute, clock)

	if _, err := cache.GetMenu(context.Background(), 1); err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	if _, err := cache.GetMenu(context.Background(), 1); err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("Expected a single upstream fetch within TTL, got %d", fetcher.calls)
	}
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	fetcher := &fakeFetcher{}
	cache := NewCache(fetcher, 5*time.Minute, clock)

	if _, err := cache.GetMenu(context.Background(), 1); err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}

	now = now.Add(6 * time.Minute)
	if _, err := cache.GetMenu(context.Background(), 1); err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("Expected a refresh after TTL, got %d fetches", fetcher.calls)
	}
}

func TestCacheServesStaleOnRefreshError(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	fetcher := &fakeFetcher{}
	cache := NewCache(fetcher, 5*time.Minute, clock)

	if _, err := cache.GetMenu(context.Background(), 1); err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}

	now = now.Add(6 * time.Minute)
	fetcher.fail = true
	menu, err := cache.GetMenu(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected stale copy instead of error, got %v", err)
	}
	if menu == nil || menu.SiteID != 1 {
		t.Errorf("Unexpected stale menu: %+v", menu)
	}
}

func TestCacheErrorsWithNothingCached(t *testing.T) {
	fetcher := &fakeFetcher{fail: true}
	cache := NewCache(fetcher, 5*time.Minute, nil)

	if _, err := cache.GetMenu(context.Background(), 1); err == nil {
		t.Fatal("Expected error with no cached fallback")
	}
}

func TestCacheSitesAreIndependent(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := NewCache(fetcher, 5*time.Minute, nil)

	m1, err := cache.GetMenu(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	m2, err := cache.GetMenu(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}

	if m1.SiteID != 1 || m2.SiteID != 2 {
		t.Errorf("Expected per-site menus, got %d and %d", m1.SiteID, m2.SiteID)
	}
	if fetcher.calls != 2 {
		t.Errorf("Expected one fetch per site, got %d", fetcher.calls)
	}

	cache.Invalidate(1)
	if _, err := cache.GetMenu(context.Background(), 1); err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	if fetcher.calls != 3 {
		t.Errorf("Expected refetch after invalidation, got %d calls", fetcher.calls)
	}
}
