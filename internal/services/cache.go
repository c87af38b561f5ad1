package services

import (
	"context"
	"sort"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/corridor/internal/cache"
	"github.com/dpup/corridor/internal/lib/spatial"
)

// CacheEntry describes one cached corridor without its payload
type CacheEntry struct {
	Key       string    `json:"key"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Stale     bool      `json:"stale"`
}

// CacheStatus is a snapshot of the corridor cache and the warmer feeding it
type CacheStatus struct {
	Stats         cache.Stats  `json:"stats"`
	Entries       []CacheEntry `json:"entries"`
	WarmerRunning bool         `json:"warmer_running"`
}

// CacheStatus lists cached entries by key with hit/miss statistics
func (s *CorridorService) CacheStatus(ctx context.Context) CacheStatus {
	keys := s.cache.Keys()
	sort.Strings(keys)

	status := CacheStatus{
		Stats:   s.cache.Stats(),
		Entries: make([]CacheEntry, 0, len(keys)),
	}
	for _, key := range keys {
		entry, ok, err := s.cache.GetWithMetadata(key, nil)
		if err != nil || !ok {
			// Removed between Keys and here
			continue
		}
		status.Entries = append(status.Entries, CacheEntry{
			Key:       key,
			Source:    entry.Source,
			CreatedAt: entry.CreatedAt,
			ExpiresAt: entry.ExpiresAt,
			Stale:     s.cache.IsStale(key),
		})
	}

	s.mu.Lock()
	if s.warmer != nil {
		status.WarmerRunning = s.warmer.IsRunning()
	}
	s.mu.Unlock()

	return status
}

// InvalidateRoute drops every cached corridor of a route and returns how many
// entries went
func (s *CorridorService) InvalidateRoute(ctx context.Context, routeID string) (int, error) {
	if _, err := s.provider.Route(ctx, routeID); err != nil {
		return 0, err
	}
	removed := s.cache.DeletePrefix(routePrefix(routeID))
	if removed > 0 {
		logging.Infow(ctx, "Invalidated cached corridors", "route", routeID, "removed", removed)
	}
	return removed, nil
}

// InvalidateAll empties the cache and drops the pair set indexes
func (s *CorridorService) InvalidateAll(ctx context.Context) int {
	removed := s.cache.Stats().TotalEntries
	s.cache.Clear()

	s.indexMu.Lock()
	s.indexes = make(map[string]*spatial.PairIndex)
	s.indexMu.Unlock()

	logging.Infow(ctx, "Cleared corridor cache", "removed", removed)
	return removed
}

// routePrefix is the cache key prefix shared by every corridor of a route. The
// trailing separator keeps sf_to_sj_us101 from matching sf_to_sj_us101_hd.
func routePrefix(routeID string) string {
	return cache.Key("corridor", routeID) + ":"
}
