package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/google/uuid"

	"github.com/dpup/corridor/internal/cache"
	"github.com/dpup/corridor/internal/config"
	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/geo"
	"github.com/dpup/corridor/internal/lib/routedata"
	"github.com/dpup/corridor/internal/lib/spatial"
	"github.com/dpup/corridor/internal/metrics"
	"github.com/dpup/corridor/internal/render"
)

// CorridorRequest selects a route, a pair set and the sizing parameters. Zero
// values fall back to the route's defaults, then to configuration.
type CorridorRequest struct {
	RouteID     string `json:"route"`
	PairSet     string `json:"pairs,omitempty"`
	MinPairs    int    `json:"min_pairs,omitempty"`
	Method      string `json:"method,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	RequireBoth *bool  `json:"require_both,omitempty"`
}

// CorridorResult is a sized corridor and the partition of the pair set against it
type CorridorResult struct {
	ID            string            `json:"id"`
	RouteID       string            `json:"route_id"`
	RouteName     string            `json:"route_name"`
	PairSet       string            `json:"pair_set"`
	MinPairs      int               `json:"min_pairs"`
	RequireBoth   bool              `json:"require_both"`
	Corridor      corridor.Corridor `json:"corridor"`
	WKT           string            `json:"wkt"`
	RouteWKT      string            `json:"route_wkt"`
	RoutePolyline string            `json:"route_polyline"`
	Total         int               `json:"total"`
	KeptCount     int               `json:"kept_count"`
	RejectedCount int               `json:"rejected_count"`
	KeptIndices   []int             `json:"kept_indices"`
	Kept          []geo.Pair        `json:"kept"`
	Rejected      []geo.Pair        `json:"rejected,omitempty"`
	Indexed       bool              `json:"indexed"`
	ComputedAt    time.Time         `json:"computed_at"`
	Cached        bool              `json:"cached"`
}

// RouteSummary lists a route without its geometry
type RouteSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Points    int     `json:"points"`
	PairSet   string  `json:"pair_set"`
	MinPairs  int     `json:"min_pairs"`
	PairCount int     `json:"pair_count"`
	Polyline  string  `json:"polyline"`
	LengthKm  float64 `json:"length_km"`
}

// CorridorService sizes corridors for provider routes, caches the results and
// renders them
type CorridorService struct {
	provider routedata.Provider
	cache    *cache.Cache
	config   *config.Config

	html *render.HTMLRenderer

	indexMu sync.Mutex
	indexes map[string]*spatial.PairIndex

	mu     sync.Mutex
	warmer *CorridorWarmer
}

// NewCorridorService creates a new CorridorService
func NewCorridorService(provider routedata.Provider, cache *cache.Cache, cfg *config.Config) *CorridorService {
	return &CorridorService{
		provider: provider,
		cache:    cache,
		config:   cfg,
		html:     render.NewHTMLRenderer(),
		indexes:  make(map[string]*spatial.PairIndex),
	}
}

// ListRoutes returns every provider route with its default pair set size
func (s *CorridorService) ListRoutes(ctx context.Context) ([]RouteSummary, error) {
	routes, err := s.provider.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	out := make([]RouteSummary, 0, len(routes))
	for _, r := range routes {
		summary := RouteSummary{
			ID:       r.ID,
			Name:     r.Name,
			Points:   len(r.Polyline.Points),
			PairSet:  s.pairSetFor(r, ""),
			MinPairs: s.minPairsFor(r, 0),
			Polyline: r.Polyline.EncodedPolyline,
		}
		if meters, err := geo.PathLength(r.Polyline.Points); err == nil {
			summary.LengthKm = meters / 1000
		}
		if pairs, err := s.provider.Pairs(ctx, summary.PairSet); err == nil {
			summary.PairCount = len(pairs)
		}
		out = append(out, summary)
	}
	return out, nil
}

// Compute sizes the corridor for req and partitions its pair set. Results are
// cached per parameter set for the configured TTL.
func (s *CorridorService) Compute(ctx context.Context, req CorridorRequest) (*CorridorResult, error) {
	route, err := s.provider.Route(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}

	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}
	pairSet := s.pairSetFor(route, req.PairSet)
	minPairs := s.minPairsFor(route, req.MinPairs)
	requireBoth := s.config.Corridor.RequireBoth
	if req.RequireBoth != nil {
		requireBoth = *req.RequireBoth
	}

	key := routePrefix(route.ID) + cache.Key(pairSet, minPairs, opts.Method, opts.Orientation, requireBoth)
	var cached CorridorResult
	if found, err := s.cache.Get(key, &cached); err != nil {
		// Unreadable entry; drop it so this computation replaces it
		logging.Warnw(ctx, "Corridor cache read failed", "key", key, "error", err)
		s.cache.Delete(key)
	} else if found {
		metrics.CacheHits.WithLabelValues("corridor").Inc()
		cached.Cached = true
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("corridor").Inc()

	pairs, err := s.provider.Pairs(ctx, pairSet)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c, err := corridor.SizeCorridor(route.Polyline.Points, pairs, minPairs, opts)
	if err != nil {
		metrics.Computations.WithLabelValues(string(opts.Method), outcome(err)).Inc()
		logging.Warnw(ctx, "Corridor sizing failed",
			"route", route.ID, "pair_set", pairSet, "min_pairs", minPairs, "error", err)
		return nil, fmt.Errorf("route %s: %w", route.ID, err)
	}

	part, indexed, err := s.partition(pairSet, pairs, c, requireBoth, opts.ParallelThreshold)
	if err != nil {
		return nil, err
	}
	metrics.ComputeDuration.WithLabelValues(string(opts.Method)).Observe(time.Since(start).Seconds())
	metrics.Computations.WithLabelValues(string(opts.Method), "ok").Inc()
	metrics.PairsEvaluated.Add(float64(len(pairs)))
	metrics.PairsKept.Add(float64(len(part.Kept)))

	wkt, err := render.CorridorWKT(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode corridor: %w", err)
	}
	routeWKT, err := render.PathWKT(route.Polyline.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to encode route: %w", err)
	}

	result := &CorridorResult{
		ID:            uuid.NewString(),
		RouteID:       route.ID,
		RouteName:     route.Name,
		PairSet:       pairSet,
		MinPairs:      minPairs,
		RequireBoth:   requireBoth,
		Corridor:      c,
		WKT:           wkt,
		RouteWKT:      routeWKT,
		RoutePolyline: route.Polyline.EncodedPolyline,
		Total:         len(pairs),
		KeptCount:     len(part.Kept),
		RejectedCount: len(part.Rejected),
		KeptIndices:   part.KeptIndices,
		Kept:          part.Kept,
		Rejected:      part.Rejected,
		Indexed:       indexed,
		ComputedAt:    start,
	}

	logging.Infow(ctx, "Corridor computed",
		"id", result.ID, "route", route.ID, "pair_set", pairSet, "min_pairs", minPairs,
		"method", opts.Method, "angle", c.Angle, "half_cross_km", c.HalfCrossKm,
		"kept", result.KeptCount, "total", result.Total)

	if err := s.cache.Set(key, result, s.config.Cache.TTL, "corridor"); err != nil {
		logging.Warnw(ctx, "Failed to cache corridor", "key", key, "error", err)
	}
	return result, nil
}

// RenderMap computes the corridor for req and writes it in format f
func (s *CorridorService) RenderMap(ctx context.Context, req CorridorRequest, f render.Format, w io.Writer) error {
	result, err := s.Compute(ctx, req)
	if err != nil {
		return err
	}
	route, err := s.provider.Route(ctx, result.RouteID)
	if err != nil {
		return err
	}

	var r render.Renderer = s.html
	if f != render.FormatHTML {
		if r, err = render.New(f); err != nil {
			return err
		}
	}
	return r.Render(w, SceneFor(route, result))
}

// RenderOverview draws every route on one HTML map
func (s *CorridorService) RenderOverview(ctx context.Context, w io.Writer) error {
	routes, err := s.provider.Routes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}
	layers := make([]render.Layer, len(routes))
	for i, r := range routes {
		layers[i] = render.Layer{Name: r.Name, Points: r.Polyline.Points}
	}
	return s.html.RenderOverview(w, s.config.Server.Title+" routes", layers)
}

// SceneFor builds the map scene of a computed result
func SceneFor(route routedata.Route, result *CorridorResult) render.Scene {
	return render.Scene{
		Title:    fmt.Sprintf("%s: %d of %d pairs (min %d)", route.Name, result.KeptCount, result.Total, result.MinPairs),
		Route:    route.Polyline.Points,
		Corridor: result.Corridor,
		Kept:     result.Kept,
		Rejected: result.Rejected,
	}
}

// partition splits pairs against c, through the pair set's R-tree when the set
// is large enough to make that worthwhile
func (s *CorridorService) partition(setID string, pairs []geo.Pair, c corridor.Corridor, requireBoth bool, parallelThreshold int) (corridor.Partition, bool, error) {
	threshold := s.config.Corridor.IndexThreshold
	if threshold <= 0 || len(pairs) < threshold {
		return corridor.SplitIndices(pairs, nil, c, requireBoth, parallelThreshold), false, nil
	}

	s.indexMu.Lock()
	ix, ok := s.indexes[setID]
	if !ok || ix.Len() != len(pairs) {
		var err error
		if ix, err = spatial.NewPairIndex(pairs); err != nil {
			s.indexMu.Unlock()
			return corridor.Partition{}, false, fmt.Errorf("failed to index pair set %s: %w", setID, err)
		}
		s.indexes[setID] = ix
	}
	s.indexMu.Unlock()

	return ix.Split(c, requireBoth, parallelThreshold), true, nil
}

func (s *CorridorService) options(req CorridorRequest) (corridor.Options, error) {
	cc := s.config.Corridor
	if req.Method != "" {
		cc.Method = req.Method
	}
	if req.Orientation != "" {
		cc.Orientation = req.Orientation
	}
	return cc.Options()
}

func (s *CorridorService) pairSetFor(route routedata.Route, requested string) string {
	switch {
	case requested != "":
		return requested
	case route.PairSet != "":
		return route.PairSet
	default:
		return routedata.AllPairs
	}
}

func (s *CorridorService) minPairsFor(route routedata.Route, requested int) int {
	switch {
	case requested != 0:
		return requested
	case route.MinPairs > 0:
		return route.MinPairs
	default:
		return s.config.Corridor.DefaultMinPairs
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, corridor.ErrInsufficientPairs):
		return "insufficient_pairs"
	case errors.Is(err, corridor.ErrDegenerateRoute):
		return "degenerate_route"
	case errors.Is(err, corridor.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
