package services

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/dpup/corridor/internal/metrics"
)

// CorridorWarmer periodically computes every route's default corridor so the
// first request after startup or expiry is served from cache
type CorridorWarmer struct {
	service  *CorridorService
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewCorridorWarmer creates a warmer that runs every interval and registers it
// with the service, whose cache status reports whether it is running
func NewCorridorWarmer(service *CorridorService, interval time.Duration) *CorridorWarmer {
	w := &CorridorWarmer{
		service:  service,
		interval: interval,
	}
	service.mu.Lock()
	service.warmer = w
	service.mu.Unlock()
	return w
}

// Start begins warming in the background. Calling Start on a running warmer is a no-op.
func (w *CorridorWarmer) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})

	logging.Infow(ctx, "Starting corridor warmer", "interval", w.interval)
	go w.loop(ctx, w.stopChan)
}

// Stop halts the background loop
func (w *CorridorWarmer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopChan)
}

// IsRunning returns whether the warmer loop is active
func (w *CorridorWarmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *CorridorWarmer) loop(ctx context.Context, stop <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			err, _ := errors.ParseStack(debug.Stack())
			logging.Errorw(ctx, "Corridor warmer: recovered from panic",
				"error", r, "error.stack_trace", err.MinimalStack(3, 5))
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Warm immediately so startup requests hit the cache
	w.WarmOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Infow(ctx, "Corridor warmer stopping due to context cancellation")
			return
		case <-stop:
			logging.Infow(ctx, "Corridor warmer stopping due to stop signal")
			return
		case <-ticker.C:
			w.WarmOnce(ctx)
		}
	}
}

// WarmOnce drops each route's cached corridors and recomputes its default one,
// returning how many routes succeeded. Failures are logged and do not stop the pass.
func (w *CorridorWarmer) WarmOnce(ctx context.Context) int {
	warmCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	routes, err := w.service.provider.Routes(warmCtx)
	if err != nil {
		metrics.WarmerRuns.WithLabelValues("error").Inc()
		logging.Errorw(ctx, "Corridor warmer: failed to list routes", "error", err)
		return 0
	}

	var warmed int
	for _, route := range routes {
		if warmCtx.Err() != nil {
			break
		}
		if _, err := w.service.InvalidateRoute(warmCtx, route.ID); err != nil {
			logging.Warnw(ctx, "Corridor warmer: invalidation failed", "route", route.ID, "error", err)
		}
		if _, err := w.service.Compute(warmCtx, CorridorRequest{RouteID: route.ID}); err != nil {
			logging.Warnw(ctx, "Corridor warmer: route failed", "route", route.ID, "error", err)
			continue
		}
		warmed++
	}

	outcome := "ok"
	if warmed < len(routes) {
		outcome = "partial"
	}
	metrics.WarmerRuns.WithLabelValues(outcome).Inc()
	logging.Infow(ctx, "Corridor warmer: pass completed", "warmed", warmed, "routes", len(routes))
	return warmed
}
