package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/dpup/prefab"

	"github.com/dpup/corridor/internal/cache"
	"github.com/dpup/corridor/internal/config"
	"github.com/dpup/corridor/internal/lib/routedata"
	"github.com/dpup/corridor/internal/metrics"
	"github.com/dpup/corridor/internal/services"
)

// appConfigKey is the prefab.yaml section holding the corridor configuration
const appConfigKey = "app"

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	provider, err := routedata.FromConfig(appConfig.Dataset)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	ctx := context.Background()

	cacheInstance := cache.NewCache()
	cacheInstance.StartPeriodicCleanup(ctx, appConfig.Cache.CleanupInterval)

	corridorService := services.NewCorridorService(provider, cacheInstance, appConfig)

	routes, err := provider.Routes(ctx)
	if err != nil {
		log.Fatalf("Failed to list routes: %v", err)
	}
	log.Printf("Corridor API Server starting")
	log.Printf("Dataset: %s, routes: %d", appConfig.Dataset.Source, len(routes))

	// Keep each route's default corridor warm in the cache
	if appConfig.Warmer.Enabled {
		warmer := services.NewCorridorWarmer(corridorService, appConfig.Warmer.Interval)
		warmer.Start(ctx)
		defer warmer.Stop()
	}

	// Server configuration (port, etc.) will be loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/api/v1/routes", metrics.Middleware("/api/v1/routes", corridorService.HandleRoutes)),
		prefab.WithHTTPHandlerFunc("/api/v1/corridor", metrics.Middleware("/api/v1/corridor", corridorService.HandleCorridor)),
		prefab.WithHTTPHandlerFunc("/api/v1/map", metrics.Middleware("/api/v1/map", corridorService.HandleMap)),
		prefab.WithHTTPHandlerFunc("/api/v1/overview", metrics.Middleware("/api/v1/overview", corridorService.HandleOverview)),
		prefab.WithHTTPHandlerFunc("/api/v1/cache", metrics.Middleware("/api/v1/cache", corridorService.HandleCache)),
		prefab.WithHTTPHandlerFunc("/metrics", metrics.Handler()),
		prefab.WithHTTPHandlerFunc("/", homepageHandler(appConfig.Server.Title)),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig reads the app section of prefab's config on top of the defaults.
// Environment overrides use prefab's PF__ prefix, e.g. PF__APP__CORRIDOR__METHOD.
func loadConfig() *config.Config {
	appConfig, err := config.Unmarshal(prefab.Config, appConfigKey)
	if err != nil {
		log.Fatalf("Failed to load %s config: %v", appConfigKey, err)
	}
	return appConfig
}

var homepage = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.}}</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">{{.}}</span>

Sizes a rectangle aligned with a reference route so that at least a minimum
number of origin/destination pairs fall inside it.

<span class="header">API Endpoints:</span>

  <a href="/api/v1/routes">GET /api/v1/routes</a>                       - List routes and pair sets
  <a href="/api/v1/corridor?route=sf_to_sj_us101">GET /api/v1/corridor?route={id}</a>          - Size a corridor and list kept pairs
        &amp;pairs={set|all} &amp;min_pairs={n} &amp;method={percentile|iterative}
        &amp;orientation={endpoints|best_fit} &amp;require_both={true|false}
  <a href="/api/v1/map?route=sf_to_sj_us101">GET /api/v1/map?route={id}</a>               - Corridor map
        &amp;format={html|kml|geojson}
  <a href="/api/v1/overview">GET /api/v1/overview</a>                     - All routes on one map
  <a href="/api/v1/cache">GET /api/v1/cache</a>                        - Cache statistics and entries
  DELETE /api/v1/cache?route={id}                 - Drop cached corridors (all without route)
  <a href="/metrics">GET /metrics</a>                              - Prometheus metrics
</pre>
</body>
</html>
`))

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Only handle the root path
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := homepage.Execute(w, title); err != nil {
			http.Error(w, fmt.Sprintf("render homepage: %v", err), http.StatusInternalServerError)
		}
	}
}
