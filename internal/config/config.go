package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/geo"
)

// EnvPrefix marks environment overrides, e.g. CORRIDOR__CORRIDOR__METHOD=iterative
const EnvPrefix = "CORRIDOR__"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server" yaml:"server"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
	Corridor CorridorConfig `koanf:"corridor" yaml:"corridor"`
	Cache    CacheConfig    `koanf:"cache" yaml:"cache"`
	Dataset  DatasetConfig  `koanf:"dataset" yaml:"dataset"`
	Warmer   WarmerConfig   `koanf:"warmer" yaml:"warmer"`
}

// ServerConfig holds HTTP surface settings. Address and port come from prefab.
type ServerConfig struct {
	Title          string `koanf:"title" yaml:"title"`
	MaxKeptInReply int    `koanf:"max_kept_in_reply" yaml:"max_kept_in_reply"`
}

// LogConfig controls the CLI logger
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // console or json
}

// CorridorConfig holds sizing defaults applied when a request leaves them unset
type CorridorConfig struct {
	Method            string  `koanf:"method" yaml:"method"`
	Orientation       string  `koanf:"orientation" yaml:"orientation"`
	RequireBoth       bool    `koanf:"require_both" yaml:"require_both"`
	DefaultMinPairs   int     `koanf:"default_min_pairs" yaml:"default_min_pairs"`
	AlongMarginKm     float64 `koanf:"along_margin_km" yaml:"along_margin_km"`
	MinHalfExtentKm   float64 `koanf:"min_half_extent_km" yaml:"min_half_extent_km"`
	InitialCrossKm    float64 `koanf:"initial_cross_km" yaml:"initial_cross_km"`
	MaxIterations     int     `koanf:"max_iterations" yaml:"max_iterations"`
	RefineSteps       int     `koanf:"refine_steps" yaml:"refine_steps"`
	ParallelThreshold int     `koanf:"parallel_threshold" yaml:"parallel_threshold"`
	// IndexThreshold is the pair count at which membership goes through the R-tree
	IndexThreshold int `koanf:"index_threshold" yaml:"index_threshold"`
}

// CacheConfig holds corridor result cache settings
type CacheConfig struct {
	TTL             time.Duration `koanf:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" yaml:"cleanup_interval"`
}

// DatasetConfig selects where routes and pairs come from
type DatasetConfig struct {
	Source         string          `koanf:"source" yaml:"source"` // bayarea, inline or shapefile
	HighDefinition bool            `koanf:"high_definition" yaml:"high_definition"`
	Routes         []RouteConfig   `koanf:"routes" yaml:"routes"`
	PairSets       []PairSetConfig `koanf:"pair_sets" yaml:"pair_sets"`
	Shapefile      ShapefileConfig `koanf:"shapefile" yaml:"shapefile"`
}

// RouteConfig describes a reference path given either as an encoded polyline or as points
type RouteConfig struct {
	ID       string            `koanf:"id" yaml:"id"`
	Name     string            `koanf:"name" yaml:"name"`
	Polyline string            `koanf:"polyline" yaml:"polyline"`
	Points   []CoordinatesYAML `koanf:"points" yaml:"points"`
	Densify  int               `koanf:"densify" yaml:"densify"`
	PairSet  string            `koanf:"pair_set" yaml:"pair_set"`
	MinPairs int               `koanf:"min_pairs" yaml:"min_pairs"`
}

// PairSetConfig is a named list of origin/destination pairs
type PairSetConfig struct {
	ID    string     `koanf:"id" yaml:"id"`
	Name  string     `koanf:"name" yaml:"name"`
	Pairs []PairYAML `koanf:"pairs" yaml:"pairs"`
}

// PairYAML represents one pair in YAML config
type PairYAML struct {
	Origin      CoordinatesYAML `koanf:"origin" yaml:"origin"`
	Destination CoordinatesYAML `koanf:"destination" yaml:"destination"`
}

// ShapefileConfig points at polyline shapefiles for routes and pairs
type ShapefileConfig struct {
	RoutesPath string `koanf:"routes_path" yaml:"routes_path"`
	PairsPath  string `koanf:"pairs_path" yaml:"pairs_path"`
	IDField    string `koanf:"id_field" yaml:"id_field"`
	NameField  string `koanf:"name_field" yaml:"name_field"`
	SetField   string `koanf:"set_field" yaml:"set_field"`
}

// WarmerConfig controls periodic precomputation of each route's default corridor
type WarmerConfig struct {
	Enabled  bool          `koanf:"enabled" yaml:"enabled"`
	Interval time.Duration `koanf:"interval" yaml:"interval"`
}

// CoordinatesYAML represents lat/lon coordinates in YAML config
type CoordinatesYAML struct {
	Latitude  float64 `koanf:"latitude" yaml:"latitude"`
	Longitude float64 `koanf:"longitude" yaml:"longitude"`
}

// Point converts CoordinatesYAML to a geo.Point
func (c CoordinatesYAML) Point() geo.Point {
	return geo.Point{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Pair converts PairYAML to a geo.Pair
func (p PairYAML) Pair() geo.Pair {
	return geo.Pair{Origin: p.Origin.Point(), Destination: p.Destination.Point()}
}

// Options converts the corridor section into sizing options
func (c CorridorConfig) Options() (corridor.Options, error) {
	method, err := corridor.ParseMethod(c.Method)
	if err != nil {
		return corridor.Options{}, err
	}
	orientation, err := corridor.ParseOrientation(c.Orientation)
	if err != nil {
		return corridor.Options{}, err
	}
	return corridor.Options{
		Method:            method,
		Orientation:       orientation,
		AlongMarginKm:     c.AlongMarginKm,
		MinHalfExtentKm:   c.MinHalfExtentKm,
		InitialCrossKm:    c.InitialCrossKm,
		MaxIterations:     c.MaxIterations,
		RefineSteps:       c.RefineSteps,
		ParallelThreshold: c.ParallelThreshold,
	}, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	opts := corridor.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Title:          "Corridor",
			MaxKeptInReply: 500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Corridor: CorridorConfig{
			Method:            string(opts.Method),
			Orientation:       string(opts.Orientation),
			RequireBoth:       true,
			DefaultMinPairs:   10,
			AlongMarginKm:     opts.AlongMarginKm,
			MinHalfExtentKm:   opts.MinHalfExtentKm,
			InitialCrossKm:    opts.InitialCrossKm,
			MaxIterations:     opts.MaxIterations,
			RefineSteps:       opts.RefineSteps,
			ParallelThreshold: opts.ParallelThreshold,
			IndexThreshold:    10000,
		},
		Cache: CacheConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Dataset: DatasetConfig{
			Source: "bayarea",
			Shapefile: ShapefileConfig{
				IDField:   "ID",
				NameField: "NAME",
				SetField:  "SET",
			},
		},
		Warmer: WarmerConfig{
			Enabled:  true,
			Interval: 15 * time.Minute,
		},
	}
}

// Load layers defaults, the YAML file at path (optional), CORRIDOR__ environment
// variables and finally explicit overrides keyed by dotted path.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	return Unmarshal(k, "")
}

// Unmarshal decodes the section at path of an already loaded koanf instance on
// top of the defaults. The server passes prefab's global config here.
func Unmarshal(k *koanf.Koanf, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf(path, cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail on first use
func (c *Config) Validate() error {
	if _, err := c.Corridor.Options(); err != nil {
		return fmt.Errorf("corridor config: %w", err)
	}
	if c.Corridor.DefaultMinPairs <= 0 {
		return fmt.Errorf("corridor config: default_min_pairs must be positive, got %d", c.Corridor.DefaultMinPairs)
	}
	switch c.Dataset.Source {
	case "bayarea", "inline", "shapefile":
	default:
		return fmt.Errorf("dataset config: unknown source %q", c.Dataset.Source)
	}
	if c.Warmer.Enabled && c.Warmer.Interval <= 0 {
		return fmt.Errorf("warmer config: interval must be positive when enabled")
	}
	return nil
}

// envKey maps CORRIDOR__CACHE__TTL to cache.ttl
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// InitLogger configures the global zap logger
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("config: parse log level: %w", err)
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("config: build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	return nil
}
