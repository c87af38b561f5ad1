package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/corridor/internal/cache"
	"github.com/dpup/corridor/internal/config"
	"github.com/dpup/corridor/internal/lib/routedata"
	"github.com/dpup/corridor/internal/services"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "corridor",
	Short: "Select origin/destination pairs inside a path-aligned corridor",
	Long: "Sizes a rectangle aligned with a reference route so that at least a minimum number of " +
		"origin/destination pairs fall inside it, then reports, exports or maps the result.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		sets, _ := cmd.Flags().GetStringArray("set")

		overrides, err := parseOverrides(sets)
		if err != nil {
			return err
		}
		c, err := config.Load(path, overrides)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringArray("set", nil, "override a config value, e.g. --set corridor.method=iterative")

	rootCmd.AddCommand(routesCmd, computeCmd, renderCmd, examplesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseOverrides turns key=value flags into a dotted-key map for the config loader
func parseOverrides(sets []string) (map[string]any, error) {
	out := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", s)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

// newService wires the configured dataset into a corridor service
func newService() (*services.CorridorService, error) {
	provider, err := routedata.FromConfig(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return services.NewCorridorService(provider, cache.NewCache(), cfg), nil
}

// requestFromFlags reads the corridor selection flags shared by compute and render
func requestFromFlags(cmd *cobra.Command) services.CorridorRequest {
	route, _ := cmd.Flags().GetString("route")
	pairs, _ := cmd.Flags().GetString("pairs")
	minPairs, _ := cmd.Flags().GetInt("min-pairs")
	method, _ := cmd.Flags().GetString("method")
	orientation, _ := cmd.Flags().GetString("orientation")

	req := services.CorridorRequest{
		RouteID:     route,
		PairSet:     pairs,
		MinPairs:    minPairs,
		Method:      method,
		Orientation: orientation,
	}
	if cmd.Flags().Changed("either") {
		either, _ := cmd.Flags().GetBool("either")
		requireBoth := !either
		req.RequireBoth = &requireBoth
	}
	return req
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("route", "", "route id (see `corridor routes`)")
	cmd.Flags().String("pairs", "", "pair set id, \"all\" for every set (default: the route's own set)")
	cmd.Flags().Int("min-pairs", 0, "minimum number of pairs inside the corridor (default: the route's)")
	cmd.Flags().String("method", "", "sizing method: percentile or iterative")
	cmd.Flags().String("orientation", "", "heading estimate: endpoints or best_fit")
	cmd.Flags().Bool("either", false, "keep pairs with either endpoint inside instead of both")
}
