package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/routedata"
	"github.com/dpup/corridor/internal/render"
)

// workflow is one canned corridor run over the Bay Area dataset
type workflow struct {
	Title    string
	RouteID  string
	PairSet  string
	MinPairs int
	Method   corridor.Method
}

var workflows = [][]workflow{
	{{Title: "US-101 delivery routes", RouteID: "sf_to_sj_us101", PairSet: "us101_deliveries", MinPairs: 10}},
	{{Title: "I-280 delivery routes (Peninsula)", RouteID: "sf_to_sj_i280", PairSet: "i280_deliveries", MinPairs: 2}},
	{
		{Title: "US-101 SF to SJ", RouteID: "sf_to_sj_us101", PairSet: "us101_deliveries", MinPairs: 10},
		{Title: "I-280 SF to SJ", RouteID: "sf_to_sj_i280", PairSet: "i280_deliveries", MinPairs: 6},
		{Title: "I-880 Oakland to SJ", RouteID: "oakland_to_sj_i880", PairSet: "i880_deliveries", MinPairs: 10},
		{Title: "I-80 SF to Sacramento", RouteID: "sf_to_sac_i80", PairSet: "i80_deliveries", MinPairs: 12},
	},
	{{Title: "All Bay Area deliveries along US-101", RouteID: "sf_to_sj_us101", PairSet: routedata.AllPairs, MinPairs: 30}},
	// Example 2 again with the grow-and-bisect sizer, to compare against percentile sizing
	{{Title: "I-280 iterative cross-check", RouteID: "sf_to_sj_i280", PairSet: "i280_deliveries", MinPairs: 2, Method: corridor.MethodIterative}},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Run the Bay Area example workflows and write a map for each",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outDir, _ := cmd.Flags().GetString("out-dir")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", outDir, err)
		}

		dataset, err := routedata.BayArea(false)
		if err != nil {
			return err
		}
		html := render.NewHTMLRenderer()

		for i, group := range workflows {
			fmt.Println(strings.Repeat("=", 70))
			fmt.Printf("EXAMPLE %d\n", i+1)
			fmt.Println(strings.Repeat("=", 70))
			for _, wf := range group {
				scene, err := runWorkflow(cmd.Context(), os.Stdout, dataset, wf)
				if err != nil {
					return fmt.Errorf("example %d (%s): %w", i+1, wf.Title, err)
				}
				path := filepath.Join(outDir, fmt.Sprintf("example%d_%s.html", i+1, wf.RouteID))
				if err := writeScene(html, scene, path); err != nil {
					return err
				}
				fmt.Printf("  Map: %s\n", path)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	examplesCmd.Flags().String("out-dir", ".", "directory the example maps are written to")
}

// runWorkflow sizes and filters one workflow through the public corridor API and
// prints a summary to w
func runWorkflow(ctx context.Context, w io.Writer, dataset routedata.Provider, wf workflow) (render.Scene, error) {
	route, err := dataset.Route(ctx, wf.RouteID)
	if err != nil {
		return render.Scene{}, err
	}
	pairs, err := dataset.Pairs(ctx, wf.PairSet)
	if err != nil {
		return render.Scene{}, err
	}

	corners, angle, err := corridor.ComputeOrientedCorridor(route.Polyline.Points, pairs, wf.MinPairs, wf.Method)
	if err != nil {
		return render.Scene{}, err
	}
	kept, err := corridor.FilterPairsInCorridor(pairs, corners, true)
	if err != nil {
		return render.Scene{}, err
	}
	c, err := corridor.CorridorFromCorners(corners)
	if err != nil {
		return render.Scene{}, err
	}
	part := corridor.Split(pairs, c, true)

	zap.L().Debug("example computed", zap.String("route", wf.RouteID), zap.Stringer("corridor", c))

	fmt.Fprintf(w, "\n%s\n", wf.Title)
	fmt.Fprintf(w, "  Route points:     %d\n", len(route.Polyline.Points))
	fmt.Fprintf(w, "  Delivery routes:  %d\n", len(pairs))
	fmt.Fprintf(w, "  Box angle:        %.1f° from east\n", angle)
	fmt.Fprintf(w, "  Inside box:       %d/%d (min: %d)\n", len(kept), len(pairs), wf.MinPairs)
	fmt.Fprintf(w, "  Guarantee met:    %v\n", len(kept) >= wf.MinPairs)

	return render.Scene{
		Title:    wf.Title,
		Route:    route.Polyline.Points,
		Corridor: c,
		Kept:     part.Kept,
		Rejected: part.Rejected,
	}, nil
}

func writeScene(r render.Renderer, scene render.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Render(f, scene); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
