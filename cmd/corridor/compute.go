package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dpup/corridor/internal/services"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Size a corridor for a route and report the pairs inside it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")

		svc, err := newService()
		if err != nil {
			return err
		}
		result, err := svc.Compute(cmd.Context(), requestFromFlags(cmd))
		if err != nil {
			return err
		}
		zap.L().Debug("corridor computed",
			zap.String("route", result.RouteID),
			zap.Float64("angle", result.Corridor.Angle),
			zap.Int("kept", result.KeptCount),
		)
		return writeResult(os.Stdout, result, output)
	},
}

func init() {
	addRequestFlags(computeCmd)
	_ = computeCmd.MarkFlagRequired("route")
	computeCmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")
}

func writeResult(w io.Writer, result *services.CorridorResult, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(result)
	case "text", "":
		c := result.Corridor
		fmt.Fprintf(w, "Route:       %s (%s)\n", result.RouteName, result.RouteID)
		fmt.Fprintf(w, "Pair set:    %s\n", result.PairSet)
		fmt.Fprintf(w, "Method:      %s\n", c.Method)
		fmt.Fprintf(w, "Box angle:   %.1f° from east\n", c.Angle)
		fmt.Fprintf(w, "Extents:     ±%.3f km along, ±%.3f km across\n", c.HalfAlongKm, c.HalfCrossKm)
		fmt.Fprintf(w, "Inside box:  %d/%d (min: %d)\n", result.KeptCount, result.Total, result.MinPairs)
		fmt.Fprintf(w, "Guarantee:   %v\n", result.KeptCount >= result.MinPairs)
		fmt.Fprintln(w, "Corners:")
		for i, p := range c.Corners {
			fmt.Fprintf(w, "  %d  %s\n", i, p)
		}
		fmt.Fprintf(w, "WKT:         %s\n", result.WKT)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
