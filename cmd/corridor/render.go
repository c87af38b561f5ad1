package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpup/corridor/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write a corridor map as HTML, KML or GeoJSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		overview, _ := cmd.Flags().GetBool("overview")

		svc, err := newService()
		if err != nil {
			return err
		}

		if overview {
			if out == "" {
				out = "overview.html"
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			if err := svc.RenderOverview(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Printf("Overview map written to %s\n", out)
			return nil
		}

		format, err := render.ParseFormat(formatName)
		if err != nil {
			return err
		}
		req := requestFromFlags(cmd)
		if req.RouteID == "" {
			return fmt.Errorf("--route is required")
		}
		if out == "" {
			out = req.RouteID + "." + format.Extension()
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()

		if err := svc.RenderMap(cmd.Context(), req, format, f); err != nil {
			return err
		}
		zap.L().Info("map written", zap.String("path", out), zap.String("format", string(format)))
		fmt.Printf("Map written to %s\n", out)
		return nil
	},
}

func init() {
	addRequestFlags(renderCmd)
	renderCmd.Flags().String("format", "html", "output format: html, kml or geojson")
	renderCmd.Flags().String("out", "", "output file (default: <route> plus the format's extension)")
	renderCmd.Flags().Bool("overview", false, "draw every route on one map instead of a corridor")
}
