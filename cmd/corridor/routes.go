package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dpup/corridor/internal/services"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes and pair sets of the configured dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		routes, err := svc.ListRoutes(cmd.Context())
		if err != nil {
			return err
		}
		formatRoutes(os.Stdout, routes)
		return nil
	},
}

func formatRoutes(w io.Writer, routes []services.RouteSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOINTS\tLENGTH\tPAIR SET\tPAIRS\tMIN")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f km\t%s\t%d\t%d\n",
			r.ID, r.Name, r.Points, r.LengthKm, r.PairSet, r.PairCount, r.MinPairs)
	}
	_ = tw.Flush()
}
