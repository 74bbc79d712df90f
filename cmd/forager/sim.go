package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/youryharchenko/go-forager/metrics"
	"github.com/youryharchenko/go-forager/sim"
	"github.com/youryharchenko/go-forager/telemetry"
)

func newSimCommand(a *app) *cobra.Command {
	var showMetrics, showMap bool

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run one headless episode and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			s, err := sim.NewRandom(cfg,
				sim.WithLogger(a.log),
				sim.WithMetrics(metrics.New(reg)))
			if err != nil {
				return err
			}
			res, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showMap {
				if err := telemetry.Render(out, s.Snapshot()); err != nil {
					return err
				}
			}
			printResult(out, res)
			if showMetrics {
				return metrics.Dump(out, reg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "dump collected metrics")
	cmd.Flags().BoolVar(&showMap, "map", true, "render the final memory map")
	return cmd
}

func printResult(w io.Writer, r sim.Result) {
	fmt.Fprintf(w, "episode:    %s\n", r.EpisodeID)
	fmt.Fprintf(w, "outcome:    %s\n", r.Outcome)
	fmt.Fprintf(w, "ticks:      %d\n", r.Ticks)
	fmt.Fprintf(w, "discovered: %d\n", r.Discovered)
	fmt.Fprintf(w, "delivered:  %d\n", r.Delivered)
	fmt.Fprintf(w, "remaining:  %d\n", r.Remaining)
	fmt.Fprintf(w, "battery:    %.2f\n", r.Battery)
}
