package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/youryharchenko/go-forager/metrics"
	"github.com/youryharchenko/go-forager/sim"
)

func newBatchCommand(a *app) *cobra.Command {
	var (
		episodes, parallel int
		showMetrics        bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run many independent episodes in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			sum, err := sim.RunBatch(cmd.Context(), cfg, sim.BatchOptions{
				Episodes:    episodes,
				Concurrency: parallel,
				Logger:      a.log,
				Metrics:     metrics.New(reg),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range sum.Results {
				fmt.Fprintf(out, "%s  %-10s ticks=%-6d delivered=%-3d remaining=%-3d battery=%.1f\n",
					r.EpisodeID, r.Outcome, r.Ticks, r.Delivered, r.Remaining, r.Battery)
			}
			fmt.Fprintf(out, "episodes %d, finished %d, depleted %d, tick limit %d, success %.0f%%\n",
				len(sum.Results), sum.Outcomes[sim.Finished], sum.Outcomes[sim.Depleted],
				sum.Outcomes[sim.TickLimit], sum.SuccessRate()*100)
			if showMetrics {
				return metrics.Dump(out, reg)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 10, "number of episodes; episode i uses seed+i")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "concurrent episodes (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "dump collected metrics")
	return cmd
}
