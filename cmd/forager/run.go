package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/youryharchenko/go-forager/mas"
	"github.com/youryharchenko/go-forager/metrics"
	"github.com/youryharchenko/go-forager/sim"
	"github.com/youryharchenko/go-forager/simulations/forage"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		statePath   string
		noClear     bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a live episode on the actor system with terminal rendering",
		Long: `Run spawns the forager, console and clock agents. With --state the
forager is saved on exit (Ctrl+C) and resumed from the same file next time.
Press Enter to pause or resume the episode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			sys := mas.NewSystem(
				mas.WithContext(cmd.Context()),
				mas.WithLogger(a.log),
				mas.WithPersistence(statePath),
			)
			console := forage.NewConsole(forage.ConsoleID, cmd.OutOrStdout(), !noClear)
			if err := sys.Spawn(console); err != nil {
				return err
			}
			if err := sys.Startup(); err != nil {
				return fmt.Errorf("restore state: %w", err)
			}
			if _, restored := sys.GetAgent(forage.ForagerID); restored {
				a.log.Info("resuming saved episode", "state", statePath)
			} else {
				s, err := sim.NewRandom(cfg, sim.WithLogger(a.log))
				if err != nil {
					return err
				}
				if err := sys.Spawn(forage.NewForager(forage.ForagerID, s, forage.ConsoleID)); err != nil {
					return err
				}
			}

			reg := prometheus.NewRegistry()
			if err := sys.Send(cmd.Context(), "", forage.ForagerID, mas.Request,
				forage.Instrument{Metrics: metrics.New(reg)}); err != nil {
				return err
			}
			if err := sys.Spawn(forage.NewClock(forage.ClockID, forage.ForagerID, cfg.TickInterval)); err != nil {
				return err
			}

			a.log.Info("agents started", "ids", sys.IDs())
			go togglePause(cmd.Context(), cmd.InOrStdin(), sys)

			select {
			case st := <-console.Done():
				a.log.Info("episode over", "outcome", st.Outcome, "ticks", st.Result.Ticks)
			case <-cmd.Context().Done():
				a.log.Info("interrupted")
			}

			// Тимчасових агентів не зберігаємо.
			sys.Kill(forage.ClockID)
			sys.Kill(forage.ConsoleID)
			if err := sys.Shutdown(); err != nil {
				return fmt.Errorf("save state: %w", err)
			}
			if showMetrics {
				return metrics.Dump(cmd.OutOrStdout(), reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&statePath, "state", "", "gob file to resume from and save to")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "append frames instead of redrawing the screen")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "dump collected metrics on exit")
	return cmd
}

// togglePause перемикає паузу фуражира на кожен рядок з in.
func togglePause(ctx context.Context, in io.Reader, sys *mas.System) {
	paused := false
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		paused = !paused
		if err := sys.Send(ctx, "", forage.ForagerID, mas.Request, forage.Pause{On: paused}); err != nil {
			return
		}
	}
}
