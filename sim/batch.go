package sim

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/youryharchenko/go-forager/config"
	"github.com/youryharchenko/go-forager/metrics"
)

// BatchOptions - параметри пакетного прогону.
type BatchOptions struct {
	Episodes    int
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Summary агрегує результати пакета.
type Summary struct {
	Results   []Result
	Outcomes  map[Outcome]int
	Delivered int
	Ticks     int
}

// SuccessRate - частка епізодів, що завершились Finished.
func (s Summary) SuccessRate() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	return float64(s.Outcomes[Finished]) / float64(len(s.Results))
}

// RunBatch проганяє opts.Episodes незалежних епізодів; епізод i отримує seed cfg.Seed+i.
// Перша помилка скасовує решту.
func RunBatch(ctx context.Context, cfg config.Config, opts BatchOptions) (Summary, error) {
	if opts.Episodes <= 0 {
		return Summary{}, fmt.Errorf("batch: episodes must be positive, got %d", opts.Episodes)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	results := make([]Result, opts.Episodes)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range opts.Episodes {
		g.Go(func() error {
			epCfg := cfg
			epCfg.Seed = cfg.Seed + int64(i)
			s, err := NewRandom(epCfg,
				WithLogger(log.With("seed", epCfg.Seed)),
				WithMetrics(opts.Metrics))
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			res, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("episode %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Results: results, Outcomes: make(map[Outcome]int)}
	for _, r := range results {
		sum.Outcomes[r.Outcome]++
		sum.Delivered += r.Delivered
		sum.Ticks += r.Ticks
	}
	return sum, nil
}
