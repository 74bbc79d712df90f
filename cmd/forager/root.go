package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/youryharchenko/go-forager/config"
)

// app - спільний стан команд: viper з прив'язаними прапорцями і логер.
type app struct {
	v          *viper.Viper
	configPath string
	logLevel   string
	log        *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "forager",
		Short:         "Autonomous foraging agent on a grid world",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.Int64("seed", config.Default().Seed, "world generator seed")
	pf.Int("width", config.Default().GridWidth, "grid width")
	pf.Int("height", config.Default().GridHeight, "grid height")
	pf.Int("targets", config.Default().NumTargets, "number of targets")
	pf.Int("max-ticks", config.Default().MaxTicks, "tick limit per episode")

	for key, flag := range map[string]string{
		"seed":        "seed",
		"grid_width":  "width",
		"grid_height": "height",
		"num_targets": "targets",
		"max_ticks":   "max-ticks",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(
		newRunCommand(a),
		newSimCommand(a),
		newBatchCommand(a),
		newConfigCommand(a),
	)
	return root
}

func (a *app) initLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(a.logLevel))); err != nil {
		return fmt.Errorf("log level %q: %w", a.logLevel, err)
	}
	a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return cfg, err
	}
	a.log.Debug("config loaded", "file", a.configPath, "grid", fmt.Sprintf("%dx%d", cfg.GridHeight, cfg.GridWidth), "seed", cfg.Seed)
	return cfg, nil
}
