package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youryharchenko/go-forager/config"
	"github.com/youryharchenko/go-forager/sim"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "forager.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(config.Default(), path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (defaults, file, env, flags)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil && !errors.Is(err, config.ErrInvalid) {
				return err
			}
			data, merr := config.Marshal(cfg)
			if merr != nil {
				return merr
			}
			_, werr := cmd.OutOrStdout().Write(data)
			return errors.Join(err, werr)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and the battery reserve of its world",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "config: ok")

			world, err := sim.GenerateWorld(cfg)
			if err != nil {
				return err
			}
			steps := world.Diameter()
			if err := cfg.CheckReserve(steps); err != nil {
				fmt.Fprintf(out, "reserve: warning: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "reserve: ok (%d steps need %.2f, threshold %.2f)\n",
				steps, cfg.WorstCaseDrain(steps), cfg.LowThreshold)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, validateCmd)
	return cmd
}
