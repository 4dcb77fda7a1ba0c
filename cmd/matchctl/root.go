package main

import (
	"context"
	"fmt"

	"job-matcher/internal/app"
	"job-matcher/internal/config"
	"job-matcher/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "matchctl"

type rootOptions struct {
	debug bool
	json  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "matchctl manages the job matcher database and runs matches from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newMatchCmd(opts),
		newImportCmd(opts),
	)
	return cmd
}

// withContainer loads configuration, connects to the backing services and runs fn.
func withContainer(ctx context.Context, opts *rootOptions, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(opts.json || cfg.App.LogJSON, opts.debug || cfg.App.LogDebug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("closing resources", zap.Error(err))
		}
	}()

	return fn(ctx, c)
}
