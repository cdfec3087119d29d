package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"postboard/config"
	logs "postboard/internal/infra/log"
	"postboard/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Supported subcommands:
// - up:     apply all pending migrations
// - down:   roll back the most recent migration
// - status: print applied and pending migrations

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the postboard database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newMigrationCmd("up", "Apply all pending migrations", (*postgres.Migrator).Up),
		newMigrationCmd("down", "Roll back the most recent migration", (*postgres.Migrator).Down),
		newMigrationCmd("status", "Show migration status", (*postgres.Migrator).Status),
	)

	return rootCmd
}

func newMigrationCmd(use, short string, run func(*postgres.Migrator, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
				return run(m, ctx)
			})
		},
	}
}

func withMigrator(ctx context.Context, fn func(context.Context, *postgres.Migrator) error) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return errors.Wrap(err, "create logger")
	}

	_, sqlDB, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("Failed to close database", slog.Any("error", closeErr))
		}
	}()

	migrator, err := postgres.NewMigrator(sqlDB, logger)
	if err != nil {
		return err
	}

	return fn(ctx, migrator)
}
