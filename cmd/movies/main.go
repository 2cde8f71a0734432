package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/movies-graphql/internal/config"
	"github.com/deppfellow/movies-graphql/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd returns the movies command with its subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "movies",
		Short:         "GraphQL API for the movie catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}

// bootstrap loads the configuration and builds the root logger shared by
// every subcommand. The caller owns the returned LoggerService.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, loggerService, log, nil
}
