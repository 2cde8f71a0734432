package main

import (
	"fmt"

	"github.com/deppfellow/movies-graphql/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			return nil
		},
	}
}
