package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/movies-graphql/internal/database"
	"github.com/deppfellow/movies-graphql/internal/graph"
	"github.com/deppfellow/movies-graphql/internal/handler"
	"github.com/deppfellow/movies-graphql/internal/repository"
	"github.com/deppfellow/movies-graphql/internal/router"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/deppfellow/movies-graphql/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain.
const ShutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Apply pending migrations (except in the local environment) and serve the GraphQL API until SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	// Local databases are migrated by hand with `movies migrate`.
	if cfg.Primary.Env != "local" {
		if err := database.Migrate(ctx, &log, cfg); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, srv, &log, func() error {
		repos := repository.NewRepositories(srv)
		services := service.NewServices(repos)

		schema, err := graph.NewSchema(cfg.GraphQL, graph.NewResolver(services.Movies, srv.Metrics), &log)
		if err != nil {
			return err
		}

		handlers := handler.NewHandlers(srv, schema)
		srv.SetupHTTPServer(router.NewRouter(srv, handlers))
		return nil
	})
}

// lifecycle is the part of server.Server that run drives.
type lifecycle interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// run calls setup, serves until ctx is done or Start fails, and shuts srv
// down on every path once it exists.
func run(ctx context.Context, srv lifecycle, log *zerolog.Logger, setup func() error) (err error) {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			err = errors.Join(err, fmt.Errorf("server forced to shutdown: %w", shutdownErr))
			return
		}
		log.Info().Msg("server exited properly")
	}()

	if err := setup(); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	return nil
}
