package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtomcal/videotitan-server/internal/server"
	"github.com/urfave/cli/v3"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := r.setup(); err != nil {
				return err
			}
			defer r.Close()

			router := server.NewRouter()
			router.Use(server.RequestID(), server.Logging(r.logger))
			router.Handler(&server.HealthHandler{})
			router.Handler(server.NewUserHandler(r.engine, r.sources, r.store, r.logger))

			srv := server.New(r.config.Server, router, r.logger)

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				errc <- srv.Start()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			r.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
