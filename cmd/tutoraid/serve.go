package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/handler"
	"github.com/wpinrui/tp/pkg/config"
)

func (c *cli) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the HTTP API",
		GroupID: "runtime",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from PORT)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	if a.cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      a.cfg.APIPrefix,
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
		EnableMetrics:  a.cfg.Metrics.Enabled,
		EnableDocs:     a.cfg.Env != config.EnvProduction,
		Heartbeat:      a.cfg.Events.Heartbeat,
		Storage:        a.data.Describe(),
	}, handler.RouterDeps{
		Commands: a.commands,
		Streams:  a.notifier,
		Exports:  a.exports,
		Metrics:  a.metrics,
		Logger:   a.logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("storage", a.data.Describe()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Open event streams would hold Shutdown until the timeout.
	a.notifier.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
