// ABOUTME: CLI command for running the HTTP API.
// ABOUTME: Builds the zap logger and shuts down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/harperreed/bp/internal/logging"
	"github.com/harperreed/bp/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

ROUTES:

  POST   /api/readings        Create from {"input":"120/80/72"} or structured fields
  GET    /api/readings        List with ?limit=&offset=&days=
  GET    /api/readings/{id}   Fetch one reading with its category
  DELETE /api/readings/{id}   Delete a reading
  GET    /api/stats           Summary statistics, ?days=
  GET    /api/export          CSV download, ?from=YYYY-MM-DD&to=YYYY-MM-DD
  GET    /healthz             Liveness check

Host, port, and timeouts come from config (BP_SERVER_HOST, BP_SERVER_PORT);
--host and --port override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverCfg := cfg.Server
		if cmd.Flags().Changed("host") {
			serverCfg.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			serverCfg.Port = servePort
		}

		logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, "bp")
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		server := web.NewServer(store, logger, serverCfg.RequestTimeout)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(serverCfg.Addr())
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down", zap.Duration("timeout", serverCfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
