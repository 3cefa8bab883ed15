package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/config"
	"github.com/syncr-go/syncr/pkg/endpoint"
	"github.com/syncr-go/syncr/pkg/metrics"
	"github.com/syncr-go/syncr/pkg/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daemon",
	Long: `Run the sync daemon: bind the transport, re-arm every stored watch,
accept incoming sessions, and react to local filesystem changes. Blocks
until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	t, err := newTransport(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	localID, err := t.LocalID()
	if err != nil {
		return fmt.Errorf("failed to determine local identity: %w", err)
	}
	logger.Info("local identity", "peer", localID.String())

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	m, metricsSrv := setupMetrics(cfg)
	if metricsSrv != nil {
		go serveMetrics(metricsSrv, cfg.Metrics.Addr)
		defer metricsSrv.Shutdown(context.Background())
	}

	w, err := watcher.New(watcher.WithDropHook(m.WatcherEventDropped))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	ep, err := endpoint.New(t, s, w, cfg.Session.ShutdownGrace, m)
	if err != nil {
		return fmt.Errorf("failed to build endpoint: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- ep.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("syncr is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}

// setupMetrics builds a *metrics.Metrics and, when enabled, an *http.Server
// ready to expose it; the server is not yet listening. m is nil when
// metrics are disabled, in which case every recording call is a no-op.
func setupMetrics(cfg *config.Config) (*metrics.Metrics, *http.Server) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	return m, srv
}

func serveMetrics(srv *http.Server, addr string) {
	logger.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
