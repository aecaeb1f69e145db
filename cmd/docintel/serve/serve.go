// Package serve implements the serve command, which runs the HTTP API in
// the foreground until interrupted.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-docs/docintel/internal/app"
	"github.com/agentic-docs/docintel/internal/capability/insights"
	"github.com/agentic-docs/docintel/internal/capability/tts"
	"github.com/agentic-docs/docintel/internal/cmdutil"
	"github.com/agentic-docs/docintel/internal/httpapi"
	"github.com/agentic-docs/docintel/internal/metrics"
	"github.com/agentic-docs/docintel/internal/ttl"
	"github.com/agentic-docs/docintel/internal/watcher"
)

// ServeCmd runs the HTTP API in the foreground.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: "Run the HTTP API in the foreground.\n\n" +
		"Exposes ingest, search, storage, and capability routes over HTTP, watches the " +
		"blob store for PDFs dropped outside the partition layout, and runs the " +
		"retention sweep on a timer. Stops on SIGINT or SIGTERM.",
	Example: `  # Start the server in the foreground
  docintel serve

  # Start with a specific config file
  docintel --config ./config.yaml serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := cmdutil.Config()
	logger := cmdutil.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize components; %w", err)
	}
	defer a.Close(context.Background())

	srv := httpapi.NewServer(httpapi.ServerConfig{
		Port:               cfg.Server.HTTPPort,
		Bind:               cfg.Server.HTTPBind,
		ShutdownTimeout:    time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
		IngestRateLimitRPM: cfg.Server.IngestRateLimitRPM,
	}, a.Store, a.Index, a.Embedder, a.Registry, logger)

	srv.SetMetricsHandler(metrics.Handler())

	insightsProvider := insights.NewFromConfig(cfg.Insights)
	srv.SetInsightsFunc(insightsProvider.Insights)

	srv.SetAudioFunc(tts.Disabled{}.Synthesize)

	w, err := watcher.New(cfg.Storage.BlobRootDir, a.Lifecycle.Migrate, watcher.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to start legacy-file watcher; %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start legacy-file watcher; %w", err)
	}
	defer w.Stop()

	sweeper := ttl.New(a.Store,
		time.Duration(cfg.TTL.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.TTL.MaxAgeHours)*time.Hour,
		ttl.WithLogger(logger),
	)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}()

	logger.Info("docintel serving",
		"http_bind", cfg.Server.HTTPBind,
		"http_port", cfg.Server.HTTPPort,
		"graph_connected", a.Graph != nil,
	)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("http server error; %w", err)
	}
	return nil
}
