package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsaver/clipsaver/internal/api"
	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/pkg/config"
	"github.com/clipsaver/clipsaver/pkg/download"
	"github.com/clipsaver/clipsaver/pkg/orchestrator"
	"github.com/clipsaver/clipsaver/pkg/reaper"
	"github.com/clipsaver/clipsaver/pkg/registry"
	"github.com/clipsaver/clipsaver/pkg/storage"
)

const shutdownGrace = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the clipsaver service",
		Long: `Run the clipsaver HTTP service.

The service accepts short-video URLs, downloads them to temporary storage,
and exposes task state for pollers. A background reaper reclaims expired
files and stale task records. The service runs until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), listenAddr)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, listenAddr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.InitLogger(cfg.Settings.LogLevel)
	if listenAddr != "" {
		cfg.Settings.ListenAddr = listenAddr
	}

	tasks := registry.NewManager()
	files, err := storage.NewManager(cfg.Settings.TempDir)
	if err != nil {
		return fmt.Errorf("failed to prepare storage: %w", err)
	}

	orch := orchestrator.New(tasks, files, download.NewHTTPRetriever(nil), orchestratorOptions(cfg), orchestrator.Hooks{})

	server := api.NewServer(orch)
	server.EnableMetrics()
	httpServer := &http.Server{
		Addr:              cfg.Settings.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	r := reaper.New(files, tasks, cfg.Settings.CleanupInterval, cfg.Settings.MaxFileAge, cfg.Settings.MaxTaskAge)
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go r.Run(reaperCtx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{"addr": cfg.Settings.ListenAddr})
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)
	stopReaper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", logger.Fields{"error": err})
	}

	// Let in-flight downloads reach a terminal state before exiting.
	orch.Wait()
	return nil
}

func orchestratorOptions(cfg *config.Config) orchestrator.Options {
	return orchestrator.Options{
		MaxSizeBytes:   cfg.MaxFileSizeBytes(),
		Format:         cfg.Retrieval.Format,
		UserAgent:      cfg.Retrieval.UserAgent,
		AttemptTimeout: cfg.Retrieval.AttemptTimeout,
		MaxRetries:     cfg.Retrieval.MaxRetries,
	}
}
