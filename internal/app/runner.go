// internal/app/runner.go
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/solwatch/wallet-analyzer/internal/analysis"
	"github.com/solwatch/wallet-analyzer/internal/batch"
	"github.com/solwatch/wallet-analyzer/internal/config"
	"github.com/solwatch/wallet-analyzer/internal/export"
	"github.com/solwatch/wallet-analyzer/internal/helius"
	"github.com/solwatch/wallet-analyzer/internal/storage"
	"github.com/solwatch/wallet-analyzer/internal/storage/postgres"
	"go.uber.org/zap"
)

// Options are the per-invocation parameters of one analysis run.
type Options struct {
	Wallets      []string
	ExportFormat export.ExportFormat
}

// Runner wires config, ingestion, storage, analysis and export together for
// one CLI invocation.
type Runner struct {
	logger     *zap.Logger
	config     *config.Config
	store      storage.Storage // nil when postgres is not configured
	source     *cachedSource
	analyzer   *analysis.Analyzer
	exporter   *export.ReportExporter
	shutdownCh chan os.Signal
}

// NewRunner builds the runner from a loaded configuration.
func NewRunner(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	var store storage.Storage
	if cfg.PostgresURL != "" {
		var err error
		store, err = postgres.NewStorage(cfg.PostgresURL, logger)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		if err := store.RunMigrations(); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	client := helius.NewClient(
		cfg.HeliusBaseURL,
		cfg.HeliusAPIKey,
		cfg.PageLimit,
		cfg.Retries,
		time.Duration(cfg.RequestDelay)*time.Millisecond,
		logger,
	)

	stables := analysis.StableRegistry{}
	for _, mint := range cfg.StablecoinMints {
		stables[mint] = true
	}

	return &Runner{
		logger:     logger,
		config:     cfg,
		store:      store,
		source:     newCachedSource(client, store, logger),
		analyzer:   analysis.NewAnalyzer(stables, logger),
		exporter:   export.NewReportExporter(logger),
		shutdownCh: make(chan os.Signal, 1),
	}, nil
}

// Run executes one batch analysis: fetch, analyze, persist, export. It
// returns an error only when the run as a whole produced nothing usable.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if len(opts.Wallets) == 0 {
		return fmt.Errorf("no wallets to analyze")
	}

	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sig := <-r.shutdownCh
		r.logger.Info("📡 Signal received: " + sig.String())
		cancel()
	}()

	runID := uuid.New().String()
	now := time.Now().UTC()
	logger := r.logger.With(zap.String("run_id", runID))

	logger.Info(fmt.Sprintf("🔎 Analyzing %d wallets", len(opts.Wallets)))

	runner := batch.NewRunner(r.source, r.analyzer, r.config.Workers, logger)
	results := runner.Run(runCtx, opts.Wallets, now)

	var succeeded int
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			logger.Warn("Wallet analysis failed",
				zap.String("wallet", res.WalletAddress),
				zap.Error(res.Err))
			continue
		}
		succeeded++

		if err := persistReport(runCtx, r.store, runID, res.Report); err != nil {
			logger.Warn("Failed to persist report", zap.Error(err))
		}

		if _, err := r.exporter.ExportReport(res.Report, export.ExportOptions{
			Format:    opts.ExportFormat,
			OutputDir: r.config.OutputDir,
		}); err != nil {
			logger.Warn("Failed to export report",
				zap.String("wallet", res.WalletAddress),
				zap.Error(err))
		}
	}

	if succeeded == 0 {
		return fmt.Errorf("all %d wallets failed", len(opts.Wallets))
	}

	logger.Info(fmt.Sprintf("✅ Run complete: %d/%d wallets analyzed", succeeded, len(opts.Wallets)))
	return nil
}

// Shutdown flushes the logger.
func (r *Runner) Shutdown() {
	r.logger.Info("👋 Analyzer shutting down")

	if err := r.logger.Sync(); err != nil {
		if !os.IsNotExist(err) &&
			err.Error() != "sync /dev/stdout: invalid argument" &&
			err.Error() != "sync /dev/stderr: inappropriate ioctl for device" {
			fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
		}
	}
}
