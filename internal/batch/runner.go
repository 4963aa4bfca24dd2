// internal/batch/runner.go
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/solwatch/wallet-analyzer/internal/analysis"
	"github.com/solwatch/wallet-analyzer/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source supplies a wallet's swap history. Satisfied by the Helius client
// and by storage-backed replays.
type Source interface {
	FetchSwapHistory(ctx context.Context, walletAddress string) ([]types.SwapRecord, error)
}

// Result is the outcome of analyzing one wallet. Err is set when the wallet
// failed; the rest of the batch is unaffected.
type Result struct {
	WalletAddress string
	Report        *analysis.WalletReport
	Err           error
}

// Runner fans a batch of wallets out over a bounded worker group. Every
// wallet of one run shares the same "now" so results stay comparable.
type Runner struct {
	source   Source
	analyzer *analysis.Analyzer
	workers  int
	logger   *zap.Logger
}

func NewRunner(source Source, analyzer *analysis.Analyzer, workers int, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		source:   source,
		analyzer: analyzer,
		workers:  workers,
		logger:   logger,
	}
}

// Run analyzes every wallet and returns one result per wallet, in input
// order. Per-wallet failures are captured in the result, never propagated:
// one broken wallet must not halt the batch.
func (r *Runner) Run(ctx context.Context, wallets []string, now time.Time) []Result {
	results := make([]Result, len(wallets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	r.logger.Info("Starting batch analysis",
		zap.Int("wallets", len(wallets)),
		zap.Int("workers", r.workers),
		zap.Time("now", now))

	for i, wallet := range wallets {
		i, wallet := i, wallet
		g.Go(func() error {
			results[i] = r.analyzeWallet(gctx, wallet, now)
			return nil
		})
	}

	// Workers only record errors, they never return them.
	_ = g.Wait()

	var failed int
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}
	r.logger.Info("Batch analysis finished",
		zap.Int("wallets", len(wallets)),
		zap.Int("failed", failed))

	return results
}

func (r *Runner) analyzeWallet(ctx context.Context, walletAddress string, now time.Time) (res Result) {
	res.WalletAddress = walletAddress

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("panic analyzing wallet %s: %v", walletAddress, rec)
			r.logger.Error("Recovered from panic during wallet analysis",
				zap.String("wallet", walletAddress),
				zap.Any("panic", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	records, err := r.source.FetchSwapHistory(ctx, walletAddress)
	if err != nil {
		res.Err = fmt.Errorf("fetch history: %w", err)
		r.logger.Warn("Skipping wallet, history fetch failed",
			zap.String("wallet", walletAddress),
			zap.Error(err))
		return res
	}

	res.Report = r.analyzer.Analyze(walletAddress, records, now)
	return res
}
