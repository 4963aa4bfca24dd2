// internal/app/source.go
package app

import (
	"context"
	"fmt"

	"github.com/solwatch/wallet-analyzer/internal/analysis"
	"github.com/solwatch/wallet-analyzer/internal/helius"
	"github.com/solwatch/wallet-analyzer/internal/storage"
	"github.com/solwatch/wallet-analyzer/internal/storage/models"
	"github.com/solwatch/wallet-analyzer/internal/types"
	"go.uber.org/zap"
)

// cachedSource serves swap history from Postgres when available and falls
// back to Helius, persisting what it fetched. With no storage configured it
// is a plain passthrough.
type cachedSource struct {
	client *helius.Client
	store  storage.Storage // may be nil
	logger *zap.Logger
}

func newCachedSource(client *helius.Client, store storage.Storage, logger *zap.Logger) *cachedSource {
	return &cachedSource{
		client: client,
		store:  store,
		logger: logger,
	}
}

func (s *cachedSource) FetchSwapHistory(ctx context.Context, walletAddress string) ([]types.SwapRecord, error) {
	if s.store != nil {
		rows, err := s.store.ListSwapRecords(ctx, walletAddress)
		if err != nil {
			s.logger.Warn("Swap cache lookup failed, falling back to Helius",
				zap.String("wallet", walletAddress),
				zap.Error(err))
		} else if len(rows) > 0 {
			records := make([]types.SwapRecord, 0, len(rows))
			for _, row := range rows {
				records = append(records, row.ToSwapRecord())
			}
			s.logger.Debug("Swap history served from cache",
				zap.String("wallet", walletAddress),
				zap.Int("records", len(records)))
			return records, nil
		}
	}

	records, err := s.client.FetchSwapHistory(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	if s.store != nil && len(records) > 0 {
		rows := make([]*models.SwapRecordRow, 0, len(records))
		for i := range records {
			rows = append(rows, models.FromSwapRecord(&records[i]))
		}
		if err := s.store.SaveSwapRecords(ctx, rows); err != nil {
			// Caching is best effort; the analysis proceeds regardless.
			s.logger.Warn("Failed to cache swap history",
				zap.String("wallet", walletAddress),
				zap.Error(err))
		}
	}

	return records, nil
}

// persistReport stores one wallet's analysis outcome.
func persistReport(ctx context.Context, store storage.Storage, runID string, report *analysis.WalletReport) error {
	if store == nil {
		return nil
	}

	run := &models.AnalysisRun{
		RunID:            runID,
		WalletAddress:    report.WalletAddress,
		AnalyzedAt:       report.AnalyzedAt,
		TokensSeen:       report.TokensSeen,
		TokensAnalyzed:   report.TokensAnalyzed,
		MedianHoldHours:  report.Distribution.MedianHoldHours,
		MeanHoldHours:    report.Distribution.MeanHoldHours,
		StableNetFlowSol: report.StableNetFlowSol,
	}

	pnlByMint := make(map[string]*analysis.PnLResult, len(report.PnL))
	for i := range report.PnL {
		pnlByMint[report.PnL[i].Mint] = &report.PnL[i]
	}

	tokens := make([]*models.TokenMetricsRow, 0, len(report.Positions))
	for i := range report.Positions {
		pos := &report.Positions[i]
		row := &models.TokenMetricsRow{
			RunID:                 runID,
			WalletAddress:         report.WalletAddress,
			Mint:                  pos.Mint,
			WeightedHoldTimeHours: pos.WeightedHoldTimeHrs,
			PeakPosition:          pos.PeakPosition,
			CurrentPosition:       pos.CurrentPosition,
			IsCompleted:           pos.IsCompleted,
		}
		if pnl, ok := pnlByMint[pos.Mint]; ok {
			row.TotalSolSpent = pnl.TotalSolSpent
			row.TotalSolReceived = pnl.TotalSolReceived
			row.TotalFeesPaidInSol = pnl.TotalFeesPaidInSol
			row.NetSolProfitLoss = pnl.NetSolProfitLoss
			row.IsValuePreservation = pnl.IsValuePreservation
			row.EstimatedPreservedValue = pnl.EstimatedPreservedValue
		}
		tokens = append(tokens, row)
	}

	if err := store.SaveAnalysis(ctx, run, tokens); err != nil {
		return fmt.Errorf("persist analysis for %s: %w", report.WalletAddress, err)
	}
	return nil
}
