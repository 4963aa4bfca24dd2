// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/solwatch/wallet-analyzer/internal/storage/models"
)

// Storage is the persistence boundary of the analyzer. Swap legs are cached
// so reruns skip the Helius fetch; analysis results are kept per run.
type Storage interface {
	// Swap history
	SaveSwapRecords(ctx context.Context, rows []*models.SwapRecordRow) error
	ListSwapRecords(ctx context.Context, walletAddress string) ([]*models.SwapRecordRow, error)
	DeleteSwapRecords(ctx context.Context, walletAddress string) error

	// Analysis results
	SaveAnalysis(ctx context.Context, run *models.AnalysisRun, tokens []*models.TokenMetricsRow) error
	GetLatestAnalysis(ctx context.Context, walletAddress string) (*models.AnalysisRun, error)
	ListTokenMetrics(ctx context.Context, runID string) ([]*models.TokenMetricsRow, error)

	RunMigrations() error
}
