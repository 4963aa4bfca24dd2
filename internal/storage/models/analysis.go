// internal/storage/models/analysis.go
package models

// AnalysisRun records one completed wallet analysis with its summary
// numbers. Per-mint detail lives in TokenMetricsRow.
type AnalysisRun struct {
	BaseModel
	RunID            string  `gorm:"unique;not null;type:varchar(36)"`
	WalletAddress    string  `gorm:"index;not null;type:varchar(44)"`
	AnalyzedAt       int64   `gorm:"not null"` // unix seconds, the run's "now"
	TokensSeen       int     `gorm:"not null"`
	TokensAnalyzed   int     `gorm:"not null"`
	MedianHoldHours  float64 `gorm:"type:decimal(20,9)"`
	MeanHoldHours    float64 `gorm:"type:decimal(20,9)"`
	StableNetFlowSol float64 `gorm:"type:decimal(20,9)"`
}

// TokenMetricsRow persists the per-mint output of one analysis run:
// position metrics from FIFO matching alongside the P&L aggregates.
type TokenMetricsRow struct {
	BaseModel
	RunID                   string  `gorm:"index;not null;type:varchar(36)"`
	WalletAddress           string  `gorm:"index;not null;type:varchar(44)"`
	Mint                    string  `gorm:"index;not null;type:varchar(44)"`
	WeightedHoldTimeHours   float64 `gorm:"type:decimal(20,9)"`
	PeakPosition            float64 `gorm:"type:decimal(30,9)"`
	CurrentPosition         float64 `gorm:"type:decimal(30,9)"`
	IsCompleted             bool    `gorm:"not null"`
	TotalSolSpent           float64 `gorm:"type:decimal(20,9)"`
	TotalSolReceived        float64 `gorm:"type:decimal(20,9)"`
	TotalFeesPaidInSol      float64 `gorm:"type:decimal(20,9)"`
	NetSolProfitLoss        float64 `gorm:"type:decimal(20,9)"`
	IsValuePreservation     bool    `gorm:"not null"`
	EstimatedPreservedValue float64 `gorm:"type:decimal(20,9)"`
}
