// internal/analysis/analyzer.go
package analysis

import (
	"sort"
	"time"

	"github.com/solwatch/wallet-analyzer/internal/types"
	"go.uber.org/zap"
)

// WalletReport is the full analysis output for one wallet: per-mint position
// metrics and P&L, plus the wallet-level hold-time distribution.
type WalletReport struct {
	WalletAddress    string             `json:"wallet_address"`
	AnalyzedAt       int64              `json:"analyzed_at"` // the injected "now", unix seconds
	Positions        []PositionMetrics  `json:"positions"`
	PnL              []PnLResult        `json:"pnl"`
	Distribution     DistributionReport `json:"distribution"`
	StableNetFlowSol float64            `json:"stable_net_flow_sol"`
	TokensSeen       int                `json:"tokens_seen"`
	TokensAnalyzed   int                `json:"tokens_analyzed"`
}

// Analyzer runs the full per-wallet computation. It is stateless between
// runs: the output is a pure function of the record slice, the stable
// registry and the supplied "now".
type Analyzer struct {
	normalizer *Normalizer
	stables    StableRegistry
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer with the given value-preservation
// registry. Pass nil to analyze with an empty registry.
func NewAnalyzer(stables StableRegistry, logger *zap.Logger) *Analyzer {
	if stables == nil {
		stables = StableRegistry{}
	}
	return &Analyzer{
		normalizer: NewNormalizer(logger),
		stables:    stables,
		logger:     logger,
	}
}

// Analyze computes every metric for one wallet. A single consistent "now"
// must be used across all wallets of a run so that unrealized hold times
// stay comparable.
func (a *Analyzer) Analyze(walletAddress string, records []types.SwapRecord, now time.Time) *WalletReport {
	report := &WalletReport{
		WalletAddress: walletAddress,
		AnalyzedAt:    now.Unix(),
	}

	grouped := a.normalizer.GroupByMint(records)
	report.TokensSeen = len(grouped)

	mints := make([]string, 0, len(grouped))
	for mint := range grouped {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	wsol := types.WrappedSolMint.String()
	for _, mint := range mints {
		seq := grouped[mint]

		// SOL is the unit of account, not a traded position.
		if mint != wsol {
			pnl := AggregatePnL(seq, a.stables)
			report.PnL = append(report.PnL, pnl)
			if pnl.IsValuePreservation {
				report.StableNetFlowSol += pnl.TotalSolSpent - pnl.TotalSolReceived
			}
		}

		// Position metrics only make sense for a full buy/sell cycle.
		if mint == wsol || !HasCompletedCycle(seq) {
			continue
		}

		pm := MatchLots(seq, now.Unix())
		if pm.UnmatchedDisposals > 0 {
			a.logger.Debug("Disposal volume exceeded tracked lots",
				zap.String("wallet", walletAddress),
				zap.String("mint", mint),
				zap.Int("occurrences", pm.UnmatchedDisposals),
				zap.Float64("dropped_volume", pm.UnmatchedSellVolume))
		}
		report.Positions = append(report.Positions, pm)
	}

	report.TokensAnalyzed = len(report.Positions)
	report.Distribution = BuildDistribution(report.Positions)

	a.logger.Info("Wallet analysis complete",
		zap.String("wallet", walletAddress),
		zap.Int("tokens_seen", report.TokensSeen),
		zap.Int("tokens_analyzed", report.TokensAnalyzed),
		zap.Float64("median_hold_hours", report.Distribution.MedianHoldHours))

	return report
}
