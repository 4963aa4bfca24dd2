// internal/analysis/pnl.go
package analysis

import (
	"github.com/solwatch/wallet-analyzer/internal/types"
)

// PnLResult holds per-mint profit-and-loss aggregates for one wallet.
type PnLResult struct {
	Mint                    string  `json:"mint"`
	TotalAmountIn           float64 `json:"total_amount_in"`
	TotalAmountOut          float64 `json:"total_amount_out"`
	NetAmountChange         float64 `json:"net_amount_change"`
	TotalSolSpent           float64 `json:"total_sol_spent"`
	TotalSolReceived        float64 `json:"total_sol_received"`
	TotalFeesPaidInSol      float64 `json:"total_fees_paid_in_sol"`
	NetSolProfitLoss        float64 `json:"net_sol_profit_loss"`
	IsValuePreservation     bool    `json:"is_value_preservation"`
	EstimatedPreservedValue float64 `json:"estimated_preserved_value"`
}

// AdjustedNetSolProfitLoss adds back the SOL value still parked in an unsold
// stable balance. A stablecoin held rather than sold has not lost value even
// though its raw P&L shows a pure spend.
func (r *PnLResult) AdjustedNetSolProfitLoss() float64 {
	return r.NetSolProfitLoss + r.EstimatedPreservedValue
}

// StableRegistry is the injected set of value-preservation mints. It is
// configuration, never derived from trade data.
type StableRegistry map[string]bool

// DefaultStableRegistry covers the major SOL-ecosystem stablecoins.
func DefaultStableRegistry() StableRegistry {
	return StableRegistry{
		types.USDCMint.String(): true,
		types.USDTMint.String(): true,
	}
}

// AggregatePnL computes the gross and net monetary aggregates for one mint's
// chronological trade sequence. Unlike MatchLots this is a plain running-sum
// pass; the two reconcile but are computed independently.
func AggregatePnL(seq []types.SwapRecord, stables StableRegistry) PnLResult {
	r := PnLResult{}
	if len(seq) > 0 {
		r.Mint = seq[0].Mint
	}

	for i := range seq {
		ev := &seq[i]
		switch ev.Direction {
		case types.DirectionIn:
			r.TotalAmountIn += ev.Amount
			r.TotalSolSpent += ev.AssociatedSolValue
		case types.DirectionOut:
			r.TotalAmountOut += ev.Amount
			r.TotalSolReceived += ev.AssociatedSolValue
		}
		r.TotalFeesPaidInSol += ev.FeeAmount
	}

	r.NetAmountChange = r.TotalAmountIn - r.TotalAmountOut
	r.NetSolProfitLoss = r.TotalSolReceived - r.TotalSolSpent - r.TotalFeesPaidInSol
	r.IsValuePreservation = stables[r.Mint]

	if r.IsValuePreservation && r.NetAmountChange > 0 {
		var avgCostBasis float64
		if r.TotalAmountIn > 0 {
			avgCostBasis = r.TotalSolSpent / r.TotalAmountIn
		}
		r.EstimatedPreservedValue = r.NetAmountChange * avgCostBasis
	}

	return r
}
