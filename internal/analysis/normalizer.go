// internal/analysis/normalizer.go
package analysis

import (
	"sort"

	"github.com/solwatch/wallet-analyzer/internal/types"
	"go.uber.org/zap"
)

// Normalizer prepares a wallet's raw swap records for analysis: it drops
// malformed and non-economic records, groups the rest by mint and sorts each
// group ascending by timestamp.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// GroupByMint returns the per-mint chronological trade sequences. Records
// that fail validation are skipped with a warning; one bad record never
// invalidates the wallet.
func (n *Normalizer) GroupByMint(records []types.SwapRecord) map[string][]types.SwapRecord {
	grouped := make(map[string][]types.SwapRecord)

	for i := range records {
		r := records[i]
		if !r.IsValid() {
			n.logger.Warn("Skipping malformed swap record",
				zap.String("signature", r.Signature),
				zap.String("mint", r.Mint),
				zap.Int64("timestamp", r.Timestamp))
			continue
		}
		if !r.IsEconomic() {
			continue
		}
		grouped[r.Mint] = append(grouped[r.Mint], r)
	}

	for mint := range grouped {
		seq := grouped[mint]
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].Timestamp < seq[j].Timestamp
		})
	}

	return grouped
}

// HasCompletedCycle reports whether the sequence contains at least one
// acquisition and at least one disposal. Mints without a full buy/sell cycle
// are excluded from position metrics by policy, not as an error.
func HasCompletedCycle(seq []types.SwapRecord) bool {
	var hasIn, hasOut bool
	for i := range seq {
		switch seq[i].Direction {
		case types.DirectionIn:
			hasIn = true
		case types.DirectionOut:
			hasOut = true
		}
		if hasIn && hasOut {
			return true
		}
	}
	return false
}
