package analysis

import (
	"testing"
	"time"

	"github.com/solwatch/wallet-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWallet = "TestWa11et111111111111111111111111111111111"

func record(mint string, dir types.Direction, ts int64, amount, sol float64) types.SwapRecord {
	return types.SwapRecord{
		WalletAddress:      testWallet,
		Mint:               mint,
		Timestamp:          ts,
		Direction:          dir,
		Amount:             amount,
		AssociatedSolValue: sol,
		InteractionType:    types.InteractionSwap,
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	a := NewAnalyzer(DefaultStableRegistry(), zap.NewNop())
	now := time.Unix(100000, 0)

	records := []types.SwapRecord{
		// Full cycle on mint "MEME": 1h hold, fully exited.
		record("MEME", types.DirectionIn, 1000, 100, 1.0),
		record("MEME", types.DirectionOut, 4600, 100, 1.5),
		// Buy-only mint: P&L yes, position metrics no.
		record("BAGS", types.DirectionIn, 2000, 50, 0.5),
		// Stablecoin parked: value preservation kicks in.
		record(types.USDCMint.String(), types.DirectionIn, 3000, 1000, 10),
	}

	report := a.Analyze(testWallet, records, now)

	assert.Equal(t, testWallet, report.WalletAddress)
	assert.Equal(t, now.Unix(), report.AnalyzedAt)
	assert.Equal(t, 3, report.TokensSeen)
	assert.Equal(t, 1, report.TokensAnalyzed)

	require.Len(t, report.Positions, 1)
	pos := report.Positions[0]
	assert.Equal(t, "MEME", pos.Mint)
	assert.InDelta(t, 1.0, pos.WeightedHoldTimeHrs, 1e-9)
	assert.True(t, pos.IsCompleted)

	require.Len(t, report.PnL, 3)
	byMint := map[string]PnLResult{}
	for _, p := range report.PnL {
		byMint[p.Mint] = p
	}
	assert.InDelta(t, 0.5, byMint["MEME"].NetSolProfitLoss, 1e-9)
	assert.InDelta(t, -0.5, byMint["BAGS"].NetSolProfitLoss, 1e-9)

	usdc := byMint[types.USDCMint.String()]
	assert.True(t, usdc.IsValuePreservation)
	assert.InDelta(t, 10.0, usdc.EstimatedPreservedValue, 1e-9)
	assert.InDelta(t, 10.0, report.StableNetFlowSol, 1e-9)

	assert.Equal(t, 1, report.Distribution.TotalTokens)
}

func TestAnalyze_ExcludesWrappedSol(t *testing.T) {
	a := NewAnalyzer(nil, zap.NewNop())
	wsol := types.WrappedSolMint.String()

	records := []types.SwapRecord{
		record(wsol, types.DirectionIn, 100, 5, 5),
		record(wsol, types.DirectionOut, 200, 5, 5),
	}

	report := a.Analyze(testWallet, records, time.Unix(1000, 0))

	assert.Empty(t, report.PnL)
	assert.Empty(t, report.Positions)
	assert.Equal(t, 1, report.TokensSeen)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer(DefaultStableRegistry(), zap.NewNop())
	now := time.Unix(50000, 0)

	records := []types.SwapRecord{
		record("X", types.DirectionIn, 100, 10, 0.1),
		record("Y", types.DirectionIn, 150, 20, 0.2),
		record("X", types.DirectionOut, 200, 4, 0.05),
		record("Y", types.DirectionOut, 250, 20, 0.25),
	}

	first := a.Analyze(testWallet, records, now)
	second := a.Analyze(testWallet, records, now)

	require.Equal(t, first, second)
}

func TestAnalyze_EmptyWallet(t *testing.T) {
	a := NewAnalyzer(nil, zap.NewNop())

	report := a.Analyze(testWallet, nil, time.Unix(1, 0))

	assert.Zero(t, report.TokensSeen)
	assert.Empty(t, report.Positions)
	assert.Len(t, report.Distribution.Buckets, 10)
}
