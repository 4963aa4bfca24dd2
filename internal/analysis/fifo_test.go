package analysis

import (
	"testing"

	"github.com/solwatch/wallet-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMint = "FakeMint1111111111111111111111111111111111"

func in(ts int64, amount float64) types.SwapRecord {
	return types.SwapRecord{
		Mint:            testMint,
		Timestamp:       ts,
		Direction:       types.DirectionIn,
		Amount:          amount,
		InteractionType: types.InteractionSwap,
	}
}

func out(ts int64, amount float64) types.SwapRecord {
	r := in(ts, amount)
	r.Direction = types.DirectionOut
	return r
}

func TestMatchLots_FullExit(t *testing.T) {
	// Buy 100 at t=0 (use t=1, timestamps must be positive), sell all one
	// hour later.
	seq := []types.SwapRecord{in(1, 100), out(3601, 100)}

	m := MatchLots(seq, 10000)

	assert.InDelta(t, 1.0, m.WeightedHoldTimeHrs, 1e-9)
	assert.Equal(t, 100.0, m.PeakPosition)
	assert.Equal(t, 0.0, m.CurrentPosition)
	assert.True(t, m.IsCompleted)
	assert.Zero(t, m.UnmatchedDisposals)
}

func TestMatchLots_PartialLotConsumption(t *testing.T) {
	// Buy 100 at t=0, buy 50 at t=100, sell 120 at t=200. The disposal
	// drains the first lot fully and 20 units of the second:
	// 100*200s + 20*100s = 22000 unit-seconds over 120 units.
	base := int64(1000)
	seq := []types.SwapRecord{
		in(base, 100),
		in(base+100, 50),
		out(base+200, 120),
	}

	m := MatchLots(seq, base+100000)

	expected := (22000.0 / 120.0) / 3600.0
	assert.InDelta(t, expected, m.WeightedHoldTimeHrs, 1e-9)
	assert.Equal(t, 150.0, m.PeakPosition)
	assert.InDelta(t, 30.0, m.CurrentPosition, 1e-9)

	// 30 remaining == exactly 20% of peak 150: boundary is inclusive, the
	// leftover lot must not contribute unrealized time.
	assert.True(t, m.IsCompleted)
}

func TestMatchLots_OpenPositionFoldsUnrealizedTime(t *testing.T) {
	// Buy 100, sell only 10. 90 > 20% of 100, so the open lot contributes
	// its hold time up to "now".
	seq := []types.SwapRecord{in(1000, 100), out(2000, 10)}
	now := int64(1000 + 7200) // lot held two hours at analysis time

	m := MatchLots(seq, now)

	assert.Equal(t, 100.0, m.PeakPosition)
	assert.InDelta(t, 90.0, m.CurrentPosition, 1e-9)
	assert.False(t, m.IsCompleted)

	// 10 units held 1000s + 90 units held 7200s.
	expected := (10*1000.0 + 90*7200.0) / 100.0 / 3600.0
	assert.InDelta(t, expected, m.WeightedHoldTimeHrs, 1e-9)
}

func TestMatchLots_FIFOOrdering(t *testing.T) {
	// Three lots; a sell of 10 must consume only the oldest.
	seq := []types.SwapRecord{
		in(100, 10),
		in(200, 10),
		in(300, 10),
		out(400, 10),
	}

	m := MatchLots(seq, 500)

	// Oldest lot held 300s. Remaining 20 units (> 20% of 30) fold in their
	// unrealized time: 10 units for 300s, 10 units for 200s.
	expected := (10*300.0 + 10*300.0 + 10*200.0) / 30.0 / 3600.0
	assert.InDelta(t, expected, m.WeightedHoldTimeHrs, 1e-9)
	assert.False(t, m.IsCompleted)
}

func TestMatchLots_UnmatchedDisposalDropped(t *testing.T) {
	// Selling more than was ever acquired: the excess contributes nothing
	// but is counted for diagnostics.
	seq := []types.SwapRecord{in(100, 50), out(200, 80)}

	m := MatchLots(seq, 1000)

	assert.Equal(t, 1, m.UnmatchedDisposals)
	assert.InDelta(t, 30.0, m.UnmatchedSellVolume, 1e-9)
	assert.Equal(t, 0.0, m.CurrentPosition)
	assert.True(t, m.IsCompleted)

	// Only the matched 50 units carry duration.
	assert.InDelta(t, (100.0/3600.0), m.WeightedHoldTimeHrs, 1e-9)
}

func TestMatchLots_NoProcessedAmountYieldsZero(t *testing.T) {
	// A lone disposal with no lots: nothing processed, never NaN.
	m := MatchLots([]types.SwapRecord{out(100, 5)}, 1000)

	assert.Equal(t, 0.0, m.WeightedHoldTimeHrs)
	assert.Equal(t, 0.0, m.PeakPosition)
	assert.Equal(t, 1, m.UnmatchedDisposals)
}

func TestMatchLots_PeakNeverBelowCurrent(t *testing.T) {
	cases := [][]types.SwapRecord{
		{in(1, 10)},
		{in(1, 10), out(2, 4), in(3, 7), out(4, 2)},
		{in(1, 5), in(2, 5), out(3, 10), in(4, 3)},
		{in(1, 10), out(2, 15)},
	}
	for _, seq := range cases {
		m := MatchLots(seq, 100)
		assert.GreaterOrEqual(t, m.PeakPosition, m.CurrentPosition)
	}
}

func TestMatchLots_Idempotent(t *testing.T) {
	seq := []types.SwapRecord{
		in(100, 100), in(200, 50), out(300, 120), in(400, 10), out(500, 25),
	}
	first := MatchLots(seq, 9999)
	second := MatchLots(seq, 9999)
	require.Equal(t, first, second)
}

func TestIsCompleted_Boundary(t *testing.T) {
	assert.True(t, IsCompleted(150, 30))  // exactly 20%
	assert.False(t, IsCompleted(150, 31)) // just above
	assert.True(t, IsCompleted(100, 0))
	assert.True(t, IsCompleted(0, 0))
}
