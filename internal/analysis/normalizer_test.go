package analysis

import (
	"math"
	"testing"

	"github.com/solwatch/wallet-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGroupByMint_SortsAndGroups(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	records := []types.SwapRecord{
		{Mint: "B", Timestamp: 300, Direction: types.DirectionOut, Amount: 1},
		{Mint: "A", Timestamp: 200, Direction: types.DirectionIn, Amount: 1},
		{Mint: "B", Timestamp: 100, Direction: types.DirectionIn, Amount: 1},
		{Mint: "A", Timestamp: 50, Direction: types.DirectionIn, Amount: 2},
	}

	grouped := n.GroupByMint(records)

	require.Len(t, grouped, 2)
	require.Len(t, grouped["A"], 2)
	assert.Equal(t, int64(50), grouped["A"][0].Timestamp)
	assert.Equal(t, int64(200), grouped["A"][1].Timestamp)
	assert.Equal(t, int64(100), grouped["B"][0].Timestamp)
}

func TestGroupByMint_SkipsMalformedAndBurns(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	records := []types.SwapRecord{
		{Mint: "A", Timestamp: 1, Direction: types.DirectionIn, Amount: 1},
		{Mint: "A", Timestamp: 2, Direction: types.DirectionIn, Amount: math.NaN()},
		{Mint: "A", Timestamp: 0, Direction: types.DirectionIn, Amount: 1},
		{Mint: "A", Timestamp: 3, Direction: types.DirectionIn, Amount: math.Inf(1)},
		{Mint: "A", Timestamp: 4, Direction: types.DirectionOut, Amount: 1, InteractionType: types.InteractionBurn},
		{Mint: "A", Timestamp: 5, Direction: "sideways", Amount: 1},
	}

	grouped := n.GroupByMint(records)

	require.Len(t, grouped["A"], 1)
	assert.Equal(t, int64(1), grouped["A"][0].Timestamp)
}

func TestGroupByMint_StableSortPreservesSameTimestampOrder(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	records := []types.SwapRecord{
		{Mint: "A", Timestamp: 10, Direction: types.DirectionIn, Amount: 1, Signature: "first"},
		{Mint: "A", Timestamp: 10, Direction: types.DirectionOut, Amount: 1, Signature: "second"},
	}

	grouped := n.GroupByMint(records)

	require.Len(t, grouped["A"], 2)
	assert.Equal(t, "first", grouped["A"][0].Signature)
	assert.Equal(t, "second", grouped["A"][1].Signature)
}

func TestHasCompletedCycle(t *testing.T) {
	onlyBuys := []types.SwapRecord{
		{Direction: types.DirectionIn}, {Direction: types.DirectionIn},
	}
	onlySells := []types.SwapRecord{{Direction: types.DirectionOut}}
	full := []types.SwapRecord{
		{Direction: types.DirectionIn}, {Direction: types.DirectionOut},
	}

	assert.False(t, HasCompletedCycle(onlyBuys))
	assert.False(t, HasCompletedCycle(onlySells))
	assert.False(t, HasCompletedCycle(nil))
	assert.True(t, HasCompletedCycle(full))
}
