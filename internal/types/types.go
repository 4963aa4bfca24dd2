// internal/types/types.go
package types

import (
	"math"

	"github.com/gagliardetto/solana-go"
)

// Direction marks which side of a swap the wallet was on for a given mint.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Interaction types carried over from the ingestion layer. Burns move
// balances without an economic counterparty and are filtered out before
// analysis.
const (
	InteractionSwap     = "swap"
	InteractionTransfer = "transfer"
	InteractionBurn     = "burn"
)

// WrappedSolMint is the canonical WSOL mint. SOL is the unit of account for
// every associated value, so it is never reported as a traded position.
var WrappedSolMint = solana.MPK("So11111111111111111111111111111111111111112")

// Well-known stablecoin mints, used as the default value-preservation set.
var (
	USDCMint = solana.MPK("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDTMint = solana.MPK("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

// SwapRecord is one executed trade leg for a wallet, as materialized by the
// ingestion layer. Immutable once created.
type SwapRecord struct {
	WalletAddress      string
	Signature          string
	Mint               string
	Timestamp          int64 // unix seconds
	Direction          Direction
	Amount             float64 // token units, non-negative
	AssociatedSolValue float64 // SOL equivalent of this leg
	FeeAmount          float64 // SOL
	InteractionType    string
}

// IsValid reports whether the record is usable for analysis. Records with
// non-finite numeric fields or a non-positive timestamp are skipped with a
// warning rather than failing the whole wallet.
func (r *SwapRecord) IsValid() bool {
	if r.Timestamp <= 0 {
		return false
	}
	if r.Direction != DirectionIn && r.Direction != DirectionOut {
		return false
	}
	for _, v := range []float64{r.Amount, r.AssociatedSolValue, r.FeeAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Amount >= 0
}

// IsEconomic reports whether the interaction represents an acquisition or a
// disposal. Burns are neither.
func (r *SwapRecord) IsEconomic() bool {
	return r.InteractionType != InteractionBurn
}
