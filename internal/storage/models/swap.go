// internal/storage/models/swap.go
package models

import "github.com/solwatch/wallet-analyzer/internal/types"

// SwapRecordRow persists one materialized swap leg so that repeated analysis
// runs do not refetch history from Helius.
type SwapRecordRow struct {
	BaseModel
	WalletAddress      string  `gorm:"index;not null;type:varchar(44)"`
	Signature          string  `gorm:"index;not null;type:varchar(88)"`
	Mint               string  `gorm:"index;not null;type:varchar(44)"`
	Timestamp          int64   `gorm:"index;not null"`
	Direction          string  `gorm:"not null;type:varchar(3)"`
	Amount             float64 `gorm:"type:decimal(30,9);not null"`
	AssociatedSolValue float64 `gorm:"type:decimal(20,9);not null"`
	FeeAmount          float64 `gorm:"type:decimal(20,9)"`
	InteractionType    string  `gorm:"not null;type:varchar(20)"`
}

// FromSwapRecord converts a domain record into its persisted form.
func FromSwapRecord(r *types.SwapRecord) *SwapRecordRow {
	return &SwapRecordRow{
		WalletAddress:      r.WalletAddress,
		Signature:          r.Signature,
		Mint:               r.Mint,
		Timestamp:          r.Timestamp,
		Direction:          string(r.Direction),
		Amount:             r.Amount,
		AssociatedSolValue: r.AssociatedSolValue,
		FeeAmount:          r.FeeAmount,
		InteractionType:    r.InteractionType,
	}
}

// ToSwapRecord converts a persisted row back to the domain type.
func (row *SwapRecordRow) ToSwapRecord() types.SwapRecord {
	return types.SwapRecord{
		WalletAddress:      row.WalletAddress,
		Signature:          row.Signature,
		Mint:               row.Mint,
		Timestamp:          row.Timestamp,
		Direction:          types.Direction(row.Direction),
		Amount:             row.Amount,
		AssociatedSolValue: row.AssociatedSolValue,
		FeeAmount:          row.FeeAmount,
		InteractionType:    row.InteractionType,
	}
}
