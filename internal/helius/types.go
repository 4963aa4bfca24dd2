// internal/helius/types.go
package helius

// EnhancedTransaction is the subset of the Helius enhanced-transactions
// payload the analyzer consumes.
type EnhancedTransaction struct {
	Signature      string          `json:"signature"`
	Timestamp      int64           `json:"timestamp"`
	Type           string          `json:"type"`
	Fee            int64           `json:"fee"` // lamports
	FeePayer       string          `json:"feePayer"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
	Events         Events          `json:"events"`
}

type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
}

type Events struct {
	Swap *SwapEvent `json:"swap,omitempty"`
}

// SwapEvent carries the native (SOL) legs of a swap.
type SwapEvent struct {
	NativeInput  *NativeBalance `json:"nativeInput,omitempty"`
	NativeOutput *NativeBalance `json:"nativeOutput,omitempty"`
}

type NativeBalance struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"` // lamports
}

// Transaction types emitted by Helius that the mapper cares about.
const (
	TxTypeSwap     = "SWAP"
	TxTypeTransfer = "TRANSFER"
	TxTypeBurn     = "BURN"
)
