// internal/helius/client.go
package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/solwatch/wallet-analyzer/internal/types"
	"go.uber.org/zap"
)

const lamportsPerSol = 1_000_000_000.0

// Client fetches a wallet's swap history from the Helius
// enhanced-transactions API and materializes SwapRecords for analysis.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageLimit  int
	maxRetries int
	pageDelay  time.Duration
	logger     *zap.Logger
}

// NewClient creates a Helius client.
func NewClient(baseURL, apiKey string, pageLimit, maxRetries int, pageDelay time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		pageLimit:  pageLimit,
		maxRetries: maxRetries,
		pageDelay:  pageDelay,
		logger:     logger.Named("helius"),
	}
}

// FetchSwapHistory pages through the wallet's transaction history and
// returns every swap/transfer/burn leg touching the wallet, oldest data
// included. The records are unordered; the normalizer sorts them.
func (c *Client) FetchSwapHistory(ctx context.Context, walletAddress string) ([]types.SwapRecord, error) {
	if _, err := solana.PublicKeyFromBase58(walletAddress); err != nil {
		return nil, fmt.Errorf("invalid wallet address %q: %w", walletAddress, err)
	}

	var (
		records []types.SwapRecord
		before  string
		pages   int
	)

	for {
		txs, err := c.fetchPage(ctx, walletAddress, before)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", pages+1, err)
		}
		pages++

		for i := range txs {
			records = append(records, c.mapTransaction(&txs[i], walletAddress)...)
		}

		if len(txs) < c.pageLimit {
			break
		}
		before = txs[len(txs)-1].Signature

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}

	c.logger.Info("Swap history fetched",
		zap.String("wallet", walletAddress),
		zap.Int("pages", pages),
		zap.Int("records", len(records)))

	return records, nil
}

// fetchPage requests one page with exponential backoff on transient errors.
func (c *Client) fetchPage(ctx context.Context, walletAddress, before string) ([]EnhancedTransaction, error) {
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions", c.baseURL, walletAddress)

	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("limit", fmt.Sprintf("%d", c.pageLimit))
	if before != "" {
		params.Set("before", before)
	}
	requestURL := endpoint + "?" + params.Encode()

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = 500 * time.Millisecond
	backoffPolicy.MaxInterval = 10 * time.Second

	notify := func(err error, duration time.Duration) {
		c.logger.Info("Retrying Helius request after error",
			zap.Error(err), zap.Duration("backoff", duration))
	}

	operation := func() ([]EnhancedTransaction, error) {
		return c.doRequest(ctx, requestURL)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(uint(c.maxRetries)),
		backoff.WithNotify(notify))
}

func (c *Client) doRequest(ctx context.Context, requestURL string) ([]EnhancedTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		// Client errors other than rate limiting will not heal on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var txs []EnhancedTransaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return txs, nil
}

// mapTransaction converts one enhanced transaction into the wallet's swap
// legs. Each token transfer touching the wallet becomes one record; the
// native SOL leg of the swap event is attached as the associated value.
func (c *Client) mapTransaction(tx *EnhancedTransaction, walletAddress string) []types.SwapRecord {
	var out []types.SwapRecord

	interaction := types.InteractionTransfer
	switch tx.Type {
	case TxTypeSwap:
		interaction = types.InteractionSwap
	case TxTypeBurn:
		interaction = types.InteractionBurn
	case TxTypeTransfer:
		interaction = types.InteractionTransfer
	default:
		return nil
	}

	var solIn, solOut float64
	if tx.Events.Swap != nil {
		if tx.Events.Swap.NativeInput != nil && tx.Events.Swap.NativeInput.Account == walletAddress {
			solIn = float64(tx.Events.Swap.NativeInput.Amount) / lamportsPerSol
		}
		if tx.Events.Swap.NativeOutput != nil && tx.Events.Swap.NativeOutput.Account == walletAddress {
			solOut = float64(tx.Events.Swap.NativeOutput.Amount) / lamportsPerSol
		}
	}

	var fee float64
	if tx.FeePayer == walletAddress {
		fee = float64(tx.Fee) / lamportsPerSol
	}

	for i := range tx.TokenTransfers {
		tt := &tx.TokenTransfers[i]

		var direction types.Direction
		var solValue float64
		switch {
		case tt.ToUserAccount == walletAddress:
			direction = types.DirectionIn
			solValue = solIn // SOL paid out of the wallet bought this leg
		case tt.FromUserAccount == walletAddress:
			direction = types.DirectionOut
			solValue = solOut
		default:
			continue
		}

		out = append(out, types.SwapRecord{
			WalletAddress:      walletAddress,
			Signature:          tx.Signature,
			Mint:               tt.Mint,
			Timestamp:          tx.Timestamp,
			Direction:          direction,
			Amount:             tt.TokenAmount,
			AssociatedSolValue: solValue,
			FeeAmount:          fee,
			InteractionType:    interaction,
		})
		// The transaction fee belongs to the transaction, not to every leg.
		fee = 0
	}

	return out
}
