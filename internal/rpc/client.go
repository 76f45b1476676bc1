// Package rpc provides the JSON-RPC access layer: a round-robin pool of EVM
// endpoints with indefinite backoff, the endpoint probe, and a Solana client.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/time/rate"

	"bridgescan/internal/models"
)

const (
	requestTimeout = 10 * time.Second
	initialBackoff = 1 * time.Second
	maxBackoff     = 5 * time.Minute
)

// Client is a round-robin pool of JSON-RPC endpoints for one chain. Failed
// requests rotate to the next endpoint and retry with exponential backoff
// until the context is cancelled.
type Client struct {
	blockchain string
	endpoints  []string
	http       *http.Client
	limiter    *rate.Limiter

	mu  sync.Mutex
	idx int
}

func NewClient(blockchain string, endpoints []string) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints for blockchain %q", blockchain)
	}
	return &Client{
		blockchain: blockchain,
		endpoints:  endpoints,
		http:       &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(20*len(endpoints)), 20*len(endpoints)),
	}, nil
}

func (c *Client) Blockchain() string { return c.blockchain }

// EndpointCount feeds the extractor's worker-count formula.
func (c *Client) EndpointCount() int { return len(c.endpoints) }

func (c *Client) nextEndpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	url := c.endpoints[c.idx]
	c.idx = (c.idx + 1) % len(c.endpoints)
	return url
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one JSON-RPC request against one endpoint.
func (c *Client) callOnce(ctx context.Context, url, method string, params []any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", method, resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if result != nil {
		if err := json.Unmarshal(decoded.Result, result); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// Call rotates endpoints and retries until success or context cancellation.
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	backoff := initialBackoff
	for {
		url := c.nextEndpoint()
		err := c.callOnce(ctx, url, method, params, result)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Printf("[rpc] Warn: %s %s failed on %s, retrying in %s: %v", c.blockchain, method, url, backoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

type rawLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
	Removed         bool     `json:"removed"`
}

// Logs fetches logs emitted by one contract over a block range. The topics
// slice is OR-combined in topic0 position, matching the per-group filters the
// handlers register.
func (c *Client) Logs(ctx context.Context, contract string, topics []string, fromBlock, toBlock uint64) ([]models.Log, error) {
	filter := map[string]any{
		"address":   contract,
		"fromBlock": hexutil.EncodeUint64(fromBlock),
		"toBlock":   hexutil.EncodeUint64(toBlock),
	}
	if len(topics) > 0 {
		filter["topics"] = []any{topics}
	}

	var raw []rawLog
	if err := c.Call(ctx, "eth_getLogs", []any{filter}, &raw); err != nil {
		return nil, err
	}

	logs := make([]models.Log, 0, len(raw))
	for _, l := range raw {
		if l.Removed {
			continue
		}
		bn, err := hexutil.DecodeUint64(l.BlockNumber)
		if err != nil {
			return nil, fmt.Errorf("log block number %q: %w", l.BlockNumber, err)
		}
		var li uint64
		if l.LogIndex != "" {
			li, err = hexutil.DecodeUint64(l.LogIndex)
			if err != nil {
				return nil, fmt.Errorf("log index %q: %w", l.LogIndex, err)
			}
		}
		logs = append(logs, models.Log{
			Blockchain:      c.blockchain,
			Address:         l.Address,
			Topics:          l.Topics,
			Data:            l.Data,
			BlockNumber:     bn,
			TransactionHash: l.TransactionHash,
			LogIndex:        uint(li),
		})
	}
	return logs, nil
}

// Receipt is the subset of eth_getTransactionReceipt the pipeline needs.
type Receipt struct {
	TransactionHash   string `json:"transactionHash"`
	BlockNumber       string `json:"blockNumber"`
	From              string `json:"from"`
	To                string `json:"to"`
	Status            string `json:"status"`
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
}

func (c *Client) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	var r *Receipt
	if err := c.Call(ctx, "eth_getTransactionReceipt", []any{hash}, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("receipt not found for %s", hash)
	}
	return r, nil
}

// Header is the subset of eth_getBlockByNumber the pipeline needs.
type Header struct {
	Number    string `json:"number"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*Header, error) {
	var h *Header
	if err := c.Call(ctx, "eth_getBlockByNumber", []any{hexutil.EncodeUint64(number), false}, &h); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("block %d not found", number)
	}
	return h, nil
}

func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var raw string
	if err := c.Call(ctx, "eth_blockNumber", []any{}, &raw); err != nil {
		return 0, err
	}
	return hexutil.DecodeUint64(raw)
}

// BlockByTimestamp binary-searches for the earliest block at or after ts.
func (c *Client) BlockByTimestamp(ctx context.Context, ts int64) (uint64, error) {
	latest, err := c.LatestBlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	lo, hi := uint64(1), latest
	for lo < hi {
		mid := lo + (hi-lo)/2
		h, err := c.BlockByNumber(ctx, mid)
		if err != nil {
			return 0, err
		}
		bts, err := hexutil.DecodeUint64(h.Timestamp)
		if err != nil {
			return 0, fmt.Errorf("block %d timestamp: %w", mid, err)
		}
		if int64(bts) < ts {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// TransactionByLog enriches a log into a stored transaction row: receipt and
// block are fetched concurrently, fee is gasUsed * effectiveGasPrice and the
// timestamp comes from the block header.
func (c *Client) TransactionByLog(ctx context.Context, l models.Log) (*models.Transaction, error) {
	var (
		wg      sync.WaitGroup
		receipt *Receipt
		header  *Header
		rErr    error
		hErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		receipt, rErr = c.TransactionReceipt(ctx, l.TransactionHash)
	}()
	go func() {
		defer wg.Done()
		header, hErr = c.BlockByNumber(ctx, l.BlockNumber)
	}()
	wg.Wait()

	if rErr != nil {
		return nil, fmt.Errorf("receipt for %s: %w", l.TransactionHash, rErr)
	}
	if hErr != nil {
		return nil, fmt.Errorf("block %d: %w", l.BlockNumber, hErr)
	}

	gasUsed, err := hexutil.DecodeBig(receipt.GasUsed)
	if err != nil {
		return nil, fmt.Errorf("gasUsed %q: %w", receipt.GasUsed, err)
	}
	gasPrice, err := hexutil.DecodeBig(receipt.EffectiveGasPrice)
	if err != nil {
		return nil, fmt.Errorf("effectiveGasPrice %q: %w", receipt.EffectiveGasPrice, err)
	}
	status, err := hexutil.DecodeUint64(receipt.Status)
	if err != nil {
		return nil, fmt.Errorf("status %q: %w", receipt.Status, err)
	}
	ts, err := hexutil.DecodeUint64(header.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("timestamp %q: %w", header.Timestamp, err)
	}

	return &models.Transaction{
		Blockchain:      c.blockchain,
		TransactionHash: l.TransactionHash,
		BlockNumber:     l.BlockNumber,
		Timestamp:       int64(ts),
		FromAddress:     receipt.From,
		ToAddress:       receipt.To,
		Status:          int(status),
		Fee:             new(big.Int).Mul(gasUsed, gasPrice),
	}, nil
}
