// Package market fetches token metadata and daily close prices from the
// Alchemy APIs. Solana is not served; callers skip it.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bridgescan/internal/chains"
	"bridgescan/internal/models"
)

const (
	pricesBaseURL = "https://api.g.alchemy.com/prices/v1"
	maxAttempts   = 5
)

// Client talks to the per-network Alchemy JSON-RPC hosts and the shared
// prices API with one key.
type Client struct {
	apiKey     string
	httpClient *http.Client

	// test seams
	rpcBase    string
	pricesBase string
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pricesBase: pricesBaseURL,
	}
}

func (c *Client) rpcURL(network string) string {
	if c.rpcBase != "" {
		return c.rpcBase
	}
	return fmt.Sprintf("https://%s-mainnet.g.alchemy.com/v2/%s", network, c.apiKey)
}

// TokenMetadata resolves symbol, name and decimals of an ERC-20 contract via
// alchemy_getTokenMetadata. Chains outside the Alchemy networks return
// ok=false without a request.
func (c *Client) TokenMetadata(ctx context.Context, blockchain, contract string) (models.TokenMetadata, bool, error) {
	network := chains.AlchemyNetwork(blockchain)
	if network == "" {
		return models.TokenMetadata{}, false, nil
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "alchemy_getTokenMetadata",
		"params":  []string{contract},
	})
	if err != nil {
		return models.TokenMetadata{}, false, err
	}

	var result struct {
		Result struct {
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Decimals int    `json:"decimals"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := c.post(ctx, c.rpcURL(network), body, &result); err != nil {
		return models.TokenMetadata{}, false, fmt.Errorf("token metadata %s/%s: %w", blockchain, contract, err)
	}
	if result.Error != nil {
		return models.TokenMetadata{}, false, fmt.Errorf("token metadata %s/%s: %s", blockchain, contract, result.Error.Message)
	}
	if result.Result.Symbol == "" || result.Result.Name == "" {
		return models.TokenMetadata{}, false, nil
	}

	decimals := result.Result.Decimals
	if decimals == 0 {
		decimals = 1
	}
	return models.TokenMetadata{
		Symbol:     strings.ToUpper(result.Result.Symbol),
		Name:       result.Result.Name,
		Decimals:   decimals,
		Blockchain: blockchain,
		Address:    strings.ToLower(contract),
	}, true, nil
}

type historicalRequest struct {
	Symbol    string `json:"symbol,omitempty"`
	Network   string `json:"network,omitempty"`
	Address   string `json:"address,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Interval  string `json:"interval"`
}

// HistoricalPricesBySymbol fetches daily closes of a symbol over [startTs, endTs].
func (c *Client) HistoricalPricesBySymbol(ctx context.Context, symbol, name string, startTs, endTs int64) ([]models.TokenPrice, error) {
	return c.historicalPrices(ctx, historicalRequest{
		Symbol:    symbol,
		StartTime: time.Unix(startTs, 0).UTC().Format(time.RFC3339),
		EndTime:   time.Unix(endTs, 0).UTC().Format(time.RFC3339),
		Interval:  "1d",
	}, symbol, name)
}

// HistoricalPricesByAddress fetches daily closes of a token contract on a
// specific network over [startTs, endTs].
func (c *Client) HistoricalPricesByAddress(ctx context.Context, blockchain, contract, symbol, name string, startTs, endTs int64) ([]models.TokenPrice, error) {
	network := chains.AlchemyNetwork(blockchain)
	if network == "" {
		return nil, nil
	}
	return c.historicalPrices(ctx, historicalRequest{
		Network:   network + "-mainnet",
		Address:   contract,
		StartTime: time.Unix(startTs, 0).UTC().Format(time.RFC3339),
		EndTime:   time.Unix(endTs, 0).UTC().Format(time.RFC3339),
		Interval:  "1d",
	}, symbol, name)
}

func (c *Client) historicalPrices(ctx context.Context, req historicalRequest, symbol, name string) ([]models.TokenPrice, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/tokens/historical", c.pricesBase, c.apiKey)

	var result struct {
		Data []struct {
			Value     string `json:"value"`
			Timestamp string `json:"timestamp"`
		} `json:"data"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := c.post(ctx, url, body, &result); err != nil {
		return nil, fmt.Errorf("historical prices %s: %w", symbol, err)
	}
	if result.Error != nil {
		// Unlisted tokens are expected; the caller prices them as unknown.
		if strings.Contains(result.Error.Message, "Token not found") {
			return nil, nil
		}
		return nil, fmt.Errorf("historical prices %s: %s", symbol, result.Error.Message)
	}

	var prices []models.TokenPrice
	for _, p := range result.Data {
		ts, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			continue
		}
		var value float64
		if _, err := fmt.Sscanf(p.Value, "%g", &value); err != nil {
			continue
		}
		prices = append(prices, models.TokenPrice{
			Symbol:   symbol,
			Name:     name,
			Date:     ts.UTC().Format("2006-01-02"),
			PriceUSD: value,
		})
	}
	return prices, nil
}

// post sends a JSON body and decodes the response, retrying transient
// failures with exponential backoff.
func (c *Client) post(ctx context.Context, url string, body []byte, out any) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("alchemy status: %s", resp.Status)
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode alchemy response: %w", err)
		}
		return nil
	}
	return lastErr
}
