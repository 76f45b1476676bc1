package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []string
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Method != "alchemy_getTokenMetadata" {
			t.Errorf("method = %q", req.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"symbol": "usdc", "name": "USD Coin", "decimals": 6},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.rpcBase = srv.URL

	m, ok, err := c.TokenMetadata(context.Background(), "ethereum", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected metadata")
	}
	if m.Symbol != "USDC" {
		t.Errorf("symbol = %q, want upper-cased USDC", m.Symbol)
	}
	if m.Decimals != 6 || m.Blockchain != "ethereum" {
		t.Errorf("metadata = %+v", m)
	}
	if m.Address != "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48" {
		t.Errorf("address not lower-cased: %q", m.Address)
	}
}

func TestTokenMetadataUnsupportedChain(t *testing.T) {
	t.Parallel()

	c := NewClient("test-key")
	_, ok, err := c.TokenMetadata(context.Background(), "solana", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("solana has no alchemy network, expected ok=false")
	}
}

func TestHistoricalPrices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req historicalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Interval != "1d" {
			t.Errorf("interval = %q", req.Interval)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"value": "3212.5", "timestamp": "2026-01-02T00:00:00Z"},
				{"value": "bad", "timestamp": "2026-01-03T00:00:00Z"},
				{"value": "3300.1", "timestamp": "2026-01-04T00:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.pricesBase = srv.URL

	prices, err := c.HistoricalPricesBySymbol(context.Background(), "ETH", "Ethereum", 1767312000, 1767571200)
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2 (unparseable value skipped)", len(prices))
	}
	if prices[0].Date != "2026-01-02" || prices[0].PriceUSD != 3212.5 {
		t.Errorf("first price = %+v", prices[0])
	}
	if prices[1].Symbol != "ETH" || prices[1].Name != "Ethereum" {
		t.Errorf("identity not carried: %+v", prices[1])
	}
}

func TestHistoricalPricesTokenNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Token not found"},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.pricesBase = srv.URL

	prices, err := c.HistoricalPricesBySymbol(context.Background(), "NOPE", "Nope", 0, 86400)
	if err != nil {
		t.Fatal(err)
	}
	if prices != nil {
		t.Errorf("expected empty result for unknown token, got %v", prices)
	}
}
