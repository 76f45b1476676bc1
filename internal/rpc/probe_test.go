package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"bridgescan/internal/config"
)

func probeBase(urls ...string) *config.RPCConfig {
	return &config.RPCConfig{Blockchains: map[string]config.ChainRPC{
		"ethereum": {
			RPCs: urls,
			Probe: config.ProbeSpec{
				Contract:  "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				Topics:    []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"},
				FromBlock: 100,
				ToBlock:   200,
			},
		},
	}}
}

func TestProbeKeepsServingEndpoints(t *testing.T) {
	t.Parallel()

	good := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_getLogs": func(params []json.RawMessage) any {
			var filter struct {
				Address   string `json:"address"`
				FromBlock string `json:"fromBlock"`
				ToBlock   string `json:"toBlock"`
			}
			json.Unmarshal(params[0], &filter)
			if filter.Address != "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2" {
				t.Errorf("canary queried %s, not the pinned contract", filter.Address)
			}
			if filter.FromBlock != "0x64" || filter.ToBlock != "0xc8" {
				t.Errorf("canary range = %s-%s", filter.FromBlock, filter.ToBlock)
			}
			return []map[string]any{{
				"address":         filter.Address,
				"topics":          []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"},
				"data":            "0x",
				"blockNumber":     "0x65",
				"transactionHash": "0xdead",
			}}
		},
	})
	defer good.Close()
	// Answers but with no logs for a range that must have them.
	empty := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_getLogs": func([]json.RawMessage) any { return []map[string]any{} },
	})
	defer empty.Close()

	probed, err := Probe(context.Background(), probeBase(empty.URL, good.URL), []string{"ethereum"})
	if err != nil {
		t.Fatal(err)
	}
	urls, err := probed.Endpoints("ethereum")
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != good.URL {
		t.Errorf("surviving endpoints = %v, want only the serving one", urls)
	}
}

func TestProbeFailsWhenNoEndpointServes(t *testing.T) {
	t.Parallel()

	empty := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_getLogs": func([]json.RawMessage) any { return []map[string]any{} },
	})
	defer empty.Close()

	if _, err := Probe(context.Background(), probeBase(empty.URL), []string{"ethereum"}); err == nil {
		t.Error("expected error when every endpoint returns empty results")
	}
}

func TestProbePassesSolanaThrough(t *testing.T) {
	t.Parallel()

	base := &config.RPCConfig{Blockchains: map[string]config.ChainRPC{
		"solana": {RPCs: []string{"https://api.mainnet-beta.solana.com"}},
	}}
	probed, err := Probe(context.Background(), base, []string{"solana"})
	if err != nil {
		t.Fatal(err)
	}
	urls, err := probed.Endpoints("solana")
	if err != nil || len(urls) != 1 {
		t.Errorf("solana endpoints = %v, %v", urls, err)
	}
}

func TestProbeRequiresSpec(t *testing.T) {
	t.Parallel()

	base := &config.RPCConfig{Blockchains: map[string]config.ChainRPC{
		"ethereum": {RPCs: []string{"https://example.invalid"}},
	}}
	if _, err := Probe(context.Background(), base, []string{"ethereum"}); err == nil {
		t.Error("expected error for a chain without a probe request")
	}
}
