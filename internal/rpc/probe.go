package rpc

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/time/rate"

	"bridgescan/internal/config"
)

const probeTimeout = 15 * time.Second

// Probe runs each chain's canary eth_getLogs against every endpoint in the
// base config and returns the subset that served the expected logs. Endpoints
// that fail are logged and skipped; a chain where none survive is an error.
func Probe(ctx context.Context, base *config.RPCConfig, blockchains []string) (*config.RPCConfig, error) {
	out := &config.RPCConfig{Blockchains: map[string]config.ChainRPC{}}

	for _, chain := range blockchains {
		entry, ok := base.Blockchains[chain]
		if !ok {
			return nil, fmt.Errorf("blockchain %q not present in base RPC config", chain)
		}

		// The canary is an EVM call; Solana endpoints pass through unprobed.
		if chain == "solana" {
			out.Blockchains[chain] = entry
			continue
		}
		if entry.Probe.Contract == "" {
			return nil, fmt.Errorf("blockchain %q has no probe request in the base RPC config", chain)
		}

		var working []string
		for _, url := range entry.RPCs {
			if err := probeEndpoint(ctx, url, entry.Probe); err != nil {
				log.Printf("[probe] Warn: %s endpoint %s failed canary: %v", chain, url, err)
				continue
			}
			working = append(working, url)
		}
		if len(working) == 0 {
			return nil, fmt.Errorf("no working RPC endpoints for blockchain %q", chain)
		}

		log.Printf("[probe] %s: %d/%d endpoints healthy", chain, len(working), len(entry.RPCs))
		out.Blockchains[chain] = config.ChainRPC{RPCs: working, Probe: entry.Probe}
	}

	return out, nil
}

// probeEndpoint replays the chain's pinned getLogs. The block range is known
// to contain matching events, so an empty result means the endpoint is
// pruned, lagging or lying and gets dropped.
func probeEndpoint(ctx context.Context, url string, spec config.ProbeSpec) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c := &Client{
		blockchain: "probe",
		endpoints:  []string{url},
		http:       &http.Client{Timeout: probeTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}

	filter := map[string]any{
		"address":   spec.Contract,
		"fromBlock": hexutil.EncodeUint64(spec.FromBlock),
		"toBlock":   hexutil.EncodeUint64(spec.ToBlock),
	}
	if len(spec.Topics) > 0 {
		filter["topics"] = []any{spec.Topics}
	}

	var logs []rawLog
	if err := c.callOnce(ctx, url, "eth_getLogs", []any{filter}, &logs); err != nil {
		return err
	}
	if len(logs) == 0 {
		return fmt.Errorf("canary returned no logs for %s in blocks %d-%d",
			spec.Contract, spec.FromBlock, spec.ToBlock)
	}
	return nil
}
