// Package bridges holds the per-bridge event handlers: contract sets, ABI
// decoding and persistence of decoded events. The extractor drives them
// through the Handler interface.
package bridges

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bridgescan/internal/models"
	"bridgescan/internal/repository"
	"bridgescan/internal/rpc"
)

// ContractGroup is one contract with the topic0 set the extractor filters on.
type ContractGroup struct {
	Contract string
	Topics   []string
}

// Handler decodes and stores the events of one bridge. HandleLogs returns the
// logs it accepted so the extractor knows which transactions to enrich.
type Handler interface {
	Name() string
	Blockchains() []string
	Groups(blockchain string) ([]ContractGroup, error)
	HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error)
}

// SolanaHandler is the program-side counterpart for bridges with a Solana leg.
type SolanaHandler interface {
	Program() string
	HandleSolanaTransaction(ctx context.Context, tx *rpc.SolanaTransaction) (bool, error)
}

// ChainSet is the user-requested blockchain set. Events whose counterparty
// chain falls outside the set are dropped at decode time. A nil or empty set
// allows every chain.
type ChainSet map[string]bool

func NewChainSet(names []string) ChainSet {
	if len(names) == 0 {
		return nil
	}
	set := make(ChainSet, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}

func (s ChainSet) Allows(name string) bool {
	if len(s) == 0 {
		return true
	}
	return s[strings.ToLower(name)]
}

type constructor func(repo *repository.Repository, set ChainSet) Handler

var constructors = map[string]constructor{
	"ccip":     func(r *repository.Repository, s ChainSet) Handler { return NewCCIPHandler(r, s) },
	"cow":      func(r *repository.Repository, s ChainSet) Handler { return NewCowHandler(r, s) },
	"debridge": func(r *repository.Repository, s ChainSet) Handler { return NewDeBridgeHandler(r, s) },
	"eco":      func(r *repository.Repository, s ChainSet) Handler { return NewEcoHandler(r, s) },
	"fly":      func(r *repository.Repository, s ChainSet) Handler { return NewFlyHandler(r, s) },
	"mayan":    func(r *repository.Repository, s ChainSet) Handler { return NewMayanHandler(r, s) },
	"portal":   func(r *repository.Repository, s ChainSet) Handler { return NewPortalHandler(r, s) },
	"router":   func(r *repository.Repository, s ChainSet) Handler { return NewRouterHandler(r, s) },
	"synapse":  func(r *repository.Repository, s ChainSet) Handler { return NewSynapseHandler(r, s) },
	"wormhole": func(r *repository.Repository, s ChainSet) Handler { return NewWormholeHandler(r, s) },
}

// New builds the handler for a bridge name, scoped to the requested chains.
func New(name string, repo *repository.Repository, set ChainSet) (Handler, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown bridge %q", name)
	}
	return c(repo, set), nil
}

// Names lists the registered bridges, sorted for CLI help output.
func Names() []string {
	out := make([]string, 0, len(constructors))
	for name := range constructors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// groupsFor is the shared lookup used by every handler: config maps
// blockchain name to its contract groups.
func groupsFor(config map[string][]ContractGroup, bridge, blockchain string) ([]ContractGroup, error) {
	groups, ok := config[blockchain]
	if !ok {
		return nil, fmt.Errorf("blockchain %q not supported for bridge %s", blockchain, bridge)
	}
	return groups, nil
}

func blockchainsOf(config map[string][]ContractGroup) []string {
	out := make([]string, 0, len(config))
	for chain := range config {
		out = append(out, chain)
	}
	sort.Strings(out)
	return out
}
