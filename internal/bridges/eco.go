package bridges

import (
	"context"
	"log"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

const (
	topicEcoIntentCreated = "0xd802f2610d0c85b3f19be4413f3cf49de1d4e787edecd538274437a5b9aa648d"
	topicEcoFulfillment   = "0x4a817ec64beb8020b3e400f30f3b458110d5765d7a9d1ace4e68754ed2d082de"
	topicEcoIntentFunded  = "0x2da42efda5225344c30e729dc0eafc2e56292ac9b9b5c2b16e0e74c86ea5921d"
	topicEcoWithdrawal    = "0x6653a45d3871e4110fa55dac0269f9f93a6d9078d402f7153594e50573d7f0cd"
)

const ecoIntentABI = `[
	{"type":"event","name":"IntentCreated","inputs":[
		{"name":"intentHash","type":"bytes32","indexed":true},
		{"name":"salt","type":"bytes32","indexed":false},
		{"name":"source","type":"uint256","indexed":false},
		{"name":"destination","type":"uint256","indexed":false},
		{"name":"inbox","type":"address","indexed":false},
		{"name":"routeTokens","type":"tuple[]","indexed":false,"components":[
			{"name":"token","type":"address"},
			{"name":"amount","type":"uint256"}]},
		{"name":"calls","type":"tuple[]","indexed":false,"components":[
			{"name":"target","type":"address"},
			{"name":"data","type":"bytes"},
			{"name":"value","type":"uint256"}]},
		{"name":"creator","type":"address","indexed":true},
		{"name":"prover","type":"address","indexed":true},
		{"name":"deadline","type":"uint256","indexed":false},
		{"name":"nativeValue","type":"uint256","indexed":false},
		{"name":"rewardTokens","type":"tuple[]","indexed":false,"components":[
			{"name":"token","type":"address"},
			{"name":"amount","type":"uint256"}]}]},
	{"type":"event","name":"Fulfillment","inputs":[
		{"name":"_hash","type":"bytes32","indexed":true},
		{"name":"_sourceChainID","type":"uint256","indexed":true},
		{"name":"_prover","type":"address","indexed":true},
		{"name":"_claimant","type":"address","indexed":false}]}
]`

var ecoABI = evm.MustParseABI(ecoIntentABI)

var ecoIntentGroup = ContractGroup{
	Contract: "0x2020ae689ed3e017450280cea110d0ef6e640da4",
	Topics:   []string{topicEcoIntentCreated, topicEcoIntentFunded, topicEcoWithdrawal},
}

var ecoInboxGroup = ContractGroup{
	Contract: "0x04c816032a076df65b411bb3f31c8d569d411ee2",
	Topics:   []string{topicEcoFulfillment},
}

var ecoConfig = map[string][]ContractGroup{
	"ethereum": {ecoIntentGroup, ecoInboxGroup},
	"arbitrum": {ecoIntentGroup, ecoInboxGroup},
	"base":     {ecoIntentGroup, ecoInboxGroup},
	"optimism": {ecoIntentGroup, ecoInboxGroup},
	"polygon":  {ecoIntentGroup, ecoInboxGroup},
}

// EcoHandler pairs IntentCreated on the source chain with Fulfillment on the
// destination inbox through the intent hash.
type EcoHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewEcoHandler(repo *repository.Repository, set ChainSet) *EcoHandler {
	return &EcoHandler{repo: repo, set: set}
}

func (h *EcoHandler) Name() string { return "eco" }

func (h *EcoHandler) Blockchains() []string { return blockchainsOf(ecoConfig) }

func (h *EcoHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(ecoConfig, h.Name(), blockchain)
}

func (h *EcoHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var err error
		switch l.Topic0() {
		case topicEcoIntentCreated:
			err = h.handleIntentCreated(ctx, blockchain, l)
		case topicEcoFulfillment:
			err = h.handleFulfillment(ctx, blockchain, l)
		default:
			// Funding and withdrawal events mark lifecycle transitions the
			// correlator does not need; they still count for tx enrichment.
			accepted = append(accepted, l)
			continue
		}
		if err != nil {
			log.Printf("[eco] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		accepted = append(accepted, l)
	}
	return accepted, nil
}

func (h *EcoHandler) handleIntentCreated(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		IntentHash  [32]byte
		Salt        [32]byte
		Source      *big.Int
		Destination *big.Int
		Inbox       common.Address
		RouteTokens []struct {
			Token  common.Address
			Amount *big.Int
		}
		Calls []struct {
			Target common.Address
			Data   []byte
			Value  *big.Int
		}
		Creator     common.Address
		Prover      common.Address
		Deadline    *big.Int
		NativeValue *big.Int
		RewardTokens []struct {
			Token  common.Address
			Amount *big.Int
		}
	}
	if err := evm.UnpackLog(ecoABI, &ev, "IntentCreated", l); err != nil {
		return err
	}

	return h.repo.SaveEcoIntentsCreated(ctx, []models.EcoIntentCreated{{
		Blockchain:         blockchain,
		TransactionHash:    l.TransactionHash,
		IntentHash:         "0x" + common.Bytes2Hex(ev.IntentHash[:]),
		Salt:               "0x" + common.Bytes2Hex(ev.Salt[:]),
		SourceChainID:      ev.Source,
		DestinationChainID: ev.Destination,
		Inbox:              strings.ToLower(ev.Inbox.Hex()),
		Creator:            strings.ToLower(ev.Creator.Hex()),
		Prover:             strings.ToLower(ev.Prover.Hex()),
		Deadline:           ev.Deadline,
		NativeValue:        ev.NativeValue,
	}})
}

func (h *EcoHandler) handleFulfillment(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		Hash          [32]byte       `abi:"_hash"`
		SourceChainID *big.Int       `abi:"_sourceChainID"`
		Prover        common.Address `abi:"_prover"`
		Claimant      common.Address `abi:"_claimant"`
	}
	if err := evm.UnpackLog(ecoABI, &ev, "Fulfillment", l); err != nil {
		return err
	}

	return h.repo.SaveEcoFulfillments(ctx, []models.EcoFulfillment{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		IntentHash:      "0x" + common.Bytes2Hex(ev.Hash[:]),
		SourceChainID:   ev.SourceChainID,
		Prover:          strings.ToLower(ev.Prover.Hex()),
		Claimant:        strings.ToLower(ev.Claimant.Hex()),
	}})
}
