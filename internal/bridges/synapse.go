package bridges

import (
	"context"
	"log"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

const (
	topicTokenDepositAndSwap = "0x79c15604b92ef54d3f61f0c40caab8857927ca3d5092367163b4562c1699eb5f"
	topicTokenMintAndSwap    = "0x4f56ec39e98539920503fd54ee56ae0cbebe9eb15aa778f18de67701eeae7c65"
)

const synapseBridgeABI = `[
	{"type":"event","name":"TokenDepositAndSwap","inputs":[
		{"name":"to","type":"address","indexed":true},
		{"name":"chainId","type":"uint256","indexed":false},
		{"name":"token","type":"address","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"tokenIndexFrom","type":"uint8","indexed":false},
		{"name":"tokenIndexTo","type":"uint8","indexed":false},
		{"name":"minDy","type":"uint256","indexed":false},
		{"name":"deadline","type":"uint256","indexed":false}]},
	{"type":"event","name":"TokenMintAndSwap","inputs":[
		{"name":"to","type":"address","indexed":true},
		{"name":"token","type":"address","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"fee","type":"uint256","indexed":false},
		{"name":"tokenIndexFrom","type":"uint8","indexed":false},
		{"name":"tokenIndexTo","type":"uint8","indexed":false},
		{"name":"minDy","type":"uint256","indexed":false},
		{"name":"deadline","type":"uint256","indexed":false},
		{"name":"swapSuccess","type":"bool","indexed":false},
		{"name":"kappa","type":"bytes32","indexed":true}]}
]`

var synapseABI = evm.MustParseABI(synapseBridgeABI)

var synapseConfig = map[string][]ContractGroup{
	"ethereum": {{Contract: "0x2796317b0ff8538f253012862c06787adfb8ceb6", Topics: []string{topicTokenDepositAndSwap, topicTokenMintAndSwap}}},
	"arbitrum": {{Contract: "0x6f4e8eba4d337f874ab57478acc2cb5bacdc19c9", Topics: []string{topicTokenDepositAndSwap, topicTokenMintAndSwap}}},
	"avalanche": {{Contract: "0xc05e61d0e7a63d27546389b7ad62fdff5a91aace", Topics: []string{topicTokenDepositAndSwap, topicTokenMintAndSwap}}},
	"base":     {{Contract: "0xf07d1c752fab503e47fef309bf14fbdd3e867089", Topics: []string{topicTokenDepositAndSwap, topicTokenMintAndSwap}}},
	"optimism": {{Contract: "0xaf41a65f786339e7911f4acdad6bd49426f2dc6b", Topics: []string{topicTokenDepositAndSwap, topicTokenMintAndSwap}}},
	"polygon":  {{Contract: "0x8f5bbb2bb8c2ee94639e55d5f41de9b4839c1280", Topics: []string{topicTokenDepositAndSwap, topicTokenMintAndSwap}}},
}

// SynapseHandler links deposit and mint legs through kappa: the mint event
// carries it, the deposit side derives it by hashing its own tx hash.
type SynapseHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewSynapseHandler(repo *repository.Repository, set ChainSet) *SynapseHandler {
	return &SynapseHandler{repo: repo, set: set}
}

func (h *SynapseHandler) Name() string { return "synapse" }

func (h *SynapseHandler) Blockchains() []string { return blockchainsOf(synapseConfig) }

func (h *SynapseHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(synapseConfig, h.Name(), blockchain)
}

// kappaOf hashes the lowercased textual tx hash, the same derivation the
// bridge validators use, and returns it without the 0x prefix.
func kappaOf(txHash string) string {
	sum := crypto.Keccak256([]byte(strings.ToLower(txHash)))
	return common.Bytes2Hex(sum)
}

func (h *SynapseHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var err error
		switch l.Topic0() {
		case topicTokenDepositAndSwap:
			err = h.handleDeposit(ctx, blockchain, l)
		case topicTokenMintAndSwap:
			err = h.handleMint(ctx, blockchain, l)
		default:
			continue
		}
		if err != nil {
			log.Printf("[synapse] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		accepted = append(accepted, l)
	}
	return accepted, nil
}

func (h *SynapseHandler) handleDeposit(ctx context.Context, blockchain string, l models.Log) error {
	var dep struct {
		To             common.Address
		ChainId        *big.Int
		Token          common.Address
		Amount         *big.Int
		TokenIndexFrom uint8
		TokenIndexTo   uint8
		MinDy          *big.Int
		Deadline       *big.Int
	}
	if err := evm.UnpackLog(synapseABI, &dep, "TokenDepositAndSwap", l); err != nil {
		return err
	}

	return h.repo.SaveSynapseDeposits(ctx, []models.SynapseTokenDepositAndSwap{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		ContractAddress: l.Address,
		ToAddress:       strings.ToLower(dep.To.Hex()),
		ChainID:         dep.ChainId.String(),
		Token:           strings.ToLower(dep.Token.Hex()),
		Amount:          dep.Amount,
		TokenIndexFrom:  dep.TokenIndexFrom,
		TokenIndexTo:    dep.TokenIndexTo,
		MinDy:           dep.MinDy,
		Deadline:        dep.Deadline,
		Kappa:           kappaOf(l.TransactionHash),
	}})
}

func (h *SynapseHandler) handleMint(ctx context.Context, blockchain string, l models.Log) error {
	var mint struct {
		To             common.Address
		Token          common.Address
		Amount         *big.Int
		Fee            *big.Int
		TokenIndexFrom uint8
		TokenIndexTo   uint8
		MinDy          *big.Int
		Deadline       *big.Int
		SwapSuccess    bool
		Kappa          [32]byte
	}
	if err := evm.UnpackLog(synapseABI, &mint, "TokenMintAndSwap", l); err != nil {
		return err
	}

	return h.repo.SaveSynapseMints(ctx, []models.SynapseTokenMintAndSwap{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		ContractAddress: l.Address,
		ToAddress:       strings.ToLower(mint.To.Hex()),
		Token:           strings.ToLower(mint.Token.Hex()),
		Amount:          mint.Amount,
		Fee:             mint.Fee,
		TokenIndexFrom:  mint.TokenIndexFrom,
		TokenIndexTo:    mint.TokenIndexTo,
		MinDy:           mint.MinDy,
		Deadline:        mint.Deadline,
		SwapSuccess:     mint.SwapSuccess,
		Kappa:           common.Bytes2Hex(mint.Kappa[:]),
	}})
}
