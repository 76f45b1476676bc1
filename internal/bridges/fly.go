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
	topicFlySwapIn  = "0x37600fc06910ae05ad532c02a9de91251b21674999c33c6e6da90271029bfa23"
	topicFlySwapOut = "0x13d672f2c19bbdf5ce8c9c4894d9586248592fd27d555c2c03ac5e49d219f45d"
	topicFlyDeposit = "0x98e783c3864bbf744a057ef605a2a61701c3b62b5ed68b3745b99094497daf1f"
)

const flyBridgeABI = `[
	{"type":"event","name":"SwapIn","inputs":[
		{"name":"fromAddress","type":"address","indexed":false},
		{"name":"toAddress","type":"address","indexed":false},
		{"name":"fromAssetAddress","type":"address","indexed":false},
		{"name":"toAssetAddress","type":"address","indexed":false},
		{"name":"amountIn","type":"uint256","indexed":false},
		{"name":"amountOut","type":"uint256","indexed":false},
		{"name":"encodedDepositData","type":"bytes","indexed":false}]},
	{"type":"event","name":"SwapOut","inputs":[
		{"name":"fromAddress","type":"address","indexed":false},
		{"name":"toAddress","type":"address","indexed":false},
		{"name":"fromAssetAddress","type":"address","indexed":false},
		{"name":"toAssetAddress","type":"address","indexed":false},
		{"name":"amountIn","type":"uint256","indexed":false},
		{"name":"amountOut","type":"uint256","indexed":false},
		{"name":"depositDataHash","type":"bytes32","indexed":false}]},
	{"type":"event","name":"Deposit","inputs":[
		{"name":"depositDataHash","type":"bytes32","indexed":false},
		{"name":"amount","type":"uint256","indexed":false}]}
]`

var flyABI = evm.MustParseABI(flyBridgeABI)

var flyTopics = []string{topicFlySwapIn, topicFlySwapOut, topicFlyDeposit}

var flyConfig = map[string][]ContractGroup{
	"ethereum":  {{Contract: "0xeb57de1f78304cf925405efc1089793aabddb0d5", Topics: flyTopics}},
	"optimism":  {{Contract: "0xeb57de1f78304cf925405efc1089793aabddb0d5", Topics: flyTopics}},
	"polygon":   {{Contract: "0xeb57de1f78304cf925405efc1089793aabddb0d5", Topics: flyTopics}},
	"arbitrum":  {{Contract: "0xd0daa14d983a40b4c91f7b6875faa8d27f024e73", Topics: flyTopics}},
	"avalanche": {{Contract: "0x34cdce58cbdc6c54f2ac808a24561d0ab18ca8be", Topics: flyTopics}},
	"base":      {{Contract: "0x6c9b3a74ae4779da5ca999371ee8950e8db3407f", Topics: flyTopics}},
}

// FlyHandler correlates the two legs through the deposit data hash: the
// source leg hashes the encoded deposit data itself, the destination leg
// emits the hash directly.
type FlyHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewFlyHandler(repo *repository.Repository, set ChainSet) *FlyHandler {
	return &FlyHandler{repo: repo, set: set}
}

func (h *FlyHandler) Name() string { return "fly" }

func (h *FlyHandler) Blockchains() []string { return blockchainsOf(flyConfig) }

func (h *FlyHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(flyConfig, h.Name(), blockchain)
}

func (h *FlyHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var err error
		switch l.Topic0() {
		case topicFlySwapIn:
			err = h.handleSwapIn(ctx, blockchain, l)
		case topicFlySwapOut:
			err = h.handleSwapOut(ctx, blockchain, l)
		case topicFlyDeposit:
			err = h.handleDeposit(ctx, blockchain, l)
		default:
			continue
		}
		if err != nil {
			log.Printf("[fly] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		accepted = append(accepted, l)
	}
	return accepted, nil
}

func (h *FlyHandler) handleSwapIn(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		FromAddress        common.Address
		ToAddress          common.Address
		FromAssetAddress   common.Address
		ToAssetAddress     common.Address
		AmountIn           *big.Int
		AmountOut          *big.Int
		EncodedDepositData []byte
	}
	if err := evm.UnpackLog(flyABI, &ev, "SwapIn", l); err != nil {
		return err
	}

	return h.repo.SaveFlySwapIns(ctx, []models.FlySwapIn{{
		Blockchain:         blockchain,
		TransactionHash:    l.TransactionHash,
		FromAddress:        strings.ToLower(ev.FromAddress.Hex()),
		ToAddress:          strings.ToLower(ev.ToAddress.Hex()),
		FromAssetAddress:   strings.ToLower(ev.FromAssetAddress.Hex()),
		ToAssetAddress:     strings.ToLower(ev.ToAssetAddress.Hex()),
		AmountIn:           ev.AmountIn,
		AmountOut:          ev.AmountOut,
		EncodedDepositData: "0x" + common.Bytes2Hex(ev.EncodedDepositData),
		DepositDataHash:    evm.Keccak256Hex(ev.EncodedDepositData),
	}})
}

func (h *FlyHandler) handleSwapOut(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		FromAddress      common.Address
		ToAddress        common.Address
		FromAssetAddress common.Address
		ToAssetAddress   common.Address
		AmountIn         *big.Int
		AmountOut        *big.Int
		DepositDataHash  [32]byte
	}
	if err := evm.UnpackLog(flyABI, &ev, "SwapOut", l); err != nil {
		return err
	}

	return h.repo.SaveFlySwapOuts(ctx, []models.FlySwapOut{{
		Blockchain:       blockchain,
		TransactionHash:  l.TransactionHash,
		FromAddress:      strings.ToLower(ev.FromAddress.Hex()),
		ToAddress:        strings.ToLower(ev.ToAddress.Hex()),
		FromAssetAddress: strings.ToLower(ev.FromAssetAddress.Hex()),
		ToAssetAddress:   strings.ToLower(ev.ToAssetAddress.Hex()),
		AmountIn:         ev.AmountIn,
		AmountOut:        ev.AmountOut,
		DepositDataHash:  "0x" + common.Bytes2Hex(ev.DepositDataHash[:]),
	}})
}

func (h *FlyHandler) handleDeposit(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		DepositDataHash [32]byte
		Amount          *big.Int
	}
	if err := evm.UnpackLog(flyABI, &ev, "Deposit", l); err != nil {
		return err
	}

	return h.repo.SaveFlyDeposits(ctx, []models.FlyDeposit{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		DepositDataHash: "0x" + common.Bytes2Hex(ev.DepositDataHash[:]),
		Amount:          ev.Amount,
	}})
}
