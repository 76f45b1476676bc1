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
	topicLogMessagePublished = "0x6eb224fb001ed210e379b335e35efe88672a8ce935d981a6896b27ffdf52a3b2"
	topicTransferRedeemed    = "0xcaf280c8cfeba144da67230d9b009c8f868a75bac9a528fa0474be1ba317c169"
)

// wormholeChainIDs maps local chain names to Wormhole V2 chain ids.
var wormholeChainIDs = map[string]int{
	"ethereum":  2,
	"bnb":       4,
	"polygon":   5,
	"avalanche": 6,
	"arbitrum":  23,
	"optimism":  24,
	"base":      30,
	"scroll":    34,
	"linea":     38,
}

// wormholeChainNames is the inverse mapping.
var wormholeChainNames = func() map[int]string {
	m := make(map[int]string, len(wormholeChainIDs))
	for name, id := range wormholeChainIDs {
		m[id] = name
	}
	return m
}()

const wormholeCoreABI = `[
	{"type":"event","name":"LogMessagePublished","inputs":[
		{"name":"sender","type":"address","indexed":true},
		{"name":"sequence","type":"uint64","indexed":false},
		{"name":"nonce","type":"uint32","indexed":false},
		{"name":"payload","type":"bytes","indexed":false},
		{"name":"consistencyLevel","type":"uint8","indexed":false}]},
	{"type":"event","name":"TransferRedeemed","inputs":[
		{"name":"emitterChainId","type":"uint16","indexed":true},
		{"name":"emitterAddress","type":"bytes32","indexed":true},
		{"name":"sequence","type":"uint64","indexed":true}]}
]`

var wormholeABI = evm.MustParseABI(wormholeCoreABI)

var wormholeConfig = map[string][]ContractGroup{
	"ethereum": {
		{Contract: "0x3ee18b2214aff97000d974cf647e7c347e8fa585", Topics: []string{topicTransferRedeemed}},
		{Contract: "0x98f3c9e6e3face36baad05fe09d375ef1464288b", Topics: []string{topicLogMessagePublished}},
	},
	"arbitrum": {
		{Contract: "0x0b2402144bb366a632d14b83f244d2e0e21bd39c", Topics: []string{topicTransferRedeemed}},
		{Contract: "0xa5f208e072434bc67592e4c49c1b991ba79bca46", Topics: []string{topicLogMessagePublished}},
	},
	"base": {
		{Contract: "0x8d2de8d2f73f1f4cab472ac9a881c9b123c79627", Topics: []string{topicTransferRedeemed}},
		{Contract: "0xbebdb6c8ddc678ffa9f8748f85c815c556dd8ac6", Topics: []string{topicLogMessagePublished}},
	},
	"avalanche": {
		{Contract: "0x0e082f06ff657d94310cb8ce8b0d9a04541d8052", Topics: []string{topicTransferRedeemed}},
		{Contract: "0x54a8e5f9c4cba08f9943965859f6c34eaf03e26c", Topics: []string{topicLogMessagePublished}},
	},
	"polygon": {
		{Contract: "0x5a58505a96d1dbf8df91cb21b54419fc36e93fde", Topics: []string{topicTransferRedeemed}},
		{Contract: "0x7a4b5a56256163f07b2c80a7ca55abe66c4ec4d7", Topics: []string{topicLogMessagePublished}},
	},
	"optimism": {
		{Contract: "0x1d68124e65fafc907325e3edbf8c4d84499daa8b", Topics: []string{topicTransferRedeemed}},
		{Contract: "0xee91c335eab126df5fdb3797ea9d6ad93aec9722", Topics: []string{topicLogMessagePublished}},
	},
	"bnb": {
		{Contract: "0xb6f6d86a8f9879a9c87f643768d9efc38c1da6e7", Topics: []string{topicTransferRedeemed}},
		{Contract: "0x98f3c9e6e3face36baad05fe09d375ef1464288b", Topics: []string{topicLogMessagePublished}},
	},
	"scroll": {
		{Contract: "0x24850c6f61c438823f01b7a3bf2b89b72174fa9d", Topics: []string{topicTransferRedeemed}},
		{Contract: "0xbebdb6c8ddc678ffa9f8748f85c815c556dd8ac6", Topics: []string{topicLogMessagePublished}},
	},
}

// WormholeHandler stores the raw core-bridge envelope events. The emitter key
// (chain id, padded address, sequence) is the natural key both legs share.
type WormholeHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewWormholeHandler(repo *repository.Repository, set ChainSet) *WormholeHandler {
	return &WormholeHandler{repo: repo, set: set}
}

func (h *WormholeHandler) Name() string { return "wormhole" }

func (h *WormholeHandler) Blockchains() []string { return blockchainsOf(wormholeConfig) }

func (h *WormholeHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(wormholeConfig, h.Name(), blockchain)
}

func (h *WormholeHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var err error
		switch l.Topic0() {
		case topicLogMessagePublished:
			err = h.handlePublished(ctx, blockchain, l)
		case topicTransferRedeemed:
			err = h.handleRedeemed(ctx, blockchain, l)
		default:
			continue
		}
		if err != nil {
			log.Printf("[wormhole] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		accepted = append(accepted, l)
	}
	return accepted, nil
}

func (h *WormholeHandler) handlePublished(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		Sender           common.Address
		Sequence         uint64
		Nonce            uint32
		Payload          []byte
		ConsistencyLevel uint8
	}
	if err := evm.UnpackLog(wormholeABI, &ev, "LogMessagePublished", l); err != nil {
		return err
	}

	sender := strings.ToLower(ev.Sender.Hex())
	row := models.WormholePublished{
		Blockchain:       blockchain,
		TransactionHash:  l.TransactionHash,
		BlockNumber:      l.BlockNumber,
		Sender:           sender,
		Sequence:         new(big.Int).SetUint64(ev.Sequence),
		Nonce:            new(big.Int).SetUint64(uint64(ev.Nonce)),
		Payload:          "0x" + common.Bytes2Hex(ev.Payload),
		ConsistencyLevel: int(ev.ConsistencyLevel),
		EmitterAddress32: evm.PadAddress32(sender),
		EmitterChainID:   wormholeChainIDs[blockchain],
	}
	if amt, ok := transferPayloadAmount(ev.Payload); ok {
		row.Amount = amt
	}
	return h.repo.SaveWormholePublished(ctx, []models.WormholePublished{row})
}

func (h *WormholeHandler) handleRedeemed(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		EmitterChainId uint16
		EmitterAddress [32]byte
		Sequence       uint64
	}
	if err := evm.UnpackLog(wormholeABI, &ev, "TransferRedeemed", l); err != nil {
		return err
	}

	if name, ok := wormholeChainNames[int(ev.EmitterChainId)]; ok && !h.set.Allows(name) {
		return nil
	}

	return h.repo.SaveWormholeRedeemed(ctx, []models.WormholeRedeemed{{
		Blockchain:       blockchain,
		TransactionHash:  l.TransactionHash,
		BlockNumber:      l.BlockNumber,
		EmitterChainID:   int(ev.EmitterChainId),
		EmitterAddress32: "0x" + common.Bytes2Hex(ev.EmitterAddress[:]),
		Sequence:         new(big.Int).SetUint64(ev.Sequence),
	}})
}

// maxStorableAmount bounds amounts at what the NUMERIC(30,0) columns hold.
// Junk payloads occasionally carry full 256-bit values here.
var maxStorableAmount = new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)

// transferPayloadAmount pulls the normalized amount out of a token-transfer
// payload (payload id 1 or 3). Other payload types and amounts too large to
// store return false.
func transferPayloadAmount(payload []byte) (*big.Int, bool) {
	if len(payload) < 33 {
		return nil, false
	}
	if payload[0] != 1 && payload[0] != 3 {
		return nil, false
	}
	amt := new(big.Int).SetBytes(payload[1:33])
	if amt.Cmp(maxStorableAmount) >= 0 {
		return nil, false
	}
	return amt, true
}
