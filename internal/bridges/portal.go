package bridges

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

var portalConfig = map[string][]ContractGroup{
	"ethereum": {
		{Contract: "0x98f3c9e6e3face36baad05fe09d375ef1464288b", Topics: []string{topicLogMessagePublished}},
		{Contract: "0x3ee18b2214aff97000d974cf647e7c347e8fa585", Topics: []string{topicTransferRedeemed}},
	},
	"bnb": {
		{Contract: "0x98f3c9e6e3face36baad05fe09d375ef1464288b", Topics: []string{topicLogMessagePublished}},
		{Contract: "0xb6f6d86a8f9879a9c87f643768d9efc38c1da6e7", Topics: []string{topicTransferRedeemed}},
	},
	"arbitrum": {
		{Contract: "0xa5f208e072434bc67592e4c49c1b991ba79bca46", Topics: []string{topicLogMessagePublished}},
		{Contract: "0x0b2402144bb366a632d14b83f244d2e0e21bd39c", Topics: []string{topicTransferRedeemed}},
	},
	"polygon": {
		{Contract: "0x7a4b5a56256163f07b2c80a7ca55abe66c4ec4d7", Topics: []string{topicLogMessagePublished}},
		{Contract: "0x5a58505a96d1dbf8df91cb21b54419fc36e93fde", Topics: []string{topicTransferRedeemed}},
	},
	"optimism": {
		{Contract: "0xee91c335eab126df5fdb3797ea9d6ad93aec9722", Topics: []string{topicLogMessagePublished}},
		{Contract: "0x1d68124e65fafc907325e3edbf8c4d84499daa8b", Topics: []string{topicTransferRedeemed}},
	},
	"avalanche": {
		{Contract: "0x54a8e5f9c4cba08f9943965859f6c34eaf03e26c", Topics: []string{topicLogMessagePublished}},
		{Contract: "0x0e082f06ff657d94310cb8ce8b0d9a04541d8052", Topics: []string{topicTransferRedeemed}},
	},
	"base": {
		{Contract: "0xbebdb6c8ddc678ffa9f8748f85c815c556dd8ac6", Topics: []string{topicLogMessagePublished}},
		{Contract: "0x8d2de8d2f73f1f4cab472ac9a881c9b123c79627", Topics: []string{topicTransferRedeemed}},
	},
}

// portalTransfer is a decoded BridgeStructs.Transfer payload.
type portalTransfer struct {
	PayloadID        uint8
	NormalizedAmount *big.Int
	OriginalAmount   *big.Int
	TokenAddress     string
	TokenChain       int
	Recipient        string
	ToChain          int
	Fee              *big.Int
}

// decodePortalPayload parses a token-transfer payload and reconstructs the
// raw amount from the 8-decimal normalized one.
func decodePortalPayload(payload []byte, decimals int) (*portalTransfer, error) {
	if len(payload) < 133 {
		return nil, fmt.Errorf("payload too short: %d bytes", len(payload))
	}

	t := &portalTransfer{PayloadID: payload[0]}
	t.NormalizedAmount = new(big.Int).SetBytes(payload[1:33])
	t.TokenAddress = "0x" + common.Bytes2Hex(payload[33:65])
	t.TokenChain = int(payload[65])<<8 | int(payload[66])
	t.Recipient = "0x" + common.Bytes2Hex(payload[67:99])
	t.ToChain = int(payload[99])<<8 | int(payload[100])
	t.Fee = new(big.Int).SetBytes(payload[101:133])

	shift := decimals - 8
	if shift < 0 {
		shift = 0
	}
	mult := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil)
	t.OriginalAmount = new(big.Int).Mul(t.NormalizedAmount, mult)
	return t, nil
}

// PortalHandler decodes the token-bridge transfer view of Wormhole messages:
// published payloads become transfer rows keyed by sequence number.
type PortalHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewPortalHandler(repo *repository.Repository, set ChainSet) *PortalHandler {
	return &PortalHandler{repo: repo, set: set}
}

func (h *PortalHandler) Name() string { return "portal" }

func (h *PortalHandler) Blockchains() []string { return blockchainsOf(portalConfig) }

func (h *PortalHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(portalConfig, h.Name(), blockchain)
}

func (h *PortalHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var (
			ok  bool
			err error
		)
		switch l.Topic0() {
		case topicLogMessagePublished:
			ok, err = h.handlePublished(ctx, blockchain, l)
		case topicTransferRedeemed:
			ok, err = h.handleRedeemed(ctx, blockchain, l)
		default:
			continue
		}
		if err != nil {
			log.Printf("[portal] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		if ok {
			accepted = append(accepted, l)
		}
	}
	return accepted, nil
}

func (h *PortalHandler) handlePublished(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		Sender           common.Address
		Sequence         uint64
		Nonce            uint32
		Payload          []byte
		ConsistencyLevel uint8
	}
	if err := evm.UnpackLog(wormholeABI, &ev, "LogMessagePublished", l); err != nil {
		return false, err
	}

	// A plain transfer payload is exactly 133 bytes. Anything longer is a
	// protocol riding on top of Wormhole and out of scope here.
	if len(ev.Payload) != 133 {
		return false, nil
	}

	decoded, err := decodePortalPayload(ev.Payload, 18)
	if err != nil {
		return false, err
	}
	dstChain, ok := wormholeChainNames[decoded.ToChain]
	if !ok || !h.set.Allows(dstChain) {
		return false, nil
	}

	return true, h.repo.SavePortalPublished(ctx, []models.PortalLogMessagePublished{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		Amount:          decoded.OriginalAmount,
		TokenAddress:    evm.UnpadAddress(decoded.TokenAddress),
		TokenChain:      decoded.TokenChain,
		Recipient:       decoded.Recipient,
		RecipientChain:  dstChain,
		Fee:             decoded.Fee,
		Nonce:           new(big.Int).SetUint64(uint64(ev.Nonce)),
		SequenceNumber:  new(big.Int).SetUint64(ev.Sequence),
	}})
}

func (h *PortalHandler) handleRedeemed(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		EmitterChainId uint16
		EmitterAddress [32]byte
		Sequence       uint64
	}
	if err := evm.UnpackLog(wormholeABI, &ev, "TransferRedeemed", l); err != nil {
		return false, err
	}

	srcChain, ok := wormholeChainNames[int(ev.EmitterChainId)]
	if !ok || !h.set.Allows(srcChain) {
		return false, nil
	}

	return true, h.repo.SavePortalRedeemed(ctx, []models.PortalTransferRedeemed{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		EmitterChainID:  int(ev.EmitterChainId),
		EmitterAddress:  evm.UnpadAddress("0x" + common.Bytes2Hex(ev.EmitterAddress[:])),
		SequenceNumber:  new(big.Int).SetUint64(ev.Sequence),
	}})
}
