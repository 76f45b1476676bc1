package bridges

import (
	"bytes"
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
	topicMayanSwapAndForwardedEth   = "0x7cbff921ae1f3ea71284120d2aabde13587df067f2bb5c831ea6e35d7a9242ac"
	topicMayanSwapAndForwardedERC20 = "0x23278f58875126c795a4072b98b5851fe9b21cea19895b02a6224fefbb1e3298"
	topicMayanForwardedEth          = "0xb8543d214cab9591941648db8d40126a163bfd0db4a865678320b921e1398043"
	topicMayanForwardedERC20        = "0xbf150db6b4a14b084f7346b4bc300f552ce867afe55be27bce2d6b37e3307cda"
	topicMayanOrderCreated          = "0x918554b6bd6e2895ce6553de5de0e1a69db5289aa0e4fe193a0dcd1f14347477"
	topicMayanOrderFulfilled        = "0x6ec9b1b5a9f54d929394f18dac4ba1b1cc79823f2266c2d09cab8a3b4700b40b"
	topicMayanOrderUnlocked         = "0x4bdcff348c4d11383c487afb95f732f243d93fbfc478aa736a4981cf6a640911"
)

// Swift and the forwarder are deployed at the same address on every chain.
const (
	mayanSwiftContract     = "0xc38e4e6a15593f908255214653d3d947ca1c2338"
	mayanForwarderContract = "0x337685fdab40d39bd02028545a4ffa7d287cc3e2"
)

// createOrder function selectors inside forwarded calldata.
var (
	mayanSelectorCreateOrderWithEth   = []byte{0xb8, 0x66, 0xe1, 0x73}
	mayanSelectorCreateOrderWithToken = []byte{0x8e, 0x8d, 0x14, 0x2b}
)

const mayanEventsABI = `[
	{"type":"event","name":"SwapAndForwardedEth","inputs":[
		{"name":"amountIn","type":"uint256","indexed":false},
		{"name":"swapProtocol","type":"address","indexed":false},
		{"name":"middleToken","type":"address","indexed":false},
		{"name":"middleAmount","type":"uint256","indexed":false},
		{"name":"mayanProtocol","type":"address","indexed":false},
		{"name":"mayanData","type":"bytes","indexed":false}]},
	{"type":"event","name":"SwapAndForwardedERC20","inputs":[
		{"name":"tokenIn","type":"address","indexed":false},
		{"name":"amountIn","type":"uint256","indexed":false},
		{"name":"swapProtocol","type":"address","indexed":false},
		{"name":"middleToken","type":"address","indexed":false},
		{"name":"middleAmount","type":"uint256","indexed":false},
		{"name":"mayanProtocol","type":"address","indexed":false},
		{"name":"mayanData","type":"bytes","indexed":false}]},
	{"type":"event","name":"ForwardedEth","inputs":[
		{"name":"mayanProtocol","type":"address","indexed":false},
		{"name":"protocolData","type":"bytes","indexed":false}]},
	{"type":"event","name":"ForwardedERC20","inputs":[
		{"name":"token","type":"address","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"mayanProtocol","type":"address","indexed":false},
		{"name":"protocolData","type":"bytes","indexed":false}]},
	{"type":"event","name":"OrderCreated","inputs":[
		{"name":"key","type":"bytes32","indexed":false}]},
	{"type":"event","name":"OrderFulfilled","inputs":[
		{"name":"key","type":"bytes32","indexed":false},
		{"name":"sequence","type":"uint64","indexed":false},
		{"name":"netAmount","type":"uint256","indexed":false}]},
	{"type":"event","name":"OrderUnlocked","inputs":[
		{"name":"key","type":"bytes32","indexed":false}]}
]`

var mayanABI = evm.MustParseABI(mayanEventsABI)

var (
	mayanSwiftGroup = ContractGroup{
		Contract: mayanSwiftContract,
		Topics:   []string{topicMayanOrderFulfilled, topicMayanOrderCreated, topicMayanOrderUnlocked},
	}
	mayanForwarderGroup = ContractGroup{
		Contract: mayanForwarderContract,
		Topics: []string{
			topicMayanSwapAndForwardedEth,
			topicMayanSwapAndForwardedERC20,
			topicMayanForwardedEth,
			topicMayanForwardedERC20,
		},
	}
)

var mayanConfig = map[string][]ContractGroup{
	"ethereum":  {mayanSwiftGroup, mayanForwarderGroup},
	"optimism":  {mayanSwiftGroup, mayanForwarderGroup},
	"arbitrum":  {mayanSwiftGroup, mayanForwarderGroup},
	"avalanche": {mayanSwiftGroup, mayanForwarderGroup},
	"base":      {mayanSwiftGroup, mayanForwarderGroup},
	"bnb":       {mayanSwiftGroup, mayanForwarderGroup},
	"polygon":   {mayanSwiftGroup, mayanForwarderGroup},
	"linea":     {mayanSwiftGroup, mayanForwarderGroup},
}

// MayanHandler covers the Swift order events and the forwarder events that
// wrap order creation behind a swap. The Solana leg lives in the
// SolanaHandler methods on the same type.
type MayanHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewMayanHandler(repo *repository.Repository, set ChainSet) *MayanHandler {
	return &MayanHandler{repo: repo, set: set}
}

func (h *MayanHandler) Name() string { return "mayan" }

func (h *MayanHandler) Blockchains() []string { return blockchainsOf(mayanConfig) }

func (h *MayanHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(mayanConfig, h.Name(), blockchain)
}

func (h *MayanHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var (
			ok  bool
			err error
		)
		switch l.Topic0() {
		case topicMayanSwapAndForwardedEth:
			ok, err = h.handleSwapAndForwarded(ctx, blockchain, l, true)
		case topicMayanSwapAndForwardedERC20:
			ok, err = h.handleSwapAndForwarded(ctx, blockchain, l, false)
		case topicMayanForwardedEth:
			ok, err = h.handleForwarded(ctx, blockchain, l, true)
		case topicMayanForwardedERC20:
			ok, err = h.handleForwarded(ctx, blockchain, l, false)
		case topicMayanOrderCreated:
			ok, err = h.handleOrderEvent(ctx, blockchain, l, "OrderCreated")
		case topicMayanOrderFulfilled:
			ok, err = h.handleOrderFulfilled(ctx, blockchain, l)
		case topicMayanOrderUnlocked:
			ok, err = h.handleOrderEvent(ctx, blockchain, l, "OrderUnlocked")
		default:
			continue
		}
		if err != nil {
			log.Printf("[mayan] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		if ok {
			accepted = append(accepted, l)
		}
	}
	return accepted, nil
}

// decodeForwardedParams pulls the OrderParams out of the createOrder calldata
// the forwarder relays. createOrderWithToken carries the token address and
// amount ahead of the params.
func decodeForwardedParams(data []byte) (*mayanOrderParams, bool) {
	if len(data) < 4 {
		return nil, false
	}
	var offset int
	switch {
	case bytes.Equal(data[:4], mayanSelectorCreateOrderWithEth):
		offset = 4
	case bytes.Equal(data[:4], mayanSelectorCreateOrderWithToken):
		offset = 4 + 2*32
	default:
		return nil, false
	}
	if len(data) < offset {
		return nil, false
	}
	p, err := decodeMayanOrderParams(data[offset:])
	if err != nil {
		return nil, false
	}
	return p, true
}

func (h *MayanHandler) handleSwapAndForwarded(ctx context.Context, blockchain string, l models.Log, nativeIn bool) (bool, error) {
	var ev struct {
		TokenIn       common.Address
		AmountIn      *big.Int
		SwapProtocol  common.Address
		MiddleToken   common.Address
		MiddleAmount  *big.Int
		MayanProtocol common.Address
		MayanData     []byte
	}
	event := "SwapAndForwardedERC20"
	if nativeIn {
		event = "SwapAndForwardedEth"
	}
	if err := evm.UnpackLog(mayanABI, &ev, event, l); err != nil {
		return false, err
	}

	// Only Swift traffic. The forwarder also fronts MCTP and the WH swap
	// bridge, which carry different payloads.
	if strings.ToLower(ev.MayanProtocol.Hex()) != mayanSwiftContract {
		return false, nil
	}
	params, ok := decodeForwardedParams(ev.MayanData)
	if !ok {
		return false, nil
	}
	dstChain, ok := mayanChainNames[params.DestChainID]
	if !ok || !h.set.Allows(dstChain) {
		return false, nil
	}

	return true, h.repo.SaveMayanSwapAndForwarded(ctx, []models.MayanSwapAndForwarded{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		TokenIn:         strings.ToLower(ev.TokenIn.Hex()),
		AmountIn:        ev.AmountIn,
		SwapProtocol:    strings.ToLower(ev.SwapProtocol.Hex()),
		MiddleToken:     strings.ToLower(ev.MiddleToken.Hex()),
		MiddleAmount:    ev.MiddleAmount,
		MayanProtocol:   strings.ToLower(ev.MayanProtocol.Hex()),
		Trader:          evm.UnpadAddress("0x" + common.Bytes2Hex(params.Trader[:])),
		TokenOut:        evm.UnpadAddress("0x" + common.Bytes2Hex(params.TokenOut[:])),
		MinAmountOut:    new(big.Int).SetUint64(params.MinAmountOut),
		GasDrop:         params.GasDrop,
		CancelFee:       params.CancelFee,
		RefundFee:       params.RefundFee,
		Deadline:        int64(params.Deadline),
		DstAddr:         evm.UnpadAddress("0x" + common.Bytes2Hex(params.DestAddr[:])),
		DstChain:        dstChain,
		ReferrerAddr:    evm.UnpadAddress("0x" + common.Bytes2Hex(params.ReferrerAddr[:])),
		ReferrerBps:     int(params.ReferrerBps),
		AuctionMode:     int(params.AuctionMode),
		Random:          "0x" + common.Bytes2Hex(params.Random[:]),
	}})
}

func (h *MayanHandler) handleForwarded(ctx context.Context, blockchain string, l models.Log, nativeIn bool) (bool, error) {
	var ev struct {
		Token         common.Address
		Amount        *big.Int
		MayanProtocol common.Address
		ProtocolData  []byte
	}
	event := "ForwardedERC20"
	if nativeIn {
		event = "ForwardedEth"
	}
	if err := evm.UnpackLog(mayanABI, &ev, event, l); err != nil {
		return false, err
	}

	if strings.ToLower(ev.MayanProtocol.Hex()) != mayanSwiftContract {
		return false, nil
	}
	params, ok := decodeForwardedParams(ev.ProtocolData)
	if !ok {
		return false, nil
	}
	dstChain, ok := mayanChainNames[params.DestChainID]
	if !ok || !h.set.Allows(dstChain) {
		return false, nil
	}

	return true, h.repo.SaveMayanForwarded(ctx, []models.MayanForwarded{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		Token:           strings.ToLower(ev.Token.Hex()),
		Amount:          ev.Amount,
		MayanProtocol:   strings.ToLower(ev.MayanProtocol.Hex()),
		Trader:          evm.UnpadAddress("0x" + common.Bytes2Hex(params.Trader[:])),
		TokenOut:        evm.UnpadAddress("0x" + common.Bytes2Hex(params.TokenOut[:])),
		MinAmountOut:    new(big.Int).SetUint64(params.MinAmountOut),
		GasDrop:         params.GasDrop,
		CancelFee:       params.CancelFee,
		RefundFee:       params.RefundFee,
		Deadline:        int64(params.Deadline),
		DstAddr:         evm.UnpadAddress("0x" + common.Bytes2Hex(params.DestAddr[:])),
		DstChain:        dstChain,
		ReferrerAddr:    evm.UnpadAddress("0x" + common.Bytes2Hex(params.ReferrerAddr[:])),
		ReferrerBps:     int(params.ReferrerBps),
		AuctionMode:     int(params.AuctionMode),
		Random:          "0x" + common.Bytes2Hex(params.Random[:]),
	}})
}

func (h *MayanHandler) handleOrderEvent(ctx context.Context, blockchain string, l models.Log, event string) (bool, error) {
	var ev struct {
		Key [32]byte
	}
	if err := evm.UnpackLog(mayanABI, &ev, event, l); err != nil {
		return false, err
	}

	row := models.MayanOrderEvent{
		Key:             common.Bytes2Hex(ev.Key[:]),
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
	}
	if event == "OrderCreated" {
		return true, h.repo.SaveMayanOrdersCreated(ctx, []models.MayanOrderEvent{row})
	}
	return true, h.repo.SaveMayanOrdersUnlocked(ctx, []models.MayanOrderEvent{row})
}

func (h *MayanHandler) handleOrderFulfilled(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		Key       [32]byte
		Sequence  uint64
		NetAmount *big.Int
	}
	if err := evm.UnpackLog(mayanABI, &ev, "OrderFulfilled", l); err != nil {
		return false, err
	}

	return true, h.repo.SaveMayanOrdersFulfilled(ctx, []models.MayanOrderFulfilled{{
		Key:             common.Bytes2Hex(ev.Key[:]),
		Sequence:        ev.Sequence,
		NetAmount:       ev.NetAmount,
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
	}})
}
