package bridges

import (
	"context"
	"log"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/chains"
	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

const (
	topicDeBridgeCreatedOrder    = "0xfc8703fd57380f9dd234a89dce51333782d49c5902f307b02f03e014d18fe471"
	topicDeBridgeClaimedUnlock   = "0x33fff3d864e92b6e1ef9e830196fc019c946104ea621b833aaebd3c3e84b2f6f"
	topicDeBridgeSentOrderUnlock = "0x37a01d7dc38e924008cf4f2fa3d2ec1f45e7ae3c8292eb3e7d9314b7ad10e2fc"
	topicDeBridgeFulfilledOrder  = "0xd281ee92bab1446041582480d2c0a9dc91f855386bb27ea295faac1e992f7fe4"
)

const deBridgeDLNABI = `[
	{"type":"event","name":"CreatedOrder","inputs":[
		{"name":"order","type":"tuple","indexed":false,"components":[
			{"name":"makerOrderNonce","type":"uint64"},
			{"name":"makerSrc","type":"bytes"},
			{"name":"giveChainId","type":"uint256"},
			{"name":"giveTokenAddress","type":"bytes"},
			{"name":"giveAmount","type":"uint256"},
			{"name":"takeChainId","type":"uint256"},
			{"name":"takeTokenAddress","type":"bytes"},
			{"name":"takeAmount","type":"uint256"},
			{"name":"receiverDst","type":"bytes"},
			{"name":"givePatchAuthoritySrc","type":"bytes"},
			{"name":"orderAuthorityAddressDst","type":"bytes"},
			{"name":"allowedTakerDst","type":"bytes"},
			{"name":"allowedCancelBeneficiarySrc","type":"bytes"},
			{"name":"externalCall","type":"bytes"}]},
		{"name":"orderId","type":"bytes32","indexed":false},
		{"name":"affiliateFee","type":"bytes","indexed":false},
		{"name":"nativeFixFee","type":"uint256","indexed":false},
		{"name":"percentFee","type":"uint256","indexed":false},
		{"name":"referralCode","type":"uint32","indexed":false},
		{"name":"metadata","type":"bytes","indexed":false}]},
	{"type":"event","name":"FulfilledOrder","inputs":[
		{"name":"order","type":"tuple","indexed":false,"components":[
			{"name":"makerOrderNonce","type":"uint64"},
			{"name":"makerSrc","type":"bytes"},
			{"name":"giveChainId","type":"uint256"},
			{"name":"giveTokenAddress","type":"bytes"},
			{"name":"giveAmount","type":"uint256"},
			{"name":"takeChainId","type":"uint256"},
			{"name":"takeTokenAddress","type":"bytes"},
			{"name":"takeAmount","type":"uint256"},
			{"name":"receiverDst","type":"bytes"},
			{"name":"givePatchAuthoritySrc","type":"bytes"},
			{"name":"orderAuthorityAddressDst","type":"bytes"},
			{"name":"allowedTakerDst","type":"bytes"},
			{"name":"allowedCancelBeneficiarySrc","type":"bytes"},
			{"name":"externalCall","type":"bytes"}]},
		{"name":"orderId","type":"bytes32","indexed":false},
		{"name":"sender","type":"address","indexed":false},
		{"name":"unlockAuthority","type":"address","indexed":false}]},
	{"type":"event","name":"SentOrderUnlock","inputs":[
		{"name":"orderId","type":"bytes32","indexed":false},
		{"name":"beneficiary","type":"bytes","indexed":false},
		{"name":"submissionId","type":"bytes32","indexed":false}]},
	{"type":"event","name":"ClaimedUnlock","inputs":[
		{"name":"orderId","type":"bytes32","indexed":false},
		{"name":"beneficiary","type":"address","indexed":false},
		{"name":"giveAmount","type":"uint256","indexed":false},
		{"name":"giveTokenAddress","type":"address","indexed":false}]}
]`

var deBridgeABI = evm.MustParseABI(deBridgeDLNABI)

var (
	deBridgeSourceGroup = ContractGroup{
		Contract: "0xef4fb24ad0916217251f553c0596f8edc630eb66",
		Topics:   []string{topicDeBridgeCreatedOrder, topicDeBridgeClaimedUnlock},
	}
	deBridgeDestinationGroup = ContractGroup{
		Contract: "0xe7351fd770a37282b91d153ee690b63579d6dd7f",
		Topics:   []string{topicDeBridgeSentOrderUnlock, topicDeBridgeFulfilledOrder},
	}
)

var deBridgeConfig = map[string][]ContractGroup{
	"ethereum": {deBridgeSourceGroup, deBridgeDestinationGroup},
	"arbitrum": {deBridgeSourceGroup, deBridgeDestinationGroup},
	"bnb":      {deBridgeSourceGroup, deBridgeDestinationGroup},
	"base":     {deBridgeSourceGroup, deBridgeDestinationGroup},
}

// deBridgeOrderTuple mirrors the DLN order struct. Addresses come as bytes so
// the same struct serves both EVM and non-EVM endpoints.
type deBridgeOrderTuple struct {
	MakerOrderNonce             uint64
	MakerSrc                    []byte
	GiveChainId                 *big.Int
	GiveTokenAddress            []byte
	GiveAmount                  *big.Int
	TakeChainId                 *big.Int
	TakeTokenAddress            []byte
	TakeAmount                  *big.Int
	ReceiverDst                 []byte
	GivePatchAuthoritySrc       []byte
	OrderAuthorityAddressDst    []byte
	AllowedTakerDst             []byte
	AllowedCancelBeneficiarySrc []byte
	ExternalCall                []byte
}

// deBridgeChainName maps a DLN chain id to a chain name. Ids in the private
// 1000000x range cover chains outside the tracked set and resolve to false.
func deBridgeChainName(id *big.Int) (string, bool) {
	if strings.HasPrefix(id.String(), "1000000") {
		return "", false
	}
	if !id.IsInt64() {
		return "", false
	}
	return chains.NameByID(id.Int64())
}

func unpadBytesAddress(b []byte) string {
	return evm.UnpadAddress("0x" + common.Bytes2Hex(b))
}

func (o *deBridgeOrderTuple) model(set ChainSet) (models.DeBridgeOrder, bool) {
	src, okSrc := deBridgeChainName(o.GiveChainId)
	dst, okDst := deBridgeChainName(o.TakeChainId)
	if !okSrc || !okDst {
		return models.DeBridgeOrder{}, false
	}
	if !set.Allows(src) || !set.Allows(dst) {
		return models.DeBridgeOrder{}, false
	}
	return models.DeBridgeOrder{
		MakerOrderNonce:             o.MakerOrderNonce,
		MakerSrc:                    unpadBytesAddress(o.MakerSrc),
		SrcBlockchain:               src,
		GiveTokenAddress:            unpadBytesAddress(o.GiveTokenAddress),
		GiveAmount:                  o.GiveAmount,
		DstBlockchain:               dst,
		TakeTokenAddress:            unpadBytesAddress(o.TakeTokenAddress),
		TakeAmount:                  o.TakeAmount,
		ReceiverDst:                 unpadBytesAddress(o.ReceiverDst),
		GivePatchAuthoritySrc:       unpadBytesAddress(o.GivePatchAuthoritySrc),
		OrderAuthorityAddressDst:    unpadBytesAddress(o.OrderAuthorityAddressDst),
		AllowedTakerDst:             unpadBytesAddress(o.AllowedTakerDst),
		AllowedCancelBeneficiarySrc: "0x" + common.Bytes2Hex(o.AllowedCancelBeneficiarySrc),
		ExternalCall:                "0x" + common.Bytes2Hex(o.ExternalCall),
	}, true
}

// DeBridgeHandler stores DLN order lifecycle events keyed by order id.
type DeBridgeHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewDeBridgeHandler(repo *repository.Repository, set ChainSet) *DeBridgeHandler {
	return &DeBridgeHandler{repo: repo, set: set}
}

func (h *DeBridgeHandler) Name() string { return "debridge" }

func (h *DeBridgeHandler) Blockchains() []string { return blockchainsOf(deBridgeConfig) }

func (h *DeBridgeHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(deBridgeConfig, h.Name(), blockchain)
}

func (h *DeBridgeHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var (
			ok  bool
			err error
		)
		switch l.Topic0() {
		case topicDeBridgeCreatedOrder:
			ok, err = h.handleCreatedOrder(ctx, blockchain, l)
		case topicDeBridgeFulfilledOrder:
			ok, err = h.handleFulfilledOrder(ctx, blockchain, l)
		case topicDeBridgeSentOrderUnlock:
			ok, err = h.handleSentOrderUnlock(ctx, blockchain, l)
		case topicDeBridgeClaimedUnlock:
			ok, err = h.handleClaimedUnlock(ctx, blockchain, l)
		default:
			continue
		}
		if err != nil {
			log.Printf("[debridge] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		if ok {
			accepted = append(accepted, l)
		}
	}
	return accepted, nil
}

func (h *DeBridgeHandler) handleCreatedOrder(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		Order        deBridgeOrderTuple
		OrderId      [32]byte
		AffiliateFee []byte
		NativeFixFee *big.Int
		PercentFee   *big.Int
		ReferralCode uint32
		Metadata     []byte
	}
	if err := evm.UnpackLog(deBridgeABI, &ev, "CreatedOrder", l); err != nil {
		return false, err
	}

	order, ok := ev.Order.model(h.set)
	if !ok {
		return false, nil
	}
	return true, h.repo.SaveDeBridgeCreatedOrders(ctx, []models.DeBridgeCreatedOrder{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		Order:           order,
		OrderID:         "0x" + common.Bytes2Hex(ev.OrderId[:]),
		AffiliateFee:    "0x" + common.Bytes2Hex(ev.AffiliateFee),
		NativeFixFee:    ev.NativeFixFee,
		PercentFee:      ev.PercentFee,
		ReferralCode:    ev.ReferralCode,
		Metadata:        "0x" + common.Bytes2Hex(ev.Metadata),
	}})
}

func (h *DeBridgeHandler) handleFulfilledOrder(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		Order           deBridgeOrderTuple
		OrderId         [32]byte
		Sender          common.Address
		UnlockAuthority common.Address
	}
	if err := evm.UnpackLog(deBridgeABI, &ev, "FulfilledOrder", l); err != nil {
		return false, err
	}

	order, ok := ev.Order.model(h.set)
	if !ok {
		return false, nil
	}
	return true, h.repo.SaveDeBridgeFulfilledOrders(ctx, []models.DeBridgeFulfilledOrder{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		Order:           order,
		OrderID:         "0x" + common.Bytes2Hex(ev.OrderId[:]),
		Sender:          strings.ToLower(ev.Sender.Hex()),
		UnlockAuthority: strings.ToLower(ev.UnlockAuthority.Hex()),
	}})
}

func (h *DeBridgeHandler) handleSentOrderUnlock(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		OrderId      [32]byte
		Beneficiary  []byte
		SubmissionId [32]byte
	}
	if err := evm.UnpackLog(deBridgeABI, &ev, "SentOrderUnlock", l); err != nil {
		return false, err
	}

	return true, h.repo.SaveDeBridgeSentOrderUnlocks(ctx, []models.DeBridgeSentOrderUnlock{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		OrderID:         "0x" + common.Bytes2Hex(ev.OrderId[:]),
		Beneficiary:     unpadBytesAddress(ev.Beneficiary),
		SubmissionID:    "0x" + common.Bytes2Hex(ev.SubmissionId[:]),
	}})
}

func (h *DeBridgeHandler) handleClaimedUnlock(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		OrderId          [32]byte
		Beneficiary      common.Address
		GiveAmount       *big.Int
		GiveTokenAddress common.Address
	}
	if err := evm.UnpackLog(deBridgeABI, &ev, "ClaimedUnlock", l); err != nil {
		return false, err
	}

	return true, h.repo.SaveDeBridgeClaimedUnlocks(ctx, []models.DeBridgeClaimedUnlock{{
		Blockchain:       blockchain,
		TransactionHash:  l.TransactionHash,
		OrderID:          "0x" + common.Bytes2Hex(ev.OrderId[:]),
		Beneficiary:      strings.ToLower(ev.Beneficiary.Hex()),
		GiveAmount:       ev.GiveAmount,
		GiveTokenAddress: strings.ToLower(ev.GiveTokenAddress.Hex()),
	}})
}
