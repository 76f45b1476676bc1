package bridges

import (
	"context"
	"log"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"bridgescan/internal/chains"
	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

const (
	topicRouterFundsDeposited     = "0x6f223106c8e3df857d691613d18d1478cc7c629a1fdf16c7b461d36729fcc7ad"
	topicRouterDepositWithMessage = "0x3dbc28a2fa93575c89d951d683c45ddb951a2ecf6bc9b9704a61589fa0fcb70f"
	topicRouterIUSDCDeposited     = "0x297a8bc8b87367a63661d6429dbab51be5cefd71ce6a3050fa900a8f276d66d9"
	topicRouterDepositInfoUpdate  = "0x86896302632bf6dc8a3ac0ae7ddf17d5a5d5c1ca1aad37b4b920a587c51135b1"
	topicRouterFundsPaid          = "0x0f3ca0b27903ec13ef88a7ea8be837cc19b0d7f71a735f2083215739a8004464"
	topicRouterPaidWithMessage    = "0x21937deaa62558dad619c8d730a7d1d7ef41731fc194c32973511e1455cb37ad"
)

const routerForwarderABI = `[
	{"type":"event","name":"FundsDeposited","inputs":[
		{"name":"partnerId","type":"uint256","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"destChainIdBytes","type":"bytes32","indexed":false},
		{"name":"destAmount","type":"uint256","indexed":false},
		{"name":"depositId","type":"uint256","indexed":false},
		{"name":"srcToken","type":"address","indexed":false},
		{"name":"depositor","type":"address","indexed":false},
		{"name":"recipient","type":"bytes","indexed":false},
		{"name":"destToken","type":"bytes","indexed":false}]},
	{"type":"event","name":"FundsDepositedWithMessage","inputs":[
		{"name":"partnerId","type":"uint256","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"destChainIdBytes","type":"bytes32","indexed":false},
		{"name":"destAmount","type":"uint256","indexed":false},
		{"name":"depositId","type":"uint256","indexed":false},
		{"name":"srcToken","type":"address","indexed":false},
		{"name":"recipient","type":"bytes","indexed":false},
		{"name":"depositor","type":"address","indexed":false},
		{"name":"destToken","type":"bytes","indexed":false},
		{"name":"message","type":"bytes","indexed":false}]},
	{"type":"event","name":"iUSDCDeposited","inputs":[
		{"name":"partnerId","type":"uint256","indexed":false},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"destChainIdBytes","type":"bytes32","indexed":false},
		{"name":"usdcNonce","type":"uint256","indexed":false},
		{"name":"srcToken","type":"address","indexed":false},
		{"name":"recipient","type":"bytes32","indexed":false},
		{"name":"depositor","type":"address","indexed":false}]},
	{"type":"event","name":"DepositInfoUpdate","inputs":[
		{"name":"srcToken","type":"address","indexed":false},
		{"name":"feeAmount","type":"uint256","indexed":false},
		{"name":"depositId","type":"uint256","indexed":false},
		{"name":"eventNonce","type":"uint256","indexed":false},
		{"name":"initiatewithdrawal","type":"bool","indexed":false},
		{"name":"depositor","type":"address","indexed":false}]},
	{"type":"event","name":"FundsPaid","inputs":[
		{"name":"messageHash","type":"bytes32","indexed":false},
		{"name":"forwarder","type":"address","indexed":false},
		{"name":"nonce","type":"uint256","indexed":false}]},
	{"type":"event","name":"FundsPaidWithMessage","inputs":[
		{"name":"messageHash","type":"bytes32","indexed":false},
		{"name":"forwarder","type":"address","indexed":false},
		{"name":"nonce","type":"uint256","indexed":false},
		{"name":"execFlag","type":"bool","indexed":false},
		{"name":"execData","type":"bytes","indexed":false}]}
]`

var routerABI = evm.MustParseABI(routerForwarderABI)

var routerTopics = []string{
	topicRouterFundsDeposited,
	topicRouterDepositWithMessage,
	topicRouterIUSDCDeposited,
	topicRouterDepositInfoUpdate,
	topicRouterFundsPaid,
	topicRouterPaidWithMessage,
}

// routerForwarders holds the asset forwarder deployment per chain. The
// forwarder address feeds into the message hash on the destination side.
var routerForwarders = map[string]string{
	"ethereum":  "0xc21e4ebd1d92036cb467b53fe3258f219d909eb9",
	"optimism":  "0x8201c02d4ab2214471e8c3ad6475c8b0cd9f2d06",
	"bnb":       "0x260687ebc6c55dadd578264260f9f6e968f7b2a5",
	"polygon":   "0x1396f41d89b96eaf29a7ef9ee01ad36e452235ae",
	"base":      "0x0fa205c0446cd9eedcc7538c9e24bc55ad08207f",
	"arbitrum":  "0xef300fb4243a0ff3b90c8ccfa1264d78182adaa4",
	"avalanche": "0xf9f4c3dc7ba8f56737a92d74fd67230c38af51f2",
}

// routerStableTokens is the USDC deployment per chain, the fallback
// destination token when the event does not carry one.
var routerStableTokens = map[string]string{
	"ethereum":  "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
	"arbitrum":  "0xaf88d065e77c8cc2239327c5edb3a432268e5831",
	"optimism":  "0x0b2c639c533813f4aa9d7837caf62653d097ff85",
	"polygon":   "0x3c499c542cef5e3811e1192ce70d8cc03d5c3359",
	"base":      "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
	"bnb":       "0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d",
	"avalanche": "0xb97ef9ef8734c71904d8002f8b6bc66dd9c48a6e",
}

// routerTokenDecimals is the decimal scale the paying contract hashes
// amounts at. Only bnb USDC deviates from 18.
var routerTokenDecimals = map[string]int{
	"bnb": 6,
}

var routerConfig = func() map[string][]ContractGroup {
	cfg := make(map[string][]ContractGroup, len(routerForwarders))
	for chain, contract := range routerForwarders {
		cfg[chain] = []ContractGroup{{Contract: contract, Topics: routerTopics}}
	}
	return cfg
}()

// asciiBytes32ChainID encodes a numeric chain id as ASCII decimal digits,
// null-padded on the right to 32 bytes, the representation the forwarder
// contracts use for destChainIdBytes.
func asciiBytes32ChainID(id int64) [32]byte {
	var out [32]byte
	copy(out[:], strconv.FormatInt(id, 10))
	return out
}

// decodeASCIIChainID reads the digits back out of a destChainIdBytes value.
func decodeASCIIChainID(b [32]byte) (int64, bool) {
	var digits []byte
	for _, c := range b {
		if c == 0 {
			break
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		digits = append(digits, c)
	}
	if len(digits) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// routerMessageHash reproduces the relay hash the destination forwarder
// emits in FundsPaid:
//
//	keccak256(abi.encode(amount, srcChainIdBytes, depositId, destToken, recipient, forwarder))
func routerMessageHash(amount *big.Int, srcChainID [32]byte, depositID *big.Int, destToken, recipient, forwarder string) string {
	buf := make([]byte, 0, 6*32)
	var word [32]byte

	amount.FillBytes(word[:])
	buf = append(buf, word[:]...)
	buf = append(buf, srcChainID[:]...)
	depositID.FillBytes(word[:])
	buf = append(buf, word[:]...)
	for _, addr := range []string{destToken, recipient, forwarder} {
		var padded [32]byte
		copy(padded[12:], common.HexToAddress(addr).Bytes())
		buf = append(buf, padded[:]...)
	}
	return "0x" + common.Bytes2Hex(crypto.Keccak256(buf))
}

// RouterHandler tracks the Nitro asset forwarder: deposits on the source
// chain and FundsPaid on the destination, joined through the message hash
// recomputed at extraction time.
type RouterHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewRouterHandler(repo *repository.Repository, set ChainSet) *RouterHandler {
	return &RouterHandler{repo: repo, set: set}
}

func (h *RouterHandler) Name() string { return "router" }

func (h *RouterHandler) Blockchains() []string { return blockchainsOf(routerConfig) }

func (h *RouterHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(routerConfig, h.Name(), blockchain)
}

func (h *RouterHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var (
			ok  bool
			err error
		)
		switch l.Topic0() {
		case topicRouterFundsDeposited:
			ok, err = h.handleFundsDeposited(ctx, blockchain, l, false)
		case topicRouterDepositWithMessage:
			ok, err = h.handleFundsDeposited(ctx, blockchain, l, true)
		case topicRouterIUSDCDeposited:
			ok, err = h.handleIUSDCDeposited(ctx, blockchain, l)
		case topicRouterDepositInfoUpdate:
			ok, err = h.handleDepositInfoUpdate(ctx, blockchain, l)
		case topicRouterFundsPaid:
			ok, err = h.handleFundsPaid(ctx, blockchain, l, false)
		case topicRouterPaidWithMessage:
			ok, err = h.handleFundsPaid(ctx, blockchain, l, true)
		default:
			continue
		}
		if err != nil {
			log.Printf("[router] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		if ok {
			accepted = append(accepted, l)
		}
	}
	return accepted, nil
}

func (h *RouterHandler) handleFundsDeposited(ctx context.Context, blockchain string, l models.Log, hasMessage bool) (bool, error) {
	var ev struct {
		PartnerId        *big.Int
		Amount           *big.Int
		DestChainIdBytes [32]byte
		DestAmount       *big.Int
		DepositId        *big.Int
		SrcToken         common.Address
		Depositor        common.Address
		Recipient        []byte
		DestToken        []byte
		Message          []byte
	}
	event := "FundsDeposited"
	if hasMessage {
		event = "FundsDepositedWithMessage"
	}
	if err := evm.UnpackLog(routerABI, &ev, event, l); err != nil {
		return false, err
	}

	destID, ok := decodeASCIIChainID(ev.DestChainIdBytes)
	if !ok {
		return false, nil
	}
	destChain, ok := chains.NameByID(destID)
	if !ok || !h.set.Allows(destChain) {
		return false, nil
	}

	destToken := ""
	if len(ev.DestToken) > 0 {
		destToken = unpadBytesAddress(ev.DestToken)
	}
	if destToken == "" || destToken == "0x0000000000000000000000000000000000000000" {
		destToken = routerStableTokens[destChain]
	}
	if destToken == "" {
		return false, nil
	}

	row := models.RouterFundsDeposited{
		Blockchain:       blockchain,
		TransactionHash:  l.TransactionHash,
		PartnerID:        ev.PartnerId,
		Amount:           ev.Amount,
		DestChainIDBytes: "0x" + common.Bytes2Hex(ev.DestChainIdBytes[:]),
		DestAmount:       ev.DestAmount,
		DepositID:        ev.DepositId,
		SrcToken:         strings.ToLower(ev.SrcToken.Hex()),
		Depositor:        strings.ToLower(ev.Depositor.Hex()),
		RecipientRaw:     "0x" + common.Bytes2Hex(ev.Recipient),
		DestTokenRaw:     destToken,
		Message:          "0x" + common.Bytes2Hex(ev.Message),
		HasMessage:       hasMessage,
	}

	// Precompute the hash FundsPaid will carry on the destination chain so
	// the correlator can join on equality.
	if len(ev.Recipient) >= 20 {
		recipient := unpadBytesAddress(ev.Recipient)
		if forwarder, ok := routerForwarders[destChain]; ok {
			if srcID, ok := chains.IDByName(blockchain); ok {
				amount := ev.DestAmount
				if amount == nil || amount.Sign() == 0 {
					amount = ev.Amount
				}
				if dec, ok := routerTokenDecimals[destChain]; ok && dec < 18 {
					scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(18-dec)), nil)
					amount = new(big.Int).Mul(amount, scale)
				}
				row.MessageHash = routerMessageHash(amount, asciiBytes32ChainID(srcID), ev.DepositId, destToken, recipient, forwarder)
			}
		}
	}

	return true, h.repo.SaveRouterFundsDeposited(ctx, []models.RouterFundsDeposited{row})
}

func (h *RouterHandler) handleIUSDCDeposited(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		PartnerId        *big.Int
		Amount           *big.Int
		DestChainIdBytes [32]byte
		UsdcNonce        *big.Int
		SrcToken         common.Address
		Recipient        [32]byte
		Depositor        common.Address
	}
	if err := evm.UnpackLog(routerABI, &ev, "iUSDCDeposited", l); err != nil {
		return false, err
	}

	return true, h.repo.SaveRouterIUSDCDeposited(ctx, []models.RouterIUSDCDeposited{{
		Blockchain:       blockchain,
		TransactionHash:  l.TransactionHash,
		PartnerID:        ev.PartnerId,
		Amount:           ev.Amount,
		DestChainIDBytes: "0x" + common.Bytes2Hex(ev.DestChainIdBytes[:]),
		USDCNonce:        ev.UsdcNonce,
		SrcToken:         strings.ToLower(ev.SrcToken.Hex()),
		Recipient:        "0x" + common.Bytes2Hex(ev.Recipient[:]),
		Depositor:        strings.ToLower(ev.Depositor.Hex()),
	}})
}

func (h *RouterHandler) handleDepositInfoUpdate(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		SrcToken           common.Address
		FeeAmount          *big.Int
		DepositId          *big.Int
		EventNonce         *big.Int
		Initiatewithdrawal bool
		Depositor          common.Address
	}
	if err := evm.UnpackLog(routerABI, &ev, "DepositInfoUpdate", l); err != nil {
		return false, err
	}

	return true, h.repo.SaveRouterDepositInfoUpdates(ctx, []models.RouterDepositInfoUpdate{{
		Blockchain:         blockchain,
		TransactionHash:    l.TransactionHash,
		SrcToken:           strings.ToLower(ev.SrcToken.Hex()),
		FeeAmount:          ev.FeeAmount,
		DepositID:          ev.DepositId,
		EventNonce:         ev.EventNonce,
		InitiateWithdrawal: ev.Initiatewithdrawal,
		Depositor:          strings.ToLower(ev.Depositor.Hex()),
	}})
}

func (h *RouterHandler) handleFundsPaid(ctx context.Context, blockchain string, l models.Log, hasMessage bool) (bool, error) {
	var ev struct {
		MessageHash [32]byte
		Forwarder   common.Address
		Nonce       *big.Int
		ExecFlag    bool
		ExecData    []byte
	}
	event := "FundsPaid"
	if hasMessage {
		event = "FundsPaidWithMessage"
	}
	if err := evm.UnpackLog(routerABI, &ev, event, l); err != nil {
		return false, err
	}

	row := models.RouterFundsPaid{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		MessageHash:     "0x" + common.Bytes2Hex(ev.MessageHash[:]),
		Forwarder:       strings.ToLower(ev.Forwarder.Hex()),
		Nonce:           ev.Nonce,
		HasMessage:      hasMessage,
	}
	if hasMessage {
		flag := ev.ExecFlag
		row.ExecFlag = &flag
		row.ExecData = "0x" + common.Bytes2Hex(ev.ExecData)
	}

	return true, h.repo.SaveRouterFundsPaid(ctx, []models.RouterFundsPaid{row})
}
