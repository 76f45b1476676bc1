package bridges

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

const topicCowTrade = "0xa07a543ab8a018198e99ca0184c93fe9050a79400a0a723441f84de1d972cc17"

const cowSettlementABI = `[
	{"type":"event","name":"Trade","inputs":[
		{"name":"owner","type":"address","indexed":true},
		{"name":"sellToken","type":"address","indexed":false},
		{"name":"buyToken","type":"address","indexed":false},
		{"name":"sellAmount","type":"uint256","indexed":false},
		{"name":"buyAmount","type":"uint256","indexed":false},
		{"name":"feeAmount","type":"uint256","indexed":false},
		{"name":"orderUid","type":"bytes","indexed":false}]}
]`

var cowABI = evm.MustParseABI(cowSettlementABI)

// The settlement contract is deployed at the same address everywhere.
const cowSettlementContract = "0x9008d19f58aabd9ed0d60971565aa8510560ab41"

var cowConfig = map[string][]ContractGroup{
	"ethereum": {{Contract: cowSettlementContract, Topics: []string{topicCowTrade}}},
	"gnosis":   {{Contract: cowSettlementContract, Topics: []string{topicCowTrade}}},
	"arbitrum": {{Contract: cowSettlementContract, Topics: []string{topicCowTrade}}},
	"base":     {{Contract: cowSettlementContract, Topics: []string{topicCowTrade}}},
	"polygon":  {{Contract: cowSettlementContract, Topics: []string{topicCowTrade}}},
}

// cowAPINetworks maps chain names to orderbook API path segments.
var cowAPINetworks = map[string]string{
	"ethereum": "mainnet",
	"gnosis":   "xdai",
	"arbitrum": "arbitrum_one",
	"base":     "base",
	"polygon":  "polygon",
}

// CowOrder is the subset of the orderbook order response the trade rows use.
type CowOrder struct {
	AppData      string          `json:"appData"`
	FullAppData  string          `json:"fullAppData"`
	AppDataCid   string          `json:"appDataCid"`
	Kind         string          `json:"kind"`
	From         string          `json:"from"`
	Receiver     string          `json:"receiver"`
	CreationDate string          `json:"creationDate"`
	Price        json.RawMessage `json:"executedSellAmount"`
}

// OrderbookClient fetches order metadata from the CoW Protocol orderbook.
type OrderbookClient struct {
	http    *http.Client
	baseURL string
}

func NewOrderbookClient() *OrderbookClient {
	return &OrderbookClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.cow.fi",
	}
}

func (c *OrderbookClient) Order(ctx context.Context, blockchain, orderUID string) (*CowOrder, error) {
	network, ok := cowAPINetworks[blockchain]
	if !ok {
		network = "mainnet"
	}

	url := fmt.Sprintf("%s/%s/api/v1/orders/%s", c.baseURL, network, orderUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orderbook returned status %d for %s", resp.StatusCode, orderUID)
	}

	var order CowOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", orderUID, err)
	}
	return &order, nil
}

// CrossChainKey picks the correlation key out of enriched order data: the
// appData CID when the orderbook has one, the raw appData hash otherwise.
func (o *CowOrder) CrossChainKey() string {
	if o == nil {
		return ""
	}
	if o.AppDataCid != "" {
		return o.AppDataCid
	}
	return o.AppData
}

// CowHandler stores Trade events from the settlement contract, enriched with
// orderbook metadata when the API knows the order.
type CowHandler struct {
	repo      *repository.Repository
	set       ChainSet
	orderbook *OrderbookClient
}

func NewCowHandler(repo *repository.Repository, set ChainSet) *CowHandler {
	return &CowHandler{repo: repo, set: set, orderbook: NewOrderbookClient()}
}

func (h *CowHandler) Name() string { return "cow" }

func (h *CowHandler) Blockchains() []string { return blockchainsOf(cowConfig) }

func (h *CowHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(cowConfig, h.Name(), blockchain)
}

// decodeOrderUID splits an order uid into its packed parts: order hash,
// owner, validTo.
func decodeOrderUID(uid []byte) (orderHash, owner string, validTo int64, err error) {
	if len(uid) != 56 {
		return "", "", 0, fmt.Errorf("order uid must be 56 bytes, got %d", len(uid))
	}
	orderHash = "0x" + common.Bytes2Hex(uid[:32])
	owner = "0x" + common.Bytes2Hex(uid[32:52])
	validTo = int64(uint32(uid[52])<<24 | uint32(uid[53])<<16 | uint32(uid[54])<<8 | uint32(uid[55]))
	return orderHash, owner, validTo, nil
}

func (h *CowHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		if l.Topic0() != topicCowTrade {
			continue
		}
		if err := h.handleTrade(ctx, blockchain, l); err != nil {
			log.Printf("[cow] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		accepted = append(accepted, l)
	}
	return accepted, nil
}

func (h *CowHandler) handleTrade(ctx context.Context, blockchain string, l models.Log) error {
	var ev struct {
		Owner      common.Address
		SellToken  common.Address
		BuyToken   common.Address
		SellAmount *big.Int
		BuyAmount  *big.Int
		FeeAmount  *big.Int
		OrderUid   []byte
	}
	if err := evm.UnpackLog(cowABI, &ev, "Trade", l); err != nil {
		return err
	}

	uid := "0x" + common.Bytes2Hex(ev.OrderUid)
	_, _, validTo, err := decodeOrderUID(ev.OrderUid)
	if err != nil {
		return err
	}

	trade := models.CowTrade{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		TradeID:         uid,
		Owner:           strings.ToLower(ev.Owner.Hex()),
		SellToken:       strings.ToLower(ev.SellToken.Hex()),
		BuyToken:        strings.ToLower(ev.BuyToken.Hex()),
		SellAmount:      ev.SellAmount,
		BuyAmount:       ev.BuyAmount,
		FeeAmount:       ev.FeeAmount,
		ValidTo:         validTo,
		LogIndex:        l.LogIndex,
	}

	// The orderbook fills in appData and the order kind; trades it does not
	// know are stored bare and retried by the generator.
	if order, err := h.orderbook.Order(ctx, blockchain, uid); err != nil {
		log.Printf("[cow] Warn: orderbook lookup for %s: %v", uid, err)
	} else if order != nil {
		trade.AppData = order.AppData
		trade.AppDataCid = order.AppDataCid
		trade.CrossChainKey = order.CrossChainKey()
		trade.OrderKind = order.Kind
		trade.FromAddress = strings.ToLower(order.From)
		if ts, err := time.Parse(time.RFC3339, order.CreationDate); err == nil {
			trade.Timestamp = ts.Unix()
		}
	}

	return h.repo.SaveCowTrades(ctx, []models.CowTrade{trade})
}
