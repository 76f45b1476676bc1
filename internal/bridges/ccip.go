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
	topicCCIPSendRequested         = "0xd0c3c799bf9e2639de44391e7f524d229b2b55f5b1ea94b2bf7da42f7243dddd"
	topicCCIPExecutionStateChanged = "0xd4f851956a5d67c3997d1c9205045fef79bae2947fdee7e9e2641abc7391ef65"
)

const ccipABI = `[
	{"type":"event","name":"CCIPSendRequested","inputs":[
		{"name":"message","type":"tuple","indexed":false,"components":[
			{"name":"sourceChainSelector","type":"uint64"},
			{"name":"sender","type":"address"},
			{"name":"receiver","type":"address"},
			{"name":"sequenceNumber","type":"uint64"},
			{"name":"gasLimit","type":"uint256"},
			{"name":"strict","type":"bool"},
			{"name":"nonce","type":"uint64"},
			{"name":"feeToken","type":"address"},
			{"name":"feeTokenAmount","type":"uint256"},
			{"name":"data","type":"bytes"},
			{"name":"tokenAmounts","type":"tuple[]","components":[
				{"name":"token","type":"address"},
				{"name":"amount","type":"uint256"}]},
			{"name":"sourceTokenData","type":"bytes[]"},
			{"name":"messageId","type":"bytes32"}]}]},
	{"type":"event","name":"ExecutionStateChanged","inputs":[
		{"name":"sequenceNumber","type":"uint64","indexed":true},
		{"name":"messageId","type":"bytes32","indexed":true},
		{"name":"state","type":"uint8","indexed":false},
		{"name":"returnData","type":"bytes","indexed":false}]}
]`

var ccipEventABI = evm.MustParseABI(ccipABI)

var ccipTopics = []string{topicCCIPSendRequested, topicCCIPExecutionStateChanged}

// Lane onRamp and offRamp deployments rotate, so the config tracks the
// per-chain router deployment instead.
var ccipConfig = map[string][]ContractGroup{
	"ethereum":  {{Contract: "0x80226fc0ee2b096224eeac085bb9a8cba1146f7d", Topics: ccipTopics}},
	"arbitrum":  {{Contract: "0x141fa059441e0ca23ce184b6a78bafd2a517dde8", Topics: ccipTopics}},
	"base":      {{Contract: "0x881e3a65b4d4a04dd529061dd0071cf975f58bcd", Topics: ccipTopics}},
	"optimism":  {{Contract: "0x3206695cae29952f4b0c22a169725a865bc8ce0f", Topics: ccipTopics}},
	"avalanche": {{Contract: "0xf4c7e640eda248ef95972845a62bdc74237805db", Topics: ccipTopics}},
	"polygon":   {{Contract: "0x849c5ed5a80f5b408dd4969b78c2c8fdf0565bfe", Topics: ccipTopics}},
	"bnb":       {{Contract: "0x34b03cb9086d7d758ac55af71584f81a598759fe", Topics: ccipTopics}},
}

// CCIPHandler stores the message envelope on both legs keyed by message id.
// Only plain token transfers are tracked: messages carrying arbitrary data
// belong to apps built on CCIP, not to the bridge itself.
type CCIPHandler struct {
	repo *repository.Repository
	set  ChainSet
}

func NewCCIPHandler(repo *repository.Repository, set ChainSet) *CCIPHandler {
	return &CCIPHandler{repo: repo, set: set}
}

func (h *CCIPHandler) Name() string { return "ccip" }

func (h *CCIPHandler) Blockchains() []string { return blockchainsOf(ccipConfig) }

func (h *CCIPHandler) Groups(blockchain string) ([]ContractGroup, error) {
	return groupsFor(ccipConfig, h.Name(), blockchain)
}

func (h *CCIPHandler) HandleLogs(ctx context.Context, blockchain string, logs []models.Log) ([]models.Log, error) {
	var accepted []models.Log
	for _, l := range logs {
		var (
			ok  bool
			err error
		)
		switch l.Topic0() {
		case topicCCIPSendRequested:
			ok, err = h.handleSendRequested(ctx, blockchain, l)
		case topicCCIPExecutionStateChanged:
			ok, err = h.handleExecutionStateChanged(ctx, blockchain, l)
		default:
			continue
		}
		if err != nil {
			log.Printf("[ccip] Warn: %s log %s: %v", blockchain, l.TransactionHash, err)
			continue
		}
		if ok {
			accepted = append(accepted, l)
		}
	}
	return accepted, nil
}

func (h *CCIPHandler) handleSendRequested(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		Message struct {
			SourceChainSelector uint64
			Sender              common.Address
			Receiver            common.Address
			SequenceNumber      uint64
			GasLimit            *big.Int
			Strict              bool
			Nonce               uint64
			FeeToken            common.Address
			FeeTokenAmount      *big.Int
			Data                []byte
			TokenAmounts        []struct {
				Token  common.Address
				Amount *big.Int
			}
			SourceTokenData [][]byte
			MessageId       [32]byte
		}
	}
	if err := evm.UnpackLog(ccipEventABI, &ev, "CCIPSendRequested", l); err != nil {
		return false, err
	}
	msg := ev.Message

	// Messages with data payloads are app traffic riding on CCIP.
	if len(msg.Data) > 0 {
		return false, nil
	}
	if len(msg.TokenAmounts) > 1 {
		log.Printf("[ccip] Warn: %s message %s carries %d token amounts, skipping",
			blockchain, "0x"+common.Bytes2Hex(msg.MessageId[:]), len(msg.TokenAmounts))
		return false, nil
	}

	row := models.CCIPSendRequested{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		MessageID:       "0x" + common.Bytes2Hex(msg.MessageId[:]),
		SourceChainID:   new(big.Int).SetUint64(msg.SourceChainSelector),
		Sender:          strings.ToLower(msg.Sender.Hex()),
		Receiver:        strings.ToLower(msg.Receiver.Hex()),
		SequenceNumber:  new(big.Int).SetUint64(msg.SequenceNumber),
		FeeToken:        strings.ToLower(msg.FeeToken.Hex()),
		FeeTokenAmount:  msg.FeeTokenAmount,
	}
	if len(msg.TokenAmounts) == 1 {
		row.TokenAddress = strings.ToLower(msg.TokenAmounts[0].Token.Hex())
		row.TokenAmount = msg.TokenAmounts[0].Amount
	}

	return true, h.repo.SaveCCIPSendRequested(ctx, []models.CCIPSendRequested{row})
}

func (h *CCIPHandler) handleExecutionStateChanged(ctx context.Context, blockchain string, l models.Log) (bool, error) {
	var ev struct {
		SequenceNumber uint64
		MessageId      [32]byte
		State          uint8
		ReturnData     []byte
	}
	if err := evm.UnpackLog(ccipEventABI, &ev, "ExecutionStateChanged", l); err != nil {
		return false, err
	}

	return true, h.repo.SaveCCIPExecutionStateChanged(ctx, []models.CCIPExecutionStateChanged{{
		Blockchain:      blockchain,
		TransactionHash: l.TransactionHash,
		MessageID:       "0x" + common.Bytes2Hex(ev.MessageId[:]),
		SequenceNumber:  new(big.Int).SetUint64(ev.SequenceNumber),
		State:           ev.State,
	}})
}
