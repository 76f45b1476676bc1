// Package evm carries the ABI decode helpers shared by the bridge handlers.
package evm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"bridgescan/internal/models"
)

// MustParseABI parses a JSON ABI at package init time.
func MustParseABI(raw string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI: %v", err))
	}
	return a
}

// UnpackLog decodes an event log into out, filling non-indexed fields from
// the data segment and indexed fields from the topics.
func UnpackLog(a abi.ABI, out any, event string, l models.Log) error {
	ev, ok := a.Events[event]
	if !ok {
		return fmt.Errorf("event %q not in ABI", event)
	}
	if l.Topic0() != ev.ID.Hex() {
		return fmt.Errorf("event signature mismatch: log %s, want %s", l.Topic0(), ev.ID.Hex())
	}

	data, err := hexutil.Decode(l.Data)
	if err != nil {
		return fmt.Errorf("log data: %w", err)
	}
	if len(data) > 0 {
		if err := a.UnpackIntoInterface(out, event, data); err != nil {
			return fmt.Errorf("unpack %s data: %w", event, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(indexed) == 0 {
		return nil
	}

	topics := make([]common.Hash, 0, len(l.Topics)-1)
	for _, t := range l.Topics[1:] {
		topics = append(topics, common.HexToHash(t))
	}
	return abi.ParseTopics(out, indexed, topics)
}

// UnpadAddress extracts an address from a bytes32 hex string by taking the
// low 20 bytes.
func UnpadAddress(padded string) string {
	h := strings.TrimPrefix(strings.ToLower(padded), "0x")
	if len(h) < 40 {
		return "0x" + strings.Repeat("0", 40-len(h)) + h
	}
	return "0x" + h[len(h)-40:]
}

// PadAddress32 left-pads an address to the bytes32 hex form the Wormhole
// emitter key uses.
func PadAddress32(addr string) string {
	h := strings.TrimPrefix(strings.ToLower(addr), "0x")
	return "0x" + strings.Repeat("0", 64-len(h)) + h
}

// Keccak256Hex hashes raw bytes and returns 0x-prefixed hex.
func Keccak256Hex(data []byte) string {
	return hexutil.Encode(crypto.Keccak256(data))
}
