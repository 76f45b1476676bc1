package bridges

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// mayanChainNames maps Wormhole chain ids to the chain names the Swift
// protocol routes between.
var mayanChainNames = map[uint16]string{
	1:  "solana",
	2:  "ethereum",
	4:  "bnb",
	5:  "polygon",
	6:  "avalanche",
	23: "arbitrum",
	24: "optimism",
	30: "base",
	38: "linea",
}

// mayanOrderParams is the OrderParams struct passed to createOrderWithEth and
// createOrderWithToken. All fields are static, so the ABI encoding is a flat
// run of 13 words.
type mayanOrderParams struct {
	Trader       [32]byte
	TokenOut     [32]byte
	MinAmountOut uint64
	GasDrop      uint64
	CancelFee    uint64
	RefundFee    uint64
	Deadline     uint64
	DestAddr     [32]byte
	DestChainID  uint16
	ReferrerAddr [32]byte
	ReferrerBps  uint8
	AuctionMode  uint8
	Random       [32]byte
}

const mayanOrderParamsLen = 13 * 32

func word(data []byte, i int) []byte { return data[i*32 : (i+1)*32] }

func decodeMayanOrderParams(data []byte) (*mayanOrderParams, error) {
	if len(data) < mayanOrderParamsLen {
		return nil, fmt.Errorf("order params need %d bytes, got %d", mayanOrderParamsLen, len(data))
	}

	p := &mayanOrderParams{}
	copy(p.Trader[:], word(data, 0))
	copy(p.TokenOut[:], word(data, 1))
	p.MinAmountOut = binary.BigEndian.Uint64(word(data, 2)[24:])
	p.GasDrop = binary.BigEndian.Uint64(word(data, 3)[24:])
	p.CancelFee = binary.BigEndian.Uint64(word(data, 4)[24:])
	p.RefundFee = binary.BigEndian.Uint64(word(data, 5)[24:])
	p.Deadline = binary.BigEndian.Uint64(word(data, 6)[24:])
	copy(p.DestAddr[:], word(data, 7))
	p.DestChainID = binary.BigEndian.Uint16(word(data, 8)[30:])
	copy(p.ReferrerAddr[:], word(data, 9))
	p.ReferrerBps = word(data, 10)[31]
	p.AuctionMode = word(data, 11)[31]
	copy(p.Random[:], word(data, 12))
	return p, nil
}

// mayanOrderKey carries every field the Swift contract hashes into the order
// key shared by both chains.
type mayanOrderKey struct {
	Trader       [32]byte
	SrcChainID   uint16
	TokenIn      [32]byte
	DestAddr     [32]byte
	DestChainID  uint16
	TokenOut     [32]byte
	MinAmountOut uint64
	GasDrop      uint64
	CancelFee    uint64
	RefundFee    uint64
	Deadline     uint64
	ReferrerAddr [32]byte
	ReferrerBps  uint8
	ProtocolBps  uint8
	AuctionMode  uint8
	Random       [32]byte
}

// hash reproduces keccak256(abi.encodePacked(...)) over the key layout the
// Swift contract uses, 239 bytes in total.
func (k *mayanOrderKey) hash() string {
	buf := make([]byte, 0, 239)
	var u64 [8]byte
	var u16 [2]byte

	buf = append(buf, k.Trader[:]...)
	binary.BigEndian.PutUint16(u16[:], k.SrcChainID)
	buf = append(buf, u16[:]...)
	buf = append(buf, k.TokenIn[:]...)
	buf = append(buf, k.DestAddr[:]...)
	binary.BigEndian.PutUint16(u16[:], k.DestChainID)
	buf = append(buf, u16[:]...)
	buf = append(buf, k.TokenOut[:]...)
	for _, v := range []uint64{k.MinAmountOut, k.GasDrop, k.CancelFee, k.RefundFee, k.Deadline} {
		binary.BigEndian.PutUint64(u64[:], v)
		buf = append(buf, u64[:]...)
	}
	buf = append(buf, k.ReferrerAddr[:]...)
	buf = append(buf, k.ReferrerBps, k.ProtocolBps, k.AuctionMode)
	buf = append(buf, k.Random[:]...)

	return common.Bytes2Hex(crypto.Keccak256(buf))
}
