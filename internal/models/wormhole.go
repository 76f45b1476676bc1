package models

import "math/big"

// WormholePublished is one LogMessagePublished event from the core contract.
// EmitterAddress32 is the sender left-padded to bytes32, EmitterChainID the
// Wormhole chain id of the emitting chain.
type WormholePublished struct {
	Blockchain       string
	TransactionHash  string
	BlockNumber      uint64
	Sender           string
	Sequence         *big.Int
	Nonce            *big.Int
	Payload          string
	ConsistencyLevel int
	EmitterAddress32 string
	EmitterChainID   int
	Amount           *big.Int // token-transfer payloads only
}

type WormholeRedeemed struct {
	Blockchain       string
	TransactionHash  string
	BlockNumber      uint64
	EmitterChainID   int
	EmitterAddress32 string
	Sequence         *big.Int
}

// PortalLogMessagePublished is the decoded token-bridge view of a published
// message: the transfer payload fields rather than the raw envelope.
type PortalLogMessagePublished struct {
	Blockchain      string
	TransactionHash string
	Amount          *big.Int
	TokenAddress    string
	TokenChain      int
	Recipient       string
	RecipientChain  string
	Fee             *big.Int
	Nonce           *big.Int
	SequenceNumber  *big.Int
}

type PortalTransferRedeemed struct {
	Blockchain      string
	TransactionHash string
	EmitterChainID  int
	EmitterAddress  string
	SequenceNumber  *big.Int
	Data            string
}
