package models

import "math/big"

type CCIPSendRequested struct {
	Blockchain      string
	TransactionHash string
	MessageID       string
	SourceChainID   *big.Int
	DestChainID     *big.Int
	Sender          string
	Receiver        string
	SequenceNumber  *big.Int
	FeeToken        string
	FeeTokenAmount  *big.Int
	TokenAddress    string
	TokenAmount     *big.Int
}

type CCIPExecutionStateChanged struct {
	Blockchain      string
	TransactionHash string
	MessageID       string
	SequenceNumber  *big.Int
	State           uint8
}
