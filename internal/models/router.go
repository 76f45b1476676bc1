package models

import "math/big"

type RouterFundsDeposited struct {
	Blockchain       string
	TransactionHash  string
	PartnerID        *big.Int
	Amount           *big.Int
	DestChainIDBytes string
	DestAmount       *big.Int
	DepositID        *big.Int
	SrcToken         string
	Depositor        string
	RecipientRaw     string
	DestTokenRaw     string
	Message          string
	HasMessage       bool
	// Computed for the join with FundsPaid rows on the destination chain.
	MessageHash string
}

type RouterIUSDCDeposited struct {
	Blockchain       string
	TransactionHash  string
	PartnerID        *big.Int
	Amount           *big.Int
	DestChainIDBytes string
	USDCNonce        *big.Int
	SrcToken         string
	Recipient        string // bytes32
	Depositor        string
}

type RouterDepositInfoUpdate struct {
	Blockchain         string
	TransactionHash    string
	SrcToken           string
	FeeAmount          *big.Int
	DepositID          *big.Int
	EventNonce         *big.Int
	InitiateWithdrawal bool
	Depositor          string
}

type RouterFundsPaid struct {
	Blockchain      string
	TransactionHash string
	MessageHash     string
	Forwarder       string
	Nonce           *big.Int
	HasMessage      bool
	ExecFlag        *bool
	ExecData        string
}
