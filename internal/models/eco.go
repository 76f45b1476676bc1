package models

import "math/big"

type EcoIntentCreated struct {
	Blockchain         string
	TransactionHash    string
	IntentHash         string
	Salt               string
	SourceChainID      *big.Int
	DestinationChainID *big.Int
	Inbox              string
	Creator            string
	Prover             string
	Deadline           *big.Int
	NativeValue        *big.Int
}

type EcoFulfillment struct {
	Blockchain      string
	TransactionHash string
	IntentHash      string
	SourceChainID   *big.Int
	Prover          string
	Claimant        string
}
