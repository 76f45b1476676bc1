package models

import "math/big"

type SynapseTokenDepositAndSwap struct {
	Blockchain      string
	TransactionHash string
	ContractAddress string
	ToAddress       string
	ChainID         string
	Token           string
	Amount          *big.Int
	TokenIndexFrom  uint8
	TokenIndexTo    uint8
	MinDy           *big.Int
	Deadline        *big.Int
	Kappa           string // keccak of the lowercased source tx hash, 0x-stripped
}

type SynapseTokenMintAndSwap struct {
	Blockchain      string
	TransactionHash string
	ContractAddress string
	ToAddress       string
	Token           string
	Amount          *big.Int
	Fee             *big.Int
	TokenIndexFrom  uint8
	TokenIndexTo    uint8
	MinDy           *big.Int
	Deadline        *big.Int
	SwapSuccess     bool
	Kappa           string
}
