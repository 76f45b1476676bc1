package models

import "math/big"

type FlySwapIn struct {
	Blockchain         string
	TransactionHash    string
	FromAddress        string
	ToAddress          string
	FromAssetAddress   string
	ToAssetAddress     string
	AmountIn           *big.Int
	AmountOut          *big.Int
	EncodedDepositData string
	DepositDataHash    string // keccak of the encoded deposit data
}

type FlySwapOut struct {
	Blockchain       string
	TransactionHash  string
	FromAddress      string
	ToAddress        string
	FromAssetAddress string
	ToAssetAddress   string
	AmountIn         *big.Int
	AmountOut        *big.Int
	DepositDataHash  string
}

type FlyDeposit struct {
	Blockchain      string
	TransactionHash string
	DepositDataHash string
	Amount          *big.Int
}
