// Package models holds the row structs shared by the extraction handlers,
// the repositories and the correlation generators.
package models

import "math/big"

// Log is a raw EVM log as returned by eth_getLogs, normalized to lowercase
// hex strings.
type Log struct {
	Blockchain      string   `json:"blockchain"`
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     uint64   `json:"block_number"`
	TransactionHash string   `json:"transaction_hash"`
	LogIndex        uint     `json:"log_index"`
}

// Topic0 returns the event signature topic, or "" for anonymous logs.
func (l Log) Topic0() string {
	if len(l.Topics) == 0 {
		return ""
	}
	return l.Topics[0]
}

// Transaction is one row of a per-bridge *_blockchain_transactions table.
// Fee is gasUsed * effectiveGasPrice in wei (lamports on Solana).
type Transaction struct {
	Blockchain      string   `json:"blockchain"`
	TransactionHash string   `json:"transaction_hash"`
	BlockNumber     uint64   `json:"block_number"`
	Timestamp       int64    `json:"timestamp"`
	FromAddress     string   `json:"from_address"`
	ToAddress       string   `json:"to_address"`
	Status          int      `json:"status"`
	Fee             *big.Int `json:"fee"`
	Value           *big.Int `json:"value,omitempty"`
}

// TokenMetadata is one row of token_metadata.
type TokenMetadata struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Decimals   int    `json:"decimals"`
	Blockchain string `json:"blockchain"`
	Address    string `json:"address"`
}

// TokenPrice is one daily close of token_price.
type TokenPrice struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Date     string  `json:"date"` // YYYY-MM-DD
	PriceUSD float64 `json:"price_usd"`
}

// NativeToken maps a blockchain to its gas token symbol.
type NativeToken struct {
	Blockchain string `json:"blockchain"`
	Symbol     string `json:"symbol"`
}
