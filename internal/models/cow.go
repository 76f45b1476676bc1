package models

import "math/big"

// CowTrade is one Trade event from the settlement contract, enriched later
// with orderbook appData fields. TradeID is the order uid.
type CowTrade struct {
	Blockchain      string
	TransactionHash string
	TradeID         string
	Owner           string
	SellToken       string
	BuyToken        string
	SellAmount      *big.Int
	BuyAmount       *big.Int
	FeeAmount       *big.Int
	AppData         string
	AppDataCid      string
	CrossChainKey   string
	ValidTo         int64
	OrderKind       string
	PriceInfo       string
	FromAddress     string
	Timestamp       int64
	LogIndex        uint
}
