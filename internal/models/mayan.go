package models

import "math/big"

// MayanSwapAndForwarded covers both the Eth and ERC20 variants; the decoded
// mayanData fields (trader, tokenOut, ...) come from the createOrder calldata
// embedded in the event.
type MayanSwapAndForwarded struct {
	Blockchain      string
	TransactionHash string
	TokenIn         string
	AmountIn        *big.Int
	SwapProtocol    string
	MiddleToken     string
	MiddleAmount    *big.Int
	MayanProtocol   string
	Trader          string
	TokenOut        string
	MinAmountOut    *big.Int
	GasDrop         uint64
	CancelFee       uint64
	RefundFee       uint64
	Deadline        int64
	DstAddr         string
	DstChain        string
	ReferrerAddr    string
	ReferrerBps     int
	AuctionMode     int
	Random          string
}

type MayanForwarded struct {
	Blockchain      string
	TransactionHash string
	Token           string
	Amount          *big.Int
	MayanProtocol   string
	Trader          string
	TokenOut        string
	MinAmountOut    *big.Int
	GasDrop         uint64
	CancelFee       uint64
	RefundFee       uint64
	Deadline        int64
	DstAddr         string
	DstChain        string
	ReferrerAddr    string
	ReferrerBps     int
	AuctionMode     int
	Random          string
}

// MayanOrderEvent is a Swift OrderCreated / OrderUnlocked row: just the
// 0x-stripped key.
type MayanOrderEvent struct {
	Key             string
	Blockchain      string
	TransactionHash string
}

type MayanOrderFulfilled struct {
	Key             string
	Sequence        uint64
	NetAmount       *big.Int
	Blockchain      string
	TransactionHash string
}

// Solana instruction rows.

type MayanInitOrder struct {
	OrderHash         string
	Signature         string
	Trader            string
	Relayer           string
	State             string
	StateFromAcc      string
	RelayerFeeAcc     string
	MintFrom          string
	FeeManagerProgram string
	TokenProgram      string
	SystemProgram     string
	AmountInMin       *big.Int
	AmountIn          *big.Int
	NativeInput       bool
	FeeSubmit         *big.Int
	AddrDest          string
	ChainDest         string
	TokenOut          string
	AmountOutMin      *big.Int
	GasDrop           *big.Int
	FeeCancel         *big.Int
	FeeRefund         *big.Int
	Deadline          int64
	AddrRef           string
	FeeRateRef        int
	FeeRateMayan      int
	AuctionMode       int
	KeyRnd            string
}

type MayanFulfillOrder struct {
	Signature     string
	State         string
	Driver        string
	StateToAcc    string
	MintTo        string
	Dest          string
	SystemProgram string
	AddrUnlocker  string
	Amount        *big.Int
}

type MayanUnlock struct {
	Signature     string
	VaaUnlock     string
	State         string
	StateFromAcc  string
	MintFrom      string
	Driver        string
	DriverAcc     string
	TokenProgram  string
	SystemProgram string
	Amount        *big.Int
}

type MayanUnlockBatch struct {
	Signature     string
	VaaUnlock     string
	State         string
	StateFromAcc  string
	MintFrom      string
	Driver        string
	DriverAcc     string
	TokenProgram  string
	SystemProgram string
	Index         int
}

type MayanSettle struct {
	Signature              string
	State                  string
	StateToAcc             string
	Relayer                string
	MintTo                 string
	Dest                   string
	Referrer               string
	FeeCollector           string
	ReferrerFeeAcc         string
	MayanFeeAcc            string
	DestAcc                string
	TokenProgram           string
	SystemProgram          string
	AssociatedTokenProgram string
}

type MayanSetAuctionWinner struct {
	Signature      string
	State          string
	Auction        string
	ExpectedWinner string
}

type MayanRegisterOrder struct {
	OrderHash     string
	Signature     string
	Relayer       string
	State         string
	SystemProgram string
	Trader        string
	ChainSource   string
	TokenIn       string
	AddrDest      string
	ChainDest     string
	TokenOut      string
	AmountOutMin  *big.Int
	GasDrop       *big.Int
	FeeCancel     *big.Int
	FeeRefund     *big.Int
	Deadline      int64
	AddrRef       string
	FeeRateRef    int
	FeeRateMayan  int
	AuctionMode   int
	KeyRnd        string
}

type MayanAuctionBid struct {
	OrderHash     string
	Signature     string
	Config        string
	Driver        string
	AuctionState  string
	SystemProgram string
	Trader        string
	ChainSource   string
	TokenIn       string
	AddrDest      string
	ChainDest     string
	TokenOut      string
	AmountOutMin  *big.Int
	GasDrop       *big.Int
	FeeCancel     *big.Int
	FeeRefund     *big.Int
	Deadline      int64
	AddrRef       string
	FeeRateRef    int
	FeeRateMayan  int
	AuctionMode   int
	KeyRnd        string
	AmountBid     *big.Int
}

type MayanAuctionClose struct {
	Signature   string
	Auction     string
	Initializer string
}
