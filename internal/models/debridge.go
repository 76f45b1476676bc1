package models

import "math/big"

// DeBridgeOrder is the flattened 14-field order tuple shared by CreatedOrder
// and FulfilledOrder events.
type DeBridgeOrder struct {
	MakerOrderNonce             uint64
	MakerSrc                    string
	SrcBlockchain               string
	GiveTokenAddress            string
	GiveAmount                  *big.Int
	DstBlockchain               string
	TakeTokenAddress            string
	TakeAmount                  *big.Int
	ReceiverDst                 string
	GivePatchAuthoritySrc       string
	OrderAuthorityAddressDst    string
	AllowedTakerDst             string
	AllowedCancelBeneficiarySrc string
	ExternalCall                string
}

type DeBridgeCreatedOrder struct {
	Blockchain      string
	TransactionHash string
	Order           DeBridgeOrder
	OrderID         string
	AffiliateFee    string
	NativeFixFee    *big.Int
	PercentFee      *big.Int
	ReferralCode    uint32
	Metadata        string
}

type DeBridgeFulfilledOrder struct {
	Blockchain      string
	TransactionHash string
	Order           DeBridgeOrder
	OrderID         string
	Sender          string
	UnlockAuthority string
}

type DeBridgeSentOrderUnlock struct {
	Blockchain      string
	TransactionHash string
	OrderID         string
	Beneficiary     string
	SubmissionID    string
}

type DeBridgeClaimedUnlock struct {
	Blockchain       string
	TransactionHash  string
	OrderID          string
	Beneficiary      string
	GiveAmount       *big.Int
	GiveTokenAddress string
}
