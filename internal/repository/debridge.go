package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveDeBridgeCreatedOrders(ctx context.Context, evs []models.DeBridgeCreatedOrder) error {
	for _, e := range evs {
		o := e.Order
		_, err := r.db.Exec(ctx, `INSERT INTO debridge_created_order
			(blockchain, transaction_hash, maker_order_nonce, maker_src, src_blockchain,
			 give_token_address, give_amount, dst_blockchain, take_token_address, take_amount,
			 receiver_dst, give_patch_authority_src, order_authority_address_dst,
			 allowed_taker_dst, allowed_cancel_beneficiary_src, external_call,
			 order_id, affiliate_fee, native_fix_fee, percent_fee, referral_code, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
			ON CONFLICT (order_id) DO NOTHING`,
			e.Blockchain, e.TransactionHash, o.MakerOrderNonce, o.MakerSrc, o.SrcBlockchain,
			o.GiveTokenAddress, bigIntNumeric(o.GiveAmount), o.DstBlockchain, o.TakeTokenAddress, bigIntNumeric(o.TakeAmount),
			o.ReceiverDst, o.GivePatchAuthoritySrc, o.OrderAuthorityAddressDst,
			nullIfEmpty(o.AllowedTakerDst), nullIfEmpty(o.AllowedCancelBeneficiarySrc), nullIfEmpty(o.ExternalCall),
			e.OrderID, nullIfEmpty(e.AffiliateFee), bigIntNumeric(e.NativeFixFee), bigIntNumeric(e.PercentFee),
			e.ReferralCode, nullIfEmpty(e.Metadata))
		if err != nil {
			return fmt.Errorf("save debridge created order %s: %w", e.OrderID, err)
		}
	}
	return nil
}

func (r *Repository) SaveDeBridgeFulfilledOrders(ctx context.Context, evs []models.DeBridgeFulfilledOrder) error {
	for _, e := range evs {
		o := e.Order
		_, err := r.db.Exec(ctx, `INSERT INTO debridge_fulfilled_order
			(blockchain, transaction_hash, maker_order_nonce, maker_src, src_blockchain,
			 give_token_address, give_amount, dst_blockchain, take_token_address, take_amount,
			 receiver_dst, give_patch_authority_src, order_authority_address_dst,
			 allowed_taker_dst, allowed_cancel_beneficiary_src, external_call,
			 order_id, sender, unlock_authority)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			ON CONFLICT (order_id) DO NOTHING`,
			e.Blockchain, e.TransactionHash, o.MakerOrderNonce, o.MakerSrc, o.SrcBlockchain,
			o.GiveTokenAddress, bigIntNumeric(o.GiveAmount), o.DstBlockchain, o.TakeTokenAddress, bigIntNumeric(o.TakeAmount),
			o.ReceiverDst, o.GivePatchAuthoritySrc, o.OrderAuthorityAddressDst,
			nullIfEmpty(o.AllowedTakerDst), nullIfEmpty(o.AllowedCancelBeneficiarySrc), nullIfEmpty(o.ExternalCall),
			e.OrderID, e.Sender, e.UnlockAuthority)
		if err != nil {
			return fmt.Errorf("save debridge fulfilled order %s: %w", e.OrderID, err)
		}
	}
	return nil
}

func (r *Repository) SaveDeBridgeSentOrderUnlocks(ctx context.Context, evs []models.DeBridgeSentOrderUnlock) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO debridge_sent_order_unlock
			(blockchain, transaction_hash, order_id, beneficiary, submission_id)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (order_id, submission_id) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.OrderID, e.Beneficiary, e.SubmissionID)
		if err != nil {
			return fmt.Errorf("save debridge sent unlock %s: %w", e.OrderID, err)
		}
	}
	return nil
}

func (r *Repository) SaveDeBridgeClaimedUnlocks(ctx context.Context, evs []models.DeBridgeClaimedUnlock) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO debridge_claimed_unlock
			(blockchain, transaction_hash, order_id, beneficiary, give_amount, give_token_address)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (order_id, transaction_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.OrderID, e.Beneficiary,
			bigIntNumeric(e.GiveAmount), e.GiveTokenAddress)
		if err != nil {
			return fmt.Errorf("save debridge claimed unlock %s: %w", e.OrderID, err)
		}
	}
	return nil
}
