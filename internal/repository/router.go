package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveRouterFundsDeposited(ctx context.Context, evs []models.RouterFundsDeposited) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO router_funds_deposited
			(blockchain, transaction_hash, partner_id, amount, dest_chain_id_bytes,
			 dest_amount, deposit_id, src_token, depositor, recipient_raw, dest_token_raw,
			 message, has_message, message_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (blockchain, deposit_id, has_message) DO NOTHING`,
			e.Blockchain, e.TransactionHash, bigIntNumeric(e.PartnerID), bigIntNumeric(e.Amount),
			e.DestChainIDBytes, bigIntNumeric(e.DestAmount), bigIntNumeric(e.DepositID),
			e.SrcToken, e.Depositor, e.RecipientRaw, e.DestTokenRaw,
			nullIfEmpty(e.Message), e.HasMessage, nullIfEmpty(e.MessageHash))
		if err != nil {
			return fmt.Errorf("save router deposit %s: %w", e.DepositID, err)
		}
	}
	return nil
}

func (r *Repository) SaveRouterIUSDCDeposited(ctx context.Context, evs []models.RouterIUSDCDeposited) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO router_iusdc_deposited
			(blockchain, transaction_hash, partner_id, amount, dest_chain_id_bytes,
			 usdc_nonce, src_token, recipient, depositor)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (blockchain, usdc_nonce) DO NOTHING`,
			e.Blockchain, e.TransactionHash, bigIntNumeric(e.PartnerID), bigIntNumeric(e.Amount),
			e.DestChainIDBytes, bigIntNumeric(e.USDCNonce), e.SrcToken, e.Recipient, e.Depositor)
		if err != nil {
			return fmt.Errorf("save router iusdc deposit %s: %w", e.USDCNonce, err)
		}
	}
	return nil
}

func (r *Repository) SaveRouterDepositInfoUpdates(ctx context.Context, evs []models.RouterDepositInfoUpdate) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO router_deposit_info_update
			(blockchain, transaction_hash, src_token, fee_amount, deposit_id,
			 event_nonce, initiate_withdrawal, depositor)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (blockchain, deposit_id, event_nonce) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.SrcToken, bigIntNumeric(e.FeeAmount),
			bigIntNumeric(e.DepositID), bigIntNumeric(e.EventNonce), e.InitiateWithdrawal, e.Depositor)
		if err != nil {
			return fmt.Errorf("save router deposit info update %s: %w", e.DepositID, err)
		}
	}
	return nil
}

func (r *Repository) SaveRouterFundsPaid(ctx context.Context, evs []models.RouterFundsPaid) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO router_funds_paid
			(blockchain, transaction_hash, message_hash, forwarder, nonce,
			 has_message, exec_flag, exec_data)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (blockchain, message_hash, has_message) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.MessageHash, e.Forwarder, bigIntNumeric(e.Nonce),
			e.HasMessage, e.ExecFlag, nullIfEmpty(e.ExecData))
		if err != nil {
			return fmt.Errorf("save router funds paid %s: %w", e.MessageHash, err)
		}
	}
	return nil
}
