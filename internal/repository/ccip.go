package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveCCIPSendRequested(ctx context.Context, evs []models.CCIPSendRequested) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO ccip_send_requested
			(blockchain, transaction_hash, message_id, source_chain_id, dest_chain_id,
			 sender, receiver, sequence_number, fee_token, fee_token_amount, token_address, token_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (message_id) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.MessageID,
			bigIntNumeric(e.SourceChainID), bigIntNumeric(e.DestChainID),
			e.Sender, e.Receiver, bigIntNumeric(e.SequenceNumber),
			e.FeeToken, bigIntNumeric(e.FeeTokenAmount), e.TokenAddress, bigIntNumeric(e.TokenAmount))
		if err != nil {
			return fmt.Errorf("save ccip send %s: %w", e.MessageID, err)
		}
	}
	return nil
}

func (r *Repository) SaveCCIPExecutionStateChanged(ctx context.Context, evs []models.CCIPExecutionStateChanged) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO ccip_execution_state_changed
			(blockchain, transaction_hash, message_id, sequence_number, state)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (message_id) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.MessageID, bigIntNumeric(e.SequenceNumber), e.State)
		if err != nil {
			return fmt.Errorf("save ccip execution %s: %w", e.MessageID, err)
		}
	}
	return nil
}
