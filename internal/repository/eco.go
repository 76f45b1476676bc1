package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveEcoIntentsCreated(ctx context.Context, evs []models.EcoIntentCreated) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO eco_intent_created
			(blockchain, transaction_hash, intent_hash, salt, source_chain_id,
			 destination_chain_id, inbox, creator, prover, deadline, native_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (intent_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.IntentHash, e.Salt,
			bigIntNumeric(e.SourceChainID), bigIntNumeric(e.DestinationChainID),
			e.Inbox, e.Creator, e.Prover, bigIntNumeric(e.Deadline), bigIntNumeric(e.NativeValue))
		if err != nil {
			return fmt.Errorf("save eco intent %s: %w", e.IntentHash, err)
		}
	}
	return nil
}

func (r *Repository) SaveEcoFulfillments(ctx context.Context, evs []models.EcoFulfillment) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO eco_fulfillment
			(blockchain, transaction_hash, intent_hash, source_chain_id, prover, claimant)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (intent_hash, transaction_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.IntentHash,
			bigIntNumeric(e.SourceChainID), e.Prover, e.Claimant)
		if err != nil {
			return fmt.Errorf("save eco fulfillment %s: %w", e.IntentHash, err)
		}
	}
	return nil
}
