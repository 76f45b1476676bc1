package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveWormholePublished(ctx context.Context, evs []models.WormholePublished) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO wormhole_published
			(blockchain, transaction_hash, block_number, sender, sequence, nonce,
			 payload, consistency_level, emitter_address_32, emitter_chain_id, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (emitter_chain_id, emitter_address_32, sequence) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.BlockNumber, e.Sender, bigIntNumeric(e.Sequence),
			bigIntNumeric(e.Nonce), e.Payload, e.ConsistencyLevel, e.EmitterAddress32,
			e.EmitterChainID, bigIntNumeric(e.Amount))
		if err != nil {
			return fmt.Errorf("save wormhole published %s/%s: %w", e.EmitterAddress32, e.Sequence, err)
		}
	}
	return nil
}

func (r *Repository) SaveWormholeRedeemed(ctx context.Context, evs []models.WormholeRedeemed) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO wormhole_redeemed
			(blockchain, transaction_hash, block_number, emitter_chain_id, emitter_address_32, sequence)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (emitter_chain_id, emitter_address_32, sequence, transaction_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.BlockNumber, e.EmitterChainID,
			e.EmitterAddress32, bigIntNumeric(e.Sequence))
		if err != nil {
			return fmt.Errorf("save wormhole redeemed %s/%s: %w", e.EmitterAddress32, e.Sequence, err)
		}
	}
	return nil
}

func (r *Repository) SavePortalPublished(ctx context.Context, evs []models.PortalLogMessagePublished) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO portal_log_message_published
			(blockchain, transaction_hash, amount, token_address, token_chain,
			 recipient, recipient_chain, fee, nonce, sequence_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (blockchain, sequence_number) DO NOTHING`,
			e.Blockchain, e.TransactionHash, bigIntNumeric(e.Amount), e.TokenAddress, e.TokenChain,
			e.Recipient, e.RecipientChain, bigIntNumeric(e.Fee), bigIntNumeric(e.Nonce),
			bigIntNumeric(e.SequenceNumber))
		if err != nil {
			return fmt.Errorf("save portal published %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}

func (r *Repository) SavePortalRedeemed(ctx context.Context, evs []models.PortalTransferRedeemed) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO portal_transfer_redeemed
			(blockchain, transaction_hash, emitter_chain_id, emitter_address, sequence_number, data)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (emitter_chain_id, sequence_number) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.EmitterChainID, e.EmitterAddress,
			bigIntNumeric(e.SequenceNumber), nullIfEmpty(e.Data))
		if err != nil {
			return fmt.Errorf("save portal redeemed %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}
