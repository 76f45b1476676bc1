package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveSynapseDeposits(ctx context.Context, evs []models.SynapseTokenDepositAndSwap) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO synapse_token_deposit_and_swap
			(blockchain, transaction_hash, contract_address, to_address, chain_id,
			 token, amount, token_index_from, token_index_to, min_dy, deadline, kappa)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (kappa) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.ContractAddress, e.ToAddress, e.ChainID,
			e.Token, bigIntNumeric(e.Amount), e.TokenIndexFrom, e.TokenIndexTo,
			bigIntNumeric(e.MinDy), bigIntNumeric(e.Deadline), e.Kappa)
		if err != nil {
			return fmt.Errorf("save synapse deposit %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}

func (r *Repository) SaveSynapseMints(ctx context.Context, evs []models.SynapseTokenMintAndSwap) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO synapse_token_mint_and_swap
			(blockchain, transaction_hash, contract_address, to_address, token, amount,
			 fee, token_index_from, token_index_to, min_dy, deadline, swap_success, kappa)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (kappa, transaction_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.ContractAddress, e.ToAddress, e.Token,
			bigIntNumeric(e.Amount), bigIntNumeric(e.Fee), e.TokenIndexFrom, e.TokenIndexTo,
			bigIntNumeric(e.MinDy), bigIntNumeric(e.Deadline), e.SwapSuccess, e.Kappa)
		if err != nil {
			return fmt.Errorf("save synapse mint %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}
