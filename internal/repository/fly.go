package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveFlySwapIns(ctx context.Context, evs []models.FlySwapIn) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO fly_swap_in
			(blockchain, transaction_hash, from_address, to_address, from_asset_address,
			 to_asset_address, amount_in, amount_out, encoded_deposit_data, deposit_data_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (transaction_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.FromAddress, e.ToAddress, e.FromAssetAddress,
			e.ToAssetAddress, bigIntNumeric(e.AmountIn), bigIntNumeric(e.AmountOut),
			nullIfEmpty(e.EncodedDepositData), nullIfEmpty(e.DepositDataHash))
		if err != nil {
			return fmt.Errorf("save fly swap in %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}

func (r *Repository) SaveFlySwapOuts(ctx context.Context, evs []models.FlySwapOut) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO fly_swap_out
			(blockchain, transaction_hash, from_address, to_address, from_asset_address,
			 to_asset_address, amount_in, amount_out, deposit_data_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (transaction_hash, deposit_data_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.FromAddress, e.ToAddress, e.FromAssetAddress,
			e.ToAssetAddress, bigIntNumeric(e.AmountIn), bigIntNumeric(e.AmountOut), e.DepositDataHash)
		if err != nil {
			return fmt.Errorf("save fly swap out %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}

func (r *Repository) SaveFlyDeposits(ctx context.Context, evs []models.FlyDeposit) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO fly_deposit
			(blockchain, transaction_hash, deposit_data_hash, amount)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (transaction_hash, deposit_data_hash) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.DepositDataHash, bigIntNumeric(e.Amount))
		if err != nil {
			return fmt.Errorf("save fly deposit %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}
