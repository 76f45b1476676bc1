package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveCowTrades(ctx context.Context, trades []models.CowTrade) error {
	for _, t := range trades {
		_, err := r.db.Exec(ctx, `INSERT INTO cow_trade
			(blockchain, transaction_hash, trade_id, owner, sell_token, buy_token,
			 sell_amount, buy_amount, fee_amount, app_data, app_data_cid, cross_chain_key,
			 valid_to, order_kind, price_info, from_address, timestamp, log_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (blockchain, trade_id) DO NOTHING`,
			t.Blockchain, t.TransactionHash, t.TradeID, t.Owner, t.SellToken, t.BuyToken,
			bigIntNumeric(t.SellAmount), bigIntNumeric(t.BuyAmount), bigIntNumeric(t.FeeAmount),
			nullIfEmpty(t.AppData), nullIfEmpty(t.AppDataCid), nullIfEmpty(t.CrossChainKey),
			t.ValidTo, t.OrderKind, t.PriceInfo, t.FromAddress, t.Timestamp, t.LogIndex)
		if err != nil {
			return fmt.Errorf("save cow trade %s: %w", t.TradeID, err)
		}
	}
	return nil
}

// CowTradesMissingAppData lists trades not yet enriched from the orderbook,
// oldest first so re-runs make forward progress.
func (r *Repository) CowTradesMissingAppData(ctx context.Context, limit int) ([]models.CowTrade, error) {
	rows, err := r.db.Query(ctx, `SELECT blockchain, trade_id
		FROM cow_trade
		WHERE app_data IS NULL OR cross_chain_key IS NULL
		ORDER BY timestamp ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CowTrade
	for rows.Next() {
		var t models.CowTrade
		if err := rows.Scan(&t.Blockchain, &t.TradeID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateCowTradeAppData stores the orderbook enrichment for one trade.
func (r *Repository) UpdateCowTradeAppData(ctx context.Context, blockchain, tradeID, appData, appDataCid, crossChainKey, orderKind string) error {
	_, err := r.db.Exec(ctx, `UPDATE cow_trade
		SET app_data = $3, app_data_cid = $4, cross_chain_key = $5, order_kind = $6
		WHERE blockchain = $1 AND trade_id = $2`,
		blockchain, tradeID, nullIfEmpty(appData), nullIfEmpty(appDataCid), nullIfEmpty(crossChainKey), orderKind)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
