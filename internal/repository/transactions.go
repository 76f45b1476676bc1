package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

// transactionTables whitelists the per-bridge transaction table names so the
// bridge name coming off the CLI can never reach the SQL text unchecked.
var transactionTables = map[string]string{
	"ccip":     "ccip_blockchain_transactions",
	"cow":      "cow_blockchain_transactions",
	"debridge": "debridge_blockchain_transactions",
	"eco":      "eco_blockchain_transactions",
	"fly":      "fly_blockchain_transactions",
	"mayan":    "mayan_blockchain_transactions",
	"portal":   "portal_blockchain_transactions",
	"router":   "router_blockchain_transactions",
	"synapse":  "synapse_blockchain_transactions",
	"wormhole": "wormhole_blockchain_transactions",
}

func transactionTable(bridge string) (string, error) {
	table, ok := transactionTables[bridge]
	if !ok {
		return "", fmt.Errorf("unknown bridge %q", bridge)
	}
	return table, nil
}

// SaveTransactions upserts enriched transactions into the bridge's
// transaction table, keyed by hash.
func (r *Repository) SaveTransactions(ctx context.Context, bridge string, txs []models.Transaction) error {
	table, err := transactionTable(bridge)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf(`INSERT INTO %s
		(blockchain, transaction_hash, block_number, timestamp, from_address, to_address, status, value, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (transaction_hash) DO NOTHING`, table)

	for _, tx := range txs {
		if _, err := r.db.Exec(ctx, sql,
			tx.Blockchain, tx.TransactionHash, tx.BlockNumber, tx.Timestamp,
			tx.FromAddress, tx.ToAddress, tx.Status, bigIntNumeric(tx.Value), bigIntNumeric(tx.Fee),
		); err != nil {
			return fmt.Errorf("save %s transaction %s: %w", bridge, tx.TransactionHash, err)
		}
	}
	return nil
}

// TransactionExists lets the extractor skip the receipt and block lookups for
// hashes already enriched on a previous run.
func (r *Repository) TransactionExists(ctx context.Context, bridge, hash string) (bool, error) {
	table, err := transactionTable(bridge)
	if err != nil {
		return false, err
	}

	var exists bool
	sql := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE transaction_hash = $1)`, table)
	if err := r.db.QueryRow(ctx, sql, hash).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// TransactionTimestampRange returns the min and max timestamps stored for a
// bridge, bounding the price backfill window.
func (r *Repository) TransactionTimestampRange(ctx context.Context, bridge string) (min, max int64, err error) {
	table, terr := transactionTable(bridge)
	if terr != nil {
		return 0, 0, terr
	}

	var lo, hi *int64
	sql := fmt.Sprintf(`SELECT MIN(timestamp), MAX(timestamp) FROM %s`, table)
	if err := r.db.QueryRow(ctx, sql).Scan(&lo, &hi); err != nil {
		return 0, 0, err
	}
	if lo == nil || hi == nil {
		return 0, 0, nil
	}
	return *lo, *hi, nil
}
