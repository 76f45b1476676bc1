package repository

import (
	"context"
	"fmt"
	"math/big"

	"bridgescan/internal/models"
)

// bigIntNumeric renders a big integer for a NUMERIC column, nil-safe.
func bigIntNumeric(v *big.Int) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func (r *Repository) SaveTokenMetadata(ctx context.Context, m models.TokenMetadata) error {
	_, err := r.db.Exec(ctx, `INSERT INTO token_metadata (symbol, name, decimals, blockchain, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (blockchain, address) DO NOTHING`,
		m.Symbol, m.Name, m.Decimals, m.Blockchain, m.Address)
	if err != nil {
		return fmt.Errorf("save token metadata %s/%s: %w", m.Blockchain, m.Address, err)
	}
	return nil
}

func (r *Repository) TokenMetadataByContract(ctx context.Context, blockchain, address string) (models.TokenMetadata, bool, error) {
	var m models.TokenMetadata
	err := r.db.QueryRow(ctx,
		`SELECT symbol, name, decimals, blockchain, address FROM token_metadata
		WHERE blockchain = $1 AND lower(address) = lower($2)`,
		blockchain, address).Scan(&m.Symbol, &m.Name, &m.Decimals, &m.Blockchain, &m.Address)
	if err != nil {
		if IsNoRows(err) {
			return models.TokenMetadata{}, false, nil
		}
		return models.TokenMetadata{}, false, err
	}
	return m, true, nil
}

// saveTokenPriceSQL keeps the first close stored for a day. Daily closes are
// immutable, so replays and overlapping windows never rewrite them.
const saveTokenPriceSQL = `INSERT INTO token_price (symbol, name, date, price_usd)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (symbol, name, date) DO NOTHING`

func (r *Repository) SaveTokenPrices(ctx context.Context, prices []models.TokenPrice) error {
	for _, p := range prices {
		_, err := r.db.Exec(ctx, saveTokenPriceSQL, p.Symbol, p.Name, p.Date, p.PriceUSD)
		if err != nil {
			return fmt.Errorf("save token price %s %s: %w", p.Symbol, p.Date, err)
		}
	}
	return nil
}

// TokenPriceDayCount counts the distinct days priced for a symbol between two
// dates inclusive, so the enricher can tell a fully covered window from one
// that needs a fetch.
func (r *Repository) TokenPriceDayCount(ctx context.Context, symbol, fromDate, toDate string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT date) FROM token_price
		WHERE symbol = $1 AND date BETWEEN $2 AND $3`,
		symbol, fromDate, toDate).Scan(&n)
	return n, err
}

func (r *Repository) SaveNativeToken(ctx context.Context, blockchain, symbol string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO native_token (blockchain, symbol)
		VALUES ($1, $2)
		ON CONFLICT (blockchain) DO UPDATE SET symbol = EXCLUDED.symbol`,
		blockchain, symbol)
	return err
}
