package generator

import (
	"context"
	"log"

	"bridgescan/internal/bridges"
)

const cowEnrichBatch = 5000

const cowMatchQuery = `
	WITH src_tx AS (
		SELECT blockchain, lower(transaction_hash) AS txh, MIN(fee) AS fee
		FROM cow_blockchain_transactions GROUP BY 1, 2
	),
	dst_tx AS (
		SELECT blockchain, lower(transaction_hash) AS txh, MIN(fee) AS fee
		FROM cow_blockchain_transactions GROUP BY 1, 2
	)
	INSERT INTO cow_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		trade_id, src_owner, dst_owner, sell_token, buy_token,
		sell_amount, sell_amount_usd, buy_amount, buy_amount_usd,
		src_valid_to, dst_valid_to
	)
	SELECT DISTINCT ON (src_trade.trade_id, src_trade.blockchain, dst_trade.blockchain)
		src_trade.blockchain, src_trade.transaction_hash, src_trade.owner, NULL,
		s.fee, NULL, src_trade.timestamp,
		dst_trade.blockchain, dst_trade.transaction_hash, dst_trade.owner, NULL,
		d.fee, NULL, dst_trade.timestamp,
		src_trade.trade_id, src_trade.owner, dst_trade.owner,
		src_trade.sell_token, src_trade.buy_token,
		src_trade.sell_amount, NULL, dst_trade.buy_amount, NULL,
		src_trade.valid_to, dst_trade.valid_to
	FROM cow_trade src_trade
	JOIN cow_trade dst_trade
	  ON src_trade.cross_chain_key IS NOT NULL
	 AND src_trade.cross_chain_key = dst_trade.cross_chain_key
	 AND src_trade.blockchain < dst_trade.blockchain
	LEFT JOIN src_tx s ON s.txh = lower(src_trade.transaction_hash) AND s.blockchain = src_trade.blockchain
	LEFT JOIN dst_tx d ON d.txh = lower(dst_trade.transaction_hash) AND d.blockchain = dst_trade.blockchain
	ORDER BY src_trade.trade_id, src_trade.blockchain, dst_trade.blockchain, src_trade.log_index
	ON CONFLICT ON CONSTRAINT uq_cow_cctx_triplet DO NOTHING`

// correlateCow enriches trades from the orderbook first: the cross-chain key
// only exists once appData is known. A second enrichment pass runs when the
// first one still left gaps but made progress.
func correlateCow(ctx context.Context, g *Generator) error {
	api := bridges.NewOrderbookClient()

	prevMissing := -1
	for pass := 0; pass < 2; pass++ {
		missing, err := g.enrichCowTrades(ctx, api)
		if err != nil {
			return err
		}
		if missing == 0 || (prevMissing >= 0 && missing >= prevMissing) {
			break
		}
		prevMissing = missing
	}

	return g.truncateAndJoin(ctx, "cow", "cow_cross_chain_transactions", cowMatchQuery)
}

// enrichCowTrades walks trades without appData, queries the orderbook and
// stores appData, appDataCid and the derived cross-chain key. Returns how
// many trades remain unenriched.
func (g *Generator) enrichCowTrades(ctx context.Context, api *bridges.OrderbookClient) (int, error) {
	missing := 0
	for {
		trades, err := g.repo.CowTradesMissingAppData(ctx, cowEnrichBatch)
		if err != nil {
			return 0, err
		}
		if len(trades) == 0 {
			break
		}

		resolved := 0
		for _, t := range trades {
			order, err := api.Order(ctx, t.Blockchain, t.TradeID)
			if err != nil {
				return 0, err
			}
			if order == nil {
				continue
			}

			if err := g.repo.UpdateCowTradeAppData(ctx, t.Blockchain, t.TradeID,
				order.AppData, order.AppDataCid, order.CrossChainKey(), order.Kind); err != nil {
				return 0, err
			}
			resolved++
		}

		missing = len(trades) - resolved
		if resolved > 0 {
			log.Printf("[generator] cow: enriched %d of %d trades from the orderbook", resolved, len(trades))
		}
		if len(trades) < cowEnrichBatch {
			break
		}
	}
	return missing, nil
}

func enrichCow(ctx context.Context, g *Generator, startTs, endTs int64) error {
	pairs, err := g.cowTokenPairs(ctx)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		g.prices.populateTokenInfo(ctx, "cow", p, startTs, endTs)
	}

	if err := g.updateAmountUSD(ctx, "cow_cross_chain_transactions", "sell_amount", "src_blockchain", "sell_token", "src_valid_to", "sell_amount_usd"); err != nil {
		return err
	}
	if err := g.updateAmountUSD(ctx, "cow_cross_chain_transactions", "buy_amount", "dst_blockchain", "buy_token", "dst_valid_to", "buy_amount_usd"); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, "cow_cross_chain_transactions", "src_valid_to", "src_blockchain", "src_fee", "src_fee_usd"); err != nil {
		return err
	}
	return g.updateNativeUSD(ctx, "cow_cross_chain_transactions", "dst_valid_to", "dst_blockchain", "dst_fee", "dst_fee_usd")
}

// cowTokenPairs enumerates distinct (sell, buy) tokens; the table names its
// contract columns after the trade sides.
func (g *Generator) cowTokenPairs(ctx context.Context) ([]tokenPair, error) {
	rows, err := g.repo.Query(ctx, `SELECT DISTINCT
			src_blockchain, sell_token, dst_blockchain, buy_token
		FROM cow_cross_chain_transactions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []tokenPair
	for rows.Next() {
		var p tokenPair
		if err := rows.Scan(&p.srcBlockchain, &p.srcContract, &p.dstBlockchain, &p.dstContract); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
