package generator

import "context"

const synapseMatchQuery = `
	INSERT INTO synapse_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		recipient, src_contract_address, src_token, dst_contract_address, dst_token,
		input_amount, input_amount_usd, output_amount, output_amount_usd,
		swap_success, kappa
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		src_ev.to_address, src_ev.token, tm_src.symbol, dst_ev.token, tm_dst.symbol,
		src_ev.amount, NULL, dst_ev.amount, NULL,
		dst_ev.swap_success, dst_ev.kappa
	FROM synapse_token_deposit_and_swap src_ev
	JOIN synapse_blockchain_transactions src_tx ON src_tx.transaction_hash = src_ev.transaction_hash
	JOIN synapse_token_mint_and_swap dst_ev
	  ON REPLACE(lower(dst_ev.kappa), '0x', '') = REPLACE(lower(src_ev.kappa), '0x', '')
	JOIN synapse_blockchain_transactions dst_tx ON dst_tx.transaction_hash = dst_ev.transaction_hash
	LEFT JOIN token_metadata tm_src ON tm_src.blockchain = src_tx.blockchain AND lower(tm_src.address) = lower(src_ev.token)
	LEFT JOIN token_metadata tm_dst ON tm_dst.blockchain = dst_tx.blockchain AND lower(tm_dst.address) = lower(dst_ev.token)
	WHERE ABS(CAST(dst_tx.timestamp AS BIGINT) - CAST(src_tx.timestamp AS BIGINT)) <= 86400`

func correlateSynapse(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "synapse", "synapse_cross_chain_transactions", synapseMatchQuery)
}

func enrichSynapse(ctx context.Context, g *Generator, startTs, endTs int64) error {
	if err := g.enrichStandard(ctx, "synapse", "synapse_cross_chain_transactions", startTs, endTs); err != nil {
		return err
	}
	return g.backfillSynapseSymbols(ctx)
}

// backfillSynapseSymbols fills src_token/dst_token for rows matched before
// the token metadata was fetched.
func (g *Generator) backfillSynapseSymbols(ctx context.Context) error {
	for _, pass := range []struct{ symbolCol, contractCol, chainCol string }{
		{"src_token", "src_contract_address", "src_blockchain"},
		{"dst_token", "dst_contract_address", "dst_blockchain"},
	} {
		if _, err := g.repo.Exec(ctx, `
			UPDATE synapse_cross_chain_transactions c
			SET `+pass.symbolCol+` = tm.symbol
			FROM token_metadata tm
			WHERE c.`+pass.symbolCol+` IS NULL
			  AND c.`+pass.contractCol+` IS NOT NULL
			  AND lower(tm.address) = lower(c.`+pass.contractCol+`)
			  AND tm.blockchain = c.`+pass.chainCol); err != nil {
			return err
		}
	}
	return nil
}
