package generator

import "context"

const ecoMatchQuery = `
	INSERT INTO eco_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		src_contract_address, dst_contract_address,
		input_amount, input_amount_usd, output_amount, output_amount_usd,
		intent_hash
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, f.claimant,
		dst_tx.fee, NULL, dst_tx.timestamp,
		ic.inbox, dst_tx.to_address,
		ic.native_value, NULL, ic.native_value, NULL,
		ic.intent_hash
	FROM eco_intent_created ic
	JOIN eco_blockchain_transactions src_tx ON src_tx.transaction_hash = ic.transaction_hash
	JOIN eco_fulfillment f ON f.intent_hash = ic.intent_hash
	JOIN eco_blockchain_transactions dst_tx ON dst_tx.transaction_hash = f.transaction_hash
	ON CONFLICT (intent_hash) DO NOTHING`

func correlateEco(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "eco", "eco_cross_chain_transactions", ecoMatchQuery)
}

func enrichEco(ctx context.Context, g *Generator, startTs, endTs int64) error {
	if err := g.priceTokenPairs(ctx, "eco", "eco_cross_chain_transactions", startTs, endTs); err != nil {
		return err
	}
	if err := g.updateAmountUSD(ctx, "eco_cross_chain_transactions", "input_amount", "src_blockchain", "src_contract_address", "src_timestamp", "input_amount_usd"); err != nil {
		return err
	}
	// Output rides the source-side timestamp: the intent fixes both legs.
	if err := g.updateAmountUSD(ctx, "eco_cross_chain_transactions", "output_amount", "dst_blockchain", "dst_contract_address", "src_timestamp", "output_amount_usd"); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, "eco_cross_chain_transactions", "src_timestamp", "src_blockchain", "src_fee", "src_fee_usd"); err != nil {
		return err
	}
	return g.updateNativeUSD(ctx, "eco_cross_chain_transactions", "dst_timestamp", "dst_blockchain", "dst_fee", "dst_fee_usd")
}
