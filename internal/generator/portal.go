package generator

import "context"

// Redeem events key on the Wormhole chain id of the emitter, so the join
// carries the id table inline.
const portalMatchQuery = `
	INSERT INTO portal_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		sequence_number, depositor, recipient, src_contract_address,
		amount, amount_usd, fee, fee_usd
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		pub.sequence_number, src_tx.from_address, pub.recipient, pub.token_address,
		pub.amount, NULL, pub.fee, NULL
	FROM portal_log_message_published pub
	JOIN (VALUES
		('ethereum', 2), ('bnb', 4), ('polygon', 5), ('avalanche', 6),
		('arbitrum', 23), ('optimism', 24), ('base', 30), ('scroll', 34)
	) AS wc(name, id) ON wc.name = pub.blockchain
	JOIN portal_blockchain_transactions src_tx ON src_tx.transaction_hash = pub.transaction_hash
	JOIN portal_transfer_redeemed red
	  ON red.emitter_chain_id = wc.id
	 AND red.sequence_number = pub.sequence_number
	JOIN portal_blockchain_transactions dst_tx ON dst_tx.transaction_hash = red.transaction_hash
	ON CONFLICT (src_blockchain, sequence_number) DO NOTHING`

func correlatePortal(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "portal", "portal_cross_chain_transactions", portalMatchQuery)
}

func enrichPortal(ctx context.Context, g *Generator, startTs, endTs int64) error {
	if err := g.priceTokenPairs(ctx, "portal", "portal_cross_chain_transactions", startTs, endTs); err != nil {
		return err
	}
	// Amount and relayer fee are denominated in the transferred token.
	if err := g.updateAmountUSD(ctx, "portal_cross_chain_transactions", "amount", "src_blockchain", "src_contract_address", "src_timestamp", "amount_usd"); err != nil {
		return err
	}
	if err := g.updateAmountUSD(ctx, "portal_cross_chain_transactions", "fee", "src_blockchain", "src_contract_address", "src_timestamp", "fee_usd"); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, "portal_cross_chain_transactions", "src_timestamp", "src_blockchain", "src_fee", "src_fee_usd"); err != nil {
		return err
	}
	return g.updateNativeUSD(ctx, "portal_cross_chain_transactions", "dst_timestamp", "dst_blockchain", "dst_fee", "dst_fee_usd")
}
