package generator

import "context"

const wormholeMatchQuery = `
	INSERT INTO wormhole_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		emitter_chain_id, emitter_address_32, sequence,
		src_contract_address, dst_contract_address,
		input_amount, input_amount_usd, output_amount, output_amount_usd
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		pub.emitter_chain_id, pub.emitter_address_32, pub.sequence,
		NULL, NULL,
		pub.amount, NULL, pub.amount, NULL
	FROM wormhole_published pub
	JOIN wormhole_blockchain_transactions src_tx ON src_tx.transaction_hash = pub.transaction_hash
	JOIN wormhole_redeemed red
	  ON red.emitter_chain_id = pub.emitter_chain_id
	 AND lower(red.emitter_address_32) = lower(pub.emitter_address_32)
	 AND red.sequence = pub.sequence
	JOIN wormhole_blockchain_transactions dst_tx ON dst_tx.transaction_hash = red.transaction_hash
	ON CONFLICT (emitter_chain_id, emitter_address_32, sequence) DO NOTHING`

func correlateWormhole(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "wormhole", "wormhole_cross_chain_transactions", wormholeMatchQuery)
}

// Core messages carry no token leg, so only the native fee passes apply.
func enrichWormhole(ctx context.Context, g *Generator, startTs, endTs int64) error {
	if err := g.updateNativeUSD(ctx, "wormhole_cross_chain_transactions", "src_timestamp", "src_blockchain", "src_fee", "src_fee_usd"); err != nil {
		return err
	}
	return g.updateNativeUSD(ctx, "wormhole_cross_chain_transactions", "dst_timestamp", "dst_blockchain", "dst_fee", "dst_fee_usd")
}
