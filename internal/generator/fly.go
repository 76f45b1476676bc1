package generator

import "context"

const flyMatchQuery = `
	INSERT INTO fly_cross_chain_transactions (
		deposit_data_hash,
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		src_contract_address, dst_contract_address,
		input_amount, input_amount_usd, output_amount, output_amount_usd
	)
	SELECT
		si.deposit_data_hash,
		si.blockchain, si.transaction_hash, stx.from_address, stx.to_address,
		stx.fee, NULL, stx.timestamp,
		so.blockchain, so.transaction_hash, dtx.from_address, dtx.to_address,
		dtx.fee, NULL, dtx.timestamp,
		si.from_asset_address, so.to_asset_address,
		si.amount_in, NULL, so.amount_out, NULL
	FROM fly_swap_in si
	JOIN fly_blockchain_transactions stx ON stx.transaction_hash = si.transaction_hash
	JOIN fly_swap_out so ON lower(so.deposit_data_hash) = lower(si.deposit_data_hash)
	JOIN fly_blockchain_transactions dtx ON dtx.transaction_hash = so.transaction_hash
	ON CONFLICT (deposit_data_hash, src_transaction_hash, dst_transaction_hash) DO NOTHING`

func correlateFly(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "fly", "fly_cross_chain_transactions", flyMatchQuery)
}

func enrichFly(ctx context.Context, g *Generator, startTs, endTs int64) error {
	return g.enrichStandard(ctx, "fly", "fly_cross_chain_transactions", startTs, endTs)
}
