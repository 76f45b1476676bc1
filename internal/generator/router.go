package generator

import "context"

const routerMatchQuery = `
	INSERT INTO router_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		deposit_id, depositor, recipient,
		src_contract_address, dst_contract_address,
		input_amount, input_amount_usd, output_amount, output_amount_usd,
		message_hash
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		fd.deposit_id, fd.depositor, fd.recipient_raw,
		fd.src_token, fd.dest_token_raw,
		fd.amount, NULL, fd.dest_amount, NULL,
		fd.message_hash
	FROM router_funds_deposited fd
	JOIN router_blockchain_transactions src_tx ON src_tx.transaction_hash = fd.transaction_hash
	JOIN router_funds_paid fp
	  ON fd.message_hash IS NOT NULL
	 AND lower(fp.message_hash) = lower(fd.message_hash)
	 AND fp.has_message = fd.has_message
	JOIN router_blockchain_transactions dst_tx ON dst_tx.transaction_hash = fp.transaction_hash
	ON CONFLICT (src_blockchain, deposit_id, message_hash) DO NOTHING`

func correlateRouter(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "router", "router_cross_chain_transactions", routerMatchQuery)
}

func enrichRouter(ctx context.Context, g *Generator, startTs, endTs int64) error {
	return g.enrichStandard(ctx, "router", "router_cross_chain_transactions", startTs, endTs)
}
