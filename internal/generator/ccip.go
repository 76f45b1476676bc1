package generator

import "context"

const ccipMatchQuery = `
	INSERT INTO ccip_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		message_id, depositor, recipient,
		src_contract_address, dst_contract_address,
		input_amount, input_amount_usd, output_amount, output_amount_usd
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		sr.message_id, sr.sender, sr.receiver,
		sr.token_address, NULL,
		sr.token_amount, NULL, sr.token_amount, NULL
	FROM ccip_send_requested sr
	JOIN ccip_blockchain_transactions src_tx ON src_tx.transaction_hash = sr.transaction_hash
	JOIN ccip_execution_state_changed esc ON esc.message_id = sr.message_id
	JOIN ccip_blockchain_transactions dst_tx ON dst_tx.transaction_hash = esc.transaction_hash`

func correlateCCIP(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "ccip", "ccip_cross_chain_transactions", ccipMatchQuery)
}

func enrichCCIP(ctx context.Context, g *Generator, startTs, endTs int64) error {
	return g.enrichStandard(ctx, "ccip", "ccip_cross_chain_transactions", startTs, endTs)
}
