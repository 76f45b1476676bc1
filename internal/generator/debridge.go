package generator

import "context"

const deBridgeMatchQuery = `
	INSERT INTO debridge_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		message_id, depositor, recipient,
		src_contract_address, dst_contract_address,
		input_amount, input_amount_usd, output_amount, output_amount_usd,
		native_fix_fee, native_fix_fee_usd, percent_fee, percent_fee_usd
	)
	SELECT
		src_tx.blockchain, src_tx.transaction_hash, src_tx.from_address, src_tx.to_address,
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		NULL, src_tx.from_address, deposit.receiver_dst,
		deposit.give_token_address, deposit.take_token_address,
		deposit.give_amount, NULL, deposit.take_amount, NULL,
		deposit.native_fix_fee, NULL, deposit.percent_fee, NULL
	FROM debridge_created_order deposit
	JOIN debridge_blockchain_transactions src_tx ON src_tx.transaction_hash = deposit.transaction_hash
	JOIN debridge_fulfilled_order fill ON fill.order_id = deposit.order_id
	JOIN debridge_blockchain_transactions dst_tx ON dst_tx.transaction_hash = fill.transaction_hash`

func correlateDeBridge(ctx context.Context, g *Generator) error {
	return g.truncateAndJoin(ctx, "debridge", "debridge_cross_chain_transactions", deBridgeMatchQuery)
}

func enrichDeBridge(ctx context.Context, g *Generator, startTs, endTs int64) error {
	// deBridge writes the zero address for native-token legs. Point those
	// metadata rows at the chain's gas token before the USD joins.
	if _, err := g.repo.Exec(ctx, `
		UPDATE token_metadata
		SET symbol = native_token.symbol, decimals = 18
		FROM native_token
		WHERE native_token.blockchain = token_metadata.blockchain
		  AND token_metadata.address = '0x0000000000000000000000000000000000000000'`); err != nil {
		return err
	}

	if err := g.enrichStandard(ctx, "debridge", "debridge_cross_chain_transactions", startTs, endTs); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, "debridge_cross_chain_transactions", "dst_timestamp", "dst_blockchain", "native_fix_fee", "native_fix_fee_usd"); err != nil {
		return err
	}
	return g.updateNativeUSD(ctx, "debridge_cross_chain_transactions", "dst_timestamp", "dst_blockchain", "percent_fee", "percent_fee_usd")
}
