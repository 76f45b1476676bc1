package generator

import (
	"context"
	"log"
)

// Swift program on Solana; stands in for the to-address of Solana legs.
const mayanSwiftProgramAddr = "BLZRi6frs4X4DNLw56V4EXai1b6QVESN1BhHBTYM9VcY"

// Solana-origin orders: initOrder rows matched to the EVM-side
// OrderFulfilled event by the shared order hash.
const mayanSolToEVMQuery = `
	INSERT INTO mayan_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		deposit_id, depositor, recipient,
		src_contract_address, dst_contract_address,
		amount, amount_usd
	)
	SELECT
		'solana', src_tx.transaction_hash, init.trader, '` + mayanSwiftProgramAddr + `',
		src_tx.fee, NULL, src_tx.timestamp,
		dst_tx.blockchain, dst_tx.transaction_hash, dst_tx.from_address, dst_tx.to_address,
		dst_tx.fee, NULL, dst_tx.timestamp,
		init.order_hash, init.trader, init.addr_dest,
		init.mint_from, init.token_out,
		init.amount_in, NULL
	FROM mayan_init_order init
	JOIN mayan_order_fulfilled fulfilled ON fulfilled.key = init.order_hash
	JOIN mayan_blockchain_transactions src_tx ON src_tx.transaction_hash = init.signature
	JOIN mayan_blockchain_transactions dst_tx ON dst_tx.transaction_hash = fulfilled.transaction_hash
	ON CONFLICT (src_transaction_hash, dst_transaction_hash) DO NOTHING`

// EVM-origin orders: the forwarder event carries the trader and amount, the
// registered order on Solana carries the route, and fulfill closes the leg.
const mayanEVMToSolQuery = `
	INSERT INTO mayan_cross_chain_transactions (
		src_blockchain, src_transaction_hash, src_from_address, src_to_address,
		src_fee, src_fee_usd, src_timestamp,
		dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
		dst_fee, dst_fee_usd, dst_timestamp,
		deposit_id, depositor, recipient,
		src_contract_address, dst_contract_address,
		amount, amount_usd
	)
	SELECT
		fw.blockchain, fw.transaction_hash, fw.trader, fw.mayan_protocol,
		src_tx.fee, NULL, src_tx.timestamp,
		'solana', fo.signature, fo.driver, fo.dest,
		dst_tx.fee, NULL, dst_tx.timestamp,
		oc.key, fw.trader, ro.addr_dest,
		ro.token_in, ro.token_out,
		COALESCE(fw.amount, src_tx.value), NULL
	FROM mayan_forwarded fw
	JOIN mayan_order_created oc ON oc.transaction_hash = fw.transaction_hash
	JOIN mayan_register_order ro ON ro.order_hash = oc.key
	JOIN mayan_fulfill_order fo ON fo.state = ro.state
	JOIN mayan_blockchain_transactions src_tx ON src_tx.transaction_hash = fw.transaction_hash
	JOIN mayan_blockchain_transactions dst_tx ON dst_tx.transaction_hash = fo.signature
	ON CONFLICT (src_transaction_hash, dst_transaction_hash) DO NOTHING`

func correlateMayan(ctx context.Context, g *Generator) error {
	if err := g.truncateAndJoin(ctx, "mayan", "mayan_cross_chain_transactions", mayanSolToEVMQuery); err != nil {
		return err
	}
	n, err := g.repo.Exec(ctx, mayanEVMToSolQuery)
	if err != nil {
		return err
	}
	log.Printf("[generator] mayan: %d EVM-origin rows matched", n)
	return nil
}

func enrichMayan(ctx context.Context, g *Generator, startTs, endTs int64) error {
	// Alchemy has no Solana surface, so SOL and the common SPL tokens are
	// seeded by hand before the pair walk.
	if err := g.prices.populateSolanaTokens(ctx, "mayan", startTs, endTs); err != nil {
		return err
	}

	if err := g.priceTokenPairs(ctx, "mayan", "mayan_cross_chain_transactions", startTs, endTs); err != nil {
		return err
	}
	if err := g.updateAmountUSD(ctx, "mayan_cross_chain_transactions", "amount", "src_blockchain", "src_contract_address", "src_timestamp", "amount_usd"); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, "mayan_cross_chain_transactions", "src_timestamp", "src_blockchain", "src_fee", "src_fee_usd"); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, "mayan_cross_chain_transactions", "dst_timestamp", "dst_blockchain", "dst_fee", "dst_fee_usd"); err != nil {
		return err
	}

	// Solana fees are lamports against SOL's 9 decimals, while the USD join
	// assumed the 18-decimal native metadata row. Scale the affected legs.
	if _, err := g.repo.Exec(ctx, `UPDATE mayan_cross_chain_transactions
		SET src_fee_usd = src_fee_usd * power(10, 9)
		WHERE src_blockchain = 'solana' AND src_fee_usd IS NOT NULL`); err != nil {
		return err
	}
	if _, err := g.repo.Exec(ctx, `UPDATE mayan_cross_chain_transactions
		SET dst_fee_usd = dst_fee_usd * power(10, 9)
		WHERE dst_blockchain = 'solana' AND dst_fee_usd IS NOT NULL`); err != nil {
		return err
	}
	return nil
}
