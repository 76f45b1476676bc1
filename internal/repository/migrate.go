package repository

import (
	"context"
	"fmt"
)

// Migrate creates every table the engine writes to. Statements are
// idempotent so the command can run before each extraction.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var schema = []string{
	// Shared token tables.
	`CREATE TABLE IF NOT EXISTS token_metadata (
		id BIGSERIAL PRIMARY KEY,
		symbol VARCHAR(50) NOT NULL,
		name VARCHAR(50) NOT NULL,
		decimals INT NOT NULL,
		blockchain VARCHAR(16) NOT NULL,
		address VARCHAR(66),
		UNIQUE (blockchain, address)
	)`,
	`CREATE TABLE IF NOT EXISTS token_price (
		id BIGSERIAL PRIMARY KEY,
		symbol VARCHAR(50) NOT NULL,
		name VARCHAR(50) NOT NULL,
		date DATE,
		price_usd DOUBLE PRECISION NOT NULL,
		UNIQUE (symbol, name, date)
	)`,
	`CREATE TABLE IF NOT EXISTS native_token (
		blockchain VARCHAR(16) PRIMARY KEY,
		symbol VARCHAR(50) NOT NULL
	)`,

	// Per-bridge transaction tables. Solana signatures need the wider hash
	// column on mayan.
	transactionsTable("ccip_blockchain_transactions", 66),
	transactionsTable("cow_blockchain_transactions", 66),
	transactionsTable("debridge_blockchain_transactions", 66),
	transactionsTable("eco_blockchain_transactions", 66),
	transactionsTable("fly_blockchain_transactions", 66),
	transactionsTable("mayan_blockchain_transactions", 88),
	transactionsTable("portal_blockchain_transactions", 66),
	transactionsTable("router_blockchain_transactions", 66),
	transactionsTable("synapse_blockchain_transactions", 66),
	transactionsTable("wormhole_blockchain_transactions", 66),

	// CCIP.
	`CREATE TABLE IF NOT EXISTS ccip_send_requested (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		message_id VARCHAR(66) NOT NULL UNIQUE,
		source_chain_id NUMERIC(30,0),
		dest_chain_id NUMERIC(30,0),
		sender VARCHAR(42),
		receiver VARCHAR(42),
		sequence_number NUMERIC(30,0),
		fee_token VARCHAR(42),
		fee_token_amount NUMERIC(30,0),
		token_address VARCHAR(42),
		token_amount NUMERIC(30,0)
	)`,
	`CREATE TABLE IF NOT EXISTS ccip_execution_state_changed (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		message_id VARCHAR(66) NOT NULL UNIQUE,
		sequence_number NUMERIC(30,0),
		state SMALLINT
	)`,

	// CoW.
	`CREATE TABLE IF NOT EXISTS cow_trade (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		trade_id TEXT NOT NULL,
		owner VARCHAR(42) NOT NULL,
		sell_token VARCHAR(42) NOT NULL,
		buy_token VARCHAR(42) NOT NULL,
		sell_amount NUMERIC(30,0) NOT NULL,
		buy_amount NUMERIC(30,0) NOT NULL,
		fee_amount NUMERIC(30,0) NOT NULL,
		app_data TEXT,
		app_data_cid TEXT,
		cross_chain_key TEXT,
		valid_to BIGINT NOT NULL,
		order_kind VARCHAR(20),
		price_info VARCHAR(100),
		from_address VARCHAR(42),
		timestamp BIGINT NOT NULL,
		log_index BIGINT NOT NULL DEFAULT 0,
		UNIQUE (blockchain, trade_id)
	)`,

	// deBridge.
	`CREATE TABLE IF NOT EXISTS debridge_created_order (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		maker_order_nonce BIGINT NOT NULL,
		maker_src VARCHAR(66) NOT NULL,
		src_blockchain VARCHAR(16) NOT NULL,
		give_token_address VARCHAR(66) NOT NULL,
		give_amount NUMERIC(30,0) NOT NULL,
		dst_blockchain VARCHAR(16) NOT NULL,
		take_token_address VARCHAR(66) NOT NULL,
		take_amount NUMERIC(30,0) NOT NULL,
		receiver_dst VARCHAR(66) NOT NULL,
		give_patch_authority_src VARCHAR(66) NOT NULL,
		order_authority_address_dst VARCHAR(66) NOT NULL,
		allowed_taker_dst TEXT,
		allowed_cancel_beneficiary_src TEXT,
		external_call TEXT,
		order_id VARCHAR(66) NOT NULL UNIQUE,
		affiliate_fee TEXT,
		native_fix_fee NUMERIC(30,0) NOT NULL,
		percent_fee NUMERIC(30,0) NOT NULL,
		referral_code BIGINT NOT NULL,
		metadata TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS debridge_fulfilled_order (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		maker_order_nonce BIGINT NOT NULL,
		maker_src VARCHAR(66) NOT NULL,
		src_blockchain VARCHAR(16) NOT NULL,
		give_token_address VARCHAR(66) NOT NULL,
		give_amount NUMERIC(30,0) NOT NULL,
		dst_blockchain VARCHAR(16) NOT NULL,
		take_token_address VARCHAR(66) NOT NULL,
		take_amount NUMERIC(30,0) NOT NULL,
		receiver_dst VARCHAR(66) NOT NULL,
		give_patch_authority_src VARCHAR(66) NOT NULL,
		order_authority_address_dst VARCHAR(66) NOT NULL,
		allowed_taker_dst TEXT,
		allowed_cancel_beneficiary_src TEXT,
		external_call TEXT,
		order_id VARCHAR(66) NOT NULL UNIQUE,
		sender VARCHAR(66) NOT NULL,
		unlock_authority VARCHAR(66) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS debridge_sent_order_unlock (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		order_id VARCHAR(66) NOT NULL,
		beneficiary VARCHAR(66) NOT NULL,
		submission_id VARCHAR(66) NOT NULL,
		UNIQUE (order_id, submission_id)
	)`,
	`CREATE TABLE IF NOT EXISTS debridge_claimed_unlock (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		order_id VARCHAR(66) NOT NULL,
		beneficiary VARCHAR(66) NOT NULL,
		give_amount NUMERIC(30,0) NOT NULL,
		give_token_address VARCHAR(66) NOT NULL,
		UNIQUE (order_id, transaction_hash)
	)`,

	// Eco.
	`CREATE TABLE IF NOT EXISTS eco_intent_created (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		intent_hash VARCHAR(66) NOT NULL UNIQUE,
		salt VARCHAR(66),
		source_chain_id NUMERIC(30,0) NOT NULL,
		destination_chain_id NUMERIC(30,0) NOT NULL,
		inbox VARCHAR(42) NOT NULL,
		creator VARCHAR(42) NOT NULL,
		prover VARCHAR(42) NOT NULL,
		deadline NUMERIC(30,0) NOT NULL,
		native_value NUMERIC(30,0) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS eco_fulfillment (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		intent_hash VARCHAR(66) NOT NULL,
		source_chain_id NUMERIC(30,0) NOT NULL,
		prover VARCHAR(42) NOT NULL,
		claimant VARCHAR(42) NOT NULL,
		UNIQUE (intent_hash, transaction_hash)
	)`,

	// Fly.
	`CREATE TABLE IF NOT EXISTS fly_swap_in (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL UNIQUE,
		from_address VARCHAR(42) NOT NULL,
		to_address VARCHAR(42) NOT NULL,
		from_asset_address VARCHAR(42) NOT NULL,
		to_asset_address VARCHAR(42) NOT NULL,
		amount_in NUMERIC(30,0) NOT NULL,
		amount_out NUMERIC(30,0) NOT NULL,
		encoded_deposit_data TEXT,
		deposit_data_hash VARCHAR(66)
	)`,
	`CREATE TABLE IF NOT EXISTS fly_swap_out (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		from_address VARCHAR(42) NOT NULL,
		to_address VARCHAR(42) NOT NULL,
		from_asset_address VARCHAR(42) NOT NULL,
		to_asset_address VARCHAR(42) NOT NULL,
		amount_in NUMERIC(30,0) NOT NULL,
		amount_out NUMERIC(30,0) NOT NULL,
		deposit_data_hash VARCHAR(66),
		UNIQUE (transaction_hash, deposit_data_hash)
	)`,
	`CREATE TABLE IF NOT EXISTS fly_deposit (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		deposit_data_hash VARCHAR(66) NOT NULL,
		amount NUMERIC(30,0),
		UNIQUE (transaction_hash, deposit_data_hash)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_fly_swap_in_hash ON fly_swap_in (deposit_data_hash)`,
	`CREATE INDEX IF NOT EXISTS ix_fly_swap_out_hash ON fly_swap_out (deposit_data_hash)`,

	// Mayan (EVM).
	`CREATE TABLE IF NOT EXISTS mayan_swap_and_forwarded (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		token_in VARCHAR(42) NOT NULL,
		amount_in NUMERIC(30,0) NOT NULL,
		swap_protocol VARCHAR(42) NOT NULL,
		middle_token VARCHAR(42) NOT NULL,
		middle_amount NUMERIC(30,0) NOT NULL,
		mayan_protocol VARCHAR(42) NOT NULL,
		trader VARCHAR(66) NOT NULL,
		token_out VARCHAR(66) NOT NULL,
		min_amount_out NUMERIC(30,0) NOT NULL,
		gas_drop NUMERIC(30,0),
		cancel_fee NUMERIC(30,0),
		refund_fee NUMERIC(30,0),
		deadline BIGINT,
		dst_addr VARCHAR(66),
		dst_chain VARCHAR(16),
		referrer_addr VARCHAR(66),
		referrer_bps INT,
		auction_mode SMALLINT,
		random VARCHAR(66),
		UNIQUE (transaction_hash, random)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_forwarded (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		token VARCHAR(42) NOT NULL,
		amount NUMERIC(30,0),
		mayan_protocol VARCHAR(42) NOT NULL,
		trader VARCHAR(66) NOT NULL,
		token_out VARCHAR(66) NOT NULL,
		min_amount_out NUMERIC(30,0) NOT NULL,
		gas_drop NUMERIC(30,0),
		cancel_fee NUMERIC(30,0),
		refund_fee NUMERIC(30,0),
		deadline BIGINT,
		dst_addr VARCHAR(66),
		dst_chain VARCHAR(16),
		referrer_addr VARCHAR(66),
		referrer_bps INT,
		auction_mode SMALLINT,
		random VARCHAR(66),
		UNIQUE (transaction_hash, random)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_order_created (
		key VARCHAR(64) PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_order_fulfilled (
		key VARCHAR(64) PRIMARY KEY,
		sequence BIGINT NOT NULL,
		net_amount NUMERIC(30,0) NOT NULL,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_order_unlocked (
		key VARCHAR(64) PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL
	)`,

	// Mayan (Solana).
	`CREATE TABLE IF NOT EXISTS mayan_init_order (
		order_hash VARCHAR(64) PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		trader VARCHAR(44) NOT NULL,
		relayer VARCHAR(44) NOT NULL,
		state VARCHAR(44) NOT NULL,
		state_from_acc VARCHAR(44) NOT NULL,
		relayer_fee_acc VARCHAR(44) NOT NULL,
		mint_from VARCHAR(44) NOT NULL,
		fee_manager_program VARCHAR(44) NOT NULL,
		token_program VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		amount_in_min NUMERIC(30,0) NOT NULL,
		amount_in NUMERIC(30,0) NOT NULL,
		native_input BOOLEAN NOT NULL,
		fee_submit NUMERIC(30,0) NOT NULL,
		addr_dest VARCHAR(128) NOT NULL,
		chain_dest VARCHAR(16) NOT NULL,
		token_out VARCHAR(128) NOT NULL,
		amount_out_min NUMERIC(30,0) NOT NULL,
		gas_drop NUMERIC(30,0) NOT NULL,
		fee_cancel NUMERIC(30,0) NOT NULL,
		fee_refund NUMERIC(30,0) NOT NULL,
		deadline BIGINT NOT NULL,
		addr_ref VARCHAR(128) NOT NULL,
		fee_rate_ref INT NOT NULL,
		fee_rate_mayan INT NOT NULL,
		auction_mode SMALLINT NOT NULL,
		key_rnd VARCHAR(128) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_fulfill_order (
		id BIGSERIAL PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		state VARCHAR(44) NOT NULL,
		driver VARCHAR(44) NOT NULL,
		state_to_acc VARCHAR(44) NOT NULL,
		mint_to VARCHAR(44) NOT NULL,
		dest VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		addr_unlocker VARCHAR(64),
		amount NUMERIC(30,0) NOT NULL,
		UNIQUE (signature, state)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_unlock (
		id BIGSERIAL PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		vaa_unlock VARCHAR(44) NOT NULL,
		state VARCHAR(44) NOT NULL,
		state_from_acc VARCHAR(44) NOT NULL,
		mint_from VARCHAR(44) NOT NULL,
		driver VARCHAR(44) NOT NULL,
		driver_acc VARCHAR(44) NOT NULL,
		token_program VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		amount NUMERIC(30,0) NOT NULL,
		UNIQUE (signature, state)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_unlock_batch (
		id BIGSERIAL PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		vaa_unlock VARCHAR(44) NOT NULL,
		state VARCHAR(44) NOT NULL,
		state_from_acc VARCHAR(44) NOT NULL,
		mint_from VARCHAR(44) NOT NULL,
		driver VARCHAR(44) NOT NULL,
		driver_acc VARCHAR(44) NOT NULL,
		token_program VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		index INT NOT NULL,
		UNIQUE (signature, state, index)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_settle (
		id BIGSERIAL PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		state VARCHAR(44) NOT NULL,
		state_to_acc VARCHAR(44) NOT NULL,
		relayer VARCHAR(44) NOT NULL,
		mint_to VARCHAR(44) NOT NULL,
		dest VARCHAR(44) NOT NULL,
		referrer VARCHAR(44) NOT NULL,
		fee_collector VARCHAR(44) NOT NULL,
		referrer_fee_acc VARCHAR(44) NOT NULL,
		mayan_fee_acc VARCHAR(44) NOT NULL,
		dest_acc VARCHAR(44) NOT NULL,
		token_program VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		associated_token_program VARCHAR(44) NOT NULL,
		UNIQUE (signature, state)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_set_auction_winner (
		id BIGSERIAL PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		state VARCHAR(44) NOT NULL,
		auction VARCHAR(44) NOT NULL,
		expected_winner VARCHAR(64) NOT NULL,
		UNIQUE (signature, state)
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_register_order (
		order_hash VARCHAR(64) PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		relayer VARCHAR(44) NOT NULL,
		state VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		trader VARCHAR(128) NOT NULL,
		chain_source VARCHAR(16) NOT NULL,
		token_in VARCHAR(128) NOT NULL,
		addr_dest VARCHAR(128) NOT NULL,
		chain_dest VARCHAR(16) NOT NULL,
		token_out VARCHAR(128) NOT NULL,
		amount_out_min NUMERIC(30,0) NOT NULL,
		gas_drop NUMERIC(30,0) NOT NULL,
		fee_cancel NUMERIC(30,0) NOT NULL,
		fee_refund NUMERIC(30,0) NOT NULL,
		deadline BIGINT NOT NULL,
		addr_ref VARCHAR(128) NOT NULL,
		fee_rate_ref INT NOT NULL,
		fee_rate_mayan INT NOT NULL,
		auction_mode SMALLINT NOT NULL,
		key_rnd VARCHAR(128) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_auction_bid (
		order_hash VARCHAR(64) PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		config VARCHAR(44) NOT NULL,
		driver VARCHAR(44) NOT NULL,
		auction_state VARCHAR(44) NOT NULL,
		system_program VARCHAR(44) NOT NULL,
		trader VARCHAR(128) NOT NULL,
		chain_source VARCHAR(16) NOT NULL,
		token_in VARCHAR(128) NOT NULL,
		addr_dest VARCHAR(128) NOT NULL,
		chain_dest VARCHAR(16) NOT NULL,
		token_out VARCHAR(128) NOT NULL,
		amount_out_min NUMERIC(30,0) NOT NULL,
		gas_drop NUMERIC(30,0) NOT NULL,
		fee_cancel NUMERIC(30,0) NOT NULL,
		fee_refund NUMERIC(30,0) NOT NULL,
		deadline BIGINT NOT NULL,
		addr_ref VARCHAR(128) NOT NULL,
		fee_rate_ref INT NOT NULL,
		fee_rate_mayan INT NOT NULL,
		auction_mode SMALLINT NOT NULL,
		key_rnd VARCHAR(128) NOT NULL,
		amount_bid NUMERIC(30,0) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mayan_auction_close (
		auction VARCHAR(44) PRIMARY KEY,
		signature VARCHAR(88) NOT NULL,
		initializer VARCHAR(44) NOT NULL
	)`,

	// Portal.
	`CREATE TABLE IF NOT EXISTS portal_log_message_published (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		amount NUMERIC(30,0) NOT NULL,
		token_address VARCHAR(66) NOT NULL,
		token_chain INT NOT NULL,
		recipient VARCHAR(66) NOT NULL,
		recipient_chain VARCHAR(16) NOT NULL,
		fee NUMERIC(30,0) NOT NULL,
		nonce NUMERIC(30,0) NOT NULL,
		sequence_number NUMERIC(40,0) NOT NULL,
		UNIQUE (blockchain, sequence_number)
	)`,
	`CREATE TABLE IF NOT EXISTS portal_transfer_redeemed (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		emitter_chain_id INT NOT NULL,
		emitter_address VARCHAR(66) NOT NULL,
		sequence_number NUMERIC(40,0) NOT NULL,
		data TEXT,
		UNIQUE (emitter_chain_id, sequence_number)
	)`,

	// Router.
	`CREATE TABLE IF NOT EXISTS router_funds_deposited (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		partner_id NUMERIC(30,0) NOT NULL,
		amount NUMERIC(30,0) NOT NULL,
		dest_chain_id_bytes VARCHAR(66) NOT NULL,
		dest_amount NUMERIC(30,0) NOT NULL,
		deposit_id NUMERIC(30,0) NOT NULL,
		src_token VARCHAR(42) NOT NULL,
		depositor VARCHAR(42) NOT NULL,
		recipient_raw VARCHAR(512) NOT NULL,
		dest_token_raw VARCHAR(512) NOT NULL,
		message TEXT,
		has_message BOOLEAN NOT NULL,
		message_hash VARCHAR(66),
		UNIQUE (blockchain, deposit_id, has_message)
	)`,
	`CREATE TABLE IF NOT EXISTS router_iusdc_deposited (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		partner_id NUMERIC(30,0) NOT NULL,
		amount NUMERIC(30,0) NOT NULL,
		dest_chain_id_bytes VARCHAR(66) NOT NULL,
		usdc_nonce NUMERIC(30,0) NOT NULL,
		src_token VARCHAR(42) NOT NULL,
		recipient VARCHAR(66) NOT NULL,
		depositor VARCHAR(42) NOT NULL,
		UNIQUE (blockchain, usdc_nonce)
	)`,
	`CREATE TABLE IF NOT EXISTS router_deposit_info_update (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		src_token VARCHAR(42) NOT NULL,
		fee_amount NUMERIC(30,0) NOT NULL,
		deposit_id NUMERIC(30,0) NOT NULL,
		event_nonce NUMERIC(30,0) NOT NULL,
		initiate_withdrawal BOOLEAN NOT NULL,
		depositor VARCHAR(42) NOT NULL,
		UNIQUE (blockchain, deposit_id, event_nonce)
	)`,
	`CREATE TABLE IF NOT EXISTS router_funds_paid (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		message_hash VARCHAR(66) NOT NULL,
		forwarder VARCHAR(42) NOT NULL,
		nonce NUMERIC(30,0) NOT NULL,
		has_message BOOLEAN NOT NULL,
		exec_flag BOOLEAN,
		exec_data TEXT,
		UNIQUE (blockchain, message_hash, has_message)
	)`,

	// Synapse.
	`CREATE TABLE IF NOT EXISTS synapse_token_deposit_and_swap (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		contract_address VARCHAR(42),
		to_address VARCHAR(42),
		chain_id VARCHAR(32),
		token VARCHAR(42),
		amount NUMERIC(30,0),
		token_index_from NUMERIC(10,0),
		token_index_to NUMERIC(10,0),
		min_dy NUMERIC(30,0),
		deadline NUMERIC(30,0),
		kappa VARCHAR(66) UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS synapse_token_mint_and_swap (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		contract_address VARCHAR(42),
		to_address VARCHAR(42),
		token VARCHAR(42),
		amount NUMERIC(30,0),
		fee NUMERIC(30,0),
		token_index_from NUMERIC(10,0),
		token_index_to NUMERIC(10,0),
		min_dy NUMERIC(30,0),
		deadline NUMERIC(30,0),
		swap_success BOOLEAN,
		kappa VARCHAR(66),
		UNIQUE (kappa, transaction_hash)
	)`,

	// Wormhole.
	`CREATE TABLE IF NOT EXISTS wormhole_published (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		block_number BIGINT NOT NULL,
		sender VARCHAR(42) NOT NULL,
		sequence NUMERIC(40,0) NOT NULL,
		nonce NUMERIC(40,0),
		payload TEXT NOT NULL,
		consistency_level INT,
		emitter_address_32 VARCHAR(66) NOT NULL,
		emitter_chain_id INT NOT NULL,
		amount NUMERIC(30,0),
		UNIQUE (emitter_chain_id, emitter_address_32, sequence)
	)`,
	`CREATE TABLE IF NOT EXISTS wormhole_redeemed (
		id BIGSERIAL PRIMARY KEY,
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(66) NOT NULL,
		block_number BIGINT NOT NULL,
		emitter_chain_id INT NOT NULL,
		emitter_address_32 VARCHAR(66) NOT NULL,
		sequence NUMERIC(40,0) NOT NULL,
		UNIQUE (emitter_chain_id, emitter_address_32, sequence, transaction_hash)
	)`,

	// Correlated cross-chain tables.
	crossChainTable("ccip_cross_chain_transactions", `
		message_id VARCHAR(66),
		depositor VARCHAR(42),
		recipient VARCHAR(66),
		src_contract_address VARCHAR(66),
		dst_contract_address VARCHAR(66),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION`),
	crossChainTable("cow_cross_chain_transactions", `
		trade_id TEXT NOT NULL,
		src_owner VARCHAR(42),
		dst_owner VARCHAR(42),
		sell_token VARCHAR(42),
		buy_token VARCHAR(42),
		sell_amount NUMERIC(30,0),
		sell_amount_usd DOUBLE PRECISION,
		buy_amount NUMERIC(30,0),
		buy_amount_usd DOUBLE PRECISION,
		src_valid_to BIGINT,
		dst_valid_to BIGINT,
		CONSTRAINT uq_cow_cctx_triplet UNIQUE (trade_id, src_blockchain, dst_blockchain)`),
	crossChainTable("debridge_cross_chain_transactions", `
		message_id VARCHAR(66),
		depositor VARCHAR(66),
		recipient VARCHAR(66),
		src_contract_address VARCHAR(66),
		dst_contract_address VARCHAR(66),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION,
		native_fix_fee NUMERIC(30,0),
		native_fix_fee_usd DOUBLE PRECISION,
		percent_fee NUMERIC(30,0),
		percent_fee_usd DOUBLE PRECISION`),
	crossChainTable("eco_cross_chain_transactions", `
		intent_hash VARCHAR(66) NOT NULL UNIQUE,
		src_contract_address VARCHAR(66),
		dst_contract_address VARCHAR(66),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION`),
	crossChainTable("fly_cross_chain_transactions", `
		deposit_data_hash VARCHAR(66) NOT NULL,
		src_contract_address VARCHAR(42),
		dst_contract_address VARCHAR(42),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION,
		UNIQUE (deposit_data_hash, src_transaction_hash, dst_transaction_hash)`),
	crossChainTable("mayan_cross_chain_transactions", `
		deposit_id TEXT,
		depositor VARCHAR(66),
		recipient VARCHAR(66),
		src_contract_address VARCHAR(66),
		dst_contract_address VARCHAR(66),
		amount NUMERIC(30,0),
		amount_usd DOUBLE PRECISION,
		UNIQUE (src_transaction_hash, dst_transaction_hash)`),
	crossChainTable("portal_cross_chain_transactions", `
		sequence_number NUMERIC(40,0) NOT NULL,
		depositor VARCHAR(66),
		recipient VARCHAR(66),
		src_contract_address VARCHAR(66),
		amount NUMERIC(30,0),
		amount_usd DOUBLE PRECISION,
		fee NUMERIC(30,0),
		fee_usd DOUBLE PRECISION,
		UNIQUE (src_blockchain, sequence_number)`),
	crossChainTable("router_cross_chain_transactions", `
		deposit_id NUMERIC(30,0),
		depositor VARCHAR(42),
		recipient VARCHAR(512),
		src_contract_address VARCHAR(66),
		dst_contract_address VARCHAR(66),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION,
		message_hash VARCHAR(66),
		UNIQUE (src_blockchain, deposit_id, message_hash)`),
	crossChainTable("synapse_cross_chain_transactions", `
		recipient VARCHAR(512),
		src_contract_address VARCHAR(66),
		src_token VARCHAR(50),
		dst_contract_address VARCHAR(66),
		dst_token VARCHAR(50),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION,
		swap_success BOOLEAN,
		kappa VARCHAR(66) UNIQUE`),
	crossChainTable("wormhole_cross_chain_transactions", `
		emitter_chain_id INT NOT NULL,
		emitter_address_32 VARCHAR(66) NOT NULL,
		sequence NUMERIC(40,0) NOT NULL,
		src_contract_address VARCHAR(66),
		dst_contract_address VARCHAR(66),
		input_amount NUMERIC(30,0),
		input_amount_usd DOUBLE PRECISION,
		output_amount NUMERIC(30,0),
		output_amount_usd DOUBLE PRECISION,
		UNIQUE (emitter_chain_id, emitter_address_32, sequence)`),
}

func transactionsTable(name string, hashWidth int) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		blockchain VARCHAR(16) NOT NULL,
		transaction_hash VARCHAR(%d) NOT NULL PRIMARY KEY,
		block_number BIGINT NOT NULL,
		timestamp BIGINT NOT NULL,
		from_address VARCHAR(66),
		to_address VARCHAR(66),
		status INT NOT NULL,
		value NUMERIC(30,0),
		fee NUMERIC(30,0) NOT NULL
	)`, name, hashWidth)
}

// crossChainTable emits the shared src/dst column prefix every correlated
// table carries, plus the bridge-specific tail.
func crossChainTable(name, extra string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		src_blockchain VARCHAR(16) NOT NULL,
		src_transaction_hash VARCHAR(88) NOT NULL,
		src_from_address VARCHAR(66),
		src_to_address VARCHAR(66),
		src_fee NUMERIC(30,0),
		src_fee_usd DOUBLE PRECISION,
		src_timestamp BIGINT,
		dst_blockchain VARCHAR(16) NOT NULL,
		dst_transaction_hash VARCHAR(88) NOT NULL,
		dst_from_address VARCHAR(66),
		dst_to_address VARCHAR(66),
		dst_fee NUMERIC(30,0),
		dst_fee_usd DOUBLE PRECISION,
		dst_timestamp BIGINT,
		%s
	)`, name, extra)
}
