package repository

import (
	"context"
	"fmt"

	"bridgescan/internal/models"
)

func (r *Repository) SaveMayanSwapAndForwarded(ctx context.Context, evs []models.MayanSwapAndForwarded) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO mayan_swap_and_forwarded
			(blockchain, transaction_hash, token_in, amount_in, swap_protocol, middle_token,
			 middle_amount, mayan_protocol, trader, token_out, min_amount_out, gas_drop,
			 cancel_fee, refund_fee, deadline, dst_addr, dst_chain, referrer_addr,
			 referrer_bps, auction_mode, random)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			ON CONFLICT (transaction_hash, random) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.TokenIn, bigIntNumeric(e.AmountIn),
			e.SwapProtocol, e.MiddleToken, bigIntNumeric(e.MiddleAmount), e.MayanProtocol,
			e.Trader, e.TokenOut, bigIntNumeric(e.MinAmountOut), e.GasDrop,
			e.CancelFee, e.RefundFee, e.Deadline, e.DstAddr, e.DstChain, e.ReferrerAddr,
			e.ReferrerBps, e.AuctionMode, e.Random)
		if err != nil {
			return fmt.Errorf("save mayan swap-and-forwarded %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}

func (r *Repository) SaveMayanForwarded(ctx context.Context, evs []models.MayanForwarded) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO mayan_forwarded
			(blockchain, transaction_hash, token, amount, mayan_protocol, trader, token_out,
			 min_amount_out, gas_drop, cancel_fee, refund_fee, deadline, dst_addr, dst_chain,
			 referrer_addr, referrer_bps, auction_mode, random)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (transaction_hash, random) DO NOTHING`,
			e.Blockchain, e.TransactionHash, e.Token, bigIntNumeric(e.Amount),
			e.MayanProtocol, e.Trader, e.TokenOut, bigIntNumeric(e.MinAmountOut),
			e.GasDrop, e.CancelFee, e.RefundFee, e.Deadline, e.DstAddr, e.DstChain,
			e.ReferrerAddr, e.ReferrerBps, e.AuctionMode, e.Random)
		if err != nil {
			return fmt.Errorf("save mayan forwarded %s: %w", e.TransactionHash, err)
		}
	}
	return nil
}

func (r *Repository) SaveMayanOrdersCreated(ctx context.Context, evs []models.MayanOrderEvent) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO mayan_order_created (key, blockchain, transaction_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO NOTHING`,
			e.Key, e.Blockchain, e.TransactionHash)
		if err != nil {
			return fmt.Errorf("save mayan order created %s: %w", e.Key, err)
		}
	}
	return nil
}

func (r *Repository) SaveMayanOrdersFulfilled(ctx context.Context, evs []models.MayanOrderFulfilled) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO mayan_order_fulfilled
			(key, sequence, net_amount, blockchain, transaction_hash)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (key) DO NOTHING`,
			e.Key, e.Sequence, bigIntNumeric(e.NetAmount), e.Blockchain, e.TransactionHash)
		if err != nil {
			return fmt.Errorf("save mayan order fulfilled %s: %w", e.Key, err)
		}
	}
	return nil
}

func (r *Repository) SaveMayanOrdersUnlocked(ctx context.Context, evs []models.MayanOrderEvent) error {
	for _, e := range evs {
		_, err := r.db.Exec(ctx, `INSERT INTO mayan_order_unlocked (key, blockchain, transaction_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO NOTHING`,
			e.Key, e.Blockchain, e.TransactionHash)
		if err != nil {
			return fmt.Errorf("save mayan order unlocked %s: %w", e.Key, err)
		}
	}
	return nil
}

func (r *Repository) SaveMayanInitOrder(ctx context.Context, e models.MayanInitOrder) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_init_order
		(order_hash, signature, trader, relayer, state, state_from_acc, relayer_fee_acc,
		 mint_from, fee_manager_program, token_program, system_program, amount_in_min,
		 amount_in, native_input, fee_submit, addr_dest, chain_dest, token_out,
		 amount_out_min, gas_drop, fee_cancel, fee_refund, deadline, addr_ref,
		 fee_rate_ref, fee_rate_mayan, auction_mode, key_rnd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (order_hash) DO NOTHING`,
		e.OrderHash, e.Signature, e.Trader, e.Relayer, e.State, e.StateFromAcc, e.RelayerFeeAcc,
		e.MintFrom, e.FeeManagerProgram, e.TokenProgram, e.SystemProgram, bigIntNumeric(e.AmountInMin),
		bigIntNumeric(e.AmountIn), e.NativeInput, bigIntNumeric(e.FeeSubmit), e.AddrDest, e.ChainDest,
		e.TokenOut, bigIntNumeric(e.AmountOutMin), bigIntNumeric(e.GasDrop), bigIntNumeric(e.FeeCancel),
		bigIntNumeric(e.FeeRefund), e.Deadline, e.AddrRef, e.FeeRateRef, e.FeeRateMayan,
		e.AuctionMode, e.KeyRnd)
	if err != nil {
		return fmt.Errorf("save mayan init order %s: %w", e.OrderHash, err)
	}
	return nil
}

func (r *Repository) SaveMayanFulfillOrder(ctx context.Context, e models.MayanFulfillOrder) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_fulfill_order
		(signature, state, driver, state_to_acc, mint_to, dest, system_program, addr_unlocker, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (signature, state) DO NOTHING`,
		e.Signature, e.State, e.Driver, e.StateToAcc, e.MintTo, e.Dest, e.SystemProgram,
		nullIfEmpty(e.AddrUnlocker), bigIntNumeric(e.Amount))
	if err != nil {
		return fmt.Errorf("save mayan fulfill %s: %w", e.Signature, err)
	}
	return nil
}

func (r *Repository) SaveMayanUnlock(ctx context.Context, e models.MayanUnlock) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_unlock
		(signature, vaa_unlock, state, state_from_acc, mint_from, driver, driver_acc,
		 token_program, system_program, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (signature, state) DO NOTHING`,
		e.Signature, e.VaaUnlock, e.State, e.StateFromAcc, e.MintFrom, e.Driver, e.DriverAcc,
		e.TokenProgram, e.SystemProgram, bigIntNumeric(e.Amount))
	if err != nil {
		return fmt.Errorf("save mayan unlock %s: %w", e.Signature, err)
	}
	return nil
}

func (r *Repository) SaveMayanUnlockBatch(ctx context.Context, e models.MayanUnlockBatch) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_unlock_batch
		(signature, vaa_unlock, state, state_from_acc, mint_from, driver, driver_acc,
		 token_program, system_program, index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (signature, state, index) DO NOTHING`,
		e.Signature, e.VaaUnlock, e.State, e.StateFromAcc, e.MintFrom, e.Driver, e.DriverAcc,
		e.TokenProgram, e.SystemProgram, e.Index)
	if err != nil {
		return fmt.Errorf("save mayan unlock batch %s: %w", e.Signature, err)
	}
	return nil
}

func (r *Repository) SaveMayanSettle(ctx context.Context, e models.MayanSettle) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_settle
		(signature, state, state_to_acc, relayer, mint_to, dest, referrer, fee_collector,
		 referrer_fee_acc, mayan_fee_acc, dest_acc, token_program, system_program,
		 associated_token_program)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (signature, state) DO NOTHING`,
		e.Signature, e.State, e.StateToAcc, e.Relayer, e.MintTo, e.Dest, e.Referrer,
		e.FeeCollector, e.ReferrerFeeAcc, e.MayanFeeAcc, e.DestAcc, e.TokenProgram,
		e.SystemProgram, e.AssociatedTokenProgram)
	if err != nil {
		return fmt.Errorf("save mayan settle %s: %w", e.Signature, err)
	}
	return nil
}

func (r *Repository) SaveMayanSetAuctionWinner(ctx context.Context, e models.MayanSetAuctionWinner) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_set_auction_winner
		(signature, state, auction, expected_winner)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (signature, state) DO NOTHING`,
		e.Signature, e.State, e.Auction, e.ExpectedWinner)
	if err != nil {
		return fmt.Errorf("save mayan set auction winner %s: %w", e.Signature, err)
	}
	return nil
}

func (r *Repository) SaveMayanRegisterOrder(ctx context.Context, e models.MayanRegisterOrder) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_register_order
		(order_hash, signature, relayer, state, system_program, trader, chain_source,
		 token_in, addr_dest, chain_dest, token_out, amount_out_min, gas_drop, fee_cancel,
		 fee_refund, deadline, addr_ref, fee_rate_ref, fee_rate_mayan, auction_mode, key_rnd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21)
		ON CONFLICT (order_hash) DO NOTHING`,
		e.OrderHash, e.Signature, e.Relayer, e.State, e.SystemProgram, e.Trader, e.ChainSource,
		e.TokenIn, e.AddrDest, e.ChainDest, e.TokenOut, bigIntNumeric(e.AmountOutMin),
		bigIntNumeric(e.GasDrop), bigIntNumeric(e.FeeCancel), bigIntNumeric(e.FeeRefund),
		e.Deadline, e.AddrRef, e.FeeRateRef, e.FeeRateMayan, e.AuctionMode, e.KeyRnd)
	if err != nil {
		return fmt.Errorf("save mayan register order %s: %w", e.OrderHash, err)
	}
	return nil
}

func (r *Repository) SaveMayanAuctionBid(ctx context.Context, e models.MayanAuctionBid) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_auction_bid
		(order_hash, signature, config, driver, auction_state, system_program, trader,
		 chain_source, token_in, addr_dest, chain_dest, token_out, amount_out_min, gas_drop,
		 fee_cancel, fee_refund, deadline, addr_ref, fee_rate_ref, fee_rate_mayan,
		 auction_mode, key_rnd, amount_bid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23)
		ON CONFLICT (order_hash) DO NOTHING`,
		e.OrderHash, e.Signature, e.Config, e.Driver, e.AuctionState, e.SystemProgram,
		e.Trader, e.ChainSource, e.TokenIn, e.AddrDest, e.ChainDest, e.TokenOut,
		bigIntNumeric(e.AmountOutMin), bigIntNumeric(e.GasDrop), bigIntNumeric(e.FeeCancel),
		bigIntNumeric(e.FeeRefund), e.Deadline, e.AddrRef, e.FeeRateRef, e.FeeRateMayan,
		e.AuctionMode, e.KeyRnd, bigIntNumeric(e.AmountBid))
	if err != nil {
		return fmt.Errorf("save mayan auction bid %s: %w", e.OrderHash, err)
	}
	return nil
}

func (r *Repository) SaveMayanAuctionClose(ctx context.Context, e models.MayanAuctionClose) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mayan_auction_close
		(signature, auction, initializer)
		VALUES ($1, $2, $3)
		ON CONFLICT (auction) DO NOTHING`,
		e.Signature, e.Auction, e.Initializer)
	if err != nil {
		return fmt.Errorf("save mayan auction close %s: %w", e.Signature, err)
	}
	return nil
}
