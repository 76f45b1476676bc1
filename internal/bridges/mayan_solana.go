package bridges

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"bridgescan/internal/evm"
	"bridgescan/internal/models"
	"bridgescan/internal/rpc"
)

// mayanSwiftProgram is the Swift program on Solana, the counterpart of the
// Swift EVM contract.
const mayanSwiftProgram = "BLZRi6frs4X4DNLw56V4EXai1b6QVESN1BhHBTYM9VcY"

const solanaWormholeChainID = 1

// mayanInstructionNames maps Anchor discriminators to instruction names. The
// discriminator is the first 8 bytes of sha256("global:<name>").
var mayanInstructionNames = func() map[[8]byte]string {
	names := []string{
		"initOrder", "fulfill", "unlock", "unlockBatch",
		"settle", "setAuctionWinner", "registerOrder",
		"bid", "closeAuction",
	}
	m := make(map[[8]byte]string, len(names))
	for _, name := range names {
		sum := sha256.Sum256([]byte("global:" + name))
		var d [8]byte
		copy(d[:], sum[:8])
		m[d] = name
	}
	return m
}()

// Swift instruction account orders, as laid out by the program.
var mayanAccountOrders = map[string][]string{
	"initOrder":        {"trader", "relayer", "state", "stateFromAcc", "relayerFeeAcc", "mintFrom", "feeManagerProgram", "tokenProgram", "systemProgram"},
	"fulfill":          {"state", "driver", "stateToAcc", "mintTo", "dest", "systemProgram"},
	"unlock":           {"vaaUnlock", "state", "stateFromAcc", "mintFrom", "driver", "driverAcc", "tokenProgram", "systemProgram"},
	"unlockBatch":      {"vaaUnlock", "state", "stateFromAcc", "mintFrom", "driver", "driverAcc", "tokenProgram", "systemProgram"},
	"settle":           {"state", "stateToAcc", "relayer", "mintTo", "dest", "referrer", "feeCollector", "referrerFeeAcc", "mayanFeeAcc", "destAcc", "tokenProgram", "systemProgram", "associatedTokenProgram"},
	"setAuctionWinner": {"state", "auction"},
	"registerOrder":    {"relayer", "state", "systemProgram"},
	"bid":              {"config", "driver", "auctionState", "systemProgram"},
	"closeAuction":     {"auction", "initializer"},
}

// namedAccounts assigns instruction accounts their positional names. Missing
// trailing accounts map to the empty string.
func namedAccounts(instr rpc.ParsedInstruction, order []string) map[string]string {
	out := make(map[string]string, len(order))
	for i, name := range order {
		if i < len(instr.Accounts) {
			out[name] = instr.Accounts[i]
		} else {
			out[name] = ""
		}
	}
	return out
}

// mayanInstructionName decodes the raw instruction data and resolves the
// Anchor discriminator.
func mayanInstructionName(instr rpc.ParsedInstruction) (string, []byte, bool) {
	raw, err := base58.Decode(instr.Data)
	if err != nil || len(raw) < 8 {
		return "", nil, false
	}
	var d [8]byte
	copy(d[:], raw[:8])
	name, ok := mayanInstructionNames[d]
	if !ok {
		return "", nil, false
	}
	return name, raw[8:], true
}

// borshReader is a little cursor over Borsh-encoded instruction args.
type borshReader struct {
	data []byte
	pos  int
	err  error
}

func (r *borshReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = fmt.Errorf("args truncated at byte %d", r.pos)
		return nil
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *borshReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *borshReader) boolean() bool { return r.u8() != 0 }

func (r *borshReader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *borshReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *borshReader) bytes32() [32]byte {
	var out [32]byte
	b := r.take(32)
	if b != nil {
		copy(out[:], b)
	}
	return out
}

// transferAmount pulls the token amount out of a parsed SPL transfer or
// transferChecked instruction.
func transferAmount(instr rpc.ParsedInstruction) (*big.Int, bool) {
	p, ok := instr.DecodeParsed()
	if !ok {
		return nil, false
	}
	if p.Type != "transfer" && p.Type != "transferChecked" {
		return nil, false
	}
	raw, ok := p.Info["amount"].(string)
	if !ok {
		if ta, tok := p.Info["tokenAmount"].(map[string]any); tok {
			raw, ok = ta["amount"].(string)
		}
	}
	if !ok {
		return nil, false
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	return amount, ok
}

func pubkeyBytes32(addr string) [32]byte {
	var out [32]byte
	if pk, err := solana.PublicKeyFromBase58(addr); err == nil {
		copy(out[:], pk.Bytes())
	}
	return out
}

func evmAddrFrom32(b [32]byte) string {
	return evm.UnpadAddress("0x" + common.Bytes2Hex(b[:]))
}

func solanaAddrFrom32(b [32]byte) string {
	return solana.PublicKeyFromBytes(b[:]).String()
}

func (h *MayanHandler) Program() string { return mayanSwiftProgram }

// HandleSolanaTransaction walks the top-level instructions of a Swift
// transaction and stores the order lifecycle steps it finds. Amount fields
// come from the SPL transfer instructions adjacent to the Swift call.
func (h *MayanHandler) HandleSolanaTransaction(ctx context.Context, tx *rpc.SolanaTransaction) (bool, error) {
	if tx.Failed {
		return false, nil
	}

	included := false
	instrs := tx.Instructions
	for idx, instr := range instrs {
		name, args, ok := mayanInstructionName(instr)
		if !ok {
			continue
		}
		// The auction program shares transactions with Swift. Its bid and
		// closeAuction instructions are matched by discriminator; everything
		// else must come from the Swift program itself.
		if instr.ProgramID != mayanSwiftProgram && name != "bid" && name != "closeAuction" {
			continue
		}
		accounts := namedAccounts(instr, mayanAccountOrders[name])

		var err error
		switch name {
		case "initOrder":
			err = h.handleInitOrder(ctx, tx, instrs, idx, accounts, args)
		case "fulfill":
			err = h.handleFulfill(ctx, tx, instrs, idx, accounts, args)
		case "unlock":
			err = h.handleUnlock(ctx, tx, instrs, idx, accounts)
		case "unlockBatch":
			err = h.handleUnlockBatch(ctx, tx, instrs, idx, accounts)
		case "settle":
			err = h.handleSettle(ctx, tx, accounts)
		case "setAuctionWinner":
			err = h.handleSetAuctionWinner(ctx, tx, accounts, args)
		case "registerOrder":
			err = h.handleRegisterOrder(ctx, tx, accounts, args)
		case "bid":
			err = h.handleAuctionBid(ctx, tx, accounts, args)
		case "closeAuction":
			err = h.handleAuctionClose(ctx, tx, accounts)
		}
		if err != nil {
			log.Printf("[mayan] Warn: solana tx %s %s: %v", tx.Signature, name, err)
			continue
		}
		included = true
	}
	return included, nil
}

// mayanSolanaOrderParams is the Borsh layout of the initOrder params.
type mayanSolanaOrderParams struct {
	AmountInMin  uint64
	NativeInput  bool
	FeeSubmit    uint64
	AddrDest     [32]byte
	ChainDest    uint16
	TokenOut     [32]byte
	AmountOutMin uint64
	GasDrop      uint64
	FeeCancel    uint64
	FeeRefund    uint64
	Deadline     uint64
	AddrRef      [32]byte
	FeeRateRef   uint8
	FeeRateMayan uint8
	AuctionMode  uint8
	KeyRnd       [32]byte
}

func decodeMayanSolanaOrderParams(args []byte) (*mayanSolanaOrderParams, error) {
	r := &borshReader{data: args}
	p := &mayanSolanaOrderParams{
		AmountInMin:  r.u64(),
		NativeInput:  r.boolean(),
		FeeSubmit:    r.u64(),
		AddrDest:     r.bytes32(),
		ChainDest:    r.u16(),
		TokenOut:     r.bytes32(),
		AmountOutMin: r.u64(),
		GasDrop:      r.u64(),
		FeeCancel:    r.u64(),
		FeeRefund:    r.u64(),
		Deadline:     r.u64(),
		AddrRef:      r.bytes32(),
		FeeRateRef:   r.u8(),
		FeeRateMayan: r.u8(),
		AuctionMode:  r.u8(),
		KeyRnd:       r.bytes32(),
	}
	return p, r.err
}

func (h *MayanHandler) handleInitOrder(ctx context.Context, tx *rpc.SolanaTransaction, instrs []rpc.ParsedInstruction, idx int, accounts map[string]string, args []byte) error {
	params, err := decodeMayanSolanaOrderParams(args)
	if err != nil {
		return err
	}
	dstChain, ok := mayanChainNames[params.ChainDest]
	if !ok || !h.set.Allows(dstChain) {
		return nil
	}

	// The deposited amount rides in the SPL transfer right before the Swift
	// call; a wrap-and-close pair pushes it one slot further back.
	if idx < 1 {
		return fmt.Errorf("no transfer instruction before initOrder")
	}
	sibling := instrs[idx-1]
	if p, ok := sibling.DecodeParsed(); ok && p.Type == "closeAccount" && idx >= 2 {
		sibling = instrs[idx-2]
	}
	amountIn, ok := transferAmount(sibling)
	if !ok {
		return fmt.Errorf("no transfer amount before initOrder")
	}

	key := &mayanOrderKey{
		Trader:       pubkeyBytes32(accounts["trader"]),
		SrcChainID:   solanaWormholeChainID,
		TokenIn:      pubkeyBytes32(accounts["mintFrom"]),
		DestAddr:     params.AddrDest,
		DestChainID:  params.ChainDest,
		TokenOut:     params.TokenOut,
		MinAmountOut: params.AmountOutMin,
		GasDrop:      params.GasDrop,
		CancelFee:    params.FeeCancel,
		RefundFee:    params.FeeRefund,
		Deadline:     params.Deadline,
		ReferrerAddr: params.AddrRef,
		ReferrerBps:  params.FeeRateRef,
		ProtocolBps:  params.FeeRateMayan,
		AuctionMode:  params.AuctionMode,
		Random:       params.KeyRnd,
	}

	return h.repo.SaveMayanInitOrder(ctx, models.MayanInitOrder{
		OrderHash:         key.hash(),
		Signature:         tx.Signature,
		Trader:            accounts["trader"],
		Relayer:           accounts["relayer"],
		State:             accounts["state"],
		StateFromAcc:      accounts["stateFromAcc"],
		RelayerFeeAcc:     accounts["relayerFeeAcc"],
		MintFrom:          accounts["mintFrom"],
		FeeManagerProgram: accounts["feeManagerProgram"],
		TokenProgram:      accounts["tokenProgram"],
		SystemProgram:     accounts["systemProgram"],
		AmountInMin:       new(big.Int).SetUint64(params.AmountInMin),
		AmountIn:          amountIn,
		NativeInput:       params.NativeInput,
		FeeSubmit:         new(big.Int).SetUint64(params.FeeSubmit),
		AddrDest:          evmAddrFrom32(params.AddrDest),
		ChainDest:         dstChain,
		TokenOut:          evmAddrFrom32(params.TokenOut),
		AmountOutMin:      new(big.Int).SetUint64(params.AmountOutMin),
		GasDrop:           new(big.Int).SetUint64(params.GasDrop),
		FeeCancel:         new(big.Int).SetUint64(params.FeeCancel),
		FeeRefund:         new(big.Int).SetUint64(params.FeeRefund),
		Deadline:          int64(params.Deadline),
		AddrRef:           evmAddrFrom32(params.AddrRef),
		FeeRateRef:        int(params.FeeRateRef),
		FeeRateMayan:      int(params.FeeRateMayan),
		AuctionMode:       int(params.AuctionMode),
		KeyRnd:            common.Bytes2Hex(params.KeyRnd[:]),
	})
}

func (h *MayanHandler) handleFulfill(ctx context.Context, tx *rpc.SolanaTransaction, instrs []rpc.ParsedInstruction, idx int, accounts map[string]string, args []byte) error {
	r := &borshReader{data: args}
	addrUnlocker := r.bytes32()
	if r.err != nil {
		return r.err
	}

	var amount *big.Int
	ok := false
	if idx >= 2 {
		amount, ok = transferAmount(instrs[idx-2])
	}
	if !ok && idx >= 1 {
		amount, ok = transferAmount(instrs[idx-1])
	}
	if !ok {
		return fmt.Errorf("no transfer amount before fulfill")
	}

	return h.repo.SaveMayanFulfillOrder(ctx, models.MayanFulfillOrder{
		Signature:     tx.Signature,
		State:         accounts["state"],
		Driver:        accounts["driver"],
		StateToAcc:    accounts["stateToAcc"],
		MintTo:        accounts["mintTo"],
		Dest:          accounts["dest"],
		SystemProgram: accounts["systemProgram"],
		AddrUnlocker:  solanaAddrFrom32(addrUnlocker),
		Amount:        amount,
	})
}

func (h *MayanHandler) handleUnlock(ctx context.Context, tx *rpc.SolanaTransaction, instrs []rpc.ParsedInstruction, idx int, accounts map[string]string) error {
	if idx+1 >= len(instrs) {
		return fmt.Errorf("no transfer instruction after unlock")
	}
	amount, ok := transferAmount(instrs[idx+1])
	if !ok {
		return fmt.Errorf("no transfer amount after unlock")
	}

	return h.repo.SaveMayanUnlock(ctx, models.MayanUnlock{
		Signature:     tx.Signature,
		VaaUnlock:     accounts["vaaUnlock"],
		State:         accounts["state"],
		StateFromAcc:  accounts["stateFromAcc"],
		MintFrom:      accounts["mintFrom"],
		Driver:        accounts["driver"],
		DriverAcc:     accounts["driverAcc"],
		TokenProgram:  accounts["tokenProgram"],
		SystemProgram: accounts["systemProgram"],
		Amount:        amount,
	})
}

func (h *MayanHandler) handleUnlockBatch(ctx context.Context, tx *rpc.SolanaTransaction, instrs []rpc.ParsedInstruction, idx int, accounts map[string]string) error {
	return h.repo.SaveMayanUnlockBatch(ctx, models.MayanUnlockBatch{
		Signature:     tx.Signature,
		VaaUnlock:     accounts["vaaUnlock"],
		State:         accounts["state"],
		StateFromAcc:  accounts["stateFromAcc"],
		MintFrom:      accounts["mintFrom"],
		Driver:        accounts["driver"],
		DriverAcc:     accounts["driverAcc"],
		TokenProgram:  accounts["tokenProgram"],
		SystemProgram: accounts["systemProgram"],
		Index:         idx,
	})
}

func (h *MayanHandler) handleSettle(ctx context.Context, tx *rpc.SolanaTransaction, accounts map[string]string) error {
	return h.repo.SaveMayanSettle(ctx, models.MayanSettle{
		Signature:              tx.Signature,
		State:                  accounts["state"],
		StateToAcc:             accounts["stateToAcc"],
		Relayer:                accounts["relayer"],
		MintTo:                 accounts["mintTo"],
		Dest:                   accounts["dest"],
		Referrer:               accounts["referrer"],
		FeeCollector:           accounts["feeCollector"],
		ReferrerFeeAcc:         accounts["referrerFeeAcc"],
		MayanFeeAcc:            accounts["mayanFeeAcc"],
		DestAcc:                accounts["destAcc"],
		TokenProgram:           accounts["tokenProgram"],
		SystemProgram:          accounts["systemProgram"],
		AssociatedTokenProgram: accounts["associatedTokenProgram"],
	})
}

func (h *MayanHandler) handleSetAuctionWinner(ctx context.Context, tx *rpc.SolanaTransaction, accounts map[string]string, args []byte) error {
	r := &borshReader{data: args}
	winner := r.bytes32()
	if r.err != nil {
		return r.err
	}

	return h.repo.SaveMayanSetAuctionWinner(ctx, models.MayanSetAuctionWinner{
		Signature:      tx.Signature,
		State:          accounts["state"],
		Auction:        accounts["auction"],
		ExpectedWinner: solanaAddrFrom32(winner),
	})
}

// mayanOrderInfo is the full Borsh order descriptor carried by registerOrder
// and by the auction program's bid instruction.
type mayanOrderInfo struct {
	Trader       [32]byte
	ChainSource  uint16
	TokenIn      [32]byte
	AddrDest     [32]byte
	ChainDest    uint16
	TokenOut     [32]byte
	AmountOutMin uint64
	GasDrop      uint64
	FeeCancel    uint64
	FeeRefund    uint64
	Deadline     uint64
	AddrRef      [32]byte
	FeeRateRef   uint8
	FeeRateMayan uint8
	AuctionMode  uint8
	KeyRnd       [32]byte
}

func decodeMayanOrderInfo(r *borshReader) mayanOrderInfo {
	return mayanOrderInfo{
		Trader:       r.bytes32(),
		ChainSource:  r.u16(),
		TokenIn:      r.bytes32(),
		AddrDest:     r.bytes32(),
		ChainDest:    r.u16(),
		TokenOut:     r.bytes32(),
		AmountOutMin: r.u64(),
		GasDrop:      r.u64(),
		FeeCancel:    r.u64(),
		FeeRefund:    r.u64(),
		Deadline:     r.u64(),
		AddrRef:      r.bytes32(),
		FeeRateRef:   r.u8(),
		FeeRateMayan: r.u8(),
		AuctionMode:  r.u8(),
		KeyRnd:       r.bytes32(),
	}
}

func (info *mayanOrderInfo) orderKey() *mayanOrderKey {
	return &mayanOrderKey{
		Trader:       info.Trader,
		SrcChainID:   info.ChainSource,
		TokenIn:      info.TokenIn,
		DestAddr:     info.AddrDest,
		DestChainID:  info.ChainDest,
		TokenOut:     info.TokenOut,
		MinAmountOut: info.AmountOutMin,
		GasDrop:      info.GasDrop,
		CancelFee:    info.FeeCancel,
		RefundFee:    info.FeeRefund,
		Deadline:     info.Deadline,
		ReferrerAddr: info.AddrRef,
		ReferrerBps:  info.FeeRateRef,
		ProtocolBps:  info.FeeRateMayan,
		AuctionMode:  info.AuctionMode,
		Random:       info.KeyRnd,
	}
}

// chainAddr32 renders a 32-byte address the way its chain writes addresses.
func chainAddr32(b [32]byte, chain string) string {
	if chain == "solana" {
		return solanaAddrFrom32(b)
	}
	return evmAddrFrom32(b)
}

func (h *MayanHandler) handleRegisterOrder(ctx context.Context, tx *rpc.SolanaTransaction, accounts map[string]string, args []byte) error {
	r := &borshReader{data: args}
	info := decodeMayanOrderInfo(r)
	if r.err != nil {
		return r.err
	}

	srcChain, ok := mayanChainNames[info.ChainSource]
	if !ok || !h.set.Allows(srcChain) {
		return nil
	}
	dstChain, ok := mayanChainNames[info.ChainDest]
	if !ok || !h.set.Allows(dstChain) {
		return nil
	}

	key := info.orderKey()

	return h.repo.SaveMayanRegisterOrder(ctx, models.MayanRegisterOrder{
		OrderHash:     key.hash(),
		Signature:     tx.Signature,
		Relayer:       accounts["relayer"],
		State:         accounts["state"],
		SystemProgram: accounts["systemProgram"],
		Trader:        chainAddr32(info.Trader, srcChain),
		ChainSource:   srcChain,
		TokenIn:       chainAddr32(info.TokenIn, srcChain),
		AddrDest:      chainAddr32(info.AddrDest, dstChain),
		ChainDest:     dstChain,
		TokenOut:      chainAddr32(info.TokenOut, dstChain),
		AmountOutMin:  new(big.Int).SetUint64(info.AmountOutMin),
		GasDrop:       new(big.Int).SetUint64(info.GasDrop),
		FeeCancel:     new(big.Int).SetUint64(info.FeeCancel),
		FeeRefund:     new(big.Int).SetUint64(info.FeeRefund),
		Deadline:      int64(info.Deadline),
		AddrRef:       chainAddr32(info.AddrRef, dstChain),
		FeeRateRef:    int(info.FeeRateRef),
		FeeRateMayan:  int(info.FeeRateMayan),
		AuctionMode:   int(info.AuctionMode),
		KeyRnd:        common.Bytes2Hex(info.KeyRnd[:]),
	})
}

func (h *MayanHandler) handleAuctionBid(ctx context.Context, tx *rpc.SolanaTransaction, accounts map[string]string, args []byte) error {
	r := &borshReader{data: args}
	info := decodeMayanOrderInfo(r)
	amountBid := r.u64()
	if r.err != nil {
		return r.err
	}

	srcChain, ok := mayanChainNames[info.ChainSource]
	if !ok || !h.set.Allows(srcChain) {
		return nil
	}
	dstChain, ok := mayanChainNames[info.ChainDest]
	if !ok || !h.set.Allows(dstChain) {
		return nil
	}

	key := info.orderKey()

	return h.repo.SaveMayanAuctionBid(ctx, models.MayanAuctionBid{
		OrderHash:     key.hash(),
		Signature:     tx.Signature,
		Config:        accounts["config"],
		Driver:        accounts["driver"],
		AuctionState:  accounts["auctionState"],
		SystemProgram: accounts["systemProgram"],
		Trader:        chainAddr32(info.Trader, srcChain),
		ChainSource:   srcChain,
		TokenIn:       chainAddr32(info.TokenIn, srcChain),
		AddrDest:      chainAddr32(info.AddrDest, dstChain),
		ChainDest:     dstChain,
		TokenOut:      chainAddr32(info.TokenOut, dstChain),
		AmountOutMin:  new(big.Int).SetUint64(info.AmountOutMin),
		GasDrop:       new(big.Int).SetUint64(info.GasDrop),
		FeeCancel:     new(big.Int).SetUint64(info.FeeCancel),
		FeeRefund:     new(big.Int).SetUint64(info.FeeRefund),
		Deadline:      int64(info.Deadline),
		AddrRef:       chainAddr32(info.AddrRef, dstChain),
		FeeRateRef:    int(info.FeeRateRef),
		FeeRateMayan:  int(info.FeeRateMayan),
		AuctionMode:   int(info.AuctionMode),
		KeyRnd:        common.Bytes2Hex(info.KeyRnd[:]),
		AmountBid:     new(big.Int).SetUint64(amountBid),
	})
}

func (h *MayanHandler) handleAuctionClose(ctx context.Context, tx *rpc.SolanaTransaction, accounts map[string]string) error {
	return h.repo.SaveMayanAuctionClose(ctx, models.MayanAuctionClose{
		Signature:   tx.Signature,
		Auction:     accounts["auction"],
		Initializer: accounts["initializer"],
	})
}
