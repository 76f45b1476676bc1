package bridges

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"strings"
	"testing"
)

func TestNamesAndConstructors(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != 10 {
		t.Fatalf("expected 10 registered bridges, got %d: %v", len(names), names)
	}
	for _, name := range names {
		h, err := New(name, nil, nil)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if h.Name() != name {
			t.Errorf("handler for %q reports name %q", name, h.Name())
		}
		if len(h.Blockchains()) == 0 {
			t.Errorf("handler %q supports no blockchains", name)
		}
	}
	if _, err := New("nope", nil, nil); err == nil {
		t.Error("expected error for unknown bridge")
	}
}

func TestChainSet(t *testing.T) {
	t.Parallel()

	if !ChainSet(nil).Allows("ethereum") {
		t.Error("nil set must allow every chain")
	}
	if NewChainSet(nil) != nil {
		t.Error("empty name list should build the allow-all set")
	}

	set := NewChainSet([]string{"Ethereum", "base"})
	if !set.Allows("ethereum") || !set.Allows("ETHEREUM") || !set.Allows("base") {
		t.Error("listed chains must be allowed regardless of casing")
	}
	if set.Allows("arbitrum") {
		t.Error("unlisted chain must be rejected")
	}
}

func TestGroupsRejectUnknownBlockchain(t *testing.T) {
	t.Parallel()

	h, err := New("synapse", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Groups("flow"); err == nil {
		t.Error("expected error for unsupported blockchain")
	}
}

func TestKappaOf(t *testing.T) {
	t.Parallel()

	// keccak256 of the lowercased textual hash.
	want := "4f440a001006a49f24a7de53c04eca3f79aef851ac58e460c9630d044277c8b0"
	if got := kappaOf("0xDEADBEEF"); got != want {
		t.Errorf("kappaOf = %s, want %s", got, want)
	}
	if kappaOf("0xdeadbeef") != want {
		t.Error("kappa must be case-insensitive on the tx hash")
	}
	if strings.HasPrefix(kappaOf("0xdeadbeef"), "0x") {
		t.Error("kappa is stored without the 0x prefix")
	}
}

func TestASCIIChainIDRoundTrip(t *testing.T) {
	t.Parallel()

	for _, id := range []int64{1, 10, 56, 137, 42161, 534352} {
		b := asciiBytes32ChainID(id)
		got, ok := decodeASCIIChainID(b)
		if !ok || got != id {
			t.Errorf("round trip %d = (%d, %v)", id, got, ok)
		}
	}

	var junk [32]byte
	copy(junk[:], "12x4")
	if _, ok := decodeASCIIChainID(junk); ok {
		t.Error("non-digit bytes should not decode")
	}
	var empty [32]byte
	if _, ok := decodeASCIIChainID(empty); ok {
		t.Error("all-zero bytes should not decode")
	}
}

func TestRouterMessageHash(t *testing.T) {
	t.Parallel()

	amount := big.NewInt(1000000)
	depositID := big.NewInt(42)
	src := asciiBytes32ChainID(1)

	h1 := routerMessageHash(amount, src, depositID,
		"0xaf88d065e77c8cc2239327c5edb3a432268e5831",
		"0x1111111111111111111111111111111111111111",
		"0xef300fb4243a0ff3b90c8ccfa1264d78182adaa4")
	if !strings.HasPrefix(h1, "0x") || len(h1) != 66 {
		t.Fatalf("malformed hash %q", h1)
	}

	h2 := routerMessageHash(amount, src, big.NewInt(43),
		"0xaf88d065e77c8cc2239327c5edb3a432268e5831",
		"0x1111111111111111111111111111111111111111",
		"0xef300fb4243a0ff3b90c8ccfa1264d78182adaa4")
	if h1 == h2 {
		t.Error("different deposit ids must hash differently")
	}

	h3 := routerMessageHash(amount, src, depositID,
		"0xAF88D065E77C8CC2239327C5EDB3A432268E5831",
		"0x1111111111111111111111111111111111111111",
		"0xef300fb4243a0ff3b90c8ccfa1264d78182adaa4")
	if h1 != h3 {
		t.Error("address casing must not change the hash")
	}
}

func TestDecodeOrderUID(t *testing.T) {
	t.Parallel()

	uid := make([]byte, 56)
	for i := 0; i < 32; i++ {
		uid[i] = 0xaa
	}
	for i := 32; i < 52; i++ {
		uid[i] = 0xbb
	}
	// validTo = 0x01020304
	uid[52], uid[53], uid[54], uid[55] = 0x01, 0x02, 0x03, 0x04

	orderHash, owner, validTo, err := decodeOrderUID(uid)
	if err != nil {
		t.Fatal(err)
	}
	if orderHash != "0x"+strings.Repeat("aa", 32) {
		t.Errorf("order hash = %s", orderHash)
	}
	if owner != "0x"+strings.Repeat("bb", 20) {
		t.Errorf("owner = %s", owner)
	}
	if validTo != 0x01020304 {
		t.Errorf("validTo = %d", validTo)
	}

	if _, _, _, err := decodeOrderUID(uid[:55]); err == nil {
		t.Error("expected error for short uid")
	}
}

func TestCowCrossChainKey(t *testing.T) {
	t.Parallel()

	o := &CowOrder{AppData: "0xhash", AppDataCid: "bafy123"}
	if o.CrossChainKey() != "bafy123" {
		t.Error("CID should win over the raw appData hash")
	}
	o.AppDataCid = ""
	if o.CrossChainKey() != "0xhash" {
		t.Error("raw appData is the fallback key")
	}
	var nilOrder *CowOrder
	if nilOrder.CrossChainKey() != "" {
		t.Error("nil order has no key")
	}
}

func TestDecodePortalPayload(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 133)
	payload[0] = 1
	payload[32] = 100 // normalized amount, low byte
	payload[64] = 0x42
	payload[65], payload[66] = 0, 2 // token chain: ethereum
	payload[98] = 0x99
	payload[99], payload[100] = 0, 23 // to chain: arbitrum
	payload[132] = 5                  // fee

	// An 18-decimal token scales the 8-decimal normalized amount back up.
	tr, err := decodePortalPayload(payload, 18)
	if err != nil {
		t.Fatal(err)
	}
	if tr.PayloadID != 1 {
		t.Errorf("payload id = %d", tr.PayloadID)
	}
	if tr.NormalizedAmount.Int64() != 100 {
		t.Errorf("normalized amount = %s", tr.NormalizedAmount)
	}
	if want := int64(100 * 1e10); tr.OriginalAmount.Int64() != want {
		t.Errorf("original amount = %s, want %d", tr.OriginalAmount, want)
	}
	if tr.TokenChain != 2 || tr.ToChain != 23 {
		t.Errorf("chains = (%d, %d)", tr.TokenChain, tr.ToChain)
	}
	if tr.Fee.Int64() != 5 {
		t.Errorf("fee = %s", tr.Fee)
	}

	// Tokens at or below 8 decimals pass through unscaled.
	tr, err = decodePortalPayload(payload, 6)
	if err != nil {
		t.Fatal(err)
	}
	if tr.OriginalAmount.Int64() != 100 {
		t.Errorf("6-decimal amount = %s, want 100", tr.OriginalAmount)
	}

	if _, err := decodePortalPayload(payload[:100], 18); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestDecodeMayanOrderParams(t *testing.T) {
	t.Parallel()

	data := make([]byte, mayanOrderParamsLen)
	data[31] = 0x11                                // trader low byte
	data[2*32+31], data[2*32+30] = 0x10, 0x02      // minAmountOut = 0x0210
	data[8*32+31], data[8*32+30] = 23, 0           // destChainID = 23
	data[10*32+31] = 30                            // referrerBps
	data[11*32+31] = 1                             // auctionMode
	data[12*32+31] = 0x77                          // random low byte

	p, err := decodeMayanOrderParams(data)
	if err != nil {
		t.Fatal(err)
	}
	if p.Trader[31] != 0x11 {
		t.Error("trader word not copied")
	}
	if p.MinAmountOut != 0x0210 {
		t.Errorf("minAmountOut = %d", p.MinAmountOut)
	}
	if p.DestChainID != 23 {
		t.Errorf("destChainID = %d", p.DestChainID)
	}
	if p.ReferrerBps != 30 || p.AuctionMode != 1 {
		t.Errorf("bps/mode = (%d, %d)", p.ReferrerBps, p.AuctionMode)
	}
	if p.Random[31] != 0x77 {
		t.Error("random word not copied")
	}

	if _, err := decodeMayanOrderParams(data[:100]); err == nil {
		t.Error("expected error for short params")
	}
}

func TestMayanOrderKeyHash(t *testing.T) {
	t.Parallel()

	k := &mayanOrderKey{SrcChainID: 2, DestChainID: 1, MinAmountOut: 5, Deadline: 1700000000}
	h := k.hash()
	if len(h) != 64 || strings.HasPrefix(h, "0x") {
		t.Fatalf("order key hash should be bare 32-byte hex, got %q", h)
	}
	if h != k.hash() {
		t.Error("hash must be deterministic")
	}

	other := *k
	other.Random[0] = 1
	if other.hash() == h {
		t.Error("random bytes must change the hash")
	}
}

func TestMayanChainNames(t *testing.T) {
	t.Parallel()

	if mayanChainNames[1] != "solana" || mayanChainNames[2] != "ethereum" {
		t.Error("wormhole chain id mapping is wrong")
	}
	if _, ok := mayanChainNames[9999]; ok {
		t.Error("unknown chain id should be absent")
	}
}

func TestDeBridgeOrderModelChainFilter(t *testing.T) {
	t.Parallel()

	// ethereum to optimism
	order := deBridgeOrderTuple{
		GiveChainId: big.NewInt(1),
		TakeChainId: big.NewInt(10),
		GiveAmount:  big.NewInt(100),
		TakeAmount:  big.NewInt(99),
	}

	if _, ok := order.model(nil); !ok {
		t.Fatal("allow-all set must keep a resolvable order")
	}
	if _, ok := order.model(NewChainSet([]string{"ethereum", "optimism"})); !ok {
		t.Error("order within the requested chains must be kept")
	}
	if _, ok := order.model(NewChainSet([]string{"ethereum", "base"})); ok {
		t.Error("order with an out-of-set destination must be dropped")
	}
	if _, ok := order.model(NewChainSet([]string{"base", "optimism"})); ok {
		t.Error("order with an out-of-set source must be dropped")
	}
}

func TestMayanInstructionDiscriminators(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"initOrder", "registerOrder", "bid", "closeAuction"} {
		sum := sha256.Sum256([]byte("global:" + name))
		var d [8]byte
		copy(d[:], sum[:8])
		if got := mayanInstructionNames[d]; got != name {
			t.Errorf("discriminator for %q resolves to %q", name, got)
		}
	}

	if len(mayanAccountOrders["bid"]) != 4 {
		t.Error("bid carries config, driver, auctionState and systemProgram")
	}
	if len(mayanAccountOrders["closeAuction"]) != 2 {
		t.Error("closeAuction carries auction and initializer")
	}
}

func TestDecodeMayanOrderInfoWithBid(t *testing.T) {
	t.Parallel()

	// Trader low byte, src ethereum, dst solana, amountOutMin, then the
	// trailing bid amount past the order info.
	data := make([]byte, 247)
	data[31] = 0x11
	binary.LittleEndian.PutUint16(data[32:34], 2)
	binary.LittleEndian.PutUint16(data[130:132], 1)
	binary.LittleEndian.PutUint64(data[164:172], 500)
	binary.LittleEndian.PutUint64(data[239:247], 777)

	r := &borshReader{data: data}
	info := decodeMayanOrderInfo(r)
	amountBid := r.u64()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if info.Trader[31] != 0x11 {
		t.Error("trader word not copied")
	}
	if info.ChainSource != 2 || info.ChainDest != 1 {
		t.Errorf("chains = (%d, %d)", info.ChainSource, info.ChainDest)
	}
	if info.AmountOutMin != 500 {
		t.Errorf("amountOutMin = %d", info.AmountOutMin)
	}
	if amountBid != 777 {
		t.Errorf("amountBid = %d", amountBid)
	}

	short := &borshReader{data: data[:100]}
	decodeMayanOrderInfo(short)
	if short.err == nil {
		t.Error("expected error for truncated args")
	}

	key := info.orderKey()
	if key.SrcChainID != 2 || key.DestChainID != 1 || key.MinAmountOut != 500 {
		t.Error("order key must mirror the decoded info")
	}
}

func TestTransferPayloadAmount(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 133)
	payload[0] = 1
	payload[32] = 100
	amt, ok := transferPayloadAmount(payload)
	if !ok || amt.Int64() != 100 {
		t.Fatalf("amount = (%v, %v)", amt, ok)
	}

	payload[0] = 2
	if _, ok := transferPayloadAmount(payload); ok {
		t.Error("non-transfer payload ids must be skipped")
	}

	// Amounts beyond the storable range are dropped rather than failing the
	// insert downstream.
	payload[0] = 3
	big.NewInt(0).Exp(big.NewInt(10), big.NewInt(30), nil).FillBytes(payload[1:33])
	if _, ok := transferPayloadAmount(payload); ok {
		t.Error("10^30 does not fit the amount column")
	}
	for i := 1; i < 33; i++ {
		payload[i] = 0xff
	}
	if _, ok := transferPayloadAmount(payload); ok {
		t.Error("full 256-bit values must be dropped")
	}

	if _, ok := transferPayloadAmount(payload[:20]); ok {
		t.Error("short payloads must be skipped")
	}
}
