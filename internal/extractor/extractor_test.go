package extractor

import (
	"testing"

	"bridgescan/internal/bridges"
	"bridgescan/internal/rpc"
)

func TestChunkSize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		start   uint64
		end     uint64
		workers int
		want    uint64
	}{
		{"single block", 100, 100, 4, 1},
		{"range smaller than workers", 100, 102, 8, 1},
		{"even split", 0, 8000, 8, 1000},
		{"capped at max", 0, 1_000_000, 4, 1000},
		{"small pool", 0, 90, 2, 45},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := chunkSize(tc.start, tc.end, tc.workers); got != tc.want {
				t.Errorf("chunkSize(%d, %d, %d) = %d, want %d", tc.start, tc.end, tc.workers, got, tc.want)
			}
		})
	}
}

func TestDivideBlockRanges(t *testing.T) {
	t.Parallel()

	group := bridges.ContractGroup{Contract: "0xabc"}

	ranges := divideBlockRanges(group, 100, 350, 100)
	want := []struct{ from, to uint64 }{
		{100, 199},
		{200, 299},
		{300, 350},
	}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(ranges), len(want))
	}
	for i, w := range want {
		if ranges[i].from != w.from || ranges[i].to != w.to {
			t.Errorf("range %d = [%d, %d], want [%d, %d]", i, ranges[i].from, ranges[i].to, w.from, w.to)
		}
		if ranges[i].group.Contract != group.Contract {
			t.Errorf("range %d lost its contract group", i)
		}
	}
}

func TestDivideBlockRangesSingleBlock(t *testing.T) {
	t.Parallel()

	ranges := divideBlockRanges(bridges.ContractGroup{}, 42, 42, 1000)
	if len(ranges) != 1 || ranges[0].from != 42 || ranges[0].to != 42 {
		t.Fatalf("got %+v, want one range [42, 42]", ranges)
	}
}

func TestTxRow(t *testing.T) {
	t.Parallel()

	tx := &rpc.SolanaTransaction{
		Signature:   "5sig",
		Slot:        310_000_000,
		BlockTime:   1720000000,
		Fee:         5000,
		Failed:      true,
		AccountKeys: []string{"payerKey", "otherKey"},
	}

	row := txRow("BLZRi6frs4X4DNLw56V4EXai1b6QVESN1BhHBTYM9VcY", tx)
	if row.Blockchain != "solana" {
		t.Errorf("blockchain = %q", row.Blockchain)
	}
	if row.Status != 0 {
		t.Errorf("failed transaction should carry status 0, got %d", row.Status)
	}
	if row.FromAddress != "payerKey" {
		t.Errorf("from = %q, want fee payer", row.FromAddress)
	}
	if row.Fee.Uint64() != 5000 {
		t.Errorf("fee = %s, want 5000 lamports", row.Fee)
	}
	if row.BlockNumber != tx.Slot || row.Timestamp != tx.BlockTime {
		t.Errorf("slot/time not carried over: %+v", row)
	}
}
