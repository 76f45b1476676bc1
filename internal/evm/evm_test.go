package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/models"
)

const transferABI = `[
	{"anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}
	],"name":"Transfer","type":"event"}
]`

func TestUnpackLog(t *testing.T) {
	t.Parallel()

	a := MustParseABI(transferABI)
	l := models.Log{
		Topics: []string{
			"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
			"0x0000000000000000000000001111111111111111111111111111111111111111",
			"0x0000000000000000000000002222222222222222222222222222222222222222",
		},
		Data: "0x00000000000000000000000000000000000000000000000000000000000003e8",
	}

	var ev struct {
		From  common.Address `abi:"from"`
		To    common.Address `abi:"to"`
		Value *big.Int       `abi:"value"`
	}
	if err := UnpackLog(a, &ev, "Transfer", l); err != nil {
		t.Fatal(err)
	}
	if ev.Value.Int64() != 1000 {
		t.Errorf("value = %s, want 1000", ev.Value)
	}
	if ev.From[0] != 0x11 || ev.To[0] != 0x22 {
		t.Errorf("indexed addresses not decoded: % x, % x", ev.From, ev.To)
	}
}

func TestUnpackLogSignatureMismatch(t *testing.T) {
	t.Parallel()

	a := MustParseABI(transferABI)
	l := models.Log{
		Topics: []string{"0x1111111111111111111111111111111111111111111111111111111111111111"},
		Data:   "0x",
	}
	var out struct{}
	if err := UnpackLog(a, &out, "Transfer", l); err == nil {
		t.Error("expected signature mismatch error")
	}
	if err := UnpackLog(a, &out, "Nope", l); err == nil {
		t.Error("expected unknown event error")
	}
}

func TestUnpadAddress(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"0x000000000000000000000000c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},
		{"0xC02AAA39B223FE8D0A0E5C4F27EAD9083C756CC2", "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},
		{"0xabc", "0x0000000000000000000000000000000000000abc"},
	}
	for _, tc := range cases {
		if got := UnpadAddress(tc.in); got != tc.want {
			t.Errorf("UnpadAddress(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPadAddress32(t *testing.T) {
	t.Parallel()

	addr := "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	padded := PadAddress32(addr)
	if len(padded) != 66 {
		t.Fatalf("padded length = %d", len(padded))
	}
	if UnpadAddress(padded) != addr {
		t.Error("pad/unpad round trip failed")
	}
}

func TestKeccak256Hex(t *testing.T) {
	t.Parallel()

	// Empty-input keccak256 is a fixed point worth pinning.
	want := "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got := Keccak256Hex(nil); got != want {
		t.Errorf("Keccak256Hex(nil) = %s, want %s", got, want)
	}
}
