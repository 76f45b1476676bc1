package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"bridgescan/internal/models"
)

// fakeNode answers JSON-RPC methods from a map of handlers.
func fakeNode(t *testing.T, handlers map[string]func(params []json.RawMessage) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		h, ok := handlers[req.Method]
		if !ok {
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": 1,
				"error": map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": 1, "result": h(req.Params),
		})
	}))
}

func mustClient(t *testing.T, endpoints ...string) *Client {
	t.Helper()
	c, err := NewClient("ethereum", endpoints)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewClientRequiresEndpoints(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("ethereum", nil); err == nil {
		t.Error("expected error for empty endpoint list")
	}
}

func TestLogsSkipsRemoved(t *testing.T) {
	t.Parallel()

	srv := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_getLogs": func([]json.RawMessage) any {
			return []map[string]any{
				{
					"address":         "0xabc",
					"topics":          []string{"0x01"},
					"data":            "0x",
					"blockNumber":     "0x10",
					"transactionHash": "0xdead",
					"logIndex":        "0x2",
				},
				{
					"address":         "0xabc",
					"topics":          []string{"0x01"},
					"data":            "0x",
					"blockNumber":     "0x11",
					"transactionHash": "0xbeef",
					"logIndex":        "0x0",
					"removed":         true,
				},
			}
		},
	})
	defer srv.Close()

	logs, err := mustClient(t, srv.URL).Logs(context.Background(), "0xabc", []string{"0x01"}, 16, 17)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1 (removed log dropped)", len(logs))
	}
	l := logs[0]
	if l.Blockchain != "ethereum" || l.BlockNumber != 16 || l.LogIndex != 2 || l.TransactionHash != "0xdead" {
		t.Errorf("unexpected log %+v", l)
	}
}

func TestCallRotatesPastFailingEndpoint(t *testing.T) {
	t.Parallel()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	good := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_blockNumber": func([]json.RawMessage) any { return "0x64" },
	})
	defer good.Close()

	n, err := mustClient(t, bad.URL, good.URL).LatestBlockNumber(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 100 {
		t.Errorf("block number = %d, want 100", n)
	}
}

func TestBlockByTimestamp(t *testing.T) {
	t.Parallel()

	// Block n has timestamp 1000 + 12n; the earliest block at or after
	// ts=1120 is block 10.
	srv := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_blockNumber": func([]json.RawMessage) any { return "0x3e8" },
		"eth_getBlockByNumber": func(params []json.RawMessage) any {
			var numHex string
			json.Unmarshal(params[0], &numHex)
			n, _ := hexutil.DecodeUint64(numHex)
			return map[string]any{
				"number":    numHex,
				"timestamp": hexutil.EncodeUint64(1000 + 12*n),
			}
		},
	})
	defer srv.Close()

	got, err := mustClient(t, srv.URL).BlockByTimestamp(context.Background(), 1120)
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Errorf("BlockByTimestamp = %d, want 10", got)
	}
}

func TestTransactionByLog(t *testing.T) {
	t.Parallel()

	srv := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_getTransactionReceipt": func([]json.RawMessage) any {
			return map[string]any{
				"transactionHash":   "0xdead",
				"blockNumber":       "0x10",
				"from":              "0x1111111111111111111111111111111111111111",
				"to":                "0x2222222222222222222222222222222222222222",
				"status":            "0x1",
				"gasUsed":           "0x5208",
				"effectiveGasPrice": "0x3b9aca00",
			}
		},
		"eth_getBlockByNumber": func([]json.RawMessage) any {
			return map[string]any{"number": "0x10", "timestamp": "0x68a00000"}
		},
	})
	defer srv.Close()

	tx, err := mustClient(t, srv.URL).TransactionByLog(context.Background(), models.Log{
		TransactionHash: "0xdead",
		BlockNumber:     16,
	})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Status != 1 {
		t.Errorf("status = %d", tx.Status)
	}
	// 21000 gas at 1 gwei.
	if tx.Fee.String() != "21000000000000" {
		t.Errorf("fee = %s", tx.Fee)
	}
	if tx.Timestamp != 0x68a00000 {
		t.Errorf("timestamp = %d", tx.Timestamp)
	}
	if tx.FromAddress != "0x1111111111111111111111111111111111111111" {
		t.Errorf("from = %s", tx.FromAddress)
	}
}
