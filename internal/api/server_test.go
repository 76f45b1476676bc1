package api

import (
	"net/http/httptest"
	"testing"
)

func TestBridgeTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		want  string
		valid bool
	}{
		{"wormhole", "wormhole_cross_chain_transactions", true},
		{"cow", "cow_cross_chain_transactions", true},
		{"nope", "", false},
		{"wormhole; DROP TABLE token_price", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		table, ok := bridgeTable(tc.name)
		if ok != tc.valid || table != tc.want {
			t.Errorf("bridgeTable(%q) = (%q, %v), want (%q, %v)", tc.name, table, ok, tc.want, tc.valid)
		}
	}
}

func TestUSDColumnsCoverAllBridges(t *testing.T) {
	t.Parallel()

	for name := range usdColumns {
		if _, ok := bridgeTable(name); !ok {
			t.Errorf("usdColumns names unregistered bridge %q", name)
		}
	}
	if len(usdColumns) != 10 {
		t.Errorf("expected 10 bridges, got %d", len(usdColumns))
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := NewServer(nil)
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
}

func TestUnknownBridgeIs404(t *testing.T) {
	t.Parallel()

	s := NewServer(nil)
	for _, path := range []string{"/v1/nope/transactions", "/v1/nope/stats"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != 404 {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestQueryInt(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/v1/cow/transactions?limit=25&offset=abc", nil)
	if got := queryInt(req, "limit", 50); got != 25 {
		t.Errorf("limit = %d, want 25", got)
	}
	if got := queryInt(req, "offset", 0); got != 0 {
		t.Errorf("malformed offset should fall back to default, got %d", got)
	}
	if got := queryInt(req, "missing", 7); got != 7 {
		t.Errorf("missing key should fall back to default, got %d", got)
	}
}
