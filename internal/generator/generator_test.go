package generator

import "testing"

func TestStableSymbol(t *testing.T) {
	t.Parallel()

	cases := []struct {
		symbol string
		want   bool
	}{
		{"USDC", true},
		{"usdt", true},
		{"axlUSDC", true},
		{"DAI", true},
		{"FRAX", true},
		{"WETH", false},
		{"SOL", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := stableSymbol(tc.symbol); got != tc.want {
			t.Errorf("stableSymbol(%q) = %v, want %v", tc.symbol, got, tc.want)
		}
	}
}

func TestDailyDates(t *testing.T) {
	t.Parallel()

	// 2026-01-02T00:00:00Z through two days later.
	dates := dailyDates(1767312000, 1767312000+2*86400)
	want := []string{"2026-01-02", "2026-01-03", "2026-01-04"}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates %v, want %d", len(dates), dates, len(want))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q", i, dates[i], want[i])
		}
	}
}

func TestDailyDatesSingleDay(t *testing.T) {
	t.Parallel()

	dates := dailyDates(1767312000, 1767312000)
	if len(dates) != 1 || dates[0] != "2026-01-02" {
		t.Fatalf("got %v, want single date 2026-01-02", dates)
	}
}

func TestPriceWindow(t *testing.T) {
	t.Parallel()

	// 2026-01-02T00:00:00Z plus two days.
	first, last, days := priceWindow(1767312000, 1767312000+2*86400)
	if first != "2026-01-02" || last != "2026-01-04" || days != 3 {
		t.Errorf("window = (%s, %s, %d)", first, last, days)
	}

	// Widening the window grows the day count, so a symbol fully priced for a
	// narrow run still gets fetched when a later run needs more days.
	_, _, wider := priceWindow(1767312000, 1767312000+9*86400)
	if wider <= days {
		t.Errorf("wider window has %d days, expected more than %d", wider, days)
	}

	if _, _, days := priceWindow(10, 5); days != 0 {
		t.Errorf("inverted window has %d days", days)
	}
}

func TestPairKey(t *testing.T) {
	t.Parallel()

	if pairKey("ethereum", "0xABC") != pairKey("ethereum", "0xabc") {
		t.Error("pair key should be case-insensitive on the contract")
	}
	if pairKey("ethereum", "0xabc") == pairKey("base", "0xabc") {
		t.Error("pair key must separate blockchains")
	}
}

func TestPipelinesCoverAllBridges(t *testing.T) {
	t.Parallel()

	for name, p := range pipelines {
		if p.correlate == nil || p.enrich == nil {
			t.Errorf("pipeline %s is missing a stage", name)
		}
	}
	if len(pipelines) != 10 {
		t.Errorf("expected 10 bridge pipelines, got %d", len(pipelines))
	}
}
