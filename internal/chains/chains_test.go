package chains

import "testing"

func TestLookupRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range registry {
		name, ok := NameByID(c.ID)
		if !ok || name != c.Name {
			t.Errorf("NameByID(%d) = (%q, %v)", c.ID, name, ok)
		}
		id, ok := IDByName(c.Name)
		if !ok || id != c.ID {
			t.Errorf("IDByName(%q) = (%d, %v)", c.Name, id, ok)
		}
	}

	if _, ok := NameByID(999999); ok {
		t.Error("unknown id should not resolve")
	}
	if _, ok := IDByName("flow"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"ethereum", "Ethereum", "solana", "SOLANA", "scroll"} {
		if !IsSupported(name) {
			t.Errorf("IsSupported(%q) = false", name)
		}
	}
	if IsSupported("flow") {
		t.Error("flow is not a supported chain")
	}
}

func TestNamesIncludeSolana(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != len(registry)+1 {
		t.Fatalf("got %d names, want %d", len(names), len(registry)+1)
	}
	if names[len(names)-1] != "solana" {
		t.Error("solana should be appended to the EVM registry")
	}
}

func TestAlchemyNetwork(t *testing.T) {
	t.Parallel()

	cases := []struct{ chain, want string }{
		{"ethereum", "eth"},
		{"avalanche", "avax"},
		{"arbitrum", "arb"},
		{"ronin", ""},
		{"solana", ""},
	}
	for _, tc := range cases {
		if got := AlchemyNetwork(tc.chain); got != tc.want {
			t.Errorf("AlchemyNetwork(%q) = %q, want %q", tc.chain, got, tc.want)
		}
	}
}

func TestWrappedNativePresence(t *testing.T) {
	t.Parallel()

	for _, c := range registry {
		if c.Name == "ronin" {
			continue
		}
		if c.WrappedNative == "" {
			t.Errorf("%s is missing its wrapped-native contract", c.Name)
		}
	}
}
