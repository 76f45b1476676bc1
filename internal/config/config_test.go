package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRPCConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ProbedFileName)
	cfg := &RPCConfig{Blockchains: map[string]ChainRPC{
		"ethereum": {
			RPCs: []string{"https://a", "https://b"},
			Probe: ProbeSpec{
				Contract:  "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
				Topics:    []string{"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"},
				FromBlock: 23400000,
				ToBlock:   23400100,
			},
		},
		"solana": {RPCs: []string{"https://c"}},
	}}
	if err := SaveRPCConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadRPCConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	urls, err := loaded.Endpoints("ethereum")
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 || urls[0] != "https://a" {
		t.Errorf("endpoints = %v", urls)
	}
	probe := loaded.Blockchains["ethereum"].Probe
	if probe.Contract != cfg.Blockchains["ethereum"].Probe.Contract {
		t.Errorf("probe contract = %s", probe.Contract)
	}
	if probe.FromBlock != 23400000 || probe.ToBlock != 23400100 {
		t.Errorf("probe range = %d-%d", probe.FromBlock, probe.ToBlock)
	}
	if _, err := loaded.Endpoints("flow"); err == nil {
		t.Error("expected error for unconfigured blockchain")
	}
}

func TestLoadRPCConfigRejectsBadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), BaseFileName)
	if err := os.WriteFile(path, []byte("blockchains: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRPCConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RPC_CONFIG_DIR", "/etc/bridgescan")

	env := FromEnv()
	if env.DatabaseURL == "" {
		t.Error("DatabaseURL should fall back to a default")
	}
	if env.BaseRPCPath() != "/etc/bridgescan/"+BaseFileName {
		t.Errorf("base path = %s", env.BaseRPCPath())
	}
	if env.APIAddr != ":8080" {
		t.Errorf("api addr = %s", env.APIAddr)
	}
}
