// Package chains holds the static registry of blockchains the engine can
// extract from: native chain ids, native token symbols, wrapped-native token
// contracts and Alchemy network prefixes.
package chains

import "strings"

type Chain struct {
	ID            int64
	Name          string
	NativeSymbol  string
	WrappedNative string // wrapped-native token contract, empty when unknown
}

var registry = []Chain{
	{ID: 1, Name: "ethereum", NativeSymbol: "ETH", WrappedNative: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},
	{ID: 10, Name: "optimism", NativeSymbol: "ETH", WrappedNative: "0x4200000000000000000000000000000000000006"},
	{ID: 56, Name: "bnb", NativeSymbol: "BNB", WrappedNative: "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"},
	{ID: 100, Name: "gnosis", NativeSymbol: "XDAI", WrappedNative: "0xe91d153e0b41518a2ce8dd3d7944fa863463a97d"},
	{ID: 137, Name: "polygon", NativeSymbol: "MATIC", WrappedNative: "0x0000000000000000000000000000000000001010"},
	{ID: 2020, Name: "ronin", NativeSymbol: "RON", WrappedNative: ""},
	{ID: 8453, Name: "base", NativeSymbol: "ETH", WrappedNative: "0x4200000000000000000000000000000000000006"},
	{ID: 42161, Name: "arbitrum", NativeSymbol: "ETH", WrappedNative: "0x82af49447d8a07e3bd95bd0d56f35241523fbab1"},
	{ID: 43114, Name: "avalanche", NativeSymbol: "AVAX", WrappedNative: "0x49d5c2bdffac6ce2bfdb6640f4f80f226bc10bab"},
	{ID: 59144, Name: "linea", NativeSymbol: "ETH", WrappedNative: "0xe5d7c2a44ffddf6b295a15c148167daaaf5cf34f"},
	{ID: 534352, Name: "scroll", NativeSymbol: "ETH", WrappedNative: "0x5300000000000000000000000000000000000004"},
}

var (
	byID   = map[int64]Chain{}
	byName = map[string]Chain{}
)

func init() {
	for _, c := range registry {
		byID[c.ID] = c
		byName[c.Name] = c
	}
}

// NameByID maps a native numeric chain id to its name. The second return is
// false for chains outside the registry.
func NameByID(id int64) (string, bool) {
	c, ok := byID[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}

// IDByName maps a chain name to its native numeric id.
func IDByName(name string) (int64, bool) {
	c, ok := byName[strings.ToLower(name)]
	if !ok {
		return 0, false
	}
	return c.ID, true
}

// ByName returns the full registry entry for a chain name.
func ByName(name string) (Chain, bool) {
	c, ok := byName[strings.ToLower(name)]
	return c, ok
}

// Names returns the registered EVM chain names plus "solana".
func Names() []string {
	names := make([]string, 0, len(registry)+1)
	for _, c := range registry {
		names = append(names, c.Name)
	}
	names = append(names, "solana")
	return names
}

// IsSupported reports whether a chain name can be passed to --blockchains.
func IsSupported(name string) bool {
	if strings.EqualFold(name, "solana") {
		return true
	}
	_, ok := byName[strings.ToLower(name)]
	return ok
}

// alchemyNetworks maps chain names to the Alchemy network prefix used in both
// the JSON-RPC host and the prices API network field.
var alchemyNetworks = map[string]string{
	"ethereum":  "eth",
	"optimism":  "opt",
	"polygon":   "polygon",
	"base":      "base",
	"bnb":       "bnb",
	"avalanche": "avax",
	"arbitrum":  "arb",
	"scroll":    "scroll",
	"linea":     "linea",
	"gnosis":    "gnosis",
}

// AlchemyNetwork returns the Alchemy network prefix for a chain, or "" when
// Alchemy does not serve it.
func AlchemyNetwork(name string) string {
	return alchemyNetworks[strings.ToLower(name)]
}
