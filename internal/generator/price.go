package generator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bridgescan/internal/chains"
	"bridgescan/internal/market"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
)

// priceEnricher fills token_metadata, token_price and native_token, then
// computes USD columns in SQL. The tried maps keep one run from re-requesting
// a contract or symbol that already failed.
type priceEnricher struct {
	repo    *repository.Repository
	alchemy *market.Client

	triedMetadata map[string]bool // blockchain|contract
	triedPrice    map[string]bool
}

func newPriceEnricher(repo *repository.Repository, alchemy *market.Client) *priceEnricher {
	return &priceEnricher{
		repo:          repo,
		alchemy:       alchemy,
		triedMetadata: map[string]bool{},
		triedPrice:    map[string]bool{},
	}
}

func pairKey(blockchain, contract string) string {
	return blockchain + "|" + strings.ToLower(contract)
}

// stableSymbol reports whether a symbol can be priced at a flat dollar
// without an API call.
func stableSymbol(symbol string) bool {
	s := strings.ToLower(symbol)
	return strings.Contains(s, "usd") || strings.Contains(s, "dai") || strings.Contains(s, "frax")
}

// dailyDates enumerates the UTC dates covering [startTs, endTs].
func dailyDates(startTs, endTs int64) []string {
	var dates []string
	for ts := startTs; ts <= endTs; ts += 86400 {
		dates = append(dates, time.Unix(ts, 0).UTC().Format("2006-01-02"))
	}
	return dates
}

// priceWindow reduces a timestamp window to its UTC date bounds and day count.
func priceWindow(startTs, endTs int64) (first, last string, days int) {
	dates := dailyDates(startTs, endTs)
	if len(dates) == 0 {
		return "", "", 0
	}
	return dates[0], dates[len(dates)-1], len(dates)
}

// pricesCovered reports whether every day of the window already has a stored
// close for the symbol. A window wider than previous runs comes back
// uncovered and triggers a fresh fetch for the missing days.
func (p *priceEnricher) pricesCovered(ctx context.Context, symbol string, startTs, endTs int64) bool {
	first, last, days := priceWindow(startTs, endTs)
	if days == 0 {
		return true
	}
	stored, err := p.repo.TokenPriceDayCount(ctx, symbol, first, last)
	if err != nil {
		return false
	}
	return stored >= days
}

// populateNativeTokens records the gas token of every registered chain and
// fetches its metadata and daily closes through the wrapped-native contract.
func (p *priceEnricher) populateNativeTokens(ctx context.Context, bridge string, startTs, endTs int64) error {
	infoColor.Printf("[%s] fetching native token prices\n", bridge)

	for _, name := range chains.Names() {
		if name == "solana" {
			continue
		}
		c, ok := chains.ByName(name)
		if !ok || c.WrappedNative == "" {
			continue
		}

		if err := p.repo.SaveNativeToken(ctx, c.Name, c.NativeSymbol); err != nil {
			return err
		}

		tokenName := c.NativeSymbol
		if m, found, err := p.fetchMetadata(ctx, bridge, c.Name, c.WrappedNative); err == nil && found {
			tokenName = m.Name
		}

		// The zero address stands in for the native token in event rows.
		if err := p.repo.SaveTokenMetadata(ctx, models.TokenMetadata{
			Symbol:     c.NativeSymbol,
			Name:       tokenName,
			Decimals:   18,
			Blockchain: c.Name,
			Address:    "0x0000000000000000000000000000000000000000",
		}); err != nil {
			return err
		}

		p.fetchPrices(ctx, bridge, c.Name, c.WrappedNative, c.NativeSymbol, tokenName, startTs, endTs)
	}
	return nil
}

// populateSolanaTokens adds the Solana entries Alchemy cannot serve.
func (p *priceEnricher) populateSolanaTokens(ctx context.Context, bridge string, startTs, endTs int64) error {
	if err := p.repo.SaveNativeToken(ctx, "solana", "SOL"); err != nil {
		return err
	}
	for _, m := range []models.TokenMetadata{
		{Symbol: "SOL", Name: "Solana", Decimals: 9, Blockchain: "solana", Address: "11111111111111111111111111111111"},
		{Symbol: "WETH", Name: "Wrapped Ether", Decimals: 8, Blockchain: "solana", Address: "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs"},
		{Symbol: "USDC", Name: "USDC", Decimals: 6, Blockchain: "solana", Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"},
	} {
		if err := p.repo.SaveTokenMetadata(ctx, m); err != nil {
			return err
		}
	}
	p.storePricesBySymbol(ctx, bridge, "SOL", "Solana", startTs, endTs)
	p.storePricesBySymbol(ctx, bridge, "USDC", "USDC", startTs, endTs)
	return nil
}

// populateTokenInfo resolves metadata and prices for both legs of a token
// pair. Failures are logged and skipped: a missing price leaves the USD
// column NULL rather than aborting the run.
func (p *priceEnricher) populateTokenInfo(ctx context.Context, bridge string, pair tokenPair, startTs, endTs int64) {
	if pair.srcContract != "" {
		if m, ok, _ := p.fetchMetadata(ctx, bridge, pair.srcBlockchain, pair.srcContract); ok {
			p.fetchPrices(ctx, bridge, pair.srcBlockchain, pair.srcContract, m.Symbol, m.Name, startTs, endTs)
		}
	}
	if pair.dstContract != "" {
		if m, ok, _ := p.fetchMetadata(ctx, bridge, pair.dstBlockchain, pair.dstContract); ok {
			p.fetchPrices(ctx, bridge, pair.dstBlockchain, pair.dstContract, m.Symbol, m.Name, startTs, endTs)
		}
	}
}

// fetchMetadata returns the stored metadata for a contract, fetching it from
// Alchemy on first sight.
func (p *priceEnricher) fetchMetadata(ctx context.Context, bridge, blockchain, contract string) (models.TokenMetadata, bool, error) {
	if m, ok, err := p.repo.TokenMetadataByContract(ctx, blockchain, contract); err != nil || ok {
		return m, ok, err
	}
	if p.triedMetadata[pairKey(blockchain, contract)] {
		return models.TokenMetadata{}, false, nil
	}
	p.triedMetadata[pairKey(blockchain, contract)] = true

	m, ok, err := p.alchemy.TokenMetadata(ctx, blockchain, contract)
	if err != nil {
		warnColor.Printf("[%s] metadata %s/%s: %v\n", bridge, blockchain, contract, err)
		return models.TokenMetadata{}, false, nil
	}
	if !ok {
		return models.TokenMetadata{}, false, nil
	}
	if err := p.repo.SaveTokenMetadata(ctx, m); err != nil {
		return models.TokenMetadata{}, false, err
	}
	return m, true, nil
}

func (p *priceEnricher) fetchPrices(ctx context.Context, bridge, blockchain, contract, symbol, name string, startTs, endTs int64) {
	if symbol == "" || p.triedPrice[pairKey(blockchain, contract)] {
		return
	}
	p.triedPrice[pairKey(blockchain, contract)] = true

	if p.pricesCovered(ctx, symbol, startTs, endTs) {
		return
	}

	if stableSymbol(symbol) {
		p.storeFlatDollar(ctx, symbol, name, startTs, endTs)
		return
	}

	log.Printf("[generator] %s: fetching historical price of %s", bridge, symbol)
	prices, err := p.alchemy.HistoricalPricesByAddress(ctx, blockchain, contract, symbol, name, startTs, endTs)
	if err != nil {
		warnColor.Printf("[%s] prices %s: %v\n", bridge, symbol, err)
		return
	}
	if len(prices) == 0 {
		return
	}
	if err := p.repo.SaveTokenPrices(ctx, prices); err != nil {
		warnColor.Printf("[%s] store prices %s: %v\n", bridge, symbol, err)
	}
}

func (p *priceEnricher) storePricesBySymbol(ctx context.Context, bridge, symbol, name string, startTs, endTs int64) {
	if p.pricesCovered(ctx, symbol, startTs, endTs) {
		return
	}
	prices, err := p.alchemy.HistoricalPricesBySymbol(ctx, symbol, name, startTs, endTs)
	if err != nil {
		warnColor.Printf("[%s] prices %s: %v\n", bridge, symbol, err)
		return
	}
	if len(prices) == 0 {
		return
	}
	if err := p.repo.SaveTokenPrices(ctx, prices); err != nil {
		warnColor.Printf("[%s] store prices %s: %v\n", bridge, symbol, err)
	}
}

func (p *priceEnricher) storeFlatDollar(ctx context.Context, symbol, name string, startTs, endTs int64) {
	var prices []models.TokenPrice
	for _, date := range dailyDates(startTs, endTs) {
		prices = append(prices, models.TokenPrice{Symbol: symbol, Name: name, Date: date, PriceUSD: 1.0})
	}
	if err := p.repo.SaveTokenPrices(ctx, prices); err != nil {
		log.Printf("[generator] Warn: flat prices %s: %v", symbol, err)
	}
}

// updateAmountUSD converts a raw token amount column into USD by joining the
// metadata and the day close of the row's timestamp.
func (g *Generator) updateAmountUSD(ctx context.Context, table, amountCol, chainCol, contractCol, tsCol, usdCol string) error {
	query := fmt.Sprintf(`UPDATE %s cctx
		SET %s = token_price.price_usd * cctx.%s / power(10, token_metadata.decimals)
		FROM token_metadata
		JOIN token_price ON token_metadata.symbol = token_price.symbol
		WHERE lower(cctx.%s) = lower(token_metadata.address)
		  AND cctx.%s = token_metadata.blockchain
		  AND CAST(TO_TIMESTAMP(cctx.%s) AS DATE) = token_price.date`,
		table, usdCol, amountCol, contractCol, chainCol, tsCol)
	if _, err := g.repo.Exec(ctx, query); err != nil {
		return fmt.Errorf("usd values %s.%s: %w", table, usdCol, err)
	}
	return nil
}

// updateNativeUSD converts a fee column denominated in the chain's gas token.
func (g *Generator) updateNativeUSD(ctx context.Context, table, tsCol, chainCol, feeCol, usdCol string) error {
	query := fmt.Sprintf(`UPDATE %s cctx
		SET %s = token_price.price_usd * cctx.%s / power(10, token_metadata.decimals)
		FROM token_metadata
		JOIN token_price ON token_metadata.symbol = token_price.symbol
		  AND token_metadata.name = token_price.name
		WHERE token_metadata.address = '0x0000000000000000000000000000000000000000'
		  AND cctx.%s = token_metadata.blockchain
		  AND CAST(TO_TIMESTAMP(cctx.%s) AS DATE) = token_price.date`,
		table, usdCol, feeCol, chainCol, tsCol)
	if _, err := g.repo.Exec(ctx, query); err != nil {
		return fmt.Errorf("native usd values %s.%s: %w", table, usdCol, err)
	}
	return nil
}

// enrichStandard runs the passes shared by most bridges: token prices per
// pair, input/output amount USD, src/dst fee USD.
func (g *Generator) enrichStandard(ctx context.Context, bridge, table string, startTs, endTs int64) error {
	if err := g.priceTokenPairs(ctx, bridge, table, startTs, endTs); err != nil {
		return err
	}
	if err := g.updateAmountUSD(ctx, table, "input_amount", "src_blockchain", "src_contract_address", "src_timestamp", "input_amount_usd"); err != nil {
		return err
	}
	if err := g.updateAmountUSD(ctx, table, "output_amount", "dst_blockchain", "dst_contract_address", "dst_timestamp", "output_amount_usd"); err != nil {
		return err
	}
	if err := g.updateNativeUSD(ctx, table, "src_timestamp", "src_blockchain", "src_fee", "src_fee_usd"); err != nil {
		return err
	}
	return g.updateNativeUSD(ctx, table, "dst_timestamp", "dst_blockchain", "dst_fee", "dst_fee_usd")
}
