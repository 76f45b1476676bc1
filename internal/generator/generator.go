// Package generator correlates stored per-bridge events into cross-chain
// transaction rows and enriches them with USD values.
package generator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fatih/color"

	"bridgescan/internal/market"
	"bridgescan/internal/repository"
)

var (
	infoColor = color.New(color.FgCyan)
	doneColor = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// Generator runs the correlation and pricing pipeline for one bridge.
type Generator struct {
	repo   *repository.Repository
	prices *priceEnricher
}

func New(repo *repository.Repository, alchemy *market.Client) *Generator {
	return &Generator{
		repo:   repo,
		prices: newPriceEnricher(repo, alchemy),
	}
}

type pipeline struct {
	correlate func(ctx context.Context, g *Generator) error
	enrich    func(ctx context.Context, g *Generator, startTs, endTs int64) error
}

var pipelines = map[string]pipeline{
	"ccip":     {correlate: correlateCCIP, enrich: enrichCCIP},
	"cow":      {correlate: correlateCow, enrich: enrichCow},
	"debridge": {correlate: correlateDeBridge, enrich: enrichDeBridge},
	"eco":      {correlate: correlateEco, enrich: enrichEco},
	"fly":      {correlate: correlateFly, enrich: enrichFly},
	"mayan":    {correlate: correlateMayan, enrich: enrichMayan},
	"portal":   {correlate: correlatePortal, enrich: enrichPortal},
	"router":   {correlate: correlateRouter, enrich: enrichRouter},
	"synapse":  {correlate: correlateSynapse, enrich: enrichSynapse},
	"wormhole": {correlate: correlateWormhole, enrich: enrichWormhole},
}

// Run correlates events of the bridge and prices the resulting rows. The
// price window spans all stored transactions padded by a day on both sides.
func (g *Generator) Run(ctx context.Context, bridge string) error {
	p, ok := pipelines[bridge]
	if !ok {
		return fmt.Errorf("unknown bridge %q", bridge)
	}

	start := time.Now()
	infoColor.Printf("[%s] correlating cross-chain transactions\n", bridge)

	if err := p.correlate(ctx, g); err != nil {
		return fmt.Errorf("correlate %s: %w", bridge, err)
	}

	minTs, maxTs, err := g.repo.TransactionTimestampRange(ctx, bridge)
	if err != nil {
		return fmt.Errorf("timestamp range %s: %w", bridge, err)
	}
	if minTs == 0 && maxTs == 0 {
		log.Printf("[generator] %s: no stored transactions, skipping pricing", bridge)
		return nil
	}
	startTs, endTs := minTs-86400, maxTs+86400

	if err := g.prices.populateNativeTokens(ctx, bridge, startTs, endTs); err != nil {
		return fmt.Errorf("native tokens %s: %w", bridge, err)
	}
	if err := p.enrich(ctx, g, startTs, endTs); err != nil {
		return fmt.Errorf("enrich %s: %w", bridge, err)
	}

	doneColor.Printf("[%s] done in %s\n", bridge, time.Since(start).Round(time.Millisecond))
	return nil
}

// truncateAndJoin empties the cross-chain table and reruns the correlation
// insert, reporting the row count.
func (g *Generator) truncateAndJoin(ctx context.Context, bridge, table, insert string) error {
	if _, err := g.repo.Exec(ctx, "DELETE FROM "+table); err != nil {
		return err
	}
	n, err := g.repo.Exec(ctx, insert)
	if err != nil {
		return err
	}
	log.Printf("[generator] %s: %d cross-chain rows matched", bridge, n)
	return nil
}

// tokenPair is one distinct (src, dst) contract pair of a correlated table.
type tokenPair struct {
	srcBlockchain string
	srcContract   string
	dstBlockchain string
	dstContract   string
}

func (g *Generator) contractPairs(ctx context.Context, table string) ([]tokenPair, error) {
	rows, err := g.repo.Query(ctx, fmt.Sprintf(`SELECT DISTINCT
			src_blockchain, src_contract_address, dst_blockchain, dst_contract_address
		FROM %s
		WHERE src_contract_address IS NOT NULL OR dst_contract_address IS NOT NULL`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []tokenPair
	for rows.Next() {
		var p tokenPair
		var srcContract, dstContract *string
		if err := rows.Scan(&p.srcBlockchain, &srcContract, &p.dstBlockchain, &dstContract); err != nil {
			return nil, err
		}
		if srcContract != nil {
			p.srcContract = *srcContract
		}
		if dstContract != nil {
			p.dstContract = *dstContract
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// priceTokenPairs fetches metadata and daily closes for every token pair of
// the table, then runs the standard USD passes over amount and fee columns.
func (g *Generator) priceTokenPairs(ctx context.Context, bridge, table string, startTs, endTs int64) error {
	pairs, err := g.contractPairs(ctx, table)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		g.prices.populateTokenInfo(ctx, bridge, p, startTs, endTs)
	}
	return nil
}
