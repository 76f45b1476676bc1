// Package extractor walks block ranges per bridge contract, feeds the matched
// logs through the bridge handler and enriches every accepted log with its
// transaction envelope.
package extractor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"

	"bridgescan/internal/bridges"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
	"bridgescan/internal/rpc"
)

const (
	maxChunkSize   = 1000
	workersPerSlot = 2
	maxWorkerSlots = 10
)

var (
	infoColor = color.New(color.FgCyan)
	doneColor = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// Extractor runs one bridge on one blockchain over a block range.
type Extractor struct {
	blockchain string
	handler    bridges.Handler
	client     *rpc.Client
	repo       *repository.Repository
}

func New(blockchain string, handler bridges.Handler, client *rpc.Client, repo *repository.Repository) *Extractor {
	return &Extractor{
		blockchain: blockchain,
		handler:    handler,
		client:     client,
		repo:       repo,
	}
}

type blockRange struct {
	group bridges.ContractGroup
	from  uint64
	to    uint64
}

// workerCount scales with the number of healthy endpoints so a thin RPC
// config does not get hammered by a full pool.
func (e *Extractor) workerCount() int {
	slots := e.client.EndpointCount()
	if slots > maxWorkerSlots {
		slots = maxWorkerSlots
	}
	if slots < 1 {
		slots = 1
	}
	return slots * workersPerSlot
}

// chunkSize splits the range so every worker gets work, capped at the
// eth_getLogs span most public endpoints accept.
func chunkSize(startBlock, endBlock uint64, workers int) uint64 {
	if endBlock <= startBlock {
		return 1
	}
	size := (endBlock - startBlock) / uint64(workers)
	if size > maxChunkSize {
		size = maxChunkSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

func divideBlockRanges(group bridges.ContractGroup, startBlock, endBlock, size uint64) []blockRange {
	var ranges []blockRange
	for from := startBlock; from <= endBlock; from += size {
		to := from + size - 1
		if to > endBlock {
			to = endBlock
		}
		ranges = append(ranges, blockRange{group: group, from: from, to: to})
	}
	return ranges
}

// Run extracts all contract groups of the handler over [startBlock, endBlock].
func (e *Extractor) Run(ctx context.Context, startBlock, endBlock uint64) error {
	if endBlock < startBlock {
		return fmt.Errorf("end block %d before start block %d", endBlock, startBlock)
	}

	groups, err := e.handler.Groups(e.blockchain)
	if err != nil {
		return err
	}

	workers := e.workerCount()
	size := chunkSize(startBlock, endBlock, workers)

	var tasks []blockRange
	for _, group := range groups {
		tasks = append(tasks, divideBlockRanges(group, startBlock, endBlock, size)...)
	}

	infoColor.Printf("[%s/%s] extracting blocks %d-%d, %d tasks across %d workers\n",
		e.handler.Name(), e.blockchain, startBlock, endBlock, len(tasks), workers)

	taskCh := make(chan blockRange)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				if ctx.Err() != nil {
					continue
				}
				if err := e.work(ctx, task); err != nil {
					failed.Add(1)
					warnColor.Printf("[%s/%s] task failed: %v\n", e.handler.Name(), e.blockchain, err)
				}
			}
		}()
	}

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d tasks failed", n, len(tasks))
	}
	doneColor.Printf("[%s/%s] done, blocks %d-%d\n", e.handler.Name(), e.blockchain, startBlock, endBlock)
	return nil
}

func (e *Extractor) work(ctx context.Context, task blockRange) error {
	logs, err := e.client.Logs(ctx, task.group.Contract, task.group.Topics, task.from, task.to)
	if err != nil {
		return fmt.Errorf("logs %s %d-%d: %w", task.group.Contract, task.from, task.to, err)
	}
	if len(logs) == 0 {
		return nil
	}

	log.Printf("[extractor] %s/%s: %d logs from %s in blocks %d-%d",
		e.handler.Name(), e.blockchain, len(logs), task.group.Contract, task.from, task.to)

	accepted, err := e.handler.HandleLogs(ctx, e.blockchain, logs)
	if err != nil {
		return fmt.Errorf("handle logs %s %d-%d: %w", task.group.Contract, task.from, task.to, err)
	}

	return e.enrich(ctx, accepted)
}

// enrich stores the transaction envelope for every accepted log. Logs of one
// transaction arrive together, so the seen set keeps the receipt lookups to
// one per transaction.
func (e *Extractor) enrich(ctx context.Context, accepted []models.Log) error {
	seen := make(map[string]bool, len(accepted))
	var txs []models.Transaction

	for _, l := range accepted {
		if seen[l.TransactionHash] {
			continue
		}
		seen[l.TransactionHash] = true

		exists, err := e.repo.TransactionExists(ctx, e.handler.Name(), l.TransactionHash)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		tx, err := e.client.TransactionByLog(ctx, l)
		if err != nil {
			warnColor.Printf("[%s/%s] transaction %s: %v\n", e.handler.Name(), e.blockchain, l.TransactionHash, err)
			continue
		}
		txs = append(txs, *tx)
	}

	if len(txs) == 0 {
		return nil
	}
	return e.repo.SaveTransactions(ctx, e.handler.Name(), txs)
}
