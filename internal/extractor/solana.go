package extractor

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"bridgescan/internal/bridges"
	"bridgescan/internal/models"
	"bridgescan/internal/repository"
	"bridgescan/internal/rpc"
)

// SolanaExtractor walks the signature history of a bridge program between two
// signatures and runs every transaction through the program handler. Solana
// has no block-range log filter, so the walk is a single ordered pass instead
// of a chunked worker pool.
type SolanaExtractor struct {
	handler bridges.Handler
	program bridges.SolanaHandler
	client  *rpc.SolanaClient
	repo    *repository.Repository
}

func NewSolana(handler bridges.Handler, client *rpc.SolanaClient, repo *repository.Repository) (*SolanaExtractor, error) {
	program, ok := handler.(bridges.SolanaHandler)
	if !ok {
		return nil, fmt.Errorf("bridge %s has no solana program leg", handler.Name())
	}
	return &SolanaExtractor{
		handler: handler,
		program: program,
		client:  client,
		repo:    repo,
	}, nil
}

// Run processes every program transaction between startSig and endSig,
// inclusive on both ends.
func (e *SolanaExtractor) Run(ctx context.Context, startSig, endSig string) error {
	infoColor.Printf("[%s/solana] walking signatures %s -> %s\n", e.handler.Name(), startSig, endSig)

	signatures, err := e.client.SignaturesForAddress(ctx, e.program.Program(), startSig, endSig)
	if err != nil {
		return fmt.Errorf("signatures for %s: %w", e.program.Program(), err)
	}

	log.Printf("[extractor] %s/solana: %d signatures to process", e.handler.Name(), len(signatures))

	var processed, accepted int
	for _, sig := range signatures {
		exists, err := e.repo.TransactionExists(ctx, e.handler.Name(), sig)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		tx, err := e.client.ParseTransaction(ctx, sig)
		if err != nil {
			warnColor.Printf("[%s/solana] transaction %s: %v\n", e.handler.Name(), sig, err)
			continue
		}
		processed++

		ok, err := e.program.HandleSolanaTransaction(ctx, tx)
		if err != nil {
			warnColor.Printf("[%s/solana] handle %s: %v\n", e.handler.Name(), sig, err)
			continue
		}
		if !ok {
			continue
		}
		accepted++

		if err := e.repo.SaveTransactions(ctx, e.handler.Name(), []models.Transaction{txRow(e.program.Program(), tx)}); err != nil {
			return err
		}
	}

	doneColor.Printf("[%s/solana] done, %d parsed, %d accepted of %d signatures\n",
		e.handler.Name(), processed, accepted, len(signatures))
	return nil
}

// txRow maps a parsed Solana transaction onto the shared transaction row.
// The fee payer is the first account key and the program stands in for the
// to-address. Fees are lamports.
func txRow(program string, tx *rpc.SolanaTransaction) models.Transaction {
	row := models.Transaction{
		Blockchain:      "solana",
		TransactionHash: tx.Signature,
		BlockNumber:     tx.Slot,
		Timestamp:       tx.BlockTime,
		ToAddress:       program,
		Status:          1,
		Fee:             new(big.Int).SetUint64(tx.Fee),
	}
	if tx.Failed {
		row.Status = 0
	}
	if len(tx.AccountKeys) > 0 {
		row.FromAddress = tx.AccountKeys[0]
	}
	return row
}
