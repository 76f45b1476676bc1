package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"
)

const signaturePageLimit = 1000

// SolanaClient wraps the Solana JSON-RPC endpoints a bridge's program leg is
// read through. Unlike the EVM pool it keeps a single endpoint per call and
// relies on the same indefinite-backoff retry loop.
type SolanaClient struct {
	endpoints []string
	idx       int
}

func NewSolanaClient(endpoints []string) (*SolanaClient, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no solana endpoints configured")
	}
	return &SolanaClient{endpoints: endpoints}, nil
}

func (c *SolanaClient) next() *solrpc.Client {
	url := c.endpoints[c.idx%len(c.endpoints)]
	c.idx++
	return solrpc.New(url)
}

func (c *SolanaClient) retry(ctx context.Context, desc string, fn func(*solrpc.Client) error) error {
	backoff := initialBackoff
	for {
		err := fn(c.next())
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[rpc] Warn: solana %s failed, retrying in %s: %v", desc, backoff, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// SignaturesForAddress walks the signature history of a program account
// backward from endSig until startSig, newest first.
func (c *SolanaClient) SignaturesForAddress(ctx context.Context, program string, startSig, endSig string) ([]string, error) {
	addr, err := solana.PublicKeyFromBase58(program)
	if err != nil {
		return nil, fmt.Errorf("program address %q: %w", program, err)
	}
	until, err := solana.SignatureFromBase58(startSig)
	if err != nil {
		return nil, fmt.Errorf("start signature %q: %w", startSig, err)
	}
	before, err := solana.SignatureFromBase58(endSig)
	if err != nil {
		return nil, fmt.Errorf("end signature %q: %w", endSig, err)
	}

	limit := signaturePageLimit
	out := []string{endSig}
	for {
		var page []*solrpc.TransactionSignature
		err := c.retry(ctx, "getSignaturesForAddress", func(cl *solrpc.Client) error {
			var err error
			page, err = cl.GetSignaturesForAddressWithOpts(ctx, addr, &solrpc.GetSignaturesForAddressOpts{
				Limit:  &limit,
				Before: before,
				Until:  until,
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, s := range page {
			out = append(out, s.Signature.String())
		}
		if len(page) < limit {
			break
		}
		before = page[len(page)-1].Signature
	}
	out = append(out, startSig)
	return out, nil
}

// ParsedInstruction is one jsonParsed instruction. Top-level program
// instructions carry Parsed for known programs; bridge programs show up with
// raw base58 Data plus account lists.
type ParsedInstruction struct {
	Program   string          `json:"program"`
	ProgramID string          `json:"programId"`
	Parsed    json.RawMessage `json:"parsed"`
	Data      string          `json:"data"`
	Accounts  []string        `json:"accounts"`
}

// ParsedInfo is the decoded body of a Parsed instruction.
type ParsedInfo struct {
	Type string         `json:"type"`
	Info map[string]any `json:"info"`
}

// DecodeParsed unpacks the parsed payload, returning ok=false for raw
// (non-parsed) instructions.
func (i ParsedInstruction) DecodeParsed() (ParsedInfo, bool) {
	if len(i.Parsed) == 0 {
		return ParsedInfo{}, false
	}
	var p ParsedInfo
	if err := json.Unmarshal(i.Parsed, &p); err != nil {
		return ParsedInfo{}, false
	}
	return p, true
}

type parsedAccountKey struct {
	Pubkey string `json:"pubkey"`
}

type parsedMessage struct {
	AccountKeys  []parsedAccountKey  `json:"accountKeys"`
	Instructions []ParsedInstruction `json:"instructions"`
}

type parsedTxBody struct {
	Signatures []string      `json:"signatures"`
	Message    parsedMessage `json:"message"`
}

// SolanaTransaction is a jsonParsed transaction with the metadata the
// handlers need.
type SolanaTransaction struct {
	Signature    string
	Slot         uint64
	BlockTime    int64
	Fee          uint64
	Failed       bool
	AccountKeys  []string
	Instructions []ParsedInstruction
	InnerByIndex map[int][]ParsedInstruction
}

// ParseTransaction fetches a transaction jsonParsed and flattens the fields
// the instruction handlers dispatch on.
func (c *SolanaClient) ParseTransaction(ctx context.Context, signature string) (*SolanaTransaction, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("signature %q: %w", signature, err)
	}

	maxVersion := uint64(0)
	var res *solrpc.GetTransactionResult
	err = c.retry(ctx, "getTransaction", func(cl *solrpc.Client) error {
		var err error
		res, err = cl.GetTransaction(ctx, sig, &solrpc.GetTransactionOpts{
			Encoding:                       solana.EncodingJSONParsed,
			MaxSupportedTransactionVersion: &maxVersion,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.Transaction == nil {
		return nil, fmt.Errorf("transaction %s not found", signature)
	}

	raw, err := json.Marshal(res.Transaction)
	if err != nil {
		return nil, fmt.Errorf("re-encode parsed transaction: %w", err)
	}
	var body parsedTxBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode parsed transaction %s: %w", signature, err)
	}

	tx := &SolanaTransaction{
		Signature:    signature,
		Slot:         res.Slot,
		Instructions: body.Message.Instructions,
		InnerByIndex: map[int][]ParsedInstruction{},
	}
	if res.BlockTime != nil {
		tx.BlockTime = res.BlockTime.Time().Unix()
	}
	for _, k := range body.Message.AccountKeys {
		tx.AccountKeys = append(tx.AccountKeys, k.Pubkey)
	}
	if res.Meta != nil {
		tx.Fee = res.Meta.Fee
		tx.Failed = res.Meta.Err != nil
		for _, inner := range res.Meta.InnerInstructions {
			raw, err := json.Marshal(inner.Instructions)
			if err != nil {
				continue
			}
			var list []ParsedInstruction
			if err := json.Unmarshal(raw, &list); err != nil {
				continue
			}
			tx.InnerByIndex[int(inner.Index)] = list
		}
	}
	return tx, nil
}
