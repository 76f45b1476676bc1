package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bridgescan/internal/api"
	"bridgescan/internal/bridges"
	"bridgescan/internal/chains"
	"bridgescan/internal/config"
	"bridgescan/internal/extractor"
	"bridgescan/internal/generator"
	"bridgescan/internal/market"
	"bridgescan/internal/repository"
	"bridgescan/internal/rpc"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           "bridgescan",
		Short:         "Cross-chain bridge event extraction and correlation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		extractCmd(),
		generateCmd(),
		probeCmd(),
		migrateCmd(),
		serveCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatalf("[bridgescan] Error: %v", err)
	}
}

func openRepository(ctx context.Context) (*repository.Repository, error) {
	env := config.FromEnv()
	repo, err := repository.NewRepository(env.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return repo, nil
}

func validateBridge(name string) error {
	for _, b := range bridges.Names() {
		if b == name {
			return nil
		}
	}
	return fmt.Errorf("unknown bridge %q, expected one of %v", name, bridges.Names())
}

func extractCmd() *cobra.Command {
	var (
		bridge      string
		blockchains []string
		startTs     int64
		endTs       int64
		startSig    string
		endSig      string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract bridge events for a timestamp window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateBridge(bridge); err != nil {
				return err
			}
			if endTs < startTs {
				return fmt.Errorf("--end_ts %d precedes --start_ts %d", endTs, startTs)
			}
			wantSolana := false
			for _, chain := range blockchains {
				if chain == "solana" {
					wantSolana = true
					continue
				}
				if !chains.IsSupported(chain) {
					return fmt.Errorf("unsupported blockchain %q", chain)
				}
			}
			if wantSolana && (startSig == "" || endSig == "") {
				return fmt.Errorf("--start_signature and --end_signature are required when solana is listed")
			}

			ctx := cmd.Context()
			env := config.FromEnv()
			rpcCfg, err := config.LoadRPCConfig(env.ProbedRPCPath())
			if err != nil {
				return fmt.Errorf("load RPC config (run probe-rpcs first): %w", err)
			}

			repo, err := openRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			handler, err := bridges.New(bridge, repo, bridges.NewChainSet(blockchains))
			if err != nil {
				return err
			}

			for _, chain := range blockchains {
				if chain == "solana" {
					if err := runSolanaExtraction(ctx, rpcCfg, handler, repo, startSig, endSig); err != nil {
						return err
					}
					continue
				}
				if err := runEVMExtraction(ctx, rpcCfg, chain, handler, repo, startTs, endTs); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bridge, "bridge", "", "bridge to extract")
	cmd.Flags().StringSliceVar(&blockchains, "blockchains", nil, "blockchains to extract from")
	cmd.Flags().Int64Var(&startTs, "start_ts", 0, "window start, unix seconds")
	cmd.Flags().Int64Var(&endTs, "end_ts", 0, "window end, unix seconds")
	cmd.Flags().StringVar(&startSig, "start_signature", "", "oldest Solana signature, inclusive")
	cmd.Flags().StringVar(&endSig, "end_signature", "", "newest Solana signature, inclusive")
	cmd.MarkFlagRequired("bridge")
	cmd.MarkFlagRequired("blockchains")
	cmd.MarkFlagRequired("start_ts")
	cmd.MarkFlagRequired("end_ts")
	return cmd
}

func runEVMExtraction(ctx context.Context, rpcCfg *config.RPCConfig, blockchain string, handler bridges.Handler, repo *repository.Repository, startTs, endTs int64) error {
	endpoints, err := rpcCfg.Endpoints(blockchain)
	if err != nil {
		return err
	}
	client, err := rpc.NewClient(blockchain, endpoints)
	if err != nil {
		return err
	}

	startBlock, err := client.BlockByTimestamp(ctx, startTs)
	if err != nil {
		return fmt.Errorf("%s: resolve start block: %w", blockchain, err)
	}
	endBlock, err := client.BlockByTimestamp(ctx, endTs)
	if err != nil {
		return fmt.Errorf("%s: resolve end block: %w", blockchain, err)
	}

	return extractor.New(blockchain, handler, client, repo).Run(ctx, startBlock, endBlock)
}

func runSolanaExtraction(ctx context.Context, rpcCfg *config.RPCConfig, handler bridges.Handler, repo *repository.Repository, startSig, endSig string) error {
	endpoints, err := rpcCfg.Endpoints("solana")
	if err != nil {
		return err
	}
	client, err := rpc.NewSolanaClient(endpoints)
	if err != nil {
		return err
	}
	ext, err := extractor.NewSolana(handler, client, repo)
	if err != nil {
		return err
	}
	return ext.Run(ctx, startSig, endSig)
}

func generateCmd() *cobra.Command {
	var bridge string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Correlate extracted events and enrich USD values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateBridge(bridge); err != nil {
				return err
			}

			ctx := cmd.Context()
			env := config.FromEnv()
			if env.AlchemyAPIKey == "" {
				return fmt.Errorf("ALCHEMY_API_KEY is not set")
			}

			repo, err := openRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			return generator.New(repo, market.NewClient(env.AlchemyAPIKey)).Run(ctx, bridge)
		},
	}

	cmd.Flags().StringVar(&bridge, "bridge", "", "bridge to correlate")
	cmd.MarkFlagRequired("bridge")
	return cmd
}

func probeCmd() *cobra.Command {
	var blockchains []string

	cmd := &cobra.Command{
		Use:   "probe-rpcs",
		Short: "Probe base RPC endpoints and write the working subset",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.FromEnv()
			base, err := config.LoadRPCConfig(env.BaseRPCPath())
			if err != nil {
				return fmt.Errorf("load base RPC config: %w", err)
			}

			if len(blockchains) == 0 {
				for chain := range base.Blockchains {
					blockchains = append(blockchains, chain)
				}
			}

			probed, err := rpc.Probe(cmd.Context(), base, blockchains)
			if err != nil {
				return err
			}
			if err := config.SaveRPCConfig(env.ProbedRPCPath(), probed); err != nil {
				return fmt.Errorf("write probed config: %w", err)
			}
			log.Printf("[probe] wrote %s", env.ProbedRPCPath())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&blockchains, "blockchains", nil, "chains to probe, default all")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()
			log.Printf("[migrate] schema up to date")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.FromEnv()
			if addr == "" {
				addr = env.APIAddr
			}

			repo, err := openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			return api.NewServer(repo).Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, default API_ADDR or :8080")
	return cmd
}
