package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"

	"moduschain/config"
	"moduschain/core/events"
	"moduschain/core/state"
	"moduschain/core/types"
	"moduschain/crypto"
	"moduschain/native/loyalty"
	"moduschain/native/nft"
	"moduschain/observability/logging"
	"moduschain/observability/metrics"
	"moduschain/rpc"
	"moduschain/storage"
)

// logEmitter writes every ledger event to the structured log.
type logEmitter struct {
	log *slog.Logger
}

func (l logEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	l.log.Info("ledger event", "type", evt.EventType())
}

// collectorAddress derives the internal vault account that accumulates mint
// proceeds until the owner withdraws them.
func collectorAddress() [20]byte {
	var addr [20]byte
	copy(addr[:], gethcrypto.Keccak256([]byte("moduschain/loyalty-collector"))[12:])
	return addr
}

func run() error {
	configPath := flag.String("config", "./config.toml", "path to the daemon configuration")
	flag.Parse()

	logger := logging.Setup("modusd")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Owner == "" {
		return fmt.Errorf("config: Owner address is required")
	}
	owner, err := crypto.DecodeAddress(cfg.Owner)
	if err != nil {
		return fmt.Errorf("config: invalid Owner: %w", err)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer db.Close()
	manager := state.NewManager(db)

	registry := prometheus.NewRegistry()
	emitter := metrics.NewEmitter(registry, logEmitter{log: logger})

	loyaltyEngine := loyalty.NewEngine()
	loyaltyEngine.SetState(manager)
	loyaltyEngine.SetOwner(owner.Bytes())
	loyaltyEngine.SetCollector(collectorAddress())
	loyaltyEngine.SetEmitter(emitter)
	loyaltyEngine.SetPauseBlocksTransfers(cfg.PauseBlocksTransfers)

	nftEngine := nft.NewEngine()
	nftEngine.SetState(manager)
	nftEngine.SetOwner(owner.Bytes())
	nftEngine.SetEmitter(emitter)

	if _, ok, err := manager.TokenStateGet(); err != nil {
		return fmt.Errorf("read token state: %w", err)
	} else if !ok {
		maxSupply, err := uint256.FromDecimal(cfg.MaxSupply)
		if err != nil {
			return fmt.Errorf("config: invalid MaxSupply: %w", err)
		}
		mintPrice, err := uint256.FromDecimal(cfg.MintPrice)
		if err != nil {
			return fmt.Errorf("config: invalid MintPrice: %w", err)
		}
		if err := loyaltyEngine.Initialize(cfg.TokenName, cfg.TokenSymbol, cfg.TokenDecimals, maxSupply, mintPrice); err != nil {
			return fmt.Errorf("initialize loyalty ledger: %w", err)
		}
		for _, genesis := range cfg.Genesis {
			addr, err := crypto.DecodeAddress(genesis.Address)
			if err != nil {
				return fmt.Errorf("config: invalid genesis address %q: %w", genesis.Address, err)
			}
			balance, err := uint256.FromDecimal(genesis.BalanceWei)
			if err != nil {
				return fmt.Errorf("config: invalid genesis balance for %q: %w", genesis.Address, err)
			}
			if err := manager.PutAccount(addr.Bytes(), &types.Account{BalanceWei: balance}); err != nil {
				return fmt.Errorf("seed genesis account %q: %w", genesis.Address, err)
			}
		}
		logger.Info("loyalty ledger initialized",
			"name", cfg.TokenName,
			"symbol", cfg.TokenSymbol,
			"maxSupply", cfg.MaxSupply,
			"mintPrice", cfg.MintPrice,
			"genesisAccounts", len(cfg.Genesis),
		)
	}

	server := rpc.NewServer(loyaltyEngine, nftEngine, manager, logger, registry)
	return server.Start(cfg.RPCAddress)
}

func main() {
	if err := run(); err != nil {
		slog.Error("modusd exited", "err", err)
		os.Exit(1)
	}
}
