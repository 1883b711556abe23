package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GenesisAccount seeds a wei balance when the daemon starts on a fresh data
// directory.
type GenesisAccount struct {
	Address    string `toml:"Address"`
	BalanceWei string `toml:"BalanceWei"`
}

// Config is the daemon configuration. Token parameters apply only when the
// ledger is initialized for the first time; afterwards the persisted state
// wins.
type Config struct {
	RPCAddress           string           `toml:"RPCAddress"`
	DataDir              string           `toml:"DataDir"`
	Owner                string           `toml:"Owner"`
	TokenName            string           `toml:"TokenName"`
	TokenSymbol          string           `toml:"TokenSymbol"`
	TokenDecimals        uint8            `toml:"TokenDecimals"`
	MaxSupply            string           `toml:"MaxSupply"`
	MintPrice            string           `toml:"MintPrice"`
	PauseBlocksTransfers bool             `toml:"PauseBlocksTransfers"`
	Genesis              []GenesisAccount `toml:"Genesis"`
}

// Load reads the configuration from path, creating a default file when none
// exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s contains unknown field %s", path, undecoded[0])
	}
	// The zero value of a bool cannot distinguish "omitted" from "false", and
	// the emergency brake must block transfers unless the operator opts out.
	if !meta.IsDefined("PauseBlocksTransfers") {
		cfg.PauseBlocksTransfers = true
	}
	return cfg.applyDefaults(), nil
}

func (cfg *Config) applyDefaults() *Config {
	if cfg.RPCAddress == "" {
		cfg.RPCAddress = "127.0.0.1:8551"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./modus-data"
	}
	if cfg.TokenName == "" {
		cfg.TokenName = "MyModus Loyalty Token"
	}
	if cfg.TokenSymbol == "" {
		cfg.TokenSymbol = "MMLT"
	}
	if cfg.TokenDecimals == 0 {
		cfg.TokenDecimals = 18
	}
	if cfg.MaxSupply == "" {
		cfg.MaxSupply = "1000000000000000000000000" // 1M tokens at 18 decimals
	}
	if cfg.MintPrice == "" {
		cfg.MintPrice = "1000000000000000" // 0.001 ETH per token
	}
	return cfg
}

func createDefault(path string) (*Config, error) {
	cfg := (&Config{PauseBlocksTransfers: true}).applyDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
