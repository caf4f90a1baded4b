package config

import (
	"strings"
	"time"
)

// BuildVersion is overridden at build time via -ldflags
var BuildVersion = "development"

// Validation tags described here: https://pkg.go.dev/github.com/go-playground/validator/v10
type Config struct {
	Blockchain struct {
		EthNodeAddress  string        `env:"ETH_NODE_ADDRESS"     flag:"eth-node-address"     validate:"required,url"     desc:"RPC node of the chain holding the deposit pool"`
		DestNodeAddress string        `env:"DEST_NODE_ADDRESS"    flag:"dest-node-address"    validate:"required,url"     desc:"RPC node of the chain the bridged tokens arrive on"`
		PollingInterval time.Duration `env:"ETH_POLLING_INTERVAL" flag:"eth-polling-interval" validate:"omitempty"        desc:"interval between polling for blockchain state"`
		MaxReconnects   int           `env:"ETH_MAX_RECONNECTS"   flag:"eth-max-reconnects"   validate:"omitempty,number" desc:"maximum number of reconnect attempts"`
		EthLegacyTx     bool          `env:"ETH_NODE_LEGACY_TX"   flag:"eth-node-legacy-tx"   desc:"use it to disable EIP-1559 transactions"`
	}
	Bridge struct {
		PollInterval time.Duration `env:"BRIDGE_POLL_INTERVAL" flag:"bridge-poll-interval" validate:"omitempty" desc:"interval between destination balance reads while a transfer is in flight"`
		Timeout      time.Duration `env:"BRIDGE_TIMEOUT"       flag:"bridge-timeout"       validate:"omitempty" desc:"time after which an unarrived transfer is abandoned"`
		HistorySize  int           `env:"BRIDGE_HISTORY_SIZE"  flag:"bridge-history-size"  validate:"omitempty,number"`
	}
	Environment string `env:"ENVIRONMENT" flag:"environment" validate:"omitempty,oneof=mainnet testnet development"`
	Log         struct {
		Color        bool   `env:"LOG_COLOR"         flag:"log-color"`
		FolderPath   string `env:"LOG_FOLDER_PATH"   flag:"log-folder-path"   validate:"omitempty,dirpath" desc:"enables file logging and sets the folder path"`
		IsProd       bool   `env:"LOG_IS_PROD"       flag:"log-is-prod"       validate:""                  desc:"affects the format of the log output"`
		JSON         bool   `env:"LOG_JSON"          flag:"log-json"`
		LevelApp     string `env:"LOG_LEVEL_APP"     flag:"log-level-app"     validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelBridge  string `env:"LOG_LEVEL_BRIDGE"  flag:"log-level-bridge"  validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelEth     string `env:"LOG_LEVEL_ETH"     flag:"log-level-eth"     validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelRewards string `env:"LOG_LEVEL_REWARDS" flag:"log-level-rewards" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	}
	Staking struct {
		Edition             string        `env:"STAKING_EDITION"          flag:"staking-edition"          validate:"omitempty,oneof=v1 v2" desc:"protocol edition governing power factor caps and lock bounds"`
		PoolID              int64         `env:"STAKING_POOL_ID"          flag:"staking-pool-id"          validate:"omitempty,number"`
		DistributionAddress string        `env:"DISTRIBUTION_ADDRESS"     flag:"distribution-address"     validate:"omitempty,eth_addr" desc:"overrides the registry entry for the distribution contract"`
		RefreshInterval     time.Duration `env:"STAKING_REFRESH_INTERVAL" flag:"staking-refresh-interval" validate:"omitempty" desc:"interval between reward pool data refreshes"`
	}
	Wallet struct {
		Mnemonic     string `env:"WALLET_MNEMONIC"    flag:"wallet-mnemonic"    validate:"required_without=PrivateKey"`
		AccountIndex int    `env:"ACCOUNT_INDEX"      flag:"account-index"      validate:"omitempty,number"`
		PrivateKey   string `env:"WALLET_PRIVATE_KEY" flag:"wallet-private-key" validate:"required_without=Mnemonic"`
	}
	Web struct {
		Address   string `env:"WEB_ADDRESS"    flag:"web-address"    validate:"required,hostname_port" desc:"http server address host:port"`
		PublicUrl string `env:"WEB_PUBLIC_URL" flag:"web-public-url" validate:"omitempty,url"          desc:"public url of the router, falls back to web-address if empty"`
	}
}

func (cfg *Config) SetDefaults() {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Blockchain
	if cfg.Blockchain.MaxReconnects == 0 {
		cfg.Blockchain.MaxReconnects = 30
	}
	if cfg.Blockchain.PollingInterval == 0 {
		cfg.Blockchain.PollingInterval = 10 * time.Second
	}

	// Bridge
	if cfg.Bridge.PollInterval == 0 {
		cfg.Bridge.PollInterval = 15 * time.Second
	}
	if cfg.Bridge.Timeout == 0 {
		cfg.Bridge.Timeout = 10 * time.Minute
	}
	if cfg.Bridge.HistorySize == 0 {
		cfg.Bridge.HistorySize = 100
	}

	// Staking
	if cfg.Staking.Edition == "" {
		cfg.Staking.Edition = "v2"
	}
	if cfg.Staking.RefreshInterval == 0 {
		cfg.Staking.RefreshInterval = 30 * time.Second
	}

	// normalizes private key
	cfg.Wallet.PrivateKey = strings.TrimPrefix(cfg.Wallet.PrivateKey, "0x")

	// Log
	if cfg.Log.LevelApp == "" {
		cfg.Log.LevelApp = "debug"
	}
	if cfg.Log.LevelBridge == "" {
		cfg.Log.LevelBridge = "info"
	}
	if cfg.Log.LevelEth == "" {
		cfg.Log.LevelEth = "info"
	}
	if cfg.Log.LevelRewards == "" {
		cfg.Log.LevelRewards = "info"
	}

	// Web
	if cfg.Web.Address == "" {
		cfg.Web.Address = "0.0.0.0:8080"
	}
	if cfg.Web.PublicUrl == "" {
		cfg.Web.PublicUrl = "http://localhost:8080"
	}
}

// GetSanitized returns a copy of the config with sensitive data removed
// explicitly adding each field here to avoid accidentally leaking sensitive data
func (cfg *Config) GetSanitized() interface{} {
	publicCfg := Config{}

	publicCfg.Blockchain.EthNodeAddress = cfg.Blockchain.EthNodeAddress
	publicCfg.Blockchain.DestNodeAddress = cfg.Blockchain.DestNodeAddress
	publicCfg.Blockchain.PollingInterval = cfg.Blockchain.PollingInterval
	publicCfg.Blockchain.MaxReconnects = cfg.Blockchain.MaxReconnects
	publicCfg.Blockchain.EthLegacyTx = cfg.Blockchain.EthLegacyTx

	publicCfg.Bridge.PollInterval = cfg.Bridge.PollInterval
	publicCfg.Bridge.Timeout = cfg.Bridge.Timeout
	publicCfg.Bridge.HistorySize = cfg.Bridge.HistorySize

	publicCfg.Environment = cfg.Environment

	publicCfg.Log.Color = cfg.Log.Color
	publicCfg.Log.FolderPath = cfg.Log.FolderPath
	publicCfg.Log.IsProd = cfg.Log.IsProd
	publicCfg.Log.JSON = cfg.Log.JSON
	publicCfg.Log.LevelApp = cfg.Log.LevelApp
	publicCfg.Log.LevelBridge = cfg.Log.LevelBridge
	publicCfg.Log.LevelEth = cfg.Log.LevelEth
	publicCfg.Log.LevelRewards = cfg.Log.LevelRewards

	publicCfg.Staking.Edition = cfg.Staking.Edition
	publicCfg.Staking.PoolID = cfg.Staking.PoolID
	publicCfg.Staking.DistributionAddress = cfg.Staking.DistributionAddress
	publicCfg.Staking.RefreshInterval = cfg.Staking.RefreshInterval

	publicCfg.Web.Address = cfg.Web.Address
	publicCfg.Web.PublicUrl = cfg.Web.PublicUrl

	return publicCfg
}
