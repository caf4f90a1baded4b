package main

import (
	"context"
	"math/big"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/MorpheusAIs/capital-router/internal/bridge"
	"github.com/MorpheusAIs/capital-router/internal/cache"
	"github.com/MorpheusAIs/capital-router/internal/config"
	"github.com/MorpheusAIs/capital-router/internal/handlers/httphandlers"
	"github.com/MorpheusAIs/capital-router/internal/lib"
	"github.com/MorpheusAIs/capital-router/internal/powerfactor"
	"github.com/MorpheusAIs/capital-router/internal/repositories/contracts"
	"github.com/MorpheusAIs/capital-router/internal/repositories/registry"
	"github.com/MorpheusAIs/capital-router/internal/repositories/wallet"
	"github.com/MorpheusAIs/capital-router/internal/rewards"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load(".env")

	var cfg config.Config
	err := config.LoadConfig(&cfg, &os.Args)
	if err != nil {
		panic(err)
	}
	cfg.SetDefaults()

	log, err := lib.NewLogger(cfg.Log.LevelApp, cfg.Log.Color, cfg.Log.IsProd, cfg.Log.JSON, cfg.Log.FolderPath)
	if err != nil {
		panic(err)
	}

	ethLog, err := lib.NewLogger(cfg.Log.LevelEth, cfg.Log.Color, cfg.Log.IsProd, cfg.Log.JSON, cfg.Log.FolderPath)
	if err != nil {
		panic(err)
	}

	rewardsLog, err := lib.NewLogger(cfg.Log.LevelRewards, cfg.Log.Color, cfg.Log.IsProd, cfg.Log.JSON, cfg.Log.FolderPath)
	if err != nil {
		panic(err)
	}

	bridgeLog, err := lib.NewLogger(cfg.Log.LevelBridge, cfg.Log.Color, cfg.Log.IsProd, cfg.Log.JSON, cfg.Log.FolderPath)
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = log.Sync()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-shutdownChan
		log.Warnf("Received signal: %s", s)
		cancel()

		s = <-shutdownChan
		log.Warnf("Received signal: %s. Forcing exit...", s)
		os.Exit(1)
	}()

	sourceClient, err := contracts.DialContext(ctx, cfg.Blockchain.EthNodeAddress)
	if err != nil {
		log.Fatalf("cannot connect to source chain node: %s", err)
	}
	destClient, err := contracts.DialContext(ctx, cfg.Blockchain.DestNodeAddress)
	if err != nil {
		log.Fatalf("cannot connect to destination chain node: %s", err)
	}

	sourceChainID, err := sourceClient.ChainID(ctx)
	if err != nil {
		log.Fatalf("cannot read source chain id: %s", err)
	}
	log.Infof("connected to source chain %d", sourceChainID)

	var w *wallet.EthereumWallet
	if cfg.Wallet.PrivateKey != "" {
		w, err = wallet.NewEthereumWalletFromPrivateKey(cfg.Wallet.PrivateKey)
	} else {
		w, err = wallet.NewEthereumWalletFromMnemonic(cfg.Wallet.Mnemonic, cfg.Wallet.AccountIndex)
	}
	if err != nil {
		log.Fatalf("cannot create wallet: %s", err)
	}
	log.Infof("using wallet %s", w.GetAccountAddress())

	deployments := registry.New()
	if cfg.Staking.DistributionAddress != "" {
		deployments.Override(sourceChainID.Uint64(), "distribution", cfg.Environment, common.HexToAddress(cfg.Staking.DistributionAddress))
	}
	distributionAddr, ok := deployments.Resolve(sourceChainID.Uint64(), "distribution", cfg.Environment)
	if !ok {
		log.Warnf("distribution contract is not deployed on chain %d (%s)", sourceChainID, cfg.Environment)
	}

	edition, err := powerfactor.EditionByName(cfg.Staking.Edition)
	if err != nil {
		log.Fatalf("cannot resolve staking edition: %s", err)
	}

	pool := contracts.NewDepositPoolEthereum(
		distributionAddr,
		big.NewInt(cfg.Staking.PoolID),
		"source",
		cfg.Environment,
		sourceClient,
		cache.New[*rewards.PoolRateData](),
		ethLog.Named("POOL"),
	)
	pool.SetLegacyTx(cfg.Blockchain.EthLegacyTx)

	estimator := rewards.NewEstimator(pool, edition, cfg.Staking.RefreshInterval, rewardsLog)
	estimator.SetEnabled(true)

	destTokens := contracts.NewERC20("destination", destClient, ethLog.Named("ERC20"))
	history := bridge.NewHistory(cfg.Bridge.HistorySize)
	monitor := bridge.NewMonitor(ctx, destTokens, bridge.NewLogNotifier(bridgeLog), history, cfg.Bridge.PollInterval, cfg.Bridge.Timeout, bridgeLog)
	monitor.SetOnComplete(estimator.Invalidate)
	defer monitor.Stop()

	publicUrl, err := url.Parse(cfg.Web.PublicUrl)
	if err != nil {
		log.Fatalf("invalid public url: %s", err)
	}

	handl := httphandlers.NewHTTPHandler(edition, estimator, monitor, history, pool, w, &cfg, publicUrl, log.Named("HTTP"))

	g, errCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return estimator.Run(errCtx)
	})

	g.Go(func() error {
		addr := cfg.Web.Address
		log.Infof("http server is listening: %s", addr)
		return handl.Run(addr)
	})

	err = g.Wait()
	log.Infof("App exited due to %s", err)
}
