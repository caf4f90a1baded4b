package httphandlers

import (
	"context"
	"math/big"
	"net/url"

	"github.com/MorpheusAIs/capital-router/internal/bridge"
	"github.com/MorpheusAIs/capital-router/internal/config"
	"github.com/MorpheusAIs/capital-router/internal/interfaces"
	"github.com/MorpheusAIs/capital-router/internal/powerfactor"
	"github.com/MorpheusAIs/capital-router/internal/repositories/wallet"
	"github.com/MorpheusAIs/capital-router/internal/rewards"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// StakingPool is the subset of the deposit pool repository the API depends on
type StakingPool interface {
	CurrentUserMultiplier(ctx context.Context, user common.Address) (*big.Int, error)
	Stake(ctx context.Context, amount *big.Int, lockSeconds int64, privKey string) error
	Withdraw(ctx context.Context, amount *big.Int, privKey string) error
	Claim(ctx context.Context, receiver common.Address, msgFee *big.Int, privKey string) error
}

type HTTPHandler struct {
	edition   powerfactor.Edition
	estimator *rewards.Estimator
	monitor   *bridge.Monitor
	history   *bridge.History
	pool      StakingPool
	wallet    *wallet.EthereumWallet
	cfg       *config.Config
	publicUrl *url.URL
	log       interfaces.ILogger
}

func NewHTTPHandler(edition powerfactor.Edition, estimator *rewards.Estimator, monitor *bridge.Monitor, history *bridge.History, pool StakingPool, wlt *wallet.EthereumWallet, cfg *config.Config, publicUrl *url.URL, log interfaces.ILogger) *gin.Engine {
	handl := &HTTPHandler{
		edition:   edition,
		estimator: estimator,
		monitor:   monitor,
		history:   history,
		pool:      pool,
		wallet:    wlt,
		cfg:       cfg,
		publicUrl: publicUrl,
		log:       log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthcheck", handl.HealthCheck)
	r.GET("/config", handl.GetConfig)

	r.GET("/power-factor", handl.GetPowerFactor)
	r.GET("/unlock-date", handl.GetUnlockDate)
	r.GET("/validate-duration", handl.ValidateDuration)
	r.POST("/estimate", handl.Estimate)

	r.POST("/stake", handl.Stake)
	r.POST("/withdraw", handl.Withdraw)
	r.POST("/claim", handl.Claim)

	r.POST("/bridge/monitor", handl.MonitorTransfer)
	r.GET("/bridge/state", handl.GetBridgeState)
	r.GET("/bridge/transfers", handl.GetBridgeTransfers)

	err := r.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status":  "healthy",
		"version": config.BuildVersion,
	})
}

func (h *HTTPHandler) GetConfig(ctx *gin.Context) {
	ctx.JSON(200, ConfigResponse{
		Version: config.BuildVersion,
		Config:  h.cfg.GetSanitized(),
	})
}
