package httphandlers

import (
	"math/big"
	"net/http"
	"time"

	"github.com/MorpheusAIs/capital-router/internal/powerfactor"
	"github.com/MorpheusAIs/capital-router/internal/rewards"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// GetPowerFactor formats a raw multiplier into the display value. The raw
// value comes either from the "raw" query param or from a contract read for
// the "account" query param.
func (h *HTTPHandler) GetPowerFactor(ctx *gin.Context) {
	if rawStr := ctx.Query("raw"); rawStr != "" {
		raw, ok := new(big.Int).SetString(rawStr, 10)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "raw is not a base-10 integer"})
			return
		}
		ctx.JSON(200, PowerFactorResponse{PowerFactor: h.edition.FormatPowerFactor(raw)})
		return
	}

	accountStr := ctx.Query("account")
	if !common.IsHexAddress(accountStr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "account is not an address"})
		return
	}

	raw, err := h.pool.CurrentUserMultiplier(ctx.Request.Context(), common.HexToAddress(accountStr))
	if err != nil {
		h.log.Warnf("user multiplier read failed: %s", err)
		// the UI shows the neutral multiplier rather than an error state
		ctx.JSON(200, PowerFactorResponse{PowerFactor: h.edition.FormatPowerFactor(nil), Error: err.Error()})
		return
	}

	ctx.JSON(200, PowerFactorResponse{PowerFactor: h.edition.FormatPowerFactor(raw)})
}

func (h *HTTPHandler) GetUnlockDate(ctx *gin.Context) {
	value := ctx.Query("value")
	unit := powerfactor.Unit(ctx.Query("unit"))

	unlock, ok := powerfactor.CalculateUnlockDate(value, unit, time.Now())
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lock duration is not valid"})
		return
	}

	ctx.JSON(200, UnlockDateResponse{
		UnlockDate:  unlock.Format(time.RFC3339),
		LockSeconds: h.edition.DurationToSeconds(value, unit),
	})
}

func (h *HTTPHandler) ValidateDuration(ctx *gin.Context) {
	res := h.edition.ValidateLockDuration(ctx.Query("value"), powerfactor.Unit(ctx.Query("unit")))
	ctx.JSON(200, ValidationResponse{
		IsValid: res.IsValid,
		Error:   res.ErrorMessage,
		Warning: res.WarningMessage,
	})
}

// Stake deposits into the pool with a claim lock. The deposit invalidates the
// estimator snapshot so the next estimate reflects the moved chain state.
func (h *HTTPHandler) Stake(ctx *gin.Context) {
	var req StakeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive base-10 integer in base units"})
		return
	}

	validation := h.edition.ValidateLockDuration(req.LockValue, powerfactor.Unit(req.LockUnit))
	if !validation.IsValid {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validation.ErrorMessage})
		return
	}
	lockSeconds := h.edition.DurationToSeconds(req.LockValue, powerfactor.Unit(req.LockUnit))
	if lockSeconds == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lock duration is not valid"})
		return
	}

	if err := h.pool.Stake(ctx.Request.Context(), amount, lockSeconds, h.wallet.GetPrivateKey()); err != nil {
		h.log.Errorf("stake failed: %s", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.estimator.Invalidate()
	ctx.JSON(200, TxResponse{Status: "ok", Warning: validation.WarningMessage})
}

func (h *HTTPHandler) Withdraw(ctx *gin.Context) {
	var req WithdrawRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive base-10 integer in base units"})
		return
	}

	if err := h.pool.Withdraw(ctx.Request.Context(), amount, h.wallet.GetPrivateKey()); err != nil {
		h.log.Errorf("withdraw failed: %s", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.estimator.Invalidate()
	ctx.JSON(200, TxResponse{Status: "ok"})
}

// Claim sends accumulated rewards to the receiver. Fee is the cross-chain
// message fee in wei attached to the payable call; empty means zero.
func (h *HTTPHandler) Claim(ctx *gin.Context) {
	var req ClaimRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !common.IsHexAddress(req.Receiver) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "receiver is not an address"})
		return
	}

	fee := big.NewInt(0)
	if req.Fee != "" {
		parsed, ok := new(big.Int).SetString(req.Fee, 10)
		if !ok || parsed.Sign() < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "fee must be a non-negative base-10 integer in wei"})
			return
		}
		fee = parsed
	}

	if err := h.pool.Claim(ctx.Request.Context(), common.HexToAddress(req.Receiver), fee, h.wallet.GetPrivateKey()); err != nil {
		h.log.Errorf("claim failed: %s", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.estimator.Invalidate()
	ctx.JSON(200, TxResponse{Status: "ok"})
}

func (h *HTTPHandler) Estimate(ctx *gin.Context) {
	var req EstimateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.estimator.Estimate(rewards.EstimateInput{
		Amount:        req.Amount,
		LockValue:     req.LockValue,
		LockUnit:      powerfactor.Unit(req.LockUnit),
		TokenDecimals: req.TokenDecimals,
		PowerFactor:   req.PowerFactor,
	})

	resp := EstimateResponse{
		EstimatedRewards: res.EstimatedRewards,
		PowerFactor:      res.PowerFactor,
		State:            string(res.State),
		IsValid:          res.IsValid,
		Error:            res.Error,
		Warning:          res.Warning,
	}
	if res.UnlockDate != nil {
		resp.UnlockDate = res.UnlockDate.Format(time.RFC3339)
	}
	ctx.JSON(200, resp)
}
