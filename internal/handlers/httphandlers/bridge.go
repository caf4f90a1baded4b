package httphandlers

import (
	"math/big"
	"net/http"

	"github.com/MorpheusAIs/capital-router/internal/bridge"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MonitorTransfer submits a transfer and starts watching the destination
// balance. The caller invokes it after the source-chain transaction is mined.
func (h *HTTPHandler) MonitorTransfer(ctx *gin.Context) {
	var req MonitorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !common.IsHexAddress(req.Token) || !common.IsHexAddress(req.Account) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "token and account must be addresses"})
		return
	}
	expected, ok := new(big.Int).SetString(req.Expected, 10)
	if !ok || expected.Sign() <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "expected must be a positive base-10 integer"})
		return
	}

	transfer := bridge.Transfer{
		ID:       uuid.New(),
		Token:    common.HexToAddress(req.Token),
		Account:  common.HexToAddress(req.Account),
		Expected: expected,
	}

	h.monitor.Submit(transfer)
	if err := h.monitor.Confirm(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(200, MonitorResponse{ID: transfer.ID.String(), State: string(h.monitor.State())})
}

func (h *HTTPHandler) GetBridgeState(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"state": string(h.monitor.State())})
}

func (h *HTTPHandler) GetBridgeTransfers(ctx *gin.Context) {
	ctx.JSON(200, h.history.Records())
}
