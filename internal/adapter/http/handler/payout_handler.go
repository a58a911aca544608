package handler

import (
	"proxy-payout-gateway/internal/adapter/http/dto"
	"proxy-payout-gateway/internal/core/domain"
	"proxy-payout-gateway/internal/core/ports"
	"proxy-payout-gateway/pkg/apperror"
	"proxy-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// PayoutHandler handles payout-related endpoints.
type PayoutHandler struct {
	payoutSvc ports.PayoutService
	vault     ports.KeyVault
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutSvc ports.PayoutService, vault ports.KeyVault) *PayoutHandler {
	return &PayoutHandler{payoutSvc: payoutSvc, vault: vault}
}

// ProcessPayout handles POST /api/proxy-payout.
func (h *PayoutHandler) ProcessPayout(c *gin.Context) {
	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.payoutSvc.Execute(c.Request.Context(), domain.PayoutRequest{
		EmployeeAddress: req.EmployeeAddress,
		TargetAddress:   req.TargetAddress,
		Amount:          req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PayoutResponse{
		FromPool:        result.FromPoolTxID,
		ToTarget:        result.ToTargetTxID,
		EmployeeAddress: result.EmployeeAddress,
		TargetAddress:   result.TargetAddress,
		Amount:          result.Amount,
	})
}

// GetBalance handles GET /api/balance.
func (h *PayoutHandler) GetBalance(c *gin.Context) {
	balance, err := h.payoutSvc.PoolBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{Balance: balance})
}

// CheckEmployee handles GET /api/check-employee/:address.
func (h *PayoutHandler) CheckEmployee(c *gin.Context) {
	address := c.Param("address")

	registered, err := h.vault.Exists(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CheckEmployeeResponse{
		Address:    address,
		IsEmployee: registered,
	})
}
