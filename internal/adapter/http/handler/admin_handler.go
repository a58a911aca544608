package handler

import (
	"time"

	"proxy-payout-gateway/internal/adapter/http/dto"
	"proxy-payout-gateway/internal/core/ports"
	"proxy-payout-gateway/pkg/apperror"
	"proxy-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles vault administration endpoints.
type AdminHandler struct {
	vault ports.KeyVault
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(vault ports.KeyVault) *AdminHandler {
	return &AdminHandler{vault: vault}
}

// AddEmployee handles POST /api/admin/add-employee.
func (h *AdminHandler) AddEmployee(c *gin.Context) {
	var req dto.AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.vault.Add(c.Request.Context(), req.Address, req.PrivateKey, req.Name); err != nil {
		response.Error(c, err)
		return
	}

	// Echo the address as submitted: base58check is case-sensitive, so the
	// lowercased vault key is not a usable address.
	response.Created(c, dto.AddEmployeeResponse{Address: req.Address})
}

// ListEmployees handles GET /api/admin/employees.
func (h *AdminHandler) ListEmployees(c *gin.Context) {
	employees, err := h.vault.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, dto.EmployeeResponse{
			Address:   e.Address,
			Name:      e.Name,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	response.OK(c, dto.EmployeeListResponse{Items: items, Total: len(items)})
}

// RemoveEmployee handles DELETE /api/admin/employee/:address.
func (h *AdminHandler) RemoveEmployee(c *gin.Context) {
	address := c.Param("address")

	if err := h.vault.Remove(c.Request.Context(), address); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"address": address})
}
