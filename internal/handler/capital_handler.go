package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/service"
	"github.com/trade-journal/pkg/response"
)

// CapitalHandler handles capital and risk settings API requests
type CapitalHandler struct {
	capitalService *service.CapitalService
}

// NewCapitalHandler creates a new CapitalHandler
func NewCapitalHandler(capitalService *service.CapitalService) *CapitalHandler {
	return &CapitalHandler{
		capitalService: capitalService,
	}
}

// GetSummary returns balances and risk limit usage
// GET /api/v1/capital/summary
func (h *CapitalHandler) GetSummary(c *gin.Context) {
	summary, err := h.capitalService.Summary(middleware.GetUserID(c), time.Now())
	if err != nil {
		response.InternalError(c, "failed to get capital summary")
		return
	}

	response.Success(c, summary)
}

// UpdateSettings creates or replaces the capital settings
// POST /api/v1/capital/settings
func (h *CapitalHandler) UpdateSettings(c *gin.Context) {
	var req service.CapitalSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	capital, err := h.capitalService.UpdateSettings(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInitialBalance) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to update capital settings")
		return
	}

	response.Success(c, capital)
}

// RegisterRoutes registers capital routes
func (h *CapitalHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	capital := rg.Group("/capital")
	capital.Use(authMiddleware)
	{
		capital.GET("/summary", h.GetSummary)
		capital.POST("/settings", h.UpdateSettings)
	}
}
