package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/service"
	"github.com/trade-journal/pkg/response"
	"github.com/trade-journal/pkg/tradecalc"
)

// AnalyticsHandler handles performance analytics API requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetStats returns the headline performance statistics
// GET /api/v1/analytics/stats
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	stats, err := h.analyticsService.Stats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "failed to compute stats")
		return
	}
	response.Success(c, stats)
}

// GetEquityCurve returns the daily balance curve
// GET /api/v1/analytics/equity-curve
func (h *AnalyticsHandler) GetEquityCurve(c *gin.Context) {
	curve, err := h.analyticsService.EquityCurve(c.Request.Context(), middleware.GetUserID(c), time.Now().UTC())
	if err != nil {
		response.InternalError(c, "failed to compute equity curve")
		return
	}
	response.Success(c, curve)
}

// GetBreakdownBySymbol groups performance by symbol
// GET /api/v1/analytics/breakdown-by-symbol
func (h *AnalyticsHandler) GetBreakdownBySymbol(c *gin.Context) {
	h.breakdown(c, tradecalc.BySymbol)
}

// GetBreakdownBySession groups performance by session
// GET /api/v1/analytics/breakdown-by-session
func (h *AnalyticsHandler) GetBreakdownBySession(c *gin.Context) {
	h.breakdown(c, tradecalc.BySession)
}

func (h *AnalyticsHandler) breakdown(c *gin.Context, dim tradecalc.Dimension) {
	rows, err := h.analyticsService.Breakdown(c.Request.Context(), middleware.GetUserID(c), dim)
	if err != nil {
		response.InternalError(c, "failed to compute breakdown")
		return
	}
	response.Success(c, rows)
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	analytics := rg.Group("/analytics")
	analytics.Use(authMiddleware)
	{
		analytics.GET("/stats", h.GetStats)
		analytics.GET("/equity-curve", h.GetEquityCurve)
		analytics.GET("/breakdown-by-symbol", h.GetBreakdownBySymbol)
		analytics.GET("/breakdown-by-session", h.GetBreakdownBySession)
	}
}
