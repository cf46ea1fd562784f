package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/internal/service"
	"github.com/trade-journal/pkg/response"
)

// TradeHandler handles trade journal API requests
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// tradeError writes the response for an error returned by TradeService
func tradeError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrTradeNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateTrade):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrMissingSymbol),
		errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidTime),
		errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrExitBeforeEntry),
		errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidCSV):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, "failed to "+action)
	}
}

func tradeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid trade id")
		return 0, false
	}
	return uint(id), true
}

// CreateTrade journals a trade
// POST /api/v1/trades
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req service.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	trade, err := h.tradeService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		tradeError(c, err, "create trade")
		return
	}

	response.Created(c, trade)
}

// GetTrades lists the user's trades
// GET /api/v1/trades?page=1&page_size=20&symbol=&direction=&start_date=&end_date=
func (h *TradeHandler) GetTrades(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := repository.TradeFilter{
		Symbol:    c.Query("symbol"),
		Direction: c.Query("direction"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	trades, total, err := h.tradeService.List(middleware.GetUserID(c), filter, page, pageSize)
	if err != nil {
		tradeError(c, err, "get trades")
		return
	}

	response.SuccessPaginated(c, trades, total, page, pageSize)
}

// GetTrade returns a single trade
// GET /api/v1/trades/:id
func (h *TradeHandler) GetTrade(c *gin.Context) {
	id, ok := tradeID(c)
	if !ok {
		return
	}

	trade, err := h.tradeService.Get(middleware.GetUserID(c), id)
	if err != nil {
		tradeError(c, err, "get trade")
		return
	}

	response.Success(c, trade)
}

// UpdateTrade applies a partial update
// PUT /api/v1/trades/:id
func (h *TradeHandler) UpdateTrade(c *gin.Context) {
	id, ok := tradeID(c)
	if !ok {
		return
	}

	var req service.UpdateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	trade, err := h.tradeService.Update(c.Request.Context(), middleware.GetUserID(c), id, &req)
	if err != nil {
		tradeError(c, err, "update trade")
		return
	}

	response.Success(c, trade)
}

// DeleteTrade removes a trade
// DELETE /api/v1/trades/:id
func (h *TradeHandler) DeleteTrade(c *gin.Context) {
	id, ok := tradeID(c)
	if !ok {
		return
	}

	if err := h.tradeService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		tradeError(c, err, "delete trade")
		return
	}

	response.Success(c, gin.H{"message": "trade deleted"})
}

// GetCalendar returns the monthly P/L heatmap
// GET /api/v1/trades/calendar?month=2024-01
func (h *TradeHandler) GetCalendar(c *gin.Context) {
	cal, err := h.tradeService.Calendar(middleware.GetUserID(c), c.Query("month"))
	if err != nil {
		tradeError(c, err, "build calendar")
		return
	}

	response.Success(c, cal)
}

// ImportTrades imports a CSV journal uploaded as the "file" form field
// POST /api/v1/trades/import
func (h *TradeHandler) ImportTrades(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.tradeService.ImportCSV(c.Request.Context(), middleware.GetUserID(c), file)
	if err != nil {
		tradeError(c, err, "import trades")
		return
	}

	response.Success(c, result)
}

// ExportTrades downloads the whole journal as CSV
// GET /api/v1/trades/export
func (h *TradeHandler) ExportTrades(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.tradeService.ExportCSV(middleware.GetUserID(c), &buf); err != nil {
		tradeError(c, err, "export trades")
		return
	}

	filename := fmt.Sprintf("trades-%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// RegisterRoutes registers trade routes
func (h *TradeHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	trades := rg.Group("/trades")
	trades.Use(authMiddleware)
	{
		trades.POST("", h.CreateTrade)
		trades.GET("", h.GetTrades)
		trades.GET("/calendar", h.GetCalendar)
		trades.POST("/import", h.ImportTrades)
		trades.GET("/export", h.ExportTrades)
		trades.GET("/:id", h.GetTrade)
		trades.PUT("/:id", h.UpdateTrade)
		trades.DELETE("/:id", h.DeleteTrade)
	}
}
