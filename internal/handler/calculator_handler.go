package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trade-journal/pkg/response"
	"github.com/trade-journal/pkg/tradecalc"
)

// CalculatorHandler exposes the calculation engine without persistence
type CalculatorHandler struct{}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// LotSizeRequest is a position sizing request. TakeProfit is optional and
// only feeds the reward:risk ratio.
type LotSizeRequest struct {
	tradecalc.RiskInput
	TakeProfit *float64 `json:"take_profit"`
}

// EvaluateRequest describes a prospective trade
type EvaluateRequest struct {
	Symbol         string  `json:"symbol" binding:"required"`
	Direction      string  `json:"direction" binding:"required"`
	EntryPrice     float64 `json:"entry_price" binding:"required,gt=0"`
	ExitPrice      float64 `json:"exit_price" binding:"required,gt=0"`
	LotSize        float64 `json:"lot_size" binding:"required,gt=0"`
	EntryTime      string  `json:"entry_time" binding:"required"`
	AccountBalance float64 `json:"account_balance"`
}

// LotSize sizes a position from balance, risk and stop distance
// POST /api/v1/calculator/lot-size
func (h *CalculatorHandler) LotSize(c *gin.Context) {
	var req LotSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := tradecalc.CalculateLotSize(req.RiskInput)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	out := gin.H{
		"risk_amount":  result.RiskAmount,
		"pips_at_risk": result.PipsAtRisk,
		"lot_size":     result.LotSize,
		"instrument":   tradecalc.Classify(req.Symbol),
	}
	if req.TakeProfit != nil {
		out["reward_risk"] = tradecalc.Round2(tradecalc.RewardRisk(req.EntryPrice, req.StopLoss, *req.TakeProfit))
	}
	response.Success(c, out)
}

// Evaluate computes pips, P/L and session for a trade without storing it
// POST /api/v1/calculator/trade
func (h *CalculatorHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	direction, err := tradecalc.ParseDirection(req.Direction)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := tradecalc.Evaluate(tradecalc.Trade{
		Symbol:     req.Symbol,
		Direction:  direction,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		LotSize:    req.LotSize,
		EntryTime:  req.EntryTime,
	}, req.AccountBalance)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetInstrument returns the class and pip size of a symbol
// GET /api/v1/calculator/instrument/:symbol
func (h *CalculatorHandler) GetInstrument(c *gin.Context) {
	response.Success(c, tradecalc.Classify(c.Param("symbol")))
}

// RegisterRoutes registers calculator routes
func (h *CalculatorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	calc := rg.Group("/calculator")
	{
		calc.POST("/lot-size", h.LotSize)
		calc.POST("/trade", h.Evaluate)
		calc.GET("/instrument/:symbol", h.GetInstrument)
	}
}
