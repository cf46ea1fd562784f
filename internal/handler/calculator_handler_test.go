package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/pkg/tradecalc"
)

func TestCalculatorHandler_LotSize(t *testing.T) {
	router := setupRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/calculator/lot-size", "", gin.H{
		"account_balance": 10000,
		"risk_percent":    1,
		"entry_price":     1.1000,
		"stop_loss":       1.0950,
		"take_profit":     1.1100,
		"symbol":          "EURUSD",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		RiskAmount float64              `json:"risk_amount"`
		PipsAtRisk float64              `json:"pips_at_risk"`
		LotSize    float64              `json:"lot_size"`
		RewardRisk float64              `json:"reward_risk"`
		Instrument tradecalc.Instrument `json:"instrument"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 100.0, out.RiskAmount)
	assert.Equal(t, 50.0, out.PipsAtRisk)
	assert.Equal(t, 0.2, out.LotSize)
	assert.Equal(t, 2.0, out.RewardRisk)
	assert.Equal(t, tradecalc.ClassForex, out.Instrument.Class)

	cases := []struct {
		body gin.H
		want error
	}{
		{gin.H{"account_balance": 0, "risk_percent": 1, "entry_price": 1.1, "stop_loss": 1.0}, tradecalc.ErrInvalidBalance},
		{gin.H{"account_balance": 1000, "risk_percent": 1, "entry_price": 1.1}, tradecalc.ErrMissingField},
		{gin.H{"account_balance": 1000, "risk_percent": 1, "entry_price": 1.1, "stop_loss": 1.1}, tradecalc.ErrZeroRiskDistance},
		{gin.H{"account_balance": 1000, "risk_percent": 6, "entry_price": 1.1, "stop_loss": 1.0}, tradecalc.ErrRiskPercentOutOfRange},
	}
	for _, tc := range cases {
		w, env := doJSON(t, router, http.MethodPost, "/api/v1/calculator/lot-size", "", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, tc.want.Error(), env.Message)
	}
}

func TestCalculatorHandler_TradeAndInstrument(t *testing.T) {
	router := setupRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/calculator/trade", "", gin.H{
		"symbol":          "XAUUSD",
		"direction":       "short",
		"entry_price":     2000,
		"exit_price":      1995,
		"lot_size":        2,
		"entry_time":      "21:30",
		"account_balance": 5000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result tradecalc.TradeResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 50.0, result.Pips)
	assert.Equal(t, 1000.0, result.ProfitLoss)
	assert.Equal(t, 20.0, result.ProfitLossPercent)
	assert.Equal(t, tradecalc.SessionNewYork, result.Session)

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/calculator/trade", "", gin.H{
		"symbol": "EURUSD", "direction": "flat", "entry_price": 1, "exit_price": 1, "lot_size": 1, "entry_time": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, tradecalc.ErrInvalidDirection.Error(), env.Message)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/calculator/instrument/usdjpy", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inst tradecalc.Instrument
	require.NoError(t, json.Unmarshal(env.Data, &inst))
	assert.Equal(t, "USDJPY", inst.Symbol)
	assert.Equal(t, 0.01, inst.PipSize)
}
