package tradecalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPips(t *testing.T) {
	assert.Equal(t, 50.0, Pips("EURUSD", 1.1000, 1.1050, DirectionLong))
	assert.Equal(t, -50.0, Pips("EURUSD", 1.1000, 1.1050, DirectionShort))
	assert.Equal(t, 50.0, Pips("USDJPY", 150.00, 149.50, DirectionShort))
	assert.InDelta(t, 15.0, Pips("XAUUSD", 2000.0, 2001.5, DirectionLong), 1e-9)
	assert.InDelta(t, -15.0, Pips("XAUUSD", 2000.0, 2001.5, DirectionShort), 1e-9)
}

func TestProfitLoss(t *testing.T) {
	assert.Equal(t, 100.0, ProfitLoss(10, 1, "XAUUSD"))
	assert.Equal(t, 100.0, ProfitLoss(10, 1, "EURUSD"))
	assert.Equal(t, -25.0, ProfitLoss(-50, 0.05, "GBPUSD"))
	assert.Equal(t, 0.0, ProfitLoss(0, 2, "BTCUSD"))
}

func TestProfitLossPercent(t *testing.T) {
	assert.Equal(t, 0.0, ProfitLossPercent(100, 0))
	assert.Equal(t, 1.0, ProfitLossPercent(100, 10000))
	assert.Equal(t, -0.33, ProfitLossPercent(-33.333, 10000))
	assert.Equal(t, 3.33, ProfitLossPercent(333.333, 10000))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.12, Round2(-0.125))
	assert.Equal(t, 2.5, Round1(2.45))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" LONG ")
	require.NoError(t, err)
	assert.Equal(t, DirectionLong, d)

	d, err = ParseDirection("short")
	require.NoError(t, err)
	assert.Equal(t, DirectionShort, d)

	_, err = ParseDirection("buy")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestEvaluate(t *testing.T) {
	res, err := Evaluate(Trade{
		Symbol:     "EURUSD",
		Direction:  DirectionLong,
		EntryPrice: 1.1000,
		ExitPrice:  1.1050,
		LotSize:    0.5,
		EntryTime:  "16:30",
	}, 10000)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.Pips)
	assert.Equal(t, 250.0, res.ProfitLoss)
	assert.Equal(t, 2.5, res.ProfitLossPercent)
	assert.Equal(t, SessionLondon, res.Session)

	_, err = Evaluate(Trade{Symbol: "EURUSD", EntryTime: "25:00"}, 10000)
	assert.ErrorIs(t, err, ErrInvalidClock)
}
