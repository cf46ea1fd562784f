package tradecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildCalendar(t *testing.T) {
	trades := []ClosedTrade{
		{ProfitLoss: 100, EntryDate: day(2026, 2, 3)},
		{ProfitLoss: -40, EntryDate: day(2026, 2, 3)},
		{ProfitLoss: -20, EntryDate: day(2026, 2, 10)},
		{ProfitLoss: 500, EntryDate: day(2026, 3, 1)},
	}

	cal := BuildCalendar(trades, 2026, time.February)
	assert.Equal(t, "2026-02", cal.Month)
	assert.Len(t, cal.Days, 28)

	assert.Equal(t, CalendarDay{Date: "2026-02-01", DayOfMonth: 1}, cal.Days[0])
	assert.Equal(t, CalendarDay{
		Date: "2026-02-03", DayOfMonth: 3, Profit: 60, Volume: 140, TradeCount: 2, HasTrading: true,
	}, cal.Days[2])
	assert.True(t, cal.Days[9].HasTrading)
	assert.Equal(t, "2026-02-28", cal.Days[27].Date)

	assert.Equal(t, CalendarSummary{
		TotalProfit: 40, TotalVolume: 160, TotalTrades: 3, ProfitableDays: 1, TotalDays: 2,
	}, cal.Summary)
}

func TestBuildCalendarEmptyMonth(t *testing.T) {
	cal := BuildCalendar(nil, 2024, time.February)
	assert.Len(t, cal.Days, 29)
	assert.Equal(t, CalendarSummary{}, cal.Summary)
	for _, d := range cal.Days {
		assert.False(t, d.HasTrading)
	}
}
