package tradecalc

import "time"

// CalendarDay is one cell of the monthly P/L heatmap
type CalendarDay struct {
	Date       string  `json:"date"`
	DayOfMonth int     `json:"day_of_month"`
	Profit     float64 `json:"profit"`
	Volume     float64 `json:"volume"`
	TradeCount int     `json:"trade_count"`
	HasTrading bool    `json:"has_trading"`
}

// CalendarSummary aggregates a month
type CalendarSummary struct {
	TotalProfit    float64 `json:"total_profit"`
	TotalVolume    float64 `json:"total_volume"`
	TotalTrades    int     `json:"total_trades"`
	ProfitableDays int     `json:"profitable_days"`
	TotalDays      int     `json:"total_days"`
}

// Calendar is a full month of days plus its summary
type Calendar struct {
	Month   string          `json:"month"`
	Summary CalendarSummary `json:"summary"`
	Days    []CalendarDay   `json:"days"`
}

// MonthRange returns the first instant of the month and the first instant of
// the following month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// BuildCalendar buckets the trades that fall in the given month by day and
// emits every day of the month, traded or not. Volume is the sum of |P/L|.
func BuildCalendar(trades []ClosedTrade, year int, month time.Month) Calendar {
	start, end := MonthRange(year, month, time.UTC)
	prefix := start.Format("2006-01")

	inMonth := make([]ClosedTrade, 0, len(trades))
	for _, t := range trades {
		if t.EntryDate.Format("2006-01") == prefix {
			inMonth = append(inMonth, t)
		}
	}
	days := groupByDay(inMonth)

	cal := Calendar{Month: prefix}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		day := CalendarDay{Date: key, DayOfMonth: d.Day()}
		if total, ok := days[key]; ok {
			day.Profit = total.profit
			day.Volume = total.volume
			day.TradeCount = total.count
			day.HasTrading = true
		}
		cal.Days = append(cal.Days, day)
	}

	for _, total := range days {
		cal.Summary.TotalProfit += total.profit
		cal.Summary.TotalVolume += total.volume
		if total.profit > 0 {
			cal.Summary.ProfitableDays++
		}
	}
	cal.Summary.TotalTrades = len(inMonth)
	cal.Summary.TotalDays = len(days)
	return cal
}
