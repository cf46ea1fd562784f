package tradecalc

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day key format
const DateLayout = "2006-01-02"

// EquityPoint is the account balance at the close of a trading day
type EquityPoint struct {
	Date        string  `json:"date"`
	Balance     float64 `json:"balance"`
	DailyProfit float64 `json:"daily_profit"`
	Trades      int     `json:"trades"`
}

type dayTotal struct {
	profit float64
	volume float64
	count  int
}

// groupByDay buckets trades by the calendar date of EntryDate in its own location
func groupByDay(trades []ClosedTrade) map[string]*dayTotal {
	days := make(map[string]*dayTotal)
	for _, t := range trades {
		key := t.EntryDate.Format(DateLayout)
		d, ok := days[key]
		if !ok {
			d = &dayTotal{}
			days[key] = d
		}
		d.profit += t.ProfitLoss
		d.volume += abs(t.ProfitLoss)
		d.count++
	}
	return days
}

// EquityCurve folds daily net P/L into a running balance seeded with
// initialBalance. A seed point is placed the day before the first trade; with
// no trades the curve is a single seed point dated now.
func EquityCurve(trades []ClosedTrade, initialBalance float64, now time.Time) []EquityPoint {
	if len(trades) == 0 {
		return []EquityPoint{{Date: now.Format(DateLayout), Balance: initialBalance}}
	}

	days := groupByDay(trades)
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	curve := make([]EquityPoint, 0, len(keys)+1)
	first, _ := time.Parse(DateLayout, keys[0])
	curve = append(curve, EquityPoint{
		Date:    first.AddDate(0, 0, -1).Format(DateLayout),
		Balance: initialBalance,
	})

	balance := initialBalance
	for _, k := range keys {
		d := days[k]
		balance += d.profit
		curve = append(curve, EquityPoint{
			Date:        k,
			Balance:     balance,
			DailyProfit: d.profit,
			Trades:      d.count,
		})
	}
	return curve
}

// PeakBalance returns the highest balance on the curve
func PeakBalance(curve []EquityPoint) float64 {
	var peak float64
	for i, p := range curve {
		if i == 0 || p.Balance > peak {
			peak = p.Balance
		}
	}
	return peak
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
