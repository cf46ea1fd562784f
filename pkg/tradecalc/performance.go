package tradecalc

import (
	"math"
	"sort"
	"time"
)

// InfiniteProfitFactor stands in for an unbounded profit factor when there
// are winning trades but no losing ones.
const InfiniteProfitFactor = 999.0

// ClosedTrade is the slice of a stored trade the aggregator needs
type ClosedTrade struct {
	Symbol     string    `json:"symbol"`
	Session    Session   `json:"session"`
	EntryDate  time.Time `json:"entry_date"`
	LotSize    float64   `json:"lot_size"`
	ProfitLoss float64   `json:"profit_loss"`
}

// AnalyticsSummary holds the headline performance statistics
type AnalyticsSummary struct {
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	BreakEvenTrades int     `json:"break_even_trades"`
	GrossProfit     float64 `json:"gross_profit"`
	GrossLoss       float64 `json:"gross_loss"`
	TotalNetProfit  float64 `json:"total_net_profit"`
	TotalLots       float64 `json:"total_lots"`
	WinRate         float64 `json:"win_rate"`
	ProfitFactor    float64 `json:"profit_factor"`
	AverageWin      float64 `json:"average_win"`
	AverageLoss     float64 `json:"average_loss"`
	Expectancy      float64 `json:"expectancy"`
}

// Summarize folds the trades into summary statistics. Gross loss and average
// loss stay negative. Every ratio with a zero denominator is reported as 0.
func Summarize(trades []ClosedTrade) AnalyticsSummary {
	var s AnalyticsSummary
	for _, t := range trades {
		s.TotalTrades++
		s.TotalNetProfit += t.ProfitLoss
		s.TotalLots += t.LotSize
		switch {
		case t.ProfitLoss > 0:
			s.WinningTrades++
			s.GrossProfit += t.ProfitLoss
		case t.ProfitLoss < 0:
			s.LosingTrades++
			s.GrossLoss += t.ProfitLoss
		default:
			s.BreakEvenTrades++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
		s.Expectancy = s.TotalNetProfit / float64(s.TotalTrades)
	}
	s.ProfitFactor = ProfitFactor(s.GrossProfit, s.GrossLoss)
	if s.WinningTrades > 0 {
		s.AverageWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AverageLoss = s.GrossLoss / float64(s.LosingTrades)
	}
	return s
}

// ProfitFactor returns grossProfit / |grossLoss|, InfiniteProfitFactor when
// there is profit but no loss, and 0 when both are zero.
func ProfitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss != 0 {
		return grossProfit / math.Abs(grossLoss)
	}
	if grossProfit > 0 {
		return InfiniteProfitFactor
	}
	return 0
}

// Dimension selects the grouping key for a breakdown
type Dimension string

const (
	BySymbol  Dimension = "symbol"
	BySession Dimension = "session"
)

// BreakdownRow is the performance of one group
type BreakdownRow struct {
	Key         string  `json:"key"`
	TotalTrades int     `json:"total_trades"`
	TotalPnl    float64 `json:"total_pnl"`
	WinRate     float64 `json:"win_rate"`
}

// BreakdownBy groups trades by symbol or session, most profitable first
func BreakdownBy(trades []ClosedTrade, dim Dimension) []BreakdownRow {
	type acc struct {
		total, won int
		pnl        float64
	}
	groups := make(map[string]*acc)
	for _, t := range trades {
		key := t.Symbol
		if dim == BySession {
			key = string(t.Session)
		}
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.total++
		g.pnl += t.ProfitLoss
		if t.ProfitLoss > 0 {
			g.won++
		}
	}

	rows := make([]BreakdownRow, 0, len(groups))
	for key, g := range groups {
		rows = append(rows, BreakdownRow{
			Key:         key,
			TotalTrades: g.total,
			TotalPnl:    g.pnl,
			WinRate:     float64(g.won) / float64(g.total) * 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPnl != rows[j].TotalPnl {
			return rows[i].TotalPnl > rows[j].TotalPnl
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}
