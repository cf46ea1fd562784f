package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trade-journal/pkg/tradecalc"
)

// ImportSource records how a trade entered the journal
type ImportSource string

const (
	ImportManual ImportSource = "manual"
	ImportCSV    ImportSource = "csv"
)

// Trade is a closed trade in a user's journal. Pips, P/L and P/L percent are
// derived and recomputed on every write.
type Trade struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	UserID            uint                `gorm:"not null;uniqueIndex:idx_trade_dedup,priority:1;index" json:"user_id"`
	Symbol            string              `gorm:"size:20;not null;uniqueIndex:idx_trade_dedup,priority:2" json:"symbol"`
	Direction         tradecalc.Direction `gorm:"size:5;not null" json:"direction"`
	EntryDate         string              `gorm:"size:10;not null;index;uniqueIndex:idx_trade_dedup,priority:3" json:"entry_date"`
	EntryTime         string              `gorm:"size:5;not null;uniqueIndex:idx_trade_dedup,priority:4" json:"entry_time"`
	EntryPrice        float64             `gorm:"type:decimal(15,5);not null;uniqueIndex:idx_trade_dedup,priority:5" json:"entry_price"`
	LotSize           float64             `gorm:"type:decimal(10,2);not null" json:"lot_size"`
	ExitDate          string              `gorm:"size:10;not null" json:"exit_date"`
	ExitTime          string              `gorm:"size:5;not null" json:"exit_time"`
	ExitPrice         float64             `gorm:"type:decimal(15,5);not null" json:"exit_price"`
	TakeProfit        *float64            `gorm:"type:decimal(15,5)" json:"tp,omitempty"`
	StopLoss          *float64            `gorm:"type:decimal(15,5)" json:"sl,omitempty"`
	Pips              float64             `gorm:"type:decimal(10,1)" json:"pips"`
	ProfitLoss        float64             `gorm:"type:decimal(15,2)" json:"profit_loss"`
	ProfitLossPercent float64             `gorm:"type:decimal(8,2)" json:"profit_loss_percent"`
	Setup             string              `gorm:"size:100" json:"setup,omitempty"`
	Notes             string              `gorm:"type:text" json:"notes,omitempty"`
	Screenshot        string              `gorm:"size:500" json:"screenshot,omitempty"`
	Session           tradecalc.Session   `gorm:"size:10" json:"session"`
	ImportSource      ImportSource        `gorm:"size:10;not null;default:manual" json:"import_source"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// TableName specifies the table name for Trade model
func (Trade) TableName() string {
	return "trades"
}

// CalcInput returns the engine input for this trade
func (t *Trade) CalcInput() tradecalc.Trade {
	return tradecalc.Trade{
		Symbol:     t.Symbol,
		Direction:  t.Direction,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		LotSize:    t.LotSize,
		EntryTime:  t.EntryTime,
		TakeProfit: t.TakeProfit,
		StopLoss:   t.StopLoss,
	}
}

// Closed returns the view of the trade the performance aggregator consumes.
// The entry date is a calendar day, so it is anchored at UTC midnight.
func (t *Trade) Closed() tradecalc.ClosedTrade {
	entry, _ := time.Parse(tradecalc.DateLayout, t.EntryDate)
	return tradecalc.ClosedTrade{
		Symbol:     t.Symbol,
		Session:    t.Session,
		EntryDate:  entry,
		LotSize:    t.LotSize,
		ProfitLoss: t.ProfitLoss,
	}
}

// ClosedTrades converts a slice of stored trades for the aggregator
func ClosedTrades(trades []Trade) []tradecalc.ClosedTrade {
	out := make([]tradecalc.ClosedTrade, len(trades))
	for i := range trades {
		out[i] = trades[i].Closed()
	}
	return out
}

// TradeCSV is one row of an imported or exported journal. Numbers are kept
// as text so a malformed cell fails only its own row.
type TradeCSV struct {
	Symbol     string `csv:"symbol"`
	Direction  string `csv:"direction"`
	EntryDate  string `csv:"entry_date"`
	EntryTime  string `csv:"entry_time"`
	EntryPrice string `csv:"entry_price"`
	LotSize    string `csv:"lot_size"`
	ExitDate   string `csv:"exit_date"`
	ExitTime   string `csv:"exit_time"`
	ExitPrice  string `csv:"exit_price"`
	TakeProfit string `csv:"tp"`
	StopLoss   string `csv:"sl"`
	Setup      string `csv:"setup"`
	Notes      string `csv:"notes"`
	Session    string `csv:"session"`
}

// ToCSV flattens a stored trade into an export row
func (t *Trade) ToCSV() TradeCSV {
	return TradeCSV{
		Symbol:     t.Symbol,
		Direction:  string(t.Direction),
		EntryDate:  t.EntryDate,
		EntryTime:  t.EntryTime,
		EntryPrice: formatFloat(t.EntryPrice),
		LotSize:    formatFloat(t.LotSize),
		ExitDate:   t.ExitDate,
		ExitTime:   t.ExitTime,
		ExitPrice:  formatFloat(t.ExitPrice),
		TakeProfit: formatOptional(t.TakeProfit),
		StopLoss:   formatOptional(t.StopLoss),
		Setup:      t.Setup,
		Notes:      t.Notes,
		Session:    string(t.Session),
	}
}

// Prices parses the required entry price, lot size and exit price columns
func (r *TradeCSV) Prices() (entry, lot, exit float64, err error) {
	if entry, err = parseRequired(r.EntryPrice); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid entry_price: %w", err)
	}
	if lot, err = parseRequired(r.LotSize); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid lot_size: %w", err)
	}
	if exit, err = parseRequired(r.ExitPrice); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid exit_price: %w", err)
	}
	return entry, lot, exit, nil
}

// Levels parses the optional take-profit and stop-loss columns
func (r *TradeCSV) Levels() (tp, sl *float64, err error) {
	if tp, err = parseOptional(r.TakeProfit); err != nil {
		return nil, nil, fmt.Errorf("invalid tp: %w", err)
	}
	if sl, err = parseOptional(r.StopLoss); err != nil {
		return nil, nil, fmt.Errorf("invalid sl: %w", err)
	}
	return tp, sl, nil
}

func parseRequired(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Unwrap(err)
	}
	return v, nil
}

func parseOptional(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
