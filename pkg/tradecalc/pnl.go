package tradecalc

import (
	"errors"
	"strings"
)

// Direction is the side of a trade
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Dollar value of one pip for one lot
const (
	// DollarsPerPipStandardLot is the simplified value used for forex and commodities
	DollarsPerPipStandardLot = 10.0
	// DollarsPerPipGoldLot is 100oz per lot x $0.10 per pip
	DollarsPerPipGoldLot = 10.0
)

var ErrInvalidDirection = errors.New("direction must be long or short")

// ParseDirection normalizes a direction string
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionLong:
		return DirectionLong, nil
	case DirectionShort:
		return DirectionShort, nil
	}
	return "", ErrInvalidDirection
}

// Trade is the raw input describing a closed trade
type Trade struct {
	Symbol     string    `json:"symbol"`
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	LotSize    float64   `json:"lot_size"`
	EntryTime  string    `json:"entry_time"`
	TakeProfit *float64  `json:"tp,omitempty"`
	StopLoss   *float64  `json:"sl,omitempty"`
}

// TradeResult holds the values derived from a Trade and a reference balance
type TradeResult struct {
	Pips              float64 `json:"pips"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
	Session           Session `json:"session"`
}

// Pips returns the signed pip distance between entry and exit, rounded to one
// decimal. A winning move is positive for both directions.
func Pips(symbol string, entryPrice, exitPrice float64, direction Direction) float64 {
	diff := exitPrice - entryPrice
	if direction != DirectionLong {
		diff = entryPrice - exitPrice
	}
	return Round1(diff / PipSize(symbol))
}

// ProfitLoss converts pips and lot size to dollars, rounded to cents.
// The $10 per pip per lot figure is a deliberate simplification and is not
// broker accurate.
func ProfitLoss(pips, lotSize float64, symbol string) float64 {
	if ClassOf(symbol) == ClassGold {
		return Round2(pips * lotSize * DollarsPerPipGoldLot)
	}
	return Round2(pips * lotSize * DollarsPerPipStandardLot)
}

// ProfitLossPercent returns profit/loss as a percent of referenceBalance.
// A zero balance yields 0.
func ProfitLossPercent(profitLoss, referenceBalance float64) float64 {
	if referenceBalance == 0 {
		return 0
	}
	return Round2(profitLoss / referenceBalance * 100)
}

// Evaluate derives pips, P/L, P/L percent and session for a trade
func Evaluate(t Trade, referenceBalance float64) (TradeResult, error) {
	session, err := DetectSession(t.EntryTime)
	if err != nil {
		return TradeResult{}, err
	}
	pips := Pips(t.Symbol, t.EntryPrice, t.ExitPrice, t.Direction)
	pl := ProfitLoss(pips, t.LotSize, t.Symbol)
	return TradeResult{
		Pips:              pips,
		ProfitLoss:        pl,
		ProfitLossPercent: ProfitLossPercent(pl, referenceBalance),
		Session:           session,
	}, nil
}
