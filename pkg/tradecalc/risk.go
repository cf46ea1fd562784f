package tradecalc

import (
	"errors"
	"math"
)

// MaxRiskPercent is the upper bound accepted by CalculateLotSize
const MaxRiskPercent = 5.0

// Risk sizing validation errors. The messages are shown to users as-is.
var (
	ErrInvalidBalance        = errors.New("account balance must be greater than 0")
	ErrMissingField          = errors.New("please fill all fields")
	ErrZeroRiskDistance      = errors.New("entry price and stop loss cannot be the same")
	ErrRiskPercentOutOfRange = errors.New("risk percent must be between 0.1% and 5%")
)

// RiskInput holds the parameters for position sizing
type RiskInput struct {
	AccountBalance float64 `json:"account_balance"`
	RiskPercent    float64 `json:"risk_percent"`
	EntryPrice     float64 `json:"entry_price"`
	StopLoss       float64 `json:"stop_loss"`
	Symbol         string  `json:"symbol"`
}

// RiskResult is the recommended position size
type RiskResult struct {
	RiskAmount float64 `json:"risk_amount"`
	PipsAtRisk float64 `json:"pips_at_risk"`
	LotSize    float64 `json:"lot_size"`
}

// Validate checks the input in the order users see the messages
func (in RiskInput) Validate() error {
	if math.IsNaN(in.AccountBalance) || in.AccountBalance <= 0 {
		return ErrInvalidBalance
	}
	if in.EntryPrice == 0 || in.StopLoss == 0 || math.IsNaN(in.EntryPrice) || math.IsNaN(in.StopLoss) {
		return ErrMissingField
	}
	if in.EntryPrice == in.StopLoss {
		return ErrZeroRiskDistance
	}
	if !(in.RiskPercent > 0 && in.RiskPercent <= MaxRiskPercent) {
		return ErrRiskPercentOutOfRange
	}
	return nil
}

// CalculateLotSize sizes a position so that hitting the stop loses
// RiskPercent of the balance. It fails fast on invalid input.
func CalculateLotSize(in RiskInput) (RiskResult, error) {
	if err := in.Validate(); err != nil {
		return RiskResult{}, err
	}

	riskAmount := in.AccountBalance * in.RiskPercent / 100
	pipsAtRisk := math.Abs(in.EntryPrice-in.StopLoss) / PipSize(in.Symbol)
	lotSize := riskAmount / (pipsAtRisk * DollarsPerPipStandardLot)

	return RiskResult{
		RiskAmount: Round2(riskAmount),
		PipsAtRisk: Round1(pipsAtRisk),
		LotSize:    Round2(lotSize),
	}, nil
}

// RewardRisk returns |tp-entry| / |entry-sl|, or 0 when the stop distance is 0
func RewardRisk(entry, stopLoss, takeProfit float64) float64 {
	risk := math.Abs(entry - stopLoss)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}
