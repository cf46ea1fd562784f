package tradecalc

import "math"

// LimitStatus is the tri-state health of a loss limit
type LimitStatus string

const (
	LimitSafe    LimitStatus = "safe"
	LimitWarning LimitStatus = "warning"
	LimitDanger  LimitStatus = "danger"
)

// RiskStatus is the legacy drawdown badge
type RiskStatus string

const (
	RiskOptimal RiskStatus = "optimal"
	RiskWarning RiskStatus = "warning"
	RiskDanger  RiskStatus = "danger"
)

const (
	WarningThresholdPercent = 50.0
	DangerThresholdPercent  = 80.0

	DefaultDailyLossLimitPercent = 5.0
	DefaultMaxDrawdownPercent    = 10.0
	DefaultRiskPerTradePercent   = 1.0
	DefaultDailyCapTarget        = 2500.0
)

// CapitalProfile is a user's capital and risk configuration
type CapitalProfile struct {
	InitialBalance        float64 `json:"initial_balance"`
	Currency              string  `json:"currency"`
	RiskPerTradePercent   float64 `json:"risk_per_trade_percent"`
	DailyLossLimitPercent float64 `json:"daily_loss_limit_percent"`
	MaxDrawdownPercent    float64 `json:"max_drawdown_percent"`
	DailyCapTarget        float64 `json:"daily_cap_target"`
}

// RiskLimitStatus describes how much of a loss limit has been consumed
type RiskLimitStatus struct {
	PercentMax      float64     `json:"percent_max"`
	PercentUsed     float64     `json:"percent_used"`
	AmountUsed      float64     `json:"amount_used"`
	AmountMax       float64     `json:"amount_max"`
	AmountRemaining float64     `json:"amount_remaining"`
	Status          LimitStatus `json:"status"`
}

// DailyCapStatus tracks progress toward the daily profit target
type DailyCapStatus struct {
	DailyTarget     float64 `json:"daily_target"`
	DailyProfit     float64 `json:"daily_profit"`
	ProgressPercent float64 `json:"progress_percent"`
	Remaining       float64 `json:"remaining"`
}

// StatusFor maps a used percentage to safe, warning or danger
func StatusFor(percentUsed float64) LimitStatus {
	switch {
	case percentUsed >= DangerThresholdPercent:
		return LimitDanger
	case percentUsed >= WarningThresholdPercent:
		return LimitWarning
	}
	return LimitSafe
}

func limitStatus(percentMax, amountUsed, amountMax float64) RiskLimitStatus {
	var percentUsed float64
	if amountMax > 0 {
		percentUsed = amountUsed / amountMax * 100
	}
	return RiskLimitStatus{
		PercentMax:      percentMax,
		PercentUsed:     math.Min(math.Max(percentUsed, 0), 100),
		AmountUsed:      amountUsed,
		AmountMax:       amountMax,
		AmountRemaining: math.Max(amountMax-amountUsed, 0),
		Status:          StatusFor(percentUsed),
	}
}

// DailyLossLimit evaluates today's losses against the daily loss limit.
// Only losses count; zero inputs fall back to defaults and it never fails.
func DailyLossLimit(balance, dailyProfit, dailyLossLimitPercent float64) RiskLimitStatus {
	balance = orDefault(balance, 0)
	pct := orDefault(dailyLossLimitPercent, DefaultDailyLossLimitPercent)
	dailyProfit = orDefault(dailyProfit, 0)

	amountMax := balance * pct / 100
	amountUsed := math.Max(-dailyProfit, 0)
	return limitStatus(pct, amountUsed, amountMax)
}

// MaxDrawdown evaluates the decline from peak against the max drawdown limit
func MaxDrawdown(peakBalance, currentBalance, maxDrawdownPercent float64) RiskLimitStatus {
	peak := orDefault(peakBalance, 0)
	current := orDefault(currentBalance, 0)
	pct := orDefault(maxDrawdownPercent, DefaultMaxDrawdownPercent)

	drawdown := math.Max(peak-current, 0)
	amountMax := peak * pct / 100
	return limitStatus(pct, drawdown, amountMax)
}

// DrawdownPercent is the decline from peak as a percent of peak
func DrawdownPercent(peakBalance, currentBalance float64) float64 {
	if peakBalance == 0 {
		return 0
	}
	return (peakBalance - currentBalance) / peakBalance * 100
}

// RiskStatusFor maps a drawdown percent to the optimal/warning/danger badge
func RiskStatusFor(drawdownPercent float64) RiskStatus {
	switch {
	case drawdownPercent < WarningThresholdPercent:
		return RiskOptimal
	case drawdownPercent < DangerThresholdPercent:
		return RiskWarning
	}
	return RiskDanger
}

// DailyCap reports progress toward the daily profit target
func DailyCap(dailyProfit, dailyTarget float64) DailyCapStatus {
	target := orDefault(dailyTarget, DefaultDailyCapTarget)
	return DailyCapStatus{
		DailyTarget:     target,
		DailyProfit:     dailyProfit,
		ProgressPercent: math.Min(dailyProfit/target*100, 100),
		Remaining:       math.Max(target-dailyProfit, 0),
	}
}
