package models

import (
	"time"

	"github.com/trade-journal/pkg/tradecalc"
)

// Capital is a user's account capital and risk settings. The current balance
// is never stored; it is the initial balance plus the sum of trade P/L.
type Capital struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	InitialBalance        float64   `gorm:"type:decimal(15,2);not null;default:0" json:"initial_balance"`
	Currency              string    `gorm:"size:3;not null;default:USD" json:"currency"`
	RiskPerTradePercent   float64   `gorm:"type:decimal(5,2);not null;default:1" json:"risk_per_trade_percent"`
	DailyLossLimitPercent float64   `gorm:"type:decimal(5,2);not null;default:5" json:"daily_loss_limit_percent"`
	MaxDrawdownPercent    float64   `gorm:"type:decimal(5,2);not null;default:10" json:"max_drawdown_percent"`
	DailyCapTarget        float64   `gorm:"type:decimal(15,2);not null;default:2500" json:"daily_cap_target"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for Capital model
func (Capital) TableName() string {
	return "capital"
}

// Profile converts the row to the engine's capital profile
func (c *Capital) Profile() tradecalc.CapitalProfile {
	return tradecalc.CapitalProfile{
		InitialBalance:        c.InitialBalance,
		Currency:              c.Currency,
		RiskPerTradePercent:   c.RiskPerTradePercent,
		DailyLossLimitPercent: c.DailyLossLimitPercent,
		MaxDrawdownPercent:    c.MaxDrawdownPercent,
		DailyCapTarget:        c.DailyCapTarget,
	}
}
