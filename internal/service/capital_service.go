package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/pkg/tradecalc"
)

var (
	ErrInvalidInitialBalance = errors.New("initial balance must be zero or positive")
)

// CapitalService manages capital settings and derives the account health view
type CapitalService struct {
	capitalRepo *repository.CapitalRepository
	tradeRepo   *repository.TradeRepository
	location    *time.Location
	invalidator Invalidator
}

// NewCapitalService creates a new CapitalService. loc is the journal timezone
// used to decide which trades belong to today. invalidator may be nil.
func NewCapitalService(
	capitalRepo *repository.CapitalRepository,
	tradeRepo *repository.TradeRepository,
	loc *time.Location,
	invalidator Invalidator,
) *CapitalService {
	if loc == nil {
		loc = time.UTC
	}
	return &CapitalService{
		capitalRepo: capitalRepo,
		tradeRepo:   tradeRepo,
		location:    loc,
		invalidator: invalidator,
	}
}

// Location returns the journal timezone
func (s *CapitalService) Location() *time.Location {
	return s.location
}

// CapitalSettingsRequest represents a capital settings update
type CapitalSettingsRequest struct {
	InitialBalance        *float64 `json:"initial_balance" binding:"required"`
	Currency              string   `json:"currency" binding:"omitempty,len=3"`
	RiskPerTradePercent   float64  `json:"risk_per_trade_percent" binding:"gte=0,lte=100"`
	DailyLossLimitPercent float64  `json:"daily_loss_limit_percent" binding:"gte=0,lte=100"`
	MaxDrawdownPercent    float64  `json:"max_drawdown_percent" binding:"gte=0,lte=100"`
	DailyCapTarget        float64  `json:"daily_cap_target" binding:"gte=0"`
}

// CapitalSummary is the account health view shown on the dashboard
type CapitalSummary struct {
	InitialBalance       float64                   `json:"initial_balance"`
	CurrentBalance       float64                   `json:"current_balance"`
	PeakBalance          float64                   `json:"peak_balance"`
	TotalProfit          float64                   `json:"total_profit"`
	TotalTrades          int                       `json:"total_trades"`
	TodayProfit          float64                   `json:"today_profit"`
	Settings             tradecalc.CapitalProfile  `json:"settings"`
	DailyLoss            tradecalc.RiskLimitStatus `json:"daily_loss"`
	MaxDrawdown          tradecalc.RiskLimitStatus `json:"max_drawdown"`
	DailyCap             tradecalc.DailyCapStatus  `json:"daily_cap"`
	DrawdownPercent      float64                   `json:"drawdown_percent"`
	RiskStatus           tradecalc.RiskStatus      `json:"risk_status"`
	IsOnboardingRequired bool                      `json:"is_onboarding_required"`
}

func defaultProfile() tradecalc.CapitalProfile {
	return tradecalc.CapitalProfile{
		Currency:              "USD",
		RiskPerTradePercent:   tradecalc.DefaultRiskPerTradePercent,
		DailyLossLimitPercent: tradecalc.DefaultDailyLossLimitPercent,
		MaxDrawdownPercent:    tradecalc.DefaultMaxDrawdownPercent,
		DailyCapTarget:        tradecalc.DefaultDailyCapTarget,
	}
}

// GetSettings returns the stored settings, or nil when none exist yet
func (s *CapitalService) GetSettings(userID uint) (*models.Capital, error) {
	capital, err := s.capitalRepo.GetByUserID(userID)
	if errors.Is(err, repository.ErrCapitalNotFound) {
		return nil, nil
	}
	return capital, err
}

// CurrentBalance is the initial balance plus the P/L of every trade except
// excludeTradeID (0 excludes nothing)
func (s *CapitalService) CurrentBalance(userID, excludeTradeID uint) (float64, error) {
	capital, err := s.GetSettings(userID)
	if err != nil {
		return 0, err
	}
	initial := 0.0
	if capital != nil {
		initial = capital.InitialBalance
	}
	total, err := s.tradeRepo.GetTotalProfitLoss(userID, excludeTradeID)
	if err != nil {
		return 0, err
	}
	return initial + total, nil
}

// Summary derives the capital view for the user as of now
func (s *CapitalService) Summary(userID uint, now time.Time) (*CapitalSummary, error) {
	capital, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}
	if capital == nil {
		return &CapitalSummary{
			Settings:             defaultProfile(),
			RiskStatus:           tradecalc.RiskOptimal,
			DailyLoss:            tradecalc.DailyLossLimit(0, 0, 0),
			MaxDrawdown:          tradecalc.MaxDrawdown(0, 0, 0),
			DailyCap:             tradecalc.DailyCap(0, 0),
			IsOnboardingRequired: true,
		}, nil
	}

	trades, err := s.tradeRepo.ListAll(userID, repository.TradeFilter{})
	if err != nil {
		return nil, err
	}
	closed := models.ClosedTrades(trades)

	today := now.In(s.location).Format(tradecalc.DateLayout)
	var totalProfit, todayProfit float64
	for _, t := range trades {
		totalProfit += t.ProfitLoss
		if t.EntryDate == today {
			todayProfit += t.ProfitLoss
		}
	}

	profile := capital.Profile()
	current := capital.InitialBalance + totalProfit
	peak := tradecalc.PeakBalance(tradecalc.EquityCurve(closed, capital.InitialBalance, now))
	drawdown := tradecalc.DrawdownPercent(peak, current)

	return &CapitalSummary{
		InitialBalance:       capital.InitialBalance,
		CurrentBalance:       current,
		PeakBalance:          peak,
		TotalProfit:          totalProfit,
		TotalTrades:          len(trades),
		TodayProfit:          todayProfit,
		Settings:             profile,
		DailyLoss:            tradecalc.DailyLossLimit(current, todayProfit, profile.DailyLossLimitPercent),
		MaxDrawdown:          tradecalc.MaxDrawdown(peak, current, profile.MaxDrawdownPercent),
		DailyCap:             tradecalc.DailyCap(todayProfit, profile.DailyCapTarget),
		DrawdownPercent:      drawdown,
		RiskStatus:           tradecalc.RiskStatusFor(drawdown),
		IsOnboardingRequired: capital.InitialBalance == 0,
	}, nil
}

// UpdateSettings creates or replaces the user's capital settings. Zero
// percentages and targets fall back to the defaults. The equity curve is
// seeded from the initial balance, so cached analytics are dropped.
func (s *CapitalService) UpdateSettings(ctx context.Context, userID uint, req *CapitalSettingsRequest) (*models.Capital, error) {
	if req.InitialBalance == nil || *req.InitialBalance < 0 {
		return nil, ErrInvalidInitialBalance
	}

	def := defaultProfile()
	capital := &models.Capital{
		UserID:                userID,
		InitialBalance:        *req.InitialBalance,
		Currency:              strings.ToUpper(req.Currency),
		RiskPerTradePercent:   req.RiskPerTradePercent,
		DailyLossLimitPercent: req.DailyLossLimitPercent,
		MaxDrawdownPercent:    req.MaxDrawdownPercent,
		DailyCapTarget:        req.DailyCapTarget,
	}
	if capital.Currency == "" {
		capital.Currency = def.Currency
	}
	if capital.RiskPerTradePercent == 0 {
		capital.RiskPerTradePercent = def.RiskPerTradePercent
	}
	if capital.DailyLossLimitPercent == 0 {
		capital.DailyLossLimitPercent = def.DailyLossLimitPercent
	}
	if capital.MaxDrawdownPercent == 0 {
		capital.MaxDrawdownPercent = def.MaxDrawdownPercent
	}
	if capital.DailyCapTarget == 0 {
		capital.DailyCapTarget = def.DailyCapTarget
	}

	if err := s.capitalRepo.Upsert(capital); err != nil {
		return nil, err
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
	return s.capitalRepo.GetByUserID(userID)
}
