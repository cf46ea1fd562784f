package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trade-journal/internal/logging"
	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/pkg/tradecalc"
)

// AnalyticsService computes performance statistics from a user's journal
type AnalyticsService struct {
	tradeRepo   *repository.TradeRepository
	capitalRepo *repository.CapitalRepository
	cache       Cache
	ttl         time.Duration
}

// NewAnalyticsService creates a new AnalyticsService. cache may be nil.
func NewAnalyticsService(
	tradeRepo *repository.TradeRepository,
	capitalRepo *repository.CapitalRepository,
	cache Cache,
	ttl time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		tradeRepo:   tradeRepo,
		capitalRepo: capitalRepo,
		cache:       cache,
		ttl:         ttl,
	}
}

func versionKey(userID uint) string {
	return fmt.Sprintf("analytics:%d:version", userID)
}

// Invalidate drops every cached result for the user by bumping its version
func (s *AnalyticsService) Invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, versionKey(userID)); err != nil {
		logging.LogError("analytics: invalidate user %d: %v", userID, err)
	}
}

// cached returns the value stored under name for the user's current version,
// computing and storing it on a miss. Cache failures fall back to compute.
func cached[T any](ctx context.Context, s *AnalyticsService, userID uint, name string, compute func() (T, error)) (T, error) {
	if s.cache == nil {
		return compute()
	}

	version, err := s.cache.GetInt(ctx, versionKey(userID))
	if err != nil {
		logging.LogError("analytics: read version for user %d: %v", userID, err)
		return compute()
	}
	key := fmt.Sprintf("analytics:%d:v%d:%s", userID, version, name)

	var out T
	if hit, err := s.cache.GetJSON(ctx, key, &out); err == nil && hit {
		return out, nil
	}

	out, err = compute()
	if err != nil {
		return out, err
	}
	if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
		logging.LogError("analytics: store %s: %v", key, err)
	}
	return out, nil
}

func (s *AnalyticsService) closedTrades(userID uint) ([]tradecalc.ClosedTrade, error) {
	trades, err := s.tradeRepo.ListAll(userID, repository.TradeFilter{})
	if err != nil {
		return nil, err
	}
	return models.ClosedTrades(trades), nil
}

// Stats returns the headline performance summary
func (s *AnalyticsService) Stats(ctx context.Context, userID uint) (tradecalc.AnalyticsSummary, error) {
	return cached(ctx, s, userID, "stats", func() (tradecalc.AnalyticsSummary, error) {
		trades, err := s.closedTrades(userID)
		if err != nil {
			return tradecalc.AnalyticsSummary{}, err
		}
		return tradecalc.Summarize(trades), nil
	})
}

// EquityCurve returns the daily balance curve seeded with the initial balance
func (s *AnalyticsService) EquityCurve(ctx context.Context, userID uint, now time.Time) ([]tradecalc.EquityPoint, error) {
	name := "equity:" + now.Format(tradecalc.DateLayout)
	return cached(ctx, s, userID, name, func() ([]tradecalc.EquityPoint, error) {
		initial := 0.0
		capital, err := s.capitalRepo.GetByUserID(userID)
		switch {
		case err == nil:
			initial = capital.InitialBalance
		case !errors.Is(err, repository.ErrCapitalNotFound):
			return nil, err
		}

		trades, err := s.closedTrades(userID)
		if err != nil {
			return nil, err
		}
		return tradecalc.EquityCurve(trades, initial, now), nil
	})
}

// Breakdown groups performance by symbol or session
func (s *AnalyticsService) Breakdown(ctx context.Context, userID uint, dim tradecalc.Dimension) ([]tradecalc.BreakdownRow, error) {
	return cached(ctx, s, userID, "breakdown:"+string(dim), func() ([]tradecalc.BreakdownRow, error) {
		trades, err := s.closedTrades(userID)
		if err != nil {
			return nil, err
		}
		return tradecalc.BreakdownBy(trades, dim), nil
	})
}
