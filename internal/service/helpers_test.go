package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trade-journal/internal/config"
	"github.com/trade-journal/internal/database"
	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/repository"
)

// memCache is an in-process Cache used to observe caching behavior
type memCache struct {
	mu        sync.Mutex
	values    map[string][]byte
	counters  map[string]int64
	published map[string][]string
	hits      int
}

func newMemCache() *memCache {
	return &memCache{
		values:    map[string][]byte{},
		counters:  map[string]int64{},
		published: map[string][]string{},
	}
}

func (c *memCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(data, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.values[key] = data
	c.mu.Unlock()
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *memCache) GetInt(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], nil
}

func (c *memCache) Publish(_ context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.published[channel] = append(c.published[channel], string(data))
	c.mu.Unlock()
	return nil
}

type fixture struct {
	db        *gorm.DB
	users     *repository.UserRepository
	auth      *AuthService
	capital   *CapitalService
	trades    *TradeService
	analytics *AnalyticsService
	cache     *memCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	cache := newMemCache()
	users := repository.NewUserRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	capitalRepo := repository.NewCapitalRepository(db)

	analytics := NewAnalyticsService(tradeRepo, capitalRepo, cache, time.Minute)
	capital := NewCapitalService(capitalRepo, tradeRepo, time.UTC, analytics)

	return &fixture{
		db:    db,
		users: users,
		auth: NewAuthService(users, config.JWTConfig{
			Secret:              "access-secret",
			RefreshSecret:       "refresh-secret",
			AccessExpireMinutes: 15,
			RefreshExpireHours:  168,
			Issuer:              "test",
		}),
		capital:   capital,
		trades:    NewTradeService(tradeRepo, capital, analytics),
		analytics: analytics,
		cache:     cache,
	}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", FirstName: "Test", LastName: "User"}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) fund(t *testing.T, userID uint, balance float64) {
	t.Helper()
	_, err := f.capital.UpdateSettings(ctx, userID, &CapitalSettingsRequest{InitialBalance: &balance})
	require.NoError(t, err)
}

func tradeReq(symbol, direction, date, clock string, entry, exit, lot float64) *CreateTradeRequest {
	return &CreateTradeRequest{
		Symbol:     symbol,
		Direction:  direction,
		EntryDate:  date,
		EntryTime:  clock,
		EntryPrice: entry,
		LotSize:    lot,
		ExitDate:   date,
		ExitTime:   "23:00",
		ExitPrice:  exit,
	}
}

func ptr[T any](v T) *T { return &v }
