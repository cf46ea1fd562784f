package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/trade-journal/internal/logging"
	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/newsfeed"
	"github.com/trade-journal/internal/repository"
)

// NewsChannel is the pub/sub channel refresh summaries are published on
const NewsChannel = "news_updates"

var (
	ErrInvalidImpact    = errors.New("impact must be High, Medium or Low")
	ErrInvalidDateRange = errors.New("date_from must not be after date_to")
)

// NewsService keeps the economic calendar up to date
type NewsService struct {
	eventRepo *repository.EconomicEventRepository
	providers []newsfeed.Provider
	fallback  newsfeed.Provider
	cache     Cache
	now       func() time.Time
}

// NewNewsService creates a new NewsService. providers are tried in order and
// fallback is used when all of them fail or return nothing.
func NewNewsService(
	eventRepo *repository.EconomicEventRepository,
	providers []newsfeed.Provider,
	fallback newsfeed.Provider,
	cache Cache,
) *NewsService {
	return &NewsService{
		eventRepo: eventRepo,
		providers: providers,
		fallback:  fallback,
		cache:     cache,
		now:       time.Now,
	}
}

// RefreshResult summarizes a refresh run
type RefreshResult struct {
	Source    string    `json:"source"`
	Events    int       `json:"events"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CalendarQuery selects events for the economic calendar
type CalendarQuery struct {
	From       *time.Time
	To         *time.Time
	Currencies []string
	Impact     string
}

// Refresh pulls the next week of events and stores them
func (s *NewsService) Refresh(ctx context.Context) (*RefreshResult, error) {
	now := s.now().UTC()
	from, to := now, now.AddDate(0, 0, 7)

	var (
		events []newsfeed.Event
		source string
	)
	for _, p := range s.providers {
		fetched, err := p.FetchEvents(ctx, from, to)
		if err != nil {
			logging.LogError("news: provider %s failed: %v", p.Name(), err)
			continue
		}
		if len(fetched) > 0 {
			events, source = fetched, p.Name()
			break
		}
	}
	if len(events) == 0 && s.fallback != nil {
		fetched, err := s.fallback.FetchEvents(ctx, from, to)
		if err != nil {
			return nil, err
		}
		events, source = fetched, s.fallback.Name()
	}

	rows := toEventRows(events, now)
	if err := s.eventRepo.UpsertBatch(rows); err != nil {
		return nil, err
	}

	result := &RefreshResult{Source: source, Events: len(rows), FetchedAt: now}
	logging.LogInfo("news: stored %d events from %s", result.Events, result.Source)

	if s.cache != nil {
		if err := s.cache.Publish(ctx, NewsChannel, result); err != nil {
			logging.LogError("news: publish update: %v", err)
		}
	}
	return result, nil
}

// toEventRows converts provider events, keeping the last of any duplicates
// on (date, currency, event)
func toEventRows(events []newsfeed.Event, now time.Time) []models.EconomicEvent {
	type key struct {
		date     int64
		currency string
		event    string
	}
	index := make(map[key]int, len(events))
	rows := make([]models.EconomicEvent, 0, len(events))
	for _, e := range events {
		row := models.EconomicEvent{
			Date:        e.Date.UTC(),
			Currency:    strings.ToUpper(e.Currency),
			Event:       e.Event,
			Impact:      models.Impact(newsfeed.MapImpact(e.Impact)),
			Forecast:    e.Forecast,
			Previous:    e.Previous,
			Actual:      e.Actual,
			Source:      e.Source,
			LastUpdated: now,
		}
		k := key{row.Date.Unix(), row.Currency, row.Event}
		if i, ok := index[k]; ok {
			rows[i] = row
			continue
		}
		index[k] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

// Calendar lists stored events. The window defaults to now through seven
// days ahead and the currencies to every major.
func (s *NewsService) Calendar(q CalendarQuery) ([]models.EconomicEvent, error) {
	now := s.now().UTC()
	filter := repository.EventFilter{
		From:       now,
		To:         now.AddDate(0, 0, 7),
		Currencies: newsfeed.Currencies,
	}
	if q.From != nil {
		filter.From = *q.From
	}
	if q.To != nil {
		filter.To = *q.To
	}
	if filter.From.After(filter.To) {
		return nil, ErrInvalidDateRange
	}

	if len(q.Currencies) > 0 {
		filter.Currencies = make([]string, 0, len(q.Currencies))
		for _, c := range q.Currencies {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				filter.Currencies = append(filter.Currencies, c)
			}
		}
	}

	switch models.Impact(q.Impact) {
	case "":
	case models.ImpactHigh, models.ImpactMedium, models.ImpactLow:
		filter.Impact = models.Impact(q.Impact)
	default:
		return nil, ErrInvalidImpact
	}

	return s.eventRepo.List(filter)
}
