package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/trade-journal/internal/newsfeed"
)

// Source tags events produced by the generator
const Source = "mock-generator"

type template struct {
	currency string
	event    string
	impact   string
}

var catalogue = []template{
	{"USD", "Non-Farm Payrolls (NFP)", newsfeed.ImpactHigh},
	{"USD", "FOMC Meeting Minutes", newsfeed.ImpactHigh},
	{"USD", "Consumer Price Index (CPI)", newsfeed.ImpactHigh},
	{"USD", "Retail Sales", newsfeed.ImpactMedium},
	{"EUR", "ECB Interest Rate Decision", newsfeed.ImpactHigh},
	{"EUR", "Eurozone CPI", newsfeed.ImpactHigh},
	{"GBP", "BoE Interest Rate Decision", newsfeed.ImpactHigh},
	{"JPY", "BoJ Policy Statement", newsfeed.ImpactHigh},
	{"AUD", "RBA Interest Rate Decision", newsfeed.ImpactHigh},
}

// Generator fabricates a plausible week of economic events. It is the
// fallback when no real provider is configured or reachable.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded with seed
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Name returns the provider name
func (g *Generator) Name() string {
	return "mock"
}

// FetchEvents implements newsfeed.Provider. It emits two to four events on
// each of the seven days starting at from, between 08:00 and 16:00 UTC.
func (g *Generator) FetchEvents(_ context.Context, from, _ time.Time) ([]newsfeed.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	var events []newsfeed.Event
	for day := 0; day < 7; day++ {
		date := start.AddDate(0, 0, day)
		perDay := g.rng.Intn(3) + 2
		for i := 0; i < perDay; i++ {
			tpl := catalogue[g.rng.Intn(len(catalogue))]
			hour := g.rng.Intn(9) + 8
			events = append(events, newsfeed.Event{
				Date:     date.Add(time.Duration(hour) * time.Hour),
				Currency: tpl.currency,
				Event:    tpl.event,
				Impact:   tpl.impact,
				Forecast: g.figure(),
				Previous: g.figure(),
				Source:   Source,
			})
		}
	}
	return events, nil
}

// figure returns a percentage half of the time and nothing otherwise
func (g *Generator) figure() string {
	if g.rng.Float64() > 0.5 {
		return fmt.Sprintf("%.1f%%", g.rng.Float64()*5)
	}
	return ""
}
