package newsfeed

import (
	"context"
	"time"
)

// Currencies are the majors the economic calendar covers
var Currencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD"}

// Event is a scheduled economic release as reported by a provider
type Event struct {
	Date     time.Time `json:"date"`
	Currency string    `json:"currency"`
	Event    string    `json:"event"`
	Impact   string    `json:"impact"` // High, Medium or Low
	Forecast string    `json:"forecast,omitempty"`
	Previous string    `json:"previous,omitempty"`
	Actual   string    `json:"actual,omitempty"`
	Source   string    `json:"source"`
}

// Provider is an economic calendar source
type Provider interface {
	// FetchEvents returns the events scheduled in [from, to]
	FetchEvents(ctx context.Context, from, to time.Time) ([]Event, error)

	// Name returns the provider name
	Name() string
}
