package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/trade-journal/internal/newsfeed"
)

const (
	DefaultBaseURL = "https://finnhub.io/api/v1"
	Source         = "finnhub-api"

	timeLayout = "2006-01-02 15:04:05"
)

var ErrMissingAPIKey = errors.New("finnhub api key not set")

// Client fetches the economic calendar from the Finnhub REST API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at another endpoint
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return "finnhub"
}

type calendarResponse struct {
	EconomicCalendar []struct {
		Actual   *float64 `json:"actual"`
		Country  string   `json:"country"`
		Estimate *float64 `json:"estimate"`
		Event    string   `json:"event"`
		Impact   string   `json:"impact"`
		Prev     *float64 `json:"prev"`
		Time     string   `json:"time"`
		Unit     string   `json:"unit"`
	} `json:"economicCalendar"`
}

// FetchEvents implements newsfeed.Provider
func (c *Client) FetchEvents(ctx context.Context, from, to time.Time) ([]newsfeed.Event, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("token", c.apiKey)
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/calendar/economic?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finnhub request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub returned status %d", resp.StatusCode)
	}

	var result calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode finnhub calendar: %w", err)
	}

	events := make([]newsfeed.Event, 0, len(result.EconomicCalendar))
	for _, item := range result.EconomicCalendar {
		at, err := time.ParseInLocation(timeLayout, item.Time, time.UTC)
		if err != nil || item.Event == "" {
			continue
		}
		events = append(events, newsfeed.Event{
			Date:     at,
			Currency: newsfeed.CurrencyFor(item.Country),
			Event:    item.Event,
			Impact:   newsfeed.MapImpact(item.Impact),
			Forecast: formatFigure(item.Estimate, item.Unit),
			Previous: formatFigure(item.Prev, item.Unit),
			Actual:   formatFigure(item.Actual, item.Unit),
			Source:   Source,
		})
	}
	return events, nil
}

func formatFigure(v *float64, unit string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g%s", *v, unit)
}
