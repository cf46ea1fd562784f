package tradecalc

import (
	"fmt"
	"time"
)

// MarketSession is an exchange trading window expressed in UTC hours
type MarketSession struct {
	Name      string
	OpenHour  int
	CloseHour int
}

// MarketSessions lists the four major FX sessions
var MarketSessions = []MarketSession{
	{Name: "Sydney", OpenHour: 22, CloseHour: 7},
	{Name: "Tokyo", OpenHour: 0, CloseHour: 9},
	{Name: "London", OpenHour: 8, CloseHour: 17},
	{Name: "New York", OpenHour: 13, CloseHour: 22},
}

// MarketSessionStatus reports whether a market session is open
type MarketSessionStatus struct {
	Name      string `json:"name"`
	IsOpen    bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// IsOpen reports whether the session is open at the given instant
func (s MarketSession) IsOpen(now time.Time) bool {
	h := now.UTC().Hour()
	if s.OpenHour > s.CloseHour {
		return h >= s.OpenHour || h < s.CloseHour
	}
	return h >= s.OpenHour && h < s.CloseHour
}

// MarketSessionStatuses returns the status of every market session
func MarketSessionStatuses(now time.Time) []MarketSessionStatus {
	out := make([]MarketSessionStatus, 0, len(MarketSessions))
	for _, s := range MarketSessions {
		out = append(out, MarketSessionStatus{
			Name:      s.Name,
			IsOpen:    s.IsOpen(now),
			OpenTime:  fmt.Sprintf("%02d:00", s.OpenHour),
			CloseTime: fmt.Sprintf("%02d:00", s.CloseHour),
		})
	}
	return out
}

// OpenMarketSessions returns only the sessions open at now
func OpenMarketSessions(now time.Time) []MarketSessionStatus {
	var open []MarketSessionStatus
	for _, s := range MarketSessionStatuses(now) {
		if s.IsOpen {
			open = append(open, s)
		}
	}
	return open
}
