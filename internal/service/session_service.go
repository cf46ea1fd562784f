package service

import (
	"time"

	"github.com/trade-journal/pkg/tradecalc"
)

// SessionStatus is the market clock pushed to dashboards
type SessionStatus struct {
	Markets        []tradecalc.MarketSessionStatus `json:"markets"`
	Open           []string                        `json:"open"`
	JournalSession tradecalc.Session               `json:"journal_session"`
	ServerTime     time.Time                       `json:"server_time"`
}

// SessionService reports which trading sessions are live
type SessionService struct {
	now func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService() *SessionService {
	return &SessionService{now: time.Now}
}

// Status returns the market session clock for the current instant
func (s *SessionService) Status() SessionStatus {
	return StatusAt(s.now())
}

// StatusAt returns the market session clock at now
func StatusAt(now time.Time) SessionStatus {
	open := []string{}
	for _, m := range tradecalc.OpenMarketSessions(now) {
		open = append(open, m.Name)
	}
	return SessionStatus{
		Markets:        tradecalc.MarketSessionStatuses(now),
		Open:           open,
		JournalSession: tradecalc.CurrentSession(now),
		ServerTime:     now.UTC(),
	}
}
