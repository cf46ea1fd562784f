package tradecalc

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Session is the journal session label of a trade
type Session string

const (
	SessionAsian   Session = "asian"
	SessionLondon  Session = "london"
	SessionNewYork Session = "newyork"
	// SessionOverlap is accepted from clients but never produced by DetectSession
	SessionOverlap Session = "overlap"
)

// Session boundaries in minutes from midnight, UTC+7 wall clock
const (
	AsianStartMinute   = 7 * 60
	LondonStartMinute  = 15 * 60
	NewYorkStartMinute = 20 * 60
)

// SessionOffset is the fixed UTC offset entry times are recorded in
const SessionOffset = 7 * time.Hour

var ErrInvalidClock = errors.New("invalid time format (HH:mm)")

// ParseClock parses an H:mm or HH:mm 24-hour clock into minutes from midnight
func ParseClock(clock string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, ErrInvalidClock
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidClock
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// IsValidSession reports whether s is one of the persisted session labels
func IsValidSession(s Session) bool {
	switch s {
	case SessionAsian, SessionLondon, SessionNewYork, SessionOverlap:
		return true
	}
	return false
}

// SessionAt maps minutes from midnight to a session label.
// New York wraps past midnight: [20:00, 07:00).
func SessionAt(minutes int) Session {
	switch {
	case minutes >= AsianStartMinute && minutes < LondonStartMinute:
		return SessionAsian
	case minutes >= LondonStartMinute && minutes < NewYorkStartMinute:
		return SessionLondon
	default:
		return SessionNewYork
	}
}

// DetectSession maps an HH:mm clock to asian, london or newyork
func DetectSession(clock string) (Session, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return SessionAt(minutes), nil
}

// CurrentSession returns the session for an instant, read on the UTC+7 clock
func CurrentSession(now time.Time) Session {
	t := now.UTC().Add(SessionOffset)
	return SessionAt(t.Hour()*60 + t.Minute())
}
