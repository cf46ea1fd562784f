package tradecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func openNames(now time.Time) []string {
	var names []string
	for _, s := range OpenMarketSessions(now) {
		names = append(names, s.Name)
	}
	return names
}

func TestMarketSessionStatuses(t *testing.T) {
	assert.Equal(t, []string{"Sydney"}, openNames(time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"Sydney", "Tokyo"}, openNames(time.Date(2026, 1, 5, 3, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"London"}, openNames(time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, []string{"London", "New York"}, openNames(time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)))

	statuses := MarketSessionStatuses(time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC))
	assert.Len(t, statuses, 4)
	assert.Equal(t, "22:00", statuses[0].OpenTime)
	assert.Equal(t, "07:00", statuses[0].CloseTime)
}

func TestMarketSessionUsesUTC(t *testing.T) {
	bangkok := time.FixedZone("UTC+7", 7*3600)
	// 16:00 in Bangkok is 09:00 UTC
	assert.Equal(t, []string{"London"}, openNames(time.Date(2026, 1, 5, 16, 0, 0, 0, bangkok)))
}
