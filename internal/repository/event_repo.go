package repository

import (
	"time"

	"github.com/trade-journal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventFilter narrows an economic calendar query
type EventFilter struct {
	From       time.Time
	To         time.Time
	Currencies []string
	Impact     models.Impact
}

// EconomicEventRepository handles economic calendar data access
type EconomicEventRepository struct {
	db *gorm.DB
}

// NewEconomicEventRepository creates a new EconomicEventRepository
func NewEconomicEventRepository(db *gorm.DB) *EconomicEventRepository {
	return &EconomicEventRepository{db: db}
}

// UpsertBatch inserts events, refreshing the figures of those already stored
// for the same date, currency and event name
func (r *EconomicEventRepository) UpsertBatch(events []models.EconomicEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "currency"}, {Name: "event"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"impact", "forecast", "previous", "actual", "source", "last_updated",
		}),
	}).CreateInBatches(events, 100).Error
}

// List retrieves events in [From, To] ordered by date
func (r *EconomicEventRepository) List(f EventFilter) ([]models.EconomicEvent, error) {
	var events []models.EconomicEvent
	q := r.db.Where("date >= ? AND date <= ?", f.From, f.To)
	if len(f.Currencies) > 0 {
		q = q.Where("currency IN ?", f.Currencies)
	}
	if f.Impact != "" {
		q = q.Where("impact = ?", f.Impact)
	}
	if err := q.Order("date ASC").Order("currency ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteBefore removes events dated before cutoff
func (r *EconomicEventRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("date < ?", cutoff).Delete(&models.EconomicEvent{})
	return result.RowsAffected, result.Error
}
