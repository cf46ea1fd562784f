package repository

import (
	"errors"

	"github.com/trade-journal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCapitalNotFound = errors.New("capital settings not found")
)

// CapitalRepository handles capital settings data access
type CapitalRepository struct {
	db *gorm.DB
}

// NewCapitalRepository creates a new CapitalRepository
func NewCapitalRepository(db *gorm.DB) *CapitalRepository {
	return &CapitalRepository{db: db}
}

// GetByUserID retrieves the capital settings of a user
func (r *CapitalRepository) GetByUserID(userID uint) (*models.Capital, error) {
	var capital models.Capital
	result := r.db.Where("user_id = ?", userID).First(&capital)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCapitalNotFound
		}
		return nil, result.Error
	}
	return &capital, nil
}

// Upsert creates the settings row for the user or overwrites the existing one
func (r *CapitalRepository) Upsert(capital *models.Capital) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"initial_balance",
			"currency",
			"risk_per_trade_percent",
			"daily_loss_limit_percent",
			"max_drawdown_percent",
			"daily_cap_target",
			"updated_at",
		}),
	}).Create(capital).Error
}
