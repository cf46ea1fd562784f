package repository

import (
	"errors"
	"strings"

	"github.com/trade-journal/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTradeNotFound  = errors.New("trade not found")
	ErrDuplicateTrade = errors.New("duplicate trade")
)

// TradeFilter narrows a trade listing. Empty fields are ignored; dates are
// inclusive YYYY-MM-DD bounds on entry_date.
type TradeFilter struct {
	Symbol    string
	Direction string
	StartDate string
	EndDate   string
}

// TradeRepository handles trade data access
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create creates a new trade
func (r *TradeRepository) Create(trade *models.Trade) error {
	if err := r.db.Create(trade).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTrade
		}
		return err
	}
	return nil
}

// GetByIDAndUserID retrieves a trade owned by the user
func (r *TradeRepository) GetByIDAndUserID(id, userID uint) (*models.Trade, error) {
	var trade models.Trade
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&trade)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, result.Error
	}
	return &trade, nil
}

func (r *TradeRepository) filtered(userID uint, f TradeFilter) *gorm.DB {
	q := r.db.Model(&models.Trade{}).Where("user_id = ?", userID)
	if f.Symbol != "" {
		q = q.Where("symbol = ?", strings.ToUpper(f.Symbol))
	}
	if f.Direction != "" {
		q = q.Where("direction = ?", strings.ToLower(f.Direction))
	}
	if f.StartDate != "" {
		q = q.Where("entry_date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("entry_date <= ?", f.EndDate)
	}
	return q
}

// ListPaginated retrieves a page of a user's trades, newest first
func (r *TradeRepository) ListPaginated(userID uint, f TradeFilter, page, pageSize int) ([]models.Trade, int64, error) {
	var trades []models.Trade
	var total int64

	// Count total
	if err := r.filtered(userID, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	offset := (page - 1) * pageSize
	result := r.filtered(userID, f).
		Order("entry_date DESC").
		Order("entry_time DESC").
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&trades)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return trades, total, nil
}

// ListAll retrieves every trade of a user matching the filter in
// chronological order
func (r *TradeRepository) ListAll(userID uint, f TradeFilter) ([]models.Trade, error) {
	var trades []models.Trade
	result := r.filtered(userID, f).
		Order("entry_date ASC").
		Order("entry_time ASC").
		Order("id ASC").
		Find(&trades)
	if result.Error != nil {
		return nil, result.Error
	}
	return trades, nil
}

// Exists reports whether the user already journaled a trade with the same
// symbol, entry date, entry time and entry price
func (r *TradeRepository) Exists(userID uint, symbol, entryDate, entryTime string, entryPrice float64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Trade{}).
		Where("user_id = ? AND symbol = ? AND entry_date = ? AND entry_time = ? AND entry_price = ?",
			userID, symbol, entryDate, entryTime, entryPrice).
		Count(&count).Error
	return count > 0, err
}

// Update saves a trade
func (r *TradeRepository) Update(trade *models.Trade) error {
	if err := r.db.Save(trade).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTrade
		}
		return err
	}
	return nil
}

// DeleteByIDAndUserID deletes a trade owned by the user
func (r *TradeRepository) DeleteByIDAndUserID(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Trade{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTradeNotFound
	}
	return nil
}

// GetTotalProfitLoss sums the user's P/L, leaving out excludeID when non-zero
func (r *TradeRepository) GetTotalProfitLoss(userID, excludeID uint) (float64, error) {
	var total struct {
		Sum float64
	}
	err := r.db.Model(&models.Trade{}).
		Select("COALESCE(SUM(profit_loss), 0) as sum").
		Where("user_id = ? AND id <> ?", userID, excludeID).
		Scan(&total).Error
	return total.Sum, err
}

// GetProfitLossOnDate sums the user's P/L for trades entered on date
func (r *TradeRepository) GetProfitLossOnDate(userID uint, date string) (float64, error) {
	var total struct {
		Sum float64
	}
	err := r.db.Model(&models.Trade{}).
		Select("COALESCE(SUM(profit_loss), 0) as sum").
		Where("user_id = ? AND entry_date = ?", userID, date).
		Scan(&total).Error
	return total.Sum, err
}

// CountByUserID counts a user's trades
func (r *TradeRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Trade{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
