package models

import (
	"time"
)

// Impact is the expected market impact of an economic release
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// EconomicEvent is one scheduled release on the economic calendar
type EconomicEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"not null;uniqueIndex:idx_event_unique,priority:1;index" json:"date"`
	Currency    string    `gorm:"size:3;not null;uniqueIndex:idx_event_unique,priority:2" json:"currency"`
	Event       string    `gorm:"size:200;not null;uniqueIndex:idx_event_unique,priority:3" json:"event"`
	Impact      Impact    `gorm:"size:10;not null" json:"impact"`
	Forecast    string    `gorm:"size:50" json:"forecast,omitempty"`
	Previous    string    `gorm:"size:50" json:"previous,omitempty"`
	Actual      string    `gorm:"size:50" json:"actual,omitempty"`
	Source      string    `gorm:"size:20;not null" json:"source"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for EconomicEvent model
func (EconomicEvent) TableName() string {
	return "economic_events"
}
