package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a fundraising or social occasion during which sales occur.
// RevenueTotal caches the profit-sum of the event's sales and is recomputed
// in full by the sale lifecycle on every change.
type Event struct {
	BaseModel
	Name         string            `gorm:"type:varchar(100);not null" json:"name"`
	Description  string            `gorm:"type:text" json:"description"`
	Date         time.Time         `gorm:"type:date;not null;index" json:"date"`
	EndDate      *time.Time        `gorm:"type:date" json:"end_date,omitempty"`
	Location     string            `gorm:"type:varchar(100)" json:"location"`
	PeriodID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"period_id"`
	Period       *ManagementPeriod `gorm:"constraint:OnDelete:CASCADE;" json:"period,omitempty"`
	RevenueTotal decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"revenue_total"`
}
