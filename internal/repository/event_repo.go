package repository

import (
	"context"

	"go-student-center/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindAll(ctx context.Context) ([]model.Event, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Event, error)
	UpdateRevenue(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit("Period").Create(event).Error
}

// Update saves the editable fields. RevenueTotal is owned by the sale lifecycle.
func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"name":        event.Name,
			"description": event.Description,
			"date":        event.Date,
			"end_date":    event.EndDate,
			"location":    event.Location,
			"period_id":   event.PeriodID,
			"updated_by":  event.UpdatedBy,
		}).Error
}

func (r *eventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Period").First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) FindAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).Preload("Period").Order("date ASC").Find(&events).Error
	return events, err
}

func (r *eventRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) UpdateRevenue(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Event{}).Where("id = ?", id).Update("revenue_total", total).Error
}

func (r *eventRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Event{}, "id = ?", id).Error
}
