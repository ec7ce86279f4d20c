package repository

import (
	"context"
	"errors"

	"go-student-center/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PeriodRepository interface {
	Create(ctx context.Context, period *model.ManagementPeriod) error
	Update(ctx context.Context, period *model.ManagementPeriod) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ManagementPeriod, error)
	FindAll(ctx context.Context) ([]model.ManagementPeriod, error)

	AddMembership(ctx context.Context, membership *model.PeriodMembership) error
	RemoveMembership(ctx context.Context, id uuid.UUID) error
	FindMembership(ctx context.Context, id uuid.UUID) (*model.PeriodMembership, error)
	MembershipExists(ctx context.Context, memberID uuid.UUID, roleID uint, periodID uuid.UUID) (bool, error)
	FindMemberships(ctx context.Context, periodID uuid.UUID) ([]model.PeriodMembership, error)
}

type periodRepo struct {
	db *gorm.DB
}

func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.ManagementPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) Update(ctx context.Context, period *model.ManagementPeriod) error {
	return r.db.WithContext(ctx).Save(period).Error
}

// Delete removes the period with its board and its events. Sales and treasury
// entries of those events are kept with the event reference cleared.
func (r *periodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventIDs := tx.Model(&model.Event{}).Select("id").Where("period_id = ?", id)

		if err := tx.Model(&model.Sale{}).Where("event_id IN (?)", eventIDs).Update("event_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.TreasuryEntry{}).Where("event_id IN (?)", eventIDs).Update("event_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("period_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("period_id = ?", id).Delete(&model.PeriodMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ManagementPeriod{}, "id = ?", id).Error
	})
}

func (r *periodRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ManagementPeriod, error) {
	var period model.ManagementPeriod
	if err := r.db.WithContext(ctx).First(&period, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) FindAll(ctx context.Context) ([]model.ManagementPeriod, error) {
	var periods []model.ManagementPeriod
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&periods).Error
	return periods, err
}

func (r *periodRepo) AddMembership(ctx context.Context, membership *model.PeriodMembership) error {
	return r.db.WithContext(ctx).Omit("Member", "Role", "Period").Create(membership).Error
}

func (r *periodRepo) RemoveMembership(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PeriodMembership{}, "id = ?", id).Error
}

func (r *periodRepo) FindMembership(ctx context.Context, id uuid.UUID) (*model.PeriodMembership, error) {
	var membership model.PeriodMembership
	if err := r.db.WithContext(ctx).Preload("Member").Preload("Role").First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *periodRepo) MembershipExists(ctx context.Context, memberID uuid.UUID, roleID uint, periodID uuid.UUID) (bool, error) {
	var existing model.PeriodMembership
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND role_id = ? AND period_id = ?", memberID, roleID, periodID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindMemberships lists a period's board ordered by role.
func (r *periodRepo) FindMemberships(ctx context.Context, periodID uuid.UUID) ([]model.PeriodMembership, error) {
	var memberships []model.PeriodMembership
	err := r.db.WithContext(ctx).
		Preload("Member").Preload("Role").
		Where("period_id = ?", periodID).
		Order("role_id ASC").
		Find(&memberships).Error
	return memberships, err
}
