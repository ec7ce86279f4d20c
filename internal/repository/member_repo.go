package repository

import (
	"context"

	"go-student-center/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByUsername(ctx context.Context, username string) (*model.Member, error)
	FindAll(ctx context.Context) ([]model.Member, error)
}

type memberRepo struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) Update(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&model.PeriodMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Member{}, "id = ?", id).Error
	})
}

func (r *memberRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) FindByUsername(ctx context.Context, username string) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) FindAll(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&members).Error
	return members, err
}
