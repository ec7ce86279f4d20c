package repository

import (
	"context"
	"errors"

	"go-student-center/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TreasuryRepository interface {
	// FindBySaleID returns nil without error when the sale has no entry.
	FindBySaleID(tx *gorm.DB, saleID uuid.UUID) (*model.TreasuryEntry, error)
	CreateTx(tx *gorm.DB, entry *model.TreasuryEntry) error
	UpdateTx(tx *gorm.DB, entry *model.TreasuryEntry) error
	DeleteBySaleID(tx *gorm.DB, saleID uuid.UUID) error
	DeleteBySaleIDs(tx *gorm.DB, saleIDs []uuid.UUID) error
	DetachEvent(tx *gorm.DB, eventID uuid.UUID) error

	Create(ctx context.Context, entry *model.TreasuryEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TreasuryEntry, error)
	// List returns entries newest first; a nil kind lists both kinds.
	List(ctx context.Context, kind *model.EntryKind) ([]model.TreasuryEntry, error)
	SumByKind(ctx context.Context, kind model.EntryKind) (decimal.Decimal, error)
}

type treasuryRepo struct {
	db *gorm.DB
}

func NewTreasuryRepo(db *gorm.DB) TreasuryRepository {
	return &treasuryRepo{db}
}

func (r *treasuryRepo) FindBySaleID(tx *gorm.DB, saleID uuid.UUID) (*model.TreasuryEntry, error) {
	var entry model.TreasuryEntry
	err := tx.First(&entry, "sale_id = ?", saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *treasuryRepo) CreateTx(tx *gorm.DB, entry *model.TreasuryEntry) error {
	return tx.Omit("Event", "Sale").Create(entry).Error
}

func (r *treasuryRepo) UpdateTx(tx *gorm.DB, entry *model.TreasuryEntry) error {
	return tx.Model(&model.TreasuryEntry{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"amount":      entry.Amount,
			"description": entry.Description,
			"event_id":    entry.EventID,
			"updated_by":  entry.UpdatedBy,
		}).Error
}

func (r *treasuryRepo) DeleteBySaleID(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Where("sale_id = ?", saleID).Delete(&model.TreasuryEntry{}).Error
}

func (r *treasuryRepo) DeleteBySaleIDs(tx *gorm.DB, saleIDs []uuid.UUID) error {
	if len(saleIDs) == 0 {
		return nil
	}
	return tx.Where("sale_id IN ?", saleIDs).Delete(&model.TreasuryEntry{}).Error
}

func (r *treasuryRepo) DetachEvent(tx *gorm.DB, eventID uuid.UUID) error {
	return tx.Model(&model.TreasuryEntry{}).Where("event_id = ?", eventID).Update("event_id", nil).Error
}

func (r *treasuryRepo) Create(ctx context.Context, entry *model.TreasuryEntry) error {
	return r.CreateTx(r.db.WithContext(ctx), entry)
}

func (r *treasuryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TreasuryEntry{}, "id = ?", id).Error
}

func (r *treasuryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TreasuryEntry, error) {
	var entry model.TreasuryEntry
	if err := r.db.WithContext(ctx).Preload("Event").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *treasuryRepo) List(ctx context.Context, kind *model.EntryKind) ([]model.TreasuryEntry, error) {
	var entries []model.TreasuryEntry

	query := r.db.WithContext(ctx).Preload("Event").Order("created_at DESC")
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	err := query.Find(&entries).Error
	return entries, err
}

func (r *treasuryRepo) SumByKind(ctx context.Context, kind model.EntryKind) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&model.TreasuryEntry{}).
		Where("kind = ?", kind).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return model.Round2(row.Total), nil
}
