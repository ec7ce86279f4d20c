package repository

import (
	"context"
	"strings"

	"go-student-center/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleFilter narrows the sales history. Order accepts sold_at, -sold_at,
// unit_sale_price and -unit_sale_price; the default is newest first.
type SaleFilter struct {
	Query         string
	PaymentMethod model.PaymentMethod
	EventID       *uuid.UUID
	Order         string
	Page          int
	Limit         int
}

// SaleTotals aggregates gross amounts over a filtered history.
type SaleTotals struct {
	Gross       decimal.Decimal `json:"gross"`
	Cash        decimal.Decimal `json:"cash"`
	MercadoPago decimal.Decimal `json:"mercado_pago"`
}

// EventGross is the gross amount sold under one event name ("" for sales without event).
type EventGross struct {
	EventName string          `json:"event_name"`
	Total     decimal.Decimal `json:"total"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	Update(tx *gorm.DB, sale *model.Sale) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	FindByEvent(tx *gorm.DB, eventID uuid.UUID) ([]model.Sale, error)
	LockByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.Sale, error)
	LockByEvent(tx *gorm.DB, eventID uuid.UUID) ([]model.Sale, error)
	DetachEvent(tx *gorm.DB, eventID uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error)
	Totals(ctx context.Context, filter SaleFilter) (*SaleTotals, error)
	GrossByEvent(ctx context.Context, filter SaleFilter) ([]EventGross, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

var saleOrders = map[string]string{
	"sold_at":          "sales.sold_at ASC",
	"-sold_at":         "sales.sold_at DESC",
	"unit_sale_price":  "sales.unit_sale_price ASC",
	"-unit_sale_price": "sales.unit_sale_price DESC",
}

const grossExpr = "COALESCE(SUM(sales.quantity * sales.unit_sale_price), 0)"

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Omit(clause.Associations).Create(sale).Error
}

// Update writes the mutable columns only; the price snapshot is never rewritten.
func (r *saleRepo) Update(tx *gorm.DB, sale *model.Sale) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"product_id":     sale.ProductID,
			"event_id":       sale.EventID,
			"quantity":       sale.Quantity,
			"payment_method": sale.PaymentMethod,
			"updated_by":     sale.UpdatedBy,
		}).Error
}

func (r *saleRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Sale{}, "id = ?", id).Error
}

func (r *saleRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByEvent(tx *gorm.DB, eventID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := tx.Where("event_id = ?", eventID).Find(&sales).Error
	return sales, err
}

// LockByProduct and LockByEvent take FOR UPDATE locks on the matching sales,
// ordered by id, before the caller locks the product or event row.
func (r *saleRepo) LockByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) LockByEvent(tx *gorm.DB, eventID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) DetachEvent(tx *gorm.DB, eventID uuid.UUID) error {
	return tx.Model(&model.Sale{}).Where("event_id = ?", eventID).Update("event_id", nil).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).Preload("Product").Preload("Event").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error) {
	var (
		sales []model.Sale
		total int64
	)

	base := r.filtered(ctx, filter)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(ctx, filter).Preload("Product").Preload("Event")
	if order, ok := saleOrders[filter.Order]; ok {
		query = query.Order(order)
	} else {
		query = query.Order(saleOrders["-sold_at"])
	}
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	err := query.Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) Totals(ctx context.Context, filter SaleFilter) (*SaleTotals, error) {
	var row struct {
		Gross       decimal.Decimal
		Cash        decimal.Decimal
		MercadoPago decimal.Decimal
	}

	err := r.filtered(ctx, filter).
		Select(grossExpr+" AS gross, "+
			"COALESCE(SUM(CASE WHEN sales.payment_method = ? THEN sales.quantity * sales.unit_sale_price ELSE 0 END), 0) AS cash, "+
			"COALESCE(SUM(CASE WHEN sales.payment_method = ? THEN sales.quantity * sales.unit_sale_price ELSE 0 END), 0) AS mercado_pago",
			model.PaymentCash, model.PaymentMercadoPago).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &SaleTotals{
		Gross:       model.Round2(row.Gross),
		Cash:        model.Round2(row.Cash),
		MercadoPago: model.Round2(row.MercadoPago),
	}, nil
}

func (r *saleRepo) GrossByEvent(ctx context.Context, filter SaleFilter) ([]EventGross, error) {
	var rows []EventGross

	err := r.filtered(ctx, filter).
		Select("COALESCE(events.name, '') AS event_name, " + grossExpr + " AS total").
		Joins("LEFT JOIN events ON events.id = sales.event_id").
		Group("events.name").
		Order("event_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Total = model.Round2(rows[i].Total)
	}
	return rows, nil
}

// filtered returns a fresh query on sales with the filter's conditions applied.
// Columns are qualified because GrossByEvent joins events.
func (r *saleRepo) filtered(ctx context.Context, filter SaleFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Sale{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		productIDs := r.db.WithContext(ctx).Model(&model.Product{}).
			Select("id").
			Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		query = query.Where("sales.product_id IN (?)", productIDs)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("sales.payment_method = ?", filter.PaymentMethod)
	}
	if filter.EventID != nil {
		query = query.Where("sales.event_id = ?", *filter.EventID)
	}

	return query
}
