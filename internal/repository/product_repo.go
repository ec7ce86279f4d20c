package repository

import (
	"context"
	"strings"

	"go-student-center/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows catalog listings. Order accepts stock, -stock, sale_price and -sale_price.
type ProductFilter struct {
	Query      string
	Order      string
	ActiveOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(tx *gorm.DB, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

var productOrders = map[string]string{
	"stock":       "stock ASC",
	"-stock":      "stock DESC",
	"sale_price":  "sale_price ASC",
	"-sale_price": "sale_price DESC",
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product

	query := r.db.WithContext(ctx).Model(&model.Product{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if order, ok := productOrders[filter.Order]; ok {
		query = query.Order(order)
	} else {
		query = query.Order("name ASC")
	}

	err := query.Find(&products).Error
	return products, err
}

// LockByID loads the product with SELECT ... FOR UPDATE inside tx so concurrent
// sales serialize on the stock check.
func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock runs inside tx so it joins the caller's transaction
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}
