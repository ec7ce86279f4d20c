package repository

import (
	"context"
	"time"

	"go-student-center/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardStats is the overview shown on the home panel
type DashboardStats struct {
	TotalEvents   int64           `json:"total_events"`
	TotalSales    int64           `json:"total_sales"`
	Gross         decimal.Decimal `json:"gross"`
	Net           decimal.Decimal `json:"net"`
	LowStockCount int64           `json:"low_stock_count"`
}

// ProductQuantity is the number of units sold of one product
type ProductQuantity struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// DashboardRepository only reads committed state.
type DashboardRepository interface {
	GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error)
	GrossBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	TopProducts(ctx context.Context, limit int) ([]ProductQuantity, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func (r *dashboardRepo) GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Sale{}).Count(&stats.TotalSales).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("active = ? AND stock < ?", true, lowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// net = gross - cost, both from the per-sale price snapshots
	var money struct {
		Gross decimal.Decimal
		Cost  decimal.Decimal
	}
	err := db.Model(&model.Sale{}).
		Select("COALESCE(SUM(quantity * unit_sale_price), 0) AS gross, " +
			"COALESCE(SUM(quantity * unit_purchase_price), 0) AS cost").
		Scan(&money).Error
	if err != nil {
		return nil, err
	}
	stats.Gross = model.Round2(money.Gross)
	stats.Net = model.Round2(money.Gross.Sub(money.Cost))

	return &stats, nil
}

// GrossBetween sums quantity × unit sale price for sales in [start, end).
func (r *dashboardRepo) GrossBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sold_at >= ? AND sold_at < ?", start, end).
		Select("COALESCE(SUM(quantity * unit_sale_price), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return model.Round2(row.Total), nil
}

func (r *dashboardRepo) TopProducts(ctx context.Context, limit int) ([]ProductQuantity, error) {
	var rows []ProductQuantity
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("products.name AS name, SUM(sales.quantity) AS quantity").
		Joins("JOIN products ON products.id = sales.product_id").
		Group("products.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
