package service

import (
	"context"
	"testing"
	"time"

	"go-student-center/internal/cache"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 10, 14, 18, 30, 0, 0, centerLoc)

	sales := f.sales.(*saleService)
	alfajor := f.product(t, "Alfajor", 20, "5.00", "8.00")
	gaseosa := f.product(t, "Gaseosa", 5, "1.00", "2.50")
	f.event(t, "Kermesse", "2026-10-20")
	// low stock but inactive, so it is not counted
	chicle := f.product(t, "Chicle", 1, "0.10", "0.50")
	_, err := f.products.ToggleActive(f.ctx, chicle.ID, "tester")
	require.NoError(t, err)

	sell := func(at time.Time, p *model.Product, qty int) {
		sales.now = fixedClock(at)
		_, err := f.sales.CreateSale(f.ctx, &CreateSaleRequest{ProductID: p.ID, Quantity: qty, PaymentMethod: model.PaymentCash}, "caja")
		require.NoError(t, err)
	}
	sell(now.Add(-2*time.Hour), alfajor, 3)
	sell(now.AddDate(0, 0, -1), gaseosa, 2)
	// outside the seven day window
	sell(now.AddDate(0, 0, -10), alfajor, 1)
	// first instant of today
	sell(time.Date(2026, 10, 14, 0, 0, 0, 0, centerLoc), gaseosa, 1)

	svc := NewDashboardService(repository.NewDashboardRepo(f.db), nil, zaptest.NewLogger(t), 10).(*dashboardService)
	svc.now = fixedClock(now)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalEvents)
	assert.Equal(t, int64(4), summary.TotalSales)
	assert.Equal(t, "39.50", summary.Gross.StringFixed(2))
	assert.Equal(t, "16.50", summary.Net.StringFixed(2))
	assert.Equal(t, int64(1), summary.LowStockCount)

	require.Len(t, summary.Daily, 7)
	assert.Equal(t, "08/10", summary.Daily[0].Label)
	assert.Equal(t, "13/10", summary.Daily[5].Label)
	assert.Equal(t, "5.00", summary.Daily[5].Total.StringFixed(2))
	assert.Equal(t, "14/10", summary.Daily[6].Label)
	assert.Equal(t, "26.50", summary.Daily[6].Total.StringFixed(2))
	assert.Equal(t, "0.00", summary.Daily[0].Total.StringFixed(2))

	require.Len(t, summary.TopProducts, 2)
	assert.Equal(t, "Alfajor", summary.TopProducts[0].Name)
	assert.Equal(t, int64(4), summary.TopProducts[0].Quantity)
}

func TestDashboardSummaryCachedUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := newFixture(t)
	logger := zaptest.NewLogger(t)
	summaryCache := cache.NewSummaryCache(client, time.Minute, logger)

	sales := NewSaleService(f.db, f.saleRepo, f.productRepo, f.eventRepo, f.treasuryRepo, nil, summaryCache, logger)
	dashboard := NewDashboardService(repository.NewDashboardRepo(f.db), summaryCache, logger, 10)
	product := f.product(t, "Alfajor", 20, "5.00", "8.00")

	first, err := dashboard.GetSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.TotalSales)
	assert.True(t, mr.Exists("dashboard:summary"))

	// direct writes bypass invalidation, so the cached copy is served
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock", 1).Error)
	cached, err := dashboard.GetSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.LowStockCount)

	_, err = sales.CreateSale(f.ctx, &CreateSaleRequest{ProductID: product.ID, Quantity: 1, PaymentMethod: model.PaymentCash}, "caja")
	require.NoError(t, err)
	assert.False(t, mr.Exists("dashboard:summary"))

	fresh, err := dashboard.GetSummary(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.TotalSales)
	assert.Equal(t, int64(1), fresh.LowStockCount)
	assert.Equal(t, "8.00", fresh.Gross.StringFixed(2))

	hits, _ := summaryCache.Stats()
	assert.Equal(t, int64(1), hits)
}
