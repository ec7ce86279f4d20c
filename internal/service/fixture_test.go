package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-student-center/internal/model"
	"go-student-center/internal/repository"
	"go-student-center/internal/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type recordingHub struct {
	mu    sync.Mutex
	types []string
}

func (h *recordingHub) Publish(eventType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, eventType)
}

func (h *recordingHub) published() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.types...)
}

type fixture struct {
	db  *gorm.DB
	ctx context.Context
	hub *recordingHub

	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	eventRepo    repository.EventRepository
	treasuryRepo repository.TreasuryRepository

	sales    SaleService
	products ProductService
	events   EventService
	treasury TreasuryService
	periods  PeriodService
	members  MemberService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	logger := zaptest.NewLogger(t)
	hub := &recordingHub{}

	f := &fixture{
		db:           db,
		ctx:          context.Background(),
		hub:          hub,
		productRepo:  repository.NewProductRepo(db),
		saleRepo:     repository.NewSaleRepo(db),
		eventRepo:    repository.NewEventRepo(db),
		treasuryRepo: repository.NewTreasuryRepo(db),
	}
	periodRepo := repository.NewPeriodRepo(db)
	memberRepo := repository.NewMemberRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	require.NoError(t, roleRepo.SeedDefaults(f.ctx))

	f.sales = NewSaleService(db, f.saleRepo, f.productRepo, f.eventRepo, f.treasuryRepo, hub, nil, logger)
	f.products = NewProductService(db, f.productRepo, f.saleRepo, f.eventRepo, f.treasuryRepo, hub, nil, logger, 10)
	f.events = NewEventService(db, f.eventRepo, periodRepo, f.saleRepo, f.treasuryRepo, nil, logger)
	f.treasury = NewTreasuryService(f.treasuryRepo, f.eventRepo, hub, nil, logger)
	f.periods = NewPeriodService(periodRepo, memberRepo, roleRepo, nil, logger)
	f.members = NewMemberService(memberRepo, roleRepo, logger)
	return f
}

func (f *fixture) product(t *testing.T, name string, stock int, purchase, sale string) *model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(f.ctx, &ProductRequest{
		Name:          name,
		Stock:         stock,
		PurchasePrice: decimal.RequireFromString(purchase),
		SalePrice:     decimal.RequireFromString(sale),
	}, "tester")
	require.NoError(t, err)
	return p
}

func (f *fixture) period(t *testing.T) *model.ManagementPeriod {
	t.Helper()
	p, err := f.periods.CreatePeriod(f.ctx, &PeriodRequest{Name: "Gestión 2026", StartDate: "2026-03-01"}, "tester")
	require.NoError(t, err)
	return p
}

func (f *fixture) event(t *testing.T, name, date string) *model.Event {
	t.Helper()
	e, err := f.events.CreateEvent(f.ctx, &EventRequest{
		Name:     name,
		Date:     date,
		PeriodID: f.period(t).ID,
	}, "tester")
	require.NoError(t, err)
	return e
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.productRepo.FindByID(f.ctx, id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) revenueOf(t *testing.T, id uuid.UUID) string {
	t.Helper()
	e, err := f.eventRepo.FindByID(f.ctx, id)
	require.NoError(t, err)
	return e.RevenueTotal.StringFixed(2)
}

func (f *fixture) entryOf(t *testing.T, saleID uuid.UUID) *model.TreasuryEntry {
	t.Helper()
	entry, err := f.treasuryRepo.FindBySaleID(f.db, saleID)
	require.NoError(t, err)
	return entry
}

func (f *fixture) countEntries(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.TreasuryEntry{}).Count(&n).Error)
	return n
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func intPtr(v int) *int { return &v }
