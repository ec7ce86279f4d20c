package service

import (
	"bytes"
	"sync"
	"testing"

	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// lockLog records row locks in the order a transaction takes them.
type lockLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *lockLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *lockLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *lockLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

type loggedSales struct {
	repository.SaleRepository
	log *lockLog
}

func (r loggedSales) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	r.log.add("sale:" + id.String())
	return r.SaleRepository.LockByID(tx, id)
}

func (r loggedSales) LockByProduct(tx *gorm.DB, productID uuid.UUID) ([]model.Sale, error) {
	r.log.add("sales-of-product:" + productID.String())
	return r.SaleRepository.LockByProduct(tx, productID)
}

func (r loggedSales) LockByEvent(tx *gorm.DB, eventID uuid.UUID) ([]model.Sale, error) {
	r.log.add("sales-of-event:" + eventID.String())
	return r.SaleRepository.LockByEvent(tx, eventID)
}

type loggedProducts struct {
	repository.ProductRepository
	log *lockLog
}

func (r loggedProducts) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.log.add("product:" + id.String())
	return r.ProductRepository.LockByID(tx, id)
}

type loggedEvents struct {
	repository.EventRepository
	log *lockLog
}

func (r loggedEvents) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Event, error) {
	r.log.add("event:" + id.String())
	return r.EventRepository.LockByID(tx, id)
}

type loggedRepos struct {
	log      *lockLog
	sales    loggedSales
	products loggedProducts
	events   loggedEvents
}

func newLoggedRepos(f *fixture) loggedRepos {
	log := &lockLog{}
	return loggedRepos{
		log:      log,
		sales:    loggedSales{SaleRepository: f.saleRepo, log: log},
		products: loggedProducts{ProductRepository: f.productRepo, log: log},
		events:   loggedEvents{EventRepository: f.eventRepo, log: log},
	}
}

// orderedEvents returns the two events with the lower id first.
func orderedEvents(a, b *model.Event) (*model.Event, *model.Event) {
	if bytes.Compare(a.ID[:], b.ID[:]) < 0 {
		return a, b
	}
	return b, a
}

func TestUpdateSaleLocksEventsInIDOrder(t *testing.T) {
	f := newFixture(t)
	repos := newLoggedRepos(f)
	sales := NewSaleService(f.db, repos.sales, repos.products, repos.events, f.treasuryRepo, nil, nil, zaptest.NewLogger(t))

	product := f.product(t, "Empanada", 20, "1.00", "3.00")
	low, high := orderedEvents(f.event(t, "Kermesse", "2026-10-20"), f.event(t, "Peña", "2026-11-02"))

	// moving in either direction takes the event locks low then high
	for _, move := range []struct{ from, to *model.Event }{{high, low}, {low, high}} {
		sale, err := f.sales.CreateSale(f.ctx, &CreateSaleRequest{ProductID: product.ID, Quantity: 1, PaymentMethod: model.PaymentCash, EventID: &move.from.ID}, "caja")
		require.NoError(t, err)

		repos.log.reset()
		_, err = sales.UpdateSale(f.ctx, sale.ID, &UpdateSaleRequest{EventID: &move.to.ID}, "caja")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"sale:" + sale.ID.String(),
			"product:" + product.ID.String(),
			"event:" + low.ID.String(),
			"event:" + high.ID.String(),
			"event:" + low.ID.String(),
			"event:" + high.ID.String(),
		}, repos.log.all())
	}
}

func TestDeleteProductLocksSalesFirst(t *testing.T) {
	f := newFixture(t)
	repos := newLoggedRepos(f)
	products := NewProductService(f.db, repos.products, repos.sales, repos.events, f.treasuryRepo, nil, nil, zaptest.NewLogger(t), 10)

	product := f.product(t, "Gaseosa", 10, "1.00", "2.50")
	event := f.event(t, "Peña", "2026-11-02")
	_, err := f.sales.CreateSale(f.ctx, &CreateSaleRequest{ProductID: product.ID, Quantity: 2, PaymentMethod: model.PaymentCash, EventID: &event.ID}, "caja")
	require.NoError(t, err)

	require.NoError(t, products.DeleteProduct(f.ctx, product.ID, "tesorero"))

	assert.Equal(t, []string{
		"sales-of-product:" + product.ID.String(),
		"product:" + product.ID.String(),
		"event:" + event.ID.String(),
	}, repos.log.all())
	assert.Equal(t, "0.00", f.revenueOf(t, event.ID))
}

func TestDeleteEventLocksSalesFirst(t *testing.T) {
	f := newFixture(t)
	repos := newLoggedRepos(f)
	events := NewEventService(f.db, repos.events, repository.NewPeriodRepo(f.db), repos.sales, f.treasuryRepo, nil, zaptest.NewLogger(t))

	event := f.event(t, "Kermesse", "2026-10-20")

	require.NoError(t, events.DeleteEvent(f.ctx, event.ID, "tesorero"))

	assert.Equal(t, []string{
		"sales-of-event:" + event.ID.String(),
		"event:" + event.ID.String(),
	}, repos.log.all())
}
