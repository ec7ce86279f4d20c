package service

import (
	"context"
	"errors"
	"fmt"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"
	"go-student-center/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier pushes live updates to connected clients. *ws.Hub implements it.
type Notifier interface {
	Publish(eventType string, data interface{})
}

// SummaryStore caches the dashboard summary. *cache.SummaryCache implements it.
type SummaryStore interface {
	Load(ctx context.Context, dest interface{}) (bool, error)
	Store(ctx context.Context, value interface{}) error
	Invalidate(ctx context.Context) error
}

// Live notification types
const (
	MsgSaleCreated    = "sale_created"
	MsgSaleUpdated    = "sale_updated"
	MsgSaleDeleted    = "sale_deleted"
	MsgProductChanged = "product_changed"
	MsgProductDeleted = "product_deleted"
	MsgTreasuryChange = "treasury_changed"
)

// StockChange is the stock a product was left with after a mutation.
type StockChange struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// committer runs the side effects that must only happen after a commit.
// Either dependency may be nil.
type committer struct {
	hub    Notifier
	cache  SummaryStore
	logger *zap.Logger
}

func (c committer) committed(ctx context.Context, eventType string, data interface{}) {
	c.invalidate(ctx)
	if c.hub != nil {
		c.hub.Publish(eventType, data)
	}
}

// invalidate drops the cached dashboard summary. A failure only costs freshness.
func (c committer) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return apperror.Invalid(first.FailedField, fmt.Sprintf("failed on tag '%s'", first.Tag))
	}
	return nil
}

// notFoundOr translates gorm's record-not-found into a domain NotFoundError.
func notFoundOr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(entity, id)
	}
	return err
}

// revenueKeeper owns Event.RevenueTotal: the profit-sum of the event's sales.
type revenueKeeper struct {
	eventRepo repository.EventRepository
	saleRepo  repository.SaleRepository
}

// recompute locks the event row, sums the profit of its sales as visible in tx
// and stores the result. It returns the previous and the new value.
func (k revenueKeeper) recompute(tx *gorm.DB, eventID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	event, err := k.eventRepo.LockByID(tx, eventID)
	if err != nil {
		return decimal.Zero, decimal.Zero, notFoundOr(err, "event", eventID)
	}

	sales, err := k.saleRepo.FindByEvent(tx, eventID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	total := decimal.Zero
	for i := range sales {
		total = total.Add(sales[i].Profit())
	}
	total = model.Round2(total)

	if err := k.eventRepo.UpdateRevenue(tx, eventID, total); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return event.RevenueTotal, total, nil
}

// recomputeAll recomputes each distinct non-nil event id once, in the given order.
func (k revenueKeeper) recomputeAll(tx *gorm.DB, eventIDs ...*uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(eventIDs))
	for _, id := range eventIDs {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		if _, _, err := k.recompute(tx, *id); err != nil {
			return err
		}
	}
	return nil
}
