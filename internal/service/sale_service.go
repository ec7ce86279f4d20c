package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, req *CreateSaleRequest, actor string) (*model.Sale, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req *UpdateSaleRequest, actor string) (*model.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID, actor string) error
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context, filter repository.SaleFilter) (*SaleHistory, error)
}

type CreateSaleRequest struct {
	ProductID     uuid.UUID           `json:"product_id" validate:"uuid_required"`
	Quantity      int                 `json:"quantity" validate:"gte=1"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required"`
	EventID       *uuid.UUID          `json:"event_id"`
}

// UpdateSaleRequest changes only the fields that are set. ClearEvent detaches
// the sale from its event and takes precedence over EventID.
type UpdateSaleRequest struct {
	ProductID     *uuid.UUID           `json:"product_id"`
	Quantity      *int                 `json:"quantity"`
	PaymentMethod *model.PaymentMethod `json:"payment_method"`
	EventID       *uuid.UUID           `json:"event_id"`
	ClearEvent    bool                 `json:"clear_event"`
}

// SaleHistory is a page of sales plus aggregates over the whole filtered set.
type SaleHistory struct {
	Sales   []model.SaleResponse    `json:"sales"`
	Count   int64                   `json:"count"`
	Totals  repository.SaleTotals   `json:"totals"`
	ByEvent []repository.EventGross `json:"by_event"`
}

type saleService struct {
	db           *gorm.DB
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	treasuryRepo repository.TreasuryRepository
	revenue      revenueKeeper
	after        committer
	logger       *zap.Logger
	now          func() time.Time
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	eventRepo repository.EventRepository,
	treasuryRepo repository.TreasuryRepository,
	hub Notifier,
	cache SummaryStore,
	logger *zap.Logger,
) SaleService {
	return &saleService{
		db:           db,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		treasuryRepo: treasuryRepo,
		revenue:      revenueKeeper{eventRepo: eventRepo, saleRepo: saleRepo},
		after:        committer{hub: hub, cache: cache, logger: logger},
		logger:       logger,
		now:          time.Now,
	}
}

func (s *saleService) CreateSale(ctx context.Context, req *CreateSaleRequest, actor string) (*model.Sale, error) {
	log := s.logger.With(zap.String("operation", "create_sale"))

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.Valid() {
		return nil, apperror.Invalid("payment_method", fmt.Sprintf("unknown payment method %q", req.PaymentMethod))
	}

	var (
		sale   *model.Sale
		change StockChange
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, req.ProductID)
		if err != nil {
			return notFoundOr(err, "product", req.ProductID)
		}
		if !product.Active {
			return &apperror.InactiveProductError{Product: product.Name}
		}
		if product.Stock < req.Quantity {
			return &apperror.InsufficientStockError{Product: product.Name, Available: product.Stock}
		}
		if req.EventID != nil {
			if _, err := s.revenue.eventRepo.LockByID(tx, *req.EventID); err != nil {
				return notFoundOr(err, "event", *req.EventID)
			}
		}

		sale = &model.Sale{
			ProductID:         product.ID,
			EventID:           req.EventID,
			Quantity:          req.Quantity,
			PaymentMethod:     req.PaymentMethod,
			UnitSalePrice:     product.SalePrice,
			UnitPurchasePrice: product.PurchasePrice,
			SoldAt:            s.now(),
		}
		sale.CreatedBy = actor
		sale.UpdatedBy = actor
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		newStock := product.Stock - req.Quantity
		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, actor); err != nil {
			return err
		}
		change = StockChange{ProductID: product.ID, Name: product.Name, Stock: newStock}

		if err := s.syncEntry(tx, sale, product.Name, actor); err != nil {
			return err
		}
		return s.revenue.recomputeAll(tx, sale.EventID)
	})
	if err != nil {
		log.Info("sale rejected", zap.Error(err))
		return nil, err
	}

	log.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product", change.Name),
		zap.Int("quantity", sale.Quantity),
		zap.Int("stock", change.Stock),
	)
	return s.finish(ctx, MsgSaleCreated, sale.ID, change)
}

// UpdateSale applies the set fields of req. Stock is checked before any write.
// Locks are taken sale first, then products, then events in byte order.
func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, req *UpdateSaleRequest, actor string) (*model.Sale, error) {
	log := s.logger.With(zap.String("operation", "update_sale"), zap.String("sale_id", id.String()))

	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, apperror.Invalid("quantity", "must be at least 1")
	}
	if req.PaymentMethod != nil && !req.PaymentMethod.Valid() {
		return nil, apperror.Invalid("payment_method", fmt.Sprintf("unknown payment method %q", *req.PaymentMethod))
	}

	var changes []StockChange

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "sale", id)
		}

		oldProductID, oldQuantity, oldEventID := sale.ProductID, sale.Quantity, sale.EventID

		newProductID := oldProductID
		if req.ProductID != nil {
			newProductID = *req.ProductID
		}
		newQuantity := oldQuantity
		if req.Quantity != nil {
			newQuantity = *req.Quantity
		}
		newEventID := oldEventID
		if req.ClearEvent {
			newEventID = nil
		} else if req.EventID != nil {
			newEventID = req.EventID
		}

		var productName string
		if newProductID == oldProductID {
			product, err := s.productRepo.LockByID(tx, oldProductID)
			if err != nil {
				return notFoundOr(err, "product", oldProductID)
			}
			delta := newQuantity - oldQuantity
			if delta > 0 && product.Stock < delta {
				return &apperror.InsufficientStockError{Product: product.Name, Available: product.Stock}
			}
			productName = product.Name
			changes = []StockChange{{ProductID: product.ID, Name: product.Name, Stock: product.Stock - delta}}
		} else {
			oldProduct, newProduct, err := s.lockPair(tx, oldProductID, newProductID)
			if err != nil {
				return err
			}
			if !newProduct.Active {
				return &apperror.InactiveProductError{Product: newProduct.Name}
			}
			if newProduct.Stock < newQuantity {
				return &apperror.InsufficientStockError{Product: newProduct.Name, Available: newProduct.Stock}
			}
			productName = newProduct.Name
			changes = []StockChange{
				{ProductID: oldProduct.ID, Name: oldProduct.Name, Stock: oldProduct.Stock + oldQuantity},
				{ProductID: newProduct.ID, Name: newProduct.Name, Stock: newProduct.Stock - newQuantity},
			}
		}

		eventSet := make(map[uuid.UUID]bool, 2)
		for _, eventID := range []*uuid.UUID{oldEventID, newEventID} {
			if eventID != nil {
				eventSet[*eventID] = true
			}
		}
		events := sortedIDs(eventSet)
		for _, eventID := range events {
			if _, err := s.revenue.eventRepo.LockByID(tx, *eventID); err != nil {
				return notFoundOr(err, "event", *eventID)
			}
		}

		sale.ProductID = newProductID
		sale.Quantity = newQuantity
		sale.EventID = newEventID
		if req.PaymentMethod != nil {
			sale.PaymentMethod = *req.PaymentMethod
		}
		sale.UpdatedBy = actor
		if err := s.saleRepo.Update(tx, sale); err != nil {
			return err
		}

		for _, c := range changes {
			if err := s.productRepo.UpdateStock(tx, c.ProductID, c.Stock, actor); err != nil {
				return err
			}
		}

		if err := s.syncEntry(tx, sale, productName, actor); err != nil {
			return err
		}
		return s.revenue.recomputeAll(tx, events...)
	})
	if err != nil {
		log.Info("sale update rejected", zap.Error(err))
		return nil, err
	}

	log.Info("sale updated", zap.Any("stock", changes))
	return s.finish(ctx, MsgSaleUpdated, id, changes...)
}

func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID, actor string) error {
	log := s.logger.With(zap.String("operation", "delete_sale"), zap.String("sale_id", id.String()))

	var (
		deleted model.Sale
		change  StockChange
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "sale", id)
		}
		deleted = *sale

		product, err := s.productRepo.LockByID(tx, sale.ProductID)
		if err != nil {
			return notFoundOr(err, "product", sale.ProductID)
		}

		newStock := product.Stock + sale.Quantity
		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, actor); err != nil {
			return err
		}
		change = StockChange{ProductID: product.ID, Name: product.Name, Stock: newStock}

		if err := s.treasuryRepo.DeleteBySaleID(tx, sale.ID); err != nil {
			return err
		}
		if err := s.saleRepo.Delete(tx, sale.ID); err != nil {
			return err
		}
		return s.revenue.recomputeAll(tx, sale.EventID)
	})
	if err != nil {
		log.Info("sale delete rejected", zap.Error(err))
		return err
	}

	log.Info("sale deleted", zap.String("product", change.Name), zap.Int("stock", change.Stock))
	s.after.committed(ctx, MsgSaleDeleted, map[string]interface{}{
		"sale_id":  deleted.ID,
		"event_id": deleted.EventID,
		"stock":    []StockChange{change},
	})
	return nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "sale", id)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, filter repository.SaleFilter) (*SaleHistory, error) {
	sales, count, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	totals, err := s.saleRepo.Totals(ctx, filter)
	if err != nil {
		return nil, err
	}
	byEvent, err := s.saleRepo.GrossByEvent(ctx, filter)
	if err != nil {
		return nil, err
	}

	history := &SaleHistory{
		Sales:   make([]model.SaleResponse, 0, len(sales)),
		Count:   count,
		Totals:  *totals,
		ByEvent: byEvent,
	}
	for i := range sales {
		history.Sales = append(history.Sales, sales[i].ToResponse())
	}
	return history, nil
}

// syncEntry creates or refreshes the income entry that mirrors the sale's profit.
func (s *saleService) syncEntry(tx *gorm.DB, sale *model.Sale, productName, actor string) error {
	description := fmt.Sprintf("Venta de %s (venta_id=%s)", productName, sale.ID)

	entry, err := s.treasuryRepo.FindBySaleID(tx, sale.ID)
	if err != nil {
		return err
	}

	if entry == nil {
		saleID := sale.ID
		entry = &model.TreasuryEntry{
			Kind:        model.EntryIncome,
			Description: description,
			Amount:      sale.Profit(),
			EventID:     sale.EventID,
			SaleID:      &saleID,
		}
		entry.CreatedBy = actor
		entry.UpdatedBy = actor
		return s.treasuryRepo.CreateTx(tx, entry)
	}

	entry.Description = description
	entry.Amount = sale.Profit()
	entry.EventID = sale.EventID
	entry.UpdatedBy = actor
	return s.treasuryRepo.UpdateTx(tx, entry)
}

// lockPair locks two distinct products in id order and returns them as (old, new).
func (s *saleService) lockPair(tx *gorm.DB, oldID, newID uuid.UUID) (*model.Product, *model.Product, error) {
	first, second := oldID, newID
	if bytes.Compare(first[:], second[:]) > 0 {
		first, second = second, first
	}

	locked := make(map[uuid.UUID]*model.Product, 2)
	for _, id := range []uuid.UUID{first, second} {
		product, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return nil, nil, notFoundOr(err, "product", id)
		}
		locked[id] = product
	}
	return locked[oldID], locked[newID], nil
}

// finish reloads the committed sale and fires the post-commit side effects.
func (s *saleService) finish(ctx context.Context, eventType string, id uuid.UUID, changes ...StockChange) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		s.after.committed(ctx, eventType, map[string]interface{}{"sale_id": id, "stock": changes})
		return nil, err
	}
	s.after.committed(ctx, eventType, map[string]interface{}{
		"sale":  sale.ToResponse(),
		"stock": changes,
	})
	return sale, nil
}
