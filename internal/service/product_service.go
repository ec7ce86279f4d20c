package service

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error)
	ToggleActive(ctx context.Context, id uuid.UUID, actor string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	StockReport(ctx context.Context) ([]StockLine, error)
}

// ProductRequest carries the editable catalog fields. A nil Active keeps the
// current flag on update and defaults to true on create.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=50"`
	Stock         int             `json:"stock" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gte=0"`
	Active        *bool           `json:"active"`
}

// StockLine is one row of the stock report.
type StockLine struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Stock     int             `json:"stock"`
	SalePrice decimal.Decimal `json:"sale_price"`
	LowStock  bool            `json:"low_stock"`
}

type productService struct {
	db                *gorm.DB
	productRepo       repository.ProductRepository
	saleRepo          repository.SaleRepository
	treasuryRepo      repository.TreasuryRepository
	revenue           revenueKeeper
	after             committer
	logger            *zap.Logger
	lowStockThreshold int
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	eventRepo repository.EventRepository,
	treasuryRepo repository.TreasuryRepository,
	hub Notifier,
	cache SummaryStore,
	logger *zap.Logger,
	lowStockThreshold int,
) ProductService {
	return &productService{
		db:                db,
		productRepo:       productRepo,
		saleRepo:          saleRepo,
		treasuryRepo:      treasuryRepo,
		revenue:           revenueKeeper{eventRepo: eventRepo, saleRepo: saleRepo},
		after:             committer{hub: hub, cache: cache, logger: logger},
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

func validateProduct(req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return err
	}
	if req.SalePrice.LessThan(req.PurchasePrice) {
		return apperror.Invalid("sale_price", "must not be lower than purchase_price")
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest, actor string) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:          req.Name,
		Stock:         req.Stock,
		PurchasePrice: model.Round2(req.PurchasePrice),
		SalePrice:     model.Round2(req.SalePrice),
		Active:        req.Active == nil || *req.Active,
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("operation", "create_product"),
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	s.after.committed(ctx, MsgProductChanged, product)
	return product, nil
}

// UpdateProduct edits the catalog row only. Sales keep the prices they were made at.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor string) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "product", id)
		}

		existing.Name = req.Name
		existing.Stock = req.Stock
		existing.PurchasePrice = model.Round2(req.PurchasePrice)
		existing.SalePrice = model.Round2(req.SalePrice)
		if req.Active != nil {
			existing.Active = *req.Active
		}
		existing.UpdatedBy = actor

		product = existing
		return s.productRepo.Update(tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated",
		zap.String("operation", "update_product"),
		zap.String("product_id", id.String()),
		zap.Int("stock", product.Stock),
	)
	s.after.committed(ctx, MsgProductChanged, product)
	return product, nil
}

func (s *productService) ToggleActive(ctx context.Context, id uuid.UUID, actor string) (*model.Product, error) {
	var product *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "product", id)
		}
		existing.Active = !existing.Active
		existing.UpdatedBy = actor

		product = existing
		return s.productRepo.Update(tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product toggled",
		zap.String("operation", "toggle_product"),
		zap.String("product_id", id.String()),
		zap.Bool("active", product.Active),
	)
	s.after.committed(ctx, MsgProductChanged, product)
	return product, nil
}

// DeleteProduct removes the product with its sales and their ledger entries,
// then recomputes the revenue of every event those sales belonged to.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actor string) error {
	log := s.logger.With(zap.String("operation", "delete_product"), zap.String("product_id", id.String()))

	var removedSales int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sales, err := s.saleRepo.LockByProduct(tx, id)
		if err != nil {
			return err
		}
		if _, err := s.productRepo.LockByID(tx, id); err != nil {
			return notFoundOr(err, "product", id)
		}

		saleIDs := make([]uuid.UUID, 0, len(sales))
		eventSet := make(map[uuid.UUID]bool)
		for _, sale := range sales {
			saleIDs = append(saleIDs, sale.ID)
			if sale.EventID != nil {
				eventSet[*sale.EventID] = true
			}
		}

		if err := s.treasuryRepo.DeleteBySaleIDs(tx, saleIDs); err != nil {
			return err
		}
		for _, saleID := range saleIDs {
			if err := s.saleRepo.Delete(tx, saleID); err != nil {
				return err
			}
		}
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}

		removedSales = len(saleIDs)
		return s.revenue.recomputeAll(tx, sortedIDs(eventSet)...)
	})
	if err != nil {
		log.Info("product delete rejected", zap.Error(err))
		return err
	}

	log.Info("product deleted", zap.Int("sales_removed", removedSales), zap.String("by", actor))
	s.after.committed(ctx, MsgProductDeleted, map[string]interface{}{
		"product_id":    id,
		"sales_removed": removedSales,
	})
	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, filter)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return product, nil
}

// StockReport lists active products, lowest stock first.
func (s *productService) StockReport(ctx context.Context) ([]StockLine, error) {
	products, err := s.productRepo.FindAll(ctx, repository.ProductFilter{ActiveOnly: true, Order: "stock"})
	if err != nil {
		return nil, err
	}

	lines := make([]StockLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, StockLine{
			ID:        p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			SalePrice: p.SalePrice,
			LowStock:  p.Stock < s.lowStockThreshold,
		})
	}
	return lines, nil
}

// sortedIDs returns the set in byte order so row locks are always taken in the same order.
func sortedIDs(set map[uuid.UUID]bool) []*uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	out := make([]*uuid.UUID, len(ids))
	for i := range ids {
		out[i] = &ids[i]
	}
	return out
}
