package service

import (
	"context"
	"fmt"
	"strings"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TreasuryService interface {
	RecordEntry(ctx context.Context, req *EntryRequest, actor string) (*model.TreasuryEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID, actor string) error
	ListIncome(ctx context.Context) (*EntryList, error)
	ListExpense(ctx context.Context) (*EntryList, error)
	Balance(ctx context.Context) (*Balance, error)
}

// EntryRequest records a manual ledger line. Sale entries are never created here.
type EntryRequest struct {
	Kind        model.EntryKind `json:"kind" validate:"required"`
	Description string          `json:"description" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	EventID     *uuid.UUID      `json:"event_id"`
}

type EntryList struct {
	Entries []model.TreasuryEntry `json:"entries"`
	Total   decimal.Decimal       `json:"total"`
}

type Balance struct {
	Income  decimal.Decimal       `json:"income"`
	Expense decimal.Decimal       `json:"expense"`
	Balance decimal.Decimal       `json:"balance"`
	Entries []model.TreasuryEntry `json:"entries"`
}

type treasuryService struct {
	treasuryRepo repository.TreasuryRepository
	eventRepo    repository.EventRepository
	after        committer
	logger       *zap.Logger
}

func NewTreasuryService(
	treasuryRepo repository.TreasuryRepository,
	eventRepo repository.EventRepository,
	hub Notifier,
	cache SummaryStore,
	logger *zap.Logger,
) TreasuryService {
	return &treasuryService{
		treasuryRepo: treasuryRepo,
		eventRepo:    eventRepo,
		after:        committer{hub: hub, cache: cache, logger: logger},
		logger:       logger,
	}
}

func (s *treasuryService) RecordEntry(ctx context.Context, req *EntryRequest, actor string) (*model.TreasuryEntry, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, apperror.Invalid("kind", fmt.Sprintf("unknown entry kind %q", req.Kind))
	}
	if req.EventID != nil {
		if _, err := s.eventRepo.FindByID(ctx, *req.EventID); err != nil {
			return nil, notFoundOr(err, "event", *req.EventID)
		}
	}

	entry := &model.TreasuryEntry{
		Kind:        req.Kind,
		Description: req.Description,
		Amount:      model.Round2(req.Amount),
		EventID:     req.EventID,
	}
	entry.CreatedBy = actor
	entry.UpdatedBy = actor

	if err := s.treasuryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("treasury entry recorded",
		zap.String("operation", "record_entry"),
		zap.String("entry_id", entry.ID.String()),
		zap.String("kind", string(entry.Kind)),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	s.after.committed(ctx, MsgTreasuryChange, entry)
	return entry, nil
}

// DeleteEntry removes a manual entry. Entries generated by a sale follow the sale.
func (s *treasuryService) DeleteEntry(ctx context.Context, id uuid.UUID, actor string) error {
	entry, err := s.treasuryRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "treasury entry", id)
	}
	if entry.SaleID != nil {
		return apperror.Invalid("id", "entry belongs to a sale; edit or delete the sale instead")
	}

	if err := s.treasuryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("treasury entry deleted",
		zap.String("operation", "delete_entry"),
		zap.String("entry_id", id.String()),
		zap.String("by", actor),
	)
	s.after.committed(ctx, MsgTreasuryChange, map[string]interface{}{"deleted": id})
	return nil
}

func (s *treasuryService) ListIncome(ctx context.Context) (*EntryList, error) {
	return s.listKind(ctx, model.EntryIncome)
}

func (s *treasuryService) ListExpense(ctx context.Context) (*EntryList, error) {
	return s.listKind(ctx, model.EntryExpense)
}

func (s *treasuryService) listKind(ctx context.Context, kind model.EntryKind) (*EntryList, error) {
	entries, err := s.treasuryRepo.List(ctx, &kind)
	if err != nil {
		return nil, err
	}
	total, err := s.treasuryRepo.SumByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	return &EntryList{Entries: entries, Total: total}, nil
}

func (s *treasuryService) Balance(ctx context.Context) (*Balance, error) {
	income, err := s.treasuryRepo.SumByKind(ctx, model.EntryIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.treasuryRepo.SumByKind(ctx, model.EntryExpense)
	if err != nil {
		return nil, err
	}
	entries, err := s.treasuryRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Balance{
		Income:  income,
		Expense: expense,
		Balance: model.Round2(income.Sub(expense)),
		Entries: entries,
	}, nil
}
