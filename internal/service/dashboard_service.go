package service

import (
	"context"
	"time"

	"go-student-center/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	summaryDays        = 7
	summaryTopProducts = 5
)

type DashboardService interface {
	GetSummary(ctx context.Context) (*Summary, error)
}

// DailyGross is the gross amount sold on one calendar day.
type DailyGross struct {
	Label string          `json:"label"` // dd/mm
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type Summary struct {
	repository.DashboardStats
	Daily       []DailyGross                 `json:"daily"`
	TopProducts []repository.ProductQuantity `json:"top_products"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type dashboardService struct {
	dashboardRepo     repository.DashboardRepository
	cache             SummaryStore
	logger            *zap.Logger
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(dashboardRepo repository.DashboardRepository, cache SummaryStore, logger *zap.Logger, lowStockThreshold int) DashboardService {
	return &dashboardService{
		dashboardRepo:     dashboardRepo,
		cache:             cache,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *dashboardService) GetSummary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		ok, err := s.cache.Load(ctx, &cached)
		if err != nil {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		}
		if ok {
			return &cached, nil
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, summary); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *dashboardService) build(ctx context.Context) (*Summary, error) {
	stats, err := s.dashboardRepo.GetDashboardStats(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	now := s.now().In(centerLoc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, centerLoc)

	daily := make([]DailyGross, 0, summaryDays)
	for i := summaryDays - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		total, err := s.dashboardRepo.GrossBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		daily = append(daily, DailyGross{
			Label: start.Format("02/01"),
			Date:  start.Format("2006-01-02"),
			Total: total,
		})
	}

	top, err := s.dashboardRepo.TopProducts(ctx, summaryTopProducts)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []repository.ProductQuantity{}
	}

	return &Summary{
		DashboardStats: *stats,
		Daily:          daily,
		TopProducts:    top,
		GeneratedAt:    now,
	}, nil
}
